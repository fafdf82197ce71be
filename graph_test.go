package cascade

import (
	"reflect"
	"testing"
)

func TestGraphDescribesElementsAndEdges(t *testing.T) {
	e := New()
	if err := e.AddState("on", boolPredicate("on")); err != nil {
		t.Fatalf("add state: %v", err)
	}
	if err := e.AddModifier("apply", putMutation("applied", true)); err != nil {
		t.Fatalf("add modifier: %v", err)
	}

	a := newFakeField("a", nil)
	b := newFakeField("b", nil)
	for i := 0; i < 2; i++ {
		if err := e.CreateRelationship(a, "on", b, "apply", false); err != nil {
			t.Fatalf("create relationship: %v", err)
		}
	}

	graph := e.Graph()
	want := Graph{
		Elements: []GraphElement{
			{
				Key: "a",
				States: []GraphState{
					{
						Name: "on",
						Subscribers: []GraphRef{
							{Element: "b", Name: "apply"},
							{Element: "b", Name: "apply"},
						},
					},
				},
			},
			{
				Key: "b",
				Modifiers: []GraphModifier{
					{
						Name: "apply",
						Sources: []GraphRef{
							{Element: "a", Name: "on"},
							{Element: "a", Name: "on"},
						},
					},
				},
			},
		},
	}
	if !reflect.DeepEqual(graph, want) {
		t.Fatalf("unexpected graph:\n got %+v\nwant %+v", graph, want)
	}
}

func TestGraphJSONRoundTrip(t *testing.T) {
	e := New()
	if err := e.AddState("on", boolPredicate("on")); err != nil {
		t.Fatalf("add state: %v", err)
	}
	if err := e.AddModifier("apply", putMutation("applied", true)); err != nil {
		t.Fatalf("add modifier: %v", err)
	}
	a := newFakeField("a", nil)
	b := newFakeField("b", nil)
	if err := e.CreateRelationship(a, "on", b, "apply", false); err != nil {
		t.Fatalf("create relationship: %v", err)
	}

	graph := e.Graph()
	payload, err := graph.ToJSON()
	if err != nil {
		t.Fatalf("to json: %v", err)
	}
	restored, err := GraphFromJSON(payload)
	if err != nil {
		t.Fatalf("from json: %v", err)
	}
	if !reflect.DeepEqual(graph, restored) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", restored, graph)
	}
}

func TestGraphFromJSONRejectsMalformedPayload(t *testing.T) {
	if _, err := GraphFromJSON([]byte("{not json")); err == nil {
		t.Fatalf("expected unmarshal error")
	}
}
