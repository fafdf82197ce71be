package cascade

import (
	"encoding/json"
	"sort"
)

// Graph is a serialisable description of the wired dependency graph:
// elements, their attached nodes and the subscription edges between them.
// Useful for debugging, auditing and asserting graph shape in tests.
type Graph struct {
	Elements []GraphElement `json:"elements"`
}

// GraphElement describes one element and its attached instances in
// attachment order.
type GraphElement struct {
	Key       string          `json:"key"`
	States    []GraphState    `json:"states,omitempty"`
	Modifiers []GraphModifier `json:"modifiers,omitempty"`
}

// GraphState lists the modifiers subscribed to a state, in subscription
// order. Duplicate edges appear as duplicate entries.
type GraphState struct {
	Name        string     `json:"name"`
	Subscribers []GraphRef `json:"subscribers,omitempty"`
}

// GraphModifier lists the states a modifier subscribes to.
type GraphModifier struct {
	Name    string     `json:"name"`
	Sources []GraphRef `json:"sources,omitempty"`
}

// GraphRef identifies an instance by owning element key and template name.
type GraphRef struct {
	Element string `json:"element"`
	Name    string `json:"name"`
}

// Graph captures the current shape of the engine's dependency graph.
// Elements are sorted by key for deterministic output; instances and edges
// keep their attachment and subscription order.
func (e *Engine) Graph() Graph {
	e.mu.RLock()
	elements := make([]*Element, 0, len(e.elements))
	for _, el := range e.elements {
		elements = append(elements, el)
	}
	e.mu.RUnlock()

	sort.Slice(elements, func(i, j int) bool {
		return elements[i].key < elements[j].key
	})

	graph := Graph{Elements: make([]GraphElement, 0, len(elements))}
	for _, el := range elements {
		entry := GraphElement{Key: el.key}
		for _, st := range el.states {
			node := GraphState{Name: st.name}
			for _, mod := range st.subscribers {
				node.Subscribers = append(node.Subscribers, GraphRef{
					Element: mod.owner.key,
					Name:    mod.name,
				})
			}
			entry.States = append(entry.States, node)
		}
		for _, mod := range el.modifiers {
			node := GraphModifier{Name: mod.name}
			for _, src := range mod.sources {
				node.Sources = append(node.Sources, GraphRef{
					Element: src.owner.key,
					Name:    src.name,
				})
			}
			entry.Modifiers = append(entry.Modifiers, node)
		}
		graph.Elements = append(graph.Elements, entry)
	}
	return graph
}

// ToJSON serialises the graph for logging or transport helpers.
func (g Graph) ToJSON() ([]byte, error) {
	type alias Graph
	return json.Marshal(alias(g))
}

// GraphFromJSON deserialises a payload previously generated via ToJSON.
func GraphFromJSON(payload []byte) (Graph, error) {
	type alias Graph
	var graph alias
	if err := json.Unmarshal(payload, &graph); err != nil {
		return Graph{}, err
	}
	return Graph(graph), nil
}
