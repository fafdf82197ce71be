package cascade

import "github.com/goliatone/go-cascade/pkg/activity"

// Modifier is a per-element instance of a named mutation template. It
// executes when any subscribed state publishes, then re-enters the cascade on
// its own element.
type Modifier struct {
	name   string
	engine string
	owner  *Element
	mutate Mutation

	// states this modifier subscribes to; the reverse side of each
	// subscription edge.
	sources []*State
}

// Name returns the template name the instance was issued from.
func (m *Modifier) Name() string {
	return m.name
}

// execute applies the mutation to the owning element's host, then fans the
// owning element back out so the mutated field can itself act as a
// dependency. Mutation strictly precedes fan-out: the element's active-state
// set must reflect the post-mutation values.
func (m *Modifier) execute(e *Engine, t *trigger) error {
	if err := m.mutate(m.owner.host); err != nil {
		return &CascadeError{
			Element: m.owner.key,
			Node:    m.name,
			Phase:   PhaseMutate,
			Err:     err,
		}
	}
	e.emit(activity.BuildModifierAppliedEvent(activity.GraphEventInput{
		TriggerID: t.id,
		Element:   m.owner.key,
		Node:      m.name,
	}))
	return m.owner.fanOut(e, t.descend())
}

// subscribe wires the bidirectional edge between a state and a modifier.
// Both sides are appended together; the engine deliberately does not
// deduplicate edges.
func subscribe(st *State, mod *Modifier) {
	st.subscribers = append(st.subscribers, mod)
	mod.sources = append(mod.sources, st)
}
