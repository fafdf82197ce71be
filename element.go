package cascade

import "fmt"

// Element is the singleton graph node for one host field. It owns the State
// and Modifier instances attached to that field and fans a change signal out
// to its active states. Elements live for the lifetime of the engine.
type Element struct {
	key  string
	host any

	// attachment order is significant: fan-out walks states in the order
	// they were attached.
	states          []*State
	modifiers       []*Modifier
	statesByName    map[string]*State
	modifiersByName map[string]*Modifier
}

func newElement(key string, host any) *Element {
	return &Element{
		key:             key,
		host:            host,
		statesByName:    make(map[string]*State),
		modifiersByName: make(map[string]*Modifier),
	}
}

// Key returns the resolved identity key of the element.
func (el *Element) Key() string {
	return el.key
}

// Host returns the host reference the element was resolved from.
func (el *Element) Host() any {
	return el.host
}

func (el *Element) state(name string) (*State, bool) {
	st, ok := el.statesByName[name]
	return st, ok
}

func (el *Element) modifier(name string) (*Modifier, bool) {
	mod, ok := el.modifiersByName[name]
	return mod, ok
}

func (el *Element) attachState(st *State) {
	st.owner = el
	el.states = append(el.states, st)
	el.statesByName[st.name] = st
}

func (el *Element) attachModifier(mod *Modifier) {
	mod.owner = el
	el.modifiers = append(el.modifiers, mod)
	el.modifiersByName[mod.name] = mod
}

// trigger tracks one top-level change signal through the cascade. The id is
// shared by every log and activity event the signal produces; depth counts
// cascade hops.
type trigger struct {
	id    string
	depth int
}

func (t *trigger) descend() *trigger {
	return &trigger{id: t.id, depth: t.depth + 1}
}

// fanOut evaluates the attached states in attachment order and publishes
// every active state that has at least one subscriber. It is invoked by the
// change signal and re-entered by modifier executions during a cascade.
func (el *Element) fanOut(e *Engine, t *trigger) error {
	if t.depth > e.cfg.maxDepth {
		return fmt.Errorf("%w: element %q exceeded depth %d", ErrCycleDetected, el.key, e.cfg.maxDepth)
	}
	for _, st := range el.states {
		active, err := st.evaluate(e, t)
		if err != nil {
			return err
		}
		if !active || len(st.subscribers) == 0 {
			continue
		}
		if err := st.publish(e, t); err != nil {
			return err
		}
	}
	return nil
}
