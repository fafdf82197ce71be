package cascade

import (
	"fmt"
	"sync"
)

// stateTemplate is a reusable named predicate definition. Templates are
// immutable once stored; re-registration replaces the previous entry.
type stateTemplate struct {
	engine    string
	predicate Predicate
}

// modifierTemplate is a reusable named mutation definition.
type modifierTemplate struct {
	engine string
	mutate Mutation
}

// templateRegistry stores named, reusable definitions. Issuing a template
// produces a fresh instance per element so instances never share
// subscription state.
type templateRegistry[T any] struct {
	mu      sync.RWMutex
	entries map[string]T
}

func newTemplateRegistry[T any]() *templateRegistry[T] {
	return &templateRegistry[T]{entries: make(map[string]T)}
}

// add registers or overwrites the template under name. Last write wins.
func (r *templateRegistry[T]) add(name string, entry T) {
	r.mu.Lock()
	r.entries[name] = entry
	r.mu.Unlock()
}

func (r *templateRegistry[T]) get(name string) (T, bool) {
	r.mu.RLock()
	entry, ok := r.entries[name]
	r.mu.RUnlock()
	return entry, ok
}

// instantiateState issues a new, unattached State instance for name.
func (e *Engine) instantiateState(name string) (*State, error) {
	tpl, ok := e.states.get(name)
	if !ok {
		return nil, fmt.Errorf("%w: state %q", ErrUnknownTemplate, name)
	}
	return &State{
		name:      name,
		engine:    tpl.engine,
		predicate: tpl.predicate,
	}, nil
}

// instantiateModifier issues a new, unattached Modifier instance for name.
func (e *Engine) instantiateModifier(name string) (*Modifier, error) {
	tpl, ok := e.modifiers.get(name)
	if !ok {
		return nil, fmt.Errorf("%w: modifier %q", ErrUnknownTemplate, name)
	}
	return &Modifier{
		name:   name,
		engine: tpl.engine,
		mutate: tpl.mutate,
	}, nil
}
