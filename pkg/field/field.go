package field

import (
	"fmt"
	"sync"
)

// Field is a minimal in-memory host field. Values are keyed by attribute
// name; listeners fire in registration order when Set raises the change
// signal.
type Field struct {
	id string

	mu        sync.RWMutex
	values    map[string]any
	listeners []func() error
}

// New constructs a Field with the given identity and initial values.
func New(id string, values map[string]any) *Field {
	f := &Field{
		id:     id,
		values: make(map[string]any, len(values)),
	}
	for key, value := range values {
		f.values[key] = value
	}
	return f
}

// FieldID returns the field's identity.
func (f *Field) FieldID() string {
	return f.id
}

// Snapshot returns a copy of the field's values, including its id.
func (f *Field) Snapshot() map[string]any {
	f.mu.RLock()
	defer f.mu.RUnlock()
	snapshot := make(map[string]any, len(f.values)+1)
	for key, value := range f.values {
		snapshot[key] = value
	}
	snapshot["id"] = f.id
	return snapshot
}

// Get returns the value stored under key.
func (f *Field) Get(key string) (any, bool) {
	f.mu.RLock()
	value, ok := f.values[key]
	f.mu.RUnlock()
	return value, ok
}

// Put writes a value without raising the change signal. Modifier mutations
// use Put so they never re-enter the cascade that executes them.
func (f *Field) Put(key string, value any) {
	f.mu.Lock()
	f.values[key] = value
	f.mu.Unlock()
}

// Set writes a value and raises the change signal, firing listeners in
// registration order. The first listener error aborts the remaining
// listeners and is returned to the caller.
func (f *Field) Set(key string, value any) error {
	f.Put(key, value)
	return f.Change()
}

// Change raises the change signal without a write.
func (f *Field) Change() error {
	f.mu.RLock()
	listeners := make([]func() error, len(f.listeners))
	copy(listeners, f.listeners)
	f.mu.RUnlock()

	for _, fn := range listeners {
		if fn == nil {
			continue
		}
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}

// OnFieldChange registers a change listener.
func (f *Field) OnFieldChange(fn func() error) {
	if fn == nil {
		return
	}
	f.mu.Lock()
	f.listeners = append(f.listeners, fn)
	f.mu.Unlock()
}

// Store collects fields keyed by id.
type Store struct {
	mu     sync.RWMutex
	fields map[string]*Field
}

// NewStore constructs an empty store.
func NewStore() *Store {
	return &Store{fields: make(map[string]*Field)}
}

// Create constructs and registers a field under id. Creating an id twice is
// an error; use Get to re-fetch an existing field.
func (s *Store) Create(id string, values map[string]any) (*Field, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.fields[id]; exists {
		return nil, fmt.Errorf("field: %q already exists", id)
	}
	f := New(id, values)
	s.fields[id] = f
	return f, nil
}

// Get returns the field registered under id.
func (s *Store) Get(id string) (*Field, bool) {
	s.mu.RLock()
	f, ok := s.fields[id]
	s.mu.RUnlock()
	return f, ok
}
