package activity

import (
	"context"
	"sync"
)

// CaptureHook collects the events a cascade emits so tests can assert on
// verb order and trigger metadata.
type CaptureHook struct {
	Events []Event
	Err    error
	mu     sync.Mutex
}

// Notify normalizes and stores the event, returning the configured error.
func (h *CaptureHook) Notify(_ context.Context, event Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Events = append(h.Events, NormalizeEvent(event))
	return h.Err
}
