package activity

import (
	"context"
	"sync"
)

// CaptureHook records events for assertions in tests.
type CaptureHook struct {
	Events []Event
	Err    error
	mu     sync.Mutex
}

// Notify records the event and returns any configured error.
func (h *CaptureHook) Notify(_ context.Context, event Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Events = append(h.Events, NormalizeEvent(event))
	return h.Err
}

// Snapshot returns a copy of the captured events.
func (h *CaptureHook) Snapshot() []Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Event(nil), h.Events...)
}

// Total sums the amounts of captured events with verb.
func (h *CaptureHook) Total(verb string) int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	var total int64
	for _, event := range h.Events {
		if event.Verb == verb {
			total += event.Amount
		}
	}
	return total
}
