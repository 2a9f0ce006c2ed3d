package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pantryfresh/backend/internal/domain/shared"
)

// RecordingEventHandler remembers every event it is handed
type RecordingEventHandler struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
}

// NewRecordingEventHandler creates a handler subscribed to eventTypes
func NewRecordingEventHandler(eventTypes ...string) *RecordingEventHandler {
	return &RecordingEventHandler{eventTypes: eventTypes}
}

// EventTypes implements shared.EventHandler
func (h *RecordingEventHandler) EventTypes() []string {
	return h.eventTypes
}

// Handle implements shared.EventHandler
func (h *RecordingEventHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	return h.err
}

// Handled returns a copy of the events seen so far
func (h *RecordingEventHandler) Handled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	result := make([]shared.DomainEvent, len(h.handled))
	copy(result, h.handled)
	return result
}

// OfType returns the handled events with the given type, in arrival order
func (h *RecordingEventHandler) OfType(eventType string) []shared.DomainEvent {
	var out []shared.DomainEvent
	for _, ev := range h.Handled() {
		if ev.EventType() == eventType {
			out = append(out, ev)
		}
	}
	return out
}

// SetError makes Handle fail with err
func (h *RecordingEventHandler) SetError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
}

// WaitForEvents waits until at least count events of eventType were handled
func WaitForEvents(t *testing.T, h *RecordingEventHandler, eventType string, count int, timeout time.Duration) []shared.DomainEvent {
	t.Helper()

	RequireEventually(t, func() bool {
		return len(h.OfType(eventType)) >= count
	}, timeout, 10*time.Millisecond, "waiting for %d %s events", count, eventType)
	return h.OfType(eventType)
}
