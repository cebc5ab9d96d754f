package testutil

import (
	"sync"

	"github.com/tejashwikalptaru/apparition/internal/domain"
	"github.com/tejashwikalptaru/apparition/internal/ports"
)

// EventRecorder collects every event published on a bus.
// Safe for use from the goroutines that publish.
type EventRecorder struct {
	mu     sync.Mutex
	events []domain.Event
}

// RecordEvents subscribes a new recorder to all events on bus.
func RecordEvents(bus ports.EventBus) *EventRecorder {
	r := &EventRecorder{}
	bus.SubscribeAll(func(event domain.Event) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.events = append(r.events, event)
	})
	return r
}

// Events returns a copy of the recorded events in publish order.
func (r *EventRecorder) Events() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Event(nil), r.events...)
}

// OfType returns the recorded events of the given type.
func (r *EventRecorder) OfType(eventType domain.EventType) []domain.Event {
	var out []domain.Event
	for _, e := range r.Events() {
		if e.Type() == eventType {
			out = append(out, e)
		}
	}
	return out
}

// Count returns how many events of the given type were recorded.
func (r *EventRecorder) Count(eventType domain.EventType) int {
	return len(r.OfType(eventType))
}
