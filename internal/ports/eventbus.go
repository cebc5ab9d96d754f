// Package ports define the EventBus interface for event-driven communication.
// The event bus decouples the visualizer services from the presenter and loggers.
package ports

import (
	"github.com/tejashwikalptaru/apparition/internal/domain"
)

// EventBus is the interface for publishing and subscribing to events.
//
// Producers (asset pool, interaction controller, transition clock) do not know
// their consumers (presenter, logging).
//
// Thread-safety: Implementations must be thread-safe as events are published
// from the render loop, the transition clock and asset loader goroutines.
//
// Example usage:
//
//	// In a service: publish an event
//	bus.Publish(domain.NewBackgroundToggledEvent(domain.ShowB))
//
//	// In the presenter: subscribe to events
//	subID := bus.Subscribe(domain.EventBackgroundToggled, func(event domain.Event) {
//	    e := event.(domain.BackgroundToggledEvent)
//	    view.SetBackgroundOpacity(e.OpacityA, e.OpacityB)
//	})
//
//	// Later: unsubscribe
//	bus.Unsubscribe(subID)
type EventBus interface {
	// Publish publishes an event to all subscribers of that event type.
	// Handlers must return quickly; publishers may be on the render path.
	Publish(event domain.Event)

	// Subscribe registers a handler for events of the specified type.
	// Each subscription gets a unique SubscriptionID.
	Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID

	// Unsubscribe removes a previously registered event handler.
	// If the subscription ID is invalid or already unsubscribed, this is a no-op.
	Unsubscribe(id domain.SubscriptionID)

	// SubscribeAll registers a handler that receives all events regardless of type.
	// This is useful for logging and debugging.
	SubscribeAll(handler domain.EventHandler) domain.SubscriptionID

	// HasSubscribers returns true if there are any active subscriptions for the given event type.
	HasSubscribers(eventType domain.EventType) bool

	// Close shuts down the event bus and cleans up resources.
	Close() error
}
