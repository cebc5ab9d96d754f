// Package eventbus provides implementations of the EventBus interface.
// This package contains the synchronous event bus implementation.
package eventbus

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/tejashwikalptaru/apparition/internal/domain"
	"github.com/tejashwikalptaru/apparition/internal/ports"
)

// ErrClosed is returned by Close when the bus was already closed.
var ErrClosed = errors.New("event bus already closed")

// SyncEventBus delivers events synchronously on the publisher's goroutine,
// type-specific handlers first, then wildcard handlers, each in subscription order.
//
// Thread-safety: publishing and (un)subscribing may happen concurrently.
// Handlers run without the bus lock held, so a handler may itself publish.
type SyncEventBus struct {
	logger *slog.Logger

	mu       sync.RWMutex
	byType   map[domain.EventType][]subscription
	wildcard []subscription
	closed   bool

	nextID atomic.Uint64
}

type subscription struct {
	id      domain.SubscriptionID
	handler domain.EventHandler
}

// NewSyncEventBus creates a new synchronous event bus.
func NewSyncEventBus() *SyncEventBus {
	return &SyncEventBus{
		byType: make(map[domain.EventType][]subscription),
	}
}

// SetLogger sets the logger for this event bus.
// This should be called after construction before using the event bus.
func (bus *SyncEventBus) SetLogger(logger *slog.Logger) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.logger = logger
}

// Publish delivers event to its subscribers. Publishing on a closed bus or a nil
// event does nothing. A panicking handler is logged and does not stop delivery.
func (bus *SyncEventBus) Publish(event domain.Event) {
	if event == nil {
		return
	}

	bus.mu.RLock()
	if bus.closed {
		bus.mu.RUnlock()
		return
	}
	targets := slices.Concat(bus.byType[event.Type()], bus.wildcard)
	logger := bus.logger
	bus.mu.RUnlock()

	for _, sub := range targets {
		bus.deliver(logger, sub, event)
	}
}

func (bus *SyncEventBus) deliver(logger *slog.Logger, sub subscription, event domain.Event) {
	defer func() {
		if r := recover(); r != nil && logger != nil {
			logger.Error("event handler panicked",
				slog.Any("panic", r),
				slog.String("event_type", string(event.Type())),
				slog.String("subscription", string(sub.id)))
		}
	}()

	if logger != nil {
		logger.Debug("delivering event",
			slog.String("event_type", string(event.Type())),
			slog.String("subscription", string(sub.id)))
	}
	sub.handler(event)
}

// Subscribe registers a handler for events of the specified type.
// It panics on a nil handler or a closed bus.
func (bus *SyncEventBus) Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID {
	sub := bus.newSubscription("sub", handler)

	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.mustBeOpen()
	bus.byType[eventType] = append(bus.byType[eventType], sub)

	return sub.id
}

// SubscribeAll registers a handler that receives every event.
// It panics on a nil handler or a closed bus.
func (bus *SyncEventBus) SubscribeAll(handler domain.EventHandler) domain.SubscriptionID {
	sub := bus.newSubscription("sub-all", handler)

	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.mustBeOpen()
	bus.wildcard = append(bus.wildcard, sub)

	return sub.id
}

func (bus *SyncEventBus) newSubscription(prefix string, handler domain.EventHandler) subscription {
	if handler == nil {
		panic("event handler cannot be nil")
	}
	return subscription{
		id:      domain.SubscriptionID(fmt.Sprintf("%s-%d", prefix, bus.nextID.Add(1))),
		handler: handler,
	}
}

// mustBeOpen panics if the bus is closed. Caller must hold the write lock.
func (bus *SyncEventBus) mustBeOpen() {
	if bus.closed {
		panic("cannot subscribe to closed event bus")
	}
}

// Unsubscribe removes a subscription. Unknown IDs are ignored.
// Delivery order of the remaining subscriptions is preserved.
func (bus *SyncEventBus) Unsubscribe(id domain.SubscriptionID) {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	match := func(s subscription) bool { return s.id == id }

	for eventType, subs := range bus.byType {
		if i := slices.IndexFunc(subs, match); i >= 0 {
			bus.byType[eventType] = slices.Delete(subs, i, i+1)
			return
		}
	}
	if i := slices.IndexFunc(bus.wildcard, match); i >= 0 {
		bus.wildcard = slices.Delete(bus.wildcard, i, i+1)
	}
}

// HasSubscribers reports whether an event of the given type would reach any handler.
func (bus *SyncEventBus) HasSubscribers(eventType domain.EventType) bool {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	return len(bus.byType[eventType]) > 0 || len(bus.wildcard) > 0
}

// Close drops all subscriptions and rejects further use.
// Returns ErrClosed if already closed.
func (bus *SyncEventBus) Close() error {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	if bus.closed {
		return ErrClosed
	}
	bus.closed = true
	bus.byType = make(map[domain.EventType][]subscription)
	bus.wildcard = nil

	return nil
}

// SubscriberCount returns the number of active subscriptions for debugging.
func (bus *SyncEventBus) SubscriberCount() int {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	count := len(bus.wildcard)
	for _, subs := range bus.byType {
		count += len(subs)
	}
	return count
}

// Verify that SyncEventBus implements the EventBus interface
var _ ports.EventBus = (*SyncEventBus)(nil)
