// Package domain defines events for the event-driven architecture.
// Events let services notify the presenter and loggers without callbacks.
package domain

import (
	"time"
)

// Event is the base interface for all events in the system.
// All events must implement this interface to be published via the event bus.
type Event interface {
	// Type returns the event type identifier
	Type() EventType

	// Timestamp returns when the event occurred
	Timestamp() time.Time
}

// EventType is a string identifier for different event types.
type EventType string

// Event type constants define all possible events in the system.
const (
	// Asset events
	EventAssetLoaded EventType = "asset.loaded"
	EventAssetFailed EventType = "asset.failed"
	EventAssetsReady EventType = "assets.ready"

	// Engine events
	EventEngineStarted     EventType = "engine.started"
	EventEngineStartFailed EventType = "engine.start_failed"

	// Transport events
	EventPlaybackChanged EventType = "playback.changed"

	// Effect events
	EventEffectsChanged EventType = "effects.changed"

	// Background events
	EventBackgroundToggled EventType = "background.toggled"
)

// EventHandler is a function that handles events.
type EventHandler func(event Event)

// SubscriptionID uniquely identifies an event subscription.
type SubscriptionID string

// baseEvent provides common event functionality.
// All concrete events should embed this struct.
type baseEvent struct {
	timestamp time.Time
}

// Timestamp returns when the event occurred.
func (e baseEvent) Timestamp() time.Time {
	return e.timestamp
}

// newBaseEvent creates a new base event with the current timestamp.
func newBaseEvent() baseEvent {
	return baseEvent{timestamp: time.Now()}
}

// AssetLoadedEvent is published when a single decorative asset loads.
type AssetLoadedEvent struct {
	baseEvent
	Name string
}

// Type returns the event type.
func (e AssetLoadedEvent) Type() EventType {
	return EventAssetLoaded
}

// NewAssetLoadedEvent creates a new AssetLoadedEvent.
func NewAssetLoadedEvent(name string) AssetLoadedEvent {
	return AssetLoadedEvent{
		baseEvent: newBaseEvent(),
		Name:      name,
	}
}

// AssetFailedEvent is published when a decorative asset fails to load.
// The failure is not fatal; the asset still counts toward pool completion.
type AssetFailedEvent struct {
	baseEvent
	Name  string
	Error error
}

// Type returns the event type.
func (e AssetFailedEvent) Type() EventType {
	return EventAssetFailed
}

// NewAssetFailedEvent creates a new AssetFailedEvent.
func NewAssetFailedEvent(name string, err error) AssetFailedEvent {
	return AssetFailedEvent{
		baseEvent: newBaseEvent(),
		Name:      name,
		Error:     err,
	}
}

// AssetsReadyEvent is published once every asset in the pool has resolved.
type AssetsReadyEvent struct {
	baseEvent
	Loaded int
	Failed int
}

// Type returns the event type.
func (e AssetsReadyEvent) Type() EventType {
	return EventAssetsReady
}

// NewAssetsReadyEvent creates a new AssetsReadyEvent.
func NewAssetsReadyEvent(loaded, failed int) AssetsReadyEvent {
	return AssetsReadyEvent{
		baseEvent: newBaseEvent(),
		Loaded:    loaded,
		Failed:    failed,
	}
}

// EngineStartedEvent is published when the audio engine initialized successfully.
type EngineStartedEvent struct {
	baseEvent
	Title string // Clip title, empty if unknown
}

// Type returns the event type.
func (e EngineStartedEvent) Type() EventType {
	return EventEngineStarted
}

// NewEngineStartedEvent creates a new EngineStartedEvent.
func NewEngineStartedEvent(title string) EngineStartedEvent {
	return EngineStartedEvent{
		baseEvent: newBaseEvent(),
		Title:     title,
	}
}

// EngineStartFailedEvent is published when the audio engine could not start.
type EngineStartFailedEvent struct {
	baseEvent
	Error error
}

// Type returns the event type.
func (e EngineStartFailedEvent) Type() EventType {
	return EventEngineStartFailed
}

// NewEngineStartFailedEvent creates a new EngineStartFailedEvent.
func NewEngineStartFailedEvent(err error) EngineStartFailedEvent {
	return EngineStartFailedEvent{
		baseEvent: newBaseEvent(),
		Error:     err,
	}
}

// PlaybackChangedEvent is published when the play/pause control flips the transport state.
type PlaybackChangedEvent struct {
	baseEvent
	State PlaybackState
	Label string
}

// Type returns the event type.
func (e PlaybackChangedEvent) Type() EventType {
	return EventPlaybackChanged
}

// NewPlaybackChangedEvent creates a new PlaybackChangedEvent.
func NewPlaybackChangedEvent(state PlaybackState, label string) PlaybackChangedEvent {
	return PlaybackChangedEvent{
		baseEvent: newBaseEvent(),
		State:     state,
		Label:     label,
	}
}

// EffectsChangedEvent is published when pointer movement updates the effect parameters.
type EffectsChangedEvent struct {
	baseEvent
	Effects EffectParameters
}

// Type returns the event type.
func (e EffectsChangedEvent) Type() EventType {
	return EventEffectsChanged
}

// NewEffectsChangedEvent creates a new EffectsChangedEvent.
func NewEffectsChangedEvent(effects EffectParameters) EffectsChangedEvent {
	return EffectsChangedEvent{
		baseEvent: newBaseEvent(),
		Effects:   effects,
	}
}

// BackgroundToggledEvent is published each time the transition clock flips.
type BackgroundToggledEvent struct {
	baseEvent
	State    BackgroundState
	OpacityA float64
	OpacityB float64
}

// Type returns the event type.
func (e BackgroundToggledEvent) Type() EventType {
	return EventBackgroundToggled
}

// NewBackgroundToggledEvent creates a new BackgroundToggledEvent.
func NewBackgroundToggledEvent(state BackgroundState) BackgroundToggledEvent {
	a, b := state.Opacities()
	return BackgroundToggledEvent{
		baseEvent: newBaseEvent(),
		State:     state,
		OpacityA:  a,
		OpacityB:  b,
	}
}
