// Package fyne provides Fyne UI adapter implementations.
// This package implements the UI layer using the Fyne toolkit.
package fyne

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tejashwikalptaru/apparition/internal/domain"
	"github.com/tejashwikalptaru/apparition/internal/ports"
	"github.com/tejashwikalptaru/apparition/internal/service"
)

// UIView defines the interface for UI updates.
// The actual UI implementation (MainWindow) must implement this interface.
// Methods may be called from any goroutine.
type UIView interface {
	// Control updates
	SetStartEnabled(enabled bool)
	ShowControls()
	SetPlayLabel(label string)

	// Scene updates
	SetBackground(opacityA, opacityB float64)
	SetTitle(title string)

	// Notifications
	ShowError(title string, err error)
}

// Presenter coordinates between the interaction controller and the UI.
//
// Responsibilities:
// - Subscribe to events from the event bus
// - Map domain events to UI updates
// - Translate UI commands to controller calls
//
// Thread-safety: All operations are thread-safe.
type Presenter struct {
	logger     *slog.Logger
	controller *service.InteractionController
	bus        ports.EventBus
	view       UIView
	appName    string

	mu            sync.Mutex
	subscriptions []domain.SubscriptionID
	shutdownOnce  sync.Once
}

// NewPresenter creates a new presenter and syncs the view with the
// controller's current state.
func NewPresenter(
	logger *slog.Logger,
	controller *service.InteractionController,
	bus ports.EventBus,
	view UIView,
	appName string,
) *Presenter {
	p := &Presenter{
		logger:     logger,
		controller: controller,
		bus:        bus,
		view:       view,
		appName:    appName,
	}

	p.subscribeToEvents()
	p.syncInitialState()

	return p
}

// subscribeToEvents subscribes to all relevant events from the event bus.
func (p *Presenter) subscribeToEvents() {
	subscriptions := map[domain.EventType]domain.EventHandler{
		domain.EventEngineStarted:     p.onEngineStarted,
		domain.EventEngineStartFailed: p.onEngineStartFailed,
		domain.EventPlaybackChanged:   p.onPlaybackChanged,
		domain.EventBackgroundToggled: p.onBackgroundToggled,
		domain.EventAssetsReady:       p.onAssetsReady,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for eventType, handler := range subscriptions {
		p.subscriptions = append(p.subscriptions, p.bus.Subscribe(eventType, handler))
	}
}

// syncInitialState makes the view reflect the controller state.
func (p *Presenter) syncInitialState() {
	state := p.controller.State()

	p.view.SetStartEnabled(!state.StartDisabled)
	if state.ControlsVisible {
		p.view.ShowControls()
	}
	p.view.SetPlayLabel(state.PlayLabel)
	p.view.SetBackground(domain.ShowA.Opacities())
	p.view.SetTitle(p.appName)
}

// Event handlers

func (p *Presenter) onEngineStarted(event domain.Event) {
	e, ok := event.(domain.EngineStartedEvent)
	if !ok {
		return
	}

	p.view.ShowControls()
	p.view.SetTitle(p.windowTitle(e.Title))
}

func (p *Presenter) onEngineStartFailed(event domain.Event) {
	e, ok := event.(domain.EngineStartFailedEvent)
	if !ok {
		return
	}

	p.view.SetStartEnabled(true)
	p.view.ShowError("Audio Error", e.Error)
}

func (p *Presenter) onPlaybackChanged(event domain.Event) {
	e, ok := event.(domain.PlaybackChangedEvent)
	if !ok {
		return
	}

	p.view.SetPlayLabel(e.Label)
}

func (p *Presenter) onBackgroundToggled(event domain.Event) {
	e, ok := event.(domain.BackgroundToggledEvent)
	if !ok {
		return
	}

	p.view.SetBackground(e.OpacityA, e.OpacityB)
}

func (p *Presenter) onAssetsReady(event domain.Event) {
	e, ok := event.(domain.AssetsReadyEvent)
	if !ok {
		return
	}

	p.logger.Info("decorations ready",
		slog.Int("loaded", e.Loaded),
		slog.Int("failed", e.Failed))
}

func (p *Presenter) windowTitle(clipTitle string) string {
	if clipTitle == "" {
		return p.appName
	}
	return fmt.Sprintf("%s - %s", p.appName, clipTitle)
}

// UI Command handlers (called by UI)

// OnStartClicked starts the audio engine. It blocks while the clip decodes, so
// views call it off the UI goroutine. Failures reach the view through events.
func (p *Presenter) OnStartClicked(ctx context.Context) {
	p.view.SetStartEnabled(false)

	if err := p.controller.OnStartRequested(ctx); err != nil {
		p.logger.Error("start failed", slog.Any("error", err))
	}
}

// OnPlayPauseClicked toggles playback.
func (p *Presenter) OnPlayPauseClicked() {
	if err := p.controller.OnPlayPauseClicked(); err != nil {
		p.logger.Error("play/pause failed", slog.Any("error", err))
		p.view.ShowError("Playback Error", err)
	}
}

// OnPointerMoved forwards a pointer position over the XY pad of the given size.
func (p *Presenter) OnPointerMoved(x, y, width, height float32) {
	p.controller.OnPointerMove(domain.PointerEvent{
		X:      float64(x),
		Y:      float64(y),
		Width:  float64(width),
		Height: float64(height),
	})
}

// Shutdown unsubscribes from the event bus.
// It's safe to call multiple times (idempotent).
func (p *Presenter) Shutdown() {
	p.shutdownOnce.Do(func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		for _, id := range p.subscriptions {
			p.bus.Unsubscribe(id)
		}
		p.subscriptions = nil
	})
}
