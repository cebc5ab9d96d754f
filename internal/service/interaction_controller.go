package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tejashwikalptaru/apparition/internal/domain"
	"github.com/tejashwikalptaru/apparition/internal/ports"
)

// Starter is a background component started once the engine is ready.
type Starter interface {
	Start(ctx context.Context)
}

// InteractionController owns the application state and maps user input onto
// the audio engine: starting it, toggling playback and steering the effects.
//
// Thread-safety: all methods are safe for concurrent use. Engine calls are made
// while holding the state lock so transitions never interleave.
type InteractionController struct {
	logger *slog.Logger
	engine ports.AudioEngine
	bus    ports.EventBus

	// Started after a successful engine start
	loop  Starter
	clock Starter

	mu    sync.RWMutex
	state domain.AppState
}

// NewInteractionController creates a controller in its initial state: start
// enabled, controls hidden, idle, label "Start". loop and clock may be nil.
func NewInteractionController(
	logger *slog.Logger,
	engine ports.AudioEngine,
	bus ports.EventBus,
	loop Starter,
	clock Starter,
) *InteractionController {
	return &InteractionController{
		logger: logger,
		engine: engine,
		bus:    bus,
		loop:   loop,
		clock:  clock,
		state: domain.AppState{
			Playback:  domain.PlaybackIdle,
			PlayLabel: domain.LabelStart,
			Effects:   domain.DefaultEffectParameters(),
		},
	}
}

// OnStartRequested initializes the audio engine and reveals the controls.
//
// Requests while the start control is disabled are ignored. If the engine fails
// to initialize the start control is re-enabled so the user can retry.
func (c *InteractionController) OnStartRequested(ctx context.Context) error {
	c.mu.Lock()
	if c.state.StartDisabled {
		c.mu.Unlock()
		c.logger.Debug("start request ignored; start control disabled")
		return nil
	}
	c.state.StartDisabled = true
	c.mu.Unlock()

	c.logger.Info("starting audio engine")

	if err := c.engine.Initialize(ctx); err != nil {
		c.mu.Lock()
		c.state.StartDisabled = false
		c.mu.Unlock()

		c.logger.Error("audio engine failed to start", slog.Any("error", err))
		c.bus.Publish(domain.NewEngineStartFailedEvent(err))
		return domain.NewServiceError("InteractionController", "OnStartRequested", "engine start failed", err)
	}

	effects := domain.DefaultEffectParameters()
	c.applyEffects(effects)

	c.mu.Lock()
	c.state.ControlsVisible = true
	c.state.EngineReady = true
	c.state.Effects = effects
	c.mu.Unlock()

	if c.loop != nil {
		c.loop.Start(ctx)
	}
	if c.clock != nil {
		c.clock.Start(ctx)
	}

	title := c.engine.Title()
	c.logger.Info("audio engine started", slog.String("title", title))
	c.bus.Publish(domain.NewEngineStartedEvent(title))

	return nil
}

// OnPlayPauseClicked stops a playing clip or starts an idle one.
// The play label always names the next action.
func (c *InteractionController) OnPlayPauseClicked() error {
	c.mu.Lock()

	if !c.state.EngineReady || !c.engine.IsInitialized() {
		c.mu.Unlock()
		return domain.ErrNotInitialized
	}

	var (
		next  domain.PlaybackState
		label string
		err   error
	)
	if c.engine.IsStarted() {
		next, label = domain.PlaybackIdle, domain.LabelStart
		err = c.engine.Stop()
	} else {
		next, label = domain.PlaybackPlaying, domain.LabelStop
		err = c.engine.Start()
	}
	if err != nil {
		c.mu.Unlock()
		c.logger.Error("failed to toggle playback", slog.String("target", next.String()), slog.Any("error", err))
		return fmt.Errorf("failed to switch playback to %s: %w", next, err)
	}

	c.state.Playback = next
	c.state.PlayLabel = label
	c.mu.Unlock()

	c.logger.Debug("playback changed", slog.String("state", next.String()))
	c.bus.Publish(domain.NewPlaybackChangedEvent(next, label))

	return nil
}

// OnPointerMove maps a pointer position over the control surface onto the
// effect parameters. Moves before the engine is ready, or over a surface
// without area, are ignored. Repeating the same event yields the same result.
func (c *InteractionController) OnPointerMove(event domain.PointerEvent) {
	if event.Width <= 0 || event.Height <= 0 {
		return
	}

	c.mu.Lock()
	if !c.state.EngineReady {
		c.mu.Unlock()
		return
	}

	x := event.X / event.Width
	y := 1 - event.Y/event.Height
	effects := domain.EffectsFromPointer(x, y)

	c.applyEffects(effects)
	c.state.Effects = effects
	c.mu.Unlock()

	c.bus.Publish(domain.NewEffectsChangedEvent(effects))
}

// applyEffects pushes parameters to the engine. Failures are logged only;
// the stored parameters still follow the pointer.
func (c *InteractionController) applyEffects(effects domain.EffectParameters) {
	if err := c.engine.SetTremolo(effects.Tremolo.Wet, effects.Tremolo.Frequency); err != nil {
		c.logger.Warn("failed to update tremolo", slog.Any("error", err))
	}
	if err := c.engine.SetDelay(effects.Delay.Wet, effects.Delay.DelayTime); err != nil {
		c.logger.Warn("failed to update delay", slog.Any("error", err))
	}
}

// State returns a copy of the application state.
func (c *InteractionController) State() domain.AppState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// PlaybackState returns the current transport state.
func (c *InteractionController) PlaybackState() domain.PlaybackState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Playback
}

// Shutdown stops playback if it is running. The engine itself is owned by the caller.
func (c *InteractionController) Shutdown() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Playback != domain.PlaybackPlaying {
		return nil
	}
	c.state.Playback = domain.PlaybackIdle
	c.state.PlayLabel = domain.LabelStart
	if err := c.engine.Stop(); err != nil {
		return fmt.Errorf("failed to stop playback: %w", err)
	}
	return nil
}
