package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejashwikalptaru/apparition/internal/adapter/audio/mock"
	"github.com/tejashwikalptaru/apparition/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/apparition/internal/domain"
	"github.com/tejashwikalptaru/apparition/internal/logger"
	"github.com/tejashwikalptaru/apparition/internal/testutil"
)

type countingStarter struct {
	starts atomic.Int32
}

func (s *countingStarter) Start(context.Context) { s.starts.Add(1) }

// Helper to create a test interaction controller
func newTestController() (*InteractionController, *mock.Engine, *eventbus.SyncEventBus, *countingStarter, *countingStarter) {
	engine := mock.NewEngine()
	bus := eventbus.NewSyncEventBus()
	loop := &countingStarter{}
	clock := &countingStarter{}

	controller := NewInteractionController(logger.NewTestLogger(), engine, bus, loop, clock)

	return controller, engine, bus, loop, clock
}

func startedController(t *testing.T) (*InteractionController, *mock.Engine, *eventbus.SyncEventBus) {
	t.Helper()
	controller, engine, bus, _, _ := newTestController()
	require.NoError(t, controller.OnStartRequested(context.Background()))
	return controller, engine, bus
}

func TestInteractionController_InitialState(t *testing.T) {
	controller, _, bus, _, _ := newTestController()
	defer bus.Close()

	state := controller.State()
	assert.False(t, state.StartDisabled)
	assert.False(t, state.ControlsVisible)
	assert.False(t, state.EngineReady)
	assert.Equal(t, domain.PlaybackIdle, state.Playback)
	assert.Equal(t, domain.LabelStart, state.PlayLabel)
	assert.Equal(t, domain.PlaybackIdle, controller.PlaybackState())
}

func TestInteractionController_Start(t *testing.T) {
	controller, engine, bus, loop, clock := newTestController()
	defer bus.Close()
	rec := testutil.RecordEvents(bus)
	engine.SetTitle("Apparition")

	require.NoError(t, controller.OnStartRequested(context.Background()))

	state := controller.State()
	assert.True(t, state.StartDisabled)
	assert.True(t, state.ControlsVisible)
	assert.True(t, state.EngineReady)
	assert.Equal(t, domain.PlaybackIdle, state.Playback, "starting the engine does not start playback")
	assert.Equal(t, domain.DefaultEffectParameters(), state.Effects)

	assert.True(t, engine.IsInitialized())
	assert.Equal(t, domain.DefaultEffectParameters(), engine.Effects())
	assert.Equal(t, int32(1), loop.starts.Load())
	assert.Equal(t, int32(1), clock.starts.Load())

	started := rec.OfType(domain.EventEngineStarted)
	require.Len(t, started, 1)
	assert.Equal(t, "Apparition", started[0].(domain.EngineStartedEvent).Title)
}

func TestInteractionController_StartIgnoredWhileDisabled(t *testing.T) {
	controller, engine, bus, loop, _ := newTestController()
	defer bus.Close()

	require.NoError(t, controller.OnStartRequested(context.Background()))
	require.NoError(t, controller.OnStartRequested(context.Background()))

	assert.Equal(t, 1, engine.InitCalls())
	assert.Equal(t, int32(1), loop.starts.Load())
}

func TestInteractionController_StartFailureReenables(t *testing.T) {
	controller, engine, bus, loop, clock := newTestController()
	defer bus.Close()
	rec := testutil.RecordEvents(bus)
	engine.SetFailInitialize(true)

	err := controller.OnStartRequested(context.Background())
	require.Error(t, err)

	var serviceErr *domain.ServiceError
	require.True(t, errors.As(err, &serviceErr))
	var engineErr *domain.AudioEngineError
	assert.True(t, errors.As(err, &engineErr))

	state := controller.State()
	assert.False(t, state.StartDisabled, "start control is re-enabled")
	assert.False(t, state.ControlsVisible)
	assert.False(t, state.EngineReady)
	assert.Equal(t, domain.PlaybackIdle, state.Playback)
	assert.Zero(t, loop.starts.Load())
	assert.Zero(t, clock.starts.Load())
	assert.Equal(t, 1, rec.Count(domain.EventEngineStartFailed))

	// Retry succeeds once the engine recovers
	engine.SetFailInitialize(false)
	require.NoError(t, controller.OnStartRequested(context.Background()))
	assert.True(t, controller.State().EngineReady)
}

func TestInteractionController_PlayPauseBeforeStart(t *testing.T) {
	controller, _, bus, _, _ := newTestController()
	defer bus.Close()

	err := controller.OnPlayPauseClicked()
	assert.ErrorIs(t, err, domain.ErrNotInitialized)
	assert.Equal(t, domain.PlaybackIdle, controller.PlaybackState())
}

func TestInteractionController_ToggleScenario(t *testing.T) {
	controller, engine, bus := startedController(t)
	defer bus.Close()
	rec := testutil.RecordEvents(bus)

	// Idle -> Playing
	require.NoError(t, controller.OnPlayPauseClicked())
	assert.Equal(t, domain.PlaybackPlaying, controller.PlaybackState())
	assert.Equal(t, domain.LabelStop, controller.State().PlayLabel)
	assert.True(t, engine.IsStarted())

	// Playing -> Idle
	require.NoError(t, controller.OnPlayPauseClicked())
	assert.Equal(t, domain.PlaybackIdle, controller.PlaybackState())
	assert.Equal(t, domain.LabelStart, controller.State().PlayLabel)
	assert.False(t, engine.IsStarted())

	// Idle -> Playing again
	require.NoError(t, controller.OnPlayPauseClicked())
	assert.Equal(t, domain.PlaybackPlaying, controller.PlaybackState())

	events := rec.OfType(domain.EventPlaybackChanged)
	require.Len(t, events, 3)
	labels := []string{
		events[0].(domain.PlaybackChangedEvent).Label,
		events[1].(domain.PlaybackChangedEvent).Label,
		events[2].(domain.PlaybackChangedEvent).Label,
	}
	assert.Equal(t, []string{domain.LabelStop, domain.LabelStart, domain.LabelStop}, labels)
}

func TestInteractionController_PlayFailureKeepsState(t *testing.T) {
	controller, engine, bus := startedController(t)
	defer bus.Close()
	rec := testutil.RecordEvents(bus)
	engine.SetFailStart(true)

	err := controller.OnPlayPauseClicked()
	assert.ErrorIs(t, err, domain.ErrPlaybackFailed)
	assert.Equal(t, domain.PlaybackIdle, controller.PlaybackState())
	assert.Equal(t, domain.LabelStart, controller.State().PlayLabel)
	assert.Zero(t, rec.Count(domain.EventPlaybackChanged))
}

func TestInteractionController_PointerMapping(t *testing.T) {
	controller, engine, bus := startedController(t)
	defer bus.Close()
	rec := testutil.RecordEvents(bus)

	tests := []struct {
		name  string
		event domain.PointerEvent
		want  domain.EffectParameters
	}{
		{
			name:  "top left",
			event: domain.PointerEvent{X: 0, Y: 0, Width: 400, Height: 200},
			want: domain.EffectParameters{
				Tremolo: domain.TremoloParams{Wet: 0, Frequency: 1},
				Delay:   domain.DelayParams{Wet: 1, DelayTime: 3},
			},
		},
		{
			name:  "bottom right",
			event: domain.PointerEvent{X: 400, Y: 200, Width: 400, Height: 200},
			want: domain.EffectParameters{
				Tremolo: domain.TremoloParams{Wet: 1, Frequency: 11},
				Delay:   domain.DelayParams{Wet: 0, DelayTime: 0},
			},
		},
		{
			name:  "centre",
			event: domain.PointerEvent{X: 200, Y: 100, Width: 400, Height: 200},
			want: domain.EffectParameters{
				Tremolo: domain.TremoloParams{Wet: 0.5, Frequency: 6},
				Delay:   domain.DelayParams{Wet: 0.5, DelayTime: 1.5},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			controller.OnPointerMove(tt.event)

			got := controller.State().Effects
			assert.InDelta(t, tt.want.Tremolo.Wet, got.Tremolo.Wet, 1e-9)
			assert.InDelta(t, tt.want.Tremolo.Frequency, got.Tremolo.Frequency, 1e-9)
			assert.InDelta(t, tt.want.Delay.Wet, got.Delay.Wet, 1e-9)
			assert.InDelta(t, tt.want.Delay.DelayTime, got.Delay.DelayTime, 1e-9)
			assert.Equal(t, got, engine.Effects(), "engine receives the same parameters")
		})
	}

	assert.Equal(t, 3, rec.Count(domain.EventEffectsChanged))
}

func TestInteractionController_PointerIdempotent(t *testing.T) {
	controller, engine, bus := startedController(t)
	defer bus.Close()

	event := domain.PointerEvent{X: 123, Y: 45, Width: 640, Height: 480}

	controller.OnPointerMove(event)
	first := controller.State().Effects
	controller.OnPointerMove(event)

	assert.Equal(t, first, controller.State().Effects)
	assert.Equal(t, first, engine.Effects())
}

func TestInteractionController_PointerIgnoredBeforeStart(t *testing.T) {
	controller, engine, bus, _, _ := newTestController()
	defer bus.Close()
	rec := testutil.RecordEvents(bus)

	controller.OnPointerMove(domain.PointerEvent{X: 10, Y: 10, Width: 100, Height: 100})

	assert.Equal(t, domain.DefaultEffectParameters(), controller.State().Effects)
	assert.Zero(t, engine.EffectCalls())
	assert.Zero(t, rec.Count(domain.EventEffectsChanged))
}

func TestInteractionController_PointerZeroSizeIgnored(t *testing.T) {
	controller, _, bus := startedController(t)
	defer bus.Close()

	controller.OnPointerMove(domain.PointerEvent{X: 10, Y: 10, Width: 0, Height: 100})
	controller.OnPointerMove(domain.PointerEvent{X: 10, Y: 10, Width: 100, Height: -1})

	assert.Equal(t, domain.DefaultEffectParameters(), controller.State().Effects)
}

func TestInteractionController_PointerEffectFailureStillStored(t *testing.T) {
	controller, engine, bus := startedController(t)
	defer bus.Close()
	engine.SetFailEffects(true)

	controller.OnPointerMove(domain.PointerEvent{X: 100, Y: 0, Width: 100, Height: 100})

	effects := controller.State().Effects
	assert.Equal(t, 1.0, effects.Tremolo.Wet)
	assert.Equal(t, domain.DefaultEffectParameters(), engine.Effects())
}

func TestInteractionController_Shutdown(t *testing.T) {
	controller, engine, bus := startedController(t)
	defer bus.Close()

	require.NoError(t, controller.Shutdown(), "idle shutdown is a no-op")

	require.NoError(t, controller.OnPlayPauseClicked())
	require.NoError(t, controller.Shutdown())

	assert.False(t, engine.IsStarted())
	assert.Equal(t, domain.PlaybackIdle, controller.PlaybackState())
}

// The full visual pipeline: start, play, and the renderer draws mock frames.
func TestInteractionController_DrivesRenderer(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	engine := mock.NewEngine()
	bus := eventbus.NewSyncEventBus()
	defer bus.Close()

	surface := newRecordingSurface(640, 480)
	controller := NewInteractionController(logger.NewTestLogger(), engine, bus, nil, nil)
	renderer := NewFrameRenderer(logger.NewTestLogger(), engine, &stubAssets{ready: true}, controller, surface, nil)

	assert.False(t, renderer.Tick(), "idle before start")

	require.NoError(t, controller.OnStartRequested(context.Background()))
	assert.False(t, renderer.Tick(), "idle until play is clicked")

	require.NoError(t, controller.OnPlayPauseClicked())
	assert.True(t, renderer.Tick())
	assert.Equal(t, 1, surface.Clears())
	assert.NotEmpty(t, surface.images, "mock waveform peaks spawn decorations")

	require.NoError(t, controller.OnPlayPauseClicked())
	assert.False(t, renderer.Tick())
	assert.Equal(t, 1, surface.Clears(), "last frame stays on screen while idle")
}
