package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejashwikalptaru/apparition/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/apparition/internal/domain"
	"github.com/tejashwikalptaru/apparition/internal/logger"
	"github.com/tejashwikalptaru/apparition/internal/testutil"
)

func newTestTransitionClock(interval time.Duration) (*TransitionClock, *eventbus.SyncEventBus) {
	bus := eventbus.NewSyncEventBus()
	return NewTransitionClock(logger.NewTestLogger(), bus, interval), bus
}

func TestTransitionClock_InitialState(t *testing.T) {
	clock, bus := newTestTransitionClock(time.Second)
	defer bus.Close()

	assert.Equal(t, domain.ShowA, clock.State())
	a, b := clock.Opacities()
	assert.Equal(t, 1.0, a)
	assert.Equal(t, 0.0, b)
	assert.False(t, clock.IsRunning())
}

func TestTransitionClock_DefaultInterval(t *testing.T) {
	clock, bus := newTestTransitionClock(0)
	defer bus.Close()

	assert.Equal(t, DefaultTransitionInterval, clock.interval)
	assert.Equal(t, 12*time.Second, DefaultTransitionInterval)
}

func TestTransitionClock_FlipAlternates(t *testing.T) {
	clock, bus := newTestTransitionClock(time.Second)
	defer bus.Close()
	rec := testutil.RecordEvents(bus)

	// State after k flips is ShowA for even k and ShowB for odd k
	for k := 1; k <= 5; k++ {
		state := clock.Flip()
		want := domain.ShowB
		if k%2 == 0 {
			want = domain.ShowA
		}
		assert.Equal(t, want, state)
		assert.Equal(t, want, clock.State())

		a, b := clock.Opacities()
		assert.Equal(t, 1.0, a+b, "exactly one layer is visible")
	}

	events := rec.OfType(domain.EventBackgroundToggled)
	require.Len(t, events, 5)
	first := events[0].(domain.BackgroundToggledEvent)
	assert.Equal(t, domain.ShowB, first.State)
	assert.Equal(t, 0.0, first.OpacityA)
	assert.Equal(t, 1.0, first.OpacityB)
	assert.Equal(t, 5, clock.Flips())
}

func TestTransitionClock_TicksWhileRunning(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	clock, bus := newTestTransitionClock(10 * time.Millisecond)
	defer bus.Close()

	clock.Start(context.Background())
	assert.True(t, clock.IsRunning())

	assert.Eventually(t, func() bool { return clock.Flips() >= 3 }, time.Second, 5*time.Millisecond)

	clock.Stop()
	assert.False(t, clock.IsRunning())

	flips := clock.Flips()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, flips, clock.Flips(), "no flips after Stop")
}

func TestTransitionClock_StartIdempotent(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	clock, bus := newTestTransitionClock(time.Hour)
	defer bus.Close()

	clock.Start(context.Background())
	clock.Start(context.Background())
	clock.Stop()
	clock.Stop()

	assert.Equal(t, 0, clock.Flips())
	assert.Equal(t, domain.ShowA, clock.State())
}

func TestTransitionClock_ContextCancelStops(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	clock, bus := newTestTransitionClock(time.Hour)
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	clock.Start(ctx)
	cancel()

	clock.Stop()
}

func TestTransitionClock_RestartKeepsState(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	clock, bus := newTestTransitionClock(time.Hour)
	defer bus.Close()

	clock.Flip()
	clock.Start(context.Background())
	clock.Stop()
	clock.Start(context.Background())
	defer clock.Stop()

	assert.Equal(t, domain.ShowB, clock.State())
}
