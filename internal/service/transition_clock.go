package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tejashwikalptaru/apparition/internal/domain"
	"github.com/tejashwikalptaru/apparition/internal/ports"
)

// DefaultTransitionInterval is the period between background flips.
const DefaultTransitionInterval = 12 * time.Second

// TransitionClock alternates the visible background layer on a fixed period.
//
// The clock starts in ShowA and every flip publishes a BackgroundToggledEvent
// carrying the new opacities. Opacity changes are instantaneous here; any
// visual fade is applied by the view.
type TransitionClock struct {
	logger   *slog.Logger
	bus      ports.EventBus
	interval time.Duration

	mu      sync.RWMutex
	state   domain.BackgroundState
	flips   int
	running bool
	stop    chan struct{}
	wg      sync.WaitGroup
}

// NewTransitionClock creates a stopped clock in ShowA.
// A non-positive interval selects DefaultTransitionInterval.
func NewTransitionClock(logger *slog.Logger, bus ports.EventBus, interval time.Duration) *TransitionClock {
	if interval <= 0 {
		interval = DefaultTransitionInterval
	}
	return &TransitionClock{
		logger:   logger,
		bus:      bus,
		interval: interval,
		state:    domain.ShowA,
	}
}

// Start begins flipping every interval until Stop is called or ctx is done.
// Starting a running clock is a no-op.
func (c *TransitionClock) Start(ctx context.Context) {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.stop = make(chan struct{})
	stop := c.stop
	c.wg.Add(1)
	c.mu.Unlock()

	c.logger.Debug("transition clock started", slog.Duration("interval", c.interval))

	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.Flip()
			}
		}
	}()
}

// Stop halts the clock and waits for its goroutine to exit.
// The current state is kept. Stopping a stopped clock is a no-op.
func (c *TransitionClock) Stop() {
	c.mu.Lock()
	if c.running {
		close(c.stop)
		c.running = false
	}
	c.mu.Unlock()

	c.wg.Wait()
}

// Flip toggles the visible layer immediately and publishes the new state.
func (c *TransitionClock) Flip() domain.BackgroundState {
	c.mu.Lock()
	c.state = c.state.Next()
	c.flips++
	state := c.state
	c.mu.Unlock()

	c.logger.Debug("background toggled", slog.String("showing", state.String()))
	c.bus.Publish(domain.NewBackgroundToggledEvent(state))

	return state
}

// State returns the currently visible layer.
func (c *TransitionClock) State() domain.BackgroundState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Opacities returns the opacity of layer A and layer B.
func (c *TransitionClock) Opacities() (a, b float64) {
	return c.State().Opacities()
}

// Flips returns how many times the clock has flipped.
func (c *TransitionClock) Flips() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.flips
}

// IsRunning reports whether the clock is ticking.
func (c *TransitionClock) IsRunning() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.running
}
