package service

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultFrameInterval is roughly one display refresh at 60 Hz.
const DefaultFrameInterval = time.Second / 60

// Ticker draws one frame and reports whether anything was drawn.
type Ticker interface {
	Tick() bool
}

// RenderLoop drives a Ticker at a fixed frame rate.
// After each frame that drew something, onFrame is called so the view can refresh.
type RenderLoop struct {
	logger   *slog.Logger
	renderer Ticker
	interval time.Duration
	onFrame  func()

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	wg      sync.WaitGroup

	frames atomic.Uint64
}

// NewRenderLoop creates a stopped render loop.
// A non-positive interval selects DefaultFrameInterval; onFrame may be nil.
func NewRenderLoop(logger *slog.Logger, renderer Ticker, interval time.Duration, onFrame func()) *RenderLoop {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &RenderLoop{
		logger:   logger,
		renderer: renderer,
		interval: interval,
		onFrame:  onFrame,
	}
}

// Start begins ticking until Stop is called or ctx is done.
// Starting a running loop is a no-op.
func (l *RenderLoop) Start(ctx context.Context) {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return
	}
	l.running = true
	l.stop = make(chan struct{})
	stop := l.stop
	l.wg.Add(1)
	l.mu.Unlock()

	l.logger.Debug("render loop started", slog.Duration("interval", l.interval))

	go func() {
		defer l.wg.Done()
		ticker := time.NewTicker(l.interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.frame()
			}
		}
	}()
}

func (l *RenderLoop) frame() {
	if !l.renderer.Tick() {
		return
	}
	l.frames.Add(1)
	if l.onFrame != nil {
		l.onFrame()
	}
}

// Stop halts the loop and waits for the in-flight frame to finish.
func (l *RenderLoop) Stop() {
	l.mu.Lock()
	if l.running {
		close(l.stop)
		l.running = false
	}
	l.mu.Unlock()

	l.wg.Wait()
}

// IsRunning reports whether the loop is ticking.
func (l *RenderLoop) IsRunning() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// Frames returns the number of frames that drew something.
func (l *RenderLoop) Frames() uint64 {
	return l.frames.Load()
}
