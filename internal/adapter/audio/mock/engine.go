// Package mock provides a mock implementation of the AnalysingEngine interface.
// This is used for testing services and running the UI without an audio device.
package mock

import (
	"context"
	"log/slog"
	"math"
	"sync"

	"github.com/tejashwikalptaru/apparition/internal/domain"
	"github.com/tejashwikalptaru/apparition/internal/ports"
)

// Default analysis frame sizes.
const (
	DefaultSpectrumBins = 256
	DefaultWaveformSize = 256
)

// silentDecibels is reported for every bin while the mock is stopped.
const silentDecibels = -160.0

// Engine is a mock implementation of the AnalysingEngine interface.
// It simulates playback in memory and synthesizes analysis frames: a spectrum
// that falls off towards high frequencies and a sine waveform whose phase
// advances on every read.
//
// Thread-safety: This implementation is thread-safe.
type Engine struct {
	// Dependencies
	logger *slog.Logger

	mu sync.RWMutex

	initialized bool
	started     bool
	title       string

	// Effect parameters last pushed by the controller
	tremolo domain.TremoloParams
	delay   domain.DelayParams

	// Call counters (for testing)
	initCalls   int
	effectCalls int

	// Frame overrides; nil means synthesize
	spectrum domain.SpectrumFrame
	waveform domain.WaveformFrame
	phase    float64

	// Behavior configuration (for testing error scenarios)
	failInitialize bool
	failStart      bool
	failEffects    bool
}

// NewEngine creates a new mock audio engine.
func NewEngine() *Engine {
	return &Engine{
		title: "Mock Clip",
	}
}

// SetLogger sets the logger for this engine.
// This should be called after construction before using the engine.
func (m *Engine) SetLogger(logger *slog.Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger = logger
}

// SetFailInitialize configures the mock to fail initialization (for testing).
func (m *Engine) SetFailInitialize(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failInitialize = fail
}

// SetFailStart configures the mock to fail starting playback (for testing).
func (m *Engine) SetFailStart(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failStart = fail
}

// SetFailEffects configures the mock to reject effect updates (for testing).
func (m *Engine) SetFailEffects(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failEffects = fail
}

// SetTitle sets the title reported by Title.
func (m *Engine) SetTitle(title string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.title = title
}

// SetSpectrum overrides the synthesized spectrum. Pass nil to restore synthesis.
func (m *Engine) SetSpectrum(frame domain.SpectrumFrame) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spectrum = frame
}

// SetWaveform overrides the synthesized waveform. Pass nil to restore synthesis.
func (m *Engine) SetWaveform(frame domain.WaveformFrame) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.waveform = frame
}

// Initialize initializes the mock audio engine.
func (m *Engine) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.initCalls++

	if err := ctx.Err(); err != nil {
		return domain.NewAudioEngineError("initialize", "", "context done", err)
	}
	if m.failInitialize {
		return domain.NewAudioEngineError("initialize", "", "mock initialization failed", nil)
	}
	if m.initialized {
		return domain.ErrAlreadyInitialized
	}

	m.initialized = true
	if m.logger != nil {
		m.logger.Debug("mock engine initialized")
	}

	return nil
}

// Shutdown shuts down the mock audio engine.
func (m *Engine) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return domain.ErrNotInitialized
	}

	m.initialized = false
	m.started = false

	return nil
}

// IsInitialized returns true if the engine is initialized.
func (m *Engine) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// Start simulates starting looping playback.
func (m *Engine) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return domain.ErrNotInitialized
	}
	if m.failStart {
		return domain.NewAudioEngineError("start", "", "mock start failed", domain.ErrPlaybackFailed)
	}

	m.started = true
	return nil
}

// Stop simulates stopping playback and rewinding.
func (m *Engine) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return domain.ErrNotInitialized
	}

	m.started = false
	m.phase = 0
	return nil
}

// IsStarted returns true while the mock is playing.
func (m *Engine) IsStarted() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.started
}

// SetTremolo records the tremolo parameters.
func (m *Engine) SetTremolo(wet, frequency float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return domain.ErrNotInitialized
	}
	if m.failEffects {
		return domain.NewAudioEngineError("set_tremolo", "", "mock effect update failed", nil)
	}

	m.effectCalls++
	m.tremolo = domain.TremoloParams{Wet: wet, Frequency: frequency}
	return nil
}

// SetDelay records the delay parameters.
func (m *Engine) SetDelay(wet, delayTime float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return domain.ErrNotInitialized
	}
	if m.failEffects {
		return domain.NewAudioEngineError("set_delay", "", "mock effect update failed", nil)
	}

	m.effectCalls++
	m.delay = domain.DelayParams{Wet: wet, DelayTime: delayTime}
	return nil
}

// Title returns the mock clip title.
func (m *Engine) Title() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.title
}

// Effects returns the parameters last pushed to the mock (for testing).
func (m *Engine) Effects() domain.EffectParameters {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return domain.EffectParameters{Tremolo: m.tremolo, Delay: m.delay}
}

// InitCalls returns how many times Initialize was called (for testing).
func (m *Engine) InitCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initCalls
}

// EffectCalls returns how many effect updates were accepted (for testing).
func (m *Engine) EffectCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.effectCalls
}

// Spectrum returns the current magnitude frame.
// No frame is available before Initialize. While stopped every bin is silent.
func (m *Engine) Spectrum() (domain.SpectrumFrame, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.initialized {
		return nil, false
	}
	if m.spectrum != nil {
		return append(domain.SpectrumFrame(nil), m.spectrum...), true
	}

	frame := make(domain.SpectrumFrame, DefaultSpectrumBins)
	for i := range frame {
		if !m.started {
			frame[i] = silentDecibels
			continue
		}
		// Simulate decreasing intensity at higher frequencies
		frame[i] = -20 - 100*float64(i)/float64(len(frame))
	}
	return frame, true
}

// Waveform returns the current time-domain frame.
func (m *Engine) Waveform() (domain.WaveformFrame, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return nil, false
	}
	if m.waveform != nil {
		return append(domain.WaveformFrame(nil), m.waveform...), true
	}

	frame := make(domain.WaveformFrame, DefaultWaveformSize)
	if !m.started {
		return frame, true
	}
	for i := range frame {
		frame[i] = 0.8 * math.Sin(m.phase+2*math.Pi*float64(i)/64)
	}
	m.phase = math.Mod(m.phase+0.3, 2*math.Pi)
	return frame, true
}

// Verify that Engine implements the AnalysingEngine interface
var _ ports.AnalysingEngine = (*Engine)(nil)
