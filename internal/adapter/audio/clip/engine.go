package clip

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/tejashwikalptaru/apparition/internal/domain"
	"github.com/tejashwikalptaru/apparition/internal/ports"
)

// Player is a sink pulling PCM from a reader once playing.
type Player interface {
	Play()
	Pause()
	IsPlaying() bool
	Close() error
}

// Output creates players for signed 16-bit little-endian interleaved PCM.
type Output interface {
	NewPlayer(r io.Reader) Player
}

// OutputFactory opens an audio output for the given format.
// It may block until the device is ready or ctx is done.
type OutputFactory func(ctx context.Context, sampleRate, channels int) (Output, error)

// Config configures the clip engine.
type Config struct {
	Path         string
	SpectrumBins int
	WaveformSize int
	Smoothing    float64
}

// Engine plays a decoded clip in a loop and analyses the signal it plays.
// Effect parameters are recorded and reported; the signal itself is played dry.
//
// Thread-safety: This implementation is thread-safe via sync.RWMutex.
type Engine struct {
	logger *slog.Logger
	config Config
	open   OutputFactory

	mu          sync.RWMutex
	initialized bool
	clip        *Clip
	output      Output
	looper      *Looper
	player      Player
	analyser    *Analyser
	effects     domain.EffectParameters

	// Scratch buffers guarded by analysisMu
	analysisMu sync.Mutex
	spectrumIn []float64
}

// NewEngine creates an engine that opens its output with open.
// Nothing is decoded or opened until Initialize.
func NewEngine(logger *slog.Logger, config Config, open OutputFactory) *Engine {
	if config.SpectrumBins <= 0 {
		config.SpectrumBins = 256
	}
	if config.WaveformSize <= 0 {
		config.WaveformSize = 256
	}
	return &Engine{
		logger:  logger,
		config:  config,
		open:    open,
		effects: domain.DefaultEffectParameters(),
	}
}

// Initialize decodes the clip, opens the audio output and prepares the analyser.
func (e *Engine) Initialize(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.initialized {
		return domain.ErrAlreadyInitialized
	}

	analyser, err := NewAnalyser(e.config.SpectrumBins, e.config.Smoothing)
	if err != nil {
		return domain.NewAudioEngineError("initialize", e.config.Path, "invalid analyser settings", err)
	}

	clip, err := Decode(e.config.Path)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return domain.NewAudioEngineError("initialize", e.config.Path, "cancelled", err)
	}

	output, err := e.open(ctx, clip.SampleRate, Channels)
	if err != nil {
		return domain.NewAudioEngineError("initialize", e.config.Path, "cannot open audio output", err)
	}

	e.clip = clip
	e.output = output
	e.looper = NewLooper(clip)
	e.analyser = analyser
	e.spectrumIn = make([]float64, analyser.Size())
	e.initialized = true

	e.logger.Info("clip loaded",
		slog.String("path", clip.Path),
		slog.String("title", clip.Title),
		slog.Int("sample_rate", clip.SampleRate),
		slog.Duration("duration", clip.Duration()))

	return nil
}

// IsInitialized returns true if the engine is initialized.
func (e *Engine) IsInitialized() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.initialized
}

// Shutdown stops playback and releases the player.
func (e *Engine) Shutdown() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return domain.ErrNotInitialized
	}

	err := e.closePlayer()
	e.initialized = false
	e.clip = nil
	e.looper = nil
	e.output = nil

	return err
}

// Start plays the clip in a loop from its beginning.
// Starting a playing engine is a no-op.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return domain.ErrNotInitialized
	}
	if e.player != nil {
		return nil
	}

	e.looper.Rewind()
	e.player = e.output.NewPlayer(e.looper)
	if e.player == nil {
		return domain.NewAudioEngineError("start", e.clip.Path, "no player", domain.ErrPlaybackFailed)
	}
	e.player.Play()

	e.logger.Debug("clip playing")
	return nil
}

// Stop stops playback and rewinds the clip.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return domain.ErrNotInitialized
	}

	err := e.closePlayer()
	e.looper.Rewind()
	e.resetAnalysis()

	e.logger.Debug("clip stopped")
	return err
}

// closePlayer releases the current player. Caller must hold e.mu.
// A fresh player is created on each Start so no stale audio is buffered.
func (e *Engine) closePlayer() error {
	if e.player == nil {
		return nil
	}
	e.player.Pause()
	err := e.player.Close()
	e.player = nil
	if err != nil {
		return domain.NewAudioEngineError("stop", "", "cannot close player", err)
	}
	return nil
}

// IsStarted returns true while the clip is playing.
func (e *Engine) IsStarted() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.player != nil
}

// SetTremolo records the tremolo parameters.
func (e *Engine) SetTremolo(wet, frequency float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return domain.ErrNotInitialized
	}
	e.effects.Tremolo = domain.TremoloParams{Wet: wet, Frequency: frequency}
	return nil
}

// SetDelay records the delay parameters.
func (e *Engine) SetDelay(wet, delayTime float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return domain.ErrNotInitialized
	}
	e.effects.Delay = domain.DelayParams{Wet: wet, DelayTime: delayTime}
	return nil
}

// Effects returns the current effect parameters.
func (e *Engine) Effects() domain.EffectParameters {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.effects
}

// Title returns the clip title, falling back to the artist, or "".
func (e *Engine) Title() string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.clip == nil {
		return ""
	}
	if e.clip.Title != "" {
		return e.clip.Title
	}
	return e.clip.Artist
}

// Spectrum analyses the most recently played window of the clip.
// While stopped the analyser is fed silence.
func (e *Engine) Spectrum() (domain.SpectrumFrame, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.initialized {
		return nil, false
	}

	e.analysisMu.Lock()
	defer e.analysisMu.Unlock()

	if e.player != nil {
		e.looper.Recent(e.spectrumIn)
	} else {
		clear(e.spectrumIn)
	}
	return e.analyser.Analyse(e.spectrumIn), true
}

// Waveform returns the most recently played samples, or silence while stopped.
func (e *Engine) Waveform() (domain.WaveformFrame, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.initialized {
		return nil, false
	}

	samples := make([]float64, e.config.WaveformSize)
	if e.player != nil {
		e.looper.Recent(samples)
	}
	return domain.WaveformFrame(samples), true
}

// resetAnalysis clears the smoothing history. Caller must hold e.mu.
func (e *Engine) resetAnalysis() {
	e.analysisMu.Lock()
	defer e.analysisMu.Unlock()
	e.analyser.Reset()
}

// Verify that Engine implements the AnalysingEngine interface
var _ ports.AnalysingEngine = (*Engine)(nil)
