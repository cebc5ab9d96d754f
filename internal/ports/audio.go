// Package ports define interfaces for dependency inversion.
// These interfaces allow the visualizer core to remain independent of external frameworks.
package ports

import (
	"context"

	"github.com/tejashwikalptaru/apparition/internal/domain"
)

// AudioEngine is the interface for the audio playback engine and its effects chain.
// This abstracts clip decoding, audio output and the tremolo/delay chain and allows
// for testing with mocks.
//
// Implementations must be thread-safe as they may be called from multiple goroutines.
type AudioEngine interface {
	// Lifecycle methods

	// Initialize opens the audio output, loads the clip and builds the effects chain.
	// It may block until the clip is decoded or ctx is done.
	//
	// Returns an error if initialization fails; the engine stays uninitialized.
	Initialize(ctx context.Context) error

	// IsInitialized returns true if the engine has been successfully initialized.
	IsInitialized() bool

	// Shutdown releases all audio engine resources.
	Shutdown() error

	// Transport methods

	// Start starts looping playback of the clip from its beginning.
	Start() error

	// Stop stops playback and rewinds the clip.
	Stop() error

	// IsStarted returns true while the clip is playing.
	IsStarted() bool

	// Effect methods

	// SetTremolo updates the tremolo wet mix (0.0-1.0) and modulation frequency in Hz.
	SetTremolo(wet, frequency float64) error

	// SetDelay updates the feedback delay wet mix (0.0-1.0) and delay time in seconds.
	SetDelay(wet, delayTime float64) error

	// Title returns the clip title from its metadata, or an empty string.
	Title() string
}

// SpectrumSampler supplies analysis frames of the signal leaving the effects chain.
// Both methods are non-blocking and return false when no data is available,
// for example before the engine is initialized.
type SpectrumSampler interface {
	// Spectrum returns the current magnitude frame in decibels.
	// The frame length is constant for a given sampler.
	Spectrum() (domain.SpectrumFrame, bool)

	// Waveform returns the current time-domain frame in [-1, 1].
	Waveform() (domain.WaveformFrame, bool)
}

// AnalysingEngine is an audio engine that also provides analysis frames.
type AnalysingEngine interface {
	AudioEngine
	SpectrumSampler
}
