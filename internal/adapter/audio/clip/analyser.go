package clip

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/tejashwikalptaru/apparition/internal/domain"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
)

// MinDecibels is reported for bins with no energy.
const MinDecibels = -160.0

// DefaultSmoothing is the weight given to the previous frame.
const DefaultSmoothing = 0.8

// Analyser turns windows of time-domain samples into decibel spectra.
//
// Each call applies a Blackman window, runs a real FFT of twice the bin count,
// blends the magnitudes with the previous call and converts them to decibels.
//
// Thread-safety: not safe for concurrent use; the engine serializes access.
type Analyser struct {
	fft       *fourier.FFT
	size      int
	smoothing float64

	window    []float64
	input     []float64
	coeffs    []complex128
	magnitude []float64
}

// NewAnalyser creates an analyser producing bins magnitudes per frame.
// bins must be a power of two; smoothing must be in [0, 1).
func NewAnalyser(bins int, smoothing float64) (*Analyser, error) {
	if bins <= 0 || bins&(bins-1) != 0 {
		return nil, fmt.Errorf("spectrum bins must be a power of 2, got %d", bins)
	}
	if smoothing < 0 || smoothing >= 1 {
		return nil, fmt.Errorf("smoothing must be in [0, 1), got %g", smoothing)
	}

	size := bins * 2
	coeffs := make([]float64, size)
	for i := range coeffs {
		coeffs[i] = 1
	}
	window.Blackman(coeffs)

	return &Analyser{
		fft:       fourier.NewFFT(size),
		size:      size,
		smoothing: smoothing,
		window:    coeffs,
		input:     make([]float64, size),
		coeffs:    make([]complex128, size/2+1),
		magnitude: make([]float64, bins),
	}, nil
}

// Size returns the number of samples consumed per frame.
func (a *Analyser) Size() int {
	return a.size
}

// Bins returns the number of magnitudes per frame.
func (a *Analyser) Bins() int {
	return len(a.magnitude)
}

// Analyse computes the spectrum of samples. Shorter input is zero-padded,
// longer input is truncated to Size samples.
func (a *Analyser) Analyse(samples []float64) domain.SpectrumFrame {
	for i := range a.input {
		if i < len(samples) {
			a.input[i] = samples[i] * a.window[i]
		} else {
			a.input[i] = 0
		}
	}

	a.fft.Coefficients(a.coeffs, a.input)

	frame := make(domain.SpectrumFrame, len(a.magnitude))
	scale := 1 / float64(a.size)
	for i := range a.magnitude {
		m := cmplx.Abs(a.coeffs[i]) * scale
		a.magnitude[i] = a.smoothing*a.magnitude[i] + (1-a.smoothing)*m
		frame[i] = toDecibels(a.magnitude[i])
	}
	return frame
}

// Reset forgets the smoothing history.
func (a *Analyser) Reset() {
	clear(a.magnitude)
}

func toDecibels(m float64) float64 {
	if m <= 0 {
		return MinDecibels
	}
	return math.Max(20*math.Log10(m), MinDecibels)
}
