package service

import (
	"image/color"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/tejashwikalptaru/apparition/internal/domain"
	"github.com/tejashwikalptaru/apparition/internal/ports"
)

// Frame rendering constants.
const (
	// AmplitudeThreshold is the average normalized amplitude above which decorations may spawn
	AmplitudeThreshold = 0.3

	// PeakThreshold is the absolute waveform value that triggers a decoration
	PeakThreshold = 0.5

	// WaveformStride is the distance between inspected waveform samples
	WaveformStride = 20

	// Decoration size range in pixels
	MinStampSize   = 80.0
	StampSizeRange = 120.0

	// Decoration opacity range
	MinStampAlpha   = 0.6
	StampAlphaRange = 0.4

	// Spectrum line style
	LineWidth = 4.0
)

// LineColor is the stroke color of the spectrum line.
var LineColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// PlaybackStateReader exposes the transport state to the renderer.
type PlaybackStateReader interface {
	PlaybackState() domain.PlaybackState
}

// PlaybackStateFunc adapts a function to PlaybackStateReader.
type PlaybackStateFunc func() domain.PlaybackState

// PlaybackState calls f.
func (f PlaybackStateFunc) PlaybackState() domain.PlaybackState {
	return f()
}

// AssetSource provides decorative assets to the renderer.
type AssetSource interface {
	IsReady() bool
	PickRandom(rng *rand.Rand) (*domain.DecorativeAsset, bool)
}

// FrameRenderer turns spectrum and waveform frames into draw calls on a surface.
// Tick is meant to be called once per display refresh by a RenderLoop.
type FrameRenderer struct {
	logger   *slog.Logger
	sampler  ports.SpectrumSampler
	assets   AssetSource
	playback PlaybackStateReader
	surface  ports.Surface

	// Plain mode: no waveform inspection and no decorations
	decorations bool

	mu  sync.Mutex
	rng *rand.Rand
}

// NewFrameRenderer creates a renderer. rng drives every random draw decision;
// pass a seeded generator for reproducible frames.
func NewFrameRenderer(
	logger *slog.Logger,
	sampler ports.SpectrumSampler,
	assets AssetSource,
	playback PlaybackStateReader,
	surface ports.Surface,
	rng *rand.Rand,
) *FrameRenderer {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &FrameRenderer{
		logger:      logger,
		sampler:     sampler,
		assets:      assets,
		playback:    playback,
		surface:     surface,
		decorations: true,
		rng:         rng,
	}
}

// SetDecorations enables or disables decorative image spawning.
func (r *FrameRenderer) SetDecorations(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decorations = enabled
}

// Tick renders one frame. It reports whether anything was drawn.
//
// Nothing is drawn, and the surface keeps its previous content, while playback
// is idle or the sampler has no spectrum.
func (r *FrameRenderer) Tick() bool {
	if r.playback.PlaybackState() != domain.PlaybackPlaying {
		return false
	}

	spectrum, ok := r.sampler.Spectrum()
	if !ok {
		return false
	}

	r.mu.Lock()
	decorations := r.decorations
	r.mu.Unlock()

	var waveform domain.WaveformFrame
	if decorations {
		// A missing waveform just means no decorations this frame
		waveform, _ = r.sampler.Waveform()
	}

	width, height := r.surface.Size()
	plan := r.Plan(spectrum, waveform, width, height, decorations && r.assets.IsReady())

	r.surface.Clear()
	for _, stamp := range plan.Stamps {
		r.surface.DrawImage(stamp.Asset.Image, stamp.Rect, stamp.Alpha)
	}
	if len(plan.Line) > 0 {
		r.surface.StrokePolyline(plan.Line, LineWidth, LineColor)
	}

	if len(plan.Stamps) > 0 {
		r.logger.Debug("frame rendered",
			slog.Float64("avg_amplitude", plan.AvgAmplitude),
			slog.Int("stamps", len(plan.Stamps)))
	}

	return true
}

// Plan computes the draw decisions for one frame without touching a surface.
// assetsReady gates decoration spawning.
func (r *FrameRenderer) Plan(
	spectrum domain.SpectrumFrame,
	waveform domain.WaveformFrame,
	width, height float64,
	assetsReady bool,
) domain.FramePlan {
	plan := domain.FramePlan{
		AvgAmplitude: AverageAmplitude(spectrum),
	}

	// NaN (empty spectrum) never exceeds the threshold
	if assetsReady && plan.AvgAmplitude > AmplitudeThreshold {
		r.mu.Lock()
		plan.Stamps = r.planStamps(waveform, width, height)
		r.mu.Unlock()
	}

	plan.Line = SpectrumLine(spectrum, width, height)

	return plan
}

// planStamps spawns one decoration per inspected waveform peak.
// Caller must hold r.mu.
func (r *FrameRenderer) planStamps(waveform domain.WaveformFrame, width, height float64) []domain.Stamp {
	var stamps []domain.Stamp

	for i := 0; i < len(waveform); i += WaveformStride {
		w := waveform[i]
		if w <= PeakThreshold && w >= -PeakThreshold {
			continue
		}

		asset, ok := r.assets.PickRandom(r.rng)
		if !ok {
			return stamps
		}

		size := MinStampSize + r.rng.Float64()*StampSizeRange
		// Shrink to fit surfaces smaller than the chosen size
		size = math.Min(size, math.Min(width, height))
		if size < 1 {
			return stamps
		}

		stamps = append(stamps, domain.Stamp{
			Asset: asset,
			Rect: domain.Rect{
				X: r.rng.Float64() * (width - size),
				Y: r.rng.Float64() * (height - size),
				W: size,
				H: size,
			},
			Alpha: MinStampAlpha + r.rng.Float64()*StampAlphaRange,
		})
	}

	return stamps
}

// AverageAmplitude returns the arithmetic mean of the normalized magnitudes.
// An empty frame yields NaN.
func AverageAmplitude(spectrum domain.SpectrumFrame) float64 {
	if len(spectrum) == 0 {
		return math.NaN()
	}

	var sum float64
	for _, v := range spectrum {
		sum += domain.Normalize(v)
	}
	return sum / float64(len(spectrum))
}

// SpectrumLine returns one vertex per magnitude, evenly spaced across the width,
// with full scale at the top of the surface.
func SpectrumLine(spectrum domain.SpectrumFrame, width, height float64) []domain.Point {
	if len(spectrum) == 0 {
		return nil
	}

	slice := width / float64(len(spectrum))
	points := make([]domain.Point, len(spectrum))
	for i, v := range spectrum {
		points[i] = domain.Point{
			X: float64(i) * slice,
			Y: height - height*domain.Normalize(v),
		}
	}
	return points
}
