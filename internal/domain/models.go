// Package domain contains core visualizer models and logic with no external dependencies.
// This package defines the fundamental entities of the Apparition visualizer.
package domain

import (
	"image"
)

// Amplitude normalization constants for spectrum magnitudes.
const (
	// DecibelFloor is the bottom of the nominal magnitude range.
	// A magnitude v normalizes to (v - DecibelFloor) / -DecibelFloor.
	DecibelFloor = -140.0
)

// SpectrumFrame is an ordered sequence of per-bin magnitudes in decibels.
// Values are nominally within [-140, 0] but out-of-range values are allowed.
// A frame is produced once per render tick and consumed read-only.
type SpectrumFrame []float64

// Normalize maps a single magnitude onto the nominal [0, 1] range.
// Values outside the nominal decibel range fall outside [0, 1]; they are not clamped.
func Normalize(v float64) float64 {
	return (v - DecibelFloor) / -DecibelFloor
}

// WaveformFrame is an ordered sequence of time-domain samples in [-1, 1].
type WaveformFrame []float64

// AssetState is the load state of a decorative asset.
type AssetState int

const (
	// AssetPending means the asset is still being loaded
	AssetPending AssetState = iota

	// AssetReady means the asset loaded successfully
	AssetReady

	// AssetFailed means loading failed; the state is terminal
	AssetFailed
)

// String returns a human-readable representation of the asset state.
func (s AssetState) String() string {
	switch s {
	case AssetPending:
		return "pending"
	case AssetReady:
		return "ready"
	case AssetFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Resolved reports whether the state is terminal.
func (s AssetState) Resolved() bool {
	return s == AssetReady || s == AssetFailed
}

// DecorativeAsset is an image overlaid on the render surface in response to audio peaks.
// Assets are created once by the asset pool and never mutated after they resolve.
type DecorativeAsset struct {
	// Name is the asset identifier (file name relative to the asset directory)
	Name string

	// State is the load state
	State AssetState

	// Image is the decoded image (nil unless State is AssetReady)
	Image image.Image

	// Err is the load error (nil unless State is AssetFailed)
	Err error
}

// PlaybackState is the transport state driven by the play/pause control.
type PlaybackState int

const (
	// PlaybackIdle means nothing is playing and the renderer draws nothing
	PlaybackIdle PlaybackState = iota

	// PlaybackPlaying means the clip is playing and frames are drawn
	PlaybackPlaying
)

// String returns a human-readable representation of the playback state.
func (s PlaybackState) String() string {
	switch s {
	case PlaybackIdle:
		return "idle"
	case PlaybackPlaying:
		return "playing"
	default:
		return "unknown"
	}
}

// Play button labels. The label names the action the button performs next.
const (
	LabelStart = "Start"
	LabelStop  = "Stop"
)

// TremoloParams are the tunable values of the tremolo effect.
type TremoloParams struct {
	// Wet is the dry/wet mix (0.0 to 1.0)
	Wet float64

	// Frequency is the modulation rate in Hz
	Frequency float64
}

// DelayParams are the tunable values of the feedback delay effect.
type DelayParams struct {
	// Wet is the dry/wet mix (0.0 to 1.0)
	Wet float64

	// DelayTime is the delay length in seconds
	DelayTime float64
}

// EffectParameters holds both effect parameter sets controlled by the XY pad.
type EffectParameters struct {
	Tremolo TremoloParams
	Delay   DelayParams
}

// DefaultEffectParameters returns the parameters the effect chain is built with.
func DefaultEffectParameters() EffectParameters {
	return EffectParameters{
		Tremolo: TremoloParams{Wet: 1, Frequency: 4},
		Delay:   DelayParams{Wet: 1, DelayTime: 0.25},
	}
}

// EffectsFromPointer derives effect parameters from a normalized pointer position.
// x runs left to right and y bottom to top, both nominally in [0, 1].
func EffectsFromPointer(x, y float64) EffectParameters {
	return EffectParameters{
		Tremolo: TremoloParams{Wet: x, Frequency: 1 + x*10},
		Delay:   DelayParams{Wet: y, DelayTime: y * 3},
	}
}

// PointerEvent is a pointer movement over the control surface.
// X and Y are in surface coordinates; Width and Height are the surface size.
type PointerEvent struct {
	X, Y          float64
	Width, Height float64
}

// BackgroundState selects which of the two background layers is visible.
type BackgroundState int

const (
	// ShowA shows the first background layer
	ShowA BackgroundState = iota

	// ShowB shows the second background layer
	ShowB
)

// String returns a human-readable representation of the background state.
func (s BackgroundState) String() string {
	if s == ShowB {
		return "B"
	}
	return "A"
}

// Next returns the opposite state.
func (s BackgroundState) Next() BackgroundState {
	if s == ShowA {
		return ShowB
	}
	return ShowA
}

// Opacities returns the opacity of layer A and layer B.
// Exactly one of them is 1 and the other is 0.
func (s BackgroundState) Opacities() (a, b float64) {
	if s == ShowB {
		return 0, 1
	}
	return 1, 0
}

// AppState is the explicit application state owned by the interaction controller.
type AppState struct {
	// StartDisabled is true while the start control ignores requests
	StartDisabled bool

	// ControlsVisible is true once the engine started and the playback controls are shown
	ControlsVisible bool

	// EngineReady is true once the audio engine and its effects are initialized
	EngineReady bool

	// Playback is the transport state
	Playback PlaybackState

	// PlayLabel is the text of the play/pause button
	PlayLabel string

	// Effects are the last applied effect parameters
	Effects EffectParameters
}

// Point is a position on the render surface in pixels.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle on the render surface in pixels.
type Rect struct {
	X, Y, W, H float64
}

// Within reports whether r lies fully inside a surface of the given size.
func (r Rect) Within(width, height float64) bool {
	return r.X >= 0 && r.Y >= 0 && r.X+r.W <= width && r.Y+r.H <= height
}

// Stamp is a single decorative image draw.
type Stamp struct {
	Asset *DecorativeAsset
	Rect  Rect
	Alpha float64
}

// FramePlan is the set of draw decisions for one render tick.
type FramePlan struct {
	// AvgAmplitude is the mean normalized magnitude (NaN for an empty spectrum)
	AvgAmplitude float64

	// Stamps are the decorative draws, in draw order
	Stamps []Stamp

	// Line holds one vertex per spectrum bin
	Line []Point
}
