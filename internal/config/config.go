// Package config loads the visualizer configuration from YAML with environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/tejashwikalptaru/apparition/internal/domain"
	"github.com/tejashwikalptaru/apparition/internal/logger"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file values.
const (
	EnvClip      = "APPARITION_CLIP"
	EnvAssetDir  = "APPARITION_ASSET_DIR"
	EnvFrameRate = "APPARITION_FRAME_RATE"
)

// DefaultPath is the config file looked up when no path is given.
const DefaultPath = "apparition.yaml"

// Config is the complete visualizer configuration.
type Config struct {
	LogLevel  string `yaml:"log_level"`  // debug, info, warn, error
	LogFormat string `yaml:"log_format"` // text or json

	Audio       AudioConfig       `yaml:"audio"`
	Decorations DecorationsConfig `yaml:"decorations"`
	Background  BackgroundConfig  `yaml:"background"`
	Render      RenderConfig      `yaml:"render"`
	Window      WindowConfig      `yaml:"window"`
}

// AudioConfig configures the clip and its analysis.
type AudioConfig struct {
	Clip         string  `yaml:"clip"`          // MP3 or WAV file played in a loop
	SpectrumBins int     `yaml:"spectrum_bins"` // magnitude samples per frame
	WaveformSize int     `yaml:"waveform_size"` // waveform samples per frame
	FFTSmoothing float64 `yaml:"fft_smoothing"` // 0 disables averaging between frames
}

// DecorationsConfig configures the decorative images stamped on peaks.
type DecorationsConfig struct {
	Enabled    bool     `yaml:"enabled"`
	Dir        string   `yaml:"dir"`
	Names      []string `yaml:"names"`
	SkipFailed bool     `yaml:"skip_failed"` // never pick assets that failed to load
}

// BackgroundConfig configures the two cross-faded background layers.
type BackgroundConfig struct {
	ImageA   string        `yaml:"image_a"`
	ImageB   string        `yaml:"image_b"`
	Interval time.Duration `yaml:"interval"`
	Fade     time.Duration `yaml:"fade"`
}

// RenderConfig configures the render loop.
type RenderConfig struct {
	FrameRate int `yaml:"frame_rate"`
}

// WindowConfig configures the initial window.
type WindowConfig struct {
	Title  string  `yaml:"title"`
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:  "info",
		LogFormat: "text",
		Audio: AudioConfig{
			Clip:         "assets/apparition-ox-clip.mp3",
			SpectrumBins: 256,
			WaveformSize: 256,
			FFTSmoothing: 0.8,
		},
		Decorations: DecorationsConfig{
			Enabled: true,
			Dir:     "assets/images",
			Names: []string{
				"blackhole-1.png",
				"blackhole-2.png",
				"blackhole-3.png",
				"blackhole-4.png",
				"blackhole-5.png",
				"blackhole-6.png",
				"blackhole-7.png",
			},
		},
		Background: BackgroundConfig{
			ImageA:   "assets/code_NASANOAAimg2.jpg",
			ImageB:   "assets/code_NASANOAAimg6.jpg",
			Interval: 12 * time.Second,
			Fade:     2 * time.Second,
		},
		Render: RenderConfig{
			FrameRate: 60,
		},
		Window: WindowConfig{
			Title:  "Apparition",
			Width:  1280,
			Height: 720,
		},
	}
}

// Load reads the configuration file at path on top of the defaults, applies
// environment overrides and validates the result. An empty path tries
// DefaultPath and silently falls back to defaults when it does not exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		// defaults only
	case errors.Is(err, fs.ErrNotExist):
		return Config{}, fmt.Errorf("config %s: %w", path, domain.ErrFileNotFound)
	default:
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvClip); v != "" {
		c.Audio.Clip = v
	}
	if v := os.Getenv(EnvAssetDir); v != "" {
		c.Decorations.Dir = v
	}
	if v := os.Getenv(EnvFrameRate); v != "" {
		rate, err := strconv.Atoi(v)
		if err != nil {
			return domain.NewValidationError(EnvFrameRate, v, "must be an integer")
		}
		c.Render.FrameRate = rate
	}
	if v := os.Getenv(logger.EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	return nil
}

// Validate checks the configuration for values the visualizer cannot run with.
func (c Config) Validate() error {
	if _, ok := logger.ParseLevel(c.LogLevel); !ok {
		return domain.NewValidationError("log_level", c.LogLevel, "unknown level")
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return domain.NewValidationError("log_format", c.LogFormat, "must be text or json")
	}
	if c.Audio.Clip == "" {
		return domain.NewValidationError("audio.clip", c.Audio.Clip, "must not be empty")
	}
	if c.Audio.SpectrumBins <= 0 || c.Audio.SpectrumBins&(c.Audio.SpectrumBins-1) != 0 {
		return domain.NewValidationError("audio.spectrum_bins", c.Audio.SpectrumBins, "must be a positive power of 2")
	}
	if c.Audio.WaveformSize <= 0 {
		return domain.NewValidationError("audio.waveform_size", c.Audio.WaveformSize, "must be positive")
	}
	if c.Audio.FFTSmoothing < 0 || c.Audio.FFTSmoothing >= 1 {
		return domain.NewValidationError("audio.fft_smoothing", c.Audio.FFTSmoothing, "must be in [0, 1)")
	}
	if c.Render.FrameRate <= 0 || c.Render.FrameRate > 240 {
		return domain.NewValidationError("render.frame_rate", c.Render.FrameRate, "must be between 1 and 240")
	}
	if c.Background.Interval <= 0 {
		return domain.NewValidationError("background.interval", c.Background.Interval, "must be positive")
	}
	if c.Background.Fade < 0 || c.Background.Fade > c.Background.Interval {
		return domain.NewValidationError("background.fade", c.Background.Fade, "must be between 0 and the interval")
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return domain.NewValidationError("window", fmt.Sprintf("%gx%g", c.Window.Width, c.Window.Height), "size must be positive")
	}
	return nil
}

// FrameInterval returns the render loop period.
func (c Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.Render.FrameRate)
}

// DecorationNames returns the decorative assets to load, or nil when decorations are off.
func (c Config) DecorationNames() []string {
	if !c.Decorations.Enabled {
		return nil
	}
	return c.Decorations.Names
}
