// Package app provides application-level orchestration and dependency injection.
// This package wires together all components and manages the application lifecycle.
package app

import (
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"github.com/tejashwikalptaru/apparition/internal/adapter/assets"
	"github.com/tejashwikalptaru/apparition/internal/adapter/audio/clip"
	"github.com/tejashwikalptaru/apparition/internal/adapter/audio/mock"
	"github.com/tejashwikalptaru/apparition/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/apparition/internal/adapter/surface"
	fyneui "github.com/tejashwikalptaru/apparition/internal/adapter/ui/fyne"
	"github.com/tejashwikalptaru/apparition/internal/config"
	"github.com/tejashwikalptaru/apparition/internal/domain"
	"github.com/tejashwikalptaru/apparition/internal/logger"
	"github.com/tejashwikalptaru/apparition/internal/ports"
	"github.com/tejashwikalptaru/apparition/internal/service"
)

// assetDrainTimeout bounds how long Shutdown waits for in-flight asset loads.
const assetDrainTimeout = 2 * time.Second

// Application is the root application structure that holds all dependencies.
// It follows the Dependency Injection pattern with constructor-based injection.
//
// The Application struct is responsible for:
// - Creating and wiring all dependencies
// - Managing the application lifecycle (startup, shutdown)
// - Providing a clean entry point for main.go
type Application struct {
	// Core dependencies
	logger  *slog.Logger
	fyneApp fyne.App

	// Infrastructure
	eventBus    ports.EventBus
	audioEngine ports.AnalysingEngine
	surface     *surface.Raster

	// Services
	assetPool  *service.AssetPool
	renderer   *service.FrameRenderer
	renderLoop *service.RenderLoop
	clock      *service.TransitionClock
	controller *service.InteractionController

	// UI
	presenter  *fyneui.Presenter
	mainWindow *fyneui.MainWindow

	// Lifecycle
	ctx          context.Context
	cancel       context.CancelFunc
	shutdownOnce sync.Once
}

// Config holds application configuration.
type Config struct {
	config.Config

	// AppID is the unique application identifier
	AppID string

	// UseMockAudio replaces the clip engine with a synthesized one
	UseMockAudio bool

	// AudioOutput opens the audio device; nil uses oto
	AudioOutput clip.OutputFactory

	// LogOutput receives log records; nil means stderr
	LogOutput io.Writer

	// TestFyneApp allows injecting a test Fyne app for testing (nil for production)
	TestFyneApp fyne.App
}

// DefaultConfig returns the default application configuration.
func DefaultConfig() Config {
	return Config{
		Config: config.Default(),
		AppID:  "com.apparition.app",
	}
}

// NewApplication creates a new application with all dependencies wired.
// This is the main dependency injection function.
func NewApplication(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	app := &Application{ctx: ctx, cancel: cancel}

	// Step 1: Create Fyne application
	if cfg.TestFyneApp != nil {
		app.fyneApp = cfg.TestFyneApp
	} else {
		app.fyneApp = fyneapp.NewWithID(cfg.AppID)
	}

	// Step 2: Create logger
	level, _ := logger.ParseLevel(cfg.LogLevel)
	app.logger = logger.NewLogger(logger.Config{
		Level:  level,
		Format: cfg.LogFormat,
		Output: cfg.LogOutput,
	})
	app.logger.Info("initializing application",
		slog.String("app_id", cfg.AppID),
		slog.String("version", GetVersionInfo().FullString()))

	// Step 3: Create an event bus
	syncBus := eventbus.NewSyncEventBus()
	syncBus.SetLogger(app.logger.With(slog.String("component", "eventbus")))
	app.eventBus = syncBus

	// Step 4: Create an audio engine. Initialization waits for the start button.
	app.audioEngine = app.newAudioEngine(cfg)

	// Step 5: Decorative assets load in the background
	loader := assets.NewFileLoader(app.logger.With(slog.String("component", "assets")), cfg.Decorations.Dir)
	app.assetPool = service.NewAssetPool(
		app.logger.With(slog.String("service", "assets")),
		loader,
		app.eventBus,
	)
	app.assetPool.SetSkipFailed(cfg.Decorations.SkipFailed)
	names := cfg.DecorationNames()
	if err := app.assetPool.Load(ctx, names); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to load decorations: %w", err)
	}

	// Step 6: Create render services
	app.surface = surface.NewRaster(int(cfg.Window.Width), int(cfg.Window.Height))
	app.renderer = service.NewFrameRenderer(
		app.logger.With(slog.String("service", "renderer")),
		app.audioEngine,
		app.assetPool,
		service.PlaybackStateFunc(app.playbackState),
		app.surface,
		nil,
	)
	app.renderer.SetDecorations(len(names) > 0)

	app.renderLoop = service.NewRenderLoop(
		app.logger.With(slog.String("service", "render_loop")),
		app.renderer,
		cfg.FrameInterval(),
		app.refreshSpectrum,
	)
	app.clock = service.NewTransitionClock(
		app.logger.With(slog.String("service", "transition_clock")),
		app.eventBus,
		cfg.Background.Interval,
	)
	app.controller = service.NewInteractionController(
		app.logger.With(slog.String("service", "interaction")),
		app.audioEngine,
		app.eventBus,
		app.renderLoop,
		app.clock,
	)

	// Step 7: Create UI
	app.mainWindow = fyneui.NewMainWindow(app.fyneApp, fyneui.WindowConfig{
		Title:       cfg.Window.Title,
		Width:       cfg.Window.Width,
		Height:      cfg.Window.Height,
		BackgroundA: app.loadBackground(cfg.Background.ImageA),
		BackgroundB: app.loadBackground(cfg.Background.ImageB),
		Fade:        cfg.Background.Fade,
	}, app.surface)

	// Step 8: Create Presenter and wire with UI
	app.presenter = fyneui.NewPresenter(
		app.logger.With(slog.String("component", "presenter")),
		app.controller,
		app.eventBus,
		app.mainWindow,
		cfg.Window.Title,
	)
	app.mainWindow.SetPresenter(app.presenter)

	return app, nil
}

// newAudioEngine picks the mock or the clip engine.
func (a *Application) newAudioEngine(cfg Config) ports.AnalysingEngine {
	if cfg.UseMockAudio {
		engine := mock.NewEngine()
		engine.SetLogger(a.logger.With(slog.String("engine", "mock")))
		return engine
	}

	open := cfg.AudioOutput
	if open == nil {
		open = clip.OpenOto
	}
	return clip.NewEngine(
		a.logger.With(slog.String("engine", "clip")),
		clip.Config{
			Path:         cfg.Audio.Clip,
			SpectrumBins: cfg.Audio.SpectrumBins,
			WaveformSize: cfg.Audio.WaveformSize,
			Smoothing:    cfg.Audio.FFTSmoothing,
		},
		open,
	)
}

// loadBackground decodes a background layer. A missing image leaves the layer empty.
func (a *Application) loadBackground(path string) image.Image {
	if path == "" {
		return nil
	}
	img, err := assets.DecodeFile(path)
	if err != nil {
		a.logger.Warn("background image unavailable", slog.String("path", path), slog.Any("error", err))
		return nil
	}
	return img
}

func (a *Application) playbackState() domain.PlaybackState {
	return a.controller.PlaybackState()
}

func (a *Application) refreshSpectrum() {
	a.mainWindow.RefreshSpectrum()
}

// Run starts the application.
// This is called from main.go after the application is created.
func (a *Application) Run() {
	a.logger.Info("Apparition started")

	// Show and run UI (blocks until the window is closed)
	a.mainWindow.ShowAndRun()
}

// Shutdown gracefully shuts down the application.
// It's safe to call multiple times (idempotent).
func (a *Application) Shutdown() error {
	var shutdownErr error

	a.shutdownOnce.Do(func() {
		a.logger.Info("shutting down application")
		a.cancel()

		// Shutdown UI and presenter
		a.presenter.Shutdown()

		// Stop background goroutines before the engine goes away
		a.renderLoop.Stop()
		a.clock.Stop()

		drainCtx, drainCancel := context.WithTimeout(context.Background(), assetDrainTimeout)
		if err := a.assetPool.Wait(drainCtx); err != nil {
			a.logger.Warn("asset loads still running at shutdown", slog.Any("error", err))
		}
		drainCancel()

		if err := a.controller.Shutdown(); err != nil {
			a.logger.Warn("failed to stop playback", slog.Any("error", err))
		}

		// Shutdown audio engine
		if a.audioEngine.IsInitialized() {
			if err := a.audioEngine.Shutdown(); err != nil {
				shutdownErr = fmt.Errorf("failed to shutdown audio engine: %w", err)
			}
		}

		if err := a.eventBus.Close(); err != nil {
			a.logger.Warn("failed to close event bus", slog.Any("error", err))
		}

		a.logger.Info("application shutdown complete")
	})

	return shutdownErr
}

// GetController returns the interaction controller.
func (a *Application) GetController() *service.InteractionController {
	return a.controller
}

// GetPresenter returns the UI presenter.
func (a *Application) GetPresenter() *fyneui.Presenter {
	return a.presenter
}

// GetEventBus returns the event bus.
func (a *Application) GetEventBus() ports.EventBus {
	return a.eventBus
}

// GetFyneApp returns the Fyne application.
func (a *Application) GetFyneApp() fyne.App {
	return a.fyneApp
}

// GetAssetPool returns the decorative asset pool.
func (a *Application) GetAssetPool() *service.AssetPool {
	return a.assetPool
}

// GetRenderLoop returns the render loop.
func (a *Application) GetRenderLoop() *service.RenderLoop {
	return a.renderLoop
}

// GetTransitionClock returns the background transition clock.
func (a *Application) GetTransitionClock() *service.TransitionClock {
	return a.clock
}

// GetSurface returns the render surface.
func (a *Application) GetSurface() *surface.Raster {
	return a.surface
}
