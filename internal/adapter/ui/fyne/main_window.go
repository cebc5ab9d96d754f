package fyne

import (
	"context"
	"image"
	"sync"
	"time"

	fyneapp "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/tejashwikalptaru/apparition/internal/adapter/surface"
	"github.com/tejashwikalptaru/apparition/internal/adapter/ui/fyne/widgets"
	"github.com/tejashwikalptaru/apparition/internal/domain"
	"github.com/tejashwikalptaru/apparition/res"
)

// WindowConfig describes the initial window.
type WindowConfig struct {
	Title  string
	Width  float32
	Height float32

	// Background layers; nil leaves a layer empty
	BackgroundA image.Image
	BackgroundB image.Image

	// Fade is the cross-fade duration between background layers
	Fade time.Duration
}

// MainWindow is the main UI window implementing the UIView interface.
//
// The MainWindow follows the MVP pattern:
// - It's a "dumb view" that just displays data
// - All logic is in the Presenter
// - User interactions are forwarded to the Presenter
type MainWindow struct {
	app    fyneapp.App
	window fyneapp.Window

	// UI components
	startButton *widget.Button
	playButton  *widget.Button
	controls    *fyneapp.Container
	backgroundA *canvas.Image
	backgroundB *canvas.Image
	spectrum    *widgets.SpectrumView
	pad         *widgets.XYPad

	// Background cross-fade
	fade time.Duration
	anim *fyneapp.Animation

	// Lifecycle management
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	// Presenter (set after construction)
	presenter *Presenter
}

// NewMainWindow creates a new main window showing the given render surface.
func NewMainWindow(app fyneapp.App, cfg WindowConfig, s *surface.Raster) *MainWindow {
	ctx, cancel := context.WithCancel(context.Background())
	w := &MainWindow{
		app:    app,
		fade:   cfg.Fade,
		ctx:    ctx,
		cancel: cancel,
	}

	w.window = app.NewWindow(cfg.Title)
	w.buildUI(cfg, s)
	w.window.Resize(fyneapp.NewSize(cfg.Width, cfg.Height))

	return w
}

// SetPresenter connects the presenter to this view.
// This must be called before showing the window.
func (w *MainWindow) SetPresenter(presenter *Presenter) {
	w.presenter = presenter
	w.wirePresenterHandlers()
	w.addShortcuts()
}

// buildUI constructs the UI components.
func (w *MainWindow) buildUI(cfg WindowConfig, s *surface.Raster) {
	// Background layers, B starts hidden
	w.backgroundA = canvas.NewImageFromImage(cfg.BackgroundA)
	w.backgroundA.FillMode = canvas.ImageFillStretch
	w.backgroundB = canvas.NewImageFromImage(cfg.BackgroundB)
	w.backgroundB.FillMode = canvas.ImageFillStretch
	w.backgroundB.Translucency = 1

	// Visualizer doubles as the effect pad
	w.spectrum = widgets.NewSpectrumView(s)
	w.pad = widgets.NewXYPad(w.spectrum, nil)

	// Controls
	w.startButton = widget.NewButtonWithIcon(domain.LabelStart, theme.MediaPlayIcon(), nil)
	w.startButton.Importance = widget.HighImportance
	w.playButton = widget.NewButton(domain.LabelStart, nil)
	w.controls = container.NewHBox(w.playButton)
	w.controls.Hide()

	buttons := container.NewCenter(container.NewHBox(w.startButton, w.controls))
	overlay := container.NewBorder(nil, container.NewPadded(buttons), nil, nil)

	w.window.SetContent(container.NewStack(w.backgroundA, w.backgroundB, w.pad, overlay))
	w.window.SetMainMenu(fyneapp.NewMainMenu(w.createMenu()...))
}

// wirePresenterHandlers connects UI events to presenter handlers.
func (w *MainWindow) wirePresenterHandlers() {
	if w.presenter == nil {
		return
	}

	// Starting decodes the clip, keep it off the UI goroutine
	w.startButton.OnTapped = func() {
		w.startButton.Disable()
		go w.presenter.OnStartClicked(w.ctx)
	}

	w.playButton.OnTapped = func() {
		w.presenter.OnPlayPauseClicked()
	}

	w.pad.SetOnMove(func(pos fyneapp.Position, size fyneapp.Size) {
		w.presenter.OnPointerMoved(pos.X, pos.Y, size.Width, size.Height)
	})
}

// createMenu creates the application menu.
func (w *MainWindow) createMenu() []*fyneapp.Menu {
	exitMenu := fyneapp.NewMenuItem("Exit", func() {
		w.window.Close()
	})
	about := fyneapp.NewMenuItem("About", func() {
		dialog.ShowCustom("About", "Close", widget.NewRichTextFromMarkdown(res.AboutContent), w.window)
	})

	return []*fyneapp.Menu{
		fyneapp.NewMenu("File", exitMenu),
		fyneapp.NewMenu("Help", about),
	}
}

// addShortcuts adds keyboard shortcuts.
func (w *MainWindow) addShortcuts() {
	w.window.Canvas().SetOnTypedKey(func(ev *fyneapp.KeyEvent) {
		if ev.Name != fyneapp.KeySpace || !w.controls.Visible() {
			return
		}
		w.presenter.OnPlayPauseClicked()
	})
}

// ShowAndRun shows the window and runs the application.
func (w *MainWindow) ShowAndRun() {
	w.window.ShowAndRun()
}

// Close closes the window and cancels a pending start.
// It's safe to call multiple times (idempotent).
func (w *MainWindow) Close() {
	w.closeOnce.Do(func() {
		w.cancel()
		w.window.Close()
	})
}

// GetWindow returns the underlying Fyne window.
func (w *MainWindow) GetWindow() fyneapp.Window {
	return w.window
}

// RefreshSpectrum repaints the visualizer. Safe to call from any goroutine.
func (w *MainWindow) RefreshSpectrum() {
	fyneapp.Do(w.spectrum.Redraw)
}

// UIView interface implementation

// SetStartEnabled enables or disables the start button.
func (w *MainWindow) SetStartEnabled(enabled bool) {
	fyneapp.Do(func() {
		if enabled {
			w.startButton.Enable()
		} else {
			w.startButton.Disable()
		}
	})
}

// ShowControls swaps the start button for the playback controls.
func (w *MainWindow) ShowControls() {
	fyneapp.Do(func() {
		w.startButton.Hide()
		w.controls.Show()
	})
}

// SetPlayLabel updates the play/pause button text.
func (w *MainWindow) SetPlayLabel(label string) {
	fyneapp.Do(func() {
		w.playButton.SetText(label)
	})
}

// SetBackground cross-fades the background layers to the given opacities.
func (w *MainWindow) SetBackground(opacityA, opacityB float64) {
	fyneapp.Do(func() {
		if w.anim != nil {
			w.anim.Stop()
		}

		fromA := 1 - w.backgroundA.Translucency
		fromB := 1 - w.backgroundB.Translucency
		apply := func(p float32) {
			w.backgroundA.Translucency = 1 - lerp(fromA, opacityA, p)
			w.backgroundB.Translucency = 1 - lerp(fromB, opacityB, p)
			w.backgroundA.Refresh()
			w.backgroundB.Refresh()
		}

		if w.fade <= 0 {
			apply(1)
			return
		}
		w.anim = fyneapp.NewAnimation(w.fade, apply)
		w.anim.Curve = fyneapp.AnimationEaseInOut
		w.anim.Start()
	})
}

// SetTitle updates the window title.
func (w *MainWindow) SetTitle(title string) {
	fyneapp.Do(func() {
		w.window.SetTitle(title)
	})
}

// ShowError displays an error dialog.
func (w *MainWindow) ShowError(title string, err error) {
	fyneapp.Do(func() {
		dialog.ShowCustom(title, "OK", widget.NewLabel(err.Error()), w.window)
	})
}

func lerp(from, to float64, p float32) float64 {
	return from + (to-from)*float64(p)
}

// Verify UIView implementation
var _ UIView = (*MainWindow)(nil)
