package widgets

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/tejashwikalptaru/apparition/internal/adapter/surface"
)

// SpectrumView shows the content of a render surface.
// The surface is resized to the widget's pixel size whenever it is redrawn, so
// the renderer always draws at the resolution on screen.
type SpectrumView struct {
	widget.BaseWidget

	raster  *canvas.Raster
	surface *surface.Raster
}

// NewSpectrumView creates a view over s.
func NewSpectrumView(s *surface.Raster) *SpectrumView {
	v := &SpectrumView{surface: s}
	v.raster = canvas.NewRaster(v.render)
	v.ExtendBaseWidget(v)
	return v
}

// CreateRenderer implements fyne.Widget.
func (v *SpectrumView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.raster)
}

// MinSize returns the minimum size of the view.
func (v *SpectrumView) MinSize() fyne.Size {
	return fyne.NewSize(0, 0)
}

// Redraw schedules a repaint with the latest surface content.
// Must be called on the Fyne goroutine.
func (v *SpectrumView) Redraw() {
	v.raster.Refresh()
}

// render is the raster generator function.
func (v *SpectrumView) render(w, h int) image.Image {
	v.surface.Resize(w, h)
	return v.surface.Snapshot()
}
