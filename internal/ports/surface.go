package ports

import (
	"image"
	"image/color"

	"github.com/tejashwikalptaru/apparition/internal/domain"
)

// Surface is a 2D drawing surface sized to the viewport.
// Its size may change between frames; the renderer reads it at draw time.
//
// Implementations must be safe for use by the render loop while the UI thread
// reads the result.
type Surface interface {
	// Size returns the current surface width and height in pixels.
	Size() (width, height float64)

	// Clear erases the whole surface.
	Clear()

	// DrawImage draws img scaled into rect with the given opacity (0.0-1.0).
	// A nil image draws nothing.
	DrawImage(img image.Image, rect domain.Rect, alpha float64)

	// StrokePolyline strokes an open path through points.
	StrokePolyline(points []domain.Point, width float64, col color.Color)
}
