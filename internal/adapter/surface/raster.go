// Package surface provides an in-memory RGBA implementation of the render surface.
package surface

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	xdraw "golang.org/x/image/draw"

	"github.com/tejashwikalptaru/apparition/internal/domain"
	"github.com/tejashwikalptaru/apparition/internal/ports"
)

// Raster is a resizable RGBA render surface. Cleared pixels are transparent so
// whatever is behind the surface shows through.
//
// Thread-safety: This implementation is thread-safe. Drawing and Snapshot may
// happen on different goroutines.
type Raster struct {
	mu  sync.RWMutex
	img *image.RGBA

	scaler xdraw.Interpolator
}

// NewRaster creates a transparent surface of the given pixel size.
func NewRaster(width, height int) *Raster {
	return &Raster{
		img:    image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0))),
		scaler: xdraw.ApproxBiLinear,
	}
}

// Resize changes the surface size. Content is discarded when the size changes.
func (r *Raster) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)

	r.mu.Lock()
	defer r.mu.Unlock()

	b := r.img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return
	}
	r.img = image.NewRGBA(image.Rect(0, 0, width, height))
}

// Size returns the surface size in pixels.
func (r *Raster) Size() (width, height float64) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b := r.img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

// Clear makes every pixel transparent.
func (r *Raster) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.img.Pix)
}

// DrawImage scales img into rect and composites it over the surface at the
// given opacity. A nil image (an asset that failed to load) draws nothing.
func (r *Raster) DrawImage(img image.Image, rect domain.Rect, alpha float64) {
	if img == nil || alpha <= 0 || rect.W <= 0 || rect.H <= 0 {
		return
	}

	dst := image.Rect(
		int(math.Round(rect.X)),
		int(math.Round(rect.Y)),
		int(math.Round(rect.X+rect.W)),
		int(math.Round(rect.Y+rect.H)),
	)

	opts := &xdraw.Options{
		SrcMask: image.NewUniform(color.Alpha{A: uint8(math.Round(math.Min(alpha, 1) * 255))}),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.scaler.Scale(r.img, dst, img, img.Bounds(), draw.Over, opts)
}

// StrokePolyline draws connected segments of the given width.
// Vertices are capped with discs so consecutive segments join without gaps.
func (r *Raster) StrokePolyline(points []domain.Point, width float64, col color.Color) {
	if len(points) == 0 || width <= 0 {
		return
	}

	c := color.RGBAModel.Convert(col).(color.RGBA)
	thickness := int(math.Round(width))

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := 1; i < len(points); i++ {
		drawThickLine(r.img, points[i-1].X, points[i-1].Y, points[i].X, points[i].Y, thickness, c)
	}
	for _, p := range points {
		drawFilledCircle(r.img, int(math.Round(p.X)), int(math.Round(p.Y)), width/2, c)
	}
}

// Snapshot returns a copy of the current surface content.
func (r *Raster) Snapshot() *image.RGBA {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := image.NewRGBA(r.img.Bounds())
	copy(out.Pix, r.img.Pix)
	return out
}

// drawThickLine draws a line with the specified thickness.
func drawThickLine(img *image.RGBA, x1, y1, x2, y2 float64, thickness int, col color.RGBA) {
	bounds := img.Bounds()

	dx := x2 - x1
	dy := y2 - y1
	length := math.Sqrt(dx*dx + dy*dy)

	if length == 0 {
		return
	}

	// Perpendicular unit vector for thickness
	perpX := -dy / length
	perpY := dx / length

	steps := int(length) + 1

	for t := -thickness / 2; t <= thickness/2; t++ {
		offsetX := float64(t) * perpX
		offsetY := float64(t) * perpY

		for i := 0; i <= steps; i++ {
			progress := float64(i) / float64(steps)
			px := int(x1 + dx*progress + offsetX)
			py := int(y1 + dy*progress + offsetY)

			if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
				img.SetRGBA(px, py, col)
			}
		}
	}
}

// drawFilledCircle draws a filled disc.
func drawFilledCircle(img *image.RGBA, cx, cy int, radius float64, col color.RGBA) {
	bounds := img.Bounds()
	rad := int(radius)

	for dy := -rad; dy <= rad; dy++ {
		for dx := -rad; dx <= rad; dx++ {
			if dx*dx+dy*dy <= rad*rad {
				px, py := cx+dx, cy+dy
				if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
					img.SetRGBA(px, py, col)
				}
			}
		}
	}
}

// Verify that Raster implements the Surface interface
var _ ports.Surface = (*Raster)(nil)
