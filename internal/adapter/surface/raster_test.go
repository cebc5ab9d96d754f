package surface

import (
	"image"
	"image/color"
	"image/draw"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejashwikalptaru/apparition/internal/domain"
)

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func TestRaster_SizeAndResize(t *testing.T) {
	r := NewRaster(100, 50)
	w, h := r.Size()
	assert.Equal(t, 100.0, w)
	assert.Equal(t, 50.0, h)

	r.Resize(20, 10)
	w, h = r.Size()
	assert.Equal(t, 20.0, w)
	assert.Equal(t, 10.0, h)

	r.Resize(-5, 10)
	w, _ = r.Size()
	assert.Zero(t, w)
}

func TestRaster_ResizeSameSizeKeepsContent(t *testing.T) {
	r := NewRaster(10, 10)
	r.DrawImage(solid(4, 4, white), domain.Rect{X: 0, Y: 0, W: 10, H: 10}, 1)

	r.Resize(10, 10)
	assert.Equal(t, white, r.Snapshot().RGBAAt(5, 5))
}

func TestRaster_Clear(t *testing.T) {
	r := NewRaster(10, 10)
	r.StrokePolyline([]domain.Point{{X: 0, Y: 5}, {X: 10, Y: 5}}, 4, white)
	require.NotEqual(t, color.RGBA{}, r.Snapshot().RGBAAt(5, 5))

	r.Clear()
	snap := r.Snapshot()
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			assert.Equal(t, color.RGBA{}, snap.RGBAAt(x, y))
		}
	}
}

func TestRaster_DrawImageScalesIntoRect(t *testing.T) {
	r := NewRaster(40, 40)
	r.DrawImage(solid(2, 2, color.RGBA{R: 255, A: 255}), domain.Rect{X: 10, Y: 10, W: 20, H: 20}, 1)

	snap := r.Snapshot()
	assert.Equal(t, color.RGBA{R: 255, A: 255}, snap.RGBAAt(20, 20))
	assert.Equal(t, color.RGBA{R: 255, A: 255}, snap.RGBAAt(10, 10))
	assert.Equal(t, color.RGBA{}, snap.RGBAAt(5, 5), "outside rect untouched")
	assert.Equal(t, color.RGBA{}, snap.RGBAAt(30, 30), "rect is half-open")
}

func TestRaster_DrawImageAlpha(t *testing.T) {
	r := NewRaster(10, 10)
	r.DrawImage(solid(1, 1, white), domain.Rect{X: 0, Y: 0, W: 10, H: 10}, 0.6)

	px := r.Snapshot().RGBAAt(5, 5)
	assert.InDelta(t, 153, int(px.A), 2)
	assert.Equal(t, px.A, px.R, "premultiplied white")
}

func TestRaster_DrawImageNoOps(t *testing.T) {
	r := NewRaster(10, 10)

	r.DrawImage(nil, domain.Rect{X: 0, Y: 0, W: 10, H: 10}, 1)
	r.DrawImage(solid(1, 1, white), domain.Rect{X: 0, Y: 0, W: 10, H: 10}, 0)
	r.DrawImage(solid(1, 1, white), domain.Rect{X: 0, Y: 0, W: 0, H: 10}, 1)

	assert.Equal(t, color.RGBA{}, r.Snapshot().RGBAAt(5, 5))
}

func TestRaster_StrokePolyline(t *testing.T) {
	r := NewRaster(100, 100)
	r.StrokePolyline([]domain.Point{{X: 0, Y: 50}, {X: 50, Y: 50}, {X: 99, Y: 20}}, 4, white)

	snap := r.Snapshot()
	assert.Equal(t, white, snap.RGBAAt(50, 50), "vertex is covered")
	assert.Equal(t, white, snap.RGBAAt(25, 50), "segment is covered")
	assert.Equal(t, white, snap.RGBAAt(25, 49), "segment has width")
	assert.Equal(t, color.RGBA{}, snap.RGBAAt(50, 90))
}

func TestRaster_StrokePolylineClipsOutside(t *testing.T) {
	r := NewRaster(10, 10)
	assert.NotPanics(t, func() {
		r.StrokePolyline([]domain.Point{{X: -50, Y: -50}, {X: 60, Y: 60}}, 8, white)
		r.StrokePolyline([]domain.Point{{X: 5, Y: 5}}, 4, white)
		r.StrokePolyline(nil, 4, white)
	})
}

func TestRaster_SnapshotIsCopy(t *testing.T) {
	r := NewRaster(4, 4)
	snap := r.Snapshot()
	snap.SetRGBA(1, 1, white)

	assert.Equal(t, color.RGBA{}, r.Snapshot().RGBAAt(1, 1))
}

func TestRaster_ConcurrentDrawAndSnapshot(t *testing.T) {
	r := NewRaster(64, 64)
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		for range 50 {
			r.Clear()
			r.StrokePolyline([]domain.Point{{X: 0, Y: 0}, {X: 63, Y: 63}}, 4, white)
		}
	}()
	go func() {
		defer wg.Done()
		for range 50 {
			_ = r.Snapshot()
		}
	}()
	go func() {
		defer wg.Done()
		for i := range 50 {
			r.Resize(32+i%2, 32)
		}
	}()
	wg.Wait()
}
