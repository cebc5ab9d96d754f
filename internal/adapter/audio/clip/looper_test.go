package clip

import (
	"encoding/binary"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLooper_ReadWraps(t *testing.T) {
	l := NewLooper(testClip(4))

	buf := make([]byte, 6*bytesPerFrame)
	n, err := l.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)

	assert.Equal(t, 2, l.Position())
	assert.Equal(t, 1, l.Loops())

	// Frame 4 is frame 0 again
	first := int16(binary.LittleEndian.Uint16(buf[0:]))
	wrapped := int16(binary.LittleEndian.Uint16(buf[4*bytesPerFrame:]))
	assert.Equal(t, first, wrapped)

	second := int16(binary.LittleEndian.Uint16(buf[1*bytesPerFrame:]))
	assert.Equal(t, int16(8191), second)
}

func TestLooper_ReadWholeFramesOnly(t *testing.T) {
	l := NewLooper(testClip(4))

	n, err := l.Read(make([]byte, bytesPerFrame+3))
	require.NoError(t, err)
	assert.Equal(t, bytesPerFrame, n)
	assert.Equal(t, 1, l.Position())
}

func TestLooper_Rewind(t *testing.T) {
	l := NewLooper(testClip(10))

	_, _ = l.Read(make([]byte, 3*bytesPerFrame))
	require.Equal(t, 3, l.Position())

	l.Rewind()
	assert.Equal(t, 0, l.Position())
}

func TestLooper_Recent(t *testing.T) {
	l := NewLooper(testClip(8))
	_, _ = l.Read(make([]byte, 5*bytesPerFrame))

	window := make([]float64, 3)
	l.Recent(window)
	assert.InDeltaSlice(t, []float64{2.0 / 8, 3.0 / 8, 4.0 / 8}, window, 1e-6)

	// Before any read the window wraps to the end of the clip
	l.Rewind()
	l.Recent(window)
	assert.InDeltaSlice(t, []float64{5.0 / 8, 6.0 / 8, 7.0 / 8}, window, 1e-6)
}

func TestLooper_RecentLongerThanClip(t *testing.T) {
	l := NewLooper(testClip(2))

	window := make([]float64, 5)
	assert.NotPanics(t, func() { l.Recent(window) })
	assert.InDeltaSlice(t, []float64{0.5, 0, 0.5, 0, 0.5}, window, 1e-6)
}

func TestLooper_ConcurrentReadAndRecent(t *testing.T) {
	l := NewLooper(testClip(64))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		buf := make([]byte, 16*bytesPerFrame)
		for range 100 {
			_, _ = l.Read(buf)
		}
	}()
	go func() {
		defer wg.Done()
		window := make([]float64, 32)
		for range 100 {
			l.Recent(window)
		}
	}()
	wg.Wait()
}

func TestToInt16_Clips(t *testing.T) {
	assert.Equal(t, int16(32767), toInt16(1.5))
	assert.Equal(t, int16(-32768), toInt16(-2))
	assert.Equal(t, int16(0), toInt16(0))
}
