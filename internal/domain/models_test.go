package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, 0.0, Normalize(-140))
	assert.Equal(t, 1.0, Normalize(0))
	assert.Equal(t, 0.5, Normalize(-70))

	// Out-of-range magnitudes pass through unclamped
	assert.InDelta(t, -0.5, Normalize(-210), 1e-12)
	assert.InDelta(t, 1.5, Normalize(70), 1e-12)
}

func TestBackgroundState_ExactlyOneLayerVisible(t *testing.T) {
	state := ShowA
	for i := 0; i < 5; i++ {
		a, b := state.Opacities()
		assert.Equal(t, 1.0, a+b, "flip %d", i)
		assert.True(t, (a == 1 && b == 0) || (a == 0 && b == 1), "flip %d", i)
		state = state.Next()
	}
}

func TestBackgroundState_Next(t *testing.T) {
	assert.Equal(t, ShowB, ShowA.Next())
	assert.Equal(t, ShowA, ShowB.Next())
	assert.Equal(t, "A", ShowA.String())
	assert.Equal(t, "B", ShowB.String())
}

func TestEffectsFromPointer(t *testing.T) {
	effects := EffectsFromPointer(0.5, 0.25)

	assert.Equal(t, 0.5, effects.Tremolo.Wet)
	assert.Equal(t, 6.0, effects.Tremolo.Frequency)
	assert.Equal(t, 0.25, effects.Delay.Wet)
	assert.Equal(t, 0.75, effects.Delay.DelayTime)
}

func TestRect_Within(t *testing.T) {
	assert.True(t, Rect{X: 0, Y: 0, W: 100, H: 100}.Within(100, 100))
	assert.True(t, Rect{X: 10, Y: 20, W: 80, H: 80}.Within(100, 100))
	assert.False(t, Rect{X: 30, Y: 0, W: 80, H: 80}.Within(100, 100))
	assert.False(t, Rect{X: -1, Y: 0, W: 80, H: 80}.Within(100, 100))
	assert.False(t, Rect{X: 0, Y: math.Inf(1), W: 80, H: 80}.Within(100, 100))
}

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "pending", AssetPending.String())
	assert.Equal(t, "ready", AssetReady.String())
	assert.Equal(t, "failed", AssetFailed.String())
	assert.False(t, AssetPending.Resolved())
	assert.True(t, AssetFailed.Resolved())

	assert.Equal(t, "idle", PlaybackIdle.String())
	assert.Equal(t, "playing", PlaybackPlaying.String())
}
