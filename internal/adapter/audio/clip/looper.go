package clip

import (
	"sync"
)

// bytesPerFrame is the size of one 16-bit stereo frame.
const bytesPerFrame = Channels * 2

// Looper streams a clip as signed 16-bit little-endian stereo PCM, wrapping
// back to the start at the end so reads never return io.EOF.
// It remembers the play position so the analyser can look at what was just played.
//
// Thread-safety: This implementation is thread-safe.
type Looper struct {
	clip *Clip

	mu    sync.Mutex
	frame int
	loops int
}

// NewLooper creates a looper positioned at the start of clip.
// The clip must contain at least one frame.
func NewLooper(clip *Clip) *Looper {
	return &Looper{clip: clip}
}

// Read fills p with whole frames of PCM data.
func (l *Looper) Read(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	frames := l.clip.Frames()
	n := 0
	for n+bytesPerFrame <= len(p) {
		for ch := 0; ch < Channels; ch++ {
			v := toInt16(l.clip.Samples[l.frame*Channels+ch])
			p[n] = byte(v)
			p[n+1] = byte(v >> 8)
			n += 2
		}
		l.frame++
		if l.frame == frames {
			l.frame = 0
			l.loops++
		}
	}
	return n, nil
}

// Rewind moves the play position back to the start of the clip.
func (l *Looper) Rewind() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.frame = 0
}

// Position returns the index of the next frame to be read.
func (l *Looper) Position() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frame
}

// Loops returns how many times the clip wrapped around.
func (l *Looper) Loops() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loops
}

// Recent fills dst with the mono mix of the len(dst) frames played just before
// the current position, oldest first. Before the first read the window wraps
// around to the end of the clip, as it would after a full loop.
func (l *Looper) Recent(dst []float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	frames := l.clip.Frames()
	start := l.frame - len(dst)
	for i := range dst {
		f := (start + i) % frames
		if f < 0 {
			f += frames
		}
		left := l.clip.Samples[f*Channels]
		right := l.clip.Samples[f*Channels+1]
		dst[i] = float64(left+right) / 2
	}
}

func toInt16(v float32) int16 {
	switch {
	case v >= 1:
		return 32767
	case v <= -1:
		return -32768
	default:
		return int16(v * 32767)
	}
}
