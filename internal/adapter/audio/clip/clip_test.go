package clip

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/require"
)

// writeSineWAV writes a 16-bit PCM WAV file containing a sine tone and returns its path.
func writeSineWAV(t *testing.T, sampleRate, channels, frames int, freq, amplitude float64) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: channels,
			SampleRate:  sampleRate,
		},
		SourceBitDepth: 16,
		Data:           make([]int, frames*channels),
	}
	for i := 0; i < frames; i++ {
		v := int(amplitude * 32767 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)))
		for ch := 0; ch < channels; ch++ {
			buf.Data[i*channels+ch] = v
		}
	}

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())

	return path
}

// testClip builds an in-memory clip whose left channel counts frames.
func testClip(frames int) *Clip {
	c := &Clip{SampleRate: 8000, Samples: make([]float32, frames*Channels)}
	for i := 0; i < frames; i++ {
		c.Samples[i*Channels] = float32(i) / float32(frames)
		c.Samples[i*Channels+1] = float32(i) / float32(frames)
	}
	return c
}
