// Package clip provides the audio engine that plays a single looping clip
// through the speakers and analyses what it plays.
package clip

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/tejashwikalptaru/apparition/internal/domain"
)

// Channels is the channel count of every decoded clip.
const Channels = 2

// Supported clip formats, by file extension.
const (
	FormatMP3 = ".mp3"
	FormatWAV = ".wav"
)

// Clip is a fully decoded audio clip held in memory.
type Clip struct {
	Path   string
	Title  string
	Artist string

	SampleRate int

	// Samples holds interleaved stereo samples in [-1, 1]
	Samples []float32
}

// Frames returns the number of stereo frames in the clip.
func (c *Clip) Frames() int {
	return len(c.Samples) / Channels
}

// Duration returns the playing time of one loop.
func (c *Clip) Duration() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}
	return time.Duration(c.Frames()) * time.Second / time.Duration(c.SampleRate)
}

// Decode reads and decodes the clip at path. The format is chosen by extension.
func Decode(path string) (*Clip, error) {
	if path == "" {
		return nil, domain.ErrInvalidFilePath
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NewAudioEngineError("decode", path, "clip not found", domain.ErrFileNotFound)
		}
		return nil, domain.NewAudioEngineError("decode", path, "cannot open clip", err)
	}
	defer f.Close()

	c, err := DecodeReader(f, filepath.Ext(path))
	if err != nil {
		return nil, domain.NewAudioEngineError("decode", path, "cannot decode clip", err)
	}
	c.Path = path

	return c, nil
}

// DecodeReader decodes a clip of the given format (a file extension such as ".mp3").
func DecodeReader(r io.ReadSeeker, format string) (*Clip, error) {
	c := &Clip{}
	readMetadata(r, c)

	var err error
	switch strings.ToLower(format) {
	case FormatMP3:
		err = decodeMP3(r, c)
	case FormatWAV:
		err = decodeWAV(r, c)
	default:
		return nil, fmt.Errorf("%q: %w", format, domain.ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, err
	}

	if c.Frames() == 0 {
		return nil, domain.ErrEmptyClip
	}
	return c, nil
}

// readMetadata fills title and artist from embedded tags when present.
// Clips without tags are fine; the reader is rewound either way.
func readMetadata(r io.ReadSeeker, c *Clip) {
	if m, err := tag.ReadFrom(r); err == nil {
		c.Title = strings.TrimSpace(m.Title())
		c.Artist = strings.TrimSpace(m.Artist())
	}
	_, _ = r.Seek(0, io.SeekStart)
}

// decodeMP3 decodes MP3 data; the decoder always yields 16-bit stereo.
func decodeMP3(r io.Reader, c *Clip) error {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return fmt.Errorf("mp3: %w", err)
	}

	pcm, err := io.ReadAll(dec)
	if err != nil {
		return fmt.Errorf("mp3: %w", err)
	}

	c.SampleRate = dec.SampleRate()
	c.Samples = make([]float32, len(pcm)/2)
	for i := range c.Samples {
		v := int16(uint16(pcm[2*i]) | uint16(pcm[2*i+1])<<8)
		c.Samples[i] = float32(v) / 32768
	}
	return nil
}

// decodeWAV decodes PCM WAV data of any bit depth and channel count.
// Mono is duplicated to both channels; extra channels are dropped.
func decodeWAV(r io.ReadSeeker, c *Clip) error {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return fmt.Errorf("wav: invalid file: %w", domain.ErrUnsupportedFormat)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return fmt.Errorf("wav: %w", err)
	}

	channels := buf.Format.NumChannels
	if channels <= 0 {
		return fmt.Errorf("wav: no channels: %w", domain.ErrUnsupportedFormat)
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth <= 0 || bitDepth > 32 {
		return fmt.Errorf("wav: bit depth %d: %w", bitDepth, domain.ErrUnsupportedFormat)
	}
	scale := float32(int64(1) << (bitDepth - 1))
	offset := 0
	if bitDepth == 8 {
		// 8-bit WAV samples are unsigned
		offset = 128
	}

	frames := len(buf.Data) / channels
	c.SampleRate = buf.Format.SampleRate
	c.Samples = make([]float32, frames*Channels)
	for i := 0; i < frames; i++ {
		left := float32(buf.Data[i*channels]-offset) / scale
		right := left
		if channels > 1 {
			right = float32(buf.Data[i*channels+1]-offset) / scale
		}
		c.Samples[i*Channels] = left
		c.Samples[i*Channels+1] = right
	}
	return nil
}
