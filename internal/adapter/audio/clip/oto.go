package clip

import (
	"context"
	"io"

	"github.com/hajimehoshi/oto/v2"
)

// otoOutput plays PCM through the system audio device.
type otoOutput struct {
	ctx *oto.Context
}

// OpenOto opens the default audio device with oto. Only one oto context may
// exist per process, so call it at most once.
func OpenOto(ctx context.Context, sampleRate, channels int) (Output, error) {
	otoCtx, ready, err := oto.NewContext(sampleRate, channels, oto.FormatSignedInt16LE)
	if err != nil {
		return nil, err
	}

	select {
	case <-ready:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	return &otoOutput{ctx: otoCtx}, nil
}

func (o *otoOutput) NewPlayer(r io.Reader) Player {
	return o.ctx.NewPlayer(r)
}
