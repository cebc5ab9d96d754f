package ports

import (
	"context"
	"image"
)

// AssetLoader resolves decorative asset names into decoded images.
// Load is called once per asset from its own goroutine.
type AssetLoader interface {
	Load(ctx context.Context, name string) (image.Image, error)
}
