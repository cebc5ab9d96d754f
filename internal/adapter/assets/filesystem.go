// Package assets loads decorative images from the filesystem.
package assets

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	// Registered image formats
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/tejashwikalptaru/apparition/internal/domain"
	"github.com/tejashwikalptaru/apparition/internal/ports"
)

// FileLoader decodes images stored under a root directory.
type FileLoader struct {
	logger *slog.Logger
	root   string
}

// NewFileLoader creates a loader for images under root.
func NewFileLoader(logger *slog.Logger, root string) *FileLoader {
	return &FileLoader{logger: logger, root: root}
}

// Root returns the directory images are loaded from.
func (l *FileLoader) Root() string {
	return l.root
}

// Load decodes the image called name. Names are relative to the root and may
// not escape it.
func (l *FileLoader) Load(ctx context.Context, name string) (image.Image, error) {
	path, err := l.resolve(name)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, domain.NewAssetError(name, "cancelled", err)
	}

	img, err := DecodeFile(path)
	if err != nil {
		return nil, domain.NewAssetError(name, "cannot load image", err)
	}

	l.logger.Debug("asset decoded", slog.String("name", name), slog.String("bounds", img.Bounds().String()))
	return img, nil
}

// resolve maps an asset name to a path inside the root.
func (l *FileLoader) resolve(name string) (string, error) {
	if name == "" || filepath.IsAbs(name) {
		return "", domain.NewAssetError(name, "invalid asset name", domain.ErrInvalidAssetName)
	}
	clean := filepath.Clean(name)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", domain.NewAssetError(name, "asset name escapes the asset directory", domain.ErrInvalidAssetName)
	}
	return filepath.Join(l.root, clean), nil
}

// DecodeFile decodes the image at path in any registered format.
func DecodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, domain.ErrFileNotFound)
		}
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, errors.Join(domain.ErrUnsupportedFormat, err))
	}
	return img, nil
}

// Verify that FileLoader implements the AssetLoader interface
var _ ports.AssetLoader = (*FileLoader)(nil)
