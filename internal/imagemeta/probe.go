package imagemeta

import (
	"fmt"
	"image"
	"os"

	// Decoders registered for image.DecodeConfig.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"photocat/internal/catalog"
)

// ConfigProber reads image dimensions from the file header without decoding pixels.
type ConfigProber struct{}

// NewConfigProber creates a ConfigProber.
func NewConfigProber() *ConfigProber {
	return &ConfigProber{}
}

// ProbeDimensions returns the width and height of the image at path.
func (p *ConfigProber) ProbeDimensions(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decoding image header: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// Compile-time check that ConfigProber implements catalog.ImageProber interface
var _ catalog.ImageProber = (*ConfigProber)(nil)
