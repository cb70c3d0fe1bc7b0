package rendition

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"photocat/internal/catalog"
)

// DefaultJPEGQuality is used when no quality is configured.
const DefaultJPEGQuality = 85

// Renderer produces JPEG renditions of cataloged images.
//
// The source is decoded with its EXIF orientation applied. A DimensionSpec
// with Crop and both sides set is filled exactly with a centered crop; any
// other spec is fitted inside the box, keeping the aspect ratio. Images are
// never enlarged, except by a crop fill.
type Renderer struct {
	quality int
}

// NewRenderer creates a Renderer encoding at the given JPEG quality (1-100).
func NewRenderer(quality int) (*Renderer, error) {
	if quality == 0 {
		quality = DefaultJPEGQuality
	}
	if quality < 1 || quality > 100 {
		return nil, fmt.Errorf("jpeg quality %d out of range 1-100", quality)
	}
	return &Renderer{quality: quality}, nil
}

// Render writes the rendition of src at dim to dst, creating parent
// directories. dst is replaced atomically.
func (r *Renderer) Render(src, dst string, dim catalog.DimensionSpec) error {
	if err := dim.Validate(); err != nil {
		return err
	}

	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resize(img, dim), imaging.JPEG, imaging.JPEGQuality(r.quality)); err != nil {
		return fmt.Errorf("failed to encode rendition: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create rendition directory: %w", err)
	}
	return writeFile(dst, &buf, int64(buf.Len()))
}

func resize(img image.Image, dim catalog.DimensionSpec) image.Image {
	w, h := dim.Width, dim.Height
	bounds := img.Bounds()

	switch {
	case w == 0 && h == 0:
		return img
	case dim.Crop && w > 0 && h > 0:
		return imaging.Fill(img, w, h, imaging.Center, imaging.Lanczos)
	case w == 0 || h == 0:
		if (w == 0 || bounds.Dx() <= w) && (h == 0 || bounds.Dy() <= h) {
			return img
		}
		return imaging.Resize(img, w, h, imaging.Lanczos)
	default:
		return imaging.Fit(img, w, h, imaging.Lanczos)
	}
}

// Compile-time check that Renderer implements catalog.RenditionProducer interface
var _ catalog.RenditionProducer = (*Renderer)(nil)
