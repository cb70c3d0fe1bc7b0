package imagemeta

import (
	"fmt"
	"os"
	"strings"

	"github.com/rwcarlsen/goexif/exif"

	"photocat/internal/catalog"
)

// ExifExtractor reads camera metadata from the EXIF block of an image.
// Dimensions missing from EXIF are taken from the image header.
type ExifExtractor struct {
	prober catalog.ImageProber
}

// NewExifExtractor creates an extractor that uses prober for missing dimensions.
func NewExifExtractor(prober catalog.ImageProber) *ExifExtractor {
	return &ExifExtractor{prober: prober}
}

// ExtractMetadata returns the EXIF metadata of the image at path.
// It fails when the file has no decodable EXIF block.
func (e *ExifExtractor) ExtractMetadata(path string) (*catalog.Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding exif: %w", err)
	}

	meta := &catalog.Metadata{
		Width:       intTag(x, exif.PixelXDimension),
		Height:      intTag(x, exif.PixelYDimension),
		Orientation: intTag(x, exif.Orientation),
		CameraBrand: stringTag(x, exif.Make),
		CameraModel: stringTag(x, exif.Model),
	}
	if t, err := x.DateTime(); err == nil {
		meta.CapturedAt = &t
	}

	if meta.Width == 0 || meta.Height == 0 {
		meta.Width, meta.Height, err = e.prober.ProbeDimensions(path)
		if err != nil {
			return nil, err
		}
	}

	return meta, nil
}

func stringTag(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	s, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimRight(s, "\x00"))
}

func intTag(x *exif.Exif, name exif.FieldName) int {
	tag, err := x.Get(name)
	if err != nil {
		return 0
	}
	v, err := tag.Int(0)
	if err != nil {
		return 0
	}
	return v
}

// Compile-time check that ExifExtractor implements catalog.MetadataExtractor interface
var _ catalog.MetadataExtractor = (*ExifExtractor)(nil)
