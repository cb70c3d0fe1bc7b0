package rendition

import (
	"photocat/internal/catalog"
	"photocat/internal/config"
)

// NewRendererFromConfig creates a Renderer from the rendition config.
func NewRendererFromConfig(cfg config.RenditionConfig) (*Renderer, error) {
	return NewRenderer(cfg.JPEGQuality)
}

// DimensionSpecs converts configured dimensions to catalog specs, keeping order.
func DimensionSpecs(dims []config.DimensionConfig) []catalog.DimensionSpec {
	specs := make([]catalog.DimensionSpec, 0, len(dims))
	for _, d := range dims {
		specs = append(specs, DimensionSpec(d))
	}
	return specs
}

// DimensionSpec converts one configured dimension.
func DimensionSpec(d config.DimensionConfig) catalog.DimensionSpec {
	return catalog.DimensionSpec{ID: d.ID, Width: d.Width, Height: d.Height, Crop: d.Crop}
}
