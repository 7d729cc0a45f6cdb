package sink

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/tagcloud/pkg/geom"
)

// Default colors.
const (
	DefaultBackground = "#ffffff"
	DefaultInk        = "#333333"
)

// parseColor parses a #rrggbb color, falling back to fallback.
func parseColor(hex, fallback string) colorful.Color {
	if c, err := colorful.Hex(hex); err == nil {
		return c
	}
	c, _ := colorful.Hex(fallback)
	return c
}

// flatten blends c over bg at the given opacity. Raster output uses it so
// faded tags stay legible on any background.
func flatten(c, bg colorful.Color, opacity float64) colorful.Color {
	return bg.BlendRgb(c, geom.Clamp(opacity, 0, 1)).Clamped()
}
