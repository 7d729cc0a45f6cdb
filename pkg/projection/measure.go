package projection

import (
	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/tagcloud/pkg/tags"
)

// Measurer sizes the bounding box of a tag drawn at fontSize.
type Measurer interface {
	Measure(t tags.Tag, fontSize float64) (w, h float64)
}

// MeasureFunc adapts a function to Measurer.
type MeasureFunc func(t tags.Tag, fontSize float64) (w, h float64)

// Measure calls f.
func (f MeasureFunc) Measure(t tags.Tag, fontSize float64) (w, h float64) {
	return f(t, fontSize)
}

// Glyph proportions used by RuneMeasurer.
const (
	glyphAdvance = 0.6
	lineHeight   = 1.2
	iconSize     = 2.0
)

// RuneMeasurer estimates text extents from display cell widths, counting
// wide East Asian runes as two cells. Image and vector tags without text
// get a square of twice the font size.
type RuneMeasurer struct{}

// Measure implements Measurer.
func (RuneMeasurer) Measure(t tags.Tag, fontSize float64) (w, h float64) {
	if t.Text == "" {
		return fontSize * iconSize, fontSize * iconSize
	}
	cells := runewidth.StringWidth(t.Text)
	return float64(cells) * fontSize * glyphAdvance, fontSize * lineHeight
}
