// Package projection maps rotated tag coordinates to screen space.
//
// The projection is a weak perspective around the viewport center: a tag at
// depth z is scaled by 2cx/(2cx+z), where cx is half the viewport width.
// Items are returned in painter's order, farthest first, so drawing them in
// sequence leaves the nearest tag on top.
package projection

import (
	"cmp"
	"slices"

	"github.com/matzehuels/tagcloud/pkg/geom"
	"github.com/matzehuels/tagcloud/pkg/tags"
)

// DefaultMinOpacity keeps the farthest tags faintly visible.
const DefaultMinOpacity = 0.15

// Viewport is the size of the drawing surface in pixels.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the viewport midpoint.
func (v Viewport) Center() (cx, cy float64) {
	return v.Width / 2, v.Height / 2
}

// Font names the face tags are drawn with. Empty fields select the
// painter's default.
type Font struct {
	Family string `json:"family,omitempty"`
	Weight string `json:"weight,omitempty"`
}

// Override is a transient presentation change for one tag. Zero fields mean
// "no change".
type Override struct {
	Scale   float64
	Color   string
	Opacity float64
}

// Overrides supplies the overrides active for a tag index.
type Overrides interface {
	Override(index int) (Override, bool)
}

// Options controls one projection pass.
type Options struct {
	// Radius normalizes depth for the opacity falloff.
	Radius float64
	// FontSize applies to tags without their own size.
	FontSize float64
	// MinOpacity is the opacity floor; zero selects DefaultMinOpacity.
	MinOpacity float64
	// Measurer sizes bounding boxes; nil selects RuneMeasurer.
	Measurer Measurer
	// Font is copied onto every item.
	Font Font
}

// Box is an axis-aligned screen rectangle given by its center and size.
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"width"`
	H float64 `json:"height"`
}

// Contains reports whether (x, y) lies inside b, edges included.
func (b Box) Contains(x, y float64) bool {
	dx, dy := x-b.X, y-b.Y
	return dx >= -b.W/2 && dx <= b.W/2 && dy >= -b.H/2 && dy <= b.H/2
}

// Item is one tag ready to draw.
type Item struct {
	Tag tags.Tag `json:"tag"`

	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
	Scale    float64 `json:"scale"`
	FontSize float64 `json:"fontSize"`
	Opacity  float64 `json:"opacity"`
	Color    string  `json:"color"`
	Font     Font    `json:"font"`
	Box      Box     `json:"box"`

	// Degenerate is set when the perspective fell back to scale 1 at the
	// viewport center.
	Degenerate bool `json:"degenerate,omitempty"`
}

// Frame is the result of one projection pass.
type Frame struct {
	Viewport Viewport `json:"viewport"`
	// Items are in draw order: non-increasing Z.
	Items []Item `json:"items"`
}

// Lookup returns the item drawn for the tag at index.
func (f *Frame) Lookup(index int) (Item, bool) {
	if f == nil {
		return Item{}, false
	}
	for _, it := range f.Items {
		if it.Tag.Index == index {
			return it, true
		}
	}
	return Item{}, false
}

// Perspective returns the weak-perspective scale for depth z. ok is false
// when the denominator is not positive or the result is not a usable
// number; scale is then 1.
func Perspective(cx, z float64) (scale float64, ok bool) {
	den := 2*cx + z
	if !geom.Finite(den) || den <= 0 {
		return 1, false
	}
	s := 2 * cx / den
	if !geom.Finite(s) || s <= 0 {
		return 1, false
	}
	return s, true
}

// Project computes the draw list for list. Tags without content or with a
// non-finite coordinate are left out; one bad tag never affects the rest.
func Project(list []tags.Tag, overrides Overrides, vp Viewport, opts Options) *Frame {
	m := opts.Measurer
	if m == nil {
		m = RuneMeasurer{}
	}
	floor := opts.MinOpacity
	if floor <= 0 {
		floor = DefaultMinOpacity
	}
	cx, cy := vp.Center()

	items := make([]Item, 0, len(list))
	for _, t := range list {
		if !t.HasContent() || !t.Pos.IsFinite() {
			continue
		}
		it := Item{Tag: t, Z: t.Pos.Z, Color: t.Color, Font: opts.Font}

		scale, ok := Perspective(cx, t.Pos.Z)
		if ok {
			it.X = t.Pos.X*scale + cx
			it.Y = t.Pos.Y*scale + cy
		} else {
			it.X, it.Y = cx, cy
			it.Degenerate = true
		}
		it.Opacity = depthOpacity(t.Pos.Z, opts.Radius, floor)

		if overrides != nil {
			if o, ok := overrides.Override(t.Index); ok {
				if o.Scale > 0 {
					scale *= o.Scale
				}
				if o.Color != "" {
					it.Color = o.Color
				}
				if o.Opacity > 0 {
					it.Opacity = o.Opacity
				}
			}
		}

		size := t.FontSize
		if size <= 0 {
			size = opts.FontSize
		}
		it.Scale = scale
		it.FontSize = size * scale
		w, h := m.Measure(t, it.FontSize)
		it.Box = Box{X: it.X, Y: it.Y, W: w, H: h}
		items = append(items, it)
	}

	slices.SortStableFunc(items, func(a, b Item) int {
		return cmp.Compare(b.Z, a.Z)
	})
	return &Frame{Viewport: vp, Items: items}
}

// depthOpacity maps z in [-radius, radius] to [floor, 1], nearest opaque.
func depthOpacity(z, radius, floor float64) float64 {
	if radius <= 0 {
		return 1
	}
	d := (z + radius) / (2 * radius)
	return geom.Clamp(1-d, floor, 1)
}
