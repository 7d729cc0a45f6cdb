// Package tags holds the ordered tag collection and its undo/redo history.
//
// A Tag's identity is its position in the collection. Every mutating
// operation ends by reassigning Index so that Index always equals the slice
// position. History entries own value copies of the tags they reference, so
// later mutations of the live collection never leak into undo or redo.
package tags

import (
	"github.com/matzehuels/tagcloud/pkg/errors"
	"github.com/matzehuels/tagcloud/pkg/geom"
)

// Tag is one displayed item.
type Tag struct {
	// Index is the tag's position in the collection.
	Index int `json:"index" toml:"-"`

	Text     string  `json:"text,omitempty" toml:"text"`
	Image    string  `json:"image,omitempty" toml:"image"`
	SVG      string  `json:"svg,omitempty" toml:"svg"`
	Color    string  `json:"color,omitempty" toml:"color"`
	FontSize float64 `json:"fontSize,omitempty" toml:"font_size"`

	// Pos is the coordinate in shape-local space, rotated in place every tick.
	Pos geom.Vec3 `json:"pos" toml:"-"`
}

// HasContent reports whether the tag has something to draw.
func (t Tag) HasContent() bool {
	return t.Text != "" || t.Image != "" || t.SVG != ""
}

// Content returns the tag with its geometry and index cleared. Two tags with
// equal Content show the same thing.
func (t Tag) Content() Tag {
	return Tag{
		Text:     t.Text,
		Image:    t.Image,
		SVG:      t.SVG,
		Color:    t.Color,
		FontSize: t.FontSize,
	}
}

// Label returns the text used to describe the tag in logs and events.
func (t Tag) Label() string {
	switch {
	case t.Text != "":
		return t.Text
	case t.Image != "":
		return t.Image
	case t.SVG != "":
		return "<svg>"
	}
	return ""
}

// Validate checks a tag before it enters the collection through Add.
// A tag needs a #rrggbb color and some content; text, when present, must be
// a non-empty single line.
func Validate(t Tag) error {
	if !t.HasContent() {
		return errors.New(errors.ErrCodeInvalidTag, "tag needs text, image or svg content")
	}
	if t.Text != "" || (t.Image == "" && t.SVG == "") {
		if err := errors.ValidateLabel(t.Text); err != nil {
			return err
		}
	}
	if t.Image != "" {
		if err := errors.ValidateResourceRef(t.Image); err != nil {
			return err
		}
	}
	if t.SVG != "" {
		if err := errors.ValidateVectorMarkup(t.SVG); err != nil {
			return err
		}
	}
	if t.FontSize < 0 {
		return errors.New(errors.ErrCodeInvalidTag, "font size cannot be negative: %v", t.FontSize)
	}
	return errors.ValidateHexColor(t.Color)
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Text     *string  `json:"text,omitempty"`
	Image    *string  `json:"image,omitempty"`
	SVG      *string  `json:"svg,omitempty"`
	Color    *string  `json:"color,omitempty"`
	FontSize *float64 `json:"fontSize,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Text == nil && p.Image == nil && p.SVG == nil && p.Color == nil && p.FontSize == nil
}

// ApplyTo returns t with the patch applied.
func (p Patch) ApplyTo(t Tag) Tag {
	if p.Text != nil {
		t.Text = *p.Text
	}
	if p.Image != nil {
		t.Image = *p.Image
	}
	if p.SVG != nil {
		t.SVG = *p.SVG
	}
	if p.Color != nil {
		t.Color = *p.Color
	}
	if p.FontSize != nil {
		t.FontSize = *p.FontSize
	}
	return t
}
