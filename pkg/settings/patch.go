package settings

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/matzehuels/tagcloud/pkg/errors"
	"github.com/matzehuels/tagcloud/pkg/layout"
	"github.com/matzehuels/tagcloud/pkg/motion"
)

// Patch is a partial settings update. Nil fields are left unchanged.
type Patch struct {
	Shape       *layout.Shape
	Radius      *float64
	MajorRadius *float64
	MinorRadius *float64

	Speed       *float64
	Easing      *float64
	MaxVelocity *float64
	AutoSpin    *bool
	AutoEasing  *bool
	Paused      *bool

	EasingProfile        *motion.Profile
	CustomEaseIn         *float64
	Friction             *float64
	MinVelocityThreshold *float64

	EnableDrag        *bool
	EnableClick       *bool
	EnableTouch       *bool
	EnableOrientation *bool
	EnableKeyboard    *bool
	DragSensitivity   *float64
	TiltSensitivity   *float64

	HoverEffect   *bool
	HoverScale    *float64
	HoverColor    *string
	HoverOpacity  *float64
	ClickEffect   *bool
	ClickScale    *float64
	ClickDuration *time.Duration

	CustomFont       *string
	CustomFontWeight *string
	FontSize         *float64
	MinOpacity       *float64
}

// Relayout reports whether applying p changes the geometry of the layout.
func (p Patch) Relayout() bool {
	return p.Shape != nil || p.Radius != nil || p.MajorRadius != nil || p.MinorRadius != nil
}

func (p Patch) applyTo(s Settings) Settings {
	set(&s.Shape, p.Shape)
	set(&s.Radius, p.Radius)
	set(&s.MajorRadius, p.MajorRadius)
	set(&s.MinorRadius, p.MinorRadius)
	set(&s.Speed, p.Speed)
	set(&s.Easing, p.Easing)
	set(&s.MaxVelocity, p.MaxVelocity)
	set(&s.AutoSpin, p.AutoSpin)
	set(&s.AutoEasing, p.AutoEasing)
	set(&s.Paused, p.Paused)
	set(&s.EasingProfile, p.EasingProfile)
	set(&s.CustomEaseIn, p.CustomEaseIn)
	set(&s.Friction, p.Friction)
	set(&s.MinVelocityThreshold, p.MinVelocityThreshold)
	set(&s.EnableDrag, p.EnableDrag)
	set(&s.EnableClick, p.EnableClick)
	set(&s.EnableTouch, p.EnableTouch)
	set(&s.EnableOrientation, p.EnableOrientation)
	set(&s.EnableKeyboard, p.EnableKeyboard)
	set(&s.DragSensitivity, p.DragSensitivity)
	set(&s.TiltSensitivity, p.TiltSensitivity)
	set(&s.HoverEffect, p.HoverEffect)
	set(&s.HoverScale, p.HoverScale)
	set(&s.HoverColor, p.HoverColor)
	set(&s.HoverOpacity, p.HoverOpacity)
	set(&s.ClickEffect, p.ClickEffect)
	set(&s.ClickScale, p.ClickScale)
	set(&s.ClickDuration, p.ClickDuration)
	set(&s.CustomFont, p.CustomFont)
	set(&s.CustomFontWeight, p.CustomFontWeight)
	set(&s.FontSize, p.FontSize)
	set(&s.MinOpacity, p.MinOpacity)
	return s
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// field decodes one loosely typed value into a patch.
type field struct {
	name   string
	decode func(p *Patch, v any) error
}

func floatField(name string, dst func(*Patch) **float64) field {
	return field{name, func(p *Patch, v any) error {
		f, err := toFloat(v)
		if err != nil {
			return err
		}
		*dst(p) = &f
		return nil
	}}
}

func boolField(name string, dst func(*Patch) **bool) field {
	return field{name, func(p *Patch, v any) error {
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("must be a boolean")
		}
		*dst(p) = &b
		return nil
	}}
}

func stringField(name string, dst func(*Patch) **string) field {
	return field{name, func(p *Patch, v any) error {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("must be a string")
		}
		*dst(p) = &s
		return nil
	}}
}

var fields = []field{
	{"shape", func(p *Patch, v any) error {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("must be a string")
		}
		shape := layout.Shape(s)
		p.Shape = &shape
		return nil
	}},
	floatField("radius", func(p *Patch) **float64 { return &p.Radius }),
	floatField("majorRadius", func(p *Patch) **float64 { return &p.MajorRadius }),
	floatField("minorRadius", func(p *Patch) **float64 { return &p.MinorRadius }),
	floatField("speed", func(p *Patch) **float64 { return &p.Speed }),
	floatField("easing", func(p *Patch) **float64 { return &p.Easing }),
	floatField("maxVelocity", func(p *Patch) **float64 { return &p.MaxVelocity }),
	boolField("autoSpin", func(p *Patch) **bool { return &p.AutoSpin }),
	boolField("autoEasing", func(p *Patch) **bool { return &p.AutoEasing }),
	boolField("paused", func(p *Patch) **bool { return &p.Paused }),
	{"easingProfile", func(p *Patch, v any) error {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("must be a string")
		}
		profile := motion.Profile(s)
		p.EasingProfile = &profile
		return nil
	}},
	floatField("customEaseIn", func(p *Patch) **float64 { return &p.CustomEaseIn }),
	floatField("friction", func(p *Patch) **float64 { return &p.Friction }),
	floatField("minVelocityThreshold", func(p *Patch) **float64 { return &p.MinVelocityThreshold }),
	boolField("enableDrag", func(p *Patch) **bool { return &p.EnableDrag }),
	boolField("enableClick", func(p *Patch) **bool { return &p.EnableClick }),
	boolField("enableTouch", func(p *Patch) **bool { return &p.EnableTouch }),
	boolField("enableOrientation", func(p *Patch) **bool { return &p.EnableOrientation }),
	boolField("enableKeyboard", func(p *Patch) **bool { return &p.EnableKeyboard }),
	floatField("dragSensitivity", func(p *Patch) **float64 { return &p.DragSensitivity }),
	floatField("tiltSensitivity", func(p *Patch) **float64 { return &p.TiltSensitivity }),
	boolField("hoverEffect", func(p *Patch) **bool { return &p.HoverEffect }),
	floatField("hoverScale", func(p *Patch) **float64 { return &p.HoverScale }),
	stringField("hoverColor", func(p *Patch) **string { return &p.HoverColor }),
	floatField("hoverOpacity", func(p *Patch) **float64 { return &p.HoverOpacity }),
	boolField("clickEffect", func(p *Patch) **bool { return &p.ClickEffect }),
	floatField("clickScale", func(p *Patch) **float64 { return &p.ClickScale }),
	{"clickDuration", func(p *Patch, v any) error {
		d, err := toDuration(v)
		if err != nil {
			return err
		}
		p.ClickDuration = &d
		return nil
	}},
	stringField("customFont", func(p *Patch) **string { return &p.CustomFont }),
	{"customFontWeight", func(p *Patch, v any) error {
		var s string
		switch w := v.(type) {
		case string:
			s = w
		default:
			f, err := toFloat(v)
			if err != nil {
				return fmt.Errorf("must be a string or a number")
			}
			s = fmt.Sprint(int(f))
		}
		p.CustomFontWeight = &s
		return nil
	}},
	floatField("fontSize", func(p *Patch) **float64 { return &p.FontSize }),
	floatField("minOpacity", func(p *Patch) **float64 { return &p.MinOpacity }),
}

var fieldsByKey = func() map[string]field {
	m := make(map[string]field, len(fields))
	for _, f := range fields {
		m[normalizeKey(f.name)] = f
	}
	return m
}()

// Names lists every recognized option name.
func Names() []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.name
	}
	return out
}

// normalizeKey folds camelCase, snake_case and kebab-case spellings of one
// option name onto the same key.
func normalizeKey(k string) string {
	return strings.ToLower(strings.NewReplacer("_", "", "-", "").Replace(k))
}

// DecodePatch converts loosely typed input, as produced by JSON or TOML
// decoders, into a Patch. Unknown keys and values of the wrong type are
// skipped and reported; the rest of the input still applies.
func DecodePatch(raw map[string]any) (Patch, []error) {
	var (
		p     Patch
		diags []error
	)
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		f, ok := fieldsByKey[normalizeKey(k)]
		if !ok {
			diags = append(diags, &errors.OptionError{Field: k, Value: raw[k], Fallback: nil, Reason: "is not a recognized option"})
			continue
		}
		if err := f.decode(&p, raw[k]); err != nil {
			diags = append(diags, &errors.OptionError{Field: f.name, Value: raw[k], Fallback: "current value", Reason: err.Error()})
		}
	}
	return p, diags
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return math.NaN(), fmt.Errorf("must be a number")
		}
		return f, nil
	}
	return math.NaN(), fmt.Errorf("must be a number")
}

// toDuration accepts a Go duration string ("250ms") or a number of
// milliseconds.
func toDuration(v any) (time.Duration, error) {
	switch d := v.(type) {
	case time.Duration:
		return d, nil
	case string:
		parsed, err := time.ParseDuration(d)
		if err != nil {
			return 0, fmt.Errorf("must be a duration such as \"200ms\"")
		}
		return parsed, nil
	}
	ms, err := toFloat(v)
	if err != nil {
		return 0, fmt.Errorf("must be a duration or a number of milliseconds")
	}
	return time.Duration(ms * float64(time.Millisecond)), nil
}
