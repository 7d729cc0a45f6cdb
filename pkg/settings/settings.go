// Package settings defines the configuration record of a tag cloud.
//
// Settings are never rejected wholesale. Invalid values are replaced, and
// every replacement is reported as an *errors.OptionError so the caller can
// surface it as a diagnostic:
//
//	s, diags := settings.Defaults().Apply(settings.Patch{Radius: ptr(-5.0)})
//	// s.Radius is still 200; diags[0] explains why.
package settings

import (
	"time"

	"github.com/matzehuels/tagcloud/pkg/errors"
	"github.com/matzehuels/tagcloud/pkg/geom"
	"github.com/matzehuels/tagcloud/pkg/layout"
	"github.com/matzehuels/tagcloud/pkg/motion"
)

// Bounds enforced by Sanitize.
const (
	MinEasing = 0.01
	MaxEasing = 0.5
	MinSpeed  = 0.01
	MaxSpeed  = 10
)

// Settings is the flat configuration record of one engine instance.
type Settings struct {
	Shape       layout.Shape `json:"shape"`
	Radius      float64      `json:"radius"`
	MajorRadius float64      `json:"majorRadius"`
	MinorRadius float64      `json:"minorRadius"`

	Speed       float64 `json:"speed"`
	Easing      float64 `json:"easing"`
	MaxVelocity float64 `json:"maxVelocity"`
	AutoSpin    bool    `json:"autoSpin"`
	AutoEasing  bool    `json:"autoEasing"`
	Paused      bool    `json:"paused"`

	EasingProfile        motion.Profile `json:"easingProfile"`
	CustomEaseIn         float64        `json:"customEaseIn"`
	Friction             float64        `json:"friction"`
	MinVelocityThreshold float64        `json:"minVelocityThreshold"`

	EnableDrag        bool    `json:"enableDrag"`
	EnableClick       bool    `json:"enableClick"`
	EnableTouch       bool    `json:"enableTouch"`
	EnableOrientation bool    `json:"enableOrientation"`
	EnableKeyboard    bool    `json:"enableKeyboard"`
	DragSensitivity   float64 `json:"dragSensitivity"`
	TiltSensitivity   float64 `json:"tiltSensitivity"`

	HoverEffect   bool          `json:"hoverEffect"`
	HoverScale    float64       `json:"hoverScale"`
	HoverColor    string        `json:"hoverColor"`
	HoverOpacity  float64       `json:"hoverOpacity"`
	ClickEffect   bool          `json:"clickEffect"`
	ClickScale    float64       `json:"clickScale"`
	ClickDuration time.Duration `json:"clickDuration"`

	CustomFont       string  `json:"customFont"`
	CustomFontWeight string  `json:"customFontWeight"`
	FontSize         float64 `json:"fontSize"`
	MinOpacity       float64 `json:"minOpacity"`
}

// Defaults returns the documented default configuration.
func Defaults() Settings {
	return Settings{
		Shape:  layout.Default,
		Radius: 200,

		Speed:       1,
		Easing:      0.1,
		MaxVelocity: 0.1,
		AutoSpin:    true,
		AutoEasing:  true,

		EasingProfile:        motion.DefaultProfile,
		CustomEaseIn:         0.05,
		Friction:             0.95,
		MinVelocityThreshold: 0.0005,

		EnableDrag:        true,
		EnableClick:       true,
		EnableTouch:       true,
		EnableOrientation: true,
		EnableKeyboard:    true,
		DragSensitivity:   0.002,
		TiltSensitivity:   0.001,

		HoverEffect:   true,
		HoverScale:    1.2,
		HoverColor:    "#ff6b35",
		HoverOpacity:  1,
		ClickEffect:   true,
		ClickScale:    1.5,
		ClickDuration: 200 * time.Millisecond,

		CustomFontWeight: "normal",
		FontSize:         16,
		MinOpacity:       0.15,
	}
}

// Motion derives the rotation model parameters.
func (s Settings) Motion() motion.Params {
	preset := s.EasingProfile.Resolve(motion.Preset{EaseIn: s.CustomEaseIn, Friction: s.Friction})
	return motion.Params{
		Speed:       s.Speed,
		Easing:      s.Easing,
		MaxVelocity: s.MaxVelocity,
		EaseIn:      preset.EaseIn,
		Friction:    preset.Friction,
		MinVelocity: s.MinVelocityThreshold,
		AutoSpin:    s.AutoSpin,
		AutoEasing:  s.AutoEasing,
		LockTilt:    s.Shape.LocksTilt(),
		LockSpin:    s.Shape.LocksSpin(),
	}
}

// LayoutParams returns the shape sub-radii.
func (s Settings) LayoutParams() layout.Params {
	return layout.Params{MajorRadius: s.MajorRadius, MinorRadius: s.MinorRadius}
}

// Bold reports whether the configured font weight selects a bold face.
func (s Settings) Bold() bool {
	switch s.CustomFontWeight {
	case "bold", "bolder", "600", "700", "800", "900":
		return true
	}
	return false
}

// Sanitize replaces every invalid field with its default.
func (s Settings) Sanitize() (Settings, []error) {
	return s.sanitize(Defaults())
}

// Apply returns s with p applied. Invalid patched values keep the value s
// already had, except an unknown shape which falls back to the default shape.
func (s Settings) Apply(p Patch) (Settings, []error) {
	return p.applyTo(s).sanitize(s)
}

// rule checks one numeric field. It returns the value to store and, when
// that differs from v, the reason. useFallback selects the fallback value
// instead of fixed.
type rule func(v float64) (fixed float64, reason string, useFallback bool)

func positive(v float64) (float64, string, bool) {
	if !geom.Finite(v) || v <= 0 {
		return 0, "must be a positive number", true
	}
	return v, "", false
}

func nonNegative(v float64) (float64, string, bool) {
	if !geom.Finite(v) || v < 0 {
		return 0, "must not be negative", true
	}
	return v, "", false
}

func within(lo, hi float64) rule {
	return func(v float64) (float64, string, bool) {
		switch {
		case !geom.Finite(v):
			return 0, "must be a finite number", true
		case v < lo:
			return lo, "is below the minimum", false
		case v > hi:
			return hi, "is above the maximum", false
		}
		return v, "", false
	}
}

func openUnit(v float64) (float64, string, bool) {
	if !geom.Finite(v) || v <= 0 || v >= 1 {
		return 0, "must be strictly between 0 and 1", true
	}
	return v, "", false
}

func unitLeftOpen(v float64) (float64, string, bool) {
	if !geom.Finite(v) || v <= 0 || v > 1 {
		return 0, "must be in (0, 1]", true
	}
	return v, "", false
}

type sanitizer struct {
	diags []error
}

func (z *sanitizer) float(field string, v *float64, fallback float64, check rule) {
	fixed, reason, useFallback := check(*v)
	if reason == "" {
		return
	}
	if useFallback {
		fixed = fallback
	}
	z.diags = append(z.diags, &errors.OptionError{Field: field, Value: *v, Fallback: fixed, Reason: reason})
	*v = fixed
}

func (z *sanitizer) color(field string, v *string, fallback string) {
	if errors.IsHexColor(*v) {
		return
	}
	z.diags = append(z.diags, &errors.OptionError{Field: field, Value: *v, Fallback: fallback, Reason: "must be a #rrggbb color"})
	*v = fallback
}

func (s Settings) sanitize(fallback Settings) (Settings, []error) {
	var z sanitizer

	if shape, ok := layout.ParseShape(string(s.Shape)); ok {
		s.Shape = shape
	} else {
		z.diags = append(z.diags, &errors.OptionError{Field: "shape", Value: s.Shape, Fallback: layout.Default, Reason: "is not a known shape"})
		s.Shape = layout.Default
	}
	z.float("radius", &s.Radius, fallback.Radius, positive)
	z.float("majorRadius", &s.MajorRadius, fallback.MajorRadius, nonNegative)
	z.float("minorRadius", &s.MinorRadius, fallback.MinorRadius, nonNegative)

	z.float("speed", &s.Speed, fallback.Speed, within(MinSpeed, MaxSpeed))
	z.float("easing", &s.Easing, fallback.Easing, within(MinEasing, MaxEasing))
	z.float("maxVelocity", &s.MaxVelocity, fallback.MaxVelocity, nonNegative)

	if profile, ok := motion.ParseProfile(string(s.EasingProfile)); ok {
		s.EasingProfile = profile
	} else {
		z.diags = append(z.diags, &errors.OptionError{Field: "easingProfile", Value: s.EasingProfile, Fallback: fallback.EasingProfile, Reason: "is not a known profile"})
		s.EasingProfile = fallback.EasingProfile
	}
	z.float("customEaseIn", &s.CustomEaseIn, fallback.CustomEaseIn, unitLeftOpen)
	z.float("friction", &s.Friction, fallback.Friction, openUnit)
	z.float("minVelocityThreshold", &s.MinVelocityThreshold, fallback.MinVelocityThreshold, positive)

	z.float("dragSensitivity", &s.DragSensitivity, fallback.DragSensitivity, nonNegative)
	z.float("tiltSensitivity", &s.TiltSensitivity, fallback.TiltSensitivity, nonNegative)

	z.float("hoverScale", &s.HoverScale, fallback.HoverScale, positive)
	z.color("hoverColor", &s.HoverColor, fallback.HoverColor)
	z.float("hoverOpacity", &s.HoverOpacity, fallback.HoverOpacity, within(0, 1))
	z.float("clickScale", &s.ClickScale, fallback.ClickScale, positive)
	if s.ClickDuration < 0 {
		z.diags = append(z.diags, &errors.OptionError{Field: "clickDuration", Value: s.ClickDuration, Fallback: fallback.ClickDuration, Reason: "must not be negative"})
		s.ClickDuration = fallback.ClickDuration
	}

	if s.CustomFontWeight == "" {
		s.CustomFontWeight = "normal"
	}
	z.float("fontSize", &s.FontSize, fallback.FontSize, positive)
	z.float("minOpacity", &s.MinOpacity, fallback.MinOpacity, within(0, 1))

	return s, z.diags
}
