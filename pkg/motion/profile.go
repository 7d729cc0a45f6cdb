package motion

import "strings"

// Profile names a bundle of idle ease-in and friction presets.
type Profile string

const (
	Snappy   Profile = "snappy"
	Smooth   Profile = "smooth"
	Marathon Profile = "marathon"
	Custom   Profile = "custom"
)

// DefaultProfile is used when no profile is configured.
const DefaultProfile = Smooth

// Preset holds the values a profile selects.
type Preset struct {
	EaseIn   float64
	Friction float64
}

// Profiles lists every named profile.
var Profiles = []Profile{Snappy, Smooth, Marathon, Custom}

var presets = map[Profile]Preset{
	Snappy:   {EaseIn: 0.2, Friction: 0.85},
	Smooth:   {EaseIn: 0.05, Friction: 0.95},
	Marathon: {EaseIn: 0.01, Friction: 0.985},
}

// ParseProfile resolves a profile name case-insensitively.
func ParseProfile(name string) (Profile, bool) {
	p := Profile(strings.ToLower(strings.TrimSpace(name)))
	if p == Custom {
		return p, true
	}
	if _, ok := presets[p]; ok {
		return p, true
	}
	return DefaultProfile, false
}

// Resolve returns the preset for p. Custom, and any unknown profile, yields
// custom unchanged.
func (p Profile) Resolve(custom Preset) Preset {
	if v, ok := presets[p]; ok {
		return v
	}
	return custom
}
