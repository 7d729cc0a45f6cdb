// Package interact resolves pointer, tilt and keyboard input against the last
// projected frame and turns it into velocity changes and presentation
// overrides.
//
// Nothing here holds a reference to the engine. Hit-testing reads a
// projection.Frame, velocity helpers are pure functions, and Hover, Overlay
// and Throttle are small state holders owned by the caller.
package interact

import "github.com/matzehuels/tagcloud/pkg/projection"

// HitTest returns the topmost item whose box contains (x, y). Items are
// checked in reverse draw order, so the most recently drawn item wins when
// boxes overlap. A nil or empty frame never matches.
func HitTest(f *projection.Frame, x, y float64) (projection.Item, bool) {
	if f == nil {
		return projection.Item{}, false
	}
	for i := len(f.Items) - 1; i >= 0; i-- {
		if f.Items[i].Box.Contains(x, y) {
			return f.Items[i], true
		}
	}
	return projection.Item{}, false
}
