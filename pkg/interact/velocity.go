package interact

import (
	"math"

	"github.com/matzehuels/tagcloud/pkg/geom"
)

// ClickImpulse is the click velocity per unit of speed.
const ClickImpulse = 0.02

// KeyStep is the keyboard velocity nudge per unit of speed.
const KeyStep = 0.01

// deadCenter is the pointer-to-center distance, in pixels, below which a
// click has no meaningful direction.
const deadCenter = 1.0

// DragVelocity converts a pointer delta into a velocity. Horizontal motion
// spins the cloud and vertical motion tilts it, so the surface facing the
// viewer follows the pointer. The result is clamped to ±maxVelocity when
// maxVelocity > 0.
func DragVelocity(dx, dy, speed, sensitivity, maxVelocity float64) geom.Vec2 {
	k := speed * sensitivity
	return clampVec(geom.Vec2{X: dy * k, Y: -dx * k}, maxVelocity)
}

// TiltVelocity converts device orientation angles in degrees into a
// velocity. beta is the front-to-back tilt and gamma the left-to-right tilt.
func TiltVelocity(beta, gamma, speed, sensitivity, maxVelocity float64) geom.Vec2 {
	k := speed * sensitivity
	return clampVec(geom.Vec2{X: beta * k, Y: -gamma * k}, maxVelocity)
}

// ClickVelocity returns the impulse for a click at (x, y) in a viewport
// centered on (cx, cy). The impulse is tangential to the vector from the
// center to the click, turning the clicked side away from the viewer. A
// click within one pixel of the center spins around the vertical axis at
// full impulse.
func ClickVelocity(x, y, cx, cy, speed float64) geom.Vec2 {
	dx, dy := x-cx, y-cy
	d := math.Hypot(dx, dy)
	mag := ClickImpulse * speed
	if d < deadCenter || !geom.Finite(d) {
		return geom.Vec2{Y: mag}
	}
	return geom.Vec2{X: -dy / d * mag, Y: dx / d * mag}
}

// Key identifies a navigation key.
type Key int

const (
	KeyNone Key = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
)

// KeyNudge returns the velocity change for an arrow key. The directions
// match dragging the pointer the same way.
func KeyNudge(k Key, speed float64) geom.Vec2 {
	n := KeyStep * speed
	switch k {
	case KeyLeft:
		return geom.Vec2{Y: n}
	case KeyRight:
		return geom.Vec2{Y: -n}
	case KeyUp:
		return geom.Vec2{X: -n}
	case KeyDown:
		return geom.Vec2{X: n}
	}
	return geom.Vec2{}
}

func clampVec(v geom.Vec2, limit float64) geom.Vec2 {
	if limit <= 0 {
		return v
	}
	return geom.Vec2{X: geom.Clamp(v.X, -limit, limit), Y: geom.Clamp(v.Y, -limit, limit)}
}
