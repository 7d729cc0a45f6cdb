// Package geom provides the small amount of 3D vector math used by the tag
// cloud: a Vec3 point type, axis rotations, and finiteness checks.
//
// Coordinates use screen-aligned axes: X grows right, Y grows down and Z grows
// away from the viewer, so a larger Z is farther back.
package geom

import "math"

// Vec3 is a point in shape-local 3D space.
type Vec3 struct {
	X, Y, Z float64
}

// Vec2 is a pair of scalars, one per rotation axis: X is the tilt (rotation
// around the horizontal axis) and Y is the spin (rotation around the vertical
// axis).
type Vec2 struct {
	X, Y float64
}

// Scale returns v multiplied by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Len returns the Euclidean length of v.
func (v Vec3) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// IsFinite reports whether every component is a finite number.
func (v Vec3) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

// RotateX rotates v around the X axis by angle radians.
func (v Vec3) RotateX(angle float64) Vec3 {
	sin, cos := math.Sincos(angle)
	return Vec3{
		X: v.X,
		Y: v.Y*cos - v.Z*sin,
		Z: v.Y*sin + v.Z*cos,
	}
}

// RotateY rotates v around the Y axis by angle radians.
func (v Vec3) RotateY(angle float64) Vec3 {
	sin, cos := math.Sincos(angle)
	return Vec3{
		X: v.X*cos + v.Z*sin,
		Y: v.Y,
		Z: -v.X*sin + v.Z*cos,
	}
}

// Rotation is a precomputed incremental rotation: a Y-axis rotation by Spin
// followed by an X-axis rotation by Tilt.
type Rotation struct {
	sinX, cosX float64
	sinY, cosY float64
}

// NewRotation precomputes the trigonometry for one tick's increment so it can
// be applied to many points.
func NewRotation(tilt, spin float64) Rotation {
	var r Rotation
	r.sinX, r.cosX = math.Sincos(tilt)
	r.sinY, r.cosY = math.Sincos(spin)
	return r
}

// Identity reports whether applying r leaves every point unchanged.
func (r Rotation) Identity() bool {
	return r.sinX == 0 && r.sinY == 0 && r.cosX == 1 && r.cosY == 1
}

// Apply rotates v by r.
func (r Rotation) Apply(v Vec3) Vec3 {
	x := v.X*r.cosY + v.Z*r.sinY
	z := -v.X*r.sinY + v.Z*r.cosY
	y := v.Y*r.cosX - z*r.sinX
	z = v.Y*r.sinX + z*r.cosX
	return Vec3{X: x, Y: y, Z: z}
}

// Finite reports whether f is neither NaN nor infinite.
func Finite(f float64) bool {
	return isFinite(f)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Clamp limits f to [lo, hi].
func Clamp(f, lo, hi float64) float64 {
	if f < lo {
		return lo
	}
	if f > hi {
		return hi
	}
	return f
}
