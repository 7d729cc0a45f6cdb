// Package motion advances the rotation and velocity state of a tag cloud.
//
// The model holds a two-axis angular velocity and the cumulative rotation
// it has produced. Components of every geom.Vec2 in this package are X for
// tilt (rotation around the horizontal axis) and Y for spin (rotation around
// the vertical axis). Velocities are radians per tick.
//
// One call to Step is one animation tick:
//
//  1. When idle with auto-spin on, velocity approaches the idle target by
//     EaseIn per tick, or jumps to it when auto-easing is off.
//  2. Velocity is clamped to ±MaxVelocity when MaxVelocity > 0.
//  3. The per-tick rate follows velocity through a first-order filter with
//     factor Easing, or equals velocity when auto-easing is off.
//  4. Locked axes are forced to zero, accumulated rotation included.
//  5. The rate is added to the cumulative rotation and returned so the
//     caller can rotate every tag by it.
//
// After a drag is released, Decay runs once per tick instead of the idle
// pull, multiplying velocity by Friction until it drops below MinVelocity.
package motion

import (
	"math"

	"github.com/matzehuels/tagcloud/pkg/geom"
	"github.com/matzehuels/tagcloud/pkg/tags"
)

// IdleSpinRate converts Params.Speed into the idle spin velocity.
const IdleSpinRate = 0.005

// idleTiltRatio is the idle tilt velocity as a fraction of the idle spin.
const idleTiltRatio = 0.5

// Params configures a Model. The engine derives it from the settings record.
type Params struct {
	Speed       float64
	Easing      float64
	MaxVelocity float64
	EaseIn      float64
	Friction    float64
	MinVelocity float64

	AutoSpin   bool
	AutoEasing bool

	LockTilt bool
	LockSpin bool
}

// State is the mutable part of a Model.
type State struct {
	Velocity geom.Vec2 `json:"velocity"`
	Rotation geom.Vec2 `json:"rotation"`
	Rate     geom.Vec2 `json:"rate"`
}

// Model is the rotation and velocity state machine. The zero value is a
// stationary model with no idle motion.
type Model struct {
	Params Params
	State  State
}

// New returns a stationary model.
func New(p Params) *Model {
	return &Model{Params: p}
}

// IdleTarget is the velocity that auto-spin converges to.
func (m *Model) IdleTarget() geom.Vec2 {
	spin := m.Params.Speed * IdleSpinRate
	return geom.Vec2{X: spin * idleTiltRatio, Y: spin}
}

// Step advances the model by one tick and returns the rotation increment
// for the tick. idle is false while input is driving velocity or friction
// decay is running.
func (m *Model) Step(idle bool) geom.Vec2 {
	p := m.Params
	v := &m.State.Velocity
	r := &m.State.Rate

	if p.AutoSpin && idle {
		target := m.IdleTarget()
		if p.AutoEasing {
			v.X += (target.X - v.X) * p.EaseIn
			v.Y += (target.Y - v.Y) * p.EaseIn
		} else {
			*v = target
		}
	}
	m.clamp()

	if p.AutoEasing {
		r.X += (v.X - r.X) * p.Easing
		r.Y += (v.Y - r.Y) * p.Easing
	} else {
		*r = *v
	}
	m.lock()

	m.State.Rotation.X += r.X
	m.State.Rotation.Y += r.Y
	return *r
}

// SetVelocity overwrites velocity, applying the clamp and axis locks. The
// engine calls it after every parameter change so new locks take effect.
func (m *Model) SetVelocity(v geom.Vec2) {
	m.State.Velocity = v
	m.clamp()
	m.lock()
}

// Nudge adds dv to the current velocity.
func (m *Model) Nudge(dv geom.Vec2) {
	v := m.State.Velocity
	m.SetVelocity(geom.Vec2{X: v.X + dv.X, Y: v.Y + dv.Y})
}

// Decay applies one tick of friction. It reports whether velocity is still
// above MinVelocity; once it is not, velocity has been snapped to zero and
// the caller should stop rescheduling.
func (m *Model) Decay() bool {
	v := &m.State.Velocity
	v.X *= m.Params.Friction
	v.Y *= m.Params.Friction
	if Speed(*v) < m.Params.MinVelocity {
		*v = geom.Vec2{}
		return false
	}
	return true
}

// Moving reports whether velocity is above the decay cutoff.
func (m *Model) Moving() bool {
	s := Speed(m.State.Velocity)
	return s > 0 && s >= m.Params.MinVelocity
}

// Orientation returns the rotation that maps freshly laid out coordinates to
// the current orientation. The cumulative angles are reapplied as one spin
// followed by one tilt, so this approximates rather than reproduces a long
// sequence of mixed increments.
func (m *Model) Orientation() geom.Rotation {
	return geom.NewRotation(m.State.Rotation.X, m.State.Rotation.Y)
}

func (m *Model) clamp() {
	limit := m.Params.MaxVelocity
	if limit <= 0 {
		return
	}
	v := &m.State.Velocity
	v.X = geom.Clamp(v.X, -limit, limit)
	v.Y = geom.Clamp(v.Y, -limit, limit)
}

// lock zeroes the locked axes, including the accumulated rotation, so a
// relayout under a planar shape never reapplies an earlier tilt or spin.
func (m *Model) lock() {
	if m.Params.LockTilt {
		m.State.Velocity.X = 0
		m.State.Rate.X = 0
		m.State.Rotation.X = 0
	}
	if m.Params.LockSpin {
		m.State.Velocity.Y = 0
		m.State.Rate.Y = 0
		m.State.Rotation.Y = 0
	}
}

// Speed is the magnitude of a velocity.
func Speed(v geom.Vec2) float64 {
	return math.Hypot(v.X, v.Y)
}

// Rotate turns every tag in place by the increment by, spin first. A zero
// increment leaves coordinates bit-for-bit unchanged.
func Rotate(list []tags.Tag, by geom.Vec2) {
	if by.X == 0 && by.Y == 0 {
		return
	}
	r := geom.NewRotation(by.X, by.Y)
	for i := range list {
		list[i].Pos = r.Apply(list[i].Pos)
	}
}

// Orient applies r to every tag in place.
func Orient(list []tags.Tag, r geom.Rotation) {
	if r.Identity() {
		return
	}
	for i := range list {
		list[i].Pos = r.Apply(list[i].Pos)
	}
}
