package engine

import (
	"math"

	"github.com/matzehuels/tagcloud/pkg/events"
	"github.com/matzehuels/tagcloud/pkg/geom"
	"github.com/matzehuels/tagcloud/pkg/input"
	"github.com/matzehuels/tagcloud/pkg/interact"
	"github.com/matzehuels/tagcloud/pkg/projection"
)

// DragThreshold is the pointer travel, in pixels, after which a press
// becomes a drag instead of a click.
const DragThreshold = 3.0

type pointerState struct {
	down    bool
	dragged bool

	startX, startY float64
	lastX, lastY   float64
}

// wants reports whether the current settings enable kind.
func (e *Engine) wants(kind input.Kind) bool {
	switch kind {
	case input.Pointer:
		return true
	case input.Touch:
		return e.settings.EnableTouch
	case input.Orientation:
		return e.settings.EnableOrientation
	case input.Keyboard:
		return e.settings.EnableKeyboard
	}
	return false
}

func (e *Engine) handler(kind input.Kind) input.Handler {
	switch kind {
	case input.Pointer, input.Touch:
		return e.onPointer
	case input.Orientation:
		return e.onTilt
	case input.Keyboard:
		return e.onKey
	}
	return nil
}

// bind installs one handler per enabled capability of every source. Several
// sources may feed the same kind; their unbind functions are chained.
func (e *Engine) bind() {
	for _, src := range e.sources {
		for _, kind := range src.Capabilities() {
			if !e.wants(kind) {
				continue
			}
			h := e.handler(kind)
			if h == nil {
				continue
			}
			e.addBinding(kind, src.Bind(kind, h))
		}
	}
	e.log.Debug("input bound", "kinds", len(e.bindings))
}

func (e *Engine) addBinding(kind input.Kind, unbind func()) {
	prev := e.bindings[kind]
	if prev == nil {
		e.bindings[kind] = unbind
		return
	}
	e.bindings[kind] = func() {
		prev()
		unbind()
	}
}

func (e *Engine) unbind() {
	for kind, fn := range e.bindings {
		fn()
		delete(e.bindings, kind)
	}
	e.pointer = pointerState{}
	e.dropPendingMove()
}

// rebind detaches every binding and binds again under the current settings.
func (e *Engine) rebind() {
	e.unbind()
	e.bind()
}

// Bound reports whether at least one source delivers kind to the engine.
func (e *Engine) Bound(kind input.Kind) bool {
	_, ok := e.bindings[kind]
	return ok
}

func (e *Engine) onPointer(ev input.Event) {
	if e.destroyed {
		return
	}
	switch ev.Action {
	case input.Down:
		e.pointerDown(ev.X, ev.Y)
	case input.Move:
		e.pointerMove(ev.X, ev.Y)
	case input.Up:
		e.pointerUp(ev.X, ev.Y)
	case input.Leave:
		e.pointer = pointerState{}
		e.dropPendingMove()
		e.releaseHover()
	}
}

func (e *Engine) pointerDown(x, y float64) {
	e.cancelDecay()
	e.dropPendingMove()
	e.pointer = pointerState{down: true, startX: x, startY: y, lastX: x, lastY: y}
	e.moveThrottle.Reset()
}

// pointerMove applies a move, or keeps it pending when the throttle drops it
// so the last sample of a burst still lands on a following frame.
func (e *Engine) pointerMove(x, y float64) {
	if !e.moveThrottle.Allow() {
		e.pendingMove = &geom.Vec2{X: x, Y: y}
		if e.moveID == 0 {
			e.moveID = e.sched.Request(e.moveLoop)
		}
		return
	}
	e.pendingMove = nil
	e.applyMove(x, y)
}

func (e *Engine) moveLoop() {
	e.moveID = 0
	if e.destroyed || e.pendingMove == nil {
		return
	}
	if !e.moveThrottle.Allow() {
		e.moveID = e.sched.Request(e.moveLoop)
		return
	}
	m := *e.pendingMove
	e.pendingMove = nil
	e.applyMove(m.X, m.Y)
}

func (e *Engine) dropPendingMove() {
	e.pendingMove = nil
	if e.moveID != 0 {
		e.sched.Cancel(e.moveID)
		e.moveID = 0
	}
}

func (e *Engine) applyMove(x, y float64) {
	p := &e.pointer
	if p.down {
		if !p.dragged && math.Hypot(x-p.startX, y-p.startY) >= DragThreshold {
			p.dragged = true
		}
		if p.dragged && e.settings.EnableDrag {
			s := e.settings
			e.model.SetVelocity(interact.DragVelocity(x-p.lastX, y-p.lastY, s.Speed, s.DragSensitivity, s.MaxVelocity))
		}
		p.lastX, p.lastY = x, y
	}
	e.updateHover(x, y)
}

func (e *Engine) pointerUp(x, y float64) {
	e.dropPendingMove()
	p := e.pointer
	e.pointer = pointerState{}
	if !p.down {
		return
	}
	if p.dragged {
		e.startDecay()
		return
	}
	e.Click(x, y)
}

// Click handles a click at (x, y): an impulse tangential to the center and,
// when a tag is hit, a scale pulse and a tagClick event.
func (e *Engine) Click(x, y float64) {
	if e.destroyed || !e.settings.EnableClick {
		return
	}
	s := e.settings
	cx, cy := e.viewport.Center()
	e.model.SetVelocity(interact.ClickVelocity(x, y, cx, cy, s.Speed))

	it, ok := interact.HitTest(e.frame, x, y)
	if !ok {
		return
	}
	if s.ClickEffect && s.ClickDuration > 0 {
		e.overlay.Pulse(it.Tag.Index, s.ClickScale, e.clock.Now().Add(s.ClickDuration))
		if e.pulseID == 0 {
			e.pulseID = e.sched.Request(e.pulseLoop)
		}
		if s.Paused {
			e.draw()
		}
	}
	t := it.Tag
	e.log.Debug("tag clicked", "tag", t.Index, "label", t.Label())
	e.events.Fire(events.Event{Name: events.TagClick, Tag: &t, X: x, Y: y})
}

func (e *Engine) updateHover(x, y float64) {
	it, ok := interact.HitTest(e.frame, x, y)
	e.applyHover(e.hover.Move(it.Tag.Index, ok), x, y)
}

func (e *Engine) releaseHover() {
	e.applyHover(e.hover.Release(), 0, 0)
}

func (e *Engine) applyHover(ts []interact.Transition, x, y float64) {
	if len(ts) == 0 {
		return
	}
	s := e.settings
	for _, tr := range ts {
		if tr.Enter && s.HoverEffect {
			e.overlay.SetHover(tr.Index, projection.Override{
				Scale:   s.HoverScale,
				Color:   s.HoverColor,
				Opacity: s.HoverOpacity,
			})
		} else {
			e.overlay.ClearHover(tr.Index)
		}
		name := events.TagLeave
		if tr.Enter {
			name = events.TagHover
		}
		ev := events.Event{Name: name, X: x, Y: y}
		if t, ok := e.store.At(tr.Index); ok {
			ev.Tag = &t
		}
		e.events.Fire(ev)
	}
	if s.Paused {
		e.draw()
	}
}

func (e *Engine) onTilt(ev input.Event) {
	if e.destroyed || ev.Action != input.Tilt || e.pointer.down {
		return
	}
	if !e.tiltThrottle.Allow() {
		return
	}
	s := e.settings
	e.cancelDecay()
	e.model.SetVelocity(interact.TiltVelocity(ev.Beta, ev.Gamma, s.Speed, s.TiltSensitivity, s.MaxVelocity))
}

func (e *Engine) onKey(ev input.Event) {
	if e.destroyed || ev.Action != input.Press {
		return
	}
	speed := e.settings.Speed
	switch ev.Key {
	case input.KeyLeft:
		e.nudge(interact.KeyNudge(interact.KeyLeft, speed))
	case input.KeyRight:
		e.nudge(interact.KeyNudge(interact.KeyRight, speed))
	case input.KeyUp:
		e.nudge(interact.KeyNudge(interact.KeyUp, speed))
	case input.KeyDown:
		e.nudge(interact.KeyNudge(interact.KeyDown, speed))
	case input.KeySpace:
		_ = e.TogglePause()
	case input.KeyEscape:
		e.releaseHover()
	case input.KeyUndo:
		_, _ = e.Undo()
	case input.KeyRedo:
		_, _ = e.Redo()
	default:
		e.log.Debug("key ignored", "key", ev.Key)
	}
}

// nudge adds a keyboard impulse and lets friction wind it down.
func (e *Engine) nudge(dv geom.Vec2) {
	e.model.Nudge(dv)
	e.startDecay()
}
