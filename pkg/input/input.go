// Package input abstracts the host event sources a tag cloud listens to.
//
// The engine never touches a window, terminal or device directly. Each host
// hands the engine one or more Sources; the engine binds one handler per
// capability it wants and keeps the returned unbind functions so that
// teardown is deterministic.
package input

import (
	"slices"
	"sync"
)

// Kind is an input capability.
type Kind int

const (
	Pointer Kind = iota + 1
	Touch
	Orientation
	Keyboard
)

// String returns the capability name.
func (k Kind) String() string {
	switch k {
	case Pointer:
		return "pointer"
	case Touch:
		return "touch"
	case Orientation:
		return "orientation"
	case Keyboard:
		return "keyboard"
	}
	return "unknown"
}

// Action is what happened within a capability.
type Action int

const (
	Down Action = iota + 1
	Move
	Up
	// Leave means the pointer left the surface.
	Leave
	// Tilt carries device orientation angles.
	Tilt
	// Press carries a key.
	Press
)

// Key names understood by the engine.
const (
	KeyLeft   = "left"
	KeyRight  = "right"
	KeyUp     = "up"
	KeyDown   = "down"
	KeySpace  = "space"
	KeyEscape = "escape"
	KeyUndo   = "ctrl+z"
	KeyRedo   = "ctrl+y"
)

// Event is one input sample in screen coordinates.
type Event struct {
	Kind   Kind
	Action Action

	// X and Y are set for pointer and touch events.
	X, Y float64
	// Beta and Gamma are front-to-back and left-to-right tilt in degrees.
	Beta, Gamma float64
	// Key is set for keyboard events.
	Key string
}

// Handler receives events of one kind.
type Handler func(Event)

// Source is a host event source.
type Source interface {
	// Capabilities lists the kinds this source can deliver.
	Capabilities() []Kind
	// Bind installs h for kind, replacing any previous handler, and returns
	// a function that removes it.
	Bind(kind Kind, h Handler) (unbind func())
}

// Emitter is a Source that hosts and tests feed by hand.
type Emitter struct {
	mu       sync.Mutex
	caps     []Kind
	handlers map[Kind]Handler
	gen      map[Kind]uint64
}

// NewEmitter returns an emitter offering caps.
func NewEmitter(caps ...Kind) *Emitter {
	return &Emitter{
		caps:     caps,
		handlers: make(map[Kind]Handler),
		gen:      make(map[Kind]uint64),
	}
}

// Capabilities implements Source.
func (e *Emitter) Capabilities() []Kind {
	return slices.Clone(e.caps)
}

// Bind implements Source. Binding a kind the emitter does not offer is a
// no-op.
func (e *Emitter) Bind(kind Kind, h Handler) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !slices.Contains(e.caps, kind) {
		return func() {}
	}
	e.gen[kind]++
	gen := e.gen[kind]
	e.handlers[kind] = h
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		// A stale unbind must not remove a newer handler.
		if e.gen[kind] == gen {
			delete(e.handlers, kind)
		}
	}
}

// Bound reports whether a handler is installed for kind.
func (e *Emitter) Bound(kind Kind) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.handlers[kind]
	return ok
}

// Emit delivers ev to the handler bound for ev.Kind and reports whether one
// was bound. The handler runs on the caller's goroutine.
func (e *Emitter) Emit(ev Event) bool {
	e.mu.Lock()
	h := e.handlers[ev.Kind]
	e.mu.Unlock()
	if h == nil {
		return false
	}
	h(ev)
	return true
}

// PointerDown emits a pointer press.
func (e *Emitter) PointerDown(x, y float64) bool {
	return e.Emit(Event{Kind: Pointer, Action: Down, X: x, Y: y})
}

// PointerMove emits a pointer move.
func (e *Emitter) PointerMove(x, y float64) bool {
	return e.Emit(Event{Kind: Pointer, Action: Move, X: x, Y: y})
}

// PointerUp emits a pointer release.
func (e *Emitter) PointerUp(x, y float64) bool {
	return e.Emit(Event{Kind: Pointer, Action: Up, X: x, Y: y})
}

// PointerLeave emits the pointer leaving the surface.
func (e *Emitter) PointerLeave() bool {
	return e.Emit(Event{Kind: Pointer, Action: Leave})
}

// Key emits a key press.
func (e *Emitter) Key(key string) bool {
	return e.Emit(Event{Kind: Keyboard, Action: Press, Key: key})
}

// Tilt emits a device orientation sample.
func (e *Emitter) Tilt(beta, gamma float64) bool {
	return e.Emit(Event{Kind: Orientation, Action: Tilt, Beta: beta, Gamma: gamma})
}

var _ Source = (*Emitter)(nil)
