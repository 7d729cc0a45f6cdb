// Package events dispatches named tag cloud events to registered listeners.
package events

import (
	"slices"

	"github.com/matzehuels/tagcloud/pkg/errors"
	"github.com/matzehuels/tagcloud/pkg/tags"
)

// Name identifies an event.
type Name string

const (
	TagClick Name = "tagClick"
	TagHover Name = "tagHover"
	TagLeave Name = "tagLeave"
	Pause    Name = "pause"
	Resume   Name = "resume"
)

// Names lists every event a listener can subscribe to.
var Names = []Name{TagClick, TagHover, TagLeave, Pause, Resume}

// ParseName validates an event name.
func ParseName(s string) (Name, error) {
	n := Name(s)
	if !slices.Contains(Names, n) {
		return "", errors.New(errors.ErrCodeInvalidEvent, "unknown event %q", s)
	}
	return n, nil
}

// Event is delivered to listeners. Tag is set for tag events and is a copy;
// changing it has no effect on the cloud.
type Event struct {
	Name Name
	Tag  *tags.Tag
	// X and Y are the pointer position for tag events.
	X, Y float64
}

// Handler receives events.
type Handler func(Event)

type listener struct {
	id uint64
	fn Handler
}

// Dispatcher holds listeners per event name. Listeners run synchronously in
// registration order. It is not safe for concurrent use.
type Dispatcher struct {
	listeners map[Name][]listener
	nextID    uint64
}

// NewDispatcher returns an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{listeners: make(map[Name][]listener)}
}

// Handle removes one registered listener.
type Handle struct {
	d    *Dispatcher
	name Name
	id   uint64
}

// Remove unregisters the listener. Calling it more than once is harmless.
func (h Handle) Remove() {
	if h.d == nil {
		return
	}
	h.d.listeners[h.name] = slices.DeleteFunc(h.d.listeners[h.name], func(l listener) bool {
		return l.id == h.id
	})
}

// On registers fn for name.
func (d *Dispatcher) On(name Name, fn Handler) (Handle, error) {
	if !slices.Contains(Names, name) {
		return Handle{}, errors.New(errors.ErrCodeInvalidEvent, "unknown event %q", name)
	}
	if fn == nil {
		return Handle{}, errors.New(errors.ErrCodeInvalidInput, "nil handler for %q", name)
	}
	d.nextID++
	d.listeners[name] = append(d.listeners[name], listener{id: d.nextID, fn: fn})
	return Handle{d: d, name: name, id: d.nextID}, nil
}

// Off removes every listener for name.
func (d *Dispatcher) Off(name Name) error {
	if !slices.Contains(Names, name) {
		return errors.New(errors.ErrCodeInvalidEvent, "unknown event %q", name)
	}
	delete(d.listeners, name)
	return nil
}

// Fire delivers ev to the listeners registered for ev.Name. A listener that
// registers or removes listeners affects the next Fire, not this one.
func (d *Dispatcher) Fire(ev Event) {
	for _, l := range slices.Clone(d.listeners[ev.Name]) {
		l.fn(ev)
	}
}

// Len returns the number of listeners for name.
func (d *Dispatcher) Len(name Name) int {
	return len(d.listeners[name])
}

// Reset removes every listener.
func (d *Dispatcher) Reset() {
	clear(d.listeners)
}
