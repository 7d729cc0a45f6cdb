package interact

import "time"

// Default coalescing windows.
const (
	PointerWindow = 16 * time.Millisecond
	TiltWindow    = 50 * time.Millisecond
	ResizeWindow  = 100 * time.Millisecond
)

// Throttle admits at most one event per window. Callers that must not lose
// the final value keep it pending and retry on the next frame.
type Throttle struct {
	window time.Duration
	now    func() time.Time
	last   time.Time
	seen   bool
}

// NewThrottle returns a throttle reading time from now.
func NewThrottle(window time.Duration, now func() time.Time) *Throttle {
	if now == nil {
		now = time.Now
	}
	return &Throttle{window: window, now: now}
}

// Allow reports whether an event arriving now should be handled, and if so
// starts a new window.
func (t *Throttle) Allow() bool {
	now := t.now()
	if t.seen && now.Sub(t.last) < t.window {
		return false
	}
	t.last, t.seen = now, true
	return true
}

// Reset opens the window so the next event is admitted.
func (t *Throttle) Reset() {
	t.seen = false
}
