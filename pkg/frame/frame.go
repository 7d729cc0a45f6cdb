// Package frame provides cooperative per-frame scheduling.
//
// The engine never owns a timer or goroutine. It asks a Scheduler to run a
// callback once before the next repaint, and the callback reschedules itself
// when it wants to run again. Hosts drive a Queue by calling Flush once per
// display refresh: a terminal program on each tea.Tick, a desktop window in
// its Update, the HTTP preview on every tick request.
package frame

import (
	"sync"
	"time"
)

// ID identifies a scheduled callback. The zero ID is never issued.
type ID uint64

// Scheduler runs callbacks once, on the next frame.
type Scheduler interface {
	// Request schedules fn for the next frame.
	Request(fn func()) ID
	// Cancel drops a pending callback. Unknown or already-run IDs are
	// ignored.
	Cancel(id ID)
}

type entry struct {
	id ID
	fn func()
}

// Queue is a Scheduler driven by explicit Flush calls.
type Queue struct {
	mu      sync.Mutex
	next    ID
	pending []entry
	frames  uint64

	// inflight holds the IDs of the batch being flushed that have not run
	// or been cancelled yet.
	inflight map[ID]struct{}
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Request implements Scheduler.
func (q *Queue) Request(fn func()) ID {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.next++
	q.pending = append(q.pending, entry{id: q.next, fn: fn})
	return q.next
}

// Cancel implements Scheduler.
func (q *Queue) Cancel(id ID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, e := range q.pending {
		if e.id == id {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
	delete(q.inflight, id)
}

// Flush runs the callbacks that were pending when it was called, in request
// order, and returns how many ran. Callbacks requested while flushing run on
// the next Flush. A callback cancelled by an earlier one in the same flush
// does not run.
func (q *Queue) Flush() int {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.frames++
	q.inflight = make(map[ID]struct{}, len(batch))
	for _, e := range batch {
		q.inflight[e.id] = struct{}{}
	}
	q.mu.Unlock()

	ran := 0
	for _, e := range batch {
		if !q.take(e.id) {
			continue
		}
		e.fn()
		ran++
	}
	return ran
}

func (q *Queue) take(id ID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, ok := q.inflight[id]
	delete(q.inflight, id)
	return ok
}

// Len returns the number of pending callbacks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Frames returns the number of Flush calls so far.
func (q *Queue) Frames() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.frames
}

var _ Scheduler = (*Queue)(nil)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock only moves when told to. The zero value starts at the Unix
// epoch.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock returns a clock set to start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now implements Clock.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.now.IsZero() {
		return time.Unix(0, 0)
	}
	return c.now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.now.IsZero() {
		c.now = time.Unix(0, 0)
	}
	c.now = c.now.Add(d)
}
