// Package engine ties layout, motion, projection, interaction, the tag store
// and the event dispatcher into one tag cloud instance.
//
// An Engine owns no goroutines and no timers. Its animation loop is a
// callback that asks the injected frame.Scheduler to run it again on the next
// frame; friction decay and click pulses run the same way. Input arrives
// through injected input.Sources and leaves through an injected Painter and
// event listeners.
//
// An Engine is not safe for concurrent use. Hosts that call it from several
// goroutines must serialize access themselves.
//
// # Usage
//
//	q := frame.NewQueue()
//	e := engine.New(engine.Options{
//	    Settings:  settings.Defaults(),
//	    Tags:      list,
//	    Scheduler: q,
//	    Viewport:  projection.Viewport{Width: 800, Height: 600},
//	    Painter:   painter,
//	})
//	defer e.Destroy()
//	for range ticker.C {
//	    q.Flush()
//	}
package engine

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/tagcloud/pkg/errors"
	"github.com/matzehuels/tagcloud/pkg/events"
	"github.com/matzehuels/tagcloud/pkg/frame"
	"github.com/matzehuels/tagcloud/pkg/geom"
	"github.com/matzehuels/tagcloud/pkg/input"
	"github.com/matzehuels/tagcloud/pkg/interact"
	"github.com/matzehuels/tagcloud/pkg/layout"
	"github.com/matzehuels/tagcloud/pkg/motion"
	"github.com/matzehuels/tagcloud/pkg/observability"
	"github.com/matzehuels/tagcloud/pkg/projection"
	"github.com/matzehuels/tagcloud/pkg/settings"
	"github.com/matzehuels/tagcloud/pkg/tags"
)

// DefaultViewport is used when Options.Viewport is empty.
var DefaultViewport = projection.Viewport{Width: 600, Height: 600}

// Painter draws frames on a host surface.
type Painter interface {
	// Clear erases the surface before a frame.
	Clear(vp projection.Viewport)
	// Draw paints one item. Returning an error with code NOT_READY skips
	// the item until ResourceLoaded is called.
	Draw(it projection.Item) error
}

// Options configures an Engine. Every field is optional.
type Options struct {
	Settings settings.Settings
	Tags     []tags.Tag

	Painter   Painter
	Scheduler frame.Scheduler
	Sources   []input.Source
	Viewport  projection.Viewport
	Measurer  projection.Measurer
	Clock     frame.Clock

	// MaxHistory bounds the undo stack; zero selects tags.DefaultMaxHistory.
	MaxHistory int

	Logger *log.Logger
	// Diagnostics receives every recovered error.
	Diagnostics func(error)
	// Context is passed to observability hooks.
	Context context.Context
}

// Engine is one tag cloud instance.
type Engine struct {
	id  string
	ctx context.Context
	log *log.Logger

	settings settings.Settings
	store    *tags.Store
	model    *motion.Model
	events   *events.Dispatcher

	painter  Painter
	sched    frame.Scheduler
	clock    frame.Clock
	measurer projection.Measurer
	diag     func(error)

	viewport projection.Viewport
	pending  *projection.Viewport
	frame    *projection.Frame
	notReady map[int]struct{}

	overlay *interact.Overlay
	hover   interact.Hover
	pointer pointerState
	// pendingMove is the latest pointer sample the move throttle dropped.
	pendingMove *geom.Vec2

	moveThrottle   *interact.Throttle
	tiltThrottle   *interact.Throttle
	resizeThrottle *interact.Throttle

	sources  []input.Source
	bindings map[input.Kind]func()

	tickID   frame.ID
	decayID  frame.ID
	pulseID  frame.ID
	resizeID frame.ID
	moveID   frame.ID

	decaying  bool
	destroyed bool
}

// New creates an engine, lays out the initial tags, binds input sources and,
// unless the settings start paused, schedules the first tick.
func New(opts Options) *Engine {
	e := &Engine{
		id:       uuid.NewString(),
		ctx:      opts.Context,
		log:      opts.Logger,
		store:    tags.NewStore(opts.MaxHistory),
		events:   events.NewDispatcher(),
		painter:  opts.Painter,
		sched:    opts.Scheduler,
		clock:    opts.Clock,
		measurer: opts.Measurer,
		diag:     opts.Diagnostics,
		viewport: opts.Viewport,
		notReady: make(map[int]struct{}),
		overlay:  interact.NewOverlay(),
		sources:  opts.Sources,
		bindings: make(map[input.Kind]func()),
	}
	if e.ctx == nil {
		e.ctx = context.Background()
	}
	if e.log == nil {
		e.log = log.New(io.Discard)
	}
	e.log = e.log.With("engine", e.id[:8])
	if e.painter == nil {
		e.painter = nopPainter{}
	}
	if e.sched == nil {
		e.sched = frame.NewQueue()
	}
	if e.clock == nil {
		e.clock = frame.SystemClock{}
	}
	if e.measurer == nil {
		e.measurer = projection.RuneMeasurer{}
	}
	if e.viewport.Width <= 0 || e.viewport.Height <= 0 {
		e.viewport = DefaultViewport
	}
	e.moveThrottle = interact.NewThrottle(interact.PointerWindow, e.clock.Now)
	e.tiltThrottle = interact.NewThrottle(interact.TiltWindow, e.clock.Now)
	e.resizeThrottle = interact.NewThrottle(interact.ResizeWindow, e.clock.Now)

	s := opts.Settings
	if s == (settings.Settings{}) {
		s = settings.Defaults()
	}
	s, diags := s.Sanitize()
	e.settings = s
	e.reportAll(diags)
	e.model = motion.New(s.Motion())

	e.store.Set(opts.Tags)
	e.relayout()
	e.bind()
	e.draw()
	if !s.Paused {
		e.schedule()
	}
	e.log.Debug("engine created", "tags", e.store.Len(), "shape", s.Shape, "paused", s.Paused)
	return e
}

// ID returns the instance identifier.
func (e *Engine) ID() string { return e.id }

// Settings returns the current settings.
func (e *Engine) Settings() settings.Settings { return e.settings }

// State returns the rotation and velocity state.
func (e *Engine) State() motion.State { return e.model.State }

// Tags returns a copy of the tag collection with current coordinates.
func (e *Engine) Tags() []tags.Tag { return e.store.Snapshot() }

// Frame returns the last projected frame, or nil before the first draw.
func (e *Engine) Frame() *projection.Frame { return e.frame }

// Viewport returns the active viewport.
func (e *Engine) Viewport() projection.Viewport { return e.viewport }

// Paused reports whether the animation loop is stopped.
func (e *Engine) Paused() bool { return e.settings.Paused }

// Destroyed reports whether Destroy has been called.
func (e *Engine) Destroyed() bool { return e.destroyed }

// CanUndo reports whether Undo has an entry to apply.
func (e *Engine) CanUndo() bool { return e.store.CanUndo() }

// CanRedo reports whether Redo has an entry to apply.
func (e *Engine) CanRedo() bool { return e.store.CanRedo() }

// Hovered returns the index of the hovered tag.
func (e *Engine) Hovered() (int, bool) { return e.hover.Current() }

// HitTest returns the topmost tag under (x, y) in the last frame.
func (e *Engine) HitTest(x, y float64) (tags.Tag, bool) {
	it, ok := interact.HitTest(e.frame, x, y)
	return it.Tag, ok
}

// On registers a listener for an event name.
func (e *Engine) On(name string, fn events.Handler) (events.Handle, error) {
	if e.destroyed {
		return events.Handle{}, errDestroyed()
	}
	n, err := events.ParseName(name)
	if err != nil {
		e.report(err)
		return events.Handle{}, err
	}
	return e.events.On(n, fn)
}

// Off removes every listener for an event name.
func (e *Engine) Off(name string) error {
	n, err := events.ParseName(name)
	if err != nil {
		e.report(err)
		return err
	}
	return e.events.Off(n)
}

// Resize changes the viewport. Resizes arriving faster than the resize
// window are coalesced; the latest size is applied on a following frame.
func (e *Engine) Resize(width, height float64) error {
	if e.destroyed {
		return errDestroyed()
	}
	if !geom.Finite(width) || !geom.Finite(height) || width <= 0 || height <= 0 {
		err := errors.New(errors.ErrCodeInvalidInput, "viewport %vx%v must be positive", width, height)
		e.report(err)
		return err
	}
	vp := projection.Viewport{Width: width, Height: height}
	e.pending = &vp
	if e.resizeThrottle.Allow() {
		e.applyResize()
		return nil
	}
	if e.resizeID == 0 {
		e.resizeID = e.sched.Request(e.resizeLoop)
	}
	return nil
}

func (e *Engine) resizeLoop() {
	e.resizeID = 0
	if e.destroyed || e.pending == nil {
		return
	}
	if !e.resizeThrottle.Allow() {
		e.resizeID = e.sched.Request(e.resizeLoop)
		return
	}
	e.applyResize()
}

func (e *Engine) applyResize() {
	e.viewport = *e.pending
	e.pending = nil
	e.log.Debug("viewport resized", "width", e.viewport.Width, "height", e.viewport.Height)
	e.draw()
}

// ResourceLoaded tells the engine that an image or vector source finished
// loading, so tags skipped as not ready are retried.
func (e *Engine) ResourceLoaded() {
	if e.destroyed || len(e.notReady) == 0 {
		return
	}
	clear(e.notReady)
	e.draw()
}

// NotReady returns the number of tags skipped in the last frame because
// their resources were still loading.
func (e *Engine) NotReady() int { return len(e.notReady) }

func (e *Engine) relayout() {
	start := time.Now()
	list := e.store.Tags()
	layout.Apply(e.settings.Shape, list, e.settings.Radius, e.settings.LayoutParams())
	motion.Orient(list, e.model.Orientation())
	observability.Engine().OnLayout(e.ctx, string(e.settings.Shape), len(list), time.Since(start))
}

func (e *Engine) draw() {
	if e.destroyed {
		return
	}
	start := time.Now()
	s := e.settings
	e.frame = projection.Project(e.store.Tags(), e.overlay, e.viewport, projection.Options{
		Radius:     s.Radius,
		FontSize:   s.FontSize,
		MinOpacity: s.MinOpacity,
		Measurer:   e.measurer,
		Font:       projection.Font{Family: s.CustomFont, Weight: s.CustomFontWeight},
	})

	e.painter.Clear(e.viewport)
	clear(e.notReady)
	drawn := 0
	for _, it := range e.frame.Items {
		err := e.painter.Draw(it)
		switch {
		case err == nil:
			drawn++
		case errors.Is(err, errors.ErrCodeNotReady):
			e.notReady[it.Tag.Index] = struct{}{}
			e.log.Debug("resource not ready", "tag", it.Tag.Index, "label", it.Tag.Label())
		default:
			e.report(errors.Wrap(errors.ErrCodeInternal, err, "draw tag %d", it.Tag.Index))
		}
	}
	observability.Engine().OnFrame(e.ctx, drawn, time.Since(start))
}

func (e *Engine) report(err error) {
	if err == nil {
		return
	}
	e.log.Warn(errors.UserMessage(err), "code", diagCode(err))
	observability.Engine().OnDiagnostic(e.ctx, err)
	if e.diag != nil {
		e.diag(err)
	}
}

func (e *Engine) reportAll(errs []error) {
	for _, err := range errs {
		e.report(err)
	}
}

func diagCode(err error) errors.Code {
	if c := errors.GetCode(err); c != "" {
		return c
	}
	if oe, ok := err.(interface{ Code() errors.Code }); ok {
		return oe.Code()
	}
	return errors.ErrCodeInternal
}

func errDestroyed() error {
	return errors.New(errors.ErrCodeDestroyed, "engine has been destroyed")
}

type nopPainter struct{}

func (nopPainter) Clear(projection.Viewport)  {}
func (nopPainter) Draw(projection.Item) error { return nil }
