package engine

import (
	"math"
	"slices"
	"testing"
	"time"

	"github.com/matzehuels/tagcloud/pkg/errors"
	"github.com/matzehuels/tagcloud/pkg/events"
	"github.com/matzehuels/tagcloud/pkg/frame"
	"github.com/matzehuels/tagcloud/pkg/geom"
	"github.com/matzehuels/tagcloud/pkg/input"
	"github.com/matzehuels/tagcloud/pkg/interact"
	"github.com/matzehuels/tagcloud/pkg/layout"
	"github.com/matzehuels/tagcloud/pkg/projection"
	"github.com/matzehuels/tagcloud/pkg/settings"
	"github.com/matzehuels/tagcloud/pkg/tags"
)

func ptr[T any](v T) *T { return &v }

func sampleTags(n int) []tags.Tag {
	out := make([]tags.Tag, n)
	for i := range out {
		out[i] = tags.Tag{Text: string(rune('a' + i%26)), Color: "#336699"}
	}
	return out
}

func pausedSettings() settings.Settings {
	s := settings.Defaults()
	s.Paused = true
	return s
}

type recordingPainter struct {
	clears int
	drawn  []projection.Item
	// imagesReady gates tags with an image source.
	imagesReady bool
}

func (p *recordingPainter) Clear(projection.Viewport) {
	p.clears++
	p.drawn = p.drawn[:0]
}

func (p *recordingPainter) Draw(it projection.Item) error {
	if it.Tag.Image != "" && !p.imagesReady {
		return errors.New(errors.ErrCodeNotReady, "image %s still loading", it.Tag.Image)
	}
	p.drawn = append(p.drawn, it)
	return nil
}

func countEvents(t *testing.T, e *Engine, name events.Name) *[]events.Event {
	t.Helper()
	var got []events.Event
	if _, err := e.On(string(name), func(ev events.Event) { got = append(got, ev) }); err != nil {
		t.Fatalf("On(%q) error = %v", name, err)
	}
	return &got
}

func TestNewUsesDefaults(t *testing.T) {
	q := frame.NewQueue()
	e := New(Options{Scheduler: q})
	defer e.Destroy()

	if e.Settings() != settings.Defaults() {
		t.Errorf("Settings() = %+v, want defaults", e.Settings())
	}
	if e.Viewport() != DefaultViewport {
		t.Errorf("Viewport() = %v, want %v", e.Viewport(), DefaultViewport)
	}
	if e.Frame() == nil {
		t.Fatal("Frame() = nil, want first frame drawn")
	}
	if e.Paused() {
		t.Error("Paused() = true, want false")
	}
	if q.Len() != 1 {
		t.Errorf("queue Len() = %d, want 1 scheduled tick", q.Len())
	}
	if len(e.ID()) == 0 {
		t.Error("ID() is empty")
	}
}

func TestNewSanitizesSettings(t *testing.T) {
	s := settings.Defaults()
	s.Radius = -1
	s.Speed = 100

	var diags []error
	e := New(Options{Settings: s, Diagnostics: func(err error) { diags = append(diags, err) }})
	defer e.Destroy()

	if got := e.Settings().Radius; got != 200 {
		t.Errorf("Radius = %v, want 200", got)
	}
	if got := e.Settings().Speed; got != settings.MaxSpeed {
		t.Errorf("Speed = %v, want %v", got, settings.MaxSpeed)
	}
	if len(diags) != 2 {
		t.Errorf("diagnostics = %d, want 2: %v", len(diags), diags)
	}
}

func TestPauseResumeHasNoJump(t *testing.T) {
	q := frame.NewQueue()
	e := New(Options{Tags: sampleTags(10), Scheduler: q})
	defer e.Destroy()
	paused := countEvents(t, e, events.Pause)
	resumed := countEvents(t, e, events.Resume)

	for range 3 {
		q.Flush()
	}
	if err := e.Pause(); err != nil {
		t.Fatalf("Pause() error = %v", err)
	}
	_ = e.Pause()
	state, list := e.State(), e.Tags()

	for range 5 {
		q.Flush()
	}
	if e.State() != state {
		t.Errorf("State() changed while paused: %+v, want %+v", e.State(), state)
	}
	if !slices.Equal(e.Tags(), list) {
		t.Error("Tags() moved while paused")
	}

	if err := e.Resume(); err != nil {
		t.Fatalf("Resume() error = %v", err)
	}
	if e.State() != state {
		t.Errorf("Resume() changed state: %+v, want %+v", e.State(), state)
	}
	q.Flush()
	if e.State().Rotation == state.Rotation {
		t.Error("rotation did not advance after Resume()")
	}

	if len(*paused) != 1 || len(*resumed) != 1 {
		t.Errorf("pause/resume events = %d/%d, want 1/1", len(*paused), len(*resumed))
	}
}

func TestInvalidOptionKeepsPreviousValue(t *testing.T) {
	var diags []error
	e := New(Options{Tags: sampleTags(5), Diagnostics: func(err error) { diags = append(diags, err) }})
	defer e.Destroy()

	got := e.UpdateOptions(settings.Patch{Radius: ptr(-5.0)})
	if len(got) != 1 {
		t.Fatalf("UpdateOptions() diagnostics = %v, want 1", got)
	}
	if r := e.Settings().Radius; r != 200 {
		t.Errorf("Radius = %v, want 200", r)
	}
	if len(diags) != 1 {
		t.Errorf("reported diagnostics = %d, want 1", len(diags))
	}
}

func TestUpdateOptionsMap(t *testing.T) {
	e := New(Options{Tags: sampleTags(5), Settings: pausedSettings()})
	defer e.Destroy()

	diags := e.UpdateOptionsMap(map[string]any{"radius": 150, "bogus": true})
	if len(diags) != 1 {
		t.Errorf("UpdateOptionsMap() diagnostics = %v, want 1", diags)
	}
	if r := e.Settings().Radius; r != 150 {
		t.Errorf("Radius = %v, want 150", r)
	}
	for _, tag := range e.Tags() {
		if d := tag.Pos.Len(); math.Abs(d-150) > 1e-9 {
			t.Errorf("tag %d at distance %v, want 150 after relayout", tag.Index, d)
		}
	}
}

func TestUpdateOptionsPause(t *testing.T) {
	q := frame.NewQueue()
	e := New(Options{Scheduler: q})
	defer e.Destroy()
	paused := countEvents(t, e, events.Pause)

	e.UpdateOptions(settings.Patch{Paused: ptr(true)})
	if !e.Paused() {
		t.Error("Paused() = false, want true")
	}
	if len(*paused) != 1 {
		t.Errorf("pause events = %d, want 1", len(*paused))
	}
	if q.Len() != 0 {
		t.Errorf("queue Len() = %d, want 0", q.Len())
	}
}

func TestAddTagRejectsMissingColor(t *testing.T) {
	var diags []error
	e := New(Options{Tags: sampleTags(3), Diagnostics: func(err error) { diags = append(diags, err) }})
	defer e.Destroy()

	err := e.AddTag(tags.Tag{Text: "no color"})
	if !errors.Is(err, errors.ErrCodeInvalidTag) {
		t.Errorf("AddTag() error = %v, want INVALID_TAG", err)
	}
	if n := len(e.Tags()); n != 3 {
		t.Errorf("len(Tags()) = %d, want 3", n)
	}
	if len(diags) != 1 {
		t.Errorf("diagnostics = %d, want 1", len(diags))
	}
}

func TestUndoRedo(t *testing.T) {
	e := New(Options{Tags: sampleTags(2), Settings: pausedSettings()})
	defer e.Destroy()

	if err := e.AddTag(tags.Tag{Text: "c", Color: "#112233"}); err != nil {
		t.Fatalf("AddTag() error = %v", err)
	}
	if err := e.RemoveTag(0); err != nil {
		t.Fatalf("RemoveTag() error = %v", err)
	}
	if got := texts(e.Tags()); !slices.Equal(got, []string{"b", "c"}) {
		t.Fatalf("Tags() = %v, want [b c]", got)
	}

	c, err := e.Undo()
	if err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if c.Kind != tags.KindRemove {
		t.Errorf("Undo() kind = %v, want remove", c.Kind)
	}
	if got := texts(e.Tags()); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("after Undo() Tags() = %v, want [a b c]", got)
	}
	if _, err := e.Undo(); err != nil {
		t.Fatalf("second Undo() error = %v", err)
	}
	if _, err := e.Undo(); !errors.Is(err, errors.ErrCodeNothingToUndo) {
		t.Errorf("third Undo() error = %v, want NOTHING_TO_UNDO", err)
	}

	if !e.CanRedo() {
		t.Fatal("CanRedo() = false, want true")
	}
	if _, err := e.Redo(); err != nil {
		t.Fatalf("Redo() error = %v", err)
	}
	if got := texts(e.Tags()); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("after Redo() Tags() = %v, want [a b c]", got)
	}
	for i, tag := range e.Tags() {
		if tag.Index != i {
			t.Errorf("Tags()[%d].Index = %d", i, tag.Index)
		}
	}
}

func texts(list []tags.Tag) []string {
	out := make([]string, len(list))
	for i, t := range list {
		out[i] = t.Text
	}
	return out
}

func TestRingNeverTilts(t *testing.T) {
	tests := []struct {
		name   string
		start  layout.Shape
		warmup int
	}{
		{"ring from start", layout.Ring, 0},
		{"ring after sphere", layout.Sphere, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := frame.NewQueue()
			s := settings.Defaults()
			s.Shape = tt.start
			e := New(Options{Tags: sampleTags(2), Settings: s, Scheduler: q})
			defer e.Destroy()

			for range tt.warmup {
				q.Flush()
			}
			if tt.start != layout.Ring {
				if x := e.State().Rotation.X; x == 0 {
					t.Fatalf("Rotation.X = 0 after %d ticks on %s, want a tilt", tt.warmup, tt.start)
				}
				e.UpdateOptions(settings.Patch{Shape: ptr(layout.Ring)})
			}
			for range 50 {
				q.Flush()
			}
			st := e.State()
			if st.Rotation.X != 0 {
				t.Errorf("Rotation.X = %v, want 0", st.Rotation.X)
			}
			if st.Rotation.Y == 0 {
				t.Errorf("Rotation.Y = 0, want a spin")
			}
			for _, tag := range e.Tags() {
				if tag.Pos.Y != 0 {
					t.Errorf("tag %d Y = %v, want 0", tag.Index, tag.Pos.Y)
				}
			}

			if err := e.SetTags([]tags.Tag{{Text: "A", Color: "#ffffff"}, {Text: "B", Color: "#000000"}}); err != nil {
				t.Fatalf("SetTags() error = %v", err)
			}
			q.Flush()
			for _, tag := range e.Tags() {
				if tag.Pos.Y != 0 {
					t.Errorf("after SetTags tag %d Y = %v, want 0", tag.Index, tag.Pos.Y)
				}
			}
		})
	}
}

func TestVerticalRingNeverSpins(t *testing.T) {
	q := frame.NewQueue()
	e := New(Options{Tags: sampleTags(2), Scheduler: q})
	defer e.Destroy()

	for range 100 {
		q.Flush()
	}
	e.UpdateOptions(settings.Patch{Shape: ptr(layout.VerticalRing)})
	st := e.State()
	if st.Velocity.Y != 0 || st.Rotation.Y != 0 {
		t.Errorf("after switching to verticalRing Velocity.Y = %v, Rotation.Y = %v, want 0, 0", st.Velocity.Y, st.Rotation.Y)
	}
	for range 10 {
		q.Flush()
	}
	if got := e.State().Rotation.Y; got != 0 {
		t.Errorf("Rotation.Y = %v, want 0", got)
	}
	for _, tag := range e.Tags() {
		if tag.Pos.X != 0 {
			t.Errorf("tag %d X = %v, want 0", tag.Index, tag.Pos.X)
		}
	}
}

func TestHitTestFindsDrawnTag(t *testing.T) {
	e := New(Options{Tags: sampleTags(1), Settings: pausedSettings()})
	defer e.Destroy()

	it, ok := e.Frame().Lookup(0)
	if !ok {
		t.Fatal("Lookup(0) found nothing")
	}
	got, ok := e.HitTest(it.X, it.Y)
	if !ok || got.Index != 0 {
		t.Errorf("HitTest(%v, %v) = %v, %v, want tag 0", it.X, it.Y, got.Index, ok)
	}
	if _, ok := e.HitTest(5, 5); ok {
		t.Error("HitTest(5, 5) found a tag, want none")
	}
}

func TestHoverEvents(t *testing.T) {
	clock := frame.NewManualClock(time.Unix(0, 0))
	src := input.NewEmitter(input.Pointer)
	e := New(Options{
		Tags:     sampleTags(1),
		Settings: pausedSettings(),
		Sources:  []input.Source{src},
		Clock:    clock,
	})
	defer e.Destroy()
	hovers := countEvents(t, e, events.TagHover)
	leaves := countEvents(t, e, events.TagLeave)

	base, _ := e.Frame().Lookup(0)
	src.PointerMove(base.X, base.Y)
	if len(*hovers) != 1 || (*hovers)[0].Tag == nil || (*hovers)[0].Tag.Index != 0 {
		t.Fatalf("tagHover events = %+v, want one for tag 0", *hovers)
	}
	if i, ok := e.Hovered(); !ok || i != 0 {
		t.Errorf("Hovered() = %d, %v, want 0, true", i, ok)
	}
	hot, _ := e.Frame().Lookup(0)
	if want := base.Scale * 1.2; math.Abs(hot.Scale-want) > 1e-9 {
		t.Errorf("hovered Scale = %v, want %v", hot.Scale, want)
	}
	if hot.Color != "#ff6b35" {
		t.Errorf("hovered Color = %q, want #ff6b35", hot.Color)
	}

	clock.Advance(20 * time.Millisecond)
	src.PointerMove(base.X, base.Y)
	if len(*hovers) != 1 {
		t.Errorf("tagHover events = %d after moving within the tag, want 1", len(*hovers))
	}

	clock.Advance(20 * time.Millisecond)
	src.PointerMove(5, 5)
	if len(*leaves) != 1 {
		t.Fatalf("tagLeave events = %d, want 1", len(*leaves))
	}
	cold, _ := e.Frame().Lookup(0)
	if math.Abs(cold.Scale-base.Scale) > 1e-9 {
		t.Errorf("Scale after leave = %v, want %v", cold.Scale, base.Scale)
	}
}

func TestPointerMovesAreThrottled(t *testing.T) {
	clock := frame.NewManualClock(time.Unix(0, 0))
	src := input.NewEmitter(input.Pointer)
	e := New(Options{Tags: sampleTags(1), Settings: pausedSettings(), Sources: []input.Source{src}, Clock: clock})
	defer e.Destroy()
	hovers := countEvents(t, e, events.TagHover)

	base, _ := e.Frame().Lookup(0)
	src.PointerMove(5, 5)
	src.PointerMove(base.X, base.Y)
	if len(*hovers) != 0 {
		t.Errorf("tagHover events = %d inside the throttle window, want 0", len(*hovers))
	}
	clock.Advance(interact.PointerWindow)
	src.PointerMove(base.X, base.Y)
	if len(*hovers) != 1 {
		t.Errorf("tagHover events = %d after the window, want 1", len(*hovers))
	}
}

func TestDroppedPointerMoveLandsLater(t *testing.T) {
	tests := []struct {
		name        string
		first, last func(base projection.Item) (float64, float64)
		wantHovered bool
	}{
		{
			name:        "leaves tag",
			first:       func(b projection.Item) (float64, float64) { return b.X, b.Y },
			last:        func(projection.Item) (float64, float64) { return -1000, -1000 },
			wantHovered: false,
		},
		{
			name:        "enters tag",
			first:       func(projection.Item) (float64, float64) { return 5, 5 },
			last:        func(b projection.Item) (float64, float64) { return b.X, b.Y },
			wantHovered: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := frame.NewManualClock(time.Unix(0, 0))
			q := frame.NewQueue()
			src := input.NewEmitter(input.Pointer)
			e := New(Options{
				Tags:      sampleTags(1),
				Settings:  pausedSettings(),
				Sources:   []input.Source{src},
				Clock:     clock,
				Scheduler: q,
			})
			defer e.Destroy()

			base, _ := e.Frame().Lookup(0)
			src.PointerMove(tt.first(base))
			_, before := e.Hovered()

			clock.Advance(5 * time.Millisecond)
			src.PointerMove(tt.last(base))
			if _, ok := e.Hovered(); ok != before {
				t.Fatalf("Hovered() = %v inside the throttle window, want %v", ok, before)
			}

			q.Flush()
			for range 3 {
				clock.Advance(interact.PointerWindow)
				q.Flush()
			}
			if _, ok := e.Hovered(); ok != tt.wantHovered {
				t.Errorf("Hovered() = %v after the window, want %v", ok, tt.wantHovered)
			}
		})
	}
}

func TestPointerLeaveDropsPendingMove(t *testing.T) {
	clock := frame.NewManualClock(time.Unix(0, 0))
	q := frame.NewQueue()
	src := input.NewEmitter(input.Pointer)
	e := New(Options{Tags: sampleTags(1), Settings: pausedSettings(), Sources: []input.Source{src}, Clock: clock, Scheduler: q})
	defer e.Destroy()

	base, _ := e.Frame().Lookup(0)
	src.PointerMove(5, 5)
	src.PointerMove(base.X, base.Y)
	src.PointerLeave()
	clock.Advance(interact.PointerWindow)
	q.Flush()
	if i, ok := e.Hovered(); ok {
		t.Errorf("Hovered() = %d after leave, want none", i)
	}
}

func TestHoverAcrossMutations(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(e *Engine, idx int) error
		wantHovered bool
		wantLeaves  int
	}{
		{
			name:        "update",
			mutate:      func(e *Engine, idx int) error { return e.UpdateTag(idx, tags.Patch{Color: ptr("#00ff00")}) },
			wantHovered: true,
		},
		{
			name:       "remove",
			mutate:     func(e *Engine, idx int) error { return e.RemoveTag(idx) },
			wantLeaves: 1,
		},
		{
			name:       "add",
			mutate:     func(e *Engine, _ int) error { return e.AddTag(tags.Tag{Text: "z", Color: "#000000"}) },
			wantLeaves: 1,
		},
		{
			name:        "rejected add",
			mutate:      func(e *Engine, _ int) error { _ = e.AddTag(tags.Tag{Text: "z"}); return nil },
			wantHovered: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := frame.NewManualClock(time.Unix(0, 0))
			src := input.NewEmitter(input.Pointer)
			e := New(Options{Tags: sampleTags(2), Settings: pausedSettings(), Sources: []input.Source{src}, Clock: clock})
			defer e.Destroy()
			hovers := countEvents(t, e, events.TagHover)
			leaves := countEvents(t, e, events.TagLeave)

			items := e.Frame().Items
			top := items[len(items)-1]
			src.PointerMove(top.X, top.Y)
			idx, ok := e.Hovered()
			if !ok || idx != top.Tag.Index {
				t.Fatalf("Hovered() = %d, %v, want %d, true", idx, ok, top.Tag.Index)
			}

			if err := tt.mutate(e, idx); err != nil {
				t.Fatalf("mutation error = %v", err)
			}
			if _, ok := e.Hovered(); ok != tt.wantHovered {
				t.Errorf("Hovered() = %v, want %v", ok, tt.wantHovered)
			}
			if len(*leaves) != tt.wantLeaves {
				t.Fatalf("tagLeave events = %d, want %d", len(*leaves), tt.wantLeaves)
			}
			if tt.wantLeaves > 0 {
				if got := (*leaves)[0].Tag; got == nil || got.Text != top.Tag.Text {
					t.Errorf("tagLeave tag = %+v, want %q", got, top.Tag.Text)
				}
			}
			if tt.wantHovered {
				it, _ := e.Frame().Lookup(idx)
				if it.Color != "#ff6b35" {
					t.Errorf("hovered Color = %q, want #ff6b35", it.Color)
				}
				clock.Advance(20 * time.Millisecond)
				src.PointerMove(it.X, it.Y)
				if len(*hovers) != 1 {
					t.Errorf("tagHover events = %d, want 1", len(*hovers))
				}
			}
		})
	}
}

func TestClickPulsesAndFires(t *testing.T) {
	clock := frame.NewManualClock(time.Unix(0, 0))
	q := frame.NewQueue()
	src := input.NewEmitter(input.Pointer)
	e := New(Options{
		Tags:      sampleTags(1),
		Settings:  pausedSettings(),
		Sources:   []input.Source{src},
		Clock:     clock,
		Scheduler: q,
	})
	defer e.Destroy()
	clicks := countEvents(t, e, events.TagClick)

	base, _ := e.Frame().Lookup(0)
	src.PointerDown(base.X, base.Y)
	src.PointerUp(base.X, base.Y)

	if len(*clicks) != 1 {
		t.Fatalf("tagClick events = %d, want 1", len(*clicks))
	}
	ev := (*clicks)[0]
	if ev.Tag == nil || ev.Tag.Text != "a" || ev.X != base.X || ev.Y != base.Y {
		t.Errorf("tagClick event = %+v, want tag a at (%v, %v)", ev, base.X, base.Y)
	}
	if e.State().Velocity == (geom.Vec2{}) {
		t.Error("click did not change velocity")
	}
	pulsed, _ := e.Frame().Lookup(0)
	if want := base.Scale * 1.5; math.Abs(pulsed.Scale-want) > 1e-9 {
		t.Errorf("pulsed Scale = %v, want %v", pulsed.Scale, want)
	}

	clock.Advance(250 * time.Millisecond)
	q.Flush()
	after, _ := e.Frame().Lookup(0)
	if math.Abs(after.Scale-base.Scale) > 1e-9 {
		t.Errorf("Scale after pulse = %v, want %v", after.Scale, base.Scale)
	}
	if q.Len() != 0 {
		t.Errorf("queue Len() = %d, want 0", q.Len())
	}
}

func TestDragThenFrictionDecay(t *testing.T) {
	q := frame.NewQueue()
	src := input.NewEmitter(input.Pointer)
	e := New(Options{Scheduler: q, Sources: []input.Source{src}, Clock: frame.NewManualClock(time.Unix(0, 0))})
	defer e.Destroy()

	src.PointerDown(300, 300)
	src.PointerMove(350, 300)
	v0 := e.State().Velocity
	if v0.X != 0 || math.Abs(v0.Y-(-0.1)) > 1e-12 {
		t.Fatalf("Velocity after drag = %+v, want {0 -0.1}", v0)
	}
	src.PointerUp(350, 300)

	q.Flush()
	if v := e.State().Velocity.Y; math.Abs(v-v0.Y*0.95) > 1e-12 {
		t.Errorf("Velocity.Y after one decay step = %v, want %v", v, v0.Y*0.95)
	}
	for range 300 {
		q.Flush()
	}
	if v := e.State().Velocity.Y; v <= 0 {
		t.Errorf("Velocity.Y = %v, want idle spin to take over after decay", v)
	}
}

func TestKeyboard(t *testing.T) {
	src := input.NewEmitter(input.Pointer, input.Keyboard)
	e := New(Options{Tags: sampleTags(2), Sources: []input.Source{src}})
	defer e.Destroy()

	src.Key(input.KeySpace)
	if !e.Paused() {
		t.Error("space did not pause")
	}
	src.Key(input.KeyLeft)
	if v := e.State().Velocity.Y; v <= 0 {
		t.Errorf("Velocity.Y after left = %v, want > 0", v)
	}

	_ = e.AddTag(tags.Tag{Text: "z", Color: "#000000"})
	src.Key(input.KeyUndo)
	if n := len(e.Tags()); n != 2 {
		t.Errorf("len(Tags()) after ctrl+z = %d, want 2", n)
	}
	src.Key(input.KeyRedo)
	if n := len(e.Tags()); n != 3 {
		t.Errorf("len(Tags()) after ctrl+y = %d, want 3", n)
	}

	e.UpdateOptions(settings.Patch{EnableKeyboard: ptr(false)})
	if src.Bound(input.Keyboard) || e.Bound(input.Keyboard) {
		t.Error("keyboard still bound after EnableKeyboard=false")
	}
	if !src.Bound(input.Pointer) {
		t.Error("pointer unbound by keyboard toggle")
	}
}

func TestDisabledSourcesAreNotBound(t *testing.T) {
	s := settings.Defaults()
	s.EnableTouch = false
	s.EnableOrientation = false
	src := input.NewEmitter(input.Pointer, input.Touch, input.Orientation)
	e := New(Options{Settings: s, Sources: []input.Source{src}})
	defer e.Destroy()

	tests := []struct {
		kind input.Kind
		want bool
	}{
		{input.Pointer, true},
		{input.Touch, false},
		{input.Orientation, false},
		{input.Keyboard, false},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := src.Bound(tt.kind); got != tt.want {
				t.Errorf("Bound(%v) = %v, want %v", tt.kind, got, tt.want)
			}
		})
	}
}

func TestTiltSetsVelocity(t *testing.T) {
	src := input.NewEmitter(input.Orientation)
	e := New(Options{Settings: pausedSettings(), Sources: []input.Source{src}})
	defer e.Destroy()

	src.Tilt(10, -20)
	v := e.State().Velocity
	if math.Abs(v.X-0.01) > 1e-12 || math.Abs(v.Y-0.02) > 1e-12 {
		t.Errorf("Velocity after tilt = %+v, want {0.01 0.02}", v)
	}
}

func TestResourceLoadedRetriesNotReady(t *testing.T) {
	p := &recordingPainter{}
	list := []tags.Tag{
		{Text: "go", Color: "#00add8"},
		{Image: "logo.png", Color: "#000000"},
	}
	e := New(Options{Tags: list, Settings: pausedSettings(), Painter: p})
	defer e.Destroy()

	if e.NotReady() != 1 {
		t.Errorf("NotReady() = %d, want 1", e.NotReady())
	}
	if len(p.drawn) != 1 {
		t.Errorf("drawn = %d, want 1", len(p.drawn))
	}

	p.imagesReady = true
	e.ResourceLoaded()
	if e.NotReady() != 0 {
		t.Errorf("NotReady() = %d after ResourceLoaded(), want 0", e.NotReady())
	}
	if len(p.drawn) != 2 {
		t.Errorf("drawn = %d after ResourceLoaded(), want 2", len(p.drawn))
	}
}

func TestResizeIsThrottled(t *testing.T) {
	clock := frame.NewManualClock(time.Unix(0, 0))
	q := frame.NewQueue()
	e := New(Options{Settings: pausedSettings(), Scheduler: q, Clock: clock})
	defer e.Destroy()

	if err := e.Resize(800, 600); err != nil {
		t.Fatalf("Resize() error = %v", err)
	}
	if got := e.Viewport(); got != (projection.Viewport{Width: 800, Height: 600}) {
		t.Errorf("Viewport() = %v, want 800x600", got)
	}

	_ = e.Resize(1000, 700)
	_ = e.Resize(1024, 768)
	if got := e.Viewport(); got.Width != 800 {
		t.Errorf("Viewport() = %v inside the throttle window, want 800x600", got)
	}
	q.Flush()
	clock.Advance(150 * time.Millisecond)
	q.Flush()
	if got := e.Viewport(); got != (projection.Viewport{Width: 1024, Height: 768}) {
		t.Errorf("Viewport() = %v, want 1024x768", got)
	}

	if err := e.Resize(-1, 10); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Resize(-1, 10) error = %v, want INVALID_INPUT", err)
	}
}

func TestUnknownEventName(t *testing.T) {
	e := New(Options{})
	defer e.Destroy()

	if _, err := e.On("explode", func(events.Event) {}); !errors.Is(err, errors.ErrCodeInvalidEvent) {
		t.Errorf("On(explode) error = %v, want INVALID_EVENT", err)
	}
	if err := e.Off("explode"); !errors.Is(err, errors.ErrCodeInvalidEvent) {
		t.Errorf("Off(explode) error = %v, want INVALID_EVENT", err)
	}
}

func TestDestroy(t *testing.T) {
	q := frame.NewQueue()
	src := input.NewEmitter(input.Pointer, input.Keyboard)
	e := New(Options{Tags: sampleTags(3), Scheduler: q, Sources: []input.Source{src}})
	clicks := countEvents(t, e, events.TagClick)

	e.Destroy()
	e.Destroy()

	if q.Len() != 0 {
		t.Errorf("queue Len() = %d after Destroy(), want 0", q.Len())
	}
	if src.Bound(input.Pointer) || src.Bound(input.Keyboard) {
		t.Error("sources still bound after Destroy()")
	}
	if err := e.AddTag(tags.Tag{Text: "x", Color: "#ffffff"}); !errors.Is(err, errors.ErrCodeDestroyed) {
		t.Errorf("AddTag() error = %v, want DESTROYED", err)
	}
	if err := e.Pause(); !errors.Is(err, errors.ErrCodeDestroyed) {
		t.Errorf("Pause() error = %v, want DESTROYED", err)
	}
	e.Click(300, 300)
	if len(*clicks) != 0 {
		t.Errorf("tagClick events = %d after Destroy(), want 0", len(*clicks))
	}
	if !e.Destroyed() {
		t.Error("Destroyed() = false")
	}
}
