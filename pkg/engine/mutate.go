package engine

import (
	"github.com/matzehuels/tagcloud/pkg/events"
	"github.com/matzehuels/tagcloud/pkg/observability"
	"github.com/matzehuels/tagcloud/pkg/settings"
	"github.com/matzehuels/tagcloud/pkg/tags"
)

// SetTags replaces the whole collection, lays it out again and discards the
// undo history. Tags without content are kept but never drawn.
func (e *Engine) SetTags(list []tags.Tag) error {
	if e.destroyed {
		return errDestroyed()
	}
	hovered := e.hoveredTag()
	e.store.Set(list)
	e.afterMutation("set", hovered)
	return nil
}

// ClearTags removes every tag and discards the undo history.
func (e *Engine) ClearTags() error {
	if e.destroyed {
		return errDestroyed()
	}
	hovered := e.hoveredTag()
	e.store.Clear()
	e.afterMutation("clear", hovered)
	return nil
}

// AddTag validates t and appends it. A rejected tag leaves the collection
// untouched and is reported as a diagnostic.
func (e *Engine) AddTag(t tags.Tag) error {
	return e.mutate("add", func() error { return e.store.Add(t) })
}

// RemoveTag deletes the tag at index i.
func (e *Engine) RemoveTag(i int) error {
	return e.mutate("remove", func() error { return e.store.Remove(i) })
}

// UpdateTag applies p to the tag at index i.
func (e *Engine) UpdateTag(i int, p tags.Patch) error {
	return e.mutate("update", func() error { return e.store.Update(i, p) })
}

// Undo reverts the most recent tag mutation.
func (e *Engine) Undo() (tags.Command, error) {
	var c tags.Command
	err := e.mutate("undo", func() (err error) {
		c, err = e.store.Undo()
		return err
	})
	return c, err
}

// Redo reapplies the most recently undone tag mutation.
func (e *Engine) Redo() (tags.Command, error) {
	var c tags.Command
	err := e.mutate("redo", func() (err error) {
		c, err = e.store.Redo()
		return err
	})
	return c, err
}

func (e *Engine) mutate(op string, fn func() error) error {
	if e.destroyed {
		return errDestroyed()
	}
	hovered := e.hoveredTag()
	if err := fn(); err != nil {
		observability.Engine().OnMutation(e.ctx, op, err)
		e.report(err)
		return err
	}
	e.afterMutation(op, hovered)
	return nil
}

// afterMutation lays the collection out again and redraws. An update keeps
// indexes stable, so hover and pulses survive it. Any other mutation may
// shift indexes: overlays are dropped and the hovered tag, as it was before
// the change, receives a tagLeave.
func (e *Engine) afterMutation(op string, hovered *tags.Tag) {
	if op != "update" {
		e.overlay.Clear()
		e.leaveHovered(hovered)
	}
	clear(e.notReady)
	e.relayout()
	e.draw()
	e.log.Debug("tags changed", "op", op, "tags", e.store.Len())
	observability.Engine().OnMutation(e.ctx, op, nil)
}

// UpdateOptions applies a partial settings update. Invalid values keep their
// previous setting and are returned, and reported, as diagnostics. Changing
// the shape or radius lays the collection out again; changing an input
// toggle rebinds the sources.
func (e *Engine) UpdateOptions(p settings.Patch) []error {
	if e.destroyed {
		return []error{errDestroyed()}
	}
	prev := e.settings
	next, diags := prev.Apply(p)
	e.reportAll(diags)

	// Pause state is driven through Pause and Resume so events fire.
	wantPaused := next.Paused
	next.Paused = prev.Paused
	e.settings = next

	e.model.Params = next.Motion()
	e.model.SetVelocity(e.model.State.Velocity)
	if !e.model.Moving() && e.decaying {
		e.cancelDecay()
	}

	if p.Relayout() {
		e.overlay.Clear()
		e.leaveHovered(e.hoveredTag())
		e.relayout()
	}
	if togglesChanged(prev, next) {
		e.rebind()
	}
	if !next.HoverEffect {
		if i, ok := e.hover.Current(); ok {
			e.overlay.ClearHover(i)
		}
	}

	switch {
	case wantPaused && !prev.Paused:
		_ = e.Pause()
	case !wantPaused && prev.Paused:
		_ = e.Resume()
	}
	e.draw()
	e.log.Debug("options updated", "diagnostics", len(diags), "relayout", p.Relayout())
	return diags
}

// UpdateOptionsMap decodes a loosely typed option map, as read from JSON or
// TOML, and applies it. Unknown keys and values of the wrong type are
// reported alongside substituted values.
func (e *Engine) UpdateOptionsMap(raw map[string]any) []error {
	if e.destroyed {
		return []error{errDestroyed()}
	}
	p, decodeErrs := settings.DecodePatch(raw)
	e.reportAll(decodeErrs)
	return append(decodeErrs, e.UpdateOptions(p)...)
}

func togglesChanged(a, b settings.Settings) bool {
	return a.EnableTouch != b.EnableTouch ||
		a.EnableOrientation != b.EnableOrientation ||
		a.EnableKeyboard != b.EnableKeyboard
}

// hoveredTag returns a copy of the hovered tag, or nil.
func (e *Engine) hoveredTag() *tags.Tag {
	i, ok := e.hover.Current()
	if !ok {
		return nil
	}
	t, ok := e.store.At(i)
	if !ok {
		return nil
	}
	return &t
}

// leaveHovered ends hover without consulting the store, whose indexes may no
// longer match. prev is the tag reported with the tagLeave event.
func (e *Engine) leaveHovered(prev *tags.Tag) {
	for _, tr := range e.hover.Release() {
		e.overlay.ClearHover(tr.Index)
		e.events.Fire(events.Event{Name: events.TagLeave, Tag: prev})
	}
}
