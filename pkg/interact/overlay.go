package interact

import (
	"time"

	"github.com/matzehuels/tagcloud/pkg/projection"
)

type pulse struct {
	scale float64
	until time.Time
}

// Overlay holds transient presentation overrides keyed by tag index. It is
// kept apart from tag content so edits never clobber hover state and hover
// state never leaks into history snapshots.
type Overlay struct {
	hover map[int]projection.Override
	pulse map[int]pulse
}

// NewOverlay returns an empty overlay.
func NewOverlay() *Overlay {
	return &Overlay{
		hover: make(map[int]projection.Override),
		pulse: make(map[int]pulse),
	}
}

// SetHover installs the hover override for index.
func (o *Overlay) SetHover(index int, ov projection.Override) {
	o.hover[index] = ov
}

// ClearHover removes the hover override for index.
func (o *Overlay) ClearHover(index int) {
	delete(o.hover, index)
}

// Pulse scales index by scale until the given time.
func (o *Overlay) Pulse(index int, scale float64, until time.Time) {
	o.pulse[index] = pulse{scale: scale, until: until}
}

// Expire drops pulses that ended at or before now and reports whether any
// were dropped.
func (o *Overlay) Expire(now time.Time) bool {
	changed := false
	for i, p := range o.pulse {
		if !now.Before(p.until) {
			delete(o.pulse, i)
			changed = true
		}
	}
	return changed
}

// Pending reports whether a pulse is still waiting to expire.
func (o *Overlay) Pending() bool {
	return len(o.pulse) > 0
}

// Clear removes every override.
func (o *Overlay) Clear() {
	clear(o.hover)
	clear(o.pulse)
}

// Len returns the number of tags with an active override.
func (o *Overlay) Len() int {
	n := len(o.hover)
	for i := range o.pulse {
		if _, ok := o.hover[i]; !ok {
			n++
		}
	}
	return n
}

// Override implements projection.Overrides. Hover and pulse scales
// multiply.
func (o *Overlay) Override(index int) (projection.Override, bool) {
	h, hok := o.hover[index]
	p, pok := o.pulse[index]
	if !hok && !pok {
		return projection.Override{}, false
	}
	if pok {
		if h.Scale > 0 {
			h.Scale *= p.scale
		} else {
			h.Scale = p.scale
		}
	}
	return h, true
}

var _ projection.Overrides = (*Overlay)(nil)
