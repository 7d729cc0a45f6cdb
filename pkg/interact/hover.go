package interact

// Transition is one hover state change.
type Transition struct {
	Index int
	Enter bool
}

// Hover tracks the single hovered tag.
type Hover struct {
	index  int
	active bool
}

// Current returns the hovered index.
func (h *Hover) Current() (int, bool) {
	return h.index, h.active
}

// Move updates the hovered tag to index (or to nothing when ok is false)
// and returns the transitions to report, leave before enter.
func (h *Hover) Move(index int, ok bool) []Transition {
	if ok && h.active && h.index == index {
		return nil
	}
	var out []Transition
	if h.active {
		out = append(out, Transition{Index: h.index})
	}
	h.index, h.active = index, ok
	if ok {
		out = append(out, Transition{Index: index, Enter: true})
	}
	return out
}

// Release leaves the hovered tag, if any.
func (h *Hover) Release() []Transition {
	return h.Move(0, false)
}

// Reset forgets the hovered tag without reporting a transition. Used when
// the indexes it refers to are no longer valid.
func (h *Hover) Reset() {
	h.index, h.active = 0, false
}
