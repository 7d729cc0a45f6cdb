package tags

// Kind identifies the mutation recorded by a Command.
type Kind int

const (
	KindAdd Kind = iota
	KindRemove
	KindUpdate
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindAdd:
		return "add"
	case KindRemove:
		return "remove"
	case KindUpdate:
		return "update"
	}
	return "unknown"
}

// Command is one invertible mutation of the collection.
//
// For KindAdd, After is the inserted tag. For KindRemove, Before is the
// removed tag. For KindUpdate, Before and After are the tag's content on each
// side of the change. Index is the position the command acts on.
type Command struct {
	Kind   Kind
	Index  int
	Before Tag
	After  Tag
}

// Invert returns the command that undoes c.
func (c Command) Invert() Command {
	switch c.Kind {
	case KindAdd:
		return Command{Kind: KindRemove, Index: c.Index, Before: c.After}
	case KindRemove:
		return Command{Kind: KindAdd, Index: c.Index, After: c.Before}
	default:
		return Command{Kind: KindUpdate, Index: c.Index, Before: c.After, After: c.Before}
	}
}

// apply performs c on list and returns the new list. Commands in the history
// are only ever applied to the state they were recorded against, so indexes
// are in range.
func (c Command) apply(list []Tag) []Tag {
	switch c.Kind {
	case KindAdd:
		list = append(list, Tag{})
		copy(list[c.Index+1:], list[c.Index:])
		list[c.Index] = c.After.Content()
	case KindRemove:
		list = append(list[:c.Index], list[c.Index+1:]...)
	case KindUpdate:
		pos := list[c.Index].Pos
		list[c.Index] = c.After.Content()
		list[c.Index].Pos = pos
	}
	return list
}

// history is a linear undo/redo stack pair. Pushing a new command discards
// the redo stack.
type history struct {
	undo []Command
	redo []Command
	max  int
}

func (h *history) push(c Command) {
	h.undo = append(h.undo, c)
	if h.max > 0 && len(h.undo) > h.max {
		drop := len(h.undo) - h.max
		copy(h.undo, h.undo[drop:])
		clear(h.undo[len(h.undo)-drop:])
		h.undo = h.undo[:len(h.undo)-drop]
	}
	h.redo = h.redo[:0]
}

func (h *history) reset() {
	h.undo = nil
	h.redo = nil
}

func pop(stack *[]Command) (Command, bool) {
	s := *stack
	if len(s) == 0 {
		return Command{}, false
	}
	c := s[len(s)-1]
	*stack = s[:len(s)-1]
	return c, true
}
