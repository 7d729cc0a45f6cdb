package tags

import (
	"github.com/matzehuels/tagcloud/pkg/errors"
)

// DefaultMaxHistory is the number of undo entries kept before the oldest are
// dropped.
const DefaultMaxHistory = 100

// Store owns the ordered tag collection and its history.
//
// Store is not safe for concurrent use; the engine touches it only from its
// tick/interaction thread.
type Store struct {
	list []Tag
	hist history
}

// NewStore creates an empty store keeping at most maxHistory undo entries.
// A maxHistory of zero or less uses DefaultMaxHistory.
func NewStore(maxHistory int) *Store {
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	return &Store{hist: history{max: maxHistory}}
}

// Len returns the number of tags.
func (s *Store) Len() int {
	return len(s.list)
}

// Tags returns the live collection. Callers may mutate Pos in place; content
// changes must go through the store.
func (s *Store) Tags() []Tag {
	return s.list
}

// Snapshot returns a copy of the collection.
func (s *Store) Snapshot() []Tag {
	out := make([]Tag, len(s.list))
	copy(out, s.list)
	return out
}

// At returns the tag at index i.
func (s *Store) At(i int) (Tag, bool) {
	if i < 0 || i >= len(s.list) {
		return Tag{}, false
	}
	return s.list[i], true
}

// CanUndo reports whether Undo has an entry to apply.
func (s *Store) CanUndo() bool { return len(s.hist.undo) > 0 }

// CanRedo reports whether Redo has an entry to apply.
func (s *Store) CanRedo() bool { return len(s.hist.redo) > 0 }

// Set replaces the whole collection and discards history. Tags without
// content are kept; the projection skips them.
func (s *Store) Set(list []Tag) {
	s.list = make([]Tag, len(list))
	for i, t := range list {
		s.list[i] = t.Content()
	}
	s.hist.reset()
	s.reindex()
}

// Clear removes every tag and discards history.
func (s *Store) Clear() {
	s.list = nil
	s.hist.reset()
}

// Add validates t and appends it. On validation failure the collection is
// unchanged and the error carries ErrCodeInvalidTag.
func (s *Store) Add(t Tag) error {
	if err := Validate(t); err != nil {
		return err
	}
	s.do(Command{Kind: KindAdd, Index: len(s.list), After: t.Content()})
	return nil
}

// Remove deletes the tag at index i.
func (s *Store) Remove(i int) error {
	if i < 0 || i >= len(s.list) {
		return errors.New(errors.ErrCodeIndexOutOfRange, "remove: index %d out of range [0,%d)", i, len(s.list))
	}
	s.do(Command{Kind: KindRemove, Index: i, Before: s.list[i].Content()})
	return nil
}

// Update applies p to the tag at index i. The patched tag must still pass
// Validate's color and content rules.
func (s *Store) Update(i int, p Patch) error {
	if i < 0 || i >= len(s.list) {
		return errors.New(errors.ErrCodeIndexOutOfRange, "update: index %d out of range [0,%d)", i, len(s.list))
	}
	if p.IsEmpty() {
		return errors.New(errors.ErrCodeInvalidInput, "update: empty patch")
	}
	before := s.list[i].Content()
	after := p.ApplyTo(before)
	if err := Validate(after); err != nil {
		return err
	}
	s.do(Command{Kind: KindUpdate, Index: i, Before: before, After: after})
	return nil
}

// Undo reverts the most recent mutation and returns the command that was
// reverted.
func (s *Store) Undo() (Command, error) {
	c, ok := pop(&s.hist.undo)
	if !ok {
		return Command{}, errors.New(errors.ErrCodeNothingToUndo, "nothing to undo")
	}
	s.list = c.Invert().apply(s.list)
	s.reindex()
	s.hist.redo = append(s.hist.redo, c)
	return c, nil
}

// Redo reapplies the most recently undone mutation.
func (s *Store) Redo() (Command, error) {
	c, ok := pop(&s.hist.redo)
	if !ok {
		return Command{}, errors.New(errors.ErrCodeNothingToRedo, "nothing to redo")
	}
	s.list = c.apply(s.list)
	s.reindex()
	s.hist.undo = append(s.hist.undo, c)
	return c, nil
}

func (s *Store) do(c Command) {
	s.list = c.apply(s.list)
	s.reindex()
	s.hist.push(c)
}

func (s *Store) reindex() {
	for i := range s.list {
		s.list[i].Index = i
	}
}
