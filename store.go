// store is the only relation that can change.  It is intended to be used as
// the target of updates, and as working storage for operations that need to
// add to a relation while they are iterating over it.

package rel

import (
	"github.com/jonlawlor/relpipe/att"
)

// Store is a mutable relation.  Tuples are kept in insertion order in an
// arena, so that they can be iterated while the store is being changed:
//
// Added tuples are appended, and are visited by every live iteration that
// has not yet reached the end.
//
// Deleting a tuple moves the last tuple in the store into its slot.  An
// iteration positioned on the deleted tuple steps back one slot, so the moved
// tuple is the next one it visits.  If the deleted tuple was behind an
// iteration's position, the moved tuple lands in the part of the store the
// iteration has already passed, and that iteration does not visit it.
//
// A Store is not safe for concurrent use.
type Store[T any] struct {
	head

	arena *att.Set[T]

	// live iterations
	cursors map[*cursor]struct{}
}

// cursor is the position of one iteration over a store
type cursor struct {
	// pos is the slot of the tuple most recently visited
	pos int
}

// NewStore creates an empty store
func NewStore[T any](reg *att.Registry) (*Store[T], error) {
	h := newHead[T](reg)
	if h.err != nil {
		return nil, h.err
	}
	return &Store[T]{head: h, arena: att.NewSetOf[T](h.tt), cursors: make(map[*cursor]struct{})}, nil
}

// NewStoreFrom creates a store which holds the tuples of r
func NewStoreFrom[T any](r Relation[T]) (*Store[T], error) {
	if err := sourceErr(r, "source"); err != nil {
		return nil, err
	}
	s, err := NewStore[T](r.Registry())
	if err != nil {
		return nil, err
	}
	err = each(r, func(tup T) error {
		s.Add(tup)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ToStore materializes a relation in a new store
func ToStore[T any](r Relation[T]) (*Store[T], error) {
	return NewStoreFrom(r)
}

// Add inserts a tuple.  It returns false, and does nothing, if the tuple is
// already in the store.
func (s *Store[T]) Add(tup T) bool {
	return s.arena.Add(tup)
}

// Delete removes a tuple.  It returns false if the tuple was not in the
// store.
func (s *Store[T]) Delete(tup T) bool {
	pos, ok := s.arena.Remove(tup)
	if !ok {
		return false
	}
	for c := range s.cursors {
		if c.pos == pos {
			c.pos--
		}
	}
	return true
}

// Replace deletes old and adds repl.  repl is added even if old was not in
// the store.
func (s *Store[T]) Replace(old, repl T) {
	s.Delete(old)
	s.Add(repl)
}

// Contains reports if the store has tup
func (s *Store[T]) Contains(tup T) bool {
	return s.arena.Contains(tup)
}

// Len is the number of tuples in the store
func (s *Store[T]) Len() int {
	return s.arena.Len()
}

// Tuples iterates over the store, including tuples added during the
// iteration.  Each iteration has its own position.
func (s *Store[T]) Tuples() Iterator[T] {
	c := &cursor{pos: -1}
	s.cursors[c] = struct{}{}
	return newIter(func() (T, bool, error) {
		c.pos++
		if c.pos >= s.arena.Len() {
			var zero T
			return zero, false, nil
		}
		return s.arena.At(c.pos), true, nil
	}, func() error {
		delete(s.cursors, c)
		return nil
	})
}

// String returns a text representation of the Relation
func (s *Store[T]) String() string {
	return "Store(" + HeadingString[T](s) + ")"
}
