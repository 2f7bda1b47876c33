package att

// Set holds distinct tuples in insertion order.  Membership is structural:
// two tuples are the same member when all of their attributes are equal.
//
// Tuples are kept in a slice, and positions are indexed by tuple hash.
// Remove moves the last tuple into the removed tuple's position, so positions
// are stable only between removals.
type Set[T any] struct {
	tt      *TupleType
	items   []T
	buckets map[uint64][]int
}

// NewSet creates an empty set of tuples of type T
func NewSet[T any](r *Registry) (*Set[T], error) {
	tt, err := TypeFor[T](r)
	if err != nil {
		return nil, err
	}
	return NewSetOf[T](tt), nil
}

// NewSetOf creates an empty set for an already derived tuple type, which has
// to be the tuple type of T.
func NewSetOf[T any](tt *TupleType) *Set[T] {
	return &Set[T]{tt: tt, buckets: make(map[uint64][]int)}
}

// Type is the tuple type of the members
func (s *Set[T]) Type() *TupleType {
	return s.tt
}

// Index returns the position of tup, if it is a member.
func (s *Set[T]) Index(tup T) (int, bool) {
	for _, i := range s.buckets[s.tt.Hash(tup)] {
		if s.tt.Equal(s.items[i], tup) {
			return i, true
		}
	}
	return -1, false
}

// Contains reports membership of tup
func (s *Set[T]) Contains(tup T) bool {
	_, ok := s.Index(tup)
	return ok
}

// Add inserts tup and returns true if it was not already a member.
func (s *Set[T]) Add(tup T) bool {
	_, added := s.Insert(tup)
	return added
}

// Insert is Add, which also returns the position of the tuple.
func (s *Set[T]) Insert(tup T) (pos int, added bool) {
	h := s.tt.Hash(tup)
	for _, i := range s.buckets[h] {
		if s.tt.Equal(s.items[i], tup) {
			return i, false
		}
	}
	pos = len(s.items)
	s.items = append(s.items, tup)
	s.buckets[h] = append(s.buckets[h], pos)
	return pos, true
}

// Remove deletes tup, returning the position it had.  The last tuple of the
// set is moved into that position.
func (s *Set[T]) Remove(tup T) (pos int, ok bool) {
	pos, ok = s.Index(tup)
	if !ok {
		return -1, false
	}
	last := len(s.items) - 1
	s.unindex(s.tt.Hash(tup), pos)
	if pos != last {
		moved := s.items[last]
		h := s.tt.Hash(moved)
		s.unindex(h, last)
		s.buckets[h] = append(s.buckets[h], pos)
		s.items[pos] = moved
	}
	var zero T
	s.items[last] = zero
	s.items = s.items[:last]
	return pos, true
}

func (s *Set[T]) unindex(h uint64, pos int) {
	b := s.buckets[h]
	for k, i := range b {
		if i == pos {
			b[k] = b[len(b)-1]
			b = b[:len(b)-1]
			break
		}
	}
	if len(b) == 0 {
		delete(s.buckets, h)
		return
	}
	s.buckets[h] = b
}

// Len is the number of members
func (s *Set[T]) Len() int {
	return len(s.items)
}

// At returns the member at position i
func (s *Set[T]) At(i int) T {
	return s.items[i]
}

// Items returns the members in position order.  The slice is shared with
// the set, and is invalidated by the next change.
func (s *Set[T]) Items() []T {
	return s.items
}
