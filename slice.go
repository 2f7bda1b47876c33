// slice implements one of the possible ways of creating a new relation from
// scratch, specifically, with a slice of structs

package rel

import (
	"iter"

	"github.com/jonlawlor/relpipe/att"
)

// SliceExpr represents a relation that came from a slice of a struct.  The
// slice is not copied, so changes to it show up in later iterations.
type SliceExpr[T any] struct {
	head

	// the slice of tuples in the relation
	body []T
}

// New creates a new Relation from a []struct.  Duplicate tuples in the slice
// are dropped during iteration.
func New[T any](reg *att.Registry, body []T) (Relation[T], error) {
	r := &SliceExpr[T]{newHead[T](reg), body}
	return r, r.err
}

// Tuples produces the distinct tuples of the slice, in order
func (r *SliceExpr[T]) Tuples() Iterator[T] {
	if r.err != nil {
		return errIter[T](r.err)
	}
	// the set has to be built up as the slice is read, because this is the
	// only place the values are deduplicated.
	mem := att.NewSetOf[T](r.tt)
	i := 0
	return newIter(func() (T, bool, error) {
		for i < len(r.body) {
			tup := r.body[i]
			i++
			if mem.Add(tup) {
				return tup, true, nil
			}
		}
		var zero T
		return zero, false, nil
	}, nil)
}

// String returns a text representation of the Relation
func (r *SliceExpr[T]) String() string {
	return "Relation(" + HeadingString[T](r) + ")"
}

// SeqExpr represents a relation over a sequence that comes from outside of
// the package, such as a generator function.  It can only be iterated more
// than once if the sequence can.
type SeqExpr[T any] struct {
	head

	seq iter.Seq[T]

	// desc is used in String
	desc string
}

// FromSeq creates a new Relation from a sequence of tuples.  Duplicates are
// dropped.
func FromSeq[T any](reg *att.Registry, seq iter.Seq[T]) Relation[T] {
	h := newHead[T](reg)
	if seq == nil && h.err == nil {
		h.err = &ArgumentError{"seq", "is nil"}
	}
	return &SeqExpr[T]{h, seq, "Relation"}
}

// Sequence creates a new Relation with the tuples f(0), f(1), ... f(n-1).
// Duplicates are dropped.
func Sequence[T any](reg *att.Registry, n int, f func(i int) T) Relation[T] {
	h := newHead[T](reg)
	if f == nil && h.err == nil {
		h.err = &ArgumentError{"f", "is nil"}
	}
	seq := func(yield func(T) bool) {
		for i := 0; i < n; i++ {
			if !yield(f(i)) {
				return
			}
		}
	}
	return &SeqExpr[T]{h, seq, "Sequence"}
}

// Tuples pulls the distinct tuples of the sequence
func (r *SeqExpr[T]) Tuples() Iterator[T] {
	if r.err != nil {
		return errIter[T](r.err)
	}
	mem := att.NewSetOf[T](r.tt)
	var next func() (T, bool)
	var stop func()
	return newIter(func() (T, bool, error) {
		if next == nil {
			next, stop = iter.Pull(r.seq)
		}
		for {
			tup, ok := next()
			if !ok {
				return tup, false, nil
			}
			if mem.Add(tup) {
				return tup, true, nil
			}
		}
	}, func() error {
		if stop != nil {
			stop()
		}
		return nil
	})
}

// String returns a text representation of the Relation
func (r *SeqExpr[T]) String() string {
	return r.desc + "(" + HeadingString[T](r) + ")"
}
