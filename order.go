// order implements ordering and limits, which are not a part of relational
// algebra, but are needed to get tuples out of a relation in a predictable
// way.

package rel

import (
	"fmt"
	"slices"
)

// OrderExpr is a relation whose tuples are produced in sorted order.  It
// has to read all of its source before it can produce the first tuple.
type OrderExpr[T any] struct {
	head

	source1 Relation[T]

	// less is the "in order" function
	less func(a, b T) bool
}

// OrderBy creates a relation that produces the tuples of r1 ordered by less.
// Tuples that are neither less than each other keep the order they had in
// r1.
func OrderBy[T any](r1 Relation[T], less func(a, b T) bool) Relation[T] {
	r := &OrderExpr[T]{head: newHead[T](regOf(r1), sourceErr(r1, "source")), source1: r1, less: less}
	if less == nil && r.err == nil {
		r.err = &ArgumentError{"comparer", "is nil"}
	}
	return r
}

func (r *OrderExpr[T]) cmp(a, b T) int {
	switch {
	case r.less(a, b):
		return -1
	case r.less(b, a):
		return 1
	}
	return 0
}

// Tuples produces the tuples in order
func (r *OrderExpr[T]) Tuples() Iterator[T] {
	if r.err != nil {
		return errIter[T](r.err)
	}
	var tups []T
	var i int
	loaded := false
	return newIter(func() (T, bool, error) {
		if !loaded {
			loaded = true
			mem := newSet[T](r.head)
			err := each(r.source1, func(tup T) error {
				mem.Add(tup)
				return nil
			})
			if err != nil {
				var zero T
				return zero, false, err
			}
			tups = mem.Items()
			slices.SortStableFunc(tups, r.cmp)
		}
		if i >= len(tups) {
			var zero T
			return zero, false, nil
		}
		i++
		return tups[i-1], true, nil
	}, nil)
}

// String returns a text representation of the Relation
func (r *OrderExpr[T]) String() string {
	return "τ{func}(" + r.source1.String() + ")"
}

// LimitExpr skips some tuples of a relation and then produces at most a
// fixed number of the rest.
type LimitExpr[T any] struct {
	head

	source1 Relation[T]

	skip int

	// take < 0 means no limit
	take int
}

// SkipTake creates a relation that skips the first skip tuples of r1 and then
// produces the next take tuples.  It is mostly useful on an ordered relation.
// A take of zero or less produces nothing.
func SkipTake[T any](r1 Relation[T], skip, take int) Relation[T] {
	if take < 0 {
		take = 0
	}
	return &LimitExpr[T]{newHead[T](regOf(r1), sourceErr(r1, "source")), r1, skip, take}
}

// Skip creates a relation without the first n tuples of r1
func Skip[T any](r1 Relation[T], n int) Relation[T] {
	return &LimitExpr[T]{newHead[T](regOf(r1), sourceErr(r1, "source")), r1, n, -1}
}

// Take creates a relation with only the first n tuples of r1
func Take[T any](r1 Relation[T], n int) Relation[T] {
	return SkipTake(r1, 0, n)
}

// Tuples produces the tuples in the window
func (r *LimitExpr[T]) Tuples() Iterator[T] {
	if r.err != nil {
		return errIter[T](r.err)
	}
	var it1 Iterator[T]
	skipped, taken := 0, 0
	return newIter(func() (T, bool, error) {
		var zero T
		if r.take >= 0 && taken >= r.take {
			return zero, false, nil
		}
		if it1 == nil {
			it1 = r.source1.Tuples()
		}
		for it1.Next() {
			if skipped < r.skip {
				skipped++
				continue
			}
			taken++
			return it1.Tuple(), true, nil
		}
		return zero, false, it1.Err()
	}, func() error {
		return closeAll(it1)
	})
}

// String returns a text representation of the Relation
func (r *LimitExpr[T]) String() string {
	if r.take < 0 {
		return fmt.Sprintf("%v[%d:]", r.source1, r.skip)
	}
	return fmt.Sprintf("%v[%d:%d]", r.source1, r.skip, r.skip+r.take)
}
