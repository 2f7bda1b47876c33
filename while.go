// while implements a fixpoint expression, which is a form of recursion for
// relations.

package rel

// WhileExpr is the closure of a relation under a generating function.  The
// tuples of the source are put in a store, and the generator is applied to
// every tuple of the store, including the ones it adds.  Tuples that are
// already in the store are not added again, so the iteration ends when the
// generator stops producing new tuples.
type WhileExpr[T any] struct {
	head

	source1 Relation[T]

	gen func(tup T) Relation[T]
}

// While creates a relation with the tuples of r1, along with every tuple
// that can be reached from them by repeated applications of gen.  The result
// is produced in the order the tuples are reached.  gen can return nil when
// a tuple leads to nothing new.
//
// gen has to run out of new tuples for the iteration to end, typically by
// bounding a counter or a numeric range in the tuples it produces.
func While[T any](r1 Relation[T], gen func(tup T) Relation[T]) Relation[T] {
	r := &WhileExpr[T]{head: newHead[T](regOf(r1), sourceErr(r1, "source")), source1: r1, gen: gen}
	if gen == nil && r.err == nil {
		r.err = &ArgumentError{"generator", "is nil"}
	}
	return r
}

// Tuples produces the tuples of the closure
func (r *WhileExpr[T]) Tuples() Iterator[T] {
	if r.err != nil {
		return errIter[T](r.err)
	}
	var s *Store[T]
	var it Iterator[T]
	return newIter(func() (T, bool, error) {
		var zero T
		if s == nil {
			var err error
			if s, err = NewStoreFrom(r.source1); err != nil {
				return zero, false, err
			}
			it = s.Tuples()
		}
		if !it.Next() {
			return zero, false, it.Err()
		}
		tup := it.Tuple()
		if r2 := r.gen(tup); r2 != nil {
			err := each(r2, func(tup2 T) error {
				s.Add(tup2)
				return nil
			})
			if err != nil {
				return zero, false, err
			}
		}
		return tup, true, nil
	}, func() error {
		return closeAll(it)
	})
}

// String returns a text representation of the Relation
func (r *WhileExpr[T]) String() string {
	return "μ{func}(" + r.source1.String() + ")"
}
