// map implements the select operation, which maps each tuple of a relation
// to a tuple of a new type with a caller provided function.  It can be used
// to project, extend, or compute new attributes.

package rel

// MapExpr is a relation whose tuples are the results of a function applied
// to the tuples of another relation.  Different tuples can map to the same
// result, so the results are deduplicated.
type MapExpr[T, U any] struct {
	head

	// the input relation
	source1 Relation[T]

	// the function which maps tuples
	fcn func(tup T) U

	// rename is true if the map only changes attribute names
	rename bool
}

// Select creates a new relation by applying fcn to every tuple of r1.  If U
// has no attributes, the result has at most one tuple.
func Select[T, U any](r1 Relation[T], fcn func(tup T) U) Relation[U] {
	r := &MapExpr[T, U]{head: newHead[U](regOf(r1), sourceErr(r1, "source")), source1: r1, fcn: fcn}
	if fcn == nil && r.err == nil {
		r.err = &ArgumentError{"selector", "is nil"}
	}
	return r
}

// Tuples produces the distinct results of the map
func (r *MapExpr[T, U]) Tuples() Iterator[U] {
	if r.err != nil {
		return errIter[U](r.err)
	}
	return mapTuples(r.source1, r.head, r.fcn)
}

// mapTuples is the iteration shared by the expressions that change the
// type of tuples
func mapTuples[T, U any](r1 Relation[T], h head, fcn func(tup T) U) Iterator[U] {
	var it1 Iterator[T]
	mem := newSet[U](h)
	return newIter(func() (U, bool, error) {
		if it1 == nil {
			it1 = r1.Tuples()
		}
		for it1.Next() {
			tup2 := fcn(it1.Tuple())
			if mem.Add(tup2) {
				return tup2, true, nil
			}
		}
		var zero U
		return zero, false, it1.Err()
	}, func() error {
		return closeAll(it1)
	})
}

// String returns a text representation of the Relation
func (r *MapExpr[T, U]) String() string {
	if r.rename {
		return "ρ{" + HeadingString[U](r) + "}/{" + HeadingString(r.source1) + "}(" + r.source1.String() + ")"
	}
	return "π{" + HeadingString[U](r) + "}(" + r.source1.String() + ")"
}
