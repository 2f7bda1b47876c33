// restrict implements a restrict expression in relational algebra

package rel

import (
	"github.com/jonlawlor/relpipe/att"
)

// RestrictExpr passes the tuples of a relation which satisfy a predicate.
// It does not need to deduplicate, because it can't introduce duplicates.
type RestrictExpr[T any] struct {
	head

	// the input relation
	source1 Relation[T]

	// the restriction predicate
	p func(tup T) bool

	// desc describes the predicate in String
	desc string
}

// Where creates a new relation with the tuples of r1 for which p is true.
func Where[T any](r1 Relation[T], p func(tup T) bool) Relation[T] {
	r := &RestrictExpr[T]{head: newHead[T](regOf(r1), sourceErr(r1, "source")), source1: r1, p: p, desc: "func"}
	if p == nil && r.err == nil {
		r.err = &ArgumentError{"predicate", "is nil"}
	}
	return r
}

// Restrict creates a new relation with the tuples of r1 that satisfy the
// attribute predicate p.  The attributes p refers to have to be a subset of
// the attributes of r1.
func Restrict[T any](r1 Relation[T], p att.Predicate) Relation[T] {
	r := &RestrictExpr[T]{head: newHead[T](regOf(r1), sourceErr(r1, "source")), source1: r1}
	if p == nil {
		if r.err == nil {
			r.err = &ArgumentError{"predicate", "is nil"}
		}
		return r
	}
	r.desc = p.String()
	if r.err != nil {
		return r
	}
	f, err := p.EvalFunc(r.tt)
	if err != nil {
		r.err = err
		return r
	}
	r.p = func(tup T) bool { return f(tup) }
	return r
}

// Tuples produces the tuples of the source that satisfy the predicate
func (r *RestrictExpr[T]) Tuples() Iterator[T] {
	if r.err != nil {
		return errIter[T](r.err)
	}
	var it1 Iterator[T]
	return newIter(func() (T, bool, error) {
		if it1 == nil {
			it1 = r.source1.Tuples()
		}
		for it1.Next() {
			if tup := it1.Tuple(); r.p(tup) {
				return tup, true, nil
			}
		}
		var zero T
		return zero, false, it1.Err()
	}, func() error {
		return closeAll(it1)
	})
}

// String returns a text representation of the Relation
func (r *RestrictExpr[T]) String() string {
	return "σ{" + r.desc + "}(" + r.source1.String() + ")"
}
