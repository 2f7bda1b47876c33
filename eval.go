// eval implements the operations that reduce a relation to a single value.
// They all iterate their inputs right away.

package rel

import (
	"github.com/jonlawlor/relpipe/att"
)

// Card returns the cardinality of the relation
func Card[T any](r Relation[T]) (int, error) {
	n := 0
	err := each(r, func(T) error {
		n++
		return nil
	})
	return n, err
}

// Count returns the number of tuples in r which satisfy p.  A nil p counts
// every tuple.
func Count[T any](r Relation[T], p func(tup T) bool) (int, error) {
	if p == nil {
		return Card(r)
	}
	n := 0
	err := each(r, func(tup T) error {
		if p(tup) {
			n++
		}
		return nil
	})
	return n, err
}

// Exists reports if r has at least one tuple.  It stops at the first one.
func Exists[T any](r Relation[T]) (bool, error) {
	_, ok, err := Single(r)
	return ok, err
}

// IsEmpty reports if r has no tuples
func IsEmpty[T any](r Relation[T]) (bool, error) {
	ok, err := Exists(r)
	return !ok, err
}

// Single returns the first tuple of r, and false if there isn't one.
func Single[T any](r Relation[T]) (tup T, ok bool, err error) {
	err = each(r, func(t T) error {
		tup, ok = t, true
		return errStop
	})
	if err != nil {
		var zero T
		return zero, false, err
	}
	return tup, ok, nil
}

// Contains reports if r has a tuple equal to tup
func Contains[T any](r Relation[T], tup T) (bool, error) {
	if err := sourceErr(r, "relation"); err != nil {
		return false, err
	}
	tt := r.Type()
	return Any(r, func(t T) bool { return tt.Equal(t, tup) })
}

// All reports if every tuple of r satisfies p.  It is true for an empty
// relation.
func All[T any](r Relation[T], p func(tup T) bool) (bool, error) {
	if p == nil {
		return false, &ArgumentError{"predicate", "is nil"}
	}
	ok, err := Any(r, func(tup T) bool { return !p(tup) })
	return !ok && err == nil, err
}

// Any reports if some tuple of r satisfies p
func Any[T any](r Relation[T], p func(tup T) bool) (bool, error) {
	if p == nil {
		return false, &ArgumentError{"predicate", "is nil"}
	}
	found := false
	err := each(r, func(tup T) error {
		if p(tup) {
			found = true
			return errStop
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

type compareOp int

const (
	compareEqual compareOp = iota
	compareSubset
	compareDisjoint
)

// compare reads all of r1 into a set, and then reads r2 until the answer is
// known:
//
// equal: every tuple of r2 is in r1, and there are as many of them.
// subset: every tuple of r2 is in r1.
// disjoint: no tuple of r2 is in r1.
//
// Relations with different headings are never equal, subsets, or disjoint.
func compare[T, U any](r1 Relation[T], r2 Relation[U], op compareOp) (bool, error) {
	if err := firstErr(sourceErr(r1, "source"), sourceErr(r2, "other")); err != nil {
		return false, err
	}
	if !r1.Type().Heading().Equals(r2.Type().Heading()) {
		return false, nil
	}
	c, err := att.NewConverter(r2.Type(), r1.Type())
	if err != nil {
		return false, err
	}
	conv := converterFunc[U, T](c)
	mem, err := materialize(r1)
	if err != nil {
		return false, err
	}
	result := true
	n := 0
	err = each(r2, func(tup U) error {
		in := mem.Contains(conv(tup))
		if op == compareDisjoint {
			if in {
				result = false
				return errStop
			}
			return nil
		}
		n++
		if n > mem.Len() || !in {
			result = false
			return errStop
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	if op == compareEqual && n != mem.Len() {
		result = false
	}
	return result, nil
}

// IsEqual reports if r1 and r2 have the same heading and the same tuples.
// The struct types of the two relations can differ.
func IsEqual[T, U any](r1 Relation[T], r2 Relation[U]) (bool, error) {
	return compare(r1, r2, compareEqual)
}

// IsSubset reports if every tuple of r1 is in r2
func IsSubset[T, U any](r1 Relation[T], r2 Relation[U]) (bool, error) {
	return compare(r2, r1, compareSubset)
}

// IsSuperset reports if every tuple of r2 is in r1
func IsSuperset[T, U any](r1 Relation[T], r2 Relation[U]) (bool, error) {
	return compare(r1, r2, compareSubset)
}

// IsDisjoint reports if r1 and r2 have the same heading and no tuples in
// common.
func IsDisjoint[T, U any](r1 Relation[T], r2 Relation[U]) (bool, error) {
	return compare(r1, r2, compareDisjoint)
}
