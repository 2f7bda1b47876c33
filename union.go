// union implements a union expression in relational algebra, along with
// the other expressions that combine two relations of the same type as sets.

package rel

import (
	"fmt"
)

type setOp int

const (
	opUnion setOp = iota
	opMinus
	opIntersect
	opDifference
)

var setOpSymbols = map[setOp]string{
	opUnion:      "∪",
	opMinus:      "−",
	opIntersect:  "∩",
	opDifference: "△",
}

// SetExpr represents a set operation on two relations with the same tuple
// type.  Union reads both relations once, in order.  Minus and intersect
// read all of the right relation into a set before reading the left, and
// symmetric difference reads all of the left relation before reading the
// right.
type SetExpr[T any] struct {
	head

	source1 Relation[T]
	source2 Relation[T]

	op setOp
}

func setExpr[T any](r1, r2 Relation[T], op setOp) Relation[T] {
	return &SetExpr[T]{newHead[T](regOf(r1), sourceErr(r1, "source"), sourceErr(r2, "other")), r1, r2, op}
}

// Union creates a new relation by unioning the bodies of both inputs.  A
// tuple in r2 that is equal to a tuple in r1 is only produced once.
//
// The set operations take two relations of the same tuple type.  A relation
// of another struct type with the same heading is converted first, and one
// with a different heading is mapped with Select:
//
//	Union(r1, Convert[Supplier](r2))
//	Minus(r1, Select(r2, func(s Shipper) Supplier { return Supplier{s.ID, s.Name} }))
func Union[T any](r1, r2 Relation[T]) Relation[T] {
	return setExpr(r1, r2, opUnion)
}

// Tuples produces the tuples of the set operation
func (r *SetExpr[T]) Tuples() Iterator[T] {
	if r.err != nil {
		return errIter[T](r.err)
	}
	switch r.op {
	case opUnion:
		return r.union()
	case opMinus:
		return r.filter(false)
	case opIntersect:
		return r.filter(true)
	case opDifference:
		return r.difference()
	}
	return errIter[T](&AssertionError{fmt.Sprintf("unknown set operation %d", r.op)})
}

func (r *SetExpr[T]) union() Iterator[T] {
	mem := newSet[T](r.head)
	var it1, it2 Iterator[T]
	return newIter(func() (T, bool, error) {
		var zero T
		if it1 == nil {
			it1 = r.source1.Tuples()
		}
		if it2 == nil {
			for it1.Next() {
				if tup := it1.Tuple(); mem.Add(tup) {
					return tup, true, nil
				}
			}
			if err := it1.Err(); err != nil {
				return zero, false, err
			}
			it2 = r.source2.Tuples()
		}
		for it2.Next() {
			if tup := it2.Tuple(); mem.Add(tup) {
				return tup, true, nil
			}
		}
		return zero, false, it2.Err()
	}, func() error {
		return closeAll(it1, it2)
	})
}

// filter produces the left tuples which are (or are not) in the right
// relation.
func (r *SetExpr[T]) filter(in bool) Iterator[T] {
	var it1 Iterator[T]
	var mem interface{ Contains(T) bool }
	return newIter(func() (T, bool, error) {
		var zero T
		if it1 == nil {
			set2, err := materialize(r.source2)
			if err != nil {
				return zero, false, err
			}
			mem = set2
			it1 = r.source1.Tuples()
		}
		for it1.Next() {
			if tup := it1.Tuple(); mem.Contains(tup) == in {
				return tup, true, nil
			}
		}
		return zero, false, it1.Err()
	}, func() error {
		return closeAll(it1)
	})
}

// difference produces the right tuples which are not in the left relation
// as they are read, and then the left tuples which were not in the right.
func (r *SetExpr[T]) difference() Iterator[T] {
	var it2 Iterator[T]
	var rest []T
	loaded := false
	return newIter(func() (T, bool, error) {
		var zero T
		if !loaded {
			loaded = true
			set1, err := materialize(r.source1)
			if err != nil {
				return zero, false, err
			}
			it2 = r.source2.Tuples()
			for it2.Next() {
				tup := it2.Tuple()
				if _, ok := set1.Remove(tup); !ok {
					rest = append(rest, tup)
				}
			}
			if err := it2.Err(); err != nil {
				return zero, false, err
			}
			rest = append(rest, set1.Items()...)
		}
		if len(rest) == 0 {
			return zero, false, nil
		}
		tup := rest[0]
		rest = rest[1:]
		return tup, true, nil
	}, func() error {
		return closeAll(it2)
	})
}

// String returns a text representation of the Relation
func (r *SetExpr[T]) String() string {
	return r.source1.String() + " " + setOpSymbols[r.op] + " " + r.source2.String()
}
