// join implements a natural join expression in relational algebra

package rel

import (
	"github.com/jonlawlor/relpipe/att"
)

// JoinExpr is a natural join of two relations.  Left and right tuples match
// when all of the attributes they share (by name and type) are equal, and
// every matching pair is combined into a result tuple.  The right relation is
// read and indexed by join key before the first left tuple is read.
type JoinExpr[L, R, Res any] struct {
	head

	source1 Relation[L]
	source2 Relation[R]

	// combine creates a result from a matching pair
	combine func(ltup L, rtup R) Res
}

// Join creates a new relation by performing a natural join on the inputs,
// and creating a result for each matching pair with fcn.
func Join[L, R, Res any](r1 Relation[L], r2 Relation[R], fcn func(ltup L, rtup R) Res) Relation[Res] {
	r := &JoinExpr[L, R, Res]{
		head:    newHead[Res](regOf(r1), sourceErr(r1, "source"), sourceErr(r2, "other")),
		source1: r1,
		source2: r2,
		combine: fcn,
	}
	if fcn == nil && r.err == nil {
		r.err = &ArgumentError{"result", "is nil"}
	}
	return r
}

// JoinRight is a natural join where the result only depends on the right
// tuple of each matching pair.
func JoinRight[L, R, Res any](r1 Relation[L], r2 Relation[R], fcn func(rtup R) Res) Relation[Res] {
	if fcn == nil {
		return Join[L, R, Res](r1, r2, nil)
	}
	return Join(r1, r2, func(_ L, rtup R) Res { return fcn(rtup) })
}

// NaturalJoin is a natural join where the result tuple type Res is built out
// of the attributes of both sides.  Each attribute of Res is taken from the
// left tuple if it has one with the same name and type, and from the right
// tuple otherwise.
func NaturalJoin[Res, L, R any](r1 Relation[L], r2 Relation[R]) Relation[Res] {
	r := &JoinExpr[L, R, Res]{
		head:    newHead[Res](regOf(r1), sourceErr(r1, "source"), sourceErr(r2, "other")),
		source1: r1,
		source2: r2,
	}
	if r.err != nil {
		return r
	}
	c, err := att.NewCombiner(r1.Type(), r2.Type(), r.tt)
	if err != nil {
		r.err = err
		return r
	}
	r.combine = func(ltup L, rtup R) Res { return c.Combine(ltup, rtup).(Res) }
	return r
}

// Tuples produces the distinct results of all matching pairs
func (r *JoinExpr[L, R, Res]) Tuples() Iterator[Res] {
	if r.err != nil {
		return errIter[Res](r.err)
	}
	m := att.NewJoinMatcher(r.source1.Type(), r.source2.Type())
	mem := newSet[Res](r.head)
	var index *att.KeyMap[R]
	var it1 Iterator[L]

	// the left tuple being matched, and its matches
	var ltup L
	var matches []R
	return newIter(func() (Res, bool, error) {
		var zero Res
		if index == nil {
			index = att.NewKeyMap[R]()
			err := each(r.source2, func(rtup R) error {
				index.Add(m.GetKeyRight(rtup), rtup)
				return nil
			})
			if err != nil {
				return zero, false, err
			}
			it1 = r.source1.Tuples()
		}
		for {
			for len(matches) > 0 {
				tup := r.combine(ltup, matches[0])
				matches = matches[1:]
				if mem.Add(tup) {
					return tup, true, nil
				}
			}
			if !it1.Next() {
				return zero, false, it1.Err()
			}
			ltup = it1.Tuple()
			matches = index.Get(m.GetKeyLeft(ltup))
		}
	}, func() error {
		return closeAll(it1)
	})
}

// String returns a text representation of the Relation
func (r *JoinExpr[L, R, Res]) String() string {
	return r.source1.String() + " ⋈ " + r.source2.String()
}
