// diff implements semijoin and antijoin expressions, which restrict a
// relation by the presence or absence of matching tuples in another.

package rel

import (
	"github.com/jonlawlor/relpipe/att"
)

// SemiExpr produces the left tuples which do (semijoin) or do not (antijoin)
// have a matching tuple in the right relation, by the same matching rule as
// a natural join.  The right relation is reduced to a set of join keys before
// the left relation is read.
type SemiExpr[L, R, Res any] struct {
	head

	source1 Relation[L]
	source2 Relation[R]

	// anti is true for an antijoin
	anti bool

	// result maps the left tuples that are produced
	result func(ltup L) Res
}

func semiExpr[L, R, Res any](r1 Relation[L], r2 Relation[R], fcn func(ltup L) Res, anti bool) *SemiExpr[L, R, Res] {
	r := &SemiExpr[L, R, Res]{
		head:    newHead[Res](regOf(r1), sourceErr(r1, "source"), sourceErr(r2, "other")),
		source1: r1,
		source2: r2,
		anti:    anti,
		result:  fcn,
	}
	if fcn == nil && r.err == nil {
		r.err = &ArgumentError{"result", "is nil"}
	}
	return r
}

func identity[T any](tup T) T { return tup }

// Semijoin creates a relation with the tuples of r1 that match at least one
// tuple of r2.
func Semijoin[L, R any](r1 Relation[L], r2 Relation[R]) Relation[L] {
	return semiExpr(r1, r2, identity[L], false)
}

// SemijoinFunc is a Semijoin which maps the matching tuples of r1 with fcn.
func SemijoinFunc[L, R, Res any](r1 Relation[L], r2 Relation[R], fcn func(ltup L) Res) Relation[Res] {
	return semiExpr(r1, r2, fcn, false)
}

// Antijoin creates a relation with the tuples of r1 that do not match any
// tuple of r2.  It is sometimes called a semidifference.
func Antijoin[L, R any](r1 Relation[L], r2 Relation[R]) Relation[L] {
	return semiExpr(r1, r2, identity[L], true)
}

// AntijoinFunc is an Antijoin which maps the produced tuples of r1 with fcn.
func AntijoinFunc[L, R, Res any](r1 Relation[L], r2 Relation[R], fcn func(ltup L) Res) Relation[Res] {
	return semiExpr(r1, r2, fcn, true)
}

// Tuples produces the distinct results for the left tuples
func (r *SemiExpr[L, R, Res]) Tuples() Iterator[Res] {
	if r.err != nil {
		return errIter[Res](r.err)
	}
	m := att.NewJoinMatcher(r.source1.Type(), r.source2.Type())
	mem := newSet[Res](r.head)
	var keys *att.KeyMap[struct{}]
	var it1 Iterator[L]
	return newIter(func() (Res, bool, error) {
		var zero Res
		if keys == nil {
			keys = att.NewKeyMap[struct{}]()
			err := each(r.source2, func(rtup R) error {
				if k := m.GetKeyRight(rtup); !keys.Contains(k) {
					keys.Add(k, struct{}{})
				}
				return nil
			})
			if err != nil {
				return zero, false, err
			}
			it1 = r.source1.Tuples()
		}
		for it1.Next() {
			ltup := it1.Tuple()
			if keys.Contains(m.GetKeyLeft(ltup)) == r.anti {
				continue
			}
			if tup := r.result(ltup); mem.Add(tup) {
				return tup, true, nil
			}
		}
		return zero, false, it1.Err()
	}, func() error {
		return closeAll(it1)
	})
}

// String returns a text representation of the Relation
func (r *SemiExpr[L, R, Res]) String() string {
	if r.anti {
		return r.source1.String() + " ▷ " + r.source2.String()
	}
	return r.source1.String() + " ⋉ " + r.source2.String()
}
