// project implements a project expression in relational algebra

package rel

import (
	"github.com/jonlawlor/relpipe/att"
)

// Project creates a new relation with less than or equal degree.  U has to
// have a subset of the attributes of T, with the same types.  Tuples which
// only differed in attributes that were projected away become duplicates,
// and are only produced once.
func Project[U, T any](r1 Relation[T]) Relation[U] {
	return convertExpr[U](r1, false)
}

// Convert creates a new relation with the same tuples as r1, but represented
// by a different struct type with the same heading.
func Convert[U, T any](r1 Relation[T]) Relation[U] {
	return convertExpr[U](r1, true)
}

func convertExpr[U, T any](r1 Relation[T], same bool) *MapExpr[T, U] {
	r := &MapExpr[T, U]{head: newHead[U](regOf(r1), sourceErr(r1, "source")), source1: r1}
	if r.err != nil {
		return r
	}
	if same {
		if err := att.EnsureSameHeading(r1.Type(), r.tt); err != nil {
			r.err = err
			return r
		}
	}
	c, err := att.NewConverter(r1.Type(), r.tt)
	if err != nil {
		r.err = err
		return r
	}
	r.fcn = converterFunc[T, U](c)
	return r
}

// converterFunc wraps a converter in a typed function
func converterFunc[T, U any](c *att.Converter) func(tup T) U {
	if c.From().Type() == c.To().Type() {
		// identical struct types need no conversion at all
		return func(tup T) U { return any(tup).(U) }
	}
	return func(tup T) U { return c.Convert(tup).(U) }
}
