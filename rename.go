// rename implements a rename expression in relational algebra

package rel

import (
	"github.com/jonlawlor/relpipe/att"
)

// Rename creates a new relation with new attribute names.  U has to be a
// struct with the same number of fields as T, and with the same types in
// the same declaration order.  The i'th field of T is renamed to the i'th
// field of U.
func Rename[U, T any](r1 Relation[T]) Relation[U] {
	r := &MapExpr[T, U]{head: newHead[U](regOf(r1), sourceErr(r1, "source")), source1: r1, rename: true}
	if r.err != nil {
		return r
	}
	c, err := att.NewRenamer(r1.Type(), r.tt)
	if err != nil {
		r.err = err
		return r
	}
	r.fcn = converterFunc[T, U](c)
	return r
}
