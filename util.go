package rel

import (
	"github.com/jonlawlor/relpipe/att"
)

// newSet creates an empty set for the tuples of a relation
func newSet[T any](h head) *att.Set[T] {
	return att.NewSetOf[T](h.tt)
}

// materialize reads all of the tuples of r into a set
func materialize[T any](r Relation[T]) (*att.Set[T], error) {
	if err := sourceErr(r, "source"); err != nil {
		return nil, err
	}
	mem := att.NewSetOf[T](r.Type())
	err := each(r, func(tup T) error {
		mem.Add(tup)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mem, nil
}

// firstErr returns the first non nil error
func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
