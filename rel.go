// rel is a package that implements relational algebra
// the relational algebra here follows in the footsteps of "Database in
// Depth" by C. J. Date.  Therefore all terminology should be the same as
// used in that book.  There are some notable differences from SQL - the
// biggest of which is that all Relations are automatically distinct.
// The second biggest is that there are no nulls.  If you need a type to
// represent a null, you'll have to add it in yourself.
//
// The current implementation:
// It makes heavy use of reflection to find the attributes of tuples, but
// the relational operations themselves are generic functions, so the tuples
// that come out of a relation are statically typed.

package rel

// variable naming conventions
//
// r, r1, r2, r3, ... all represent relations.  If there is an operation which
// has an output relation, the output relation will have the highest number
// after the r.
//
// it, it1, it2, ... all represent iterators over the tuples of a relation.
//
// tt, tt1, tt2, ... all represent the *att.TupleType of a relation.
//
// tup, tup1, tup2, ... all represent actual tuples going through some
// relational transformation.
//
// rtup, rtup1, rtup2, ... all represent the reflect.ValueOf(tup) with the
// appropriate identification.

import (
	"iter"
	"strings"

	"github.com/jonlawlor/relpipe/att"
)

// Iterator walks the tuples of a relation once.  Next advances to the next
// tuple and reports whether there is one; after it returns false, Err reports
// the error that stopped the iteration, if any.  Close releases whatever the
// iteration holds open (files, database rows, store cursors), and has to be
// called when an iteration is abandoned early.  Close can be called more than
// once, and is called implicitly when Next returns false.
type Iterator[T any] interface {
	Next() bool
	Tuple() T
	Err() error
	Close() error
}

// Relation has similar meaning to tables in SQL.  Relations are lazy: they
// describe how to produce their tuples, and each call to Tuples produces them
// again from the sources.
type Relation[T any] interface {
	// Tuples starts a new iteration over the tuples in the relation.
	Tuples() Iterator[T]

	// Type is the tuple type of T
	Type() *att.TupleType

	// Registry is the registry the tuple types of the relation come from
	Registry() *att.Registry

	// Err returns an error encountered during construction.  Errors during
	// iteration are reported by the Iterator.
	Err() error

	// String returns a text representation of the Relation
	String() string
}

// head holds what every relation knows about itself before it has produced
// any tuples.
type head struct {
	reg *att.Registry
	tt  *att.TupleType
	err error
}

// newHead derives the tuple type of T in reg.  The first non nil error in
// errs (typically the errors of source relations) takes precedence over any
// error found deriving the tuple type.
func newHead[T any](reg *att.Registry, errs ...error) head {
	h := head{reg: reg}
	if reg == nil {
		h.err = &ArgumentError{"registry", "is nil"}
	} else {
		h.tt, h.err = att.TypeFor[T](reg)
	}
	for _, err := range errs {
		if err != nil {
			h.err = err
			break
		}
	}
	return h
}

// Type is the tuple type of the relation
func (h *head) Type() *att.TupleType {
	return h.tt
}

// Registry is the registry the tuple type was derived in
func (h *head) Registry() *att.Registry {
	return h.reg
}

// Err returns an error encountered during construction
func (h *head) Err() error {
	return h.err
}

// sourceErr returns the construction error of a source relation, which is
// an ArgumentError if the relation is missing.
func sourceErr[T any](r Relation[T], name string) error {
	if r == nil {
		return &ArgumentError{name, "is nil"}
	}
	return r.Err()
}

// regOf returns the registry of r, or nil if r is nil
func regOf[T any](r Relation[T]) *att.Registry {
	if r == nil {
		return nil
	}
	return r.Registry()
}

// Heading is a slice of attribute names, in name order
func Heading[T any](r Relation[T]) []att.Attribute {
	if r.Type() == nil {
		return nil
	}
	return r.Type().Heading().Names()
}

// HeadingString is a comma separated list of the attributes of a relation,
// in the order they are declared in the tuple struct.
func HeadingString[T any](r Relation[T]) string {
	tt := r.Type()
	if tt == nil {
		return ""
	}
	names := tt.DeclaredNames()
	s := make([]string, len(names))
	for i, n := range names {
		s[i] = string(n)
	}
	return strings.Join(s, ", ")
}

// Deg returns the degree of the relation
func Deg[T any](r Relation[T]) int {
	if r.Type() == nil {
		return 0
	}
	return r.Type().Degree()
}

// Slice materializes the tuples of a relation
func Slice[T any](r Relation[T]) ([]T, error) {
	var tups []T
	err := each(r, func(tup T) error {
		tups = append(tups, tup)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tups, nil
}

// Seq returns the tuples of a relation as a range-over-func sequence.  An
// error ends the sequence and is yielded with the zero tuple.
func Seq[T any](r Relation[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		it := r.Tuples()
		defer it.Close()
		for it.Next() {
			if !yield(it.Tuple(), nil) {
				return
			}
		}
		if err := it.Err(); err != nil {
			var zero T
			yield(zero, err)
		}
	}
}

// stopError ends an each early without an error
type stopError struct{}

func (stopError) Error() string { return "rel: stop" }

var errStop error = stopError{}

// each calls f on each tuple of r, until the tuples run out or f returns an
// error.  errStop ends the iteration without an error.
func each[T any](r Relation[T], f func(tup T) error) error {
	if err := sourceErr(r, "relation"); err != nil {
		return err
	}
	it := r.Tuples()
	defer it.Close()
	for it.Next() {
		if err := f(it.Tuple()); err != nil {
			if err == errStop {
				return it.Close()
			}
			return err
		}
	}
	return it.Err()
}
