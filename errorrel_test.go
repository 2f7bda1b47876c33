package rel

import (
	"errors"
	"fmt"
	"testing"
)

var errTesting = errors.New("testing error")

// errorRel is a relation for error testing only.  It produces card copies of
// its zero tuple, and then fails.  It counts how many of its iterations
// have been closed.
type errorRel[T any] struct {
	head

	card   int
	opened int
	closed int
}

func newErrorRel[T any](card int) *errorRel[T] {
	return &errorRel[T]{head: newHead[T](testReg), card: card}
}

// Tuples produces the zero tuple card times, and then an error.  The
// tuples won't be distinct.
func (r *errorRel[T]) Tuples() Iterator[T] {
	r.opened++
	i := 0
	return newIter(func() (T, bool, error) {
		var zero T
		if i < r.card {
			i++
			return zero, true, nil
		}
		return zero, false, errTesting
	}, func() error {
		r.closed++
		return nil
	})
}

// String returns a text representation of the Relation
func (r *errorRel[T]) String() string {
	return "error{" + HeadingString[T](r) + "}"
}

func TestErrorRel(t *testing.T) {
	type valTup struct {
		Foo int
	}
	type fooBar struct {
		Foo int
		Bar string
	}
	src := func() *errorRel[exTup2] { return newErrorRel[exTup2](1) }
	good := mustNew(exampleRel2(3))

	fix := []struct {
		name string
		r    func(e Relation[exTup2]) Relation[any]
	}{
		{"where", func(e Relation[exTup2]) Relation[any] {
			return asAny(Where(e, func(exTup2) bool { return true }))
		}},
		{"project", func(e Relation[exTup2]) Relation[any] { return asAny(Project[valTup](e)) }},
		{"rename", func(e Relation[exTup2]) Relation[any] { return asAny(Rename[fooBar](e)) }},
		{"select", func(e Relation[exTup2]) Relation[any] {
			return asAny(Select(e, func(tup exTup2) valTup { return valTup{tup.Foo} }))
		}},
		{"union left", func(e Relation[exTup2]) Relation[any] { return asAny(Union(e, good)) }},
		{"union right", func(e Relation[exTup2]) Relation[any] { return asAny(Union(good, e)) }},
		{"minus", func(e Relation[exTup2]) Relation[any] { return asAny(Minus(good, e)) }},
		{"intersect", func(e Relation[exTup2]) Relation[any] { return asAny(Intersect(e, good)) }},
		{"difference", func(e Relation[exTup2]) Relation[any] { return asAny(Difference(e, good)) }},
		{"join", func(e Relation[exTup2]) Relation[any] { return asAny(NaturalJoin[exTup2](good, e)) }},
		{"semijoin", func(e Relation[exTup2]) Relation[any] { return asAny(Semijoin(good, e)) }},
		{"antijoin", func(e Relation[exTup2]) Relation[any] { return asAny(Antijoin(e, good)) }},
		{"group", func(e Relation[exTup2]) Relation[any] {
			return asAny(Group(e, nil, 0, func(tup exTup2, acc int) int { return acc + 1 },
				func(_ struct{}, n int) valTup { return valTup{n} }))
		}},
		{"order", func(e Relation[exTup2]) Relation[any] {
			return asAny(OrderBy(e, func(a, b exTup2) bool { return a.Foo < b.Foo }))
		}},
		{"take", func(e Relation[exTup2]) Relation[any] { return asAny(Take(e, 5)) }},
		{"while", func(e Relation[exTup2]) Relation[any] {
			return asAny(While(e, func(exTup2) Relation[exTup2] { return nil }))
		}},
	}
	for i, tt := range fix {
		e := src()
		_, err := Card(tt.r(e))
		if !errors.Is(err, errTesting) {
			t.Errorf("%d. %s => %v, want %v", i, tt.name, err, errTesting)
		}
		if e.opened != e.closed {
			t.Errorf("%d. %s => opened %d iterations, closed %d", i, tt.name, e.opened, e.closed)
		}
	}
}

func TestErrorRelEval(t *testing.T) {
	e := newErrorRel[exTup2](3)
	fix := []struct {
		name string
		f    func() error
	}{
		{"slice", func() error { _, err := Slice[exTup2](e); return err }},
		{"all", func() error { _, err := All[exTup2](e, func(exTup2) bool { return true }); return err }},
		{"is equal", func() error { _, err := IsEqual[exTup2, exTup2](e, e); return err }},
		{"go string", func() error { _, err := GoString[exTup2](e); return err }},
		{"store", func() error { _, err := NewStoreFrom[exTup2](e); return err }},
	}
	for i, tt := range fix {
		if err := tt.f(); !errors.Is(err, errTesting) {
			t.Errorf("%d. %s => %v, want %v", i, tt.name, err, errTesting)
		}
	}
	if e.opened != e.closed {
		t.Errorf("opened %d iterations, closed %d", e.opened, e.closed)
	}
}

func TestEarlyClose(t *testing.T) {
	// stopping an evaluation early closes every source
	e := newErrorRel[exTup2](1)
	ok, err := Exists(Union(e, mustNew(exampleRel2(3))))
	if err != nil || !ok {
		t.Errorf("Exists => %t, %v", ok, err)
	}
	if e.opened != 1 || e.closed != 1 {
		t.Errorf("opened %d iterations, closed %d, want 1 and 1", e.opened, e.closed)
	}
}

// asAny hides the tuple type of a relation, so relations of different types
// can be put in a table.
func asAny[T any](r Relation[T]) Relation[any] {
	return anyRel[T]{r}
}

type anyRel[T any] struct {
	Relation[T]
}

func (r anyRel[T]) Tuples() Iterator[any] {
	it := r.Relation.Tuples()
	return newIter(func() (any, bool, error) {
		if it.Next() {
			return it.Tuple(), true, nil
		}
		return nil, false, it.Err()
	}, it.Close)
}

func (r anyRel[T]) String() string {
	return fmt.Sprint(r.Relation)
}
