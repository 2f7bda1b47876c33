package rel

import "io"

// funcIter is an Iterator driven by a function that produces the next tuple.
// Relational operators build their iteration state in a closure and hand the
// closure to newIter.
type funcIter[T any] struct {
	next  func() (T, bool, error)
	close func() error

	tup    T
	err    error
	closed bool
	cerr   error
}

// newIter creates an iterator.  next returns the next tuple, false when the
// tuples are exhausted, or an error.  close is called once, when the
// iteration ends for any reason.
func newIter[T any](next func() (T, bool, error), close func() error) Iterator[T] {
	return &funcIter[T]{next: next, close: close}
}

// errIter is an iterator which fails immediately with err
func errIter[T any](err error) Iterator[T] {
	return newIter(func() (T, bool, error) {
		var zero T
		return zero, false, err
	}, nil)
}

func (it *funcIter[T]) Next() bool {
	if it.closed {
		return false
	}
	tup, ok, err := it.next()
	if err != nil || !ok {
		it.err = err
		if cerr := it.Close(); it.err == nil {
			it.err = cerr
		}
		return false
	}
	it.tup = tup
	return true
}

func (it *funcIter[T]) Tuple() T {
	return it.tup
}

func (it *funcIter[T]) Err() error {
	return it.err
}

func (it *funcIter[T]) Close() error {
	if it.closed {
		return it.cerr
	}
	it.closed = true
	var zero T
	it.tup = zero
	if it.close != nil {
		it.cerr = it.close()
	}
	return it.cerr
}

// closeAll closes every non nil closer, and returns the first error.
func closeAll(cs ...io.Closer) error {
	var first error
	for _, c := range cs {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
