// update implements the changes that can be made to a store.  An update is
// described first, and only changes the store when it is stored.

package rel

// Storer is a pending change to a store
type Storer interface {
	// Store applies the change.  Each tuple is added or deleted on its own,
	// so if Store fails part way through, the changes made before the
	// failure remain.
	Store() error
}

type storeFunc func() error

func (f storeFunc) Store() error { return f() }

// Insert adds the tuples of r to s.  Tuples that are already in s are
// ignored.  r is read in full before s is changed, so it can be derived
// from s.
func Insert[T any](s *Store[T], r Relation[T]) Storer {
	return storeFunc(func() error {
		if s == nil {
			return &ArgumentError{"store", "is nil"}
		}
		tups, err := Slice(r)
		if err != nil {
			return err
		}
		for _, tup := range tups {
			s.Add(tup)
		}
		return nil
	})
}

// DeleteFrom removes the tuples of r from s.  Tuples that are not in s are
// ignored.
func DeleteFrom[T any](s *Store[T], r Relation[T]) Storer {
	return storeFunc(func() error {
		if s == nil {
			return &ArgumentError{"store", "is nil"}
		}
		tups, err := Slice(r)
		if err != nil {
			return err
		}
		for _, tup := range tups {
			s.Delete(tup)
		}
		return nil
	})
}

// DeleteWhere removes the tuples of s which satisfy p.
func DeleteWhere[T any](s *Store[T], p func(tup T) bool) Storer {
	return storeFunc(func() error {
		if s == nil {
			return &ArgumentError{"store", "is nil"}
		}
		if p == nil {
			return &ArgumentError{"predicate", "is nil"}
		}
		// the store's iterator steps back over a deleted tuple, so every
		// tuple is visited once
		return each[T](s, func(tup T) error {
			if p(tup) {
				s.Delete(tup)
			}
			return nil
		})
	})
}

// Update replaces each tuple of s which satisfies p with fcn of that tuple.
// The tuples to replace are found before any are replaced, so a replacement
// is never itself replaced, even if it satisfies p.
func Update[T any](s *Store[T], p func(tup T) bool, fcn func(tup T) T) Storer {
	return storeFunc(func() error {
		switch {
		case s == nil:
			return &ArgumentError{"store", "is nil"}
		case p == nil:
			return &ArgumentError{"predicate", "is nil"}
		case fcn == nil:
			return &ArgumentError{"update", "is nil"}
		}
		tups, err := Slice(Where[T](s, p))
		if err != nil {
			return err
		}
		for _, tup := range tups {
			s.Replace(tup, fcn(tup))
		}
		return nil
	})
}
