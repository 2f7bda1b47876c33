// groupby implements a group by expression in relational algebra

package rel

// GroupByExpr partitions a relation by a group key, folds the tuples of each
// group into an aggregate, and produces one result per group.  It has to read
// all of its source before it can produce the first result.
type GroupByExpr[T any, K comparable, A, R any] struct {
	head

	source1 Relation[T]

	// grouper computes the group key of a tuple.  If it is nil, all tuples
	// are in one group with the zero key.
	grouper func(tup T) K

	// seed is the aggregate of an empty group
	seed A

	// aggregator folds a tuple into the aggregate of its group.  If it is
	// nil, every group has the seed aggregate.
	aggregator func(tup T, acc A) A

	// selector makes a result out of a group key and its aggregate
	selector func(key K, acc A) R
}

// Group creates a relation with one tuple per group of r1, as determined by
// grouper.  Each group is folded with aggregator starting from seed, and the
// result is made by selector.
//
// With a nil grouper there is exactly one group, even if r1 is empty, and an
// aggregator is required.  An aggregator that returns a nil aggregate stops
// the iteration with a NilResultError.
func Group[T any, K comparable, A, R any](r1 Relation[T], grouper func(tup T) K, seed A, aggregator func(tup T, acc A) A, selector func(key K, acc A) R) Relation[R] {
	r := &GroupByExpr[T, K, A, R]{
		head:       newHead[R](regOf(r1), sourceErr(r1, "source")),
		source1:    r1,
		grouper:    grouper,
		seed:       seed,
		aggregator: aggregator,
		selector:   selector,
	}
	if r.err != nil {
		return r
	}
	switch {
	case selector == nil:
		r.err = &ArgumentError{"selector", "is nil"}
	case grouper == nil && aggregator == nil:
		r.err = &ArgumentError{"aggregator", "is nil without a grouper"}
	}
	return r
}

// group is the aggregate of one group so far
type group[K comparable, A any] struct {
	key K
	acc A
}

// fold reads the source into groups, in the order the groups are first seen
func (r *GroupByExpr[T, K, A, R]) fold() ([]*group[K, A], error) {
	var groups []*group[K, A]
	index := make(map[K]*group[K, A])
	if r.grouper == nil {
		var zero K
		g := &group[K, A]{zero, r.seed}
		groups = append(groups, g)
		index[zero] = g
	}
	err := each(r.source1, func(tup T) error {
		var key K
		if r.grouper != nil {
			key = r.grouper(tup)
		}
		g, ok := index[key]
		if !ok {
			g = &group[K, A]{key, r.seed}
			groups = append(groups, g)
			index[key] = g
		}
		if r.aggregator == nil {
			return nil
		}
		g.acc = r.aggregator(tup, g.acc)
		if isNil(g.acc) {
			return &NilResultError{"group", "aggregator"}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// Tuples produces the results of each group
func (r *GroupByExpr[T, K, A, R]) Tuples() Iterator[R] {
	if r.err != nil {
		return errIter[R](r.err)
	}
	mem := newSet[R](r.head)
	var groups []*group[K, A]
	loaded := false
	return newIter(func() (R, bool, error) {
		var zero R
		if !loaded {
			loaded = true
			var err error
			if groups, err = r.fold(); err != nil {
				return zero, false, err
			}
		}
		for len(groups) > 0 {
			g := groups[0]
			groups = groups[1:]
			if tup := r.selector(g.key, g.acc); mem.Add(tup) {
				return tup, true, nil
			}
		}
		return zero, false, nil
	}, nil)
}

// String returns a text representation of the Relation
func (r *GroupByExpr[T, K, A, R]) String() string {
	return "γ{func}(" + r.source1.String() + ")"
}
