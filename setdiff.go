// setdiff implements the set difference expressions in relational algebra

package rel

// Minus creates a new relation with the tuples of r1 that are not in r2.
func Minus[T any](r1, r2 Relation[T]) Relation[T] {
	return setExpr(r1, r2, opMinus)
}

// Intersect creates a new relation with the tuples of r1 that are also in
// r2.
func Intersect[T any](r1, r2 Relation[T]) Relation[T] {
	return setExpr(r1, r2, opIntersect)
}

// Difference creates a new relation with the tuples that are in exactly one
// of r1 and r2, which is the symmetric difference.
func Difference[T any](r1, r2 Relation[T]) Relation[T] {
	return setExpr(r1, r2, opDifference)
}
