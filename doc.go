// Package rel implements relational algebra, a set of operations on
// sets of tuples which result in relations, as defined by E. F. Codd.
//
// # Basics
//
// What follows is a brief introduction to relational algebra.  For a more
// complete introduction, please read C. J. Date's book "Database in Depth".
// This package uses the same terminology.
//
// Relations are sets of named tuples with identical attributes.  The primitive
// operations which define the relational algebra are:
//
// Union, which adds two sets together.
//
// Difference, which removes all elements from one set which exist in another.
// This package calls it Minus, and uses Difference for the symmetric
// difference.
//
// Restrict, which removes values from a relation that do not satisfy a
// particular predicate.  See Where and Restrict.
//
// Project, which removes zero or more attributes from the tuples the relation
// is defined on.  See Project and Select.
//
// Rename, which changes the names of the attributes in a relation.
//
// Join, which can multiply two relations together (which may have different
// types of tuples) by returning all combinations of tuples in the two
// relations where all attributes in one relation are equal to the attributes
// in the other where the names are the same.  This is sometimes called a
// natural join.
//
// # Tuples
//
// This package represents tuples as structs with no anonymous fields.  The
// exported fields of the struct are the attributes of the tuple it
// represents, and fields tagged `rel:"-"` are ignored.  Two struct types with
// the same attribute names and types are the same kind of tuple: their
// tuples compare equal when their values are equal.  The tuple types are
// derived by an att.Registry, which every relation carries.
//
// # Relations
//
// Relations are lazy.  A relation describes how to produce its tuples, and
// produces them again every time Tuples is called.  Literal relations come
// from a slice (New), an iterator (FromSeq), a generating function
// (Sequence), or a table of a source package reader (FromSource).  A Store is
// the only relation that can change, through Insert, DeleteFrom, DeleteWhere
// and Update.
//
// Relational expressions are built by top level functions like Where, Select,
// Join and Group, which take their inputs as arguments because methods can't
// have type parameters.  Errors found while building an expression, like a
// nil argument or attributes that don't line up, are kept in the expression
// and reported by Err, and by the Err of any iterator over it.
//
// Some expressions have to read all of one of their inputs before they can
// produce a tuple: Join and the semijoins read the right relation, Minus and
// Intersect read the right relation, Difference reads the left relation, and
// OrderBy, Group and While read everything.
package rel
