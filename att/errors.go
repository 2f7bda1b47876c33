// errors are a set of types useful for shape checks, given the absence
// of static type checking due to reflection.

package att

import (
	"fmt"
	"reflect"
)

// I've tried to reproduce go's type error strings here, because these errors
// act as a (poor) replacement for static type checking.

// KindError represents an error that occurs when a tuple is not a struct.
type KindError struct {
	Expected reflect.Kind
	Found    reflect.Kind
}

func (e *KindError) Error() string {
	return "rel: expected tuple kind '" + e.Expected.String() + "', found '" + e.Found.String() + "'"
}

// EmbeddedFieldError represents an error that occurs when a tuple struct has
// an anonymous field, which has no attribute name of its own.
type EmbeddedFieldError struct {
	Type  reflect.Type
	Field string
}

func (e *EmbeddedFieldError) Error() string {
	return fmt.Sprintf("rel: embedded field %s not allowed in tuple '%v'", e.Field, e.Type)
}

// DuplicateAttributeError represents an error that occurs when a heading is
// given the same attribute twice.
type DuplicateAttributeError struct {
	Name Attribute
}

func (e *DuplicateAttributeError) Error() string {
	return fmt.Sprintf("rel: duplicate attribute %s", e.Name)
}

// domainError represents an error that occurs when the attributes of a
// tuple are not the ones that were expected
type domainError struct {
	Expected []Attribute
	Found    []Attribute
}

// AttributeSubsetError represents an error that occurs when a tuple or a
// predicate refers to attributes that are not a subset of an expected set.
type AttributeSubsetError domainError

func (e *AttributeSubsetError) Error() string {
	return fmt.Sprintf("rel: expected attributes to be a subset of %v, found %v", e.Expected, e.Found)
}

// EnsureSubDomain returns an error if the input sub is not a subdomain of
// input dom.
func EnsureSubDomain(sub, dom []Attribute) error {
	if IsSubDomain(sub, dom) {
		return nil
	}
	// figure out the attributes that are in sub that are not in dom
	invalid := make([]Attribute, 0)
SubLoop:
	for _, n1 := range sub {
		for _, n2 := range dom {
			if n1 == n2 {
				continue SubLoop
			}
		}
		invalid = append(invalid, n1)
	}
	return &AttributeSubsetError{dom, invalid}
}

// HeadingError represents an error that occurs when two tuple types were
// expected to have the same (or a contained) heading.
type HeadingError struct {
	Expected *Heading
	Found    *Heading
}

func (e *HeadingError) Error() string {
	return fmt.Sprintf("rel: mismatched headings found: %v, and %v", e.Expected, e.Found)
}

// EnsureSameHeading returns an error if the tuple types have different headings.
func EnsureSameHeading(tt1, tt2 *TupleType) error {
	if tt1.Equals(tt2) {
		return nil
	}
	return &HeadingError{tt1.Heading(), tt2.Heading()}
}

// EnsureSubHeading returns an error if sub has an attribute that is not in
// dom, or has one with a different type.
func EnsureSubHeading(sub, dom *TupleType) error {
	if sub.Heading().IsSubset(dom.Heading()) {
		return nil
	}
	return &HeadingError{dom.Heading(), sub.Heading()}
}

// DegreeError represents an error that occurs when the input tuples to a
// relational operation do not have the same degree as expected.
type DegreeError struct {
	Expected int
	Found    int
}

func (e *DegreeError) Error() string {
	return fmt.Sprintf("rel: expected degree %d, found %d", e.Expected, e.Found)
}

// AssignError represents an error that occurs when a value can not be
// stored in an attribute of a tuple.
type AssignError struct {
	Expected reflect.Type
	Found    reflect.Type
}

func (e *AssignError) Error() string {
	return fmt.Sprintf("rel: cannot assign '%v' to '%v'", e.Found, e.Expected)
}
