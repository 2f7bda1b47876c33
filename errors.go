// errors are the failures of relational operations that can't be caught by
// the compiler: missing arguments, callbacks with missing results, and
// attributes that don't line up.

package rel

import (
	"fmt"
	"reflect"

	"github.com/jonlawlor/relpipe/att"
)

// ArgumentError represents an error that occurs when a required argument to
// a relational operation is nil or invalid.
type ArgumentError struct {
	Arg string
	Msg string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("rel: argument %s %s", e.Arg, e.Msg)
}

// NilResultError represents an error that occurs when a function given to a
// relational operation returns nil where a value is needed.
type NilResultError struct {
	Op   string
	Func string
}

func (e *NilResultError) Error() string {
	return fmt.Sprintf("rel: %s %s returned a nil result", e.Op, e.Func)
}

// MissingFieldError represents an error that occurs when a tuple attribute
// can't be found in the fields of an external source.
type MissingFieldError struct {
	Name   att.Attribute
	Source string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("rel: expected field %s, not found in source %s", e.Name, e.Source)
}

// InvalidOperationError represents an error that occurs when an operation
// can't be performed on its inputs, like importing a source field into an
// attribute of an incompatible type.
type InvalidOperationError struct {
	Msg string
}

func (e *InvalidOperationError) Error() string {
	return "rel: invalid operation: " + e.Msg
}

// AssertionError represents a broken invariant inside the package.  It
// indicates a bug in rel, not in the caller.
type AssertionError struct {
	Msg string
}

func (e *AssertionError) Error() string {
	return "Assertion failure: " + e.Msg
}

// FatalError represents a failure of an external source that ends the
// current evaluation.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return "Fatal error: " + e.Err.Error()
}

// Cause returns the underlying source error, so errors.Cause can unwrap it.
func (e *FatalError) Cause() error {
	return e.Err
}

// Unwrap returns the underlying source error
func (e *FatalError) Unwrap() error {
	return e.Err
}

// isNil is true for nil values of the kinds that can be nil
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return rv.IsNil()
	}
	return false
}
