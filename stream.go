// stream implements relations that are read from an external source, like a
// csv file or a database table.

package rel

import (
	"context"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/jonlawlor/relpipe/att"
	"github.com/jonlawlor/relpipe/source"
)

// StreamExpr is a relation whose tuples are read from a source table.  Each
// iteration reads the table again.  Attributes are matched to source fields
// by name, ignoring case and anything that isn't a letter or a digit, so
// "first_name" matches FirstName.  An attribute named like X1st also matches
// a field named "1st", which is how relgen names fields that don't start
// with a letter.
type StreamExpr[T any] struct {
	head

	ctx   context.Context
	table source.Table

	// pos is the position of the source field for each attribute, in
	// heading order
	pos []int
}

// FromSource creates a relation from a table of a source.  Every attribute
// of T needs a field in the table, with a type that can be converted to the
// attribute's type.  Fields without an attribute are ignored.
func FromSource[T any](ctx context.Context, reg *att.Registry, table source.Table) Relation[T] {
	r := &StreamExpr[T]{head: newHead[T](reg), ctx: ctx, table: table}
	if r.err != nil {
		return r
	}
	if ctx == nil {
		r.err = &ArgumentError{"ctx", "is nil"}
		return r
	}
	if table == nil {
		r.err = &ArgumentError{"table", "is nil"}
		return r
	}
	r.pos, r.err = matchFields(r.tt, table)
	return r
}

// fieldKey is the name a field or attribute is matched by
func fieldKey(name string) string {
	return strings.ToLower(strings.Map(func(c rune) rune {
		if unicode.IsLetter(c) || unicode.IsDigit(c) {
			return c
		}
		return -1
	}, name))
}

// unprefixedKey is the key of a name without the X that is put in front of
// identifiers that don't start with an upper case letter.  It is empty when
// the name has no such prefix.
func unprefixedKey(name string) string {
	rest, ok := strings.CutPrefix(name, "X")
	if !ok || rest == "" {
		return ""
	}
	if first := []rune(rest)[0]; unicode.IsUpper(first) {
		return ""
	}
	return fieldKey(rest)
}

func matchFields(tt *att.TupleType, table source.Table) ([]int, error) {
	fields := table.Fields()
	byKey := make(map[string]int, len(fields))
	for i, f := range fields {
		byKey[fieldKey(f.Name)] = i
	}
	hfs := tt.Heading().Fields()
	pos := make([]int, len(hfs))
	for i, af := range hfs {
		j, ok := byKey[fieldKey(string(af.Name))]
		if key := unprefixedKey(string(af.Name)); !ok && key != "" {
			j, ok = byKey[key]
		}
		if !ok {
			return nil, &MissingFieldError{af.Name, table.Name()}
		}
		if !importable(fields[j].Type, af.Type) {
			return nil, &InvalidOperationError{"field " + fields[j].String() + " can't be imported into attribute " + af.String()}
		}
		pos[i] = j
	}
	return pos, nil
}

var (
	bytesType = reflect.TypeOf([]byte(nil))
	timeType  = reflect.TypeOf(time.Time{})
)

// importable reports if values of a source type can be assigned to an
// attribute of type t
func importable(ct source.CommonType, t reflect.Type) bool {
	switch ct {
	case source.None:
		return true
	case source.Binary:
		return t == bytesType || t.Kind() == reflect.String
	case source.Bool:
		return t.Kind() == reflect.Bool
	case source.Integer, source.Double, source.Number:
		return isNumericKind(t.Kind())
	case source.Text:
		return t.Kind() == reflect.String || t == timeType || t.Kind() == reflect.Bool || isNumericKind(t.Kind())
	case source.Time:
		return t == timeType
	}
	return false
}

// isNumericKind is true for the sized and unsized ints, uints and floats
func isNumericKind(k reflect.Kind) bool {
	return reflect.Int <= k && k <= reflect.Float64 && k != reflect.Uintptr
}

// Tuples reads the source table
func (r *StreamExpr[T]) Tuples() Iterator[T] {
	if r.err != nil {
		return errIter[T](r.err)
	}
	mem := newSet[T](r.head)
	var rows source.Rows
	return newIter(func() (T, bool, error) {
		var zero T
		if rows == nil {
			var err error
			if rows, err = r.table.Rows(r.ctx); err != nil {
				return zero, false, &FatalError{err}
			}
		}
		for rows.Next() {
			vals := rows.Values()
			rtup := reflect.New(r.tt.Type()).Elem()
			for i, j := range r.pos {
				if err := r.tt.Set(rtup, i, vals[j]); err != nil {
					return zero, false, &FatalError{err}
				}
			}
			if tup := rtup.Interface().(T); mem.Add(tup) {
				return tup, true, nil
			}
		}
		if err := rows.Err(); err != nil {
			return zero, false, &FatalError{err}
		}
		return zero, false, nil
	}, func() error {
		if rows == nil {
			return nil
		}
		return rows.Close()
	})
}

// String returns a text representation of the Relation
func (r *StreamExpr[T]) String() string {
	name := ""
	if r.table != nil {
		name = r.table.Name()
	}
	return "Source(" + name + ": " + HeadingString[T](r) + ")"
}
