package att

import (
	"reflect"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

var timeType = reflect.TypeOf(time.Time{})

// Converter copies attribute values from tuples of one type into tuples of
// another.  It is used for projections, renames, and for moving tuples
// between struct types with the same heading.
type Converter struct {
	from *TupleType
	to   *TupleType

	// pairs maps positions in to's heading (I) to positions in from's (J)
	pairs []FieldIndex
}

// NewConverter creates a converter that fills every attribute of to with the
// attribute of the same name in from.  The heading of to has to be a subset
// of the heading of from.
func NewConverter(from, to *TupleType) (*Converter, error) {
	if err := EnsureSubHeading(to, from); err != nil {
		return nil, err
	}
	c := &Converter{from: from, to: to, pairs: make([]FieldIndex, to.Degree())}
	for i, f := range to.heading.fields {
		c.pairs[i] = FieldIndex{i, from.heading.Index(f.Name)}
	}
	return c, nil
}

// NewRenamer creates a converter that matches attributes by their position
// in struct declaration order instead of by name.  Both types need the same
// degree, and the attribute types have to line up.
func NewRenamer(from, to *TupleType) (*Converter, error) {
	if from.Degree() != to.Degree() {
		return nil, &DegreeError{from.Degree(), to.Degree()}
	}
	c := &Converter{from: from, to: to, pairs: make([]FieldIndex, to.Degree())}
	for k := range to.declared {
		i, j := to.declared[k], from.declared[k]
		if to.heading.fields[i].Type != from.heading.fields[j].Type {
			return nil, &HeadingError{from.heading, to.heading}
		}
		c.pairs[k] = FieldIndex{i, j}
	}
	return c, nil
}

// From is the tuple type being converted
func (c *Converter) From() *TupleType {
	return c.from
}

// To is the resulting tuple type
func (c *Converter) To() *TupleType {
	return c.to
}

// Convert produces a new tuple of the target type from tup.
func (c *Converter) Convert(tup any) any {
	rtup := reflect.ValueOf(tup)
	rtup2 := reflect.New(c.to.rtype).Elem()
	c.copyInto(rtup2, rtup)
	return rtup2.Interface()
}

// copyInto sets the attributes of rtup2 (of the target type) from rtup.
func (c *Converter) copyInto(rtup2, rtup reflect.Value) {
	for _, fm := range c.pairs {
		rtup2.Field(c.to.index[fm.I]).Set(rtup.Field(c.from.index[fm.J]))
	}
}

// Combiner builds tuples of a result type from a pair of tuples, taking
// each attribute from the left tuple when it has it, and from the right
// otherwise.  This is the tuple construction of a natural join.
type Combiner struct {
	left  *Converter
	right *Converter
	res   *TupleType
}

// NewCombiner creates a combiner.  Every attribute of res has to be found in
// left or right.
func NewCombiner(left, right, res *TupleType) (*Combiner, error) {
	c := &Combiner{
		left:  &Converter{from: left, to: res},
		right: &Converter{from: right, to: res},
		res:   res,
	}
	var missing []Attribute
	for i, f := range res.heading.fields {
		if j := left.heading.Index(f.Name); j >= 0 && left.heading.fields[j].Type == f.Type {
			c.left.pairs = append(c.left.pairs, FieldIndex{i, j})
		} else if j := right.heading.Index(f.Name); j >= 0 && right.heading.fields[j].Type == f.Type {
			c.right.pairs = append(c.right.pairs, FieldIndex{i, j})
		} else {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		dom := append(left.heading.Names(), right.heading.Names()...)
		return nil, &AttributeSubsetError{dom, missing}
	}
	return c, nil
}

// Combine creates a result tuple out of a left and a right tuple.
func (c *Combiner) Combine(ltup, rtup any) any {
	res := reflect.New(c.res.rtype).Elem()
	c.left.copyInto(res, reflect.ValueOf(ltup))
	c.right.copyInto(res, reflect.ValueOf(rtup))
	return res.Interface()
}

// assign stores v in the settable value f.  Values that are not directly
// assignable are coerced according to the kind of f.
func assign(f reflect.Value, v any) error {
	if v == nil {
		f.Set(reflect.Zero(f.Type()))
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(f.Type()) {
		f.Set(rv)
		return nil
	}
	var err error
	switch f.Kind() {
	case reflect.String:
		var s string
		if s, err = cast.ToStringE(v); err == nil {
			f.SetString(s)
		}
	case reflect.Bool:
		var b bool
		if b, err = cast.ToBoolE(v); err == nil {
			f.SetBool(b)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var n int64
		if n, err = cast.ToInt64E(v); err == nil {
			if f.OverflowInt(n) {
				return &AssignError{f.Type(), rv.Type()}
			}
			f.SetInt(n)
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		var n uint64
		if n, err = cast.ToUint64E(v); err == nil {
			if f.OverflowUint(n) {
				return &AssignError{f.Type(), rv.Type()}
			}
			f.SetUint(n)
		}
	case reflect.Float32, reflect.Float64:
		var x float64
		if x, err = cast.ToFloat64E(v); err == nil {
			f.SetFloat(x)
		}
	default:
		switch {
		case f.Type() == timeType:
			var t time.Time
			if t, err = cast.ToTimeE(v); err == nil {
				f.Set(reflect.ValueOf(t))
			}
		case rv.Type().ConvertibleTo(f.Type()):
			f.Set(rv.Convert(f.Type()))
		default:
			return &AssignError{f.Type(), rv.Type()}
		}
	}
	if err != nil {
		return errors.Wrap(&AssignError{f.Type(), rv.Type()}, err.Error())
	}
	return nil
}
