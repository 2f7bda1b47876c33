// predicate defines logical predicates used in relation's restrict

package att

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

// Predicate is a boolean function of some of the attributes of a tuple.  It
// is bound to a tuple type with EvalFunc before it is used, and binding
// fails if the predicate's domain is not a subset of the tuple type's
// heading.
type Predicate interface {
	// EvalFunc returns a function which evaluates the predicate on tuples of
	// type tt
	EvalFunc(tt *TupleType) (func(tup any) bool, error)

	// Domain is the set of attributes required to evaluate the predicate
	Domain() []Attribute

	String() string

	// infix boolean expressions
	And(p2 Predicate) AndPred
	Or(p2 Predicate) OrPred
	Xor(p2 Predicate) XorPred
}

// unionAttributes produces a union of two sets of attributes, without dups
// assuming that the input attributes are already unique. This returns a copy
// and does not modify the inputs.
func unionAttributes(att1 []Attribute, att2 []Attribute) []Attribute {
	// For small sets of attributes (which should be typical!) this should be
	// faster than a map.
	att := make([]Attribute, len(att1))
	copy(att, att1)
Found:
	for _, v2 := range att2 {
		for _, v1 := range att1 {
			if v1 == v2 {
				continue Found
			}
		}
		att = append(att, v2)
	}
	return att
}

// Not predicate
func Not(p Predicate) NotPred {
	// Prefix not is a lot more comprehensible than postfix!  To that end, it
	// is not a part of the interface because that would require postfix.
	return NotPred{p}
}

// NotPred represents a logical not of a predicate
type NotPred struct {
	P Predicate
}

// String representation of Not
func (p NotPred) String() string {
	return fmt.Sprintf("!(%v)", p.P)
}

// Domain is the type of input that is required to evaluate the predicate
func (p NotPred) Domain() []Attribute {
	return p.P.Domain()
}

// EvalFunc binds the predicate to a tuple type
func (p NotPred) EvalFunc(tt *TupleType) (func(tup any) bool, error) {
	f, err := p.P.EvalFunc(tt)
	if err != nil {
		return nil, err
	}
	return func(tup any) bool { return !f(tup) }, nil
}

// And predicate
func (p NotPred) And(p2 Predicate) AndPred { return AndPred{p, p2} }

// Or predicate
func (p NotPred) Or(p2 Predicate) OrPred { return OrPred{p, p2} }

// Xor predicate
func (p NotPred) Xor(p2 Predicate) XorPred { return XorPred{p, p2} }

// AndPred represents a logical and predicate
type AndPred struct {
	P1 Predicate
	P2 Predicate
}

// String representation of And
func (p AndPred) String() string {
	return fmt.Sprintf("(%v) && (%v)", p.P1, p.P2)
}

// Domain is the type of input that is required to evaluate the predicate
func (p AndPred) Domain() []Attribute {
	return unionAttributes(p.P1.Domain(), p.P2.Domain())
}

// EvalFunc binds the predicate to a tuple type
func (p AndPred) EvalFunc(tt *TupleType) (func(tup any) bool, error) {
	f1, f2, err := bindBoth(tt, p.P1, p.P2)
	if err != nil {
		return nil, err
	}
	return func(tup any) bool { return f1(tup) && f2(tup) }, nil
}

// And predicate
func (p AndPred) And(p2 Predicate) AndPred { return AndPred{p, p2} }

// Or predicate
func (p AndPred) Or(p2 Predicate) OrPred { return OrPred{p, p2} }

// Xor predicate
func (p AndPred) Xor(p2 Predicate) XorPred { return XorPred{p, p2} }

// OrPred represents a logical or predicate
type OrPred struct {
	P1 Predicate
	P2 Predicate
}

// String representation of Or
func (p OrPred) String() string {
	return fmt.Sprintf("(%v) || (%v)", p.P1, p.P2)
}

// Domain is the type of input that is required to evaluate the predicate
func (p OrPred) Domain() []Attribute {
	return unionAttributes(p.P1.Domain(), p.P2.Domain())
}

// EvalFunc binds the predicate to a tuple type
func (p OrPred) EvalFunc(tt *TupleType) (func(tup any) bool, error) {
	f1, f2, err := bindBoth(tt, p.P1, p.P2)
	if err != nil {
		return nil, err
	}
	return func(tup any) bool { return f1(tup) || f2(tup) }, nil
}

// And predicate
func (p OrPred) And(p2 Predicate) AndPred { return AndPred{p, p2} }

// Or predicate
func (p OrPred) Or(p2 Predicate) OrPred { return OrPred{p, p2} }

// Xor predicate
func (p OrPred) Xor(p2 Predicate) XorPred { return XorPred{p, p2} }

// XorPred represents a logical xor predicate
type XorPred struct {
	P1 Predicate
	P2 Predicate
}

// String representation of Xor
func (p XorPred) String() string {
	return fmt.Sprintf("(%v) != (%v)", p.P1, p.P2)
}

// Domain is the type of input that is required to evaluate the predicate
func (p XorPred) Domain() []Attribute {
	return unionAttributes(p.P1.Domain(), p.P2.Domain())
}

// EvalFunc binds the predicate to a tuple type
func (p XorPred) EvalFunc(tt *TupleType) (func(tup any) bool, error) {
	f1, f2, err := bindBoth(tt, p.P1, p.P2)
	if err != nil {
		return nil, err
	}
	return func(tup any) bool { return f1(tup) != f2(tup) }, nil
}

// And predicate
func (p XorPred) And(p2 Predicate) AndPred { return AndPred{p, p2} }

// Or predicate
func (p XorPred) Or(p2 Predicate) OrPred { return OrPred{p, p2} }

// Xor predicate
func (p XorPred) Xor(p2 Predicate) XorPred { return XorPred{p, p2} }

func bindBoth(tt *TupleType, p1, p2 Predicate) (f1, f2 func(any) bool, err error) {
	if f1, err = p1.EvalFunc(tt); err != nil {
		return nil, nil, err
	}
	if f2, err = p2.EvalFunc(tt); err != nil {
		return nil, nil, err
	}
	return f1, f2, nil
}

// AdHoc is a Predicate that can implement any function on a tuple.  F has to
// be a func with one struct input and one bool output, and the input's
// attributes have to be a subset of the attributes of the tuples it is
// evaluated on.
// I expect that this will typically be constructed with anonymous functions.
type AdHoc struct {
	F any
}

// String representation of AdHoc
func (p AdHoc) String() string {
	dom := p.Domain()
	s := make([]string, len(dom))
	for i, v := range dom {
		s[i] = string(v)
	}
	return fmt.Sprintf("func({%s})", strings.Join(s, ", "))
}

// Domain is the type of input that is required to evaluate the predicate
func (p AdHoc) Domain() []Attribute {
	in, err := p.input()
	if err != nil {
		return nil
	}
	fields, _, err := structFields(in)
	if err != nil {
		return nil
	}
	dom := make([]Attribute, len(fields))
	for i, f := range fields {
		dom[i] = f.Name
	}
	return dom
}

func (p AdHoc) input() (reflect.Type, error) {
	ft := reflect.TypeOf(p.F)
	if ft == nil || ft.Kind() != reflect.Func {
		return nil, &KindError{reflect.Func, reflectKind(ft)}
	}
	if ft.NumIn() != 1 || ft.NumOut() != 1 || ft.Out(0).Kind() != reflect.Bool {
		return nil, errors.Errorf("rel: expected func(tuple) bool, found %v", ft)
	}
	return ft.In(0), nil
}

func reflectKind(t reflect.Type) reflect.Kind {
	if t == nil {
		return reflect.Invalid
	}
	return t.Kind()
}

// EvalFunc binds the predicate to a tuple type
func (p AdHoc) EvalFunc(tt *TupleType) (func(tup any) bool, error) {
	in, err := p.input()
	if err != nil {
		return nil, err
	}
	itt, err := tt.reg.TupleType(in)
	if err != nil {
		return nil, err
	}
	if err := EnsureSubDomain(itt.heading.Names(), tt.heading.Names()); err != nil {
		return nil, err
	}
	c, err := NewConverter(tt, itt)
	if err != nil {
		return nil, err
	}
	pf := reflect.ValueOf(p.F)
	return func(tup any) bool {
		parm := []reflect.Value{reflect.ValueOf(c.Convert(tup))}
		return pf.Call(parm)[0].Bool()
	}, nil
}

// And predicate
func (p AdHoc) And(p2 Predicate) AndPred { return AndPred{p, p2} }

// Or predicate
func (p AdHoc) Or(p2 Predicate) OrPred { return OrPred{p, p2} }

// Xor predicate
func (p AdHoc) Xor(p2 Predicate) XorPred { return XorPred{p, p2} }

// Normal go style does not include abbreviations or all caps.  However, in
// this case I believe the shortness of the function name is paramount.  I've
// chosen the MIPS assembly condition names as a guide for the names of the
// comparisons.
//
// The v param is an interface because it might be a literal, or another
// attribute.

type compOp int

const (
	opEQ compOp = iota
	opNE
	opLT
	opLE
	opGT
	opGE
)

var opSymbols = [...]string{"==", "!=", "<", "<=", ">", ">="}

// CompPred compares an attribute with another attribute or with a literal.
type CompPred struct {
	op  compOp
	att []Attribute
	lit any
}

func newComp(op compOp, att1 Attribute, v any) CompPred {
	if att2, ok := v.(Attribute); ok {
		return CompPred{op, []Attribute{att1, att2}, nil}
	}
	return CompPred{op, []Attribute{att1}, v}
}

// EQ is equal to (==)
func (att1 Attribute) EQ(v any) CompPred { return newComp(opEQ, att1, v) }

// NE is not equal to (!=)
func (att1 Attribute) NE(v any) CompPred { return newComp(opNE, att1, v) }

// LT is less than (<)
func (att1 Attribute) LT(v any) CompPred { return newComp(opLT, att1, v) }

// LE is less than or equal to (<=)
func (att1 Attribute) LE(v any) CompPred { return newComp(opLE, att1, v) }

// GT is greater than (>)
func (att1 Attribute) GT(v any) CompPred { return newComp(opGT, att1, v) }

// GE is greater than or equal to (>=)
func (att1 Attribute) GE(v any) CompPred { return newComp(opGE, att1, v) }

// String representation of the comparison
func (p CompPred) String() string {
	if len(p.att) == 2 {
		return fmt.Sprintf("%v %s %v", p.att[0], opSymbols[p.op], p.att[1])
	}
	return fmt.Sprintf("%v %s %v", p.att[0], opSymbols[p.op], p.lit)
}

// Domain is the type of input that is required to evaluate the predicate
func (p CompPred) Domain() []Attribute {
	return p.att
}

// EvalFunc binds the predicate to a tuple type.  A literal that can't be
// ordered against the attribute as it is (like a string compared with a
// time) is converted to the attribute's type when that is possible.
func (p CompPred) EvalFunc(tt *TupleType) (func(tup any) bool, error) {
	if err := EnsureSubDomain(p.att, tt.heading.Names()); err != nil {
		return nil, err
	}
	i := tt.index[tt.heading.Index(p.att[0])]
	var right func(rtup reflect.Value) any
	if len(p.att) == 2 {
		j := tt.index[tt.heading.Index(p.att[1])]
		right = func(rtup reflect.Value) any { return rtup.Field(j).Interface() }
	} else {
		lit := p.lit
		cv := reflect.New(tt.rtype.Field(i).Type).Elem()
		if _, ok := compareValues(cv.Interface(), lit); !ok && assign(cv, lit) == nil {
			lit = cv.Interface()
		}
		right = func(reflect.Value) any { return lit }
	}
	op := p.op
	return func(tup any) bool {
		rtup := reflect.ValueOf(tup)
		a, b := rtup.Field(i).Interface(), right(rtup)
		if op == opEQ || op == opNE {
			eq := valueEqual(a, b)
			if !eq {
				if c, ok := compareValues(a, b); ok {
					eq = c == 0
				}
			}
			return eq == (op == opEQ)
		}
		c, ok := compareValues(a, b)
		if !ok {
			return false
		}
		switch op {
		case opLT:
			return c < 0
		case opLE:
			return c <= 0
		case opGT:
			return c > 0
		default:
			return c >= 0
		}
	}, nil
}

// And predicate
func (p CompPred) And(p2 Predicate) AndPred { return AndPred{p, p2} }

// Or predicate
func (p CompPred) Or(p2 Predicate) OrPred { return OrPred{p, p2} }

// Xor predicate
func (p CompPred) Xor(p2 Predicate) XorPred { return XorPred{p, p2} }

// compareValues orders two attribute values.  Strings compare lexically,
// times chronologically, false sorts before true, and numbers of any kind
// compare numerically.  ok is false when the values can't be ordered.
func compareValues(a, b any) (c int, ok bool) {
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y), true
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y), true
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0, true
			case !x:
				return -1, true
			}
			return 1, true
		}
	}

	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch {
	case isInt(ra) && isInt(rb):
		return cmp3(ra.Int(), rb.Int()), true
	case isUint(ra) && isUint(rb):
		return cmp3(ra.Uint(), rb.Uint()), true
	case isNumber(ra) && isNumber(rb):
		fa, err := cast.ToFloat64E(a)
		if err != nil {
			fa = numberFloat(ra)
		}
		fb, err := cast.ToFloat64E(b)
		if err != nil {
			fb = numberFloat(rb)
		}
		return cmp3(fa, fb), true
	case ra.Kind() == reflect.String && rb.Kind() == reflect.String:
		return strings.Compare(ra.String(), rb.String()), true
	}
	return 0, false
}

func cmp3[N int64 | uint64 | float64](a, b N) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func isInt(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUint(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func isNumber(v reflect.Value) bool {
	return isInt(v) || isUint(v) || v.Kind() == reflect.Float32 || v.Kind() == reflect.Float64
}

// numberFloat handles named numeric types, which cast does not know about.
func numberFloat(v reflect.Value) float64 {
	switch {
	case isInt(v):
		return float64(v.Int())
	case isUint(v):
		return float64(v.Uint())
	}
	return v.Float()
}
