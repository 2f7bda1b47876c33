package att

import (
	"math"
	"reflect"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/mitchellh/hashstructure"
)

// EmptyHash is the hash of every tuple with no attributes.  There are only
// two relations with an empty heading: one with no tuples and one with a
// single empty tuple.
const EmptyHash = ^uint64(0)

// Hash returns a weak hash of tup, which must be of this tuple type.  It only
// looks at the first attribute in name order, so collisions are expected and
// have to be resolved with Equal.
func (tt *TupleType) Hash(tup any) uint64 {
	if len(tt.index) == 0 {
		return EmptyHash
	}
	return hashValue(reflect.ValueOf(tup).Field(tt.index[0]).Interface())
}

// Equal compares two tuples of this tuple type attribute by attribute.
func (tt *TupleType) Equal(tup1, tup2 any) bool {
	rtup1 := reflect.ValueOf(tup1)
	rtup2 := reflect.ValueOf(tup2)
	for _, j := range tt.index {
		if !valueEqual(rtup1.Field(j).Interface(), rtup2.Field(j).Interface()) {
			return false
		}
	}
	return true
}

// Equal reports whether two tuples are structurally equal: they have the same
// heading, and the same values in each attribute.  The struct types of the
// tuples do not matter.
func (r *Registry) Equal(tup1, tup2 any) bool {
	tt1, err := r.TypeOf(tup1)
	if err != nil {
		return false
	}
	tt2, err := r.TypeOf(tup2)
	if err != nil {
		return false
	}
	if tt1.Hash(tup1) != tt2.Hash(tup2) {
		return false
	}
	if !tt1.heading.Equals(tt2.heading) {
		return false
	}
	rtup1 := reflect.ValueOf(tup1)
	rtup2 := reflect.ValueOf(tup2)
	for i := range tt1.index {
		if !valueEqual(rtup1.Field(tt1.index[i]).Interface(), rtup2.Field(tt2.index[i]).Interface()) {
			return false
		}
	}
	return true
}

// Hash returns the weak hash of any tuple.
func (r *Registry) Hash(tup any) (uint64, error) {
	tt, err := r.TypeOf(tup)
	if err != nil {
		return 0, err
	}
	return tt.Hash(tup), nil
}

// valueEqual compares attribute values.  Values of types which can't be
// compared with == (like []byte) are compared deeply.  A NaN equals any other
// NaN, and times are equal when they are the same instant, whatever their
// location.
func valueEqual(v1, v2 any) bool {
	if v1 == nil || v2 == nil {
		return v1 == v2
	}
	t := reflect.TypeOf(v1)
	if t != reflect.TypeOf(v2) {
		return false
	}
	switch x := v1.(type) {
	case float64:
		return floatEqual(x, v2.(float64))
	case time.Time:
		return x.Equal(v2.(time.Time))
	}
	switch t.Kind() {
	case reflect.Float32, reflect.Float64:
		return floatEqual(reflect.ValueOf(v1).Float(), reflect.ValueOf(v2).Float())
	}
	if t.Comparable() {
		return v1 == v2
	}
	return reflect.DeepEqual(v1, v2)
}

func floatEqual(f1, f2 float64) bool {
	return f1 == f2 || (math.IsNaN(f1) && math.IsNaN(f2))
}

// hashValue has to agree with valueEqual: equal values hash the same.
func hashValue(v any) uint64 {
	switch x := v.(type) {
	case nil:
		return 0
	case string:
		return xxhash.Sum64String(x)
	case []byte:
		return xxhash.Sum64(x)
	case bool:
		if x {
			return 1
		}
		return 0
	case int:
		return uint64(x)
	case int64:
		return uint64(x)
	case float64:
		return floatHash(x)
	case time.Time:
		return uint64(x.UnixNano())
	}

	// named and sized basic types
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return xxhash.Sum64String(rv.String())
	case reflect.Bool:
		if rv.Bool() {
			return 1
		}
		return 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return uint64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint()
	case reflect.Float32, reflect.Float64:
		return floatHash(rv.Float())
	}
	h, err := hashstructure.Hash(v, nil)
	if err != nil {
		// unhashable values all land in one bucket, and Equal sorts them out
		return 0
	}
	return h
}

// floatHash folds -0 into 0 and every NaN into one hash, to agree with
// floatEqual.
func floatHash(f float64) uint64 {
	switch {
	case f == 0:
		return 0
	case math.IsNaN(f):
		return nanHash
	}
	return math.Float64bits(f)
}

var nanHash = math.Float64bits(math.NaN())

// mixHash combines the hashes of a sequence of values.
func mixHash(h, v uint64) uint64 {
	const prime64 = 1099511628211
	return (h ^ v) * prime64
}
