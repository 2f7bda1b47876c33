// Package att represents attributes, and the headings and tuple types
// constructed from attributes.  It also contains the structural equality,
// hashing, join key matching and predicates that relations are built on.
//
// A tuple is a struct value.  Its exported fields are its attributes, and its
// heading is the set of (name, type) pairs ordered by name.  Two tuples of
// different struct types with the same heading are structurally the same
// kind of tuple, and compare equal when their attribute values are equal.
package att

import (
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Attribute represents a particular attribute's name in a relation
type Attribute string

// Field is a named, typed attribute in a heading
type Field struct {
	Name Attribute
	Type reflect.Type
}

// String returns "Name type"
func (f Field) String() string {
	if f.Type == nil {
		return string(f.Name) + " <nil>"
	}
	return string(f.Name) + " " + f.Type.String()
}

// FieldIndex is used to map between attributes in different headings
// that have the same name
type FieldIndex struct {
	I int
	J int
}

// Heading is the set of fields of a tuple, ordered by name.  Headings handed
// out by a Registry are interned, so equal headings are the same pointer.
type Heading struct {
	fields []Field
	key    string
}

func newHeading(fields []Field) *Heading {
	fs := make([]Field, len(fields))
	copy(fs, fields)
	sort.SliceStable(fs, func(i, j int) bool { return nameLess(fs[i].Name, fs[j].Name) })
	return &Heading{fs, headingKey(fs)}
}

// nameLess orders attributes ignoring case, with byte order breaking ties
// between names that only differ in case.
func nameLess(a, b Attribute) bool {
	return compareNames(a, b) < 0
}

func compareNames(a, b Attribute) int {
	if c := strings.Compare(strings.ToLower(string(a)), strings.ToLower(string(b))); c != 0 {
		return c
	}
	return strings.Compare(string(a), string(b))
}

func headingKey(fs []Field) string {
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = f.String()
	}
	return strings.Join(parts, ",")
}

// Fields returns a copy of the fields in name order
func (h *Heading) Fields() []Field {
	fs := make([]Field, len(h.fields))
	copy(fs, h.fields)
	return fs
}

// Field returns the i'th field in name order
func (h *Heading) Field(i int) Field {
	return h.fields[i]
}

// Names returns the attribute names in order
func (h *Heading) Names() []Attribute {
	names := make([]Attribute, len(h.fields))
	for i, f := range h.fields {
		names[i] = f.Name
	}
	return names
}

// Degree is the number of attributes in the heading
func (h *Heading) Degree() int {
	return len(h.fields)
}

// Index returns the position of the named attribute, or -1 if it is absent.
func (h *Heading) Index(name Attribute) int {
	i := sort.Search(len(h.fields), func(i int) bool { return compareNames(h.fields[i].Name, name) >= 0 })
	if i < len(h.fields) && h.fields[i].Name == name {
		return i
	}
	return -1
}

// Equals is true when both headings have the same names and types.
func (h *Heading) Equals(h2 *Heading) bool {
	if h == h2 {
		return true
	}
	if h == nil || h2 == nil {
		return false
	}
	return sameFields(h.fields, h2.fields)
}

// IsSubset is true when every field of h is also a field of h2, with the
// same type.
func (h *Heading) IsSubset(h2 *Heading) bool {
	for _, f := range h.fields {
		j := h2.Index(f.Name)
		if j < 0 || h2.fields[j].Type != f.Type {
			return false
		}
	}
	return true
}

// String returns a text representation of the heading, like {A1 int, A2 string}
func (h *Heading) String() string {
	parts := make([]string, len(h.fields))
	for i, f := range h.fields {
		parts[i] = f.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func sameFields(fs1, fs2 []Field) bool {
	if len(fs1) != len(fs2) {
		return false
	}
	for i := range fs1 {
		if fs1[i].Name != fs2[i].Name || fs1[i].Type != fs2[i].Type {
			return false
		}
	}
	return true
}

// TupleType describes one concrete tuple struct: its interned heading, and
// where each attribute of the heading lives in the struct.
type TupleType struct {
	reg     *Registry
	rtype   reflect.Type
	heading *Heading

	// index holds the struct field index of each heading position
	index []int

	// declared holds heading positions in struct declaration order
	declared []int
}

// Registry is the registry the tuple type was derived in
func (tt *TupleType) Registry() *Registry {
	return tt.reg
}

// Type is the struct type of the tuples
func (tt *TupleType) Type() reflect.Type {
	return tt.rtype
}

// Heading is the interned heading of the tuple type
func (tt *TupleType) Heading() *Heading {
	return tt.heading
}

// Degree is the number of attributes
func (tt *TupleType) Degree() int {
	return len(tt.index)
}

// Equals delegates to the headings, so different struct types with the same
// fields are equal tuple types.
func (tt *TupleType) Equals(tt2 *TupleType) bool {
	if tt == nil || tt2 == nil {
		return tt == tt2
	}
	return tt.heading.Equals(tt2.heading)
}

// String returns the struct type name followed by its heading
func (tt *TupleType) String() string {
	return tt.rtype.String() + tt.heading.String()
}

// DeclaredFields returns the fields in struct declaration order
func (tt *TupleType) DeclaredFields() []Field {
	fs := make([]Field, len(tt.declared))
	for k, i := range tt.declared {
		fs[k] = tt.heading.fields[i]
	}
	return fs
}

// DeclaredNames returns the attribute names in struct declaration order
func (tt *TupleType) DeclaredNames() []Attribute {
	names := make([]Attribute, len(tt.declared))
	for k, i := range tt.declared {
		names[k] = tt.heading.fields[i].Name
	}
	return names
}

// Zero returns a tuple with zero values in every field
func (tt *TupleType) Zero() any {
	return reflect.Zero(tt.rtype).Interface()
}

// Value returns the value of the i'th attribute (in name order) of tup.
func (tt *TupleType) Value(tup any, i int) any {
	return reflect.ValueOf(tup).Field(tt.index[i]).Interface()
}

// Values returns the values of tup in name order.
func (tt *TupleType) Values(tup any) []any {
	rtup := reflect.ValueOf(tup)
	vals := make([]any, len(tt.index))
	for i, j := range tt.index {
		vals[i] = rtup.Field(j).Interface()
	}
	return vals
}

// DeclaredValues returns the values of tup in struct declaration order.
func (tt *TupleType) DeclaredValues(tup any) []any {
	rtup := reflect.ValueOf(tup)
	vals := make([]any, len(tt.declared))
	for k, i := range tt.declared {
		vals[k] = rtup.Field(tt.index[i]).Interface()
	}
	return vals
}

// New builds a tuple out of values given in name order.
func (tt *TupleType) New(values []any) (any, error) {
	if len(values) != len(tt.index) {
		return nil, &DegreeError{len(tt.index), len(values)}
	}
	rtup := reflect.New(tt.rtype).Elem()
	for i, v := range values {
		if err := tt.Set(rtup, i, v); err != nil {
			return nil, err
		}
	}
	return rtup.Interface(), nil
}

// Set assigns v to the i'th attribute (in name order) of the settable struct
// value rtup, converting it to the attribute's type if needed.
func (tt *TupleType) Set(rtup reflect.Value, i int, v any) error {
	f := rtup.Field(tt.index[i])
	if err := assign(f, v); err != nil {
		return errors.Wrapf(err, "rel: attribute %s", tt.heading.fields[i].Name)
	}
	return nil
}

// Registry derives tuple types from struct types and interns their headings.
// The zero value is not usable; use NewRegistry.
type Registry struct {
	mu       sync.RWMutex
	types    map[reflect.Type]*TupleType
	headings map[string][]*Heading
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		types:    make(map[reflect.Type]*TupleType),
		headings: make(map[string][]*Heading),
	}
}

// TupleType returns the tuple type of a struct type, deriving it on first use.
func (r *Registry) TupleType(e reflect.Type) (*TupleType, error) {
	if e == nil {
		return nil, &KindError{reflect.Struct, reflect.Invalid}
	}
	r.mu.RLock()
	tt, ok := r.types[e]
	r.mu.RUnlock()
	if ok {
		return tt, nil
	}
	if e.Kind() != reflect.Struct {
		return nil, &KindError{reflect.Struct, e.Kind()}
	}
	fields, index, err := structFields(e)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if tt, ok := r.types[e]; ok {
		return tt, nil
	}
	h := r.intern(newHeading(fields))

	// struct field indexes are increasing in declaration order, so the
	// declaration order of heading positions falls out of sorting them.
	tt = &TupleType{reg: r, rtype: e, heading: h, index: make([]int, len(index)), declared: make([]int, len(index))}
	for i, f := range h.fields {
		tt.index[i] = index[f.Name]
		tt.declared[i] = i
	}
	sort.Slice(tt.declared, func(a, b int) bool { return tt.index[tt.declared[a]] < tt.index[tt.declared[b]] })
	r.types[e] = tt
	return tt, nil
}

// TypeOf returns the tuple type of a tuple value
func (r *Registry) TypeOf(tup any) (*TupleType, error) {
	return r.TupleType(reflect.TypeOf(tup))
}

// TypeFor returns the tuple type of T
func TypeFor[T any](r *Registry) (*TupleType, error) {
	return r.TupleType(reflect.TypeOf((*T)(nil)).Elem())
}

// Heading interns an explicit list of fields.  This is used to describe
// shapes which do not have a struct type, such as the columns of a table.
func (r *Registry) Heading(fields ...Field) (*Heading, error) {
	seen := make(map[Attribute]struct{}, len(fields))
	for _, f := range fields {
		if f.Type == nil {
			return nil, &KindError{reflect.Struct, reflect.Invalid}
		}
		if _, dup := seen[f.Name]; dup {
			return nil, &DuplicateAttributeError{f.Name}
		}
		seen[f.Name] = struct{}{}
	}
	h := newHeading(fields)
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.intern(h), nil
}

// intern returns the previously seen heading equal to h, or registers h.
// The caller holds the write lock.
func (r *Registry) intern(h *Heading) *Heading {
	for _, h2 := range r.headings[h.key] {
		if sameFields(h.fields, h2.fields) {
			return h2
		}
	}
	r.headings[h.key] = append(r.headings[h.key], h)
	return h
}

// structFields returns the attributes of a struct type, and the struct field
// index of each attribute.  Unexported fields and fields tagged `rel:"-"` are
// not attributes.
func structFields(e reflect.Type) ([]Field, map[Attribute]int, error) {
	n := e.NumField()
	fields := make([]Field, 0, n)
	index := make(map[Attribute]int, n)
	for i := 0; i < n; i++ {
		f := e.Field(i)
		if f.Anonymous {
			return nil, nil, &EmbeddedFieldError{e, f.Name}
		}
		if f.PkgPath != "" || f.Tag.Get("rel") == "-" {
			continue
		}
		fields = append(fields, Field{Attribute(f.Name), f.Type})
		index[Attribute(f.Name)] = i
	}
	return fields, index, nil
}

// AttributeMap creates a map from attributes of one heading to the attributes
// of another with the same name.  The returned map's values have two fields
// I, J which indicate the position of the attribute in the inputs.  If the
// attribute is absent from either of the inputs, it is not returned.
func AttributeMap(fn1, fn2 []Attribute) map[Attribute]FieldIndex {
	m := make(map[Attribute]FieldIndex)
	for i, n1 := range fn1 {
		for j, n2 := range fn2 {
			if n1 == n2 {
				m[n1] = FieldIndex{i, j}
				break
			}
		}
	}
	return m
}

// IsSubDomain returns true if the attributes in sub are all members of dom,
// otherwise false
func IsSubDomain(sub, dom []Attribute) bool {
SubLoop:
	for _, n1 := range sub {
		for _, n2 := range dom {
			if n1 == n2 {
				continue SubLoop
			}
		}
		return false
	}
	return true
}
