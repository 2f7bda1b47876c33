package att

import "reflect"

// JoinMatcher extracts join keys from a pair of tuple types.  The key of a
// tuple is the ordered list of values of the attributes that both types
// share, with the same name and type.
type JoinMatcher struct {
	left  *TupleType
	right *TupleType

	// matches holds, for each left heading position, the right heading
	// position with the same attribute, or -1
	matches []int

	// key positions in each heading, in left heading order
	lkey []int
	rkey []int
}

// NewJoinMatcher builds the matcher for tuples of left and right.
func NewJoinMatcher(left, right *TupleType) *JoinMatcher {
	m := &JoinMatcher{left: left, right: right, matches: make([]int, left.Degree())}
	for i, f := range left.heading.fields {
		j := right.heading.Index(f.Name)
		if j >= 0 && right.heading.fields[j].Type != f.Type {
			j = -1
		}
		m.matches[i] = j
		if j >= 0 {
			m.lkey = append(m.lkey, i)
			m.rkey = append(m.rkey, j)
		}
	}
	return m
}

// Matches returns the right position of each left attribute, or -1.
func (m *JoinMatcher) Matches() []int {
	return m.matches
}

// Common returns the shared attributes in name order.
func (m *JoinMatcher) Common() []Attribute {
	atts := make([]Attribute, len(m.lkey))
	for k, i := range m.lkey {
		atts[k] = m.left.heading.fields[i].Name
	}
	return atts
}

// GetKeyLeft extracts the join key of a left tuple.
func (m *JoinMatcher) GetKeyLeft(tup any) JoinKey {
	return makeKey(m.left, m.lkey, tup)
}

// GetKeyRight extracts the join key of a right tuple.
func (m *JoinMatcher) GetKeyRight(tup any) JoinKey {
	return makeKey(m.right, m.rkey, tup)
}

func makeKey(tt *TupleType, pos []int, tup any) JoinKey {
	rtup := reflect.ValueOf(tup)
	k := JoinKey{values: make([]any, len(pos)), hash: EmptyHash}
	for n, i := range pos {
		v := rtup.Field(tt.index[i]).Interface()
		k.values[n] = v
		k.hash = mixHash(k.hash, hashValue(v))
	}
	return k
}

// JoinKey is the ordered list of matched values of a tuple, with their hash
// computed up front.  Keys from tuples with no shared attributes are all
// equal, so every pair of tuples matches.
type JoinKey struct {
	values []any
	hash   uint64
}

// Hash of the key values
func (k JoinKey) Hash() uint64 {
	return k.hash
}

// Len is the number of values in the key
func (k JoinKey) Len() int {
	return len(k.values)
}

// Values returns the key values
func (k JoinKey) Values() []any {
	return k.values
}

// Equal compares keys value by value.
func (k JoinKey) Equal(k2 JoinKey) bool {
	if k.hash != k2.hash || len(k.values) != len(k2.values) {
		return false
	}
	for i := range k.values {
		if !valueEqual(k.values[i], k2.values[i]) {
			return false
		}
	}
	return true
}

type keyEntry[V any] struct {
	key    JoinKey
	values []V
}

// KeyMap is a multimap from join keys to values, which keeps the values for
// each key in insertion order.  It is the build side of a hash join.
type KeyMap[V any] struct {
	buckets map[uint64][]*keyEntry[V]
	n       int
}

// NewKeyMap creates an empty KeyMap
func NewKeyMap[V any]() *KeyMap[V] {
	return &KeyMap[V]{buckets: make(map[uint64][]*keyEntry[V])}
}

func (km *KeyMap[V]) entry(k JoinKey) *keyEntry[V] {
	for _, e := range km.buckets[k.hash] {
		if e.key.Equal(k) {
			return e
		}
	}
	return nil
}

// Add appends v to the values of key k
func (km *KeyMap[V]) Add(k JoinKey, v V) {
	km.n++
	if e := km.entry(k); e != nil {
		e.values = append(e.values, v)
		return
	}
	km.buckets[k.hash] = append(km.buckets[k.hash], &keyEntry[V]{k, []V{v}})
}

// Get returns the values added with key k, in insertion order
func (km *KeyMap[V]) Get(k JoinKey) []V {
	if e := km.entry(k); e != nil {
		return e.values
	}
	return nil
}

// Contains is true if any value was added with key k
func (km *KeyMap[V]) Contains(k JoinKey) bool {
	return km.entry(k) != nil
}

// Len is the total number of values
func (km *KeyMap[V]) Len() int {
	return km.n
}
