package rel

import (
	"testing"
)

type numTup struct {
	N int
}

func newNumStore(t *testing.T, ns ...int) *Store[numTup] {
	t.Helper()
	s, err := NewStore[numTup](testReg)
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range ns {
		s.Add(numTup{n})
	}
	return s
}

func nums(tups []numTup) []int {
	ns := make([]int, len(tups))
	for i, tup := range tups {
		ns[i] = tup.N
	}
	return ns
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestStoreAddDelete(t *testing.T) {
	s := newNumStore(t, 1, 2, 3)
	if s.Add(numTup{2}) {
		t.Errorf("Add(2) of a present tuple => true, want false")
	}
	if s.Len() != 3 {
		t.Errorf("Len() => %d, want 3", s.Len())
	}
	if !s.Delete(numTup{1}) {
		t.Errorf("Delete(1) => false, want true")
	}
	if s.Delete(numTup{1}) {
		t.Errorf("second Delete(1) => true, want false")
	}
	// the last tuple moves into the deleted slot
	if got := nums(mustSlice[numTup](s)); !equalInts(got, []int{3, 2}) {
		t.Errorf("tuples => %v, want [3 2]", got)
	}
	s.Replace(numTup{2}, numTup{20})
	if !s.Contains(numTup{20}) || s.Contains(numTup{2}) {
		t.Errorf("Replace(2, 20) => %v", nums(mustSlice[numTup](s)))
	}
	if str := s.String(); str != "Store(N)" {
		t.Errorf("String() => %q, want %q", str, "Store(N)")
	}
}

func TestStoreAddDuringIteration(t *testing.T) {
	s := newNumStore(t, 1)
	var seen []int
	it := s.Tuples()
	for it.Next() {
		n := it.Tuple().N
		seen = append(seen, n)
		if n < 5 {
			s.Add(numTup{n + 1})
		}
	}
	if err := it.Err(); err != nil {
		t.Fatal(err)
	}
	if !equalInts(seen, []int{1, 2, 3, 4, 5}) {
		t.Errorf("visited => %v, want [1 2 3 4 5]", seen)
	}
}

func TestStoreDeleteCurrent(t *testing.T) {
	// deleting the tuple at the cursor moves the last tuple into its slot,
	// and the cursor visits it next
	s := newNumStore(t, 1, 2, 3, 4)
	var seen []int
	it := s.Tuples()
	for it.Next() {
		n := it.Tuple().N
		seen = append(seen, n)
		if n == 2 {
			s.Delete(numTup{2})
		}
	}
	if !equalInts(seen, []int{1, 2, 4, 3}) {
		t.Errorf("visited => %v, want [1 2 4 3]", seen)
	}
	if got := nums(mustSlice[numTup](s)); !equalInts(got, []int{1, 4, 3}) {
		t.Errorf("tuples => %v, want [1 4 3]", got)
	}
}

func TestStoreDeleteBehindCursor(t *testing.T) {
	// deleting a tuple the cursor has passed moves the last tuple behind the
	// cursor, so this cursor never visits it
	s := newNumStore(t, 1, 2, 3, 4)
	var seen []int
	it := s.Tuples()
	for it.Next() {
		n := it.Tuple().N
		seen = append(seen, n)
		if n == 2 {
			s.Delete(numTup{1})
		}
	}
	if !equalInts(seen, []int{1, 2, 3}) {
		t.Errorf("visited => %v, want [1 2 3]", seen)
	}
	if got := nums(mustSlice[numTup](s)); !equalInts(got, []int{4, 2, 3}) {
		t.Errorf("tuples => %v, want [4 2 3]", got)
	}
}

func TestStoreCursorsAreIndependent(t *testing.T) {
	s := newNumStore(t, 1, 2, 3)
	it1 := s.Tuples()
	it2 := s.Tuples()
	it1.Next()
	it1.Next()
	it2.Next()
	if it1.Tuple().N != 2 || it2.Tuple().N != 1 {
		t.Errorf("cursors => %d, %d, want 2, 1", it1.Tuple().N, it2.Tuple().N)
	}
	it1.Close()
	it2.Close()
	if len(s.cursors) != 0 {
		t.Errorf("%d cursors left after Close", len(s.cursors))
	}

	// an exhausted iteration unregisters itself
	it3 := s.Tuples()
	for it3.Next() {
	}
	if len(s.cursors) != 0 {
		t.Errorf("%d cursors left after exhaustion", len(s.cursors))
	}
}

func TestStoreFrom(t *testing.T) {
	s, err := NewStoreFrom(wxyz())
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 16 {
		t.Errorf("Len() => %d, want 16", s.Len())
	}
	if _, err := ToStore[wxyzTup](nil); err == nil {
		t.Errorf("ToStore(nil) => nil error")
	}
}
