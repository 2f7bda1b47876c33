package rel

import (
	"testing"

	"github.com/jonlawlor/relpipe/att"
)

// test creation of relations, including tests to determine the cost of
// representing slices of structs as relations instead of native.

type exTup2 struct {
	Foo int
	Bar string
}

// exampleRel2 creates an example relation body with given cardinality
func exampleRel2(c int) (recs []exTup2) {
	for i := 0; i < c; i++ {
		recs = append(recs, exTup2{i, "test"})
	}
	return
}

func nativeDistinct(tups []exTup2) []exTup2 {
	m := make(map[exTup2]struct{})
	t := make([]exTup2, 0, len(tups))
	for _, k := range tups {
		if _, ok := m[k]; !ok {
			m[k] = struct{}{}
			t = append(t, k)
		}
	}
	return t
}

func benchmarkNew(b *testing.B, c int) {
	// test the time it takes to read a new relation with a given size
	exRel := exampleRel2(c)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r, _ := New(testReg, exRel)
		Card(r)
	}
}

func benchmarkNative(b *testing.B, c int) {
	exRel := exampleRel2(c)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		nativeDistinct(exRel)
	}
}

func BenchmarkSimpleNewTiny(b *testing.B)   { benchmarkNew(b, 10) }
func BenchmarkNativeNewTiny(b *testing.B)   { benchmarkNative(b, 10) }
func BenchmarkSimpleNewSmall(b *testing.B)  { benchmarkNew(b, 1000) }
func BenchmarkNativeNewSmall(b *testing.B)  { benchmarkNative(b, 1000) }
func BenchmarkSimpleNewMedium(b *testing.B) { benchmarkNew(b, 100000) }
func BenchmarkNativeNewMedium(b *testing.B) { benchmarkNative(b, 100000) }

func TestDeg(t *testing.T) {
	fix := []struct {
		name string
		in   int
		out  int
	}{
		{"suppliers", Deg(suppliers()), 4},
		{"parts", Deg(parts()), 5},
		{"orders", Deg(orders()), 3},
		{"wxyz", Deg(wxyz()), 3},
	}
	for i, dt := range fix {
		if dt.in != dt.out {
			t.Errorf("%d. %s.Deg() => %d, want %d", i, dt.name, dt.in, dt.out)
		}
	}
}

func TestCard(t *testing.T) {
	card := func(n int, _ error) int { return n }
	fix := []struct {
		name string
		in   int
		out  int
	}{
		{"suppliers", card(Card(suppliers())), 5},
		{"parts", card(Card(parts())), 6},
		{"orders", card(Card(orders())), 12},
		{"wxyz", card(Card(wxyz())), 16},
	}
	for i, dt := range fix {
		if dt.in != dt.out {
			t.Errorf("%d. %s.Card() => %d, want %d", i, dt.name, dt.in, dt.out)
		}
	}
}

func TestHeading(t *testing.T) {
	fix := []struct {
		name string
		in   string
		out  string
	}{
		{"suppliers", HeadingString(suppliers()), "SNO, SName, Status, City"},
		{"orders", HeadingString(orders()), "PNO, SNO, Qty"},
	}
	for i, dt := range fix {
		if dt.in != dt.out {
			t.Errorf("%d. %s heading => %q, want %q", i, dt.name, dt.in, dt.out)
		}
	}
	want := []att.Attribute{"City", "SName", "SNO", "Status"}
	got := Heading(suppliers())
	if len(got) != len(want) {
		t.Fatalf("Heading(suppliers) => %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Heading(suppliers) => %v, want %v", got, want)
		}
	}
}

func TestNewDeduplicates(t *testing.T) {
	r := mustNew([]exTup2{{1, "a"}, {2, "b"}, {1, "a"}, {3, "c"}, {2, "b"}})
	tups := mustSlice(r)
	want := []exTup2{{1, "a"}, {2, "b"}, {3, "c"}}
	if len(tups) != len(want) {
		t.Fatalf("Slice => %v, want %v", tups, want)
	}
	for i := range want {
		if tups[i] != want[i] {
			t.Errorf("%d. tuple => %v, want %v", i, tups[i], want[i])
		}
	}

	// relations can be read more than once
	if n, _ := Card(r); n != 3 {
		t.Errorf("second read Card => %d, want 3", n)
	}
}

func TestNewErrors(t *testing.T) {
	type embedded struct {
		exTup2
		Baz int
	}
	if _, err := New(testReg, []embedded{}); err == nil {
		t.Errorf("New with an embedded field => nil error")
	}
	if _, err := New(nil, []exTup2{}); err == nil {
		t.Errorf("New with a nil registry => nil error")
	}
	if _, err := New(testReg, []int{1, 2}); err == nil {
		t.Errorf("New with int tuples => nil error")
	}
}

func TestSequence(t *testing.T) {
	r := Sequence(testReg, 5, func(i int) exTup2 { return exTup2{i * i, "sq"} })
	tups := mustSlice(r)
	if len(tups) != 5 || tups[4].Foo != 16 {
		t.Errorf("Sequence => %v, want 5 squares", tups)
	}
	if s := r.String(); s != "Sequence(Foo, Bar)" {
		t.Errorf("Sequence.String() => %q, want %q", s, "Sequence(Foo, Bar)")
	}
}

func TestFromSeq(t *testing.T) {
	seq := func(yield func(exTup2) bool) {
		for i := 0; i < 10; i++ {
			if !yield(exTup2{i % 3, "mod"}) {
				return
			}
		}
	}
	r := FromSeq(testReg, seq)
	if n, err := Card(r); n != 3 || err != nil {
		t.Errorf("Card(FromSeq) => %d, %v, want 3, nil", n, err)
	}

	// stopping early releases the sequence
	tup, ok, err := Single(r)
	if !ok || err != nil || tup.Foo != 0 {
		t.Errorf("Single(FromSeq) => %v, %t, %v", tup, ok, err)
	}
}

func TestSeq(t *testing.T) {
	n := 0
	for tup, err := range Seq(suppliers()) {
		if err != nil {
			t.Fatal(err)
		}
		if tup.SNO == 3 {
			break
		}
		n++
	}
	if n != 2 {
		t.Errorf("tuples before SNO 3 => %d, want 2", n)
	}

	bad := Where[supplierTup](nil, func(supplierTup) bool { return true })
	for _, err := range Seq(bad) {
		if err == nil {
			t.Errorf("Seq of a nil source => nil error")
		}
	}
}
