package rel

import (
	"testing"

	"github.com/jonlawlor/relpipe/att"
)

// card returns the cardinality of a relation, and fails the test on an error
func card[T any](t *testing.T, r Relation[T]) int {
	t.Helper()
	n, err := Card(r)
	if err != nil {
		t.Fatalf("Card(%v) => error %v", r, err)
	}
	return n
}

// tests for restrict op
func TestWhere(t *testing.T) {
	exRel := mustNew(exampleRel2(10))

	r1 := Where(exRel, func(exTup2) bool { return true })
	if card(t, r1) != card(t, exRel) {
		t.Errorf("identity restrict has card = %d, want %d", card(t, r1), card(t, exRel))
	}

	r2 := Where(exRel, func(exTup2) bool { return false })
	if card(t, r2) != 0 {
		t.Errorf("restrict with false predicate has card = %d, want %d", card(t, r2), 0)
	}

	r3 := Where(exRel, func(tup exTup2) bool { return tup.Foo > 5 })
	if card(t, r3) != 4 {
		t.Errorf("restrict has card = %d, want %d", card(t, r3), 4)
	}

	if s := r3.String(); s != "σ{func}(Relation(Foo, Bar))" {
		t.Errorf("String() => %q", s)
	}

	if err := Where[exTup2](exRel, nil).Err(); err == nil {
		t.Errorf("Where with a nil predicate => nil error")
	}
}

func TestRestrictPredicate(t *testing.T) {
	fix := []struct {
		name string
		p    att.Predicate
		card int
	}{
		{"Weight < 15", att.Attribute("Weight").LT(15), 3},
		{"Color == Red", att.Attribute("Color").EQ("Red"), 3},
		{"Color == Red && City != London", att.Attribute("Color").EQ("Red").And(att.Attribute("City").NE("London")), 0},
		{"!(PNO >= 3)", att.Not(att.Attribute("PNO").GE(3)), 2},
		{"adhoc", att.AdHoc{F: func(tup struct{ PName string }) bool { return tup.PName == "Screw" }}, 2},
	}
	for i, tt := range fix {
		r := Restrict(parts(), tt.p)
		if err := r.Err(); err != nil {
			t.Errorf("%d. %s => error %v", i, tt.name, err)
			continue
		}
		if n := card(t, r); n != tt.card {
			t.Errorf("%d. %s => card %d, want %d", i, tt.name, n, tt.card)
		}
	}

	r := Restrict(parts(), att.Attribute("Colour").EQ("Red"))
	if r.Err() == nil {
		t.Errorf("restrict on a missing attribute => nil error")
	}
	if s := Restrict(parts(), att.Attribute("PNO").EQ(1)).String(); s != "σ{PNO == 1}(Relation(PNO, PName, Color, Weight, City))" {
		t.Errorf("String() => %q", s)
	}
}

func TestPartition(t *testing.T) {
	// a relation is the union of the tuples that satisfy a predicate and the
	// tuples that don't, and the two parts are disjoint
	p := func(tup wxyzTup) bool { return tup.A3 < 0.75 }
	in := Where(wxyz(), p)
	out := Where(wxyz(), func(tup wxyzTup) bool { return !p(tup) })

	if eq, err := IsEqual(wxyz(), Union(in, out)); !eq || err != nil {
		t.Errorf("R == R.where(P) ∪ R.where(¬P) => %t, %v", eq, err)
	}
	if dis, err := IsDisjoint(in, out); !dis || err != nil {
		t.Errorf("R.where(P) disjoint R.where(¬P) => %t, %v", dis, err)
	}
}

func BenchmarkWhere(b *testing.B) {
	exRel := mustNew(exampleRel2(1000))
	r := Where(exRel, func(tup exTup2) bool { return tup.Foo%2 == 0 })
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Card(r)
	}
}
