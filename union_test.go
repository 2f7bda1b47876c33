package rel

import (
	"math"
	"testing"
	"time"
)

// tests for union
func TestUnion(t *testing.T) {
	exRel1 := mustNew(exampleRel2(10))
	exRel2 := mustNew(exampleRel2(15))

	fix := []struct {
		name string
		r    Relation[exTup2]
		card int
	}{
		{"r ∪ r", Union(exRel1, exRel1), 10},
		{"r ∪ r ∪ r", Union(Union(exRel1, exRel1), exRel1), 10},
		{"r1 ∪ r2", Union(exRel1, exRel2), 15},
		{"r2 ∪ r1", Union(exRel2, exRel1), 15},
		{"odd ∪ even", Union(
			Where(exRel2, func(tup exTup2) bool { return tup.Foo%2 == 1 }),
			Where(exRel2, func(tup exTup2) bool { return tup.Foo%2 == 0 })), 15},
	}
	for i, tt := range fix {
		if n := card(t, tt.r); n != tt.card {
			t.Errorf("%d. %s => card %d, want %d", i, tt.name, n, tt.card)
		}
	}

	if eq, err := IsEqual(Union(exRel1, Union(exRel1, exRel1)), exRel1); !eq || err != nil {
		t.Errorf("R ∪ R ∪ R == R => %t, %v", eq, err)
	}
	if s := Union(exRel1, exRel2).String(); s != "Relation(Foo, Bar) ∪ Relation(Foo, Bar)" {
		t.Errorf("String() => %q", s)
	}
}

func TestUnionOrder(t *testing.T) {
	// left tuples come first, and right tuples already seen are dropped
	r1 := mustNew([]exTup2{{1, "a"}, {2, "b"}})
	r2 := mustNew([]exTup2{{2, "b"}, {3, "c"}, {1, "a"}})
	tups := mustSlice(Union(r1, r2))
	want := []exTup2{{1, "a"}, {2, "b"}, {3, "c"}}
	if len(tups) != len(want) {
		t.Fatalf("union => %v, want %v", tups, want)
	}
	for i := range want {
		if tups[i] != want[i] {
			t.Errorf("%d. union => %v, want %v", i, tups[i], want[i])
		}
	}
}

func TestUnionFloatsAndTimes(t *testing.T) {
	type reading struct {
		At  time.Time
		Val float64
	}
	at := time.Date(2015, 3, 1, 12, 0, 0, 0, time.UTC)
	cet := time.FixedZone("CET", 60*60)
	// the same NaN twice, and the same instant in two locations
	r := mustNew([]reading{{at, math.NaN()}, {at, math.NaN()}, {at, 1}, {at.In(cet), 1}})
	if n := card(t, r); n != 2 {
		t.Errorf("readings => card %d, want 2", n)
	}
	if n := card(t, Union(Union(r, r), r)); n != 2 {
		t.Errorf("R ∪ R ∪ R => card %d, want 2", n)
	}
	if eq, err := IsEqual(r, r); !eq || err != nil {
		t.Errorf("R == R => %t, %v", eq, err)
	}
	if n := card(t, Minus(r, r)); n != 0 {
		t.Errorf("R − R => card %d, want 0", n)
	}
}

func TestUnionErrors(t *testing.T) {
	if err := Union(mustNew(exampleRel2(3)), nil).Err(); err == nil {
		t.Errorf("union with a nil relation => nil error")
	}
}

func BenchmarkUnion(b *testing.B) {
	r := Union(mustNew(exampleRel2(1000)), mustNew(exampleRel2(500)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Card(r)
	}
}
