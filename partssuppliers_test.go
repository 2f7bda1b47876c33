package rel

import (
	"github.com/jonlawlor/relpipe/att"
)

// This file contains example data for a suppliers, parts & orders database, using
// the example provided by C. J. Date in his book "Database in Depth" in Figure 1-3.
// I think he might have a different type for the SNO and PNO columns, but int
// probably works just as well.

// testReg is the registry all of the test relations are built in
var testReg = att.NewRegistry()

// mustNew creates a relation out of a slice, and panics if the slice is not
// a valid relation body
func mustNew[T any](body []T) Relation[T] {
	r, err := New(testReg, body)
	if err != nil {
		panic(err)
	}
	return r
}

// mustSlice reads all of the tuples of a relation, and panics on an error
func mustSlice[T any](r Relation[T]) []T {
	tups, err := Slice(r)
	if err != nil {
		panic(err)
	}
	return tups
}

type supplierTup struct {
	SNO    int
	SName  string
	Status int
	City   string
}

type partTup struct {
	PNO    int
	PName  string
	Color  string
	Weight float64
	City   string
}

type orderTup struct {
	PNO int
	SNO int
	Qty int
}

// suppliers relation, with candidate keys {SNO}
// the {SName} key is also possible to use
func suppliers() Relation[supplierTup] {
	return mustNew([]supplierTup{
		{1, "Smith", 20, "London"},
		{2, "Jones", 10, "Paris"},
		{3, "Blake", 30, "Paris"},
		{4, "Clark", 20, "London"},
		{5, "Adams", 30, "Athens"},
	})
}

// parts relation, with candidate keys {PNO}
func parts() Relation[partTup] {
	return mustNew([]partTup{
		{1, "Nut", "Red", 12.0, "London"},
		{2, "Bolt", "Green", 17.0, "Paris"},
		{3, "Screw", "Blue", 17.0, "Oslo"},
		{4, "Screw", "Red", 14.0, "London"},
		{5, "Cam", "Blue", 12.0, "Paris"},
		{6, "Cog", "Red", 19.0, "London"},
	})
}

// orders relation, with candidate keys {PNO, SNO}
func orders() Relation[orderTup] {
	return mustNew([]orderTup{
		{1, 1, 300},
		{1, 2, 200},
		{1, 3, 400},
		{1, 4, 200},
		{1, 5, 100},
		{1, 6, 100},
		{2, 1, 300},
		{2, 2, 400},
		{3, 2, 200},
		{4, 2, 200},
		{4, 4, 300},
		{4, 5, 400},
	})
}

// wxyzTup is the tuple type of a small relation with a few duplicated values
// in each attribute
type wxyzTup struct {
	A1 int
	A2 string
	A3 float64
}

// wxyz has 16 tuples.  A1 is 42 in the first 8 and 88 in the rest, A2 cycles
// through 4 words, and A3 counts up from 0 by 0.1.
func wxyz() Relation[wxyzTup] {
	words := []string{"hello", "world", "goodbye", "tuesday"}
	tups := make([]wxyzTup, 16)
	for i := range tups {
		a1 := 42
		if i >= 8 {
			a1 = 88
		}
		tups[i] = wxyzTup{a1, words[i%4], float64(i) / 10}
	}
	return mustNew(tups)
}
