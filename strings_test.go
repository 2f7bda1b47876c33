package rel

import (
	"bytes"
	"strings"
	"testing"
)

// tests for string conversion
// including String, GoString, Table, and benchmarks

func TestGoString(t *testing.T) {
	out := `rel.New([]struct {
 PNO    int     
 PName  string  
 Color  string  
 Weight float64 
 City   string  
}{
 {1, "Nut",   "Red",   12, "London", },
 {2, "Bolt",  "Green", 17, "Paris",  },
 {3, "Screw", "Blue",  17, "Oslo",   },
 {4, "Screw", "Red",   14, "London", },
 {5, "Cam",   "Blue",  12, "Paris",  },
 {6, "Cog",   "Red",   19, "London", },
})`
	in, err := GoString(parts())
	if err != nil {
		t.Fatal(err)
	}
	if in != out {
		t.Errorf("GoString(Parts) = %q, want %q", in, out)
	}
}

func TestGoStringValues(t *testing.T) {
	type mixed struct {
		Name  string
		OK    bool
		Count uint8
		Ratio float32
	}
	in, err := GoString(mustNew([]mixed{{"a\tb", true, 7, 1.5}}))
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"a\tb", true, 7, 1.5, },`; !strings.Contains(in, want) {
		t.Errorf("GoString(mixed) = %q, want it to contain %q", in, want)
	}

	if _, err = GoString[mixed](nil); !isArgumentError(err) {
		t.Errorf("GoString(nil) => %v, want ArgumentError", err)
	}
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	if err := Table(&buf, suppliers()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	// a border, the header, a border, five rows and a border
	if lines := strings.Split(strings.TrimSpace(out), "\n"); len(lines) != 9 {
		t.Errorf("Table(suppliers) has %d lines, want 9:\n%s", len(lines), out)
	}
	for _, s := range []string{"SNO", "SName", "Status", "City", "Smith", "Athens"} {
		if !strings.Contains(out, s) {
			t.Errorf("Table(suppliers) is missing %q:\n%s", s, out)
		}
	}
	// attributes are in declaration order
	if strings.Index(out, "SName") > strings.Index(out, "Status") {
		t.Errorf("Table(suppliers) has Status before SName:\n%s", out)
	}

	if err := Table(&buf, Union(suppliers(), nil)); err == nil {
		t.Errorf("Table of an erroring relation => nil error")
	}
}

func TestString(t *testing.T) {
	fix := []struct {
		name string
		s    string
		out  string
	}{
		{"slice", parts().String(), "Relation(PNO, PName, Color, Weight, City)"},
		{"sequence", Sequence(testReg, 3, func(i int) exTup2 { return exTup2{i, ""} }).String(), "Sequence(Foo, Bar)"},
		{"where", Where(parts(), func(partTup) bool { return true }).String(), "σ{func}(Relation(PNO, PName, Color, Weight, City))"},
	}
	for i, tt := range fix {
		if tt.s != tt.out {
			t.Errorf("%d. %s => %q, want %q", i, tt.name, tt.s, tt.out)
		}
	}
}

func BenchmarkGoStringTiny(b *testing.B) {
	// test the time it takes to turn a relation into a string
	exRel := mustNew(exampleRel2(10))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		GoString(exRel)
	}
}

func BenchmarkGoStringSmall(b *testing.B) {
	exRel := mustNew(exampleRel2(1000))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		GoString(exRel)
	}
}
