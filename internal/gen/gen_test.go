package gen

import (
	"bytes"
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonlawlor/relpipe/source"
)

func TestIdentifier(t *testing.T) {
	fix := []struct {
		in, out string
	}{
		{"sno", "Sno"},
		{"SName", "SName"},
		{"first_name", "FirstName"},
		{"Order Details", "OrderDetails"},
		{"TABLE_NAME", "TABLENAME"},
		{"2020", "X2020"},
		{"", "X"},
		{"__", "X"},
	}
	for i, tt := range fix {
		if out := Identifier(tt.in); out != tt.out {
			t.Errorf("%d. Identifier(%q) => %q, want %q", i, tt.in, out, tt.out)
		}
	}
}

var tables = []Table{
	{"S", []source.Field{{"Sno", source.Text}, {"SName", source.Text}, {"Status", source.Integer}, {"City", source.Text}}},
	{"order details", []source.Field{{"order_id", source.Integer}, {"price", source.Number}, {"shipped", source.Time}, {"OrderID", source.Bool}}},
	{"s", []source.Field{{"blob", source.Binary}, {"x", source.None}}},
}

// parse checks that src is valid Go, and returns the struct declarations
// in it with their field names
func parse(t *testing.T, src []byte) map[string][]string {
	t.Helper()
	f, err := parser.ParseFile(token.NewFileSet(), "sp.gen.go", src, parser.ParseComments)
	require.NoError(t, err, string(src))
	structs := make(map[string][]string)
	ast.Inspect(f, func(n ast.Node) bool {
		ts, ok := n.(*ast.TypeSpec)
		if !ok {
			return true
		}
		st, ok := ts.Type.(*ast.StructType)
		if !ok {
			return true
		}
		names := []string{}
		for _, fld := range st.Fields.List {
			for _, n := range fld.Names {
				names = append(names, n.Name)
			}
		}
		structs[ts.Name.Name] = names
		return false
	})
	return structs
}

func TestGenerate(t *testing.T) {
	var buf bytes.Buffer
	err := Generate(&buf, Options{Package: "sp", Root: "sp", Kind: "sqlite", Locator: "sp.db"}, tables)
	require.NoError(t, err)
	src := buf.String()

	structs := parse(t, buf.Bytes())
	assert.Equal(t, map[string][]string{
		"S":            {"Sno", "SName", "Status", "City"},
		"OrderDetails": {"OrderId", "Price", "Shipped", "OrderID"},
		"S2":           {"Blob", "X"},
	}, structs)

	assert.Contains(t, src, "// Code generated by relgen from a sqlite source. DO NOT EDIT.")
	assert.Contains(t, src, "package sp\n")
	assert.Contains(t, src, `import "time"`)
	assert.Contains(t, src, `const SpKind = "sqlite"`)
	assert.Contains(t, src, `const SpLocator = "sp.db"`)
	assert.Contains(t, src, "func SpTables() []string {")
	assert.Contains(t, src, "\"S\",\n\t\t\"order details\",\n\t\t\"s\",\n")
	assert.Regexp(t, `Shipped +time\.Time`, src)
	assert.Regexp(t, `Blob +\[\]byte`, src)
	assert.Regexp(t, `X +any`, src)
	assert.Regexp(t, `Status +int64 +// Status:integer`, src)
}

func TestGenerateNoTime(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Generate(&buf, Options{Package: "files", Root: "Files", Kind: "csv", Locator: "."}, tables[:1]))
	assert.NotContains(t, buf.String(), "import")
	parse(t, buf.Bytes())
}

func TestGenerateRootCollision(t *testing.T) {
	// a table can't take the name of a root declaration
	var buf bytes.Buffer
	tbls := []Table{{"db tables", []source.Field{{"a", source.Text}}}}
	require.NoError(t, Generate(&buf, Options{Package: "db", Root: "db", Kind: "sql"}, tbls))
	structs := parse(t, buf.Bytes())
	assert.Contains(t, structs, "DbTables2")
}

func TestGenerateErrors(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Generate(&buf, Options{Root: "sp"}, tables))
	assert.Error(t, Generate(&buf, Options{Package: "sp"}, tables))
	assert.Error(t, Generate(&buf, Options{Package: "not a package", Root: "sp"}, tables))
	assert.Zero(t, buf.Len())
}
