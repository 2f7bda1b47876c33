// Package gen writes Go source declaring a tuple struct for each table of a
// source, so the tables can be read with rel.FromSource.
package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"io"
	"strings"
	"text/template"
	"unicode"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jonlawlor/relpipe/source"
)

// Table is the heading of one table of a source
type Table struct {
	Name   string
	Fields []source.Field
}

// Options describe the generated file
type Options struct {
	// Package is the name of the generated package
	Package string

	// Root prefixes the declarations that describe the source as a whole
	Root string

	// Kind and Locator are what the source was opened with
	Kind    string
	Locator string
}

// Identifier turns a table or field name into an exported Go identifier.
// The name is split at anything that isn't a letter or a digit, and the
// parts are title cased and joined.
func Identifier(name string) string {
	parts := strings.FieldsFunc(name, func(c rune) bool {
		return !unicode.IsLetter(c) && !unicode.IsDigit(c)
	})
	title := cases.Title(language.Und, cases.NoLower)
	id := strings.Join(lo.Map(parts, func(p string, _ int) string { return title.String(p) }), "")
	if id == "" {
		return "X"
	}
	if first := []rune(id)[0]; !unicode.IsUpper(first) {
		id = "X" + id
	}
	return id
}

// goType is the Go type attributes of a common type are declared with
func goType(t source.CommonType) string {
	switch t {
	case source.Binary:
		return "[]byte"
	case source.Bool:
		return "bool"
	case source.Integer:
		return "int64"
	case source.Double, source.Number:
		return "float64"
	case source.Text:
		return "string"
	case source.Time:
		return "time.Time"
	}
	return "any"
}

// uniquer hands out identifiers, adding a number to the ones already taken
type uniquer map[string]int

func (u uniquer) get(name string) string {
	id := Identifier(name)
	n := u[id]
	u[id] = n + 1
	if n == 0 {
		return id
	}
	return u.get(fmt.Sprintf("%s%d", id, n+1))
}

type fieldDecl struct {
	Ident  string
	Type   string
	Source source.Field
}

type tableDecl struct {
	Name   string
	Ident  string
	Fields []fieldDecl
}

var fileTmpl = template.Must(template.New("file").Parse(`// Code generated by relgen from a {{.Kind}} source. DO NOT EDIT.

package {{.Package}}
{{if .Time}}
import "time"
{{end}}
// {{.Root}}Kind is the kind of source the tuple types were generated from
const {{.Root}}Kind = {{printf "%q" .Kind}}

// {{.Root}}Locator is the location of the source the tuple types were
// generated from
const {{.Root}}Locator = {{printf "%q" .Locator}}
{{range .Tables}}
// {{.Ident}} is a tuple of the table {{.Name}}
type {{.Ident}} struct {
{{- range .Fields}}
	{{.Ident}} {{.Type}} // {{.Source}}
{{- end}}
}
{{end}}
// {{.Root}}Tables lists the tables of the source, in the order of the
// declarations above
func {{.Root}}Tables() []string {
	return []string{
{{- range .Tables}}
		{{printf "%q" .Name}},
{{- end}}
	}
}
`))

// Generate writes gofmt-ed Go source for tables to w.
func Generate(w io.Writer, opts Options, tables []Table) error {
	if opts.Package == "" {
		return errors.New("gen: no package name")
	}
	if opts.Root == "" {
		return errors.New("gen: no root name")
	}
	typeNames := uniquer{}
	// the root declarations are taken first
	for _, suffix := range []string{"Kind", "Locator", "Tables"} {
		typeNames.get(Identifier(opts.Root) + suffix)
	}
	decls := lo.Map(tables, func(t Table, _ int) tableDecl {
		fieldNames := uniquer{}
		return tableDecl{
			Name:  t.Name,
			Ident: typeNames.get(t.Name),
			Fields: lo.Map(t.Fields, func(f source.Field, _ int) fieldDecl {
				return fieldDecl{fieldNames.get(f.Name), goType(f.Type), f}
			}),
		}
	})
	usesTime := lo.SomeBy(tables, func(t Table) bool {
		return lo.SomeBy(t.Fields, func(f source.Field) bool { return f.Type == source.Time })
	})

	var buf bytes.Buffer
	err := fileTmpl.Execute(&buf, struct {
		Options
		Root   string
		Time   bool
		Tables []tableDecl
	}{opts, Identifier(opts.Root), usesTime, decls})
	if err != nil {
		return errors.Wrap(err, "gen")
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return errors.Wrapf(err, "gen: formatting\n%s", buf.String())
	}
	_, err = w.Write(src)
	return err
}
