// strings deals with string representation of relations

package rel

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
	"text/tabwriter"

	"github.com/olekukonko/tablewriter"
)

// GoString renders a relation as the Go source of a relation literal.  The
// attributes are in struct declaration order.
func GoString[T any](r Relation[T]) (string, error) {
	if err := sourceErr(r, "relation"); err != nil {
		return "", err
	}
	tt := r.Type()

	// use a buffer to write to and later turn into a string
	s := bytes.NewBufferString("rel.New([]struct {\n")

	w := new(tabwriter.Writer)
	// \xff is used as an escape delim; see the tabwriter docs
	w.Init(s, 1, 1, 1, ' ', tabwriter.StripEscape)

	for _, f := range tt.DeclaredFields() {
		fmt.Fprintf(w, "\t\xff%s\xff\t\xff%v\xff\t\n", f.Name, f.Type)
	}
	w.Flush()
	s.WriteString("}{\n")

	err := each(r, func(tup T) error {
		fmt.Fprintf(w, "\t{")
		for _, v := range tt.DeclaredValues(tup) {
			fmt.Fprintf(w, "%s,\t", goValue(v))
		}
		fmt.Fprintf(w, "},\n")
		return nil
	})
	if err != nil {
		return "", err
	}
	w.Flush()
	s.WriteString("})")
	return s.String(), nil
}

// goValue formats an attribute value as a Go literal, escaped for tabwriter
func goValue(v any) string {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return fmt.Sprintf("\xff%q\xff", rv.String())
	case reflect.Bool:
		return fmt.Sprintf("%t", rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fmt.Sprintf("%d", rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fmt.Sprintf("%d", rv.Uint())
	case reflect.Float32, reflect.Float64:
		return fmt.Sprintf("%g", rv.Float())
	}
	return fmt.Sprintf("\xff%#v\xff", v)
}

// Table writes the tuples of a relation to w as a boxed text table, with
// one column per attribute in struct declaration order.
func Table[T any](w io.Writer, r Relation[T]) error {
	if err := sourceErr(r, "relation"); err != nil {
		return err
	}
	tt := r.Type()
	names := tt.DeclaredNames()
	header := make([]string, len(names))
	for i, n := range names {
		header[i] = string(n)
	}

	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetHeader(header)

	err := each(r, func(tup T) error {
		vals := tt.DeclaredValues(tup)
		row := make([]string, len(vals))
		for i, v := range vals {
			row[i] = fmt.Sprint(v)
		}
		table.Append(row)
		return nil
	})
	if err != nil {
		return err
	}
	table.Render()
	return nil
}
