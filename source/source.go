// Package source reads tables of records out of files and databases, so
// that they can be imported into relations.  A Source is a collection of
// named tables.  Selecting the empty name gives the schema listing of the
// source, a table with the fields TABLE_NAME and TABLE_TYPE.
package source

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNotFound is returned when a source or table doesn't exist
	ErrNotFound = errors.New("source: not found")

	// ErrUnsupportedKind is returned by Open for a kind of source that can't
	// be read
	ErrUnsupportedKind = errors.New("source: unsupported kind")
)

// SystemTable is the TABLE_TYPE of tables that belong to the database
// itself, rather than its users.
const SystemTable = "SYSTEM TABLE"

// Source is a collection of tables
type Source interface {
	// Select finds a table by name.  The empty name selects the schema
	// listing.
	Select(ctx context.Context, name string) (Table, error)

	// Close releases the source
	Close() error
}

// Table is a selected table of a source
type Table interface {
	Name() string

	// Fields are the columns of the table, in order
	Fields() []Field

	// SetHeading replaces the natural fields of the table with a heading of
	// the form "name:type,name:type".  Values are then read positionally
	// and converted to the given types.
	SetHeading(heading string) error

	// Rows starts a new read of the table.  Every call reads the table from
	// the beginning.
	Rows(ctx context.Context) (Rows, error)
}

// Rows is one read of a table
type Rows interface {
	Next() bool

	// Values are the values of the current row, one per field
	Values() []any
	Err() error
	Close() error
}

type options struct {
	log    logrus.FieldLogger
	driver string
}

// Option configures a source
type Option func(*options)

// WithLogger sets the logger sources report opens and reads to.  The
// default logger discards everything.
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithDriver sets the database driver used for the "sql" kind of source.
// The default is sqlite.
func WithDriver(driver string) Option {
	return func(o *options) {
		if driver != "" {
			o.driver = driver
		}
	}
}

func newOptions(opts []Option) *options {
	l := logrus.New()
	l.SetOutput(io.Discard)
	o := &options{log: l, driver: "sqlite"}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Kinds are the kinds of sources Open understands
var Kinds = []string{"csv", "txt", "sqlite", "mysql", "postgres", "sql", "odbc", "oledb"}

// Open creates a source of the given kind.  For file sources the locator is
// a directory, and for database sources it is a connection string.
func Open(kind, locator string, opts ...Option) (Source, error) {
	switch kind {
	case "csv":
		return NewCSV(locator, opts...)
	case "txt":
		return NewText(locator, opts...)
	case "sqlite", "mysql", "postgres":
		return NewSQL(kind, locator, opts...)
	case "sql":
		o := newOptions(opts)
		return NewSQL(o.driver, locator, opts...)
	case "odbc", "oledb":
		return nil, errors.Wrapf(ErrUnsupportedKind, "%s", kind)
	}
	return nil, errors.Wrapf(ErrUnsupportedKind, "unknown kind %q", kind)
}

// listTable is a table held in memory, used for schema listings
type listTable struct {
	name   string
	fields []Field
	rows   [][]any
}

var schemaFields = []Field{{"TABLE_NAME", Text}, {"TABLE_TYPE", Text}}

func (t *listTable) Name() string    { return t.name }
func (t *listTable) Fields() []Field { return t.fields }

func (t *listTable) SetHeading(heading string) error {
	fields, err := ParseHeading(heading)
	if err != nil {
		return err
	}
	if len(fields) != len(t.fields) {
		return errors.Errorf("source: heading %q has %d fields, table %s has %d", heading, len(fields), t.name, len(t.fields))
	}
	for _, row := range t.rows {
		for i, f := range fields {
			v, err := convert(row[i], f.Type)
			if err != nil {
				return errors.Wrapf(err, "source: table %s field %s", t.name, f.Name)
			}
			row[i] = v
		}
	}
	t.fields = fields
	return nil
}

func (t *listTable) Rows(ctx context.Context) (Rows, error) {
	return &listRows{rows: t.rows, i: -1}, nil
}

type listRows struct {
	rows [][]any
	i    int
}

func (r *listRows) Next() bool {
	r.i++
	return r.i < len(r.rows)
}

func (r *listRows) Values() []any { return r.rows[r.i] }
func (r *listRows) Err() error    { return nil }
func (r *listRows) Close() error  { return nil }
