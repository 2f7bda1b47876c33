package source

import (
	"context"
	"database/sql"
	"net/url"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	// sqlite registers itself as the "sqlite" database/sql driver
	_ "modernc.org/sqlite"
)

// dialect is what differs between the databases a SQLSource can read
type dialect struct {
	// conv maps database type names to common types.  Columns with types
	// that are not in conv are left out of a table.
	conv map[string]CommonType

	// schema lists TABLE_NAME and TABLE_TYPE for every table and view
	schema string

	quote func(name string) string
}

var baseConv = map[string]CommonType{
	"CHAR":     Text,
	"VARCHAR":  Text,
	"NCHAR":    Text,
	"NVARCHAR": Text,
	"TEXT":     Text,
	"BIT":      Bool,
	"BOOL":     Bool,
	"BOOLEAN":  Bool,
	"INT":      Integer,
	"INTEGER":  Integer,
	"BIGINT":   Integer,
	"SMALLINT": Integer,
	"TINYINT":  Integer,
	"REAL":     Double,
	"FLOAT":    Double,
	"DOUBLE":   Double,
	"NUMERIC":  Number,
	"DECIMAL":  Number,
	"DATE":     Time,
	"DATETIME": Time,
	"TIME":     Time,
	"BLOB":     Binary,
}

var dialects = map[string]dialect{
	"sqlite": {
		conv: lo.Assign(baseConv, map[string]CommonType{
			"CLOB":      Text,
			"MONEY":     Number,
			"INT8":      Integer,
			"TIMESTAMP": Time,
		}),
		schema: `select name as TABLE_NAME,
			case when name like 'sqlite!_%' escape '!' then 'SYSTEM TABLE' else upper(type) end as TABLE_TYPE
			from sqlite_master where type in ('table', 'view') order by name`,
		quote: func(name string) string {
			return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
		},
	},
	"mysql": {
		conv: lo.Assign(baseConv, map[string]CommonType{
			"MEDIUMINT":         Integer,
			"UNSIGNED INT":      Integer,
			"UNSIGNED BIGINT":   Integer,
			"UNSIGNED SMALLINT": Integer,
			"UNSIGNED TINYINT":  Integer,
			"MEDIUMTEXT":        Text,
			"LONGTEXT":          Text,
			"TIMESTAMP":         Time,
			"VARBINARY":         Binary,
			"BINARY":            Binary,
			"LONGBLOB":          Binary,
		}),
		schema: `select TABLE_NAME, case when TABLE_SCHEMA in ('mysql', 'sys', 'performance_schema', 'information_schema') then 'SYSTEM TABLE' else TABLE_TYPE end as TABLE_TYPE
			from INFORMATION_SCHEMA.TABLES where TABLE_SCHEMA = database() order by TABLE_NAME`,
		quote: func(name string) string {
			return "`" + strings.ReplaceAll(name, "`", "``") + "`"
		},
	},
	"postgres": {
		conv: lo.Assign(baseConv, map[string]CommonType{
			"INT2":        Integer,
			"INT4":        Integer,
			"INT8":        Integer,
			"FLOAT4":      Double,
			"FLOAT8":      Double,
			"BPCHAR":      Text,
			"NAME":        Text,
			"BYTEA":       Binary,
			"TIMESTAMP":   Time,
			"TIMESTAMPTZ": Time,
			"TIMETZ":      Time,
			"MONEY":       Number,
		}),
		schema: `select table_name as "TABLE_NAME",
			case when table_schema in ('pg_catalog', 'information_schema') then 'SYSTEM TABLE' else table_type end as "TABLE_TYPE"
			from information_schema.tables order by table_name`,
		quote: pq.QuoteIdentifier,
	},
}

// typeName normalizes a database type name for the conversion dictionary:
// upper case, without a size or precision.
func typeName(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if i := strings.IndexByte(s, '('); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return s
}

// SQLSource is a database.  Each table or view is a table of the source.
type SQLSource struct {
	db      *sql.DB
	driver  string
	dialect dialect
	log     logrus.FieldLogger
}

// NewSQL connects to a database with one of the drivers "sqlite", "mysql"
// or "postgres".  The dsn is passed to the driver.
func NewSQL(driver, dsn string, opts ...Option) (*SQLSource, error) {
	o := newOptions(opts)
	d, ok := dialects[driver]
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedKind, "sql driver %q", driver)
	}
	log := o.log.WithFields(logrus.Fields{"kind": driver, "locator": Redact(driver, dsn)})

	var db *sql.DB
	switch driver {
	case "mysql":
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, errors.Wrapf(err, "%s %s", driver, Redact(driver, dsn))
		}
		conn, err := mysql.NewConnector(cfg)
		if err != nil {
			return nil, errors.Wrapf(err, "%s %s", driver, Redact(driver, dsn))
		}
		db = sql.OpenDB(conn)
	case "postgres":
		conn, err := pq.NewConnector(dsn)
		if err != nil {
			return nil, errors.Wrapf(err, "%s %s", driver, Redact(driver, dsn))
		}
		db = sql.OpenDB(conn)
	default:
		var err error
		db, err = sql.Open(driver, dsn)
		if err != nil {
			return nil, errors.Wrapf(err, "%s %s", driver, dsn)
		}
	}
	log.Debug("source opened")
	return &SQLSource{db: db, driver: driver, dialect: d, log: log}, nil
}

// NewSQLFromDB creates a source from an open database.  The source owns db,
// and closes it when it is closed.
func NewSQLFromDB(driver string, db *sql.DB, opts ...Option) (*SQLSource, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedKind, "sql driver %q", driver)
	}
	o := newOptions(opts)
	return &SQLSource{db: db, driver: driver, dialect: d, log: o.log.WithField("kind", driver)}, nil
}

// Redact hides the password of a mysql dsn or a postgres url, so the dsn
// can be logged.
func Redact(driver, dsn string) string {
	switch driver {
	case "mysql":
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil || cfg.Passwd == "" {
			return dsn
		}
		cfg.Passwd = "xxx"
		return cfg.FormatDSN()
	case "postgres":
		u, err := url.Parse(dsn)
		if err != nil || u.User == nil {
			return dsn
		}
		if _, ok := u.User.Password(); !ok {
			return dsn
		}
		u.User = url.UserPassword(u.User.Username(), "xxx")
		return u.String()
	}
	return dsn
}

// Close closes the database
func (s *SQLSource) Close() error {
	return s.db.Close()
}

// Select finds a table, and reads the types of its columns
func (s *SQLSource) Select(ctx context.Context, name string) (Table, error) {
	list, err := s.schema(ctx)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return list, nil
	}
	found := lo.ContainsBy(list.rows, func(row []any) bool {
		return row[0] == name
	})
	if !found {
		return nil, errors.Wrapf(ErrNotFound, "%s table %s", s.driver, name)
	}

	rows, err := s.db.QueryContext(ctx, "select * from "+s.dialect.quote(name)+" where 1 = 0")
	if err != nil {
		return nil, errors.Wrapf(err, "%s table %s", s.driver, name)
	}
	defer rows.Close()
	cols, err := rows.ColumnTypes()
	if err != nil {
		return nil, errors.Wrapf(err, "%s table %s", s.driver, name)
	}

	t := &sqlTable{src: s, name: name}
	for i, c := range cols {
		ct, ok := s.dialect.conv[typeName(c.DatabaseTypeName())]
		if !ok {
			s.log.WithField("table", name).Debugf("dropped column %s of type %q", c.Name(), c.DatabaseTypeName())
			continue
		}
		t.fields = append(t.fields, Field{c.Name(), ct})
		t.pos = append(t.pos, i)
	}
	s.log.WithField("table", name).Debugf("selected %d fields", len(t.fields))
	return t, nil
}

// schema reads the schema listing into memory
func (s *SQLSource) schema(ctx context.Context) (*listTable, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.schema)
	if err != nil {
		return nil, errors.Wrapf(err, "%s schema", s.driver)
	}
	defer rows.Close()
	t := &listTable{fields: schemaFields}
	for rows.Next() {
		var name, typ sql.NullString
		if err := rows.Scan(&name, &typ); err != nil {
			return nil, errors.Wrapf(err, "%s schema", s.driver)
		}
		t.rows = append(t.rows, []any{name.String, typ.String})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "%s schema", s.driver)
	}
	return t, nil
}

type sqlTable struct {
	src    *SQLSource
	name   string
	fields []Field

	// pos is the column position of each field.  After SetHeading the
	// fields are read positionally from the first columns.
	pos []int
}

func (t *sqlTable) Name() string    { return t.name }
func (t *sqlTable) Fields() []Field { return t.fields }

func (t *sqlTable) SetHeading(heading string) error {
	fields, err := ParseHeading(heading)
	if err != nil {
		return err
	}
	t.fields = fields
	t.pos = lo.Range(len(fields))
	return nil
}

func (t *sqlTable) Rows(ctx context.Context) (Rows, error) {
	rows, err := t.src.db.QueryContext(ctx, "select * from "+t.src.dialect.quote(t.name))
	if err != nil {
		return nil, errors.Wrapf(err, "%s table %s", t.src.driver, t.name)
	}
	cols, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, errors.Wrapf(err, "%s table %s", t.src.driver, t.name)
	}
	if lo.Max(t.pos) >= len(cols) {
		rows.Close()
		return nil, errors.Errorf("source: table %s has %d columns, heading has %d fields", t.name, len(cols), len(t.fields))
	}
	t.src.log.WithField("table", t.name).Debug("reading")
	return &sqlRows{rows: rows, t: t, raw: make([]any, len(cols))}, nil
}

type sqlRows struct {
	rows *sql.Rows
	t    *sqlTable
	raw  []any
	row  []any
	err  error
}

func (r *sqlRows) Next() bool {
	if r.err != nil || !r.rows.Next() {
		return false
	}
	ptrs := make([]any, len(r.raw))
	for i := range r.raw {
		ptrs[i] = &r.raw[i]
	}
	if err := r.rows.Scan(ptrs...); err != nil {
		r.err = errors.Wrapf(err, "%s table %s", r.t.src.driver, r.t.name)
		return false
	}
	row := make([]any, len(r.t.fields))
	for i, p := range r.t.pos {
		row[i] = r.raw[p]
	}
	if err := convertRow(row, r.t.fields); err != nil {
		r.err = errors.Wrapf(err, "%s table %s", r.t.src.driver, r.t.name)
		return false
	}
	r.row = row
	return true
}

func (r *sqlRows) Values() []any { return r.row }

func (r *sqlRows) Err() error {
	if r.err != nil {
		return r.err
	}
	return r.rows.Err()
}

func (r *sqlRows) Close() error {
	return r.rows.Close()
}
