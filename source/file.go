package source

import (
	"bufio"
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// FileSource is a directory of files, one table per file.  The table name is
// the file name without its extension.
type FileSource struct {
	dir  string
	ext  string
	kind string
	log  logrus.FieldLogger

	// natural reads the fields of a file
	natural func(path string) ([]Field, error)

	// open starts a read of a file, after which each call of next returns
	// the raw values of a row, or io.EOF
	open func(f io.Reader) (next func() ([]any, error))
}

// NewCSV creates a source of the .csv files in dir.  The first record of
// each file is its header, and every field is Text unless a heading is set.
func NewCSV(dir string, opts ...Option) (*FileSource, error) {
	return newFileSource("csv", ".csv", dir, csvHeader, csvOpen, opts)
}

// NewText creates a source of the .txt files in dir.  Each line of a file
// is a row with a single Line field.
func NewText(dir string, opts ...Option) (*FileSource, error) {
	natural := func(string) ([]Field, error) {
		return []Field{{"Line", Text}}, nil
	}
	return newFileSource("txt", ".txt", dir, natural, lineOpen, opts)
}

func newFileSource(kind, ext, dir string, natural func(string) ([]Field, error), open func(io.Reader) func() ([]any, error), opts []Option) (*FileSource, error) {
	o := newOptions(opts)
	log := o.log.WithFields(logrus.Fields{"kind": kind, "locator": dir})
	fi, err := os.Stat(dir)
	if err != nil || !fi.IsDir() {
		return nil, errors.Wrapf(ErrNotFound, "%s %s", kind, dir)
	}
	log.Debug("source opened")
	return &FileSource{dir: dir, ext: ext, kind: kind, log: log, natural: natural, open: open}, nil
}

// path of a table.  A name that already has an extension is used as is.
func (s *FileSource) path(name string) string {
	if filepath.Ext(name) == "" {
		name += s.ext
	}
	return filepath.Join(s.dir, name)
}

// Select finds the file of a table, and reads its fields
func (s *FileSource) Select(ctx context.Context, name string) (Table, error) {
	if name == "" {
		return s.schema()
	}
	p := s.path(name)
	if fi, err := os.Stat(p); err != nil || fi.IsDir() {
		return nil, errors.Wrapf(ErrNotFound, "%s %s", s.kind, p)
	}
	fields, err := s.natural(p)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", s.kind, p)
	}
	s.log.WithField("table", name).Debugf("selected %d fields", len(fields))
	return &fileTable{src: s, name: name, path: p, fields: fields}, nil
}

// schema lists the files with the source's extension
func (s *FileSource) schema() (Table, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", s.kind, s.dir)
	}
	files := lo.Filter(entries, func(e os.DirEntry, _ int) bool {
		return !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), s.ext)
	})
	rows := lo.Map(files, func(e os.DirEntry, _ int) []any {
		return []any{strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())), "TABLE"}
	})
	return &listTable{name: "", fields: schemaFields, rows: rows}, nil
}

// Close does nothing, files are only open while they are read
func (s *FileSource) Close() error {
	return nil
}

type fileTable struct {
	src    *FileSource
	name   string
	path   string
	fields []Field
}

func (t *fileTable) Name() string    { return t.name }
func (t *fileTable) Fields() []Field { return t.fields }

func (t *fileTable) SetHeading(heading string) error {
	fields, err := ParseHeading(heading)
	if err != nil {
		return err
	}
	t.fields = fields
	return nil
}

func (t *fileTable) Rows(ctx context.Context) (Rows, error) {
	f, err := os.Open(t.path)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", t.src.kind, t.path)
	}
	t.src.log.WithField("table", t.name).Debug("reading")
	return &fileRows{ctx: ctx, f: f, next: t.src.open(f), fields: t.fields, path: t.path}, nil
}

type fileRows struct {
	ctx    context.Context
	f      *os.File
	next   func() ([]any, error)
	fields []Field
	path   string

	row []any
	err error
}

func (r *fileRows) Next() bool {
	if r.err != nil || r.f == nil {
		return false
	}
	if err := r.ctx.Err(); err != nil {
		r.err = err
		return false
	}
	row, err := r.next()
	if err == io.EOF {
		return false
	}
	if err == nil {
		err = convertRow(row, r.fields)
	}
	if err != nil {
		r.err = errors.Wrapf(err, "%s", r.path)
		return false
	}
	r.row = row[:len(r.fields)]
	return true
}

func (r *fileRows) Values() []any { return r.row }
func (r *fileRows) Err() error    { return r.err }

func (r *fileRows) Close() error {
	if r.f == nil {
		return nil
	}
	err := r.f.Close()
	r.f = nil
	return err
}

func newCSVReader(f io.Reader) *csv.Reader {
	rdr := csv.NewReader(f)
	rdr.FieldsPerRecord = -1
	return rdr
}

func csvHeader(path string) ([]Field, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	header, err := newCSVReader(f).Read()
	if err == io.EOF {
		return nil, errors.New("source: no header")
	}
	if err != nil {
		return nil, err
	}
	return lo.Map(header, func(name string, _ int) Field {
		return Field{strings.TrimSpace(name), Text}
	}), nil
}

func csvOpen(f io.Reader) func() ([]any, error) {
	rdr := newCSVReader(f)
	header := true
	return func() ([]any, error) {
		if header {
			header = false
			if _, err := rdr.Read(); err != nil {
				return nil, err
			}
		}
		rec, err := rdr.Read()
		if err != nil {
			return nil, err
		}
		return lo.ToAnySlice(rec), nil
	}
}

func lineOpen(f io.Reader) func() ([]any, error) {
	sc := bufio.NewScanner(f)
	return func() ([]any, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return nil, err
			}
			return nil, io.EOF
		}
		return []any{sc.Text()}, nil
	}
}
