package source

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommonType(t *testing.T) {
	var tests = []struct {
		in   string
		want CommonType
		ok   bool
	}{
		{"text", Text, true},
		{"TEXT", Text, true},
		{" Integer ", Integer, true},
		{"number", Number, true},
		{"time", Time, true},
		{"none", None, true},
		{"decimal", None, false},
		{"", None, false},
	}
	for i, tt := range tests {
		got, err := ParseCommonType(tt.in)
		if tt.ok {
			assert.NoError(t, err, "%d. %q", i, tt.in)
		} else {
			assert.Error(t, err, "%d. %q", i, tt.in)
		}
		assert.Equal(t, tt.want, got, "%d. %q", i, tt.in)
	}
}

func TestCommonTypeDefaults(t *testing.T) {
	for ct := None; ct <= Time; ct++ {
		d := ct.Default()
		if ct == None {
			assert.Nil(t, d)
			continue
		}
		assert.Equal(t, ct.GoType(), reflect.TypeOf(d), "%v", ct)
	}
	assert.Equal(t, time.Unix(0, 0).UTC(), Time.Default())
	assert.Equal(t, "CommonType(42)", CommonType(42).String())
}

func TestParseHeading(t *testing.T) {
	fields, err := ParseHeading("Sno:text, Status:INTEGER,City")
	require.NoError(t, err)
	assert.Equal(t, []Field{{"Sno", Text}, {"Status", Integer}, {"City", Text}}, fields)

	_, err = ParseHeading("Sno:varchar")
	assert.Error(t, err)

	_, err = ParseHeading(":text")
	assert.Error(t, err)

	_, err = ParseHeading("")
	assert.Error(t, err)
}

func TestConvert(t *testing.T) {
	var tests = []struct {
		in   any
		typ  CommonType
		want any
	}{
		{"42", Integer, int64(42)},
		{[]byte("42"), Integer, int64(42)},
		{int64(7), Double, float64(7)},
		{"1.5", Number, 1.5},
		{"true", Bool, true},
		{"", Bool, false},
		{"", Text, ""},
		{nil, Text, ""},
		{nil, Integer, int64(0)},
		{"abc", Binary, []byte("abc")},
		{[]byte("abc"), Text, "abc"},
		{"x", None, "x"},
	}
	for i, tt := range tests {
		got, err := convert(tt.in, tt.typ)
		require.NoError(t, err, "%d. convert(%v, %v)", i, tt.in, tt.typ)
		assert.Equal(t, tt.want, got, "%d. convert(%v, %v)", i, tt.in, tt.typ)
	}

	_, err := convert("forty two", Integer)
	assert.Error(t, err)
}

func TestOpenKinds(t *testing.T) {
	dir := t.TempDir()
	for _, kind := range []string{"csv", "txt"} {
		src, err := Open(kind, dir)
		require.NoError(t, err, kind)
		assert.NoError(t, src.Close())
	}

	for _, kind := range []string{"odbc", "oledb", "dbase"} {
		_, err := Open(kind, dir)
		assert.Equal(t, ErrUnsupportedKind, errors.Cause(err), kind)
	}

	_, err := Open("csv", dir+"/missing")
	assert.Equal(t, ErrNotFound, errors.Cause(err))
}

func TestOpenSQLAlias(t *testing.T) {
	src, err := Open("sql", tempDB(t), WithDriver("sqlite"))
	require.NoError(t, err)
	defer src.Close()
	tbl, err := src.Select(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, schemaFields, tbl.Fields())
}
