package source

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

// convert turns a raw value read from a source into the Go type of t.  A nil
// value, or an empty string read for a field that isn't Text, becomes the
// default of t.
func convert(v any, t CommonType) (any, error) {
	if v == nil {
		return t.Default(), nil
	}
	if b, ok := v.([]byte); ok && t != Binary {
		// drivers hand back text and decimal columns as bytes
		v = string(b)
	}
	if s, ok := v.(string); ok && s == "" && t != Text {
		return t.Default(), nil
	}

	var (
		out any
		err error
	)
	switch t {
	case None:
		out = v
	case Binary:
		switch x := v.(type) {
		case []byte:
			out = x
		case string:
			out = []byte(x)
		default:
			err = errors.Errorf("unable to cast %#v of type %T to []byte", v, v)
		}
	case Bool:
		out, err = cast.ToBoolE(v)
	case Integer:
		out, err = cast.ToInt64E(v)
	case Double, Number:
		out, err = cast.ToFloat64E(v)
	case Text:
		out, err = cast.ToStringE(v)
	case Time:
		if tm, ok := v.(time.Time); ok {
			out = tm
		} else {
			out, err = cast.ToTimeE(v)
		}
	default:
		err = errors.Errorf("unknown type %v", t)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "source: convert to %v", t)
	}
	return out, nil
}

// convertRow converts the raw values of a row in place
func convertRow(row []any, fields []Field) error {
	for i, f := range fields {
		if i >= len(row) {
			return errors.Errorf("source: row has %d values, heading has %d fields", len(row), len(fields))
		}
		v, err := convert(row[i], f.Type)
		if err != nil {
			return errors.Wrapf(err, "field %s", f.Name)
		}
		row[i] = v
	}
	return nil
}
