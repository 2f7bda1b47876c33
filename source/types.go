package source

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// CommonType is the type of a source field, as far as a relation cares.
// Every source maps its own column types onto these.
type CommonType int

const (
	None CommonType = iota
	Binary
	Bool
	Integer
	Double
	Number
	Text
	Time
)

var commonTypeNames = []string{"none", "binary", "bool", "integer", "double", "number", "text", "time"}

func (t CommonType) String() string {
	if t < None || t > Time {
		return fmt.Sprintf("CommonType(%d)", int(t))
	}
	return commonTypeNames[t]
}

// ParseCommonType parses the name of a common type, ignoring case.
func ParseCommonType(s string) (CommonType, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range commonTypeNames {
		if n == name {
			return CommonType(i), nil
		}
	}
	return None, errors.Errorf("source: unknown type %q", s)
}

var (
	bytesType = reflect.TypeOf([]byte(nil))
	timeType  = reflect.TypeOf(time.Time{})
)

// GoType is the type values of this type have after they are read.  None
// values are not converted, so their type is the empty interface.
func (t CommonType) GoType() reflect.Type {
	switch t {
	case Binary:
		return bytesType
	case Bool:
		return reflect.TypeOf(false)
	case Integer:
		return reflect.TypeOf(int64(0))
	case Double, Number:
		return reflect.TypeOf(float64(0))
	case Text:
		return reflect.TypeOf("")
	case Time:
		return timeType
	}
	return reflect.TypeOf((*any)(nil)).Elem()
}

// Default is the value that replaces a null of this type.
func (t CommonType) Default() any {
	switch t {
	case Binary:
		return []byte{}
	case Bool:
		return false
	case Integer:
		return int64(0)
	case Double, Number:
		return float64(0)
	case Text:
		return ""
	case Time:
		return time.Unix(0, 0).UTC()
	}
	return nil
}

// Field is a named column of a source table
type Field struct {
	Name string
	Type CommonType
}

func (f Field) String() string {
	return f.Name + ":" + f.Type.String()
}

// ParseHeading parses a heading of the form "name:type,name:type".  A field
// without a type is Text.
func ParseHeading(s string) ([]Field, error) {
	var fields []Field
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, typ, found := strings.Cut(part, ":")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, errors.Errorf("source: missing field name in heading %q", s)
		}
		f := Field{Name: name, Type: Text}
		if found {
			t, err := ParseCommonType(typ)
			if err != nil {
				return nil, errors.Wrapf(err, "source: heading %q", s)
			}
			f.Type = t
		}
		fields = append(fields, f)
	}
	if len(fields) == 0 {
		return nil, errors.Errorf("source: empty heading %q", s)
	}
	return fields, nil
}
