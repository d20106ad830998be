package solrdex

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/solrdex/internal/domain/search/mode"
	"github.com/kailas-cloud/solrdex/internal/domain/search/raw"
)

const tagKey = "solrdex"

// schemaMeta maps indexed Solr fields onto the fields of a struct type.
type schemaMeta struct {
	typ    reflect.Type
	fields []fieldMapping
}

type fieldMapping struct {
	structIdx int
	name      string
}

var timeType = reflect.TypeOf(time.Time{})

// parseSchema reflects on T and extracts solrdex struct tag metadata.
// Each tagged field names the raw Solr field it is read from.
func parseSchema[T any]() (*schemaMeta, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		return nil, fmt.Errorf("solrdex: type parameter must be a struct")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("solrdex: type %s is not a struct", t)
	}

	meta := &schemaMeta{typ: t}
	seen := make(map[string]string)
	for i := range t.NumField() {
		f := t.Field(i)
		tag := f.Tag.Get(tagKey)
		if tag == "" || tag == "-" {
			continue
		}
		if !f.IsExported() {
			return nil, fmt.Errorf("solrdex: tagged field %s is unexported", f.Name)
		}
		if !supported(f.Type) {
			return nil, fmt.Errorf("solrdex: unsupported type %s on field %s", f.Type, f.Name)
		}
		name := strings.TrimSpace(tag)
		if prev, dup := seen[name]; dup {
			return nil, fmt.Errorf("solrdex: fields %s and %s both map %q", prev, f.Name, name)
		}
		seen[name] = f.Name
		meta.fields = append(meta.fields, fieldMapping{structIdx: i, name: name})
	}
	if len(meta.fields) == 0 {
		return nil, fmt.Errorf("solrdex: no field with a `solrdex:\"...\"` tag in %s", t)
	}
	return meta, nil
}

func supported(t reflect.Type) bool {
	if t == timeType {
		return true
	}
	switch t.Kind() {
	case reflect.String, reflect.Bool, reflect.Interface,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	case reflect.Slice:
		return t.Elem().Kind() == reflect.String
	default:
		return false
	}
}

// names returns the raw fields the schema reads, for projection.
func (m *schemaMeta) names() []string {
	out := make([]string, 0, len(m.fields))
	for _, f := range m.fields {
		out = append(out, f.name)
	}
	return out
}

// fromDocument builds a T from a raw engine document. Values that do not
// convert leave the field at its zero value.
func (m *schemaMeta) fromDocument(doc raw.Document) reflect.Value {
	v := reflect.New(m.typ).Elem()
	for _, f := range m.fields {
		val, ok := doc[f.name]
		if !ok || val == nil {
			continue
		}
		setValue(v.Field(f.structIdx), val)
	}
	return v
}

// projector adapts the schema to the mapper's projection capability.
func projector[T any](m *schemaMeta) func(raw.Document, []string, mode.Visibility) T {
	return func(doc raw.Document, _ []string, _ mode.Visibility) T {
		v := m.fromDocument(doc)
		var out T
		if reflect.TypeOf(out).Kind() == reflect.Pointer {
			p := reflect.New(m.typ)
			p.Elem().Set(v)
			return p.Interface().(T)
		}
		return v.Interface().(T)
	}
}

func setValue(dst reflect.Value, val any) {
	if dst.Type() == timeType {
		if ts, err := time.Parse(time.RFC3339, scalar(val)); err == nil {
			dst.Set(reflect.ValueOf(ts))
		}
		return
	}
	switch dst.Kind() {
	case reflect.Interface:
		dst.Set(reflect.ValueOf(val))
	case reflect.String:
		dst.SetString(scalar(val))
	case reflect.Bool:
		if b, err := strconv.ParseBool(scalar(val)); err == nil {
			dst.SetBool(b)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		text := scalar(val)
		if n, err := strconv.ParseInt(text, 10, 64); err == nil {
			dst.SetInt(n)
		} else if f, err := strconv.ParseFloat(text, 64); err == nil {
			dst.SetInt(int64(f))
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		text := scalar(val)
		if n, err := strconv.ParseUint(text, 10, 64); err == nil {
			dst.SetUint(n)
		} else if f, err := strconv.ParseFloat(text, 64); err == nil && f >= 0 {
			dst.SetUint(uint64(f))
		}
	case reflect.Float32, reflect.Float64:
		if f, err := strconv.ParseFloat(scalar(val), 64); err == nil {
			dst.SetFloat(f)
		}
	case reflect.Slice:
		dst.Set(reflect.ValueOf(stringSlice(val)))
	}
}

// scalar renders a value as text. Multi-valued fields yield their first value.
func scalar(val any) string {
	switch s := val.(type) {
	case string:
		return s
	case []any:
		if len(s) == 0 {
			return ""
		}
		return fmt.Sprint(s[0])
	case []string:
		if len(s) == 0 {
			return ""
		}
		return s[0]
	default:
		return fmt.Sprint(s)
	}
}

func stringSlice(val any) []string {
	switch s := val.(type) {
	case []string:
		return s
	case []any:
		out := make([]string, 0, len(s))
		for _, x := range s {
			out = append(out, fmt.Sprint(x))
		}
		return out
	default:
		return []string{scalar(val)}
	}
}
