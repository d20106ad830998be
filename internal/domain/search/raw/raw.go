// Package raw holds documents exactly as the search engine returns them.
package raw

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Internal field names every indexed document carries.
const (
	FieldUniqueID   = "_uniqueid"
	FieldDataSource = "_datasource"
	FieldIndexName  = "_indexname"
	FieldLanguage   = "_language"
	FieldTemplate   = "_template"
	FieldScore      = "score"
)

// Document is an unordered field-name to value mapping from the engine.
type Document map[string]any

// UniqueID returns the internal unique id, if present.
func (d Document) UniqueID() (string, bool) {
	return d.String(FieldUniqueID)
}

// DataSource returns the internal data-source id, or "" when absent.
func (d Document) DataSource() string {
	s, _ := d.String(FieldDataSource)
	return s
}

// Score returns the relevance score, or -1 when the engine did not return one.
func (d Document) Score() float64 {
	v, ok := d[FieldScore]
	if !ok {
		return -1
	}
	switch s := v.(type) {
	case json.Number:
		if f, err := s.Float64(); err == nil {
			return f
		}
	case float64:
		return s
	case float32:
		return float64(s)
	case int:
		return float64(s)
	case string:
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return -1
}

// String returns the field as a string. Multi-valued fields yield their first value.
func (d Document) String(field string) (string, bool) {
	v, ok := d[field]
	if !ok || v == nil {
		return "", false
	}
	switch s := v.(type) {
	case string:
		return s, true
	case []any:
		if len(s) == 0 {
			return "", false
		}
		return fmt.Sprint(s[0]), true
	case []string:
		if len(s) == 0 {
			return "", false
		}
		return s[0], true
	case json.Number:
		return s.String(), true
	default:
		return fmt.Sprint(s), true
	}
}
