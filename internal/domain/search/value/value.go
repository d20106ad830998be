// Package value normalizes filter values before they are compared against indexed fields.
package value

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a normalized value.
type Kind int

const (
	// KindRaw is a non-string value passed through unchanged.
	KindRaw Kind = iota
	// KindEmpty is the empty string.
	KindEmpty
	// KindID is a long-form identifier ({8-4-4-4-12} in any accepted form).
	KindID
	// KindShortID is a short-form identifier (32 hex digits).
	KindShortID
	// KindDate is a date/time value.
	KindDate
	// KindString is a lower-cased string.
	KindString
)

// SolrDateLayout is the engine's canonical date format.
const SolrDateLayout = "2006-01-02T15:04:05Z"

// ShortID is an identifier written as 32 hex digits without separators.
type ShortID uuid.UUID

// String returns the upper-case 32 hex digit form.
func (s ShortID) String() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.UUID(s).String(), "-", ""))
}

// dateLayouts are tried in order; the first layout that parses the whole string wins.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// Value is a normalized filter value.
type Value struct {
	kind Kind
	raw  any
}

// Normalize applies the filter value priority: empty strings pass through,
// then long-form identifier, short-form identifier, date/time, and finally
// lower-casing. Non-string values pass through unchanged.
func Normalize(v any) Value {
	switch t := v.(type) {
	case string:
		return normalizeString(t)
	case uuid.UUID:
		return Value{kind: KindID, raw: t}
	case ShortID:
		return Value{kind: KindShortID, raw: t}
	case time.Time:
		return Value{kind: KindDate, raw: t}
	default:
		return Value{kind: KindRaw, raw: v}
	}
}

func normalizeString(s string) Value {
	if s == "" {
		return Value{kind: KindEmpty, raw: s}
	}
	if id, ok := parseLongID(s); ok {
		return Value{kind: KindID, raw: id}
	}
	if id, ok := parseShortID(s); ok {
		return Value{kind: KindShortID, raw: id}
	}
	if ts, ok := parseDate(s); ok {
		return Value{kind: KindDate, raw: ts}
	}
	return Value{kind: KindString, raw: strings.ToLower(s)}
}

func parseLongID(s string) (uuid.UUID, bool) {
	// 36: hyphenated, 38: braced, 45: urn:uuid: prefix
	switch len(s) {
	case 36, 38, 45:
	default:
		return uuid.UUID{}, false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.UUID{}, false
	}
	return id, true
}

func parseShortID(s string) (ShortID, bool) {
	if len(s) != 32 {
		return ShortID{}, false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return ShortID{}, false
	}
	return ShortID(id), true
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// Kind returns the classification.
func (v Value) Kind() Kind { return v.kind }

// Raw returns the normalized Go value (uuid.UUID, ShortID, time.Time, string, or the original value).
func (v Value) Raw() any { return v.raw }

// String renders the value the way it is compared in the index.
func (v Value) String() string {
	switch t := v.raw.(type) {
	case uuid.UUID:
		return "{" + strings.ToUpper(t.String()) + "}"
	case ShortID:
		return t.String()
	case time.Time:
		return t.UTC().Format(SolrDateLayout)
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
