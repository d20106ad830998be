// Package criteria describes what a caller wants to search for.
package criteria

import "strings"

// Filter maps a field-key expression to its acceptable values.
// The key may list alternative field names separated by ',' or '|'.
type Filter struct {
	Key    string
	Values []any
}

// Fields splits the key into its alternative field names.
func (f Filter) Fields() []string {
	parts := strings.FieldsFunc(f.Key, func(r rune) bool { return r == ',' || r == '|' })
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsEmpty reports whether the filter contributes no predicate.
func (f Filter) IsEmpty() bool {
	return len(f.Values) == 0 || len(f.Fields()) == 0
}

// Filters is an ordered mapping from field-key expressions to value sets.
type Filters []Filter

// Add appends a filter entry, returning the extended list.
func (fs Filters) Add(key string, values ...any) Filters {
	return append(fs, Filter{Key: key, Values: values})
}

// Criteria is the caller-supplied description of a search.
type Criteria struct {
	// Text is free text matched against the content field; empty matches everything.
	Text            string
	BaseTemplateIDs []string
	Filters         Filters
	// ExcludeFilters compile to the same inclusion predicates as Filters.
	ExcludeFilters Filters
	// NegatedFilters are true exclusions: documents matching any entry are dropped.
	NegatedFilters Filters
	ItemID         string
	TemplateID     string
	// PageNumber is 1-based; values <= 0 read as page 1.
	PageNumber int
	// PageSize <= 0 means no explicit paging.
	PageSize int
}

// HasPaging reports whether the criteria request explicit paging.
func (c *Criteria) HasPaging() bool { return c.PageSize > 0 }

// Skip returns the number of rows before the requested page.
func (c *Criteria) Skip() int {
	if !c.HasPaging() || c.PageNumber <= 1 {
		return 0
	}
	return (c.PageNumber - 1) * c.PageSize
}
