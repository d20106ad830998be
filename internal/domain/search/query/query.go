// Package query holds the engine-ready representation of a compiled search.
package query

import (
	"strings"

	"github.com/kailas-cloud/solrdex/internal/domain/search/filter"
	"github.com/kailas-cloud/solrdex/internal/domain/search/mode"
)

// Direction is a sort direction.
type Direction int

const (
	// Ascending sorts low to high.
	Ascending Direction = iota
	// Descending sorts high to low.
	Descending
)

// String returns the engine keyword.
func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// Sort is one sort term.
type Sort struct {
	Field     string
	Direction Direction
}

// FacetKind selects how a facet is requested.
type FacetKind int

const (
	// FacetField buckets a single field.
	FacetField FacetKind = iota
	// FacetPivot buckets a combination of fields hierarchically.
	FacetPivot
	// FacetDateRange buckets a date field by month.
	FacetDateRange
)

// Facet is a compiled facet request over engine field names.
type Facet struct {
	Kind         FacetKind
	Fields       []string
	MinCount     *int
	FilterValues []string
}

// Key returns the category name the engine reports this facet under.
func (f Facet) Key() string {
	return strings.Join(f.Fields, ",")
}

// DateRange configures monthly range facets.
type DateRange struct {
	Start string
	End   string
	Gap   string
}

// GroupFormatGrouped is the nested grouping result format.
const GroupFormatGrouped = "grouped"

// Grouping clusters results by a field.
type Grouping struct {
	Field   string
	Format  string
	Limit   int
	NGroups bool
}

// FragmenterRegex is the regex-based highlight fragmenter.
const FragmenterRegex = "regex"

// Highlight configures snippet extraction.
type Highlight struct {
	Fields     []string
	Snippets   int
	Fragmenter string
	Pattern    string
	FragSize   int
	Slop       float64
}

// SpellCheck configures collation. The zero value is distinct from Disabled:
// compiled queries always carry one of Disabled or an enabled configuration.
type SpellCheck struct {
	Collate bool
	Query   string
	Count   int
}

// Disabled is the explicit "no spell-check" state.
var Disabled = SpellCheck{Collate: false, Count: 0}

// Enabled reports whether collation was requested.
func (s SpellCheck) Enabled() bool { return s.Collate }

// Param is one ordered key/value pair.
type Param struct {
	Key   string
	Value string
}

// LocalParams are out-of-band query modifiers rendered as {!type k=v ...}.
type LocalParams struct {
	Type   string
	Params []Param
}

// IsEmpty reports whether nothing would be rendered.
func (l LocalParams) IsEmpty() bool { return l.Type == "" && len(l.Params) == 0 }

// Get returns the value for key.
func (l LocalParams) Get(key string) (string, bool) {
	for _, p := range l.Params {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// String renders the local parameters prefix.
func (l LocalParams) String() string {
	if l.IsEmpty() {
		return ""
	}
	parts := make([]string, 0, len(l.Params)+1)
	if l.Type != "" {
		parts = append(parts, l.Type)
	}
	for _, p := range l.Params {
		parts = append(parts, p.Key+"="+p.Value)
	}
	return "{!" + strings.Join(parts, " ") + "}"
}

// Base is the base predicate: free text over a content field, narrowed by clauses.
type Base struct {
	Text       string
	Field      string
	Expression filter.Expression
}

// IsEmpty reports whether the base predicate matches everything.
func (b Base) IsEmpty() bool { return b.Text == "" && b.Expression.IsEmpty() }

// Compiled is an immutable engine-ready query.
type Compiled struct {
	base        Base
	filter      filter.Expression
	scope       []filter.Clause
	fields      []string
	sorts       []Sort
	start       *int
	rows        int
	facets      []Facet
	dateRange   DateRange
	grouping    *Grouping
	highlight   *Highlight
	spellCheck  SpellCheck
	localParams LocalParams
	params      []Param
	visibility  mode.Visibility
}

// Base returns the base predicate.
func (q *Compiled) Base() Base { return q.base }

// Filter returns the caller filter predicate.
func (q *Compiled) Filter() filter.Expression { return q.filter }

// Scope returns the tenant and culture scoping clauses, each sent as its own filter.
func (q *Compiled) Scope() []filter.Clause { return clone(q.scope) }

// Fields returns the requested projection. Empty means engine default.
func (q *Compiled) Fields() []string { return clone(q.fields) }

// Sorts returns the sort terms in declaration order.
func (q *Compiled) Sorts() []Sort { return clone(q.sorts) }

// Start returns the summed skip, if any skip was requested.
func (q *Compiled) Start() (int, bool) {
	if q.start == nil {
		return 0, false
	}
	return *q.start, true
}

// Rows returns the number of rows requested.
func (q *Compiled) Rows() int { return q.rows }

// Facets returns the facet requests.
func (q *Compiled) Facets() []Facet { return clone(q.facets) }

// DateRange returns the date facet range configuration.
func (q *Compiled) DateRange() DateRange { return q.dateRange }

// Grouping returns the grouping parameters, or nil.
func (q *Compiled) Grouping() *Grouping {
	if q.grouping == nil {
		return nil
	}
	g := *q.grouping
	return &g
}

// Highlight returns the highlight parameters, or nil.
func (q *Compiled) Highlight() *Highlight {
	if q.highlight == nil {
		return nil
	}
	h := *q.highlight
	h.Fields = clone(h.Fields)
	return &h
}

// SpellCheck returns the spell-check state.
func (q *Compiled) SpellCheck() SpellCheck { return q.spellCheck }

// LocalParams returns the out-of-band query modifiers.
func (q *Compiled) LocalParams() LocalParams {
	lp := q.localParams
	lp.Params = clone(lp.Params)
	return lp
}

// Params returns extra request parameters.
func (q *Compiled) Params() []Param { return clone(q.params) }

// Visibility returns the visibility mode the query was compiled for.
func (q *Compiled) Visibility() mode.Visibility { return q.visibility }

func clone[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
