package query

import (
	"github.com/kailas-cloud/solrdex/internal/domain/search/filter"
	"github.com/kailas-cloud/solrdex/internal/domain/search/mode"
)

// Builder accumulates query parts. Build returns an immutable snapshot.
type Builder struct {
	q Compiled
}

// NewBuilder creates a builder with the given rows default.
func NewBuilder(defaultRows int) *Builder {
	return &Builder{q: Compiled{rows: defaultRows, spellCheck: Disabled}}
}

// Base sets the base predicate.
func (b *Builder) Base(base Base) *Builder {
	b.q.base = base
	return b
}

// Filter ANDs e into the filter predicate.
func (b *Builder) Filter(e filter.Expression) *Builder {
	b.q.filter = b.q.filter.And(e)
	return b
}

// Scope appends a scoping clause sent as an independent filter.
func (b *Builder) Scope(c filter.Clause) *Builder {
	if !c.IsEmpty() {
		b.q.scope = append(b.q.scope, c)
	}
	return b
}

// Fields appends projected fields, skipping duplicates.
func (b *Builder) Fields(fields ...string) *Builder {
	for _, f := range fields {
		if f == "" || contains(b.q.fields, f) {
			continue
		}
		b.q.fields = append(b.q.fields, f)
	}
	return b
}

// HasFields reports whether any field was projected.
func (b *Builder) HasFields() bool { return len(b.q.fields) > 0 }

// Sort appends a sort term.
func (b *Builder) Sort(field string, dir Direction) *Builder {
	b.q.sorts = append(b.q.sorts, Sort{Field: field, Direction: dir})
	return b
}

// AddStart adds n to the start offset.
func (b *Builder) AddStart(n int) *Builder {
	cur := 0
	if b.q.start != nil {
		cur = *b.q.start
	}
	cur += n
	b.q.start = &cur
	return b
}

// Rows sets the row count.
func (b *Builder) Rows(n int) *Builder {
	b.q.rows = n
	return b
}

// Facet appends a facet request.
func (b *Builder) Facet(f Facet) *Builder {
	f.Fields = clone(f.Fields)
	f.FilterValues = clone(f.FilterValues)
	b.q.facets = append(b.q.facets, f)
	return b
}

// DateRange sets the date facet range.
func (b *Builder) DateRange(r DateRange) *Builder {
	b.q.dateRange = r
	return b
}

// Group sets the grouping parameters.
func (b *Builder) Group(g Grouping) *Builder {
	b.q.grouping = &g
	return b
}

// Highlight sets the highlight parameters.
func (b *Builder) Highlight(h Highlight) *Builder {
	h.Fields = clone(h.Fields)
	b.q.highlight = &h
	return b
}

// SpellCheck sets the spell-check state.
func (b *Builder) SpellCheck(s SpellCheck) *Builder {
	b.q.spellCheck = s
	return b
}

// LocalParamsType sets the local parameters type, e.g. "boost".
func (b *Builder) LocalParamsType(t string) *Builder {
	b.q.localParams.Type = t
	return b
}

// LocalParam sets a local parameter, replacing an existing key in place.
func (b *Builder) LocalParam(key, value string) *Builder {
	b.q.localParams.Params = setParam(b.q.localParams.Params, key, value)
	return b
}

// Param sets a request parameter, replacing an existing key in place.
func (b *Builder) Param(key, value string) *Builder {
	b.q.params = setParam(b.q.params, key, value)
	return b
}

// Visibility records the visibility mode.
func (b *Builder) Visibility(v mode.Visibility) *Builder {
	b.q.visibility = v
	return b
}

// Build returns an immutable snapshot of the accumulated parts.
func (b *Builder) Build() *Compiled {
	out := b.q
	out.scope = clone(b.q.scope)
	out.fields = clone(b.q.fields)
	out.sorts = clone(b.q.sorts)
	out.facets = clone(b.q.facets)
	out.params = clone(b.q.params)
	out.localParams.Params = clone(b.q.localParams.Params)
	if b.q.start != nil {
		s := *b.q.start
		out.start = &s
	}
	out.grouping = b.q.Grouping()
	out.highlight = b.q.Highlight()
	return &out
}

func setParam(ps []Param, key, value string) []Param {
	for i := range ps {
		if ps[i].Key == key {
			ps[i].Value = value
			return ps
		}
	}
	return append(ps, Param{Key: key, Value: value})
}

func contains(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
