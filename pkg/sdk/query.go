package solrdex

import (
	"github.com/kailas-cloud/solrdex/internal/domain/search/criteria"
	"github.com/kailas-cloud/solrdex/internal/domain/search/mode"
	"github.com/kailas-cloud/solrdex/internal/domain/search/operation"
	"github.com/kailas-cloud/solrdex/internal/domain/search/request"
)

// Query is a fluent builder for search requests. The zero value matches
// every visible item in the configured index.
type Query struct {
	c    criteria.Criteria
	opts request.Options
}

// NewQuery starts a query matching text against the content field.
// Empty text matches everything.
func NewQuery(text string) *Query {
	return &Query{c: criteria.Criteria{Text: text}}
}

// Where keeps documents whose field equals any of values. The field may
// list alternatives separated by ',' or '|'.
func (q *Query) Where(field string, values ...any) *Query {
	q.c.Filters = q.c.Filters.Add(field, values...)
	return q
}

// Not drops documents whose field equals any of values.
func (q *Query) Not(field string, values ...any) *Query {
	q.c.NegatedFilters = q.c.NegatedFilters.Add(field, values...)
	return q
}

// BasedOn keeps items deriving from any of the template ids.
func (q *Query) BasedOn(templateIDs ...string) *Query {
	q.c.BaseTemplateIDs = append(q.c.BaseTemplateIDs, templateIDs...)
	return q
}

// Template keeps items of exactly this template.
func (q *Query) Template(id string) *Query {
	q.c.TemplateID = id
	return q
}

// Excluding drops the item with this id from the results.
func (q *Query) Excluding(itemID string) *Query {
	q.c.ItemID = itemID
	return q
}

// Page selects a 1-based page of size results.
func (q *Query) Page(number, size int) *Query {
	q.c.PageNumber, q.c.PageSize = number, size
	return q
}

// Select limits the returned fields.
func (q *Query) Select(fields ...string) *Query {
	q.opts.Fields = append(q.opts.Fields, fields...)
	return q
}

// OrderBy appends an ascending ordering.
func (q *Query) OrderBy(field string) *Query {
	q.opts.Sorts = append(q.opts.Sorts, request.Sort{Field: field})
	return q
}

// OrderByDescending appends a descending ordering.
func (q *Query) OrderByDescending(field string) *Query {
	q.opts.Sorts = append(q.opts.Sorts, request.Sort{Field: field, Descending: true})
	return q
}

// Facet requests term buckets over one or more fields. Several fields
// produce a pivot.
func (q *Query) Facet(fields ...string) *Query {
	q.opts.Facets = append(q.opts.Facets, operation.FacetRequest{Fields: fields})
	return q
}

// FacetMin is Facet with a minimum bucket count.
func (q *Query) FacetMin(minCount int, fields ...string) *Query {
	q.opts.Facets = append(q.opts.Facets, operation.FacetRequest{Fields: fields, MinCount: &minCount})
	return q
}

// DateFacet requests monthly range buckets over a date field.
func (q *Query) DateFacet(field string) *Query {
	q.opts.Facets = append(q.opts.Facets, operation.FacetRequest{Fields: []string{field}, Date: true})
	return q
}

// Highlight requests content snippets per result.
func (q *Query) Highlight() *Query {
	q.opts.Highlight = true
	return q
}

// SpellCheck requests a collated correction of the text.
func (q *Query) SpellCheck() *Query {
	q.opts.SpellCheck = true
	return q
}

// MostRecentFirst boosts recently dated items.
func (q *Query) MostRecentFirst() *Query {
	q.opts.Boost = mode.MostRecentFirst
	return q
}

// MatchAll requires every text term to match.
func (q *Query) MatchAll() *Query {
	q.opts.Operator = mode.And
	return q
}

// MatchAny requires at least one text term to match.
func (q *Query) MatchAny() *Query {
	q.opts.Operator = mode.Or
	return q
}

// Language scopes the query to a BCP 47 culture, e.g. "fr-FR".
func (q *Query) Language(tag string) *Query {
	q.opts.Language = tag
	return q
}

// SkipVisibility returns hidden items too.
func (q *Query) SkipVisibility() *Query {
	q.opts.Visibility = mode.SkipVisibility
	return q
}

func (q *Query) request() (request.Request, error) {
	if q == nil {
		return request.New(criteria.Criteria{}, request.Options{})
	}
	return request.New(q.c, q.opts)
}
