// Package compiler folds abstract query operations and criteria into an
// engine-ready query.
package compiler

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/kailas-cloud/solrdex/internal/domain"
	"github.com/kailas-cloud/solrdex/internal/domain/search/criteria"
	"github.com/kailas-cloud/solrdex/internal/domain/search/filter"
	"github.com/kailas-cloud/solrdex/internal/domain/search/mode"
	"github.com/kailas-cloud/solrdex/internal/domain/search/operation"
	"github.com/kailas-cloud/solrdex/internal/domain/search/query"
	"github.com/kailas-cloud/solrdex/internal/domain/search/raw"
	"github.com/kailas-cloud/solrdex/internal/domain/search/value"
)

// Engine field names the compiler targets directly.
const (
	fieldBaseTemplates = "_basetemplates"
	fieldGroup         = "_group"
)

// Spell-check suggestion count when collation is on.
const spellCheckCount = 5

// boostMostRecent decays relevance by roughly one year (3.16e-11 per ms).
const boostMostRecent = "recip(ms(NOW,%s),3.16e-11,1,1)"

// Compiler implements the query compiler.
type Compiler struct {
	settings Settings
	names    FieldNames
}

// New creates a compiler.
func New(settings Settings, names FieldNames) *Compiler {
	return &Compiler{settings: settings, names: names}
}

// fold is the single-pass aggregate of the operation list.
type fold struct {
	selected   []string
	hasSelect  bool
	getResults bool
	getFacets  bool
	sorts      []query.Sort
	skip, take *int
	shortcut   bool
	group      *operation.GroupBy
	spell      *operation.CheckSpelling
}

// Compile folds in into an immutable query. Malformed input fails with an
// error wrapping domain.ErrInvalidOperation or domain.ErrInvalidCriteria.
func (c *Compiler) Compile(in Input) (*query.Compiled, error) {
	ops := in.Operations
	if in.Criteria.HasPaging() && !loneCountOrAny(ops) {
		ops = append(append([]operation.Operation(nil), ops...),
			operation.Skip{Count: in.Criteria.Skip()},
			operation.Take{Count: in.Criteria.PageSize})
	}

	f, err := foldOperations(ops)
	if err != nil {
		return nil, err
	}

	b := query.NewBuilder(c.settings.MaxResults).Visibility(in.Options.Visibility)

	base, err := c.base(in.Criteria)
	if err != nil {
		return nil, err
	}
	b.Base(base)

	expr, err := filterExpression(in.Criteria)
	if err != nil {
		return nil, err
	}
	b.Filter(expr)

	c.projection(b, f, in.Options.Visibility)

	for _, s := range f.sorts {
		b.Sort(s.Field, s.Direction)
	}
	if f.skip != nil {
		b.AddStart(*f.skip)
	}
	if f.take != nil {
		b.Rows(*f.take)
	}
	if f.shortcut {
		b.Rows(0)
	}

	if len(in.Facets) > 0 && (f.getFacets || f.getResults) {
		for _, req := range in.Facets {
			c.facet(b, req)
		}
		if !f.getResults {
			b.Rows(0)
		}
	}

	if err := c.scope(b, in.Options.Culture); err != nil {
		return nil, err
	}

	if f.group != nil {
		b.Group(query.Grouping{
			Field:   f.group.Field,
			Format:  query.GroupFormatGrouped,
			Limit:   f.group.Limit,
			NGroups: true,
		})
	}

	if in.Options.Highlight {
		h := c.settings.Highlight
		b.Highlight(query.Highlight{
			Fields:     h.Fields,
			Snippets:   h.Snippets,
			Fragmenter: query.FragmenterRegex,
			Pattern:    h.Pattern,
			FragSize:   h.FragSize,
			Slop:       h.Slop,
		})
	}

	if f.spell != nil && f.spell.Text != "" {
		b.SpellCheck(query.SpellCheck{Collate: true, Query: f.spell.Text, Count: spellCheckCount})
	} else {
		b.SpellCheck(query.Disabled)
	}

	if in.Options.Boost == mode.MostRecentFirst {
		expr := fmt.Sprintf(boostMostRecent, c.settings.DateField)
		b.LocalParamsType("boost").LocalParam("b", expr)
	}

	switch in.Options.Operator {
	case mode.And:
		b.LocalParam("q.op", "AND").Param("q.op", "AND")
	case mode.Or:
		b.LocalParam("q.op", "OR").Param("q.op", "OR")
	}

	return b.Build(), nil
}

// loneCountOrAny reports whether ops is a single count or any, which
// fetches no rows whatever the paging says.
func loneCountOrAny(ops []operation.Operation) bool {
	if len(ops) != 1 {
		return false
	}
	switch ops[0].(type) {
	case operation.Count, operation.Any:
		return true
	}
	return false
}

func foldOperations(ops []operation.Operation) (fold, error) {
	var f fold
	for i, op := range ops {
		switch o := op.(type) {
		case nil:
			return fold{}, domain.NewOperationError(i, "nil", "operation is nil")
		case operation.Select:
			f.hasSelect = true
			for _, name := range o.Fields {
				if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
					f.selected = append(f.selected, name)
				}
			}
		case operation.GetResults:
			f.getResults = true
		case operation.OrderBy:
			if o.Field == "" {
				return fold{}, domain.NewOperationError(i, string(o.Kind()), "field is required")
			}
			dir := query.Ascending
			if o.Descending {
				dir = query.Descending
			}
			f.sorts = append(f.sorts, query.Sort{Field: o.Field, Direction: dir})
		case operation.Skip:
			if o.Count < 0 {
				return fold{}, domain.NewOperationError(i, string(o.Kind()), "count must not be negative")
			}
			f.skip = sum(f.skip, o.Count)
		case operation.Take:
			if o.Count < 0 {
				return fold{}, domain.NewOperationError(i, string(o.Kind()), "count must not be negative")
			}
			f.take = sum(f.take, o.Count)
		case operation.Count, operation.Any:
			f.shortcut = loneCountOrAny(ops)
		case operation.GetFacets:
			f.getFacets = true
		case operation.GroupBy:
			if o.Field == "" {
				return fold{}, domain.NewOperationError(i, string(o.Kind()), "field is required")
			}
			if o.Limit <= 0 {
				return fold{}, domain.NewOperationError(i, string(o.Kind()), "limit must be positive")
			}
			g := o
			f.group = &g
		case operation.CheckSpelling:
			s := o
			f.spell = &s
		default:
			return fold{}, domain.NewOperationError(i, string(op.Kind()), "unsupported operation")
		}
	}
	return f, nil
}

func sum(acc *int, n int) *int {
	if acc == nil {
		return &n
	}
	v := *acc + n
	return &v
}

// projection decides the field list. The visibility passthrough fields
// follow any explicit selection; score follows materialization or grouping.
func (c *Compiler) projection(b *query.Builder, f fold, v mode.Visibility) {
	if f.hasSelect {
		b.Fields(f.selected...)
		if v.Checks() {
			b.Fields(raw.FieldUniqueID, raw.FieldDataSource)
		}
	}
	if f.getResults || f.group != nil {
		if b.HasFields() {
			b.Fields(raw.FieldScore)
		} else {
			b.Fields("*", raw.FieldScore)
		}
	}
}

func (c *Compiler) facet(b *query.Builder, req operation.FacetRequest) {
	switch {
	case len(req.Fields) == 0:
		return
	case req.Date:
		b.Facet(query.Facet{
			Kind:         query.FacetDateRange,
			Fields:       []string{c.facetFieldName(req.Fields[0])},
			MinCount:     req.MinCount,
			FilterValues: req.FilterValues,
		})
		b.DateRange(c.settings.DateRange)
	case len(req.Fields) == 1:
		b.Facet(query.Facet{
			Kind:         query.FacetField,
			Fields:       []string{c.facetFieldName(req.Fields[0])},
			MinCount:     req.MinCount,
			FilterValues: req.FilterValues,
		})
	default:
		b.Facet(query.Facet{
			Kind:         query.FacetPivot,
			Fields:       req.Fields,
			MinCount:     req.MinCount,
			FilterValues: req.FilterValues,
		})
	}
}

// facetFieldName re-derives the engine name of a raw, unconfigured field.
// Double underscores survive; single underscores read as spaces.
func (c *Compiler) facetFieldName(name string) string {
	if c.names == nil || c.names.IsDecorated(name) || c.names.HasFieldConfiguration(name) {
		return name
	}
	normalized := strings.ReplaceAll(name, "__", "!")
	normalized = strings.ReplaceAll(normalized, "_", " ")
	normalized = strings.ReplaceAll(normalized, "!", "__")
	return c.names.ResolveFieldName(normalized)
}

// base builds the free-text predicate narrowed by template and item scoping.
func (c *Compiler) base(cr criteria.Criteria) (query.Base, error) {
	var must, mustNot []filter.Clause

	if cr.TemplateID != "" {
		cl, err := filter.AnyOf([]string{raw.FieldTemplate}, []string{value.Normalize(cr.TemplateID).String()})
		if err != nil {
			return query.Base{}, fmt.Errorf("%w: template id: %w", domain.ErrInvalidCriteria, err)
		}
		must = append(must, cl)
	}
	if len(cr.BaseTemplateIDs) > 0 {
		ids := make([]string, 0, len(cr.BaseTemplateIDs))
		for _, id := range cr.BaseTemplateIDs {
			if id != "" {
				ids = append(ids, value.Normalize(id).String())
			}
		}
		cl, err := filter.AnyOf([]string{fieldBaseTemplates}, ids)
		if err != nil {
			return query.Base{}, fmt.Errorf("%w: base template ids: %w", domain.ErrInvalidCriteria, err)
		}
		must = append(must, cl)
	}
	if cr.ItemID != "" {
		cl, err := filter.AnyOf([]string{fieldGroup}, []string{value.Normalize(cr.ItemID).String()})
		if err != nil {
			return query.Base{}, fmt.Errorf("%w: item id: %w", domain.ErrInvalidCriteria, err)
		}
		mustNot = append(mustNot, cl)
	}

	return query.Base{
		Text:       strings.TrimSpace(cr.Text),
		Field:      c.settings.ContentField,
		Expression: filter.NewExpression(must, mustNot),
	}, nil
}

// filterExpression ANDs one disjunction per filter entry. Exclude filters
// build the same inclusion disjunctions; negated filters are true exclusions.
func filterExpression(cr criteria.Criteria) (filter.Expression, error) {
	must, err := clauses(cr.Filters, "filters")
	if err != nil {
		return filter.Expression{}, err
	}
	excl, err := clauses(cr.ExcludeFilters, "exclude_filters")
	if err != nil {
		return filter.Expression{}, err
	}
	neg, err := clauses(cr.NegatedFilters, "negated_filters")
	if err != nil {
		return filter.Expression{}, err
	}
	return filter.NewExpression(append(must, excl...), neg), nil
}

func clauses(fs criteria.Filters, what string) ([]filter.Clause, error) {
	out := make([]filter.Clause, 0, len(fs))
	for i, f := range fs {
		if f.IsEmpty() {
			continue
		}
		values := make([]string, 0, len(f.Values))
		for _, v := range f.Values {
			values = append(values, value.Normalize(v).String())
		}
		cl, err := filter.AnyOf(f.Fields(), values)
		if err != nil {
			return nil, fmt.Errorf("%w: %s[%d]: %w", domain.ErrInvalidCriteria, what, i, err)
		}
		out = append(out, cl)
	}
	return out, nil
}

// scope restricts to the current index and, when the culture differs from
// the platform default, to the culture's language.
func (c *Compiler) scope(b *query.Builder, culture string) error {
	idx, err := filter.AnyOf([]string{raw.FieldIndexName}, []string{c.settings.IndexName})
	if err != nil {
		return fmt.Errorf("%w: index name: %w", domain.ErrInvalidCriteria, err)
	}
	b.Scope(idx)

	if culture == "" {
		return nil
	}
	code, err := twoLetterCode(culture)
	if err != nil {
		return fmt.Errorf("%w: culture %q: %w", domain.ErrInvalidCriteria, culture, err)
	}
	if strings.HasPrefix(strings.ToLower(c.settings.DefaultLanguage), code) {
		return nil
	}
	t, err := filter.NewUnquotedTerm(raw.FieldLanguage, code+"*")
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidCriteria, err)
	}
	cl, err := filter.NewClause(t)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidCriteria, err)
	}
	b.Scope(cl)
	return nil
}

func twoLetterCode(culture string) (string, error) {
	tag, err := language.Parse(culture)
	if err != nil {
		return "", err
	}
	base, _ := tag.Base()
	return base.String(), nil
}
