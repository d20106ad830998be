package search

import (
	"strconv"
	"strings"

	"github.com/kailas-cloud/solrdex/internal/db"
	"github.com/kailas-cloud/solrdex/internal/domain/search/filter"
	"github.com/kailas-cloud/solrdex/internal/domain/search/query"
)

// matchAll is the query sent when the base predicate is empty.
const matchAll = "*:*"

// Lucene query syntax characters that must be escaped. Wildcard values
// keep '*' and '?' live.
const (
	specialChars         = `+-&|!(){}[]^"~*?:\/`
	wildcardSpecialChars = `+-&|!(){}[]^"~:\/`
)

// Render serializes a compiled query into the engine wire form. Parameter
// order is stable so identical queries produce identical requests.
func Render(q *query.Compiled) *db.SelectRequest {
	w := &paramWriter{}

	if fields := q.Fields(); len(fields) > 0 {
		w.add("fl", strings.Join(fields, ","))
	}
	if sorts := q.Sorts(); len(sorts) > 0 {
		parts := make([]string, 0, len(sorts))
		for _, s := range sorts {
			parts = append(parts, s.Field+" "+s.Direction.String())
		}
		w.add("sort", strings.Join(parts, ","))
	}
	if start, ok := q.Start(); ok {
		w.add("start", strconv.Itoa(start))
	}
	w.add("rows", strconv.Itoa(q.Rows()))

	expr := q.Filter()
	for _, c := range expr.Must() {
		w.add("fq", renderClause(c))
	}
	for _, c := range expr.MustNot() {
		w.add("fq", "-"+renderClause(c))
	}
	for _, c := range q.Scope() {
		w.add("fq", renderClause(c))
	}

	renderFacets(w, q.Facets(), q.DateRange())

	if g := q.Grouping(); g != nil {
		w.add("group", "true")
		w.add("group.field", g.Field)
		if g.Format != "" {
			w.add("group.format", g.Format)
		}
		w.add("group.limit", strconv.Itoa(g.Limit))
		if g.NGroups {
			w.add("group.ngroups", "true")
		}
	}

	if h := q.Highlight(); h != nil {
		w.add("hl", "true")
		if len(h.Fields) > 0 {
			w.add("hl.fl", strings.Join(h.Fields, ","))
		}
		w.add("hl.snippets", strconv.Itoa(h.Snippets))
		if h.Fragmenter != "" {
			w.add("hl.fragmenter", h.Fragmenter)
		}
		if h.Pattern != "" {
			w.add("hl.regex.pattern", h.Pattern)
		}
		w.add("hl.fragsize", strconv.Itoa(h.FragSize))
		w.add("hl.regex.slop", strconv.FormatFloat(h.Slop, 'f', -1, 64))
	}

	sc := q.SpellCheck()
	if sc.Enabled() {
		w.add("spellcheck", "true")
		w.add("spellcheck.collate", "true")
		if sc.Query != "" {
			w.add("spellcheck.q", sc.Query)
		}
	} else {
		w.add("spellcheck.collate", "false")
	}
	w.add("spellcheck.count", strconv.Itoa(sc.Count))

	for _, p := range q.Params() {
		w.add(p.Key, p.Value)
	}

	return &db.SelectRequest{
		Query:  q.LocalParams().String() + renderBase(q.Base()),
		Params: w.params,
	}
}

type paramWriter struct {
	params []db.Param
}

func (w *paramWriter) add(key, value string) {
	w.params = append(w.params, db.Param{Key: key, Value: value})
}

func renderFacets(w *paramWriter, facets []query.Facet, dr query.DateRange) {
	if len(facets) == 0 {
		return
	}
	w.add("facet", "true")
	for _, f := range facets {
		key := f.Key()
		switch f.Kind {
		case query.FacetPivot:
			w.add("facet.pivot", key)
			// Scoped per field so pivots with different thresholds do not
			// override each other. A field shared by two pivots keeps the
			// first threshold.
			if f.MinCount != nil {
				for _, field := range f.Fields {
					w.add("f."+field+".facet.pivot.mincount", strconv.Itoa(*f.MinCount))
				}
			}
		case query.FacetDateRange:
			w.add("facet.range", key)
			w.add("f."+key+".facet.range.start", dr.Start)
			w.add("f."+key+".facet.range.end", dr.End)
			w.add("f."+key+".facet.range.gap", dr.Gap)
			if f.MinCount != nil {
				w.add("f."+key+".facet.mincount", strconv.Itoa(*f.MinCount))
			}
		default:
			w.add("facet.field", key)
			if f.MinCount != nil {
				w.add("f."+key+".facet.mincount", strconv.Itoa(*f.MinCount))
			}
		}
	}
}

// renderBase renders free text over the content field ANDed with the base
// expression, or match-all when there is nothing to match.
func renderBase(b query.Base) string {
	var parts []string
	if text := strings.TrimSpace(b.Text); text != "" {
		parts = append(parts, b.Field+":("+escapeText(text)+")")
	}
	for _, c := range b.Expression.Must() {
		parts = append(parts, renderClause(c))
	}
	negated := b.Expression.MustNot()
	if len(parts) == 0 && len(negated) > 0 {
		parts = append(parts, matchAll)
	}
	for _, c := range negated {
		parts = append(parts, "-"+renderClause(c))
	}
	if len(parts) == 0 {
		return matchAll
	}
	return strings.Join(parts, " AND ")
}

// renderClause renders a disjunction; single-term clauses are not parenthesized.
func renderClause(c filter.Clause) string {
	terms := c.Terms()
	if len(terms) == 1 {
		return renderTerm(terms[0])
	}
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		parts = append(parts, renderTerm(t))
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

func renderTerm(t filter.Term) string {
	if t.Quoted() {
		return t.Field() + ":" + quote(t.Value())
	}
	return t.Field() + ":" + escapeWildcard(t.Value())
}

// quote wraps v in double quotes, escaping quotes and backslashes.
func quote(v string) string {
	var sb strings.Builder
	sb.Grow(len(v) + 2)
	sb.WriteByte('"')
	for _, r := range v {
		if r == '"' || r == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	sb.WriteByte('"')
	return sb.String()
}

// escapeText escapes query syntax in free text, keeping whitespace so the
// engine still splits it into terms.
func escapeText(v string) string {
	return escape(v, specialChars, false)
}

// escapeWildcard escapes an unquoted single-term value.
func escapeWildcard(v string) string {
	return escape(v, wildcardSpecialChars, true)
}

func escape(v, special string, escapeSpace bool) string {
	var sb strings.Builder
	sb.Grow(len(v))
	for _, r := range v {
		if strings.ContainsRune(special, r) || (escapeSpace && r == ' ') {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
