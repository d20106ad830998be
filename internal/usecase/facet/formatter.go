// Package facet turns raw facet buckets into caller-facing categories.
package facet

import (
	"strings"

	"github.com/kailas-cloud/solrdex/internal/db"
	"github.com/kailas-cloud/solrdex/internal/domain/search/query"
	"github.com/kailas-cloud/solrdex/internal/domain/search/result"
)

// Formatter implements the facet formatting step of result mapping.
type Formatter struct {
	processor Processor
	names     FieldNames
}

// New creates a formatter. processor may be nil.
func New(processor Processor, names FieldNames) *Formatter {
	return &Formatter{processor: processor, names: names}
}

// Format processes buckets, applies per-request allow-lists and strips
// decorations from category names. Category order is that of the processed
// input.
func (f *Formatter) Format(categories []db.FacetField, requests []query.Facet) result.FacetResults {
	if f.processor != nil {
		categories = f.processor.Process(categories, requests)
	}
	categories = applyAllowLists(categories, requests, f.renamer())

	out := result.FacetResults{Categories: make([]result.FacetCategory, 0, len(categories))}
	for _, c := range categories {
		values := make([]result.FacetValue, 0, len(c.Buckets))
		for _, b := range c.Buckets {
			values = append(values, result.FacetValue{Name: b.Value, Count: b.Count})
		}
		out.Categories = append(out.Categories, result.FacetCategory{Name: f.categoryName(c.Name), Values: values})
	}
	return out
}

func (f *Formatter) categoryName(key string) string {
	if strings.Contains(key, ",") {
		return f.names.StripDecorations(splitNonEmpty(key)...)
	}
	return f.names.StripDecorations(key)
}

// renamer maps a request key to its processed category name.
func (f *Formatter) renamer() func(string) string {
	if r, ok := f.processor.(CategoryRenamer); ok {
		return r.CategoryName
	}
	return func(key string) string { return key }
}

// applyAllowLists filters the buckets of every category whose request
// declared FilterValues. Requests merged into one category share the union
// of their lists.
func applyAllowLists(categories []db.FacetField, requests []query.Facet, rename func(string) string) []db.FacetField {
	allow := make(map[string]map[string]bool)
	for _, r := range requests {
		if len(r.FilterValues) == 0 {
			continue
		}
		name := rename(r.Key())
		set, ok := allow[name]
		if !ok {
			set = make(map[string]bool, len(r.FilterValues))
			allow[name] = set
		}
		for _, v := range r.FilterValues {
			set[v] = true
		}
	}
	if len(allow) == 0 {
		return categories
	}

	out := make([]db.FacetField, 0, len(categories))
	for _, c := range categories {
		set, ok := allow[c.Name]
		if !ok {
			out = append(out, c)
			continue
		}
		kept := make([]db.Bucket, 0, len(c.Buckets))
		for _, b := range c.Buckets {
			if set[b.Value] {
				kept = append(kept, b)
			}
		}
		out = append(out, db.FacetField{Name: c.Name, Buckets: kept})
	}
	return out
}

func splitNonEmpty(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
