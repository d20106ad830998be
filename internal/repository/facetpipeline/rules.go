// Package facetpipeline post-processes raw facet buckets with configured
// relabel and merge rules.
package facetpipeline

import (
	"slices"

	"github.com/kailas-cloud/solrdex/internal/db"
	"github.com/kailas-cloud/solrdex/internal/domain/search/query"
)

// Merge folds several categories into one.
type Merge struct {
	Into string   `yaml:"into"`
	From []string `yaml:"from"`
}

// Rules is the configured facet-processing capability.
// Label remaps run first, then merges, then category renames.
type Rules struct {
	// Labels maps category -> engine label -> display label. Buckets that
	// end up with the same label are summed.
	Labels map[string]map[string]string `yaml:"labels"`
	Merges []Merge                      `yaml:"merges"`
	// Renames maps category -> new category name.
	Renames map[string]string `yaml:"renames"`
}

// IsEmpty reports whether no rule is configured.
func (r *Rules) IsEmpty() bool {
	return r == nil || (len(r.Labels) == 0 && len(r.Merges) == 0 && len(r.Renames) == 0)
}

// Process applies the rules. The input is not modified.
func (r *Rules) Process(categories []db.FacetField, _ []query.Facet) []db.FacetField {
	if r.IsEmpty() {
		return categories
	}
	out := make([]db.FacetField, 0, len(categories))
	for _, c := range categories {
		out = append(out, db.FacetField{Name: c.Name, Buckets: r.relabel(c)})
	}
	for _, m := range r.Merges {
		out = merge(out, m)
	}
	for i := range out {
		if name, ok := r.Renames[out[i].Name]; ok {
			out[i].Name = name
		}
	}
	return out
}

// CategoryName follows key through the merges and renames Process applies.
func (r *Rules) CategoryName(key string) string {
	if r == nil {
		return key
	}
	for _, m := range r.Merges {
		if slices.Contains(m.From, key) {
			key = m.Into
		}
	}
	if name, ok := r.Renames[key]; ok {
		return name
	}
	return key
}

func (r *Rules) relabel(c db.FacetField) []db.Bucket {
	labels, ok := r.Labels[c.Name]
	if !ok {
		return append([]db.Bucket(nil), c.Buckets...)
	}
	renamed := make([]db.Bucket, 0, len(c.Buckets))
	for _, b := range c.Buckets {
		if l, ok := labels[b.Value]; ok {
			b.Value = l
		}
		renamed = append(renamed, b)
	}
	return sumByValue(renamed)
}

// merge replaces the From categories with one Into category at the position
// of the first one present.
func merge(in []db.FacetField, m Merge) []db.FacetField {
	from := make(map[string]bool, len(m.From))
	for _, f := range m.From {
		from[f] = true
	}
	var (
		out    = make([]db.FacetField, 0, len(in))
		merged []db.Bucket
		pos    = -1
	)
	for _, c := range in {
		if !from[c.Name] {
			out = append(out, c)
			continue
		}
		if pos < 0 {
			pos = len(out)
			out = append(out, db.FacetField{Name: m.Into})
		}
		merged = append(merged, c.Buckets...)
	}
	if pos >= 0 {
		out[pos].Buckets = sumByValue(merged)
	}
	return out
}

// sumByValue collapses buckets with equal values, keeping first-seen order.
func sumByValue(in []db.Bucket) []db.Bucket {
	idx := make(map[string]int, len(in))
	out := make([]db.Bucket, 0, len(in))
	for _, b := range in {
		if i, ok := idx[b.Value]; ok {
			out[i].Count += b.Count
			continue
		}
		idx[b.Value] = len(out)
		out = append(out, b)
	}
	return out
}
