package mapper

import (
	"sort"
	"time"

	"github.com/kailas-cloud/solrdex/internal/db"
	"github.com/kailas-cloud/solrdex/internal/domain/search/result"
)

// dateBucketLabel formats range facet buckets.
const dateBucketLabel = "January, 2006"

// facets merges field facets, flattened pivots and flattened date ranges,
// then hands them to the formatter.
func (m *Mapper) facets(resp *db.SelectResponse, meta Meta) result.FacetResults {
	categories := extractFacets(resp)
	if len(categories) == 0 {
		return result.FacetResults{}
	}
	if m.formatter == nil {
		return passthrough(categories)
	}
	return m.formatter.Format(categories, meta.Facets)
}

func passthrough(categories []db.FacetField) result.FacetResults {
	out := result.FacetResults{Categories: make([]result.FacetCategory, 0, len(categories))}
	for _, c := range categories {
		values := make([]result.FacetValue, 0, len(c.Buckets))
		for _, b := range c.Buckets {
			values = append(values, result.FacetValue{Name: b.Value, Count: b.Count})
		}
		out.Categories = append(out.Categories, result.FacetCategory{Name: c.Name, Values: values})
	}
	return out
}

func extractFacets(resp *db.SelectResponse) []db.FacetField {
	out := make([]db.FacetField, 0, len(resp.FacetFields)+len(resp.FacetPivots)+len(resp.FacetRanges))
	out = append(out, resp.FacetFields...)
	for _, p := range resp.FacetPivots {
		out = upsert(out, db.FacetField{Name: p.Name, Buckets: flattenPivots(p.Nodes, "")})
	}
	for _, r := range resp.FacetRanges {
		out = upsert(out, db.FacetField{Name: r.Name, Buckets: flattenDates(r.Buckets)})
	}
	return out
}

// upsert replaces a category of the same name in place or appends it.
func upsert(categories []db.FacetField, c db.FacetField) []db.FacetField {
	for i := range categories {
		if categories[i].Name == c.Name {
			categories[i] = c
			return categories
		}
	}
	return append(categories, c)
}

// flattenPivots emits "{parent}/{value}" leaves. Root nodes emit nothing
// themselves; children are flattened under their own node's value.
// Identical label/count pairs are emitted once.
func flattenPivots(nodes []db.PivotNode, parent string) []db.Bucket {
	var out []db.Bucket
	seen := make(map[db.Bucket]bool)
	var walk func(nodes []db.PivotNode, parent string)
	walk = func(nodes []db.PivotNode, parent string) {
		for _, n := range nodes {
			if parent != "" {
				b := db.Bucket{Value: parent + "/" + n.Value, Count: n.Count}
				if !seen[b] {
					seen[b] = true
					out = append(out, b)
				}
			}
			if len(n.Children) > 0 {
				walk(n.Children, n.Value)
			}
		}
	}
	walk(nodes, parent)
	return out
}

// flattenDates relabels range buckets as "{Month}, {Year}", most recent
// first. Labels that are not dates keep their position after the dated ones.
func flattenDates(buckets []db.Bucket) []db.Bucket {
	type dated struct {
		at     time.Time
		ok     bool
		bucket db.Bucket
	}
	items := make([]dated, 0, len(buckets))
	for _, b := range buckets {
		at, err := time.Parse(time.RFC3339, b.Value)
		if err != nil {
			items = append(items, dated{bucket: b})
			continue
		}
		items = append(items, dated{at: at, ok: true, bucket: db.Bucket{Value: at.UTC().Format(dateBucketLabel), Count: b.Count}})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].ok != items[j].ok {
			return items[i].ok
		}
		return items[i].at.After(items[j].at)
	})
	out := make([]db.Bucket, 0, len(items))
	for _, it := range items {
		out = append(out, it.bucket)
	}
	return out
}
