package solrdex

import (
	"github.com/kailas-cloud/solrdex/internal/domain/search/result"
	"github.com/kailas-cloud/solrdex/internal/repository/projection"
)

// Item is the default projection of an indexed Sitecore item.
type Item = projection.Item

// FacetResults holds the formatted facet categories of a search.
type FacetResults = result.FacetResults

// FacetCategory is one facet dimension with its buckets.
type FacetCategory = result.FacetCategory

// FacetValue is one facet bucket.
type FacetValue = result.FacetValue

// Highlights maps unique id to field to snippets.
type Highlights = result.Highlights

// Hit is one scored result.
type Hit[T any] struct {
	Item  T
	Score float64
}

// Group is one cluster of a grouped search.
type Group[T any] struct {
	Value string
	Count int
	Hits  []Hit[T]
}

// Results is a materialized search. Groups is set only for grouped searches,
// in which case Hits lists every group member in order.
type Results[T any] struct {
	Total      int
	Hits       []Hit[T]
	Groups     []Group[T]
	Facets     FacetResults
	Collation  string
	Highlights Highlights
}

func fromBundle[T any](b result.Bundle[T]) Results[T] {
	r := Results[T]{
		Total:      b.TotalCount(),
		Hits:       fromHits(b.Hits()),
		Facets:     b.Facets(),
		Collation:  b.Collation(),
		Highlights: b.Highlights(),
	}
	if g, ok := b.Grouped(); ok {
		r.Groups = make([]Group[T], 0, len(g.Groups))
		for _, grp := range g.Groups {
			r.Groups = append(r.Groups, Group[T]{
				Value: grp.Value,
				Count: grp.Count,
				Hits:  fromHits(grp.Hits),
			})
		}
	}
	return r
}

func fromHits[T any](hits result.Sequence[result.Hit[T]]) []Hit[T] {
	out := make([]Hit[T], 0, hits.Len())
	for h := range hits.All() {
		out = append(out, Hit[T]{Item: h.Document, Score: h.Score})
	}
	return out
}
