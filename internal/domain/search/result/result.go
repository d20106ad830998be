// Package result holds the typed, visibility-filtered outcome of a search.
package result

import "iter"

// Kind tags the shape of a Bundle.
type Kind int

const (
	// KindFlat is a plain ranked list of hits.
	KindFlat Kind = iota
	// KindGrouped clusters hits by a field value.
	KindGrouped
)

// Hit is one typed document with its relevance score.
type Hit[T any] struct {
	Document T
	Score    float64
}

// Group is one cluster of a grouped search.
type Group[T any] struct {
	Value string
	// Count is the number of documents in the group after visibility filtering.
	Count int
	Hits  Sequence[Hit[T]]
}

// GroupedResults is the grouping tree of a grouped search.
type GroupedResults[T any] struct {
	Field   string
	Matches int
	// NGroups is the number of distinct groups, when the engine reported it.
	NGroups *int
	Groups  []Group[T]
}

// Highlights maps document unique id to field to snippets.
type Highlights map[string]map[string][]string

// Extras are the optional parts carried by either bundle variant.
type Extras struct {
	Facets     FacetResults
	Collation  string
	Highlights Highlights
}

// Bundle is the result of one search. Construct with NewFlat or NewGrouped.
type Bundle[T any] struct {
	kind    Kind
	total   int
	hits    Sequence[Hit[T]]
	grouped *GroupedResults[T]
	extras  Extras
}

// NewFlat creates a flat bundle.
func NewFlat[T any](total int, hits []Hit[T], extras Extras) Bundle[T] {
	return Bundle[T]{kind: KindFlat, total: total, hits: hits, extras: extras}
}

// NewGrouped creates a grouped bundle.
func NewGrouped[T any](total int, grouped GroupedResults[T], extras Extras) Bundle[T] {
	return Bundle[T]{kind: KindGrouped, total: total, grouped: &grouped, extras: extras}
}

// Kind returns the variant tag.
func (b Bundle[T]) Kind() Kind { return b.kind }

// TotalCount returns the total matches after visibility reconciliation.
func (b Bundle[T]) TotalCount() int { return b.total }

// Hits returns the flat hits. Grouped bundles flatten their groups in order.
func (b Bundle[T]) Hits() Sequence[Hit[T]] {
	if b.kind == KindGrouped && b.grouped != nil {
		var all Sequence[Hit[T]]
		for _, g := range b.grouped.Groups {
			all = append(all, g.Hits...)
		}
		return all
	}
	return b.hits
}

// Documents yields the typed documents in rank order.
func (b Bundle[T]) Documents() iter.Seq[T] {
	hits := b.Hits()
	return func(yield func(T) bool) {
		for _, h := range hits {
			if !yield(h.Document) {
				return
			}
		}
	}
}

// Grouped returns the grouping tree of a grouped bundle.
func (b Bundle[T]) Grouped() (*GroupedResults[T], bool) {
	if b.kind != KindGrouped || b.grouped == nil {
		return nil, false
	}
	return b.grouped, true
}

// Facets returns the facet categories.
func (b Bundle[T]) Facets() FacetResults { return b.extras.Facets }

// Collation returns the spell-check corrected query, or "".
func (b Bundle[T]) Collation() string { return b.extras.Collation }

// Highlights returns the per-document snippet map.
func (b Bundle[T]) Highlights() Highlights { return b.extras.Highlights }
