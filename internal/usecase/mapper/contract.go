package mapper

import (
	"context"

	"github.com/kailas-cloud/solrdex/internal/db"
	"github.com/kailas-cloud/solrdex/internal/domain/search/mode"
	"github.com/kailas-cloud/solrdex/internal/domain/search/query"
	"github.com/kailas-cloud/solrdex/internal/domain/search/raw"
	"github.com/kailas-cloud/solrdex/internal/domain/search/result"
)

// Oracle decides per-document visibility.
type Oracle interface {
	IsVisible(ctx context.Context, uniqueID, dataSourceID string) bool
}

// FacetFormatter shapes extracted facet buckets into categories.
type FacetFormatter interface {
	Format(categories []db.FacetField, requests []query.Facet) result.FacetResults
}

// Projector turns a surviving raw document into a typed result.
type Projector[T any] interface {
	Project(doc raw.Document, fields []string, v mode.Visibility) T
}

// ProjectorFunc adapts a function to Projector.
type ProjectorFunc[T any] func(doc raw.Document, fields []string, v mode.Visibility) T

// Project calls f.
func (f ProjectorFunc[T]) Project(doc raw.Document, fields []string, v mode.Visibility) T {
	return f(doc, fields, v)
}

// Meta is what the mapper needs to know about the originating query.
type Meta struct {
	Fields     []string
	Facets     []query.Facet
	Visibility mode.Visibility
	Grouped    bool
	// LegacyCollation enables the raw-collation regex fallback.
	LegacyCollation bool
}

// MetaFor derives mapping metadata from a compiled query.
func MetaFor(q *query.Compiled) Meta {
	return Meta{
		Fields:     q.Fields(),
		Facets:     q.Facets(),
		Visibility: q.Visibility(),
		Grouped:    q.Grouping() != nil,
	}
}
