// Package mapper turns a raw engine response into a typed, visibility-filtered
// result bundle.
package mapper

import (
	"context"

	"github.com/kailas-cloud/solrdex/internal/db"
	"github.com/kailas-cloud/solrdex/internal/domain/search/raw"
	"github.com/kailas-cloud/solrdex/internal/domain/search/result"
	"github.com/kailas-cloud/solrdex/internal/metrics"
)

// Mapper holds the collaborators shared by every mapping call.
type Mapper struct {
	oracle    Oracle
	formatter FacetFormatter
}

// New creates a mapper.
func New(oracle Oracle, formatter FacetFormatter) *Mapper {
	return &Mapper{oracle: oracle, formatter: formatter}
}

// Map builds the result bundle for resp. Visibility is reconciled before
// anything is counted or projected.
func Map[T any](ctx context.Context, m *Mapper, resp *db.SelectResponse, meta Meta, p Projector[T]) result.Bundle[T] {
	if resp == nil {
		resp = db.EmptyResponse()
	}

	total := resp.NumFound
	docs, removed := m.reconcile(ctx, resp.Docs, meta)
	total -= removed

	extras := result.Extras{
		Facets:     m.facets(resp, meta),
		Collation:  collation(resp.SpellCheck, meta.LegacyCollation),
		Highlights: result.Highlights(resp.Highlighting),
	}

	if !meta.Grouped && len(resp.Grouped) == 0 {
		return result.NewFlat(total, project(docs, meta, p), extras)
	}

	var grouped result.GroupedResults[T]
	for i, gf := range resp.Grouped {
		total += gf.Matches
		out := result.GroupedResults[T]{Field: gf.Field, Matches: gf.Matches, NGroups: gf.NGroups}
		for _, g := range gf.Groups {
			kept, n := m.reconcile(ctx, g.Docs, meta)
			total -= n
			out.Groups = append(out.Groups, result.Group[T]{
				Value: g.Value,
				Count: g.NumFound - n,
				Hits:  project(kept, meta, p),
			})
		}
		if i == 0 {
			grouped = out
		}
	}
	return result.NewGrouped(total, grouped, extras)
}

// reconcile drops documents the oracle hides and returns how many it removed.
// Documents without a unique id are never checked.
func (m *Mapper) reconcile(ctx context.Context, docs []raw.Document, meta Meta) ([]raw.Document, int) {
	if !meta.Visibility.Checks() || m.oracle == nil {
		return docs, 0
	}
	kept := make([]raw.Document, 0, len(docs))
	for _, d := range docs {
		id, ok := d.UniqueID()
		if ok && !m.oracle.IsVisible(ctx, id, d.DataSource()) {
			continue
		}
		kept = append(kept, d)
	}
	removed := len(docs) - len(kept)
	if removed > 0 {
		metrics.DocumentsHiddenTotal.Add(float64(removed))
	}
	return kept, removed
}

func project[T any](docs []raw.Document, meta Meta, p Projector[T]) []result.Hit[T] {
	hits := make([]result.Hit[T], 0, len(docs))
	for _, d := range docs {
		hits = append(hits, result.Hit[T]{
			Document: p.Project(d, meta.Fields, meta.Visibility),
			Score:    d.Score(),
		})
	}
	return hits
}
