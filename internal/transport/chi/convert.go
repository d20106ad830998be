package chi

import (
	"github.com/kailas-cloud/solrdex/internal/domain/search/criteria"
	"github.com/kailas-cloud/solrdex/internal/domain/search/mode"
	"github.com/kailas-cloud/solrdex/internal/domain/search/operation"
	"github.com/kailas-cloud/solrdex/internal/domain/search/request"
	"github.com/kailas-cloud/solrdex/internal/domain/search/result"
	"github.com/kailas-cloud/solrdex/internal/repository/projection"
)

// Bundle kinds as reported in SearchResponse.Kind.
const (
	kindFlat    = "flat"
	kindGrouped = "grouped"
)

func searchRequestFromAPI(req SearchRequest) (request.Request, error) {
	c := criteria.Criteria{
		Text:            req.Text,
		BaseTemplateIDs: req.BaseTemplateIDs,
		Filters:         filtersFromAPI(req.Filters),
		ExcludeFilters:  filtersFromAPI(req.ExcludeFilters),
		NegatedFilters:  filtersFromAPI(req.NegatedFilters),
		ItemID:          req.ItemID,
		TemplateID:      req.TemplateID,
		PageNumber:      req.Page,
		PageSize:        req.PageSize,
	}

	sorts := make([]request.Sort, 0, len(req.Sort))
	for _, s := range req.Sort {
		sorts = append(sorts, request.Sort{Field: s.Field, Descending: s.Descending})
	}

	facets := make([]operation.FacetRequest, 0, len(req.Facets))
	for _, f := range req.Facets {
		facets = append(facets, operation.FacetRequest{
			Fields:       f.Fields,
			MinCount:     f.MinCount,
			FilterValues: f.FilterValues,
			Date:         f.Date,
		})
	}

	return request.New(c, request.Options{
		Fields:     req.Fields,
		Sorts:      sorts,
		Facets:     facets,
		Highlight:  req.Highlight,
		SpellCheck: req.SpellCheck,
		Boost:      mode.Boost(req.Boost),
		Operator:   mode.Operator(req.Operator),
		Language:   req.Language,
		Visibility: mode.Visibility(req.Visibility),
	})
}

func filtersFromAPI(entries []FilterEntry) criteria.Filters {
	if len(entries) == 0 {
		return nil
	}
	fs := make(criteria.Filters, 0, len(entries))
	for _, e := range entries {
		fs = fs.Add(e.Key, e.Values...)
	}
	return fs
}

func bundleToAPI(b result.Bundle[projection.Item]) SearchResponse {
	resp := SearchResponse{
		Kind:      kindFlat,
		Total:     b.TotalCount(),
		Hits:      hitsToAPI(b.Hits()),
		Collation: b.Collation(),
	}
	if g, ok := b.Grouped(); ok {
		resp.Kind = kindGrouped
		resp.Grouping = groupingToAPI(g)
	}
	if f := b.Facets(); !f.IsEmpty() {
		resp.Facets = &f
	}
	if hl := b.Highlights(); len(hl) > 0 {
		resp.Highlights = hl
	}
	return resp
}

func hitsToAPI(hits result.Sequence[result.Hit[projection.Item]]) []Hit {
	out := make([]Hit, 0, hits.Len())
	for h := range hits.All() {
		out = append(out, Hit{Document: h.Document, Score: h.Score})
	}
	return out
}

func groupingToAPI(g *result.GroupedResults[projection.Item]) *Grouping {
	out := &Grouping{
		Field:   g.Field,
		Matches: g.Matches,
		NGroups: g.NGroups,
		Groups:  make([]Group, 0, len(g.Groups)),
	}
	for _, grp := range g.Groups {
		out.Groups = append(out.Groups, Group{
			Value: grp.Value,
			Count: grp.Count,
			Hits:  hitsToAPI(grp.Hits),
		})
	}
	return out
}
