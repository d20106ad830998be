package facet

import (
	"testing"

	"github.com/kailas-cloud/solrdex/internal/db"
	"github.com/kailas-cloud/solrdex/internal/domain/search/query"
	"github.com/kailas-cloud/solrdex/internal/repository/facetpipeline"
	"github.com/kailas-cloud/solrdex/internal/repository/fieldname"
)

// mockProcessor implements Processor for tests.
type mockProcessor struct {
	processFn func(categories []db.FacetField, requests []query.Facet) []db.FacetField
}

func (m *mockProcessor) Process(categories []db.FacetField, requests []query.Facet) []db.FacetField {
	if m.processFn != nil {
		return m.processFn(categories, requests)
	}
	return categories
}

func translator() *fieldname.Translator {
	return fieldname.New(fieldname.Config{DefaultExtension: "_s"})
}

func TestFormat_StripsDecorations(t *testing.T) {
	f := New(nil, translator())
	got := f.Format([]db.FacetField{
		{Name: "category_s", Buckets: []db.Bucket{{Value: "news", Count: 3}}},
		{Name: "category_s,section_s", Buckets: []db.Bucket{{Value: "news/world", Count: 2}}},
	}, nil)

	if len(got.Categories) != 2 {
		t.Fatalf("categories = %+v", got.Categories)
	}
	if got.Categories[0].Name != "category" {
		t.Errorf("single name = %q", got.Categories[0].Name)
	}
	if got.Categories[1].Name != "category/section" {
		t.Errorf("pivot name = %q", got.Categories[1].Name)
	}
	if v := got.Categories[1].Values[0]; v.Name != "news/world" || v.Count != 2 {
		t.Errorf("pivot value = %+v", v)
	}
}

func TestFormat_AllowList(t *testing.T) {
	f := New(nil, translator())
	requests := []query.Facet{
		{Kind: query.FacetField, Fields: []string{"color_s"}, FilterValues: []string{"red", "green"}},
		{Kind: query.FacetField, Fields: []string{"size_s"}},
	}
	got := f.Format([]db.FacetField{
		{Name: "color_s", Buckets: []db.Bucket{{Value: "red", Count: 3}, {Value: "blue", Count: 2}, {Value: "green", Count: 1}}},
		{Name: "size_s", Buckets: []db.Bucket{{Value: "s", Count: 1}, {Value: "m", Count: 1}}},
	}, requests)

	color := got.Categories[0]
	if len(color.Values) != 2 || color.Values[0].Name != "red" || color.Values[1].Name != "green" {
		t.Errorf("color = %+v", color.Values)
	}
	if len(got.Categories[1].Values) != 2 {
		t.Errorf("size without allow-list should be untouched: %+v", got.Categories[1].Values)
	}
}

func TestFormat_ProcessorOrderIsKept(t *testing.T) {
	p := &mockProcessor{processFn: func(c []db.FacetField, _ []query.Facet) []db.FacetField {
		return []db.FacetField{c[1], c[0]}
	}}
	f := New(p, translator())
	got := f.Format([]db.FacetField{{Name: "a_s"}, {Name: "b_s"}}, nil)
	if got.Categories[0].Name != "b" || got.Categories[1].Name != "a" {
		t.Errorf("order = %+v", got.Categories)
	}
}

func TestFormat_WithRules(t *testing.T) {
	rules := &facetpipeline.Rules{Labels: map[string]map[string]string{"color_s": {"crimson": "red"}}}
	f := New(rules, translator())
	got := f.Format([]db.FacetField{
		{Name: "color_s", Buckets: []db.Bucket{{Value: "red", Count: 1}, {Value: "crimson", Count: 2}}},
	}, []query.Facet{{Fields: []string{"color_s"}, FilterValues: []string{"red"}}})

	if len(got.Categories[0].Values) != 1 || got.Categories[0].Values[0].Count != 3 {
		t.Errorf("values = %+v", got.Categories[0].Values)
	}
}

func TestFormat_AllowListFollowsRenames(t *testing.T) {
	rules := &facetpipeline.Rules{Renames: map[string]string{"color_s": "colour_s"}}
	f := New(rules, translator())
	got := f.Format([]db.FacetField{
		{Name: "color_s", Buckets: []db.Bucket{{Value: "red", Count: 3}, {Value: "blue", Count: 2}}},
	}, []query.Facet{{Kind: query.FacetField, Fields: []string{"color_s"}, FilterValues: []string{"red"}}})

	c := got.Categories[0]
	if c.Name != "colour" {
		t.Fatalf("name = %q", c.Name)
	}
	if len(c.Values) != 1 || c.Values[0].Name != "red" {
		t.Errorf("renamed category not filtered: %+v", c.Values)
	}
}

func TestFormat_AllowListsUnionOnMerge(t *testing.T) {
	rules := &facetpipeline.Rules{Merges: []facetpipeline.Merge{{Into: "palette_s", From: []string{"color_s", "shade_s"}}}}
	f := New(rules, translator())
	got := f.Format([]db.FacetField{
		{Name: "color_s", Buckets: []db.Bucket{{Value: "red", Count: 3}, {Value: "blue", Count: 2}}},
		{Name: "shade_s", Buckets: []db.Bucket{{Value: "green", Count: 1}, {Value: "grey", Count: 4}}},
	}, []query.Facet{
		{Kind: query.FacetField, Fields: []string{"color_s"}, FilterValues: []string{"red"}},
		{Kind: query.FacetField, Fields: []string{"shade_s"}, FilterValues: []string{"green"}},
	})

	if len(got.Categories) != 1 {
		t.Fatalf("categories = %+v", got.Categories)
	}
	values := got.Categories[0].Values
	if len(values) != 2 || values[0].Name != "red" || values[1].Name != "green" {
		t.Errorf("merged values = %+v", values)
	}
}
