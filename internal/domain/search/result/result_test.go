package result

import "testing"

func TestNewFlat(t *testing.T) {
	b := NewFlat(2, []Hit[string]{{Document: "a", Score: 1.5}, {Document: "b", Score: 0.5}}, Extras{Collation: "fixed"})

	if b.Kind() != KindFlat {
		t.Errorf("Kind = %v", b.Kind())
	}
	if b.TotalCount() != 2 {
		t.Errorf("TotalCount = %d", b.TotalCount())
	}
	if b.Collation() != "fixed" {
		t.Errorf("Collation = %q", b.Collation())
	}
	if _, ok := b.Grouped(); ok {
		t.Error("flat bundle should not report groups")
	}
	var docs []string
	for d := range b.Documents() {
		docs = append(docs, d)
	}
	if len(docs) != 2 || docs[0] != "a" || docs[1] != "b" {
		t.Errorf("Documents = %v", docs)
	}
}

func TestNewGrouped(t *testing.T) {
	g := GroupedResults[string]{
		Field:   "_template",
		Matches: 3,
		Groups: []Group[string]{
			{Value: "x", Count: 2, Hits: Sequence[Hit[string]]{{Document: "a"}, {Document: "b"}}},
			{Value: "y", Count: 1, Hits: Sequence[Hit[string]]{{Document: "c"}}},
		},
	}
	b := NewGrouped(3, g, Extras{})

	if b.Kind() != KindGrouped {
		t.Errorf("Kind = %v", b.Kind())
	}
	got, ok := b.Grouped()
	if !ok || len(got.Groups) != 2 {
		t.Fatalf("Grouped = %+v, %v", got, ok)
	}
	hits := b.Hits()
	if hits.Len() != 3 {
		t.Fatalf("Hits len = %d", hits.Len())
	}
	if last, _ := hits.Last(); last.Document != "c" {
		t.Errorf("last hit = %q", last.Document)
	}
}

func TestFacetResults_Category(t *testing.T) {
	f := FacetResults{Categories: []FacetCategory{{Name: "color", Values: []FacetValue{{"red", 2}}}}}
	if c, ok := f.Category("color"); !ok || c.Values[0].Count != 2 {
		t.Errorf("Category(color) = %+v, %v", c, ok)
	}
	if _, ok := f.Category("size"); ok {
		t.Error("unexpected category")
	}
	if (FacetResults{}).IsEmpty() != true {
		t.Error("zero FacetResults should be empty")
	}
}
