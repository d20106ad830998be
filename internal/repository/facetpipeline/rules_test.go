package facetpipeline

import (
	"reflect"
	"testing"

	"github.com/kailas-cloud/solrdex/internal/db"
)

func sample() []db.FacetField {
	return []db.FacetField{
		{Name: "color_s", Buckets: []db.Bucket{{Value: "red", Count: 3}, {Value: "crimson", Count: 2}, {Value: "blue", Count: 1}}},
		{Name: "size_s", Buckets: []db.Bucket{{Value: "s", Count: 4}}},
		{Name: "shade_s", Buckets: []db.Bucket{{Value: "red", Count: 1}, {Value: "green", Count: 5}}},
	}
}

func TestProcess_NoRules(t *testing.T) {
	in := sample()
	var r *Rules
	if got := r.Process(in, nil); !reflect.DeepEqual(got, in) {
		t.Errorf("nil rules changed input: %+v", got)
	}
}

func TestProcess_LabelsSumDuplicates(t *testing.T) {
	r := &Rules{Labels: map[string]map[string]string{"color_s": {"crimson": "red"}}}
	got := r.Process(sample(), nil)
	want := []db.Bucket{{Value: "red", Count: 5}, {Value: "blue", Count: 1}}
	if !reflect.DeepEqual(got[0].Buckets, want) {
		t.Errorf("color buckets = %+v, want %+v", got[0].Buckets, want)
	}
}

func TestProcess_MergeKeepsPosition(t *testing.T) {
	r := &Rules{Merges: []Merge{{Into: "palette_s", From: []string{"color_s", "shade_s"}}}}
	got := r.Process(sample(), nil)
	if len(got) != 2 || got[0].Name != "palette_s" || got[1].Name != "size_s" {
		t.Fatalf("categories = %+v", got)
	}
	want := []db.Bucket{{Value: "red", Count: 4}, {Value: "crimson", Count: 2}, {Value: "blue", Count: 1}, {Value: "green", Count: 5}}
	if !reflect.DeepEqual(got[0].Buckets, want) {
		t.Errorf("merged buckets = %+v, want %+v", got[0].Buckets, want)
	}
}

func TestProcess_Rename(t *testing.T) {
	r := &Rules{Renames: map[string]string{"size_s": "dimension_s"}}
	got := r.Process(sample(), nil)
	if got[1].Name != "dimension_s" {
		t.Errorf("renamed = %q", got[1].Name)
	}
}

func TestProcess_DoesNotMutateInput(t *testing.T) {
	in := sample()
	r := &Rules{Labels: map[string]map[string]string{"color_s": {"red": "RED"}}}
	_ = r.Process(in, nil)
	if in[0].Buckets[0].Value != "red" {
		t.Error("input mutated")
	}
}

func TestCategoryName(t *testing.T) {
	r := &Rules{
		Merges: []Merge{
			{Into: "palette_s", From: []string{"color_s", "shade_s"}},
			{Into: "look_s", From: []string{"palette_s"}},
		},
		Renames: map[string]string{"size_s": "dimension_s", "look_s": "style_s"},
	}
	tests := []struct {
		key, want string
	}{
		{"size_s", "dimension_s"},
		{"color_s", "style_s"},
		{"shade_s", "style_s"},
		{"brand_s", "brand_s"},
	}
	for _, tt := range tests {
		if got := r.CategoryName(tt.key); got != tt.want {
			t.Errorf("CategoryName(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}

	var none *Rules
	if got := none.CategoryName("size_s"); got != "size_s" {
		t.Errorf("nil rules renamed to %q", got)
	}
}
