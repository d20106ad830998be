package query

import (
	"testing"
)

func TestLocalParams_String(t *testing.T) {
	tests := []struct {
		name string
		lp   LocalParams
		want string
	}{
		{"empty", LocalParams{}, ""},
		{"operator only", LocalParams{Params: []Param{{"q.op", "AND"}}}, "{!q.op=AND}"},
		{
			"boost and operator",
			LocalParams{Type: "boost", Params: []Param{{"b", "recip(ms(NOW,date_tdt),3.16e-11,1,1)"}, {"q.op", "AND"}}},
			"{!boost b=recip(ms(NOW,date_tdt),3.16e-11,1,1) q.op=AND}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.lp.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuilder_AddStartSums(t *testing.T) {
	q := NewBuilder(500).AddStart(5).AddStart(3).Build()
	start, ok := q.Start()
	if !ok || start != 8 {
		t.Errorf("Start() = %d, %v; want 8, true", start, ok)
	}
}

func TestBuilder_NoStart(t *testing.T) {
	q := NewBuilder(500).Build()
	if _, ok := q.Start(); ok {
		t.Error("expected no start")
	}
	if q.Rows() != 500 {
		t.Errorf("Rows() = %d, want 500", q.Rows())
	}
	if q.SpellCheck() != Disabled {
		t.Errorf("SpellCheck() = %+v, want Disabled", q.SpellCheck())
	}
}

func TestBuilder_FieldsDeduplicated(t *testing.T) {
	q := NewBuilder(10).Fields("a", "b").Fields("a", "", "c").Build()
	got := q.Fields()
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("Fields() = %v", got)
	}
}

func TestBuilder_ParamReplacesInPlace(t *testing.T) {
	q := NewBuilder(10).LocalParam("q.op", "OR").LocalParam("b", "x").LocalParam("q.op", "AND").Build()
	lp := q.LocalParams()
	if len(lp.Params) != 2 || lp.Params[0] != (Param{"q.op", "AND"}) {
		t.Errorf("LocalParams() = %+v", lp.Params)
	}
}

func TestBuild_IsSnapshot(t *testing.T) {
	b := NewBuilder(10).Fields("a").AddStart(1)
	q := b.Build()
	b.Fields("b").AddStart(5).Rows(0)

	if len(q.Fields()) != 1 {
		t.Errorf("snapshot fields mutated: %v", q.Fields())
	}
	if s, _ := q.Start(); s != 1 {
		t.Errorf("snapshot start mutated: %d", s)
	}
	if q.Rows() != 10 {
		t.Errorf("snapshot rows mutated: %d", q.Rows())
	}

	fs := q.Fields()
	fs[0] = "zzz"
	if q.Fields()[0] != "a" {
		t.Error("accessor leaked internal slice")
	}
}

func TestFacet_Key(t *testing.T) {
	f := Facet{Kind: FacetPivot, Fields: []string{"category_s", "section_s"}}
	if got := f.Key(); got != "category_s,section_s" {
		t.Errorf("Key() = %q", got)
	}
}
