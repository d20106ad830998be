package search

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/solrdex/internal/db"
	"github.com/kailas-cloud/solrdex/internal/domain"
	"github.com/kailas-cloud/solrdex/internal/domain/search/criteria"
	"github.com/kailas-cloud/solrdex/internal/domain/search/mode"
	"github.com/kailas-cloud/solrdex/internal/domain/search/operation"
	"github.com/kailas-cloud/solrdex/internal/domain/search/query"
	"github.com/kailas-cloud/solrdex/internal/domain/search/raw"
	"github.com/kailas-cloud/solrdex/internal/domain/search/request"
	"github.com/kailas-cloud/solrdex/internal/repository/fieldname"
	"github.com/kailas-cloud/solrdex/internal/usecase/compiler"
	"github.com/kailas-cloud/solrdex/internal/usecase/mapper"
)

// --- Mocks ---

type mockExecutor struct {
	executeFn func(ctx context.Context, q *query.Compiled) (*db.SelectResponse, error)
	last      *query.Compiled
}

func (m *mockExecutor) Execute(ctx context.Context, q *query.Compiled) (*db.SelectResponse, error) {
	m.last = q
	if m.executeFn != nil {
		return m.executeFn(ctx, q)
	}
	return &db.SelectResponse{}, nil
}

type mockCompiler struct {
	err error
}

func (m *mockCompiler) Compile(compiler.Input) (*query.Compiled, error) {
	return nil, m.err
}

type mockOracle struct {
	hidden map[string]bool
}

func (m *mockOracle) IsVisible(_ context.Context, uniqueID, _ string) bool {
	return !m.hidden[uniqueID]
}

type mockHider struct {
	hideFn   func(ctx context.Context, ids ...string) error
	revealFn func(ctx context.Context, ids ...string) error
	hidden   []string
}

func (m *mockHider) Hide(ctx context.Context, ids ...string) error {
	m.hidden = append(m.hidden, ids...)
	if m.hideFn != nil {
		return m.hideFn(ctx, ids...)
	}
	return nil
}

func (m *mockHider) Reveal(ctx context.Context, ids ...string) error {
	if m.revealFn != nil {
		return m.revealFn(ctx, ids...)
	}
	return nil
}

// --- Helpers ---

func newTestService(t *testing.T, exec *mockExecutor, hidden ...string) *Service {
	t.Helper()
	names := fieldname.New(fieldname.Config{DefaultExtension: "_s"})
	c := compiler.New(compiler.Settings{
		IndexName:       "sitecore_master_index",
		DefaultLanguage: "en",
		MaxResults:      500,
		ContentField:    "_content",
		DateField:       "date_tdt",
	}, names)
	h := make(map[string]bool, len(hidden))
	for _, id := range hidden {
		h[id] = true
	}
	m := mapper.New(&mockOracle{hidden: h}, nil)
	return New(c, exec, m, &mockHider{}, Config{GroupField: raw.FieldTemplate})
}

func mustRequest(t *testing.T, c criteria.Criteria, opts request.Options) request.Request {
	t.Helper()
	r, err := request.New(c, opts)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return r
}

func docs(ids ...string) []raw.Document {
	out := make([]raw.Document, 0, len(ids))
	for _, id := range ids {
		out = append(out, raw.Document{raw.FieldUniqueID: id, "title_s": "t-" + id})
	}
	return out
}

// --- Tests ---

func TestSearch_Flat(t *testing.T) {
	exec := &mockExecutor{executeFn: func(_ context.Context, _ *query.Compiled) (*db.SelectResponse, error) {
		return &db.SelectResponse{NumFound: 12, Docs: docs("a", "b", "c")}, nil
	}}
	svc := newTestService(t, exec, "b")

	req := mustRequest(t, criteria.Criteria{
		Text:       "news",
		Filters:    criteria.Filters{}.Add("category", "news", "sports"),
		PageNumber: 2,
		PageSize:   10,
	}, request.Options{Sorts: []request.Sort{{Field: "date_tdt", Descending: true}}})

	b, err := svc.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.TotalCount() != 11 {
		t.Errorf("TotalCount() = %d, want 11", b.TotalCount())
	}
	if b.Hits().Len() != 2 {
		t.Fatalf("hits = %d, want 2", b.Hits().Len())
	}
	first, _ := b.Hits().First()
	if first.Document.UniqueID != "a" {
		t.Errorf("first = %+v", first.Document)
	}

	q := exec.last
	if start, _ := q.Start(); start != 10 || q.Rows() != 10 {
		t.Errorf("start=%d rows=%d, want 10/10", start, q.Rows())
	}
	if sorts := q.Sorts(); len(sorts) != 1 || sorts[0].Direction != query.Descending {
		t.Errorf("sorts = %+v", sorts)
	}
	if q.SpellCheck() != query.Disabled {
		t.Errorf("spell-check should be disabled, got %+v", q.SpellCheck())
	}
	if q.Grouping() != nil {
		t.Error("flat search should not group")
	}
}

func TestSearchAs_CustomProjection(t *testing.T) {
	exec := &mockExecutor{executeFn: func(_ context.Context, _ *query.Compiled) (*db.SelectResponse, error) {
		return &db.SelectResponse{NumFound: 2, Docs: docs("a", "b")}, nil
	}}
	svc := newTestService(t, exec)

	titles := mapper.ProjectorFunc[string](func(doc raw.Document, _ []string, _ mode.Visibility) string {
		s, _ := doc.String("title_s")
		return s
	})
	b, err := SearchAs(context.Background(), svc, mustRequest(t, criteria.Criteria{}, request.Options{}), titles)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got []string
	for h := range b.Hits().All() {
		got = append(got, h.Document)
	}
	if len(got) != 2 || got[0] != "t-a" || got[1] != "t-b" {
		t.Errorf("titles = %v", got)
	}
}

func TestSearch_SpellCheckRequested(t *testing.T) {
	exec := &mockExecutor{}
	svc := newTestService(t, exec)

	req := mustRequest(t, criteria.Criteria{Text: "helo"}, request.Options{SpellCheck: true})
	if _, err := svc.Search(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sc := exec.last.SpellCheck(); !sc.Enabled() || sc.Query != "helo" {
		t.Errorf("SpellCheck() = %+v", sc)
	}
}

func TestSearch_CompileErrorPropagates(t *testing.T) {
	svc := New(&mockCompiler{err: domain.NewOperationError(0, "take", "bad")}, &mockExecutor{}, mapper.New(nil, nil), nil, Config{})

	_, err := svc.Search(context.Background(), mustRequest(t, criteria.Criteria{}, request.Options{}))
	if !errors.Is(err, domain.ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}
}

func TestSearch_ExecuteErrorPropagates(t *testing.T) {
	exec := &mockExecutor{executeFn: func(_ context.Context, _ *query.Compiled) (*db.SelectResponse, error) {
		return nil, db.ErrUnauthorized
	}}
	svc := newTestService(t, exec)

	_, err := svc.Search(context.Background(), mustRequest(t, criteria.Criteria{}, request.Options{}))
	if !errors.Is(err, db.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestGroupedSearch(t *testing.T) {
	exec := &mockExecutor{executeFn: func(_ context.Context, _ *query.Compiled) (*db.SelectResponse, error) {
		return &db.SelectResponse{Grouped: []db.GroupField{{
			Field:   raw.FieldTemplate,
			Matches: 5,
			Groups: []db.Group{
				{Value: "t1", NumFound: 3, Docs: docs("a", "b")},
				{Value: "t2", NumFound: 2, Docs: docs("c")},
			},
		}}}, nil
	}}
	svc := newTestService(t, exec, "a")

	b, err := svc.GroupedSearch(context.Background(), mustRequest(t, criteria.Criteria{Text: "news"}, request.Options{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	g := exec.last.Grouping()
	if g == nil || g.Field != raw.FieldTemplate || g.Limit != DefaultGroupLimit {
		t.Errorf("Grouping() = %+v", g)
	}
	if !exec.last.SpellCheck().Enabled() {
		t.Error("grouped search should request collation")
	}
	if b.TotalCount() != 4 {
		t.Errorf("TotalCount() = %d, want 4", b.TotalCount())
	}
	tree, ok := b.Grouped()
	if !ok || tree.Groups[0].Count != 2 {
		t.Errorf("grouped = %+v", tree)
	}
}

func TestGroupedSearch_NoGroupField(t *testing.T) {
	svc := New(&mockCompiler{}, &mockExecutor{}, mapper.New(nil, nil), nil, Config{})
	_, err := svc.GroupedSearch(context.Background(), mustRequest(t, criteria.Criteria{}, request.Options{}))
	if !errors.Is(err, domain.ErrNotImplemented) {
		t.Fatalf("expected ErrNotImplemented, got %v", err)
	}
}

func TestCountAndAny(t *testing.T) {
	tests := []struct {
		name     string
		numFound int
		wantAny  bool
	}{
		{"matches", 42, true},
		{"nothing", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &mockExecutor{executeFn: func(_ context.Context, _ *query.Compiled) (*db.SelectResponse, error) {
				return &db.SelectResponse{NumFound: tt.numFound}, nil
			}}
			svc := newTestService(t, exec)
			req := mustRequest(t, criteria.Criteria{PageNumber: 3, PageSize: 10}, request.Options{})

			n, err := svc.Count(context.Background(), req)
			if err != nil {
				t.Fatalf("Count: %v", err)
			}
			if n != tt.numFound {
				t.Errorf("Count() = %d, want %d", n, tt.numFound)
			}
			if exec.last.Rows() != 0 {
				t.Errorf("count should request zero rows, got %d", exec.last.Rows())
			}

			ok, err := svc.Any(context.Background(), req)
			if err != nil {
				t.Fatalf("Any: %v", err)
			}
			if ok != tt.wantAny {
				t.Errorf("Any() = %v, want %v", ok, tt.wantAny)
			}
		})
	}
}

func TestFacets(t *testing.T) {
	exec := &mockExecutor{executeFn: func(_ context.Context, _ *query.Compiled) (*db.SelectResponse, error) {
		return &db.SelectResponse{FacetFields: []db.FacetField{
			{Name: "category_s", Buckets: []db.Bucket{{Value: "news", Count: 3}}},
		}}, nil
	}}
	svc := newTestService(t, exec)
	req := mustRequest(t, criteria.Criteria{}, request.Options{
		Facets: []operation.FacetRequest{{Fields: []string{"category_s"}}},
	})

	f, err := svc.Facets(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exec.last.Rows() != 0 || len(exec.last.Facets()) != 1 {
		t.Errorf("rows=%d facets=%d", exec.last.Rows(), len(exec.last.Facets()))
	}
	if c, ok := f.Category("category_s"); !ok || c.Values[0].Count != 3 {
		t.Errorf("Facets() = %+v", f)
	}
}

func TestFacets_NoneRequested(t *testing.T) {
	exec := &mockExecutor{}
	svc := newTestService(t, exec)

	f, err := svc.Facets(context.Background(), mustRequest(t, criteria.Criteria{}, request.Options{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.IsEmpty() || exec.last != nil {
		t.Error("no query should run without facet requests")
	}
}

func TestCheckSpelling(t *testing.T) {
	tests := []struct {
		name          string
		sc            *db.SpellCheck
		wantText      string
		wantCorrected bool
	}{
		{
			"corrected",
			&db.SpellCheck{Collation: "hello world", Suggestions: []db.Suggestion{{Term: "helo", Alternatives: []string{"hello"}}}},
			"hello world", true,
		},
		{"correct already", &db.SpellCheck{CorrectlySpelled: true}, "helo wrld", false},
		{"no spellcheck section", nil, "helo wrld", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &mockExecutor{executeFn: func(_ context.Context, _ *query.Compiled) (*db.SelectResponse, error) {
				return &db.SelectResponse{SpellCheck: tt.sc}, nil
			}}
			svc := newTestService(t, exec)

			text, corrected, err := svc.CheckSpelling(context.Background(), "helo wrld")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if text != tt.wantText || corrected != tt.wantCorrected {
				t.Errorf("CheckSpelling() = %q, %v; want %q, %v", text, corrected, tt.wantText, tt.wantCorrected)
			}
			q := exec.last
			if q.Rows() != 0 || !q.SpellCheck().Enabled() || q.Visibility() != mode.SkipVisibility {
				t.Errorf("rows=%d spell=%+v vis=%v", q.Rows(), q.SpellCheck(), q.Visibility())
			}
		})
	}
}

func TestCheckSpelling_EmptyText(t *testing.T) {
	exec := &mockExecutor{}
	svc := newTestService(t, exec)
	text, corrected, err := svc.CheckSpelling(context.Background(), "")
	if err != nil || text != "" || corrected {
		t.Errorf("CheckSpelling(\"\") = %q, %v, %v", text, corrected, err)
	}
	if exec.last != nil {
		t.Error("empty text should not hit the engine")
	}
}

func TestHideReveal(t *testing.T) {
	h := &mockHider{}
	svc := New(&mockCompiler{}, &mockExecutor{}, mapper.New(nil, nil), h, Config{})

	if err := svc.Hide(context.Background(), "a", "b"); err != nil {
		t.Fatalf("Hide: %v", err)
	}
	if len(h.hidden) != 2 {
		t.Errorf("hidden = %v", h.hidden)
	}

	boom := errors.New("boom")
	h.revealFn = func(context.Context, ...string) error { return boom }
	if err := svc.Reveal(context.Background(), "a"); !errors.Is(err, boom) {
		t.Errorf("Reveal error = %v", err)
	}
}

func TestHide_ReadOnly(t *testing.T) {
	svc := New(&mockCompiler{}, &mockExecutor{}, mapper.New(nil, nil), nil, Config{})
	if err := svc.Hide(context.Background(), "a"); !errors.Is(err, domain.ErrNotImplemented) {
		t.Errorf("expected ErrNotImplemented, got %v", err)
	}
}
