package search

import (
	"context"
	"testing"

	"github.com/kailas-cloud/solrdex/internal/db"
	"github.com/kailas-cloud/solrdex/internal/db/solr"
	"github.com/kailas-cloud/solrdex/internal/domain/search/filter"
)

// mockEngine implements the consumer interface for tests.
type mockEngine struct {
	selectFn func(ctx context.Context, req *db.SelectRequest) (*db.SelectResponse, error)
	calls    int
	last     *db.SelectRequest
}

func (m *mockEngine) Select(ctx context.Context, req *db.SelectRequest) (*db.SelectResponse, error) {
	m.calls++
	m.last = req
	if m.selectFn != nil {
		return m.selectFn(ctx, req)
	}
	return &db.SelectResponse{}, nil
}

func (m *mockEngine) DecodeError(body []byte) (db.ErrorDocument, bool) {
	return solr.DecodeError(body)
}

func mustAnyOf(t *testing.T, fields []string, values ...string) filter.Clause {
	t.Helper()
	c, err := filter.AnyOf(fields, values)
	if err != nil {
		t.Fatalf("AnyOf: %v", err)
	}
	return c
}

func mustUnquoted(t *testing.T, field, value string) filter.Clause {
	t.Helper()
	term, err := filter.NewUnquotedTerm(field, value)
	if err != nil {
		t.Fatalf("NewUnquotedTerm: %v", err)
	}
	c, err := filter.NewClause(term)
	if err != nil {
		t.Fatalf("NewClause: %v", err)
	}
	return c
}
