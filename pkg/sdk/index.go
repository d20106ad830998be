package solrdex

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/solrdex/internal/usecase/mapper"
	searchuc "github.com/kailas-cloud/solrdex/internal/usecase/search"
)

// Index is a schema-first view of the index that materializes results as T.
// The schema is inferred from T's solrdex struct tags at construction time.
type Index[T any] struct {
	client    *Client
	meta      *schemaMeta
	projector mapper.Projector[T]
}

// NewIndex creates a typed view. T must be a struct (or pointer to one)
// with at least one solrdex tag.
func NewIndex[T any](client *Client) (*Index[T], error) {
	meta, err := parseSchema[T]()
	if err != nil {
		return nil, fmt.Errorf("new index: %w", err)
	}
	return &Index[T]{
		client:    client,
		meta:      meta,
		projector: mapper.ProjectorFunc[T](projector[T](meta)),
	}, nil
}

// Search runs a flat search. Without an explicit Select, only the tagged
// fields are fetched.
func (idx *Index[T]) Search(ctx context.Context, q *Query) (res Results[T], err error) {
	start := time.Now()
	defer func() { idx.client.obs.observe("index.search", start, err) }()

	req, err := idx.shape(q).request()
	if err != nil {
		return Results[T]{}, fmt.Errorf("search: %w: %w", ErrInvalidCriteria, err)
	}
	b, err := searchuc.SearchAs(ctx, idx.client.searchSvc, req, idx.projector)
	if err != nil {
		return Results[T]{}, fmt.Errorf("search: %w", err)
	}
	return fromBundle(b), nil
}

// GroupedSearch clusters results on the configured group field.
func (idx *Index[T]) GroupedSearch(ctx context.Context, q *Query) (res Results[T], err error) {
	start := time.Now()
	defer func() { idx.client.obs.observe("index.search.grouped", start, err) }()

	req, err := idx.shape(q).request()
	if err != nil {
		return Results[T]{}, fmt.Errorf("grouped search: %w: %w", ErrInvalidCriteria, err)
	}
	b, err := searchuc.GroupedSearchAs(ctx, idx.client.searchSvc, req, idx.projector)
	if err != nil {
		return Results[T]{}, fmt.Errorf("grouped search: %w", err)
	}
	return fromBundle(b), nil
}

// shape copies q, defaulting the projection to the schema's fields.
func (idx *Index[T]) shape(q *Query) *Query {
	var out Query
	if q != nil {
		out = *q
	}
	if len(out.opts.Fields) == 0 {
		out.opts.Fields = idx.meta.names()
	}
	return &out
}
