package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/solrdex/internal/domain"
	"github.com/kailas-cloud/solrdex/internal/domain/search/criteria"
	"github.com/kailas-cloud/solrdex/internal/domain/search/mode"
	"github.com/kailas-cloud/solrdex/internal/domain/search/operation"
	"github.com/kailas-cloud/solrdex/internal/domain/search/request"
	"github.com/kailas-cloud/solrdex/internal/domain/search/result"
	"github.com/kailas-cloud/solrdex/internal/logger"
	"github.com/kailas-cloud/solrdex/internal/repository/projection"
	"github.com/kailas-cloud/solrdex/internal/usecase/compiler"
	"github.com/kailas-cloud/solrdex/internal/usecase/mapper"
)

// DefaultGroupLimit is the per-group member cap of grouped searches.
const DefaultGroupLimit = 10

// Config tunes the search service.
type Config struct {
	// GroupField is the field grouped searches cluster on.
	GroupField string
	GroupLimit int
	// LegacyCollation enables the raw-collation fallback for spell-check.
	LegacyCollation bool
}

// Service runs searches end to end: compile, execute, map.
type Service struct {
	compiler  Compiler
	exec      Executor
	mapper    *mapper.Mapper
	hider     Hider
	projector projection.ItemProjector
	cfg       Config
}

// New creates a search service. hider may be nil when the deny-set is not writable.
func New(c Compiler, e Executor, m *mapper.Mapper, hider Hider, cfg Config) *Service {
	if cfg.GroupLimit <= 0 {
		cfg.GroupLimit = DefaultGroupLimit
	}
	return &Service{compiler: c, exec: e, mapper: m, hider: hider, cfg: cfg}
}

// Search runs a flat search.
func (s *Service) Search(ctx context.Context, req request.Request) (result.Bundle[projection.Item], error) {
	return SearchAs[projection.Item](ctx, s, req, s.projector)
}

// GroupedSearch clusters results on the configured group field with
// spell-check collation on.
func (s *Service) GroupedSearch(ctx context.Context, req request.Request) (result.Bundle[projection.Item], error) {
	return GroupedSearchAs[projection.Item](ctx, s, req, s.projector)
}

// SearchAs is Search with a caller-supplied projection.
func SearchAs[T any](
	ctx context.Context, s *Service, req request.Request, p mapper.Projector[T],
) (result.Bundle[T], error) {
	ops := shapingOps(req)
	ops = append(ops, operation.GetResults{})
	if len(req.Facets()) > 0 {
		ops = append(ops, operation.GetFacets{})
	}
	if req.SpellCheck() {
		ops = append(ops, operation.CheckSpelling{Text: req.Criteria().Text})
	}
	return run(ctx, s, ops, req.Criteria(), req, p)
}

// GroupedSearchAs is GroupedSearch with a caller-supplied projection.
func GroupedSearchAs[T any](
	ctx context.Context, s *Service, req request.Request, p mapper.Projector[T],
) (result.Bundle[T], error) {
	if s.cfg.GroupField == "" {
		return result.Bundle[T]{}, fmt.Errorf("grouped search: %w", domain.ErrNotImplemented)
	}
	ops := shapingOps(req)
	ops = append(ops,
		operation.GroupBy{Field: s.cfg.GroupField, Limit: s.cfg.GroupLimit},
		operation.GetResults{},
		operation.CheckSpelling{Text: req.Criteria().Text},
	)
	if len(req.Facets()) > 0 {
		ops = append(ops, operation.GetFacets{})
	}
	return run(ctx, s, ops, req.Criteria(), req, p)
}

// Count returns the number of matching documents. Paging is ignored.
func (s *Service) Count(ctx context.Context, req request.Request) (int, error) {
	c := req.Criteria()
	c.PageNumber, c.PageSize = 0, 0
	b, err := run(ctx, s, []operation.Operation{operation.Count{}}, c, req, s.projector)
	if err != nil {
		return 0, err
	}
	return b.TotalCount(), nil
}

// Any reports whether anything matches.
func (s *Service) Any(ctx context.Context, req request.Request) (bool, error) {
	c := req.Criteria()
	c.PageNumber, c.PageSize = 0, 0
	b, err := run(ctx, s, []operation.Operation{operation.Any{}}, c, req, s.projector)
	if err != nil {
		return false, err
	}
	return b.TotalCount() > 0, nil
}

// Facets returns facet categories only; no documents are fetched.
func (s *Service) Facets(ctx context.Context, req request.Request) (result.FacetResults, error) {
	if len(req.Facets()) == 0 {
		return result.FacetResults{}, nil
	}
	b, err := run(ctx, s, []operation.Operation{operation.GetFacets{}}, req.Criteria(), req, s.projector)
	if err != nil {
		return result.FacetResults{}, err
	}
	return b.Facets(), nil
}

// CheckSpelling asks the engine to correct text within the current index.
// It returns the collation and true when the engine corrected, otherwise
// text and false.
func (s *Service) CheckSpelling(ctx context.Context, text string) (string, bool, error) {
	if text == "" {
		return "", false, nil
	}
	req, err := request.New(criteria.Criteria{Text: text}, request.Options{Visibility: mode.SkipVisibility})
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", domain.ErrInvalidCriteria, err)
	}
	ops := []operation.Operation{
		operation.GetResults{},
		operation.CheckSpelling{Text: text},
		operation.Take{Count: 0},
	}
	b, err := run(ctx, s, ops, req.Criteria(), req, s.projector)
	if err != nil {
		return "", false, err
	}
	if c := b.Collation(); c != "" {
		return c, true, nil
	}
	return text, false, nil
}

// Hide removes documents from every future result.
func (s *Service) Hide(ctx context.Context, uniqueIDs ...string) error {
	if s.hider == nil {
		return fmt.Errorf("hide: %w", domain.ErrNotImplemented)
	}
	if err := s.hider.Hide(ctx, uniqueIDs...); err != nil {
		return fmt.Errorf("hide: %w", err)
	}
	return nil
}

// Reveal undoes Hide.
func (s *Service) Reveal(ctx context.Context, uniqueIDs ...string) error {
	if s.hider == nil {
		return fmt.Errorf("reveal: %w", domain.ErrNotImplemented)
	}
	if err := s.hider.Reveal(ctx, uniqueIDs...); err != nil {
		return fmt.Errorf("reveal: %w", err)
	}
	return nil
}

func run[T any](
	ctx context.Context, s *Service, ops []operation.Operation, c criteria.Criteria, req request.Request,
	p mapper.Projector[T],
) (result.Bundle[T], error) {
	q, err := s.compiler.Compile(compiler.Input{
		Operations: ops,
		Criteria:   c,
		Facets:     req.Facets(),
		Options: compiler.Options{
			Visibility: req.Visibility(),
			Culture:    req.Language(),
			Operator:   req.Operator(),
			Highlight:  req.Highlight(),
			Boost:      req.Boost(),
		},
	})
	if err != nil {
		return result.Bundle[T]{}, fmt.Errorf("compile: %w", err)
	}

	ctx = logger.WithFields(ctx,
		zap.Int("operations", len(ops)),
		zap.String("visibility", string(req.Visibility())),
	)
	resp, err := s.exec.Execute(ctx, q)
	if err != nil {
		return result.Bundle[T]{}, fmt.Errorf("execute: %w", err)
	}

	meta := mapper.MetaFor(q)
	meta.LegacyCollation = s.cfg.LegacyCollation
	return mapper.Map[T](ctx, s.mapper, resp, meta, p), nil
}

// shapingOps turns the request's projection and ordering into operations.
func shapingOps(req request.Request) []operation.Operation {
	var ops []operation.Operation
	if fields := req.Fields(); len(fields) > 0 {
		ops = append(ops, operation.Select{Fields: fields})
	}
	for _, srt := range req.Sorts() {
		ops = append(ops, operation.OrderBy{Field: srt.Field, Descending: srt.Descending})
	}
	return ops
}
