package solrdex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/solrdex/internal/app"
	"github.com/kailas-cloud/solrdex/internal/db/solr"
	searchuc "github.com/kailas-cloud/solrdex/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the solrdex SDK entry point. It runs the query compiler,
// executor and result mapper in-process against a Solr core.
type Client struct {
	engine    app.Engine
	searchSvc *searchuc.Service
	healthSvc healthUseCase
	closeFn   func()
	obs       *observer
}

// New creates a Client and waits for Solr to answer its ping handler.
// The provided context bounds the initial readiness checks.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cc := newClientConfig(opts)
	if cc.cfg.Solr.BaseURL == "" || cc.cfg.Solr.Core == "" {
		return nil, errors.New("solrdex: solr url and core required (use WithSolr)")
	}

	obs, err := newObserver(cc.logger, cc.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := solr.NewStore(solr.Config{
		BaseURL:    cc.cfg.Solr.BaseURL,
		Core:       cc.cfg.Solr.Core,
		Username:   cc.cfg.Solr.Username,
		Password:   cc.cfg.Solr.Password,
		Timeout:    time.Duration(cc.cfg.Solr.TimeoutSec) * time.Second,
		HTTPClient: cc.httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("solrdex: create solr store: %w", err)
	}
	if cc.readinessTimeout > 0 {
		if err := store.WaitForReady(ctx, cc.readinessTimeout); err != nil {
			return nil, fmt.Errorf("solrdex: solr not ready: %w", err)
		}
	}

	vis, err := app.OpenVisibility(ctx, cc.cfg.Visibility)
	if err != nil {
		return nil, fmt.Errorf("solrdex: %w", err)
	}
	return wireClient(cc, store, vis, obs), nil
}

func wireClient(cc *clientConfig, engine app.Engine, vis app.Visibility, obs *observer) *Client {
	searchSvc, healthSvc := app.Build(cc.cfg, engine, vis, zap.NewNop())
	return &Client{
		engine:    engine,
		searchSvc: searchSvc,
		healthSvc: healthSvc,
		closeFn:   vis.Close,
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.closeFn != nil {
		c.closeFn()
	}
}

// Ping checks Solr connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.engine.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Search runs a flat search. A nil query matches everything.
func (c *Client) Search(ctx context.Context, q *Query) (res Results[Item], err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	req, err := q.request()
	if err != nil {
		return Results[Item]{}, fmt.Errorf("search: %w: %w", ErrInvalidCriteria, err)
	}
	b, err := c.searchSvc.Search(ctx, req)
	if err != nil {
		return Results[Item]{}, fmt.Errorf("search: %w", err)
	}
	return fromBundle(b), nil
}

// GroupedSearch clusters results on the configured group field.
func (c *Client) GroupedSearch(ctx context.Context, q *Query) (res Results[Item], err error) {
	start := time.Now()
	defer func() { c.obs.observe("search.grouped", start, err) }()

	req, err := q.request()
	if err != nil {
		return Results[Item]{}, fmt.Errorf("grouped search: %w: %w", ErrInvalidCriteria, err)
	}
	b, err := c.searchSvc.GroupedSearch(ctx, req)
	if err != nil {
		return Results[Item]{}, fmt.Errorf("grouped search: %w", err)
	}
	return fromBundle(b), nil
}

// Count returns the number of visible matches. Paging is ignored.
func (c *Client) Count(ctx context.Context, q *Query) (n int, err error) {
	start := time.Now()
	defer func() { c.obs.observe("count", start, err) }()

	req, err := q.request()
	if err != nil {
		return 0, fmt.Errorf("count: %w: %w", ErrInvalidCriteria, err)
	}
	if n, err = c.searchSvc.Count(ctx, req); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// Any reports whether anything visible matches.
func (c *Client) Any(ctx context.Context, q *Query) (found bool, err error) {
	start := time.Now()
	defer func() { c.obs.observe("any", start, err) }()

	req, err := q.request()
	if err != nil {
		return false, fmt.Errorf("any: %w: %w", ErrInvalidCriteria, err)
	}
	if found, err = c.searchSvc.Any(ctx, req); err != nil {
		return false, fmt.Errorf("any: %w", err)
	}
	return found, nil
}

// Facets returns only the facet categories the query requests.
func (c *Client) Facets(ctx context.Context, q *Query) (f FacetResults, err error) {
	start := time.Now()
	defer func() { c.obs.observe("facets", start, err) }()

	req, err := q.request()
	if err != nil {
		return FacetResults{}, fmt.Errorf("facets: %w: %w", ErrInvalidCriteria, err)
	}
	if f, err = c.searchSvc.Facets(ctx, req); err != nil {
		return FacetResults{}, fmt.Errorf("facets: %w", err)
	}
	return f, nil
}

// CheckSpelling returns the engine's correction of text and whether one
// was made.
func (c *Client) CheckSpelling(ctx context.Context, text string) (corrected string, changed bool, err error) {
	start := time.Now()
	defer func() { c.obs.observe("spellcheck", start, err) }()

	corrected, changed, err = c.searchSvc.CheckSpelling(ctx, text)
	if err != nil {
		return "", false, fmt.Errorf("spellcheck: %w", err)
	}
	return corrected, changed, nil
}

// Hide removes items from all future results. Requires WithRedisVisibility.
func (c *Client) Hide(ctx context.Context, uniqueIDs ...string) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("hide", start, err) }()

	return c.searchSvc.Hide(ctx, uniqueIDs...)
}

// Reveal undoes Hide.
func (c *Client) Reveal(ctx context.Context, uniqueIDs ...string) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("reveal", start, err) }()

	return c.searchSvc.Reveal(ctx, uniqueIDs...)
}
