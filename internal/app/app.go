// Package app assembles the search stack from configuration. Both the HTTP
// server and the embedded SDK build their services here.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/solrdex/internal/config"
	"github.com/kailas-cloud/solrdex/internal/db"
	dbRedis "github.com/kailas-cloud/solrdex/internal/db/redis"
	"github.com/kailas-cloud/solrdex/internal/domain/search/query"
	"github.com/kailas-cloud/solrdex/internal/repository/facetpipeline"
	"github.com/kailas-cloud/solrdex/internal/repository/fieldname"
	searchrepo "github.com/kailas-cloud/solrdex/internal/repository/search"
	"github.com/kailas-cloud/solrdex/internal/repository/visibility"
	"github.com/kailas-cloud/solrdex/internal/usecase/compiler"
	"github.com/kailas-cloud/solrdex/internal/usecase/facet"
	healthuc "github.com/kailas-cloud/solrdex/internal/usecase/health"
	"github.com/kailas-cloud/solrdex/internal/usecase/mapper"
	searchuc "github.com/kailas-cloud/solrdex/internal/usecase/search"
)

// Engine is the search engine as the stack consumes it.
type Engine interface {
	Select(ctx context.Context, req *db.SelectRequest) (*db.SelectResponse, error)
	DecodeError(body []byte) (db.ErrorDocument, bool)
	Ping(ctx context.Context) error
}

// Visibility bundles the per-document visibility collaborators. The zero
// value allows everything and has no writable deny-set.
type Visibility struct {
	Oracle mapper.Oracle
	Hider  searchuc.Hider
	Ping   healthuc.Pinger
	close  func()
}

// Close releases the deny-set connection, if any.
func (v Visibility) Close() {
	if v.close != nil {
		v.close()
	}
}

// OpenVisibility connects the configured visibility driver and waits for it.
func OpenVisibility(ctx context.Context, cfg config.VisibilityConfig) (Visibility, error) {
	if cfg.Driver != config.VisibilityRedis {
		return Visibility{}, nil
	}
	s, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Addrs,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err != nil {
		return Visibility{}, fmt.Errorf("create visibility store: %w", err)
	}
	if err := s.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
		s.Close()
		return Visibility{}, fmt.Errorf("visibility store not ready: %w", err)
	}
	return WithDenySet(visibility.NewRedis(s, cfg.KeyPrefix), s, s.Close), nil
}

// WithDenySet wraps a writable deny-set oracle.
func WithDenySet(deny *visibility.Redis, ping healthuc.Pinger, closeFn func()) Visibility {
	return Visibility{Oracle: deny, Hider: deny, Ping: ping, close: closeFn}
}

// Build wires the search and health services over engine.
func Build(cfg config.Config, engine Engine, vis Visibility, logger *zap.Logger) (*searchuc.Service, *healthuc.Service) {
	oracle := vis.Oracle
	if oracle == nil {
		oracle = visibility.AllowAll{}
	}
	names := fieldname.New(fieldname.Config{
		KnownExtensions:  cfg.Fields.KnownExtensions,
		DefaultExtension: cfg.Fields.DefaultExtension,
		FieldMap:         cfg.Fields.FieldMap,
	})
	formatter := facet.New(FacetRules(cfg.Facets), names)

	searchSvc := searchuc.New(
		compiler.New(CompilerSettings(cfg), names),
		searchrepo.New(engine, logger),
		mapper.New(oracle, formatter),
		vis.Hider,
		searchuc.Config{
			GroupField:      cfg.Search.GroupField,
			GroupLimit:      cfg.Search.GroupLimit,
			LegacyCollation: cfg.Search.LegacyCollation,
		},
	)
	return searchSvc, healthuc.New(engine, vis.Ping)
}

// CompilerSettings maps configuration onto the compiler's platform values.
func CompilerSettings(cfg config.Config) compiler.Settings {
	return compiler.Settings{
		IndexName:       cfg.Search.IndexName,
		DefaultLanguage: cfg.Search.DefaultLanguage,
		MaxResults:      cfg.Search.MaxResults,
		ContentField:    cfg.Search.ContentField,
		DateField:       cfg.Search.DateField,
		Highlight: compiler.HighlightSettings{
			Fields:   cfg.Highlight.Fields,
			Snippets: cfg.Highlight.Snippets,
			Pattern:  cfg.Highlight.Pattern,
			FragSize: cfg.Highlight.FragSize,
			Slop:     cfg.Highlight.Slop,
		},
		DateRange: query.DateRange{
			Start: cfg.Search.DateFacet.Start,
			End:   cfg.Search.DateFacet.End,
			Gap:   cfg.Search.DateFacet.Gap,
		},
	}
}

// FacetRules maps configuration onto facet post-processing rules.
func FacetRules(fc config.FacetsConfig) *facetpipeline.Rules {
	merges := make([]facetpipeline.Merge, 0, len(fc.Merges))
	for _, m := range fc.Merges {
		merges = append(merges, facetpipeline.Merge{Into: m.Into, From: m.From})
	}
	return &facetpipeline.Rules{Labels: fc.Labels, Merges: merges, Renames: fc.Renames}
}
