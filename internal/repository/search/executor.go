// Package search sends compiled queries to the engine and recovers from
// engine-side query failures.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/solrdex/internal/db"
	"github.com/kailas-cloud/solrdex/internal/domain/search/query"
	logpkg "github.com/kailas-cloud/solrdex/internal/logger"
	"github.com/kailas-cloud/solrdex/internal/metrics"
)

// engine is the consumer interface for query execution (ISP).
type engine interface {
	Select(ctx context.Context, req *db.SelectRequest) (*db.SelectResponse, error)
	DecodeError(body []byte) (db.ErrorDocument, bool)
}

// Executor implements usecase/search.Executor.
type Executor struct {
	engine engine
	logger *zap.Logger
}

// New creates an executor.
func New(e engine, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{engine: e, logger: logger}
}

// Execute serializes q, dispatches it and returns the engine response.
// Engine query errors degrade to an empty response; credential failures,
// an unreachable engine, context cancellation and everything else propagate.
func (e *Executor) Execute(ctx context.Context, q *query.Compiled) (*db.SelectResponse, error) {
	req := Render(q)
	log := logpkg.FromContextOr(ctx, e.logger)

	log.Info("solr_query",
		zap.String("q", req.Query),
		zap.Strings("params", paramStrings(req.Params)),
	)

	start := time.Now()
	resp, err := e.engine.Select(ctx, req)
	metrics.EngineQueryDuration.Observe(time.Since(start).Seconds())

	if err == nil {
		metrics.EngineQueriesTotal.WithLabelValues(metrics.OutcomeOK).Inc()
		return resp, nil
	}

	if body, ok := recoverable(ctx, err); ok {
		metrics.EngineQueriesTotal.WithLabelValues(metrics.OutcomeRecovered).Inc()
		if doc, known := e.engine.DecodeError(body); known {
			log.Error(fmt.Sprintf("Solr Error : [%q] - Query attempted: [%s]", doc.Message, doc.Query),
				zap.String("solr_error", doc.Message),
				zap.String("query", doc.Query),
			)
		} else {
			log.Error("Solr Error",
				zap.String("solr_error", err.Error()),
				zap.String("query", req.Query),
			)
		}
		return db.EmptyResponse(), nil
	}

	metrics.EngineQueriesTotal.WithLabelValues(metrics.OutcomeError).Inc()
	return nil, fmt.Errorf("execute query: %w", err)
}

// recoverable reports whether err is an engine query failure and returns
// the response body read before the failure.
func recoverable(ctx context.Context, err error) ([]byte, bool) {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil, false
	}
	if errors.Is(err, db.ErrUnauthorized) || errors.Is(err, db.ErrUnreachable) {
		return nil, false
	}
	var protoErr *db.ProtocolError
	if errors.As(err, &protoErr) {
		return protoErr.Body, true
	}
	var connErr *db.ConnectionError
	if errors.As(err, &connErr) {
		return connErr.Body, true
	}
	return nil, false
}

func paramStrings(params []db.Param) []string {
	out := make([]string, 0, len(params))
	for _, p := range params {
		out = append(out, p.Key+"="+p.Value)
	}
	return out
}
