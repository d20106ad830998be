package search

import (
	"context"

	"github.com/kailas-cloud/solrdex/internal/db"
	"github.com/kailas-cloud/solrdex/internal/domain/search/query"
	"github.com/kailas-cloud/solrdex/internal/usecase/compiler"
)

// Compiler folds operations and criteria into an engine-ready query.
type Compiler interface {
	Compile(in compiler.Input) (*query.Compiled, error)
}

// Executor runs a compiled query against the engine.
type Executor interface {
	Execute(ctx context.Context, q *query.Compiled) (*db.SelectResponse, error)
}

// Hider maintains the visibility deny-set.
type Hider interface {
	Hide(ctx context.Context, uniqueIDs ...string) error
	Reveal(ctx context.Context, uniqueIDs ...string) error
}
