package db

import (
	"context"
	"time"
)

// Engine is the search engine facade.
type Engine interface {
	Pinger
	Searcher
	ErrorDecoder
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Searcher runs select queries.
type Searcher interface {
	Select(ctx context.Context, req *SelectRequest) (*SelectResponse, error)
}

// ErrorDecoder reads the engine's error document out of a failed response body.
type ErrorDecoder interface {
	DecodeError(body []byte) (ErrorDocument, bool)
}

// SetStore provides set membership lookups.
type SetStore interface {
	Pinger
	SIsMember(ctx context.Context, key, member string) (bool, error)
	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}
