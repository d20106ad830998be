package solrdex

import (
	"github.com/kailas-cloud/solrdex/internal/db"
	"github.com/kailas-cloud/solrdex/internal/domain"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidCriteria  = domain.ErrInvalidCriteria
	ErrInvalidOperation = domain.ErrInvalidOperation
	ErrNotImplemented   = domain.ErrNotImplemented
	// ErrUnauthorized means Solr rejected the configured credentials.
	ErrUnauthorized = db.ErrUnauthorized
	// ErrUnreachable means Solr did not answer at all.
	ErrUnreachable = db.ErrUnreachable
)
