// Package visibility implements the per-document visibility oracle.
package visibility

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/solrdex/internal/logger"
)

// AllowAll treats every document as visible.
type AllowAll struct{}

// IsVisible always returns true.
func (AllowAll) IsVisible(context.Context, string, string) bool { return true }

// store is the consumer interface for the deny-set lookups (ISP).
type store interface {
	SIsMember(ctx context.Context, key, member string) (bool, error)
	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
}

// Redis hides documents listed in deny-sets: one keyed by unique id, one by
// data source id.
type Redis struct {
	store         store
	hiddenKey     string
	dataSourceKey string
}

// NewRedis creates a deny-set oracle under the given key prefix.
func NewRedis(s store, prefix string) *Redis {
	return &Redis{
		store:         s,
		hiddenKey:     prefix + "hidden",
		dataSourceKey: prefix + "hidden_datasources",
	}
}

// IsVisible reports whether the document may be returned. Lookup failures
// hide the document.
func (r *Redis) IsVisible(ctx context.Context, uniqueID, dataSourceID string) bool {
	hidden, err := r.store.SIsMember(ctx, r.hiddenKey, uniqueID)
	if err != nil {
		logger.FromContext(ctx).Warn("visibility lookup failed",
			zap.String("unique_id", uniqueID), zap.Error(err))
		return false
	}
	if hidden {
		return false
	}
	if dataSourceID == "" {
		return true
	}
	hidden, err = r.store.SIsMember(ctx, r.dataSourceKey, dataSourceID)
	if err != nil {
		logger.FromContext(ctx).Warn("visibility lookup failed",
			zap.String("data_source", dataSourceID), zap.Error(err))
		return false
	}
	return !hidden
}

// Hide adds unique ids to the deny-set.
func (r *Redis) Hide(ctx context.Context, uniqueIDs ...string) error {
	return r.store.SAdd(ctx, r.hiddenKey, uniqueIDs...)
}

// Reveal removes unique ids from the deny-set.
func (r *Redis) Reveal(ctx context.Context, uniqueIDs ...string) error {
	return r.store.SRem(ctx, r.hiddenKey, uniqueIDs...)
}
