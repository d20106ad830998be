// Package redis backs the per-document deny-set with Redis sets.
package redis

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/solrdex/internal/db"
)

var _ db.SetStore = (*Store)(nil)

const (
	clientName      = "solrdex"
	firstRetryDelay = 50 * time.Millisecond
	maxRetryDelay   = time.Second
)

// Config describes the deny-set connection.
type Config struct {
	Addrs    []string
	Username string
	Password string
	DB       int
	// DialTimeout bounds each connection attempt. Zero keeps the client default.
	DialTimeout time.Duration
}

// Store is a db.SetStore over a rueidis client.
type Store struct {
	client rueidis.Client
}

// NewStore connects to Redis. Client-side caching is off: a Hide must be
// visible to the very next lookup.
func NewStore(cfg Config) (*Store, error) {
	opt, err := clientOption(cfg)
	if err != nil {
		return nil, err
	}
	client, err := rueidis.NewClient(opt)
	if err != nil {
		return nil, fmt.Errorf("connect redis %v: %w", cfg.Addrs, err)
	}
	return &Store{client: client}, nil
}

func clientOption(cfg Config) (rueidis.ClientOption, error) {
	if len(cfg.Addrs) == 0 {
		return rueidis.ClientOption{}, errors.New("redis: at least one address is required")
	}
	opt := rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		ClientName:   clientName,
		DisableCache: true,
	}
	if cfg.DialTimeout > 0 {
		opt.Dialer = net.Dialer{Timeout: cfg.DialTimeout}
	}
	return opt, nil
}

// Ping round-trips a PING.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Do(ctx, s.client.B().Ping().Build()).Error(); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close shuts the client down.
func (s *Store) Close() {
	s.client.Close()
}

// WaitForReady pings immediately, then retries with doubling delays until
// Redis answers or timeout elapses. The last ping error is reported.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	delay := firstRetryDelay
	for {
		err := s.Ping(ctx)
		if err == nil {
			return nil
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("redis not ready after %s: %w", timeout, errors.Join(ctx.Err(), err))
		case <-timer.C:
		}
		delay = min(delay*2, maxRetryDelay)
	}
}

func (s *Store) do(ctx context.Context, cmd rueidis.Completed) rueidis.RedisResult {
	return s.client.Do(ctx, cmd)
}

func (s *Store) b() rueidis.Builder {
	return s.client.B()
}
