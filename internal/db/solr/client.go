package solr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kailas-cloud/solrdex/internal/db"
)

// Compile-time check: Store implements db.Engine.
var _ db.Engine = (*Store)(nil)

// maxErrorBody caps how much of a failed response is retained for recovery.
const maxErrorBody = 64 << 10

// Config holds connection parameters for a Solr core.
type Config struct {
	BaseURL  string
	Core     string
	Username string
	Password string
	Timeout  time.Duration
	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
}

// Store implements db.Engine over the Solr HTTP API.
type Store struct {
	base     *url.URL
	core     string
	username string
	password string
	client   *http.Client
}

// NewStore creates a Solr store.
func NewStore(cfg Config) (*Store, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if cfg.Core == "" {
		return nil, fmt.Errorf("core is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Store{
		base:     base,
		core:     cfg.Core,
		username: cfg.Username,
		password: cfg.Password,
		client:   client,
	}, nil
}

// Select posts the query to the core's select handler and decodes the reply.
func (s *Store) Select(ctx context.Context, req *db.SelectRequest) (*db.SelectResponse, error) {
	form := url.Values{}
	form.Set("q", req.Query)
	form.Set("wt", "json")
	for _, p := range req.Params {
		form.Add(p.Key, p.Value)
	}

	body, err := s.post(ctx, "select", form)
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	resp, err := decodeSelect(body)
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: &db.ProtocolError{StatusCode: http.StatusOK, Body: body}}
	}
	return resp, nil
}

// Ping checks the core's ping handler.
func (s *Store) Ping(ctx context.Context) error {
	body, err := s.get(ctx, "admin/ping", url.Values{"wt": {"json"}})
	if err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	var reply struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &reply); err != nil {
		return &db.Error{Op: db.OpPing, Err: fmt.Errorf("decode: %w", err)}
	}
	if !strings.EqualFold(reply.Status, "OK") {
		return &db.Error{Op: db.OpPing, Err: fmt.Errorf("status %q", reply.Status)}
	}
	return nil
}

// WaitForReady polls Ping until the core responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for solr: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

func (s *Store) endpoint(handler string) string {
	u := *s.base
	u.Path = u.Path + "/" + url.PathEscape(s.core) + "/" + handler
	return u.String()
}

func (s *Store) post(ctx context.Context, handler string, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint(handler), bytes.NewBufferString(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=utf-8")
	return s.do(req)
}

func (s *Store) get(ctx context.Context, handler string, query url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint(handler)+"?"+query.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	return s.do(req)
}

func (s *Store) do(req *http.Request) ([]byte, error) {
	req.Header.Set("Accept", "application/json")
	if s.username != "" {
		req.SetBasicAuth(s.username, s.password)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &db.ConnectionError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &db.ProtocolError{StatusCode: resp.StatusCode, Body: body}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &db.ConnectionError{Err: err, Body: body}
	}
	return body, nil
}
