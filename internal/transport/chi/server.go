package chi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	gochi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/solrdex/internal/db"
	"github.com/kailas-cloud/solrdex/internal/domain"
	"github.com/kailas-cloud/solrdex/internal/domain/search/mode"
	"github.com/kailas-cloud/solrdex/internal/domain/search/request"
	"github.com/kailas-cloud/solrdex/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/solrdex/internal/logger"
	"github.com/kailas-cloud/solrdex/internal/repository/projection"
	healthuc "github.com/kailas-cloud/solrdex/internal/usecase/health"
	"github.com/kailas-cloud/solrdex/internal/version"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// maxHiddenIDs caps one deny-set update.
const maxHiddenIDs = 1000

// SearchService is the search use case consumed by the HTTP layer.
type SearchService interface {
	Search(ctx context.Context, req request.Request) (result.Bundle[projection.Item], error)
	GroupedSearch(ctx context.Context, req request.Request) (result.Bundle[projection.Item], error)
	Count(ctx context.Context, req request.Request) (int, error)
	Any(ctx context.Context, req request.Request) (bool, error)
	Facets(ctx context.Context, req request.Request) (result.FacetResults, error)
	CheckSpelling(ctx context.Context, text string) (string, bool, error)
	Hide(ctx context.Context, uniqueIDs ...string) error
	Reveal(ctx context.Context, uniqueIDs ...string) error
}

// HealthService reports component health.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the search API over chi.
type Server struct {
	search        SearchService
	health        HealthService
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search SearchService, health HealthService, l *zap.Logger) *Server {
	if l == nil {
		l = zap.NewNop()
	}
	s := &Server{search: search, health: health, logger: l}
	s.errorHandlers = []errorHandler{
		callerErrorHandler(domain.ErrInvalidCriteria, http.StatusBadRequest, CodeInvalidCriteria),
		callerErrorHandler(domain.ErrInvalidOperation, http.StatusBadRequest, CodeInvalidOperation),
		sentinelHandler(domain.ErrNotImplemented, http.StatusNotImplemented, CodeNotImplemented),
		sentinelHandler(db.ErrUnauthorized, http.StatusBadGateway, CodeEngineRejected),
		sentinelHandler(db.ErrUnreachable, http.StatusServiceUnavailable, CodeEngineDown),
		sentinelHandler(context.DeadlineExceeded, http.StatusGatewayTimeout, CodeTimeout),
	}
	return s
}

// Register mounts the API routes on r.
func (s *Server) Register(r gochi.Router) {
	r.Get("/healthz", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/v1", func(r gochi.Router) {
		r.Post("/search", s.Search)
		r.Post("/search/grouped", s.GroupedSearch)
		r.Post("/search/count", s.Count)
		r.Post("/search/any", s.Any)
		r.Post("/search/facets", s.Facets)
		r.Post("/spellcheck", s.CheckSpelling)

		r.Post("/admin/hidden", s.Hide)
		r.Delete("/admin/hidden", s.Reveal)
	})
}

// Search handles POST /v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeSearch(w, r)
	if !ok {
		return
	}
	ev := eventFrom(r.Context())
	ev.setOp("search")
	b, err := s.search.Search(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	ev.setHits(b.TotalCount())
	writeJSON(w, http.StatusOK, bundleToAPI(b))
}

// GroupedSearch handles POST /v1/search/grouped.
func (s *Server) GroupedSearch(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeSearch(w, r)
	if !ok {
		return
	}
	ev := eventFrom(r.Context())
	ev.setOp("grouped")
	b, err := s.search.GroupedSearch(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	ev.setHits(b.TotalCount())
	writeJSON(w, http.StatusOK, bundleToAPI(b))
}

// Count handles POST /v1/search/count.
func (s *Server) Count(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeSearch(w, r)
	if !ok {
		return
	}
	ev := eventFrom(r.Context())
	ev.setOp("count")
	n, err := s.search.Count(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	ev.setHits(n)
	writeJSON(w, http.StatusOK, CountResponse{Count: n})
}

// Any handles POST /v1/search/any.
func (s *Server) Any(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeSearch(w, r)
	if !ok {
		return
	}
	ev := eventFrom(r.Context())
	ev.setOp("any")
	found, err := s.search.Any(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	hits := 0
	if found {
		hits = 1
	}
	ev.setHits(hits)
	writeJSON(w, http.StatusOK, AnyResponse{Any: found})
}

// Facets handles POST /v1/search/facets.
func (s *Server) Facets(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeSearch(w, r)
	if !ok {
		return
	}
	ev := eventFrom(r.Context())
	ev.setOp("facets")
	facets, err := s.search.Facets(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	ev.setHits(len(facets.Categories))
	if facets.Categories == nil {
		facets.Categories = []result.FacetCategory{}
	}
	writeJSON(w, http.StatusOK, facets)
}

// CheckSpelling handles POST /v1/spellcheck.
func (s *Server) CheckSpelling(w http.ResponseWriter, r *http.Request) {
	var body SpellCheckRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(body.Text) > request.MaxTextLength {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "text too long")
		return
	}
	eventFrom(r.Context()).setOp("spellcheck")
	text, corrected, err := s.search.CheckSpelling(r.Context(), body.Text)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SpellCheckResponse{Text: text, Corrected: corrected})
}

// Hide handles POST /v1/admin/hidden.
func (s *Server) Hide(w http.ResponseWriter, r *http.Request) {
	ids, ok := s.decodeHidden(w, r)
	if !ok {
		return
	}
	eventFrom(r.Context()).setOp("hide")
	if err := s.search.Hide(r.Context(), ids...); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Reveal handles DELETE /v1/admin/hidden.
func (s *Server) Reveal(w http.ResponseWriter, r *http.Request) {
	ids, ok := s.decodeHidden(w, r)
	if !ok {
		return
	}
	eventFrom(r.Context()).setOp("reveal")
	if err := s.search.Reveal(r.Context(), ids...); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /healthz.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	// Degraded still serves traffic.
	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:  string(report.Status),
		Checks:  checks,
		Version: version.Get(),
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// decodeSearch reads a SearchRequest. An empty body matches everything.
func (s *Server) decodeSearch(w http.ResponseWriter, r *http.Request) (request.Request, bool) {
	var body SearchRequest
	if err := decodeJSON(w, r, &body); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return request.Request{}, false
	}
	req, err := searchRequestFromAPI(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return request.Request{}, false
	}
	if req.Visibility() == mode.SkipVisibility && !scopeFrom(r.Context()).admin() {
		writeError(w, http.StatusForbidden, CodeUnauthorized, "admin api key required to skip visibility")
		return request.Request{}, false
	}
	return req, true
}

func (s *Server) decodeHidden(w http.ResponseWriter, r *http.Request) ([]string, bool) {
	var body HiddenRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return nil, false
	}
	ids := make([]string, 0, len(body.UniqueIDs))
	for _, id := range body.UniqueIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "unique_ids is required")
		return nil, false
	}
	if len(ids) > maxHiddenIDs {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "too many unique_ids")
		return nil, false
	}
	return ids, true
}

// decodeJSON decodes the body keeping numbers as json.Number so filter
// values render exactly as sent.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error
// and reports only the sentinel message.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, sentinel.Error())
		return true
	}
}

// callerErrorHandler is sentinelHandler for caller mistakes: the message
// carries the detail, starting at the sentinel.
func callerErrorHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, callerMessage(err, sentinel))
		return true
	}
}

// callerMessage strips use-case wrapping prefixes ("compile: ...") so the
// message starts at the sentinel.
func callerMessage(err, sentinel error) string {
	prefix := sentinel.Error()
	for e := err; e != nil; e = errors.Unwrap(e) {
		if msg := e.Error(); strings.HasPrefix(msg, prefix) {
			return msg
		}
	}
	return prefix
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	eventFrom(r.Context()).fail(err)
	l := logpkg.FromContextOr(r.Context(), s.logger)
	l.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	l.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
