package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// unmatchedRoute is the route label of requests no pattern matched.
const unmatchedRoute = "unmatched"

var httpLabels = []string{"method", "route", "code"}

var (
	httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "solrdex",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "API request latency by route and status class.",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, httpLabels)

	httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "solrdex",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "API requests by route and status class.",
	}, httpLabels)

	httpResponseBytes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "solrdex",
		Subsystem: "http",
		Name:      "response_bytes_total",
		Help:      "Response body bytes written per route.",
	}, []string{"route"})

	httpRequestsInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "solrdex",
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "API requests currently being served.",
	})
)

var registerHTTP sync.Once

// RegisterHTTPMetrics registers the API collectors on the default registry.
// Later calls are no-ops.
func RegisterHTTPMetrics() {
	registerHTTP.Do(func() {
		prometheus.MustRegister(httpRequestDuration, httpRequestsTotal, httpResponseBytes, httpRequestsInFlight)
	})
}

// Middleware records every request under its chi route pattern.
func Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			httpRequestsInFlight.Inc()
			defer httpRequestsInFlight.Dec()

			rec := &recorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			// RoutePattern is only complete once routing has run.
			route := unmatchedRoute
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				route = normalizeRoute(rctx.RoutePattern())
			}
			code := statusClass(rec.status)

			httpRequestDuration.WithLabelValues(r.Method, route, code).Observe(time.Since(start).Seconds())
			httpRequestsTotal.WithLabelValues(r.Method, route, code).Inc()
			httpResponseBytes.WithLabelValues(route).Add(float64(rec.bytes))
		})
	}
}

func normalizeRoute(pattern string) string {
	if pattern == "" {
		return unmatchedRoute
	}
	return pattern
}

// statusClass buckets a status code as "2xx", "4xx" and so on.
func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}

// recorder captures the first status written and counts body bytes.
type recorder struct {
	http.ResponseWriter
	status  int
	bytes   int
	written bool
}

func (w *recorder) WriteHeader(status int) {
	if !w.written {
		w.status = status
		w.written = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *recorder) Write(b []byte) (int, error) {
	w.written = true
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err //nolint:wrapcheck // pass-through
}
