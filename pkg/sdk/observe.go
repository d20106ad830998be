package solrdex

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Operation outcomes recorded in the status label.
const (
	statusOK           = "ok"
	statusInvalid      = "invalid"
	statusUnauthorized = "unauthorized"
	statusCanceled     = "canceled"
	statusError        = "error"
)

type sdkMetrics struct {
	calls   *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

// newSDKMetrics registers the SDK collectors on reg. Registering twice
// (two clients sharing a registry) reuses the first set.
func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "solrdex",
		Subsystem: "sdk",
		Name:      "operations_total",
		Help:      "SDK calls by operation and outcome.",
	}, []string{"operation", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "solrdex",
		Subsystem: "sdk",
		Name:      "operation_duration_seconds",
		Help:      "SDK call latency, including the Solr round trip.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"operation"})

	var err error
	if calls, err = reuse(reg, calls); err != nil {
		return nil, err
	}
	if latency, err = reuse(reg, latency); err != nil {
		return nil, err
	}
	return &sdkMetrics{calls: calls, latency: latency}, nil
}

func reuse[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return c, fmt.Errorf("solrdex: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(C)
	if !ok {
		return c, fmt.Errorf("solrdex: metric registered as %T", are.ExistingCollector)
	}
	return existing, nil
}

// classify maps an operation error onto its status label.
func classify(err error) string {
	switch {
	case err == nil:
		return statusOK
	case errors.Is(err, ErrInvalidCriteria), errors.Is(err, ErrInvalidOperation), errors.Is(err, ErrNotImplemented):
		return statusInvalid
	case errors.Is(err, ErrUnauthorized):
		return statusUnauthorized
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return statusCanceled
	default:
		return statusError
	}
}

// observer records every SDK call. Both sinks are optional.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg == nil {
		return o, nil
	}
	m, err := newSDKMetrics(reg)
	if err != nil {
		return nil, err
	}
	o.metrics = m
	return o, nil
}

func (o *observer) observe(op string, start time.Time, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)
	status := classify(err)

	if o.metrics != nil {
		o.metrics.calls.WithLabelValues(op, status).Inc()
		o.metrics.latency.WithLabelValues(op).Observe(dur.Seconds())
	}
	if o.logger == nil {
		return
	}

	attrs := []slog.Attr{
		slog.String("op", op),
		slog.String("status", status),
		slog.Duration("duration", dur),
	}
	level := slog.LevelDebug
	switch status {
	case statusOK:
	case statusInvalid, statusCanceled:
		level = slog.LevelInfo
		attrs = append(attrs, slog.String("error", err.Error()))
	default:
		level = slog.LevelWarn
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	o.logger.LogAttrs(context.Background(), level, "solrdex call", attrs...)
}
