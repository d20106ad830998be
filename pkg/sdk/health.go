package solrdex

import (
	"context"
	"errors"
	"time"

	healthuc "github.com/kailas-cloud/solrdex/internal/usecase/health"
)

// Components reported by Health.
const (
	ComponentSolr       = healthuc.ComponentEngine
	ComponentVisibility = healthuc.ComponentVisibility
)

var errSolrDown = errors.New("solr unreachable")

// HealthStatus is the outcome of a Health probe. Status is "ok",
// "degraded" (visibility store down, searches still served) or "error".
type HealthStatus struct {
	Status string
	Checks map[string]bool
}

// Serving reports whether searches can run, i.e. Solr answered.
func (h HealthStatus) Serving() bool {
	return h.Status != string(healthuc.Unhealthy)
}

// Health probes Solr and, with WithRedisVisibility, the visibility store.
func (c *Client) Health(ctx context.Context) (h HealthStatus) {
	start := time.Now()
	defer func() {
		var err error
		if !h.Serving() {
			err = errSolrDown
		}
		c.obs.observe("health", start, err)
	}()

	report := c.healthSvc.Check(ctx)
	h = HealthStatus{Status: string(report.Status), Checks: make(map[string]bool, len(report.Checks))}
	for name, res := range report.Checks {
		h.Checks[name] = res == healthuc.CheckOK
	}
	return h
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
