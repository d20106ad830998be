package solrdex

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/solrdex/internal/config"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	cfg config.Config

	httpClient       *http.Client
	readinessTimeout time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

func newClientConfig(opts []Option) *clientConfig {
	c := &clientConfig{
		cfg: config.Config{
			Visibility: config.VisibilityConfig{Driver: config.VisibilityNone},
		},
		readinessTimeout: defaultReadinessTimeout,
	}
	for _, o := range opts {
		o.apply(c)
	}
	c.cfg.ApplyDefaults()
	return c
}

// WithSolr sets the Solr base URL (e.g. http://localhost:8983/solr) and core.
func WithSolr(baseURL, core string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Solr.BaseURL = baseURL
		c.cfg.Solr.Core = core
	})
}

// WithBasicAuth sets Solr credentials.
func WithBasicAuth(username, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Solr.Username = username
		c.cfg.Solr.Password = password
	})
}

// WithTimeout sets the per-request Solr timeout in whole seconds. Default: 10s.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Solr.TimeoutSec = int(d / time.Second)
	})
}

// WithHTTPClient overrides the HTTP client used for Solr requests.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithReadinessTimeout bounds the initial wait for Solr. Zero skips the wait.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readinessTimeout = d
	})
}

// WithIndex sets the index name every query is scoped to.
// Default: sitecore_master_index.
func WithIndex(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Search.IndexName = name
	})
}

// WithDefaultLanguage sets the language used when a query names none.
// Default: en.
func WithDefaultLanguage(lang string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Search.DefaultLanguage = lang
	})
}

// WithMaxResults caps the rows of an unpaged query. Default: 500.
func WithMaxResults(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Search.MaxResults = n
	})
}

// WithGrouping sets the field and per-group cap of grouped searches.
// Defaults: _template, 10.
func WithGrouping(field string, limit int) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Search.GroupField = field
		c.cfg.Search.GroupLimit = limit
	})
}

// WithLegacyCollation enables regex extraction of the collated query when
// the engine reply carries no structured collation.
func WithLegacyCollation() Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Search.LegacyCollation = true
	})
}

// WithFieldMap registers explicit logical-to-indexed field name translations.
func WithFieldMap(m map[string]string) Option {
	return optionFunc(func(c *clientConfig) {
		if c.cfg.Fields.FieldMap == nil {
			c.cfg.Fields.FieldMap = make(map[string]string, len(m))
		}
		for k, v := range m {
			c.cfg.Fields.FieldMap[k] = v
		}
	})
}

// WithKnownExtensions replaces the recognized dynamic-field suffixes.
func WithKnownExtensions(exts ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Fields.KnownExtensions = exts
	})
}

// WithFacetRename renames a facet category in results.
func WithFacetRename(from, to string) Option {
	return optionFunc(func(c *clientConfig) {
		if c.cfg.Facets.Renames == nil {
			c.cfg.Facets.Renames = map[string]string{}
		}
		c.cfg.Facets.Renames[from] = to
	})
}

// WithFacetMerge folds the from categories into one named into.
func WithFacetMerge(into string, from ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Facets.Merges = append(c.cfg.Facets.Merges, config.FacetMergeConfig{Into: into, From: from})
	})
}

// WithRedisVisibility enables the Redis deny-set: documents hidden there are
// dropped from every result, and Hide/Reveal become available.
func WithRedisVisibility(addr, password, keyPrefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Visibility.Driver = config.VisibilityRedis
		c.cfg.Visibility.Addrs = []string{addr}
		c.cfg.Visibility.Password = password
		c.cfg.Visibility.KeyPrefix = keyPrefix
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
