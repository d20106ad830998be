package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Visibility drivers.
const (
	VisibilityNone  = "none"
	VisibilityRedis = "redis"
)

// Config holds the solrdex API configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Solr       SolrConfig       `yaml:"solr"`
	Search     SearchConfig     `yaml:"search"`
	Highlight  HighlightConfig  `yaml:"highlight"`
	Fields     FieldsConfig     `yaml:"fields"`
	Facets     FacetsConfig     `yaml:"facets"`
	Visibility VisibilityConfig `yaml:"visibility"`
	Auth       AuthConfig       `yaml:"auth"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
	// AdminKeys grant the deny-set admin routes. Empty = api keys do.
	AdminKeys []string `yaml:"admin_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// SolrConfig holds search engine connection settings.
type SolrConfig struct {
	BaseURL          string `yaml:"base_url"`
	Core             string `yaml:"core"`
	Username         string `yaml:"username"`
	Password         string `yaml:"password"`
	TimeoutSec       int    `yaml:"timeout_sec"`
	ReadinessTimeout int    `yaml:"readiness_timeout_sec"`
}

// SearchConfig holds the platform values the query compiler reads.
type SearchConfig struct {
	IndexName       string `yaml:"index_name"`
	DefaultLanguage string `yaml:"default_language"`
	MaxResults      int    `yaml:"max_results"`
	ContentField    string `yaml:"content_field"`
	DateField       string `yaml:"date_field"`
	GroupField      string `yaml:"group_field"`
	GroupLimit      int    `yaml:"group_limit"`
	// LegacyCollation falls back to regex extraction of the collated query.
	LegacyCollation bool            `yaml:"legacy_collation"`
	DateFacet       DateFacetConfig `yaml:"date_facet"`
}

// DateFacetConfig holds the monthly range facet window in Solr date math.
type DateFacetConfig struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
	Gap   string `yaml:"gap"`
}

// HighlightConfig holds snippet extraction settings.
type HighlightConfig struct {
	Fields   []string `yaml:"fields"`
	Snippets int      `yaml:"snippets"`
	Pattern  string   `yaml:"pattern"`
	FragSize int      `yaml:"fragsize"`
	Slop     float64  `yaml:"slop"`
}

// FieldsConfig holds field-name translation settings.
type FieldsConfig struct {
	KnownExtensions  []string          `yaml:"known_extensions"` // empty = stock Sitecore schema
	DefaultExtension string            `yaml:"default_extension"`
	FieldMap         map[string]string `yaml:"field_map"`
}

// FacetMergeConfig folds several facet categories into one.
type FacetMergeConfig struct {
	Into string   `yaml:"into"`
	From []string `yaml:"from"`
}

// FacetsConfig holds facet post-processing rules.
type FacetsConfig struct {
	Labels  map[string]map[string]string `yaml:"labels"`
	Merges  []FacetMergeConfig           `yaml:"merges"`
	Renames map[string]string            `yaml:"renames"`
}

// VisibilityConfig holds the per-document visibility store settings.
type VisibilityConfig struct {
	Driver           string   `yaml:"driver"` // none, redis (default: none)
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Load reads configuration from a YAML file by environment name (local, docker, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration, substituting ${VAR} references,
// then applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Solr.TimeoutSec <= 0 {
		c.Solr.TimeoutSec = 10
	}
	if c.Solr.ReadinessTimeout <= 0 {
		c.Solr.ReadinessTimeout = 30
	}
	c.Search.applyDefaults()
	c.Highlight.applyDefaults()
	if c.Fields.DefaultExtension == "" {
		c.Fields.DefaultExtension = "_s"
	}
	if c.Visibility.Driver == "" {
		c.Visibility.Driver = VisibilityNone
	}
	if c.Visibility.KeyPrefix == "" {
		c.Visibility.KeyPrefix = "solrdex:"
	}
	if c.Visibility.ReadinessTimeout <= 0 {
		c.Visibility.ReadinessTimeout = 10
	}
}

func (s *SearchConfig) applyDefaults() {
	if s.IndexName == "" {
		s.IndexName = "sitecore_master_index"
	}
	if s.DefaultLanguage == "" {
		s.DefaultLanguage = "en"
	}
	if s.MaxResults <= 0 {
		s.MaxResults = 500
	}
	if s.ContentField == "" {
		s.ContentField = "_content"
	}
	if s.DateField == "" {
		s.DateField = "date_tdt"
	}
	if s.GroupField == "" {
		s.GroupField = "_template"
	}
	if s.GroupLimit <= 0 {
		s.GroupLimit = 10
	}
	if s.DateFacet.Start == "" {
		s.DateFacet.Start = "NOW/MONTH-12MONTHS"
	}
	if s.DateFacet.End == "" {
		s.DateFacet.End = "NOW/MONTH+1MONTH"
	}
	if s.DateFacet.Gap == "" {
		s.DateFacet.Gap = "+1MONTH"
	}
}

func (h *HighlightConfig) applyDefaults() {
	if len(h.Fields) == 0 {
		h.Fields = []string{"_content"}
	}
	if h.Snippets <= 0 {
		h.Snippets = 5
	}
	if h.Pattern == "" {
		h.Pattern = `\w[^|;.!?]{50,400}[|;.!?]`
	}
	if h.FragSize <= 0 {
		h.FragSize = 300
	}
	if h.Slop <= 0 {
		h.Slop = 0.2
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Solr.BaseURL == "" {
		return fmt.Errorf("solr.base_url is required")
	}
	if c.Solr.Core == "" {
		return fmt.Errorf("solr.core is required")
	}
	if c.Highlight.Slop > 1 {
		return fmt.Errorf("highlight.slop must be between 0 and 1, got %g", c.Highlight.Slop)
	}
	switch c.Visibility.Driver {
	case VisibilityNone:
	case VisibilityRedis:
		if len(c.Visibility.Addrs) == 0 {
			return fmt.Errorf("visibility.addrs is required for driver %q", VisibilityRedis)
		}
	default:
		return fmt.Errorf(
			"visibility.driver must be %q or %q, got %q",
			VisibilityNone, VisibilityRedis, c.Visibility.Driver,
		)
	}
	for i, m := range c.Facets.Merges {
		if m.Into == "" || len(m.From) == 0 {
			return fmt.Errorf("facets.merges[%d] needs into and from", i)
		}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
