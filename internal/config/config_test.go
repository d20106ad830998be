package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP:       HTTPConfig{Port: 8080},
		Solr:       SolrConfig{BaseURL: "http://localhost:8983/solr", Core: "sitecore_master_index"},
		Visibility: VisibilityConfig{Driver: VisibilityNone},
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_Solr(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"missing base url", func(c *Config) { c.Solr.BaseURL = "" }, "solr.base_url is required"},
		{"missing core", func(c *Config) { c.Solr.Core = "" }, "solr.core is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || err.Error() != tt.wantErr {
				t.Fatalf("Validate() = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_VisibilityDriver(t *testing.T) {
	tests := []struct {
		name    string
		vis     VisibilityConfig
		wantErr bool
	}{
		{"none", VisibilityConfig{Driver: VisibilityNone}, false},
		{"redis with addrs", VisibilityConfig{Driver: VisibilityRedis, Addrs: []string{"localhost:6379"}}, false},
		{"redis without addrs", VisibilityConfig{Driver: VisibilityRedis}, true},
		{"unknown", VisibilityConfig{Driver: "memcached"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Visibility = tt.vis
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_UnknownDriverMessage(t *testing.T) {
	cfg := validConfig()
	cfg.Visibility.Driver = "memcached"

	err := cfg.Validate()
	expected := `visibility.driver must be "none" or "redis", got "memcached"`
	if err == nil || err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %v\nwant: %q", err, expected)
	}
}

func TestValidate_FacetMerge(t *testing.T) {
	cfg := validConfig()
	cfg.Facets.Merges = []FacetMergeConfig{{Into: "topic"}}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for merge without sources")
	}
}

func TestValidate_Slop(t *testing.T) {
	cfg := validConfig()
	cfg.Highlight.Slop = 1.5

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for slop above 1")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Solr.TimeoutSec != 10 {
		t.Errorf("expected Solr.TimeoutSec=10, got %d", cfg.Solr.TimeoutSec)
	}
	if cfg.Solr.ReadinessTimeout != 30 {
		t.Errorf("expected Solr.ReadinessTimeout=30, got %d", cfg.Solr.ReadinessTimeout)
	}
	if cfg.Search.IndexName != "sitecore_master_index" {
		t.Errorf("expected IndexName=sitecore_master_index, got %q", cfg.Search.IndexName)
	}
	if cfg.Search.DefaultLanguage != "en" {
		t.Errorf("expected DefaultLanguage=en, got %q", cfg.Search.DefaultLanguage)
	}
	if cfg.Search.MaxResults != 500 {
		t.Errorf("expected MaxResults=500, got %d", cfg.Search.MaxResults)
	}
	if cfg.Search.ContentField != "_content" || cfg.Search.DateField != "date_tdt" {
		t.Errorf("unexpected fields: %q, %q", cfg.Search.ContentField, cfg.Search.DateField)
	}
	if cfg.Search.GroupField != "_template" || cfg.Search.GroupLimit != 10 {
		t.Errorf("unexpected grouping: %q, %d", cfg.Search.GroupField, cfg.Search.GroupLimit)
	}
	if cfg.Search.DateFacet != (DateFacetConfig{Start: "NOW/MONTH-12MONTHS", End: "NOW/MONTH+1MONTH", Gap: "+1MONTH"}) {
		t.Errorf("unexpected date facet: %+v", cfg.Search.DateFacet)
	}
	if len(cfg.Highlight.Fields) != 1 || cfg.Highlight.Fields[0] != "_content" {
		t.Errorf("unexpected highlight fields: %v", cfg.Highlight.Fields)
	}
	if cfg.Highlight.Snippets != 5 || cfg.Highlight.FragSize != 300 || cfg.Highlight.Slop != 0.2 {
		t.Errorf("unexpected highlight: %+v", cfg.Highlight)
	}
	if cfg.Highlight.Pattern != `\w[^|;.!?]{50,400}[|;.!?]` {
		t.Errorf("unexpected highlight pattern: %q", cfg.Highlight.Pattern)
	}
	if cfg.Fields.DefaultExtension != "_s" {
		t.Errorf("expected DefaultExtension=_s, got %q", cfg.Fields.DefaultExtension)
	}
	if cfg.Visibility.Driver != VisibilityNone {
		t.Errorf("expected Driver=none, got %q", cfg.Visibility.Driver)
	}
	if cfg.Visibility.KeyPrefix != "solrdex:" {
		t.Errorf("expected KeyPrefix='solrdex:', got %q", cfg.Visibility.KeyPrefix)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:       HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Search:     SearchConfig{IndexName: "web_index", MaxResults: 50, GroupLimit: 3},
		Highlight:  HighlightConfig{Snippets: 2},
		Visibility: VisibilityConfig{Driver: VisibilityRedis, KeyPrefix: "custom:"},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Search.IndexName != "web_index" {
		t.Errorf("expected IndexName=web_index, got %q", cfg.Search.IndexName)
	}
	if cfg.Search.MaxResults != 50 || cfg.Search.GroupLimit != 3 {
		t.Errorf("unexpected search: %+v", cfg.Search)
	}
	if cfg.Highlight.Snippets != 2 {
		t.Errorf("expected Snippets=2, got %d", cfg.Highlight.Snippets)
	}
	if cfg.Visibility.Driver != VisibilityRedis || cfg.Visibility.KeyPrefix != "custom:" {
		t.Errorf("unexpected visibility: %+v", cfg.Visibility)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("SOLRDEX_TEST_CORE", "web_index")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"set", "core: ${SOLRDEX_TEST_CORE}", "core: web_index"},
		{"set ignores default", "core: ${SOLRDEX_TEST_CORE:-other}", "core: web_index"},
		{"unset with default", "core: ${SOLRDEX_TEST_MISSING:-fallback}", "core: fallback"},
		{"unset", "core: ${SOLRDEX_TEST_MISSING}", "core: "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(expandEnvVars([]byte(tt.in))); got != tt.want {
				t.Errorf("expandEnvVars() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	t.Setenv("SOLRDEX_TEST_SOLR_URL", "http://solr:8983/solr")

	data := []byte(`
http:
  port: 8080
solr:
  base_url: ${SOLRDEX_TEST_SOLR_URL}
  core: sitecore_web_index
search:
  legacy_collation: true
fields:
  field_map:
    Title: title_t
facets:
  labels:
    category:
      news: News
  merges:
    - into: topic
      from: [category, section]
visibility:
  driver: redis
  addrs: ["localhost:6379"]
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cfg.Solr.BaseURL != "http://solr:8983/solr" {
		t.Errorf("BaseURL = %q", cfg.Solr.BaseURL)
	}
	if !cfg.Search.LegacyCollation {
		t.Error("expected legacy collation")
	}
	if cfg.Search.IndexName != "sitecore_master_index" {
		t.Errorf("expected default index name, got %q", cfg.Search.IndexName)
	}
	if cfg.Fields.FieldMap["Title"] != "title_t" {
		t.Errorf("FieldMap = %v", cfg.Fields.FieldMap)
	}
	if cfg.Facets.Labels["category"]["news"] != "News" {
		t.Errorf("Labels = %v", cfg.Facets.Labels)
	}
	if len(cfg.Facets.Merges) != 1 || cfg.Facets.Merges[0].Into != "topic" {
		t.Errorf("Merges = %+v", cfg.Facets.Merges)
	}
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("http:\n  port: 8080\n"))
	if err == nil || !strings.Contains(err.Error(), "invalid config") {
		t.Fatalf("Parse() error = %v, want invalid config", err)
	}
}

func TestLoad_Missing(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	if _, err := Load("does-not-exist"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoad_FromWorkingDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	body := "http:\n  port: 9090\nsolr:\n  base_url: http://localhost:8983/solr\n  core: c\n"
	if err := os.WriteFile(filepath.Join(dir, "config", "unit.yaml"), []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("unit")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.HTTP.Port)
	}
}

func TestLoad_LocalFile(t *testing.T) {
	t.Setenv("VISIBILITY_DRIVER", "")
	t.Setenv("SOLR_URL", "")

	cfg, err := Load("local")
	if err != nil {
		t.Fatalf("Load(local) error: %v", err)
	}
	if cfg.Solr.BaseURL != "http://localhost:8983/solr" {
		t.Errorf("BaseURL = %q", cfg.Solr.BaseURL)
	}
	if cfg.Visibility.Driver != VisibilityNone {
		t.Errorf("Driver = %q", cfg.Visibility.Driver)
	}
	if cfg.Search.DateFacet.Gap != "+1MONTH" {
		t.Errorf("Gap = %q", cfg.Search.DateFacet.Gap)
	}
	if cfg.Highlight.Pattern != `\w[^|;.!?]{50,400}[|;.!?]` {
		t.Errorf("Pattern = %q", cfg.Highlight.Pattern)
	}
}
