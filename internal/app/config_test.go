package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsFromEnv(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Memory")
	t.Setenv("NEO4J_PASSWORD", "s3cret")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.Equal(t, ResolverOLS, cfg.Resolver.Kind)
	assert.Equal(t, "https://www.ebi.ac.uk/ols4/api", cfg.Resolver.OLSBaseURL)
	assert.Equal(t, "foodon", cfg.Resolver.OLSOntology)
	assert.Equal(t, 168*time.Hour, cfg.Resolver.CacheTTL)
	assert.Equal(t, "s3cret", cfg.Neo4j.Password)
	assert.True(t, cfg.Neo4j.ResetOnStart)
	assert.Equal(t, 100, cfg.Scraper.Limit)
	assert.False(t, cfg.Lexicon.FoldAccents)
}

func TestLoadYAMLWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
log_mode: production
store:
  backend: neo4j
neo4j:
  uri: bolt://graph:7687
  timeout: 3s
scraper:
  kind: saved-pages
  html_dir: pages
  limit: 5
resolver:
  kind: meili
  meili_index: foods
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	t.Setenv("SCRAPER_LIMIT", "7")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.LogMode)
	assert.Equal(t, BackendNeo4j, cfg.Store.Backend)
	assert.Equal(t, "bolt://graph:7687", cfg.Neo4j.URI)
	assert.Equal(t, 3*time.Second, cfg.Neo4j.Timeout)
	assert.Equal(t, "pages", cfg.Scraper.HTMLDir)
	assert.Equal(t, 7, cfg.Scraper.Limit)
	assert.Equal(t, ResolverMeili, cfg.Resolver.Kind)
	assert.Equal(t, "foods", cfg.Resolver.MeiliIndex)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Store:    StoreConfig{Backend: BackendSQLite, SQLitePath: "x.db"},
			Resolver: ResolverConfig{Kind: ResolverOLS, OLSBaseURL: "https://ols.example"},
			Otel:     OtelConfig{SampleRatio: 1},
		}
	}
	cases := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"valid", func(*Config) {}, true},
		{"memory", func(c *Config) { c.Store.Backend = BackendMemory }, true},
		{"unknown backend", func(c *Config) { c.Store.Backend = "mongo" }, false},
		{"neo4j without uri", func(c *Config) { c.Store.Backend = BackendNeo4j }, false},
		{"unknown resolver", func(c *Config) { c.Resolver.Kind = "wikidata" }, false},
		{"meili without url", func(c *Config) { c.Resolver.Kind = ResolverMeili; c.Resolver.MeiliIndex = "foodon" }, false},
		{"negative limit", func(c *Config) { c.Scraper.Limit = -1 }, false},
		{"ratio above one", func(c *Config) { c.Otel.SampleRatio = 2 }, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
