package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendNeo4j    = "neo4j"
	BackendMemory   = "memory"

	ResolverOLS   = "ols"
	ResolverMeili = "meili"
)

// Config holds everything one ingestion run needs. It is read from an
// optional YAML file with environment overrides. Secrets come from the
// environment only.
type Config struct {
	LogMode     string `yaml:"log_mode" env:"LOG_MODE" env-default:"development"`
	Environment string `yaml:"environment" env:"ENVIRONMENT" env-default:"local"`

	Store    StoreConfig    `yaml:"store"`
	Neo4j    Neo4jConfig    `yaml:"neo4j"`
	Lexicon  LexiconConfig  `yaml:"lexicon"`
	Scraper  ScraperConfig  `yaml:"scraper"`
	Resolver ResolverConfig `yaml:"resolver"`
	Otel     OtelConfig     `yaml:"otel"`
}

type StoreConfig struct {
	// Backend is one of sqlite, postgres, neo4j or memory.
	Backend    string `yaml:"backend" env:"STORE_BACKEND" env-default:"sqlite"`
	SQLitePath string `yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"recipegraph.db"`

	PostgresHost     string `yaml:"postgres_host" env:"POSTGRES_HOST" env-default:"localhost"`
	PostgresPort     string `yaml:"postgres_port" env:"POSTGRES_PORT" env-default:"5432"`
	PostgresUser     string `yaml:"postgres_user" env:"POSTGRES_USER" env-default:"recipes"`
	PostgresPassword string `yaml:"-" env:"POSTGRES_PASSWORD"`
	PostgresName     string `yaml:"postgres_name" env:"POSTGRES_NAME" env-default:"recipes"`
	PostgresSSLMode  string `yaml:"postgres_sslmode" env:"POSTGRES_SSLMODE" env-default:"disable"`
}

type Neo4jConfig struct {
	URI          string        `yaml:"uri" env:"NEO4J_URI" env-default:""`
	User         string        `yaml:"user" env:"NEO4J_USER" env-default:"neo4j"`
	Password     string        `yaml:"-" env:"NEO4J_PASSWORD"`
	Database     string        `yaml:"database" env:"NEO4J_DATABASE" env-default:"neo4j"`
	Timeout      time.Duration `yaml:"timeout" env:"NEO4J_TIMEOUT" env-default:"10s"`
	MaxPoolSize  int           `yaml:"max_pool_size" env:"NEO4J_MAX_POOL_SIZE" env-default:"10"`
	ResetOnStart bool          `yaml:"reset_on_start" env:"NEO4J_RESET_ON_START" env-default:"true"`
}

type LexiconConfig struct {
	// Dir overrides the embedded word lists. Empty uses the built-in ones.
	Dir string `yaml:"dir" env:"LEXICON_DIR" env-default:""`
	// FoldAccents keeps "jalapeño" as "jalapeno" instead of dropping the
	// accented letter.
	FoldAccents bool `yaml:"fold_accents" env:"NORMALIZER_FOLD_ACCENTS" env-default:"false"`
}

type ScraperConfig struct {
	Kind         string        `yaml:"kind" env:"SCRAPER_KIND" env-default:"manifest"`
	ManifestPath string        `yaml:"manifest_path" env:"SCRAPER_MANIFEST" env-default:"recipes.yaml"`
	HTMLDir      string        `yaml:"html_dir" env:"SCRAPER_HTML_DIR" env-default:"nyt_recipes"`
	URLsFile     string        `yaml:"urls_file" env:"SCRAPER_URLS_FILE" env-default:"sources/urls.txt"`
	Limit        int           `yaml:"limit" env:"SCRAPER_LIMIT" env-default:"100"`
	HTTPTimeout  time.Duration `yaml:"http_timeout" env:"SCRAPER_HTTP_TIMEOUT" env-default:"20s"`
}

type ResolverConfig struct {
	Kind string `yaml:"kind" env:"RESOLVER_KIND" env-default:"ols"`

	OLSBaseURL    string        `yaml:"ols_base_url" env:"OLS_BASE_URL" env-default:"https://www.ebi.ac.uk/ols4/api"`
	OLSOntology   string        `yaml:"ols_ontology" env:"OLS_ONTOLOGY" env-default:"foodon"`
	OLSTimeout    time.Duration `yaml:"ols_timeout" env:"OLS_TIMEOUT" env-default:"15s"`
	OLSMaxRetries int           `yaml:"ols_max_retries" env:"OLS_MAX_RETRIES" env-default:"3"`

	MeiliURL    string `yaml:"meili_url" env:"MEILI_URL" env-default:"http://localhost:7700"`
	MeiliAPIKey string `yaml:"-" env:"MEILI_API_KEY"`
	MeiliIndex  string `yaml:"meili_index" env:"MEILI_INDEX" env-default:"foodon"`

	// CacheAddr enables the Redis lookup cache when set.
	CacheAddr     string        `yaml:"cache_addr" env:"REDIS_ADDR" env-default:""`
	CachePassword string        `yaml:"-" env:"REDIS_PASSWORD"`
	CacheDB       int           `yaml:"cache_db" env:"REDIS_DB" env-default:"0"`
	CacheTTL      time.Duration `yaml:"cache_ttl" env:"RESOLVER_CACHE_TTL" env-default:"168h"`
	CachePrefix   string        `yaml:"cache_prefix" env:"RESOLVER_CACHE_PREFIX" env-default:"recipegraph:resolve:"`
}

type OtelConfig struct {
	Enabled     bool    `yaml:"enabled" env:"OTEL_ENABLED" env-default:"false"`
	ServiceName string  `yaml:"service_name" env:"OTEL_SERVICE_NAME" env-default:"recipegraph"`
	Endpoint    string  `yaml:"endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT" env-default:""`
	Insecure    bool    `yaml:"insecure" env:"OTEL_EXPORTER_OTLP_INSECURE" env-default:"false"`
	Headers     string  `yaml:"-" env:"OTEL_EXPORTER_OTLP_HEADERS"`
	SampleRatio float64 `yaml:"sample_ratio" env:"OTEL_SAMPLE_RATIO" env-default:"1"`
}

// Load reads path (when non-empty) and then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	path = strings.TrimSpace(path)
	if path != "" {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read config from env: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	c.Resolver.Kind = strings.ToLower(strings.TrimSpace(c.Resolver.Kind))
	c.Scraper.Kind = strings.ToLower(strings.TrimSpace(c.Scraper.Kind))
}

func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendSQLite:
		if strings.TrimSpace(c.Store.SQLitePath) == "" {
			return fmt.Errorf("store.sqlite_path is required for the sqlite backend")
		}
	case BackendPostgres:
		if strings.TrimSpace(c.Store.PostgresHost) == "" || strings.TrimSpace(c.Store.PostgresName) == "" {
			return fmt.Errorf("store.postgres_host and store.postgres_name are required for the postgres backend")
		}
	case BackendNeo4j:
		if strings.TrimSpace(c.Neo4j.URI) == "" {
			return fmt.Errorf("neo4j.uri is required for the neo4j backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown store.backend %q", c.Store.Backend)
	}

	switch c.Resolver.Kind {
	case ResolverOLS:
		if strings.TrimSpace(c.Resolver.OLSBaseURL) == "" {
			return fmt.Errorf("resolver.ols_base_url is required")
		}
	case ResolverMeili:
		if strings.TrimSpace(c.Resolver.MeiliURL) == "" || strings.TrimSpace(c.Resolver.MeiliIndex) == "" {
			return fmt.Errorf("resolver.meili_url and resolver.meili_index are required")
		}
	default:
		return fmt.Errorf("unknown resolver.kind %q", c.Resolver.Kind)
	}

	if c.Scraper.Limit < 0 {
		return fmt.Errorf("scraper.limit must be >= 0")
	}
	if c.Otel.SampleRatio < 0 || c.Otel.SampleRatio > 1 {
		return fmt.Errorf("otel.sample_ratio must be within [0,1]")
	}
	return nil
}
