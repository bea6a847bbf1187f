package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/yungbote/recipegraph-backend/internal/clients/redis"
	"github.com/yungbote/recipegraph-backend/internal/data/db"
	"github.com/yungbote/recipegraph-backend/internal/ingestion"
	"github.com/yungbote/recipegraph-backend/internal/platform/logger"
	"github.com/yungbote/recipegraph-backend/internal/platform/meili"
	"github.com/yungbote/recipegraph-backend/internal/platform/neo4jdb"
	"github.com/yungbote/recipegraph-backend/internal/platform/ols"
)

// Clients owns every external connection opened for a run.
type Clients struct {
	Resolver   ingestion.Resolver
	CacheStore redis.Store
	SQL        *db.Service
	Neo4j      *neo4jdb.Client
}

func wireClients(ctx context.Context, log *logger.Logger, cfg *Config) (Clients, error) {
	log.Info("Wiring clients...")
	var c Clients

	resolver, store, err := wireResolver(log, cfg.Resolver)
	if err != nil {
		return Clients{}, err
	}
	c.Resolver = resolver
	c.CacheStore = store

	switch cfg.Store.Backend {
	case BackendSQLite, BackendPostgres:
		svc, err := OpenRelational(log, cfg)
		if err != nil {
			c.Close(ctx)
			return Clients{}, err
		}
		c.SQL = svc
	case BackendNeo4j:
		client, err := OpenGraph(ctx, log, cfg)
		if err != nil {
			c.Close(ctx)
			return Clients{}, err
		}
		c.Neo4j = client
	}
	return c, nil
}

func wireResolver(log *logger.Logger, cfg ResolverConfig) (ingestion.Resolver, redis.Store, error) {
	var base ingestion.Resolver
	switch cfg.Kind {
	case ResolverMeili:
		r, err := meili.NewResolver(log, MeiliConfig(cfg))
		if err != nil {
			return nil, nil, fmt.Errorf("init meilisearch resolver: %w", err)
		}
		base = r
	default:
		r, err := ols.NewClient(log, ols.Config{
			BaseURL:    cfg.OLSBaseURL,
			Ontology:   cfg.OLSOntology,
			Timeout:    cfg.OLSTimeout,
			MaxRetries: cfg.OLSMaxRetries,
		}, &http.Client{Timeout: cfg.OLSTimeout})
		if err != nil {
			return nil, nil, fmt.Errorf("init ols client: %w", err)
		}
		base = r
	}

	if cfg.CacheAddr == "" {
		return base, nil, nil
	}
	cacheCfg := redis.CacheConfig{
		Addr:     cfg.CacheAddr,
		Password: cfg.CachePassword,
		DB:       cfg.CacheDB,
		TTL:      cfg.CacheTTL,
		Prefix:   cfg.CachePrefix,
	}
	store, err := redis.NewStore(cacheCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("init resolver cache: %w", err)
	}
	return redis.NewCachingResolver(log, base, store, cacheCfg), store, nil
}

func MeiliConfig(cfg ResolverConfig) meili.Config {
	return meili.Config{URL: cfg.MeiliURL, APIKey: cfg.MeiliAPIKey, Index: cfg.MeiliIndex}
}

// OpenRelational opens and migrates the sqlite or postgres store named by
// cfg.Store.Backend. Any other backend opens sqlite.
func OpenRelational(log *logger.Logger, cfg *Config) (*db.Service, error) {
	driver := db.DriverSQLite
	if cfg.Store.Backend == BackendPostgres {
		driver = db.DriverPostgres
	}
	svc, err := db.Open(log, db.Config{
		Driver:           driver,
		SQLitePath:       cfg.Store.SQLitePath,
		PostgresHost:     cfg.Store.PostgresHost,
		PostgresPort:     cfg.Store.PostgresPort,
		PostgresUser:     cfg.Store.PostgresUser,
		PostgresPassword: cfg.Store.PostgresPassword,
		PostgresName:     cfg.Store.PostgresName,
		PostgresSSLMode:  cfg.Store.PostgresSSLMode,
	})
	if err != nil {
		return nil, fmt.Errorf("init %s: %w", driver, err)
	}
	if err := svc.AutoMigrateAll(); err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("%s automigrate: %w", driver, err)
	}
	return svc, nil
}

func OpenGraph(ctx context.Context, log *logger.Logger, cfg *Config) (*neo4jdb.Client, error) {
	client, err := neo4jdb.New(ctx, log, neo4jdb.Config{
		URI:         cfg.Neo4j.URI,
		User:        cfg.Neo4j.User,
		Password:    cfg.Neo4j.Password,
		Database:    cfg.Neo4j.Database,
		Timeout:     cfg.Neo4j.Timeout,
		MaxPoolSize: cfg.Neo4j.MaxPoolSize,
	})
	if err != nil {
		return nil, fmt.Errorf("init neo4j: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("init neo4j: uri not configured")
	}
	return client, nil
}

func (c *Clients) Close(ctx context.Context) {
	if c == nil {
		return
	}
	if c.CacheStore != nil {
		_ = c.CacheStore.Close()
	}
	if c.SQL != nil {
		_ = c.SQL.Close()
	}
	if c.Neo4j != nil {
		_ = c.Neo4j.Close(ctx)
	}
}
