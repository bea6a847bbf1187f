package app

import (
	"context"
	"fmt"

	recipesrepo "github.com/yungbote/recipegraph-backend/internal/data/repos/recipes"
	"github.com/yungbote/recipegraph-backend/internal/ingestion"
	"github.com/yungbote/recipegraph-backend/internal/platform/logger"
)

// wireBackend picks the persistence backend for the configured store. Repos
// is nil unless the store is relational.
func wireBackend(ctx context.Context, log *logger.Logger, cfg *Config, c Clients) (ingestion.Backend, *recipesrepo.Set, error) {
	log.Info("Wiring backend...", "backend", cfg.Store.Backend)
	switch cfg.Store.Backend {
	case BackendSQLite, BackendPostgres:
		if c.SQL == nil {
			return nil, nil, fmt.Errorf("relational store not opened")
		}
		set := recipesrepo.NewSet(c.SQL.DB(), log)
		return ingestion.NewRelationalBackend(set, log), set, nil
	case BackendNeo4j:
		if c.Neo4j == nil {
			return nil, nil, fmt.Errorf("graph store not opened")
		}
		return ingestion.NewGraphBackend(ctx, c.Neo4j, log), nil, nil
	case BackendMemory:
		return ingestion.NewMemoryBackend(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
