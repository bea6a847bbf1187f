package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yungbote/recipegraph-backend/internal/app"
	recipesrepo "github.com/yungbote/recipegraph-backend/internal/data/repos/recipes"
	types "github.com/yungbote/recipegraph-backend/internal/domain"
	"github.com/yungbote/recipegraph-backend/internal/platform/logger"
	"github.com/yungbote/recipegraph-backend/internal/platform/meili"
)

// ontology_index loads every resolved ingredient from the relational store
// into the Meilisearch index used by the meili resolver.
func main() {
	var configPath string
	var batch int
	flag.StringVar(&configPath, "config", os.Getenv("RECIPEGRAPH_CONFIG"), "path to a YAML config file")
	flag.IntVar(&batch, "batch", 500, "ingredients per index request")
	flag.Parse()

	cfg, err := app.Load(configPath)
	if err != nil {
		fmt.Printf("load config: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Printf("init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sql, err := app.OpenRelational(log, cfg)
	if err != nil {
		log.Fatal("open relational store", "error", err)
	}
	defer sql.Close()

	index, err := meili.NewResolver(log, app.MeiliConfig(cfg.Resolver))
	if err != nil {
		log.Fatal("init meilisearch", "error", err)
	}

	repo := recipesrepo.NewIngredientRepo(sql.DB(), log)
	var after uint
	total := 0
	for {
		if ctx.Err() != nil {
			log.Warn("indexing interrupted", "indexed", total)
			break
		}
		page, err := repo.ListAfter(ctx, nil, after, batch)
		if err != nil {
			log.Fatal("list ingredients", "after", after, "error", err)
		}
		if len(page) == 0 {
			break
		}
		concepts := make([]types.ResolvedConcept, 0, len(page))
		for _, ing := range page {
			concepts = append(concepts, types.ResolvedConcept{
				Label:       ing.Name,
				ExternalID:  ing.ExternalID,
				Description: ing.Description,
			})
		}
		n, err := index.Load(concepts)
		if err != nil {
			log.Fatal("load concepts", "error", err)
		}
		total += n
		after = page[len(page)-1].ID
	}
	fmt.Printf("done; indexed=%d\n", total)
}
