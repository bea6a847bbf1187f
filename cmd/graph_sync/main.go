package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yungbote/recipegraph-backend/internal/app"
	recipesrepo "github.com/yungbote/recipegraph-backend/internal/data/repos/recipes"
	"github.com/yungbote/recipegraph-backend/internal/ingestion"
	"github.com/yungbote/recipegraph-backend/internal/lexicon"
	"github.com/yungbote/recipegraph-backend/internal/normalization"
	"github.com/yungbote/recipegraph-backend/internal/platform/logger"
)

// graph_sync copies the relational store into the graph store.
func main() {
	var configPath string
	var noReset bool
	flag.StringVar(&configPath, "config", os.Getenv("RECIPEGRAPH_CONFIG"), "path to a YAML config file")
	flag.BoolVar(&noReset, "no-reset", false, "keep existing graph contents")
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

	if err := run(ctx, log, cfg, !noReset); err != nil {
		log.Error("graph sync failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *logger.Logger, cfg *app.Config, reset bool) error {
	sql, err := app.OpenRelational(log, cfg)
	if err != nil {
		return err
	}
	defer sql.Close()

	graphClient, err := app.OpenGraph(ctx, log, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = graphClient.Close(closeCtx)
	}()

	lex, err := lexicon.Load(cfg.Lexicon.Dir)
	if err != nil {
		return fmt.Errorf("load lexicon: %w", err)
	}

	target := ingestion.NewGraphBackend(ctx, graphClient, log)
	if reset {
		if _, err := ingestion.ResetIfSupported(ctx, target); err != nil {
			return err
		}
	}
	syncer := ingestion.NewSyncer(recipesrepo.NewSet(sql.DB(), log), target, normalization.NewMeatClassifier(lex.Meats()), log)
	sum, err := syncer.Sync(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("done; recipes=%d failed=%d ingredient_links=%d cuisine_links=%d link_failures=%d\n",
		sum.Recipes, sum.RecipesFailed, sum.IngredientLinks, sum.CuisineLinks, sum.LinkFailures)
	return nil
}
