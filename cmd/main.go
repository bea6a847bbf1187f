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
)

func main() {
	var configPath string
	var dryRun bool
	flag.StringVar(&configPath, "config", os.Getenv("RECIPEGRAPH_CONFIG"), "path to a YAML config file")
	flag.BoolVar(&dryRun, "dry-run", false, "ingest into an in-memory graph instead of the configured store")
	flag.Parse()

	cfg, err := app.Load(configPath)
	if err != nil {
		fmt.Printf("load config: %v\n", err)
		os.Exit(1)
	}
	if dryRun {
		cfg.Store.Backend = app.BackendMemory
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, cfg)
	stop()
	os.Exit(code)
}

// run returns the process exit code. The app is closed before it returns.
func run(ctx context.Context, cfg *app.Config) int {
	application, err := app.New(ctx, cfg)
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		application.Close(shutdownCtx)
	}()

	sum, err := application.Run(ctx)
	if err != nil {
		application.Log.Error("ingestion run failed", "error", err)
		return 1
	}
	fmt.Printf("done; recipes=%d failed=%d ingredients_linked=%d no_match=%d interrupted=%v\n",
		sum.Recipes, sum.RecipesFailed, sum.IngredientsLinked, sum.NoMatch, sum.Interrupted)
	return 0
}
