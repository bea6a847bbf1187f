package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/recipegraph-backend/internal/app"
)

func memoryConfig(manifest string) *app.Config {
	return &app.Config{
		LogMode:  "development",
		Store:    app.StoreConfig{Backend: app.BackendMemory},
		Scraper:  app.ScraperConfig{Kind: "manifest", ManifestPath: manifest},
		Resolver: app.ResolverConfig{Kind: app.ResolverOLS, OLSBaseURL: "http://127.0.0.1:1", OLSOntology: "foodon"},
	}
}

func TestRunExitCodes(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "recipes.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("recipes: []\n"), 0o644))

	assert.Equal(t, 0, run(context.Background(), memoryConfig(empty)))
	assert.Equal(t, 1, run(context.Background(), memoryConfig(filepath.Join(dir, "missing.yaml"))))
}
