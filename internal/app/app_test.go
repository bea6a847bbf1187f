package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/recipegraph-backend/internal/ingestion"
)

func TestNewWiresMemoryBackend(t *testing.T) {
	manifest := filepath.Join(t.TempDir(), "recipes.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte("recipes: []\n"), 0o644))

	cfg := &Config{
		LogMode:  "development",
		Store:    StoreConfig{Backend: BackendMemory},
		Scraper:  ScraperConfig{Kind: "manifest", ManifestPath: manifest},
		Resolver: ResolverConfig{Kind: ResolverOLS, OLSBaseURL: "http://127.0.0.1:1", OLSOntology: "foodon"},
	}
	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close(context.Background()) })

	assert.IsType(t, &ingestion.MemoryBackend{}, a.Backend)
	assert.Nil(t, a.Repos)
	assert.NotEmpty(t, a.Lexicon.Meats())

	sum, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Recipes)
	assert.NotEmpty(t, sum.RunID)
}

func TestNewRejectsUnknownScraper(t *testing.T) {
	cfg := &Config{
		Store:    StoreConfig{Backend: BackendMemory},
		Scraper:  ScraperConfig{Kind: "telepathy"},
		Resolver: ResolverConfig{Kind: ResolverOLS, OLSBaseURL: "http://127.0.0.1:1"},
	}
	_, err := New(context.Background(), cfg)
	require.Error(t, err)
}
