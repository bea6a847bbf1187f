package ingestion

import (
	"context"

	"github.com/yungbote/recipegraph-backend/internal/data/graph"
	types "github.com/yungbote/recipegraph-backend/internal/domain"
	"github.com/yungbote/recipegraph-backend/internal/platform/logger"
	"github.com/yungbote/recipegraph-backend/internal/platform/neo4jdb"
)

// GraphBackend writes to Neo4j. It also records the page's root domain as a
// Webpage node.
type GraphBackend struct {
	client *neo4jdb.Client
	log    *logger.Logger
}

func NewGraphBackend(ctx context.Context, client *neo4jdb.Client, log *logger.Logger) *GraphBackend {
	b := &GraphBackend{client: client, log: log.With("backend", "graph")}
	graph.EnsureRecipeGraphSchema(ctx, client, b.log)
	return b
}

func (b *GraphBackend) Name() string { return "graph" }

func (b *GraphBackend) Reset(ctx context.Context) error {
	if err := b.client.ResetAll(ctx); err != nil {
		return err
	}
	// Constraints survive DETACH DELETE, but a fresh database may lack them.
	graph.EnsureRecipeGraphSchema(ctx, b.client, b.log)
	return nil
}

func (b *GraphBackend) UpsertRecipe(ctx context.Context, rec types.RawRecipe) (RecipeRef, error) {
	webpage := RootDomain(rec.Source)
	if webpage == "" {
		b.log.Warn("source has no root domain; skipping hasSource", "source", rec.Source)
	}
	id, created, err := graph.UpsertRecipeAuthorSource(ctx, b.client, graph.RecipeNode{
		Source:     rec.Source,
		Title:      rec.Title,
		Author:     rec.Author,
		Webpage:    webpage,
		Directions: rec.Directions,
	})
	if err != nil {
		return RecipeRef{}, err
	}
	return RecipeRef{ID: id, Source: rec.Source, Created: created}, nil
}

func (b *GraphBackend) LinkIngredient(ctx context.Context, ref RecipeRef, link IngredientLink) (bool, error) {
	return graph.LinkRecipeIngredient(ctx, b.client, ref.ID, graph.IngredientNode{
		Label:        link.Concept.Label,
		ExternalID:   link.Concept.ExternalID,
		Description:  link.Concept.Description,
		ContainsMeat: link.ContainsMeat,
	})
}

func (b *GraphBackend) LinkCuisine(ctx context.Context, ref RecipeRef, name string) (bool, error) {
	return graph.LinkRecipeCuisine(ctx, b.client, ref.ID, name)
}
