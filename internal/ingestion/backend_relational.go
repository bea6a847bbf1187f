package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	recipesrepo "github.com/yungbote/recipegraph-backend/internal/data/repos/recipes"
	types "github.com/yungbote/recipegraph-backend/internal/domain"
	"github.com/yungbote/recipegraph-backend/internal/platform/logger"
)

// RelationalBackend stores the graph in the recipe, ingredient and join
// tables. Author and source live as recipe columns. It is never reset.
type RelationalBackend struct {
	repos *recipesrepo.Set
	log   *logger.Logger
}

func NewRelationalBackend(repos *recipesrepo.Set, log *logger.Logger) *RelationalBackend {
	return &RelationalBackend{repos: repos, log: log.With("backend", "relational")}
}

func (b *RelationalBackend) Name() string { return "relational" }

func (b *RelationalBackend) UpsertRecipe(ctx context.Context, rec types.RawRecipe) (RecipeRef, error) {
	directions, err := json.Marshal(nonNil(rec.Directions))
	if err != nil {
		return RecipeRef{}, fmt.Errorf("encode directions: %w", err)
	}
	var ref RecipeRef
	err = b.repos.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, created, err := b.repos.Recipe.FirstOrCreateBySource(ctx, tx, &types.Recipe{
			Author:     rec.Author,
			Name:       rec.Title,
			Source:     rec.Source,
			Directions: datatypes.JSON(directions),
		})
		if err != nil {
			return err
		}
		ref = RecipeRef{ID: strconv.FormatUint(uint64(row.ID), 10), Source: row.Source, Created: created}
		return nil
	})
	return ref, err
}

func (b *RelationalBackend) LinkIngredient(ctx context.Context, ref RecipeRef, link IngredientLink) (bool, error) {
	recipeID, err := parseRecipeID(ref)
	if err != nil {
		return false, err
	}
	var created bool
	err = b.repos.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ing, c, err := b.repos.Ingredient.FirstOrCreateByName(ctx, tx, &types.Ingredient{
			Name:         link.Concept.Label,
			ExternalID:   link.Concept.ExternalID,
			Description:  link.Concept.Description,
			ContainsMeat: link.ContainsMeat,
		})
		if err != nil {
			return err
		}
		created = c
		_, err = b.repos.RecipeIngredient.Create(ctx, tx, []*types.RecipeIngredient{{
			SourceRecipeID:     recipeID,
			TargetIngredientID: ing.ID,
		}})
		return err
	})
	return created, err
}

func (b *RelationalBackend) LinkCuisine(ctx context.Context, ref RecipeRef, name string) (bool, error) {
	recipeID, err := parseRecipeID(ref)
	if err != nil {
		return false, err
	}
	var created bool
	err = b.repos.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, wasCreated, err := b.repos.Cuisine.FirstOrCreateByName(ctx, tx, name)
		if err != nil {
			return err
		}
		created = wasCreated
		_, err = b.repos.RecipeCuisine.Create(ctx, tx, []*types.RecipeCuisine{{
			SourceRecipeID:  recipeID,
			TargetCuisineID: c.ID,
		}})
		return err
	})
	return created, err
}

func parseRecipeID(ref RecipeRef) (uint, error) {
	id, err := strconv.ParseUint(ref.ID, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid relational recipe id %q", ref.ID)
	}
	return uint(id), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
