package recipes

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/recipegraph-backend/internal/domain"
	"github.com/yungbote/recipegraph-backend/internal/platform/logger"
)

// RecipeIngredientRepo stores hasIngredient rows. Create always inserts;
// callers rely on that to keep one row per ingest.
type RecipeIngredientRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.RecipeIngredient) ([]*types.RecipeIngredient, error)
	GetByRecipeIDs(ctx context.Context, tx *gorm.DB, recipeIDs []uint) ([]*types.RecipeIngredient, error)
}

type recipeIngredientRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecipeIngredientRepo(db *gorm.DB, baseLog *logger.Logger) RecipeIngredientRepo {
	return &recipeIngredientRepo{db: db, log: baseLog.With("repo", "RecipeIngredientRepo")}
}

func (r *recipeIngredientRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.RecipeIngredient) ([]*types.RecipeIngredient, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.RecipeIngredient{}, nil
	}
	if err := t.WithContext(ctx).Omit(clause.Associations).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *recipeIngredientRepo) GetByRecipeIDs(ctx context.Context, tx *gorm.DB, recipeIDs []uint) ([]*types.RecipeIngredient, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.RecipeIngredient
	if len(recipeIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("source_recipe_id IN ?", recipeIDs).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

type RecipeCuisineRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.RecipeCuisine) ([]*types.RecipeCuisine, error)
	GetByRecipeIDs(ctx context.Context, tx *gorm.DB, recipeIDs []uint) ([]*types.RecipeCuisine, error)
}

type recipeCuisineRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecipeCuisineRepo(db *gorm.DB, baseLog *logger.Logger) RecipeCuisineRepo {
	return &recipeCuisineRepo{db: db, log: baseLog.With("repo", "RecipeCuisineRepo")}
}

func (r *recipeCuisineRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.RecipeCuisine) ([]*types.RecipeCuisine, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.RecipeCuisine{}, nil
	}
	if err := t.WithContext(ctx).Omit(clause.Associations).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *recipeCuisineRepo) GetByRecipeIDs(ctx context.Context, tx *gorm.DB, recipeIDs []uint) ([]*types.RecipeCuisine, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.RecipeCuisine
	if len(recipeIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("source_recipe_id IN ?", recipeIDs).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
