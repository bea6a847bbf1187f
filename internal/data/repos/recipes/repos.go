package recipes

import (
	"gorm.io/gorm"

	"github.com/yungbote/recipegraph-backend/internal/platform/logger"
)

// Set bundles every relational repo the ingestion pipeline touches.
type Set struct {
	DB               *gorm.DB
	Recipe           RecipeRepo
	Ingredient       IngredientRepo
	Cuisine          CuisineRepo
	RecipeIngredient RecipeIngredientRepo
	RecipeCuisine    RecipeCuisineRepo
}

func NewSet(db *gorm.DB, log *logger.Logger) *Set {
	return &Set{
		DB:               db,
		Recipe:           NewRecipeRepo(db, log),
		Ingredient:       NewIngredientRepo(db, log),
		Cuisine:          NewCuisineRepo(db, log),
		RecipeIngredient: NewRecipeIngredientRepo(db, log),
		RecipeCuisine:    NewRecipeCuisineRepo(db, log),
	}
}
