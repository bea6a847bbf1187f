package domain

import "github.com/yungbote/recipegraph-backend/internal/domain/recipes"

type (
	RawRecipe        = recipes.RawRecipe
	ResolvedConcept  = recipes.ResolvedConcept
	Recipe           = recipes.Recipe
	Ingredient       = recipes.Ingredient
	RecipeIngredient = recipes.RecipeIngredient
	Cuisine          = recipes.Cuisine
	RecipeCuisine    = recipes.RecipeCuisine
)

// Graph vocabulary shared by every backend.
const (
	LabelRecipe     = "Recipe"
	LabelAuthor     = "Author"
	LabelWebpage    = "Webpage"
	LabelIngredient = "Ingredient"
	LabelCuisine    = "Cuisine"

	RelHasAuthor            = "hasAuthor"
	RelHasSource            = "hasSource"
	RelHasIngredient        = "hasIngredient"
	RelHasAssociatedCuisine = "hasAssociatedCuisine"
)
