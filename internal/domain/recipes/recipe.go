package recipes

import (
	"time"

	"gorm.io/datatypes"
)

type Recipe struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	Author string `gorm:"column:author;not null" json:"author"`
	Name   string `gorm:"column:name;not null" json:"name"`
	Source string `gorm:"column:source;not null;uniqueIndex:idx_recipe_source" json:"source"`

	// Directions is a JSON array of step strings in page order.
	Directions datatypes.JSON `gorm:"column:directions" json:"directions,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Recipe) TableName() string { return "recipe" }

// RecipeIngredient is one hasIngredient link. Rows are appended per ingest,
// so the same pair may appear more than once.
type RecipeIngredient struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	SourceRecipeID uint    `gorm:"column:source_recipe_id;not null;index" json:"source_recipe_id"`
	SourceRecipe   *Recipe `gorm:"foreignKey:SourceRecipeID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	TargetIngredientID uint        `gorm:"column:target_ingredient_id;not null;index" json:"target_ingredient_id"`
	TargetIngredient   *Ingredient `gorm:"foreignKey:TargetIngredientID;references:ID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (RecipeIngredient) TableName() string { return "recipe_ingredient" }
