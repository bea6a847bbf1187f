package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/recipegraph-backend/internal/domain"
)

// AutoMigrateAll creates parents before the join tables that reference them.
func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&types.Recipe{},
		&types.Ingredient{},
		&types.Cuisine{},
		&types.RecipeIngredient{},
		&types.RecipeCuisine{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return EnsureRecipeIndexes(db)
}

func EnsureRecipeIndexes(db *gorm.DB) error {
	stmts := []string{
		`CREATE INDEX IF NOT EXISTS idx_recipe_ingredient_pair ON recipe_ingredient (source_recipe_id, target_ingredient_id)`,
		`CREATE INDEX IF NOT EXISTS idx_recipe_cuisine_pair ON recipe_cuisine (source_recipe_id, target_cuisine_id)`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create recipe index: %w", err)
		}
	}
	return nil
}

func (s *Service) AutoMigrateAll() error {
	s.log.Info("migrating relational schema")
	return AutoMigrateAll(s.db)
}
