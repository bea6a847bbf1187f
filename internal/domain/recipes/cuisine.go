package recipes

type Cuisine struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"column:name;not null;uniqueIndex:idx_cuisine_name" json:"name"`
}

func (Cuisine) TableName() string { return "cuisine" }

type RecipeCuisine struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	SourceRecipeID uint    `gorm:"column:source_recipe_id;not null;index" json:"source_recipe_id"`
	SourceRecipe   *Recipe `gorm:"foreignKey:SourceRecipeID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	TargetCuisineID uint     `gorm:"column:target_cuisine_id;not null;index" json:"target_cuisine_id"`
	TargetCuisine   *Cuisine `gorm:"foreignKey:TargetCuisineID;references:ID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (RecipeCuisine) TableName() string { return "recipe_cuisine" }
