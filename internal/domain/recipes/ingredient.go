package recipes

import "time"

// Ingredient is keyed by its ontology label, compared case-sensitively.
type Ingredient struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	Description  *string `gorm:"column:description;type:text" json:"description,omitempty"`
	ExternalID   string  `gorm:"column:external_id;not null" json:"external_id"`
	Name         string  `gorm:"column:name;not null;uniqueIndex:idx_ingredient_name" json:"name"`
	ContainsMeat bool    `gorm:"column:contains_meat;not null" json:"contains_meat"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Ingredient) TableName() string { return "ingredient" }
