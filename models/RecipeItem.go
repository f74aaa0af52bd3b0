package models

import "gorm.io/gorm"

// RecipeItem links a recipe to an ingredient with the quantity used per
// batch, expressed in the ingredient's base unit (g, ml or count).
// Items are removed when their recipe or ingredient is deleted.
type RecipeItem struct {
	gorm.Model
	RecipeID     uint    `gorm:"not null;index" json:"recipe_id"`
	IngredientID uint    `gorm:"not null;index" json:"ingredient_id"`
	BatchQty     float64 `gorm:"not null" json:"batch_qty"`
	Unit         string  `gorm:"type:varchar(10)" json:"unit"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`
}
