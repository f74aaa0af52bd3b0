package models

import "gorm.io/gorm"

// ComboRecipe links one recipe into a combo. A recipe appears at most
// once per combo; the handlers enforce that before inserting. Links are
// removed when their combo or recipe is deleted.
type ComboRecipe struct {
	gorm.Model
	ComboID  uint `gorm:"not null;index" json:"combo_id"`
	RecipeID uint `gorm:"not null;index" json:"recipe_id"`

	Recipe *Recipe `gorm:"foreignKey:RecipeID" json:"recipe,omitempty"`
}
