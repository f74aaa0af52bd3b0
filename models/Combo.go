package models

import "gorm.io/gorm"

// DefaultComboName is the combo the dashboard selects when no explicit
// combo is requested. Matching is case-insensitive.
const DefaultComboName = "Lasanha Completa"

// Combo is a named bundle of recipes produced and sold together.
type Combo struct {
	gorm.Model
	Name    string        `gorm:"uniqueIndex;not null" json:"name"`
	Recipes []ComboRecipe `gorm:"foreignKey:ComboID" json:"recipes"`
}
