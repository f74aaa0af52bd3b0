package models

import "gorm.io/gorm"

// Recipe is a named preparation. Its items describe how much of each
// ingredient one production batch consumes.
type Recipe struct {
	gorm.Model
	Name  string       `gorm:"uniqueIndex;not null" json:"name"`
	Items []RecipeItem `gorm:"foreignKey:RecipeID" json:"items"`
}
