package models

import "gorm.io/gorm"

// User represents an account that can sign in to the dashboard.
type User struct {
	gorm.Model
	Username     string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
}
