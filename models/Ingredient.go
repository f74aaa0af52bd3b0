package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Purchase units an ingredient can be bought in. Kg and L are scaled to
// gram/milliliter base units when unit cost is derived; everything else
// is priced per package count.
const (
	UnitKilogram = "Kg"
	UnitLiter    = "L"
	UnitCount    = "Un"
)

// Ingredient is one purchased ingredient record. The cost per base unit
// is always derived from PricePaid and PackageQty, never stored.
type Ingredient struct {
	gorm.Model
	Name         string    `gorm:"not null" json:"name"`
	PurchaseUnit string    `gorm:"type:varchar(10);not null" json:"purchase_unit"`
	PricePaid    float64   `gorm:"not null" json:"price_paid"`
	PackageQty   float64   `gorm:"not null" json:"package_qty"`
	PurchasedAt  time.Time `json:"purchased_at"`
}

// MassOrVolume reports whether the unit is kilo- or liter-denominated,
// meaning package quantities are expressed in thousands of base units.
func MassOrVolume(unit string) bool {
	switch strings.TrimSpace(unit) {
	case UnitKilogram, UnitLiter:
		return true
	}
	return false
}

// NormalizeUnit maps free-form unit input onto the known constants,
// falling back to a count unit for anything unrecognized.
func NormalizeUnit(unit string) string {
	trimmed := strings.TrimSpace(unit)
	switch strings.ToLower(trimmed) {
	case "kg":
		return UnitKilogram
	case "l":
		return UnitLiter
	case "", "un", "und", "unidade":
		return UnitCount
	}
	return trimmed
}
