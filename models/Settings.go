package models

import "gorm.io/gorm"

// Settings is the single-row business configuration: the sale price of a
// marmita plus the gas and delivery figures every batch cost is derived
// from. Exactly one row exists; it is created with these defaults the
// first time it is read.
type Settings struct {
	gorm.Model
	MealPrice float64 `gorm:"not null;default:15" json:"meal_price"`

	// Gas / oven
	CanisterPrice float64 `gorm:"not null;default:115" json:"canister_price"`
	CanisterHours float64 `gorm:"not null;default:50" json:"canister_hours"`
	OvenMinutes   float64 `gorm:"not null;default:45" json:"oven_minutes"`
	BatchYield    int     `gorm:"not null;default:10" json:"batch_yield"`

	// Delivery
	FuelPrice  float64 `gorm:"not null;default:6" json:"fuel_price"`
	KmPerLiter float64 `gorm:"not null;default:35" json:"km_per_liter"`
	DeliveryKm float64 `gorm:"not null;default:5" json:"delivery_km"`
}

// DefaultSettings returns the values a fresh installation starts with.
func DefaultSettings() Settings {
	return Settings{
		MealPrice:     15.0,
		CanisterPrice: 115.0,
		CanisterHours: 50.0,
		OvenMinutes:   45.0,
		BatchYield:    10,
		FuelPrice:     6.0,
		KmPerLiter:    35.0,
		DeliveryKm:    5.0,
	}
}
