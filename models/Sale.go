package models

import (
	"time"

	"gorm.io/gorm"
)

// Sale is one ledger entry. Revenue, cost and profit are frozen at the
// moment of sale and never recomputed, so the ledger stays accurate
// even after ingredient prices or settings change. Sales are
// append-only; no update or delete path exists.
type Sale struct {
	gorm.Model
	SoldAt   time.Time `gorm:"index" json:"sold_at"`
	Quantity int       `gorm:"not null" json:"quantity"`
	Revenue  float64   `gorm:"not null" json:"revenue"`
	Cost     float64   `gorm:"not null" json:"cost"`
	Profit   float64   `gorm:"not null" json:"profit"`
}
