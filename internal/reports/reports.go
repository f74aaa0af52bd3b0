// Package reports aggregates the append-only sales ledger into the
// totals and daily series the dashboard renders, and records new sales
// with their unit economics frozen at insert time.
package reports

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"marmitaria/models"
)

// PeriodKind enumerates the supported reporting windows.
type PeriodKind int

const (
	// Last7 covers the trailing seven days and is the default window.
	Last7 PeriodKind = iota
	// Last30 covers the trailing thirty days.
	Last30
	// All covers the whole ledger.
	All
	// MonthOfYear covers one calendar month of the current year.
	MonthOfYear
)

// Period is a parsed reporting window.
type Period struct {
	Kind  PeriodKind
	Month time.Month
}

// ParsePeriod maps the dashboard query value onto a Period. Accepted
// values are "7", "30", "completo" and "mes-N" with N in 1..12.
// Anything else falls back to the seven-day default.
func ParsePeriod(raw string) Period {
	switch value := strings.TrimSpace(raw); {
	case value == "30":
		return Period{Kind: Last30}
	case value == "completo":
		return Period{Kind: All}
	case strings.HasPrefix(value, "mes-"):
		month, err := strconv.Atoi(strings.TrimPrefix(value, "mes-"))
		if err != nil || month < 1 || month > 12 {
			return Period{Kind: Last7}
		}
		return Period{Kind: MonthOfYear, Month: time.Month(month)}
	default:
		return Period{Kind: Last7}
	}
}

// String renders the period back into its query form.
func (p Period) String() string {
	switch p.Kind {
	case Last30:
		return "30"
	case All:
		return "completo"
	case MonthOfYear:
		return fmt.Sprintf("mes-%d", int(p.Month))
	default:
		return "7"
	}
}

// Window returns the [from, to) bounds of the period relative to now.
// Zero times mean the bound is open. The month window uses an explicit
// range so the same predicate works on sqlite and postgres.
func (p Period) Window(now time.Time) (from, to time.Time) {
	switch p.Kind {
	case Last7:
		return now.AddDate(0, 0, -7), time.Time{}
	case Last30:
		return now.AddDate(0, 0, -30), time.Time{}
	case MonthOfYear:
		start := time.Date(now.Year(), p.Month, 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(0, 1, 0)
	default:
		return time.Time{}, time.Time{}
	}
}

// DailyPoint is one day's bucket of the report series, keyed "dd/mm".
type DailyPoint struct {
	Day    string  `json:"day"`
	Profit float64 `json:"profit"`
	Cost   float64 `json:"cost"`
}

// Report carries the aggregated window totals plus the day-bucketed
// series. Days follow insertion order of the ledger scan, not calendar
// order.
type Report struct {
	Gross  float64      `json:"gross"`
	Cost   float64      `json:"cost"`
	Profit float64      `json:"profit"`
	Days   []DailyPoint `json:"days"`
}

// Build filters the sales ledger by the period window, sums revenue,
// cost and profit, and buckets the filtered sales by calendar day.
func Build(ctx context.Context, db *gorm.DB, period Period, now time.Time) (Report, error) {
	if db == nil {
		return Report{}, gorm.ErrInvalidDB
	}

	query := db.WithContext(ctx).Model(&models.Sale{}).Order("id asc")
	from, to := period.Window(now)
	if !from.IsZero() {
		query = query.Where("sold_at >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("sold_at < ?", to)
	}

	var sales []models.Sale
	if err := query.Find(&sales).Error; err != nil {
		return Report{}, fmt.Errorf("load sales: %w", err)
	}

	gross := decimal.Zero
	cost := decimal.Zero
	profit := decimal.Zero

	dayIndex := map[string]int{}
	days := []DailyPoint{}

	for _, sale := range sales {
		gross = gross.Add(decimal.NewFromFloat(sale.Revenue))
		cost = cost.Add(decimal.NewFromFloat(sale.Cost))
		profit = profit.Add(decimal.NewFromFloat(sale.Profit))

		key := sale.SoldAt.Format("02/01")
		idx, ok := dayIndex[key]
		if !ok {
			idx = len(days)
			dayIndex[key] = idx
			days = append(days, DailyPoint{Day: key})
		}
		days[idx].Profit = decimal.NewFromFloat(days[idx].Profit).
			Add(decimal.NewFromFloat(sale.Profit)).InexactFloat64()
		days[idx].Cost = decimal.NewFromFloat(days[idx].Cost).
			Add(decimal.NewFromFloat(sale.Cost)).InexactFloat64()
	}

	return Report{
		Gross:  gross.InexactFloat64(),
		Cost:   cost.InexactFloat64(),
		Profit: profit.InexactFloat64(),
		Days:   days,
	}, nil
}

// RecordSale appends one immutable ledger row, freezing revenue, cost
// and profit at the provided unit economics.
func RecordSale(ctx context.Context, db *gorm.DB, settings models.Settings, unitCost float64, quantity int, now time.Time) (models.Sale, error) {
	if db == nil {
		return models.Sale{}, gorm.ErrInvalidDB
	}
	if quantity < 1 {
		return models.Sale{}, errors.New("quantity must be at least 1")
	}

	qty := decimal.NewFromInt(int64(quantity))
	revenue := qty.Mul(decimal.NewFromFloat(settings.MealPrice))
	cost := qty.Mul(decimal.NewFromFloat(unitCost))
	profit := revenue.Sub(cost)

	sale := models.Sale{
		SoldAt:   now,
		Quantity: quantity,
		Revenue:  revenue.InexactFloat64(),
		Cost:     cost.InexactFloat64(),
		Profit:   profit.InexactFloat64(),
	}

	if err := db.WithContext(ctx).Create(&sale).Error; err != nil {
		return models.Sale{}, fmt.Errorf("record sale: %w", err)
	}
	return sale, nil
}
