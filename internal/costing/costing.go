// Package costing derives the fully loaded cost of one marmita from
// current ingredient prices, recipe quantities and the gas/delivery
// settings. Nothing here is cached or persisted: every call recomputes
// from the database so sale snapshots stay frozen while current costs
// drift with the data.
package costing

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	applog "marmitaria/internal/log"
	"marmitaria/models"
)

// UnitCost converts a purchased ingredient into its cost per base unit
// (currency per gram, milliliter or count). Kilo- and liter-denominated
// packages are scaled by 1000 to the base unit; anything else is priced
// per package count. A non-positive base quantity costs 0.
func UnitCost(ing models.Ingredient) float64 {
	base := ing.PackageQty
	if models.MassOrVolume(ing.PurchaseUnit) {
		base = ing.PackageQty * 1000
	}
	if base <= 0 {
		return 0
	}
	return ing.PricePaid / base
}

// GasCostPerBatch prices the oven time of one batch: the canister price
// spread over its lifetime in minutes, multiplied by oven minutes used.
func GasCostPerBatch(s models.Settings) float64 {
	minutes := s.CanisterHours * 60
	if minutes <= 0 {
		return 0
	}
	return (s.CanisterPrice / minutes) * s.OvenMinutes
}

// DeliveryCostPerBatch prices the fuel burned on an average delivery run.
func DeliveryCostPerBatch(s models.Settings) float64 {
	if s.KmPerLiter <= 0 {
		return 0
	}
	return (s.DeliveryKm / s.KmPerLiter) * s.FuelPrice
}

// BreakdownEntry is one per-ingredient slice of a combo's batch cost,
// labeled "<recipe name>: <ingredient name>".
type BreakdownEntry struct {
	Label string  `json:"label"`
	Cost  float64 `json:"cost"`
}

// Calculator answers cost questions against the current database state.
type Calculator struct {
	db *gorm.DB
}

// NewCalculator builds a Calculator bound to the given database handle.
func NewCalculator(db *gorm.DB) *Calculator {
	return &Calculator{db: db}
}

// Settings returns the singleton configuration row, creating it with
// defaults on first access.
func (c *Calculator) Settings(ctx context.Context) (models.Settings, error) {
	var settings models.Settings
	err := c.db.WithContext(ctx).First(&settings).Error
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Settings{}, err
	}

	settings = models.DefaultSettings()
	if err := c.db.WithContext(ctx).Create(&settings).Error; err != nil {
		return models.Settings{}, err
	}
	return settings, nil
}

// IngredientUnitCost resolves the cost per base unit of one ingredient.
// A missing ingredient costs 0 rather than surfacing an error, so the
// dashboard keeps rendering after partial deletes.
func (c *Calculator) IngredientUnitCost(ctx context.Context, ingredientID uint) float64 {
	var ing models.Ingredient
	if err := c.db.WithContext(ctx).First(&ing, ingredientID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			applog.Error(ctx, "failed to load ingredient for costing", "error", err, "id", ingredientID)
		}
		return 0
	}
	return UnitCost(ing)
}

// RecipeBatchCost sums ingredient costs across a recipe's items,
// weighted by the quantity each batch consumes.
func (c *Calculator) RecipeBatchCost(ctx context.Context, recipeID uint) float64 {
	var items []models.RecipeItem
	if err := c.db.WithContext(ctx).Where("recipe_id = ?", recipeID).Find(&items).Error; err != nil {
		applog.Error(ctx, "failed to load recipe items for costing", "error", err, "recipeID", recipeID)
		return 0
	}

	total := 0.0
	for _, item := range items {
		total += c.IngredientUnitCost(ctx, item.IngredientID) * item.BatchQty
	}
	return total
}

// ActiveCombo picks the combo cost calculations run against: the
// requested id when given, else the default combo by name
// (case-insensitive), else the first combo on record, else nil.
func (c *Calculator) ActiveCombo(ctx context.Context, requestedID *uint) *models.Combo {
	if requestedID != nil {
		var combo models.Combo
		if err := c.db.WithContext(ctx).First(&combo, *requestedID).Error; err == nil {
			return &combo
		}
	}

	var combo models.Combo
	err := c.db.WithContext(ctx).
		Where("lower(name) = ?", strings.ToLower(models.DefaultComboName)).
		First(&combo).Error
	if err == nil {
		return &combo
	}

	if err := c.db.WithContext(ctx).Order("id asc").First(&combo).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			applog.Error(ctx, "failed to load fallback combo", "error", err)
		}
		return nil
	}
	return &combo
}

// ComboBatchCost sums recipe batch costs across every recipe linked to
// the combo. A nil combo costs 0.
func (c *Calculator) ComboBatchCost(ctx context.Context, combo *models.Combo) float64 {
	if combo == nil {
		return 0
	}

	var links []models.ComboRecipe
	if err := c.db.WithContext(ctx).Where("combo_id = ?", combo.ID).Find(&links).Error; err != nil {
		applog.Error(ctx, "failed to load combo recipes for costing", "error", err, "comboID", combo.ID)
		return 0
	}

	total := 0.0
	for _, link := range links {
		total += c.RecipeBatchCost(ctx, link.RecipeID)
	}
	return total
}

// UnitCostPerMeal combines ingredient, gas and delivery cost for one
// batch of the combo and divides by the batch yield. A non-positive
// yield returns 0.
func (c *Calculator) UnitCostPerMeal(ctx context.Context, combo *models.Combo) (float64, error) {
	settings, err := c.Settings(ctx)
	if err != nil {
		return 0, err
	}

	if settings.BatchYield <= 0 {
		return 0, nil
	}

	batch := c.ComboBatchCost(ctx, combo) + GasCostPerBatch(settings) + DeliveryCostPerBatch(settings)
	return batch / float64(settings.BatchYield), nil
}

// ItemBreakdown lists the batch cost of every ingredient in the combo,
// one entry per recipe item, rounded to cents for presentation.
func (c *Calculator) ItemBreakdown(ctx context.Context, combo *models.Combo) []BreakdownEntry {
	entries := []BreakdownEntry{}
	if combo == nil {
		return entries
	}

	var links []models.ComboRecipe
	err := c.db.WithContext(ctx).
		Preload("Recipe.Items.Ingredient").
		Where("combo_id = ?", combo.ID).
		Find(&links).Error
	if err != nil {
		applog.Error(ctx, "failed to load combo composition", "error", err, "comboID", combo.ID)
		return entries
	}

	for _, link := range links {
		if link.Recipe == nil {
			continue
		}
		for _, item := range link.Recipe.Items {
			name := ""
			if item.Ingredient != nil {
				name = item.Ingredient.Name
			}
			cost := c.IngredientUnitCost(ctx, item.IngredientID) * item.BatchQty
			entries = append(entries, BreakdownEntry{
				Label: link.Recipe.Name + ": " + name,
				Cost:  decimal.NewFromFloat(cost).Round(2).InexactFloat64(),
			})
		}
	}
	return entries
}
