package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"marmitaria/internal/costing"
	applog "marmitaria/internal/log"
	"marmitaria/models"
)

type ingredientUpsertRequest struct {
	ID           *uint   `json:"id"`
	Name         string  `json:"name"`
	PurchaseUnit string  `json:"purchase_unit"`
	PricePaid    float64 `json:"price_paid"`
	PackageQty   float64 `json:"package_qty"`
	PurchasedAt  *string `json:"purchased_at"`
}

type ingredientResponse struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	PurchaseUnit string    `json:"purchase_unit"`
	PricePaid    float64   `json:"price_paid"`
	PackageQty   float64   `json:"package_qty"`
	PurchasedAt  time.Time `json:"purchased_at"`
	UnitCost     float64   `json:"unit_cost"`
}

// IngredientResource handles ingredient listing, optional-id upserts
// and deletes. Deleting an ingredient removes every recipe item that
// references it.
func IngredientResource(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/app/api/ingredients")
	path = strings.Trim(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			listIngredients(w, r)
		case http.MethodPost:
			upsertIngredient(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	idValue, err := strconv.ParseUint(path, 10, 64)
	if err != nil {
		applog.Debug(r.Context(), "invalid ingredient identifier", "identifier", path, "error", err)
		http.NotFound(w, r)
		return
	}

	if r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	deleteIngredient(w, r, uint(idValue))
}

func listIngredients(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var results []models.Ingredient
	if err := database.WithContext(ctx).Order("name asc").Find(&results).Error; err != nil {
		applog.Error(ctx, "failed to list ingredients", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load ingredients")
		return
	}

	responses := make([]ingredientResponse, 0, len(results))
	for _, ingredient := range results {
		responses = append(responses, projectIngredient(ingredient))
	}
	writeJSON(w, http.StatusOK, responses)
}

func upsertIngredient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload ingredientUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid ingredient payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	name := strings.TrimSpace(payload.Name)
	if name == "" {
		writeJSONError(w, http.StatusBadRequest, "name is required")
		return
	}
	if payload.PricePaid < 0 || payload.PackageQty < 0 {
		writeJSONError(w, http.StatusBadRequest, "price and quantity must not be negative")
		return
	}

	purchasedAt := time.Now().UTC()
	if payload.PurchasedAt != nil {
		parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(*payload.PurchasedAt))
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "purchased_at must be RFC 3339")
			return
		}
		purchasedAt = parsed
	}

	var ingredient models.Ingredient
	status := http.StatusCreated
	if payload.ID != nil && *payload.ID != 0 {
		if err := database.WithContext(ctx).First(&ingredient, *payload.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				http.NotFound(w, r)
				return
			}
			applog.Error(ctx, "failed to load ingredient for update", "error", err, "id", *payload.ID)
			writeJSONError(w, http.StatusInternalServerError, "unable to load ingredient")
			return
		}
		status = http.StatusOK
	}

	ingredient.Name = name
	ingredient.PurchaseUnit = models.NormalizeUnit(payload.PurchaseUnit)
	ingredient.PricePaid = payload.PricePaid
	ingredient.PackageQty = payload.PackageQty
	if payload.ID == nil || *payload.ID == 0 || payload.PurchasedAt != nil {
		ingredient.PurchasedAt = purchasedAt
	}

	if err := database.WithContext(ctx).Save(&ingredient).Error; err != nil {
		applog.Error(ctx, "failed to save ingredient", "error", err)
		writeJSONError(w, http.StatusBadRequest, "unable to save ingredient")
		return
	}

	writeJSON(w, status, projectIngredient(ingredient))
}

func deleteIngredient(w http.ResponseWriter, r *http.Request, ingredientID uint) {
	ctx := r.Context()
	var ingredient models.Ingredient
	if err := database.WithContext(ctx).First(&ingredient, ingredientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
			return
		}
		applog.Error(ctx, "failed to load ingredient for delete", "error", err, "id", ingredientID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load ingredient")
		return
	}

	err := database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ingredient_id = ?", ingredientID).Delete(&models.RecipeItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&ingredient).Error
	})
	if err != nil {
		applog.Error(ctx, "failed to delete ingredient", "error", err, "id", ingredientID)
		writeJSONError(w, http.StatusInternalServerError, "unable to delete ingredient")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func projectIngredient(ingredient models.Ingredient) ingredientResponse {
	return ingredientResponse{
		ID:           ingredient.ID,
		Name:         ingredient.Name,
		PurchaseUnit: ingredient.PurchaseUnit,
		PricePaid:    ingredient.PricePaid,
		PackageQty:   ingredient.PackageQty,
		PurchasedAt:  ingredient.PurchasedAt,
		UnitCost:     costing.UnitCost(ingredient),
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		applog.Error(context.Background(), "failed to encode json response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
