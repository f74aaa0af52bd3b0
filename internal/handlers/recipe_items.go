package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"gorm.io/gorm"

	applog "marmitaria/internal/log"
	"marmitaria/models"
)

type recipeItemUpsertRequest struct {
	ID           *uint   `json:"id"`
	RecipeID     uint    `json:"recipe_id"`
	IngredientID uint    `json:"ingredient_id"`
	BatchQty     float64 `json:"batch_qty"`
	Unit         string  `json:"unit"`
}

// RecipeItemResource handles optional-id upserts and deletes of recipe
// items.
func RecipeItemResource(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/app/api/recipe-items")
	path = strings.Trim(path, "/")

	if path == "" {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		upsertRecipeItem(w, r)
		return
	}

	idValue, err := strconv.ParseUint(path, 10, 64)
	if err != nil {
		applog.Debug(r.Context(), "invalid recipe item identifier", "identifier", path, "error", err)
		http.NotFound(w, r)
		return
	}

	if r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	deleteRecipeItem(w, r, uint(idValue))
}

func upsertRecipeItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload recipeItemUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid recipe item payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if payload.RecipeID == 0 {
		writeJSONError(w, http.StatusBadRequest, "recipe_id is required")
		return
	}
	if payload.IngredientID == 0 {
		writeJSONError(w, http.StatusBadRequest, "ingredient_id is required")
		return
	}
	if payload.BatchQty < 0 {
		writeJSONError(w, http.StatusBadRequest, "batch_qty must not be negative")
		return
	}

	var recipe models.Recipe
	if err := database.WithContext(ctx).First(&recipe, payload.RecipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSONError(w, http.StatusBadRequest, "recipe does not exist")
			return
		}
		applog.Error(ctx, "failed to load recipe for item", "error", err, "recipeID", payload.RecipeID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load recipe")
		return
	}

	var ingredient models.Ingredient
	if err := database.WithContext(ctx).First(&ingredient, payload.IngredientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSONError(w, http.StatusBadRequest, "ingredient does not exist")
			return
		}
		applog.Error(ctx, "failed to load ingredient for item", "error", err, "ingredientID", payload.IngredientID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load ingredient")
		return
	}

	var item models.RecipeItem
	status := http.StatusCreated
	if payload.ID != nil && *payload.ID != 0 {
		if err := database.WithContext(ctx).First(&item, *payload.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				http.NotFound(w, r)
				return
			}
			applog.Error(ctx, "failed to load recipe item for update", "error", err, "id", *payload.ID)
			writeJSONError(w, http.StatusInternalServerError, "unable to load recipe item")
			return
		}
		status = http.StatusOK
	}

	item.RecipeID = payload.RecipeID
	item.IngredientID = payload.IngredientID
	item.BatchQty = payload.BatchQty
	item.Unit = strings.TrimSpace(payload.Unit)

	if err := database.WithContext(ctx).Save(&item).Error; err != nil {
		applog.Error(ctx, "failed to save recipe item", "error", err)
		writeJSONError(w, http.StatusBadRequest, "unable to save recipe item")
		return
	}

	item.Ingredient = &ingredient
	writeJSON(w, status, projectRecipeItem(item))
}

func deleteRecipeItem(w http.ResponseWriter, r *http.Request, itemID uint) {
	ctx := r.Context()
	if err := database.WithContext(ctx).Delete(&models.RecipeItem{}, itemID).Error; err != nil {
		applog.Error(ctx, "failed to delete recipe item", "error", err, "id", itemID)
		writeJSONError(w, http.StatusInternalServerError, "unable to delete recipe item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
