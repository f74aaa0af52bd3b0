package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"marmitaria/internal/costing"
	applog "marmitaria/internal/log"
	"marmitaria/models"
)

type recipeUpsertRequest struct {
	ID   *uint  `json:"id"`
	Name string `json:"name"`
}

type recipeResponse struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	BatchCost float64 `json:"batch_cost"`
}

type recipeItemResponse struct {
	ID           uint    `json:"id"`
	RecipeID     uint    `json:"recipe_id"`
	IngredientID uint    `json:"ingredient_id"`
	Ingredient   string  `json:"ingredient"`
	BatchQty     float64 `json:"batch_qty"`
	Unit         string  `json:"unit"`
	UnitCost     float64 `json:"unit_cost"`
	BatchCost    float64 `json:"batch_cost"`
}

// RecipeResource handles recipe listing, optional-id upserts, deletes
// and the per-recipe item listing. Deleting a recipe removes its items
// and its combo links; the recipes of a combo survive the combo.
func RecipeResource(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/app/api/recipes")
	path = strings.Trim(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			listRecipes(w, r)
		case http.MethodPost:
			upsertRecipe(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	segments := strings.Split(path, "/")
	idValue, err := strconv.ParseUint(segments[0], 10, 64)
	if err != nil {
		applog.Debug(r.Context(), "invalid recipe identifier", "identifier", segments[0], "error", err)
		http.NotFound(w, r)
		return
	}
	recipeID := uint(idValue)

	if len(segments) > 1 && segments[1] == "items" {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		listRecipeItems(w, r, recipeID)
		return
	}

	if r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	deleteRecipe(w, r, recipeID)
}

func listRecipes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var results []models.Recipe
	if err := database.WithContext(ctx).Order("name asc").Find(&results).Error; err != nil {
		applog.Error(ctx, "failed to list recipes", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load recipes")
		return
	}

	calc := costing.NewCalculator(database)
	responses := make([]recipeResponse, 0, len(results))
	for _, recipe := range results {
		responses = append(responses, recipeResponse{
			ID:        recipe.ID,
			Name:      recipe.Name,
			BatchCost: calc.RecipeBatchCost(ctx, recipe.ID),
		})
	}
	writeJSON(w, http.StatusOK, responses)
}

func upsertRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload recipeUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid recipe payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	name := strings.TrimSpace(payload.Name)
	if name == "" {
		writeJSONError(w, http.StatusBadRequest, "name is required")
		return
	}

	var recipe models.Recipe
	status := http.StatusCreated
	if payload.ID != nil && *payload.ID != 0 {
		if err := database.WithContext(ctx).First(&recipe, *payload.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				http.NotFound(w, r)
				return
			}
			applog.Error(ctx, "failed to load recipe for update", "error", err, "id", *payload.ID)
			writeJSONError(w, http.StatusInternalServerError, "unable to load recipe")
			return
		}
		status = http.StatusOK
	}

	recipe.Name = name
	if err := database.WithContext(ctx).Save(&recipe).Error; err != nil {
		applog.Error(ctx, "failed to save recipe", "error", err)
		writeJSONError(w, http.StatusBadRequest, "unable to save recipe")
		return
	}

	calc := costing.NewCalculator(database)
	writeJSON(w, status, recipeResponse{
		ID:        recipe.ID,
		Name:      recipe.Name,
		BatchCost: calc.RecipeBatchCost(ctx, recipe.ID),
	})
}

func deleteRecipe(w http.ResponseWriter, r *http.Request, recipeID uint) {
	ctx := r.Context()
	var recipe models.Recipe
	if err := database.WithContext(ctx).First(&recipe, recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
			return
		}
		applog.Error(ctx, "failed to load recipe for delete", "error", err, "id", recipeID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load recipe")
		return
	}

	err := database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.ComboRecipe{}).Error; err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
	if err != nil {
		applog.Error(ctx, "failed to delete recipe", "error", err, "id", recipeID)
		writeJSONError(w, http.StatusInternalServerError, "unable to delete recipe")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func listRecipeItems(w http.ResponseWriter, r *http.Request, recipeID uint) {
	ctx := r.Context()
	var items []models.RecipeItem
	err := database.WithContext(ctx).
		Preload("Ingredient").
		Where("recipe_id = ?", recipeID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		applog.Error(ctx, "failed to list recipe items", "error", err, "recipeID", recipeID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load recipe items")
		return
	}

	responses := make([]recipeItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, projectRecipeItem(item))
	}
	writeJSON(w, http.StatusOK, responses)
}

func projectRecipeItem(item models.RecipeItem) recipeItemResponse {
	response := recipeItemResponse{
		ID:           item.ID,
		RecipeID:     item.RecipeID,
		IngredientID: item.IngredientID,
		BatchQty:     item.BatchQty,
		Unit:         item.Unit,
	}
	if item.Ingredient != nil {
		response.Ingredient = item.Ingredient.Name
		response.UnitCost = costing.UnitCost(*item.Ingredient)
		response.BatchCost = response.UnitCost * item.BatchQty
	}
	return response
}
