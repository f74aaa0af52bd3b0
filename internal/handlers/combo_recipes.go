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

type comboRecipeRequest struct {
	ComboID  uint `json:"combo_id"`
	RecipeID uint `json:"recipe_id"`
}

type comboRecipeResponse struct {
	ID       uint   `json:"id"`
	ComboID  uint   `json:"combo_id"`
	RecipeID uint   `json:"recipe_id"`
	Recipe   string `json:"recipe"`
}

// ComboRecipeResource links recipes into combos and removes links.
// A recipe is linked at most once per combo; a duplicate link request
// returns the existing link unchanged.
func ComboRecipeResource(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/app/api/combo-recipes")
	path = strings.Trim(path, "/")

	if path == "" {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		createComboRecipe(w, r)
		return
	}

	idValue, err := strconv.ParseUint(path, 10, 64)
	if err != nil {
		applog.Debug(r.Context(), "invalid combo recipe identifier", "identifier", path, "error", err)
		http.NotFound(w, r)
		return
	}

	if r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	deleteComboRecipe(w, r, uint(idValue))
}

func createComboRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload comboRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid combo recipe payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if payload.ComboID == 0 || payload.RecipeID == 0 {
		writeJSONError(w, http.StatusBadRequest, "combo_id and recipe_id are required")
		return
	}

	var combo models.Combo
	if err := database.WithContext(ctx).First(&combo, payload.ComboID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSONError(w, http.StatusBadRequest, "combo does not exist")
			return
		}
		applog.Error(ctx, "failed to load combo for link", "error", err, "comboID", payload.ComboID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load combo")
		return
	}

	var recipe models.Recipe
	if err := database.WithContext(ctx).First(&recipe, payload.RecipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSONError(w, http.StatusBadRequest, "recipe does not exist")
			return
		}
		applog.Error(ctx, "failed to load recipe for link", "error", err, "recipeID", payload.RecipeID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load recipe")
		return
	}

	var link models.ComboRecipe
	err := database.WithContext(ctx).
		Where("combo_id = ? AND recipe_id = ?", payload.ComboID, payload.RecipeID).
		First(&link).Error
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, projectComboRecipe(link, recipe.Name))
		return
	case !errors.Is(err, gorm.ErrRecordNotFound):
		applog.Error(ctx, "failed to check combo recipe uniqueness", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to link recipe")
		return
	}

	link = models.ComboRecipe{ComboID: payload.ComboID, RecipeID: payload.RecipeID}
	if err := database.WithContext(ctx).Create(&link).Error; err != nil {
		applog.Error(ctx, "failed to create combo recipe", "error", err)
		writeJSONError(w, http.StatusBadRequest, "unable to link recipe")
		return
	}

	writeJSON(w, http.StatusCreated, projectComboRecipe(link, recipe.Name))
}

func deleteComboRecipe(w http.ResponseWriter, r *http.Request, linkID uint) {
	ctx := r.Context()
	if err := database.WithContext(ctx).Delete(&models.ComboRecipe{}, linkID).Error; err != nil {
		applog.Error(ctx, "failed to delete combo recipe", "error", err, "id", linkID)
		writeJSONError(w, http.StatusInternalServerError, "unable to unlink recipe")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func projectComboRecipe(link models.ComboRecipe, recipeName string) comboRecipeResponse {
	return comboRecipeResponse{
		ID:       link.ID,
		ComboID:  link.ComboID,
		RecipeID: link.RecipeID,
		Recipe:   recipeName,
	}
}
