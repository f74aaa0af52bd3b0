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

type comboUpsertRequest struct {
	ID   *uint  `json:"id"`
	Name string `json:"name"`
}

type comboResponse struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	BatchCost float64 `json:"batch_cost"`
}

// ComboResource handles combo listing, optional-id upserts and deletes.
// Deleting a combo removes its recipe links but leaves the recipes and
// their items intact.
func ComboResource(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/app/api/combos")
	path = strings.Trim(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			listCombos(w, r)
		case http.MethodPost:
			upsertCombo(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	idValue, err := strconv.ParseUint(path, 10, 64)
	if err != nil {
		applog.Debug(r.Context(), "invalid combo identifier", "identifier", path, "error", err)
		http.NotFound(w, r)
		return
	}

	if r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	deleteCombo(w, r, uint(idValue))
}

func listCombos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var results []models.Combo
	if err := database.WithContext(ctx).Order("id asc").Find(&results).Error; err != nil {
		applog.Error(ctx, "failed to list combos", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load combos")
		return
	}

	calc := costing.NewCalculator(database)
	responses := make([]comboResponse, 0, len(results))
	for i := range results {
		responses = append(responses, comboResponse{
			ID:        results[i].ID,
			Name:      results[i].Name,
			BatchCost: calc.ComboBatchCost(ctx, &results[i]),
		})
	}
	writeJSON(w, http.StatusOK, responses)
}

func upsertCombo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload comboUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid combo payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	name := strings.TrimSpace(payload.Name)
	if name == "" {
		writeJSONError(w, http.StatusBadRequest, "name is required")
		return
	}

	var combo models.Combo
	status := http.StatusCreated
	if payload.ID != nil && *payload.ID != 0 {
		if err := database.WithContext(ctx).First(&combo, *payload.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				http.NotFound(w, r)
				return
			}
			applog.Error(ctx, "failed to load combo for update", "error", err, "id", *payload.ID)
			writeJSONError(w, http.StatusInternalServerError, "unable to load combo")
			return
		}
		status = http.StatusOK
	}

	combo.Name = name
	if err := database.WithContext(ctx).Save(&combo).Error; err != nil {
		applog.Error(ctx, "failed to save combo", "error", err)
		writeJSONError(w, http.StatusBadRequest, "unable to save combo")
		return
	}

	calc := costing.NewCalculator(database)
	writeJSON(w, status, comboResponse{
		ID:        combo.ID,
		Name:      combo.Name,
		BatchCost: calc.ComboBatchCost(ctx, &combo),
	})
}

func deleteCombo(w http.ResponseWriter, r *http.Request, comboID uint) {
	ctx := r.Context()
	var combo models.Combo
	if err := database.WithContext(ctx).First(&combo, comboID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
			return
		}
		applog.Error(ctx, "failed to load combo for delete", "error", err, "id", comboID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load combo")
		return
	}

	err := database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("combo_id = ?", comboID).Delete(&models.ComboRecipe{}).Error; err != nil {
			return err
		}
		return tx.Delete(&combo).Error
	})
	if err != nil {
		applog.Error(ctx, "failed to delete combo", "error", err, "id", comboID)
		writeJSONError(w, http.StatusInternalServerError, "unable to delete combo")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
