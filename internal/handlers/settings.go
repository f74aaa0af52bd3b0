package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"marmitaria/internal/costing"
	applog "marmitaria/internal/log"
	"marmitaria/models"
)

type settingsUpdateRequest struct {
	MealPrice     float64 `json:"meal_price"`
	CanisterPrice float64 `json:"canister_price"`
	CanisterHours float64 `json:"canister_hours"`
	OvenMinutes   float64 `json:"oven_minutes"`
	BatchYield    int     `json:"batch_yield"`
	FuelPrice     float64 `json:"fuel_price"`
	KmPerLiter    float64 `json:"km_per_liter"`
	DeliveryKm    float64 `json:"delivery_km"`
}

type priceUpdateRequest struct {
	Price float64 `json:"price"`
}

type settingsResponse struct {
	MealPrice     float64 `json:"meal_price"`
	CanisterPrice float64 `json:"canister_price"`
	CanisterHours float64 `json:"canister_hours"`
	OvenMinutes   float64 `json:"oven_minutes"`
	BatchYield    int     `json:"batch_yield"`
	FuelPrice     float64 `json:"fuel_price"`
	KmPerLiter    float64 `json:"km_per_liter"`
	DeliveryKm    float64 `json:"delivery_km"`
}

func projectSettings(settings models.Settings) settingsResponse {
	return settingsResponse{
		MealPrice:     settings.MealPrice,
		CanisterPrice: settings.CanisterPrice,
		CanisterHours: settings.CanisterHours,
		OvenMinutes:   settings.OvenMinutes,
		BatchYield:    settings.BatchYield,
		FuelPrice:     settings.FuelPrice,
		KmPerLiter:    settings.KmPerLiter,
		DeliveryKm:    settings.DeliveryKm,
	}
}

// SettingsResource reads and saves the singleton business settings.
// The /price subpath updates only the meal sale price; everything else
// is a full save. Settings edits are last-writer-wins.
func SettingsResource(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/app/api/settings")
	path = strings.Trim(path, "/")

	switch {
	case path == "" && r.Method == http.MethodGet:
		showSettings(w, r)
	case path == "" && r.Method == http.MethodPost:
		saveSettings(w, r)
	case path == "price" && r.Method == http.MethodPost:
		savePrice(w, r)
	case path == "" || path == "price":
		w.WriteHeader(http.StatusMethodNotAllowed)
	default:
		http.NotFound(w, r)
	}
}

func showSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	settings, err := costing.NewCalculator(database).Settings(ctx)
	if err != nil {
		applog.Error(ctx, "failed to load settings", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load settings")
		return
	}
	writeJSON(w, http.StatusOK, projectSettings(settings))
}

func saveSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload settingsUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid settings payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	settings, err := costing.NewCalculator(database).Settings(ctx)
	if err != nil {
		applog.Error(ctx, "failed to load settings for save", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load settings")
		return
	}

	updates := map[string]any{
		"meal_price":     payload.MealPrice,
		"canister_price": payload.CanisterPrice,
		"canister_hours": payload.CanisterHours,
		"oven_minutes":   payload.OvenMinutes,
		"batch_yield":    payload.BatchYield,
		"fuel_price":     payload.FuelPrice,
		"km_per_liter":   payload.KmPerLiter,
		"delivery_km":    payload.DeliveryKm,
	}

	if err := database.WithContext(ctx).Model(&settings).Updates(updates).Error; err != nil {
		applog.Error(ctx, "failed to save settings", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to save settings")
		return
	}

	if err := database.WithContext(ctx).First(&settings, settings.ID).Error; err != nil {
		applog.Error(ctx, "failed to reload settings after save", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load settings")
		return
	}
	writeJSON(w, http.StatusOK, projectSettings(settings))
}

func savePrice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload priceUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid price payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	settings, err := costing.NewCalculator(database).Settings(ctx)
	if err != nil {
		applog.Error(ctx, "failed to load settings for price save", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load settings")
		return
	}

	if err := database.WithContext(ctx).Model(&settings).Update("meal_price", payload.Price).Error; err != nil {
		applog.Error(ctx, "failed to save meal price", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to save price")
		return
	}

	settings.MealPrice = payload.Price
	writeJSON(w, http.StatusOK, projectSettings(settings))
}
