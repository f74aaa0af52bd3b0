package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"marmitaria/internal/costing"
	applog "marmitaria/internal/log"
	"marmitaria/internal/reports"
)

type saleRequest struct {
	Quantity int   `json:"quantity"`
	ComboID  *uint `json:"combo_id"`
}

type saleResponse struct {
	ID       uint      `json:"id"`
	SoldAt   time.Time `json:"sold_at"`
	Quantity int       `json:"quantity"`
	Revenue  float64   `json:"revenue"`
	Cost     float64   `json:"cost"`
	Profit   float64   `json:"profit"`
}

// SaleResource appends one sale to the ledger, snapshotting the unit
// economics at the moment of sale. Sales are append-only: no update or
// delete route exists.
func SaleResource(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	payload, err := decodeSaleRequest(r)
	if err != nil {
		applog.Debug(ctx, "invalid sale payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if payload.ComboID == nil {
		if raw := strings.TrimSpace(r.URL.Query().Get("combo")); raw != "" {
			if idValue, err := strconv.ParseUint(raw, 10, 64); err == nil {
				comboID := uint(idValue)
				payload.ComboID = &comboID
			}
		}
	}

	if payload.Quantity < 1 {
		writeJSONError(w, http.StatusBadRequest, "quantity must be at least 1")
		return
	}

	calc := costing.NewCalculator(database)
	settings, err := calc.Settings(ctx)
	if err != nil {
		applog.Error(ctx, "failed to load settings for sale", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to record sale")
		return
	}

	combo := calc.ActiveCombo(ctx, payload.ComboID)
	unitCost, err := calc.UnitCostPerMeal(ctx, combo)
	if err != nil {
		applog.Error(ctx, "failed to compute unit cost for sale", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to record sale")
		return
	}

	sale, err := reports.RecordSale(ctx, database, settings, unitCost, payload.Quantity, time.Now().UTC())
	if err != nil {
		applog.Error(ctx, "failed to record sale", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to record sale")
		return
	}

	applog.Info(ctx, "sale recorded", "quantity", sale.Quantity, "revenue", sale.Revenue, "profit", sale.Profit)

	writeJSON(w, http.StatusCreated, saleResponse{
		ID:       sale.ID,
		SoldAt:   sale.SoldAt,
		Quantity: sale.Quantity,
		Revenue:  sale.Revenue,
		Cost:     sale.Cost,
		Profit:   sale.Profit,
	})
}

// decodeSaleRequest reads the sale submission as JSON or as a form
// body. The form shape takes "quantidade" (with "quantity" as an
// alias) and an optional "combo" field.
func decodeSaleRequest(r *http.Request) (saleRequest, error) {
	var payload saleRequest

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		err := json.NewDecoder(r.Body).Decode(&payload)
		return payload, err
	}

	if err := r.ParseForm(); err != nil {
		return payload, err
	}

	raw := strings.TrimSpace(r.PostFormValue("quantidade"))
	if raw == "" {
		raw = strings.TrimSpace(r.PostFormValue("quantity"))
	}
	if raw != "" {
		quantity, err := strconv.Atoi(raw)
		if err != nil {
			return payload, err
		}
		payload.Quantity = quantity
	}

	if raw := strings.TrimSpace(r.PostFormValue("combo")); raw != "" {
		if idValue, err := strconv.ParseUint(raw, 10, 64); err == nil {
			comboID := uint(idValue)
			payload.ComboID = &comboID
		}
	}

	return payload, nil
}
