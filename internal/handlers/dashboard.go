package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"marmitaria/internal/costing"
	applog "marmitaria/internal/log"
	"marmitaria/internal/reports"
	"marmitaria/models"
)

type dashboardComboSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type dashboardItemSeries struct {
	Labels []string  `json:"labels"`
	Costs  []float64 `json:"costs"`
}

type dashboardDailySeries struct {
	Labels []string  `json:"labels"`
	Profit []float64 `json:"profit"`
	Cost   []float64 `json:"cost"`
}

type dashboardResponse struct {
	Period      string                  `json:"period"`
	Gross       float64                 `json:"gross"`
	Cost        float64                 `json:"cost"`
	Profit      float64                 `json:"profit"`
	UnitCost    float64                 `json:"unit_cost"`
	SalePrice   float64                 `json:"sale_price"`
	Items       dashboardItemSeries     `json:"items"`
	Daily       dashboardDailySeries    `json:"daily"`
	Combos      []dashboardComboSummary `json:"combos"`
	ActiveCombo *dashboardComboSummary  `json:"active_combo"`
}

// Dashboard aggregates the sales ledger over the requested period and
// reports current unit economics for the selected combo: window totals,
// the per-ingredient cost breakdown and the chart-ready daily series.
// Everything is recomputed from current state on every request.
func Dashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if database == nil {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	ctx := r.Context()
	period := reports.ParsePeriod(r.URL.Query().Get("periodo"))

	var requestedCombo *uint
	if raw := strings.TrimSpace(r.URL.Query().Get("combo")); raw != "" {
		if idValue, err := strconv.ParseUint(raw, 10, 64); err == nil {
			comboID := uint(idValue)
			requestedCombo = &comboID
		}
	}

	calc := costing.NewCalculator(database)
	settings, err := calc.Settings(ctx)
	if err != nil {
		applog.Error(ctx, "failed to load settings for dashboard", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load dashboard")
		return
	}

	report, err := reports.Build(ctx, database, period, time.Now().UTC())
	if err != nil {
		applog.Error(ctx, "failed to build sales report", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load dashboard")
		return
	}

	var combos []models.Combo
	if err := database.WithContext(ctx).Order("id asc").Find(&combos).Error; err != nil {
		applog.Error(ctx, "failed to list combos for dashboard", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load dashboard")
		return
	}

	activeCombo := calc.ActiveCombo(ctx, requestedCombo)
	unitCost, err := calc.UnitCostPerMeal(ctx, activeCombo)
	if err != nil {
		applog.Error(ctx, "failed to compute unit cost for dashboard", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load dashboard")
		return
	}

	breakdown := calc.ItemBreakdown(ctx, activeCombo)
	items := dashboardItemSeries{Labels: []string{}, Costs: []float64{}}
	for _, entry := range breakdown {
		items.Labels = append(items.Labels, entry.Label)
		items.Costs = append(items.Costs, entry.Cost)
	}

	daily := dashboardDailySeries{Labels: []string{}, Profit: []float64{}, Cost: []float64{}}
	for _, day := range report.Days {
		daily.Labels = append(daily.Labels, day.Day)
		daily.Profit = append(daily.Profit, day.Profit)
		daily.Cost = append(daily.Cost, day.Cost)
	}

	response := dashboardResponse{
		Period:    period.String(),
		Gross:     report.Gross,
		Cost:      report.Cost,
		Profit:    report.Profit,
		UnitCost:  unitCost,
		SalePrice: settings.MealPrice,
		Items:     items,
		Daily:     daily,
		Combos:    make([]dashboardComboSummary, 0, len(combos)),
	}
	for _, combo := range combos {
		response.Combos = append(response.Combos, dashboardComboSummary{ID: combo.ID, Name: combo.Name})
	}
	if activeCombo != nil {
		response.ActiveCombo = &dashboardComboSummary{ID: activeCombo.ID, Name: activeCombo.Name}
	}

	writeJSON(w, http.StatusOK, response)
}
