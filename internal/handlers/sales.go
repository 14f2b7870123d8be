package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"mitsypos/internal/costing"
	"mitsypos/internal/store"
	"mitsypos/models"
)

// Sales handles /api/sales: GET lists sale lines, POST records a checkout.
func (a *API) Sales(w http.ResponseWriter, r *http.Request) {
	if len(splitPath(r, "/api/sales")) != 0 {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		a.listSales(w, r)
	case http.MethodPost:
		a.recordSale(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (a *API) listSales(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var filter store.SaleFilter

	if value := strings.TrimSpace(query.Get("number")); value != "" {
		number, err := strconv.Atoi(value)
		if err != nil || number <= 0 {
			writeJSONError(w, http.StatusBadRequest, "invalid number")
			return
		}
		filter.Number = number
	}
	for key, target := range map[string]*time.Time{"since": &filter.Since, "until": &filter.Until} {
		value := strings.TrimSpace(query.Get(key))
		if value == "" {
			continue
		}
		parsed, err := parseTime(value)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid "+key)
			return
		}
		*target = parsed
	}

	sales, err := a.store.ListSales(r.Context(), filter)
	if err != nil {
		writeFailure(w, r, err, "unable to load sales")
		return
	}
	if sales == nil {
		sales = []models.Sale{}
	}
	writeJSON(w, http.StatusOK, sales)
}

func (a *API) recordSale(w http.ResponseWriter, r *http.Request) {
	var payload costing.SaleRequest
	if !decodeJSON(r, &payload) {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	receipt, err := a.engine.RecordSale(r.Context(), payload)
	if err != nil {
		writeFailure(w, r, err, "unable to record sale")
		return
	}
	writeJSON(w, http.StatusCreated, receipt)
}

// parseTime accepts RFC 3339 timestamps and plain dates.
func parseTime(value string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse(time.DateOnly, value)
}
