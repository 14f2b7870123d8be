package handlers

import (
	"net/http"
)

type recomputeResponse struct {
	Refreshed int `json:"refreshed"`
}

type stockManagementPayload struct {
	Enabled *bool `json:"enabled"`
}

// RecomputeStock handles POST /api/stock/recompute.
func (a *API) RecomputeStock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	refreshed, err := a.engine.RecomputeAllEstimates(r.Context())
	if err != nil {
		writeFailure(w, r, err, "unable to recompute estimates")
		return
	}
	writeJSON(w, http.StatusOK, recomputeResponse{Refreshed: refreshed})
}

// StockManagement reads and toggles the global inventory deduction switch.
func (a *API) StockManagement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
	case http.MethodPut:
		var payload stockManagementPayload
		if !decodeJSON(r, &payload) || payload.Enabled == nil {
			writeJSONError(w, http.StatusBadRequest, "enabled is required")
			return
		}
		if err := a.store.SetStockManagementEnabled(ctx, *payload.Enabled); err != nil {
			writeFailure(w, r, err, "unable to store setting")
			return
		}
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	enabled, err := a.store.StockManagementEnabled(ctx)
	if err != nil {
		writeFailure(w, r, err, "unable to load setting")
		return
	}
	writeJSON(w, http.StatusOK, stockManagementPayload{Enabled: &enabled})
}
