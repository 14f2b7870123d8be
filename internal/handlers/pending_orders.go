package handlers

import (
	"net/http"
	"strings"

	"mitsypos/models"
)

type pendingOrderRequest struct {
	Table string             `json:"table"`
	Items []models.OrderItem `json:"items"`
}

// PendingOrders handles /api/pending-orders and /api/pending-orders/{id}.
func (a *API) PendingOrders(w http.ResponseWriter, r *http.Request) {
	segments := splitPath(r, "/api/pending-orders")

	if len(segments) == 0 {
		switch r.Method {
		case http.MethodGet:
			a.listPendingOrders(w, r)
		case http.MethodPost:
			a.createPendingOrder(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	orderID, ok := parseID(r, segments[0])
	if !ok || len(segments) > 1 {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		order, err := a.store.GetPendingOrder(r.Context(), orderID)
		if err != nil {
			writeFailure(w, r, err, "unable to load pending order")
			return
		}
		writeJSON(w, http.StatusOK, order)
	case http.MethodPut:
		a.updatePendingOrder(w, r, orderID)
	case http.MethodDelete:
		if err := a.store.DeletePendingOrder(r.Context(), orderID); err != nil {
			writeFailure(w, r, err, "unable to delete pending order")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (a *API) listPendingOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := a.store.ListPendingOrders(r.Context())
	if err != nil {
		writeFailure(w, r, err, "unable to load pending orders")
		return
	}
	if orders == nil {
		orders = []models.PendingOrder{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (a *API) createPendingOrder(w http.ResponseWriter, r *http.Request) {
	var payload pendingOrderRequest
	if !decodeJSON(r, &payload) {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if strings.TrimSpace(payload.Table) == "" {
		writeJSONError(w, http.StatusBadRequest, "table is required")
		return
	}

	order, err := a.store.CreatePendingOrder(r.Context(), payload.Table, payload.Items)
	if err != nil {
		writeFailure(w, r, err, "unable to create pending order")
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (a *API) updatePendingOrder(w http.ResponseWriter, r *http.Request, orderID uint) {
	var payload pendingOrderRequest
	if !decodeJSON(r, &payload) {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	order, err := a.store.UpdatePendingOrder(r.Context(), orderID, payload.Items)
	if err != nil {
		writeFailure(w, r, err, "unable to update pending order")
		return
	}
	writeJSON(w, http.StatusOK, order)
}
