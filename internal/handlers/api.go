package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"mitsypos/internal/costing"
	applog "mitsypos/internal/log"
	"mitsypos/internal/store"
)

// API serves the JSON endpoints of the point of sale.
type API struct {
	store  *store.Store
	engine *costing.Engine
}

// New returns an API backed by engine and the store it writes to.
func New(engine *costing.Engine) *API {
	return &API{store: engine.Store(), engine: engine}
}

// splitPath trims prefix from the request path and returns the remaining segments.
func splitPath(r *http.Request, prefix string) []string {
	path := strings.TrimPrefix(r.URL.Path, prefix)
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func parseID(r *http.Request, value string) (uint, bool) {
	idValue, err := strconv.ParseUint(value, 10, 64)
	if err != nil || idValue == 0 {
		applog.Debug(r.Context(), "invalid identifier", "identifier", value, "path", r.URL.Path)
		return 0, false
	}
	return uint(idValue), true
}

func decodeJSON(r *http.Request, payload any) bool {
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		applog.Debug(r.Context(), "invalid request payload", "path", r.URL.Path, "error", err)
		return false
	}
	return true
}

func queryBool(r *http.Request, key string) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(r.URL.Query().Get(key)))
	return err == nil && value
}

// writeFailure maps store and engine errors to status codes.
func writeFailure(w http.ResponseWriter, r *http.Request, err error, message string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, "not found")
	case errors.Is(err, costing.ErrInvalidQuantity), errors.Is(err, costing.ErrEmptySale):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	default:
		applog.Error(r.Context(), message, "error", err, "path", r.URL.Path)
		writeJSONError(w, http.StatusInternalServerError, message)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		applog.Error(context.Background(), "failed to encode json response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
