package handlers

import (
	"net/http"
	"strings"

	applog "mitsypos/internal/log"
	"mitsypos/internal/store"
	"mitsypos/models"
)

type ingredientRequest struct {
	Name        *string  `json:"name"`
	Unit        *string  `json:"unit"`
	UnitCost    *float64 `json:"unit_cost"`
	Stock       *float64 `json:"stock"`
	ManageStock *bool    `json:"manage_stock"`
}

type restockRequest struct {
	Quantity float64 `json:"quantity"`
}

// Ingredients handles /api/ingredients, /api/ingredients/{id} and /api/ingredients/{id}/restock.
func (a *API) Ingredients(w http.ResponseWriter, r *http.Request) {
	segments := splitPath(r, "/api/ingredients")

	if len(segments) == 0 {
		switch r.Method {
		case http.MethodGet:
			a.listIngredients(w, r)
		case http.MethodPost:
			a.createIngredient(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	ingredientID, ok := parseID(r, segments[0])
	if !ok || len(segments) > 2 || (len(segments) == 2 && segments[1] != "restock") {
		http.NotFound(w, r)
		return
	}

	if len(segments) == 2 {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		a.restockIngredient(w, r, ingredientID)
		return
	}

	switch r.Method {
	case http.MethodGet:
		a.showIngredient(w, r, ingredientID)
	case http.MethodPut:
		a.updateIngredient(w, r, ingredientID)
	case http.MethodDelete:
		a.deactivateIngredient(w, r, ingredientID)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (a *API) listIngredients(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		ingredients []models.Ingredient
		err         error
	)
	if query := strings.TrimSpace(r.URL.Query().Get("q")); query != "" {
		ingredients, err = a.store.SearchIngredients(ctx, query)
	} else {
		ingredients, err = a.store.ListIngredients(ctx, store.ListOptions{IncludeInactive: queryBool(r, "include_inactive")})
	}
	if err != nil {
		writeFailure(w, r, err, "unable to load ingredients")
		return
	}
	writeJSON(w, http.StatusOK, ingredients)
}

func (a *API) showIngredient(w http.ResponseWriter, r *http.Request, ingredientID uint) {
	ingredient, err := a.store.GetIngredient(r.Context(), ingredientID)
	if err != nil {
		writeFailure(w, r, err, "unable to load ingredient")
		return
	}
	writeJSON(w, http.StatusOK, ingredient)
}

func (a *API) createIngredient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload ingredientRequest
	if !decodeJSON(r, &payload) {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if payload.Name == nil || strings.TrimSpace(*payload.Name) == "" {
		writeJSONError(w, http.StatusBadRequest, "name is required")
		return
	}

	input := store.NewIngredient{Name: *payload.Name}
	if payload.Unit != nil {
		input.Unit = *payload.Unit
	}
	if payload.UnitCost != nil {
		input.UnitCost = *payload.UnitCost
	}
	if payload.Stock != nil {
		input.Stock = *payload.Stock
	}
	if payload.ManageStock != nil {
		input.ManageStock = *payload.ManageStock
	}

	ingredient, err := a.store.CreateIngredient(ctx, input)
	if err != nil {
		writeFailure(w, r, err, "unable to create ingredient")
		return
	}
	applog.Debug(ctx, "ingredient created", "ingredient_id", ingredient.ID)
	writeJSON(w, http.StatusCreated, ingredient)
}

func (a *API) updateIngredient(w http.ResponseWriter, r *http.Request, ingredientID uint) {
	var payload ingredientRequest
	if !decodeJSON(r, &payload) {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if payload.Name != nil && strings.TrimSpace(*payload.Name) == "" {
		writeJSONError(w, http.StatusBadRequest, "name must not be empty")
		return
	}

	ingredient, err := a.engine.UpdateIngredient(r.Context(), ingredientID, store.IngredientUpdate{
		Name:        payload.Name,
		Unit:        payload.Unit,
		UnitCost:    payload.UnitCost,
		Stock:       payload.Stock,
		ManageStock: payload.ManageStock,
	})
	if err != nil {
		writeFailure(w, r, err, "unable to update ingredient")
		return
	}
	writeJSON(w, http.StatusOK, ingredient)
}

func (a *API) deactivateIngredient(w http.ResponseWriter, r *http.Request, ingredientID uint) {
	if err := a.engine.DeactivateIngredient(r.Context(), ingredientID); err != nil {
		writeFailure(w, r, err, "unable to deactivate ingredient")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) restockIngredient(w http.ResponseWriter, r *http.Request, ingredientID uint) {
	var payload restockRequest
	if !decodeJSON(r, &payload) {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	ingredient, err := a.engine.RestockIngredient(r.Context(), ingredientID, payload.Quantity)
	if err != nil {
		writeFailure(w, r, err, "unable to restock ingredient")
		return
	}
	writeJSON(w, http.StatusOK, ingredient)
}
