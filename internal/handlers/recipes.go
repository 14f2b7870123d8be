package handlers

import (
	"net/http"
	"strings"

	"mitsypos/internal/store"
)

type recipeLineRequest struct {
	ProductID    *uint    `json:"product_id"`
	IngredientID *uint    `json:"ingredient_id"`
	Quantity     *float64 `json:"quantity"`
	Unit         *string  `json:"unit"`
}

// Recipes handles /api/recipes and /api/recipes/{id}.
func (a *API) Recipes(w http.ResponseWriter, r *http.Request) {
	segments := splitPath(r, "/api/recipes")

	if len(segments) == 0 {
		switch r.Method {
		case http.MethodGet:
			a.listRecipeLines(w, r)
		case http.MethodPost:
			a.createRecipeLine(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	lineID, ok := parseID(r, segments[0])
	if !ok || len(segments) > 1 {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		a.showRecipeLine(w, r, lineID)
	case http.MethodPut:
		a.updateRecipeLine(w, r, lineID)
	case http.MethodDelete:
		a.deleteRecipeLine(w, r, lineID)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (a *API) listRecipeLines(w http.ResponseWriter, r *http.Request) {
	var productID uint
	if value := strings.TrimSpace(r.URL.Query().Get("product_id")); value != "" {
		id, ok := parseID(r, value)
		if !ok {
			writeJSONError(w, http.StatusBadRequest, "invalid product_id")
			return
		}
		productID = id
	}

	lines, err := a.store.ListRecipeLines(r.Context(), productID)
	if err != nil {
		writeFailure(w, r, err, "unable to load recipe lines")
		return
	}
	if lines == nil {
		lines = []store.RecipeLineDetail{}
	}
	writeJSON(w, http.StatusOK, lines)
}

func (a *API) showRecipeLine(w http.ResponseWriter, r *http.Request, lineID uint) {
	line, err := a.store.GetRecipeLine(r.Context(), lineID)
	if err != nil {
		writeFailure(w, r, err, "unable to load recipe line")
		return
	}
	writeJSON(w, http.StatusOK, line)
}

func (a *API) createRecipeLine(w http.ResponseWriter, r *http.Request) {
	var payload recipeLineRequest
	if !decodeJSON(r, &payload) {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if payload.ProductID == nil || *payload.ProductID == 0 {
		writeJSONError(w, http.StatusBadRequest, "product_id is required")
		return
	}
	if payload.IngredientID == nil || *payload.IngredientID == 0 {
		writeJSONError(w, http.StatusBadRequest, "ingredient_id is required")
		return
	}

	input := store.NewRecipeLine{ProductID: *payload.ProductID, IngredientID: *payload.IngredientID}
	if payload.Quantity != nil {
		input.Quantity = *payload.Quantity
	}
	if payload.Unit != nil {
		input.Unit = *payload.Unit
	}

	line, err := a.engine.AddRecipeLine(r.Context(), input)
	if err != nil {
		writeFailure(w, r, err, "unable to create recipe line")
		return
	}
	writeJSON(w, http.StatusCreated, line)
}

func (a *API) updateRecipeLine(w http.ResponseWriter, r *http.Request, lineID uint) {
	var payload recipeLineRequest
	if !decodeJSON(r, &payload) {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if (payload.ProductID != nil && *payload.ProductID == 0) || (payload.IngredientID != nil && *payload.IngredientID == 0) {
		writeJSONError(w, http.StatusBadRequest, "product_id and ingredient_id must not be zero")
		return
	}

	line, err := a.engine.UpdateRecipeLine(r.Context(), lineID, store.RecipeLineUpdate{
		ProductID:    payload.ProductID,
		IngredientID: payload.IngredientID,
		Quantity:     payload.Quantity,
		Unit:         payload.Unit,
	})
	if err != nil {
		writeFailure(w, r, err, "unable to update recipe line")
		return
	}
	writeJSON(w, http.StatusOK, line)
}

func (a *API) deleteRecipeLine(w http.ResponseWriter, r *http.Request, lineID uint) {
	if err := a.engine.DeleteRecipeLine(r.Context(), lineID); err != nil {
		writeFailure(w, r, err, "unable to delete recipe line")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
