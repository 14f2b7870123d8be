package handlers

import (
	"net/http"
	"strings"

	applog "mitsypos/internal/log"
	"mitsypos/internal/store"
	"mitsypos/models"
)

type productRequest struct {
	Name         *string  `json:"name"`
	Price        *float64 `json:"price"`
	Cost         *float64 `json:"cost"`
	Unit         *string  `json:"unit"`
	ManageStock  *bool    `json:"manage_stock"`
	MinimumStock *float64 `json:"minimum_stock"`
	Image        *string  `json:"image"`
}

type productResponse struct {
	models.Product
	BelowMinimum bool `json:"below_minimum"`
}

type stockResponse struct {
	ProductID      uint `json:"product_id"`
	EstimatedStock int  `json:"estimated_stock"`
}

func projectProduct(product models.Product) productResponse {
	return productResponse{Product: product, BelowMinimum: product.BelowMinimum()}
}

// Products handles /api/products and its per-product sub-resources.
func (a *API) Products(w http.ResponseWriter, r *http.Request) {
	segments := splitPath(r, "/api/products")

	if len(segments) == 0 {
		switch r.Method {
		case http.MethodGet:
			a.listProducts(w, r)
		case http.MethodPost:
			a.createProduct(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	productID, ok := parseID(r, segments[0])
	if !ok || len(segments) > 2 {
		http.NotFound(w, r)
		return
	}

	if len(segments) == 1 {
		switch r.Method {
		case http.MethodGet:
			a.showProduct(w, r, productID)
		case http.MethodPut:
			a.updateProduct(w, r, productID)
		case http.MethodDelete:
			a.deactivateProduct(w, r, productID)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	switch segments[1] {
	case "recipe":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		a.productRecipe(w, r, productID)
	case "stock":
		switch r.Method {
		case http.MethodGet:
			a.estimateStock(w, r, productID)
		case http.MethodPost:
			a.persistEstimate(w, r, productID)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	case "cost":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		a.recomputeCost(w, r, productID)
	default:
		http.NotFound(w, r)
	}
}

func (a *API) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		products []models.Product
		err      error
	)
	if query := strings.TrimSpace(r.URL.Query().Get("q")); query != "" {
		products, err = a.store.SearchProducts(ctx, query)
	} else {
		products, err = a.store.ListProducts(ctx, store.ListOptions{IncludeInactive: queryBool(r, "include_inactive")})
	}
	if err != nil {
		writeFailure(w, r, err, "unable to load products")
		return
	}

	responses := make([]productResponse, 0, len(products))
	for _, product := range products {
		responses = append(responses, projectProduct(product))
	}
	writeJSON(w, http.StatusOK, responses)
}

func (a *API) showProduct(w http.ResponseWriter, r *http.Request, productID uint) {
	product, err := a.store.GetProduct(r.Context(), productID)
	if err != nil {
		writeFailure(w, r, err, "unable to load product")
		return
	}
	writeJSON(w, http.StatusOK, projectProduct(*product))
}

func (a *API) createProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload productRequest
	if !decodeJSON(r, &payload) {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if payload.Name == nil || strings.TrimSpace(*payload.Name) == "" {
		writeJSONError(w, http.StatusBadRequest, "name is required")
		return
	}

	input := store.NewProduct{Name: *payload.Name}
	if payload.Price != nil {
		input.Price = *payload.Price
	}
	if payload.Cost != nil {
		input.Cost = *payload.Cost
	}
	if payload.Unit != nil {
		input.Unit = *payload.Unit
	}
	if payload.ManageStock != nil {
		input.ManageStock = *payload.ManageStock
	}
	if payload.MinimumStock != nil {
		input.MinimumStock = *payload.MinimumStock
	}
	if payload.Image != nil {
		input.Image = *payload.Image
	}

	product, err := a.store.CreateProduct(ctx, input)
	if err != nil {
		writeFailure(w, r, err, "unable to create product")
		return
	}
	applog.Debug(ctx, "product created", "product_id", product.ID)
	writeJSON(w, http.StatusCreated, projectProduct(*product))
}

func (a *API) updateProduct(w http.ResponseWriter, r *http.Request, productID uint) {
	ctx := r.Context()
	var payload productRequest
	if !decodeJSON(r, &payload) {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if payload.Name != nil && strings.TrimSpace(*payload.Name) == "" {
		writeJSONError(w, http.StatusBadRequest, "name must not be empty")
		return
	}

	update := store.ProductUpdate{
		Name:         payload.Name,
		Price:        payload.Price,
		Cost:         payload.Cost,
		Unit:         payload.Unit,
		ManageStock:  payload.ManageStock,
		MinimumStock: payload.MinimumStock,
		Image:        payload.Image,
	}
	if _, err := a.engine.UpdateProduct(ctx, productID, update); err != nil {
		writeFailure(w, r, err, "unable to update product")
		return
	}

	a.showProduct(w, r, productID)
}

func (a *API) deactivateProduct(w http.ResponseWriter, r *http.Request, productID uint) {
	if err := a.store.DeactivateProduct(r.Context(), productID); err != nil {
		writeFailure(w, r, err, "unable to deactivate product")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) productRecipe(w http.ResponseWriter, r *http.Request, productID uint) {
	if _, err := a.store.GetProduct(r.Context(), productID); err != nil {
		writeFailure(w, r, err, "unable to load product")
		return
	}
	lines, err := a.engine.RecipeLinesFor(r.Context(), productID)
	if err != nil {
		writeFailure(w, r, err, "unable to load recipe")
		return
	}
	writeJSON(w, http.StatusOK, lines)
}

func (a *API) estimateStock(w http.ResponseWriter, r *http.Request, productID uint) {
	if _, err := a.store.GetProduct(r.Context(), productID); err != nil {
		writeFailure(w, r, err, "unable to load product")
		return
	}
	estimate, err := a.engine.EstimateStock(r.Context(), productID)
	if err != nil {
		writeFailure(w, r, err, "unable to estimate stock")
		return
	}
	writeJSON(w, http.StatusOK, stockResponse{ProductID: productID, EstimatedStock: estimate})
}

func (a *API) persistEstimate(w http.ResponseWriter, r *http.Request, productID uint) {
	if _, err := a.store.GetProduct(r.Context(), productID); err != nil {
		writeFailure(w, r, err, "unable to load product")
		return
	}
	estimate, err := a.engine.PersistEstimate(r.Context(), productID)
	if err != nil {
		writeFailure(w, r, err, "unable to persist estimate")
		return
	}
	writeJSON(w, http.StatusOK, stockResponse{ProductID: productID, EstimatedStock: estimate})
}

func (a *API) recomputeCost(w http.ResponseWriter, r *http.Request, productID uint) {
	if _, err := a.store.GetProduct(r.Context(), productID); err != nil {
		writeFailure(w, r, err, "unable to load product")
		return
	}
	if err := a.engine.RecomputeCost(r.Context(), productID); err != nil {
		writeFailure(w, r, err, "unable to recompute cost")
		return
	}
	a.showProduct(w, r, productID)
}
