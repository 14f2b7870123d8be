package server

import (
	"context"
	"net/http"

	"mitsypos/internal/handlers"
	applog "mitsypos/internal/log"
)

func newRouter(api *handlers.API) http.Handler {
	mux := http.NewServeMux()
	applog.Debug(context.Background(), "registering http routes")

	routes := []struct {
		path    string
		handler http.HandlerFunc
	}{
		{path: "/healthz", handler: api.Health},
		{path: "/api/products", handler: api.Products},
		{path: "/api/products/", handler: api.Products},
		{path: "/api/ingredients", handler: api.Ingredients},
		{path: "/api/ingredients/", handler: api.Ingredients},
		{path: "/api/recipes", handler: api.Recipes},
		{path: "/api/recipes/", handler: api.Recipes},
		{path: "/api/sales", handler: api.Sales},
		{path: "/api/pending-orders", handler: api.PendingOrders},
		{path: "/api/pending-orders/", handler: api.PendingOrders},
		{path: "/api/stock/recompute", handler: api.RecomputeStock},
		{path: "/api/settings/stock-management", handler: api.StockManagement},
	}
	for _, route := range routes {
		mux.HandleFunc(route.path, route.handler)
		applog.Debug(context.Background(), "route registered", "path", route.path)
	}
	return mux
}
