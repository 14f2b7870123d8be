package handlers

import (
	"net/http"
	"time"

	applog "mitsypos/internal/log"
)

type healthResponse struct {
	Status   string    `json:"status"`
	Database string    `json:"database"`
	Time     time.Time `json:"time"`
}

// Health reports readiness for load balancers and orchestrators. A database that does not answer a
// ping turns the response into 503.
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	applog.Debug(ctx, "health check requested", "method", r.Method)

	resp := healthResponse{Status: "ok", Database: "ok", Time: time.Now().UTC()}
	status := http.StatusOK

	sqlDB, err := a.store.DB().DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		applog.Warn(ctx, "database ping failed", "error", err)
		resp.Status = "degraded"
		resp.Database = "unreachable"
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, resp)
}
