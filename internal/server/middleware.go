package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	applog "mitsypos/internal/log"
)

const requestIDHeader = "X-Request-ID"

// withRequestID tags every request with an id, echoes it in the response and attaches it
// to the request context so log lines carry it.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		ctx := applog.WithAttrs(r.Context(), "request_id", id)
		started := time.Now()
		next.ServeHTTP(w, r.WithContext(ctx))
		applog.Debug(ctx, "request served",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(started).String(),
		)
	})
}
