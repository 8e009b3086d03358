package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dennisdiepolder/qoe-admin/backend/internal/metrics"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Metrics records request counts and latencies per route pattern
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			// Route patterns keep label cardinality bounded
			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}

			m.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
			m.HTTPRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		})
	}
}
