package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dennisdiepolder/qoe-admin/backend/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics(t *testing.T) {
	m := metrics.New()

	r := chi.NewRouter()
	r.Use(Metrics(m))
	r.Get("/api/reports/{reportId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, path := range []string{"/api/reports/a", "/api/reports/b"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
	}

	got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("/api/reports/{reportId}", "404"))
	if got != 2 {
		t.Errorf("expected 2 requests recorded under the route pattern, got %v", got)
	}
}

func TestMetricsUnmatchedRoute(t *testing.T) {
	m := metrics.New()

	handler := Metrics(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/anything", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("unmatched", "200"))
	if got != 1 {
		t.Errorf("expected 1 unmatched request, got %v", got)
	}
}
