package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestGetReturnsSingleton(t *testing.T) {
	if Get() != Get() {
		t.Error("expected Get to return the same instance")
	}
}

func TestCounters(t *testing.T) {
	m := New()

	m.HTTPRequestsTotal.WithLabelValues("/api/feedback", "200").Inc()
	m.HTTPRequestsTotal.WithLabelValues("/api/feedback", "200").Inc()
	m.StoreErrorsTotal.WithLabelValues("reports").Inc()
	m.SnapshotsPublishedTotal.Inc()
	m.WebSocketActiveConnections.Inc()
	m.WebSocketActiveConnections.Inc()
	m.WebSocketActiveConnections.Dec()

	if got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("/api/feedback", "200")); got != 2 {
		t.Errorf("expected 2 requests, got %v", got)
	}
	if got := testutil.ToFloat64(m.StoreErrorsTotal.WithLabelValues("reports")); got != 1 {
		t.Errorf("expected 1 store error, got %v", got)
	}
	if got := testutil.ToFloat64(m.SnapshotsPublishedTotal); got != 1 {
		t.Errorf("expected 1 snapshot, got %v", got)
	}
	if got := testutil.ToFloat64(m.WebSocketActiveConnections); got != 1 {
		t.Errorf("expected 1 active connection, got %v", got)
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.SnapshotsPublishedTotal.Inc()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "qoe_snapshots_published_total 1") {
		t.Errorf("expected snapshot counter in output, got:\n%s", body)
	}
}
