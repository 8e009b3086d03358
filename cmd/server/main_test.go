package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dennisdiepolder/qoe-admin/backend/internal/config"
	"github.com/dennisdiepolder/qoe-admin/backend/internal/storage"
	"github.com/dennisdiepolder/qoe-admin/backend/internal/websocket"
	"github.com/rs/zerolog"
)

func TestHealthHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	healthHandler(rec, req)

	// Check status code
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	// Check content type
	contentType := rec.Header().Get("Content-Type")
	if contentType != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", contentType)
	}

	// Parse response body
	var response map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	// Check response fields
	if response["status"] != "ok" {
		t.Errorf("expected status ok, got %s", response["status"])
	}
	if response["service"] != "qoe-admin-backend" {
		t.Errorf("expected service qoe-admin-backend, got %s", response["service"])
	}
}

func TestHealthHandlerMethods(t *testing.T) {
	tests := []struct {
		method         string
		expectedStatus int
	}{
		{http.MethodGet, http.StatusOK},
		{http.MethodPost, http.StatusOK},    // Handler doesn't check method
		{http.MethodPut, http.StatusOK},     // Handler doesn't check method
		{http.MethodDelete, http.StatusOK},  // Handler doesn't check method
		{http.MethodOptions, http.StatusOK}, // Handler doesn't check method
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/health", nil)
			rec := httptest.NewRecorder()

			healthHandler(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
		})
	}
}

func testRouter() http.Handler {
	cfg := &config.Config{AllowedOrigins: []string{"http://localhost:5173"}}
	hub := websocket.NewHub(zerolog.New(&bytes.Buffer{}))
	return newRouter(cfg, storage.NewFixtureStore(), hub)
}

func TestRouterRequiresAuthForAPI(t *testing.T) {
	t.Setenv("SKIP_AUTH", "false")
	router := testRouter()

	for _, path := range []string{"/api/complaints/daily", "/api/reports", "/ws"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected status 401, got %d", path, rec.Code)
		}
	}
}

func TestRouterServesAPIWithSkipAuth(t *testing.T) {
	t.Setenv("SKIP_AUTH", "true")
	router := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/network/metrics/latency", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	// Dev user is an admin
	req = httptest.NewRequest(http.MethodPost, "/api/admin/seed", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected seed status 200, got %d", rec.Code)
	}
}

func TestRouterExposesMetrics(t *testing.T) {
	router := testRouter()

	// Generate at least one labelled request
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "qoe_http_requests_total") {
		t.Error("expected HTTP request counter in metrics output")
	}
}

func TestSeedFixtures(t *testing.T) {
	if err := seedFixtures(context.Background(), storage.NewFixtureStore()); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}
