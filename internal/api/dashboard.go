package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dennisdiepolder/qoe-admin/backend/internal/auth"
	"github.com/dennisdiepolder/qoe-admin/backend/internal/metrics"
	"github.com/dennisdiepolder/qoe-admin/backend/internal/snapshot"
	"github.com/dennisdiepolder/qoe-admin/backend/internal/storage"
	"github.com/dennisdiepolder/qoe-admin/backend/internal/types"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// DashboardHandler provides REST endpoints for the dashboard datasets
type DashboardHandler struct {
	store  storage.Store
	logger zerolog.Logger
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(store storage.Store, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		store:  store,
		logger: logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// Routes registers the dashboard endpoints
func (h *DashboardHandler) Routes(r chi.Router) {
	r.Get("/complaints/daily", h.GetComplaintsByDay)
	r.Get("/network/metrics", h.GetNetworkMetrics)
	r.Get("/network/metrics/{category}", h.GetNetworkMetric)
	r.Get("/locations", h.GetLocations)
	r.Get("/feedback", h.GetFeedback)
	r.Get("/reports", h.ListReports)
	r.Get("/reports/{reportId}", h.GetReport)
	r.Get("/snapshot", h.GetSnapshot)
}

// GetComplaintsByDay returns the daily complaint counts
// GET /api/complaints/daily
func (h *DashboardHandler) GetComplaintsByDay(w http.ResponseWriter, r *http.Request) {
	days, err := h.store.ComplaintsByDay(r.Context())
	if err != nil {
		h.storeError(w, "complaints", err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, days)
}

// GetNetworkMetrics returns all network metric summaries
// GET /api/network/metrics
func (h *DashboardHandler) GetNetworkMetrics(w http.ResponseWriter, r *http.Request) {
	m, err := h.store.NetworkMetrics(r.Context())
	if err != nil {
		h.storeError(w, "network_metrics", err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, m)
}

// GetNetworkMetric returns the summary of a single metric category
// GET /api/network/metrics/{category}
func (h *DashboardHandler) GetNetworkMetric(w http.ResponseWriter, r *http.Request) {
	category := types.MetricCategory(chi.URLParam(r, "category"))

	m, err := h.store.NetworkMetrics(r.Context())
	if err != nil {
		h.storeError(w, "network_metrics", err)
		return
	}

	metric, ok := m.Category(category)
	if !ok {
		writeError(w, h.logger, http.StatusNotFound, "unknown metric category: "+string(category))
		return
	}

	writeJSON(w, h.logger, http.StatusOK, metric)
}

// GetLocations returns the complaint breakdown for the regions the caller may see
// GET /api/locations
func (h *DashboardHandler) GetLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.store.Locations(r.Context())
	if err != nil {
		h.storeError(w, "locations", err)
		return
	}

	claims, _ := auth.GetUserFromContext(r.Context())
	writeJSON(w, h.logger, http.StatusOK, claims.FilterLocations(locations))
}

// GetFeedback returns the feedback summary
// GET /api/feedback
func (h *DashboardHandler) GetFeedback(w http.ResponseWriter, r *http.Request) {
	fb, err := h.store.Feedback(r.Context())
	if err != nil {
		h.storeError(w, "feedback", err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, fb)
}

// ListReports returns reports, optionally filtered by type
// GET /api/reports?type=network
func (h *DashboardHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.store.Reports(r.Context())
	if err != nil {
		h.storeError(w, "reports", err)
		return
	}

	if reportType := r.URL.Query().Get("type"); reportType != "" {
		filtered := make([]types.Report, 0, len(reports))
		for _, report := range reports {
			if report.Type == types.ReportType(reportType) {
				filtered = append(filtered, report)
			}
		}
		reports = filtered
	}

	if reports == nil {
		reports = []types.Report{}
	}

	writeJSON(w, h.logger, http.StatusOK, reports)
}

// GetReport returns a single report
// GET /api/reports/{reportId}
func (h *DashboardHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "reportId")
	if reportID == "" {
		writeError(w, h.logger, http.StatusBadRequest, "reportId is required")
		return
	}

	report, err := h.store.Report(r.Context(), reportID)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, h.logger, http.StatusNotFound, "report not found: "+reportID)
		return
	}
	if err != nil {
		h.storeError(w, "report", err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, report)
}

// GetSnapshot returns every dataset in one document
// GET /api/snapshot?format=json|yaml
func (h *DashboardHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	format, err := snapshot.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := storage.BuildSnapshot(r.Context(), h.store)
	if err != nil {
		h.storeError(w, "snapshot", err)
		return
	}

	claims, _ := auth.GetUserFromContext(r.Context())
	snap.Locations = claims.FilterLocations(snap.Locations)

	w.Header().Set("Content-Type", format.ContentType())
	if err := snapshot.Encode(w, snap, format); err != nil {
		h.logger.Error().Err(err).Msg("failed to write snapshot")
	}
}

func (h *DashboardHandler) storeError(w http.ResponseWriter, operation string, err error) {
	h.logger.Error().Err(err).Str("operation", operation).Msg("store read failed")
	metrics.Get().StoreErrorsTotal.WithLabelValues(operation).Inc()
	writeError(w, h.logger, http.StatusInternalServerError, "failed to load "+operation)
}

func writeJSON(w http.ResponseWriter, logger zerolog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error().Err(err).Int("status", status).Msg("failed to write response")
	}
}

func writeError(w http.ResponseWriter, logger zerolog.Logger, status int, msg string) {
	writeJSON(w, logger, status, map[string]string{"error": msg})
}
