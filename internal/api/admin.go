package api

import (
	"net/http"

	"github.com/dennisdiepolder/qoe-admin/backend/internal/auth"
	"github.com/dennisdiepolder/qoe-admin/backend/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// AdminHandler handles maintenance operations on the dashboard store
type AdminHandler struct {
	store  storage.Store
	logger zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(store storage.Store, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		store:  store,
		logger: logger.With().Str("component", "admin_handler").Logger(),
	}
}

// Routes registers the admin endpoints behind the admin role check
func (h *AdminHandler) Routes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(auth.RoleAdmin))
		r.Post("/seed", h.Seed)
	})
}

// Seed replaces the store contents with the sample datasets
// POST /api/admin/seed
func (h *AdminHandler) Seed(w http.ResponseWriter, r *http.Request) {
	snap, err := storage.BuildSnapshot(r.Context(), storage.NewFixtureStore())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load fixtures")
		writeError(w, h.logger, http.StatusInternalServerError, "failed to load fixtures")
		return
	}

	if err := h.store.Seed(r.Context(), snap); err != nil {
		h.logger.Error().Err(err).Msg("failed to seed store")
		writeError(w, h.logger, http.StatusInternalServerError, "failed to seed store")
		return
	}

	h.logger.Info().
		Int("complaint_days", len(snap.ComplaintsByDay)).
		Int("locations", len(snap.Locations)).
		Int("reports", len(snap.Reports)).
		Msg("store seeded from fixtures")

	writeJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message":       "store seeded",
		"complaintDays": len(snap.ComplaintsByDay),
		"locations":     len(snap.Locations),
		"reports":       len(snap.Reports),
	})
}
