package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dennisdiepolder/qoe-admin/backend/internal/api"
	"github.com/dennisdiepolder/qoe-admin/backend/internal/auth"
	"github.com/dennisdiepolder/qoe-admin/backend/internal/config"
	"github.com/dennisdiepolder/qoe-admin/backend/internal/metrics"
	"github.com/dennisdiepolder/qoe-admin/backend/internal/storage"
	"github.com/dennisdiepolder/qoe-admin/backend/internal/ticker"
	"github.com/dennisdiepolder/qoe-admin/backend/internal/websocket"
	"github.com/dennisdiepolder/qoe-admin/backend/pkg/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Configure logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("invalid log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("log_level", cfg.LogLevel).
		Dur("snapshot_interval", cfg.SnapshotInterval).
		Msg("starting QoE admin backend server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := storage.NewStore(ctx, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize store")
	}

	if storage.LoadDynamoConfig().SeedOnStart {
		if err := seedFixtures(ctx, store); err != nil {
			log.Fatal().Err(err).Msg("failed to seed store")
		}
		log.Info().Msg("store seeded from fixtures")
	}

	hub := websocket.NewHub(log.Logger)
	go hub.Run()

	snapshotTicker := ticker.NewTicker(hub, store, cfg.SnapshotInterval, log.Logger)
	go snapshotTicker.Start(ctx)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      newRouter(cfg, store, hub),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Msgf("server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Stop the snapshot ticker
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// newRouter wires middleware and routes
func newRouter(cfg *config.Config, store storage.Store, hub *websocket.Hub) http.Handler {
	m := metrics.Get()

	wsHandler := websocket.NewHandler(hub, cfg, log.Logger)
	dashboardHandler := api.NewDashboardHandler(store, log.Logger)
	adminHandler := api.NewAdminHandler(store, log.Logger)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log.Logger))
	r.Use(middleware.Metrics(m))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Public routes
	r.Get("/health", healthHandler)
	r.Handle("/metrics", m.Handler())

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware)
		r.Get("/ws", wsHandler.ServeHTTP)

		r.Route("/api", func(r chi.Router) {
			dashboardHandler.Routes(r)
			r.Route("/admin", adminHandler.Routes)
		})
	})

	return r
}

// seedFixtures loads the sample datasets into the store
func seedFixtures(ctx context.Context, store storage.Store) error {
	snap, err := storage.BuildSnapshot(ctx, storage.NewFixtureStore())
	if err != nil {
		return err
	}
	return store.Seed(ctx, snap)
}

// healthHandler handles health check requests
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok","service":"qoe-admin-backend"}`)
}
