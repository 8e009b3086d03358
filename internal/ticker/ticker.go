package ticker

import (
	"context"
	"time"

	"github.com/dennisdiepolder/qoe-admin/backend/internal/metrics"
	"github.com/dennisdiepolder/qoe-admin/backend/internal/storage"
	"github.com/dennisdiepolder/qoe-admin/backend/internal/types"
	"github.com/dennisdiepolder/qoe-admin/backend/internal/websocket"
	"github.com/rs/zerolog"
)

// Ticker periodically broadcasts dashboard snapshots to the hub
type Ticker struct {
	hub      *websocket.Hub
	store    storage.Store
	interval time.Duration
	logger   zerolog.Logger
}

// NewTicker creates a new Ticker
func NewTicker(hub *websocket.Hub, store storage.Store, interval time.Duration, logger zerolog.Logger) *Ticker {
	return &Ticker{
		hub:      hub,
		store:    store,
		interval: interval,
		logger:   logger.With().Str("component", "ticker").Logger(),
	}
}

// Start publishes a snapshot right away and then once per interval
func (t *Ticker) Start(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.logger.Info().Dur("interval", t.interval).Msg("ticker started")
	t.publish(ctx)

	for {
		select {
		case <-ctx.Done():
			t.logger.Info().Msg("ticker stopped")
			return

		case <-ticker.C:
			t.publish(ctx)
		}
	}
}

func (t *Ticker) publish(ctx context.Context) {
	m := metrics.Get()

	snapshot, err := storage.BuildSnapshot(ctx, t.store)
	if err != nil {
		t.logger.Error().Err(err).Msg("failed to build snapshot")
		m.StoreErrorsTotal.WithLabelValues("snapshot").Inc()
		return
	}

	message := types.NewSnapshotMessage(snapshot)
	t.hub.Broadcast(&message)
	m.SnapshotsPublishedTotal.Inc()

	t.logger.Debug().
		Time("generated_at", snapshot.GeneratedAt).
		Int("clients", t.hub.ClientCount()).
		Msg("broadcasted snapshot")
}
