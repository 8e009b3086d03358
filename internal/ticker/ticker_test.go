package ticker

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dennisdiepolder/qoe-admin/backend/internal/metrics"
	"github.com/dennisdiepolder/qoe-admin/backend/internal/storage"
	"github.com/dennisdiepolder/qoe-admin/backend/internal/types"
	"github.com/dennisdiepolder/qoe-admin/backend/internal/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
)

type brokenStore struct {
	storage.FixtureStore
}

func (b *brokenStore) Reports(_ context.Context) ([]types.Report, error) {
	return nil, errors.New("table unavailable")
}

func TestNewTicker(t *testing.T) {
	logger := zerolog.New(&bytes.Buffer{})
	hub := websocket.NewHub(logger)
	store := storage.NewFixtureStore()
	ticker := NewTicker(hub, store, 1*time.Second, logger)

	if ticker == nil {
		t.Fatal("expected ticker to be created")
	}

	if ticker.hub != hub {
		t.Error("ticker hub not set correctly")
	}

	if ticker.interval != 1*time.Second {
		t.Errorf("expected interval 1s, got %v", ticker.interval)
	}
}

func TestTickerPublishesSnapshots(t *testing.T) {
	logger := zerolog.New(&bytes.Buffer{})
	hub := websocket.NewHub(logger)
	go hub.Run()

	published := metrics.Get().SnapshotsPublishedTotal
	before := testutil.ToFloat64(published)

	ticker := NewTicker(hub, storage.NewFixtureStore(), 50*time.Millisecond, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	done := make(chan bool)
	go func() {
		ticker.Start(ctx)
		done <- true
	}()

	<-done

	// One immediate publish plus at least one tick
	if got := testutil.ToFloat64(published) - before; got < 2 {
		t.Errorf("expected at least 2 snapshots published, got %v", got)
	}
}

func TestTickerRecordsStoreErrors(t *testing.T) {
	logger := zerolog.New(&bytes.Buffer{})
	hub := websocket.NewHub(logger)
	go hub.Run()

	errorsTotal := metrics.Get().StoreErrorsTotal.WithLabelValues("snapshot")
	before := testutil.ToFloat64(errorsTotal)

	ticker := NewTicker(hub, &brokenStore{}, time.Hour, logger)
	ticker.publish(context.Background())

	if got := testutil.ToFloat64(errorsTotal) - before; got != 1 {
		t.Errorf("expected 1 snapshot error, got %v", got)
	}
}

func TestTickerStopsOnContextCancel(t *testing.T) {
	logger := zerolog.New(&bytes.Buffer{})
	hub := websocket.NewHub(logger)
	go hub.Run()

	ticker := NewTicker(hub, storage.NewFixtureStore(), 100*time.Millisecond, logger)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan bool)
	go func() {
		ticker.Start(ctx)
		done <- true
	}()

	time.Sleep(200 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Error("ticker did not stop within timeout after context cancel")
	}
}
