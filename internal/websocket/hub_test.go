package websocket

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/dennisdiepolder/qoe-admin/backend/internal/auth"
	"github.com/dennisdiepolder/qoe-admin/backend/internal/mockdata"
	"github.com/dennisdiepolder/qoe-admin/backend/internal/types"
	"github.com/rs/zerolog"
)

func testMessage() *types.SnapshotMessage {
	return &types.SnapshotMessage{
		Type:      "snapshot",
		Timestamp: time.Date(2024, 6, 2, 10, 30, 0, 0, time.UTC),
		Snapshot: &types.Snapshot{
			ComplaintsByDay: mockdata.ComplaintsByDay(),
			NetworkMetrics:  mockdata.NetworkMetrics(),
			Locations:       mockdata.Locations(),
			Feedback:        mockdata.Feedback(),
			Reports:         mockdata.Reports(),
		},
	}
}

func receive(t *testing.T, client *Client) types.SnapshotMessage {
	t.Helper()

	select {
	case data := <-client.send:
		var msg types.SnapshotMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("failed to decode message: %v", err)
		}
		return msg
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("client %s did not receive message", client.id)
	}
	return types.SnapshotMessage{}
}

func TestNewHub(t *testing.T) {
	logger := zerolog.New(&bytes.Buffer{})
	hub := NewHub(logger)

	if hub == nil {
		t.Fatal("expected hub to be created")
	}

	if hub.clients == nil {
		t.Error("expected clients map to be initialized")
	}

	if hub.broadcast == nil {
		t.Error("expected broadcast channel to be initialized")
	}

	if hub.register == nil || hub.unregister == nil {
		t.Error("expected register channels to be initialized")
	}
}

func TestHubClientCount(t *testing.T) {
	logger := zerolog.New(&bytes.Buffer{})
	hub := NewHub(logger)

	if hub.ClientCount() != 0 {
		t.Errorf("expected 0 clients, got %d", hub.ClientCount())
	}

	hub.mu.Lock()
	hub.clients[&Client{id: "test1"}] = true
	hub.clients[&Client{id: "test2"}] = true
	hub.mu.Unlock()

	if hub.ClientCount() != 2 {
		t.Errorf("expected 2 clients, got %d", hub.ClientCount())
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	logger := zerolog.New(&bytes.Buffer{})
	hub := NewHub(logger)
	go hub.Run()

	client := &Client{
		id:   "test-client",
		hub:  hub,
		send: make(chan []byte, 1),
	}

	hub.register <- client
	time.Sleep(10 * time.Millisecond)

	if hub.ClientCount() != 1 {
		t.Errorf("expected 1 client after register, got %d", hub.ClientCount())
	}

	hub.unregister <- client
	time.Sleep(10 * time.Millisecond)

	if hub.ClientCount() != 0 {
		t.Errorf("expected 0 clients after unregister, got %d", hub.ClientCount())
	}

	if _, ok := <-client.send; ok {
		t.Error("expected send channel to be closed")
	}
}

func TestHubBroadcastToMultipleClients(t *testing.T) {
	logger := zerolog.New(&bytes.Buffer{})
	hub := NewHub(logger)
	go hub.Run()

	client1 := &Client{id: "client1", hub: hub, send: make(chan []byte, 10)}
	client2 := &Client{id: "client2", hub: hub, send: make(chan []byte, 10)}

	hub.register <- client1
	hub.register <- client2
	time.Sleep(10 * time.Millisecond)

	hub.Broadcast(testMessage())

	for _, c := range []*Client{client1, client2} {
		msg := receive(t, c)
		if msg.Type != "snapshot" {
			t.Errorf("%s: expected type snapshot, got %s", c.id, msg.Type)
		}
		if msg.Snapshot == nil || len(msg.Snapshot.Reports) != 5 {
			t.Errorf("%s: expected 5 reports in snapshot", c.id)
		}
	}
}

func TestHubSendsLatestOnRegister(t *testing.T) {
	logger := zerolog.New(&bytes.Buffer{})
	hub := NewHub(logger)
	go hub.Run()

	hub.Broadcast(testMessage())
	time.Sleep(10 * time.Millisecond)

	late := &Client{id: "late", hub: hub, send: make(chan []byte, 1)}
	hub.register <- late

	msg := receive(t, late)
	if msg.Snapshot == nil || len(msg.Snapshot.ComplaintsByDay) != 7 {
		t.Error("expected late client to receive the latest snapshot")
	}
}

func TestHubFiltersLocationsPerClient(t *testing.T) {
	logger := zerolog.New(&bytes.Buffer{})
	hub := NewHub(logger)
	go hub.Run()

	admin := &Client{id: "admin", hub: hub, send: make(chan []byte, 1), claims: auth.DevClaims()}
	analyst := &Client{
		id:   "analyst",
		hub:  hub,
		send: make(chan []byte, 1),
		claims: &auth.Claims{
			Role:           auth.RoleAnalyst,
			AllowedRegions: []types.Region{types.RegionDouala, types.RegionGaroua},
		},
	}

	hub.register <- admin
	hub.register <- analyst
	time.Sleep(10 * time.Millisecond)

	original := testMessage()
	hub.Broadcast(original)

	if got := receive(t, admin); len(got.Snapshot.Locations) != 6 {
		t.Errorf("expected admin to see 6 locations, got %d", len(got.Snapshot.Locations))
	}

	got := receive(t, analyst)
	if len(got.Snapshot.Locations) != 2 {
		t.Fatalf("expected analyst to see 2 locations, got %d", len(got.Snapshot.Locations))
	}
	if got.Snapshot.Locations[0].Name != types.RegionDouala || got.Snapshot.Locations[1].Name != types.RegionGaroua {
		t.Errorf("unexpected locations: %v", got.Snapshot.Locations)
	}

	if len(original.Snapshot.Locations) != 6 {
		t.Error("filtering modified the broadcast message")
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	logger := zerolog.New(&bytes.Buffer{})
	hub := NewHub(logger)
	go hub.Run()

	slow := &Client{id: "slow", hub: hub, send: make(chan []byte)}
	hub.register <- slow
	time.Sleep(10 * time.Millisecond)

	hub.Broadcast(testMessage())
	time.Sleep(10 * time.Millisecond)

	if hub.ClientCount() != 0 {
		t.Errorf("expected slow client to be dropped, got %d clients", hub.ClientCount())
	}
}
