package websocket

import (
	"encoding/json"
	"sync"

	"github.com/dennisdiepolder/qoe-admin/backend/internal/metrics"
	"github.com/dennisdiepolder/qoe-admin/backend/internal/types"
	"github.com/rs/zerolog"
)

// Hub maintains the set of active clients and broadcasts snapshots to them
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Snapshots to fan out to clients
	broadcast chan *types.SnapshotMessage

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Last broadcast snapshot, sent to clients as they connect
	latest *types.SnapshotMessage

	// Mutex to protect clients map and latest
	mu sync.RWMutex

	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewHub creates a new Hub
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan *types.SnapshotMessage, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		metrics:    metrics.Get(),
		logger:     logger.With().Str("component", "hub").Logger(),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.metrics.WebSocketActiveConnections.Inc()
			total := len(h.clients)
			if h.latest != nil {
				h.sendLocked(client, h.latest)
			}
			h.mu.Unlock()

			h.logger.Info().
				Str("client_id", client.id).
				Int("total_clients", total).
				Msg("client connected")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				h.removeLocked(client)
				h.logger.Info().
					Str("client_id", client.id).
					Int("total_clients", len(h.clients)).
					Msg("client disconnected")
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			h.latest = message
			for client := range h.clients {
				h.sendLocked(client, message)
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast queues a snapshot for all connected clients
func (h *Hub) Broadcast(message *types.SnapshotMessage) {
	h.broadcast <- message
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// sendLocked filters the snapshot for the client and queues it.
// Caller must hold h.mu.
func (h *Hub) sendLocked(client *Client, message *types.SnapshotMessage) {
	data, err := json.Marshal(client.FilterMessage(message))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to marshal snapshot message")
		return
	}

	select {
	case client.send <- data:
	default:
		// Client's send buffer is full, close and remove it
		h.removeLocked(client)
		h.metrics.WebSocketDroppedTotal.Inc()
		h.logger.Warn().
			Str("client_id", client.id).
			Msg("client send buffer full, closing connection")
	}
}

// removeLocked deletes the client and closes its send channel.
// Caller must hold h.mu.
func (h *Hub) removeLocked(client *Client) {
	delete(h.clients, client)
	close(client.send)
	h.metrics.WebSocketActiveConnections.Dec()
}
