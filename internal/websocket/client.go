package websocket

import (
	"time"

	"github.com/dennisdiepolder/qoe-admin/backend/internal/auth"
	"github.com/dennisdiepolder/qoe-admin/backend/internal/config"
	"github.com/dennisdiepolder/qoe-admin/backend/internal/types"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Client is a middleman between the websocket connection and the hub
type Client struct {
	// Unique client ID
	id string

	// The hub this client belongs to
	hub *Hub

	// The websocket connection
	conn *websocket.Conn

	// Buffered channel of outbound messages
	send chan []byte

	// Configuration
	config *config.Config

	// Logger
	logger zerolog.Logger

	// User claims with allowed regions for location filtering
	claims *auth.Claims
}

// NewClient creates a new Client
func NewClient(hub *Hub, conn *websocket.Conn, cfg *config.Config, logger zerolog.Logger, claims *auth.Claims) *Client {
	clientID := uuid.New().String()
	return &Client{
		id:     clientID,
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 16),
		config: cfg,
		logger: logger.With().Str("client_id", clientID).Logger(),
		claims: claims,
	}
}

// readPump pumps messages from the websocket connection to the hub
//
// The application runs readPump in a per-connection goroutine. The application
// ensures that there is at most one reader on a connection by executing all
// reads from this goroutine.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error().Err(err).Msg("websocket read error")
			}
			break
		}
		// Dashboards only listen; inbound frames are ignored
		c.logger.Debug().Int("bytes", len(message)).Msg("ignoring message from client")
	}
}

// writePump pumps messages from the hub to the websocket connection
//
// A goroutine running writePump is started for each connection. The
// application ensures that there is at most one writer to a connection by
// executing all writes from this goroutine.
func (c *Client) writePump() {
	ticker := time.NewTicker(c.config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// One snapshot per frame
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Debug().Err(err).Msg("websocket write failed")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Start starts the client's read and write pumps
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

// FilterMessage returns the message with locations limited to the
// client's allowed regions. The original message is never modified.
func (c *Client) FilterMessage(message *types.SnapshotMessage) *types.SnapshotMessage {
	if c.claims == nil || message.Snapshot == nil {
		return message
	}

	// Admins see every region
	if len(c.claims.AllowedRegions) == len(types.AllRegions) {
		return message
	}

	snapshot := *message.Snapshot
	snapshot.Locations = c.claims.FilterLocations(message.Snapshot.Locations)

	filtered := *message
	filtered.Snapshot = &snapshot
	return &filtered
}
