package types

import "time"

// SnapshotMessage is pushed to dashboard clients over the websocket
type SnapshotMessage struct {
	Type      string    `json:"type"` // always "snapshot"
	Timestamp time.Time `json:"timestamp"`
	Snapshot  *Snapshot `json:"snapshot"`
}

// NewSnapshotMessage wraps a snapshot for broadcast
func NewSnapshotMessage(s *Snapshot) SnapshotMessage {
	return SnapshotMessage{
		Type:      "snapshot",
		Timestamp: s.GeneratedAt,
		Snapshot:  s,
	}
}
