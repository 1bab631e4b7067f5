package hub

import (
	"encoding/json"
	"time"
)

// WSMessage is a message sent from the inspector server to its clients.
type WSMessage struct {
	Type        string          `json:"type"`                  // "state", "nav" or "connection"
	Seq         int64           `json:"seq"`                   // sequence number for ordering
	Timestamp   int64           `json:"timestamp"`             // unix milliseconds
	Controllers json.RawMessage `json:"controllers,omitempty"` // full controller list for "state"
	Event       string          `json:"event,omitempty"`       // callback name for "nav"
	Direction   string          `json:"direction,omitempty"`   // direction for "nav" navigate events
	Controller  json.RawMessage `json:"controller,omitempty"`  // controller for "connection"
	Connected   *bool           `json:"connected,omitempty"`   // transition for "connection"
}

// NewStateMessage wraps a marshaled controller list.
func NewStateMessage(seq int64, controllers json.RawMessage) *WSMessage {
	return &WSMessage{
		Type:        "state",
		Seq:         seq,
		Timestamp:   time.Now().UnixMilli(),
		Controllers: controllers,
	}
}

// NewNavMessage describes one coordinator callback firing.
func NewNavMessage(seq int64, event, direction string) *WSMessage {
	return &WSMessage{
		Type:      "nav",
		Seq:       seq,
		Timestamp: time.Now().UnixMilli(),
		Event:     event,
		Direction: direction,
	}
}

// NewConnectionMessage describes a connect or disconnect transition.
func NewConnectionMessage(seq int64, controller json.RawMessage, connected bool) *WSMessage {
	return &WSMessage{
		Type:       "connection",
		Seq:        seq,
		Timestamp:  time.Now().UnixMilli(),
		Controller: controller,
		Connected:  &connected,
	}
}
