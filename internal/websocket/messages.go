package websocket

import (
	"time"

	"github.com/google/uuid"
)

// EventMessage is the envelope broadcast to every connected client.
// Type is one of the domain event names; the payload type per event is
// a contract with the frontend.
type EventMessage struct {
	Type      string `json:"type"`
	Payload   any    `json:"payload,omitempty"`
	Timestamp string `json:"timestamp"`
	MessageID string `json:"message_id"`
}

// NewEventMessage stamps an event with a fresh id and the current time.
func NewEventMessage(event string, payload any) EventMessage {
	return EventMessage{
		Type:      event,
		Payload:   payload,
		Timestamp: time.Now().Format(time.RFC3339),
		MessageID: uuid.NewString(),
	}
}

// ClientMessage is the only inbound frame clients send: keepalive pings.
type ClientMessage struct {
	Type string `json:"type"`
	Data string `json:"data,omitempty"`
}

// PongMessage answers a client ping.
type PongMessage struct {
	Type      string `json:"type"`
	Data      string `json:"data,omitempty"`
	Timestamp string `json:"timestamp"`
}

// NewPongMessage creates a pong response.
func NewPongMessage(data string) PongMessage {
	return PongMessage{
		Type:      "pong",
		Data:      data,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}
