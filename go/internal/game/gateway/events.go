package gateway

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/quizroom/go/internal/game/events"
)

// RoomEvent is the envelope of every frame sent to clients
type RoomEvent struct {
	ID        string           `json:"id"`                // Event UUID
	Type      events.EventType `json:"type"`              // Event type
	RoomID    string           `json:"room_id,omitempty"` // Empty for direct sends
	Timestamp time.Time        `json:"timestamp"`         // Event creation time
	Data      json.RawMessage  `json:"data"`              // Event-specific payload
}

// ClientMessage is the envelope of every frame received from clients
type ClientMessage struct {
	Type events.EventType `json:"type"`
	Data json.RawMessage  `json:"data"`
}

// NewRoomEvent wraps an event in its wire envelope
func NewRoomEvent(roomID string, event events.Event, now time.Time) (*RoomEvent, error) {
	data, err := json.Marshal(event.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", event.Type, err)
	}
	return &RoomEvent{
		ID:        uuid.NewString(),
		Type:      event.Type,
		RoomID:    roomID,
		Timestamp: now.UTC(),
		Data:      data,
	}, nil
}
