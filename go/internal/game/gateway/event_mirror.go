package gateway

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mcdev12/quizroom/go/internal/game/events"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

const mirrorSubjectPrefix = "rooms.events"

// Broadcaster delivers events to client connections
type Broadcaster interface {
	SendTo(connID string, event events.Event)
	BroadcastToRoom(roomID string, event events.Event)
	Subscribe(connID, roomID string)
	DropRoom(roomID string)
}

// Publisher is the part of a NATS connection the mirror uses
type Publisher interface {
	Publish(subj string, data []byte) error
}

// EventMirror publishes every room broadcast to NATS on top of delivering it
// to clients. Direct sends are not mirrored.
type EventMirror struct {
	Broadcaster
	publisher Publisher
}

// NewEventMirror wraps next so room broadcasts are also published
func NewEventMirror(next Broadcaster, publisher Publisher) *EventMirror {
	return &EventMirror{
		Broadcaster: next,
		publisher:   publisher,
	}
}

// BroadcastToRoom delivers the event to clients, then publishes it to
// rooms.events.<roomID>. Publish failures are logged and never reach clients.
func (m *EventMirror) BroadcastToRoom(roomID string, event events.Event) {
	m.Broadcaster.BroadcastToRoom(roomID, event)

	roomEvent, err := NewRoomEvent(roomID, event, time.Now())
	if err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("failed to build mirrored event")
		return
	}
	data, err := json.Marshal(roomEvent)
	if err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("failed to marshal mirrored event")
		return
	}

	subject := MirrorSubject(roomID)
	if err := m.publisher.Publish(subject, data); err != nil {
		log.Error().
			Err(err).
			Str("subject", subject).
			Str("event_type", string(event.Type)).
			Msg("failed to publish room event")
	}
}

// MirrorSubject is the NATS subject for a room's events
func MirrorSubject(roomID string) string {
	return fmt.Sprintf("%s.%s", mirrorSubjectPrefix, roomID)
}

// ConnectNATS dials NATS for the event mirror, reconnecting forever
func ConnectNATS(url string) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name("quizroom-event-mirror"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return nc, nil
}
