package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/quizroom/go/internal/game/events"
	"github.com/mcdev12/quizroom/go/internal/models"
	"github.com/mcdev12/quizroom/go/internal/rooms"
	"github.com/mcdev12/quizroom/go/internal/users"
	"github.com/rs/zerolog/log"
)

//go:generate mockgen -destination=../../mocks/mock_orchestrator.go -package=mocks github.com/mcdev12/quizroom/go/internal/game/orchestrator Broadcaster,UsersApp

// Clock is the interface we use for time operations.
// In production, use clockwork.NewRealClock(). In tests, a FakeClock.
type Clock interface {
	Now() time.Time
	NewTimer(d time.Duration) clockwork.Timer
	NewTicker(d time.Duration) clockwork.Ticker
}

// Broadcaster delivers events to client connections. Calls for one room must
// be delivered in the order they are made.
type Broadcaster interface {
	SendTo(connID string, event events.Event)
	BroadcastToRoom(roomID string, event events.Event)
	Subscribe(connID, roomID string)
	// DropRoom forgets a room's audience after the events already sent to it
	DropRoom(roomID string)
}

// UsersApp defines what the orchestrator needs from the user ledger
type UsersApp interface {
	GetUser(ctx context.Context, username string) (*models.User, error)
	EnsureUser(ctx context.Context, username string) (*models.User, error)
	DebitIfSufficient(ctx context.Context, username string, amount int) (*models.User, error)
	Credit(ctx context.Context, username string, amount int) (*models.User, error)
}

// Orchestrator is the room state machine. Every mutation of a room happens
// while holding that room's lock, whether it comes from a client event or a
// round timer.
type Orchestrator struct {
	users       UsersApp
	rooms       *rooms.Registry
	broadcaster Broadcaster
	mode        models.RoomMode
	settings    Settings
	clock       Clock
	validate    *validator.Validate

	// timers derive from ctx so Shutdown stops every one of them
	ctx    context.Context
	cancel context.CancelFunc

	activeTimers   map[string]*roundTimer
	activeTimersMu sync.Mutex
}

// NewOrchestrator creates a room state machine for rooms of the given mode
func NewOrchestrator(usersApp UsersApp, registry *rooms.Registry, broadcaster Broadcaster, mode models.RoomMode, settings Settings, clock Clock) *Orchestrator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Orchestrator{
		users:        usersApp,
		rooms:        registry,
		broadcaster:  broadcaster,
		mode:         mode,
		settings:     settings,
		clock:        clock,
		validate:     newValidator(),
		ctx:          ctx,
		cancel:       cancel,
		activeTimers: make(map[string]*roundTimer),
	}
}

// Mode returns the game this deployment runs
func (o *Orchestrator) Mode() models.RoomMode {
	return o.mode
}

// HandleClientEvent decodes an inbound event and routes it to the matching
// operation. A failure is reported to connID only, never to the room, and is
// also returned to the caller.
func (o *Orchestrator) HandleClientEvent(ctx context.Context, connID string, eventType events.EventType, data json.RawMessage) error {
	log.Debug().
		Str("connection_id", connID).
		Str("event_type", string(eventType)).
		Msg("handling client event")

	var err error
	switch eventType {
	case events.CreateRoom:
		var req CreateRoomRequest
		if err = o.decode(data, &req); err == nil {
			_, err = o.CreateRoom(ctx, connID, req)
		}

	case events.JoinRoom:
		var req JoinRoomRequest
		if err = o.decode(data, &req); err == nil {
			err = o.JoinRoom(ctx, connID, req)
		}

	case events.StartQuiz:
		var req StartQuizRequest
		if err = o.decode(data, &req); err == nil {
			err = o.StartQuiz(ctx, connID, req)
		}

	case events.SubmitAnswer:
		var req SubmitAnswerRequest
		if err = o.decode(data, &req); err == nil {
			err = o.SubmitAnswer(ctx, connID, req)
		}

	case events.DeclareWinner:
		var req DeclareWinnerRequest
		if err = o.decode(data, &req); err == nil {
			err = o.DeclareWinner(ctx, connID, req)
		}

	default:
		log.Warn().
			Str("event_type", string(eventType)).
			Str("connection_id", connID).
			Msg("unknown event type - ignoring")
		err = invalidPayload("Unknown event", fmt.Errorf("event type %q", eventType))
	}

	if err != nil {
		o.replyError(connID, err)
	}
	return err
}

// ConnectionClosed is called once a client connection is gone. Membership and
// balances are kept; the gateway drops the connection's subscriptions.
func (o *Orchestrator) ConnectionClosed(connID string) {
	log.Info().Str("connection_id", connID).Msg("user disconnected")
}

// Shutdown stops every running round timer. Once it returns no timer
// callback mutates a room or broadcasts.
func (o *Orchestrator) Shutdown() {
	o.cancel()

	// callbacks already inside a room finish before the lock is handed over
	for _, room := range o.rooms.Rooms() {
		room.Lock()
		o.cancelTimer(room)
		room.Unlock()
	}

	o.activeTimersMu.Lock()
	defer o.activeTimersMu.Unlock()
	for roomID, t := range o.activeTimers {
		t.Cancel()
		delete(o.activeTimers, roomID)
	}
	log.Info().Msg("orchestrator timers stopped")
}

func (o *Orchestrator) decode(data json.RawMessage, into any) error {
	if len(data) == 0 {
		data = json.RawMessage("{}")
	}
	if err := json.Unmarshal(data, into); err != nil {
		return invalidPayload("Malformed payload", err)
	}
	if err := o.validate.Struct(into); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return invalidPayload("Missing or invalid "+verrs[0].Field(), err)
		}
		return invalidPayload("Invalid payload", err)
	}
	return nil
}

// newValidator reports fields by their JSON names
func newValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return validate
}

func (o *Orchestrator) replyError(connID string, err error) {
	if connID == "" {
		return
	}
	o.broadcaster.SendTo(connID, events.New(events.Error, events.ErrorPayload{Message: errorMessage(err)}))
}

// errorMessage turns an error into the text shown to players
func errorMessage(err error) string {
	var perr *payloadError
	switch {
	case errors.Is(err, rooms.ErrRoomNotFound):
		return "Room not found"
	case errors.Is(err, users.ErrInsufficientBalance):
		return "Not enough points"
	case errors.Is(err, users.ErrUserNotFound):
		return "Winner not found"
	case errors.Is(err, ErrNotMember):
		return "You are not in this room"
	case errors.As(err, &perr):
		return perr.message
	case errors.Is(err, ErrInvalidPayload):
		return "Invalid payload"
	case errors.Is(err, ErrInvalidState):
		return err.Error()
	default:
		return "Something went wrong"
	}
}

// newRoomID returns a fresh "room-" id with nine random characters
func newRoomID() string {
	return "room-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
}

func (o *Orchestrator) inviteLink(roomID string) string {
	return fmt.Sprintf("%s/join?roomID=%s", strings.TrimRight(o.settings.InviteBaseURL, "/"), roomID)
}
