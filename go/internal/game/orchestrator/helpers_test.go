package orchestrator

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/quizroom/go/internal/game/events"
	"github.com/mcdev12/quizroom/go/internal/models"
	"github.com/mcdev12/quizroom/go/internal/rooms"
	"github.com/mcdev12/quizroom/go/internal/users"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = time.Second
	tick    = 5 * time.Millisecond
)

type delivery struct {
	connID string
	roomID string
	event  events.Event
}

// recordingBroadcaster keeps every delivery in call order
type recordingBroadcaster struct {
	mu         sync.Mutex
	deliveries []delivery
	subs       map[string][]string
	dropped    []string
}

func newRecordingBroadcaster() *recordingBroadcaster {
	return &recordingBroadcaster{subs: make(map[string][]string)}
}

func (b *recordingBroadcaster) SendTo(connID string, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deliveries = append(b.deliveries, delivery{connID: connID, event: event})
}

func (b *recordingBroadcaster) BroadcastToRoom(roomID string, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deliveries = append(b.deliveries, delivery{roomID: roomID, event: event})
}

func (b *recordingBroadcaster) Subscribe(connID, roomID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[roomID] = append(b.subs[roomID], connID)
}

func (b *recordingBroadcaster) DropRoom(roomID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dropped = append(b.dropped, roomID)
}

func (b *recordingBroadcaster) droppedRooms() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.dropped...)
}

// roomEvents returns the events broadcast to roomID so far
func (b *recordingBroadcaster) roomEvents(roomID string) []events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []events.Event
	for _, d := range b.deliveries {
		if d.roomID == roomID {
			out = append(out, d.event)
		}
	}
	return out
}

// connEvents returns the events sent directly to connID so far
func (b *recordingBroadcaster) connEvents(connID string) []events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []events.Event
	for _, d := range b.deliveries {
		if d.connID == connID {
			out = append(out, d.event)
		}
	}
	return out
}

func (b *recordingBroadcaster) subscribers(roomID string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.subs[roomID]...)
}

type fixture struct {
	orch     *Orchestrator
	users    *users.App
	registry *rooms.Registry
	bc       *recordingBroadcaster
	clock    *clockwork.FakeClock
	settings Settings
}

func newFixture(t *testing.T, mode models.RoomMode, opts ...func(*Settings)) *fixture {
	t.Helper()
	settings := DefaultSettings()
	for _, opt := range opts {
		opt(&settings)
	}

	clock := clockwork.NewFakeClock()
	usersApp := users.NewApp(users.NewRepository(), settings.Balances)
	registry := rooms.NewRegistry()
	bc := newRecordingBroadcaster()
	orch := NewOrchestrator(usersApp, registry, bc, mode, settings, clock)
	t.Cleanup(orch.Shutdown)

	return &fixture{
		orch:     orch,
		users:    usersApp,
		registry: registry,
		bc:       bc,
		clock:    clock,
		settings: settings,
	}
}

// send dispatches a client event the way the gateway does
func (f *fixture) send(t *testing.T, connID string, eventType events.EventType, payload any) error {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return f.orch.HandleClientEvent(context.Background(), connID, eventType, data)
}

// registerUser creates a user through the explicit path (100 points)
func (f *fixture) registerUser(t *testing.T, username string) {
	t.Helper()
	_, err := f.users.CreateUser(context.Background(), users.CreateUserRequest{Username: username})
	require.NoError(t, err)
}

func (f *fixture) points(t *testing.T, username string) int {
	t.Helper()
	user, err := f.users.GetUser(context.Background(), username)
	require.NoError(t, err)
	return user.Points
}

func (f *fixture) snapshot(t *testing.T, roomID string) models.Room {
	t.Helper()
	room, err := f.registry.Get(roomID)
	require.NoError(t, err)
	return room.Snapshot()
}

// createdRoomID returns the room id acknowledged to connID
func (f *fixture) createdRoomID(t *testing.T, connID string) string {
	t.Helper()
	for _, ev := range f.bc.connEvents(connID) {
		if ev.Type == events.RoomCreated {
			return ev.Payload.(events.RoomCreatedPayload).RoomID
		}
	}
	t.Fatalf("no room created for %s", connID)
	return ""
}

// waitForRoomEvents waits until roomID has received n events and returns them
func (f *fixture) waitForRoomEvents(t *testing.T, roomID string, n int) []events.Event {
	t.Helper()
	require.Eventually(t, func() bool {
		return len(f.bc.roomEvents(roomID)) >= n
	}, waitFor, tick, "expected %d events for %s", n, roomID)
	return f.bc.roomEvents(roomID)
}

// requireNoMoreRoomEvents asserts roomID never receives more than n events
func (f *fixture) requireNoMoreRoomEvents(t *testing.T, roomID string, n int) {
	t.Helper()
	require.Never(t, func() bool {
		return len(f.bc.roomEvents(roomID)) > n
	}, 50*time.Millisecond, tick)
}

func eventTypes(evs []events.Event) []events.EventType {
	out := make([]events.EventType, len(evs))
	for i, ev := range evs {
		out[i] = ev.Type
	}
	return out
}

func timerUpdate(remaining int) events.Event {
	return events.New(events.TimerUpdate, events.TimerUpdatePayload{RemainingTime: remaining})
}
