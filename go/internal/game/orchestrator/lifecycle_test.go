package orchestrator

import (
	"context"
	"regexp"
	"testing"

	"github.com/mcdev12/quizroom/go/internal/game/events"
	"github.com/mcdev12/quizroom/go/internal/models"
	"github.com/mcdev12/quizroom/go/internal/rooms"
	"github.com/mcdev12/quizroom/go/internal/users"
	"github.com/stretchr/testify/require"
)

var roomIDPattern = regexp.MustCompile(`^room-[0-9a-f]{9}$`)

func requirePotBalanced(t *testing.T, room models.Room) {
	t.Helper()
	sum := 0
	for _, m := range room.Members {
		sum += m.PointsSubmitted
	}
	require.Equal(t, room.TotalPoints, sum, "pot must equal the sum of submitted points")
}

func TestOrchestrator_CreateRoom_Wager(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, models.RoomModeWager)
	f.registerUser(t, "alice")

	// When alice opens a room with a fee of 20
	err := f.send(t, "conn-alice", events.CreateRoom, map[string]any{"username": "alice", "entryFee": 20})
	req.NoError(err)

	// Then she pays the fee into the pot
	roomID := f.createdRoomID(t, "conn-alice")
	req.Regexp(roomIDPattern, roomID)
	req.Equal(80, f.points(t, "alice"))

	room := f.snapshot(t, roomID)
	req.Equal(models.RoomStatusOpen, room.Status)
	req.Equal("alice", room.Host)
	req.Equal(20, room.EntryFee)
	req.Equal(20, room.TotalPoints)
	req.Equal([]models.Member{{Username: "alice", PointsSubmitted: 20}}, room.Members)
	req.Nil(room.Winner)
	requirePotBalanced(t, room)

	// And only the creator is told, with an invite link
	created := f.bc.connEvents("conn-alice")
	req.Len(created, 1)
	req.Equal(events.RoomCreatedPayload{
		RoomID:     roomID,
		InviteLink: "http://localhost:5173/join?roomID=" + roomID,
	}, created[0].Payload)
	req.Empty(f.bc.roomEvents(roomID))
	req.Equal([]string{"conn-alice"}, f.bc.subscribers(roomID))
}

func TestOrchestrator_CreateRoom_InsufficientBalance(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, models.RoomModeWager)
	f.registerUser(t, "alice")

	err := f.send(t, "conn-alice", events.CreateRoom, map[string]any{"username": "alice", "entryFee": 150})
	req.ErrorIs(err, users.ErrInsufficientBalance)

	// Nothing changed and the error went to the creator only
	req.Equal(100, f.points(t, "alice"))
	req.Equal(0, f.registry.Len())
	req.Equal([]events.Event{
		events.New(events.Error, events.ErrorPayload{Message: "Not enough points"}),
	}, f.bc.connEvents("conn-alice"))
}

func TestOrchestrator_CreateRoom_ImplicitUser(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, models.RoomModeWager)

	// A user first seen on a socket starts with the socket balance
	req.NoError(f.send(t, "conn-bob", events.CreateRoom, map[string]any{"username": "bob", "entryFee": 20}))
	req.Equal(480, f.points(t, "bob"))
}

func TestOrchestrator_CreateRoom_InvalidPayload(t *testing.T) {
	f := newFixture(t, models.RoomModeWager)

	tests := []struct {
		name    string
		payload any
		message string
	}{
		{name: "missing username", payload: map[string]any{"entryFee": 20}, message: "Missing or invalid username"},
		{name: "negative fee", payload: map[string]any{"username": "alice", "entryFee": -5}, message: "Missing or invalid entryFee"},
		{name: "fee of the wrong type", payload: map[string]any{"username": "alice", "entryFee": "twenty"}, message: "Malformed payload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			err := f.send(t, "conn-x", events.CreateRoom, tt.payload)
			req.ErrorIs(err, ErrInvalidPayload)
			req.Equal(0, f.registry.Len())

			sent := f.bc.connEvents("conn-x")
			req.Equal(events.New(events.Error, events.ErrorPayload{Message: tt.message}), sent[len(sent)-1])
		})
	}
}

func TestOrchestrator_CreateRoom_Quiz(t *testing.T) {
	f := newFixture(t, models.RoomModeQuiz)

	t.Run("should use the configured question bank", func(t *testing.T) {
		req := require.New(t)
		roomID, err := f.orch.CreateRoom(context.Background(), "conn-alice", CreateRoomRequest{Username: "alice"})
		req.NoError(err)

		room := f.snapshot(t, roomID)
		req.Equal(models.RoomModeQuiz, room.Mode)
		req.Equal(f.settings.Questions, room.Questions)
		req.Equal(0, room.TotalPoints)
		req.Equal(500, f.points(t, "alice"))
	})

	t.Run("should use questions from the payload", func(t *testing.T) {
		req := require.New(t)
		err := f.send(t, "conn-bob", events.CreateRoom, map[string]any{
			"username": "bob",
			"questions": []map[string]any{
				{"text": "Capital of France?", "options": []string{"Paris", "Rome"}, "answer": "Paris"},
			},
		})
		req.NoError(err)

		room := f.snapshot(t, f.createdRoomID(t, "conn-bob"))
		req.Len(room.Questions, 1)
		req.Equal("Paris", room.Questions[0].Answer)
	})

	t.Run("should reject a question without an answer", func(t *testing.T) {
		req := require.New(t)
		err := f.send(t, "conn-carol", events.CreateRoom, map[string]any{
			"username":  "carol",
			"questions": []map[string]any{{"text": "No answer?"}},
		})
		req.ErrorIs(err, ErrInvalidPayload)
		req.Equal([]events.Event{
			events.New(events.Error, events.ErrorPayload{Message: "Missing or invalid answer"}),
		}, f.bc.connEvents("conn-carol"))
	})
}

func TestOrchestrator_JoinRoom_Wager(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, models.RoomModeWager)
	f.registerUser(t, "alice")
	req.NoError(f.send(t, "conn-alice", events.CreateRoom, map[string]any{"username": "alice", "entryFee": 20}))
	roomID := f.createdRoomID(t, "conn-alice")

	// When bob, unknown so far, joins
	req.NoError(f.send(t, "conn-bob", events.JoinRoom, map[string]any{"username": "bob", "roomID": roomID}))

	// Then he is created with 500, pays 20, and the room hears about it
	req.Equal(480, f.points(t, "bob"))
	room := f.snapshot(t, roomID)
	req.Equal(40, room.TotalPoints)
	req.Equal([]models.Member{
		{Username: "alice", PointsSubmitted: 20},
		{Username: "bob", PointsSubmitted: 20},
	}, room.Members)
	requirePotBalanced(t, room)

	total := 40
	req.Equal([]events.Event{
		events.New(events.UserJoined, events.UserJoinedPayload{Players: []string{"alice", "bob"}, TotalPoints: &total}),
	}, f.bc.roomEvents(roomID))
	req.Equal([]string{"conn-alice", "conn-bob"}, f.bc.subscribers(roomID))

	t.Run("should only resubscribe a member joining again", func(t *testing.T) {
		req := require.New(t)
		req.NoError(f.send(t, "conn-bob-2", events.JoinRoom, map[string]any{"username": "bob", "roomID": roomID}))

		req.Equal(480, f.points(t, "bob"))
		room := f.snapshot(t, roomID)
		req.Len(room.Members, 2)
		req.Equal(40, room.TotalPoints)
		req.Contains(f.bc.subscribers(roomID), "conn-bob-2")
	})
}

func TestOrchestrator_JoinRoom_InsufficientBalance(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t, models.RoomModeWager)
	f.registerUser(t, "alice")
	f.registerUser(t, "dave")
	_, err := f.users.Debit(ctx, "dave", 90)
	req.NoError(err)

	roomID, err := f.orch.CreateRoom(ctx, "conn-alice", CreateRoomRequest{Username: "alice", EntryFee: 20})
	req.NoError(err)

	// When dave with 10 points tries to join
	err = f.send(t, "conn-dave", events.JoinRoom, map[string]any{"username": "dave", "roomID": roomID})
	req.ErrorIs(err, users.ErrInsufficientBalance)

	// Then neither his balance, the members nor the pot changed
	req.Equal(10, f.points(t, "dave"))
	room := f.snapshot(t, roomID)
	req.Len(room.Members, 1)
	req.Equal(20, room.TotalPoints)
	req.Empty(f.bc.roomEvents(roomID))
	req.NotContains(f.bc.subscribers(roomID), "conn-dave")
	req.Equal([]events.Event{
		events.New(events.Error, events.ErrorPayload{Message: "Not enough points"}),
	}, f.bc.connEvents("conn-dave"))
}

func TestOrchestrator_JoinRoom_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("should report an unknown room to the sender only", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t, models.RoomModeWager)

		err := f.send(t, "conn-bob", events.JoinRoom, map[string]any{"username": "bob", "roomID": "room-missing"})
		req.ErrorIs(err, rooms.ErrRoomNotFound)
		req.Equal([]events.Event{
			events.New(events.Error, events.ErrorPayload{Message: "Room not found"}),
		}, f.bc.connEvents("conn-bob"))
	})

	t.Run("should refuse a resolved room", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t, models.RoomModeWager)
		f.registerUser(t, "alice")
		roomID, err := f.orch.CreateRoom(ctx, "conn-alice", CreateRoomRequest{Username: "alice", EntryFee: 20})
		req.NoError(err)
		req.NoError(f.orch.DeclareWinner(ctx, "conn-alice", DeclareWinnerRequest{RoomID: roomID, WinnerUsername: "alice"}))

		err = f.orch.JoinRoom(ctx, "conn-bob", JoinRoomRequest{Username: "bob", RoomID: roomID})
		req.ErrorIs(err, ErrInvalidState)
		req.Equal(500, f.points(t, "bob"))
	})
}

func TestOrchestrator_JoinRoom_Quiz(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t, models.RoomModeQuiz)
	roomID, err := f.orch.CreateRoom(ctx, "conn-alice", CreateRoomRequest{Username: "alice"})
	req.NoError(err)

	req.NoError(f.orch.JoinRoom(ctx, "conn-bob", JoinRoomRequest{Username: "bob", RoomID: roomID}))

	// No fee and no pot in quiz rooms
	req.Equal(500, f.points(t, "bob"))
	req.Equal([]events.Event{
		events.New(events.UserJoined, events.UserJoinedPayload{Players: []string{"alice", "bob"}}),
	}, f.bc.roomEvents(roomID))
}

func TestOrchestrator_DeclareWinner(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t, models.RoomModeWager)
	f.registerUser(t, "alice")
	roomID, err := f.orch.CreateRoom(ctx, "conn-alice", CreateRoomRequest{Username: "alice", EntryFee: 20})
	req.NoError(err)
	req.NoError(f.orch.JoinRoom(ctx, "conn-bob", JoinRoomRequest{Username: "bob", RoomID: roomID}))

	// When bob is declared the winner
	req.NoError(f.send(t, "conn-alice", events.DeclareWinner, map[string]any{"roomID": roomID, "winnerUsername": "bob"}))

	// Then he receives the whole pot
	req.Equal(520, f.points(t, "bob"))
	req.Equal(80, f.points(t, "alice"))

	room := f.snapshot(t, roomID)
	req.Equal(models.RoomStatusResolved, room.Status)
	req.NotNil(room.Winner)
	req.Equal("bob", *room.Winner)
	req.NotNil(room.ResolvedAt)

	evs := f.bc.roomEvents(roomID)
	req.Equal(events.New(events.WinnerAnnounced, events.WinnerAnnouncedPayload{WinnerUsername: "bob", TotalPoints: 40}), evs[len(evs)-1])

	t.Run("should not pay twice", func(t *testing.T) {
		req := require.New(t)
		err := f.orch.DeclareWinner(ctx, "conn-alice", DeclareWinnerRequest{RoomID: roomID, WinnerUsername: "alice"})
		req.ErrorIs(err, ErrInvalidState)
		req.Equal(80, f.points(t, "alice"))
		req.Equal(520, f.points(t, "bob"))
	})
}

func TestOrchestrator_DeclareWinner_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("should report an unknown winner", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t, models.RoomModeWager)
		f.registerUser(t, "alice")
		roomID, err := f.orch.CreateRoom(ctx, "conn-alice", CreateRoomRequest{Username: "alice", EntryFee: 20})
		req.NoError(err)

		err = f.send(t, "conn-alice", events.DeclareWinner, map[string]any{"roomID": roomID, "winnerUsername": "ghost"})
		req.ErrorIs(err, users.ErrUserNotFound)

		room := f.snapshot(t, roomID)
		req.Nil(room.Winner)
		req.Equal(models.RoomStatusOpen, room.Status)
		req.Equal([]events.Event{
			events.New(events.Error, events.ErrorPayload{Message: "Winner not found"}),
		}, f.bc.connEvents("conn-alice")[1:])
	})

	t.Run("should report an unknown room", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t, models.RoomModeWager)

		err := f.orch.DeclareWinner(ctx, "conn-alice", DeclareWinnerRequest{RoomID: "room-missing", WinnerUsername: "alice"})
		req.ErrorIs(err, rooms.ErrRoomNotFound)
	})
}

func TestOrchestrator_RemoveRoom(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t, models.RoomModeWager)
	f.registerUser(t, "alice")
	roomID, err := f.orch.CreateRoom(ctx, "conn-alice", CreateRoomRequest{Username: "alice", EntryFee: 20})
	req.NoError(err)

	req.NoError(f.orch.RemoveRoom(roomID))
	req.False(f.registry.Exists(roomID))
	req.Equal([]string{roomID}, f.bc.droppedRooms())
	req.ErrorIs(f.orch.RemoveRoom(roomID), rooms.ErrRoomNotFound)
	req.Len(f.bc.droppedRooms(), 1)
}
