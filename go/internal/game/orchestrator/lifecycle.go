package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/mcdev12/quizroom/go/internal/game/events"
	"github.com/mcdev12/quizroom/go/internal/models"
	"github.com/mcdev12/quizroom/go/internal/rooms"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

const maxRoomIDAttempts = 5

// CreateRoom opens a room with the creator as host and sole member. In wager
// mode the entry fee is debited right away and seeds the pot.
func (o *Orchestrator) CreateRoom(ctx context.Context, connID string, req CreateRoomRequest) (string, error) {
	if _, err := o.users.EnsureUser(ctx, req.Username); err != nil {
		return "", err
	}

	state := models.Room{
		Mode:      o.mode,
		Status:    models.RoomStatusOpen,
		Host:      req.Username,
		Members:   []models.Member{{Username: req.Username}},
		CreatedAt: o.clock.Now(),
	}

	switch o.mode {
	case models.RoomModeWager:
		if _, err := o.users.DebitIfSufficient(ctx, req.Username, req.EntryFee); err != nil {
			return "", err
		}
		state.EntryFee = req.EntryFee
		state.TotalPoints = req.EntryFee
		state.Members[0].PointsSubmitted = req.EntryFee
	case models.RoomModeQuiz:
		state.Questions = req.Questions
		if len(state.Questions) == 0 {
			state.Questions = models.CloneQuestions(o.settings.Questions)
		}
	}

	var room *rooms.Room
	for attempt := 0; attempt < maxRoomIDAttempts; attempt++ {
		state.ID = newRoomID()
		candidate := rooms.NewRoom(state)
		err := o.rooms.Create(candidate)
		if err == nil {
			room = candidate
			break
		}
		if !errors.Is(err, rooms.ErrRoomExists) {
			return "", err
		}
	}
	if room == nil {
		// give the fee back, no room was opened
		if state.EntryFee > 0 {
			if _, err := o.users.Credit(ctx, req.Username, state.EntryFee); err != nil {
				log.Error().Err(err).Str("username", req.Username).Msg("failed to refund entry fee")
			}
		}
		return "", fmt.Errorf("failed to allocate a room id after %d attempts: %w", maxRoomIDAttempts, rooms.ErrRoomExists)
	}

	o.broadcaster.Subscribe(connID, room.ID())
	o.broadcaster.SendTo(connID, events.New(events.RoomCreated, events.RoomCreatedPayload{
		RoomID:     room.ID(),
		InviteLink: o.inviteLink(room.ID()),
	}))

	log.Info().
		Str("room_id", room.ID()).
		Str("host", req.Username).
		Str("mode", string(o.mode)).
		Int("entry_fee", state.EntryFee).
		Int("questions", len(state.Questions)).
		Msg("room created")

	return room.ID(), nil
}

// JoinRoom seats a user in a room. A wager join is all or nothing: when the
// balance is short, neither the balance, the member list nor the pot change.
// A user who is already seated is only re-subscribed.
func (o *Orchestrator) JoinRoom(ctx context.Context, connID string, req JoinRoomRequest) error {
	room, err := o.rooms.Get(req.RoomID)
	if err != nil {
		return err
	}
	if _, err := o.users.EnsureUser(ctx, req.Username); err != nil {
		return err
	}

	room.Lock()
	defer room.Unlock()
	state := room.State()

	if state.Status.Terminal() {
		return fmt.Errorf("room %s is %s: %w", state.ID, state.Status, ErrInvalidState)
	}

	if state.MemberIndex(req.Username) < 0 {
		member := models.Member{Username: req.Username}
		if state.Mode == models.RoomModeWager {
			if _, err := o.users.DebitIfSufficient(ctx, req.Username, state.EntryFee); err != nil {
				return err
			}
			member.PointsSubmitted = state.EntryFee
			state.TotalPoints += state.EntryFee
		}
		state.Members = append(state.Members, member)
	}

	o.broadcaster.Subscribe(connID, state.ID)
	o.broadcaster.BroadcastToRoom(state.ID, events.New(events.UserJoined, userJoinedPayload(state)))

	log.Info().
		Str("room_id", state.ID).
		Str("username", req.Username).
		Int("members", len(state.Members)).
		Int("total_points", state.TotalPoints).
		Msg("user joined room")

	return nil
}

// DeclareWinner pays the whole pot to the winner and resolves the room. The
// winner can only be declared once.
func (o *Orchestrator) DeclareWinner(ctx context.Context, connID string, req DeclareWinnerRequest) error {
	room, err := o.rooms.Get(req.RoomID)
	if err != nil {
		return err
	}

	room.Lock()
	defer room.Unlock()
	state := room.State()

	if state.Winner != nil {
		return fmt.Errorf("room %s already paid out to %s: %w", state.ID, *state.Winner, ErrInvalidState)
	}
	if _, err := o.users.GetUser(ctx, req.WinnerUsername); err != nil {
		return err
	}
	if _, err := o.users.Credit(ctx, req.WinnerUsername, state.TotalPoints); err != nil {
		return err
	}

	now := o.clock.Now()
	winner := req.WinnerUsername
	state.Winner = &winner
	state.Status = models.RoomStatusResolved
	state.ResolvedAt = &now
	o.cancelTimer(room)

	o.broadcaster.BroadcastToRoom(state.ID, events.New(events.WinnerAnnounced, events.WinnerAnnouncedPayload{
		WinnerUsername: winner,
		TotalPoints:    state.TotalPoints,
	}))

	log.Info().
		Str("room_id", state.ID).
		Str("winner", winner).
		Int("total_points", state.TotalPoints).
		Msg("winner declared")

	return nil
}

// RemoveRoom unregisters a room, stops its timer and drops its audience. A
// tick already in flight finds the room gone and terminates.
func (o *Orchestrator) RemoveRoom(roomID string) error {
	room, err := o.rooms.Get(roomID)
	if err != nil {
		return err
	}
	o.rooms.Remove(roomID)

	room.Lock()
	o.cancelTimer(room)
	o.broadcaster.DropRoom(roomID)
	room.Unlock()

	log.Info().Str("room_id", roomID).Msg("room removed")
	return nil
}

func userJoinedPayload(state *models.Room) events.UserJoinedPayload {
	payload := events.UserJoinedPayload{
		Players: lo.Map(state.Members, func(m models.Member, _ int) string { return m.Username }),
	}
	if state.Mode == models.RoomModeWager {
		total := state.TotalPoints
		payload.TotalPoints = &total
	}
	return payload
}
