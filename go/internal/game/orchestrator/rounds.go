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

const (
	timeUpMessage          = "Time is up!"
	questionTimeoutMessage = "Time is up for this question!"
	quizCompleteMessage    = "Quiz has ended!"
)

// StartQuiz starts the round of a room: the countdown in wager mode, question
// delivery in quiz mode. An unknown room is ignored. Starting a running room
// again replaces its timer.
func (o *Orchestrator) StartQuiz(ctx context.Context, connID string, req StartQuizRequest) error {
	room, err := o.rooms.Get(req.RoomID)
	if err != nil {
		if errors.Is(err, rooms.ErrRoomNotFound) {
			log.Debug().Str("room_id", req.RoomID).Msg("start for unknown room - ignoring")
			return nil
		}
		return err
	}

	room.Lock()
	defer room.Unlock()
	state := room.State()

	if state.Status.Terminal() {
		return fmt.Errorf("room %s is %s: %w", state.ID, state.Status, ErrInvalidState)
	}

	switch state.Mode {
	case models.RoomModeWager:
		if req.Duration <= 0 {
			return invalidPayload("Duration must be positive", nil)
		}
		o.startCountdown(room, req.Duration)
	case models.RoomModeQuiz:
		o.startQuestions(room)
	}
	return nil
}

// SubmitAnswer scores an answer to the current question. Every matching
// submission is rewarded, including repeats for the same question.
func (o *Orchestrator) SubmitAnswer(ctx context.Context, connID string, req SubmitAnswerRequest) error {
	room, err := o.rooms.Get(req.RoomID)
	if err != nil {
		if errors.Is(err, rooms.ErrRoomNotFound) {
			return nil
		}
		return err
	}

	room.Lock()
	defer room.Unlock()
	state := room.State()

	if state.Mode != models.RoomModeQuiz {
		return fmt.Errorf("room %s does not take answers: %w", state.ID, ErrInvalidState)
	}
	question, ok := state.CurrentQuestion()
	if !ok {
		log.Debug().Str("room_id", state.ID).Str("username", req.Username).Msg("answer with no open question - ignoring")
		return nil
	}
	idx := state.MemberIndex(req.Username)
	if idx < 0 {
		return fmt.Errorf("user %s in room %s: %w", req.Username, state.ID, ErrNotMember)
	}

	if req.Answer == question.Answer {
		state.Members[idx].Score += o.settings.AnswerReward
		log.Debug().
			Str("room_id", state.ID).
			Str("username", req.Username).
			Int("score", state.Members[idx].Score).
			Msg("correct answer")
	}
	return nil
}

// startCountdown resets the countdown and arms the ticking timer. Caller must
// hold the room lock.
func (o *Orchestrator) startCountdown(room *rooms.Room, duration int) {
	state := room.State()
	state.RemainingTime = duration
	state.Status = models.RoomStatusRunning

	o.broadcaster.BroadcastToRoom(state.ID, events.New(events.TimerUpdate, events.TimerUpdatePayload{RemainingTime: duration}))

	t := o.replaceTimer(room)
	o.startTicker(t, o.settings.CountdownTick, o.countdownTick)

	log.Info().Str("room_id", state.ID).Int("duration", duration).Msg("countdown started")
}

// countdownTick decrements the countdown. The tick that reaches zero also
// emits the single terminal event and stops the timer.
func (o *Orchestrator) countdownTick(t *roundTimer) bool {
	room := o.acquire(t)
	if room == nil {
		return true
	}
	defer room.Unlock()
	state := room.State()

	if state.RemainingTime > 0 {
		state.RemainingTime--
		o.broadcaster.BroadcastToRoom(state.ID, events.New(events.TimerUpdate, events.TimerUpdatePayload{RemainingTime: state.RemainingTime}))
	}
	if state.RemainingTime > 0 {
		return false
	}

	o.endRound(room, events.QuizEndedPayload{Message: timeUpMessage})
	return true
}

// startQuestions announces the quiz and asks the current question. Caller must
// hold the room lock.
func (o *Orchestrator) startQuestions(room *rooms.Room) {
	state := room.State()
	state.Status = models.RoomStatusRunning

	o.broadcaster.BroadcastToRoom(state.ID, events.New(events.QuizStarted, events.QuizStartedPayload{
		RoomID:         state.ID,
		TotalQuestions: len(state.Questions),
	}))

	log.Info().Str("room_id", state.ID).Int("questions", len(state.Questions)).Msg("quiz started")
	o.askQuestion(room)
}

// askQuestion broadcasts the current question and arms its timeout, or ends
// the quiz when no question is left. Caller must hold the room lock.
func (o *Orchestrator) askQuestion(room *rooms.Room) {
	state := room.State()
	question, ok := state.CurrentQuestion()
	if !ok {
		o.endRound(room, events.QuizEndedPayload{Message: quizCompleteMessage, Scores: scores(state)})
		return
	}

	// the timeout cannot run before the broadcast below, it needs the room lock
	t := o.replaceTimer(room)
	o.startOneShot(t, o.settings.QuestionDuration, o.questionTimeout)

	o.broadcaster.BroadcastToRoom(state.ID, events.New(events.NewQuestion, events.NewQuestionPayload{
		Question:       question.Text,
		Options:        append([]string(nil), question.Options...),
		QuestionNumber: state.CurrentQuestionIndex + 1,
	}))
}

// questionTimeout closes the current question and moves to the next one
func (o *Orchestrator) questionTimeout(t *roundTimer) {
	room := o.acquire(t)
	if room == nil {
		return
	}
	defer room.Unlock()
	state := room.State()

	o.broadcaster.BroadcastToRoom(state.ID, events.New(events.QuestionTimeout, events.QuestionTimeoutPayload{Message: questionTimeoutMessage}))
	if state.CurrentQuestionIndex < len(state.Questions) {
		state.CurrentQuestionIndex++
	}
	o.askQuestion(room)
}

// endRound marks the room ended, stops its timer and emits the terminal
// event. Caller must hold the room lock.
func (o *Orchestrator) endRound(room *rooms.Room, payload events.QuizEndedPayload) {
	state := room.State()
	now := o.clock.Now()
	state.Status = models.RoomStatusEnded
	state.EndedAt = &now
	o.cancelTimer(room)

	o.broadcaster.BroadcastToRoom(state.ID, events.New(events.QuizEnded, payload))

	log.Info().Str("room_id", state.ID).Str("mode", string(state.Mode)).Msg("round ended")
}

func scores(state *models.Room) map[string]int {
	return lo.SliceToMap(state.Members, func(m models.Member) (string, int) {
		return m.Username, m.Score
	})
}
