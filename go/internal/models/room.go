package models

import (
	"time"
)

// RoomMode defines which game a room runs.
type RoomMode string

const (
	RoomModeWager RoomMode = "wager"
	RoomModeQuiz  RoomMode = "quiz"
)

// Valid reports whether m is a known mode.
func (m RoomMode) Valid() bool {
	return m == RoomModeWager || m == RoomModeQuiz
}

// RoomStatus defines where a room is in its lifecycle.
type RoomStatus string

const (
	RoomStatusOpen     RoomStatus = "open"
	RoomStatusRunning  RoomStatus = "running"
	RoomStatusEnded    RoomStatus = "ended"
	RoomStatusResolved RoomStatus = "resolved"
)

// Terminal reports whether no further rounds can run in this status.
func (s RoomStatus) Terminal() bool {
	return s == RoomStatusEnded || s == RoomStatusResolved
}

// Question is a single multiple choice question of a quiz room.
type Question struct {
	Text    string   `json:"text" yaml:"text" validate:"required"`
	Options []string `json:"options" yaml:"options"`
	Answer  string   `json:"answer" yaml:"answer" validate:"required"`
}

// Member is a user seated in a room. PointsSubmitted is only used by wager
// rooms and Score only by quiz rooms.
type Member struct {
	Username        string `json:"username"`
	PointsSubmitted int    `json:"pointsSubmitted,omitempty"`
	Score           int    `json:"score,omitempty"`
}

// Room is the state of a single live session.
type Room struct {
	ID                   string     `json:"id"`
	Mode                 RoomMode   `json:"mode"`
	Status               RoomStatus `json:"status"`
	Host                 string     `json:"host"`
	Members              []Member   `json:"users"`
	EntryFee             int        `json:"entryFee,omitempty"`
	TotalPoints          int        `json:"totalPoints"`
	Questions            []Question `json:"questions,omitempty"`
	CurrentQuestionIndex int        `json:"currentQuestionIndex"`
	RemainingTime        int        `json:"remainingTime"`
	Winner               *string    `json:"winner"`
	CreatedAt            time.Time  `json:"createdAt"`
	EndedAt              *time.Time `json:"endedAt,omitempty"`
	ResolvedAt           *time.Time `json:"resolvedAt,omitempty"`
}

// MemberIndex returns the position of username in the member list, or -1.
func (r *Room) MemberIndex(username string) int {
	for i, m := range r.Members {
		if m.Username == username {
			return i
		}
	}
	return -1
}

// CurrentQuestion returns the question being asked, if any.
func (r *Room) CurrentQuestion() (Question, bool) {
	if r.Status != RoomStatusRunning || r.CurrentQuestionIndex >= len(r.Questions) {
		return Question{}, false
	}
	return r.Questions[r.CurrentQuestionIndex], true
}

// Clone returns a deep copy safe to hand out of the room's lock.
func (r *Room) Clone() Room {
	c := *r
	c.Members = append([]Member(nil), r.Members...)
	c.Questions = CloneQuestions(r.Questions)
	if r.Winner != nil {
		w := *r.Winner
		c.Winner = &w
	}
	if r.EndedAt != nil {
		t := *r.EndedAt
		c.EndedAt = &t
	}
	if r.ResolvedAt != nil {
		t := *r.ResolvedAt
		c.ResolvedAt = &t
	}
	return c
}

// CloneQuestions deep copies a question list
func CloneQuestions(questions []Question) []Question {
	if questions == nil {
		return nil
	}
	out := make([]Question, len(questions))
	for i, q := range questions {
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out
}
