package orchestrator

import (
	"github.com/mcdev12/quizroom/go/internal/models"
)

// CreateRoomRequest opens a room hosted by Username. EntryFee is used by wager
// rooms, Questions by quiz rooms (the configured bank when empty).
type CreateRoomRequest struct {
	Username  string            `json:"username" validate:"required"`
	EntryFee  int               `json:"entryFee" validate:"min=0"`
	Questions []models.Question `json:"questions" validate:"omitempty,dive"`
}

// JoinRoomRequest seats Username in RoomID
type JoinRoomRequest struct {
	Username string `json:"username" validate:"required"`
	RoomID   string `json:"roomID" validate:"required"`
}

// StartQuizRequest starts the round of RoomID. Duration is the countdown in
// seconds for wager rooms and is ignored by quiz rooms.
type StartQuizRequest struct {
	RoomID   string `json:"roomID" validate:"required"`
	Duration int    `json:"duration"`
}

// SubmitAnswerRequest answers the current question of RoomID
type SubmitAnswerRequest struct {
	RoomID   string `json:"roomID" validate:"required"`
	Username string `json:"username" validate:"required"`
	Answer   string `json:"answer"`
}

// DeclareWinnerRequest pays the pot of RoomID to WinnerUsername
type DeclareWinnerRequest struct {
	RoomID         string `json:"roomID" validate:"required"`
	WinnerUsername string `json:"winnerUsername" validate:"required"`
}
