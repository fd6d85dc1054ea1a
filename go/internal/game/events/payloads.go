package events

// EventType names an event exchanged with clients
type EventType string

// Inbound events sent by clients
const (
	CreateRoom    EventType = "createRoom"
	JoinRoom      EventType = "joinRoom"
	StartQuiz     EventType = "startQuiz"
	SubmitAnswer  EventType = "submitAnswer"
	DeclareWinner EventType = "declareWinner"
)

// Outbound events sent to clients
const (
	RoomCreated     EventType = "roomCreated"
	UserJoined      EventType = "userJoined"
	TimerUpdate     EventType = "timerUpdate"
	QuizStarted     EventType = "quizStarted"
	NewQuestion     EventType = "newQuestion"
	QuestionTimeout EventType = "questionTimeout"
	QuizEnded       EventType = "quizEnded"
	WinnerAnnounced EventType = "winnerAnnounced"
	Error           EventType = "error"
)

// Event is a named payload delivered to one connection or a whole room
type Event struct {
	Type    EventType
	Payload any
}

// New pairs an event type with its payload
func New(t EventType, payload any) Event {
	return Event{Type: t, Payload: payload}
}

// RoomCreatedPayload acknowledges room creation to its host
type RoomCreatedPayload struct {
	RoomID     string `json:"roomID"`
	InviteLink string `json:"inviteLink"`
}

// UserJoinedPayload lists the members after a join. TotalPoints is only set
// for wager rooms.
type UserJoinedPayload struct {
	Players     []string `json:"players"`
	TotalPoints *int     `json:"totalPoints,omitempty"`
}

// TimerUpdatePayload carries the countdown value in seconds
type TimerUpdatePayload struct {
	RemainingTime int `json:"remainingTime"`
}

// QuizStartedPayload signals that question delivery begins
type QuizStartedPayload struct {
	RoomID         string `json:"roomID"`
	TotalQuestions int    `json:"totalQuestions"`
}

// NewQuestionPayload is the question currently asked. The answer is never sent.
type NewQuestionPayload struct {
	Question       string   `json:"question"`
	Options        []string `json:"options"`
	QuestionNumber int      `json:"questionNumber"`
}

// QuestionTimeoutPayload reports that the current question closed
type QuestionTimeoutPayload struct {
	Message string `json:"message"`
}

// QuizEndedPayload is the terminal event of a round. Scores are only set for
// quiz rooms.
type QuizEndedPayload struct {
	Message string         `json:"message"`
	Scores  map[string]int `json:"scores,omitempty"`
}

// WinnerAnnouncedPayload reports the payout of a room
type WinnerAnnouncedPayload struct {
	WinnerUsername string `json:"winnerUsername"`
	TotalPoints    int    `json:"totalPoints"`
}

// ErrorPayload reports a rejected action to the connection that sent it
type ErrorPayload struct {
	Message string `json:"message"`
}
