package orchestrator

import (
	"fmt"
	"os"
	"time"

	"github.com/mcdev12/quizroom/go/internal/models"
	"github.com/mcdev12/quizroom/go/internal/users"
	"gopkg.in/yaml.v3"
)

// Settings tunes the game rules. Every field has a default so a settings file
// only needs the values it overrides.
type Settings struct {
	Balances users.Balances `yaml:",inline"`

	AnswerReward     int           `yaml:"answer_reward"`
	QuestionDuration time.Duration `yaml:"question_duration"`
	CountdownTick    time.Duration `yaml:"countdown_tick"`
	InviteBaseURL    string        `yaml:"invite_base_url"`

	// RoomRetention is how long finished rooms stay listed. Zero keeps them forever.
	RoomRetention  time.Duration `yaml:"room_retention"`
	ReaperInterval time.Duration `yaml:"reaper_interval"`

	// Questions is the bank used by quiz rooms created without their own questions
	Questions []models.Question `yaml:"questions"`
}

// DefaultSettings returns the standard game rules and question bank
func DefaultSettings() Settings {
	return Settings{
		Balances:         users.DefaultBalances(),
		AnswerReward:     10,
		QuestionDuration: 10 * time.Second,
		CountdownTick:    time.Second,
		InviteBaseURL:    "http://localhost:5173",
		ReaperInterval:   time.Minute,
		Questions: []models.Question{
			{Text: "What is 2 + 2?", Options: []string{"3", "4", "5", "22"}, Answer: "4"},
			{Text: "Which planet is known as the Red Planet?", Options: []string{"Venus", "Mars", "Jupiter", "Mercury"}, Answer: "Mars"},
			{Text: "How many continents are there?", Options: []string{"5", "6", "7", "8"}, Answer: "7"},
		},
	}
}

// LoadSettings reads a YAML settings file on top of the defaults. An empty
// path returns the defaults.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()
	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read settings file: %w", err)
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("failed to parse settings: %w", err)
	}
	if err := settings.validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid settings: %w", err)
	}
	return settings, nil
}

func (s Settings) validate() error {
	if s.CountdownTick <= 0 {
		return fmt.Errorf("countdown_tick must be positive")
	}
	if s.QuestionDuration <= 0 {
		return fmt.Errorf("question_duration must be positive")
	}
	if s.RoomRetention > 0 && s.ReaperInterval <= 0 {
		return fmt.Errorf("reaper_interval must be positive when room_retention is set")
	}
	for i, q := range s.Questions {
		if q.Text == "" || q.Answer == "" {
			return fmt.Errorf("question %d needs text and answer", i+1)
		}
	}
	return nil
}
