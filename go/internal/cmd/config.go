package main

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/mcdev12/quizroom/go/internal/models"
	"github.com/rs/zerolog"
)

// Config is the process configuration read from the environment
type Config struct {
	Port             string `envconfig:"PORT" default:"5000"`
	GameMode         string `envconfig:"GAME_MODE" default:"wager"`
	GameSettingsPath string `envconfig:"GAME_SETTINGS_PATH"`
	NATSURL          string `envconfig:"NATS_URL"`
	LogLevel         string `envconfig:"LOG_LEVEL" default:"info"`
}

func loadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read environment: %w", err)
	}
	if !cfg.Mode().Valid() {
		return Config{}, fmt.Errorf("invalid GAME_MODE %q: want %q or %q", cfg.GameMode, models.RoomModeWager, models.RoomModeQuiz)
	}
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return Config{}, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}
	return cfg, nil
}

// Mode returns the room mode this deployment runs
func (c Config) Mode() models.RoomMode {
	return models.RoomMode(c.GameMode)
}

// Level returns the configured log level, info when unparsable
func (c Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
