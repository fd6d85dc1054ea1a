package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mcdev12/quizroom/go/internal/game/gateway"
	"github.com/mcdev12/quizroom/go/internal/game/orchestrator"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	// Setup logging
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	zerolog.SetGlobalLevel(cfg.Level())

	settings, err := orchestrator.LoadSettings(cfg.GameSettingsPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.GameSettingsPath).Msg("failed to load game settings")
	}

	var (
		publisher gateway.Publisher
		nc        *nats.Conn
	)
	if cfg.NATSURL != "" {
		nc, err = gateway.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Fatal().Err(err).Str("nats_url", cfg.NATSURL).Msg("failed to connect to NATS")
		}
		publisher = nc
	}

	services := setupServices(cfg, settings, publisher)
	server := setupServer(cfg, services)

	log.Info().
		Str("port", cfg.Port).
		Str("mode", string(services.Orchestrator.Mode())).
		Bool("event_mirror", publisher != nil).
		Msg("starting quizroom server")

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := services.Gateway.Start(ctx); err != nil {
			log.Error().Err(err).Msg("gateway service failed")
		}
	}()

	go func() {
		if err := services.Orchestrator.RunReaper(ctx); err != nil {
			log.Error().Err(err).Msg("room reaper failed")
		}
	}()

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal or a server failure
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-serverErr:
		log.Error().Err(err).Msg("HTTP server failed")
		exitCode = 1
	}

	services.Orchestrator.Shutdown()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}

	if nc != nil {
		if err := drainEventMirror(nc); err != nil {
			log.Error().Err(err).Msg("event mirror shutdown failed")
		}
	}

	log.Info().Msg("server stopped")
	if exitCode != 0 {
		shutdownCancel()
		os.Exit(exitCode)
	}
}

// drainer is the part of a NATS connection needed to close the event mirror
type drainer interface {
	Drain() error
}

// drainEventMirror flushes mirrored events still buffered and closes the connection
func drainEventMirror(d drainer) error {
	if err := d.Drain(); err != nil {
		return fmt.Errorf("failed to drain NATS connection: %w", err)
	}
	return nil
}
