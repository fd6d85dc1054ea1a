package gateway

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"
)

// Service is the game gateway: WebSocket connections plus event delivery
type Service struct {
	connectionManager *ConnectionManager
	wsHandler         *WebSocketHandler
	broadcaster       Broadcaster
}

// Config holds configuration for the gateway service
type Config struct {
	ConnectionConfig ConnectionConfig
}

// DefaultConfig returns default configuration for the gateway
func DefaultConfig() Config {
	return Config{
		ConnectionConfig: DefaultConnectionConfig(),
	}
}

// NewService creates a new gateway service. When publisher is non-nil every
// room broadcast is mirrored to it.
func NewService(config Config, publisher Publisher) *Service {
	connectionManager := NewConnectionManager(config.ConnectionConfig)

	var broadcaster Broadcaster = connectionManager
	if publisher != nil {
		broadcaster = NewEventMirror(connectionManager, publisher)
	}

	return &Service{
		connectionManager: connectionManager,
		wsHandler:         NewWebSocketHandler(connectionManager),
		broadcaster:       broadcaster,
	}
}

// Broadcaster returns what the room state machine publishes through
func (s *Service) Broadcaster() Broadcaster {
	return s.broadcaster
}

// SetDispatcher routes client events to d
func (s *Service) SetDispatcher(d Dispatcher) {
	s.connectionManager.SetDispatcher(d)
}

// Start runs event delivery until ctx is done
func (s *Service) Start(ctx context.Context) error {
	log.Info().Msg("starting game gateway service")
	s.connectionManager.Start(ctx)
	log.Info().Msg("game gateway service stopped")
	return nil
}

// RegisterRoutes registers the WebSocket HTTP routes
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	s.wsHandler.RegisterRoutes(mux)
	log.Info().Msg("game gateway routes registered")
}

// GetStats returns statistics about the gateway service
func (s *Service) GetStats() ConnectionStats {
	return s.connectionManager.GetConnectionStats()
}
