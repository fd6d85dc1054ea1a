package rooms

import (
	"encoding/json"
	"net/http"

	"github.com/mcdev12/quizroom/go/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// Service exposes the room listing endpoint
type Service struct {
	registry *Registry
}

// NewService creates a new rooms HTTP service
func NewService(registry *Registry) *Service {
	return &Service{registry: registry}
}

// HandleListRooms handles GET /api/rooms. Rooms are returned verbatim, keyed by
// id, with no filtering or pagination. Quiz answers are part of the state and
// are listed too; only socket question payloads leave them out.
func (s *Service) HandleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms := s.registry.List()
	byID := lo.SliceToMap(rooms, func(room models.Room) (string, models.Room) {
		return room.ID, room
	})

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(byID); err != nil {
		log.Error().Err(err).Msg("failed to encode rooms response")
	}
}

// RegisterRoutes registers the room routes with an HTTP mux
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/rooms", s.HandleListRooms)
}
