package rooms

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mcdev12/quizroom/go/internal/models"
)

// Registry is the process-wide set of live rooms
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

// NewRegistry creates an empty room registry
func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]*Room),
	}
}

// Create registers a new room
func (r *Registry) Create(room *Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rooms[room.ID()]; exists {
		return fmt.Errorf("room %s: %w", room.ID(), ErrRoomExists)
	}
	r.rooms[room.ID()] = room
	return nil
}

// Exists reports whether id is registered
func (r *Registry) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.rooms[id]
	return exists
}

// Get retrieves a room by id
func (r *Registry) Get(id string) (*Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, exists := r.rooms[id]
	if !exists {
		return nil, fmt.Errorf("room %s: %w", id, ErrRoomNotFound)
	}
	return room, nil
}

// Remove unregisters a room. It is not an error to remove an unknown id.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rooms, id)
}

// Rooms returns the registered rooms ordered by id
func (r *Registry) Rooms() []*Room {
	r.mu.RLock()
	out := make([]*Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		out = append(out, room)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// List returns a snapshot of every room state
func (r *Registry) List() []models.Room {
	rooms := r.Rooms()
	out := make([]models.Room, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, room.Snapshot())
	}
	return out
}

// Len returns the number of live rooms
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
