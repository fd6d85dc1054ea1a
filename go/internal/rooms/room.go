package rooms

import (
	"sync"

	"github.com/mcdev12/quizroom/go/internal/models"
)

// Timer is a running round timer owned by a room.
type Timer interface {
	Cancel()
}

// Room is a registered room. Its state and timer may only be touched while
// holding the room's lock; Snapshot is the only lock-free read.
type Room struct {
	mu    sync.Mutex
	state models.Room
	timer Timer
}

// NewRoom wraps the initial state of a room
func NewRoom(state models.Room) *Room {
	return &Room{state: state}
}

// ID returns the immutable room id
func (r *Room) ID() string {
	return r.state.ID
}

// Lock acquires the room for mutation
func (r *Room) Lock() { r.mu.Lock() }

// Unlock releases the room
func (r *Room) Unlock() { r.mu.Unlock() }

// State returns the mutable state. Caller must hold the lock.
func (r *Room) State() *models.Room {
	return &r.state
}

// Timer returns the live timer, or nil. Caller must hold the lock.
func (r *Room) Timer() Timer {
	return r.timer
}

// SetTimer cancels any live timer and installs t (which may be nil) in its
// place. Caller must hold the lock.
func (r *Room) SetTimer(t Timer) {
	if r.timer != nil && r.timer != t {
		r.timer.Cancel()
	}
	r.timer = t
}

// Snapshot returns a deep copy of the room state
func (r *Room) Snapshot() models.Room {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Clone()
}
