package users

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mcdev12/quizroom/go/internal/models"
)

// Repository is an in-memory user ledger. All balance arithmetic happens under
// its lock so a check-and-debit can never interleave with another mutation.
type Repository struct {
	mu    sync.RWMutex
	users map[string]*models.User
	now   func() time.Time
}

// NewRepository creates a new empty users repository
func NewRepository() *Repository {
	return &Repository{
		users: make(map[string]*models.User),
		now:   time.Now,
	}
}

// CreateUser inserts a user with the given balance
func (r *Repository) CreateUser(ctx context.Context, username string, points int) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[username]; exists {
		return nil, fmt.Errorf("username %s: %w", username, ErrUserAlreadyExists)
	}

	user := &models.User{
		Username:  username,
		Points:    points,
		CreatedAt: r.now(),
	}
	r.users[username] = user

	cp := *user
	return &cp, nil
}

// GetOrCreateUser returns the user, inserting it with points when absent
func (r *Repository) GetOrCreateUser(ctx context.Context, username string, points int) (*models.User, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.users[username]
	if !exists {
		user = &models.User{
			Username:  username,
			Points:    points,
			CreatedAt: r.now(),
		}
		r.users[username] = user
	}

	cp := *user
	return &cp, !exists, nil
}

// GetUser retrieves a user by username
func (r *Repository) GetUser(ctx context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[username]
	if !exists {
		return nil, fmt.Errorf("username %s: %w", username, ErrUserNotFound)
	}

	cp := *user
	return &cp, nil
}

// AdjustPoints adds delta to the balance. When floor is true the adjustment is
// refused if the balance would drop below zero.
func (r *Repository) AdjustPoints(ctx context.Context, username string, delta int, floor bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.users[username]
	if !exists {
		return nil, fmt.Errorf("username %s: %w", username, ErrUserNotFound)
	}
	if floor && user.Points+delta < 0 {
		return nil, fmt.Errorf("username %s has %d points, needs %d: %w", username, user.Points, -delta, ErrInsufficientBalance)
	}
	user.Points += delta

	cp := *user
	return &cp, nil
}

// ListUsers returns a snapshot of every user ordered by username
func (r *Repository) ListUsers(ctx context.Context) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}
