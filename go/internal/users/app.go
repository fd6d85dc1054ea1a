package users

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/mcdev12/quizroom/go/internal/models"
	"github.com/rs/zerolog/log"
)

// UsersRepository defines what the app layer needs from the repository
type UsersRepository interface {
	CreateUser(ctx context.Context, username string, points int) (*models.User, error)
	GetOrCreateUser(ctx context.Context, username string, points int) (*models.User, bool, error)
	GetUser(ctx context.Context, username string) (*models.User, error)
	AdjustPoints(ctx context.Context, username string, delta int, floor bool) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

// App is the user ledger: identities and their point balances
type App struct {
	repo     UsersRepository
	balances Balances
	validate *validator.Validate
}

// NewApp creates a new users App
func NewApp(repo UsersRepository, balances Balances) *App {
	return &App{
		repo:     repo,
		balances: balances,
		validate: validator.New(),
	}
}

// CreateUser registers a user with the explicit-creation balance
func (a *App) CreateUser(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	if err := a.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	user, err := a.repo.CreateUser(ctx, req.Username, a.balances.Created)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info().Str("username", user.Username).Int("points", user.Points).Msg("created user")
	return user, nil
}

// GetUser retrieves a user by username
func (a *App) GetUser(ctx context.Context, username string) (*models.User, error) {
	user, err := a.repo.GetUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// EnsureUser returns the user, creating it with the implicit balance on first
// reference from a socket action
func (a *App) EnsureUser(ctx context.Context, username string) (*models.User, error) {
	user, created, err := a.repo.GetOrCreateUser(ctx, username, a.balances.Implicit)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure user: %w", err)
	}
	if created {
		log.Info().Str("username", username).Int("points", user.Points).Msg("created user on first use")
	}
	return user, nil
}

// Debit removes amount from the balance without a floor check
func (a *App) Debit(ctx context.Context, username string, amount int) (*models.User, error) {
	user, err := a.repo.AdjustPoints(ctx, username, -amount, false)
	if err != nil {
		return nil, fmt.Errorf("failed to debit user: %w", err)
	}
	return user, nil
}

// DebitIfSufficient removes amount only when the balance covers it. On
// ErrInsufficientBalance the balance is left untouched.
func (a *App) DebitIfSufficient(ctx context.Context, username string, amount int) (*models.User, error) {
	user, err := a.repo.AdjustPoints(ctx, username, -amount, true)
	if err != nil {
		return nil, fmt.Errorf("failed to debit user: %w", err)
	}
	return user, nil
}

// Credit adds amount to the balance
func (a *App) Credit(ctx context.Context, username string, amount int) (*models.User, error) {
	user, err := a.repo.AdjustPoints(ctx, username, amount, false)
	if err != nil {
		return nil, fmt.Errorf("failed to credit user: %w", err)
	}
	return user, nil
}

// ListUsers returns every known user
func (a *App) ListUsers(ctx context.Context) ([]models.User, error) {
	return a.repo.ListUsers(ctx)
}
