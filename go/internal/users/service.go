package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/mcdev12/quizroom/go/internal/models"
	"github.com/rs/zerolog/log"
)

// UsersApp defines what the HTTP layer needs from the users application
type UsersApp interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*models.User, error)
	GetUser(ctx context.Context, username string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

// Service exposes the user bootstrap endpoints
type Service struct {
	app UsersApp
}

// NewService creates a new users HTTP service
func NewService(app UsersApp) *Service {
	return &Service{
		app: app,
	}
}

// createUserResponse mirrors the acknowledgement shape clients expect
type createUserResponse struct {
	Message string       `json:"message"`
	User    *models.User `json:"user"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HandleCreateUser handles POST /api/users/create
func (s *Service) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	user, err := s.app.CreateUser(r.Context(), req)
	if err != nil {
		var verrs validator.ValidationErrors
		switch {
		case errors.Is(err, ErrUserAlreadyExists):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "User already exists"})
		case errors.As(err, &verrs):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "username is required"})
		default:
			log.Error().Err(err).Str("username", req.Username).Msg("failed to create user")
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to create user"})
		}
		return
	}

	writeJSON(w, http.StatusOK, createUserResponse{Message: "User created", User: user})
}

// HandleGetUser handles GET /api/users/{username}
func (s *Service) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	user, err := s.app.GetUser(r.Context(), username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "User not found"})
			return
		}
		log.Error().Err(err).Str("username", username).Msg("failed to get user")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to get user"})
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleListUsers handles GET /api/users, every balance ordered by username
func (s *Service) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	list, err := s.app.ListUsers(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list users")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to list users"})
		return
	}
	if list == nil {
		list = []models.User{}
	}

	writeJSON(w, http.StatusOK, list)
}

// RegisterRoutes registers the user routes with an HTTP mux
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/users/create", s.HandleCreateUser)
	mux.HandleFunc("GET /api/users", s.HandleListUsers)
	mux.HandleFunc("GET /api/users/{username}", s.HandleGetUser)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
