package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mcdev12/quizroom/go/internal/game/orchestrator"
	"github.com/stretchr/testify/require"
)

func TestSetupServer(t *testing.T) {
	cfg := Config{Port: "0", GameMode: "wager", LogLevel: "info"}
	services := setupServices(cfg, orchestrator.DefaultSettings(), nil)
	defer services.Orchestrator.Shutdown()

	server := setupServer(cfg, services)
	srv := httptest.NewServer(server.Handler)
	defer srv.Close()

	t.Run("should answer the health check", func(t *testing.T) {
		req := require.New(t)
		resp, err := http.Get(srv.URL + "/health")
		req.NoError(err)
		defer resp.Body.Close()
		req.Equal(http.StatusOK, resp.StatusCode)
	})

	t.Run("should serve users and rooms", func(t *testing.T) {
		req := require.New(t)
		resp, err := http.Post(srv.URL+"/api/users/create", "application/json", strings.NewReader(`{"username":"alice"}`))
		req.NoError(err)
		resp.Body.Close()
		req.Equal(http.StatusOK, resp.StatusCode)

		resp, err = http.Get(srv.URL + "/api/rooms")
		req.NoError(err)
		defer resp.Body.Close()
		var rooms map[string]any
		req.NoError(json.NewDecoder(resp.Body).Decode(&rooms))
		req.Empty(rooms)
	})

	t.Run("should allow cross origin requests", func(t *testing.T) {
		req := require.New(t)
		r, err := http.NewRequest(http.MethodGet, srv.URL+"/api/rooms", nil)
		req.NoError(err)
		r.Header.Set("Origin", "http://localhost:5173")

		resp, err := http.DefaultClient.Do(r)
		req.NoError(err)
		defer resp.Body.Close()
		req.Equal("*", resp.Header.Get("Access-Control-Allow-Origin"))
	})
}
