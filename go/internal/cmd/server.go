package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

func setupServer(cfg Config, services *Services) *http.Server {
	mux := http.NewServeMux()

	// Setup CORS middleware
	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
	})

	registerServices(mux, services)
	setupHealthCheck(mux)

	// Wrap with CORS
	handler := c.Handler(mux)

	return &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     h2c.NewHandler(handler, &http2.Server{}),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 120 * time.Second,
	}
}

func registerServices(mux *http.ServeMux, services *Services) {
	services.Users.RegisterRoutes(mux)
	services.Rooms.RegisterRoutes(mux)
	services.Gateway.RegisterRoutes(mux)
}

func setupHealthCheck(mux *http.ServeMux) {
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error().Err(err).Msg("failed to write health check response")
		}
	})
}
