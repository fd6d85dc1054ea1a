package main

import (
	"github.com/mcdev12/quizroom/go/internal/game/gateway"
	"github.com/mcdev12/quizroom/go/internal/game/orchestrator"
	"github.com/mcdev12/quizroom/go/internal/rooms"
	"github.com/mcdev12/quizroom/go/internal/users"
)

type Services struct {
	Users        *users.Service
	Rooms        *rooms.Service
	Gateway      *gateway.Service
	Orchestrator *orchestrator.Orchestrator
}

func setupServices(cfg Config, settings orchestrator.Settings, publisher gateway.Publisher) *Services {
	// Repository layer → App layer → Service layer

	// Users
	userRepo := users.NewRepository()
	userApp := users.NewApp(userRepo, settings.Balances)
	userService := users.NewService(userApp)

	// Rooms
	registry := rooms.NewRegistry()
	roomService := rooms.NewService(registry)

	// Gateway and the room state machine behind it
	gatewayService := gateway.NewService(gateway.DefaultConfig(), publisher)
	orch := orchestrator.NewOrchestrator(userApp, registry, gatewayService.Broadcaster(), cfg.Mode(), settings, nil)
	gatewayService.SetDispatcher(orch)

	return &Services{
		Users:        userService,
		Rooms:        roomService,
		Gateway:      gatewayService,
		Orchestrator: orch,
	}
}
