package main

import (
	"golfmaster/internal/players/handler"
	"golfmaster/internal/players/repository"
	"golfmaster/internal/players/service"
	"golfmaster/internal/players/validator"
	"golfmaster/pkg/app"
	"golfmaster/pkg/config"
)

const ServiceName = "players"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Players service")
	playerService := service.NewPlayerService(
		repository.NewMongoPlayerRepository(cfg),
		validator.NewPlayerValidator(),
		cfg,
	)
	cfg.Log.Info("Player service initialized", "database", cfg.MongoDatabaseName)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewPlayerHandler(playerService, cfg.Log))
	serverApp.Run()
}
