package main

import (
	"context"

	notificationsrepo "golfmaster/internal/notifications/repository"
	"golfmaster/internal/reservations/handler"
	"golfmaster/internal/reservations/repository"
	"golfmaster/internal/reservations/service"
	"golfmaster/internal/reservations/validator"
	"golfmaster/internal/reservations/viewmodel"
	"golfmaster/pkg/app"
	"golfmaster/pkg/config"
	"golfmaster/pkg/kafka"
	kafka_middleware "golfmaster/pkg/kafka/middleware"
)

const ServiceName = "reservations"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Reservations service")
	serverApp := app.NewApplication(cfg)

	publisher := initPublisher(cfg)
	serverApp.OnShutdown(func(context.Context) {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close event publisher", "error", err)
		}
	})

	reservationService, live := initServices(cfg, publisher)
	newFeed := func() handler.Feed { return viewmodel.New(live, cfg.Log) }

	serverApp.SetApp(handler.NewReservationHandler(reservationService, newFeed, cfg.FeedHeartbeat, cfg.Log))
	serverApp.Run()
}

func initPublisher(cfg *config.Config) kafka.Publisher {
	if !cfg.Kafka.Enabled {
		return kafka.NopPublisher{}
	}

	producer, err := kafka.NewProducer(cfg.Kafka, cfg.Kafka.NotificationsTopic, cfg.Kafka.NotificationsDLQTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	if cfg.Kafka.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	}
	return producer
}

func initServices(cfg *config.Config, publisher kafka.Publisher) (service.ReservationService, repository.LiveQuery) {
	reservationRepo := repository.NewMongoReservationRepository(cfg)
	notificationRepo := notificationsrepo.NewMongoNotificationRepository(cfg)
	reservationService := service.NewReservationService(
		reservationRepo,
		notificationRepo,
		publisher,
		validator.NewReservationValidator(cfg.Log),
		cfg,
	)

	cfg.Log.Info("Reservation service initialized", "database", cfg.MongoDatabaseName)
	return reservationService, repository.NewMongoLiveQuery(cfg)
}
