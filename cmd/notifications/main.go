package main

import (
	"context"

	"golfmaster/internal/notifications/dispatcher"
	"golfmaster/internal/notifications/handler"
	"golfmaster/internal/notifications/repository"
	"golfmaster/internal/notifications/service"
	reservationsrepo "golfmaster/internal/reservations/repository"
	"golfmaster/pkg/app"
	"golfmaster/pkg/config"
	"golfmaster/pkg/kafka"
	kafka_middleware "golfmaster/pkg/kafka/middleware"
)

const ServiceName = "notifications"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Notifications service")
	notificationRepo := repository.NewMongoNotificationRepository(cfg)
	notificationService := service.NewNotificationService(
		notificationRepo,
		reservationsrepo.NewMongoReservationRepository(cfg),
		cfg,
	)

	serverApp := app.NewApplication(cfg)
	if cfg.Kafka.Enabled {
		startDispatcher(cfg, serverApp, notificationRepo)
	}

	serverApp.SetApp(handler.NewNotificationHandler(notificationService, cfg.Log))
	serverApp.Run()
}

// startDispatcher consumes invitation events and pushes each notification
// to its recipient.
func startDispatcher(cfg *config.Config, serverApp *app.Application, store dispatcher.NotificationStore) {
	d := dispatcher.New(store, dispatcher.NewLogPusher(cfg.Log), cfg.Log)

	consumer, err := kafka.NewConsumer(
		cfg.Kafka,
		cfg.Kafka.NotificationsTopic,
		cfg.Kafka.NotificationsGroupID,
		cfg.Kafka.NotificationsDLQTopic,
		d.Handle,
		cfg.Log,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	if cfg.Kafka.EnableMiddleware {
		consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))
	}

	serverApp.AddWorker("notification-dispatcher", consumer.Start)
	serverApp.OnShutdown(func(context.Context) {
		if err := consumer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka consumer", "error", err)
		}
	})
}
