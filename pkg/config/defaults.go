package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "golfmaster"
	DefaultMongoConnTimeout  = 10 * time.Second
	DefaultMongoQueryTimeout = 5 * time.Second

	DefaultReservationsCollection  = "reservas"
	DefaultNotificationsCollection = "notificaciones"
	DefaultPlayersCollection       = "jugadores"

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultJWTIssuer = "golfmaster"

	DefaultRateLimitRequests = 60 // per minute, per user
	DefaultRateLimitBurst    = 10

	DefaultRequestTimeout       = 30 * time.Second
	DefaultIdempotencyTTL       = 24 * time.Hour
	DefaultIdempotencyStorePath = "" // in-memory when empty
	DefaultMaxRequestSize       = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 0 // unlimited, the reservation feed is a long-lived stream
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultClubTimeZone  = "Europe/Madrid"
	DefaultFeedHeartbeat = 25 * time.Second

	DefaultPaginationLimit = 100
	MinPaginationLimit     = 10
)
