package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"
	EnvMongoQueryTimeout = "MONGO_QUERY_TIMEOUT"

	EnvReservationsCollection  = "MONGO_RESERVATIONS_COLLECTION"
	EnvNotificationsCollection = "MONGO_NOTIFICATIONS_COLLECTION"
	EnvPlayersCollection       = "MONGO_PLAYERS_COLLECTION"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvJWTSecret = "JWT_SECRET"
	EnvJWTIssuer = "JWT_ISSUER"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitBurst    = "RATE_LIMIT_BURST"

	EnvRequestTimeout       = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL       = "IDEMPOTENCY_TTL"
	EnvIdempotencyStorePath = "IDEMPOTENCY_STORE_PATH"
	EnvMaxRequestSize       = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvClubTimeZone  = "CLUB_TIME_ZONE"
	EnvFeedHeartbeat = "FEED_HEARTBEAT"
)
