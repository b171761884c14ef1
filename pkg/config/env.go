package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvCORSAllowedOrigins = "CORS_ALLOWED_ORIGINS"

	EnvDefaultSlotDurationMin = "DEFAULT_SLOT_DURATION_MIN"
	EnvDefaultStartOfDay      = "DEFAULT_START_OF_DAY"
	EnvDefaultEndOfDay        = "DEFAULT_END_OF_DAY"
	EnvDefaultMaxConcurrent   = "DEFAULT_MAX_CONCURRENT"

	EnvDepositRiskThreshold = "DEPOSIT_RISK_THRESHOLD"
	EnvHolidayRegion        = "HOLIDAY_REGION"

	EnvWeatherServiceURL     = "WEATHER_SERVICE_URL"
	EnvWeatherServiceAPIKey  = "WEATHER_SERVICE_API_KEY"
	EnvWeatherServiceCity    = "WEATHER_SERVICE_CITY"
	EnvWeatherServiceTimeout = "WEATHER_SERVICE_TIMEOUT"

	EnvRiskServiceURL     = "RISK_SERVICE_URL"
	EnvRiskServiceTimeout = "RISK_SERVICE_TIMEOUT"

	EnvKafkaBrokers         = "KAFKA_BROKERS"
	EnvConfirmationTopic    = "BOOKING_CONFIRMATION_TOPIC"
	EnvConfirmationDLQTopic = "BOOKING_CONFIRMATION_DLQ_TOPIC"

	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
)
