package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "bookable"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort = "8080"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 100

	// Slot defaults mirror the standard walk-in calendar: hour-long
	// appointments, business hours, one booking per slot.
	DefaultDefaultSlotDurationMin = 60
	DefaultDefaultStartOfDay      = "09:00"
	DefaultDefaultEndOfDay        = "17:00"
	DefaultDefaultMaxConcurrent   = 1

	DefaultDepositRiskThreshold = 50.0
	DefaultHolidayRegion        = "NZ"

	DefaultWeatherServiceURL     = "https://api.openweathermap.org/data/2.5"
	DefaultWeatherServiceCity    = "Auckland"
	DefaultWeatherServiceTimeout = 3 * time.Second

	DefaultRiskServiceURL     = "http://localhost:8501"
	DefaultRiskServiceTimeout = 3 * time.Second

	DefaultConfirmationTopic    = "booking.confirmations"
	DefaultConfirmationDLQTopic = "booking.confirmations.dlq"

	DefaultIdempotencyTTL = 24 * time.Hour

	// Advisory slot locks auto-expire so a crashed admission cannot
	// wedge a slot.
	SlotLockTTL = 10 * time.Second
)
