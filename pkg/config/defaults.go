package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "tourdesk"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultBookingLockTTL      = 10 * time.Second
	DefaultMaxAlternativeSlots = 3
	DefaultMaxSlotCapacity     = 500

	DefaultBookingEventsEnabled = false
	DefaultBookingEventsTopic   = "tourdesk.bookings"
	DefaultBookingEventsDLQ     = "tourdesk.bookings.dlq"

	DefaultPaginationLimit = 100
)
