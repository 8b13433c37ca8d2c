package main

import (
	activityrepo "tourdesk/internal/activities/repository"
	agencyrepo "tourdesk/internal/agencies/repository"
	agentrepo "tourdesk/internal/agents/repository"
	"tourdesk/internal/bookings/handler"
	"tourdesk/internal/bookings/repository"
	"tourdesk/internal/bookings/service"
	"tourdesk/internal/bookings/validator"
	"tourdesk/pkg/app"
	"tourdesk/pkg/config"
	"tourdesk/pkg/kafka"
	kafkaconfig "tourdesk/pkg/kafka/config"
	kafkamiddleware "tourdesk/pkg/kafka/middleware"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Bookings service")

	producer := initProducer(cfg)
	if producer != nil {
		defer func() {
			if err := producer.Close(); err != nil {
				cfg.Log.Error("Failed to close Kafka producer", "error", err)
			}
		}()
	}

	bookingService := initServices(cfg, producer)
	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewBookingHandler(bookingService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config, producer *kafka.Producer) service.BookingService {
	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	lockRepo := repository.NewBookingLockRepository(cfg)

	// The availability pipeline reads activities, agents and agency
	// blackouts straight from their collections.
	activityReader := activityrepo.NewMongoActivityRepository(cfg)
	agentReader := agentrepo.NewMongoAgentRepository(cfg)
	agencyBlackouts := agencyrepo.NewMongoUnavailableScheduleRepository(cfg)

	var events service.EventPublisher
	if producer != nil {
		events = producer
	}

	bookingService := service.NewBookingService(
		bookingRepo,
		lockRepo,
		bookingValidator,
		activityReader,
		agentReader,
		agencyBlackouts,
		events,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}

// initProducer wires the lifecycle-event producer. Returns nil when event
// publishing is disabled, which turns publishing into a no-op.
func initProducer(cfg *config.Config) *kafka.Producer {
	if !cfg.BookingEventsEnabled {
		cfg.Log.Info("Booking event publishing disabled")
		return nil
	}

	kafkaCfg := kafkaconfig.Load()
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.BookingEventsTopic, cfg.BookingEventsDLQ)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	if kafkaCfg.EnableMiddleware {
		producer.Use(kafkamiddleware.LoggingProducerMiddleware(cfg.Log))
	}

	cfg.Log.Info("Booking event producer initialized",
		"topic", cfg.BookingEventsTopic,
		"dlq_topic", cfg.BookingEventsDLQ,
	)
	return producer
}
