package service

import (
	"context"

	"tourdesk/pkg/kafka"
	"tourdesk/pkg/middleware"
	"tourdesk/pkg/model"
)

// Booking lifecycle event types published to the booking events topic.
const (
	EventBookingCreated   = "booking.created"
	EventBookingUpdated   = "booking.updated"
	EventBookingCancelled = "booking.cancelled"

	eventSchemaVersion = "1"
	eventSource        = "bookings-service"
)

// EventPublisher is the slice of the Kafka producer the booking service
// needs. A nil publisher disables event publishing entirely.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// publishEvent emits a booking lifecycle event. Publishing is best effort:
// a broker failure is logged and never fails the calling request, the
// booking write has already committed.
func (s *bookingService) publishEvent(ctx context.Context, eventType string, booking *model.Booking) {
	if s.events == nil {
		return
	}

	builder := kafka.NewMessage().
		WithKey(booking.ID).
		WithValue(booking).
		WithEventType(eventType).
		WithSchemaVersion(eventSchemaVersion).
		WithSource(eventSource)

	if requestID, ok := ctx.Value(middleware.RequestIDKey).(string); ok && requestID != "" {
		builder = builder.WithCorrelationID(requestID)
	}

	if err := s.events.Publish(ctx, builder.Build()); err != nil {
		s.cfg.Log.Error("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
		return
	}

	s.cfg.Log.Debug("Booking event published",
		"event_type", eventType,
		"booking_id", booking.ID,
	)
}
