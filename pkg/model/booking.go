package model

import (
	"time"
)

// Booking statuses. Only pending and confirmed bookings consume slot
// capacity; the terminal statuses free their seats.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
	StatusNoShow    = "no_show"
)

// statusTransitions encodes the booking lifecycle:
// pending -> confirmed|cancelled; confirmed -> completed|cancelled|no_show;
// cancelled/completed/no_show are terminal.
var statusTransitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
}

// CanTransition reports whether a booking may move from one status to
// another. Same-status writes are allowed (no-op updates).
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// CountsTowardCapacity reports whether a booking in this status consumes
// participant seats.
func CountsTowardCapacity(status string) bool {
	return status == StatusPending || status == StatusConfirmed
}

type Booking struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ActivityID    string    `json:"activity_id" bson:"activity_id" validate:"required,mongodb"`
	AgentID       string    `json:"agent_id,omitempty" bson:"agent_id,omitempty" validate:"omitempty,mongodb"`
	CustomerName  string    `json:"customer_name" bson:"customer_name" validate:"required,min=2,max=100"`
	CustomerPhone string    `json:"customer_phone,omitempty" bson:"customer_phone" validate:"omitempty,e164"`
	Participants  int       `json:"participants" bson:"participants" validate:"required,min=1,max=500"`
	StartTime     time.Time `json:"start_time" bson:"start_time" validate:"required"`
	EndTime       time.Time `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	Status        string    `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled completed no_show"`
	Notes         string    `json:"notes,omitempty" bson:"notes" validate:"omitempty,max=1000"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type BookingUpdate struct {
	ActivityID    *string    `json:"activity_id,omitempty" validate:"omitempty,mongodb"`
	AgentID       *string    `json:"agent_id,omitempty" validate:"omitempty,mongodb"`
	CustomerName  string     `json:"customer_name,omitempty" validate:"omitempty,min=2,max=100"`
	CustomerPhone *string    `json:"customer_phone,omitempty" validate:"omitempty,e164"`
	Participants  *int       `json:"participants,omitempty" validate:"omitempty,min=1,max=500"`
	StartTime     *time.Time `json:"start_time,omitempty"`
	EndTime       *time.Time `json:"end_time,omitempty"`
	Status        string     `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed cancelled completed no_show"`
	Notes         *string    `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// CountsTowardCapacity reports whether this booking consumes seats.
func (b *Booking) CountsTowardCapacity() bool {
	return CountsTowardCapacity(b.Status)
}

// RechecksAvailability reports whether the update touches any field that
// feeds the slot-capacity math, requiring a full re-validation against the
// other bookings.
func (u *BookingUpdate) RechecksAvailability() bool {
	return u.ActivityID != nil || u.StartTime != nil || u.EndTime != nil || u.Participants != nil || u.AgentID != nil
}
