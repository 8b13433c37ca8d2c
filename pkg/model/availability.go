package model

// SlotAvailability is the calculator's per-slot output for one calendar
// date. CurrentBookings is the participant-seat load, not a reservation
// count.
type SlotAvailability struct {
	StartTime         string `json:"start_time"`
	EndTime           string `json:"end_time"`
	MaxCapacity       int    `json:"max_capacity"`
	CurrentBookings   int    `json:"current_bookings"`
	RemainingCapacity int    `json:"remaining_capacity"`
	IsAvailable       bool   `json:"is_available"`
}

// BookingValidationRequest is the payload of the pre-flight validation
// endpoint. ExcludeBookingID lets an update be checked against all bookings
// except its own prior state.
type BookingValidationRequest struct {
	ActivityID       string `json:"activity_id" validate:"required,mongodb"`
	AgentID          string `json:"agent_id,omitempty" validate:"omitempty,mongodb"`
	Participants     int    `json:"participants" validate:"required,min=1,max=500"`
	StartTime        string `json:"start_time" validate:"required"`
	EndTime          string `json:"end_time" validate:"required"`
	ExcludeBookingID string `json:"exclude_booking_id,omitempty" validate:"omitempty,mongodb"`
}

// BookingValidationResult is the success payload of the pre-flight
// validation endpoint: the matched slot's live capacity plus up to three
// alternative slots that could hold the requested party.
type BookingValidationResult struct {
	IsValid        bool               `json:"is_valid"`
	ValidationType string             `json:"validation_type,omitempty"`
	Message        string             `json:"message,omitempty"`
	Slot           *SlotAvailability  `json:"slot,omitempty"`
	Alternatives   []SlotAvailability `json:"alternative_slots,omitempty"`
}
