package model

import (
	"time"
)

type Agency struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name      string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Phone     string    `json:"phone,omitempty" bson:"phone" validate:"omitempty,e164"`
	IsActive  *bool     `json:"is_active,omitempty" bson:"is_active"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type AgencyUpdate struct {
	Name     string  `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,e164"`
	IsActive *bool   `json:"is_active,omitempty"`
}

func (a *Agency) Active() bool {
	return a.IsActive == nil || *a.IsActive
}

// AgencyUnavailableSchedule is a single blackout-date entry for an agency.
// Only active entries block bookings.
type AgencyUnavailableSchedule struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	AgencyID  string    `json:"agency_id" bson:"agency_id" validate:"required,mongodb"`
	Date      string    `json:"date" bson:"date" validate:"required,calendar_date"`
	Reason    string    `json:"reason,omitempty" bson:"reason" validate:"omitempty,max=200"`
	IsActive  *bool     `json:"is_active,omitempty" bson:"is_active"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type AgencyUnavailableScheduleUpdate struct {
	Date     string  `json:"date,omitempty" validate:"omitempty,calendar_date"`
	Reason   *string `json:"reason,omitempty" validate:"omitempty,max=200"`
	IsActive *bool   `json:"is_active,omitempty"`
}

func (s *AgencyUnavailableSchedule) Active() bool {
	return s.IsActive == nil || *s.IsActive
}
