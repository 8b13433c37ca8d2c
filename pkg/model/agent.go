package model

import (
	"time"
)

// Agent is a staff member who can be attached to bookings. Agents may belong
// to an agency; agency blackout dates then apply to their bookings too.
type Agent struct {
	ID               string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	AgencyID         string    `json:"agency_id,omitempty" bson:"agency_id,omitempty" validate:"omitempty,mongodb"`
	Name             string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Phone            string    `json:"phone,omitempty" bson:"phone" validate:"omitempty,e164"`
	IsActive         *bool     `json:"is_active,omitempty" bson:"is_active"`
	UnavailableDates []string  `json:"unavailable_dates,omitempty" bson:"unavailable_dates" validate:"omitempty,dive,calendar_date"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type AgentUpdate struct {
	AgencyID         *string   `json:"agency_id,omitempty" validate:"omitempty,mongodb"`
	Name             string    `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone            *string   `json:"phone,omitempty" validate:"omitempty,e164"`
	IsActive         *bool     `json:"is_active,omitempty"`
	UnavailableDates *[]string `json:"unavailable_dates,omitempty" validate:"omitempty,dive,calendar_date"`
}

func (a *Agent) Active() bool {
	return a.IsActive == nil || *a.IsActive
}

// DateBlocked reports whether the YYYY-MM-DD date sits in the agent's
// blackout set.
func (a *Agent) DateBlocked(date string) bool {
	for _, d := range a.UnavailableDates {
		if d == date {
			return true
		}
	}
	return false
}
