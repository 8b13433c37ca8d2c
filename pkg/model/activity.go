package model

import (
	"time"
)

// TimeSlot is one bookable window on a recurring weekday. Current load is
// never stored on the slot; it is always derived from the live bookings
// collection.
type TimeSlot struct {
	StartTime   string `json:"start_time" bson:"start_time" validate:"required,clock_time"`
	EndTime     string `json:"end_time" bson:"end_time" validate:"required,clock_time"`
	MaxCapacity int    `json:"max_capacity,omitempty" bson:"max_capacity" validate:"omitempty,min=1,max=500"`
	IsAvailable *bool  `json:"is_available,omitempty" bson:"is_available"`
}

// Bookable reports whether the slot accepts bookings at all. An absent flag
// means available; only an explicit false disables the slot.
func (s TimeSlot) Bookable() bool {
	return s.IsAvailable == nil || *s.IsAvailable
}

// CapacityOr returns the slot's own capacity, falling back to the activity's
// participant maximum when no per-slot override is set.
func (s TimeSlot) CapacityOr(activityMax int) int {
	if s.MaxCapacity > 0 {
		return s.MaxCapacity
	}
	return activityMax
}

// Matches reports whether the slot covers exactly the given HH:mm window.
func (s TimeSlot) Matches(startTime, endTime string) bool {
	return s.StartTime == startTime && s.EndTime == endTime
}

// DailySchedule holds the recurring slots for one weekday.
// DayOfWeek follows time.Weekday: 0=Sunday .. 6=Saturday.
type DailySchedule struct {
	DayOfWeek int        `json:"day_of_week" bson:"day_of_week" validate:"min=0,max=6"`
	TimeSlots []TimeSlot `json:"time_slots" bson:"time_slots" validate:"required,min=1,dive"`
}

type Activity struct {
	ID               string          `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name             string          `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Description      string          `json:"description,omitempty" bson:"description" validate:"omitempty,max=2000"`
	IsActive         *bool           `json:"is_active,omitempty" bson:"is_active"`
	MinParticipants  int             `json:"min_participants" bson:"min_participants" validate:"required,min=1,max=500"`
	MaxParticipants  int             `json:"max_participants" bson:"max_participants" validate:"required,min=1,max=500,gtefield=MinParticipants"`
	DailySchedules   []DailySchedule `json:"daily_schedules,omitempty" bson:"daily_schedules" validate:"omitempty,max=7,dive"`
	UnavailableDates []string        `json:"unavailable_dates,omitempty" bson:"unavailable_dates" validate:"omitempty,dive,calendar_date"`
	CreatedAt        time.Time       `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type ActivityUpdate struct {
	Name             string           `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Description      *string          `json:"description,omitempty" validate:"omitempty,max=2000"`
	IsActive         *bool            `json:"is_active,omitempty"`
	MinParticipants  *int             `json:"min_participants,omitempty" validate:"omitempty,min=1,max=500"`
	MaxParticipants  *int             `json:"max_participants,omitempty" validate:"omitempty,min=1,max=500"`
	DailySchedules   *[]DailySchedule `json:"daily_schedules,omitempty" validate:"omitempty,max=7,dive"`
	UnavailableDates *[]string        `json:"unavailable_dates,omitempty" validate:"omitempty,dive,calendar_date"`
}

// Active reports whether the activity accepts bookings. Absent flag means
// active.
func (a *Activity) Active() bool {
	return a.IsActive == nil || *a.IsActive
}

// ScheduleFor returns the daily schedule for the given weekday. Weekday
// uniqueness across DailySchedules is enforced at validation time, so at most
// one entry can match.
func (a *Activity) ScheduleFor(day time.Weekday) (DailySchedule, bool) {
	for _, ds := range a.DailySchedules {
		if ds.DayOfWeek == int(day) {
			return ds, true
		}
	}
	return DailySchedule{}, false
}

// SlotsForDate returns the recurring slots applicable to a concrete calendar
// date. An empty slice means the activity does not operate that weekday,
// which is not an error.
func (a *Activity) SlotsForDate(date time.Time) []TimeSlot {
	ds, ok := a.ScheduleFor(date.UTC().Weekday())
	if !ok {
		return nil
	}
	return ds.TimeSlots
}

// DateBlocked reports whether the YYYY-MM-DD date sits in the activity's
// blackout set.
func (a *Activity) DateBlocked(date string) bool {
	for _, d := range a.UnavailableDates {
		if d == date {
			return true
		}
	}
	return false
}
