package model

import (
	"testing"
	"time"
)

func boolPtr(b bool) *bool { return &b }

func TestActivity_SlotsForDate(t *testing.T) {
	activity := &Activity{
		MinParticipants: 1,
		MaxParticipants: 6,
		DailySchedules: []DailySchedule{
			{ // Monday
				DayOfWeek: 1,
				TimeSlots: []TimeSlot{
					{StartTime: "09:00", EndTime: "11:00", MaxCapacity: 6},
					{StartTime: "14:00", EndTime: "16:00"},
				},
			},
			{ // Saturday
				DayOfWeek: 6,
				TimeSlots: []TimeSlot{
					{StartTime: "10:00", EndTime: "12:00"},
				},
			},
		},
	}

	monday, _ := ParseDate("2025-09-01")
	if got := activity.SlotsForDate(monday); len(got) != 2 {
		t.Errorf("expected 2 slots on Monday, got %d", len(got))
	}

	tuesday, _ := ParseDate("2025-09-02")
	if got := activity.SlotsForDate(tuesday); len(got) != 0 {
		t.Errorf("expected no slots on Tuesday, got %d", len(got))
	}

	saturday, _ := ParseDate("2025-09-06")
	if got := activity.SlotsForDate(saturday); len(got) != 1 {
		t.Errorf("expected 1 slot on Saturday, got %d", len(got))
	}
}

func TestActivity_ScheduleFor_SundayFirstConvention(t *testing.T) {
	activity := &Activity{
		DailySchedules: []DailySchedule{
			{DayOfWeek: 0, TimeSlots: []TimeSlot{{StartTime: "08:00", EndTime: "09:00"}}},
		},
	}

	if _, ok := activity.ScheduleFor(time.Sunday); !ok {
		t.Error("day_of_week 0 must map to Sunday")
	}
	if _, ok := activity.ScheduleFor(time.Monday); ok {
		t.Error("Monday must not match a Sunday-only schedule")
	}
}

func TestTimeSlot_CapacityOr(t *testing.T) {
	withOverride := TimeSlot{StartTime: "09:00", EndTime: "11:00", MaxCapacity: 4}
	if got := withOverride.CapacityOr(10); got != 4 {
		t.Errorf("expected slot override 4, got %d", got)
	}

	noOverride := TimeSlot{StartTime: "09:00", EndTime: "11:00"}
	if got := noOverride.CapacityOr(10); got != 10 {
		t.Errorf("expected activity fallback 10, got %d", got)
	}
}

func TestTimeSlot_Bookable(t *testing.T) {
	if !(TimeSlot{}).Bookable() {
		t.Error("slot with absent flag must be bookable")
	}
	if !(TimeSlot{IsAvailable: boolPtr(true)}).Bookable() {
		t.Error("slot with explicit true must be bookable")
	}
	if (TimeSlot{IsAvailable: boolPtr(false)}).Bookable() {
		t.Error("slot with explicit false must not be bookable")
	}
}

func TestActivity_DateBlocked(t *testing.T) {
	activity := &Activity{UnavailableDates: []string{"2025-09-05", "2025-12-25"}}

	if !activity.DateBlocked("2025-09-05") {
		t.Error("expected 2025-09-05 to be blocked")
	}
	if activity.DateBlocked("2025-09-06") {
		t.Error("expected 2025-09-06 to be open")
	}
}
