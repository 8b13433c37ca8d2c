package validator

import (
	"testing"

	"tourdesk/pkg/logger"
	"tourdesk/pkg/model"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:     "info",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
}

func baseActivity() *model.Activity {
	return &model.Activity{
		Name:            "City Walking Tour",
		MinParticipants: 2,
		MaxParticipants: 12,
		DailySchedules: []model.DailySchedule{
			{
				DayOfWeek: 0,
				TimeSlots: []model.TimeSlot{{StartTime: "10:00", EndTime: "12:00"}},
			},
		},
	}
}

func TestValidate_OK(t *testing.T) {
	v := NewActivityValidator(testLogger())
	if err := v.Validate(baseActivity()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_BadClockTime(t *testing.T) {
	v := NewActivityValidator(testLogger())

	cases := []struct {
		name  string
		start string
		end   string
	}{
		{"hour out of range", "25:00", "26:00"},
		{"minutes out of range", "10:61", "11:00"},
		{"not a time", "morning", "noon"},
		{"end equals start", "10:00", "10:00"},
		{"end before start", "12:00", "10:00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := baseActivity()
			a.DailySchedules[0].TimeSlots = []model.TimeSlot{{StartTime: tc.start, EndTime: tc.end}}
			if err := v.Validate(a); err == nil {
				t.Errorf("expected error for slot %s-%s", tc.start, tc.end)
			}
		})
	}
}

func TestValidate_DayOfWeekBounds(t *testing.T) {
	v := NewActivityValidator(testLogger())

	a := baseActivity()
	a.DailySchedules[0].DayOfWeek = 7
	if err := v.Validate(a); err == nil {
		t.Error("expected error for day_of_week 7")
	}

	a.DailySchedules[0].DayOfWeek = -1
	if err := v.Validate(a); err == nil {
		t.Error("expected error for day_of_week -1")
	}
}

func TestValidate_BadBlackoutDate(t *testing.T) {
	v := NewActivityValidator(testLogger())

	a := baseActivity()
	a.UnavailableDates = []string{"2025/12/25"}
	if err := v.Validate(a); err == nil {
		t.Error("expected error for malformed blackout date")
	}
}

func TestValidateUpdate_MinMaxCrossCheck(t *testing.T) {
	v := NewActivityValidator(testLogger())

	minP, maxP := 10, 4
	err := v.ValidateUpdate(&model.ActivityUpdate{
		MinParticipants: &minP,
		MaxParticipants: &maxP,
	})
	if err == nil {
		t.Error("expected error when max below min")
	}

	maxP = 20
	err = v.ValidateUpdate(&model.ActivityUpdate{
		MinParticipants: &minP,
		MaxParticipants: &maxP,
	})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
