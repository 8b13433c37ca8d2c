package service

import (
	"context"
	"errors"
	"fmt"

	activityerrors "tourdesk/internal/activities/errors"
	apperrors "tourdesk/pkg/errors"
	"tourdesk/pkg/model"
)

// AvailabilityForDate returns the live capacity of every recurring slot of
// an activity on a concrete calendar date. An activity that does not
// operate that weekday yields an empty list; an inactive activity or a
// blackout date yields the slots with their availability forced off.
func (s *bookingService) AvailabilityForDate(ctx context.Context, activityID string, date string) ([]model.SlotAvailability, error) {
	if activityID == "" {
		return nil, apperrors.InvalidInput("Activity ID cannot be empty")
	}

	day, err := model.ParseDate(date)
	if err != nil {
		return nil, apperrors.InvalidInput(fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD", date))
	}

	activity, err := s.activities.FindByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, activityerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Activity", activityID)
		}
		if errors.Is(err, activityerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid activity ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve activity", err)
	}

	slots := activity.SlotsForDate(day)
	if len(slots) == 0 {
		return []model.SlotAvailability{}, nil
	}

	blocked := !activity.Active() || activity.DateBlocked(date)

	availabilities := make([]model.SlotAvailability, 0, len(slots))
	for _, slot := range slots {
		availability, err := s.slotAvailability(ctx, activity, slot, day, "")
		if err != nil {
			return nil, err
		}
		if blocked {
			availability.IsAvailable = false
			availability.RemainingCapacity = 0
		}
		availabilities = append(availabilities, availability)
	}

	return availabilities, nil
}
