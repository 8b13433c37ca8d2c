package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	activityerrors "tourdesk/internal/activities/errors"
	agenterrors "tourdesk/internal/agents/errors"
	apperrors "tourdesk/pkg/errors"
	"tourdesk/pkg/model"
)

// Messages returned by the booking validation pipeline.
const (
	msgNoSchedule       = "No schedule available for this day"
	msgNoSlot           = "No available time slot found for requested time"
	msgSlotDisabled     = "Time slot is not available for booking"
	msgCapacityExceeded = "Slot capacity exceeded. Current: %d, Requested: %d, Maximum: %d"
)

// Validate runs the full pre-flight pipeline for a prospective booking and
// reports the outcome without writing anything. Business rejections come
// back as an invalid result, not an error; errors are reserved for missing
// referenced entities and infrastructure failures.
func (s *bookingService) Validate(ctx context.Context, req *model.BookingValidationRequest) (*model.BookingValidationResult, error) {
	start, end, err := s.validator.ValidateRequest(req)
	if err != nil {
		s.cfg.Log.Warn("Booking validation request rejected", "error", err)
		return nil, apperrors.Validation("Invalid validation request", map[string]any{"error": err.Error()})
	}

	return s.checkAvailability(ctx, req, start, end, true)
}

// checkAvailability is the ordered rule chain: activity state, blackout
// dates (activity, agent, agency), weekday schedule, slot match, the slot's
// availability flag, and finally seat arithmetic against the live bookings.
// With suggest set, the result carries alternative slots and the success
// payload is tagged slot_availability; the write path skips the extra reads.
func (s *bookingService) checkAvailability(ctx context.Context, req *model.BookingValidationRequest, start, end time.Time, suggest bool) (*model.BookingValidationResult, error) {
	activity, err := s.activities.FindByID(ctx, req.ActivityID)
	if err != nil {
		if errors.Is(err, activityerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Activity", req.ActivityID)
		}
		if errors.Is(err, activityerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid activity ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve activity", err)
	}

	if !activity.Active() {
		return invalid(apperrors.ValidationActivityUnavailable, "Activity is not available for booking"), nil
	}

	// Participant bounds are a business rejection, not a schema error; the
	// message names the requested value and the violated bound.
	if req.Participants > activity.MaxParticipants {
		return invalid("",
			fmt.Sprintf("Number of participants (%d) exceeds activity maximum (%d)", req.Participants, activity.MaxParticipants)), nil
	}
	if req.Participants < activity.MinParticipants {
		return invalid("",
			fmt.Sprintf("Number of participants (%d) is below activity minimum (%d)", req.Participants, activity.MinParticipants)), nil
	}

	date := model.DateKey(start)

	if activity.DateBlocked(date) {
		return invalid(apperrors.ValidationActivityUnavailableDate, "Activity is not available on this date"), nil
	}

	if req.AgentID != "" {
		if result, err := s.checkAgent(ctx, req.AgentID, date); result != nil || err != nil {
			return result, err
		}
	}

	slots := activity.SlotsForDate(start)
	if len(slots) == 0 {
		return invalid(apperrors.ValidationSlotAvailability, msgNoSchedule), nil
	}

	slot, found := matchSlot(slots, start, end)
	if !found {
		result := invalid(apperrors.ValidationSlotAvailability, msgNoSlot)
		if suggest {
			alts, err := s.alternativeSlots(ctx, activity, slots, start, req, nil)
			if err != nil {
				return nil, err
			}
			result.Alternatives = alts
		}
		return result, nil
	}

	if !slot.Bookable() {
		result := invalid(apperrors.ValidationSlotAvailability, msgSlotDisabled)
		if suggest {
			alts, err := s.alternativeSlots(ctx, activity, slots, start, req, &slot)
			if err != nil {
				return nil, err
			}
			result.Alternatives = alts
		}
		return result, nil
	}

	availability, err := s.slotAvailability(ctx, activity, slot, start, req.ExcludeBookingID)
	if err != nil {
		return nil, err
	}

	if availability.CurrentBookings+req.Participants > availability.MaxCapacity {
		result := invalid(
			apperrors.ValidationSlotAvailability,
			fmt.Sprintf(msgCapacityExceeded, availability.CurrentBookings, req.Participants, availability.MaxCapacity),
		)
		result.Slot = &availability

		if suggest {
			alts, err := s.alternativeSlots(ctx, activity, slots, start, req, &slot)
			if err != nil {
				return nil, err
			}
			result.Alternatives = alts
		}
		return result, nil
	}

	result := &model.BookingValidationResult{
		IsValid:        true,
		ValidationType: apperrors.ValidationSlotAvailability,
		Slot:           &availability,
	}
	if suggest {
		alts, err := s.alternativeSlots(ctx, activity, slots, start, req, &slot)
		if err != nil {
			return nil, err
		}
		result.Alternatives = alts
	}
	return result, nil
}

func (s *bookingService) checkAgent(ctx context.Context, agentID, date string) (*model.BookingValidationResult, error) {
	agent, err := s.agents.FindByID(ctx, agentID)
	if err != nil {
		if errors.Is(err, agenterrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Agent", agentID)
		}
		if errors.Is(err, agenterrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid agent ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve agent", err)
	}

	if !agent.Active() || agent.DateBlocked(date) {
		return invalid(apperrors.ValidationAgentUnavailableDate, "Agent is not available on this date"), nil
	}

	if agent.AgencyID != "" {
		blocked, err := s.agencyBlackouts.ExistsActiveForDate(ctx, agent.AgencyID, date)
		if err != nil {
			return nil, apperrors.Internal("Failed to check agency availability", err)
		}
		if blocked {
			return invalid(apperrors.ValidationAgencyUnavailableDate, "Agency is not available on this date"), nil
		}
	}

	return nil, nil
}

// matchSlot finds the recurring slot hosting the requested window by the
// half-open overlap rule in minutes since midnight. An exact start/end match
// wins ties; otherwise the first overlapping slot is used. The availability
// flag is checked after matching, so a disabled slot still matches.
func matchSlot(slots []model.TimeSlot, start, end time.Time) (model.TimeSlot, bool) {
	reqStart := model.MinuteOfDay(start)
	reqEnd := model.MinuteOfDay(end)

	var overlapping *model.TimeSlot
	for i, slot := range slots {
		slotStart, err := model.ParseClock(slot.StartTime)
		if err != nil {
			continue
		}
		slotEnd, err := model.ParseClock(slot.EndTime)
		if err != nil {
			continue
		}

		if slotStart == reqStart && slotEnd == reqEnd {
			return slot, true
		}
		if overlapping == nil && model.ClockOverlaps(slotStart, slotEnd, reqStart, reqEnd) {
			overlapping = &slots[i]
		}
	}

	if overlapping != nil {
		return *overlapping, true
	}
	return model.TimeSlot{}, false
}

// slotAvailability computes the live seat load of one slot on the calendar
// date of ref. Current load is the participant sum of pending and confirmed
// bookings overlapping the slot window, minus the excluded booking.
func (s *bookingService) slotAvailability(ctx context.Context, activity *model.Activity, slot model.TimeSlot, ref time.Time, excludeID string) (model.SlotAvailability, error) {
	slotStart, err := model.At(ref, slot.StartTime)
	if err != nil {
		return model.SlotAvailability{}, apperrors.Internal("Invalid slot start time", err)
	}
	slotEnd, err := model.At(ref, slot.EndTime)
	if err != nil {
		return model.SlotAvailability{}, apperrors.Internal("Invalid slot end time", err)
	}

	overlapping, err := s.repo.FindOverlapping(ctx, activity.ID, slotStart, slotEnd, excludeID)
	if err != nil {
		return model.SlotAvailability{}, apperrors.Internal("Failed to check existing bookings", err)
	}

	current := 0
	for _, b := range overlapping {
		current += b.Participants
	}

	maxCapacity := slot.CapacityOr(activity.MaxParticipants)
	remaining := maxCapacity - current
	if remaining < 0 {
		remaining = 0
	}

	return model.SlotAvailability{
		StartTime:         slot.StartTime,
		EndTime:           slot.EndTime,
		MaxCapacity:       maxCapacity,
		CurrentBookings:   current,
		RemainingCapacity: remaining,
		IsAvailable:       slot.Bookable() && remaining > 0,
	}, nil
}

// alternativeSlots proposes other slots on the same day that can still hold
// the requested party, earliest first, capped by configuration. The matched
// slot, when there is one, is not its own alternative.
func (s *bookingService) alternativeSlots(ctx context.Context, activity *model.Activity, slots []model.TimeSlot, ref time.Time, req *model.BookingValidationRequest, matched *model.TimeSlot) ([]model.SlotAvailability, error) {
	maxAlternatives := s.cfg.MaxAlternativeSlots
	if maxAlternatives <= 0 {
		return nil, nil
	}

	reqStart := model.MinuteOfDay(ref)

	var alternatives []model.SlotAvailability
	for _, slot := range slots {
		if !slot.Bookable() {
			continue
		}
		if matched != nil && slot.Matches(matched.StartTime, matched.EndTime) {
			continue
		}
		slotStart, err := model.ParseClock(slot.StartTime)
		if err != nil {
			continue
		}
		if slotStart == reqStart {
			continue
		}

		availability, err := s.slotAvailability(ctx, activity, slot, ref, req.ExcludeBookingID)
		if err != nil {
			return nil, err
		}
		if availability.RemainingCapacity >= req.Participants {
			alternatives = append(alternatives, availability)
		}
	}

	sort.Slice(alternatives, func(i, j int) bool {
		return alternatives[i].StartTime < alternatives[j].StartTime
	})

	if len(alternatives) > maxAlternatives {
		alternatives = alternatives[:maxAlternatives]
	}
	return alternatives, nil
}

func invalid(validationType, message string) *model.BookingValidationResult {
	return &model.BookingValidationResult{
		IsValid:        false,
		ValidationType: validationType,
		Message:        message,
	}
}
