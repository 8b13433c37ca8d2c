package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	activityerrors "tourdesk/internal/activities/errors"
	"tourdesk/internal/activities/repository"
	"tourdesk/internal/activities/validator"
	"tourdesk/pkg/config"
	apperrors "tourdesk/pkg/errors"
	"tourdesk/pkg/model"
	"tourdesk/pkg/sanitizer"
)

type ActivityService interface {
	Create(ctx context.Context, activity *model.Activity) error
	GetByID(ctx context.Context, id string) (*model.Activity, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Activity, int64, error)
	Update(ctx context.Context, id string, updates *model.ActivityUpdate) error
	Delete(ctx context.Context, id string) error
	GetUnavailableDates(ctx context.Context, id string) ([]string, error)
	AddUnavailableDate(ctx context.Context, id string, date string) error
	RemoveUnavailableDate(ctx context.Context, id string, date string) error
	ReplaceUnavailableDates(ctx context.Context, id string, dates []string) ([]string, error)
}

type activityService struct {
	repo      repository.ActivityRepository
	validator *validator.ActivityValidator
	cfg       *config.Config
}

func NewActivityService(
	repo repository.ActivityRepository,
	validator *validator.ActivityValidator,
	cfg *config.Config,
) ActivityService {
	return &activityService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *activityService) Create(ctx context.Context, activity *model.Activity) error {
	s.sanitize(activity)
	if err := s.validate(activity); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, activity); err != nil {
		s.cfg.Log.Error("Failed to create activity", "error", err)
		return apperrors.Internal("Failed to create activity", err)
	}

	s.cfg.Log.Info("Activity created successfully",
		"id", activity.ID,
		"name", activity.Name,
	)
	return nil
}

func (s *activityService) GetByID(ctx context.Context, id string) (*model.Activity, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Activity ID cannot be empty")
	}

	activity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, activityerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Activity", id)
		}
		if errors.Is(err, activityerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid activity ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve activity", err)
	}

	return activity, nil
}

func (s *activityService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Activity, int64, error) {
	var count int64
	var activities []*model.Activity
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count activities", "error", errCount)
			errCount = apperrors.Internal("Failed to count activities", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		activities, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list activities", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve activities", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return activities, count, nil
}

func (s *activityService) Update(ctx context.Context, id string, updates *model.ActivityUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Activity ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, activityerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Activity", id)
		}
		if errors.Is(err, activityerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid activity ID format")
		}
		return apperrors.Internal("Failed to check activity existence", err)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Activity update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeActivityUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return err
	}

	if _, err := s.repo.Update(ctx, id, merged); err != nil {
		s.cfg.Log.Error("Failed to update activity", "id", id, "error", err)
		return apperrors.Internal("Failed to update activity", err)
	}

	s.cfg.Log.Info("Activity updated successfully", "id", id)
	return nil
}

func (s *activityService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Activity ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, activityerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Activity", id)
		}
		if errors.Is(err, activityerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid activity ID format")
		}
		return apperrors.Internal("Failed to delete activity", err)
	}

	s.cfg.Log.Info("Activity deleted successfully", "id", id)
	return nil
}

func (s *activityService) GetUnavailableDates(ctx context.Context, id string) ([]string, error) {
	activity, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if activity.UnavailableDates == nil {
		return []string{}, nil
	}
	return activity.UnavailableDates, nil
}

func (s *activityService) AddUnavailableDate(ctx context.Context, id string, date string) error {
	if id == "" {
		return apperrors.InvalidInput("Activity ID cannot be empty")
	}
	if !model.IsValidDate(date) {
		return apperrors.InvalidInput(fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD", date))
	}

	added, err := s.repo.AddUnavailableDate(ctx, id, date)
	if err != nil {
		if errors.Is(err, activityerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Activity", id)
		}
		if errors.Is(err, activityerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid activity ID format")
		}
		return apperrors.Internal("Failed to add unavailable date", err)
	}
	if !added {
		return apperrors.Conflict(fmt.Sprintf("Date %s is already marked unavailable", date))
	}

	s.cfg.Log.Info("Activity unavailable date added", "id", id, "date", date)
	return nil
}

func (s *activityService) RemoveUnavailableDate(ctx context.Context, id string, date string) error {
	if id == "" {
		return apperrors.InvalidInput("Activity ID cannot be empty")
	}
	if !model.IsValidDate(date) {
		return apperrors.InvalidInput(fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD", date))
	}

	err := s.repo.RemoveUnavailableDate(ctx, id, date)
	if err != nil {
		if errors.Is(err, activityerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Activity", id)
		}
		if errors.Is(err, activityerrors.ErrDateNotFound) {
			return apperrors.NotFoundWithID("Unavailable date", date)
		}
		if errors.Is(err, activityerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid activity ID format")
		}
		return apperrors.Internal("Failed to remove unavailable date", err)
	}

	s.cfg.Log.Info("Activity unavailable date removed", "id", id, "date", date)
	return nil
}

// ReplaceUnavailableDates overwrites the blackout set. Returns the stored
// set, deduplicated and sorted.
func (s *activityService) ReplaceUnavailableDates(ctx context.Context, id string, dates []string) ([]string, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Activity ID cannot be empty")
	}
	for _, date := range dates {
		if !model.IsValidDate(date) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD", date))
		}
	}

	normalized := sanitizer.NormalizeDateSet(dates)
	if normalized == nil {
		normalized = []string{}
	}

	if err := s.repo.ReplaceUnavailableDates(ctx, id, normalized); err != nil {
		if errors.Is(err, activityerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Activity", id)
		}
		if errors.Is(err, activityerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid activity ID format")
		}
		return nil, apperrors.Internal("Failed to replace unavailable dates", err)
	}

	s.cfg.Log.Info("Activity unavailable dates replaced", "id", id, "count", len(normalized))
	return normalized, nil
}

// --- Helpers ---

func (s *activityService) sanitize(a *model.Activity) {
	a.Name = sanitizer.NormalizeName(a.Name)
	a.Description = sanitizer.TrimAndNormalize(a.Description)
	a.UnavailableDates = sanitizer.NormalizeDateSet(a.UnavailableDates)
}

func (s *activityService) mergeActivityUpdates(existing *model.Activity, updates *model.ActivityUpdate) *model.Activity {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Description != nil {
		merged.Description = *updates.Description
	}
	if updates.IsActive != nil {
		merged.IsActive = updates.IsActive
	}
	if updates.MinParticipants != nil {
		merged.MinParticipants = *updates.MinParticipants
	}
	if updates.MaxParticipants != nil {
		merged.MaxParticipants = *updates.MaxParticipants
	}
	if updates.DailySchedules != nil {
		merged.DailySchedules = *updates.DailySchedules
	}
	if updates.UnavailableDates != nil {
		merged.UnavailableDates = *updates.UnavailableDates
	}

	return &merged
}

func (s *activityService) validate(activity *model.Activity) error {
	if err := s.validator.Validate(activity); err != nil {
		s.cfg.Log.Warn("Activity validation failed", "error", err)
		return apperrors.Validation("Activity validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}
