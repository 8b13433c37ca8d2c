package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	agencyerrors "tourdesk/internal/agencies/errors"
	"tourdesk/internal/agencies/repository"
	"tourdesk/internal/agencies/validator"
	"tourdesk/pkg/config"
	apperrors "tourdesk/pkg/errors"
	"tourdesk/pkg/model"
	"tourdesk/pkg/sanitizer"
)

type UnavailableScheduleService interface {
	Create(ctx context.Context, schedule *model.AgencyUnavailableSchedule) error
	GetByID(ctx context.Context, id string) (*model.AgencyUnavailableSchedule, error)
	GetAll(ctx context.Context, filter repository.ScheduleFilter, limit int, offset int64) ([]*model.AgencyUnavailableSchedule, int64, error)
	Update(ctx context.Context, id string, updates *model.AgencyUnavailableScheduleUpdate) error
	Delete(ctx context.Context, id string) error
}

type unavailableScheduleService struct {
	repo       repository.UnavailableScheduleRepository
	agencyRepo repository.AgencyRepository
	validator  *validator.AgencyValidator
	cfg        *config.Config
}

func NewUnavailableScheduleService(
	repo repository.UnavailableScheduleRepository,
	agencyRepo repository.AgencyRepository,
	validator *validator.AgencyValidator,
	cfg *config.Config,
) UnavailableScheduleService {
	return &unavailableScheduleService{
		repo:       repo,
		agencyRepo: agencyRepo,
		validator:  validator,
		cfg:        cfg,
	}
}

func (s *unavailableScheduleService) Create(ctx context.Context, schedule *model.AgencyUnavailableSchedule) error {
	schedule.Reason = sanitizer.TrimAndNormalize(schedule.Reason)

	if err := s.validator.ValidateSchedule(schedule); err != nil {
		s.cfg.Log.Warn("Unavailable schedule validation failed", "error", err)
		return apperrors.Validation("Unavailable schedule validation failed", map[string]any{"error": err.Error()})
	}

	if _, err := s.agencyRepo.FindByID(ctx, schedule.AgencyID); err != nil {
		if errors.Is(err, agencyerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Agency", schedule.AgencyID)
		}
		if errors.Is(err, agencyerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid agency ID format")
		}
		return apperrors.Internal("Failed to check agency existence", err)
	}

	exists, err := s.repo.ExistsForDate(ctx, schedule.AgencyID, schedule.Date)
	if err != nil {
		return apperrors.Internal("Failed to check schedule duplication", err)
	}
	if exists {
		return apperrors.Conflict(fmt.Sprintf("Agency already has an unavailable schedule on %s", schedule.Date))
	}

	if err := s.repo.Create(ctx, schedule); err != nil {
		if errors.Is(err, agencyerrors.ErrDuplicateSchedule) {
			return apperrors.Conflict(fmt.Sprintf("Agency already has an unavailable schedule on %s", schedule.Date))
		}
		s.cfg.Log.Error("Failed to create unavailable schedule", "error", err)
		return apperrors.Internal("Failed to create unavailable schedule", err)
	}

	s.cfg.Log.Info("Agency unavailable schedule created",
		"id", schedule.ID,
		"agency_id", schedule.AgencyID,
		"date", schedule.Date,
	)
	return nil
}

func (s *unavailableScheduleService) GetByID(ctx context.Context, id string) (*model.AgencyUnavailableSchedule, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Schedule ID cannot be empty")
	}

	schedule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, agencyerrors.ErrScheduleNotFound) {
			return nil, apperrors.NotFoundWithID("Unavailable schedule", id)
		}
		if errors.Is(err, agencyerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid schedule ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve unavailable schedule", err)
	}

	return schedule, nil
}

func (s *unavailableScheduleService) GetAll(ctx context.Context, filter repository.ScheduleFilter, limit int, offset int64) ([]*model.AgencyUnavailableSchedule, int64, error) {
	if filter.Date != "" && !model.IsValidDate(filter.Date) {
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD", filter.Date))
	}

	var count int64
	var schedules []*model.AgencyUnavailableSchedule
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, filter)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count unavailable schedules", "error", errCount)
			errCount = apperrors.Internal("Failed to count unavailable schedules", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		schedules, errFind = s.repo.Find(ctx, filter, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list unavailable schedules", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve unavailable schedules", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return schedules, count, nil
}

func (s *unavailableScheduleService) Update(ctx context.Context, id string, updates *model.AgencyUnavailableScheduleUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Schedule ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, agencyerrors.ErrScheduleNotFound) {
			return apperrors.NotFoundWithID("Unavailable schedule", id)
		}
		if errors.Is(err, agencyerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid schedule ID format")
		}
		return apperrors.Internal("Failed to check schedule existence", err)
	}

	if err := s.validator.ValidateScheduleUpdate(updates); err != nil {
		s.cfg.Log.Warn("Schedule update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := *existing
	if updates.Date != "" {
		merged.Date = updates.Date
	}
	if updates.Reason != nil {
		merged.Reason = sanitizer.TrimAndNormalize(*updates.Reason)
	}
	if updates.IsActive != nil {
		merged.IsActive = updates.IsActive
	}

	if merged.Date != existing.Date {
		exists, err := s.repo.ExistsForDate(ctx, merged.AgencyID, merged.Date)
		if err != nil {
			return apperrors.Internal("Failed to check schedule duplication", err)
		}
		if exists {
			return apperrors.Conflict(fmt.Sprintf("Agency already has an unavailable schedule on %s", merged.Date))
		}
	}

	if _, err := s.repo.Update(ctx, id, &merged); err != nil {
		if errors.Is(err, agencyerrors.ErrDuplicateSchedule) {
			return apperrors.Conflict(fmt.Sprintf("Agency already has an unavailable schedule on %s", merged.Date))
		}
		s.cfg.Log.Error("Failed to update unavailable schedule", "id", id, "error", err)
		return apperrors.Internal("Failed to update unavailable schedule", err)
	}

	s.cfg.Log.Info("Agency unavailable schedule updated", "id", id)
	return nil
}

func (s *unavailableScheduleService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Schedule ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, agencyerrors.ErrScheduleNotFound) {
			return apperrors.NotFoundWithID("Unavailable schedule", id)
		}
		if errors.Is(err, agencyerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid schedule ID format")
		}
		return apperrors.Internal("Failed to delete unavailable schedule", err)
	}

	s.cfg.Log.Info("Agency unavailable schedule deleted", "id", id)
	return nil
}
