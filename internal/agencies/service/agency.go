package service

import (
	"context"
	"errors"
	"sync"

	agencyerrors "tourdesk/internal/agencies/errors"
	"tourdesk/internal/agencies/repository"
	"tourdesk/internal/agencies/validator"
	"tourdesk/pkg/config"
	apperrors "tourdesk/pkg/errors"
	"tourdesk/pkg/model"
	"tourdesk/pkg/sanitizer"
)

type AgencyService interface {
	Create(ctx context.Context, agency *model.Agency) error
	GetByID(ctx context.Context, id string) (*model.Agency, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Agency, int64, error)
	Update(ctx context.Context, id string, updates *model.AgencyUpdate) error
	Delete(ctx context.Context, id string) error
}

type agencyService struct {
	repo      repository.AgencyRepository
	validator *validator.AgencyValidator
	cfg       *config.Config
}

func NewAgencyService(
	repo repository.AgencyRepository,
	validator *validator.AgencyValidator,
	cfg *config.Config,
) AgencyService {
	return &agencyService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *agencyService) Create(ctx context.Context, agency *model.Agency) error {
	agency.Name = sanitizer.NormalizeName(agency.Name)

	if err := s.validator.Validate(agency); err != nil {
		s.cfg.Log.Warn("Agency validation failed", "error", err)
		return apperrors.Validation("Agency validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, agency); err != nil {
		s.cfg.Log.Error("Failed to create agency", "error", err)
		return apperrors.Internal("Failed to create agency", err)
	}

	s.cfg.Log.Info("Agency created successfully", "id", agency.ID, "name", agency.Name)
	return nil
}

func (s *agencyService) GetByID(ctx context.Context, id string) (*model.Agency, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Agency ID cannot be empty")
	}

	agency, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, agencyerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Agency", id)
		}
		if errors.Is(err, agencyerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid agency ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve agency", err)
	}

	return agency, nil
}

func (s *agencyService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Agency, int64, error) {
	var count int64
	var agencies []*model.Agency
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count agencies", "error", errCount)
			errCount = apperrors.Internal("Failed to count agencies", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		agencies, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list agencies", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve agencies", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return agencies, count, nil
}

func (s *agencyService) Update(ctx context.Context, id string, updates *model.AgencyUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Agency ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, agencyerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Agency", id)
		}
		if errors.Is(err, agencyerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid agency ID format")
		}
		return apperrors.Internal("Failed to check agency existence", err)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Agency update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := *existing
	if updates.Name != "" {
		merged.Name = sanitizer.NormalizeName(updates.Name)
	}
	if updates.Phone != nil {
		merged.Phone = *updates.Phone
	}
	if updates.IsActive != nil {
		merged.IsActive = updates.IsActive
	}

	if _, err := s.repo.Update(ctx, id, &merged); err != nil {
		s.cfg.Log.Error("Failed to update agency", "id", id, "error", err)
		return apperrors.Internal("Failed to update agency", err)
	}

	s.cfg.Log.Info("Agency updated successfully", "id", id)
	return nil
}

func (s *agencyService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Agency ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, agencyerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Agency", id)
		}
		if errors.Is(err, agencyerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid agency ID format")
		}
		return apperrors.Internal("Failed to delete agency", err)
	}

	s.cfg.Log.Info("Agency deleted successfully", "id", id)
	return nil
}
