package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	agenterrors "tourdesk/internal/agents/errors"
	"tourdesk/internal/agents/repository"
	"tourdesk/internal/agents/validator"
	"tourdesk/pkg/config"
	apperrors "tourdesk/pkg/errors"
	"tourdesk/pkg/model"
	"tourdesk/pkg/sanitizer"
)

type AgentService interface {
	Create(ctx context.Context, agent *model.Agent) error
	GetByID(ctx context.Context, id string) (*model.Agent, error)
	GetAll(ctx context.Context, agencyID string, limit int, offset int64) ([]*model.Agent, int64, error)
	Update(ctx context.Context, id string, updates *model.AgentUpdate) error
	Delete(ctx context.Context, id string) error
	GetUnavailableDates(ctx context.Context, id string) ([]string, error)
	AddUnavailableDate(ctx context.Context, id string, date string) error
	RemoveUnavailableDate(ctx context.Context, id string, date string) error
	ReplaceUnavailableDates(ctx context.Context, id string, dates []string) ([]string, error)
}

type agentService struct {
	repo      repository.AgentRepository
	validator *validator.AgentValidator
	cfg       *config.Config
}

func NewAgentService(
	repo repository.AgentRepository,
	validator *validator.AgentValidator,
	cfg *config.Config,
) AgentService {
	return &agentService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *agentService) Create(ctx context.Context, agent *model.Agent) error {
	s.sanitize(agent)
	if err := s.validate(agent); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, agent); err != nil {
		s.cfg.Log.Error("Failed to create agent", "error", err)
		return apperrors.Internal("Failed to create agent", err)
	}

	s.cfg.Log.Info("Agent created successfully", "id", agent.ID, "name", agent.Name)
	return nil
}

func (s *agentService) GetByID(ctx context.Context, id string) (*model.Agent, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Agent ID cannot be empty")
	}

	agent, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, agenterrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Agent", id)
		}
		if errors.Is(err, agenterrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid agent ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve agent", err)
	}

	return agent, nil
}

func (s *agentService) GetAll(ctx context.Context, agencyID string, limit int, offset int64) ([]*model.Agent, int64, error) {
	var count int64
	var agents []*model.Agent
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, agencyID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count agents", "error", errCount)
			errCount = apperrors.Internal("Failed to count agents", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		agents, errFind = s.repo.FindAll(ctx, agencyID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list agents", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve agents", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return agents, count, nil
}

func (s *agentService) Update(ctx context.Context, id string, updates *model.AgentUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Agent ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, agenterrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Agent", id)
		}
		if errors.Is(err, agenterrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid agent ID format")
		}
		return apperrors.Internal("Failed to check agent existence", err)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Agent update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeAgentUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return err
	}

	if _, err := s.repo.Update(ctx, id, merged); err != nil {
		s.cfg.Log.Error("Failed to update agent", "id", id, "error", err)
		return apperrors.Internal("Failed to update agent", err)
	}

	s.cfg.Log.Info("Agent updated successfully", "id", id)
	return nil
}

func (s *agentService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Agent ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, agenterrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Agent", id)
		}
		if errors.Is(err, agenterrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid agent ID format")
		}
		return apperrors.Internal("Failed to delete agent", err)
	}

	s.cfg.Log.Info("Agent deleted successfully", "id", id)
	return nil
}

func (s *agentService) GetUnavailableDates(ctx context.Context, id string) ([]string, error) {
	agent, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if agent.UnavailableDates == nil {
		return []string{}, nil
	}
	return agent.UnavailableDates, nil
}

func (s *agentService) AddUnavailableDate(ctx context.Context, id string, date string) error {
	if id == "" {
		return apperrors.InvalidInput("Agent ID cannot be empty")
	}
	if !model.IsValidDate(date) {
		return apperrors.InvalidInput(fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD", date))
	}

	added, err := s.repo.AddUnavailableDate(ctx, id, date)
	if err != nil {
		if errors.Is(err, agenterrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Agent", id)
		}
		if errors.Is(err, agenterrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid agent ID format")
		}
		return apperrors.Internal("Failed to add unavailable date", err)
	}
	if !added {
		return apperrors.Conflict(fmt.Sprintf("Date %s is already marked unavailable", date))
	}

	s.cfg.Log.Info("Agent unavailable date added", "id", id, "date", date)
	return nil
}

func (s *agentService) RemoveUnavailableDate(ctx context.Context, id string, date string) error {
	if id == "" {
		return apperrors.InvalidInput("Agent ID cannot be empty")
	}
	if !model.IsValidDate(date) {
		return apperrors.InvalidInput(fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD", date))
	}

	err := s.repo.RemoveUnavailableDate(ctx, id, date)
	if err != nil {
		if errors.Is(err, agenterrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Agent", id)
		}
		if errors.Is(err, agenterrors.ErrDateNotFound) {
			return apperrors.NotFoundWithID("Unavailable date", date)
		}
		if errors.Is(err, agenterrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid agent ID format")
		}
		return apperrors.Internal("Failed to remove unavailable date", err)
	}

	s.cfg.Log.Info("Agent unavailable date removed", "id", id, "date", date)
	return nil
}

// ReplaceUnavailableDates overwrites the blackout set. Returns the stored
// set, deduplicated and sorted.
func (s *agentService) ReplaceUnavailableDates(ctx context.Context, id string, dates []string) ([]string, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Agent ID cannot be empty")
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
		if errors.Is(err, agenterrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Agent", id)
		}
		if errors.Is(err, agenterrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid agent ID format")
		}
		return nil, apperrors.Internal("Failed to replace unavailable dates", err)
	}

	s.cfg.Log.Info("Agent unavailable dates replaced", "id", id, "count", len(normalized))
	return normalized, nil
}

// --- Helpers ---

func (s *agentService) sanitize(a *model.Agent) {
	a.Name = sanitizer.NormalizeName(a.Name)
	a.UnavailableDates = sanitizer.NormalizeDateSet(a.UnavailableDates)
}

func (s *agentService) mergeAgentUpdates(existing *model.Agent, updates *model.AgentUpdate) *model.Agent {
	merged := *existing

	if updates.AgencyID != nil {
		merged.AgencyID = *updates.AgencyID
	}
	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Phone != nil {
		merged.Phone = *updates.Phone
	}
	if updates.IsActive != nil {
		merged.IsActive = updates.IsActive
	}
	if updates.UnavailableDates != nil {
		merged.UnavailableDates = *updates.UnavailableDates
	}

	return &merged
}

func (s *agentService) validate(agent *model.Agent) error {
	if err := s.validator.Validate(agent); err != nil {
		s.cfg.Log.Warn("Agent validation failed", "error", err)
		return apperrors.Validation("Agent validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}
