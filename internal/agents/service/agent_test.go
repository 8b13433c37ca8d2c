package service

import (
	"context"
	"testing"
	"time"

	agenterrors "tourdesk/internal/agents/errors"
	"tourdesk/internal/agents/validator"
	"tourdesk/pkg/config"
	apperrors "tourdesk/pkg/errors"
	"tourdesk/pkg/logger"
	"tourdesk/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

type mockAgentRepository struct {
	createFunc       func(ctx context.Context, agent *model.Agent) error
	findByIDFunc     func(ctx context.Context, id string) (*model.Agent, error)
	findAllFunc      func(ctx context.Context, agencyID string, limit int, offset int64) ([]*model.Agent, error)
	countFunc        func(ctx context.Context, agencyID string) (int64, error)
	updateFunc       func(ctx context.Context, id string, agent *model.Agent) (*mongo.UpdateResult, error)
	deleteFunc       func(ctx context.Context, id string) error
	addDateFunc      func(ctx context.Context, id string, date string) (bool, error)
	removeDateFunc   func(ctx context.Context, id string, date string) error
	replaceDatesFunc func(ctx context.Context, id string, dates []string) error
}

func (m *mockAgentRepository) Create(ctx context.Context, agent *model.Agent) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, agent)
	}
	return nil
}

func (m *mockAgentRepository) FindByID(ctx context.Context, id string) (*model.Agent, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, agenterrors.ErrNotFound
}

func (m *mockAgentRepository) FindAll(ctx context.Context, agencyID string, limit int, offset int64) ([]*model.Agent, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, agencyID, limit, offset)
	}
	return []*model.Agent{}, nil
}

func (m *mockAgentRepository) Count(ctx context.Context, agencyID string) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, agencyID)
	}
	return 0, nil
}

func (m *mockAgentRepository) Update(ctx context.Context, id string, agent *model.Agent) (*mongo.UpdateResult, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, agent)
	}
	return &mongo.UpdateResult{MatchedCount: 1}, nil
}

func (m *mockAgentRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockAgentRepository) AddUnavailableDate(ctx context.Context, id string, date string) (bool, error) {
	if m.addDateFunc != nil {
		return m.addDateFunc(ctx, id, date)
	}
	return true, nil
}

func (m *mockAgentRepository) RemoveUnavailableDate(ctx context.Context, id string, date string) error {
	if m.removeDateFunc != nil {
		return m.removeDateFunc(ctx, id, date)
	}
	return nil
}

func (m *mockAgentRepository) ReplaceUnavailableDates(ctx context.Context, id string, dates []string) error {
	if m.replaceDatesFunc != nil {
		return m.replaceDatesFunc(ctx, id, dates)
	}
	return nil
}

func testConfig() *config.Config {
	log := logger.New(logger.Config{
		Level:   "info",
		Format:  logger.JSON,
		Service: "test",
	})
	return &config.Config{
		Log:         log,
		ReadTimeout: 5 * time.Second,
	}
}

func newTestService(repo *mockAgentRepository) AgentService {
	cfg := testConfig()
	return NewAgentService(repo, validator.NewAgentValidator(cfg.Log), cfg)
}

func TestCreateAgent_SanitizesName(t *testing.T) {
	var created *model.Agent
	repo := &mockAgentRepository{
		createFunc: func(ctx context.Context, agent *model.Agent) error {
			created = agent
			return nil
		},
	}
	svc := newTestService(repo)

	agent := &model.Agent{Name: "  yossi    cohen "}
	if err := svc.Create(context.Background(), agent); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created == nil || created.Name != "Yossi Cohen" {
		t.Errorf("expected normalized name, got %+v", created)
	}
}

func TestCreateAgent_InvalidPhone(t *testing.T) {
	svc := newTestService(&mockAgentRepository{})

	agent := &model.Agent{Name: "Yossi Cohen", Phone: "050-1234567"}
	err := svc.Create(context.Background(), agent)
	if err == nil {
		t.Fatal("expected validation error for non-E.164 phone")
	}
	appErr, ok := err.(*apperrors.AppError)
	if !ok || appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestAddUnavailableDate_Duplicate(t *testing.T) {
	repo := &mockAgentRepository{
		addDateFunc: func(ctx context.Context, id string, date string) (bool, error) {
			return false, nil
		},
	}
	svc := newTestService(repo)

	err := svc.AddUnavailableDate(context.Background(), "64f0c0a1b2c3d4e5f6a7b8ca", "2025-09-01")
	if err == nil {
		t.Fatal("expected conflict for duplicate date")
	}
	appErr, ok := err.(*apperrors.AppError)
	if !ok || appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected CONFLICT, got %v", err)
	}
}

func TestAddUnavailableDate_MalformedDate(t *testing.T) {
	svc := newTestService(&mockAgentRepository{})

	err := svc.AddUnavailableDate(context.Background(), "64f0c0a1b2c3d4e5f6a7b8ca", "01/09/2025")
	if err == nil {
		t.Fatal("expected error for malformed date")
	}
	appErr, ok := err.(*apperrors.AppError)
	if !ok || appErr.Code != apperrors.CodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestRemoveUnavailableDate_Absent(t *testing.T) {
	repo := &mockAgentRepository{
		removeDateFunc: func(ctx context.Context, id string, date string) error {
			return agenterrors.ErrDateNotFound
		},
	}
	svc := newTestService(repo)

	err := svc.RemoveUnavailableDate(context.Background(), "64f0c0a1b2c3d4e5f6a7b8ca", "2025-09-01")
	if err == nil {
		t.Fatal("expected not found for absent date")
	}
	appErr, ok := err.(*apperrors.AppError)
	if !ok || appErr.Code != apperrors.CodeNotFound {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestGetAllAgents_AgencyFilter(t *testing.T) {
	var sawFilter string
	repo := &mockAgentRepository{
		findAllFunc: func(ctx context.Context, agencyID string, limit int, offset int64) ([]*model.Agent, error) {
			sawFilter = agencyID
			return []*model.Agent{}, nil
		},
	}
	svc := newTestService(repo)

	if _, _, err := svc.GetAll(context.Background(), "64f0c0a1b2c3d4e5f6a7b8cb", 10, 0); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if sawFilter != "64f0c0a1b2c3d4e5f6a7b8cb" {
		t.Errorf("expected agency filter to pass through, got %q", sawFilter)
	}
}
