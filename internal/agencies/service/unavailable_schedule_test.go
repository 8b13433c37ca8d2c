package service

import (
	"context"
	"testing"
	"time"

	agencyerrors "tourdesk/internal/agencies/errors"
	"tourdesk/internal/agencies/repository"
	"tourdesk/internal/agencies/validator"
	"tourdesk/pkg/config"
	apperrors "tourdesk/pkg/errors"
	"tourdesk/pkg/logger"
	"tourdesk/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

type mockAgencyRepository struct {
	findByIDFunc func(ctx context.Context, id string) (*model.Agency, error)
}

func (m *mockAgencyRepository) Create(ctx context.Context, agency *model.Agency) error { return nil }
func (m *mockAgencyRepository) FindByID(ctx context.Context, id string) (*model.Agency, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return &model.Agency{ID: id, Name: "Coastal Tours"}, nil
}
func (m *mockAgencyRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Agency, error) {
	return nil, nil
}
func (m *mockAgencyRepository) Count(ctx context.Context) (int64, error) { return 0, nil }
func (m *mockAgencyRepository) Update(ctx context.Context, id string, agency *model.Agency) (*mongo.UpdateResult, error) {
	return &mongo.UpdateResult{MatchedCount: 1}, nil
}
func (m *mockAgencyRepository) Delete(ctx context.Context, id string) error { return nil }

type mockScheduleRepository struct {
	createFunc func(ctx context.Context, schedule *model.AgencyUnavailableSchedule) error
	existsFunc func(ctx context.Context, agencyID string, date string) (bool, error)
}

func (m *mockScheduleRepository) Create(ctx context.Context, schedule *model.AgencyUnavailableSchedule) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, schedule)
	}
	return nil
}
func (m *mockScheduleRepository) FindByID(ctx context.Context, id string) (*model.AgencyUnavailableSchedule, error) {
	return nil, agencyerrors.ErrScheduleNotFound
}
func (m *mockScheduleRepository) Find(ctx context.Context, filter repository.ScheduleFilter, limit int, offset int64) ([]*model.AgencyUnavailableSchedule, error) {
	return nil, nil
}
func (m *mockScheduleRepository) Count(ctx context.Context, filter repository.ScheduleFilter) (int64, error) {
	return 0, nil
}
func (m *mockScheduleRepository) Update(ctx context.Context, id string, schedule *model.AgencyUnavailableSchedule) (*mongo.UpdateResult, error) {
	return &mongo.UpdateResult{MatchedCount: 1}, nil
}
func (m *mockScheduleRepository) Delete(ctx context.Context, id string) error { return nil }
func (m *mockScheduleRepository) ExistsForDate(ctx context.Context, agencyID string, date string) (bool, error) {
	if m.existsFunc != nil {
		return m.existsFunc(ctx, agencyID, date)
	}
	return false, nil
}
func (m *mockScheduleRepository) ExistsActiveForDate(ctx context.Context, agencyID string, date string) (bool, error) {
	return false, nil
}

func testConfig() *config.Config {
	log := logger.New(logger.Config{
		Level:     "info",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	return &config.Config{
		Log:         log,
		ReadTimeout: 5 * time.Second,
	}
}

func TestScheduleCreate_DuplicateDate(t *testing.T) {
	cfg := testConfig()
	scheduleRepo := &mockScheduleRepository{
		existsFunc: func(ctx context.Context, agencyID string, date string) (bool, error) {
			return true, nil
		},
	}
	svc := NewUnavailableScheduleService(scheduleRepo, &mockAgencyRepository{}, validator.NewAgencyValidator(cfg.Log), cfg)

	err := svc.Create(context.Background(), &model.AgencyUnavailableSchedule{
		AgencyID: "64f000000000000000000002",
		Date:     "2025-09-15",
	})
	if err == nil {
		t.Fatal("expected conflict for duplicate date")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeConflict {
		t.Errorf("expected CONFLICT, got %s", apperrors.AsAppError(err).Code)
	}
}

func TestScheduleCreate_AgencyMissing(t *testing.T) {
	cfg := testConfig()
	agencyRepo := &mockAgencyRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Agency, error) {
			return nil, agencyerrors.ErrNotFound
		},
	}
	svc := NewUnavailableScheduleService(&mockScheduleRepository{}, agencyRepo, validator.NewAgencyValidator(cfg.Log), cfg)

	err := svc.Create(context.Background(), &model.AgencyUnavailableSchedule{
		AgencyID: "64f000000000000000000002",
		Date:     "2025-09-15",
	})
	if err == nil {
		t.Fatal("expected not found for missing agency")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", apperrors.AsAppError(err).Code)
	}
}

func TestScheduleCreate_BadDate(t *testing.T) {
	cfg := testConfig()
	svc := NewUnavailableScheduleService(&mockScheduleRepository{}, &mockAgencyRepository{}, validator.NewAgencyValidator(cfg.Log), cfg)

	err := svc.Create(context.Background(), &model.AgencyUnavailableSchedule{
		AgencyID: "64f000000000000000000002",
		Date:     "15-09-2025",
	})
	if err == nil {
		t.Fatal("expected validation error for malformed date")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeValidation {
		t.Errorf("expected VALIDATION_ERROR, got %s", apperrors.AsAppError(err).Code)
	}
}
