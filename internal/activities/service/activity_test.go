package service

import (
	"context"
	"testing"
	"time"

	activityerrors "tourdesk/internal/activities/errors"
	"tourdesk/internal/activities/validator"
	"tourdesk/pkg/config"
	apperrors "tourdesk/pkg/errors"
	"tourdesk/pkg/logger"
	"tourdesk/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

type mockActivityRepository struct {
	createFunc       func(ctx context.Context, activity *model.Activity) error
	findByIDFunc     func(ctx context.Context, id string) (*model.Activity, error)
	findAllFunc      func(ctx context.Context, limit int, offset int64) ([]*model.Activity, error)
	countFunc        func(ctx context.Context) (int64, error)
	updateFunc       func(ctx context.Context, id string, activity *model.Activity) (*mongo.UpdateResult, error)
	deleteFunc       func(ctx context.Context, id string) error
	addDateFunc      func(ctx context.Context, id string, date string) (bool, error)
	removeDateFunc   func(ctx context.Context, id string, date string) error
	replaceDatesFunc func(ctx context.Context, id string, dates []string) error
}

func (m *mockActivityRepository) Create(ctx context.Context, activity *model.Activity) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, activity)
	}
	return nil
}

func (m *mockActivityRepository) FindByID(ctx context.Context, id string) (*model.Activity, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, activityerrors.ErrNotFound
}

func (m *mockActivityRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Activity, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, limit, offset)
	}
	return []*model.Activity{}, nil
}

func (m *mockActivityRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func (m *mockActivityRepository) Update(ctx context.Context, id string, activity *model.Activity) (*mongo.UpdateResult, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, activity)
	}
	return &mongo.UpdateResult{MatchedCount: 1}, nil
}

func (m *mockActivityRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockActivityRepository) AddUnavailableDate(ctx context.Context, id string, date string) (bool, error) {
	if m.addDateFunc != nil {
		return m.addDateFunc(ctx, id, date)
	}
	return true, nil
}

func (m *mockActivityRepository) RemoveUnavailableDate(ctx context.Context, id string, date string) error {
	if m.removeDateFunc != nil {
		return m.removeDateFunc(ctx, id, date)
	}
	return nil
}

func (m *mockActivityRepository) ReplaceUnavailableDates(ctx context.Context, id string, dates []string) error {
	if m.replaceDatesFunc != nil {
		return m.replaceDatesFunc(ctx, id, dates)
	}
	return nil
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

func validActivity() *model.Activity {
	return &model.Activity{
		Name:            "Surfing Lessons",
		MinParticipants: 1,
		MaxParticipants: 6,
		DailySchedules: []model.DailySchedule{
			{
				DayOfWeek: 1,
				TimeSlots: []model.TimeSlot{
					{StartTime: "09:00", EndTime: "11:00"},
					{StartTime: "14:00", EndTime: "16:00", MaxCapacity: 4},
				},
			},
		},
	}
}

func TestCreate_Valid(t *testing.T) {
	cfg := testConfig()

	var created *model.Activity
	mockRepo := &mockActivityRepository{
		createFunc: func(ctx context.Context, activity *model.Activity) error {
			created = activity
			activity.ID = "64f000000000000000000001"
			return nil
		},
	}

	svc := NewActivityService(mockRepo, validator.NewActivityValidator(cfg.Log), cfg)

	activity := validActivity()
	activity.Name = "  Surfing   Lessons  "
	if err := svc.Create(context.Background(), activity); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if created == nil {
		t.Fatal("expected repository create to be called")
	}
	if created.Name != "Surfing Lessons" {
		t.Errorf("expected sanitized name, got %q", created.Name)
	}
}

func TestCreate_DuplicateWeekdayRejected(t *testing.T) {
	cfg := testConfig()
	svc := NewActivityService(&mockActivityRepository{}, validator.NewActivityValidator(cfg.Log), cfg)

	activity := validActivity()
	activity.DailySchedules = append(activity.DailySchedules, model.DailySchedule{
		DayOfWeek: 1,
		TimeSlots: []model.TimeSlot{{StartTime: "17:00", EndTime: "18:00"}},
	})

	err := svc.Create(context.Background(), activity)
	if err == nil {
		t.Fatal("expected validation error for duplicate weekday")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected validation code, got %s", appErr.Code)
	}
}

func TestCreate_OverlappingSlotsRejected(t *testing.T) {
	cfg := testConfig()
	svc := NewActivityService(&mockActivityRepository{}, validator.NewActivityValidator(cfg.Log), cfg)

	activity := validActivity()
	activity.DailySchedules[0].TimeSlots = []model.TimeSlot{
		{StartTime: "09:00", EndTime: "11:00"},
		{StartTime: "10:00", EndTime: "12:00"},
	}

	if err := svc.Create(context.Background(), activity); err == nil {
		t.Fatal("expected validation error for overlapping slots")
	}
}

func TestCreate_MinAboveMaxRejected(t *testing.T) {
	cfg := testConfig()
	svc := NewActivityService(&mockActivityRepository{}, validator.NewActivityValidator(cfg.Log), cfg)

	activity := validActivity()
	activity.MinParticipants = 10
	activity.MaxParticipants = 6

	if err := svc.Create(context.Background(), activity); err == nil {
		t.Fatal("expected validation error for min above max")
	}
}

func TestUpdate_NotFound(t *testing.T) {
	cfg := testConfig()
	mockRepo := &mockActivityRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Activity, error) {
			return nil, activityerrors.ErrNotFound
		},
	}
	svc := NewActivityService(mockRepo, validator.NewActivityValidator(cfg.Log), cfg)

	err := svc.Update(context.Background(), "64f000000000000000000001", &model.ActivityUpdate{Name: "New Name"})
	if err == nil {
		t.Fatal("expected not found error")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", apperrors.AsAppError(err).Code)
	}
}

func TestAddUnavailableDate_Duplicate(t *testing.T) {
	cfg := testConfig()
	mockRepo := &mockActivityRepository{
		addDateFunc: func(ctx context.Context, id string, date string) (bool, error) {
			return false, nil
		},
	}
	svc := NewActivityService(mockRepo, validator.NewActivityValidator(cfg.Log), cfg)

	err := svc.AddUnavailableDate(context.Background(), "64f000000000000000000001", "2025-12-25")
	if err == nil {
		t.Fatal("expected conflict error for duplicate date")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeConflict {
		t.Errorf("expected CONFLICT, got %s", apperrors.AsAppError(err).Code)
	}
}

func TestAddUnavailableDate_MalformedDate(t *testing.T) {
	cfg := testConfig()
	svc := NewActivityService(&mockActivityRepository{}, validator.NewActivityValidator(cfg.Log), cfg)

	err := svc.AddUnavailableDate(context.Background(), "64f000000000000000000001", "25-12-2025")
	if err == nil {
		t.Fatal("expected invalid input error")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", apperrors.AsAppError(err).Code)
	}
}

func TestRemoveUnavailableDate_Absent(t *testing.T) {
	cfg := testConfig()
	mockRepo := &mockActivityRepository{
		removeDateFunc: func(ctx context.Context, id string, date string) error {
			return activityerrors.ErrDateNotFound
		},
	}
	svc := NewActivityService(mockRepo, validator.NewActivityValidator(cfg.Log), cfg)

	err := svc.RemoveUnavailableDate(context.Background(), "64f000000000000000000001", "2025-12-25")
	if err == nil {
		t.Fatal("expected not found error for absent date")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", apperrors.AsAppError(err).Code)
	}
}

func TestGetAll_Parallel(t *testing.T) {
	cfg := testConfig()

	mockRepo := &mockActivityRepository{
		countFunc: func(ctx context.Context) (int64, error) {
			time.Sleep(5 * time.Millisecond)
			return 7, nil
		},
		findAllFunc: func(ctx context.Context, limit int, offset int64) ([]*model.Activity, error) {
			time.Sleep(5 * time.Millisecond)
			return []*model.Activity{{ID: "1", Name: "Kayak Tour"}}, nil
		},
	}
	svc := NewActivityService(mockRepo, validator.NewActivityValidator(cfg.Log), cfg)

	for i := 0; i < 10; i++ {
		activities, count, err := svc.GetAll(context.Background(), 10, 0)
		if err != nil {
			t.Fatalf("iteration %d: unexpected error: %v", i, err)
		}
		if count != 7 {
			t.Errorf("iteration %d: expected count 7, got %d", i, count)
		}
		if len(activities) != 1 {
			t.Errorf("iteration %d: expected 1 activity, got %d", i, len(activities))
		}
	}
}
