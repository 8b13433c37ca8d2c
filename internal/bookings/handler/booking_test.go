package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "tourdesk/pkg/errors"
	"tourdesk/pkg/logger"
	"tourdesk/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockBookingService struct {
	createFunc       func(ctx context.Context, booking *model.Booking) error
	getByIDFunc      func(ctx context.Context, id string) (*model.Booking, error)
	getAllFunc       func(ctx context.Context, activityID string, limit int, offset int64) ([]*model.Booking, int64, error)
	updateFunc       func(ctx context.Context, id string, updates *model.BookingUpdate) error
	deleteFunc       func(ctx context.Context, id string) error
	validateFunc     func(ctx context.Context, req *model.BookingValidationRequest) (*model.BookingValidationResult, error)
	availabilityFunc func(ctx context.Context, activityID string, date string) ([]model.SlotAvailability, error)
}

func (m *mockBookingService) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	return nil
}

func (m *mockBookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, apperrors.NotFoundWithID("Booking", id)
}

func (m *mockBookingService) GetAll(ctx context.Context, activityID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	if m.getAllFunc != nil {
		return m.getAllFunc(ctx, activityID, limit, offset)
	}
	return []*model.Booking{}, 0, nil
}

func (m *mockBookingService) Update(ctx context.Context, id string, updates *model.BookingUpdate) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, updates)
	}
	return nil
}

func (m *mockBookingService) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockBookingService) Validate(ctx context.Context, req *model.BookingValidationRequest) (*model.BookingValidationResult, error) {
	if m.validateFunc != nil {
		return m.validateFunc(ctx, req)
	}
	return &model.BookingValidationResult{IsValid: true}, nil
}

func (m *mockBookingService) AvailabilityForDate(ctx context.Context, activityID string, date string) ([]model.SlotAvailability, error) {
	if m.availabilityFunc != nil {
		return m.availabilityFunc(ctx, activityID, date)
	}
	return []model.SlotAvailability{}, nil
}

func newTestRouter(svc *mockBookingService) *httprouter.Router {
	log := logger.New(logger.Config{Level: "info", Format: logger.JSON, Service: "test"})
	router := httprouter.New()
	NewBookingHandler(svc, log).RegisterRoutes(router)
	return router
}

func TestValidateEndpoint_RejectionReturnsOK(t *testing.T) {
	svc := &mockBookingService{
		validateFunc: func(ctx context.Context, req *model.BookingValidationRequest) (*model.BookingValidationResult, error) {
			return &model.BookingValidationResult{
				IsValid:        false,
				ValidationType: apperrors.ValidationSlotAvailability,
				Message:        "Slot capacity exceeded. Current: 4, Requested: 3, Maximum: 6",
			}, nil
		},
	}
	router := newTestRouter(svc)

	body := `{"activity_id":"64f0c0a1b2c3d4e5f6a7b8c9","participants":3,"start_time":"2025-09-01T09:00:00Z","end_time":"2025-09-01T11:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/validate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// A business rejection is a successful validation run, not an error.
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Data model.BookingValidationResult `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.IsValid {
		t.Error("expected invalid result")
	}
	if resp.Data.ValidationType != apperrors.ValidationSlotAvailability {
		t.Errorf("unexpected validation type %q", resp.Data.ValidationType)
	}
}

func TestValidateEndpoint_BadBody(t *testing.T) {
	router := newTestRouter(&mockBookingService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/validate", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetByID_NotFoundStatus(t *testing.T) {
	router := newTestRouter(&mockBookingService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/id/64f0c0a1b2c3d4e5f6a7b8cc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAvailabilityEndpoint_PassesQueryParams(t *testing.T) {
	var sawActivity, sawDate string
	svc := &mockBookingService{
		availabilityFunc: func(ctx context.Context, activityID string, date string) ([]model.SlotAvailability, error) {
			sawActivity = activityID
			sawDate = date
			return []model.SlotAvailability{
				{StartTime: "09:00", EndTime: "11:00", MaxCapacity: 6, RemainingCapacity: 6, IsAvailable: true},
			}, nil
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/availability?activity_id=64f0c0a1b2c3d4e5f6a7b8c9&date=2025-09-01", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if sawActivity != "64f0c0a1b2c3d4e5f6a7b8c9" || sawDate != "2025-09-01" {
		t.Errorf("query params not passed through: %q %q", sawActivity, sawDate)
	}
}

func TestCreate_ValidationFailureStatus(t *testing.T) {
	svc := &mockBookingService{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			return apperrors.Validation("Activity is not available on this date", nil).
				WithValidationType(apperrors.ValidationActivityUnavailableDate)
		},
	}
	router := newTestRouter(svc)

	body := `{"activity_id":"64f0c0a1b2c3d4e5f6a7b8c9","customer_name":"Dana Levi","participants":2,"start_time":"2025-09-01T09:00:00Z","end_time":"2025-09-01T11:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}

	var resp struct {
		Error   string         `json:"error"`
		Details map[string]any `json:"details"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Details[apperrors.DetailValidationType] != apperrors.ValidationActivityUnavailableDate {
		t.Errorf("expected validation_type detail, got %+v", resp.Details)
	}
}
