package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	bookingserrors "tourdesk/internal/bookings/errors"
	"tourdesk/internal/bookings/validator"
	apperrors "tourdesk/pkg/errors"
	"tourdesk/pkg/kafka"
	"tourdesk/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

type capturingPublisher struct {
	messages []kafka.Message
}

func (p *capturingPublisher) Publish(ctx context.Context, msg kafka.Message) error {
	p.messages = append(p.messages, msg)
	return nil
}

func newBookingTestService(repo *mockBookingRepository, locks *mockLockRepository, activity *model.Activity, events EventPublisher) BookingService {
	cfg := testConfig()
	if locks == nil {
		locks = &mockLockRepository{}
	}
	return NewBookingService(
		repo,
		locks,
		validator.NewBookingValidator(cfg.Log),
		&fakeActivityReader{activity: activity},
		&fakeAgentReader{},
		&fakeAgencyBlackouts{},
		events,
		cfg,
	)
}

func validBooking() *model.Booking {
	start, _ := time.Parse(time.RFC3339, "2025-09-01T09:00:00Z")
	end, _ := time.Parse(time.RFC3339, "2025-09-01T11:00:00Z")
	return &model.Booking{
		ActivityID:   testActivityID,
		CustomerName: "  dana   levi  ",
		Participants: 2,
		StartTime:    start,
		EndTime:      end,
	}
}

func TestCreateBooking_Valid(t *testing.T) {
	var created *model.Booking
	repo := overlapRepo(nil)
	repo.createFunc = func(ctx context.Context, booking *model.Booking) error {
		booking.ID = testBookingID
		created = booking
		return nil
	}

	var lockCreated, lockReleased string
	locks := &mockLockRepository{
		createFunc: func(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
			lockCreated = lock.ID
			return lock, nil
		},
		deleteFunc: func(ctx context.Context, lockID string) error {
			lockReleased = lockID
			return nil
		},
	}

	events := &capturingPublisher{}
	svc := newBookingTestService(repo, locks, surfingActivity(), events)

	booking := validBooking()
	if err := svc.Create(context.Background(), booking); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if created == nil {
		t.Fatal("expected booking to be persisted")
	}
	if created.Status != model.StatusPending {
		t.Errorf("expected default status pending, got %q", created.Status)
	}
	if created.CustomerName != "Dana Levi" {
		t.Errorf("expected sanitized customer name, got %q", created.CustomerName)
	}

	if lockCreated == "" {
		t.Error("expected advisory lock to be acquired")
	}
	if lockReleased != lockCreated {
		t.Errorf("expected lock %q to be released, got %q", lockCreated, lockReleased)
	}

	if len(events.messages) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events.messages))
	}
	if got := events.messages[0].GetEventType(); got != EventBookingCreated {
		t.Errorf("expected event type %q, got %q", EventBookingCreated, got)
	}
	if string(events.messages[0].Key) != testBookingID {
		t.Errorf("expected event keyed by booking ID, got %q", events.messages[0].Key)
	}
}

func TestCreateBooking_CapacityRejected(t *testing.T) {
	repo := overlapRepo([]*model.Booking{
		existingBooking(testBookingID, model.StatusConfirmed, 5, "2025-09-01T09:00:00Z", "2025-09-01T11:00:00Z"),
	})
	var persisted bool
	repo.createFunc = func(ctx context.Context, booking *model.Booking) error {
		persisted = true
		return nil
	}

	events := &capturingPublisher{}
	svc := newBookingTestService(repo, nil, surfingActivity(), events)

	err := svc.Create(context.Background(), validBooking())
	if err == nil {
		t.Fatal("expected capacity rejection")
	}
	appErr, ok := err.(*apperrors.AppError)
	if !ok || appErr.Code != apperrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	if vt := appErr.Details[apperrors.DetailValidationType]; vt != apperrors.ValidationSlotAvailability {
		t.Errorf("expected validation type %q, got %v", apperrors.ValidationSlotAvailability, vt)
	}
	if persisted {
		t.Error("rejected booking must not be persisted")
	}
	if len(events.messages) != 0 {
		t.Error("rejected booking must not publish events")
	}
}

func TestCreateBooking_SlotLockConflict(t *testing.T) {
	locks := &mockLockRepository{
		createFunc: func(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
			return nil, mongo.WriteException{
				WriteErrors: mongo.WriteErrors{{Code: 11000}},
			}
		},
	}
	svc := newBookingTestService(overlapRepo(nil), locks, surfingActivity(), nil)

	err := svc.Create(context.Background(), validBooking())
	if err == nil {
		t.Fatal("expected lock conflict")
	}
	appErr, ok := err.(*apperrors.AppError)
	if !ok || appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected CONFLICT, got %v", err)
	}
}

func TestUpdateBooking_InvalidStatusTransition(t *testing.T) {
	existing := existingBooking(testBookingID, model.StatusConfirmed, 2, "2025-09-01T09:00:00Z", "2025-09-01T11:00:00Z")
	repo := overlapRepo(nil)
	repo.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
		return existing, nil
	}
	svc := newBookingTestService(repo, nil, surfingActivity(), nil)

	err := svc.Update(context.Background(), testBookingID, &model.BookingUpdate{Status: model.StatusPending})
	if err == nil {
		t.Fatal("expected transition rejection")
	}
	appErr, ok := err.(*apperrors.AppError)
	if !ok || appErr.Code != apperrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	want := "Invalid status transition from confirmed to pending"
	if appErr.Message != want {
		t.Errorf("expected message %q, got %q", want, appErr.Message)
	}
}

func TestUpdateBooking_CancelPublishesCancelledEvent(t *testing.T) {
	existing := existingBooking(testBookingID, model.StatusConfirmed, 2, "2025-09-01T09:00:00Z", "2025-09-01T11:00:00Z")
	repo := overlapRepo(nil)
	repo.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
		return existing, nil
	}

	var lockAcquired bool
	locks := &mockLockRepository{
		createFunc: func(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
			lockAcquired = true
			return lock, nil
		},
	}

	events := &capturingPublisher{}
	svc := newBookingTestService(repo, locks, surfingActivity(), events)

	err := svc.Update(context.Background(), testBookingID, &model.BookingUpdate{Status: model.StatusCancelled})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Cancelling frees seats, so no availability recheck and no lock.
	if lockAcquired {
		t.Error("cancellation must not acquire a slot lock")
	}
	if len(events.messages) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events.messages))
	}
	if got := events.messages[0].GetEventType(); got != EventBookingCancelled {
		t.Errorf("expected event type %q, got %q", EventBookingCancelled, got)
	}
}

func TestUpdateBooking_ParticipantsChangeRechecksAvailability(t *testing.T) {
	existing := existingBooking(testBookingID, model.StatusConfirmed, 2, "2025-09-01T09:00:00Z", "2025-09-01T11:00:00Z")

	var sawExcludeID string
	repo := overlapRepo([]*model.Booking{existing})
	base := repo.findOverlappingFunc
	repo.findOverlappingFunc = func(ctx context.Context, activityID string, start, end time.Time, excludeID string) ([]*model.Booking, error) {
		sawExcludeID = excludeID
		return base(ctx, activityID, start, end, excludeID)
	}
	repo.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
		return existing, nil
	}

	events := &capturingPublisher{}
	svc := newBookingTestService(repo, nil, surfingActivity(), events)

	participants := 6
	err := svc.Update(context.Background(), testBookingID, &model.BookingUpdate{Participants: &participants})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if sawExcludeID != testBookingID {
		t.Errorf("expected the booking's own seats to be excluded, got %q", sawExcludeID)
	}
	if len(events.messages) != 1 || events.messages[0].GetEventType() != EventBookingUpdated {
		t.Errorf("expected a booking.updated event, got %+v", events.messages)
	}
}

func TestCreateBooking_LockKeyedByMatchedSlotStart(t *testing.T) {
	var lockCreated string
	locks := &mockLockRepository{
		createFunc: func(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
			lockCreated = lock.ID
			return lock, nil
		},
	}

	svc := newBookingTestService(overlapRepo(nil), locks, surfingActivity(), nil)

	// 09:30-10:30 sits inside the 09:00-11:00 slot; the lock must be keyed
	// by the slot's start so concurrent windows in one slot contend.
	booking := validBooking()
	booking.StartTime, _ = time.Parse(time.RFC3339, "2025-09-01T09:30:00Z")
	booking.EndTime, _ = time.Parse(time.RFC3339, "2025-09-01T10:30:00Z")
	if err := svc.Create(context.Background(), booking); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	slotStart, _ := time.Parse(time.RFC3339, "2025-09-01T09:00:00Z")
	want := fmt.Sprintf("booking_lock_%s_%d", testActivityID, slotStart.Unix())
	if lockCreated != want {
		t.Errorf("expected lock %q, got %q", want, lockCreated)
	}
}

func TestUpdateBooking_ActivityChangeRechecksAvailability(t *testing.T) {
	existing := existingBooking(testBookingID, model.StatusConfirmed, 2, "2025-09-01T09:00:00Z", "2025-09-01T11:00:00Z")

	var rechecked bool
	repo := overlapRepo(nil)
	repo.findOverlappingFunc = func(ctx context.Context, activityID string, start, end time.Time, excludeID string) ([]*model.Booking, error) {
		rechecked = true
		return nil, nil
	}
	repo.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
		return existing, nil
	}
	var updated *model.Booking
	repo.updateFunc = func(ctx context.Context, id string, booking *model.Booking) (*mongo.UpdateResult, error) {
		updated = booking
		return &mongo.UpdateResult{MatchedCount: 1}, nil
	}

	svc := newBookingTestService(repo, nil, surfingActivity(), nil)

	newActivityID := "64f0c0a1b2c3d4e5f6a7b8cd"
	err := svc.Update(context.Background(), testBookingID, &model.BookingUpdate{ActivityID: &newActivityID})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !rechecked {
		t.Error("expected availability to be rechecked when the activity changes")
	}
	if updated == nil || updated.ActivityID != newActivityID {
		t.Errorf("expected the new activity on the updated booking, got %+v", updated)
	}
}

func TestDeleteBooking_PublishesCancelledEvent(t *testing.T) {
	existing := existingBooking(testBookingID, model.StatusConfirmed, 2, "2025-09-01T09:00:00Z", "2025-09-01T11:00:00Z")
	repo := overlapRepo(nil)
	repo.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
		return existing, nil
	}

	events := &capturingPublisher{}
	svc := newBookingTestService(repo, nil, surfingActivity(), events)

	if err := svc.Delete(context.Background(), testBookingID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(events.messages) != 1 || events.messages[0].GetEventType() != EventBookingCancelled {
		t.Errorf("expected a booking.cancelled event, got %+v", events.messages)
	}
}

func TestGetBookingByID_NotFound(t *testing.T) {
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return nil, bookingserrors.ErrNotFound
		},
	}
	svc := newBookingTestService(repo, nil, surfingActivity(), nil)

	_, err := svc.GetByID(context.Background(), testBookingID)
	if err == nil {
		t.Fatal("expected error")
	}
	appErr, ok := err.(*apperrors.AppError)
	if !ok || appErr.Code != apperrors.CodeNotFound {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestGetAllBookings_FilterPassedThrough(t *testing.T) {
	var sawFilter string
	repo := &mockBookingRepository{
		findAllFunc: func(ctx context.Context, activityID string, limit int, offset int64) ([]*model.Booking, error) {
			sawFilter = activityID
			return []*model.Booking{}, nil
		},
		countFunc: func(ctx context.Context, activityID string) (int64, error) {
			return 0, nil
		},
	}
	svc := newBookingTestService(repo, nil, surfingActivity(), nil)

	if _, _, err := svc.GetAll(context.Background(), testActivityID, 10, 0); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if sawFilter != testActivityID {
		t.Errorf("expected activity filter %q, got %q", testActivityID, sawFilter)
	}
}
