package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bookingserrors "tourdesk/internal/bookings/errors"
	"tourdesk/internal/bookings/repository"
	"tourdesk/internal/bookings/validator"
	"tourdesk/pkg/config"
	apperrors "tourdesk/pkg/errors"
	"tourdesk/pkg/model"
	"tourdesk/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, activityID string, limit int, offset int64) ([]*model.Booking, int64, error)
	Update(ctx context.Context, id string, updates *model.BookingUpdate) error
	Delete(ctx context.Context, id string) error
	Validate(ctx context.Context, req *model.BookingValidationRequest) (*model.BookingValidationResult, error)
	AvailabilityForDate(ctx context.Context, activityID string, date string) ([]model.SlotAvailability, error)
}

type bookingService struct {
	repo            repository.BookingRepository
	lockRepo        repository.BookingLockRepository
	validator       *validator.BookingValidator
	activities      ActivityReader
	agents          AgentReader
	agencyBlackouts AgencyBlackoutReader
	events          EventPublisher
	cfg             *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	validator *validator.BookingValidator,
	activities ActivityReader,
	agents AgentReader,
	agencyBlackouts AgencyBlackoutReader,
	events EventPublisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:            repo,
		lockRepo:        lockRepo,
		validator:       validator,
		activities:      activities,
		agents:          agents,
		agencyBlackouts: agencyBlackouts,
		events:          events,
		cfg:             cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	s.applyDefaults(booking)
	s.sanitize(booking)
	if err := s.validate(booking); err != nil {
		return err
	}

	// Advisory lock closes the read-check-write race between concurrent
	// requests for the same slot. Keyed by the matched slot's start so two
	// different windows inside one slot contend on the same lock.
	lockID, err := s.acquireSlotLock(ctx, booking.ActivityID, s.slotLockTime(ctx, booking))
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.releaseSlotLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyAvailability(sessCtx, booking, ""); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "error", err)
		return err
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"activity_id", booking.ActivityID,
		"participants", booking.Participants,
		"start_time", booking.StartTime,
	)
	s.publishEvent(ctx, EventBookingCreated, booking)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, activityID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, activityID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, activityID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) Update(ctx context.Context, id string, updates *model.BookingUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid booking ID format")
		}
		return apperrors.Internal("Failed to check booking existence", err)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Booking update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	if updates.Status != "" && !model.CanTransition(existing.Status, updates.Status) {
		return apperrors.Validation(
			fmt.Sprintf("Invalid status transition from %s to %s", existing.Status, updates.Status),
			map[string]any{"from": existing.Status, "to": updates.Status},
		)
	}

	merged := s.mergeBookingUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return err
	}

	// Only re-run the availability pipeline when the update touches seat
	// arithmetic and the booking still holds seats afterwards.
	recheck := merged.CountsTowardCapacity() && updates.RechecksAvailability()

	if recheck {
		lockID, err := s.acquireSlotLock(ctx, merged.ActivityID, s.slotLockTime(ctx, merged))
		if err != nil {
			return err
		}
		defer func() {
			if releaseErr := s.releaseSlotLock(ctx, lockID); releaseErr != nil {
				s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", releaseErr)
			}
		}()
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if recheck {
			if err := s.verifyAvailability(sessCtx, merged, id); err != nil {
				return err
			}
		}
		if _, err := s.repo.Update(sessCtx, id, merged); err != nil {
			return apperrors.Internal("Failed to update booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update booking", "id", id, "error", err)
		return err
	}

	s.cfg.Log.Info("Booking updated successfully", "id", id, "status", merged.Status)

	merged.ID = id
	if updates.Status == model.StatusCancelled && existing.Status != model.StatusCancelled {
		s.publishEvent(ctx, EventBookingCancelled, merged)
	} else {
		s.publishEvent(ctx, EventBookingUpdated, merged)
	}
	return nil
}

func (s *bookingService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid booking ID format")
		}
		return apperrors.Internal("Failed to check booking existence", err)
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Delete(sessCtx, id); err != nil {
			if errors.Is(err, bookingserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Booking", id)
			}
			return apperrors.Internal("Failed to delete booking", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cfg.Log.Info("Booking deleted successfully", "id", id)
	s.publishEvent(ctx, EventBookingCancelled, existing)
	return nil
}

// --- Helpers ---

func (s *bookingService) applyDefaults(b *model.Booking) {
	if b.Status == "" {
		b.Status = model.StatusPending
	}
}

func (s *bookingService) sanitize(b *model.Booking) {
	b.CustomerName = sanitizer.NormalizeName(b.CustomerName)
	b.Notes = sanitizer.TrimAndNormalize(b.Notes)
}

func (s *bookingService) mergeBookingUpdates(existing *model.Booking, updates *model.BookingUpdate) *model.Booking {
	merged := *existing

	if updates.ActivityID != nil {
		merged.ActivityID = *updates.ActivityID
	}
	if updates.AgentID != nil {
		merged.AgentID = *updates.AgentID
	}
	if updates.CustomerName != "" {
		merged.CustomerName = updates.CustomerName
	}
	if updates.CustomerPhone != nil {
		merged.CustomerPhone = *updates.CustomerPhone
	}
	if updates.Participants != nil {
		merged.Participants = *updates.Participants
	}
	if updates.StartTime != nil {
		merged.StartTime = *updates.StartTime
	}
	if updates.EndTime != nil {
		merged.EndTime = *updates.EndTime
	}
	if updates.Status != "" {
		merged.Status = updates.Status
	}
	if updates.Notes != nil {
		merged.Notes = *updates.Notes
	}

	return &merged
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

// verifyAvailability runs the availability pipeline for a booking about to
// be written. Bookings in non-seat-holding statuses skip the check.
func (s *bookingService) verifyAvailability(ctx context.Context, booking *model.Booking, excludeID string) error {
	if !booking.CountsTowardCapacity() {
		return nil
	}

	req := &model.BookingValidationRequest{
		ActivityID:       booking.ActivityID,
		AgentID:          booking.AgentID,
		Participants:     booking.Participants,
		StartTime:        booking.StartTime.UTC().Format(time.RFC3339),
		EndTime:          booking.EndTime.UTC().Format(time.RFC3339),
		ExcludeBookingID: excludeID,
	}

	result, err := s.checkAvailability(ctx, req, booking.StartTime.UTC(), booking.EndTime.UTC(), false)
	if err != nil {
		return err
	}
	if !result.IsValid {
		return apperrors.Validation(result.Message, nil).WithValidationType(result.ValidationType)
	}
	return nil
}

// slotLockTime resolves the lock instant for a booking: the start of the
// recurring slot its window matches on the booking's date. Falls back to the
// booking's own start when no slot resolves; the availability check inside
// the transaction rejects those anyway.
func (s *bookingService) slotLockTime(ctx context.Context, booking *model.Booking) time.Time {
	start := booking.StartTime.UTC()

	activity, err := s.activities.FindByID(ctx, booking.ActivityID)
	if err != nil {
		return start
	}
	slot, found := matchSlot(activity.SlotsForDate(start), start, booking.EndTime.UTC())
	if !found {
		return start
	}
	slotStart, err := model.At(start, slot.StartTime)
	if err != nil {
		return start
	}
	return slotStart
}

// acquireSlotLock creates an advisory lock for one activity slot.
// Returns the lock ID if successful, or conflict error if lock already exists
func (s *bookingService) acquireSlotLock(ctx context.Context, activityID string, startTime time.Time) (string, error) {
	lockID := fmt.Sprintf("booking_lock_%s_%d", activityID, startTime.Unix())

	lock := &model.BookingLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.lockTTL()),
	}

	_, err := s.lockRepo.Create(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This time slot is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire booking lock", err)
	}

	return lockID, nil
}

// releaseSlotLock removes the advisory lock
func (s *bookingService) releaseSlotLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}

func (s *bookingService) lockTTL() time.Duration {
	if s.cfg.BookingLockTTL > 0 {
		return s.cfg.BookingLockTTL
	}
	return 10 * time.Second
}
