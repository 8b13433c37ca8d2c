package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	agencyerrors "tourdesk/internal/agencies/errors"
	"tourdesk/pkg/config"
	"tourdesk/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ScheduleCollectionName = "Agency_unavailable_schedules"
)

type mongoUnavailableScheduleRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

// ScheduleFilter narrows listing to one agency and/or one calendar date.
type ScheduleFilter struct {
	AgencyID string
	Date     string
}

type UnavailableScheduleRepository interface {
	Create(ctx context.Context, schedule *model.AgencyUnavailableSchedule) error
	FindByID(ctx context.Context, id string) (*model.AgencyUnavailableSchedule, error)
	Find(ctx context.Context, filter ScheduleFilter, limit int, offset int64) ([]*model.AgencyUnavailableSchedule, error)
	Count(ctx context.Context, filter ScheduleFilter) (int64, error)
	Update(ctx context.Context, id string, schedule *model.AgencyUnavailableSchedule) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id string) error
	ExistsForDate(ctx context.Context, agencyID string, date string) (bool, error)
	ExistsActiveForDate(ctx context.Context, agencyID string, date string) (bool, error)
}

func NewMongoUnavailableScheduleRepository(cfg *config.Config) UnavailableScheduleRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoUnavailableScheduleRepository{
		cfg:        cfg,
		collection: db.Collection(ScheduleCollectionName),
	}
}

func (r *mongoUnavailableScheduleRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoUnavailableScheduleRepository) Create(ctx context.Context, schedule *model.AgencyUnavailableSchedule) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	schedule.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, schedule)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return agencyerrors.ErrDuplicateSchedule
		}
		return fmt.Errorf("failed to create unavailable schedule: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		schedule.ID = oid.Hex()
	}
	return nil
}

func (r *mongoUnavailableScheduleRepository) FindByID(ctx context.Context, id string) (*model.AgencyUnavailableSchedule, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", agencyerrors.ErrInvalidID, id)
	}

	var schedule model.AgencyUnavailableSchedule
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&schedule)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, agencyerrors.ErrScheduleNotFound
		}
		return nil, fmt.Errorf("failed to find unavailable schedule: %w", err)
	}

	return &schedule, nil
}

func (r *mongoUnavailableScheduleRepository) Find(ctx context.Context, filter ScheduleFilter, limit int, offset int64) ([]*model.AgencyUnavailableSchedule, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, buildScheduleFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find unavailable schedules: %w", err)
	}
	defer cursor.Close(ctx)

	var schedules []*model.AgencyUnavailableSchedule
	if err = cursor.All(ctx, &schedules); err != nil {
		return nil, fmt.Errorf("failed to decode unavailable schedules: %w", err)
	}

	return schedules, nil
}

func (r *mongoUnavailableScheduleRepository) Count(ctx context.Context, filter ScheduleFilter) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildScheduleFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count unavailable schedules: %w", err)
	}

	return count, nil
}

func (r *mongoUnavailableScheduleRepository) Update(ctx context.Context, id string, schedule *model.AgencyUnavailableSchedule) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", agencyerrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"date":      schedule.Date,
			"reason":    schedule.Reason,
			"is_active": schedule.IsActive,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, agencyerrors.ErrDuplicateSchedule
		}
		return nil, fmt.Errorf("failed to update unavailable schedule: %w", err)
	}

	if result.MatchedCount == 0 {
		return nil, agencyerrors.ErrScheduleNotFound
	}

	return result, nil
}

func (r *mongoUnavailableScheduleRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", agencyerrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete unavailable schedule: %w", err)
	}

	if result.DeletedCount == 0 {
		return agencyerrors.ErrScheduleNotFound
	}

	return nil
}

func (r *mongoUnavailableScheduleRepository) ExistsForDate(ctx context.Context, agencyID string, date string) (bool, error) {
	return r.exists(ctx, bson.M{"agency_id": agencyID, "date": date})
}

// ExistsActiveForDate reports whether the agency has an active blackout on
// the date. Entries switched off via is_active=false do not block bookings.
func (r *mongoUnavailableScheduleRepository) ExistsActiveForDate(ctx context.Context, agencyID string, date string) (bool, error) {
	return r.exists(ctx, bson.M{
		"agency_id": agencyID,
		"date":      date,
		"is_active": bson.M{"$ne": false},
	})
}

func (r *mongoUnavailableScheduleRepository) exists(ctx context.Context, filter bson.M) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check unavailable schedule existence: %w", err)
	}
	return count > 0, nil
}

func buildScheduleFilter(filter ScheduleFilter) bson.M {
	query := bson.M{}
	if filter.AgencyID != "" {
		query["agency_id"] = filter.AgencyID
	}
	if filter.Date != "" {
		query["date"] = filter.Date
	}
	return query
}
