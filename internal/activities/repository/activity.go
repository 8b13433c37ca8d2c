package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	activityerrors "tourdesk/internal/activities/errors"
	"tourdesk/pkg/config"
	"tourdesk/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Activities"
)

type mongoActivityRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type ActivityRepository interface {
	Create(ctx context.Context, activity *model.Activity) error
	FindByID(ctx context.Context, id string) (*model.Activity, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Activity, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id string, activity *model.Activity) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id string) error
	AddUnavailableDate(ctx context.Context, id string, date string) (bool, error)
	RemoveUnavailableDate(ctx context.Context, id string, date string) error
	ReplaceUnavailableDates(ctx context.Context, id string, dates []string) error
}

func NewMongoActivityRepository(cfg *config.Config) ActivityRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoActivityRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

// withTimeout wraps the context with a timeout unless we are inside a
// transaction, where wrapping the SessionContext would break transaction
// semantics.
func (r *mongoActivityRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoActivityRepository) Create(ctx context.Context, activity *model.Activity) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	activity.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, activity)
	if err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		activity.ID = oid.Hex()
	}
	return nil
}

func (r *mongoActivityRepository) FindByID(ctx context.Context, id string) (*model.Activity, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", activityerrors.ErrInvalidID, id)
	}

	var activity model.Activity
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&activity)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, activityerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find activity: %w", err)
	}

	return &activity, nil
}

func (r *mongoActivityRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Activity, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find activities: %w", err)
	}
	defer cursor.Close(ctx)

	var activities []*model.Activity
	if err = cursor.All(ctx, &activities); err != nil {
		return nil, fmt.Errorf("failed to decode activities: %w", err)
	}

	return activities, nil
}

func (r *mongoActivityRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count activities: %w", err)
	}

	return count, nil
}

func (r *mongoActivityRepository) Update(ctx context.Context, id string, activity *model.Activity) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", activityerrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"name":              activity.Name,
			"description":       activity.Description,
			"is_active":         activity.IsActive,
			"min_participants":  activity.MinParticipants,
			"max_participants":  activity.MaxParticipants,
			"daily_schedules":   activity.DailySchedules,
			"unavailable_dates": activity.UnavailableDates,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update activity: %w", err)
	}

	if result.MatchedCount == 0 {
		return nil, activityerrors.ErrNotFound
	}

	return result, nil
}

func (r *mongoActivityRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", activityerrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}

	if result.DeletedCount == 0 {
		return activityerrors.ErrNotFound
	}

	return nil
}

// AddUnavailableDate appends a blackout date via $addToSet. The boolean
// reports whether the date was actually added; false means it was already
// present.
func (r *mongoActivityRepository) AddUnavailableDate(ctx context.Context, id string, date string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, fmt.Errorf("%w: %s", activityerrors.ErrInvalidID, id)
	}

	update := bson.M{"$addToSet": bson.M{"unavailable_dates": date}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return false, fmt.Errorf("failed to add unavailable date: %w", err)
	}

	if result.MatchedCount == 0 {
		return false, activityerrors.ErrNotFound
	}

	return result.ModifiedCount > 0, nil
}

func (r *mongoActivityRepository) RemoveUnavailableDate(ctx context.Context, id string, date string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", activityerrors.ErrInvalidID, id)
	}

	update := bson.M{"$pull": bson.M{"unavailable_dates": date}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to remove unavailable date: %w", err)
	}

	if result.MatchedCount == 0 {
		return activityerrors.ErrNotFound
	}
	if result.ModifiedCount == 0 {
		return activityerrors.ErrDateNotFound
	}

	return nil
}

// ReplaceUnavailableDates overwrites the whole blackout set.
func (r *mongoActivityRepository) ReplaceUnavailableDates(ctx context.Context, id string, dates []string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", activityerrors.ErrInvalidID, id)
	}

	update := bson.M{"$set": bson.M{"unavailable_dates": dates}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to replace unavailable dates: %w", err)
	}

	if result.MatchedCount == 0 {
		return activityerrors.ErrNotFound
	}

	return nil
}
