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
	CollectionName = "Agencies"
)

type mongoAgencyRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type AgencyRepository interface {
	Create(ctx context.Context, agency *model.Agency) error
	FindByID(ctx context.Context, id string) (*model.Agency, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Agency, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id string, agency *model.Agency) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id string) error
}

func NewMongoAgencyRepository(cfg *config.Config) AgencyRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAgencyRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoAgencyRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoAgencyRepository) Create(ctx context.Context, agency *model.Agency) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	agency.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, agency)
	if err != nil {
		return fmt.Errorf("failed to create agency: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		agency.ID = oid.Hex()
	}
	return nil
}

func (r *mongoAgencyRepository) FindByID(ctx context.Context, id string) (*model.Agency, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", agencyerrors.ErrInvalidID, id)
	}

	var agency model.Agency
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&agency)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, agencyerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find agency: %w", err)
	}

	return &agency, nil
}

func (r *mongoAgencyRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Agency, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find agencies: %w", err)
	}
	defer cursor.Close(ctx)

	var agencies []*model.Agency
	if err = cursor.All(ctx, &agencies); err != nil {
		return nil, fmt.Errorf("failed to decode agencies: %w", err)
	}

	return agencies, nil
}

func (r *mongoAgencyRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count agencies: %w", err)
	}

	return count, nil
}

func (r *mongoAgencyRepository) Update(ctx context.Context, id string, agency *model.Agency) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", agencyerrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"name":      agency.Name,
			"phone":     agency.Phone,
			"is_active": agency.IsActive,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update agency: %w", err)
	}

	if result.MatchedCount == 0 {
		return nil, agencyerrors.ErrNotFound
	}

	return result, nil
}

func (r *mongoAgencyRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", agencyerrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete agency: %w", err)
	}

	if result.DeletedCount == 0 {
		return agencyerrors.ErrNotFound
	}

	return nil
}
