package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	agenterrors "tourdesk/internal/agents/errors"
	"tourdesk/pkg/config"
	"tourdesk/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Agents"
)

type mongoAgentRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type AgentRepository interface {
	Create(ctx context.Context, agent *model.Agent) error
	FindByID(ctx context.Context, id string) (*model.Agent, error)
	FindAll(ctx context.Context, agencyID string, limit int, offset int64) ([]*model.Agent, error)
	Count(ctx context.Context, agencyID string) (int64, error)
	Update(ctx context.Context, id string, agent *model.Agent) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id string) error
	AddUnavailableDate(ctx context.Context, id string, date string) (bool, error)
	RemoveUnavailableDate(ctx context.Context, id string, date string) error
	ReplaceUnavailableDates(ctx context.Context, id string, dates []string) error
}

func NewMongoAgentRepository(cfg *config.Config) AgentRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAgentRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoAgentRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoAgentRepository) Create(ctx context.Context, agent *model.Agent) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	agent.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, agent)
	if err != nil {
		return fmt.Errorf("failed to create agent: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		agent.ID = oid.Hex()
	}
	return nil
}

func (r *mongoAgentRepository) FindByID(ctx context.Context, id string) (*model.Agent, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", agenterrors.ErrInvalidID, id)
	}

	var agent model.Agent
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&agent)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, agenterrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find agent: %w", err)
	}

	return &agent, nil
}

func (r *mongoAgentRepository) FindAll(ctx context.Context, agencyID string, limit int, offset int64) ([]*model.Agent, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{}
	if agencyID != "" {
		filter["agency_id"] = agencyID
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find agents: %w", err)
	}
	defer cursor.Close(ctx)

	var agents []*model.Agent
	if err = cursor.All(ctx, &agents); err != nil {
		return nil, fmt.Errorf("failed to decode agents: %w", err)
	}

	return agents, nil
}

func (r *mongoAgentRepository) Count(ctx context.Context, agencyID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{}
	if agencyID != "" {
		filter["agency_id"] = agencyID
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count agents: %w", err)
	}

	return count, nil
}

func (r *mongoAgentRepository) Update(ctx context.Context, id string, agent *model.Agent) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", agenterrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"agency_id":         agent.AgencyID,
			"name":              agent.Name,
			"phone":             agent.Phone,
			"is_active":         agent.IsActive,
			"unavailable_dates": agent.UnavailableDates,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update agent: %w", err)
	}

	if result.MatchedCount == 0 {
		return nil, agenterrors.ErrNotFound
	}

	return result, nil
}

func (r *mongoAgentRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", agenterrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete agent: %w", err)
	}

	if result.DeletedCount == 0 {
		return agenterrors.ErrNotFound
	}

	return nil
}

// AddUnavailableDate appends a blackout date via $addToSet. The boolean
// reports whether the date was actually added.
func (r *mongoAgentRepository) AddUnavailableDate(ctx context.Context, id string, date string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, fmt.Errorf("%w: %s", agenterrors.ErrInvalidID, id)
	}

	update := bson.M{"$addToSet": bson.M{"unavailable_dates": date}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return false, fmt.Errorf("failed to add unavailable date: %w", err)
	}

	if result.MatchedCount == 0 {
		return false, agenterrors.ErrNotFound
	}

	return result.ModifiedCount > 0, nil
}

func (r *mongoAgentRepository) RemoveUnavailableDate(ctx context.Context, id string, date string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", agenterrors.ErrInvalidID, id)
	}

	update := bson.M{"$pull": bson.M{"unavailable_dates": date}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to remove unavailable date: %w", err)
	}

	if result.MatchedCount == 0 {
		return agenterrors.ErrNotFound
	}
	if result.ModifiedCount == 0 {
		return agenterrors.ErrDateNotFound
	}

	return nil
}

// ReplaceUnavailableDates overwrites the whole blackout set.
func (r *mongoAgentRepository) ReplaceUnavailableDates(ctx context.Context, id string, dates []string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", agenterrors.ErrInvalidID, id)
	}

	update := bson.M{"$set": bson.M{"unavailable_dates": dates}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to replace unavailable dates: %w", err)
	}

	if result.MatchedCount == 0 {
		return agenterrors.ErrNotFound
	}

	return nil
}
