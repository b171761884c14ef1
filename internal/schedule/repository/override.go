package repository

import (
	"context"
	"fmt"
	"time"

	scheduleerrors "bookable/internal/schedule/errors"
	"bookable/pkg/config"
	"bookable/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const OverrideCollection = "DateOverrides"

type OverrideRepository interface {
	Create(ctx context.Context, o *model.DateOverride) error
	FindByOwnerAndDate(ctx context.Context, ownerID, date string) ([]model.DateOverride, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type mongoOverrideRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoOverrideRepository(cfg *config.Config) OverrideRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoOverrideRepository{
		cfg:        cfg,
		collection: db.Collection(OverrideCollection),
	}
}

func (r *mongoOverrideRepository) Create(ctx context.Context, o *model.DateOverride) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	o.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, o)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: override at %s on %s", scheduleerrors.ErrDuplicate, o.StartTime, o.Date)
		}
		return fmt.Errorf("failed to create date override: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		o.ID = oid.Hex()
	}
	return nil
}

func (r *mongoOverrideRepository) FindByOwnerAndDate(ctx context.Context, ownerID, date string) ([]model.DateOverride, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"owner_id": ownerID, "date": date}
	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query date overrides: %w", err)
	}
	defer cursor.Close(ctx)

	var overrides []model.DateOverride
	if err = cursor.All(ctx, &overrides); err != nil {
		return nil, fmt.Errorf("failed to decode date overrides: %w", err)
	}
	return overrides, nil
}

func (r *mongoOverrideRepository) Delete(ctx context.Context, ownerID, id string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", scheduleerrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID, "owner_id": ownerID})
	if err != nil {
		return fmt.Errorf("failed to delete date override: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", scheduleerrors.ErrNotFound, id)
	}
	return nil
}
