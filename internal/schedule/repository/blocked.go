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

const BlockedDateCollection = "BlockedDates"

type BlockedDateRepository interface {
	Create(ctx context.Context, b *model.BlockedDate) error
	Exists(ctx context.Context, ownerID, date string) (bool, error)
	FindByOwner(ctx context.Context, ownerID string, limit, offset int) ([]model.BlockedDate, error)
	Delete(ctx context.Context, ownerID, date string) error
}

type mongoBlockedDateRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBlockedDateRepository(cfg *config.Config) BlockedDateRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBlockedDateRepository{
		cfg:        cfg,
		collection: db.Collection(BlockedDateCollection),
	}
}

// Create relies on the unique (owner_id, date) index: blocking an already
// blocked date is reported as a duplicate, not silently absorbed.
func (r *mongoBlockedDateRepository) Create(ctx context.Context, b *model.BlockedDate) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	b.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, b)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s already blocked", scheduleerrors.ErrDuplicate, b.Date)
		}
		return fmt.Errorf("failed to create blocked date: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		b.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBlockedDateRepository) Exists(ctx context.Context, ownerID, date string) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"owner_id": ownerID, "date": date}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check blocked date: %w", err)
	}
	return count > 0, nil
}

func (r *mongoBlockedDateRepository) FindByOwner(ctx context.Context, ownerID string, limit, offset int) ([]model.BlockedDate, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(int64(offset)).
		SetSort(bson.D{{Key: "date", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query blocked dates: %w", err)
	}
	defer cursor.Close(ctx)

	var blocked []model.BlockedDate
	if err = cursor.All(ctx, &blocked); err != nil {
		return nil, fmt.Errorf("failed to decode blocked dates: %w", err)
	}
	return blocked, nil
}

func (r *mongoBlockedDateRepository) Delete(ctx context.Context, ownerID, date string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"owner_id": ownerID, "date": date})
	if err != nil {
		return fmt.Errorf("failed to delete blocked date: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", scheduleerrors.ErrNotFound, date)
	}
	return nil
}
