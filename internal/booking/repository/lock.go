package repository

import (
	"context"
	"fmt"
	"time"

	bookingerrors "bookable/internal/booking/errors"
	"bookable/pkg/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const SlotLockCollection = "SlotLocks"

// SlotLockRepository hands out short-lived advisory locks on a single slot
// so only one admission at a time runs the availability re-check for it.
// The database-level guarantee stays with the unique booking index; the
// lock just keeps concurrent admissions from burning transactions against
// each other.
type SlotLockRepository interface {
	Acquire(ctx context.Context, ownerID, date, startTime string) error
	Release(ctx context.Context, ownerID, date, startTime string) error
}

type slotLock struct {
	ID        string    `bson:"_id"`
	ExpiresAt time.Time `bson:"expires_at"`
}

type mongoSlotLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSlotLockRepository(cfg *config.Config) SlotLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSlotLockRepository{
		cfg:        cfg,
		collection: db.Collection(SlotLockCollection),
	}
}

func lockID(ownerID, date, startTime string) string {
	return fmt.Sprintf("%s|%s|%s", ownerID, date, startTime)
}

// Acquire inserts the lock document, claiming the slot via the _id index.
// The TTL monitor reaps expired locks lazily, so a stale lock from a
// crashed admission may still be present; one delete-and-retry covers
// that window.
func (r *mongoSlotLockRepository) Acquire(ctx context.Context, ownerID, date, startTime string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	id := lockID(ownerID, date, startTime)
	now := time.Now().UTC()

	err := r.insert(ctx, id, now)
	if err == nil {
		return nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("failed to acquire slot lock: %w", err)
	}

	result, delErr := r.collection.DeleteOne(ctx, bson.M{"_id": id, "expires_at": bson.M{"$lt": now}})
	if delErr != nil {
		return fmt.Errorf("failed to reap expired slot lock: %w", delErr)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", bookingerrors.ErrLockHeld, id)
	}

	if err = r.insert(ctx, id, now); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", bookingerrors.ErrLockHeld, id)
		}
		return fmt.Errorf("failed to acquire slot lock: %w", err)
	}
	return nil
}

func (r *mongoSlotLockRepository) insert(ctx context.Context, id string, now time.Time) error {
	_, err := r.collection.InsertOne(ctx, slotLock{
		ID:        id,
		ExpiresAt: now.Add(config.SlotLockTTL),
	})
	return err
}

func (r *mongoSlotLockRepository) Release(ctx context.Context, ownerID, date, startTime string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID(ownerID, date, startTime)}); err != nil {
		return fmt.Errorf("failed to release slot lock: %w", err)
	}
	return nil
}
