package storage

import (
	"context"
	"fmt"

	bookingrepo "bookable/internal/booking/repository"
	schedulerepo "bookable/internal/schedule/repository"
	"bookable/pkg/config"
	"bookable/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates every index the application relies on. It runs at
// startup and is idempotent; Mongo treats re-creating an identical index
// as a no-op.
//
// The booking index is the backbone of the no-double-booking guarantee:
// it is unique over (owner_id, date, start_time) but only for bookings
// that still occupy their slot, so a cancelled booking frees the slot for
// re-admission.
func EnsureIndexes(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(ctx, cfg.MongoConnTimeout)
	defer cancel()

	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)

	occupyingStatuses := bson.A{
		model.BookingPending,
		model.BookingConfirmed,
		model.BookingCompleted,
		model.BookingNoShow,
	}

	indexes := map[string][]mongo.IndexModel{
		schedulerepo.TemplateCollection: {
			{
				Keys:    bson.D{{Key: "owner_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		schedulerepo.OverrideCollection: {
			{
				Keys: bson.D{
					{Key: "owner_id", Value: 1},
					{Key: "date", Value: 1},
					{Key: "start_time", Value: 1},
				},
				Options: options.Index().SetUnique(true),
			},
		},
		schedulerepo.BlockedDateCollection: {
			{
				Keys: bson.D{
					{Key: "owner_id", Value: 1},
					{Key: "date", Value: 1},
				},
				Options: options.Index().SetUnique(true),
			},
		},
		schedulerepo.ServiceCollection: {
			{
				Keys: bson.D{{Key: "owner_id", Value: 1}},
			},
		},
		bookingrepo.BookingCollection: {
			{
				Keys: bson.D{
					{Key: "owner_id", Value: 1},
					{Key: "date", Value: 1},
					{Key: "start_time", Value: 1},
				},
				Options: options.Index().
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"status": bson.M{"$in": occupyingStatuses}}),
			},
			{
				Keys: bson.D{
					{Key: "owner_id", Value: 1},
					{Key: "customer_id", Value: 1},
				},
			},
		},
		bookingrepo.CustomerCollection: {
			{
				Keys: bson.D{
					{Key: "owner_id", Value: 1},
					{Key: "email", Value: 1},
				},
				Options: options.Index().SetUnique(true),
			},
		},
		bookingrepo.SlotLockCollection: {
			{
				Keys:    bson.D{{Key: "expires_at", Value: 1}},
				Options: options.Index().SetExpireAfterSeconds(0),
			},
		},
	}

	for collection, models := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", collection, err)
		}
		cfg.Log.Debug("Indexes ensured", "collection", collection, "count", len(models))
	}

	cfg.Log.Info("Database indexes ensured", "collections", len(indexes))
	return nil
}
