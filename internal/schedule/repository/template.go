package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	scheduleerrors "bookable/internal/schedule/errors"
	"bookable/pkg/config"
	mongotx "bookable/pkg/db/mongo"
	"bookable/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const TemplateCollection = "WeekTemplates"

type TemplateRepository interface {
	Upsert(ctx context.Context, t *model.WeekTemplate) error
	FindByOwner(ctx context.Context, ownerID string) (*model.WeekTemplate, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoTemplateRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoTemplateRepository(cfg *config.Config) TemplateRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoTemplateRepository{
		cfg:        cfg,
		collection: db.Collection(TemplateCollection),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// SessionContext cannot be wrapped without breaking transaction semantics, so
// it is returned unchanged with a no-op cancel.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining > timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

// Upsert keeps one template per owner. A second write replaces the week
// rather than stacking a duplicate document.
func (r *mongoTemplateRepository) Upsert(ctx context.Context, t *model.WeekTemplate) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	t.UpdatedAt = now

	filter := bson.M{"owner_id": t.OwnerID}
	update := bson.M{
		"$set": bson.M{
			"owner_id":   t.OwnerID,
			"monday":     t.Monday,
			"tuesday":    t.Tuesday,
			"wednesday":  t.Wednesday,
			"thursday":   t.Thursday,
			"friday":     t.Friday,
			"saturday":   t.Saturday,
			"sunday":     t.Sunday,
			"time_zone":  t.TimeZone,
			"updated_at": t.UpdatedAt,
		},
		"$setOnInsert": bson.M{"created_at": now},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert week template: %w", err)
	}

	if oid, ok := result.UpsertedID.(primitive.ObjectID); ok {
		t.ID = oid.Hex()
	}
	return nil
}

func (r *mongoTemplateRepository) FindByOwner(ctx context.Context, ownerID string) (*model.WeekTemplate, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var t model.WeekTemplate
	err := r.collection.FindOne(ctx, bson.M{"owner_id": ownerID}).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: owner %s", scheduleerrors.ErrNotFound, ownerID)
		}
		return nil, fmt.Errorf("failed to find week template: %w", err)
	}

	return &t, nil
}

func (r *mongoTemplateRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
