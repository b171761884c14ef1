package repository

import (
	"context"
	"fmt"
	"time"

	"bookable/pkg/config"
	"bookable/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CustomerCollection = "Customers"

type CustomerRepository interface {
	UpsertByEmail(ctx context.Context, c *model.Customer) error
	History(ctx context.Context, ownerID, customerID string) (model.CustomerHistory, error)
}

type mongoCustomerRepository struct {
	cfg       *config.Config
	customers *mongo.Collection
	bookings  *mongo.Collection
}

func NewMongoCustomerRepository(cfg *config.Config) CustomerRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCustomerRepository{
		cfg:       cfg,
		customers: db.Collection(CustomerCollection),
		bookings:  db.Collection(BookingCollection),
	}
}

// UpsertByEmail keys customers on (owner_id, email) so a returning client
// keeps one identity and one history regardless of how often they book.
func (r *mongoCustomerRepository) UpsertByEmail(ctx context.Context, c *model.Customer) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	c.UpdatedAt = now

	filter := bson.M{"owner_id": c.OwnerID, "email": c.Email}
	update := bson.M{
		"$set": bson.M{
			"name":       c.Name,
			"phone":      c.Phone,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"owner_id":    c.OwnerID,
			"email":       c.Email,
			"reliability": 1.0,
			"created_at":  now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var updated model.Customer
	if err := r.customers.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated); err != nil {
		return fmt.Errorf("failed to upsert customer: %w", err)
	}

	c.ID = updated.ID
	c.Reliability = updated.Reliability
	c.CreatedAt = updated.CreatedAt
	return nil
}

// History aggregates the customer's past bookings into the counters the
// risk model feeds on. A customer with no rows at all is a first
// appointment.
func (r *mongoCustomerRepository) History(ctx context.Context, ownerID, customerID string) (model.CustomerHistory, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"owner_id": ownerID, "customer_id": customerID}}},
		{{Key: "$group", Value: bson.M{
			"_id":             nil,
			"total_bookings":  bson.M{"$sum": 1},
			"cancellations":   bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$status", model.BookingCancelled}}, 1, 0}}},
			"no_shows":        bson.M{"$sum": bson.M{"$cond": bson.A{"$metadata.no_show", 1, 0}}},
			"last_booking_at": bson.M{"$max": "$created_at"},
		}}},
	}

	cursor, err := r.bookings.Aggregate(ctx, pipeline)
	if err != nil {
		return model.CustomerHistory{}, fmt.Errorf("failed to aggregate customer history: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		TotalBookings int                `bson:"total_bookings"`
		Cancellations int                `bson:"cancellations"`
		NoShows       int                `bson:"no_shows"`
		LastBookingAt primitive.DateTime `bson:"last_booking_at"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return model.CustomerHistory{}, fmt.Errorf("failed to decode customer history: %w", err)
	}

	if len(rows) == 0 {
		return model.CustomerHistory{FirstAppointment: true, ReliabilityScore: 1.0}, nil
	}

	row := rows[0]
	history := model.CustomerHistory{
		TotalBookings:    row.TotalBookings,
		Cancellations:    row.Cancellations,
		NoShows:          row.NoShows,
		ReliabilityScore: 1.0,
	}
	if row.LastBookingAt > 0 {
		last := row.LastBookingAt.Time().UTC()
		history.LastBookingAt = &last
	}
	if history.TotalBookings > 0 {
		history.ReliabilityScore = float64(history.TotalBookings-history.Cancellations) / float64(history.TotalBookings)
	}
	return history, nil
}
