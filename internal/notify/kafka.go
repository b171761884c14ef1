package notify

import (
	"context"
	"fmt"

	"bookable/pkg/kafka"
	"bookable/pkg/logger"
	"bookable/pkg/model"
)

const eventSource = "bookable-server"

// KafkaNotifier publishes booking events keyed by owner so all events for
// one calendar land on the same partition in order.
type KafkaNotifier struct {
	producer *kafka.Producer
	log      *logger.Logger
}

func NewKafkaNotifier(producer *kafka.Producer, log *logger.Logger) *KafkaNotifier {
	return &KafkaNotifier{
		producer: producer,
		log:      log,
	}
}

func (n *KafkaNotifier) publish(ctx context.Context, eventType string, b *model.Booking) error {
	msg := kafka.NewMessage().
		WithKey(b.OwnerID).
		WithValue(eventFromBooking(b)).
		WithEventType(eventType).
		WithSource(eventSource).
		Build()

	if err := n.producer.Publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}

	n.log.Debug("Booking event published",
		"event_type", eventType,
		"event_id", msg.GetEventID(),
		"booking_id", b.ID,
		"owner_id", b.OwnerID,
	)
	return nil
}

func (n *KafkaNotifier) BookingCreated(ctx context.Context, b *model.Booking) error {
	return n.publish(ctx, EventBookingCreated, b)
}

func (n *KafkaNotifier) BookingConfirmed(ctx context.Context, b *model.Booking) error {
	return n.publish(ctx, EventBookingConfirmed, b)
}

func (n *KafkaNotifier) BookingCancelled(ctx context.Context, b *model.Booking) error {
	return n.publish(ctx, EventBookingCancelled, b)
}

func (n *KafkaNotifier) BookingRescheduled(ctx context.Context, b *model.Booking) error {
	return n.publish(ctx, EventBookingRescheduled, b)
}
