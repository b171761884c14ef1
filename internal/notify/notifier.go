package notify

import (
	"context"

	"bookable/pkg/logger"
	"bookable/pkg/model"
)

// Booking event types carried on the confirmation topic.
const (
	EventBookingCreated     = "booking.created"
	EventBookingConfirmed   = "booking.confirmed"
	EventBookingCancelled   = "booking.cancelled"
	EventBookingRescheduled = "booking.rescheduled"
)

// Notifier publishes booking lifecycle events. Delivery is best effort:
// a booking that is already committed must not be rolled back because an
// event could not be published.
type Notifier interface {
	BookingCreated(ctx context.Context, b *model.Booking) error
	BookingConfirmed(ctx context.Context, b *model.Booking) error
	BookingCancelled(ctx context.Context, b *model.Booking) error
	BookingRescheduled(ctx context.Context, b *model.Booking) error
}

// BookingEvent is the wire payload for all booking lifecycle events.
type BookingEvent struct {
	BookingID       string  `json:"booking_id"`
	OwnerID         string  `json:"owner_id"`
	CustomerID      string  `json:"customer_id"`
	ServiceID       string  `json:"service_id,omitempty"`
	Date            string  `json:"date"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
	Status          string  `json:"status"`
	RiskScore       float64 `json:"risk_score"`
	DepositRequired bool    `json:"deposit_required"`
}

func eventFromBooking(b *model.Booking) BookingEvent {
	return BookingEvent{
		BookingID:       b.ID,
		OwnerID:         b.OwnerID,
		CustomerID:      b.CustomerID,
		ServiceID:       b.ServiceID,
		Date:            b.Date,
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		Status:          b.Status,
		RiskScore:       b.Metadata.RiskScore,
		DepositRequired: b.Payment.DepositRequired,
	}
}

// NoopNotifier is used when no brokers are configured. Events are logged
// and dropped.
type NoopNotifier struct {
	log *logger.Logger
}

func NewNoopNotifier(log *logger.Logger) *NoopNotifier {
	return &NoopNotifier{log: log}
}

func (n *NoopNotifier) publish(eventType string, b *model.Booking) error {
	n.log.Debug("Event publishing disabled, dropping booking event",
		"event_type", eventType,
		"booking_id", b.ID,
		"owner_id", b.OwnerID,
	)
	return nil
}

func (n *NoopNotifier) BookingCreated(_ context.Context, b *model.Booking) error {
	return n.publish(EventBookingCreated, b)
}

func (n *NoopNotifier) BookingConfirmed(_ context.Context, b *model.Booking) error {
	return n.publish(EventBookingConfirmed, b)
}

func (n *NoopNotifier) BookingCancelled(_ context.Context, b *model.Booking) error {
	return n.publish(EventBookingCancelled, b)
}

func (n *NoopNotifier) BookingRescheduled(_ context.Context, b *model.Booking) error {
	return n.publish(EventBookingRescheduled, b)
}
