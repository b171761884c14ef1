package model

import "time"

// Booking lifecycle states.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
	BookingNoShow    = "no_show"
)

// Payment states.
const (
	PaymentUnpaid   = "unpaid"
	PaymentDeposit  = "deposit_paid"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// BookingMetadata carries the admission-time annotations a booking is
// created with.
type BookingMetadata struct {
	Notes     string  `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=2000"`
	RiskScore float64 `json:"risk_score" bson:"risk_score" validate:"omitempty,min=0,max=100"`
	NoShow    bool    `json:"no_show" bson:"no_show"`
}

// BookingPayment tracks the money side of a booking.
type BookingPayment struct {
	Amount          float64 `json:"amount" bson:"amount" validate:"omitempty,min=0"`
	Currency        string  `json:"currency" bson:"currency" validate:"omitempty,len=3,alpha"`
	Status          string  `json:"status" bson:"status" validate:"omitempty,oneof=unpaid deposit_paid paid refunded"`
	DepositRequired bool    `json:"deposit_required" bson:"deposit_required"`
}

// Booking is one admitted reservation. Date and StartTime identify the slot
// it occupies; a unique index on (owner_id, date, start_time) over
// non-cancelled rows backs the exclusivity guarantee.
type Booking struct {
	ID         string          `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	OwnerID    string          `json:"owner_id" bson:"owner_id" validate:"required,min=1,max=64"`
	CustomerID string          `json:"customer_id" bson:"customer_id" validate:"required,mongodb"`
	ServiceID  string          `json:"service_id,omitempty" bson:"service_id,omitempty" validate:"omitempty,mongodb"`
	Date       string          `json:"date" bson:"date" validate:"required,calendar_date"`
	StartTime  string          `json:"start_time" bson:"start_time" validate:"required,clock_time"`
	EndTime    string          `json:"end_time" bson:"end_time" validate:"required,clock_time"`
	Status     string          `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled completed no_show"`
	Metadata   BookingMetadata `json:"metadata" bson:"metadata"`
	Payment    BookingPayment  `json:"payment" bson:"payment"`
	CreatedAt  time.Time       `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt  time.Time       `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// Occupies reports whether the booking still holds its slot. Cancelled
// bookings release the slot; every other state keeps it.
func (b *Booking) Occupies() bool {
	return b.Status != BookingCancelled
}

// BookingRequest is the admission payload. Slot accepts either a bare start
// ("14:30") or a "start - end" range in 24h or 12h clock notation.
type BookingRequest struct {
	OwnerID       string  `json:"owner_id" validate:"required,min=1,max=64"`
	Date          string  `json:"date" validate:"required,calendar_date"`
	Slot          string  `json:"slot" validate:"required,min=4,max=32"`
	ServiceID     string  `json:"service_id,omitempty" validate:"omitempty,mongodb"`
	CustomerName  string  `json:"customer_name" validate:"required,min=1,max=120"`
	CustomerEmail string  `json:"customer_email" validate:"required,email"`
	CustomerPhone string  `json:"customer_phone,omitempty" validate:"omitempty,e164"`
	Notes         string  `json:"notes,omitempty" validate:"omitempty,max=2000"`
	Amount        float64 `json:"amount,omitempty" validate:"omitempty,min=0"`
	Currency      string  `json:"currency,omitempty" validate:"omitempty,len=3,alpha"`
}

// BookingResult is what admission returns to the caller.
type BookingResult struct {
	Booking         *Booking `json:"booking"`
	RiskScore       float64  `json:"risk_score"`
	DepositRequired bool     `json:"deposit_required"`
}
