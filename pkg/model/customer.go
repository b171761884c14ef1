package model

import "time"

// Customer is a booking client, keyed by (owner_id, email). Admission
// upserts the row so repeat clients accumulate history under one identity.
type Customer struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	OwnerID     string    `json:"owner_id" bson:"owner_id" validate:"required,min=1,max=64"`
	Name        string    `json:"name" bson:"name" validate:"required,min=1,max=120"`
	Email       string    `json:"email" bson:"email" validate:"required,email"`
	Phone       string    `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,e164"`
	Reliability float64   `json:"reliability" bson:"reliability" validate:"omitempty,min=0,max=1"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// CustomerHistory is the aggregate view of a customer's past bookings used
// for risk scoring.
type CustomerHistory struct {
	TotalBookings    int        `json:"total_bookings" bson:"total_bookings"`
	Cancellations    int        `json:"cancellations" bson:"cancellations"`
	NoShows          int        `json:"no_shows" bson:"no_shows"`
	LastBookingAt    *time.Time `json:"last_booking_at,omitempty" bson:"last_booking_at,omitempty"`
	FirstAppointment bool       `json:"first_appointment" bson:"first_appointment"`
	ReliabilityScore float64    `json:"reliability_score" bson:"reliability_score"`
}
