package model

import "time"

// Service is a bookable offering. DurationMin overrides the engine-wide
// default slot length when a booking names the service.
type Service struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	OwnerID     string    `json:"owner_id" bson:"owner_id" validate:"required,min=1,max=64"`
	Name        string    `json:"name" bson:"name" validate:"required,min=1,max=120"`
	Description string    `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=2000"`
	DurationMin int       `json:"duration_min" bson:"duration_min" validate:"required,min=5,max=480"`
	Price       float64   `json:"price" bson:"price" validate:"omitempty,min=0"`
	Currency    string    `json:"currency,omitempty" bson:"currency,omitempty" validate:"omitempty,len=3,alpha"`
	Active      bool      `json:"active" bson:"active"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}
