package domain

import "time"

// CustomerInput carries customer details on create and update
type CustomerInput struct {
	Name  string `json:"name" validate:"required,min=1,max=200" example:"Ada Lovelace"`
	Phone string `json:"phone" validate:"required,min=3,max=40" example:"+54 11 5555 0100"`
	Email string `json:"email" validate:"required,email" example:"ada@example.com"`
}

// CreateInput is the body for creating a reservation.
// Start is ISO-8601 with explicit offset.
type CreateInput struct {
	RestaurantID string        `json:"restaurant_id" validate:"required" example:"r-1"`
	SectorID     string        `json:"sector_id" validate:"required" example:"s-1"`
	PartySize    int           `json:"party_size" validate:"required,min=1,max=20" example:"2"`
	Start        time.Time     `json:"start" validate:"required" example:"2025-09-08T20:00:00-03:00"`
	Customer     CustomerInput `json:"customer" validate:"required"`
	Notes        string        `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// UpdateInput is the PATCH body; nil fields are left unchanged
type UpdateInput struct {
	SectorID  *string        `json:"sector_id,omitempty" validate:"omitempty,min=1"`
	PartySize *int           `json:"party_size,omitempty" validate:"omitempty,min=1,max=20"`
	Start     *time.Time     `json:"start,omitempty"`
	Customer  *CustomerInput `json:"customer,omitempty"`
	Notes     *string        `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// DayView is the day listing for a restaurant
type DayView struct {
	Date  string        `json:"date"`
	Items []Reservation `json:"items"`
}

// SweepResult reports how many pending holds an expiry sweep cancelled
type SweepResult struct {
	ExpiredCount int `json:"expired_count"`
}
