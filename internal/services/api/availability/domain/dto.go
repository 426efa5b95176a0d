// Package domain holds DTOs for availability queries
package domain

import "time"

// Query identifies the restaurant, sector, local date and party size
type Query struct {
	RestaurantID string `json:"restaurant_id" validate:"required"`
	SectorID     string `json:"sector_id" validate:"required"`
	Date         string `json:"date" validate:"required"`
	PartySize    int    `json:"party_size" validate:"required,min=1,max=20"`
}

// Slot is the feasibility report for one 15-minute slot.
// Start is canonical UTC.
type Slot struct {
	Start     time.Time `json:"start"`
	Available bool      `json:"available"`
	Tables    []string  `json:"tables,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}

// Report is the availability answer for one day
type Report struct {
	SlotMinutes     int    `json:"slot_minutes"`
	DurationMinutes int    `json:"duration_minutes"`
	Slots           []Slot `json:"slots"`
}
