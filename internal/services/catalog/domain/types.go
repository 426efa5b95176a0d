// Package domain holds the catalog entities: restaurants, sectors, tables
package domain

import (
	"time"

	"maitred/internal/core/schedule"
	perr "maitred/internal/platform/errors"
)

// Restaurant is the configuration anchor for the booking engine.
// Created by back-office tooling; the engine only reads it.
type Restaurant struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Timezone string `json:"timezone"`

	Shifts                 []schedule.Shift        `json:"shifts,omitempty"`
	DefaultDurationMinutes int                     `json:"default_duration_minutes"`
	DurationRules          []schedule.DurationRule `json:"duration_rules,omitempty"`
	Advance                schedule.AdvancePolicy  `json:"advance,omitempty"`

	// party sizes at or above this threshold require approval; 0 disables
	LargeGroupThreshold   int `json:"large_group_threshold,omitempty"`
	PendingHoldTTLMinutes int `json:"pending_hold_ttl_minutes,omitempty"`

	// restaurant-wide concurrent guest cap per slot; 0 disables
	MaxGuestsPerSlot int `json:"max_guests_per_slot,omitempty"`
}

// Location resolves the restaurant's IANA timezone
func (r Restaurant) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "restaurant %s has bad timezone %q", r.ID, r.Timezone)
	}
	return loc, nil
}

// Sector is a named table-bearing subdivision of a restaurant
type Sector struct {
	ID           string `json:"id"`
	RestaurantID string `json:"restaurant_id"`
	Name         string `json:"name"`
}

// Table is a physical table; MinSize and MaxSize bound the party it seats
type Table struct {
	ID       string `json:"id"`
	SectorID string `json:"sector_id"`
	MinSize  int    `json:"min_size"`
	MaxSize  int    `json:"max_size"`
}
