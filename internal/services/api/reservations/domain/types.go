// Package domain holds the reservation entity, its lifecycle and DTOs
package domain

import "time"

// Status is the reservation lifecycle state
type Status string

// Reservation lifecycle states. CANCELLED is terminal.
const (
	StatusConfirmed Status = "CONFIRMED"
	StatusPending   Status = "PENDING"
	StatusCancelled Status = "CANCELLED"
)

// Active reports whether the status occupies tables in overlap queries
func (s Status) Active() bool { return s == StatusConfirmed || s == StatusPending }

// Customer identifies who the booking is for
type Customer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Reservation occupies a set of tables in one sector over [Start, End)
type Reservation struct {
	ID           string     `json:"id"`
	RestaurantID string     `json:"restaurant_id"`
	SectorID     string     `json:"sector_id"`
	TableIDs     []string   `json:"table_ids"`
	PartySize    int        `json:"party_size"`
	Start        time.Time  `json:"start"`
	End          time.Time  `json:"end"`
	Status       Status     `json:"status"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	Customer     Customer   `json:"customer"`
	Notes        string     `json:"notes,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Overlaps reports strict interval overlap with [start, end)
func (r Reservation) Overlaps(start, end time.Time) bool {
	return r.Start.Before(end) && r.End.After(start)
}

// SharesTable reports whether the reservation uses any of the given tables
func (r Reservation) SharesTable(ids []string) bool {
	for _, want := range ids {
		for _, have := range r.TableIDs {
			if want == have {
				return true
			}
		}
	}
	return false
}
