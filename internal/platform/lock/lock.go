// Package lock provides fail-fast mutual exclusion over 15-minute booking
// slots. Keys are canonical UTC instants so writers agree on slot identity
// regardless of the local representation they started from.
package lock

import (
	"context"
	"fmt"
	"time"
)

// SlotStep is the granularity of slot locking and availability reporting
const SlotStep = 15 * time.Minute

// DefaultTTL bounds how long a stranded lock from a crashed holder can live
const DefaultTTL = 30 * time.Second

// Manager acquires short-lived exclusive leases over sets of slot keys.
// Acquisition is fail-fast: if any key is already held the whole attempt
// fails and any partial acquisition is rolled back.
type Manager interface {
	Acquire(ctx context.Context, keys []string) (*Lease, error)
}

// Lease is the release handle for an acquired key set
type Lease struct {
	keys    []string
	token   string
	release func(ctx context.Context, keys []string, token string) error
}

// Release frees every key in the lease. Token-conditioned: keys re-acquired
// by another holder after TTL expiry are left alone.
func (l *Lease) Release(ctx context.Context) error {
	if l == nil || l.release == nil {
		return nil
	}
	return l.release(ctx, l.keys, l.token)
}

// Keys returns the held keys (mainly for tests and logging)
func (l *Lease) Keys() []string { return l.keys }

// SectorKeys returns the ordered slot keys covering [start, end) for a sector
func SectorKeys(sectorID string, start, end time.Time) []string {
	return slotKeys("sector", sectorID, start, end)
}

// RestaurantKeys returns the ordered slot keys covering [start, end) for a
// restaurant. Used only when a guest cap is configured; the two scopes never
// collide in key space.
func RestaurantKeys(restaurantID string, start, end time.Time) []string {
	return slotKeys("restaurant", restaurantID, start, end)
}

// slotKeys walks the 15-minute grid instants s with start <= s < end.
// start is truncated onto the grid so partial first slots still lock.
// RFC3339 UTC instants sort chronologically, so the output is already in
// the global acquisition order that rules out deadlock.
func slotKeys(scope, id string, start, end time.Time) []string {
	aligned := start.UTC().Truncate(SlotStep)
	var keys []string
	for s := aligned; s.Before(end); s = s.Add(SlotStep) {
		keys = append(keys, fmt.Sprintf("%s:%s:slot:%s", scope, id, s.UTC().Format(time.RFC3339)))
	}
	return keys
}
