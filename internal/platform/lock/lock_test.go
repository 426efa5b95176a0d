package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	perr "maitred/internal/platform/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestSectorKeysCoverInterval(t *testing.T) {
	keys := SectorKeys("s1", at("2025-09-08T23:00:00Z"), at("2025-09-09T00:15:00Z"))
	require.Len(t, keys, 5)
	assert.Equal(t, "sector:s1:slot:2025-09-08T23:00:00Z", keys[0])
	assert.Equal(t, "sector:s1:slot:2025-09-09T00:00:00Z", keys[4])
}

func TestSlotKeysCanonicalizeToUTC(t *testing.T) {
	loc := time.FixedZone("-03", -3*60*60)
	local := time.Date(2025, 9, 8, 20, 0, 0, 0, loc)
	utc := local.UTC()

	assert.Equal(t,
		SectorKeys("s1", local, local.Add(30*time.Minute)),
		SectorKeys("s1", utc, utc.Add(30*time.Minute)),
		"two representations of the same instant must compute the same keys")
}

func TestSlotKeysAlignUnalignedStart(t *testing.T) {
	keys := SectorKeys("s1", at("2025-09-08T20:05:00Z"), at("2025-09-08T20:35:00Z"))
	require.Len(t, keys, 3)
	assert.Equal(t, "sector:s1:slot:2025-09-08T20:00:00Z", keys[0])
}

func TestScopesDoNotCollide(t *testing.T) {
	s := SectorKeys("x", at("2025-09-08T20:00:00Z"), at("2025-09-08T20:15:00Z"))
	r := RestaurantKeys("x", at("2025-09-08T20:00:00Z"), at("2025-09-08T20:15:00Z"))
	assert.NotEqual(t, s[0], r[0])
}

func TestMemoryAcquireConflict(t *testing.T) {
	m := NewMemory(0)
	ctx := context.Background()

	keys := SectorKeys("s1", at("2025-09-08T20:00:00Z"), at("2025-09-08T21:15:00Z"))
	lease, err := m.Acquire(ctx, keys)
	require.NoError(t, err)

	// overlapping interval shares the 20:45 slot
	_, err = m.Acquire(ctx, SectorKeys("s1", at("2025-09-08T20:45:00Z"), at("2025-09-08T22:00:00Z")))
	require.Error(t, err)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeNoCapacity))

	require.NoError(t, lease.Release(ctx))

	lease2, err := m.Acquire(ctx, keys)
	require.NoError(t, err)
	_ = lease2.Release(ctx)
}

func TestMemoryPartialRollback(t *testing.T) {
	m := NewMemory(0)
	ctx := context.Background()

	// hold just the middle slot
	mid, err := m.Acquire(ctx, SectorKeys("s1", at("2025-09-08T20:30:00Z"), at("2025-09-08T20:45:00Z")))
	require.NoError(t, err)

	// the wider attempt must fail and leave the earlier slots free
	_, err = m.Acquire(ctx, SectorKeys("s1", at("2025-09-08T20:00:00Z"), at("2025-09-08T21:00:00Z")))
	require.Error(t, err)

	head, err := m.Acquire(ctx, SectorKeys("s1", at("2025-09-08T20:00:00Z"), at("2025-09-08T20:30:00Z")))
	require.NoError(t, err, "rolled back slots must be acquirable again")

	_ = head.Release(ctx)
	_ = mid.Release(ctx)
}

func TestMemoryTTLExpiry(t *testing.T) {
	m := NewMemory(time.Second)
	base := at("2025-09-08T20:00:00Z")
	now := base
	m.now = func() time.Time { return now }

	ctx := context.Background()
	keys := SectorKeys("s1", base, base.Add(15*time.Minute))

	_, err := m.Acquire(ctx, keys)
	require.NoError(t, err)

	now = base.Add(2 * time.Second)
	lease, err := m.Acquire(ctx, keys)
	require.NoError(t, err, "expired lock must be reacquirable")
	_ = lease.Release(ctx)
}

func TestMemoryConcurrentSingleWinner(t *testing.T) {
	m := NewMemory(0)
	keys := SectorKeys("s1", at("2025-09-08T20:00:00Z"), at("2025-09-08T21:15:00Z"))

	var won, lost int32
	var wg sync.WaitGroup
	hold := make(chan struct{})

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-hold
			if _, err := m.Acquire(context.Background(), keys); err == nil {
				atomic.AddInt32(&won, 1)
			} else {
				atomic.AddInt32(&lost, 1)
			}
		}()
	}
	close(hold)
	wg.Wait()

	assert.Equal(t, int32(1), won, "exactly one acquirer wins")
	assert.Equal(t, int32(49), lost)
}
