package lock

import (
	"context"
	"sync"
	"time"

	perr "maitred/internal/platform/errors"

	"github.com/google/uuid"
)

// MemoryManager implements Manager in process memory. Same semantics as the
// redis implementation (fail-fast, token-conditioned release, TTL expiry);
// used for tests and single-node deployments.
type MemoryManager struct {
	mu   sync.Mutex
	held map[string]memEntry
	ttl  time.Duration

	// now is a seam for expiry tests
	now func() time.Time
}

type memEntry struct {
	token   string
	expires time.Time
}

// NewMemory builds a MemoryManager; ttl <= 0 falls back to DefaultTTL
func NewMemory(ttl time.Duration) *MemoryManager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryManager{
		held: make(map[string]memEntry),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Acquire takes every key in order, rolling back on the first busy slot
func (m *MemoryManager) Acquire(_ context.Context, keys []string) (*Lease, error) {
	token := uuid.NewString()
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	for i, key := range keys {
		if e, ok := m.held[key]; ok && e.expires.After(now) {
			for _, prev := range keys[:i] {
				delete(m.held, prev)
			}
			return nil, perr.NoCapacityf("slot lock busy")
		}
		m.held[key] = memEntry{token: token, expires: now.Add(m.ttl)}
	}

	return &Lease{
		keys:  keys,
		token: token,
		release: func(_ context.Context, keys []string, token string) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			for _, key := range keys {
				if e, ok := m.held[key]; ok && e.token == token {
					delete(m.held, key)
				}
			}
			return nil
		},
	}, nil
}
