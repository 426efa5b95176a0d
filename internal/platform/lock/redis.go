package lock

import (
	"context"
	"time"

	perr "maitred/internal/platform/errors"
	"maitred/internal/platform/logger"
	"maitred/internal/platform/store/rd"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes a key only when it still holds our token, so a lock
// that expired and was re-acquired by someone else is never released by us
var releaseScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// RedisManager implements Manager on a shared redis instance.
// Each key is taken with SET NX PX so acquisition is atomic per slot.
type RedisManager struct {
	rd  *rd.RD
	ttl time.Duration
}

// NewRedis builds a RedisManager; ttl <= 0 falls back to DefaultTTL
func NewRedis(r *rd.RD, ttl time.Duration) *RedisManager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisManager{rd: r, ttl: ttl}
}

// Acquire takes every key in order, rolling back on the first busy slot
func (m *RedisManager) Acquire(ctx context.Context, keys []string) (*Lease, error) {
	token := uuid.NewString()

	for i, key := range keys {
		ok, err := m.rd.Client.SetNX(ctx, key, token, m.ttl).Result()
		if err != nil {
			m.releaseKeys(ctx, keys[:i], token)
			return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "lock backend error")
		}
		if !ok {
			m.releaseKeys(ctx, keys[:i], token)
			return nil, perr.NoCapacityf("slot lock busy")
		}
	}

	return &Lease{
		keys:  keys,
		token: token,
		release: func(ctx context.Context, keys []string, token string) error {
			m.releaseKeys(ctx, keys, token)
			return nil
		},
	}, nil
}

// releaseKeys conditionally deletes each key; failures are logged, not
// propagated, because the TTL reclaims anything we could not delete
func (m *RedisManager) releaseKeys(ctx context.Context, keys []string, token string) {
	for _, key := range keys {
		if err := releaseScript.Run(ctx, m.rd.Client, []string{key}, token).Err(); err != nil && err != redis.Nil {
			logger.Named("lock").Warn().Err(err).Str("key", key).Msg("lock release failed; ttl will reclaim")
		}
	}
}
