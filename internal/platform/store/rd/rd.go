// Package rd provides a Redis client seam used for distributed slot locks
package rd

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Config configures redis connectivity
type Config struct {
	Addr     string
	Password string
	DB       int
}

// RD is a thin wrapper over go-redis so callers do not import the driver
type RD struct {
	Client *redis.Client
}

// Open creates a redis client and verifies connectivity
func Open(ctx context.Context, cfg Config) (*RD, error) {
	c := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return &RD{Client: c}, nil
}

// Ping verifies connectivity
func (r *RD) Ping(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}

// Close closes the underlying client
func (r *RD) Close() error {
	if r == nil || r.Client == nil {
		return nil
	}
	return r.Client.Close()
}
