// Package service contains the pending-hold expiry worker
package service

import (
	"context"
	"time"

	"maitred/internal/platform/logger"
	resdom "maitred/internal/services/api/reservations/domain"
)

// Config carries runtime knobs for the sweep loop
type Config struct {
	Every time.Duration
}

// Svc runs the expiry sweep on a ticker until the context is cancelled
type Svc struct {
	expirer resdom.ExpirerPort
	every   time.Duration
	log     *logger.Logger
}

// New constructs a sweeper service
func New(expirer resdom.ExpirerPort, cfg Config) *Svc {
	if expirer == nil {
		panic("sweeper.Service requires a non nil ExpirerPort")
	}
	every := cfg.Every
	if every <= 0 {
		every = time.Minute
	}
	return &Svc{expirer: expirer, every: every, log: logger.Named("sweeper")}
}

// Run sweeps once immediately and then on every tick.
// Sweep errors are logged and the loop keeps going; a broken store on one
// tick should not kill the worker.
func (s *Svc) Run(ctx context.Context) error {
	s.sweep(ctx)

	t := time.NewTicker(s.every)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			s.sweep(ctx)
		}
	}
}

func (s *Svc) sweep(ctx context.Context) {
	out, err := s.expirer.ExpirePending(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("expiry sweep failed")
		return
	}
	if out.ExpiredCount > 0 {
		s.log.Info().Int("expired", out.ExpiredCount).Msg("expiry sweep done")
	}
}
