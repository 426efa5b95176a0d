// Package service contains catalog read workflows
package service

import (
	"context"

	"maitred/internal/core/schedule"
	"maitred/internal/modkit/repokit"
	"maitred/internal/services/catalog/domain"
	"maitred/internal/services/catalog/repo"
)

// Service defines the service contract for the catalog
type Service interface{ domain.ReaderPort }

// Svc implements the Service interface
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
}

// New creates a new catalog service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo]) *Svc {
	if db == nil {
		panic("catalog.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("catalog.Service requires a non nil Repo binder")
	}
	return &Svc{Repo: binder.Bind(db), binder: binder, db: db}
}

// Restaurant resolves a restaurant and validates its shift configuration.
// Midnight-spanning shifts are not representable; operators model those as
// two separate shifts, so a bad row is surfaced instead of silently misread.
func (s *Svc) Restaurant(ctx context.Context, id string) (domain.Restaurant, error) {
	out, err := s.Repo.Restaurant(ctx, id)
	if err != nil {
		return domain.Restaurant{}, err
	}
	if err := schedule.ValidateShifts(out.Shifts); err != nil {
		return domain.Restaurant{}, err
	}
	return out, nil
}

// Sector resolves a sector by id
func (s *Svc) Sector(ctx context.Context, id string) (domain.Sector, error) {
	return s.Repo.Sector(ctx, id)
}

// TablesBySector lists the tables of a sector in id order
func (s *Svc) TablesBySector(ctx context.Context, sectorID string) ([]domain.Table, error) {
	return s.Repo.TablesBySector(ctx, sectorID)
}

// TableByID resolves a single table
func (s *Svc) TableByID(ctx context.Context, id string) (domain.Table, error) {
	return s.Repo.TableByID(ctx, id)
}
