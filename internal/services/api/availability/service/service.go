// Package service computes per-slot availability for a day
package service

import (
	"context"
	"sort"
	"time"

	"maitred/internal/core/assign"
	"maitred/internal/core/schedule"
	"maitred/internal/modkit/repokit"
	perr "maitred/internal/platform/errors"
	catdom "maitred/internal/services/catalog/domain"
	"maitred/internal/services/api/availability/domain"
	"maitred/internal/services/api/availability/repo"
	resdom "maitred/internal/services/api/reservations/domain"
)

// Service defines the service contract for availability
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	Repo    repo.Repo
	binder  repokit.Binder[repo.Repo]
	db      repokit.TxRunner
	catalog catdom.ReaderPort

	// now is a seam for past-slot filtering in tests
	now func() time.Time
}

// New creates a new availability service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], catalog catdom.ReaderPort) *Svc {
	if db == nil {
		panic("availability.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("availability.Service requires a non nil Repo binder")
	}
	if catalog == nil {
		panic("availability.Service requires a non nil catalog port")
	}
	return &Svc{Repo: binder.Bind(db), binder: binder, db: db, catalog: catalog, now: time.Now}
}

// Availability reports, slot by slot, whether the party can be seated.
// One day query feeds an in-memory overlap scan for every slot; feasible
// slots list the free single tables, or the table combination when no
// single table fits.
func (s *Svc) Availability(ctx context.Context, q domain.Query) (domain.Report, error) {
	rest, err := s.catalog.Restaurant(ctx, q.RestaurantID)
	if err != nil {
		return domain.Report{}, err
	}
	sector, err := s.catalog.Sector(ctx, q.SectorID)
	if err != nil {
		return domain.Report{}, err
	}
	if sector.RestaurantID != rest.ID {
		return domain.Report{}, perr.NotFoundf("sector %s not found in restaurant %s", q.SectorID, q.RestaurantID)
	}
	tables, err := s.catalog.TablesBySector(ctx, sector.ID)
	if err != nil {
		return domain.Report{}, err
	}
	loc, err := rest.Location()
	if err != nil {
		return domain.Report{}, err
	}

	maxDur := schedule.MaxDuration(rest.DurationRules, rest.DefaultDurationMinutes)
	slots, err := schedule.DaySlots(q.Date, loc, rest.Shifts, maxDur)
	if err != nil {
		return domain.Report{}, err
	}
	d := schedule.Duration(q.PartySize, rest.DurationRules, rest.DefaultDurationMinutes)

	dayStart, dayEnd, err := schedule.DayBounds(q.Date, loc)
	if err != nil {
		return domain.Report{}, err
	}
	day, err := s.Repo.ActiveByDaySector(ctx, sector.ID, dayStart.UTC(), dayEnd.UTC())
	if err != nil {
		return domain.Report{}, err
	}

	cand := make([]assign.Table, len(tables))
	for i, t := range tables {
		cand[i] = assign.Table{ID: t.ID, MinSize: t.MinSize, MaxSize: t.MaxSize}
	}

	now := s.now()
	report := domain.Report{
		SlotMinutes:     int(schedule.SlotStep / time.Minute),
		DurationMinutes: int(d / time.Minute),
		Slots:           []domain.Slot{},
	}

	for _, slot := range slots {
		if slot.Before(now) {
			continue
		}
		start, end := slot, slot.Add(d)
		busy := func(_ context.Context, ids []string) (bool, error) {
			return anyOverlap(day, ids, start, end), nil
		}

		// every free eligible single table first
		var free []string
		for _, t := range cand {
			if t.Eligible(q.PartySize) && !anyOverlap(day, []string{t.ID}, start, end) {
				free = append(free, t.ID)
			}
		}
		if len(free) > 0 {
			sort.Strings(free)
			report.Slots = append(report.Slots, domain.Slot{Start: slot.UTC(), Available: true, Tables: free})
			continue
		}

		combo, err := assign.Tables(ctx, cand, q.PartySize, busy)
		if err != nil {
			return domain.Report{}, err
		}
		if combo != nil {
			report.Slots = append(report.Slots, domain.Slot{Start: slot.UTC(), Available: true, Tables: combo})
		} else {
			report.Slots = append(report.Slots, domain.Slot{Start: slot.UTC(), Available: false, Reason: "no_capacity"})
		}
	}
	return report, nil
}

// anyOverlap scans the preloaded day set for a conflict on any given table
func anyOverlap(day []resdom.Reservation, tableIDs []string, start, end time.Time) bool {
	for _, r := range day {
		if r.Overlaps(start, end) && r.SharesTable(tableIDs) {
			return true
		}
	}
	return false
}
