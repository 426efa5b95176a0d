// Package service contains the reservation workflows: create, update,
// cancel, approve, reject and the pending-hold expiry sweep
package service

import (
	"context"
	"encoding/json"
	"time"

	"maitred/internal/core/assign"
	"maitred/internal/core/schedule"
	"maitred/internal/modkit/repokit"
	perr "maitred/internal/platform/errors"
	"maitred/internal/platform/lock"
	"maitred/internal/platform/logger"
	ptime "maitred/internal/platform/time"
	catdom "maitred/internal/services/catalog/domain"
	"maitred/internal/services/api/reservations/domain"
	"maitred/internal/services/api/reservations/repo"

	"github.com/google/uuid"
)

// Service defines the service contract for reservations
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	Repo    repo.Repo
	binder  repokit.Binder[repo.Repo]
	db      repokit.TxRunner
	locks   lock.Manager
	catalog catdom.ReaderPort
	log     *logger.Logger

	// now is a seam so lifecycle tests can pin the clock
	now func() time.Time
}

// New creates a new reservation service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], locks lock.Manager, catalog catdom.ReaderPort) *Svc {
	if db == nil {
		panic("reservations.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("reservations.Service requires a non nil Repo binder")
	}
	if locks == nil {
		panic("reservations.Service requires a non nil lock.Manager")
	}
	if catalog == nil {
		panic("reservations.Service requires a non nil catalog port")
	}
	return &Svc{
		Repo:    binder.Bind(db),
		binder:  binder,
		db:      db,
		locks:   locks,
		catalog: catalog,
		log:     logger.Named("reservations"),
		now:     time.Now,
	}
}

// placement is everything Create and Update validate before touching locks
type placement struct {
	restaurant catdom.Restaurant
	sector     catdom.Sector
	loc        *time.Location
	start      time.Time
	end        time.Time
	duration   time.Duration
}

// resolvePlacement validates restaurant, sector, shift window, advance
// policy and computes the reservation interval
func (s *Svc) resolvePlacement(
	ctx context.Context,
	restaurantID, sectorID string,
	start time.Time,
	partySize int,
	checkAdvance bool,
) (placement, error) {
	rest, err := s.catalog.Restaurant(ctx, restaurantID)
	if err != nil {
		return placement{}, err
	}
	sector, err := s.catalog.Sector(ctx, sectorID)
	if err != nil {
		return placement{}, err
	}
	if sector.RestaurantID != rest.ID {
		return placement{}, perr.NotFoundf("sector %s not found in restaurant %s", sectorID, restaurantID)
	}
	loc, err := rest.Location()
	if err != nil {
		return placement{}, err
	}

	if !schedule.WithinShift(start, loc, rest.Shifts) {
		return placement{}, perr.OutsideWindowf("start %s is outside service hours", start.Format(time.RFC3339))
	}
	if checkAdvance {
		if err := schedule.CheckAdvance(s.now(), start, rest.Advance); err != nil {
			return placement{}, err
		}
	}

	d := schedule.Duration(partySize, rest.DurationRules, rest.DefaultDurationMinutes)
	end := start.Add(d)

	// the booking must finish inside the shift it starts in
	shiftEnd, ok := schedule.ShiftEnd(start, loc, rest.Shifts)
	if !ok || end.After(shiftEnd) {
		return placement{}, perr.OutsideWindowf("a party of %d would run past closing", partySize)
	}

	return placement{
		restaurant: rest,
		sector:     sector,
		loc:        loc,
		start:      start,
		end:        end,
		duration:   d,
	}, nil
}

// acquirePlacementLocks takes the restaurant-scope locks (only when a guest
// cap applies) and then the sector-scope locks, returning a single release
func (s *Svc) acquirePlacementLocks(ctx context.Context, p placement) (release func(context.Context), err error) {
	var leases []*lock.Lease
	release = func(ctx context.Context) {
		for i := len(leases) - 1; i >= 0; i-- {
			if err := leases[i].Release(ctx); err != nil {
				s.log.Warn().Err(err).Msg("lock release failed")
			}
		}
	}

	if p.restaurant.MaxGuestsPerSlot > 0 {
		l, err := s.locks.Acquire(ctx, lock.RestaurantKeys(p.restaurant.ID, p.start, p.end))
		if err != nil {
			return nil, err
		}
		leases = append(leases, l)
	}
	l, err := s.locks.Acquire(ctx, lock.SectorKeys(p.sector.ID, p.start, p.end))
	if err != nil {
		release(ctx)
		return nil, err
	}
	leases = append(leases, l)
	return release, nil
}

// checkGuestCap rejects the booking when it would push any covered slot
// over the restaurant-wide concurrent guest limit
func (s *Svc) checkGuestCap(ctx context.Context, p placement, partySize int, excludeID string) error {
	limit := p.restaurant.MaxGuestsPerSlot
	if limit <= 0 {
		return nil
	}
	others, err := s.Repo.OverlappingRestaurant(ctx, p.restaurant.ID, p.start, p.end, excludeID)
	if err != nil {
		return err
	}
	for slot := p.start.UTC().Truncate(lock.SlotStep); slot.Before(p.end); slot = slot.Add(lock.SlotStep) {
		sum := partySize
		for _, o := range others {
			if !o.Start.After(slot) && o.End.After(slot) {
				sum += o.PartySize
			}
		}
		if sum > limit {
			return perr.NoCapacityf("guest capacity reached at %s", slot.Format(time.RFC3339))
		}
	}
	return nil
}

// assignTables runs the placement algorithm against live overlap queries
func (s *Svc) assignTables(ctx context.Context, p placement, partySize int, excludeID string) ([]string, error) {
	tables, err := s.catalog.TablesBySector(ctx, p.sector.ID)
	if err != nil {
		return nil, err
	}
	cand := make([]assign.Table, len(tables))
	for i, t := range tables {
		cand[i] = assign.Table{ID: t.ID, MinSize: t.MinSize, MaxSize: t.MaxSize}
	}
	busy := func(ctx context.Context, ids []string) (bool, error) {
		found, err := s.Repo.Overlapping(ctx, ids, p.start, p.end, excludeID)
		if err != nil {
			return false, err
		}
		return len(found) > 0, nil
	}
	return assign.Tables(ctx, cand, partySize, busy)
}

// Create places a new reservation. With an idempotency key, a replay
// returns the originally stored reservation instead of booking again.
func (s *Svc) Create(ctx context.Context, in domain.CreateInput, idemKey string) (domain.Reservation, error) {
	if idemKey != "" {
		if cached, ok, err := s.cachedReservation(ctx, idemKey); err != nil {
			return domain.Reservation{}, err
		} else if ok {
			return cached, nil
		}
	}

	p, err := s.resolvePlacement(ctx, in.RestaurantID, in.SectorID, in.Start, in.PartySize, true)
	if err != nil {
		return domain.Reservation{}, err
	}

	releaseLocks, err := s.acquirePlacementLocks(ctx, p)
	if err != nil {
		return domain.Reservation{}, err
	}
	defer releaseLocks(ctx)

	if err := s.checkGuestCap(ctx, p, in.PartySize, ""); err != nil {
		return domain.Reservation{}, err
	}

	// stale pending holds must not block assignment
	if _, err := s.Repo.ExpirePending(ctx, s.now()); err != nil {
		return domain.Reservation{}, err
	}

	tableIDs, err := s.assignTables(ctx, p, in.PartySize, "")
	if err != nil {
		return domain.Reservation{}, err
	}
	if tableIDs == nil {
		return domain.Reservation{}, perr.NoCapacityf("no table available for a party of %d", in.PartySize)
	}

	now := s.now()
	res := domain.Reservation{
		ID:           uuid.NewString(),
		RestaurantID: p.restaurant.ID,
		SectorID:     p.sector.ID,
		TableIDs:     tableIDs,
		PartySize:    in.PartySize,
		Start:        p.start,
		End:          p.end,
		Status:       domain.StatusConfirmed,
		Customer:     domain.Customer(in.Customer),
		Notes:        in.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if t := p.restaurant.LargeGroupThreshold; t > 0 && in.PartySize >= t && p.restaurant.PendingHoldTTLMinutes > 0 {
		res.Status = domain.StatusPending
		res.ExpiresAt = ptime.Ptr(now.Add(time.Duration(p.restaurant.PendingHoldTTLMinutes) * time.Minute))
	}

	if err := s.Repo.Create(ctx, res); err != nil {
		return domain.Reservation{}, err
	}

	s.log.Info().
		Str("reservation_id", res.ID).
		Str("sector_id", res.SectorID).
		Strs("table_ids", res.TableIDs).
		Int("party_size", res.PartySize).
		Str("status", string(res.Status)).
		Time("start", res.Start).
		Msg("reservation created")

	if idemKey != "" {
		return s.storeIdempotent(ctx, idemKey, res)
	}
	return res, nil
}

// Update applies a PATCH to a live reservation. Time, sector or party
// changes re-run the full placement pipeline over the new interval with the
// reservation itself excluded from overlap checks. Status never changes here.
func (s *Svc) Update(ctx context.Context, id string, in domain.UpdateInput, idemKey string) (domain.Reservation, error) {
	if idemKey != "" {
		if cached, ok, err := s.cachedReservation(ctx, idemKey); err != nil {
			return domain.Reservation{}, err
		} else if ok {
			return cached, nil
		}
	}

	cur, err := s.Repo.Get(ctx, id)
	if err != nil {
		return domain.Reservation{}, err
	}
	if cur.Status == domain.StatusCancelled {
		return domain.Reservation{}, perr.InvalidArgf("reservation %s is cancelled", id)
	}

	sectorID := cur.SectorID
	if in.SectorID != nil {
		sectorID = *in.SectorID
	}
	partySize := cur.PartySize
	if in.PartySize != nil {
		partySize = *in.PartySize
	}
	start := cur.Start
	if in.Start != nil {
		start = *in.Start
	}
	timeChanged := in.Start != nil
	placementChanged := timeChanged || sectorID != cur.SectorID || partySize != cur.PartySize

	// advance policy re-applies only when the caller moves the booking
	p, err := s.resolvePlacement(ctx, cur.RestaurantID, sectorID, start, partySize, timeChanged)
	if err != nil {
		return domain.Reservation{}, err
	}

	next := cur
	next.SectorID = p.sector.ID
	next.PartySize = partySize
	next.Start = p.start
	next.End = p.end
	if in.Customer != nil {
		next.Customer = domain.Customer(*in.Customer)
	}
	if in.Notes != nil {
		next.Notes = *in.Notes
	}
	next.UpdatedAt = s.now()

	if placementChanged {
		releaseLocks, err := s.acquirePlacementLocks(ctx, p)
		if err != nil {
			return domain.Reservation{}, err
		}
		defer releaseLocks(ctx)

		if err := s.checkGuestCap(ctx, p, partySize, cur.ID); err != nil {
			return domain.Reservation{}, err
		}
		tableIDs, err := s.assignTables(ctx, p, partySize, cur.ID)
		if err != nil {
			return domain.Reservation{}, err
		}
		if tableIDs == nil {
			return domain.Reservation{}, perr.NoCapacityf("no table available for a party of %d", partySize)
		}
		next.TableIDs = tableIDs

		if err := s.Repo.Update(ctx, next); err != nil {
			return domain.Reservation{}, err
		}
	} else {
		if err := s.Repo.Update(ctx, next); err != nil {
			return domain.Reservation{}, err
		}
	}

	s.log.Info().
		Str("reservation_id", next.ID).
		Str("sector_id", next.SectorID).
		Strs("table_ids", next.TableIDs).
		Int("party_size", next.PartySize).
		Time("start", next.Start).
		Msg("reservation updated")

	if idemKey != "" {
		return s.storeIdempotent(ctx, idemKey, next)
	}
	return next, nil
}

// Cancel is idempotent: cancelling a cancelled reservation is a no-op
func (s *Svc) Cancel(ctx context.Context, id string) error {
	cur, err := s.Repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if cur.Status == domain.StatusCancelled {
		return nil
	}
	if err := s.Repo.SetStatus(ctx, id, domain.StatusCancelled, nil, s.now()); err != nil {
		return err
	}
	s.log.Info().Str("reservation_id", id).Msg("reservation cancelled")
	return nil
}

// Day lists a restaurant's active reservations for one local calendar date
func (s *Svc) Day(ctx context.Context, restaurantID, date, sectorID string) (domain.DayView, error) {
	rest, err := s.catalog.Restaurant(ctx, restaurantID)
	if err != nil {
		return domain.DayView{}, err
	}
	loc, err := rest.Location()
	if err != nil {
		return domain.DayView{}, err
	}
	dayStart, dayEnd, err := schedule.DayBounds(date, loc)
	if err != nil {
		return domain.DayView{}, err
	}
	items, err := s.Repo.ByDay(ctx, restaurantID, dayStart.UTC(), dayEnd.UTC(), sectorID)
	if err != nil {
		return domain.DayView{}, err
	}
	if items == nil {
		items = []domain.Reservation{}
	}
	return domain.DayView{Date: date, Items: items}, nil
}

// Approve promotes a pending hold to a confirmed reservation
func (s *Svc) Approve(ctx context.Context, id string) (domain.Reservation, error) {
	cur, err := s.Repo.Get(ctx, id)
	if err != nil {
		return domain.Reservation{}, err
	}
	if cur.Status != domain.StatusPending {
		return domain.Reservation{}, perr.InvalidArgf("reservation %s is not pending", id)
	}
	now := s.now()
	if cur.ExpiresAt != nil && cur.ExpiresAt.Before(now) {
		return domain.Reservation{}, perr.Conflictf("pending hold %s has expired", id)
	}
	if err := s.Repo.SetStatus(ctx, id, domain.StatusConfirmed, nil, now); err != nil {
		return domain.Reservation{}, err
	}
	cur.Status = domain.StatusConfirmed
	cur.ExpiresAt = nil
	cur.UpdatedAt = now
	s.log.Info().Str("reservation_id", id).Msg("pending hold approved")
	return cur, nil
}

// Reject cancels a pending hold, freeing its tables
func (s *Svc) Reject(ctx context.Context, id string) (domain.Reservation, error) {
	cur, err := s.Repo.Get(ctx, id)
	if err != nil {
		return domain.Reservation{}, err
	}
	if cur.Status != domain.StatusPending {
		return domain.Reservation{}, perr.InvalidArgf("reservation %s is not pending", id)
	}
	now := s.now()
	if err := s.Repo.SetStatus(ctx, id, domain.StatusCancelled, nil, now); err != nil {
		return domain.Reservation{}, err
	}
	cur.Status = domain.StatusCancelled
	cur.ExpiresAt = nil
	cur.UpdatedAt = now
	s.log.Info().Str("reservation_id", id).Msg("pending hold rejected")
	return cur, nil
}

// ExpirePending cancels every pending hold whose TTL has lapsed
func (s *Svc) ExpirePending(ctx context.Context) (domain.SweepResult, error) {
	n, err := s.Repo.ExpirePending(ctx, s.now())
	if err != nil {
		return domain.SweepResult{}, err
	}
	if n > 0 {
		s.log.Info().Int("expired", n).Msg("pending holds expired")
	}
	return domain.SweepResult{ExpiredCount: n}, nil
}

// cachedReservation replays a previously stored idempotent response
func (s *Svc) cachedReservation(ctx context.Context, key string) (domain.Reservation, bool, error) {
	payload, ok, err := s.Repo.GetIdempotency(ctx, key)
	if err != nil || !ok {
		return domain.Reservation{}, false, err
	}
	var res domain.Reservation
	if err := json.Unmarshal(payload, &res); err != nil {
		return domain.Reservation{}, false, perr.Wrapf(err, perr.ErrorCodeDB, "idempotency payload for %s is malformed", key)
	}
	s.log.Debug().Str("idempotency_key", key).Str("reservation_id", res.ID).Msg("idempotent replay")
	return res, true, nil
}

// storeIdempotent records a successful result under the key; on a key race
// the earlier writer's reservation is returned
func (s *Svc) storeIdempotent(ctx context.Context, key string, res domain.Reservation) (domain.Reservation, error) {
	payload, err := json.Marshal(res)
	if err != nil {
		return domain.Reservation{}, perr.Wrap(err, perr.ErrorCodeUnknown, "idempotency payload encode failed")
	}
	stored, err := s.Repo.PutIdempotency(ctx, key, payload, s.now())
	if err != nil {
		return domain.Reservation{}, err
	}
	var winner domain.Reservation
	if err := json.Unmarshal(stored, &winner); err != nil {
		return domain.Reservation{}, perr.Wrapf(err, perr.ErrorCodeDB, "idempotency payload for %s is malformed", key)
	}
	return winner, nil
}
