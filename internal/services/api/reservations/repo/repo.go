// Package repo provides postgres access for reservations and idempotency keys
package repo

import (
	"context"
	"errors"
	"time"

	"maitred/internal/modkit/repokit"
	perr "maitred/internal/platform/errors"
	"maitred/internal/services/api/reservations/domain"

	"github.com/jackc/pgx/v5"
)

// Repo defines the repository contract for reservations
type Repo interface {
	Get(ctx context.Context, id string) (domain.Reservation, error)
	Create(ctx context.Context, r domain.Reservation) error
	Update(ctx context.Context, r domain.Reservation) error
	SetStatus(ctx context.Context, id string, status domain.Status, expiresAt *time.Time, updatedAt time.Time) error

	// ByDay returns active reservations whose start lies in [dayStartUTC, dayEndUTC);
	// sectorID narrows the result when non-empty
	ByDay(ctx context.Context, restaurantID string, dayStartUTC, dayEndUTC time.Time, sectorID string) ([]domain.Reservation, error)

	// Overlapping returns active reservations that strictly overlap [start, end)
	// and intersect the given table set; excludeID omits one reservation
	Overlapping(ctx context.Context, tableIDs []string, start, end time.Time, excludeID string) ([]domain.Reservation, error)

	// OverlappingRestaurant is the restaurant-wide variant used for the guest cap
	OverlappingRestaurant(ctx context.Context, restaurantID string, start, end time.Time, excludeID string) ([]domain.Reservation, error)

	PendingAll(ctx context.Context) ([]domain.Reservation, error)
	ExpirePending(ctx context.Context, now time.Time) (int, error)

	GetIdempotency(ctx context.Context, key string) ([]byte, bool, error)
	// PutIdempotency stores the payload unless the key exists; the stored
	// payload (ours or the earlier winner's) is returned
	PutIdempotency(ctx context.Context, key string, payload []byte, now time.Time) ([]byte, error)
}

type (
	// PG implements the Repo interface using Postgres
	PG struct{}

	// queries holds the database query methods
	queries struct{ q repokit.Queryer }
)

// NewPG creates a new Postgres repository binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind binds a Postgres queryer to the Repo implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

const reservationCols = `
	id, restaurant_id, sector_id, table_ids, party_size,
	start_at, end_at, status, expires_at,
	customer_name, customer_phone, customer_email,
	COALESCE(notes, ''), created_at, updated_at
`

func scanReservation(row repokit.Row) (domain.Reservation, error) {
	var r domain.Reservation
	var status string
	err := row.Scan(
		&r.ID, &r.RestaurantID, &r.SectorID, &r.TableIDs, &r.PartySize,
		&r.Start, &r.End, &status, &r.ExpiresAt,
		&r.Customer.Name, &r.Customer.Phone, &r.Customer.Email,
		&r.Notes, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return domain.Reservation{}, err
	}
	r.Status = domain.Status(status)
	return r, nil
}

func collectReservations(rows repokit.Rows) ([]domain.Reservation, error) {
	defer rows.Close()
	var out []domain.Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, perr.FromPostgres(err, "reservation scan failed")
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (r *queries) Get(ctx context.Context, id string) (domain.Reservation, error) {
	row := r.q.QueryRow(ctx, `SELECT `+reservationCols+` FROM reservations WHERE id = $1`, id)
	out, err := scanReservation(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Reservation{}, perr.NotFoundf("reservation %s not found", id)
	}
	if err != nil {
		return domain.Reservation{}, perr.FromPostgres(err, "reservation lookup failed")
	}
	return out, nil
}

func (r *queries) Create(ctx context.Context, res domain.Reservation) error {
	const sql = `
		INSERT INTO reservations (
			id, restaurant_id, sector_id, table_ids, party_size,
			start_at, end_at, status, expires_at,
			customer_name, customer_phone, customer_email, notes,
			created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,NULLIF($13,''),$14,$15)
	`
	_, err := r.q.Exec(ctx, sql,
		res.ID, res.RestaurantID, res.SectorID, res.TableIDs, res.PartySize,
		res.Start, res.End, string(res.Status), res.ExpiresAt,
		res.Customer.Name, res.Customer.Phone, res.Customer.Email, res.Notes,
		res.CreatedAt, res.UpdatedAt,
	)
	return perr.FromPostgres(err, "reservation insert failed")
}

func (r *queries) Update(ctx context.Context, res domain.Reservation) error {
	const sql = `
		UPDATE reservations SET
			sector_id = $2, table_ids = $3, party_size = $4,
			start_at = $5, end_at = $6,
			customer_name = $7, customer_phone = $8, customer_email = $9,
			notes = NULLIF($10, ''), updated_at = $11
		WHERE id = $1
	`
	tag, err := r.q.Exec(ctx, sql,
		res.ID, res.SectorID, res.TableIDs, res.PartySize,
		res.Start, res.End,
		res.Customer.Name, res.Customer.Phone, res.Customer.Email,
		res.Notes, res.UpdatedAt,
	)
	if err != nil {
		return perr.FromPostgres(err, "reservation update failed")
	}
	if tag.RowsAffected() == 0 {
		return perr.NotFoundf("reservation %s not found", res.ID)
	}
	return nil
}

func (r *queries) SetStatus(
	ctx context.Context,
	id string,
	status domain.Status,
	expiresAt *time.Time,
	updatedAt time.Time,
) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE reservations SET status = $2, expires_at = $3, updated_at = $4 WHERE id = $1`,
		id, string(status), expiresAt, updatedAt,
	)
	if err != nil {
		return perr.FromPostgres(err, "reservation status update failed")
	}
	if tag.RowsAffected() == 0 {
		return perr.NotFoundf("reservation %s not found", id)
	}
	return nil
}

func (r *queries) ByDay(
	ctx context.Context,
	restaurantID string,
	dayStartUTC, dayEndUTC time.Time,
	sectorID string,
) ([]domain.Reservation, error) {
	const sql = `
		SELECT ` + reservationCols + `
		FROM reservations
		WHERE restaurant_id = $1
		AND status IN ('CONFIRMED','PENDING')
		AND start_at >= $2 AND start_at < $3
		AND ($4 = '' OR sector_id = $4)
		ORDER BY start_at, id
	`
	rows, err := r.q.Query(ctx, sql, restaurantID, dayStartUTC, dayEndUTC, sectorID)
	if err != nil {
		return nil, perr.FromPostgres(err, "day query failed")
	}
	return collectReservations(rows)
}

func (r *queries) Overlapping(
	ctx context.Context,
	tableIDs []string,
	start, end time.Time,
	excludeID string,
) ([]domain.Reservation, error) {
	const sql = `
		SELECT ` + reservationCols + `
		FROM reservations
		WHERE status IN ('CONFIRMED','PENDING')
		AND table_ids && $1::text[]
		AND start_at < $3 AND end_at > $2
		AND ($4 = '' OR id <> $4)
		ORDER BY start_at, id
	`
	rows, err := r.q.Query(ctx, sql, tableIDs, start, end, excludeID)
	if err != nil {
		return nil, perr.FromPostgres(err, "overlap query failed")
	}
	return collectReservations(rows)
}

func (r *queries) OverlappingRestaurant(
	ctx context.Context,
	restaurantID string,
	start, end time.Time,
	excludeID string,
) ([]domain.Reservation, error) {
	const sql = `
		SELECT ` + reservationCols + `
		FROM reservations
		WHERE restaurant_id = $1
		AND status IN ('CONFIRMED','PENDING')
		AND start_at < $3 AND end_at > $2
		AND ($4 = '' OR id <> $4)
		ORDER BY start_at, id
	`
	rows, err := r.q.Query(ctx, sql, restaurantID, start, end, excludeID)
	if err != nil {
		return nil, perr.FromPostgres(err, "restaurant overlap query failed")
	}
	return collectReservations(rows)
}

func (r *queries) PendingAll(ctx context.Context) ([]domain.Reservation, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+reservationCols+` FROM reservations WHERE status = 'PENDING' ORDER BY expires_at, id`,
	)
	if err != nil {
		return nil, perr.FromPostgres(err, "pending query failed")
	}
	return collectReservations(rows)
}

func (r *queries) ExpirePending(ctx context.Context, now time.Time) (int, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE reservations
		SET status = 'CANCELLED', expires_at = NULL, updated_at = $1
		WHERE status = 'PENDING' AND expires_at < $1
	`, now)
	if err != nil {
		return 0, perr.FromPostgres(err, "expiry sweep failed")
	}
	return int(tag.RowsAffected()), nil
}

func (r *queries) GetIdempotency(ctx context.Context, key string) ([]byte, bool, error) {
	var payload []byte
	err := r.q.QueryRow(ctx,
		`SELECT payload FROM idempotency_keys WHERE key = $1`, key,
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, perr.FromPostgres(err, "idempotency lookup failed")
	}
	return payload, true, nil
}

func (r *queries) PutIdempotency(ctx context.Context, key string, payload []byte, now time.Time) ([]byte, error) {
	// conditional insert: on a key race the earlier writer wins and its
	// payload is what every caller sees
	tag, err := r.q.Exec(ctx, `
		INSERT INTO idempotency_keys (key, payload, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO NOTHING
	`, key, payload, now)
	if err != nil {
		return nil, perr.FromPostgres(err, "idempotency insert failed")
	}
	if tag.RowsAffected() > 0 {
		return payload, nil
	}
	stored, ok, err := r.GetIdempotency(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, perr.DBf("idempotency key %s vanished between insert and read", key)
	}
	return stored, nil
}
