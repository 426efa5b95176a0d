// Package repo provides the read-side day query for availability
package repo

import (
	"context"
	"time"

	"maitred/internal/modkit/repokit"
	perr "maitred/internal/platform/errors"
	resdom "maitred/internal/services/api/reservations/domain"
)

// Repo defines the repository contract for availability reads
type Repo interface {
	// ActiveByDaySector returns every CONFIRMED or PENDING reservation of
	// the sector whose interval touches [dayStartUTC, dayEndUTC)
	ActiveByDaySector(ctx context.Context, sectorID string, dayStartUTC, dayEndUTC time.Time) ([]resdom.Reservation, error)
}

type (
	// PG implements the Repo interface using Postgres
	PG struct{}

	queries struct{ q repokit.Queryer }
)

// NewPG creates a new Postgres repository binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind binds a Postgres queryer to the Repo implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

func (r *queries) ActiveByDaySector(
	ctx context.Context,
	sectorID string,
	dayStartUTC, dayEndUTC time.Time,
) ([]resdom.Reservation, error) {
	// interval overlap with the day, not start containment: a booking that
	// started before midnight still blocks its tables this morning
	const sql = `
		SELECT id, restaurant_id, sector_id, table_ids, party_size,
			start_at, end_at, status, expires_at,
			customer_name, customer_phone, customer_email,
			COALESCE(notes, ''), created_at, updated_at
		FROM reservations
		WHERE sector_id = $1
		AND status IN ('CONFIRMED','PENDING')
		AND start_at < $3 AND end_at > $2
		ORDER BY start_at, id
	`
	rows, err := r.q.Query(ctx, sql, sectorID, dayStartUTC, dayEndUTC)
	if err != nil {
		return nil, perr.FromPostgres(err, "availability day query failed")
	}
	defer rows.Close()

	var out []resdom.Reservation
	for rows.Next() {
		var res resdom.Reservation
		var status string
		if err := rows.Scan(
			&res.ID, &res.RestaurantID, &res.SectorID, &res.TableIDs, &res.PartySize,
			&res.Start, &res.End, &status, &res.ExpiresAt,
			&res.Customer.Name, &res.Customer.Phone, &res.Customer.Email,
			&res.Notes, &res.CreatedAt, &res.UpdatedAt,
		); err != nil {
			return nil, perr.FromPostgres(err, "availability scan failed")
		}
		res.Status = resdom.Status(status)
		out = append(out, res)
	}
	return out, rows.Err()
}
