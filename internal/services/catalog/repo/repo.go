// Package repo provides postgres access for the catalog
package repo

import (
	"context"
	"encoding/json"
	"errors"

	"maitred/internal/modkit/repokit"
	perr "maitred/internal/platform/errors"
	"maitred/internal/services/catalog/domain"

	"github.com/jackc/pgx/v5"
)

// Repo defines the repository contract for catalog reads
type Repo interface {
	Restaurant(ctx context.Context, id string) (domain.Restaurant, error)
	Sector(ctx context.Context, id string) (domain.Sector, error)
	TablesBySector(ctx context.Context, sectorID string) ([]domain.Table, error)
	TableByID(ctx context.Context, id string) (domain.Table, error)
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

func (r *queries) Restaurant(ctx context.Context, id string) (domain.Restaurant, error) {
	const sql = `
		SELECT id, name, timezone,
			COALESCE(shifts, '[]'::jsonb),
			default_duration_minutes,
			COALESCE(duration_rules, '[]'::jsonb),
			COALESCE(min_advance_minutes, 0),
			COALESCE(max_advance_days, 0),
			COALESCE(large_group_threshold, 0),
			COALESCE(pending_hold_ttl_minutes, 0),
			COALESCE(max_guests_per_slot, 0)
		FROM restaurants
		WHERE id = $1
	`
	var out domain.Restaurant
	var shifts, rules []byte
	err := r.q.QueryRow(ctx, sql, id).Scan(
		&out.ID,
		&out.Name,
		&out.Timezone,
		&shifts,
		&out.DefaultDurationMinutes,
		&rules,
		&out.Advance.MinAdvanceMinutes,
		&out.Advance.MaxAdvanceDays,
		&out.LargeGroupThreshold,
		&out.PendingHoldTTLMinutes,
		&out.MaxGuestsPerSlot,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Restaurant{}, perr.NotFoundf("restaurant %s not found", id)
	}
	if err != nil {
		return domain.Restaurant{}, perr.FromPostgres(err, "restaurant lookup failed")
	}
	if err := json.Unmarshal(shifts, &out.Shifts); err != nil {
		return domain.Restaurant{}, perr.Wrapf(err, perr.ErrorCodeDB, "restaurant %s has malformed shifts", id)
	}
	if err := json.Unmarshal(rules, &out.DurationRules); err != nil {
		return domain.Restaurant{}, perr.Wrapf(err, perr.ErrorCodeDB, "restaurant %s has malformed duration rules", id)
	}
	return out, nil
}

func (r *queries) Sector(ctx context.Context, id string) (domain.Sector, error) {
	var out domain.Sector
	err := r.q.QueryRow(ctx,
		`SELECT id, restaurant_id, name FROM sectors WHERE id = $1`, id,
	).Scan(&out.ID, &out.RestaurantID, &out.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Sector{}, perr.NotFoundf("sector %s not found", id)
	}
	if err != nil {
		return domain.Sector{}, perr.FromPostgres(err, "sector lookup failed")
	}
	return out, nil
}

func (r *queries) TablesBySector(ctx context.Context, sectorID string) ([]domain.Table, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, sector_id, min_size, max_size FROM tables WHERE sector_id = $1 ORDER BY id`, sectorID,
	)
	if err != nil {
		return nil, perr.FromPostgres(err, "tables lookup failed")
	}
	defer rows.Close()

	var out []domain.Table
	for rows.Next() {
		var t domain.Table
		if err := rows.Scan(&t.ID, &t.SectorID, &t.MinSize, &t.MaxSize); err != nil {
			return nil, perr.FromPostgres(err, "tables scan failed")
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *queries) TableByID(ctx context.Context, id string) (domain.Table, error) {
	var out domain.Table
	err := r.q.QueryRow(ctx,
		`SELECT id, sector_id, min_size, max_size FROM tables WHERE id = $1`, id,
	).Scan(&out.ID, &out.SectorID, &out.MinSize, &out.MaxSize)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Table{}, perr.NotFoundf("table %s not found", id)
	}
	if err != nil {
		return domain.Table{}, perr.FromPostgres(err, "table lookup failed")
	}
	return out, nil
}
