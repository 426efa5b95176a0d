package service

import (
	"context"
	"testing"

	"maitred/internal/core/schedule"
	perr "maitred/internal/platform/errors"
	"maitred/internal/modkit/repokit"
	"maitred/internal/services/catalog/domain"
	"maitred/internal/services/catalog/repo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopDB struct{}

func (nopDB) Exec(context.Context, string, ...any) (repokit.CommandTag, error) { return nil, nil }
func (nopDB) Query(context.Context, string, ...any) (repokit.Rows, error)      { return nil, nil }
func (nopDB) QueryRow(context.Context, string, ...any) repokit.Row             { return nil }
func (nopDB) Tx(ctx context.Context, fn func(q repokit.Queryer) error) error   { return fn(nopDB{}) }

type fakeRepo struct{ restaurant domain.Restaurant }

func (f *fakeRepo) Restaurant(_ context.Context, id string) (domain.Restaurant, error) {
	if id != f.restaurant.ID {
		return domain.Restaurant{}, perr.NotFoundf("restaurant %s not found", id)
	}
	return f.restaurant, nil
}

func (f *fakeRepo) Sector(_ context.Context, id string) (domain.Sector, error) {
	return domain.Sector{}, perr.NotFoundf("sector %s not found", id)
}

func (f *fakeRepo) TablesBySector(context.Context, string) ([]domain.Table, error) { return nil, nil }

func (f *fakeRepo) TableByID(_ context.Context, id string) (domain.Table, error) {
	return domain.Table{}, perr.NotFoundf("table %s not found", id)
}

func newSvc(fr *fakeRepo) *Svc {
	binder := repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return fr })
	return New(nopDB{}, binder)
}

func TestRestaurantValidShifts(t *testing.T) {
	fr := &fakeRepo{restaurant: domain.Restaurant{
		ID:       "r1",
		Timezone: "Europe/Madrid",
		Shifts:   []schedule.Shift{{Start: "13:00", End: "16:00"}},
	}}

	got, err := newSvc(fr).Restaurant(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "r1", got.ID)
}

func TestRestaurantRejectsMidnightSpanningShift(t *testing.T) {
	// a shift that "ends" before it starts would be silently misread by
	// every window check downstream, so the lookup refuses it outright
	fr := &fakeRepo{restaurant: domain.Restaurant{
		ID:       "r1",
		Timezone: "Europe/Madrid",
		Shifts:   []schedule.Shift{{Start: "20:00", End: "02:00"}},
	}}

	_, err := newSvc(fr).Restaurant(context.Background(), "r1")
	require.Error(t, err)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeInvalidArgument))
}

func TestRestaurantNotFound(t *testing.T) {
	fr := &fakeRepo{restaurant: domain.Restaurant{ID: "r1", Timezone: "UTC"}}
	_, err := newSvc(fr).Restaurant(context.Background(), "nope")
	assert.True(t, perr.IsCode(err, perr.ErrorCodeNotFound))
}
