//go:build integration_pg
// +build integration_pg

package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	perr "maitred/internal/platform/errors"
	"maitred/internal/platform/store"
	"maitred/internal/services/api/reservations/domain"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) (dsn string, stop func()) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)

	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "postgres",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(2 * time.Minute),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		cancel()
		t.Fatalf("failed to start postgres container: %v", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get container host: %v", err)
	}
	mapped, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get mapped port: %v", err)
	}

	dsn = fmt.Sprintf("postgres://postgres:postgres@%s:%s/postgres?sslmode=disable", host, mapped.Port())
	stop = func() {
		_ = c.Terminate(context.Background())
		cancel()
	}
	return dsn, stop
}

const schema = `
	CREATE TABLE reservations (
		id             text PRIMARY KEY,
		restaurant_id  text NOT NULL,
		sector_id      text NOT NULL,
		table_ids      text[] NOT NULL,
		party_size     int NOT NULL,
		start_at       timestamptz NOT NULL,
		end_at         timestamptz NOT NULL,
		status         text NOT NULL,
		expires_at     timestamptz,
		customer_name  text NOT NULL,
		customer_phone text NOT NULL,
		customer_email text NOT NULL,
		notes          text,
		created_at     timestamptz NOT NULL,
		updated_at     timestamptz NOT NULL
	);
	CREATE INDEX reservations_overlap_idx ON reservations (sector_id, start_at, end_at) WHERE status IN ('CONFIRMED','PENDING');

	CREATE TABLE idempotency_keys (
		key        text PRIMARY KEY,
		payload    bytea NOT NULL,
		created_at timestamptz NOT NULL
	);
`

func openRepo(t *testing.T, ctx context.Context, dsn string) (Repo, store.TxRunner, func()) {
	t.Helper()

	st, err := store.Open(ctx, store.Config{
		AppName: "maitred-repo-integration",
		PG:      store.PGConfig{Enabled: true, URL: dsn, MaxConns: 2},
	})
	if err != nil {
		t.Fatalf("store.Open failed: %v", err)
	}
	if _, err := st.PG.Exec(ctx, schema); err != nil {
		_ = st.Close(context.Background())
		t.Fatalf("schema apply failed: %v", err)
	}
	return NewPG().Bind(st.PG), st.PG, func() { _ = st.Close(context.Background()) }
}

func sample(id string, start time.Time, minutes int, tables ...string) domain.Reservation {
	now := start.Add(-time.Hour)
	return domain.Reservation{
		ID:           id,
		RestaurantID: "r1",
		SectorID:     "s1",
		TableIDs:     tables,
		PartySize:    2,
		Start:        start,
		End:          start.Add(time.Duration(minutes) * time.Minute),
		Status:       domain.StatusConfirmed,
		Customer:     domain.Customer{Name: "Ada", Phone: "+1 555 0100", Email: "ada@example.com"},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestReservationsRepo_Integration(t *testing.T) {
	dsn, stop := startPostgres(t)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	r, _, closeStore := openRepo(t, ctx, dsn)
	defer closeStore()

	base := time.Date(2025, 9, 8, 23, 0, 0, 0, time.UTC)

	// create + get round trip, including the text[] column and empty notes
	res := sample("a1", base, 75, "t1")
	if err := r.Create(ctx, res); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := r.Get(ctx, "a1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.TableIDs) != 1 || got.TableIDs[0] != "t1" {
		t.Fatalf("table_ids round trip: %#v", got.TableIDs)
	}
	if !got.Start.Equal(res.Start) || !got.End.Equal(res.End) {
		t.Fatalf("interval round trip: %v..%v", got.Start, got.End)
	}
	if got.Status != domain.StatusConfirmed || got.ExpiresAt != nil || got.Notes != "" {
		t.Fatalf("unexpected row: %#v", got)
	}

	if _, err := r.Get(ctx, "missing"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("missing get: %v", err)
	}

	// overlap query: strict interval semantics, table intersection, exclusion
	hits, err := r.Overlapping(ctx, []string{"t1"}, base.Add(30*time.Minute), base.Add(2*time.Hour), "")
	if err != nil {
		t.Fatalf("overlap: %v", err)
	}
	if len(hits) != 1 || hits[0].ID != "a1" {
		t.Fatalf("overlap hit: %#v", hits)
	}
	// back-to-back does not collide
	hits, err = r.Overlapping(ctx, []string{"t1"}, res.End, res.End.Add(time.Hour), "")
	if err != nil {
		t.Fatalf("overlap: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("adjacent should be free: %#v", hits)
	}
	// other table is free
	hits, err = r.Overlapping(ctx, []string{"t2"}, base, base.Add(time.Hour), "")
	if err != nil {
		t.Fatalf("overlap: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("t2 should be free: %#v", hits)
	}
	// the reservation does not collide with itself when excluded
	hits, err = r.Overlapping(ctx, []string{"t1"}, base, base.Add(time.Hour), "a1")
	if err != nil {
		t.Fatalf("overlap: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("exclusion failed: %#v", hits)
	}

	// day query with and without sector filter
	day, err := r.ByDay(ctx, "r1", base.Truncate(24*time.Hour), base.Truncate(24*time.Hour).Add(24*time.Hour), "")
	if err != nil {
		t.Fatalf("byday: %v", err)
	}
	if len(day) != 1 {
		t.Fatalf("byday: %#v", day)
	}
	day, err = r.ByDay(ctx, "r1", base.Truncate(24*time.Hour), base.Truncate(24*time.Hour).Add(24*time.Hour), "other")
	if err != nil {
		t.Fatalf("byday: %v", err)
	}
	if len(day) != 0 {
		t.Fatalf("sector filter: %#v", day)
	}

	// expiry sweep flips only lapsed pending rows
	exp := base.Add(-10 * time.Minute)
	hold := sample("p1", base.Add(3*time.Hour), 120, "t2")
	hold.Status = domain.StatusPending
	hold.ExpiresAt = &exp
	if err := r.Create(ctx, hold); err != nil {
		t.Fatalf("create hold: %v", err)
	}
	live := base.Add(time.Hour)
	hold2 := sample("p2", base.Add(5*time.Hour), 120, "t3")
	hold2.Status = domain.StatusPending
	hold2.ExpiresAt = &live
	if err := r.Create(ctx, hold2); err != nil {
		t.Fatalf("create hold2: %v", err)
	}
	n, err := r.ExpirePending(ctx, base)
	if err != nil {
		t.Fatalf("expire: %v", err)
	}
	if n != 1 {
		t.Fatalf("expired %d, want 1", n)
	}
	swept, err := r.Get(ctx, "p1")
	if err != nil {
		t.Fatalf("get swept: %v", err)
	}
	if swept.Status != domain.StatusCancelled || swept.ExpiresAt != nil {
		t.Fatalf("sweep result: %#v", swept)
	}
	kept, err := r.Get(ctx, "p2")
	if err != nil {
		t.Fatalf("get kept: %v", err)
	}
	if kept.Status != domain.StatusPending {
		t.Fatalf("p2 should survive: %#v", kept)
	}

	// idempotency: first writer wins, replay reads it back
	first, err := r.PutIdempotency(ctx, "k1", []byte(`{"id":"a1"}`), base)
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	second, err := r.PutIdempotency(ctx, "k1", []byte(`{"id":"zzz"}`), base)
	if err != nil {
		t.Fatalf("put race: %v", err)
	}
	if string(first) != `{"id":"a1"}` || string(second) != `{"id":"a1"}` {
		t.Fatalf("idempotency payloads: %q %q", first, second)
	}
	payload, ok, err := r.GetIdempotency(ctx, "k1")
	if err != nil || !ok || string(payload) != `{"id":"a1"}` {
		t.Fatalf("idempotency read: %q %v %v", payload, ok, err)
	}
	if _, ok, err := r.GetIdempotency(ctx, "nope"); err != nil || ok {
		t.Fatalf("idempotency miss: %v %v", ok, err)
	}
}
