package module

import (
	"context"

	resdom "maitred/internal/services/api/reservations/domain"
	ressvc "maitred/internal/services/api/reservations/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// adaptReservationsPort exposes service methods as module ports for
// cross-module usage (the sweeper consumes ExpirePending)
type adaptReservationsPort struct{ svc ressvc.Service }

func (a adaptReservationsPort) Create(ctx context.Context, in resdom.CreateInput, idemKey string) (resdom.Reservation, error) {
	return a.svc.Create(ctx, in, idemKey)
}

func (a adaptReservationsPort) Update(ctx context.Context, id string, in resdom.UpdateInput, idemKey string) (resdom.Reservation, error) {
	return a.svc.Update(ctx, id, in, idemKey)
}

func (a adaptReservationsPort) Cancel(ctx context.Context, id string) error {
	return a.svc.Cancel(ctx, id)
}

func (a adaptReservationsPort) Day(ctx context.Context, restaurantID, date, sectorID string) (resdom.DayView, error) {
	return a.svc.Day(ctx, restaurantID, date, sectorID)
}

func (a adaptReservationsPort) Approve(ctx context.Context, id string) (resdom.Reservation, error) {
	return a.svc.Approve(ctx, id)
}

func (a adaptReservationsPort) Reject(ctx context.Context, id string) (resdom.Reservation, error) {
	return a.svc.Reject(ctx, id)
}

func (a adaptReservationsPort) ExpirePending(ctx context.Context) (resdom.SweepResult, error) {
	return a.svc.ExpirePending(ctx)
}
