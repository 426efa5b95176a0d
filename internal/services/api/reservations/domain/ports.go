package domain

import "context"

// ServicePort defines the reservation workflows exposed to transport and
// to other modules
type ServicePort interface {
	Create(ctx context.Context, in CreateInput, idemKey string) (Reservation, error)
	Update(ctx context.Context, id string, in UpdateInput, idemKey string) (Reservation, error)
	Cancel(ctx context.Context, id string) error
	Day(ctx context.Context, restaurantID, date, sectorID string) (DayView, error)
	Approve(ctx context.Context, id string) (Reservation, error)
	Reject(ctx context.Context, id string) (Reservation, error)
	ExpirePending(ctx context.Context) (SweepResult, error)
}

// ExpirerPort is the narrow slice the sweeper worker needs
type ExpirerPort interface {
	ExpirePending(ctx context.Context) (SweepResult, error)
}
