package domain

import "context"

// ServicePort defines the availability contract
type ServicePort interface {
	Availability(ctx context.Context, q Query) (Report, error)
}
