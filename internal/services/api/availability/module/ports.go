package module

import (
	"context"

	avdom "maitred/internal/services/api/availability/domain"
	avsvc "maitred/internal/services/api/availability/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// adaptAvailabilityPort exposes the service as a module port
type adaptAvailabilityPort struct{ svc avsvc.Service }

func (a adaptAvailabilityPort) Availability(ctx context.Context, q avdom.Query) (avdom.Report, error) {
	return a.svc.Availability(ctx, q)
}
