// Package http provides http transport for availability
package http

import (
	stdhttp "net/http"
	"strconv"

	"maitred/internal/modkit/httpkit"
	perr "maitred/internal/platform/errors"
	"maitred/internal/services/api/availability/domain"
	svc "maitred/internal/services/api/availability/service"
)

// Register mounts availability endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/", h.availability)
}

type handlers struct{ svc svc.Service }

func (h *handlers) availability(r *stdhttp.Request) (any, error) {
	q := r.URL.Query()
	party, err := strconv.Atoi(q.Get("party_size"))
	if err != nil || party < 1 {
		return nil, perr.InvalidArgf("party_size must be a positive integer")
	}
	in := domain.Query{
		RestaurantID: q.Get("restaurant_id"),
		SectorID:     q.Get("sector_id"),
		Date:         q.Get("date"),
		PartySize:    party,
	}
	if in.RestaurantID == "" || in.SectorID == "" || in.Date == "" {
		return nil, perr.InvalidArgf("restaurant_id, sector_id and date are required")
	}
	return h.svc.Availability(r.Context(), in)
}
