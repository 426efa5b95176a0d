// Package http provides http transport for reservations
package http

import (
	stdhttp "net/http"

	"maitred/internal/modkit/httpkit"
	pnet "maitred/internal/platform/net"
	"maitred/internal/services/api/reservations/domain"
	svc "maitred/internal/services/api/reservations/service"
)

// Register mounts reservation endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.CreateInput](r, "/", h.create)
	httpkit.Get(r, "/day", h.day)
	httpkit.Post(r, "/expire-pending", h.expirePending)
	httpkit.PatchJSON[domain.UpdateInput](r, "/{id}", h.update)
	httpkit.Delete(r, "/{id}", h.cancel)
	httpkit.Post(r, "/{id}/approve", h.approve)
	httpkit.Post(r, "/{id}/reject", h.reject)
}

type handlers struct{ svc svc.Service }

func (h *handlers) create(r *stdhttp.Request, in domain.CreateInput) (any, error) {
	res, err := h.svc.Create(r.Context(), in, pnet.IdempotencyKey(r.Context()))
	if err != nil {
		return nil, err
	}
	return httpkit.Created(res), nil
}

func (h *handlers) update(r *stdhttp.Request, in domain.UpdateInput) (any, error) {
	return h.svc.Update(r.Context(), httpkit.Param(r, "id"), in, pnet.IdempotencyKey(r.Context()))
}

func (h *handlers) cancel(r *stdhttp.Request) (any, error) {
	if err := h.svc.Cancel(r.Context(), httpkit.Param(r, "id")); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}

func (h *handlers) day(r *stdhttp.Request) (any, error) {
	q := r.URL.Query()
	return h.svc.Day(r.Context(), q.Get("restaurant_id"), q.Get("date"), q.Get("sector_id"))
}

func (h *handlers) approve(r *stdhttp.Request) (any, error) {
	return h.svc.Approve(r.Context(), httpkit.Param(r, "id"))
}

func (h *handlers) reject(r *stdhttp.Request) (any, error) {
	return h.svc.Reject(r.Context(), httpkit.Param(r, "id"))
}

func (h *handlers) expirePending(r *stdhttp.Request) (any, error) {
	return h.svc.ExpirePending(r.Context())
}
