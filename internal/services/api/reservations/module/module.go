// Package module wires reservations into the API using modkit
package module

import (
	"net/http"

	modkit "maitred/internal/modkit"
	"maitred/internal/modkit/httpkit"
	str "maitred/internal/platform/strings"
	catdom "maitred/internal/services/catalog/domain"

	rhttp "maitred/internal/services/api/reservations/http"
	rrepo "maitred/internal/services/api/reservations/repo"
	rsvc "maitred/internal/services/api/reservations/service"
)

// Module implements the modkit.Module interface
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws   []func(http.Handler) http.Handler
	ports any

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc rsvc.Service
}

// Ports declares the injected port(s) this module requires
type Ports struct {
	Catalog catdom.ReaderPort
}

// New constructs a reservations module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("reservations"),
		modkit.WithPrefix("/reservations"),
	}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Catalog == nil {
		panic("reservations module requires the catalog Reader port")
	}
	if deps.Locks == nil {
		panic("reservations module requires a lock.Manager on deps")
	}

	svc := rsvc.New(deps.PG, rrepo.NewPG(), deps.Locks, injected.Catalog)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = adaptReservationsPort{svc: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		rhttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }
