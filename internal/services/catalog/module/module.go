// Package module wires the catalog into the process using modkit.
// The catalog exposes no routes of its own; it exists for its ports.
package module

import (
	modkit "maitred/internal/modkit"
	"maitred/internal/modkit/httpkit"
	catrepo "maitred/internal/services/catalog/repo"
	catsvc "maitred/internal/services/catalog/service"
)

// Module implements the modkit.Module interface
type Module struct {
	deps modkit.Deps
	name string

	svc   catsvc.Service
	ports any
}

// New constructs a catalog module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("catalog")}, opts...)...)

	svc := catsvc.New(deps.PG, catrepo.NewPG())

	m := &Module{
		deps: deps,
		name: b.Name,
		svc:  svc,
	}
	m.ports = Ports{Reader: svc}
	return m
}

// MountRoutes implements the modkit.Module interface; the catalog has none
func (m *Module) MountRoutes(httpkit.Router) {}

// Name returns the module name
func (m *Module) Name() string { return m.name }
