// Package api provides the HTTP API for the reservation engine
package api

import (
	"maitred/internal/platform/config"
	"maitred/internal/platform/lock"
	"maitred/internal/platform/logger"
	phttp "maitred/internal/platform/net/http"
	"maitred/internal/platform/store"

	"maitred/internal/modkit"
	"maitred/internal/modkit/httpkit"
	"maitred/internal/modkit/module"

	availmod "maitred/internal/services/api/availability/module"
	resmod "maitred/internal/services/api/reservations/module"
	catmod "maitred/internal/services/catalog/module"
)

// Options are the API options
type Options struct {
	Config config.Conf
	Store  *store.Store
	Logger *logger.Logger
	Locks  lock.Manager
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg:   opt.Config,
		PG:    opt.Store.PG,
		Locks: opt.Locks,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	// the catalog module carries no routes; the others consume its Reader port
	catalog := catmod.New(deps)
	cat := module.MustPortsOf[catmod.Ports](catalog).Reader

	reservations := resmod.New(deps, modkit.WithPorts(resmod.Ports{Catalog: cat}))
	availability := availmod.New(deps, modkit.WithPorts(availmod.Ports{Catalog: cat}))

	mods := []module.Module{
		catalog,
		reservations,
		availability,
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its prefix
			m.MountRoutes(api)
		}
	})
}
