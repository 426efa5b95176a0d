package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"maitred/internal/modkit"
	"maitred/internal/modkit/module"
	"maitred/internal/modkit/repokit"
	"maitred/internal/platform/config"
	"maitred/internal/platform/lock"
	"maitred/internal/platform/logger"
	"maitred/internal/platform/store"

	resdom "maitred/internal/services/api/reservations/domain"
	resmod "maitred/internal/services/api/reservations/module"
	catmod "maitred/internal/services/catalog/module"
	sweepsvc "maitred/internal/services/sweeper/service"
)

func main() {
	root := config.New()
	dbCfg := root.Prefix("SERVICE_PGSQL_")
	swCfg := root.Prefix("SWEEPER_")

	l := logger.Get()

	st, err := store.Open(context.Background(), store.Config{
		AppName: "maitred-sweeper",
		PG: store.PGConfig{
			Enabled:     true,
			URL:         dbCfg.MustString("DBURL"),
			MaxConns:    int32(dbCfg.MayInt("MAX_CONNS", 2)),
			SlowQueryMs: dbCfg.MayInt("SLOW_MS", 500),
			LogSQL:      dbCfg.MayBool("LOG_SQL", false),
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	repokit.MustGuard(context.Background(), st)

	// the sweeper never takes slot locks; the in-process manager satisfies
	// the module wiring
	deps := modkit.Deps{
		Cfg:   root,
		PG:    st.PG,
		Log:   *l,
		Locks: lock.NewMemory(0),
	}

	catalog := catmod.New(deps)
	cat := module.MustPortsOf[catmod.Ports](catalog).Reader
	reservations := resmod.New(deps, modkit.WithPorts(resmod.Ports{Catalog: cat}))

	var expirer resdom.ExpirerPort = module.MustPortsOf[resdom.ExpirerPort](reservations)

	sweeper := sweepsvc.New(expirer, sweepsvc.Config{
		Every: swCfg.MayDuration("EVERY", time.Minute),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := sweeper.Run(ctx); err != nil && ctx.Err() == nil {
		l.Fatal().Err(err).Msg("sweeper stopped")
	}
	l.Info().Msg("sweeper shut down")
}
