package main

import (
	"context"
	"time"

	"maitred/internal/modkit/repokit"
	"maitred/internal/platform/config"
	"maitred/internal/platform/lock"
	"maitred/internal/platform/logger"
	phttp "maitred/internal/platform/net/http"
	"maitred/internal/platform/store"

	"maitred/internal/services/api"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	pgCfg := root.Prefix("SERVICE_PGSQL_")
	rdCfg := root.Prefix("SERVICE_REDIS_")

	// bring up logging early
	l := logger.Get()

	// open the platform store (postgres + optional redis for slot locks)
	st, err := store.Open(
		context.Background(),
		store.Config{
			AppName: "maitred-api",
			PG: store.PGConfig{
				Enabled:     true,
				URL:         pgCfg.MustString("DBURL"),
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", true),
			},
			RD: store.RedisConfig{
				Enabled:  rdCfg.MayBool("ENABLED", true),
				Addr:     rdCfg.MayString("ADDR", "127.0.0.1:6379"),
				Password: rdCfg.MayString("PASSWORD", ""),
				DB:       rdCfg.MayInt("DB", 0),
			},
		},
		store.WithLogger(*logger.Get()),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	repokit.MustGuard(context.Background(), st)

	// slot locks ride redis when it is configured; a single-node deployment
	// can run on the in-process manager
	ttl := apiCfg.MayDuration("LOCK_TTL", 30*time.Second)
	var locks lock.Manager
	if st.RD != nil {
		locks = lock.NewRedis(st.RD, ttl)
	} else {
		l.Warn().Msg("redis disabled; slot locks are process-local")
		locks = lock.NewMemory(ttl)
	}

	// http server (reads CORE_API_PORT)
	srv := phttp.NewServer(apiCfg)

	// mount our API
	api.Mount(
		srv.Router(),
		api.Options{
			Config: apiCfg,
			Store:  st,
			Logger: l,
			Locks:  locks,
		},
	)

	// run
	if err := srv.Run(context.Background()); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
