package pg

import (
	"context"

	"maitred/internal/platform/logger"
)

// QueryEvent describes one executed statement
type QueryEvent struct {
	SQL       string
	Args      []any
	ElapsedUS int64
	Err       error
	Slow      bool
}

// QueryTracer receives query events from the adapters
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

type logTracer struct{ log logger.Logger }

// Tracer returns a QueryTracer that logs statements through zerolog
func Tracer(log logger.Logger) QueryTracer { return &logTracer{log: log} }

func (t *logTracer) OnQuery(_ context.Context, ev QueryEvent) {
	evt := t.log.Debug()
	if ev.Err != nil {
		evt = t.log.Error().Err(ev.Err)
	} else if ev.Slow {
		evt = t.log.Warn().Bool("slow", true)
	}
	evt.Str("sql", ev.SQL).Int64("elapsed_us", ev.ElapsedUS).Msg("pg query")
}
