package middleware

import (
	"net/http"
	"time"

	"maitred/internal/platform/logger"
	pnet "maitred/internal/platform/net"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// AccessLog emits one structured line per request with status, latency, and request id
func AccessLog() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log := logger.Named("http")
			evt := log.Info()
			if ww.Status() >= 500 {
				evt = log.Error()
			} else if ww.Status() >= 400 {
				evt = log.Warn()
			}
			evt.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("elapsed", time.Since(start)).
				Str("request_id", pnet.RequestID(r.Context())).
				Msg("request")
		})
	}
}
