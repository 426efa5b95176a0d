package middleware

import (
	"net/http"
	"strings"

	pnet "maitred/internal/platform/net"
)

// IdempotencyKey copies the Idempotency-Key header onto the request context
// so write services can replay cached responses without touching transport
func IdempotencyKey() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key := strings.TrimSpace(r.Header.Get("Idempotency-Key")); key != "" {
				r = r.WithContext(pnet.WithIdempotencyKey(r.Context(), key))
			}
			next.ServeHTTP(w, r)
		})
	}
}
