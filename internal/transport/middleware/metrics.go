package middleware

import (
	"net/http"
	"time"

	"github.com/croswell/inventario/internal/metrics"
)

// Metrics returns middleware that records request count and latency.
// The route label uses the mux's registered pattern, not the raw URL,
// so per-element URLs do not explode the label cardinality.
func Metrics(mux *http.ServeMux) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			_, route := mux.Handler(r)
			if route == "" {
				route = "unmatched"
			}
			metrics.ObserveHTTPRequest(r.Method, route, sw.status, time.Since(start))
		})
	}
}
