package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/samims/ecowatt/internal/metrics"
)

// Metrics records request counts and durations labelled by route pattern.
func Metrics(service string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)
			duration := time.Since(start).Seconds()

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}
			status := strconv.Itoa(ww.Status())

			metrics.HTTPRequests.WithLabelValues(service, route, r.Method, status).Inc()
			metrics.RequestDuration.WithLabelValues(service, route, r.Method).Observe(duration)
		})
	}
}
