package middleware

import (
	"net/http"
	"strconv"
	"time"

	"triviaboard/pkg/metrics"

	"github.com/gorilla/mux"
)

// MetricsMiddleware labels requests with the matched route template so
// /leaderboard/2023 and /leaderboard/2024 share one series. Requests that
// match no route share the "unmatched" series.
func MetricsMiddleware(m *metrics.Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)

			next.ServeHTTP(rec, r)

			endpoint := "unmatched"
			if route := mux.CurrentRoute(r); route != nil {
				if tpl, err := route.GetPathTemplate(); err == nil {
					endpoint = tpl
				}
			}
			m.RequestsTotal.WithLabelValues(r.Method, endpoint, strconv.Itoa(rec.status)).Inc()
			m.RequestDuration.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
		})
	}
}
