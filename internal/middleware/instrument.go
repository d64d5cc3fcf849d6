package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/sajidalishaik45/coauthor-network/internal/logger"
	"github.com/sajidalishaik45/coauthor-network/internal/metrics"
)

// Instrument records request metrics labelled by route template and writes
// an access log line per request.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)

		status := sw.status
		if status == 0 {
			status = http.StatusOK
		}
		endpoint := routeName(r)
		elapsed := time.Since(start)
		code := strconv.Itoa(status)

		metrics.APIRequestDuration.WithLabelValues(endpoint, r.Method, code).Observe(elapsed.Seconds())
		metrics.APIRequestsTotal.WithLabelValues(endpoint, r.Method, code).Inc()

		logger.WithRequestID(r.Context()).Debug("HTTP request",
			"method", r.Method,
			"endpoint", endpoint,
			"status", status,
			"bytes", sw.bytes,
			"duration", elapsed,
			"client_ip", ClientIP(r),
		)
	})
}

// routeName returns the matched mux path template, which keeps label
// cardinality bounded for routes such as /api/layout/pin/{id}.
func routeName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}
