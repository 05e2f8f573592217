package middlewarex

import (
	"cmp"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/zenazn/goji/web/mutil"
)

// RequestMetrics counts requests and their latency by chi route pattern, so
// path parameters do not blow up label cardinality.
func RequestMetrics(reg prometheus.Registerer, namespace string) func(next http.Handler) http.Handler {
	factory := promauto.With(reg)

	requests := factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)

	duration := factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lw := mutil.WrapWriter(w)

			next.ServeHTTP(lw, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}

			status := strconv.Itoa(cmp.Or(lw.Status(), http.StatusOK))

			requests.WithLabelValues(route, r.Method, status).Inc()
			duration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
		})
	}
}
