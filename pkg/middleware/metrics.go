package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const unmatchedRoute = "unmatched"

var requestLabels = []string{"service", "method", "path", "status"}

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests served, by chi route and status.",
	}, requestLabels)

	requestSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "http_request_duration_seconds",
		Help: "HTTP request latency, by chi route and status.",
		// Callable requests include the payment provider round trip.
		Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 20},
	}, requestLabels)

	requestsInFlight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "HTTP requests currently being served.",
	}, []string{"service"})
)

// routePattern is the matched chi pattern. Unrouted paths collapse to a
// single label value.
func routePattern(r *http.Request) string {
	rc := chi.RouteContext(r.Context())
	if rc == nil || rc.RoutePattern() == "" {
		return unmatchedRoute
	}
	return rc.RoutePattern()
}

// PrometheusMetrics counts and times requests per route.
func PrometheusMetrics(serviceName string) func(next http.Handler) http.Handler {
	inFlight := requestsInFlight.WithLabelValues(serviceName)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			inFlight.Inc()
			defer inFlight.Dec()

			began := time.Now()
			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			status := strconv.Itoa(rec.status)
			route := routePattern(r)
			requestsTotal.WithLabelValues(serviceName, r.Method, route, status).Inc()
			requestSeconds.WithLabelValues(serviceName, r.Method, route, status).Observe(time.Since(began).Seconds())
		})
	}
}
