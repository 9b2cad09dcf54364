package http

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"municipal-portal/internal/handler/http/responsewriter"
	"municipal-portal/internal/observability/metrics"
)

// Metrics records request count, latency and in-flight gauge.
//
// It must wrap the ServeMux directly: the route label is the matched pattern,
// e.g. "GET /api/servicios/{id}", which the mux stores on the request it was
// handed. Labelling by pattern keeps ids out of the label set.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		metrics.HTTPInFlight.Inc()
		defer metrics.HTTPInFlight.Dec()

		rw := responsewriter.Wrap(w)
		next.ServeHTTP(rw, r)

		metrics.RecordHTTPRequest(r.Method, r.Pattern, rw.StatusCode(), time.Since(start))
	})
}

// MetricsHandler serves the Prometheus registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
