// Package metrics exposes Prometheus collectors for the dashboard's backend traffic.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// backendRequestsTotal counts calls made to the REST backend.
	// Labels:
	//   - resource: first path segment (e.g. "project", "client")
	//   - method: HTTP method
	//   - outcome: "ok", "http_error", "envelope_error", "network_error", "auth_missing"
	backendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "topodash_backend_requests_total",
			Help: "Total number of requests issued to the REST backend",
		},
		[]string{"resource", "method", "outcome"},
	)

	backendRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "topodash_backend_request_duration_seconds",
			Help:    "Duration of REST backend requests in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"resource", "method"},
	)

	// staleResponsesTotal counts list responses dropped because a newer fetch was issued.
	staleResponsesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "topodash_list_stale_responses_total",
			Help: "List responses discarded because a newer request superseded them",
		},
		[]string{"resource"},
	)

	// rejectedMutationsTotal counts mutations stopped before any network call.
	rejectedMutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "topodash_rejected_mutations_total",
			Help: "Mutations rejected by local pre-checks",
		},
		[]string{"resource", "action"},
	)

	guardRedirectsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "topodash_guard_redirects_total",
			Help: "Requests redirected by the route guard",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(backendRequestsTotal)
	prometheus.MustRegister(backendRequestDuration)
	prometheus.MustRegister(staleResponsesTotal)
	prometheus.MustRegister(rejectedMutationsTotal)
	prometheus.MustRegister(guardRedirectsTotal)
}

func RecordBackendRequest(resource, method, outcome string) {
	backendRequestsTotal.WithLabelValues(resource, method, outcome).Inc()
}

func RecordBackendDuration(resource, method string, seconds float64) {
	backendRequestDuration.WithLabelValues(resource, method).Observe(seconds)
}

func RecordStaleResponse(resource string) {
	staleResponsesTotal.WithLabelValues(resource).Inc()
}

func RecordRejectedMutation(resource, action string) {
	rejectedMutationsTotal.WithLabelValues(resource, action).Inc()
}

// RecordGuardRedirect: reason is "unauthenticated" or "forbidden".
func RecordGuardRedirect(reason string) {
	guardRedirectsTotal.WithLabelValues(reason).Inc()
}
