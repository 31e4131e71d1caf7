package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus metrics for monitoring fulfillment health.
var (
	FulfillmentRunsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fulfillment_runs_total",
			Help: "Total number of order fulfillment runs started",
		},
	)

	FulfillmentPartialTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fulfillment_partial_total",
			Help: "Total number of fulfillment runs that ended partially fulfilled",
		},
	)

	FulfillmentFailedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fulfillment_failed_total",
			Help: "Total number of fulfillment runs where every backend failed",
		},
	)

	// TrackingWriteFailuresTotal counts swallowed best-effort bookkeeping
	// write failures (classification and audit rows). Alert on drift here:
	// the authoritative order state is persisted separately.
	TrackingWriteFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fulfillment_tracking_write_failures_total",
			Help: "Total number of non-fatal bookkeeping write failures",
		},
	)

	DownloadGrantsIssuedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fulfillment_download_grants_issued_total",
			Help: "Total number of digital download grants issued",
		},
	)
)

// Register registers all fulfillment metrics with the default registry.
func Register() {
	prometheus.MustRegister(
		FulfillmentRunsTotal,
		FulfillmentPartialTotal,
		FulfillmentFailedTotal,
		TrackingWriteFailuresTotal,
		DownloadGrantsIssuedTotal,
	)
}
