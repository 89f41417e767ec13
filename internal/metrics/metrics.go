// Package metrics exposes the Prometheus collectors shared by the resolver,
// the upstream clients and the HTTP layer.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ResolutionsTotal counts location resolutions by operation and outcome.
	ResolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "weather_resolutions_total",
		Help: "Total number of location resolutions by operation and outcome",
	}, []string{"operation", "outcome"})

	// UpstreamDuration observes round trips to the geocoding and forecast services.
	UpstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "weather_upstream_request_duration_seconds",
		Help:    "Duration of upstream API requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"service", "outcome"})

	// StartupOutcomes counts final states of the startup resolution policy.
	StartupOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "weather_startup_outcomes_total",
		Help: "Final states reached by the startup resolution policy",
	}, []string{"state"})

	// PreferenceErrors counts swallowed preference storage failures.
	PreferenceErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "weather_preference_errors_total",
		Help: "Preference storage failures that were swallowed",
	}, []string{"backend", "operation"})
)

// ObserveUpstream records the elapsed time since start for service.
func ObserveUpstream(service string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	UpstreamDuration.WithLabelValues(service, outcome).Observe(time.Since(start).Seconds())
}
