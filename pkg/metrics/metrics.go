package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// BalanceFetchesTotal counts per-slot balance fetches by chain family and
	// outcome (ok / fault).
	BalanceFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wealth_aggregator",
			Name:      "balance_fetches_total",
			Help:      "Number of per-slot balance fetches, by chain family and outcome.",
		},
		[]string{"family", "outcome"},
	)

	// BalanceFetchDuration observes the latency of per-slot balance fetches.
	BalanceFetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "wealth_aggregator",
			Name:      "balance_fetch_duration_seconds",
			Help:      "Latency of per-slot balance fetches, by chain family.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"family"},
	)

	// WealthRowsPersisted counts rows written by the wealth persister.
	WealthRowsPersisted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "wealth_aggregator",
			Name:      "wealth_rows_persisted_total",
			Help:      "Number of wealth rows written to storage.",
		},
	)

	registerOnce sync.Once
)

// MustRegisterMetrics registers all collectors with the default registry.
// Safe to call more than once.
func MustRegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(BalanceFetchesTotal, BalanceFetchDuration, WealthRowsPersisted)
	})
}

// ObserveBalanceFetch records one per-slot fetch attempt.
func ObserveBalanceFetch(family string, elapsed time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "fault"
	}
	BalanceFetchesTotal.WithLabelValues(family, outcome).Inc()
	BalanceFetchDuration.WithLabelValues(family).Observe(elapsed.Seconds())
}
