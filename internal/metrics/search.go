package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Search outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeFailSoft = "fail_soft"
	OutcomeError    = "error"
)

var (
	searchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_requests_total",
			Help:      "Search requests by entity type and outcome",
		},
		[]string{"entity", "outcome"},
	)

	searchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "End-to-end search pipeline duration",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"entity"},
	)

	searchStageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_stage_duration_seconds",
			Help:      "Duration of individual search stages (count, fetch, facets)",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"stage"},
	)
)

func init() {
	prometheus.MustRegister(searchRequestsTotal)
	prometheus.MustRegister(searchDuration)
	prometheus.MustRegister(searchStageDuration)
}

// ObserveSearch records one finished search.
func ObserveSearch(entity, outcome string, d time.Duration) {
	if entity == "" {
		entity = "unknown"
	}
	searchRequestsTotal.WithLabelValues(entity, outcome).Inc()
	searchDuration.WithLabelValues(entity).Observe(d.Seconds())
}

// ObserveStage records the duration of one pipeline stage.
func ObserveStage(stage string, d time.Duration) {
	searchStageDuration.WithLabelValues(stage).Observe(d.Seconds())
}
