package services

import "github.com/prometheus/client_golang/prometheus"

var (
	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_lookups_total",
			Help: "Cache lookups by outcome (hit, miss, error)",
		},
		[]string{"outcome"},
	)

	admissionDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_decisions_total",
			Help: "Rate limiter decisions by reason (OK, MINUTE_LIMIT, HOUR_LIMIT, fail_open, fail_closed)",
		},
		[]string{"reason"},
	)

	upstreamDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name: "upstream_generation_duration_seconds",
			Help: "Latency of upstream generation calls",
		},
	)
)

func init() {
	prometheus.MustRegister(cacheLookups)
	prometheus.MustRegister(admissionDecisions)
	prometheus.MustRegister(upstreamDuration)
}
