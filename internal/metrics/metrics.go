// Package metrics exposes Prometheus collectors for the debate service.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Package-level metrics (registered once)
var (
	metricsOnce sync.Once

	turnsTotal           *prometheus.CounterVec
	fallbackTurnsTotal   prometheus.Counter
	duplicateRetryTotal  prometheus.Counter
	evidenceLookupsTotal *prometheus.CounterVec
	providerDuration     *prometheus.HistogramVec
)

func initMetrics() {
	metricsOnce.Do(func() {
		turnsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "helixdebate_turns_total",
				Help: "Total number of debate turns generated by stage and speaker",
			},
			[]string{"stage", "speaker"},
		)

		fallbackTurnsTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "helixdebate_fallback_turns_total",
				Help: "Total number of turns that used fallback placeholder content",
			},
		)

		duplicateRetryTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "helixdebate_duplicate_retries_total",
				Help: "Total number of regeneration attempts triggered by duplicate content",
			},
		)

		evidenceLookupsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "helixdebate_evidence_lookups_total",
				Help: "Total number of evidence lookups by result (hit, empty, error, skipped)",
			},
			[]string{"result"},
		)

		providerDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "helixdebate_provider_request_duration_seconds",
				Help:    "Latency of generation backend calls",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		)
	})
}

// RecordTurn counts one appended turn.
func RecordTurn(stage, speaker string) {
	initMetrics()
	turnsTotal.WithLabelValues(stage, speaker).Inc()
}

// RecordFallbackTurn counts a turn that resolved to placeholder content.
func RecordFallbackTurn() {
	initMetrics()
	fallbackTurnsTotal.Inc()
}

// RecordDuplicateRetry counts one duplicate-triggered regeneration attempt.
func RecordDuplicateRetry() {
	initMetrics()
	duplicateRetryTotal.Inc()
}

// RecordEvidenceLookup counts an evidence lookup outcome.
func RecordEvidenceLookup(result string) {
	initMetrics()
	evidenceLookupsTotal.WithLabelValues(result).Inc()
}

// ObserveProviderDuration records the latency of one backend call.
func ObserveProviderDuration(provider string, seconds float64) {
	initMetrics()
	providerDuration.WithLabelValues(provider).Observe(seconds)
}
