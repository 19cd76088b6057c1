package llm

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricsOnce sync.Once

	// scoringRequestsTotal tracks scoring calls by dimension and method
	// (reasoned vs fallback).
	scoringRequestsTotal *prometheus.CounterVec

	// scoringDuration tracks latency of one dimension scoring call.
	scoringDuration prometheus.Histogram

	// reasoningAPIErrorsTotal tracks reasoning API errors by type.
	reasoningAPIErrorsTotal *prometheus.CounterVec

	// componentScoreValue tracks the distribution of produced scores.
	componentScoreValue prometheus.Histogram
)

// InitMetrics registers the scoring metrics. Call once at startup; the
// record helpers are nil-safe so library tests run without registration.
func InitMetrics() {
	metricsOnce.Do(func() {
		scoringRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trust_scoring_requests_total",
				Help: "Total dimension scoring requests by dimension and method",
			},
			[]string{"dimension", "method"},
		)

		scoringDuration = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "trust_scoring_duration_seconds",
				Help:    "Duration of one dimension scoring call in seconds",
				Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0},
			},
		)

		reasoningAPIErrorsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reasoning_api_errors_total",
				Help: "Total reasoning API errors by error type",
			},
			[]string{"error_type"},
		)

		componentScoreValue = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "component_score_value",
				Help:    "Distribution of produced component scores (0-10)",
				Buckets: []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
			},
		)
	})
}

// RecordScoringRequest records one scoring call.
// method: "reasoned" or "fallback".
func RecordScoringRequest(dimension, method string) {
	if scoringRequestsTotal != nil {
		scoringRequestsTotal.WithLabelValues(dimension, method).Inc()
	}
}

// RecordAPIError records a reasoning API error by type.
// errorType: "timeout", "auth", "rate_limit", "server_error", "connection",
// "parse", "circuit_open", "http_error".
func RecordAPIError(errorType string) {
	if reasoningAPIErrorsTotal != nil {
		reasoningAPIErrorsTotal.WithLabelValues(errorType).Inc()
	}
}

// RecordComponentScore records a produced score value.
func RecordComponentScore(value float64) {
	if componentScoreValue != nil {
		componentScoreValue.Observe(value)
	}
}

// ScoringTimer measures one scoring call.
type ScoringTimer struct {
	start time.Time
}

func StartTimer() *ScoringTimer {
	return &ScoringTimer{start: time.Now()}
}

func (t *ScoringTimer) ObserveDuration() {
	if t != nil && scoringDuration != nil {
		scoringDuration.Observe(time.Since(t.start).Seconds())
	}
}
