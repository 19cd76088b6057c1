package llm

import "testing"

func TestRecordHelpersAreNilSafeBeforeInit(t *testing.T) {
	// Must not panic when metrics were never registered.
	RecordScoringRequest("ratings", "fallback")
	RecordAPIError("parse")
	RecordComponentScore(7.2)

	var timer *ScoringTimer
	timer.ObserveDuration()
	StartTimer().ObserveDuration()
}

func TestInitMetricsIdempotent(t *testing.T) {
	// Double registration would panic inside promauto.
	InitMetrics()
	InitMetrics()

	RecordScoringRequest("ratings", "reasoned")
	RecordAPIError("timeout")
	RecordComponentScore(5.0)
	StartTimer().ObserveDuration()
}
