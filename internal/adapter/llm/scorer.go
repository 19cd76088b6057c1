package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"github.com/meridian-corporation/trustlens/internal/core/domain"
	"github.com/meridian-corporation/trustlens/internal/core/ports"
)

// MaxPayloadChars caps the serialized payload handed to the reasoning
// service. Truncation is silent and lossy by design.
const MaxPayloadChars = 3000

// Scorer turns one opaque source payload into one bounded component score.
// Every failure mode (no credential, connection failure, empty response,
// unparsable output, missing score field) lands on the deterministic
// fallback path; Score never fails.
type Scorer struct {
	svc ports.ReasoningService
}

func NewScorer(svc ports.ReasoningService) *Scorer {
	return &Scorer{svc: svc}
}

// Score produces the component score for one dimension. Calls are
// independent and share no state, so dimensions may be scored concurrently
// or sequentially with identical results.
func (s *Scorer) Score(ctx context.Context, dim domain.Dimension, payload map[string]interface{}) domain.ComponentScore {
	timer := StartTimer()
	defer timer.ObserveDuration()

	if s.svc == nil || !s.svc.Available() {
		return s.fallback(dim, payload)
	}

	prompt := fmt.Sprintf("%s\n\nData to analyze:\n%s", promptFor(dim), serializePayload(payload))

	response, err := s.svc.Generate(ctx, prompt)
	if err != nil {
		log.Printf("reasoning call failed for %s: %v", dim, err)
		return s.fallback(dim, payload)
	}
	if response == "" {
		return s.fallback(dim, payload)
	}

	parsed, err := ExtractStructured(response)
	if err != nil {
		RecordAPIError("parse")
		log.Printf("could not extract structured result for %s: %v", dim, err)
		return s.fallback(dim, payload)
	}

	value, ok := numericScore(parsed, dim)
	if !ok {
		// A parsed result without the score field is as useless as no
		// result at all.
		RecordAPIError("parse")
		return s.fallback(dim, payload)
	}

	score := domain.ComponentScore{
		Value:      domain.Clamp(value),
		Confidence: domain.ParseConfidence(stringField(parsed, "confidence_level")),
		KeyFactors: stringList(parsed["key_factors"]),
		Method:     domain.MethodReasoned,
	}
	RecordScoringRequest(string(dim), string(domain.MethodReasoned))
	RecordComponentScore(score.Value)
	return score
}

// fallback synthesizes a deterministic score from the payload alone: a
// fixed baseline nudged by payload volume. Same payload, same score.
func (s *Scorer) fallback(dim domain.Dimension, payload map[string]interface{}) domain.ComponentScore {
	base := 5.5
	volume := volumeSignal(payload)
	if volume > 10 {
		base += 0.5
	}
	if volume > 50 {
		base += 0.3
	}

	score := domain.ComponentScore{
		Value:      domain.Clamp(base),
		Confidence: domain.ConfidenceLow,
		KeyFactors: []string{
			"Fallback scoring - reasoning service unavailable",
			"Score estimated from payload volume",
		},
		Method: domain.MethodFallback,
	}
	RecordScoringRequest(string(dim), string(domain.MethodFallback))
	RecordComponentScore(score.Value)
	return score
}

// serializePayload renders the payload as indented JSON capped at
// MaxPayloadChars.
func serializePayload(payload map[string]interface{}) string {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "{}"
	}
	if len(data) > MaxPayloadChars {
		data = data[:MaxPayloadChars]
	}
	return string(data)
}

// volumeSignal derives a single volume figure from an opaque payload: the
// largest count-like numeric field or collection length. Max is
// order-independent, keeping the fallback reproducible.
func volumeSignal(payload map[string]interface{}) int {
	max := 0
	for key, value := range payload {
		if !countKey(key) {
			continue
		}
		if n, ok := toFloat(value); ok && int(n) > max {
			max = int(n)
		}
	}
	for _, value := range payload {
		if items, ok := value.([]interface{}); ok && len(items) > max {
			max = len(items)
		}
		if items, ok := value.([]map[string]interface{}); ok && len(items) > max {
			max = len(items)
		}
	}
	return max
}

func countKey(key string) bool {
	for _, marker := range []string{"count", "total", "analyzed", "reviews", "points"} {
		if containsFold(key, marker) {
			return true
		}
	}
	return false
}

func containsFold(s, substr string) bool {
	n := len(s) - len(substr)
	for i := 0; i <= n; i++ {
		match := true
		for j := 0; j < len(substr); j++ {
			c := s[i+j]
			if c >= 'A' && c <= 'Z' {
				c += 'a' - 'A'
			}
			if c != substr[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// numericScore finds the dimension's score in a parsed result, accepting
// the canonical "<dimension>_score" key with plain "score" as fallback.
func numericScore(parsed map[string]interface{}, dim domain.Dimension) (float64, bool) {
	for _, key := range []string{string(dim) + "_score", "score"} {
		if raw, ok := parsed[key]; ok {
			if v, ok := toFloat(raw); ok {
				return v, true
			}
		}
	}
	return 0, false
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func stringField(parsed map[string]interface{}, key string) string {
	s, _ := parsed[key].(string)
	return s
}

func stringList(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
