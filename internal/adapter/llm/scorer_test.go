package llm

import (
	"context"
	"fmt"
	"testing"

	"github.com/meridian-corporation/trustlens/internal/core/domain"
)

// fakeReasoning is a canned reasoning service.
type fakeReasoning struct {
	response  string
	err       error
	available bool
}

func (f *fakeReasoning) Generate(ctx context.Context, prompt string) (string, error) {
	return f.response, f.err
}

func (f *fakeReasoning) Available() bool {
	return f.available
}

func TestScoreReasonedPath(t *testing.T) {
	svc := &fakeReasoning{
		available: true,
		response: "```json\n" +
			`{"ratings_score": 8.4, "confidence_level": "High", "key_factors": ["strong average rating", "large review volume"]}` +
			"\n```",
	}
	scorer := NewScorer(svc)

	score := scorer.Score(context.Background(), domain.Ratings, map[string]interface{}{"total_reviews": 200})

	if score.Method != domain.MethodReasoned {
		t.Errorf("Method = %q, want reasoned", score.Method)
	}
	if score.Value != 8.4 {
		t.Errorf("Value = %v, want 8.4", score.Value)
	}
	if score.Confidence != domain.ConfidenceHigh {
		t.Errorf("Confidence = %q, want High", score.Confidence)
	}
	if len(score.KeyFactors) != 2 {
		t.Errorf("KeyFactors = %v, want 2 entries", score.KeyFactors)
	}
}

func TestScoreClampsReasonedValue(t *testing.T) {
	svc := &fakeReasoning{
		available: true,
		response:  `{"ratings_score": 14.0, "confidence_level": "High"}`,
	}
	scorer := NewScorer(svc)

	score := scorer.Score(context.Background(), domain.Ratings, nil)
	if score.Value != 10 {
		t.Errorf("Value = %v, want clamped 10", score.Value)
	}
}

func TestScoreFallbackPaths(t *testing.T) {
	tests := []struct {
		name string
		svc  *fakeReasoning
	}{
		{"unavailable service", &fakeReasoning{available: false}},
		{"generate error", &fakeReasoning{available: true, err: fmt.Errorf("connection refused")}},
		{"empty response", &fakeReasoning{available: true, response: ""}},
		{"unparsable response", &fakeReasoning{available: true, response: "no structure here"}},
		{"missing score field", &fakeReasoning{available: true, response: `{"confidence_level": "High"}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scorer := NewScorer(tt.svc)
			score := scorer.Score(context.Background(), domain.Ratings, map[string]interface{}{})

			if score.Method != domain.MethodFallback {
				t.Errorf("Method = %q, want fallback", score.Method)
			}
			if score.Confidence != domain.ConfidenceLow {
				t.Errorf("Confidence = %q, want Low", score.Confidence)
			}
			if score.Value < 0 || score.Value > 10 {
				t.Errorf("Value = %v, out of [0,10]", score.Value)
			}
		})
	}
}

func TestScoreNilService(t *testing.T) {
	scorer := NewScorer(nil)
	score := scorer.Score(context.Background(), domain.Ratings, nil)
	if score.Method != domain.MethodFallback {
		t.Errorf("Method = %q, want fallback for nil service", score.Method)
	}
}

func TestFallbackVolumeAdjustment(t *testing.T) {
	scorer := NewScorer(&fakeReasoning{})

	tests := []struct {
		name    string
		payload map[string]interface{}
		want    float64
	}{
		{"empty payload", map[string]interface{}{}, 5.5},
		{"small volume", map[string]interface{}{"total_reviews": 5}, 5.5},
		{"moderate volume", map[string]interface{}{"total_reviews": 25}, 6.0},
		{"large volume", map[string]interface{}{"total_reviews": 120}, 6.3},
		{"large slice volume", map[string]interface{}{"posts": make([]interface{}, 60)}, 6.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := scorer.Score(context.Background(), domain.SocialMedia, tt.payload)
			if score.Value != tt.want {
				t.Errorf("Value = %v, want %v", score.Value, tt.want)
			}
		})
	}
}

func TestFallbackIsDeterministic(t *testing.T) {
	scorer := NewScorer(nil)
	payload := map[string]interface{}{
		"total_reviews": 42,
		"posts":         []interface{}{map[string]interface{}{"title": "x"}},
	}

	first := scorer.Score(context.Background(), domain.CustomerSupport, payload)
	for i := 0; i < 50; i++ {
		got := scorer.Score(context.Background(), domain.CustomerSupport, payload)
		if got.Value != first.Value || got.Confidence != first.Confidence {
			t.Fatalf("run %d: %+v differs from %+v", i, got, first)
		}
	}
}

func TestNumericScoreKeyPreference(t *testing.T) {
	parsed := map[string]interface{}{
		"ratings_score": 7.0,
		"score":         2.0,
	}
	v, ok := numericScore(parsed, domain.Ratings)
	if !ok || v != 7.0 {
		t.Errorf("numericScore = %v, want dimension-specific key 7.0", v)
	}

	v, ok = numericScore(map[string]interface{}{"score": "6.2"}, domain.Ratings)
	if !ok || v != 6.2 {
		t.Errorf("numericScore = %v, want string-typed 6.2", v)
	}

	if _, ok := numericScore(map[string]interface{}{}, domain.Ratings); ok {
		t.Error("numericScore found a score in an empty map")
	}
}

func TestSerializePayloadTruncates(t *testing.T) {
	long := make([]interface{}, 0, 500)
	for i := 0; i < 500; i++ {
		long = append(long, fmt.Sprintf("sample review text number %d with some padding", i))
	}
	serialized := serializePayload(map[string]interface{}{"samples": long})
	if len(serialized) > MaxPayloadChars {
		t.Errorf("serialized payload length %d exceeds cap %d", len(serialized), MaxPayloadChars)
	}
}
