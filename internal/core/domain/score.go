package domain

import (
	"fmt"
	"math"
)

// WeightTable maps each dimension to its share of the final score.
// Weights must sum to exactly 1.0 within WeightTolerance.
type WeightTable map[Dimension]float64

const WeightTolerance = 1e-6

// NeutralScore substitutes for any dimension missing from the score set.
const NeutralScore = 5.0

// DefaultWeights is the canonical weight table.
func DefaultWeights() WeightTable {
	return WeightTable{
		Ratings:            0.55,
		BusinessLegitimacy: 0.10,
		ReviewSentiment:    0.20,
		SocialMedia:        0.10,
		CustomerSupport:    0.05,
	}
}

// Validate checks weight conservation: every weight in (0,1] and the sum
// equal to 1.0 within tolerance.
func (w WeightTable) Validate() error {
	if len(w) == 0 {
		return fmt.Errorf("weight table is empty")
	}
	sum := 0.0
	for dim, weight := range w {
		if weight <= 0 || weight > 1 {
			return fmt.Errorf("weight for %s out of range (0,1]: %v", dim, weight)
		}
		sum += weight
	}
	if math.Abs(sum-1.0) > WeightTolerance {
		return fmt.Errorf("weights sum to %v, want 1.0", sum)
	}
	return nil
}

// BreakdownEntry records one dimension's audit trail in a TrustScore.
type BreakdownEntry struct {
	Score        float64 `json:"score"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
}

// TrustScore is the final weighted result. Recomputed fresh each run.
type TrustScore struct {
	FinalScore     float64                      `json:"final_score"`
	Breakdown      map[Dimension]BreakdownEntry `json:"component_breakdown"`
	Interpretation string                       `json:"score_interpretation"`
}

// Clamp bounds a component value to [0,10].
func Clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

// roundHalfUp rounds to the given number of decimal places with ties away
// from zero, matching the rounding the report format promises.
func roundHalfUp(v float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Floor(v*shift+0.5) / shift
}

// Aggregate combines component scores with the weight table into one
// TrustScore. Dimensions absent from scores contribute the neutral midpoint.
// Pure: identical inputs always produce bit-identical output.
func Aggregate(scores map[Dimension]ComponentScore, weights WeightTable) TrustScore {
	final := 0.0
	breakdown := make(map[Dimension]BreakdownEntry, len(weights))

	// Fixed iteration order keeps the float sum deterministic.
	for _, dim := range AllDimensions() {
		weight, ok := weights[dim]
		if !ok {
			continue
		}
		value := NeutralScore
		if cs, ok := scores[dim]; ok {
			value = Clamp(cs.Value)
		}
		final += value * weight
		breakdown[dim] = BreakdownEntry{
			Score:        value,
			Weight:       weight,
			Contribution: roundHalfUp(value*weight, 2),
		}
	}

	final = roundHalfUp(Clamp(final), 1)
	return TrustScore{
		FinalScore:     final,
		Breakdown:      breakdown,
		Interpretation: InterpretScore(final),
	}
}

// InterpretScore buckets a final score into its advisory tier.
func InterpretScore(score float64) string {
	switch {
	case score >= 8.5:
		return "Excellent - Strong buy confidence"
	case score >= 7.0:
		return "Good - Generally trustworthy"
	case score >= 5.5:
		return "Average - Proceed with research"
	case score >= 4.0:
		return "Below Average - Significant concerns"
	default:
		return "Poor - High risk, consider alternatives"
	}
}
