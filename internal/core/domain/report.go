package domain

import (
	"fmt"
	"time"
)

// Strength/concern thresholds used when classifying dimensions in a report.
const (
	StrengthThreshold = 7.5
	ConcernThreshold  = 5.5
)

// ComponentSummary is one dimension's entry in the final report.
type ComponentSummary struct {
	Score        float64     `json:"score"`
	Weight       string      `json:"weight"`
	Contribution float64     `json:"contribution"`
	Confidence   Confidence  `json:"confidence"`
	KeyFactors   []string    `json:"key_factors"`
	Method       ScoreMethod `json:"method"`
}

// AnalysisReport is the terminal artifact of one run. Written once.
type AnalysisReport struct {
	RunID            string                         `json:"run_id,omitempty"`
	BrandName        string                         `json:"brand_name"`
	GeneratedAt      time.Time                      `json:"generated_at"`
	OverallScore     float64                        `json:"overall_score"`
	Recommendation   string                         `json:"recommendation,omitempty"`
	ComponentScores  map[Dimension]ComponentSummary `json:"component_scores,omitempty"`
	KeyStrengths     []string                       `json:"key_strengths"`
	AreasOfConcern   []string                       `json:"areas_of_concern"`
	CollectionStatus map[string]string              `json:"data_collection_status,omitempty"`
	Errors           []string                       `json:"errors,omitempty"`
	Degraded         bool                           `json:"degraded,omitempty"`
}

// BuildReport projects the trust score, component detail and collection
// outcomes into the final report. Pure function, no I/O.
func BuildReport(req AnalysisRequest, outcomes map[string]CollectionOutcome, trust TrustScore, components map[Dimension]ComponentScore, errs []string) AnalysisReport {
	report := AnalysisReport{
		BrandName:       req.BrandName,
		OverallScore:    trust.FinalScore,
		Recommendation:  trust.Interpretation,
		ComponentScores: make(map[Dimension]ComponentSummary, len(trust.Breakdown)),
		KeyStrengths:    []string{},
		AreasOfConcern:  []string{},
		Errors:          errs,
	}

	if len(outcomes) > 0 {
		report.CollectionStatus = make(map[string]string, len(outcomes))
		for source, outcome := range outcomes {
			status := string(outcome.Status)
			if outcome.Status == StatusFailed && outcome.Error != "" {
				status = fmt.Sprintf("failed: %s", outcome.Error)
			}
			report.CollectionStatus[source] = status
		}
	}

	for _, dim := range AllDimensions() {
		entry, ok := trust.Breakdown[dim]
		if !ok {
			continue
		}
		summary := ComponentSummary{
			Score:        entry.Score,
			Weight:       fmt.Sprintf("%d%%", int(entry.Weight*100)),
			Contribution: entry.Contribution,
			Confidence:   ConfidenceLow,
			KeyFactors:   []string{},
		}
		if cs, ok := components[dim]; ok {
			summary.Confidence = cs.Confidence
			summary.KeyFactors = cs.KeyFactors
			summary.Method = cs.Method
		}
		report.ComponentScores[dim] = summary

		line := fmt.Sprintf("%s: %v/10 (%s)", dim.DisplayName(), entry.Score, summary.Weight)
		if entry.Score >= StrengthThreshold {
			report.KeyStrengths = append(report.KeyStrengths, line)
		} else if entry.Score < ConcernThreshold {
			report.AreasOfConcern = append(report.AreasOfConcern, line)
		}
	}

	return report
}

// DegradedReport is the minimal substitute produced when full report
// projection fails: brand name and raw score only.
func DegradedReport(req AnalysisRequest, trust TrustScore, errs []string) AnalysisReport {
	return AnalysisReport{
		BrandName:      req.BrandName,
		OverallScore:   trust.FinalScore,
		Recommendation: trust.Interpretation,
		Errors:         errs,
		Degraded:       true,
	}
}
