package domain

import (
	"strings"
	"testing"
)

func fullScores(values map[Dimension]float64) map[Dimension]ComponentScore {
	scores := make(map[Dimension]ComponentScore, len(values))
	for dim, v := range values {
		scores[dim] = ComponentScore{
			Value:      v,
			Confidence: ConfidenceMedium,
			KeyFactors: []string{"factor"},
			Method:     MethodReasoned,
		}
	}
	return scores
}

func TestBuildReportStrengthsAndConcerns(t *testing.T) {
	scores := fullScores(map[Dimension]float64{
		Ratings:            9.0, // strength
		BusinessLegitimacy: 7.5, // strength (boundary)
		ReviewSentiment:    6.0, // neither
		SocialMedia:        5.4, // concern
		CustomerSupport:    2.0, // concern
	})
	trust := Aggregate(scores, DefaultWeights())

	report := BuildReport(AnalysisRequest{BrandName: "Acme"}, nil, trust, scores, nil)

	if len(report.KeyStrengths) != 2 {
		t.Errorf("KeyStrengths = %v, want 2 entries", report.KeyStrengths)
	}
	if len(report.AreasOfConcern) != 2 {
		t.Errorf("AreasOfConcern = %v, want 2 entries", report.AreasOfConcern)
	}

	for _, strength := range report.KeyStrengths {
		if !strings.Contains(strength, "/10 (") || !strings.Contains(strength, "%)") {
			t.Errorf("strength line %q not in 'Name: X/10 (NN%%)' format", strength)
		}
	}
}

func TestBuildReportCollectionStatus(t *testing.T) {
	outcomes := map[string]CollectionOutcome{
		"product_search": {SourceID: "product_search", Status: StatusCompleted},
		"review_fetch":   {SourceID: "review_fetch", Status: StatusFailed, Error: "timeout"},
	}
	scores := fullScores(map[Dimension]float64{Ratings: 7})
	trust := Aggregate(scores, DefaultWeights())

	report := BuildReport(AnalysisRequest{BrandName: "Acme"}, outcomes, trust, scores, nil)

	if got := report.CollectionStatus["product_search"]; got != "completed" {
		t.Errorf("product_search status = %q, want completed", got)
	}
	if got := report.CollectionStatus["review_fetch"]; got != "failed: timeout" {
		t.Errorf("review_fetch status = %q, want failed with reason", got)
	}
}

func TestBuildReportComponentSummaries(t *testing.T) {
	scores := fullScores(map[Dimension]float64{
		Ratings:            8.0,
		BusinessLegitimacy: 6.0,
		ReviewSentiment:    6.0,
		SocialMedia:        6.0,
		CustomerSupport:    6.0,
	})
	trust := Aggregate(scores, DefaultWeights())

	report := BuildReport(AnalysisRequest{BrandName: "Acme"}, nil, trust, scores, nil)

	ratings, ok := report.ComponentScores[Ratings]
	if !ok {
		t.Fatal("component scores missing ratings entry")
	}
	if ratings.Weight != "55%" {
		t.Errorf("ratings weight = %q, want 55%%", ratings.Weight)
	}
	if ratings.Score != 8.0 {
		t.Errorf("ratings score = %v, want 8.0", ratings.Score)
	}
	if ratings.Method != MethodReasoned {
		t.Errorf("ratings method = %q, want reasoned", ratings.Method)
	}
	if ratings.Contribution != 4.4 {
		t.Errorf("ratings contribution = %v, want 4.4", ratings.Contribution)
	}
}

func TestBuildReportCarriesErrors(t *testing.T) {
	errs := []string{"collection: website_fetch: connection refused"}
	scores := fullScores(map[Dimension]float64{Ratings: 7})
	trust := Aggregate(scores, DefaultWeights())

	report := BuildReport(AnalysisRequest{BrandName: "Acme"}, nil, trust, scores, errs)

	if len(report.Errors) != 1 || report.Errors[0] != errs[0] {
		t.Errorf("Errors = %v, want %v", report.Errors, errs)
	}
	if report.Degraded {
		t.Error("report with collection errors should not be degraded")
	}
}

func TestDegradedReport(t *testing.T) {
	trust := TrustScore{FinalScore: 5.5, Interpretation: InterpretScore(5.5)}
	report := DegradedReport(AnalysisRequest{BrandName: "Acme"}, trust, []string{"report: boom"})

	if !report.Degraded {
		t.Error("DegradedReport must set Degraded")
	}
	if report.BrandName != "Acme" {
		t.Errorf("BrandName = %q, want Acme", report.BrandName)
	}
	if report.OverallScore != 5.5 {
		t.Errorf("OverallScore = %v, want 5.5", report.OverallScore)
	}
	if len(report.ComponentScores) != 0 {
		t.Error("degraded report must not carry component detail")
	}
}
