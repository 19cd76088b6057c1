package domain

import "time"

// Dimension is one of the five independent scoring axes.
type Dimension string

const (
	Ratings            Dimension = "ratings"
	BusinessLegitimacy Dimension = "business_legitimacy"
	ReviewSentiment    Dimension = "review_sentiment"
	SocialMedia        Dimension = "social_media"
	CustomerSupport    Dimension = "customer_support"
)

// AllDimensions returns the scoring dimensions in their canonical order.
// Aggregation iterates this slice so repeated runs sum in the same order.
func AllDimensions() []Dimension {
	return []Dimension{Ratings, BusinessLegitimacy, ReviewSentiment, SocialMedia, CustomerSupport}
}

// DisplayName renders a dimension for reports ("business_legitimacy" -> "Business Legitimacy").
func (d Dimension) DisplayName() string {
	out := make([]byte, 0, len(d))
	upper := true
	for i := 0; i < len(d); i++ {
		c := d[i]
		if c == '_' {
			out = append(out, ' ')
			upper = true
			continue
		}
		if upper && c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		upper = false
		out = append(out, c)
	}
	return string(out)
}

// AnalysisRequest is the immutable input for one analysis run.
type AnalysisRequest struct {
	BrandName    string `json:"brand_name"`
	Website      string `json:"website,omitempty"`
	SocialHandle string `json:"social_handle,omitempty"`
}

type CollectionStatus string

const (
	StatusPending   CollectionStatus = "pending"
	StatusCompleted CollectionStatus = "completed"
	StatusFailed    CollectionStatus = "failed"
)

// CollectionOutcome is the per-source result record. Outcomes are replaced,
// never mutated: the pool creates exactly one per requested source.
type CollectionOutcome struct {
	SourceID string                 `json:"source_id"`
	Status   CollectionStatus       `json:"status"`
	Payload  map[string]interface{} `json:"payload,omitempty"`
	Error    string                 `json:"error,omitempty"`
}

type Confidence string

const (
	ConfidenceLow    Confidence = "Low"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceHigh   Confidence = "High"
)

// ParseConfidence normalizes free-form confidence labels from the reasoning
// service. Unknown labels collapse to Medium.
func ParseConfidence(s string) Confidence {
	switch s {
	case "Low", "low", "LOW":
		return ConfidenceLow
	case "High", "high", "HIGH":
		return ConfidenceHigh
	case "":
		return ConfidenceLow
	default:
		return ConfidenceMedium
	}
}

type ScoreMethod string

const (
	MethodReasoned ScoreMethod = "reasoned"
	MethodFallback ScoreMethod = "fallback"
)

// ComponentScore is one dimension's bounded score. Value is always in [0,10].
type ComponentScore struct {
	Value      float64     `json:"value"`
	Confidence Confidence  `json:"confidence"`
	KeyFactors []string    `json:"key_factors"`
	Method     ScoreMethod `json:"method"`
}

// StoredRun is one persisted analysis run as the run store returns it.
type StoredRun struct {
	RunID          string
	BrandName      string
	FinalScore     float64
	Interpretation string
	Report         []byte
	CreatedAt      time.Time
}
