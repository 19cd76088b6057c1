package ports

import (
	"context"
	"time"

	"github.com/meridian-corporation/trustlens/internal/core/domain"
)

// Collector fetches one external source's payload for a brand. Collectors
// may fail or return partial data; the pool converts any error into a
// Failed outcome, so implementations are free to return errors liberally.
type Collector interface {
	SourceID() string
	Collect(ctx context.Context, req domain.AnalysisRequest) (map[string]interface{}, error)
}

// ReasoningService is the external text-generation service. The response
// shape is unconstrained beyond "may contain a structured span somewhere".
type ReasoningService interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Available() bool
}

// DimensionScorer produces one bounded component score per dimension.
// Implementations never return errors: unscorable input yields a fallback.
type DimensionScorer interface {
	Score(ctx context.Context, dim domain.Dimension, payload map[string]interface{}) domain.ComponentScore
}

// BrandAnalyzer runs one full analysis. Never raises: all failures land in
// the report's error list.
type BrandAnalyzer interface {
	Analyze(ctx context.Context, req domain.AnalysisRequest) domain.AnalysisReport
}

// ArtifactStore persists the per-run report artifact.
type ArtifactStore interface {
	Save(report domain.AnalysisReport, completeData map[string]interface{}) error
}

// RunStore keeps the run history behind the API surface.
type RunStore interface {
	SaveRun(ctx context.Context, report domain.AnalysisReport) error
	FindByBrand(ctx context.Context, brand string, limit int) ([]domain.StoredRun, error)
	FindSince(ctx context.Context, since time.Time, limit int) ([]domain.StoredRun, error)
}

// Notifier pushes low-trust alerts to an external channel.
type Notifier interface {
	NotifyLowTrust(report domain.AnalysisReport) error
}
