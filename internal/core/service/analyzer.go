package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/meridian-corporation/trustlens/internal/core/domain"
	"github.com/meridian-corporation/trustlens/internal/core/ports"
)

// State names the orchestrator's phases. Collecting, Scoring and Reporting
// always proceed even when individual collectors or scorers fail; partial
// data is valid input.
type State string

const (
	StateValidating State = "validating"
	StateCollecting State = "collecting"
	StateScoring    State = "scoring"
	StateReporting  State = "reporting"
	StateDone       State = "done"
	StateFailed     State = "failed"
)

// Config wires an Analyzer. Collectors and Scorer are required; everything
// else has a working default or is optional.
type Config struct {
	Collectors []ports.Collector
	Scorer     ports.DimensionScorer
	Weights    domain.WeightTable

	// PoolWidth bounds collector concurrency (default 4).
	PoolWidth int
	// ScoreParallelism bounds concurrent dimension scoring. The default of 1
	// scores sequentially; parallel and sequential runs produce identical
	// results because dimension calls share no state.
	ScoreParallelism int

	Artifacts ports.ArtifactStore
	Notifier  ports.Notifier
}

// Analyzer is the top-level orchestrator for one brand analysis. It owns the
// lifecycle of every record created during a run; nothing survives across
// requests.
type Analyzer struct {
	collectors []ports.Collector
	scorer     ports.DimensionScorer
	weights    domain.WeightTable
	pool       *Pool
	scoreLimit int
	artifacts  ports.ArtifactStore
	notifier   ports.Notifier
}

func NewAnalyzer(cfg Config) (*Analyzer, error) {
	weights := cfg.Weights
	if weights == nil {
		weights = domain.DefaultWeights()
	}
	if err := weights.Validate(); err != nil {
		return nil, fmt.Errorf("invalid weight table: %w", err)
	}
	if cfg.Scorer == nil {
		return nil, fmt.Errorf("scorer is required")
	}
	limit := cfg.ScoreParallelism
	if limit <= 0 {
		limit = 1
	}
	return &Analyzer{
		collectors: cfg.Collectors,
		scorer:     cfg.Scorer,
		weights:    weights,
		pool:       NewPool(cfg.PoolWidth),
		scoreLimit: limit,
		artifacts:  cfg.Artifacts,
		notifier:   cfg.Notifier,
	}, nil
}

// Analyze runs validation, collection, scoring and reporting for one
// request. It never returns an error: every failure is captured in the
// report's error list and the caller always receives a best-effort report.
func (a *Analyzer) Analyze(ctx context.Context, req domain.AnalysisRequest) domain.AnalysisReport {
	runID := uuid.NewString()
	var errs []string

	// Validating
	if strings.TrimSpace(req.BrandName) == "" {
		errs = append(errs, "validation: brand name is required")
		report := domain.BuildReport(req, nil, domain.TrustScore{}, nil, errs)
		report.RunID = runID
		report.GeneratedAt = time.Now().UTC()
		return report
	}

	// Collecting
	log.Printf("[%s] collecting from %d sources", req.BrandName, len(a.collectors))
	outcomes := a.pool.Collect(ctx, req, a.collectors)
	for _, c := range a.collectors {
		if outcome, ok := outcomes[c.SourceID()]; ok && outcome.Status == domain.StatusFailed {
			errs = append(errs, fmt.Sprintf("collection: %s: %s", outcome.SourceID, outcome.Error))
		}
	}

	// Scoring
	components := a.scoreDimensions(ctx, outcomes)
	trust := domain.Aggregate(components, a.weights)
	log.Printf("[%s] trust score %.1f (%s)", req.BrandName, trust.FinalScore, trust.Interpretation)

	// Reporting
	report := buildReportSafe(req, outcomes, trust, components, errs)
	report.RunID = runID
	report.GeneratedAt = time.Now().UTC()

	a.persistArtifact(report, outcomes)
	a.notifyLowTrust(report)
	return report
}

// scoreDimensions scores every dimension through the adaptor. Each goroutine
// writes only its own slot, so the merge after Wait needs no lock.
func (a *Analyzer) scoreDimensions(ctx context.Context, outcomes map[string]domain.CollectionOutcome) map[domain.Dimension]domain.ComponentScore {
	dims := domain.AllDimensions()
	results := make([]domain.ComponentScore, len(dims))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.scoreLimit)
	for i, dim := range dims {
		i, dim := i, dim
		g.Go(func() error {
			results[i] = a.scorer.Score(gctx, dim, payloadFor(dim, outcomes))
			return nil
		})
	}
	_ = g.Wait()

	components := make(map[domain.Dimension]domain.ComponentScore, len(dims))
	for i, dim := range dims {
		components[dim] = results[i]
	}
	return components
}

// buildReportSafe projects the full report, substituting the minimal
// degraded report if projection itself fails.
func buildReportSafe(req domain.AnalysisRequest, outcomes map[string]domain.CollectionOutcome, trust domain.TrustScore, components map[domain.Dimension]domain.ComponentScore, errs []string) (report domain.AnalysisReport) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("report build failed: %v", r)
			report = domain.DegradedReport(req, trust, append(errs, fmt.Sprintf("report: %v", r)))
		}
	}()
	return domain.BuildReport(req, outcomes, trust, components, errs)
}

// persistArtifact writes the per-run JSON artifact. Persistence failure is
// logged but never alters the returned report.
func (a *Analyzer) persistArtifact(report domain.AnalysisReport, outcomes map[string]domain.CollectionOutcome) {
	if a.artifacts == nil {
		return
	}
	complete := map[string]interface{}{}
	for source, outcome := range outcomes {
		summary := map[string]interface{}{"status": string(outcome.Status)}
		if outcome.Status == domain.StatusCompleted {
			summary["item_count"] = payloadItemCount(source, outcome.Payload)
		}
		complete[source] = summary
	}
	if err := a.artifacts.Save(report, complete); err != nil {
		log.Printf("failed to persist analysis artifact: %v", err)
	}
}

// payloadItemCount reports the raw item count a source contributed.
func payloadItemCount(source string, payload map[string]interface{}) int {
	switch source {
	case SourceProductSearch:
		return asInt(payload["product_count"])
	case SourceReviewFetch:
		return asInt(payload["total_reviews"])
	case SourceForumSearch:
		return len(asMapSlice(payload["posts"]))
	case SourceWebsiteFetch:
		return asInt(payload["content_length"])
	default:
		return len(payload)
	}
}

func (a *Analyzer) notifyLowTrust(report domain.AnalysisReport) {
	if a.notifier == nil || report.Degraded {
		return
	}
	if report.OverallScore >= domain.ConcernThreshold {
		return
	}
	if err := a.notifier.NotifyLowTrust(report); err != nil {
		log.Printf("low-trust notification failed: %v", err)
	}
}
