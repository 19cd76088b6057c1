package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/meridian-corporation/trustlens/internal/core/domain"
	"github.com/meridian-corporation/trustlens/internal/core/ports"
)

// DefaultPoolWidth bounds collector concurrency when no width is configured.
const DefaultPoolWidth = 4

// Pool runs collectors concurrently with per-collector isolation: an error
// or panic in one collector never reaches the caller or the other workers.
type Pool struct {
	width int
}

func NewPool(width int) *Pool {
	if width <= 0 {
		width = DefaultPoolWidth
	}
	return &Pool{width: width}
}

// Collect fans the request out to every collector and blocks until all have
// returned. The result holds exactly one outcome per collector, keyed by
// source ID, each either Completed or Failed.
func (p *Pool) Collect(ctx context.Context, req domain.AnalysisRequest, collectors []ports.Collector) map[string]domain.CollectionOutcome {
	outcomes := make(map[string]domain.CollectionOutcome, len(collectors))
	if len(collectors) == 0 {
		return outcomes
	}

	jobs := make(chan ports.Collector)
	results := make(chan domain.CollectionOutcome, len(collectors))

	workers := p.width
	if workers > len(collectors) {
		workers = len(collectors)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range jobs {
				results <- runCollector(ctx, req, c)
			}
		}()
	}

	for _, c := range collectors {
		jobs <- c
	}
	close(jobs)
	wg.Wait()
	close(results)

	for outcome := range results {
		outcomes[outcome.SourceID] = outcome
	}
	return outcomes
}

// runCollector invokes one collector, converting errors and panics into a
// Failed outcome.
func runCollector(ctx context.Context, req domain.AnalysisRequest, c ports.Collector) (outcome domain.CollectionOutcome) {
	outcome = domain.CollectionOutcome{SourceID: c.SourceID(), Status: domain.StatusPending}
	defer func() {
		if r := recover(); r != nil {
			outcome.Status = domain.StatusFailed
			outcome.Payload = nil
			outcome.Error = fmt.Sprintf("collector panic: %v", r)
		}
	}()

	payload, err := c.Collect(ctx, req)
	if err != nil {
		outcome.Status = domain.StatusFailed
		outcome.Error = err.Error()
		return outcome
	}
	outcome.Status = domain.StatusCompleted
	outcome.Payload = payload
	return outcome
}
