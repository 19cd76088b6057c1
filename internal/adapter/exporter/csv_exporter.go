package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/meridian-corporation/trustlens/internal/core/ports"
)

// CSVExporter renders the run history as a CSV feed for spreadsheet or BI
// ingestion.
type CSVExporter struct {
	repo ports.RunStore
}

func NewCSVExporter(repo ports.RunStore) *CSVExporter {
	return &CSVExporter{repo: repo}
}

// Export generates a CSV feed of analyses since the given time. Defaults to
// the last 30 days, capped at 10000 rows.
func (e *CSVExporter) Export(ctx context.Context, since time.Time) (string, error) {
	if since.IsZero() {
		since = time.Now().Add(-30 * 24 * time.Hour)
	}

	runs, err := e.repo.FindSince(ctx, since, 10000)
	if err != nil {
		return "", fmt.Errorf("failed to fetch analyses: %w", err)
	}

	var output strings.Builder
	writer := csv.NewWriter(&output)

	if err := writer.Write([]string{"run_id", "brand_name", "final_score", "interpretation", "created_at"}); err != nil {
		return "", fmt.Errorf("failed to write header: %w", err)
	}

	for _, run := range runs {
		record := []string{
			run.RunID,
			run.BrandName,
			strconv.FormatFloat(run.FinalScore, 'f', 1, 64),
			run.Interpretation,
			run.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("failed to write record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("failed to flush csv: %w", err)
	}
	return output.String(), nil
}
