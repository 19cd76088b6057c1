package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-corporation/trustlens/internal/core/domain"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// SaveRun stores one completed analysis. The full report goes in as jsonb
// next to the queryable summary columns.
func (r *PostgresRepository) SaveRun(ctx context.Context, report domain.AnalysisReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	query := `
		INSERT INTO analyses (run_id, brand_name, final_score, interpretation, report, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (run_id) DO NOTHING
	`

	_, err = r.db.Exec(ctx, query,
		report.RunID,
		report.BrandName,
		report.OverallScore,
		report.Recommendation,
		reportJSON,
		report.GeneratedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert analysis: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindByBrand(ctx context.Context, brand string, limit int) ([]domain.StoredRun, error) {
	query := `
		SELECT run_id, brand_name, final_score, interpretation, report, created_at
		FROM analyses
		WHERE LOWER(brand_name) = LOWER($1)
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, brand, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

func (r *PostgresRepository) FindSince(ctx context.Context, since time.Time, limit int) ([]domain.StoredRun, error) {
	query := `
		SELECT run_id, brand_name, final_score, interpretation, report, created_at
		FROM analyses
		WHERE created_at >= $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses since %v: %w", since, err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanRuns(rows rowScanner) ([]domain.StoredRun, error) {
	var runs []domain.StoredRun
	for rows.Next() {
		var run domain.StoredRun
		err := rows.Scan(
			&run.RunID,
			&run.BrandName,
			&run.FinalScore,
			&run.Interpretation,
			&run.Report,
			&run.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return runs, nil
}
