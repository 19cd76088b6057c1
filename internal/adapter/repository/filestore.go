package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/meridian-corporation/trustlens/internal/core/domain"
)

// FileStore writes one JSON artifact per analyzed brand. Re-analyzing a
// brand overwrites its artifact; the run history lives in Postgres, not
// here.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	if dir == "" {
		dir = "."
	}
	return &FileStore{dir: dir}
}

// Save writes the report plus the raw per-source collection summary as
// pretty-printed JSON named after the brand.
func (f *FileStore) Save(report domain.AnalysisReport, completeData map[string]interface{}) error {
	artifact := map[string]interface{}{
		"run_id":                 report.RunID,
		"brand_name":             report.BrandName,
		"generated_at":           report.GeneratedAt,
		"overall_score":          report.OverallScore,
		"recommendation":         report.Recommendation,
		"component_scores":       report.ComponentScores,
		"key_strengths":          report.KeyStrengths,
		"areas_of_concern":       report.AreasOfConcern,
		"collection_status":      report.CollectionStatus,
		"errors":                 report.Errors,
		"complete_analysis_data": completeData,
	}

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}

	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}

	path := filepath.Join(f.dir, ArtifactName(report.BrandName))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	return nil
}

// ArtifactName normalizes a brand name into its artifact filename:
// lowercased, spaces replaced with underscores.
func ArtifactName(brand string) string {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(brand)), " ", "_")
	return normalized + "_analysis.json"
}
