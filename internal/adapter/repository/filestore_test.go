package repository

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/meridian-corporation/trustlens/internal/core/domain"
)

func sampleReport(brand string) domain.AnalysisReport {
	return domain.AnalysisReport{
		RunID:          "run-1",
		BrandName:      brand,
		GeneratedAt:    time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
		OverallScore:   7.2,
		Recommendation: "Good - Generally trustworthy",
		KeyStrengths:   []string{"Ratings: 9/10 (55%)"},
		AreasOfConcern: []string{},
	}
}

func TestFileStoreSave(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)

	complete := map[string]interface{}{
		"product_search": map[string]interface{}{"status": "completed", "item_count": 10},
	}
	if err := store.Save(sampleReport("Acme Corp"), complete); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	path := filepath.Join(dir, "acme_corp_analysis.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("artifact not written: %v", err)
	}

	var artifact map[string]interface{}
	if err := json.Unmarshal(data, &artifact); err != nil {
		t.Fatalf("artifact is not valid JSON: %v", err)
	}
	if artifact["brand_name"] != "Acme Corp" {
		t.Errorf("brand_name = %v", artifact["brand_name"])
	}
	if artifact["overall_score"] != 7.2 {
		t.Errorf("overall_score = %v, want 7.2", artifact["overall_score"])
	}
	if _, ok := artifact["complete_analysis_data"]; !ok {
		t.Error("complete_analysis_data block missing")
	}

	// Pretty-printed output
	if data[0] != '{' || data[1] != '\n' {
		t.Error("artifact not indented")
	}
}

func TestFileStoreOverwritesOnReanalysis(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)

	first := sampleReport("Acme")
	first.OverallScore = 5.0
	if err := store.Save(first, nil); err != nil {
		t.Fatalf("first save failed: %v", err)
	}

	second := sampleReport("Acme")
	second.OverallScore = 8.5
	if err := store.Save(second, nil); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "acme_analysis.json"))
	if err != nil {
		t.Fatalf("artifact missing: %v", err)
	}
	var artifact map[string]interface{}
	if err := json.Unmarshal(data, &artifact); err != nil {
		t.Fatal(err)
	}
	if artifact["overall_score"] != 8.5 {
		t.Errorf("overall_score = %v, want latest 8.5", artifact["overall_score"])
	}
}

func TestFileStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "analyses")
	store := NewFileStore(dir)

	if err := store.Save(sampleReport("Acme"), nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "acme_analysis.json")); err != nil {
		t.Errorf("artifact not created in nested dir: %v", err)
	}
}

func TestArtifactName(t *testing.T) {
	tests := []struct {
		brand string
		want  string
	}{
		{"Acme", "acme_analysis.json"},
		{"Acme Corp", "acme_corp_analysis.json"},
		{"  Mixed Case Brand  ", "mixed_case_brand_analysis.json"},
	}
	for _, tt := range tests {
		if got := ArtifactName(tt.brand); got != tt.want {
			t.Errorf("ArtifactName(%q) = %q, want %q", tt.brand, got, tt.want)
		}
	}
}
