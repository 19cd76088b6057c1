package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/meridian-corporation/trustlens/internal/adapter/exporter"
	"github.com/meridian-corporation/trustlens/internal/core/domain"
	"github.com/meridian-corporation/trustlens/internal/core/ports"
)

const defaultHistoryLimit = 20

type RestHandler struct {
	analyzer    ports.BrandAnalyzer
	runs        ports.RunStore
	csvExporter *exporter.CSVExporter
}

func NewRestHandler(analyzer ports.BrandAnalyzer, runs ports.RunStore) *RestHandler {
	return &RestHandler{
		analyzer:    analyzer,
		runs:        runs,
		csvExporter: exporter.NewCSVExporter(runs),
	}
}

// Health check endpoint
func (h *RestHandler) Health(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "trustlens-api",
	}
	writeJSON(w, http.StatusOK, response)
}

type analyzeRequest struct {
	BrandName    string `json:"brand_name"`
	Website      string `json:"website,omitempty"`
	SocialHandle string `json:"social_handle,omitempty"`
}

// Analyze runs one full brand analysis and returns the report. Collection
// failures never fail the request; they show up in the report's error
// list.
func (h *RestHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var payload analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(payload.BrandName) == "" {
		writeError(w, http.StatusBadRequest, "missing 'brand_name' field")
		return
	}

	log.Printf("analysis requested for brand %q", payload.BrandName)

	report := h.analyzer.Analyze(r.Context(), domain.AnalysisRequest{
		BrandName:    strings.TrimSpace(payload.BrandName),
		Website:      strings.TrimSpace(payload.Website),
		SocialHandle: strings.TrimSpace(payload.SocialHandle),
	})

	if h.runs != nil && !report.Degraded {
		if err := h.runs.SaveRun(r.Context(), report); err != nil {
			log.Printf("failed to persist run %s: %v", report.RunID, err)
		}
	}

	writeJSON(w, http.StatusOK, report)
}

// Reports returns the stored run history for one brand.
func (h *RestHandler) Reports(w http.ResponseWriter, r *http.Request) {
	brand := r.URL.Query().Get("brand")
	if brand == "" {
		writeError(w, http.StatusBadRequest, "missing 'brand' parameter")
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "invalid 'limit' parameter")
			return
		}
		limit = parsed
	}

	runs, err := h.runs.FindByBrand(r.Context(), brand, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to query analyses")
		return
	}

	entries := make([]map[string]interface{}, len(runs))
	for i, run := range runs {
		entries[i] = map[string]interface{}{
			"run_id":         run.RunID,
			"brand_name":     run.BrandName,
			"final_score":    run.FinalScore,
			"interpretation": run.Interpretation,
			"report":         json.RawMessage(run.Report),
			"created_at":     run.CreatedAt.UTC().Format(time.RFC3339),
		}
	}

	response := map[string]interface{}{
		"brand":    brand,
		"count":    len(runs),
		"analyses": entries,
	}
	writeJSON(w, http.StatusOK, response)
}

// Feed exports the run history for downstream tooling.
func (h *RestHandler) Feed(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	since := r.URL.Query().Get("since") // e.g., "24h", "168h"

	var sinceTime time.Time
	if since != "" {
		duration, err := time.ParseDuration(since)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid 'since' parameter (use format like '24h', '168h')")
			return
		}
		sinceTime = time.Now().Add(-duration)
	}

	switch format {
	case "csv", "":
		data, err := h.csvExporter.Export(r.Context(), sinceTime)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to export CSV feed")
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(data)); err != nil {
			log.Printf("Error writing CSV feed response: %v", err)
		}

	case "json":
		if sinceTime.IsZero() {
			sinceTime = time.Now().Add(-30 * 24 * time.Hour)
		}
		runs, err := h.runs.FindSince(r.Context(), sinceTime, 10000)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to query analyses")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"count":    len(runs),
			"analyses": runs,
		})

	default:
		writeError(w, http.StatusBadRequest, "unsupported format (use 'csv' or 'json')")
	}
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
