package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/meridian-corporation/trustlens/internal/core/domain"
)

// stubAnalyzer returns a canned report stamped with the request's brand.
type stubAnalyzer struct {
	lastReq domain.AnalysisRequest
}

func (s *stubAnalyzer) Analyze(ctx context.Context, req domain.AnalysisRequest) domain.AnalysisReport {
	s.lastReq = req
	return domain.AnalysisReport{
		RunID:          "run-1",
		BrandName:      req.BrandName,
		GeneratedAt:    time.Now().UTC(),
		OverallScore:   7.2,
		Recommendation: "Good - Generally trustworthy",
		KeyStrengths:   []string{},
		AreasOfConcern: []string{},
	}
}

type stubRunStore struct {
	saved []domain.AnalysisReport
	runs  []domain.StoredRun
}

func (s *stubRunStore) SaveRun(ctx context.Context, report domain.AnalysisReport) error {
	s.saved = append(s.saved, report)
	return nil
}

func (s *stubRunStore) FindByBrand(ctx context.Context, brand string, limit int) ([]domain.StoredRun, error) {
	if limit < len(s.runs) {
		return s.runs[:limit], nil
	}
	return s.runs, nil
}

func (s *stubRunStore) FindSince(ctx context.Context, since time.Time, limit int) ([]domain.StoredRun, error) {
	return s.runs, nil
}

func newTestRouter(analyzer *stubAnalyzer, store *stubRunStore) *mux.Router {
	h := NewRestHandler(analyzer, store)
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/health", h.Health).Methods("GET")
	router.HandleFunc("/api/v1/analyses", h.Analyze).Methods("POST")
	router.HandleFunc("/api/v1/analyses", h.Reports).Methods("GET")
	router.HandleFunc("/api/v1/analyses/feed", h.Feed).Methods("GET")
	return router
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(&stubAnalyzer{}, &stubRunStore{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]interface{}
	json.NewDecoder(rec.Body).Decode(&body)
	if body["status"] != "healthy" {
		t.Errorf("status field = %v", body["status"])
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	analyzer := &stubAnalyzer{}
	store := &stubRunStore{}
	router := newTestRouter(analyzer, store)

	payload := `{"brand_name": "Acme", "website": "acme.example", "social_handle": "@acme"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/v1/analyses", bytes.NewBufferString(payload)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var report domain.AnalysisReport
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatalf("response is not a report: %v", err)
	}
	if report.BrandName != "Acme" {
		t.Errorf("brand = %q, want Acme", report.BrandName)
	}
	if analyzer.lastReq.Website != "acme.example" || analyzer.lastReq.SocialHandle != "@acme" {
		t.Errorf("request not forwarded: %+v", analyzer.lastReq)
	}
	if len(store.saved) != 1 {
		t.Errorf("saved runs = %d, want 1", len(store.saved))
	}
}

func TestAnalyzeEndpointValidation(t *testing.T) {
	router := newTestRouter(&stubAnalyzer{}, &stubRunStore{})

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", "{not json"},
		{"missing brand", `{"website": "acme.example"}`},
		{"blank brand", `{"brand_name": "   "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/v1/analyses", bytes.NewBufferString(tt.body)))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestReportsEndpoint(t *testing.T) {
	store := &stubRunStore{runs: []domain.StoredRun{
		{
			RunID:          "run-1",
			BrandName:      "Acme",
			FinalScore:     7.2,
			Interpretation: "Good - Generally trustworthy",
			Report:         []byte(`{"brand_name": "Acme"}`),
			CreatedAt:      time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC),
		},
	}}
	router := newTestRouter(&stubAnalyzer{}, store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/analyses?brand=Acme", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]interface{}
	json.NewDecoder(rec.Body).Decode(&body)
	if body["count"] != 1.0 {
		t.Errorf("count = %v, want 1", body["count"])
	}

	// Missing brand parameter
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/analyses", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status without brand = %d, want 400", rec.Code)
	}
}

func TestFeedEndpointCSV(t *testing.T) {
	store := &stubRunStore{runs: []domain.StoredRun{
		{RunID: "run-1", BrandName: "Acme", FinalScore: 7.2, Interpretation: "Good - Generally trustworthy", CreatedAt: time.Now().UTC()},
	}}
	router := newTestRouter(&stubAnalyzer{}, store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/analyses/feed?since=24h", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "text/csv") {
		t.Errorf("Content-Type = %q, want text/csv", ct)
	}
	if !strings.Contains(rec.Body.String(), "run_id,brand_name") {
		t.Errorf("body = %q, want CSV header", rec.Body.String())
	}
}

func TestFeedEndpointBadParams(t *testing.T) {
	router := newTestRouter(&stubAnalyzer{}, &stubRunStore{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/analyses/feed?since=yesterday", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status for bad since = %d, want 400", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/analyses/feed?format=xml", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status for bad format = %d, want 400", rec.Code)
	}
}
