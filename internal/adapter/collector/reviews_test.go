package collector

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/meridian-corporation/trustlens/internal/core/domain"
)

func TestReviewFetchCollect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("engine") {
		case "google_shopping":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"shopping_results": []map[string]interface{}{
					{"product_id": "p1", "title": "Acme Widget", "rating": 4.5, "reviews": 200},
					{"product_id": "p2", "title": "Acme Gadget", "rating": 4.0, "reviews": 80},
				},
			})
		case "google_product":
			productID := r.URL.Query().Get("product_id")
			json.NewEncoder(w).Encode(map[string]interface{}{
				"product_results": map[string]interface{}{
					"rating":  4.2,
					"reviews": 150,
				},
				"reviews_results": map[string]interface{}{
					"reviews": []map[string]interface{}{
						{"content": "Great product, works as advertised for " + productID, "rating": 5, "date": "2026-07-01", "source": "Google"},
						{"content": "Broke after a week", "rating": 1, "date": "2026-06-12", "source": "Google"},
					},
				},
			})
		default:
			t.Errorf("unexpected engine %q", r.URL.Query().Get("engine"))
		}
	}))
	defer server.Close()

	fetch := NewReviewFetch(testSerpClient(server.URL))
	payload, err := fetch.Collect(context.Background(), domain.AnalysisRequest{BrandName: "Acme"})
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	products := payload["products"].([]map[string]interface{})
	if len(products) != 2 {
		t.Fatalf("products = %d, want 2", len(products))
	}
	if payload["total_reviews"] != 300 {
		t.Errorf("total_reviews = %v, want 300 (150 per product)", payload["total_reviews"])
	}

	first := products[0]
	reviews := first["reviews"].([]map[string]interface{})
	if len(reviews) != 2 {
		t.Errorf("reviews = %d, want 2", len(reviews))
	}
	overall := first["overall_rating"].(map[string]interface{})
	if overall["average_rating"] != 4.2 {
		t.Errorf("average_rating = %v, want 4.2", overall["average_rating"])
	}
}

func TestReviewFetchSkipsFailedProducts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("engine") {
		case "google_shopping":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"shopping_results": []map[string]interface{}{
					{"product_id": "good", "title": "Acme Widget", "rating": 4.5, "reviews": 200},
					{"product_id": "bad", "title": "Acme Gadget", "rating": 4.0, "reviews": 80},
				},
			})
		case "google_product":
			if r.URL.Query().Get("product_id") == "bad" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			json.NewEncoder(w).Encode(map[string]interface{}{
				"product_results": map[string]interface{}{"rating": 4.5, "reviews": 10},
			})
		}
	}))
	defer server.Close()

	fetch := NewReviewFetch(testSerpClient(server.URL))
	payload, err := fetch.Collect(context.Background(), domain.AnalysisRequest{BrandName: "Acme"})
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	if payload["product_count"] != 1 {
		t.Errorf("product_count = %v, want 1 (failed product skipped)", payload["product_count"])
	}
}

func TestReviewFetchPropagatesSearchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	fetch := NewReviewFetch(testSerpClient(server.URL))
	if _, err := fetch.Collect(context.Background(), domain.AnalysisRequest{BrandName: "Acme"}); err == nil {
		t.Fatal("expected error when the product search itself fails")
	}
}
