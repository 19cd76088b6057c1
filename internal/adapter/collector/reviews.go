package collector

import (
	"context"
	"log"
	"net/url"

	"github.com/meridian-corporation/trustlens/internal/core/domain"
)

const defaultReviewProducts = 3

// ReviewFetch harvests per-product review data: it reuses the shopping
// search to pick the brand's top products, then pulls the review block for
// each. A product whose review fetch fails is skipped, not fatal.
type ReviewFetch struct {
	serp        *SerpClient
	maxProducts int
}

func NewReviewFetch(serp *SerpClient) *ReviewFetch {
	return &ReviewFetch{serp: serp, maxProducts: defaultReviewProducts}
}

func (r *ReviewFetch) SourceID() string {
	return "review_fetch"
}

func (r *ReviewFetch) Collect(ctx context.Context, req domain.AnalysisRequest) (map[string]interface{}, error) {
	params := url.Values{}
	params.Set("engine", "google_shopping")
	params.Set("q", req.BrandName)
	params.Set("num", "20")

	search, err := r.serp.Search(ctx, params)
	if err != nil {
		return nil, err
	}

	candidates := selectProducts(req.BrandName, shoppingResults(search))
	if len(candidates) > r.maxProducts {
		candidates = candidates[:r.maxProducts]
	}

	products := []map[string]interface{}{}
	totalReviews := 0
	for _, candidate := range candidates {
		productID, _ := candidate["product_id"].(string)
		if productID == "" {
			continue
		}

		product, err := r.fetchProductReviews(ctx, productID)
		if err != nil {
			log.Printf("review fetch failed for product %s: %v", productID, err)
			continue
		}
		product["title"] = candidate["title"]

		if overall, ok := product["overall_rating"].(map[string]interface{}); ok {
			totalReviews += int(numberField(overall, "total_reviews"))
		}
		products = append(products, product)
	}

	return map[string]interface{}{
		"products":      products,
		"product_count": len(products),
		"total_reviews": totalReviews,
	}, nil
}

func (r *ReviewFetch) fetchProductReviews(ctx context.Context, productID string) (map[string]interface{}, error) {
	params := url.Values{}
	params.Set("engine", "google_product")
	params.Set("product_id", productID)
	params.Set("reviews", "1")

	result, err := r.serp.Search(ctx, params)
	if err != nil {
		return nil, err
	}

	product := map[string]interface{}{
		"product_id": productID,
	}

	if pr, ok := result["product_results"].(map[string]interface{}); ok {
		product["overall_rating"] = map[string]interface{}{
			"average_rating": numberField(pr, "rating"),
			"total_reviews":  numberField(pr, "reviews"),
		}
	}

	reviews := []map[string]interface{}{}
	if rr, ok := result["reviews_results"].(map[string]interface{}); ok {
		items, _ := rr["reviews"].([]interface{})
		for _, item := range items {
			entry, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			reviews = append(reviews, map[string]interface{}{
				"content": entry["content"],
				"rating":  numberField(entry, "rating"),
				"date":    entry["date"],
				"source":  entry["source"],
			})
		}
	}
	product["reviews"] = reviews
	return product, nil
}
