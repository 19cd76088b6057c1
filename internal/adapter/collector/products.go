package collector

import (
	"context"
	"net/url"
	"sort"
	"strings"

	"github.com/meridian-corporation/trustlens/internal/core/domain"
)

const maxSelectedProducts = 10

// ProductSearch finds a brand's products through a shopping search and
// keeps the ones most likely to carry meaningful review data.
type ProductSearch struct {
	serp *SerpClient
}

func NewProductSearch(serp *SerpClient) *ProductSearch {
	return &ProductSearch{serp: serp}
}

func (p *ProductSearch) SourceID() string {
	return "product_search"
}

func (p *ProductSearch) Collect(ctx context.Context, req domain.AnalysisRequest) (map[string]interface{}, error) {
	params := url.Values{}
	params.Set("engine", "google_shopping")
	params.Set("q", req.BrandName)
	params.Set("num", "20")

	result, err := p.serp.Search(ctx, params)
	if err != nil {
		return nil, err
	}

	products := selectProducts(req.BrandName, shoppingResults(result))
	return map[string]interface{}{
		"products":      products,
		"product_count": len(products),
	}, nil
}

func shoppingResults(result map[string]interface{}) []map[string]interface{} {
	items, _ := result["shopping_results"].([]interface{})
	out := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]interface{}); ok {
			out = append(out, m)
		}
	}
	return out
}

// selectProducts keeps brand-matching results, deduplicates by product ID
// and returns the highest-quality entries first.
func selectProducts(brand string, results []map[string]interface{}) []map[string]interface{} {
	seen := map[string]bool{}
	selected := []map[string]interface{}{}

	for _, item := range results {
		title, _ := item["title"].(string)
		source, _ := item["source"].(string)
		if !brandMatches(brand, title, source) {
			continue
		}

		productID, _ := item["product_id"].(string)
		if productID != "" && seen[productID] {
			continue
		}
		if productID != "" {
			seen[productID] = true
		}

		rating := numberField(item, "rating")
		reviews := int(numberField(item, "reviews"))
		selected = append(selected, map[string]interface{}{
			"product_id":    productID,
			"title":         title,
			"source":        source,
			"rating":        rating,
			"reviews":       reviews,
			"price":         item["price"],
			"link":          item["link"],
			"quality_score": productQuality(rating, reviews),
		})
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i]["quality_score"].(float64) > selected[j]["quality_score"].(float64)
	})
	if len(selected) > maxSelectedProducts {
		selected = selected[:maxSelectedProducts]
	}
	return selected
}

// brandMatches is deliberately relaxed: any brand token appearing in the
// result title or merchant name counts. Shopping results routinely drop or
// reorder brand words.
func brandMatches(brand, title, source string) bool {
	haystack := strings.ToLower(title + " " + source)
	for _, token := range strings.Fields(strings.ToLower(brand)) {
		if strings.Contains(haystack, token) {
			return true
		}
	}
	return false
}

// productQuality favors well-rated products with enough reviews to be
// worth fetching: rating dominates, review volume adds a bounded bonus.
func productQuality(rating float64, reviews int) float64 {
	score := rating * 10
	switch {
	case reviews >= 100:
		score += 20
	case reviews >= 20:
		score += 10
	case reviews > 0:
		score += 5
	}
	return score
}

func numberField(item map[string]interface{}, key string) float64 {
	switch n := item[key].(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}
