package service

import (
	"github.com/meridian-corporation/trustlens/internal/core/domain"
)

// Source IDs for the five collectors.
const (
	SourceProductSearch = "product_search"
	SourceReviewFetch   = "review_fetch"
	SourceForumSearch   = "forum_search"
	SourceWebsiteFetch  = "website_fetch"
	SourceSSLProbe      = "ssl_probe"
)

// payloadFor assembles the scoring payload for one dimension from whatever
// the collectors managed to return. Missing or failed sources simply leave
// their fields empty; the scorer's fallback path handles the rest.
func payloadFor(dim domain.Dimension, outcomes map[string]domain.CollectionOutcome) map[string]interface{} {
	switch dim {
	case domain.Ratings:
		return ratingsPayload(outcomes)
	case domain.BusinessLegitimacy:
		return legitimacyPayload(outcomes)
	case domain.ReviewSentiment:
		return sentimentPayload(outcomes)
	case domain.SocialMedia:
		return socialPayload(outcomes)
	case domain.CustomerSupport:
		return supportPayload(outcomes)
	default:
		return map[string]interface{}{}
	}
}

func completedPayload(outcomes map[string]domain.CollectionOutcome, source string) map[string]interface{} {
	outcome, ok := outcomes[source]
	if !ok || outcome.Status != domain.StatusCompleted {
		return nil
	}
	return outcome.Payload
}

func ratingsPayload(outcomes map[string]domain.CollectionOutcome) map[string]interface{} {
	reviews := completedPayload(outcomes, SourceReviewFetch)

	totalReviews := 0
	ratingSum := 0.0
	rated := 0
	for _, product := range asMapSlice(reviews["products"]) {
		overall := asMap(product["overall_rating"])
		if overall == nil {
			continue
		}
		totalReviews += asInt(overall["total_reviews"])
		if rating, ok := asFloat(overall["average_rating"]); ok && rating > 0 {
			ratingSum += rating
			rated++
		}
	}
	avg := 0.0
	if rated > 0 {
		avg = ratingSum / float64(rated)
	}

	payload := map[string]interface{}{
		"total_reviews":     totalReviews,
		"average_rating":    avg,
		"products_analyzed": rated,
	}
	if search := completedPayload(outcomes, SourceProductSearch); search != nil {
		payload["products_found"] = asInt(search["product_count"])
	}
	return payload
}

func legitimacyPayload(outcomes map[string]domain.CollectionOutcome) map[string]interface{} {
	payload := map[string]interface{}{}

	contentPoints := 0
	if site := completedPayload(outcomes, SourceWebsiteFetch); site != nil {
		for _, key := range []string{"website_url", "contact_info", "page_sections", "content_length"} {
			if v, ok := site[key]; ok {
				payload[key] = v
			}
		}
		contentPoints = asInt(site["content_points"])
	}

	ssl := domain.SSLInfo{Status: "Not checked"}
	if probe := completedPayload(outcomes, SourceSSLProbe); probe != nil {
		if info, ok := probe["ssl_info"].(domain.SSLInfo); ok {
			ssl = info
		}
	}
	payload["ssl_info"] = ssl

	points := contentPoints + domain.SSLTrustPoints(ssl)
	if points > 100 {
		points = 100
	}
	payload["trust_points"] = points
	payload["status"] = domain.WebsiteStatus(points)
	return payload
}

// maxSentimentSamples caps the review texts handed to the reasoning service.
const maxSentimentSamples = 50

func sentimentPayload(outcomes map[string]domain.CollectionOutcome) map[string]interface{} {
	samples := []map[string]interface{}{}

	for _, product := range asMapSlice(completedPayload(outcomes, SourceReviewFetch)["products"]) {
		for _, review := range asMapSlice(product["reviews"]) {
			content := asString(review["content"])
			if len(content) <= 10 {
				continue
			}
			samples = append(samples, map[string]interface{}{
				"text":   content,
				"rating": review["rating"],
				"source": "Google",
			})
		}
	}

	for _, post := range asMapSlice(completedPayload(outcomes, SourceForumSearch)["posts"]) {
		if text := asString(post["post_text"]); len(text) > 10 {
			samples = append(samples, map[string]interface{}{
				"text":   text,
				"rating": "N/A",
				"source": "Forum",
			})
		}
		comments := asMapSlice(post["comments"])
		if len(comments) > 3 {
			comments = comments[:3]
		}
		for _, comment := range comments {
			if body := asString(comment["body"]); len(body) > 10 {
				samples = append(samples, map[string]interface{}{
					"text":   body,
					"rating": "N/A",
					"source": "Forum",
				})
			}
		}
	}

	total := len(samples)
	if len(samples) > maxSentimentSamples {
		samples = samples[:maxSentimentSamples]
	}
	return map[string]interface{}{
		"total_reviews":    total,
		"reviews_analyzed": len(samples),
		"samples":          samples,
	}
}

func socialPayload(outcomes map[string]domain.CollectionOutcome) map[string]interface{} {
	forum := completedPayload(outcomes, SourceForumSearch)
	posts := asMapSlice(forum["posts"])
	return map[string]interface{}{
		"posts":      posts,
		"post_count": len(posts),
	}
}

func supportPayload(outcomes map[string]domain.CollectionOutcome) map[string]interface{} {
	reviewCount := 0
	if reviews := completedPayload(outcomes, SourceReviewFetch); reviews != nil {
		reviewCount = asInt(reviews["total_reviews"])
	}
	postCount := 0
	if forum := completedPayload(outcomes, SourceForumSearch); forum != nil {
		postCount = len(asMapSlice(forum["posts"]))
	}
	return map[string]interface{}{
		"review_count":      reviewCount,
		"forum_posts_count": postCount,
		"total_data_points": reviewCount + postCount,
	}
}

// Defensive accessors: payloads are opaque maps and any field may be absent
// or of a surprising type.

func asMap(v interface{}) map[string]interface{} {
	m, _ := v.(map[string]interface{})
	return m
}

func asMapSlice(v interface{}) []map[string]interface{} {
	switch s := v.(type) {
	case []map[string]interface{}:
		return s
	case []interface{}:
		out := make([]map[string]interface{}, 0, len(s))
		for _, item := range s {
			if m, ok := item.(map[string]interface{}); ok {
				out = append(out, m)
			}
		}
		return out
	default:
		return nil
	}
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func asInt(v interface{}) int {
	if f, ok := asFloat(v); ok {
		return int(f)
	}
	return 0
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}
