package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const defaultSerpEndpoint = "https://serpapi.com/search.json"

// SerpClient is a thin client for a SerpAPI-compatible search endpoint,
// shared by the product, review and forum collectors. Transient failures
// are retried with exponential backoff.
type SerpClient struct {
	client     *http.Client
	endpoint   string
	apiKey     string
	newBackoff func() backoff.BackOff
}

func NewSerpClient(client *http.Client, endpoint, apiKey string) *SerpClient {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if endpoint == "" {
		endpoint = defaultSerpEndpoint
	}
	return &SerpClient{
		client:   client,
		endpoint: endpoint,
		apiKey:   apiKey,
		newBackoff: func() backoff.BackOff {
			policy := backoff.NewExponentialBackOff()
			policy.InitialInterval = 500 * time.Millisecond
			policy.MaxElapsedTime = 15 * time.Second
			return backoff.WithMaxRetries(policy, 2)
		},
	}
}

// NewSerpClientFromEnv reads SEARCH_API_KEY (SERPAPI_API_KEY accepted as
// fallback) and SEARCH_API_URL.
func NewSerpClientFromEnv(client *http.Client) *SerpClient {
	apiKey := os.Getenv("SEARCH_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("SERPAPI_API_KEY")
	}
	return NewSerpClient(client, os.Getenv("SEARCH_API_URL"), apiKey)
}

// Available reports whether the search service has a credential configured.
func (s *SerpClient) Available() bool {
	return s.apiKey != ""
}

// Search performs one search call and decodes the JSON result.
func (s *SerpClient) Search(ctx context.Context, params url.Values) (map[string]interface{}, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("search service is not configured")
	}

	query := url.Values{}
	for key, values := range params {
		for _, v := range values {
			query.Add(key, v)
		}
	}
	query.Set("api_key", s.apiKey)

	var result map[string]interface{}
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+query.Encode(), nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return fmt.Errorf("search API returned status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("search API returned status %d", resp.StatusCode))
		}

		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode search response: %w", err))
		}
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(s.newBackoff(), ctx)); err != nil {
		return nil, err
	}
	if apiErr, ok := result["error"].(string); ok && apiErr != "" {
		return nil, fmt.Errorf("search API error: %s", apiErr)
	}
	return result, nil
}
