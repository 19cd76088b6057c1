package collector

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"

	"github.com/meridian-corporation/trustlens/internal/core/domain"
)

const websiteUserAgent = "Mozilla/5.0 (compatible; trustlens/1.0)"

// WebsiteFetch downloads the brand's homepage and extracts its trust
// indicators: contact details, policy sections and content volume. A
// request without a website is a skip, not a failure.
type WebsiteFetch struct {
	client     *http.Client
	newBackoff func() backoff.BackOff
}

func NewWebsiteFetch(client *http.Client) *WebsiteFetch {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &WebsiteFetch{
		client: client,
		newBackoff: func() backoff.BackOff {
			policy := backoff.NewExponentialBackOff()
			policy.InitialInterval = 500 * time.Millisecond
			policy.MaxElapsedTime = 10 * time.Second
			return backoff.WithMaxRetries(policy, 2)
		},
	}
}

func (w *WebsiteFetch) SourceID() string {
	return "website_fetch"
}

func (w *WebsiteFetch) Collect(ctx context.Context, req domain.AnalysisRequest) (map[string]interface{}, error) {
	if req.Website == "" {
		return map[string]interface{}{
			"skipped": true,
			"reason":  "no website provided",
		}, nil
	}

	siteURL := NormalizeURL(req.Website)
	content, err := w.fetchPageText(ctx, siteURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", siteURL, err)
	}

	contact := domain.ExtractContactInfo(content)
	sections := domain.DetectPageSections(content)

	return map[string]interface{}{
		"website_url":    siteURL,
		"content_length": len(content),
		"contact_info":   contact,
		"page_sections":  sections,
		"content_points": domain.ContentTrustPoints(contact, sections, len(content)),
	}, nil
}

func (w *WebsiteFetch) fetchPageText(ctx context.Context, siteURL string) (string, error) {
	var content string
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, siteURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", websiteUserAgent)

		resp, err := w.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("unexpected status code: %d", resp.StatusCode))
		}

		doc, err := goquery.NewDocumentFromReader(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to parse page: %w", err))
		}
		doc.Find("script, style, noscript").Remove()
		content = collapseWhitespace(doc.Find("body").Text())
		if content == "" {
			content = collapseWhitespace(doc.Text())
		}
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(w.newBackoff(), ctx)); err != nil {
		return "", err
	}
	return content, nil
}

// NormalizeURL makes a bare domain fetchable by defaulting to https.
func NormalizeURL(site string) string {
	site = strings.TrimSpace(site)
	if strings.HasPrefix(site, "http://") || strings.HasPrefix(site, "https://") {
		return site
	}
	return "https://" + site
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
