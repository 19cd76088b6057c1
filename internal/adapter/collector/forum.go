package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/meridian-corporation/trustlens/internal/core/domain"
)

const (
	redditBase          = "https://www.reddit.com"
	forumUserAgent      = "trustlens/1.0 (brand trust research)"
	maxSubreddits       = 5
	maxPostsPerSub      = 3
	maxCommentsPerPost  = 3
	minCommentTextChars = 10
)

var subredditPattern = regexp.MustCompile(`/r/([A-Za-z0-9_]+)`)

// ForumSearch gathers community discussion about the brand: a web search
// discovers relevant subreddits, then Reddit's public JSON endpoints
// supply posts and a few top comments per post.
type ForumSearch struct {
	serp    *SerpClient
	client  *http.Client
	baseURL string
}

func NewForumSearch(serp *SerpClient, client *http.Client) *ForumSearch {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &ForumSearch{serp: serp, client: client, baseURL: redditBase}
}

func (f *ForumSearch) SourceID() string {
	return "forum_search"
}

func (f *ForumSearch) Collect(ctx context.Context, req domain.AnalysisRequest) (map[string]interface{}, error) {
	subreddits, err := f.discoverSubreddits(ctx, req.BrandName)
	if err != nil {
		return nil, err
	}

	posts := []map[string]interface{}{}
	for _, sub := range subreddits {
		subPosts, err := f.searchSubreddit(ctx, sub, req.BrandName)
		if err != nil {
			log.Printf("subreddit search failed for r/%s: %v", sub, err)
			continue
		}
		posts = append(posts, subPosts...)
	}

	return map[string]interface{}{
		"posts":      posts,
		"post_count": len(posts),
	}, nil
}

// discoverSubreddits finds subreddits that discuss the brand via a plain
// web search scoped to reddit.com.
func (f *ForumSearch) discoverSubreddits(ctx context.Context, brand string) ([]string, error) {
	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", fmt.Sprintf("%s site:reddit.com", brand))
	params.Set("num", "10")

	result, err := f.serp.Search(ctx, params)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var subreddits []string
	items, _ := result["organic_results"].([]interface{})
	for _, item := range items {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		link, _ := entry["link"].(string)
		title, _ := entry["title"].(string)
		for _, m := range subredditPattern.FindAllStringSubmatch(link+" "+title, -1) {
			name := strings.ToLower(m[1])
			if seen[name] {
				continue
			}
			seen[name] = true
			subreddits = append(subreddits, name)
		}
	}

	if len(subreddits) > maxSubreddits {
		subreddits = subreddits[:maxSubreddits]
	}
	return subreddits, nil
}

func (f *ForumSearch) searchSubreddit(ctx context.Context, subreddit, brand string) ([]map[string]interface{}, error) {
	query := url.Values{}
	query.Set("q", brand)
	query.Set("restrict_sr", "1")
	query.Set("sort", "relevance")
	query.Set("limit", fmt.Sprintf("%d", maxPostsPerSub))

	endpoint := fmt.Sprintf("%s/r/%s/search.json?%s", f.baseURL, subreddit, query.Encode())
	listing, err := f.fetchJSON(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var posts []map[string]interface{}
	for _, child := range listingChildren(listing) {
		title, _ := child["title"].(string)
		selftext, _ := child["selftext"].(string)
		if !mentionsBrand(brand, title+" "+selftext) {
			continue
		}

		permalink, _ := child["permalink"].(string)
		post := map[string]interface{}{
			"subreddit": subreddit,
			"title":     title,
			"post_text": selftext,
			"score":     numberField(child, "score"),
			"permalink": permalink,
			"comments":  []map[string]interface{}{},
		}
		if permalink != "" {
			if comments, err := f.fetchComments(ctx, permalink); err == nil {
				post["comments"] = comments
			}
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// fetchComments pulls the top comments for one post. Reddit returns a
// two-element array: the post listing, then the comment listing.
func (f *ForumSearch) fetchComments(ctx context.Context, permalink string) ([]map[string]interface{}, error) {
	endpoint := fmt.Sprintf("%s%s.json?limit=10", f.baseURL, strings.TrimSuffix(permalink, "/"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", forumUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var listings []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&listings); err != nil {
		return nil, err
	}
	if len(listings) < 2 {
		return nil, fmt.Errorf("unexpected comment listing shape")
	}

	var comments []map[string]interface{}
	for _, child := range listingChildren(listings[1]) {
		body, _ := child["body"].(string)
		if len(body) < minCommentTextChars || body == "[deleted]" || body == "[removed]" {
			continue
		}
		comments = append(comments, map[string]interface{}{
			"body":  body,
			"score": numberField(child, "score"),
		})
		if len(comments) == maxCommentsPerPost {
			break
		}
	}
	return comments, nil
}

func (f *ForumSearch) fetchJSON(ctx context.Context, endpoint string) (map[string]interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", forumUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return result, nil
}

// listingChildren unwraps a Reddit listing into the per-item data maps.
func listingChildren(listing map[string]interface{}) []map[string]interface{} {
	data, _ := listing["data"].(map[string]interface{})
	children, _ := data["children"].([]interface{})
	out := make([]map[string]interface{}, 0, len(children))
	for _, child := range children {
		wrapper, ok := child.(map[string]interface{})
		if !ok {
			continue
		}
		if item, ok := wrapper["data"].(map[string]interface{}); ok {
			out = append(out, item)
		}
	}
	return out
}

func mentionsBrand(brand, text string) bool {
	haystack := strings.ToLower(text)
	for _, token := range strings.Fields(strings.ToLower(brand)) {
		if strings.Contains(haystack, token) {
			return true
		}
	}
	return false
}
