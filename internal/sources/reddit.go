// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/laborwatch/internal/relevance"
	"github.com/pdiddy/laborwatch/pkg/types"
)

// redditBase is the public search endpoint. Declared as a var so tests can
// substitute an httptest server.
var redditBase = "https://www.reddit.com/search.json"

var redditQueries = []string{
	"AI replacing jobs",
	"AI layoffs",
	"automation unemployment",
}

// Reddit searches the public JSON endpoint. No credential, but Reddit
// throttles generic user agents hard, so requests are paced at one per two
// seconds and carry the configured UA.
type Reddit struct {
	client    *http.Client
	userAgent string
	limiter   *rate.Limiter
}

func NewReddit(cfg types.DiscoveryConfig) *Reddit {
	return &Reddit{
		client:    newHTTPClient(cfg.HTTPConfig),
		userAgent: cfg.UserAgent,
		limiter:   rate.NewLimiter(rate.Every(2*time.Second), 1),
	}
}

func (s *Reddit) Name() string           { return "reddit" }
func (s *Reddit) Kind() types.SourceKind { return types.SourceReddit }
func (s *Reddit) Enabled() bool          { return true }

func (s *Reddit) Discover(ctx context.Context, limit int) ([]types.ResearchItem, error) {
	if limit <= 0 {
		limit = 20
	}

	seen := make(map[string]bool)
	var items []types.ResearchItem
	for _, q := range redditQueries {
		if len(items) >= limit {
			break
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return items, err
		}

		posts, err := s.search(ctx, q, limit)
		if err != nil {
			return nil, err
		}
		for _, p := range posts {
			if p.ID == "" || seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			items = append(items, normalizeRedditPost(p))
			if len(items) >= limit {
				break
			}
		}
	}
	return items, nil
}

func (s *Reddit) search(ctx context.Context, query string, limit int) ([]redditPost, error) {
	params := url.Values{
		"q":     {query},
		"limit": {fmt.Sprintf("%d", limit)},
		"sort":  {"relevance"},
		"t":     {"month"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, redditBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Reddit request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Reddit returned HTTP %d", resp.StatusCode)
	}

	var rr redditResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return nil, fmt.Errorf("parsing Reddit response: %w", err)
	}

	posts := make([]redditPost, 0, len(rr.Data.Children))
	for _, c := range rr.Data.Children {
		posts = append(posts, c.Data)
	}
	return posts, nil
}

func normalizeRedditPost(p redditPost) types.ResearchItem {
	r := types.ResearchItem{
		ID:            itemID(types.SourceReddit, p.ID),
		Title:         p.Title,
		Abstract:      stripHTML(p.Selftext),
		Venue:         "r/" + p.Subreddit,
		URL:           "https://www.reddit.com" + p.Permalink,
		CitationCount: p.Score,
		SourceKind:    types.SourceReddit,
		EvidenceTier:  4,
	}
	if p.Author != "" {
		r.Authors = append(r.Authors, p.Author)
	}
	if p.CreatedUTC > 0 {
		r.PublishedDate = time.Unix(int64(p.CreatedUTC), 0).UTC()
	}
	r.RelevanceScore = relevance.Score(r.Title, r.Abstract)
	return r
}

// Reddit listing JSON structures.
type redditResponse struct {
	Data redditListing `json:"data"`
}

type redditListing struct {
	Children []redditChild `json:"children"`
}

type redditChild struct {
	Data redditPost `json:"data"`
}

type redditPost struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Selftext   string  `json:"selftext"`
	Permalink  string  `json:"permalink"`
	Subreddit  string  `json:"subreddit"`
	Author     string  `json:"author"`
	Score      int     `json:"score"`
	CreatedUTC float64 `json:"created_utc"`
}
