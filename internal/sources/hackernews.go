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

// hackerNewsBase is the Algolia HN search endpoint. Declared as a var so
// tests can substitute an httptest server.
var hackerNewsBase = "https://hn.algolia.com/api/v1/search"

var hackerNewsQueries = []string{
	"AI jobs",
	"AI layoffs",
	"automation employment",
	"LLM workforce",
}

// HackerNews searches stories via the Algolia index. Story points stand in
// for engagement in ranking.
type HackerNews struct {
	client    *http.Client
	userAgent string
	limiter   *rate.Limiter
}

func NewHackerNews(cfg types.DiscoveryConfig) *HackerNews {
	return &HackerNews{
		client:    newHTTPClient(cfg.HTTPConfig),
		userAgent: cfg.UserAgent,
		limiter:   rate.NewLimiter(rate.Every(300*time.Millisecond), 1),
	}
}

func (s *HackerNews) Name() string           { return "hackernews" }
func (s *HackerNews) Kind() types.SourceKind { return types.SourceHackerNews }
func (s *HackerNews) Enabled() bool          { return true }

func (s *HackerNews) Discover(ctx context.Context, limit int) ([]types.ResearchItem, error) {
	if limit <= 0 {
		limit = 20
	}

	seen := make(map[string]bool)
	var items []types.ResearchItem
	for _, q := range hackerNewsQueries {
		if len(items) >= limit {
			break
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return items, err
		}

		hits, err := s.search(ctx, q, limit)
		if err != nil {
			return nil, err
		}
		for _, h := range hits {
			if h.ObjectID == "" || seen[h.ObjectID] {
				continue
			}
			seen[h.ObjectID] = true
			items = append(items, normalizeHNHit(h))
			if len(items) >= limit {
				break
			}
		}
	}
	return items, nil
}

func (s *HackerNews) search(ctx context.Context, query string, limit int) ([]hnHit, error) {
	params := url.Values{
		"query":       {query},
		"tags":        {"story"},
		"hitsPerPage": {fmt.Sprintf("%d", limit)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, hackerNewsBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Hacker News request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Hacker News returned HTTP %d", resp.StatusCode)
	}

	var hr hnResponse
	if err := json.NewDecoder(resp.Body).Decode(&hr); err != nil {
		return nil, fmt.Errorf("parsing Hacker News response: %w", err)
	}
	return hr.Hits, nil
}

func normalizeHNHit(h hnHit) types.ResearchItem {
	discussion := "https://news.ycombinator.com/item?id=" + h.ObjectID
	link := h.URL
	if link == "" {
		link = discussion
	}
	r := types.ResearchItem{
		ID:            itemID(types.SourceHackerNews, h.ObjectID),
		Title:         h.Title,
		Abstract:      stripHTML(h.StoryText),
		Venue:         "Hacker News",
		URL:           link,
		CitationCount: h.Points,
		SourceKind:    types.SourceHackerNews,
		EvidenceTier:  4,
	}
	if h.Author != "" {
		r.Authors = append(r.Authors, h.Author)
	}
	if h.CreatedAt != "" {
		r.PublishedDate = parseDate(h.CreatedAt)
	}
	r.RelevanceScore = relevance.Score(r.Title, r.Abstract)
	return r
}

// Algolia HN JSON structures.
type hnResponse struct {
	Hits []hnHit `json:"hits"`
}

type hnHit struct {
	ObjectID  string `json:"objectID"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	StoryText string `json:"story_text"`
	Author    string `json:"author"`
	Points    int    `json:"points"`
	CreatedAt string `json:"created_at"`
}
