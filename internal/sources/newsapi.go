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

// newsAPIBase is the NewsAPI "everything" endpoint. Declared as a var so
// tests can substitute an httptest server.
var newsAPIBase = "https://newsapi.org/v2/everything"

var newsAPIQueries = []string{
	`"artificial intelligence" AND (layoffs OR hiring OR jobs)`,
	`"AI" AND "labor market"`,
	`automation AND workforce`,
}

// NewsAPI queries the news-outlet aggregator. Requires an API key.
type NewsAPI struct {
	client    *http.Client
	apiKey    string
	userAgent string
	limiter   *rate.Limiter
}

func NewNewsAPI(cfg types.DiscoveryConfig) *NewsAPI {
	return &NewsAPI{
		client:    newHTTPClient(cfg.HTTPConfig),
		apiKey:    cfg.NewsAPIKey,
		userAgent: cfg.UserAgent,
		limiter:   rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
	}
}

func (s *NewsAPI) Name() string           { return "newsapi" }
func (s *NewsAPI) Kind() types.SourceKind { return types.SourceNewsAPI }
func (s *NewsAPI) Enabled() bool          { return s.apiKey != "" }

func (s *NewsAPI) Discover(ctx context.Context, limit int) ([]types.ResearchItem, error) {
	if limit <= 0 {
		limit = 20
	}

	seen := make(map[string]bool)
	var items []types.ResearchItem
	for _, q := range newsAPIQueries {
		if len(items) >= limit {
			break
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return items, err
		}

		articles, err := s.search(ctx, q, limit)
		if err != nil {
			return nil, err
		}
		for _, a := range articles {
			if a.URL == "" || seen[a.URL] {
				continue
			}
			seen[a.URL] = true
			items = append(items, normalizeNewsArticle(a))
			if len(items) >= limit {
				break
			}
		}
	}
	return items, nil
}

func (s *NewsAPI) search(ctx context.Context, query string, limit int) ([]newsArticle, error) {
	params := url.Values{
		"q":        {query},
		"pageSize": {fmt.Sprintf("%d", limit)},
		"language": {"en"},
		"sortBy":   {"publishedAt"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, newsAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("X-Api-Key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("NewsAPI request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("NewsAPI returned HTTP %d", resp.StatusCode)
	}

	var nr newsResponse
	if err := json.NewDecoder(resp.Body).Decode(&nr); err != nil {
		return nil, fmt.Errorf("parsing NewsAPI response: %w", err)
	}
	return nr.Articles, nil
}

func normalizeNewsArticle(a newsArticle) types.ResearchItem {
	r := types.ResearchItem{
		ID:            itemID(types.SourceNewsAPI, a.URL),
		Title:         a.Title,
		Abstract:      stripHTML(a.Description),
		Venue:         a.Source.Name,
		URL:           a.URL,
		PublishedDate: a.PublishedAt,
		SourceKind:    types.SourceNewsAPI,
		EvidenceTier:  3,
	}
	if a.Author != "" {
		r.Authors = append(r.Authors, a.Author)
	}
	r.RelevanceScore = relevance.Score(r.Title, r.Abstract)
	return r
}

// NewsAPI JSON structures.
type newsResponse struct {
	Status   string        `json:"status"`
	Articles []newsArticle `json:"articles"`
}

type newsArticle struct {
	Source      newsSource `json:"source"`
	Author      string     `json:"author"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	URL         string     `json:"url"`
	PublishedAt time.Time  `json:"publishedAt"`
}

type newsSource struct {
	Name string `json:"name"`
}
