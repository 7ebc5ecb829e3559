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

// braveBase is the Brave web search endpoint. Declared as a var so tests
// can substitute an httptest server.
var braveBase = "https://api.search.brave.com/res/v1/web/search"

var braveQueries = []string{
	"AI labor market research",
	"AI hiring impact report",
	"automation employment study",
}

// Brave queries the Brave Search API. Requires a subscription token;
// without one the adapter reports itself disabled. Free-tier keys allow
// one request per second, so requests are paced accordingly.
type Brave struct {
	client    *http.Client
	apiKey    string
	userAgent string
	limiter   *rate.Limiter
}

func NewBrave(cfg types.DiscoveryConfig) *Brave {
	return &Brave{
		client:    newHTTPClient(cfg.HTTPConfig),
		apiKey:    cfg.BraveAPIKey,
		userAgent: cfg.UserAgent,
		limiter:   rate.NewLimiter(rate.Every(1100*time.Millisecond), 1),
	}
}

func (s *Brave) Name() string           { return "brave" }
func (s *Brave) Kind() types.SourceKind { return types.SourceBrave }
func (s *Brave) Enabled() bool          { return s.apiKey != "" }

func (s *Brave) Discover(ctx context.Context, limit int) ([]types.ResearchItem, error) {
	if limit <= 0 {
		limit = 20
	}

	seen := make(map[string]bool)
	var items []types.ResearchItem
	for _, q := range braveQueries {
		if len(items) >= limit {
			break
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return items, err
		}

		results, err := s.search(ctx, q, limit)
		if err != nil {
			return nil, err
		}
		for _, res := range results {
			if res.URL == "" || seen[res.URL] {
				continue
			}
			seen[res.URL] = true
			items = append(items, normalizeBraveResult(res))
			if len(items) >= limit {
				break
			}
		}
	}
	return items, nil
}

func (s *Brave) search(ctx context.Context, query string, limit int) ([]braveResult, error) {
	if limit > 20 {
		limit = 20
	}
	params := url.Values{
		"q":     {query},
		"count": {fmt.Sprintf("%d", limit)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, braveBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Brave request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Brave returned HTTP %d", resp.StatusCode)
	}

	var br braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&br); err != nil {
		return nil, fmt.Errorf("parsing Brave response: %w", err)
	}
	return br.Web.Results, nil
}

func normalizeBraveResult(res braveResult) types.ResearchItem {
	r := types.ResearchItem{
		ID:           itemID(types.SourceBrave, res.URL),
		Title:        res.Title,
		Abstract:     stripHTML(res.Description),
		URL:          res.URL,
		SourceKind:   types.SourceBrave,
		EvidenceTier: 4,
	}
	if res.PageAge != "" {
		r.PublishedDate = parseDate(res.PageAge)
	}
	r.RelevanceScore = relevance.Score(r.Title, r.Abstract)
	return r
}

// Brave Search API JSON structures.
type braveResponse struct {
	Web braveWeb `json:"web"`
}

type braveWeb struct {
	Results []braveResult `json:"results"`
}

type braveResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	PageAge     string `json:"page_age"`
}
