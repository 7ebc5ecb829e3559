// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/laborwatch/internal/relevance"
	"github.com/pdiddy/laborwatch/pkg/types"
)

// serperBase is the Serper Google search endpoint. Declared as a var so
// tests can substitute an httptest server.
var serperBase = "https://google.serper.dev/search"

var serperQueries = []string{
	"AI labor market impact study",
	"AI job displacement report",
	"generative AI workforce survey",
}

// Serper proxies Google web search. Requires an API key; without one the
// adapter reports itself disabled.
type Serper struct {
	client    *http.Client
	apiKey    string
	userAgent string
	limiter   *rate.Limiter
}

func NewSerper(cfg types.DiscoveryConfig) *Serper {
	return &Serper{
		client:    newHTTPClient(cfg.HTTPConfig),
		apiKey:    cfg.SerperAPIKey,
		userAgent: cfg.UserAgent,
		limiter:   rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
	}
}

func (s *Serper) Name() string           { return "serper" }
func (s *Serper) Kind() types.SourceKind { return types.SourceSerper }
func (s *Serper) Enabled() bool          { return s.apiKey != "" }

func (s *Serper) Discover(ctx context.Context, limit int) ([]types.ResearchItem, error) {
	if limit <= 0 {
		limit = 20
	}

	seen := make(map[string]bool)
	var items []types.ResearchItem
	for _, q := range serperQueries {
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
			if res.Link == "" || seen[res.Link] {
				continue
			}
			seen[res.Link] = true
			items = append(items, normalizeSerperResult(res))
			if len(items) >= limit {
				break
			}
		}
	}
	return items, nil
}

func (s *Serper) search(ctx context.Context, query string, limit int) ([]serperResult, error) {
	body, err := json.Marshal(serperRequest{Q: query, Num: limit})
	if err != nil {
		return nil, fmt.Errorf("encoding Serper request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serperBase, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("X-API-KEY", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Serper request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Serper returned HTTP %d", resp.StatusCode)
	}

	var sr serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing Serper response: %w", err)
	}
	return sr.Organic, nil
}

func normalizeSerperResult(res serperResult) types.ResearchItem {
	r := types.ResearchItem{
		ID:           itemID(types.SourceSerper, res.Link),
		Title:        res.Title,
		Abstract:     res.Snippet,
		URL:          res.Link,
		SourceKind:   types.SourceSerper,
		EvidenceTier: 4,
	}
	if res.Date != "" {
		r.PublishedDate = parseDate(res.Date)
	}
	r.RelevanceScore = relevance.Score(r.Title, r.Abstract)
	return r
}

// Serper API JSON structures.
type serperRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num"`
}

type serperResponse struct {
	Organic []serperResult `json:"organic"`
}

type serperResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
	Date    string `json:"date"`
}
