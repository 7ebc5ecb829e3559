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

// adzunaBase is the Adzuna job search endpoint (US market, first page).
// Declared as a var so tests can substitute an httptest server.
var adzunaBase = "https://api.adzuna.com/v1/api/jobs/us/search/1"

// adzunaQueries target postings that mention AI skills or AI-driven
// restructuring rather than postings for AI roles themselves.
var adzunaQueries = []string{
	"artificial intelligence",
	"machine learning automation",
	"generative AI",
}

// Adzuna queries the job-postings aggregator. Requires an app ID and key;
// without them the adapter reports itself disabled and the pipeline runs on
// the remaining sources.
type Adzuna struct {
	client    *http.Client
	appID     string
	appKey    string
	userAgent string
	limiter   *rate.Limiter
}

func NewAdzuna(cfg types.DiscoveryConfig) *Adzuna {
	return &Adzuna{
		client:    newHTTPClient(cfg.HTTPConfig),
		appID:     cfg.AdzunaAppID,
		appKey:    cfg.AdzunaAppKey,
		userAgent: cfg.UserAgent,
		limiter:   rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
	}
}

func (s *Adzuna) Name() string           { return "adzuna" }
func (s *Adzuna) Kind() types.SourceKind { return types.SourceAdzuna }
func (s *Adzuna) Enabled() bool          { return s.appID != "" && s.appKey != "" }

func (s *Adzuna) Discover(ctx context.Context, limit int) ([]types.ResearchItem, error) {
	if limit <= 0 {
		limit = 20
	}

	seen := make(map[string]bool)
	var items []types.ResearchItem
	for _, q := range adzunaQueries {
		if len(items) >= limit {
			break
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return items, err
		}

		jobs, err := s.search(ctx, q, limit)
		if err != nil {
			return nil, err
		}
		for _, j := range jobs {
			if j.ID == "" || seen[j.ID] {
				continue
			}
			seen[j.ID] = true
			items = append(items, normalizeAdzunaJob(j))
			if len(items) >= limit {
				break
			}
		}
	}
	return items, nil
}

func (s *Adzuna) search(ctx context.Context, query string, limit int) ([]adzunaJob, error) {
	params := url.Values{
		"app_id":           {s.appID},
		"app_key":          {s.appKey},
		"what":             {query},
		"results_per_page": {fmt.Sprintf("%d", limit)},
		"content-type":     {"application/json"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, adzunaBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Adzuna request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Adzuna returned HTTP %d", resp.StatusCode)
	}

	var ar adzunaResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return nil, fmt.Errorf("parsing Adzuna response: %w", err)
	}
	return ar.Results, nil
}

func normalizeAdzunaJob(j adzunaJob) types.ResearchItem {
	r := types.ResearchItem{
		ID:           itemID(types.SourceAdzuna, j.ID),
		Title:        j.Title,
		Abstract:     stripHTML(j.Description),
		Venue:        j.Company.DisplayName,
		URL:          j.RedirectURL,
		SourceKind:   types.SourceAdzuna,
		EvidenceTier: 2,
	}
	if j.Created != "" {
		r.PublishedDate = parseDate(j.Created)
	}
	r.RelevanceScore = relevance.Score(r.Title, r.Abstract)
	return r
}

// Adzuna API JSON structures.
type adzunaResponse struct {
	Results []adzunaJob `json:"results"`
}

type adzunaJob struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	RedirectURL string        `json:"redirect_url"`
	Created     string        `json:"created"`
	Company     adzunaCompany `json:"company"`
}

type adzunaCompany struct {
	DisplayName string `json:"display_name"`
}
