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

// crossrefBase is the Crossref works endpoint. Declared as a var so tests
// can substitute an httptest server.
var crossrefBase = "https://api.crossref.org/works"

// Crossref queries the Crossref REST API. Free; a mailto in the User-Agent
// routes requests to the polite pool.
type Crossref struct {
	client    *http.Client
	userAgent string
	limiter   *rate.Limiter
}

func NewCrossref(cfg types.DiscoveryConfig) *Crossref {
	ua := cfg.UserAgent
	if cfg.OpenAlexEmail != "" {
		ua = fmt.Sprintf("%s (mailto:%s)", cfg.UserAgent, cfg.OpenAlexEmail)
	}
	return &Crossref{
		client:    newHTTPClient(cfg.HTTPConfig),
		userAgent: ua,
		limiter:   rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

func (s *Crossref) Name() string           { return "crossref" }
func (s *Crossref) Kind() types.SourceKind { return types.SourceCrossref }
func (s *Crossref) Enabled() bool          { return true }

func (s *Crossref) Discover(ctx context.Context, limit int) ([]types.ResearchItem, error) {
	if limit <= 0 {
		limit = 20
	}

	seen := make(map[string]bool)
	var items []types.ResearchItem
	for _, q := range topicQueries {
		if len(items) >= limit {
			break
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return items, err
		}

		works, err := s.search(ctx, q, limit)
		if err != nil {
			return nil, err
		}
		for _, w := range works {
			doi := NormalizeDOI(w.DOI)
			if doi == "" || seen[doi] {
				continue
			}
			seen[doi] = true
			items = append(items, normalizeCrossrefWork(w))
			if len(items) >= limit {
				break
			}
		}
	}
	return items, nil
}

func (s *Crossref) search(ctx context.Context, query string, limit int) ([]crossrefWork, error) {
	params := url.Values{
		"query": {query},
		"rows":  {fmt.Sprintf("%d", limit)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, crossrefBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Crossref request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Crossref returned HTTP %d", resp.StatusCode)
	}

	var cr crossrefResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("parsing Crossref response: %w", err)
	}
	return cr.Message.Items, nil
}

func normalizeCrossrefWork(w crossrefWork) types.ResearchItem {
	doi := NormalizeDOI(w.DOI)
	r := types.ResearchItem{
		ID: itemID(types.SourceCrossref, doi),
		// Crossref abstracts arrive as JATS XML fragments.
		Abstract:      stripHTML(w.Abstract),
		DOI:           doi,
		URL:           w.URL,
		CitationCount: w.IsReferencedByCount,
		SourceKind:    types.SourceCrossref,
		EvidenceTier:  2,
	}
	if len(w.Title) > 0 {
		r.Title = w.Title[0]
	}
	if len(w.ContainerTitle) > 0 {
		r.Venue = w.ContainerTitle[0]
	}
	for _, a := range w.Author {
		name := a.Given + " " + a.Family
		if a.Given == "" {
			name = a.Family
		}
		if name != "" {
			r.Authors = append(r.Authors, name)
		}
	}
	if len(w.Issued.DateParts) > 0 && len(w.Issued.DateParts[0]) > 0 {
		parts := w.Issued.DateParts[0]
		y, m, d := parts[0], 1, 1
		if len(parts) > 1 {
			m = parts[1]
		}
		if len(parts) > 2 {
			d = parts[2]
		}
		r.PublishedDate = time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	}
	r.RelevanceScore = relevance.Score(r.Title, r.Abstract)
	return r
}

// Crossref API JSON structures.
type crossrefResponse struct {
	Message crossrefMessage `json:"message"`
}

type crossrefMessage struct {
	Items []crossrefWork `json:"items"`
}

type crossrefWork struct {
	DOI                 string           `json:"DOI"`
	Title               []string         `json:"title"`
	Abstract            string           `json:"abstract"`
	ContainerTitle      []string         `json:"container-title"`
	URL                 string           `json:"URL"`
	IsReferencedByCount int              `json:"is-referenced-by-count"`
	Author              []crossrefAuthor `json:"author"`
	Issued              crossrefDate     `json:"issued"`
}

type crossrefAuthor struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}

type crossrefDate struct {
	DateParts [][]int `json:"date-parts"`
}
