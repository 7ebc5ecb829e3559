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

	"github.com/pdiddy/laborwatch/internal/httputil"
	"github.com/pdiddy/laborwatch/internal/relevance"
	"github.com/pdiddy/laborwatch/pkg/types"
)

// semanticScholarBase is the paper search endpoint. Declared as a var so
// tests can substitute an httptest server.
var semanticScholarBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const semanticScholarFields = "title,abstract,venue,authors,externalIds,citationCount,year,publicationDate,openAccessPdf,url"

// SemanticScholar queries the Semantic Scholar Graph API. Works without a
// key at the shared rate limit; a key raises it.
type SemanticScholar struct {
	client    *http.Client
	apiKey    string
	userAgent string
	limiter   *rate.Limiter
}

// NewSemanticScholar builds the adapter. Unauthenticated access is limited
// to roughly one request per second, so queries are paced at 1.1s.
func NewSemanticScholar(cfg types.DiscoveryConfig) *SemanticScholar {
	return &SemanticScholar{
		client:    newHTTPClient(cfg.HTTPConfig),
		apiKey:    cfg.SemanticScholarAPIKey,
		userAgent: cfg.UserAgent,
		limiter:   rate.NewLimiter(rate.Every(1100*time.Millisecond), 1),
	}
}

func (s *SemanticScholar) Name() string           { return "semantic-scholar" }
func (s *SemanticScholar) Kind() types.SourceKind { return types.SourceSemanticScholar }
func (s *SemanticScholar) Enabled() bool          { return true }

// Discover runs the fixed topical queries sequentially and normalizes the
// union of their results.
func (s *SemanticScholar) Discover(ctx context.Context, limit int) ([]types.ResearchItem, error) {
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

		page, err := s.search(ctx, q, limit)
		if err != nil {
			return nil, err
		}
		for _, p := range page {
			if p.PaperID == "" || seen[p.PaperID] {
				continue
			}
			seen[p.PaperID] = true
			items = append(items, normalizeSemanticPaper(p))
			if len(items) >= limit {
				break
			}
		}
	}
	return items, nil
}

func (s *SemanticScholar) search(ctx context.Context, query string, limit int) ([]semanticPaper, error) {
	params := url.Values{
		"query":  {query},
		"limit":  {fmt.Sprintf("%d", limit)},
		"fields": {semanticScholarFields},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, semanticScholarBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	if s.apiKey != "" {
		req.Header.Set("x-api-key", s.apiKey)
	}

	resp, err := httputil.DoWithRetry(ctx, s.client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("Semantic Scholar request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Semantic Scholar returned HTTP %d", resp.StatusCode)
	}

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}
	return sr.Data, nil
}

func normalizeSemanticPaper(p semanticPaper) types.ResearchItem {
	r := types.ResearchItem{
		ID:            itemID(types.SourceSemanticScholar, p.PaperID),
		Title:         p.Title,
		Abstract:      p.Abstract,
		Venue:         p.Venue,
		URL:           p.URL,
		DOI:           NormalizeDOI(p.ExternalIDs.DOI),
		CitationCount: p.CitationCount,
		SourceKind:    types.SourceSemanticScholar,
		EvidenceTier:  2,
	}
	for _, a := range p.Authors {
		if a.Name != "" {
			r.Authors = append(r.Authors, a.Name)
		}
	}
	if p.OpenAccessPDF.URL != "" {
		r.PDFURL = p.OpenAccessPDF.URL
	}
	if p.PublicationDate != "" {
		r.PublishedDate = parseDate(p.PublicationDate)
	} else if p.Year > 0 {
		r.PublishedDate = time.Date(p.Year, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	r.RelevanceScore = relevance.Score(r.Title, r.Abstract)
	return r
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total int             `json:"total"`
	Data  []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID         string              `json:"paperId"`
	Title           string              `json:"title"`
	Abstract        string              `json:"abstract"`
	Venue           string              `json:"venue"`
	URL             string              `json:"url"`
	Year            int                 `json:"year"`
	PublicationDate string              `json:"publicationDate"`
	CitationCount   int                 `json:"citationCount"`
	Authors         []semanticAuthor    `json:"authors"`
	ExternalIDs     semanticExternalIDs `json:"externalIds"`
	OpenAccessPDF   semanticOpenAccess  `json:"openAccessPdf"`
}

type semanticAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

type semanticExternalIDs struct {
	DOI   string `json:"DOI"`
	ArXiv string `json:"ArXiv"`
}

type semanticOpenAccess struct {
	URL string `json:"url"`
}
