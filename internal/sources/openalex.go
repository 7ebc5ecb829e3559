// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/laborwatch/internal/relevance"
	"github.com/pdiddy/laborwatch/pkg/types"
)

// openAlexBase is the OpenAlex Works endpoint. Declared as a var so tests
// can substitute an httptest server.
var openAlexBase = "https://api.openalex.org/works"

// OpenAlex queries the OpenAlex Works search API. Free; the mailto
// parameter grants polite-pool access.
type OpenAlex struct {
	client    *http.Client
	email     string
	userAgent string
	limiter   *rate.Limiter
}

func NewOpenAlex(cfg types.DiscoveryConfig) *OpenAlex {
	return &OpenAlex{
		client:    newHTTPClient(cfg.HTTPConfig),
		email:     cfg.OpenAlexEmail,
		userAgent: cfg.UserAgent,
		limiter:   rate.NewLimiter(rate.Every(200*time.Millisecond), 1),
	}
}

func (s *OpenAlex) Name() string           { return "openalex" }
func (s *OpenAlex) Kind() types.SourceKind { return types.SourceOpenAlex }
func (s *OpenAlex) Enabled() bool          { return true }

func (s *OpenAlex) Discover(ctx context.Context, limit int) ([]types.ResearchItem, error) {
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
			id := openAlexShortID(w.ID)
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			items = append(items, normalizeOpenAlexWork(w, types.SourceOpenAlex))
			if len(items) >= limit {
				break
			}
		}
	}
	return items, nil
}

func (s *OpenAlex) search(ctx context.Context, query string, limit int) ([]openAlexWork, error) {
	params := url.Values{
		"search":   {query},
		"per_page": {fmt.Sprintf("%d", limit)},
	}
	if s.email != "" {
		params.Set("mailto", s.email)
	}
	return fetchOpenAlexWorks(ctx, s.client, s.userAgent, openAlexBase+"?"+params.Encode())
}

// fetchOpenAlexWorks performs one Works request. Shared with the
// tracked-author adapter, which filters the same endpoint by author ID.
func fetchOpenAlexWorks(ctx context.Context, client *http.Client, userAgent, reqURL string) ([]openAlexWork, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("OpenAlex request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OpenAlex returned HTTP %d", resp.StatusCode)
	}

	var oar openAlexResponse
	if err := json.NewDecoder(resp.Body).Decode(&oar); err != nil {
		return nil, fmt.Errorf("parsing OpenAlex response: %w", err)
	}
	return oar.Results, nil
}

func normalizeOpenAlexWork(w openAlexWork, kind types.SourceKind) types.ResearchItem {
	r := types.ResearchItem{
		ID:            itemID(kind, openAlexShortID(w.ID)),
		Title:         w.Title,
		Abstract:      reconstructAbstract(w.AbstractInvertedIndex),
		Venue:         w.PrimaryLocation.Source.DisplayName,
		DOI:           NormalizeDOI(w.DOI),
		CitationCount: w.CitedByCount,
		SourceKind:    kind,
		EvidenceTier:  2,
	}
	if w.DOI != "" {
		r.URL = w.DOI
	} else {
		r.URL = w.ID
	}
	if w.OpenAccess.OAURL != "" {
		r.PDFURL = w.OpenAccess.OAURL
	}
	for _, a := range w.Authorships {
		if a.Author.DisplayName != "" {
			r.Authors = append(r.Authors, a.Author.DisplayName)
		}
	}
	if w.PublicationDate != "" {
		r.PublishedDate = parseDate(w.PublicationDate)
	} else if w.PublicationYear > 0 {
		r.PublishedDate = time.Date(w.PublicationYear, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	r.RelevanceScore = relevance.Score(r.Title, r.Abstract)
	return r
}

// openAlexShortID strips the https://openalex.org/ prefix from an entity ID.
func openAlexShortID(id string) string {
	return strings.TrimPrefix(id, "https://openalex.org/")
}

// OpenAlex API JSON structures.
type openAlexResponse struct {
	Results []openAlexWork `json:"results"`
}

type openAlexWork struct {
	ID                    string               `json:"id"`
	Title                 string               `json:"title"`
	DOI                   string               `json:"doi"`
	PublicationDate       string               `json:"publication_date"`
	PublicationYear       int                  `json:"publication_year"`
	CitedByCount          int                  `json:"cited_by_count"`
	Authorships           []openAlexAuthorship `json:"authorships"`
	AbstractInvertedIndex map[string][]int     `json:"abstract_inverted_index"`
	PrimaryLocation       openAlexLocation     `json:"primary_location"`
	OpenAccess            openAlexOpenAccess   `json:"open_access"`
}

type openAlexAuthorship struct {
	Author openAlexAuthor `json:"author"`
}

type openAlexAuthor struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type openAlexLocation struct {
	Source openAlexVenue `json:"source"`
}

type openAlexVenue struct {
	DisplayName string `json:"display_name"`
}

type openAlexOpenAccess struct {
	IsOA  bool   `json:"is_oa"`
	OAURL string `json:"oa_url"`
}
