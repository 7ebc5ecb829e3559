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

// federalRegisterBase is the Federal Register documents endpoint. Declared
// as a var so tests can substitute an httptest server.
var federalRegisterBase = "https://www.federalregister.gov/api/v1/documents.json"

// federalRegisterQueries are narrower than the shared topical set because
// the Federal Register full-text search is noisy on generic AI terms.
var federalRegisterQueries = []string{
	"artificial intelligence workforce",
	"automation employment",
	"artificial intelligence labor",
}

// FederalRegister searches US government filings. Always tier 1: these are
// primary government records.
type FederalRegister struct {
	client    *http.Client
	userAgent string
	limiter   *rate.Limiter
}

func NewFederalRegister(cfg types.DiscoveryConfig) *FederalRegister {
	return &FederalRegister{
		client:    newHTTPClient(cfg.HTTPConfig),
		userAgent: cfg.UserAgent,
		limiter:   rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

func (s *FederalRegister) Name() string           { return "federal-register" }
func (s *FederalRegister) Kind() types.SourceKind { return types.SourceFederalRegister }
func (s *FederalRegister) Enabled() bool          { return true }

func (s *FederalRegister) Discover(ctx context.Context, limit int) ([]types.ResearchItem, error) {
	if limit <= 0 {
		limit = 20
	}

	seen := make(map[string]bool)
	var items []types.ResearchItem
	for _, q := range federalRegisterQueries {
		if len(items) >= limit {
			break
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return items, err
		}

		docs, err := s.search(ctx, q, limit)
		if err != nil {
			return nil, err
		}
		for _, d := range docs {
			if d.DocumentNumber == "" || seen[d.DocumentNumber] {
				continue
			}
			seen[d.DocumentNumber] = true
			items = append(items, normalizeFederalRegisterDoc(d))
			if len(items) >= limit {
				break
			}
		}
	}
	return items, nil
}

func (s *FederalRegister) search(ctx context.Context, query string, limit int) ([]federalRegisterDoc, error) {
	params := url.Values{
		"conditions[term]": {query},
		"per_page":         {fmt.Sprintf("%d", limit)},
		"order":            {"newest"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, federalRegisterBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Federal Register request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Federal Register returned HTTP %d", resp.StatusCode)
	}

	var fr federalRegisterResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		return nil, fmt.Errorf("parsing Federal Register response: %w", err)
	}
	return fr.Results, nil
}

func normalizeFederalRegisterDoc(d federalRegisterDoc) types.ResearchItem {
	r := types.ResearchItem{
		ID:           itemID(types.SourceFederalRegister, d.DocumentNumber),
		Title:        d.Title,
		Abstract:     d.Abstract,
		Venue:        "Federal Register",
		URL:          d.HTMLURL,
		PDFURL:       d.PDFURL,
		SourceKind:   types.SourceFederalRegister,
		EvidenceTier: 1,
	}
	if len(d.Agencies) > 0 && d.Agencies[0].Name != "" {
		r.Authors = append(r.Authors, d.Agencies[0].Name)
	}
	if d.PublicationDate != "" {
		r.PublishedDate = parseDate(d.PublicationDate)
	}
	r.RelevanceScore = relevance.Score(r.Title, r.Abstract)
	return r
}

// Federal Register API JSON structures.
type federalRegisterResponse struct {
	Results []federalRegisterDoc `json:"results"`
}

type federalRegisterDoc struct {
	DocumentNumber  string                  `json:"document_number"`
	Title           string                  `json:"title"`
	Abstract        string                  `json:"abstract"`
	PublicationDate string                  `json:"publication_date"`
	HTMLURL         string                  `json:"html_url"`
	PDFURL          string                  `json:"pdf_url"`
	Agencies        []federalRegisterAgency `json:"agencies"`
}

type federalRegisterAgency struct {
	Name string `json:"name"`
}
