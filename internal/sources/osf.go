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

// osfBase is the OSF preprint search endpoint. Declared as a var so tests
// can substitute an httptest server.
var osfBase = "https://api.osf.io/v2/preprints/"

// OSF queries the Open Science Framework preprint index, which covers
// SocArXiv and the other social-science preprint services.
type OSF struct {
	client    *http.Client
	userAgent string
	limiter   *rate.Limiter
}

func NewOSF(cfg types.DiscoveryConfig) *OSF {
	return &OSF{
		client:    newHTTPClient(cfg.HTTPConfig),
		userAgent: cfg.UserAgent,
		limiter:   rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

func (s *OSF) Name() string           { return "osf" }
func (s *OSF) Kind() types.SourceKind { return types.SourceOSF }
func (s *OSF) Enabled() bool          { return true }

func (s *OSF) Discover(ctx context.Context, limit int) ([]types.ResearchItem, error) {
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

		preprints, err := s.search(ctx, q, limit)
		if err != nil {
			return nil, err
		}
		for _, p := range preprints {
			if p.ID == "" || seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			items = append(items, normalizeOSFPreprint(p))
			if len(items) >= limit {
				break
			}
		}
	}
	return items, nil
}

func (s *OSF) search(ctx context.Context, query string, limit int) ([]osfPreprint, error) {
	params := url.Values{
		"filter[title]": {query},
		"page[size]":    {fmt.Sprintf("%d", limit)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, osfBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("OSF request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OSF returned HTTP %d", resp.StatusCode)
	}

	var or osfResponse
	if err := json.NewDecoder(resp.Body).Decode(&or); err != nil {
		return nil, fmt.Errorf("parsing OSF response: %w", err)
	}
	return or.Data, nil
}

func normalizeOSFPreprint(p osfPreprint) types.ResearchItem {
	r := types.ResearchItem{
		ID:           itemID(types.SourceOSF, p.ID),
		Title:        p.Attributes.Title,
		Abstract:     stripHTML(p.Attributes.Description),
		Venue:        "OSF Preprints",
		URL:          p.Links.HTML,
		DOI:          NormalizeDOI(p.Links.PreprintDOI),
		SourceKind:   types.SourceOSF,
		EvidenceTier: 2,
	}
	if p.Attributes.DatePublished != "" {
		r.PublishedDate = parseDate(p.Attributes.DatePublished)
	}
	r.RelevanceScore = relevance.Score(r.Title, r.Abstract)
	return r
}

// OSF API JSON structures (JSON:API envelope).
type osfResponse struct {
	Data []osfPreprint `json:"data"`
}

type osfPreprint struct {
	ID         string        `json:"id"`
	Attributes osfAttributes `json:"attributes"`
	Links      osfLinks      `json:"links"`
}

type osfAttributes struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	DatePublished string `json:"date_published"`
}

type osfLinks struct {
	HTML        string `json:"html"`
	PreprintDOI string `json:"preprint_doi"`
}
