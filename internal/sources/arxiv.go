// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/laborwatch/internal/relevance"
	"github.com/pdiddy/laborwatch/pkg/types"
)

// arxivBase is the arXiv Atom query endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivBase = "https://export.arxiv.org/api/query"

// arxivQueries restricts searches to economics/computation categories so
// physics preprints mentioning "labor" do not flood the results.
var arxivQueries = []string{
	`(cat:econ.GN OR cat:cs.CY) AND all:"labor market" AND all:artificial intelligence`,
	`(cat:econ.GN OR cat:cs.CY) AND all:"job displacement"`,
	`cat:econ.GN AND all:automation AND all:employment`,
	`cat:cs.CY AND all:"large language models" AND all:workers`,
}

// Arxiv queries the arXiv API. arXiv asks for a three-second gap between
// requests, which the limiter enforces across the sequential query set.
type Arxiv struct {
	client    *http.Client
	userAgent string
	limiter   *rate.Limiter
}

func NewArxiv(cfg types.DiscoveryConfig) *Arxiv {
	return &Arxiv{
		client:    newHTTPClient(cfg.HTTPConfig),
		userAgent: cfg.UserAgent,
		limiter:   rate.NewLimiter(rate.Every(3*time.Second), 1),
	}
}

func (s *Arxiv) Name() string           { return "arxiv" }
func (s *Arxiv) Kind() types.SourceKind { return types.SourceArxiv }
func (s *Arxiv) Enabled() bool          { return true }

func (s *Arxiv) Discover(ctx context.Context, limit int) ([]types.ResearchItem, error) {
	if limit <= 0 {
		limit = 20
	}

	seen := make(map[string]bool)
	var items []types.ResearchItem
	for _, q := range arxivQueries {
		if len(items) >= limit {
			break
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return items, err
		}

		entries, err := s.search(ctx, q, limit)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			id := extractArxivID(e.ID)
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			items = append(items, normalizeArxivEntry(id, e))
			if len(items) >= limit {
				break
			}
		}
	}
	return items, nil
}

func (s *Arxiv) search(ctx context.Context, query string, limit int) ([]arxivEntry, error) {
	params := url.Values{
		"search_query": {query},
		"start":        {"0"},
		"max_results":  {fmt.Sprintf("%d", limit)},
		"sortBy":       {"submittedDate"},
		"sortOrder":    {"descending"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, arxivBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arXiv request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv feed: %w", err)
	}
	return feed.Entries, nil
}

func normalizeArxivEntry(id string, e arxivEntry) types.ResearchItem {
	r := types.ResearchItem{
		ID:           itemID(types.SourceArxiv, id),
		Title:        strings.Join(strings.Fields(e.Title), " "),
		Abstract:     strings.Join(strings.Fields(e.Summary), " "),
		Venue:        "arXiv",
		URL:          "https://arxiv.org/abs/" + id,
		PDFURL:       "https://arxiv.org/pdf/" + id,
		SourceKind:   types.SourceArxiv,
		EvidenceTier: 2,
	}
	if e.DOI != "" {
		r.DOI = NormalizeDOI(e.DOI)
	}
	for _, a := range e.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			r.Authors = append(r.Authors, name)
		}
	}
	if t, err := time.Parse(time.RFC3339, e.Published); err == nil {
		r.PublishedDate = t
	}
	r.RelevanceScore = relevance.Score(r.Title, r.Abstract)
	return r
}

// arXiv Atom feed structures, parsed with encoding/xml rather than string
// slicing; CDATA and missing optional fields are handled by the decoder.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	DOI       string        `xml:"doi"`
	Authors   []arxivAuthor `xml:"author"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

// extractArxivID pulls the bare ID from an entry URL
// (e.g. "http://arxiv.org/abs/2301.07041v2" -> "2301.07041").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := idURL[idx+len(prefix):]
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}
