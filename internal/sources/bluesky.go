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

// blueskyBase is the public AppView search endpoint, which needs no
// authentication. Declared as a var so tests can substitute an httptest
// server.
var blueskyBase = "https://public.api.bsky.app/xrpc/app.bsky.feed.searchPosts"

var blueskyQueries = []string{
	"AI jobs",
	"AI layoffs",
	"automation workforce",
}

// blueskyTitleLen caps the post excerpt used as a title.
const blueskyTitleLen = 120

// Bluesky searches public posts via the AppView. Likes plus reposts stand
// in for engagement in ranking.
type Bluesky struct {
	client    *http.Client
	userAgent string
	limiter   *rate.Limiter
}

func NewBluesky(cfg types.DiscoveryConfig) *Bluesky {
	return &Bluesky{
		client:    newHTTPClient(cfg.HTTPConfig),
		userAgent: cfg.UserAgent,
		limiter:   rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

func (s *Bluesky) Name() string           { return "bluesky" }
func (s *Bluesky) Kind() types.SourceKind { return types.SourceBluesky }
func (s *Bluesky) Enabled() bool          { return true }

func (s *Bluesky) Discover(ctx context.Context, limit int) ([]types.ResearchItem, error) {
	if limit <= 0 {
		limit = 20
	}

	seen := make(map[string]bool)
	var items []types.ResearchItem
	for _, q := range blueskyQueries {
		if len(items) >= limit {
			break
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return items, err
		}

		posts, err := s.search(ctx, q, limit)
		if err != nil {
			return nil, err
		}
		for _, p := range posts {
			if p.URI == "" || seen[p.URI] {
				continue
			}
			seen[p.URI] = true
			items = append(items, normalizeBlueskyPost(p))
			if len(items) >= limit {
				break
			}
		}
	}
	return items, nil
}

func (s *Bluesky) search(ctx context.Context, query string, limit int) ([]blueskyPost, error) {
	params := url.Values{
		"q":     {query},
		"limit": {fmt.Sprintf("%d", limit)},
		"sort":  {"top"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, blueskyBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Bluesky request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Bluesky returned HTTP %d", resp.StatusCode)
	}

	var br blueskyResponse
	if err := json.NewDecoder(resp.Body).Decode(&br); err != nil {
		return nil, fmt.Errorf("parsing Bluesky response: %w", err)
	}
	return br.Posts, nil
}

// blueskyWebURL builds the bsky.app permalink from an AT URI of the form
// at://did:plc:xyz/app.bsky.feed.post/rkey.
func blueskyWebURL(uri, handle string) string {
	parts := strings.Split(uri, "/")
	if len(parts) == 0 {
		return ""
	}
	rkey := parts[len(parts)-1]
	if handle == "" || rkey == "" {
		return ""
	}
	return "https://bsky.app/profile/" + handle + "/post/" + rkey
}

func normalizeBlueskyPost(p blueskyPost) types.ResearchItem {
	text := p.Record.Text
	title := text
	if len(title) > blueskyTitleLen {
		title = strings.TrimSpace(title[:blueskyTitleLen]) + "..."
	}
	r := types.ResearchItem{
		ID:            itemID(types.SourceBluesky, p.URI),
		Title:         title,
		Abstract:      text,
		Venue:         "Bluesky",
		URL:           blueskyWebURL(p.URI, p.Author.Handle),
		CitationCount: p.LikeCount + p.RepostCount,
		SourceKind:    types.SourceBluesky,
		EvidenceTier:  4,
	}
	if p.Author.Handle != "" {
		r.Authors = append(r.Authors, p.Author.Handle)
	}
	if p.Record.CreatedAt != "" {
		r.PublishedDate = parseDate(p.Record.CreatedAt)
	}
	r.RelevanceScore = relevance.Score(r.Title, r.Abstract)
	return r
}

// Bluesky AppView JSON structures.
type blueskyResponse struct {
	Posts []blueskyPost `json:"posts"`
}

type blueskyPost struct {
	URI         string        `json:"uri"`
	Author      blueskyAuthor `json:"author"`
	Record      blueskyRecord `json:"record"`
	LikeCount   int           `json:"likeCount"`
	RepostCount int           `json:"repostCount"`
}

type blueskyAuthor struct {
	Handle string `json:"handle"`
}

type blueskyRecord struct {
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}
