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

// mastodonDefaultInstance is used when no instance is configured. Tag
// timelines on mastodon.social are public and need no token.
const mastodonDefaultInstance = "https://mastodon.social"

var mastodonTags = []string{
	"AIJobs",
	"automation",
	"FutureOfWork",
}

// mastodonTitleLen caps the post excerpt used as a title.
const mastodonTitleLen = 120

// Mastodon reads public hashtag timelines. Posts carry no title, so a
// truncated excerpt of the stripped content stands in.
type Mastodon struct {
	client    *http.Client
	instance  string
	userAgent string
	limiter   *rate.Limiter
}

func NewMastodon(cfg types.DiscoveryConfig) *Mastodon {
	instance := cfg.MastodonInstance
	if instance == "" {
		instance = mastodonDefaultInstance
	}
	return &Mastodon{
		client:    newHTTPClient(cfg.HTTPConfig),
		instance:  strings.TrimRight(instance, "/"),
		userAgent: cfg.UserAgent,
		limiter:   rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

func (s *Mastodon) Name() string           { return "mastodon" }
func (s *Mastodon) Kind() types.SourceKind { return types.SourceMastodon }
func (s *Mastodon) Enabled() bool          { return true }

func (s *Mastodon) Discover(ctx context.Context, limit int) ([]types.ResearchItem, error) {
	if limit <= 0 {
		limit = 20
	}

	seen := make(map[string]bool)
	var items []types.ResearchItem
	for _, tag := range mastodonTags {
		if len(items) >= limit {
			break
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return items, err
		}

		statuses, err := s.tagTimeline(ctx, tag, limit)
		if err != nil {
			return nil, err
		}
		for _, st := range statuses {
			if st.ID == "" || seen[st.ID] {
				continue
			}
			seen[st.ID] = true
			items = append(items, normalizeMastodonStatus(st))
			if len(items) >= limit {
				break
			}
		}
	}
	return items, nil
}

func (s *Mastodon) tagTimeline(ctx context.Context, tag string, limit int) ([]mastodonStatus, error) {
	params := url.Values{
		"limit": {fmt.Sprintf("%d", limit)},
	}
	reqURL := s.instance + "/api/v1/timelines/tag/" + url.PathEscape(tag) + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Mastodon request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Mastodon returned HTTP %d", resp.StatusCode)
	}

	var statuses []mastodonStatus
	if err := json.NewDecoder(resp.Body).Decode(&statuses); err != nil {
		return nil, fmt.Errorf("parsing Mastodon response: %w", err)
	}
	return statuses, nil
}

func normalizeMastodonStatus(st mastodonStatus) types.ResearchItem {
	content := stripHTML(st.Content)
	title := content
	if len(title) > mastodonTitleLen {
		title = strings.TrimSpace(title[:mastodonTitleLen]) + "..."
	}
	r := types.ResearchItem{
		ID:            itemID(types.SourceMastodon, st.ID),
		Title:         title,
		Abstract:      content,
		Venue:         "Mastodon",
		URL:           st.URL,
		CitationCount: st.FavouritesCount + st.ReblogsCount,
		SourceKind:    types.SourceMastodon,
		EvidenceTier:  4,
	}
	if st.Account.Acct != "" {
		r.Authors = append(r.Authors, st.Account.Acct)
	}
	if st.CreatedAt != "" {
		r.PublishedDate = parseDate(st.CreatedAt)
	}
	r.RelevanceScore = relevance.Score(r.Title, r.Abstract)
	return r
}

// Mastodon API JSON structures.
type mastodonStatus struct {
	ID              string          `json:"id"`
	URL             string          `json:"url"`
	Content         string          `json:"content"`
	CreatedAt       string          `json:"created_at"`
	FavouritesCount int             `json:"favourites_count"`
	ReblogsCount    int             `json:"reblogs_count"`
	Account         mastodonAccount `json:"account"`
}

type mastodonAccount struct {
	Acct string `json:"acct"`
}
