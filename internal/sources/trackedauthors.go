// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/laborwatch/pkg/types"
)

// TrackedAuthors surfaces new work from a fixed roster of named researchers
// via the OpenAlex Works endpoint, regardless of keyword match. Items carry
// the tracked-author flag, which earns a flat ranking bonus and bypasses the
// organic relevance floor.
type TrackedAuthors struct {
	client    *http.Client
	email     string
	userAgent string
	roster    []types.TrackedAuthor
	lookback  time.Duration
	limiter   *rate.Limiter
}

// NewTrackedAuthors builds the adapter. The roster is externally supplied,
// read-only reference data.
func NewTrackedAuthors(cfg types.DiscoveryConfig, roster []types.TrackedAuthor) *TrackedAuthors {
	return &TrackedAuthors{
		client:    newHTTPClient(cfg.HTTPConfig),
		email:     cfg.OpenAlexEmail,
		userAgent: cfg.UserAgent,
		roster:    roster,
		lookback:  180 * 24 * time.Hour,
		limiter:   rate.NewLimiter(rate.Every(200*time.Millisecond), 1),
	}
}

func (s *TrackedAuthors) Name() string           { return "tracked-authors" }
func (s *TrackedAuthors) Kind() types.SourceKind { return types.SourceTrackedAuthors }
func (s *TrackedAuthors) Enabled() bool          { return len(s.roster) > 0 }

// Discover fetches each roster author's recent works sequentially. One
// author's failure skips that author only; the roster is small enough that
// partial coverage beats aborting the whole adapter.
func (s *TrackedAuthors) Discover(ctx context.Context, limit int) ([]types.ResearchItem, error) {
	if limit <= 0 {
		limit = 20
	}
	perAuthor := 5
	since := time.Now().Add(-s.lookback).Format("2006-01-02")

	var items []types.ResearchItem
	var lastErr error
	failures := 0
	for _, author := range s.roster {
		if len(items) >= limit {
			break
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return items, err
		}

		params := url.Values{
			"filter":   {fmt.Sprintf("author.id:%s,from_publication_date:%s", author.OpenAlexID, since)},
			"sort":     {"publication_date:desc"},
			"per_page": {fmt.Sprintf("%d", perAuthor)},
		}
		if s.email != "" {
			params.Set("mailto", s.email)
		}

		works, err := fetchOpenAlexWorks(ctx, s.client, s.userAgent, openAlexBase+"?"+params.Encode())
		if err != nil {
			failures++
			lastErr = fmt.Errorf("author %s: %w", author.Name, err)
			continue
		}

		for _, w := range works {
			r := normalizeOpenAlexWork(w, types.SourceTrackedAuthors)
			r.IsTrackedAuthor = true
			r.TrackedAuthorName = author.Name
			items = append(items, r)
			if len(items) >= limit {
				break
			}
		}
	}

	if failures == len(s.roster) && lastErr != nil {
		return nil, lastErr
	}
	return items, nil
}
