// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMastodonTagTimelineNormalization(t *testing.T) {
	var capturedPath string
	body := `[
		{
			"id": "111222333",
			"url": "https://mastodon.social/@econ/111222333",
			"content": "<p>New BLS data shows <b>AI exposure</b> correlates with slower hiring.</p>",
			"created_at": "2026-02-18T14:00:00Z",
			"favourites_count": 20,
			"reblogs_count": 5,
			"account": {"acct": "econ@mastodon.social"}
		}
	]`
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	defer ts.Close()

	cfg := testDiscoveryCfg()
	cfg.MastodonInstance = ts.URL
	s := NewMastodon(cfg)
	items, err := s.Discover(context.Background(), 1)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}

	if !strings.HasPrefix(capturedPath, "/api/v1/timelines/tag/") {
		t.Errorf("path = %q, want tag timeline", capturedPath)
	}

	got := items[0]
	if got.CitationCount != 25 {
		t.Errorf("CitationCount = %d, want favourites+reblogs = 25", got.CitationCount)
	}
	if strings.Contains(got.Abstract, "<") {
		t.Errorf("Abstract = %q, markup not stripped", got.Abstract)
	}
	if len(got.Authors) != 1 || got.Authors[0] != "econ@mastodon.social" {
		t.Errorf("Authors = %v", got.Authors)
	}
	if got.EvidenceTier != 4 {
		t.Errorf("EvidenceTier = %d, want 4", got.EvidenceTier)
	}
}

func TestMastodonDefaultInstance(t *testing.T) {
	s := NewMastodon(testDiscoveryCfg())
	if s.instance != mastodonDefaultInstance {
		t.Errorf("instance = %q, want %q", s.instance, mastodonDefaultInstance)
	}
}

func TestNormalizeMastodonStatusTruncatesTitle(t *testing.T) {
	st := mastodonStatus{
		ID:      "1",
		Content: "<p>" + strings.Repeat("workforce automation ", 12) + "</p>",
	}
	got := normalizeMastodonStatus(st)
	if len(got.Title) > mastodonTitleLen+3 {
		t.Errorf("len(Title) = %d, want at most %d plus ellipsis", len(got.Title), mastodonTitleLen)
	}
	if !strings.HasSuffix(got.Title, "...") {
		t.Errorf("Title = %q, want ellipsis suffix", got.Title)
	}
}
