// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRedditDiscoverNormalization(t *testing.T) {
	var capturedReq *http.Request
	body := `{"data":{"children":[
		{"data":{"id":"abc123","title":"AI took over half our support team's work","selftext":"We automated ticket triage.","permalink":"/r/jobs/comments/abc123/ai_took_over/","subreddit":"jobs","author":"throwaway42","score":57,"created_utc":1767225600}}
	]}}`
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedReq = r
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	defer ts.Close()

	old := redditBase
	redditBase = ts.URL
	defer func() { redditBase = old }()

	s := NewReddit(testDiscoveryCfg())
	items, err := s.Discover(context.Background(), 1)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}

	q := capturedReq.URL.Query()
	if q.Get("sort") != "relevance" || q.Get("t") != "month" {
		t.Errorf("params = %v", q)
	}
	if ua := capturedReq.Header.Get("User-Agent"); ua != testDiscoveryCfg().UserAgent {
		t.Errorf("User-Agent = %q", ua)
	}

	got := items[0]
	if got.ID != "reddit-abc123" {
		t.Errorf("ID = %q", got.ID)
	}
	if got.URL != "https://www.reddit.com/r/jobs/comments/abc123/ai_took_over/" {
		t.Errorf("URL = %q", got.URL)
	}
	if got.Venue != "r/jobs" {
		t.Errorf("Venue = %q", got.Venue)
	}
	if got.CitationCount != 57 {
		t.Errorf("CitationCount = %d, score not carried as engagement", got.CitationCount)
	}
	if got.EvidenceTier != 4 {
		t.Errorf("EvidenceTier = %d, want 4", got.EvidenceTier)
	}
	if got.PublishedDate.IsZero() || got.PublishedDate.Year() != time.Unix(1767225600, 0).UTC().Year() {
		t.Errorf("PublishedDate = %v", got.PublishedDate)
	}
}

func TestRedditDiscoverHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	old := redditBase
	redditBase = ts.URL
	defer func() { redditBase = old }()

	s := NewReddit(testDiscoveryCfg())
	if _, err := s.Discover(context.Background(), 1); err == nil {
		t.Error("expected error for HTTP 429")
	}
}
