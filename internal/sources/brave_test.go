// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBraveDisabledWithoutKey(t *testing.T) {
	if NewBrave(testDiscoveryCfg()).Enabled() {
		t.Error("adapter enabled without a subscription token")
	}
}

func TestBraveDiscoverNormalization(t *testing.T) {
	var capturedReq *http.Request
	body := `{"web":{"results":[
		{"title":"New study: AI exposure and hiring trends","url":"https://example.org/ai-hiring-study","description":"Researchers find <strong>employment</strong> shifts in exposed roles.","page_age":"2026-05-10T08:00:00Z"}
	]}}`
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedReq = r
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	defer ts.Close()

	old := braveBase
	braveBase = ts.URL
	defer func() { braveBase = old }()

	cfg := testDiscoveryCfg()
	cfg.BraveAPIKey = "brave-token"
	s := NewBrave(cfg)

	items, err := s.Discover(context.Background(), 1)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}

	if tok := capturedReq.Header.Get("X-Subscription-Token"); tok != "brave-token" {
		t.Errorf("X-Subscription-Token = %q", tok)
	}

	got := items[0]
	if got.URL != "https://example.org/ai-hiring-study" {
		t.Errorf("URL = %q", got.URL)
	}
	if got.Abstract != "Researchers find employment shifts in exposed roles." {
		t.Errorf("Abstract = %q, markup not stripped", got.Abstract)
	}
	if got.EvidenceTier != 4 {
		t.Errorf("EvidenceTier = %d, want 4", got.EvidenceTier)
	}
	if got.PublishedDate.Year() != 2026 {
		t.Errorf("PublishedDate = %v", got.PublishedDate)
	}
}

func TestBraveCountCappedAtTwenty(t *testing.T) {
	var capturedCount string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedCount = r.URL.Query().Get("count")
		fmt.Fprint(w, `{"web":{"results":[]}}`)
	}))
	defer ts.Close()

	old := braveBase
	braveBase = ts.URL
	defer func() { braveBase = old }()

	cfg := testDiscoveryCfg()
	cfg.BraveAPIKey = "brave-token"
	s := NewBrave(cfg)

	if _, err := s.search(context.Background(), "AI labor", 50); err != nil {
		t.Fatalf("search: %v", err)
	}
	if capturedCount != "20" {
		t.Errorf("count = %q, want capped at 20", capturedCount)
	}
}
