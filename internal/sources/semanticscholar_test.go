// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// semanticTestBody returns a response with n unique papers so Discover
// fills its limit from the first query and never hits the rate limiter.
func semanticTestBody(n int) string {
	var papers []string
	for i := 0; i < n; i++ {
		papers = append(papers, fmt.Sprintf(
			`{"paperId":"p%d","title":"AI and the labor market %d","abstract":"Employment effects of automation.","venue":"NBER Working Papers","citationCount":%d,"authors":[{"authorId":"1","name":"Ada Lovelace"}],"externalIds":{"DOI":"10.1000/Test.%d"}}`,
			i, i, i*10, i,
		))
	}
	return fmt.Sprintf(`{"total":%d,"data":[%s]}`, n, strings.Join(papers, ","))
}

func TestSemanticScholarRequestParams(t *testing.T) {
	var capturedReq *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedReq = r
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, semanticTestBody(3))
	}))
	defer ts.Close()

	old := semanticScholarBase
	semanticScholarBase = ts.URL
	defer func() { semanticScholarBase = old }()

	s := NewSemanticScholar(testDiscoveryCfg())
	if _, err := s.Discover(context.Background(), 3); err != nil {
		t.Fatalf("Discover: %v", err)
	}

	q := capturedReq.URL.Query()
	if got := q.Get("limit"); got != "3" {
		t.Errorf("limit param = %q, want %q", got, "3")
	}
	fields := q.Get("fields")
	for _, f := range []string{"title", "abstract", "citationCount", "externalIds", "publicationDate"} {
		if !strings.Contains(fields, f) {
			t.Errorf("fields param %q missing %q", fields, f)
		}
	}
	if got := capturedReq.Header.Get("User-Agent"); got != "laborwatch-test/0.0" {
		t.Errorf("User-Agent = %q", got)
	}
}

func TestSemanticScholarAPIKeyHeader(t *testing.T) {
	tests := []struct {
		name   string
		apiKey string
	}{
		{"with key", "test-key-123"},
		{"without key", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var capturedReq *http.Request
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				capturedReq = r
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, semanticTestBody(2))
			}))
			defer ts.Close()

			old := semanticScholarBase
			semanticScholarBase = ts.URL
			defer func() { semanticScholarBase = old }()

			cfg := testDiscoveryCfg()
			cfg.SemanticScholarAPIKey = tt.apiKey
			s := NewSemanticScholar(cfg)
			if _, err := s.Discover(context.Background(), 2); err != nil {
				t.Fatalf("Discover: %v", err)
			}

			if got := capturedReq.Header.Get("x-api-key"); got != tt.apiKey {
				t.Errorf("x-api-key header = %q, want %q", got, tt.apiKey)
			}
		})
	}
}

func TestSemanticScholarNormalization(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, semanticTestBody(1))
	}))
	defer ts.Close()

	old := semanticScholarBase
	semanticScholarBase = ts.URL
	defer func() { semanticScholarBase = old }()

	s := NewSemanticScholar(testDiscoveryCfg())
	items, err := s.Discover(context.Background(), 1)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}

	got := items[0]
	if got.ID != "semantic-scholar-p0" {
		t.Errorf("ID = %q, want %q", got.ID, "semantic-scholar-p0")
	}
	if got.DOI != "10.1000/test.0" {
		t.Errorf("DOI = %q, want lowercased %q", got.DOI, "10.1000/test.0")
	}
	if got.EvidenceTier != 2 {
		t.Errorf("EvidenceTier = %d, want 2", got.EvidenceTier)
	}
	if len(got.Authors) != 1 || got.Authors[0] != "Ada Lovelace" {
		t.Errorf("Authors = %v", got.Authors)
	}
	if got.RelevanceScore == 0 {
		t.Error("RelevanceScore = 0 for an on-topic paper")
	}
}

func TestNormalizeSemanticPaperYearFallback(t *testing.T) {
	p := semanticPaper{PaperID: "p1", Title: "T", Year: 2024}
	got := normalizeSemanticPaper(p)
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !got.PublishedDate.Equal(want) {
		t.Errorf("PublishedDate = %v, want %v", got.PublishedDate, want)
	}
}

func TestSemanticScholarHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	old := semanticScholarBase
	semanticScholarBase = ts.URL
	defer func() { semanticScholarBase = old }()

	s := NewSemanticScholar(testDiscoveryCfg())
	_, err := s.Discover(context.Background(), 5)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "HTTP 500") {
		t.Errorf("error = %q, want HTTP 500", err.Error())
	}
}

func TestSemanticScholarMalformedJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{invalid`)
	}))
	defer ts.Close()

	old := semanticScholarBase
	semanticScholarBase = ts.URL
	defer func() { semanticScholarBase = old }()

	s := NewSemanticScholar(testDiscoveryCfg())
	_, err := s.Discover(context.Background(), 5)
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	if !strings.Contains(err.Error(), "parsing") {
		t.Errorf("error = %q, want substring 'parsing'", err.Error())
	}
}
