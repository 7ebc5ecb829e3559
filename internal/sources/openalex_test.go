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

const openAlexTestWork = `{
	"id": "https://openalex.org/W123",
	"title": "Generative AI and labor market exposure",
	"doi": "https://doi.org/10.5000/OA.1",
	"publication_date": "2026-02-10",
	"cited_by_count": 42,
	"authorships": [
		{"author": {"id": "https://openalex.org/A5001", "display_name": "Grace Hopper"}}
	],
	"abstract_inverted_index": {"AI": [0], "shifts": [1], "employment": [2]},
	"primary_location": {"source": {"display_name": "Journal of Labor Economics"}},
	"open_access": {"is_oa": true, "oa_url": "https://example.org/w123.pdf"}
}`

func TestOpenAlexDiscoverNormalization(t *testing.T) {
	var capturedReq *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedReq = r
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"results":[%s]}`, openAlexTestWork)
	}))
	defer ts.Close()

	old := openAlexBase
	openAlexBase = ts.URL
	defer func() { openAlexBase = old }()

	cfg := testDiscoveryCfg()
	cfg.OpenAlexEmail = "ops@example.org"
	s := NewOpenAlex(cfg)
	items, err := s.Discover(context.Background(), 1)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}

	if got := capturedReq.URL.Query().Get("mailto"); got != "ops@example.org" {
		t.Errorf("mailto param = %q", got)
	}

	got := items[0]
	if got.ID != "openalex-W123" {
		t.Errorf("ID = %q, want %q", got.ID, "openalex-W123")
	}
	if got.Abstract != "AI shifts employment" {
		t.Errorf("Abstract = %q, inverted index not reconstructed", got.Abstract)
	}
	if got.DOI != "10.5000/oa.1" {
		t.Errorf("DOI = %q, want %q", got.DOI, "10.5000/oa.1")
	}
	if got.Venue != "Journal of Labor Economics" {
		t.Errorf("Venue = %q", got.Venue)
	}
	if got.CitationCount != 42 {
		t.Errorf("CitationCount = %d, want 42", got.CitationCount)
	}
	if got.PDFURL != "https://example.org/w123.pdf" {
		t.Errorf("PDFURL = %q", got.PDFURL)
	}
	if got.URL != "https://doi.org/10.5000/OA.1" {
		t.Errorf("URL = %q, want the DOI link", got.URL)
	}
}

func TestOpenAlexHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	old := openAlexBase
	openAlexBase = ts.URL
	defer func() { openAlexBase = old }()

	s := NewOpenAlex(testDiscoveryCfg())
	_, err := s.Discover(context.Background(), 5)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "HTTP 403") {
		t.Errorf("error = %q, want HTTP 403", err.Error())
	}
}

func TestOpenAlexShortID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://openalex.org/W42", "W42"},
		{"W42", "W42"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := openAlexShortID(tt.in); got != tt.want {
			t.Errorf("openAlexShortID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
