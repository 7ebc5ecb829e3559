// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFederalRegisterDiscoverNormalization(t *testing.T) {
	var capturedReq *http.Request
	body := `{"results":[
		{"document_number":"2026-01234","title":"Request for Comment on Artificial Intelligence and Workforce Impacts","abstract":"The Department seeks comment on automation and employment effects.","publication_date":"2026-03-15","html_url":"https://www.federalregister.gov/d/2026-01234","pdf_url":"https://www.govinfo.gov/2026-01234.pdf","agencies":[{"name":"Department of Labor"}]}
	]}`
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedReq = r
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	defer ts.Close()

	old := federalRegisterBase
	federalRegisterBase = ts.URL
	defer func() { federalRegisterBase = old }()

	s := NewFederalRegister(testDiscoveryCfg())
	items, err := s.Discover(context.Background(), 1)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}

	q := capturedReq.URL.Query()
	if q.Get("conditions[term]") == "" {
		t.Errorf("conditions[term] missing, params = %v", q)
	}
	if q.Get("order") != "newest" {
		t.Errorf("order = %q", q.Get("order"))
	}

	got := items[0]
	if got.ID != "federal-register-2026-01234" {
		t.Errorf("ID = %q", got.ID)
	}
	// Government filings are primary records.
	if got.EvidenceTier != 1 {
		t.Errorf("EvidenceTier = %d, want 1", got.EvidenceTier)
	}
	if got.Venue != "Federal Register" {
		t.Errorf("Venue = %q", got.Venue)
	}
	if len(got.Authors) != 1 || got.Authors[0] != "Department of Labor" {
		t.Errorf("Authors = %v", got.Authors)
	}
	if got.PDFURL != "https://www.govinfo.gov/2026-01234.pdf" {
		t.Errorf("PDFURL = %q", got.PDFURL)
	}
	if got.PublishedDate.Year() != 2026 {
		t.Errorf("PublishedDate = %v", got.PublishedDate)
	}
}

func TestFederalRegisterDiscoverMalformedResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "<html>maintenance</html>")
	}))
	defer ts.Close()

	old := federalRegisterBase
	federalRegisterBase = ts.URL
	defer func() { federalRegisterBase = old }()

	s := NewFederalRegister(testDiscoveryCfg())
	if _, err := s.Discover(context.Background(), 1); err == nil {
		t.Error("expected error for malformed response")
	}
}
