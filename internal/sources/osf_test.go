// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOSFDiscoverNormalization(t *testing.T) {
	var capturedReq *http.Request
	body := `{"data":[
		{"id":"ab12c","attributes":{"title":"Generative AI and white-collar employment","description":"<p>We study automation exposure across occupations.</p>","date_published":"2026-02-20T00:00:00Z"},"links":{"html":"https://osf.io/ab12c/","preprint_doi":"https://doi.org/10.31235/osf.io/ab12c"}}
	]}`
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedReq = r
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	defer ts.Close()

	old := osfBase
	osfBase = ts.URL
	defer func() { osfBase = old }()

	s := NewOSF(testDiscoveryCfg())
	items, err := s.Discover(context.Background(), 1)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}

	if q := capturedReq.URL.Query(); q.Get("filter[title]") == "" {
		t.Errorf("filter[title] missing, params = %v", q)
	}

	got := items[0]
	if got.ID != "osf-ab12c" {
		t.Errorf("ID = %q", got.ID)
	}
	if got.DOI != "10.31235/osf.io/ab12c" {
		t.Errorf("DOI = %q, resolver prefix not stripped", got.DOI)
	}
	if got.Abstract != "We study automation exposure across occupations." {
		t.Errorf("Abstract = %q, markup not stripped", got.Abstract)
	}
	if got.Venue != "OSF Preprints" {
		t.Errorf("Venue = %q", got.Venue)
	}
	if got.EvidenceTier != 2 {
		t.Errorf("EvidenceTier = %d, want 2", got.EvidenceTier)
	}
}
