// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pdiddy/laborwatch/pkg/types"
)

func adzunaTestCfg() types.DiscoveryConfig {
	cfg := testDiscoveryCfg()
	cfg.AdzunaAppID = "app-id"
	cfg.AdzunaAppKey = "app-key"
	return cfg
}

func TestAdzunaDisabledWithoutCredentials(t *testing.T) {
	if NewAdzuna(testDiscoveryCfg()).Enabled() {
		t.Error("adapter enabled without app ID and key")
	}

	partial := testDiscoveryCfg()
	partial.AdzunaAppID = "app-id"
	if NewAdzuna(partial).Enabled() {
		t.Error("adapter enabled with app ID but no key")
	}

	if !NewAdzuna(adzunaTestCfg()).Enabled() {
		t.Error("adapter disabled with full credentials")
	}
}

func TestAdzunaDiscoverNormalization(t *testing.T) {
	var capturedReq *http.Request
	body := `{"results":[
		{"id":"990001","title":"Operations Analyst (AI workflow transition)","description":"<p>Help migrate manual workflows to automation.</p>","redirect_url":"https://adzuna.example/job/990001","created":"2026-04-01T09:00:00Z","company":{"display_name":"Acme Logistics"}}
	]}`
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedReq = r
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	defer ts.Close()

	old := adzunaBase
	adzunaBase = ts.URL
	defer func() { adzunaBase = old }()

	s := NewAdzuna(adzunaTestCfg())
	items, err := s.Discover(context.Background(), 1)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}

	q := capturedReq.URL.Query()
	if q.Get("app_id") != "app-id" || q.Get("app_key") != "app-key" {
		t.Errorf("credentials missing from query, params = %v", q)
	}

	got := items[0]
	if got.ID != "adzuna-990001" {
		t.Errorf("ID = %q", got.ID)
	}
	if got.Venue != "Acme Logistics" {
		t.Errorf("Venue = %q", got.Venue)
	}
	if got.Abstract != "Help migrate manual workflows to automation." {
		t.Errorf("Abstract = %q, markup not stripped", got.Abstract)
	}
	// Job postings are direct labor-market evidence.
	if got.EvidenceTier != 2 {
		t.Errorf("EvidenceTier = %d, want 2", got.EvidenceTier)
	}
}
