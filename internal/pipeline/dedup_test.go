// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"reflect"
	"testing"

	"github.com/pdiddy/laborwatch/pkg/types"
)

func TestTitleKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lower and strip", "AI & the Labor Market!", "aithelabormarket"},
		{"digits kept", "GPT-4 effects", "gpt4effects"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := titleKey(tt.in); got != tt.want {
				t.Errorf("titleKey(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTitleKeyTruncatesSubtitleVariation(t *testing.T) {
	base := "Artificial intelligence and the future of work in the United States"
	a := titleKey(base + ": evidence from firm-level data")
	b := titleKey(base + " - a replication study")
	if a != b {
		t.Errorf("subtitle variation produced distinct keys %q vs %q", a, b)
	}
	if len(a) != titleKeyLen {
		t.Errorf("len(key) = %d, want %d", len(a), titleKeyLen)
	}
}

func TestDedupDOIHighestCitationsSurvives(t *testing.T) {
	items := []types.ResearchItem{
		{ID: "a", Title: "Paper", DOI: "10.1/x", CitationCount: 5},
		{ID: "b", Title: "Paper", DOI: "10.1/x", CitationCount: 12},
	}
	got := Dedup(items)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].CitationCount != 12 {
		t.Errorf("survivor citations = %d, want 12", got[0].CitationCount)
	}
}

func TestDedupTitleFallback(t *testing.T) {
	items := []types.ResearchItem{
		{ID: "hn-1", Title: "AI Will Replace Half of Entry-Level Jobs", CitationCount: 40},
		{ID: "rd-1", Title: "AI will replace half of entry-level jobs!", CitationCount: 90},
		{ID: "bs-1", Title: "A completely different post", CitationCount: 1},
	}
	got := Dedup(items)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	for _, it := range got {
		if it.ID == "hn-1" {
			t.Error("lower-engagement duplicate survived")
		}
	}
}

func TestDedupDOIOverridesTitleMatch(t *testing.T) {
	// The same work appears once with a DOI and once without; the DOI
	// survivor owns the title key, so the DOI-less copy must not be
	// re-added even though it has more citations.
	items := []types.ResearchItem{
		{ID: "cr-1", Title: "Automation and wage inequality", DOI: "10.2/y", CitationCount: 10},
		{ID: "hn-2", Title: "Automation and Wage Inequality", CitationCount: 500},
	}
	got := Dedup(items)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].ID != "cr-1" {
		t.Errorf("survivor = %q, want the DOI copy", got[0].ID)
	}
}

func TestDedupIdempotent(t *testing.T) {
	items := []types.ResearchItem{
		{ID: "a", Title: "Paper one", DOI: "10.1/a", CitationCount: 5},
		{ID: "b", Title: "Paper one", DOI: "10.1/a", CitationCount: 9},
		{ID: "c", Title: "Paper two", CitationCount: 3},
		{ID: "d", Title: "Paper two", CitationCount: 7},
		{ID: "e", Title: "", CitationCount: 0},
	}
	once := Dedup(items)
	twice := Dedup(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("not a fixed point:\nonce:  %v\ntwice: %v", once, twice)
	}
}

func TestDedupPreservesInputOrder(t *testing.T) {
	items := []types.ResearchItem{
		{ID: "first", Title: "Alpha result", CitationCount: 1},
		{ID: "second", Title: "Beta result", CitationCount: 2},
		{ID: "third", Title: "Gamma result", CitationCount: 3},
	}
	got := Dedup(items)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, want := range []string{"first", "second", "third"} {
		if got[i].ID != want {
			t.Errorf("got[%d].ID = %q, want %q", i, got[i].ID, want)
		}
	}
}

func TestDedupEmptyInput(t *testing.T) {
	if got := Dedup(nil); len(got) != 0 {
		t.Errorf("Dedup(nil) = %v, want empty", got)
	}
}
