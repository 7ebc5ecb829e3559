// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"testing"

	"github.com/pdiddy/laborwatch/pkg/types"
)

func testPredictions() []types.TrackedPrediction {
	return []types.TrackedPrediction{
		{
			Slug:  "entry-level-hiring",
			Title: "AI reduces entry-level hiring",
			Keywords: types.KeywordSet{
				Primary:   []string{"entry-level", "hiring"},
				Secondary: []string{"recruitment", "graduate"},
			},
		},
		{
			Slug:  "wage-inequality",
			Title: "AI widens wage inequality",
			Keywords: types.KeywordSet{
				Primary:   []string{"wage inequality", "wage gap"},
				Secondary: []string{"wage", "income"},
			},
		},
		{
			Slug:  "task-automation",
			Title: "Half of work tasks automated",
			Keywords: types.KeywordSet{
				Primary:   []string{"task automation", "occupational exposure"},
				Secondary: []string{"automation"},
			},
		},
	}
}

func TestScoreItemForPredictionWeights(t *testing.T) {
	it := types.ResearchItem{
		Title:    "Entry-level hiring after AI adoption",
		Abstract: "Graduate recruitment fell at exposed firms.",
	}
	pred := testPredictions()[0]

	// Two primary matches (entry-level, hiring) and two secondary
	// (recruitment, graduate): 3+3+1+1.
	if got := ScoreItemForPrediction(it, pred); got != 8 {
		t.Errorf("score = %d, want 8", got)
	}
}

func TestScoreItemForPredictionDeterministic(t *testing.T) {
	it := types.ResearchItem{Title: "Wage inequality and automation", Abstract: "Wages diverge."}
	pred := testPredictions()[1]

	first := ScoreItemForPrediction(it, pred)
	for i := 0; i < 10; i++ {
		if got := ScoreItemForPrediction(it, pred); got != first {
			t.Fatalf("call %d returned %d, first call returned %d", i, got, first)
		}
	}
}

func TestLinkPredictionsThresholdAndOrder(t *testing.T) {
	it := types.ResearchItem{
		Title:    "Entry-level hiring and wage inequality under task automation",
		Abstract: "We measure hiring, wages, and automation exposure.",
	}
	linked := LinkPredictions(it, testPredictions(), 3)

	if len(linked) != 3 {
		t.Fatalf("len = %d, want 3: %v", len(linked), linked)
	}
	for i := 1; i < len(linked); i++ {
		if linked[i].RelevanceScore > linked[i-1].RelevanceScore {
			t.Errorf("links not sorted by score desc: %v", linked)
		}
	}
	seen := make(map[string]bool)
	for _, l := range linked {
		if seen[l.Slug] {
			t.Errorf("slug %q repeated", l.Slug)
		}
		seen[l.Slug] = true
	}
}

func TestLinkPredictionsBelowThresholdEmpty(t *testing.T) {
	it := types.ResearchItem{Title: "Income trends", Abstract: "Income is discussed."}
	// Only the secondary keyword "income" matches wage-inequality: score 1.
	linked := LinkPredictions(it, testPredictions(), 3)
	if len(linked) != 0 {
		t.Errorf("linked = %v, want none below threshold", linked)
	}
}

func TestLinkPredictionsDefaultThreshold(t *testing.T) {
	it := types.ResearchItem{Title: "Task automation study"}
	linked := LinkPredictions(it, testPredictions(), 0)
	if len(linked) != 1 || linked[0].Slug != "task-automation" {
		t.Errorf("linked = %v, want single task-automation link", linked)
	}
}
