// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"sort"
	"strings"

	"github.com/pdiddy/laborwatch/internal/relevance"
	"github.com/pdiddy/laborwatch/pkg/types"
)

// DefaultLinkThreshold is the minimum keyword score that links an item to a
// tracked prediction. A single primary-keyword match clears it.
const DefaultLinkThreshold = 3

// ScoreItemForPrediction computes the keyword-match score between one item
// and one tracked prediction: +3 per primary keyword, +1 per secondary. Pure
// function of its inputs.
func ScoreItemForPrediction(it types.ResearchItem, pred types.TrackedPrediction) int {
	text := strings.ToLower(it.Title + " " + it.Abstract)
	score := 0
	for _, kw := range pred.Keywords.Primary {
		if relevance.ContainsTerm(text, strings.ToLower(kw)) {
			score += 3
		}
	}
	for _, kw := range pred.Keywords.Secondary {
		if relevance.ContainsTerm(text, strings.ToLower(kw)) {
			score++
		}
	}
	return score
}

// LinkPredictions attaches every prediction scoring at or above threshold,
// sorted by score descending (slug ascending on ties, so output is
// deterministic). Registry slugs are unique, so the result never repeats one.
func LinkPredictions(it types.ResearchItem, preds []types.TrackedPrediction, threshold int) []types.LinkedPrediction {
	if threshold <= 0 {
		threshold = DefaultLinkThreshold
	}

	var linked []types.LinkedPrediction
	for _, pred := range preds {
		score := ScoreItemForPrediction(it, pred)
		if score < threshold {
			continue
		}
		linked = append(linked, types.LinkedPrediction{
			Slug:           pred.Slug,
			Title:          pred.Title,
			RelevanceScore: score,
		})
	}

	sort.Slice(linked, func(i, j int) bool {
		if linked[i].RelevanceScore != linked[j].RelevanceScore {
			return linked[i].RelevanceScore > linked[j].RelevanceScore
		}
		return linked[i].Slug < linked[j].Slug
	})
	return linked
}
