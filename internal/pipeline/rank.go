// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"math"
	"sort"
	"time"

	"github.com/pdiddy/laborwatch/pkg/types"
)

const (
	// velocityCap bounds the citation-velocity contribution so a single
	// runaway citation count cannot dominate the composite score.
	velocityCap = 30

	// trackedAuthorBonus is the flat bonus for roster-author items.
	trackedAuthorBonus = 25
)

// tierBasePoints maps the final evidence tier to its ranking base.
func tierBasePoints(tier int) int {
	switch tier {
	case 1:
		return 40
	case 2:
		return 25
	case 3:
		return 10
	default:
		return 2
	}
}

// citationVelocity is citations per year since publication. The divisor
// floors at half a year so same-year items do not overstate their velocity,
// and items with an unknown year contribute near zero.
func citationVelocity(it types.ResearchItem, now time.Time) float64 {
	age := float64(now.Year() - it.Year())
	return float64(it.CitationCount) / math.Max(0.5, age)
}

// CompositeScore combines tier, relevance, capped citation velocity, and the
// tracked-author bonus into the single ranking number.
func CompositeScore(it types.ResearchItem, tier int, now time.Time) int {
	score := tierBasePoints(tier) + it.RelevanceScore*2

	velocity := int(math.Round(citationVelocity(it, now) * 2))
	if velocity > velocityCap {
		velocity = velocityCap
	}
	score += velocity

	if it.IsTrackedAuthor {
		score += trackedAuthorBonus
	}
	return score
}

// SortFeed orders items for the live feed: strongest evidence first
// (ascending tier), ties broken by impact (descending citations), then by ID
// so repeated runs produce identical output.
func SortFeed(items []types.ClassifiedItem) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].ClassifiedTier != items[j].ClassifiedTier {
			return items[i].ClassifiedTier < items[j].ClassifiedTier
		}
		if items[i].CitationCount != items[j].CitationCount {
			return items[i].CitationCount > items[j].CitationCount
		}
		return items[i].ID < items[j].ID
	})
}

// SortByComposite orders items best-of-the-week style: composite score
// descending. The digest assembler uses this instead of the feed ordering.
func SortByComposite(items []types.ClassifiedItem) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CompositeScore != items[j].CompositeScore {
			return items[i].CompositeScore > items[j].CompositeScore
		}
		if items[i].CitationCount != items[j].CitationCount {
			return items[i].CitationCount > items[j].CitationCount
		}
		return items[i].ID < items[j].ID
	})
}
