// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline chains discovery, topic filtering, deduplication, tier
// classification, prediction linking, and composite ranking into the research
// feed. Stages are pure functions over types.ResearchItem; the Pipeline
// struct only wires configuration, sources, and the prediction registry
// together.
package pipeline

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/pdiddy/laborwatch/internal/relevance"
	"github.com/pdiddy/laborwatch/internal/sources"
	"github.com/pdiddy/laborwatch/pkg/types"
)

// ErrAllSourcesFailed reports total upstream unavailability: every queried
// source errored. Partial failure is not an error; it just means fewer
// results.
var ErrAllSourcesFailed = errors.New("all discovery sources failed")

// Pipeline runs the research feed. All collaborators are injected; there is
// no ambient registry state.
type Pipeline struct {
	cfg         types.DiscoveryConfig
	sources     []sources.Source
	predictions []types.TrackedPrediction
	w           io.Writer
}

// New builds a pipeline. Warnings (per-source failures) go to w; pass nil to
// discard them.
func New(cfg types.DiscoveryConfig, srcs []sources.Source, predictions []types.TrackedPrediction, w io.Writer) *Pipeline {
	if w == nil {
		w = io.Discard
	}
	return &Pipeline{cfg: cfg, sources: srcs, predictions: predictions, w: w}
}

// FeedOptions override the configured defaults for one run. MaxResults <= 0
// and MinRelevanceScore < 0 fall back to the configured values. A non-empty
// Tiers list keeps only those final tiers.
type FeedOptions struct {
	MinRelevanceScore int
	MaxResults        int
	Tiers             []int
}

// Result is the settled output of one pipeline run.
type Result struct {
	// Items is the ranked, truncated feed.
	Items []types.ClassifiedItem

	// TotalDiscovered counts raw records across all sources before
	// filtering; TotalAfterDedup counts survivors of the duplicate pass.
	TotalDiscovered int
	TotalAfterDedup int

	// SourcesQueried counts enabled sources; SourceErrors holds one
	// message per failed source.
	SourcesQueried int
	SourceErrors   []string
}

// Run executes discover -> filter -> dedup -> classify -> link -> rank and
// returns the feed ordered by ascending tier, then descending citations.
func (p *Pipeline) Run(ctx context.Context, opts FeedOptions) (*Result, error) {
	minScore := opts.MinRelevanceScore
	if minScore < 0 {
		minScore = p.cfg.MinRelevanceScore
	}
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = p.cfg.MaxResults
	}
	if maxResults <= 0 {
		maxResults = 30
	}

	fanout := sources.DiscoverAll(ctx, p.sources, p.cfg.PerSourceLimit, p.cfg.SourceTimeout, p.w)
	if fanout.AllFailed() {
		return nil, ErrAllSourcesFailed
	}

	res := &Result{
		TotalDiscovered: len(fanout.Items),
		SourcesQueried:  fanout.Queried,
		SourceErrors:    fanout.Errors,
	}

	// Topic filter. A zero relevance score means the AI x labor
	// co-occurrence gate failed; those items never reach the output, even
	// at floor zero. Tracked-author items bypass the organic floor.
	var kept []types.ResearchItem
	for _, it := range fanout.Items {
		if relevance.IsOffTopic(it.Title, it.Abstract, it.Venue) {
			continue
		}
		if !it.IsTrackedAuthor && (it.RelevanceScore <= 0 || it.RelevanceScore < minScore) {
			continue
		}
		kept = append(kept, it)
	}

	deduped := Dedup(kept)
	res.TotalAfterDedup = len(deduped)

	now := time.Now()
	classified := make([]types.ClassifiedItem, 0, len(deduped))
	for _, it := range deduped {
		tier := ClassifyTier(it)
		ci := types.ClassifiedItem{
			ResearchItem:      it,
			ClassifiedTier:    tier,
			LinkedPredictions: LinkPredictions(it, p.predictions, p.cfg.LinkThreshold),
		}
		ci.CompositeScore = CompositeScore(it, tier, now)
		classified = append(classified, ci)
	}

	if len(opts.Tiers) > 0 {
		wanted := make(map[int]bool, len(opts.Tiers))
		for _, t := range opts.Tiers {
			wanted[t] = true
		}
		filtered := classified[:0]
		for _, ci := range classified {
			if wanted[ci.ClassifiedTier] {
				filtered = append(filtered, ci)
			}
		}
		classified = filtered
	}

	SortFeed(classified)
	if len(classified) > maxResults {
		classified = classified[:maxResults]
	}
	res.Items = classified
	return res, nil
}
