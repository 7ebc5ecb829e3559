// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package digest assembles the weekly research digest: it drives the
// discovery pipeline over a wider lookback window with a near-zero relevance
// floor, keeps the top papers by composite score, buckets them into topic
// categories, and writes an immutable dated snapshot plus a "latest" pointer.
// An optional extraction pass asks a Generative AI model to pull explicit
// numeric claims out of prediction-linked papers.
package digest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/laborwatch/internal/pipeline"
	"github.com/pdiddy/laborwatch/pkg/types"
)

// digestMaxResults is the wide cap passed to the pipeline so the composite
// cut sees every candidate, not just the first feed page.
const digestMaxResults = 500

// catchAllCategory buckets papers whose linked predictions belong to no
// configured category, and papers with no links at all.
const catchAllCategory = "Other"

// Assembler runs digest batches. All collaborators are injected; backend may
// be nil, which disables the extraction pass.
type Assembler struct {
	pipe       *pipeline.Pipeline
	cfg        types.DigestConfig
	categories []types.Category
	slugs      map[string]bool
	backend    AIBackend
	w          io.Writer
}

// New builds an assembler. Warnings go to w; pass nil to discard them.
func New(pipe *pipeline.Pipeline, cfg types.DigestConfig, categories []types.Category, slugs map[string]bool, backend AIBackend, w io.Writer) *Assembler {
	if w == nil {
		w = io.Discard
	}
	return &Assembler{pipe: pipe, cfg: cfg, categories: categories, slugs: slugs, backend: backend, w: w}
}

// Run executes one digest batch and returns the snapshot structure. A run
// with every source down still yields a valid digest with zero papers;
// nothing in the batch path is allowed to fail the whole run except context
// cancellation.
func (a *Assembler) Run(ctx context.Context) (*types.WeeklyDigest, error) {
	lookback := a.cfg.LookbackDays
	if lookback <= 0 {
		lookback = 7
	}
	minScore := a.cfg.MinRelevanceScore
	if minScore <= 0 {
		minScore = 1
	}
	maxPapers := a.cfg.MaxPapers
	if maxPapers <= 0 {
		maxPapers = 25
	}

	now := time.Now().UTC()
	from := now.AddDate(0, 0, -lookback)

	res, err := a.pipe.Run(ctx, pipeline.FeedOptions{
		MinRelevanceScore: minScore,
		MaxResults:        digestMaxResults,
	})
	switch {
	case errors.Is(err, pipeline.ErrAllSourcesFailed):
		fmt.Fprintf(a.w, "warning: %v; assembling empty digest\n", err)
		res = &pipeline.Result{}
	case err != nil:
		return nil, err
	}

	papers := withinWindow(res.Items, from)
	pipeline.SortByComposite(papers)
	if len(papers) > maxPapers {
		papers = papers[:maxPapers]
	}

	y, week := now.ISOWeek()
	d := &types.WeeklyDigest{
		Week:            fmt.Sprintf("%d-W%02d", y, week),
		GeneratedAt:     now,
		From:            from,
		To:              now,
		TotalDiscovered: res.TotalDiscovered,
		TotalAfterDedup: res.TotalAfterDedup,
		Papers:          papers,
		Categories:      a.bucket(papers),
		Summary:         summarize(papers),
	}

	if a.backend != nil {
		d.SuggestedDataPoints = ExtractDataPoints(ctx, a.backend, papers, a.slugs, a.w)
	}
	return d, nil
}

// withinWindow drops items published before the lookback window. Items with
// an unknown date are kept; absence of a date is not evidence of staleness.
func withinWindow(items []types.ClassifiedItem, from time.Time) []types.ClassifiedItem {
	out := make([]types.ClassifiedItem, 0, len(items))
	for _, it := range items {
		if !it.PublishedDate.IsZero() && it.PublishedDate.Before(from) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// bucket assigns each paper to the first configured category containing any
// of its linked prediction slugs. Papers that match nothing land in the
// catch-all bucket, which is always appended last.
func (a *Assembler) bucket(papers []types.ClassifiedItem) []types.CategoryBucket {
	buckets := make([]types.CategoryBucket, len(a.categories)+1)
	for i, c := range a.categories {
		buckets[i] = types.CategoryBucket{Category: c.Name, Papers: []types.ClassifiedItem{}}
	}
	buckets[len(a.categories)] = types.CategoryBucket{Category: catchAllCategory, Papers: []types.ClassifiedItem{}}

	slugIndex := make(map[string]int)
	for i, c := range a.categories {
		for _, s := range c.Slugs {
			if _, taken := slugIndex[s]; !taken {
				slugIndex[s] = i
			}
		}
	}

	for _, p := range papers {
		target := len(a.categories)
		for _, link := range p.LinkedPredictions {
			if i, ok := slugIndex[link.Slug]; ok && i < target {
				target = i
			}
		}
		buckets[target].Papers = append(buckets[target].Papers, p)
	}
	return buckets
}

func summarize(papers []types.ClassifiedItem) types.DigestSummary {
	s := types.DigestSummary{
		BySource: make(map[types.SourceKind]int),
		ByTier:   make(map[int]int),
	}
	for _, p := range papers {
		s.BySource[p.SourceKind]++
		s.ByTier[p.ClassifiedTier]++
		if p.IsTrackedAuthor {
			s.TrackedAuthorCount++
		}
	}
	return s
}
