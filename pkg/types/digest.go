// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// CategoryBucket holds the digest papers that fell into one topic category.
type CategoryBucket struct {
	Category string           `json:"category" yaml:"category"`
	Papers   []ClassifiedItem `json:"papers" yaml:"papers"`
}

// DigestSummary holds the per-run aggregate counts.
type DigestSummary struct {
	BySource           map[SourceKind]int `json:"by_source" yaml:"by_source"`
	ByTier             map[int]int        `json:"by_tier" yaml:"by_tier"`
	TrackedAuthorCount int                `json:"tracked_author_count" yaml:"tracked_author_count"`
}

// WeeklyDigest is the immutable dated snapshot produced by one digest run.
// It is created once, written to disk, and superseded (never deleted) by the
// next run's "latest" pointer.
type WeeklyDigest struct {
	// Week is the ISO week identifier, e.g. "2026-W36".
	Week string `json:"week" yaml:"week"`

	// GeneratedAt is the run timestamp.
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`

	// From and To bound the lookback window the run covered.
	From time.Time `json:"from" yaml:"from"`
	To   time.Time `json:"to" yaml:"to"`

	// TotalDiscovered counts raw records across all sources before any
	// filtering; TotalAfterDedup counts survivors of deduplication.
	TotalDiscovered int `json:"total_discovered" yaml:"total_discovered"`
	TotalAfterDedup int `json:"total_after_dedup" yaml:"total_after_dedup"`

	// Papers is the top-N list ordered by composite score descending.
	Papers []ClassifiedItem `json:"papers" yaml:"papers"`

	// Categories buckets Papers by linked-prediction slug membership.
	Categories []CategoryBucket `json:"categories" yaml:"categories"`

	Summary DigestSummary `json:"summary" yaml:"summary"`

	// SuggestedDataPoints holds validated records from the optional
	// extraction pass; empty when extraction is unconfigured or failed.
	SuggestedDataPoints []SuggestedDataPoint `json:"suggested_data_points,omitempty" yaml:"suggested_data_points,omitempty"`
}
