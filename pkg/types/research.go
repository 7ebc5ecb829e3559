// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the laborwatch pipeline.
package types

import "time"

// SourceKind identifies the provider a ResearchItem was discovered through.
// The set is closed: every adapter maps to exactly one kind.
type SourceKind string

const (
	SourceSemanticScholar SourceKind = "semantic-scholar"
	SourceOpenAlex        SourceKind = "openalex"
	SourceCrossref        SourceKind = "crossref"
	SourceArxiv           SourceKind = "arxiv"
	SourceOSF             SourceKind = "osf"
	SourceFederalRegister SourceKind = "federal-register"
	SourceAdzuna          SourceKind = "adzuna"
	SourceHackerNews      SourceKind = "hackernews"
	SourceReddit          SourceKind = "reddit"
	SourceMastodon        SourceKind = "mastodon"
	SourceBluesky         SourceKind = "bluesky"
	SourceSerper          SourceKind = "serper"
	SourceBrave           SourceKind = "brave"
	SourceNewsAPI         SourceKind = "newsapi"
	SourceTrackedAuthors  SourceKind = "tracked-authors"
)

// IsAcademic reports whether the kind is an academic search or preprint
// provider. Academic items default to tier 2 when no venue signal matches.
func (k SourceKind) IsAcademic() bool {
	switch k {
	case SourceSemanticScholar, SourceOpenAlex, SourceCrossref, SourceArxiv, SourceOSF, SourceTrackedAuthors:
		return true
	}
	return false
}

// IsInformal reports whether the kind is an unvetted platform (forum,
// microblog, or general web search). Informal content never classifies
// better than tier 3.
func (k SourceKind) IsInformal() bool {
	switch k {
	case SourceHackerNews, SourceReddit, SourceMastodon, SourceBluesky, SourceSerper, SourceBrave:
		return true
	}
	return false
}

// ResearchItem is the canonical post-normalization record. Every adapter
// produces this shape; downstream stages never see provider-native fields.
type ResearchItem struct {
	// ID is stable per provider+native-id pair, prefixed by source
	// (e.g. "arxiv-2301.07041"). Recomputed deterministically each run.
	ID string `json:"id" yaml:"id"`

	// Title is the item title as returned by the provider.
	Title string `json:"title" yaml:"title"`

	// Abstract is the abstract, description, or post body. Empty when the
	// provider supplies none.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// Authors lists display names in provider order.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// PublishedDate is the publication date; zero when unknown.
	PublishedDate time.Time `json:"published_date,omitempty" yaml:"published_date,omitempty"`

	// Venue is the journal, outlet, or platform name. Empty when unknown.
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`

	// URL is the canonical link to the item.
	URL string `json:"url" yaml:"url"`

	// PDFURL is a direct full-text link when the provider exposes one.
	PDFURL string `json:"pdf_url,omitempty" yaml:"pdf_url,omitempty"`

	// DOI is normalized lower-case with any resolver prefix stripped.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// CitationCount is citations for academic items and engagement
	// (likes + reposts, points, score) for social content. Both feed
	// ranking identically.
	CitationCount int `json:"citation_count" yaml:"citation_count"`

	// SourceKind identifies the adapter that produced the item.
	SourceKind SourceKind `json:"source_kind" yaml:"source_kind"`

	// RelevanceScore is computed once at normalization time and never
	// changes after classification.
	RelevanceScore int `json:"relevance_score" yaml:"relevance_score"`

	// EvidenceTier is the provisional 1-4 tier assigned by the adapter.
	// The classifier overwrites it with the final tier.
	EvidenceTier int `json:"evidence_tier" yaml:"evidence_tier"`

	// IsTrackedAuthor marks items produced by the tracked-author adapter.
	IsTrackedAuthor bool `json:"is_tracked_author,omitempty" yaml:"is_tracked_author,omitempty"`

	// TrackedAuthorName is the roster name that matched, when set.
	TrackedAuthorName string `json:"tracked_author_name,omitempty" yaml:"tracked_author_name,omitempty"`
}

// Year returns the publication year, or 0 when the date is unknown.
func (r ResearchItem) Year() int {
	if r.PublishedDate.IsZero() {
		return 0
	}
	return r.PublishedDate.Year()
}

// LinkedPrediction records a tracked prediction an item was keyword-matched
// to, with the match score.
type LinkedPrediction struct {
	Slug           string `json:"slug" yaml:"slug"`
	Title          string `json:"title" yaml:"title"`
	RelevanceScore int    `json:"relevance_score" yaml:"relevance_score"`
}

// ClassifiedItem is a ResearchItem after tier classification, prediction
// linking, and composite scoring.
type ClassifiedItem struct {
	ResearchItem `yaml:",inline"`

	// ClassifiedTier is the final evidence tier, always in 1..4.
	ClassifiedTier int `json:"classified_tier" yaml:"classified_tier"`

	// LinkedPredictions is sorted by score descending and never repeats
	// a slug. Empty when nothing scored at the link threshold.
	LinkedPredictions []LinkedPrediction `json:"linked_predictions,omitempty" yaml:"linked_predictions,omitempty"`

	// CompositeScore is the single ranking number combining tier,
	// relevance, citation velocity, and the tracked-author bonus.
	CompositeScore int `json:"composite_score" yaml:"composite_score"`
}
