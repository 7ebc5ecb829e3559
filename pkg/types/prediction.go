// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// KeywordSet is the weight table the prediction linker scores against.
// Primary matches count +3, secondary matches +1.
type KeywordSet struct {
	Primary   []string `json:"primary" yaml:"primary"`
	Secondary []string `json:"secondary,omitempty" yaml:"secondary,omitempty"`
}

// TrackedPrediction is one entry in the externally supplied, append-only
// prediction registry. The pipeline never mutates these.
type TrackedPrediction struct {
	// Slug is the unique registry key (e.g. "entry-level-hiring").
	Slug string `json:"slug" yaml:"slug"`

	// Title is the display title shown on the dashboard.
	Title string `json:"title" yaml:"title"`

	// Description explains what the prediction claims.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Unit is the unit of the tracked value (e.g. "percent", "index").
	Unit string `json:"unit,omitempty" yaml:"unit,omitempty"`

	// CurrentValue is the latest curated value for the prediction.
	CurrentValue float64 `json:"current_value,omitempty" yaml:"current_value,omitempty"`

	// Horizon is the prediction's time horizon (e.g. "2030").
	Horizon string `json:"horizon,omitempty" yaml:"horizon,omitempty"`

	// Keywords is the weight table used only by the linker.
	Keywords KeywordSet `json:"keywords" yaml:"keywords"`
}

// TrackedAuthor is one entry in the fixed researcher roster consumed by the
// tracked-author adapter.
type TrackedAuthor struct {
	// Name is the display name used for attribution.
	Name string `json:"name" yaml:"name"`

	// OpenAlexID is the provider-native author identifier (e.g. "A5023888391").
	OpenAlexID string `json:"openalex_id" yaml:"openalex_id"`
}

// Category groups predictions into a digest bucket by slug membership.
type Category struct {
	Name  string   `json:"name" yaml:"name"`
	Slugs []string `json:"slugs" yaml:"slugs"`
}

// SuggestedDataPoint is one numeric claim extracted from a linked research
// item by the digest's extraction pass. Records are validated against the
// known slug set before acceptance.
type SuggestedDataPoint struct {
	PredictionSlug string  `json:"prediction_slug" yaml:"prediction_slug"`
	Value          float64 `json:"value" yaml:"value"`
	Unit           string  `json:"unit,omitempty" yaml:"unit,omitempty"`
	Date           string  `json:"date,omitempty" yaml:"date,omitempty"`
	SourceTitle    string  `json:"source_title" yaml:"source_title"`
	SourceURL      string  `json:"source_url,omitempty" yaml:"source_url,omitempty"`
	Quote          string  `json:"quote" yaml:"quote"`
}
