// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "laborwatch/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// DiscoveryConfig holds settings for the source fan-out and the live feed.
type DiscoveryConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults is the page size of the live feed (default 30).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// PerSourceLimit caps how many records one adapter may return
	// (default 25).
	PerSourceLimit int `json:"per_source_limit" yaml:"per_source_limit"`

	// MinRelevanceScore is the relevance floor for the live feed
	// (default 3). Tracked-author items bypass it.
	MinRelevanceScore int `json:"min_relevance_score" yaml:"min_relevance_score"`

	// LinkThreshold is the minimum keyword score that links an item to a
	// tracked prediction (default 3).
	LinkThreshold int `json:"link_threshold" yaml:"link_threshold"`

	// SourceTimeout bounds each adapter's Discover call so the fan-out
	// join always completes (default 30s).
	SourceTimeout time.Duration `json:"source_timeout" yaml:"source_timeout"`

	// OpenAlexEmail is sent as the mailto parameter for polite pool access.
	OpenAlexEmail string `json:"openalex_email,omitempty" yaml:"openalex_email,omitempty"`

	// SemanticScholarAPIKey raises Semantic Scholar rate limits. Optional.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty"`

	// AdzunaAppID and AdzunaAppKey enable the job-postings adapter.
	// When absent the adapter contributes nothing.
	AdzunaAppID  string `json:"adzuna_app_id,omitempty" yaml:"adzuna_app_id,omitempty"`
	AdzunaAppKey string `json:"adzuna_app_key,omitempty" yaml:"adzuna_app_key,omitempty"`

	// SerperAPIKey and BraveAPIKey enable the web-search adapters.
	SerperAPIKey string `json:"serper_api_key,omitempty" yaml:"serper_api_key,omitempty"`
	BraveAPIKey  string `json:"brave_api_key,omitempty" yaml:"brave_api_key,omitempty"`

	// NewsAPIKey enables the news-outlet adapter.
	NewsAPIKey string `json:"newsapi_api_key,omitempty" yaml:"newsapi_api_key,omitempty"`

	// MastodonInstance is the instance queried for tagged posts
	// (default "mastodon.social").
	MastodonInstance string `json:"mastodon_instance,omitempty" yaml:"mastodon_instance,omitempty"`
}

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API. When absent the
	// extraction pass degrades to no suggestions.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// DigestConfig holds settings for the weekly digest run.
type DigestConfig struct {
	AIConfig `yaml:",inline"`

	// LookbackDays is the discovery window (default 7).
	LookbackDays int `json:"lookback_days" yaml:"lookback_days"`

	// MaxPapers is the top-N cut by composite score (default 25).
	MaxPapers int `json:"max_papers" yaml:"max_papers"`

	// MinRelevanceScore is the digest's near-zero relevance floor
	// (default 1) so borderline candidates surface for review.
	MinRelevanceScore int `json:"min_relevance_score" yaml:"min_relevance_score"`

	// DigestDir is where dated snapshots and the latest pointer live
	// (default "data/digests").
	DigestDir string `json:"digest_dir" yaml:"digest_dir"`
}

// ArchiveConfig holds settings for the optional run-history store.
type ArchiveConfig struct {
	// Enabled turns run recording on.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// DataDir is the directory holding archive.db (default "data/archive").
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// ServerConfig holds settings for the JSON API server.
type ServerConfig struct {
	// Addr is the listen address (default ":8090").
	Addr string `json:"addr" yaml:"addr"`

	// DigestCron schedules background digest runs (5-field cron
	// expression). Empty disables scheduling.
	DigestCron string `json:"digest_cron,omitempty" yaml:"digest_cron,omitempty"`
}

// RegistryConfig points at the externally supplied reference data. Empty
// paths fall back to the built-in registry.
type RegistryConfig struct {
	// PredictionsFile is a YAML file of TrackedPrediction records.
	PredictionsFile string `json:"predictions_file,omitempty" yaml:"predictions_file,omitempty"`

	// AuthorsFile is a YAML file of TrackedAuthor records.
	AuthorsFile string `json:"authors_file,omitempty" yaml:"authors_file,omitempty"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Discovery DiscoveryConfig `json:"discovery" yaml:"discovery"`
	Digest    DigestConfig    `json:"digest" yaml:"digest"`
	Archive   ArchiveConfig   `json:"archive" yaml:"archive"`
	Server    ServerConfig    `json:"server" yaml:"server"`
	Registry  RegistryConfig  `json:"registry" yaml:"registry"`
}
