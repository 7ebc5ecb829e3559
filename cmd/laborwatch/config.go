// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/laborwatch/internal/registry"
	"github.com/pdiddy/laborwatch/internal/sources"
	"github.com/pdiddy/laborwatch/pkg/types"
)

const (
	defaultTimeout   = 20 * time.Second
	defaultUserAgent = "laborwatch/0.1"
)

// discoveryConfig assembles discovery settings from the config file with
// credentials filled from loaded secrets. Config file values win over
// secrets so a run can pin a specific key.
func discoveryConfig() types.DiscoveryConfig {
	cfg := types.DiscoveryConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("discovery.timeout"),
			UserAgent: viper.GetString("discovery.user_agent"),
		},
		MaxResults:        viper.GetInt("discovery.max_results"),
		PerSourceLimit:    viper.GetInt("discovery.per_source_limit"),
		MinRelevanceScore: viper.GetInt("discovery.min_relevance_score"),
		LinkThreshold:     viper.GetInt("discovery.link_threshold"),
		SourceTimeout:     viper.GetDuration("discovery.source_timeout"),
		MastodonInstance:  viper.GetString("discovery.mastodon_instance"),

		OpenAlexEmail:         secretDefault("openalex-email", viper.GetString("discovery.openalex_email")),
		SemanticScholarAPIKey: secretDefault("semantic-scholar-api-key", viper.GetString("discovery.semantic_scholar_api_key")),
		AdzunaAppID:           secretDefault("adzuna-app-id", viper.GetString("discovery.adzuna_app_id")),
		AdzunaAppKey:          secretDefault("adzuna-app-key", viper.GetString("discovery.adzuna_app_key")),
		SerperAPIKey:          secretDefault("serper-api-key", viper.GetString("discovery.serper_api_key")),
		BraveAPIKey:           secretDefault("brave-api-key", viper.GetString("discovery.brave_api_key")),
		NewsAPIKey:            secretDefault("newsapi-api-key", viper.GetString("discovery.newsapi_api_key")),
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	return cfg
}

func digestConfig() types.DigestConfig {
	cfg := types.DigestConfig{
		AIConfig: types.AIConfig{
			Model:  viper.GetString("digest.model"),
			APIKey: secretDefault("anthropic-api-key", viper.GetString("digest.api_key")),
		},
		LookbackDays:      viper.GetInt("digest.lookback_days"),
		MaxPapers:         viper.GetInt("digest.max_papers"),
		MinRelevanceScore: viper.GetInt("digest.min_relevance_score"),
		DigestDir:         viper.GetString("digest.digest_dir"),
	}
	if cfg.DigestDir == "" {
		cfg.DigestDir = filepath.Join("data", "digests")
	}
	return cfg
}

func archiveConfig() types.ArchiveConfig {
	cfg := types.ArchiveConfig{
		Enabled: viper.GetBool("archive.enabled"),
		DataDir: viper.GetString("archive.data_dir"),
	}
	if cfg.DataDir == "" {
		cfg.DataDir = filepath.Join("data", "archive")
	}
	return cfg
}

func serverConfig() types.ServerConfig {
	return types.ServerConfig{
		Addr:       viper.GetString("server.addr"),
		DigestCron: viper.GetString("server.digest_cron"),
	}
}

// loadRegistry reads the prediction and author files named in the config, or
// the built-in defaults when unset.
func loadRegistry() ([]types.TrackedPrediction, []types.Category, []types.TrackedAuthor, error) {
	preds, cats, err := registry.LoadPredictions(viper.GetString("registry.predictions_file"))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading predictions: %w", err)
	}
	authors, err := registry.LoadAuthors(viper.GetString("registry.authors_file"))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading authors: %w", err)
	}
	return preds, cats, authors, nil
}

// buildSources constructs every adapter. Credentialed adapters without keys
// report themselves disabled and are skipped by the fan-out.
func buildSources(cfg types.DiscoveryConfig, authors []types.TrackedAuthor) []sources.Source {
	return []sources.Source{
		sources.NewSemanticScholar(cfg),
		sources.NewOpenAlex(cfg),
		sources.NewTrackedAuthors(cfg, authors),
		sources.NewCrossref(cfg),
		sources.NewArxiv(cfg),
		sources.NewOSF(cfg),
		sources.NewFederalRegister(cfg),
		sources.NewAdzuna(cfg),
		sources.NewNewsAPI(cfg),
		sources.NewHackerNews(cfg),
		sources.NewReddit(cfg),
		sources.NewMastodon(cfg),
		sources.NewBluesky(cfg),
		sources.NewSerper(cfg),
		sources.NewBrave(cfg),
	}
}
