// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package registry supplies the read-only reference data the pipeline links
// against: the tracked-prediction registry, its category groupings, and the
// tracked-author roster. Each loader falls back to the built-in defaults when
// no file is configured, so the pipeline runs out of the box.
package registry

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/laborwatch/pkg/types"
)

// predictionsFile is the on-disk registry shape.
type predictionsFile struct {
	Predictions []types.TrackedPrediction `yaml:"predictions"`
	Categories  []types.Category          `yaml:"categories,omitempty"`
}

// LoadPredictions reads a YAML prediction registry. An empty path returns
// the built-in defaults.
func LoadPredictions(path string) ([]types.TrackedPrediction, []types.Category, error) {
	if path == "" {
		return DefaultPredictions(), DefaultCategories(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading predictions file: %w", err)
	}

	var pf predictionsFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, nil, fmt.Errorf("parsing predictions file: %w", err)
	}
	if len(pf.Predictions) == 0 {
		return nil, nil, fmt.Errorf("predictions file %s contains no predictions", path)
	}

	seen := make(map[string]bool)
	for _, p := range pf.Predictions {
		if p.Slug == "" {
			return nil, nil, fmt.Errorf("predictions file %s: prediction %q has no slug", path, p.Title)
		}
		if seen[p.Slug] {
			return nil, nil, fmt.Errorf("predictions file %s: duplicate slug %q", path, p.Slug)
		}
		seen[p.Slug] = true
	}

	cats := pf.Categories
	if len(cats) == 0 {
		cats = DefaultCategories()
	}
	return pf.Predictions, cats, nil
}

// SlugSet returns the set of known prediction slugs, used to validate
// extracted data points.
func SlugSet(preds []types.TrackedPrediction) map[string]bool {
	set := make(map[string]bool, len(preds))
	for _, p := range preds {
		set[p.Slug] = true
	}
	return set
}

// DefaultPredictions is the built-in registry of tracked predictions about
// AI's labor-market impact. Slugs are stable; dashboards key on them.
func DefaultPredictions() []types.TrackedPrediction {
	return []types.TrackedPrediction{
		{
			Slug:        "entry-level-hiring",
			Title:       "AI reduces entry-level white-collar hiring",
			Description: "Hiring of early-career workers in AI-exposed occupations declines measurably.",
			Unit:        "percent change",
			Horizon:     "2027",
			Keywords: types.KeywordSet{
				Primary:   []string{"entry-level", "early-career", "new graduate hiring", "junior roles"},
				Secondary: []string{"hiring", "recruitment", "graduate", "internship"},
			},
		},
		{
			Slug:        "task-automation-share",
			Title:       "Half of work tasks become automatable",
			Description: "The share of current work tasks that AI systems can perform reaches 50%.",
			Unit:        "percent",
			Horizon:     "2030",
			Keywords: types.KeywordSet{
				Primary:   []string{"task automation", "automatable tasks", "occupational exposure", "task content"},
				Secondary: []string{"automation", "tasks", "exposure"},
			},
		},
		{
			Slug:        "wage-inequality",
			Title:       "AI widens wage inequality",
			Description: "Wage dispersion between AI-complemented and AI-substituted workers grows.",
			Unit:        "index",
			Horizon:     "2030",
			Keywords: types.KeywordSet{
				Primary:   []string{"wage inequality", "wage gap", "wage polarization", "skill premium"},
				Secondary: []string{"wage", "inequality", "income", "earnings"},
			},
		},
		{
			Slug:        "unemployment-rate",
			Title:       "AI-driven unemployment stays below historic shocks",
			Description: "Aggregate unemployment attributable to AI adoption remains under 2 points.",
			Unit:        "percent",
			Horizon:     "2030",
			Keywords: types.KeywordSet{
				Primary:   []string{"unemployment", "job losses", "technological unemployment"},
				Secondary: []string{"layoff", "layoffs", "displacement", "jobless"},
			},
		},
		{
			Slug:        "productivity-gains",
			Title:       "AI lifts measured labor productivity",
			Description: "Labor productivity growth accelerates in AI-adopting sectors.",
			Unit:        "percent per year",
			Horizon:     "2028",
			Keywords: types.KeywordSet{
				Primary:   []string{"labor productivity", "productivity gains", "productivity growth"},
				Secondary: []string{"productivity", "output per worker", "efficiency"},
			},
		},
		{
			Slug:        "reskilling-demand",
			Title:       "Reskilling demand doubles",
			Description: "Participation in retraining and reskilling programs doubles from the 2024 baseline.",
			Unit:        "index",
			Horizon:     "2029",
			Keywords: types.KeywordSet{
				Primary:   []string{"reskilling", "retraining", "upskilling"},
				Secondary: []string{"training", "skills", "workforce development"},
			},
		},
		{
			Slug:        "occupation-shift",
			Title:       "New AI-adjacent occupations absorb displaced workers",
			Description: "Employment in occupations that did not exist in 2023 offsets a third of displacement.",
			Unit:        "percent",
			Horizon:     "2032",
			Keywords: types.KeywordSet{
				Primary:   []string{"new occupations", "occupational change", "job creation"},
				Secondary: []string{"occupation", "reallocation", "transition"},
			},
		},
		{
			Slug:        "remote-work-ai",
			Title:       "AI erodes the remote-work wage premium",
			Description: "Remote-performable work is most exposed to AI substitution, compressing its premium.",
			Unit:        "percent",
			Horizon:     "2028",
			Keywords: types.KeywordSet{
				Primary:   []string{"remote work", "telework", "offshorable"},
				Secondary: []string{"remote", "work from home", "distributed teams"},
			},
		},
	}
}

// DefaultCategories groups predictions into digest buckets. The first
// matching category wins; items with no linked slug in any set land in the
// catch-all bucket the digest assembler appends.
func DefaultCategories() []types.Category {
	return []types.Category{
		{Name: "Hiring & Displacement", Slugs: []string{"entry-level-hiring", "unemployment-rate", "occupation-shift"}},
		{Name: "Automation & Tasks", Slugs: []string{"task-automation-share", "remote-work-ai"}},
		{Name: "Wages & Inequality", Slugs: []string{"wage-inequality", "productivity-gains"}},
		{Name: "Skills & Training", Slugs: []string{"reskilling-demand"}},
	}
}
