// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package relevance

import "testing"

func TestContainsTermShortTermsNeedBoundaries(t *testing.T) {
	tests := []struct {
		name string
		text string
		term string
		want bool
	}{
		{"ai inside said", "he said hello", "ai", false},
		{"ai standalone", "ai and the economy", "ai", true},
		{"ai at start", "ai reshapes work", "ai", true},
		{"ai at end", "the rise of ai", "ai", true},
		{"ai with punctuation", "impacts of ai, revisited", "ai", true},
		{"job inside jobless", "jobless recovery", "job", false},
		{"long term substring", "antiwage sentiment", "wage", true},
		{"multi-word phrase", "the labor market tightened", "labor market", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsTerm(tt.text, tt.term); got != tt.want {
				t.Errorf("ContainsTerm(%q, %q) = %v, want %v", tt.text, tt.term, got, tt.want)
			}
		})
	}
}

func TestScoreRequiresBothDomains(t *testing.T) {
	// A clinical paper with no AI or labor vocabulary scores zero.
	got := Score("New Treatment Reduces Cardiac Mortality in Diabetic Patients", "")
	if got != 0 {
		t.Errorf("clinical title scored %d, want 0", got)
	}

	// AI-only text scores zero.
	if got := Score("Scaling laws for large language models", ""); got != 0 {
		t.Errorf("AI-only title scored %d, want 0", got)
	}

	// Labor-only text scores zero.
	if got := Score("Minimum wage effects on teen employment", ""); got != 0 {
		t.Errorf("labor-only title scored %d, want 0", got)
	}
}

func TestScoreWeightsHighOverMedium(t *testing.T) {
	base := Score("AI and employment", "")
	if base <= 0 {
		t.Fatalf("co-occurring title scored %d, want > 0", base)
	}

	rich := Score("AI and job displacement in the labor market", "wage effects for workers")
	if rich <= base {
		t.Errorf("high-relevance phrases scored %d, want > %d", rich, base)
	}
}

func TestScoreMissingAbstract(t *testing.T) {
	withEmpty := Score("Generative AI and the labor market", "")
	if withEmpty == 0 {
		t.Error("missing abstract should not force score to zero")
	}
}

func TestIsOffTopicExcludesClinical(t *testing.T) {
	if !IsOffTopic("Deep learning for tumor segmentation", "clinical validation on patient scans", "Radiology AI") {
		t.Error("clinical AI paper should be off-topic")
	}
}

func TestIsOffTopicRescuedByLaborSignals(t *testing.T) {
	// One off-topic term, two distinct labor signals: kept.
	off := IsOffTopic(
		"AI triage and the patient intake workforce",
		"we study labor market outcomes and wage inequality for intake clerks",
		"",
	)
	if off {
		t.Error("two labor signals should rescue an off-topic match")
	}
}

func TestIsOffTopicSingleSignalNotEnough(t *testing.T) {
	off := IsOffTopic(
		"Protein folding with transformers",
		"we discuss workforce implications briefly",
		"",
	)
	if !off {
		t.Error("one labor signal should not rescue an off-topic match")
	}
}

func TestIsOffTopicCleanItem(t *testing.T) {
	if IsOffTopic("Generative AI and occupational exposure", "task-level analysis of jobs", "NBER") {
		t.Error("on-topic item flagged off-topic")
	}
}
