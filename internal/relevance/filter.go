// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package relevance implements the two-stage topic filter: an AI x labor
// co-occurrence gate with weighted scoring, and an off-topic domain exclusion
// with a labor-signal rescue. Scores are computed once at normalization time
// and reused by every later stage.
package relevance

import "strings"

// shortTermLen is the length at or below which terms are matched on word
// boundaries instead of plain substrings.
const shortTermLen = 3

// ContainsTerm reports whether lower-cased text contains term. Terms of
// three characters or fewer must sit on word boundaries; longer and
// multi-word terms use substring matching.
func ContainsTerm(text, term string) bool {
	if len(term) > shortTermLen {
		return strings.Contains(text, term)
	}
	for start := 0; ; {
		i := strings.Index(text[start:], term)
		if i < 0 {
			return false
		}
		at := start + i
		end := at + len(term)
		if (at == 0 || !isWordByte(text[at-1])) && (end == len(text) || !isWordByte(text[end])) {
			return true
		}
		start = at + 1
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if ContainsTerm(text, t) {
			return true
		}
	}
	return false
}

// Score computes the weighted relevance score for an item. A missing
// abstract is treated as empty, not as a failure. The score is zero unless
// the text matches at least one AI term and at least one labor term; when
// both match, high-relevance terms add 3 points each and medium-relevance
// terms add 1.
func Score(title, abstract string) int {
	text := strings.ToLower(title + " " + abstract)
	if !containsAny(text, aiTerms) || !containsAny(text, laborTerms) {
		return 0
	}

	score := 0
	for _, t := range highRelevanceTerms {
		if ContainsTerm(text, t) {
			score += 3
		}
	}
	for _, t := range mediumRelevanceTerms {
		if ContainsTerm(text, t) {
			score++
		}
	}
	return score
}

// IsOffTopic reports whether an item is dominated by unrelated-domain
// vocabulary. The venue joins the scan here (and only here). An off-topic
// match is forgiven when at least two distinct labor signals also match,
// so a paper mentioning "patient" alongside real labor-economics language
// survives.
func IsOffTopic(title, abstract, venue string) bool {
	text := strings.ToLower(title + " " + abstract + " " + venue)
	if !containsAny(text, offTopicTerms) {
		return false
	}

	signals := 0
	for _, t := range laborSignals {
		if ContainsTerm(text, t) {
			signals++
			if signals >= 2 {
				return false
			}
		}
	}
	return true
}
