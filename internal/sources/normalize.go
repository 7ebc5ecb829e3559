// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/laborwatch/pkg/types"
)

// newHTTPClient builds the shared per-adapter client. The client timeout is
// a backstop; the fan-out adds its own per-call deadline.
func newHTTPClient(cfg types.HTTPConfig) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// topicQueries is the shared set of topical search strings. Adapters send
// these (or provider-specific forms of them) as their fixed query set.
var topicQueries = []string{
	"artificial intelligence labor market",
	"AI job displacement",
	"generative AI employment effects",
	"automation workforce impact",
	"large language models productivity workers",
}

// itemID builds the stable prefixed identifier for a provider-native ID.
// Repeated runs produce the same ID for the same underlying content.
func itemID(kind types.SourceKind, nativeID string) string {
	return fmt.Sprintf("%s-%s", kind, nativeID)
}

// NormalizeDOI lower-cases a DOI and strips any resolver prefix, so
// "https://doi.org/10.1/X" and "10.1/x" compare equal.
func NormalizeDOI(doi string) string {
	doi = strings.TrimSpace(strings.ToLower(doi))
	for _, prefix := range []string{
		"https://doi.org/",
		"http://doi.org/",
		"https://dx.doi.org/",
		"http://dx.doi.org/",
		"doi:",
	} {
		doi = strings.TrimPrefix(doi, prefix)
	}
	return doi
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// stripHTML removes markup from provider descriptions and collapses the
// remaining whitespace. Social platforms return post bodies as HTML.
func stripHTML(s string) string {
	s = tagPattern.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&quot;", `"`)
	s = strings.ReplaceAll(s, "&#39;", "'")
	return strings.Join(strings.Fields(s), " ")
}

// reconstructAbstract converts an inverted index (word -> positions) back to
// prose by ordering word tokens by their recorded positions. OpenAlex
// returns abstracts in this encoding.
func reconstructAbstract(inverted map[string][]int) string {
	if len(inverted) == 0 {
		return ""
	}

	type posWord struct {
		pos  int
		word string
	}
	var pairs []posWord
	for word, positions := range inverted {
		for _, pos := range positions {
			pairs = append(pairs, posWord{pos: pos, word: word})
		}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].pos < pairs[j].pos })

	words := make([]string, len(pairs))
	for i, p := range pairs {
		words[i] = p.word
	}
	return strings.Join(words, " ")
}

// parseDate tries the date layouts providers commonly return.
func parseDate(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006-01-02T15:04:05Z", "2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
