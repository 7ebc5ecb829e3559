// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"strings"

	"github.com/pdiddy/laborwatch/pkg/types"
)

// titleKeyLen truncates normalized title keys so trailing subtitle variation
// ("... : evidence from US firms") does not defeat matching.
const titleKeyLen = 60

// titleKey normalizes a title for fuzzy duplicate grouping: lower-case,
// alphanumerics only, fixed-length prefix.
func titleKey(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
		if b.Len() >= titleKeyLen {
			break
		}
	}
	return b.String()
}

// Dedup collapses near-duplicate records across providers. DOI grouping is
// authoritative: within a DOI group the highest-citation copy survives.
// Title-key grouping is a fuzzy fallback applied only to DOI-less items, and
// a title survivor is dropped when its key already belongs to a DOI survivor,
// so a duplicate that carried a DOI on one copy is never re-added.
//
// Input order is preserved and the function is idempotent: running it on its
// own output changes nothing.
func Dedup(items []types.ResearchItem) []types.ResearchItem {
	doiBest := make(map[string]int)
	for i, it := range items {
		if it.DOI == "" {
			continue
		}
		if j, ok := doiBest[it.DOI]; !ok || it.CitationCount > items[j].CitationCount {
			doiBest[it.DOI] = i
		}
	}

	doiTitles := make(map[string]bool)
	for _, i := range doiBest {
		if k := titleKey(items[i].Title); k != "" {
			doiTitles[k] = true
		}
	}

	keep := make(map[int]bool, len(items))
	for _, i := range doiBest {
		keep[i] = true
	}

	titleBest := make(map[string]int)
	for i, it := range items {
		if it.DOI != "" {
			continue
		}
		k := titleKey(it.Title)
		if k == "" {
			// No DOI and no usable title: nothing to group on.
			keep[i] = true
			continue
		}
		if doiTitles[k] {
			continue
		}
		if j, ok := titleBest[k]; !ok || it.CitationCount > items[j].CitationCount {
			titleBest[k] = i
		}
	}
	for _, i := range titleBest {
		keep[i] = true
	}

	out := make([]types.ResearchItem, 0, len(keep))
	for i, it := range items {
		if keep[i] {
			out = append(out, it)
		}
	}
	return out
}
