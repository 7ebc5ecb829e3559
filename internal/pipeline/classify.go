// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/pdiddy/laborwatch/pkg/types"
)

// tier1Venues are top peer-reviewed journals and government-statistics
// sources. Matched as substrings of the lower-cased venue name.
var tier1Venues = []string{
	"nature",
	"science",
	"american economic review",
	"quarterly journal of economics",
	"econometrica",
	"journal of political economy",
	"journal of labor economics",
	"review of economic studies",
	"bureau of labor statistics",
	"federal reserve",
	"congressional budget office",
	"oecd",
	"international labour organization",
}

// tier2Venues are think tanks, preprint servers, and industry research
// outlets.
var tier2Venues = []string{
	"nber",
	"arxiv",
	"ssrn",
	"osf preprints",
	"iza",
	"brookings",
	"rand",
	"pew research",
	"mckinsey global institute",
	"world economic forum",
	"upjohn institute",
}

// tier3Venues are major news outlets.
var tier3Venues = []string{
	"new york times",
	"washington post",
	"wall street journal",
	"financial times",
	"the economist",
	"bloomberg",
	"reuters",
	"associated press",
	"the atlantic",
	"mit technology review",
	"wired",
	"axios",
}

// researchDomains is the allow-list that lets informal-platform content earn
// tier 3 by linking to recognized research. The .edu and .gov top-level
// domains are accepted in addition to this list.
var researchDomains = []string{
	"arxiv.org",
	"nber.org",
	"ssrn.com",
	"doi.org",
	"osf.io",
	"oecd.org",
	"imf.org",
	"worldbank.org",
	"pewresearch.org",
	"brookings.edu",
	"iza.org",
	"semanticscholar.org",
	"openalex.org",
}

var linkPattern = regexp.MustCompile(`https?://[^\s<>"')\]]+`)

func venueMatches(venue string, list []string) bool {
	if venue == "" {
		return false
	}
	for _, v := range list {
		if strings.Contains(venue, v) {
			return true
		}
	}
	return false
}

// hasResearchLink reports whether an item's text or canonical URL points at
// a recognized research domain.
func hasResearchLink(it types.ResearchItem) bool {
	links := linkPattern.FindAllString(it.Title+" "+it.Abstract, -1)
	links = append(links, it.URL)
	for _, l := range links {
		u, err := url.Parse(l)
		if err != nil || u.Host == "" {
			continue
		}
		host := strings.ToLower(u.Hostname())
		if strings.HasSuffix(host, ".edu") || strings.HasSuffix(host, ".gov") {
			return true
		}
		for _, d := range researchDomains {
			if host == d || strings.HasSuffix(host, "."+d) {
				return true
			}
		}
	}
	return false
}

// ClassifyTier assigns the final 1-4 evidence tier. The decision table is
// evaluated top to bottom, first match wins:
//
//   - government filings are always tier 1
//   - informal platforms (forums, microblogs, web search) are tier 3 when the
//     item links to a recognized research domain, tier 4 otherwise; their
//     engagement counts never promote them past tier 3
//   - tier 1 on a top-venue match or >= 100 citations
//   - tier 2 on a think-tank/preprint venue match, >= 20 citations, or
//     job-postings data
//   - tier 3 on a news-outlet venue match
//   - default: tier 2 for academic sources, tier 3 otherwise
func ClassifyTier(it types.ResearchItem) int {
	venue := strings.ToLower(it.Venue)

	if it.SourceKind == types.SourceFederalRegister {
		return 1
	}
	if it.SourceKind.IsInformal() {
		if hasResearchLink(it) {
			return 3
		}
		return 4
	}
	if venueMatches(venue, tier1Venues) || it.CitationCount >= 100 {
		return 1
	}
	if venueMatches(venue, tier2Venues) || it.CitationCount >= 20 || it.SourceKind == types.SourceAdzuna {
		return 2
	}
	if venueMatches(venue, tier3Venues) {
		return 3
	}
	if it.SourceKind.IsAcademic() {
		return 2
	}
	return 3
}
