// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package relevance

// aiTerms and laborTerms drive the co-occurrence gate: an item must match at
// least one term from each list or its relevance is forced to zero. Terms of
// three characters or fewer are matched on word boundaries so "ai" does not
// match inside "said".
var aiTerms = []string{
	"ai",
	"llm",
	"artificial intelligence",
	"machine learning",
	"deep learning",
	"large language model",
	"language models",
	"generative ai",
	"foundation model",
	"chatgpt",
	"copilot",
	"neural network",
	"automation",
	"automated",
	"algorithmic",
	"robot",
}

var laborTerms = []string{
	"job",
	"jobs",
	"labor market",
	"labour market",
	"labor force",
	"labour force",
	"employment",
	"unemployment",
	"worker",
	"workforce",
	"wage",
	"salary",
	"occupation",
	"hiring",
	"layoff",
	"displacement",
	"reskilling",
	"upskilling",
	"skill demand",
	"productivity",
}

// highRelevanceTerms score +3 per match. Compound phrases keep generic AI
// papers from outranking genuine labor-economics work.
var highRelevanceTerms = []string{
	"job displacement",
	"job loss",
	"job losses",
	"technological unemployment",
	"labor market",
	"labour market",
	"wage",
	"wage inequality",
	"wage premium",
	"occupational exposure",
	"task automation",
	"automation risk",
	"workforce transition",
	"reskilling",
	"hiring",
	"layoff",
	"unemployment",
	"entry-level",
	"labor demand",
	"labor supply",
}

// mediumRelevanceTerms score +1 per match.
var mediumRelevanceTerms = []string{
	"artificial intelligence",
	"machine learning",
	"generative ai",
	"large language model",
	"automation",
	"chatgpt",
	"productivity",
	"worker",
	"workforce",
	"occupation",
	"employment",
	"skill",
}

// offTopicTerms mark vocabulary from unrelated domains (clinical, biological,
// physical-science). A single match excludes an item unless the labor-signal
// rescue applies.
var offTopicTerms = []string{
	"patient",
	"clinical",
	"tumor",
	"cancer",
	"oncology",
	"diagnosis",
	"radiology",
	"surgical",
	"disease",
	"genome",
	"genomic",
	"protein",
	"molecule",
	"molecular",
	"cell line",
	"in vitro",
	"quantum",
	"photon",
	"semiconductor",
	"particle physics",
	"astrophysics",
}

// laborSignals rescue an off-topic match: two distinct signals keep the item.
var laborSignals = []string{
	"labor market",
	"labour market",
	"labor economics",
	"wage",
	"wage inequality",
	"employment effect",
	"job displacement",
	"unemployment",
	"workforce",
	"occupation",
	"hiring",
	"task automation",
}
