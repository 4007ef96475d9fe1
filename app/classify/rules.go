package classify

// DefaultSlug is assigned when no keyword group matches.
const DefaultSlug = "latest"

// DefaultRules is the category rule table used for ingested articles.
// Order matters: an article mentioning both a governor and the finance
// bill must land in politics, so politics precedes business.
func DefaultRules() []Rule {
	return []Rule{
		{Slug: "politics", Keywords: []string{
			"politics", "government", "governor", "parliament", "president",
			"senator", "cabinet", "election", "ruto", "azimio",
		}},
		{Slug: "sports", Keywords: []string{
			"sports", "football", "rugby", "athletics", "afcon",
			"harambee stars", "marathon",
		}},
		{Slug: "business", Keywords: []string{
			"business", "economy", "market", "finance", "shilling", "investor",
		}},
		{Slug: "entertainment", Keywords: []string{
			"entertainment", "celebrity", "music", "movie", "gossip",
		}},
		{Slug: "technology", Keywords: []string{
			"technology", "tech", "digital", "internet", "startup",
		}},
	}
}

// NewDefaultClassifier builds a classifier with the default rule table.
func NewDefaultClassifier() *Classifier {
	return NewClassifier(DefaultRules(), DefaultSlug)
}
