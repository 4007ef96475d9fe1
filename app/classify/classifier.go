package classify

import (
	"strings"
)

// Rule maps a category slug to the keywords that select it. Rules are
// evaluated in order and the first rule with any matching keyword wins,
// so more specific groups must come before broader ones.
type Rule struct {
	Slug     string
	Keywords []string
}

type Classifier struct {
	rules        []Rule
	defaultSlug string
}

func NewClassifier(rules []Rule, defaultSlug string) *Classifier {
	return &Classifier{
		rules:       rules,
		defaultSlug: defaultSlug,
	}
}

// Run returns the category slug for the given title and description.
// It is total over any input: when no rule matches, the default slug
// is returned.
func (c *Classifier) Run(title, description string) string {
	text := strings.ToLower(title + " " + description)

	for _, rule := range c.rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(text, keyword) {
				return rule.Slug
			}
		}
	}

	return c.defaultSlug
}

// Rules returns the active rule table, primarily for inspection endpoints.
func (c *Classifier) Rules() []Rule {
	return c.rules
}
