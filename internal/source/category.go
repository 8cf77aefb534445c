package source

import (
	"strings"

	"github.com/amishk599/internwatch/internal/model"
)

// Rule maps title keywords to a category. First matching rule wins, so the
// table is ordered from most to least specific.
type Rule struct {
	Category model.Category
	Keywords []string
}

// DefaultRules is the keyword table used to classify titles from sources
// that carry no category of their own (Simplify, Pitt CSC). Deliberately a
// plain table rather than conditionals so it can be tested and extended
// without touching the classifier.
var DefaultRules = []Rule{
	{model.CategoryPM, []string{
		"product manager", "apm", "product management", "pm intern", "product intern",
	}},
	{model.CategoryDA, []string{
		"data analyst", "analytics", "business analyst", "data analysis",
	}},
	{model.CategoryMLAI, []string{
		"machine learning", " ml", "ml ", " ai", "artificial intelligence",
		"deep learning", "research scientist",
	}},
	{model.CategorySWE, []string{
		"software engineer", "swe", "backend", "front end", "frontend",
		"full stack", "mobile", "android", "ios",
	}},
}

// Classify returns the category for a title per the rule table, or fallback
// when no keyword matches. Matching is a case-insensitive substring check,
// which is why some ML keywords carry guard spaces.
func Classify(rules []Rule, title string, fallback model.Category) model.Category {
	t := strings.ToLower(title)
	for _, rule := range rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(t, kw) {
				return rule.Category
			}
		}
	}
	return fallback
}
