package filter

import (
	"strings"

	"github.com/amishk599/internwatch/internal/model"
)

// TitleFilter keeps records whose title contains any include keyword and
// none of the exclude keywords. Matching is case-insensitive. An empty
// include list matches everything.
type TitleFilter struct {
	keywords        []string
	excludeKeywords []string
}

// NewTitleFilter returns a filter over posting titles. The default config
// includes only "intern", which drops the occasional full-time role that
// leaks into these listings.
func NewTitleFilter(keywords, excludeKeywords []string) *TitleFilter {
	return &TitleFilter{
		keywords:        keywords,
		excludeKeywords: excludeKeywords,
	}
}

// Match returns true if the title passes both keyword checks.
func (f *TitleFilter) Match(r model.Record) bool {
	title := strings.ToLower(r.Title)

	if len(f.keywords) > 0 {
		matched := false
		for _, kw := range f.keywords {
			if strings.Contains(title, strings.ToLower(kw)) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	for _, kw := range f.excludeKeywords {
		if strings.Contains(title, strings.ToLower(kw)) {
			return false
		}
	}

	return true
}
