package source

import (
	"regexp"
	"strings"
)

var (
	mdLinkRegex   = regexp.MustCompile(`\[(.*?)\]\(.*?\)`)
	firstURLRegex = regexp.MustCompile(`\((https?://[^)]+)\)`)
	companyRegex  = regexp.MustCompile(`\b(?:at|@)\s+([A-Za-z0-9.&' -]{2,})`)
)

// cleanText collapses whitespace (including non-breaking spaces) and trims.
func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}

// stripMarkdownLinks replaces [text](url) with text.
func stripMarkdownLinks(s string) string {
	return mdLinkRegex.ReplaceAllString(s, "$1")
}

// firstMarkdownURL extracts the first (https://...) URL from a markdown cell.
func firstMarkdownURL(s string) string {
	m := firstURLRegex.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return m[1]
}

// companyFromContext scans surrounding text for an "at Company" / "@ Company"
// pattern. Best effort; listing cards rarely label the company explicitly.
func companyFromContext(text string) string {
	m := companyRegex.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
