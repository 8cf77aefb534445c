package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/amishk599/internwatch/internal/model"
)

const defaultInternListBaseURL = "https://www.intern-list.com"

// mlSlugCandidates are fallbacks when nav discovery fails. The site has
// renamed its ML/AI section more than once.
var mlSlugCandidates = []string{
	"data-science-internships",
	"ml-intern-list",
	"ai-intern-list",
	"machine-learning-internships",
	"data-science-intern-list",
}

// InternList scrapes one category page of intern-list.com. The selectors are
// tied to the site's current markup and expected to need adjusting when it
// changes; a structural miss yields zero records, not an error.
type InternList struct {
	name     string
	slug     string // empty for ML/AI until discovered
	category model.Category
	client   *Client
	baseURL  string
}

// NewInternList builds a fetcher for the given category key
// ("swe", "da", "ml" or "pm"). The ML/AI page slug is discovered from the
// homepage nav on first fetch because the site keeps renaming it.
func NewInternList(name, categoryKey string, client *Client) (*InternList, error) {
	s := &InternList{
		name:    name,
		client:  client,
		baseURL: defaultInternListBaseURL,
	}
	switch categoryKey {
	case "swe":
		s.slug, s.category = "swe-intern-list", model.CategorySWE
	case "da":
		s.slug, s.category = "da-intern-list", model.CategoryDA
	case "ml":
		s.slug, s.category = "", model.CategoryMLAI
	case "pm":
		s.slug, s.category = "pm-intern-list", model.CategoryPM
	default:
		return nil, fmt.Errorf("intern list: unknown category key %q", categoryKey)
	}
	return s, nil
}

func (s *InternList) Name() string { return s.name }

// Fetch retrieves the category page and extracts listing links.
func (s *InternList) Fetch(ctx context.Context) ([]model.Record, error) {
	if s.slug != "" {
		return s.fetchSlug(ctx, s.slug)
	}

	// ML/AI: try the discovered slug first, then the known fallbacks.
	var lastErr error
	tried := make(map[string]bool)
	for _, slug := range append(s.discoverMLSlugs(ctx), mlSlugCandidates...) {
		if slug == "" || tried[slug] {
			continue
		}
		tried[slug] = true
		records, err := s.fetchSlug(ctx, slug)
		if err != nil {
			lastErr = err
			continue
		}
		s.slug = slug // remember for the next run
		return records, nil
	}
	return nil, fmt.Errorf("intern list ml/ai: no working slug: %w", lastErr)
}

func (s *InternList) fetchSlug(ctx context.Context, slug string) ([]model.Record, error) {
	html, err := s.client.Get(ctx, s.baseURL+"/"+slug, nil)
	if err != nil {
		return nil, fmt.Errorf("intern list %s: %w", slug, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("intern list %s: parse html: %w", slug, err)
	}

	var records []model.Record
	// Listing/detail links live under the category path.
	doc.Find("a[href^='/" + slug + "/']").Each(func(_ int, a *goquery.Selection) {
		title := cleanText(a.Text())
		href, _ := a.Attr("href")
		if title == "" || href == "" {
			return
		}

		url := href
		if strings.HasPrefix(href, "/") {
			url = s.baseURL + href
		}

		// Best-effort company extraction from the surrounding card text.
		company := ""
		if parent := a.Parent(); parent.Length() > 0 {
			company = companyFromContext(cleanText(parent.Text()))
		}

		records = append(records, model.Record{
			Category: s.category,
			Source:   model.SourceInternList,
			Company:  company,
			Title:    title,
			URL:      url,
		})
	})

	return records, nil
}

// discoverMLSlugs scans the homepage nav for a link that looks like the
// ML/AI category page.
func (s *InternList) discoverMLSlugs(ctx context.Context) []string {
	html, err := s.client.Get(ctx, s.baseURL+"/", nil)
	if err != nil {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var slugs []string
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !strings.HasPrefix(href, "/") {
			return
		}
		text := strings.ToLower(cleanText(a.Text()))
		for _, kw := range []string{"machine learning", "ml", "ai"} {
			if strings.Contains(text, kw) {
				slugs = append(slugs, strings.Trim(href, "/"))
				return
			}
		}
	})
	return slugs
}
