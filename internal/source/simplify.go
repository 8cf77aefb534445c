package source

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/amishk599/internwatch/internal/model"
)

const defaultSimplifyBaseURL = "https://simplify.jobs"

// Leading "Company • " / "Company – " prefix on Simplify listing cards.
var simplifyCompanyRegex = regexp.MustCompile(`^([A-Za-z0-9.&' -]{2,})\s+[•–-]\s+`)

// Simplify scrapes the simplify.jobs internships page. The page carries no
// category labels, so categories are inferred from titles via the rule table.
type Simplify struct {
	name    string
	client  *Client
	rules   []Rule
	baseURL string
}

// NewSimplify builds the Simplify page fetcher.
func NewSimplify(name string, client *Client) *Simplify {
	return &Simplify{
		name:    name,
		client:  client,
		rules:   DefaultRules,
		baseURL: defaultSimplifyBaseURL,
	}
}

func (s *Simplify) Name() string { return s.name }

// Fetch retrieves the internships page and extracts job links.
func (s *Simplify) Fetch(ctx context.Context) ([]model.Record, error) {
	html, err := s.client.Get(ctx, s.baseURL+"/internships", map[string]string{
		"Referer": s.baseURL + "/",
	})
	if err != nil {
		return nil, fmt.Errorf("simplify: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("simplify: parse html: %w", err)
	}

	var records []model.Record
	doc.Find("a[href*='/jobs/']").Each(func(_ int, a *goquery.Selection) {
		title := cleanText(a.Text())
		href, _ := a.Attr("href")
		if title == "" || href == "" {
			return
		}

		url := href
		if strings.HasPrefix(href, "/") {
			url = s.baseURL + href
		}

		company := ""
		if parent := a.Parent(); parent.Length() > 0 {
			if m := simplifyCompanyRegex.FindStringSubmatch(cleanText(parent.Text())); m != nil {
				company = strings.TrimSpace(m[1])
			}
		}

		// The page lists internships of every discipline; default to SWE
		// when the title gives no signal, as most unlabeled roles there are.
		records = append(records, model.Record{
			Category: Classify(s.rules, title, model.CategorySWE),
			Source:   model.SourceSimplify,
			Company:  company,
			Title:    title,
			URL:      url,
		})
	})

	return records, nil
}
