package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/amishk599/internwatch/internal/model"
)

const defaultPittCSCURL = "https://raw.githubusercontent.com/SimplifyJobs/Summer2026-Internships/main/README.md"

// PittCSC parses the Pitt CSC / SimplifyJobs README markdown table.
// Columns are usually Company | Role | Location | Link, with an optional
// date/notes column. Rows without an extractable URL are skipped.
type PittCSC struct {
	name   string
	client *Client
	rules  []Rule
	url    string
}

// NewPittCSC builds the markdown table fetcher.
func NewPittCSC(name string, client *Client) *PittCSC {
	return &PittCSC{
		name:   name,
		client: client,
		rules:  DefaultRules,
		url:    defaultPittCSCURL,
	}
}

func (p *PittCSC) Name() string { return p.name }

// Fetch retrieves the raw README and parses its table rows.
func (p *PittCSC) Fetch(ctx context.Context) ([]model.Record, error) {
	md, err := p.client.Get(ctx, p.url, map[string]string{"Accept": "text/plain"})
	if err != nil {
		return nil, fmt.Errorf("pittcsc: %w", err)
	}
	return p.parse(md), nil
}

func (p *PittCSC) parse(md string) []model.Record {
	var records []model.Record
	for _, line := range strings.Split(md, "\n") {
		line = strings.TrimRight(line, " \r")
		if !strings.HasPrefix(line, "|") {
			continue
		}

		cols := splitTableRow(line)
		if len(cols) < 4 {
			continue
		}
		// Skip header and separator rows.
		first := strings.ToLower(cols[0])
		if first == "company" || strings.HasPrefix(first, "---") || first == "—" {
			continue
		}

		company := cleanText(stripMarkdownLinks(cols[0]))
		title := cleanText(stripMarkdownLinks(cols[1]))
		location := cleanText(cols[2])

		url := firstMarkdownURL(cols[3])
		if url == "" {
			continue
		}

		// Optional free-form date column.
		posted := ""
		if len(cols) >= 5 {
			if maybe := cleanText(cols[4]); maybe != "" && !strings.EqualFold(maybe, "notes") {
				posted = maybe
			}
		}

		records = append(records, model.Record{
			Category: Classify(p.rules, title, model.CategorySWE),
			Source:   model.SourcePittCSC,
			Company:  company,
			Title:    title,
			Location: location,
			URL:      url,
			Posted:   posted,
		})
	}
	return records
}

// splitTableRow splits a markdown table row into trimmed cells.
func splitTableRow(line string) []string {
	trimmed := strings.Trim(strings.TrimSpace(line), "|")
	parts := strings.Split(trimmed, "|")
	cols := make([]string, len(parts))
	for i, p := range parts {
		cols[i] = strings.TrimSpace(p)
	}
	return cols
}
