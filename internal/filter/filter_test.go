package filter

import (
	"testing"

	"github.com/amishk599/internwatch/internal/model"
)

func record(title string) model.Record {
	return model.Record{
		Category: model.CategorySWE,
		Source:   model.SourceInternList,
		Company:  "Acme",
		Title:    title,
		URL:      "https://x/1",
	}
}

func TestMatch_IncludeKeyword(t *testing.T) {
	f := NewTitleFilter([]string{"intern"}, nil)

	if !f.Match(record("Software Engineer Intern")) {
		t.Error("title with keyword should match")
	}
	if !f.Match(record("INTERNSHIP - Backend")) {
		t.Error("matching is case-insensitive")
	}
	if f.Match(record("Senior Software Engineer")) {
		t.Error("title without keyword should not match")
	}
}

func TestMatch_ExcludeKeyword(t *testing.T) {
	f := NewTitleFilter([]string{"intern"}, []string{"unpaid"})

	if f.Match(record("Unpaid Marketing Intern")) {
		t.Error("excluded keyword should reject")
	}
	if !f.Match(record("SWE Intern")) {
		t.Error("clean title should match")
	}
}

func TestMatch_EmptyIncludeMatchesAll(t *testing.T) {
	f := NewTitleFilter(nil, nil)
	if !f.Match(record("Anything At All")) {
		t.Error("empty include list should match all")
	}
}
