package notifier

import (
	"strings"
	"testing"

	"github.com/amishk599/internwatch/internal/model"
)

func TestFormatLine_AllFields(t *testing.T) {
	r := model.Record{
		Category: model.CategorySWE,
		Source:   model.SourceInternList,
		Company:  "Acme",
		Title:    "SWE Intern",
		Location: "NYC",
		URL:      "https://x/1",
	}
	want := "• [SWE] [InternList] Acme — SWE Intern — NYC"
	if got := FormatLine(r); got != want {
		t.Errorf("FormatLine:\n got  %q\n want %q", got, want)
	}
}

func TestFormatLine_NoLocation(t *testing.T) {
	r := model.Record{
		Category: model.CategorySWE,
		Source:   model.SourceInternList,
		Company:  "Acme",
		Title:    "SWE Intern",
		URL:      "https://x/1",
	}
	want := "• [SWE] [InternList] Acme — SWE Intern"
	if got := FormatLine(r); got != want {
		t.Errorf("FormatLine:\n got  %q\n want %q", got, want)
	}
}

func TestFormatLine_PostedDate(t *testing.T) {
	r := model.Record{
		Category: model.CategoryDA,
		Source:   model.SourcePittCSC,
		Company:  "Globex",
		Title:    "Data Analyst Intern",
		Location: "Remote",
		Posted:   "Aug 20",
	}
	want := "• [DataAnalysis] [PittCSC] Globex — Data Analyst Intern — Remote — Aug 20"
	if got := FormatLine(r); got != want {
		t.Errorf("FormatLine:\n got  %q\n want %q", got, want)
	}
}

func TestFormatLine_MissingCompany(t *testing.T) {
	r := model.Record{
		Category: model.CategorySWE,
		Source:   model.SourceSimplify,
		Title:    "SWE Intern",
	}
	if got := FormatLine(r); !strings.Contains(got, "Unknown Company") {
		t.Errorf("FormatLine = %q, want Unknown Company placeholder", got)
	}
}

func TestFormatEntry_URLOnNextLine(t *testing.T) {
	r := model.Record{
		Category: model.CategorySWE,
		Source:   model.SourceInternList,
		Company:  "Acme",
		Title:    "SWE Intern",
		URL:      "https://x/1",
	}
	want := "• [SWE] [InternList] Acme — SWE Intern\nhttps://x/1"
	if got := FormatEntry(r); got != want {
		t.Errorf("FormatEntry:\n got  %q\n want %q", got, want)
	}
}

func TestBuildMessages_Empty(t *testing.T) {
	if got := BuildMessages(nil); got != nil {
		t.Errorf("BuildMessages(nil) = %v, want nil", got)
	}
}

func TestBuildMessages_SingleMessage(t *testing.T) {
	records := []model.Record{
		{Category: model.CategorySWE, Source: model.SourceInternList, Company: "Acme", Title: "SWE Intern", URL: "https://x/1"},
		{Category: model.CategoryPM, Source: model.SourceSimplify, Company: "Hooli", Title: "PM Intern", URL: "https://x/2"},
	}

	messages := BuildMessages(records)
	if len(messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(messages))
	}

	msg := messages[0]
	if !strings.HasPrefix(msg, "New internships:\n") {
		t.Errorf("message missing header: %q", msg)
	}
	if !strings.HasSuffix(msg, "\nReply STOP to opt out.") {
		t.Errorf("message missing footer: %q", msg)
	}
	if !strings.Contains(msg, "Acme — SWE Intern\nhttps://x/1") {
		t.Errorf("message missing first entry: %q", msg)
	}

	// Entries keep input order.
	if strings.Index(msg, "Acme") > strings.Index(msg, "Hooli") {
		t.Error("entries out of order")
	}
}

func TestBuildMessages_SplitsOnLimitWithoutBreakingEntries(t *testing.T) {
	long := strings.Repeat("x", 400)
	var records []model.Record
	for i := 0; i < 10; i++ {
		records = append(records, model.Record{
			Category: model.CategorySWE,
			Source:   model.SourceInternList,
			Company:  "Acme",
			Title:    long,
			URL:      "https://x/1",
		})
	}

	messages := BuildMessages(records)
	if len(messages) < 2 {
		t.Fatalf("messages = %d, want a split", len(messages))
	}
	for i, msg := range messages {
		if len(msg) > maxMessageLength {
			t.Errorf("message %d length = %d, exceeds cap", i, len(msg))
		}
		// Every entry stays intact: its line is always followed by its URL.
		if strings.Count(msg, long) != strings.Count(msg, "https://x/1") {
			t.Errorf("message %d split an entry from its URL", i)
		}
	}
	if !strings.HasSuffix(messages[len(messages)-1], messageFooter) {
		t.Error("footer missing from last message")
	}
	for i, msg := range messages[:len(messages)-1] {
		if strings.Contains(msg, messageFooter) {
			t.Errorf("footer leaked into message %d", i)
		}
	}
}
