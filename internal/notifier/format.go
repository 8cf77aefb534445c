package notifier

import (
	"strings"

	"github.com/amishk599/internwatch/internal/model"
)

const (
	// Twilio trims or rejects very long bodies depending on plan; stay well
	// under the concatenated-SMS ceiling.
	maxMessageLength = 1500

	messageHeader = "New internships:"
	messageFooter = "Reply STOP to opt out."
)

// FormatLine renders the one-line summary of a posting:
//
//	• [SWE] [InternList] Acme — SWE Intern — NYC
//
// Location and posted-date segments are omitted when empty.
func FormatLine(r model.Record) string {
	company := r.Company
	if company == "" {
		company = "Unknown Company"
	}

	var b strings.Builder
	b.WriteString("• [")
	b.WriteString(string(r.Category))
	b.WriteString("] [")
	b.WriteString(string(r.Source))
	b.WriteString("] ")
	b.WriteString(company)
	b.WriteString(" — ")
	b.WriteString(r.Title)
	if r.Location != "" {
		b.WriteString(" — ")
		b.WriteString(r.Location)
	}
	if r.Posted != "" {
		b.WriteString(" — ")
		b.WriteString(r.Posted)
	}
	return b.String()
}

// FormatEntry is the summary line followed by the listing URL.
func FormatEntry(r model.Record) string {
	return FormatLine(r) + "\n" + r.URL
}

// BuildMessages packs entries into SMS bodies. Entries are never split
// across messages; when one body fills up the remainder rolls into the
// next. The first body carries the header, the last the opt-out footer.
func BuildMessages(records []model.Record) []string {
	if len(records) == 0 {
		return nil
	}

	// Always leave room for the footer so the final append cannot overflow.
	limit := maxMessageLength - len(messageFooter) - 1

	var messages []string
	current := messageHeader
	entries := 0

	for _, r := range records {
		entry := FormatEntry(r)
		if entries > 0 && len(current)+1+len(entry) > limit {
			messages = append(messages, current)
			current = entry
			entries = 1
			continue
		}
		current += "\n" + entry
		entries++
	}

	messages = append(messages, current+"\n"+messageFooter)
	return messages
}
