// Package dedupe derives the stable identity of a posting used for
// cross-run deduplication.
package dedupe

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"

	"github.com/amishk599/internwatch/internal/model"
)

// Key returns the dedupe key for a record: hex SHA-1 over
// company|title|url, with company and title lowercased and all three
// fields trimmed. Two postings with the same triple always collide;
// any URL change produces a fresh key.
func Key(r model.Record) string {
	company := strings.ToLower(strings.TrimSpace(r.Company))
	title := strings.ToLower(strings.TrimSpace(r.Title))
	url := strings.TrimSpace(r.URL)

	sum := sha1.Sum([]byte(company + "|" + title + "|" + url))
	return hex.EncodeToString(sum[:])
}
