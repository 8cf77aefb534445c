package notifier

import (
	"log/slog"

	"github.com/amishk599/internwatch/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes new postings to the given logger as structured messages.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each posting via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs each posting with category, source, company, title, location,
// and URL. Returns nil (stdout logging does not fail).
func (n *LogNotifier) Notify(records []model.Record) error {
	for _, r := range records {
		args := []any{
			"category", r.Category,
			"source", r.Source,
			"company", r.Company,
			"title", r.Title,
			"url", r.URL,
		}
		if r.Location != "" {
			args = append(args, "location", r.Location)
		}
		n.logger.Info("new posting", args...)
	}
	return nil
}
