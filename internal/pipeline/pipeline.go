package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amishk599/internwatch/internal/config"
	"github.com/amishk599/internwatch/internal/dedupe"
	"github.com/amishk599/internwatch/internal/model"
)

// Pipeline owns one full scan cycle across all sources:
// fetch → filter → dedup → notify → mark seen.
type Pipeline struct {
	sources  []model.SourceFetcher
	filter   model.RecordFilter
	store    model.SeenStore
	notifier model.Notifier
	delivery config.Delivery
	logger   *slog.Logger
}

// New creates a pipeline wired with all its dependencies.
func New(
	sources []model.SourceFetcher,
	filter model.RecordFilter,
	store model.SeenStore,
	notifier model.Notifier,
	delivery config.Delivery,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		sources:  sources,
		filter:   filter,
		store:    store,
		notifier: notifier,
		delivery: delivery,
		logger:   logger,
	}
}

// Run executes one scan cycle. Sources are fetched sequentially; a failing
// source is logged and skipped so the rest still run. Run returns an error
// only when every source fails or the seen store breaks.
func (p *Pipeline) Run(ctx context.Context) error {
	count, err := p.store.Count()
	if err != nil {
		return fmt.Errorf("reading seen store: %w", err)
	}
	firstRun := count == 0

	var fetched, failed int
	withinRun := make(map[string]struct{})
	var fresh []model.Record

	for _, src := range p.sources {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		records, err := src.Fetch(ctx)
		if err != nil {
			p.logger.Error("source fetch failed",
				"source", src.Name(),
				"error", err,
			)
			failed++
			continue
		}
		fetched += len(records)

		for _, r := range records {
			if !p.filter.Match(r) {
				continue
			}

			key := dedupe.Key(r)
			// The same posting often appears twice within one scan
			// (cross-posted boards, duplicate table rows).
			if _, dup := withinRun[key]; dup {
				continue
			}
			withinRun[key] = struct{}{}

			seen, err := p.store.HasSeen(key)
			if err != nil {
				return fmt.Errorf("checking seen status: %w", err)
			}
			if !seen {
				fresh = append(fresh, r)
			}
		}
	}

	if len(p.sources) > 0 && failed == len(p.sources) {
		return fmt.Errorf("all %d sources failed", failed)
	}

	if firstRun {
		// Seed the store without notifying. Everything visible on the
		// very first scan is backlog, not news.
		for _, r := range fresh {
			if err := p.store.MarkSeen(dedupe.Key(r)); err != nil {
				return fmt.Errorf("seeding seen store: %w", err)
			}
		}
		p.logger.Info("first run, seeded seen store",
			"fetched", fetched,
			"seeded", len(fresh),
		)
		return nil
	}

	if len(fresh) == 0 {
		p.logger.Info("scan complete, nothing new",
			"fetched", fetched,
			"sources_failed", failed,
		)
		return nil
	}

	switch p.delivery {
	case config.DeliveryAtLeastOnce:
		// Mark only after a successful send. A failed send leaves the
		// records unmarked so the next cycle retries them; duplicates
		// are possible if the send half-succeeded.
		if err := p.notifier.Notify(fresh); err != nil {
			p.logger.Error("notification failed, postings will be retried next cycle",
				"new", len(fresh),
				"error", err,
			)
			return nil
		}
		if err := p.markAll(fresh); err != nil {
			return err
		}
	default:
		// At-most-once: mark first so a notify failure never causes a
		// repeat send. The failed batch is dropped.
		if err := p.markAll(fresh); err != nil {
			return err
		}
		if err := p.notifier.Notify(fresh); err != nil {
			p.logger.Error("notification failed, postings dropped",
				"new", len(fresh),
				"error", err,
			)
			return nil
		}
	}

	p.logger.Info("scan complete",
		"fetched", fetched,
		"new", len(fresh),
		"sources_failed", failed,
	)
	return nil
}

func (p *Pipeline) markAll(records []model.Record) error {
	for _, r := range records {
		if err := p.store.MarkSeen(dedupe.Key(r)); err != nil {
			return fmt.Errorf("marking seen: %w", err)
		}
	}
	return nil
}
