package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/amishk599/internwatch/internal/pipeline"
)

// Scheduler owns the watch loop: ticks on an interval and runs one scan cycle per tick.
type Scheduler struct {
	pipeline *pipeline.Pipeline
	interval time.Duration
	logger   *slog.Logger
}

// NewScheduler creates a scheduler that scans all sources at the given interval.
func NewScheduler(p *pipeline.Pipeline, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		pipeline: p,
		interval: interval,
		logger:   logger,
	}
}

// Run starts the watch loop. It runs one immediate cycle, then ticks on the
// configured interval. A failed cycle is logged and the loop keeps going.
// It returns nil when ctx is cancelled (graceful shutdown).
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("starting scheduler",
		"interval", s.interval.String(),
	)

	// Run one immediate cycle.
	s.cycle(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down scheduler")
			return nil
		case <-time.After(s.interval):
			s.cycle(ctx)
		}
	}
}

func (s *Scheduler) cycle(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := s.pipeline.Run(ctx); err != nil {
		s.logger.Error("scan cycle failed", "error", err)
	}
}
