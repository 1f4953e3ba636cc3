package feed

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// refreshTimeout bounds one scheduled ingestion run.
const refreshTimeout = 5 * time.Minute

// Scheduler re-ingests a fixed set of feeds on a cron schedule. Safe to
// run repeatedly: ingestion is idempotent by slug.
type Scheduler struct {
	cron *cron.Cron
	log  *slog.Logger
}

// NewScheduler wires a cron entry that ingests urls into the given author
// and category. The schedule uses standard five-field cron syntax.
func NewScheduler(svc *Service, schedule string, urls []string, authorID, categoryID string, log *slog.Logger) (*Scheduler, error) {
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()

		result, err := svc.Ingest(ctx, urls, authorID, categoryID)
		if err != nil {
			log.ErrorContext(ctx, "scheduled feed refresh failed", slog.Any("error", err))
			return
		}
		log.InfoContext(ctx, "scheduled feed refresh completed",
			slog.Int("added", result.Added),
			slog.Int("updated", result.Updated),
			slog.Int("failed_feeds", len(result.Errors)),
		)
	})
	if err != nil {
		return nil, err
	}

	return &Scheduler{cron: c, log: log}, nil
}

// Start launches the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for a running job to finish, bounded by
// the given context.
func (s *Scheduler) Stop(ctx context.Context) error {
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
