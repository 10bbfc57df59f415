package scheduler

import (
	"context"
	"time"

	"evinstallers_backend/platform/logger"
)

const defaultOutreachInterval = 24 * time.Hour

// OutreachClient queues a daily outreach run.
type OutreachClient interface {
	EnqueueDailyOutreach(ctx context.Context, requestedBy string) error
}

// OutreachEnqueuer periodically queues the daily installer outreach task.
type OutreachEnqueuer struct {
	client   OutreachClient
	log      *logger.Logger
	interval time.Duration
}

func NewOutreachEnqueuer(client OutreachClient, log *logger.Logger, interval time.Duration) *OutreachEnqueuer {
	if interval <= 0 {
		interval = defaultOutreachInterval
	}

	return &OutreachEnqueuer{
		client:   client,
		log:      log,
		interval: interval,
	}
}

// Run enqueues on each tick until the context is cancelled. No enqueue on
// startup: a worker restart must not trigger an extra outreach email.
func (e *OutreachEnqueuer) Run(ctx context.Context) {
	if e == nil || e.client == nil {
		return
	}

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.enqueue(ctx)
		}
	}
}

func (e *OutreachEnqueuer) enqueue(ctx context.Context) {
	if err := e.client.EnqueueDailyOutreach(ctx, "scheduler"); err != nil {
		e.log.Warn("daily outreach enqueue failed", "error", err)
		return
	}

	e.log.Info("daily outreach enqueued")
}
