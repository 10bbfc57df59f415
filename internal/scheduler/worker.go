package scheduler

import (
	"context"
	"fmt"

	"evinstallers_backend/internal/actionlog"
	"evinstallers_backend/internal/cron"
	leadrepo "evinstallers_backend/internal/leads/repository"
	"evinstallers_backend/internal/notification"
	"evinstallers_backend/platform/apperr"
	"evinstallers_backend/platform/config"
	"evinstallers_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// FollowUpSender delivers the follow-up email for a lead.
type FollowUpSender interface {
	SendFollowUp(ctx context.Context, lead leadrepo.Lead) notification.Record
}

// LeadReader loads leads for follow-up checks.
type LeadReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (leadrepo.Lead, error)
}

type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	leads    LeadReader
	sender   FollowUpSender
	promoter *cron.Promoter
	actions  *actionlog.Recorder
	log      *logger.Logger
}

func NewWorker(
	cfg config.SchedulerConfig,
	leads LeadReader,
	sender FollowUpSender,
	promoter *cron.Promoter,
	actions *actionlog.Recorder,
	log *logger.Logger,
) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:   server,
		mux:      mux,
		leads:    leads,
		sender:   sender,
		promoter: promoter,
		actions:  actions,
		log:      log,
	}

	mux.HandleFunc(TaskLeadFollowUp, w.handleLeadFollowUp)
	mux.HandleFunc(TaskDailyOutreach, w.handleDailyOutreach)

	return w, nil
}

// handleLeadFollowUp re-checks the lead at execution time: a lead that was
// contacted or closed in the meantime gets no nudge.
func (w *Worker) handleLeadFollowUp(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseLeadFollowUpPayload(task)
	if err != nil {
		return err
	}

	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return err
	}

	lead, err := w.leads.GetByID(ctx, leadID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			w.log.Warn("follow-up for unknown lead", "leadId", leadID)
			return nil
		}
		return err
	}

	if lead.Status != leadrepo.StatusNew && lead.Status != leadrepo.StatusMatched {
		return nil
	}

	record := w.sender.SendFollowUp(ctx, lead)
	w.actions.Log(ctx, actionlog.AgentScheduler, "follow_up", followUpStatus(record), map[string]any{
		"leadId": leadID.String(),
		"sent":   record.Status == notification.StatusSent,
	})

	return nil
}

func (w *Worker) handleDailyOutreach(ctx context.Context, task *asynq.Task) error {
	if _, err := ParseDailyOutreachPayload(task); err != nil {
		return err
	}

	_, err := w.promoter.Run(ctx)
	return err
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func followUpStatus(record notification.Record) string {
	if record.Status == notification.StatusSent {
		return actionlog.StatusSuccess
	}
	return actionlog.StatusWarning
}
