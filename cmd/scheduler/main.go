package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"evinstallers_backend/internal/actionlog"
	"evinstallers_backend/internal/cron"
	"evinstallers_backend/internal/email"
	instrepo "evinstallers_backend/internal/installers/repository"
	leadrepo "evinstallers_backend/internal/leads/repository"
	"evinstallers_backend/internal/notification"
	"evinstallers_backend/internal/scheduler"
	"evinstallers_backend/platform/config"
	"evinstallers_backend/platform/db"
	"evinstallers_backend/platform/logger"
)

// The scheduler binary consumes the Redis task queue: delayed lead follow-ups
// and the daily outreach batch. It shares the database with the API server
// but registers no HTTP routes.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler worker", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	sender, err := email.NewSender(cfg)
	if err != nil {
		log.Error("failed to initialize email sender", "error", err)
		panic("failed to initialize email sender: " + err.Error())
	}

	recorder := actionlog.New(pool, log)
	notificationRepo := notification.NewRepository(pool)

	// No event bus in the worker; records and agent logs are enough.
	dispatcher := notification.NewDispatcher(sender, notificationRepo, nil, log, cfg.GetBaseURL())

	promoter := cron.NewPromoter(instrepo.New(pool), dispatcher, recorder)

	worker, err := scheduler.NewWorker(cfg, leadrepo.New(pool), dispatcher, promoter, recorder, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		panic("failed to initialize scheduler client: " + err.Error())
	}
	defer func() { _ = client.Close() }()

	outreach := scheduler.NewOutreachEnqueuer(client, log, cfg.GetOutreachInterval())
	go outreach.Run(ctx)

	log.Info("scheduler worker listening", "queue", cfg.GetAsynqQueueName())
	worker.Run(ctx)
	log.Info("scheduler worker stopped")
}
