package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"evinstallers_backend/internal/actionlog"
	"evinstallers_backend/internal/auth"
	"evinstallers_backend/internal/cron"
	"evinstallers_backend/internal/email"
	apphttp "evinstallers_backend/internal/http"
	"evinstallers_backend/internal/http/router"
	"evinstallers_backend/internal/installers"
	"evinstallers_backend/internal/leads"
	leadsvc "evinstallers_backend/internal/leads/service"
	"evinstallers_backend/internal/notification"
	"evinstallers_backend/internal/scheduler"
	"evinstallers_backend/platform/config"
	"evinstallers_backend/platform/db"
	"evinstallers_backend/platform/events"
	"evinstallers_backend/platform/logger"
	"evinstallers_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	sender, err := email.NewSender(cfg)
	if err != nil {
		log.Error("failed to initialize email sender", "error", err)
		panic("failed to initialize email sender: " + err.Error())
	}
	log.Info("email sender initialized", "provider", sender.Provider())

	followUpScheduler, closeScheduler := initFollowUpScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	recorder := actionlog.New(pool, log)
	recorder.RegisterHandlers(eventBus)
	logRepo := actionlog.NewRepository(pool)

	notificationRepo := notification.NewRepository(pool)
	dispatcher := notification.NewDispatcher(sender, notificationRepo, eventBus, log, cfg.GetBaseURL())

	installersModule := installers.NewModule(pool, val)

	leadsModule := leads.NewModule(
		pool,
		installersModule.Service(),
		dispatcher,
		followUpScheduler,
		recorder,
		eventBus,
		val,
		log,
		cfg.GetMatchLimit(),
	)

	authModule := auth.NewModule(cfg, val)

	gate := cron.NewGate(cfg.GetCronSecret())
	auditor := cron.NewAuditor(cfg.GetBaseURL(), recorder)
	promoter := cron.NewPromoter(installersModule.Repository(), dispatcher, recorder)
	analyst := cron.NewAnalyst(leadsModule.Repository(), notificationRepo, recorder, sender, cfg.GetAdminReportEmail())
	cronModule := cron.NewModule(gate, auditor, promoter, analyst)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			leadsModule,
			installersModule,
			cronModule,
			actionlog.NewHTTPModule(logRepo),
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initFollowUpScheduler returns a nil scheduler when Redis is not configured;
// the lead pipeline treats that as "no follow-ups".
func initFollowUpScheduler(cfg config.SchedulerConfig, log *logger.Logger) (leadsvc.FollowUpScheduler, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; lead follow-ups disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize follow-up scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
