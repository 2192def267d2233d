package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lead_dashboard_backend/internal/scheduler"
	"lead_dashboard_backend/platform/config"
	"lead_dashboard_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env, "cron", cfg.GetFollowUpDigestCron())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.GetRedisURL() == "" {
		panic("REDIS_URL is required for the scheduler")
	}

	periodic, err := scheduler.NewPeriodicScheduler(cfg, log)
	if err != nil {
		log.Error("failed to initialize periodic scheduler", "error", err)
		panic("failed to initialize periodic scheduler: " + err.Error())
	}

	if err := periodic.Start(); err != nil {
		log.Error("failed to start periodic scheduler", "error", err)
		panic("failed to start periodic scheduler: " + err.Error())
	}

	if cfg.GetFollowUpDigestOnStart() {
		enqueueNow(ctx, cfg, log)
	}

	<-ctx.Done()
	log.Info("shutdown signal received, stopping scheduler")
	periodic.Shutdown()
}

func enqueueNow(ctx context.Context, cfg config.SchedulerConfig, log *logger.Logger) {
	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		return
	}
	defer func() { _ = client.Close() }()

	if err := client.EnqueueFollowUpDigest(ctx, time.Now()); err != nil {
		log.Error("failed to enqueue follow-up digest", "error", err)
		return
	}
	log.Info("follow-up digest enqueued on start")
}
