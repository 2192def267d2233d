package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lead_dashboard_backend/internal/adapters"
	"lead_dashboard_backend/internal/adapters/storage"
	"lead_dashboard_backend/internal/backend"
	"lead_dashboard_backend/internal/email"
	"lead_dashboard_backend/internal/events"
	apphttp "lead_dashboard_backend/internal/http"
	"lead_dashboard_backend/internal/http/router"
	"lead_dashboard_backend/internal/leads"
	"lead_dashboard_backend/internal/leads/domain"
	"lead_dashboard_backend/internal/leads/repository"
	"lead_dashboard_backend/internal/leads/store"
	"lead_dashboard_backend/internal/notification"
	"lead_dashboard_backend/internal/scheduler"
	"lead_dashboard_backend/internal/settings"
	"lead_dashboard_backend/platform/config"
	"lead_dashboard_backend/platform/logger"
	"lead_dashboard_backend/platform/validator"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// ensureBucket wraps the retry logic for verifying a MinIO bucket exists.
func ensureBucket(ctx context.Context, log *logger.Logger, storageSvc storage.StorageService, name, bucket string) error {
	return backend.WithRetry(ctx, log, "ensure "+name+" bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx, bucket)
	})
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr, "storage", cfg.StorageDriver)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	persistence, err := backend.Open(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open storage backend", "error", err)
		panic("failed to open storage backend: " + err.Error())
	}
	defer persistence.Close()

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	leadStore := store.New(persistence.Leads, eventBus, log)
	if err := leadStore.Load(ctx, seedFunc(cfg.GetSeedFile())); err != nil {
		log.Error("failed to load leads", "error", err)
		panic("failed to load leads: " + err.Error())
	}

	storageSvc := initExportStorage(ctx, cfg, log)

	// ========================================================================
	// Domain Modules
	// ========================================================================

	settingsModule := settings.NewModule(persistence.Settings, eventBus, val, log)

	notificationModule := notification.New(initSender(cfg, log), cfg, log)
	notificationModule.SetPreferences(adapters.NewNotificationPreferencesAdapter(settingsModule.Service()))
	notificationModule.RegisterHandlers(eventBus)

	leadsModule, err := leads.NewModule(
		leadStore,
		adapters.NewDisplayPreferencesAdapter(settingsModule.Service()),
		storageSvc,
		val,
		cfg,
		log,
	)
	if err != nil {
		log.Error("failed to initialize leads module", "error", err)
		panic("failed to initialize leads module: " + err.Error())
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   persistence.Health,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			leadsModule,
			settingsModule,
			notificationModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	checker := scheduler.NewFollowUpChecker(leadStore, eventBus, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		runFollowUps(gctx, cfg, checker, log)
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
	}
	eventBus.Wait()
	log.Info("server stopped")
}

// runFollowUps processes the follow-up digest through the asynq worker when
// Redis is configured, otherwise through the in-process sweep.
func runFollowUps(ctx context.Context, cfg *config.Config, checker *scheduler.FollowUpChecker, log *logger.Logger) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; using in-process follow-up sweep", "interval", cfg.GetFollowUpSweepInterval())
		scheduler.NewFollowUpSweep(checker, log, cfg.GetFollowUpSweepInterval()).Run(ctx)
		return
	}

	worker, err := scheduler.NewWorker(cfg, checker, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker, falling back to sweep", "error", err)
		scheduler.NewFollowUpSweep(checker, log, cfg.GetFollowUpSweepInterval()).Run(ctx)
		return
	}
	worker.Run(ctx)
}

func seedFunc(path string) store.SeedFunc {
	if path == "" {
		return nil
	}
	return func() ([]domain.Lead, error) {
		return repository.LoadSeed(path)
	}
}

// initExportStorage returns nil when MinIO is not configured, which disables
// the export archive endpoint.
func initExportStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) storage.StorageService {
	if !cfg.IsMinIOEnabled() {
		log.Warn("MINIO_ENDPOINT not configured; export archive disabled")
		return nil
	}

	minioSvc, err := storage.NewMinIOService(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		return nil
	}
	if err := ensureBucket(ctx, log, minioSvc, "exports", cfg.GetMinioBucketExports()); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err, "bucket", cfg.GetMinioBucketExports())
		return nil
	}
	return minioSvc
}

func initSender(cfg config.SMTPConfig, log *logger.Logger) email.Sender {
	if !cfg.GetEmailEnabled() {
		log.Warn("SMTP not configured; follow-up digest e-mails disabled")
		return email.NoopSender{}
	}
	return email.NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	)
}
