// Package backend opens the persistence backend selected by STORAGE_DRIVER
// and hands out the lead snapshotter and settings repository built on it.
package backend

import (
	"context"
	"errors"
	"fmt"
	"time"

	apphttp "lead_dashboard_backend/internal/http"
	leadrepo "lead_dashboard_backend/internal/leads/repository"
	settingsrepo "lead_dashboard_backend/internal/settings/repository"
	"lead_dashboard_backend/platform/config"
	"lead_dashboard_backend/platform/db"
	"lead_dashboard_backend/platform/logger"
	"lead_dashboard_backend/platform/redisclient"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Config combines what the backend needs to connect.
type Config interface {
	config.StorageConfig
	config.RedisConfig
	config.DatabaseConfig
}

// Backend holds the open connections for one storage driver.
type Backend struct {
	Driver   string
	Leads    leadrepo.Snapshotter
	Settings settingsrepo.Repository
	// Health is nil for the memory driver.
	Health apphttp.HealthChecker

	pool  *pgxpool.Pool
	redis *redis.Client
}

// Open connects to the configured driver, retrying transient failures.
func Open(ctx context.Context, cfg Config, log *logger.Logger) (*Backend, error) {
	b := &Backend{Driver: cfg.GetStorageDriver()}

	switch b.Driver {
	case config.StorageMemory:
		b.Leads = leadrepo.NewMemory(nil)
		b.Settings = settingsrepo.NewMemory()

	case config.StorageRedis:
		if err := WithRetry(ctx, log, "redis connection", 5, 2*time.Second, func() error {
			client, err := redisclient.New(ctx, cfg)
			if err != nil {
				return err
			}
			b.redis = client
			return nil
		}); err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		b.Leads = leadrepo.NewRedis(b.redis, cfg.GetSnapshotKey())
		b.Settings = settingsrepo.NewRedis(b.redis, settingsrepo.DefaultKey)
		b.Health = redisclient.NewHealthAdapter(b.redis)

	case config.StoragePostgres:
		if err := WithRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
			pool, err := db.NewPool(ctx, cfg)
			if err != nil {
				return err
			}
			b.pool = pool
			return nil
		}); err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		if err := db.RunMigrations(ctx, b.pool); err != nil {
			b.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		log.Info("database migrations complete")
		b.Leads = leadrepo.NewPostgres(b.pool, cfg.GetSnapshotKey())
		b.Settings = settingsrepo.NewPostgres(b.pool, settingsrepo.DefaultKey)
		b.Health = db.NewPoolAdapter(b.pool)

	default:
		return nil, fmt.Errorf("unknown storage driver %q", b.Driver)
	}

	log.Info("storage backend ready", "driver", b.Driver)
	return b, nil
}

// Close releases the connections.
func (b *Backend) Close() {
	if b.pool != nil {
		b.pool.Close()
	}
	if b.redis != nil {
		_ = b.redis.Close()
	}
}

// WithRetry runs fn up to attempts times with a quadratic backoff.
func WithRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
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
