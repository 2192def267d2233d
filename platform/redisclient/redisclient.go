// Package redisclient builds go-redis clients from configuration.
// This is part of the platform layer and contains no business logic.
package redisclient

import (
	"context"
	"crypto/tls"
	"fmt"

	"lead_dashboard_backend/platform/config"

	"github.com/redis/go-redis/v9"
)

// Options parses the configured URL and applies the TLS override.
func Options(cfg config.RedisConfig) (*redis.Options, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	if cfg.GetRedisTLSInsecure() {
		if opt.TLSConfig != nil {
			opt.TLSConfig = opt.TLSConfig.Clone()
			opt.TLSConfig.InsecureSkipVerify = true
		} else {
			opt.TLSConfig = &tls.Config{InsecureSkipVerify: true}
		}
	}
	return opt, nil
}

// New connects to Redis and verifies the connection with PING.
func New(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	opt, err := Options(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// HealthAdapter exposes a client as a readiness check.
type HealthAdapter struct {
	client redis.UniversalClient
}

func NewHealthAdapter(client redis.UniversalClient) *HealthAdapter {
	return &HealthAdapter{client: client}
}

func (a *HealthAdapter) Ping(ctx context.Context) error {
	return a.client.Ping(ctx).Err()
}
