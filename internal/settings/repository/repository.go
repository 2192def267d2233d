// Package repository persists the settings document as raw JSON under a key.
package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// DefaultKey names the single settings document of the dashboard.
const DefaultKey = "dashboard:settings"

// Repository loads and stores the raw settings document. Load returns nil
// when nothing has been saved yet.
type Repository interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, raw []byte) error
}

var (
	_ Repository = (*Memory)(nil)
	_ Repository = (*Redis)(nil)
	_ Repository = (*Postgres)(nil)
)

type Memory struct {
	mu  sync.RWMutex
	raw []byte
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load(_ context.Context) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.raw), nil
}

func (m *Memory) Save(_ context.Context, raw []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.raw = slices.Clone(raw)
	return nil
}

type Redis struct {
	client redis.UniversalClient
	key    string
}

func NewRedis(client redis.UniversalClient, key string) *Redis {
	if key == "" {
		key = DefaultKey
	}
	return &Redis{client: client, key: key}
}

func (r *Redis) Load(ctx context.Context) ([]byte, error) {
	raw, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return raw, nil
}

func (r *Redis) Save(ctx context.Context, raw []byte) error {
	if err := r.client.Set(ctx, r.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("set settings: %w", err)
	}
	return nil
}

// Postgres keeps the document in the dashboard_settings table.
type Postgres struct {
	pool *pgxpool.Pool
	key  string
}

func NewPostgres(pool *pgxpool.Pool, key string) *Postgres {
	if key == "" {
		key = DefaultKey
	}
	return &Postgres{pool: pool, key: key}
}

func (p *Postgres) Load(ctx context.Context) ([]byte, error) {
	var raw []byte
	err := p.pool.QueryRow(ctx, `
		SELECT payload
		FROM dashboard_settings
		WHERE settings_key = $1
	`, p.key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select settings: %w", err)
	}
	return raw, nil
}

func (p *Postgres) Save(ctx context.Context, raw []byte) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO dashboard_settings (settings_key, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (settings_key) DO UPDATE
		SET payload = EXCLUDED.payload,
			updated_at = EXCLUDED.updated_at
	`, p.key, raw)
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}
