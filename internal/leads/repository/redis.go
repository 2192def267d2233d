package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"lead_dashboard_backend/internal/leads/domain"

	"github.com/redis/go-redis/v9"
)

// Redis stores the snapshot as one JSON document under key.
type Redis struct {
	client redis.UniversalClient
	key    string
}

// NewRedis returns a Redis snapshotter.
func NewRedis(client redis.UniversalClient, key string) *Redis {
	return &Redis{client: client, key: key}
}

func (r *Redis) Load(ctx context.Context) ([]domain.Lead, error) {
	raw, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []domain.Lead{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", r.key, err)
	}
	return decodeSnapshot(raw)
}

func (r *Redis) Save(ctx context.Context, leads []domain.Lead) error {
	raw, err := encodeSnapshot(leads)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", r.key, err)
	}
	return nil
}

func encodeSnapshot(leads []domain.Lead) ([]byte, error) {
	if leads == nil {
		leads = []domain.Lead{}
	}
	raw, err := json.Marshal(leads)
	if err != nil {
		return nil, fmt.Errorf("encode lead snapshot: %w", err)
	}
	return raw, nil
}

func decodeSnapshot(raw []byte) ([]domain.Lead, error) {
	leads := []domain.Lead{}
	if len(raw) == 0 {
		return leads, nil
	}
	if err := json.Unmarshal(raw, &leads); err != nil {
		return nil, fmt.Errorf("decode lead snapshot: %w", err)
	}
	return leads, nil
}
