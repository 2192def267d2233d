package repository

import (
	"context"
	"errors"
	"fmt"

	"lead_dashboard_backend/internal/leads/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres stores the snapshot as a jsonb payload in lead_snapshots, one row
// per key.
type Postgres struct {
	pool *pgxpool.Pool
	key  string
}

// NewPostgres returns a Postgres snapshotter. The schema is created by
// db.RunMigrations.
func NewPostgres(pool *pgxpool.Pool, key string) *Postgres {
	return &Postgres{pool: pool, key: key}
}

func (p *Postgres) Load(ctx context.Context) ([]domain.Lead, error) {
	var raw []byte
	err := p.pool.QueryRow(ctx, `
		SELECT payload
		FROM lead_snapshots
		WHERE snapshot_key = $1
	`, p.key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return []domain.Lead{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select lead snapshot: %w", err)
	}
	return decodeSnapshot(raw)
}

func (p *Postgres) Save(ctx context.Context, leads []domain.Lead) error {
	raw, err := encodeSnapshot(leads)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO lead_snapshots (snapshot_key, payload, lead_count, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (snapshot_key) DO UPDATE
		SET payload = EXCLUDED.payload,
			lead_count = EXCLUDED.lead_count,
			updated_at = EXCLUDED.updated_at
	`, p.key, raw, len(leads))
	if err != nil {
		return fmt.Errorf("upsert lead snapshot: %w", err)
	}
	return nil
}
