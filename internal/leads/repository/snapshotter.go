// Package repository persists the lead collection as a single JSON snapshot.
// Every backend stores and returns the whole collection; the store decides
// what changes.
package repository

import (
	"context"
	"sync"

	"lead_dashboard_backend/internal/leads/domain"
)

// Snapshotter loads and saves the whole lead collection.
type Snapshotter interface {
	Load(ctx context.Context) ([]domain.Lead, error)
	Save(ctx context.Context, leads []domain.Lead) error
}

// Memory keeps the snapshot in process. It is the default backend for
// development and tests.
type Memory struct {
	mu    sync.Mutex
	leads []domain.Lead
	saves int
}

// NewMemory returns a Memory snapshotter holding a copy of initial.
func NewMemory(initial []domain.Lead) *Memory {
	return &Memory{leads: domain.CloneAll(initial)}
}

func (m *Memory) Load(_ context.Context) ([]domain.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.CloneAll(m.leads), nil
}

func (m *Memory) Save(_ context.Context, leads []domain.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leads = domain.CloneAll(leads)
	m.saves++
	return nil
}

// Saves reports how many times Save has been called.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

var (
	_ Snapshotter = (*Memory)(nil)
	_ Snapshotter = (*Redis)(nil)
	_ Snapshotter = (*Postgres)(nil)
)
