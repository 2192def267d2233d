// Package store owns the in-memory lead collection. Every mutation is
// applied to a private copy, persisted, and only then swapped in, so readers
// never observe partial state and a failed save leaves the collection as it was.
package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"lead_dashboard_backend/internal/events"
	"lead_dashboard_backend/internal/leads/domain"
	"lead_dashboard_backend/internal/leads/query"
	"lead_dashboard_backend/internal/leads/repository"
	"lead_dashboard_backend/platform/apperr"
	"lead_dashboard_backend/platform/logger"

	"github.com/google/uuid"
)

// SeedFunc supplies the initial collection when the snapshot is empty.
type SeedFunc func() ([]domain.Lead, error)

// Store is the single owner of the lead collection.
type Store struct {
	// writeMu serializes mutations end to end; mu guards the slice header
	// so readers are only blocked for the swap, not while saving.
	writeMu sync.Mutex
	mu      sync.RWMutex
	leads   []domain.Lead
	repo    repository.Snapshotter
	bus     events.Bus
	log     *logger.Logger
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates an empty store. Call Load before serving requests.
func New(repo repository.Snapshotter, bus events.Bus, log *logger.Logger, opts ...Option) *Store {
	if log == nil {
		log = logger.Discard()
	}
	s := &Store{
		leads: []domain.Lead{},
		repo:  repo,
		bus:   bus,
		log:   log,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the collection with the persisted snapshot. When the
// snapshot is empty and seed is non-nil, the seeded leads are persisted and used.
func (s *Store) Load(ctx context.Context, seed SeedFunc) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	leads, err := s.repo.Load(ctx)
	if err != nil {
		s.log.StoreError("load", err)
		return apperr.Wrap(apperr.KindInternal, "failed to load leads", err).WithOp("store.Load")
	}

	seeded := false
	if len(leads) == 0 && seed != nil {
		if leads, err = seed(); err != nil {
			return fmt.Errorf("seed leads: %w", err)
		}
		seeded = len(leads) > 0
	}

	if err := validateIDs(leads); err != nil {
		return err
	}

	if seeded {
		if err := s.repo.Save(ctx, leads); err != nil {
			s.log.StoreError("seed", err)
			return apperr.Wrap(apperr.KindInternal, "failed to persist seed leads", err).WithOp("store.Load")
		}
	}

	s.mu.Lock()
	s.leads = leads
	s.mu.Unlock()

	s.log.Info("leads loaded", "count", len(leads), "seeded", seeded)
	return nil
}

func validateIDs(leads []domain.Lead) error {
	seen := make(map[domain.LeadID]struct{}, len(leads))
	for i, lead := range leads {
		if lead.ID.IsZero() {
			return apperr.Validation(fmt.Sprintf("lead at position %d has no id", i)).WithOp("store.Load")
		}
		if _, dup := seen[lead.ID]; dup {
			return apperr.Conflict(fmt.Sprintf("duplicate lead id %q", lead.ID)).WithOp("store.Load")
		}
		seen[lead.ID] = struct{}{}
	}
	return nil
}

// Snapshot returns a copy of the whole collection in collection order.
func (s *Store) Snapshot() []domain.Lead {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CloneAll(s.leads)
}

// Get returns a copy of one lead.
func (s *Store) Get(id domain.LeadID) (domain.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lead, ok := query.FindByID(s.leads, id)
	if !ok {
		return domain.Lead{}, notFound(id, "store.Get")
	}
	return lead, nil
}

// Len returns the number of leads.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.leads)
}

// Add prepends lead to the collection. A missing id is generated; an id
// already present is a Conflict.
func (s *Store) Add(ctx context.Context, lead domain.Lead) (domain.Lead, error) {
	if lead.ID.IsZero() {
		lead.ID = domain.GenerateLeadID()
	}
	if !lead.Status.IsValid() {
		return domain.Lead{}, apperr.Validation(fmt.Sprintf("invalid status %q", lead.Status)).WithOp("store.Add")
	}

	var total int
	err := s.mutate(ctx, "add", func(leads []domain.Lead) ([]domain.Lead, error) {
		if _, exists := query.FindByID(leads, lead.ID); exists {
			return nil, apperr.Conflict(fmt.Sprintf("lead %q already exists", lead.ID)).WithOp("store.Add")
		}
		next := make([]domain.Lead, 0, len(leads)+1)
		next = append(next, lead.Clone())
		total = len(next)
		return append(next, leads...), nil
	})
	if err != nil {
		return domain.Lead{}, err
	}

	s.log.LeadMutation("add", lead.ID.String(), total)
	s.publish(ctx, events.LeadCreated{
		BaseEvent: events.NewBaseEventAt(s.now()),
		LeadID:    lead.ID.String(),
		Name:      lead.Name,
		Source:    lead.Source,
		Status:    string(lead.Status),
	})
	return lead.Clone(), nil
}

// UpdateStatus sets a lead's status and last-contacted time.
func (s *Store) UpdateStatus(ctx context.Context, id domain.LeadID, status domain.Status) (domain.Lead, error) {
	if !status.IsValid() {
		return domain.Lead{}, apperr.Validation(fmt.Sprintf("invalid status %q", status)).WithOp("store.UpdateStatus")
	}

	var (
		updated   domain.Lead
		oldStatus domain.Status
		total     int
	)
	err := s.mutate(ctx, "update_status", func(leads []domain.Lead) ([]domain.Lead, error) {
		current, ok := query.FindByID(leads, id)
		if !ok {
			return nil, notFound(id, "store.UpdateStatus")
		}
		oldStatus = current.Status
		updated, _ = query.UpdateStatus(leads, id, status, s.now())
		total = len(leads)
		return leads, nil
	})
	if err != nil {
		return domain.Lead{}, err
	}

	s.log.LeadMutation("update_status", updated.ID.String(), total)
	s.publish(ctx, events.LeadStatusChanged{
		BaseEvent: events.NewBaseEventAt(s.now()),
		LeadID:    updated.ID.String(),
		Name:      updated.Name,
		OldStatus: string(oldStatus),
		NewStatus: string(updated.Status),
	})
	return updated, nil
}

// AddNote appends a timeline note to a lead. The lead's notes field is not changed.
func (s *Store) AddNote(ctx context.Context, id domain.LeadID, author, content string) (domain.Note, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.Note{}, apperr.Validation("note content is required").WithOp("store.AddNote")
	}

	note := domain.Note{
		ID:        uuid.NewString(),
		Author:    strings.TrimSpace(author),
		Content:   content,
		Timestamp: s.now().UTC(),
	}

	var total int
	err := s.mutate(ctx, "add_note", func(leads []domain.Lead) ([]domain.Lead, error) {
		id = domain.NewLeadID(string(id))
		for i := range leads {
			if leads[i].ID == id {
				leads[i].NoteLog = append(leads[i].NoteLog, note)
				total = len(leads)
				return leads, nil
			}
		}
		return nil, notFound(id, "store.AddNote")
	})
	if err != nil {
		return domain.Note{}, err
	}

	s.log.LeadMutation("add_note", id.String(), total)
	s.publish(ctx, events.LeadNoteAdded{
		BaseEvent: events.NewBaseEventAt(s.now()),
		LeadID:    id.String(),
		NoteID:    note.ID,
		Author:    note.Author,
	})
	return note, nil
}

// mutate applies fn to a private copy of the collection, persists the
// result and swaps it in.
func (s *Store) mutate(ctx context.Context, operation string, fn func([]domain.Lead) ([]domain.Lead, error)) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next, err := fn(s.Snapshot())
	if err != nil {
		return err
	}

	if err := s.repo.Save(ctx, next); err != nil {
		s.log.StoreError(operation, err)
		return apperr.Wrap(apperr.KindInternal, "failed to save leads", err).WithOp("store." + operation)
	}

	s.mu.Lock()
	s.leads = next
	s.mu.Unlock()
	return nil
}

func (s *Store) publish(ctx context.Context, event events.Event) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, event)
}

func notFound(id domain.LeadID, op string) error {
	return apperr.NotFound(fmt.Sprintf("lead %q not found", id)).WithOp(op)
}
