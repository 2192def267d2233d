package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"lead_dashboard_backend/internal/events"
	"lead_dashboard_backend/internal/leads/domain"
	"lead_dashboard_backend/internal/leads/repository"
	"lead_dashboard_backend/platform/apperr"
	"lead_dashboard_backend/platform/logger"
)

var fixedNow = time.Date(2023, 11, 26, 10, 0, 0, 0, time.UTC)

type failingSnapshotter struct {
	repository.Snapshotter
	fail bool
}

func (f *failingSnapshotter) Save(ctx context.Context, leads []domain.Lead) error {
	if f.fail {
		return errors.New("disk full")
	}
	return f.Snapshotter.Save(ctx, leads)
}

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Handle(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.EventName()
	}
	return out
}

func seedLeads() []domain.Lead {
	return []domain.Lead{
		{ID: "1", Name: "Rahul", Status: domain.StatusNew, Created: domain.ParseTimestamp("2023-11-25")},
		{ID: "2", Name: "Priya", Status: domain.StatusContacted, Created: domain.ParseTimestamp("2023-11-24")},
	}
}

func newTestStore(t *testing.T, repo repository.Snapshotter) (*Store, *events.InMemoryBus, *recorder) {
	t.Helper()
	bus := events.NewInMemoryBus(logger.Discard())
	rec := &recorder{}
	for _, name := range []string{
		events.LeadCreated{}.EventName(),
		events.LeadStatusChanged{}.EventName(),
		events.LeadNoteAdded{}.EventName(),
	} {
		bus.Subscribe(name, rec)
	}
	s := New(repo, bus, logger.Discard(), WithClock(func() time.Time { return fixedNow }))
	if err := s.Load(context.Background(), nil); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return s, bus, rec
}

func TestLoadSeedsEmptySnapshot(t *testing.T) {
	mem := repository.NewMemory(nil)
	s := New(mem, nil, nil)
	err := s.Load(context.Background(), func() ([]domain.Lead, error) { return seedLeads(), nil })
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}
	if mem.Saves() != 1 {
		t.Errorf("seed persisted %d times, want 1", mem.Saves())
	}
}

func TestLoadKeepsExistingSnapshot(t *testing.T) {
	mem := repository.NewMemory(seedLeads()[:1])
	s := New(mem, nil, nil)
	err := s.Load(context.Background(), func() ([]domain.Lead, error) {
		t.Error("seed should not be called for a non-empty snapshot")
		return nil, nil
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestLoadRejectsDuplicateIDs(t *testing.T) {
	dup := append(seedLeads(), domain.Lead{ID: "1", Status: domain.StatusNew})
	s := New(repository.NewMemory(dup), nil, nil)
	err := s.Load(context.Background(), nil)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Errorf("Load error = %v, want conflict", err)
	}
}

func TestAddPrependsAndPublishes(t *testing.T) {
	s, bus, rec := newTestStore(t, repository.NewMemory(seedLeads()))

	added, err := s.Add(context.Background(), domain.Lead{Name: "Vikram", Status: domain.StatusNew})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if added.ID.IsZero() {
		t.Error("Add did not assign an id")
	}
	if first := s.Snapshot()[0]; first.ID != added.ID {
		t.Errorf("first lead = %s, want new lead %s", first.ID, added.ID)
	}

	bus.Wait()
	if names := rec.names(); len(names) != 1 || names[0] != "leads.lead.created" {
		t.Errorf("events = %v", names)
	}
}

func TestAddRejectsDuplicateAndInvalidStatus(t *testing.T) {
	s, _, _ := newTestStore(t, repository.NewMemory(seedLeads()))
	ctx := context.Background()

	if _, err := s.Add(ctx, domain.Lead{ID: "2", Status: domain.StatusNew}); !apperr.Is(err, apperr.KindConflict) {
		t.Errorf("duplicate Add error = %v, want conflict", err)
	}
	if _, err := s.Add(ctx, domain.Lead{ID: "9", Status: "won"}); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("invalid status Add error = %v, want validation", err)
	}
	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}
}

func TestUpdateStatus(t *testing.T) {
	s, bus, rec := newTestStore(t, repository.NewMemory(seedLeads()))

	updated, err := s.UpdateStatus(context.Background(), "1", domain.StatusConverted)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != domain.StatusConverted || !updated.LastContacted.Time.Equal(fixedNow) {
		t.Errorf("updated = %+v", updated)
	}
	stored, _ := s.Get("1")
	if stored.Status != domain.StatusConverted {
		t.Errorf("stored status = %q", stored.Status)
	}

	bus.Wait()
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.events) != 1 {
		t.Fatalf("got %d events", len(rec.events))
	}
	changed, ok := rec.events[0].(events.LeadStatusChanged)
	if !ok || changed.OldStatus != "new" || changed.NewStatus != "converted" {
		t.Errorf("event = %#v", rec.events[0])
	}
}

func TestUpdateStatusErrors(t *testing.T) {
	s, _, _ := newTestStore(t, repository.NewMemory(seedLeads()))
	ctx := context.Background()
	before := s.Snapshot()

	if _, err := s.UpdateStatus(ctx, "404", domain.StatusConverted); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("missing id error = %v, want not found", err)
	}
	if _, err := s.UpdateStatus(ctx, "1", "won"); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("invalid status error = %v, want validation", err)
	}

	after := s.Snapshot()
	for i := range before {
		if before[i].Status != after[i].Status || before[i].LastContacted != after[i].LastContacted {
			t.Errorf("lead %s changed after failed updates", before[i].ID)
		}
	}
}

func TestFailedSaveLeavesCollectionUnchanged(t *testing.T) {
	repo := &failingSnapshotter{Snapshotter: repository.NewMemory(seedLeads())}
	s, bus, rec := newTestStore(t, repo)
	repo.fail = true
	ctx := context.Background()

	if _, err := s.UpdateStatus(ctx, "1", domain.StatusConverted); !apperr.Is(err, apperr.KindInternal) {
		t.Errorf("UpdateStatus error = %v, want internal", err)
	}
	if _, err := s.Add(ctx, domain.Lead{Name: "New", Status: domain.StatusNew}); err == nil {
		t.Error("Add succeeded despite failing save")
	}
	if _, err := s.AddNote(ctx, "1", "me", "hello"); err == nil {
		t.Error("AddNote succeeded despite failing save")
	}

	lead, _ := s.Get("1")
	if lead.Status != domain.StatusNew || len(lead.NoteLog) != 0 {
		t.Errorf("lead changed after failed save: %+v", lead)
	}
	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}
	bus.Wait()
	if names := rec.names(); len(names) != 0 {
		t.Errorf("events published for failed mutations: %v", names)
	}
}

func TestAddNote(t *testing.T) {
	s, _, _ := newTestStore(t, repository.NewMemory(seedLeads()))
	ctx := context.Background()

	note, err := s.AddNote(ctx, "2", "Sales", "  Test drive booked  ")
	if err != nil {
		t.Fatalf("AddNote: %v", err)
	}
	if note.Content != "Test drive booked" || !note.Timestamp.Equal(fixedNow) {
		t.Errorf("note = %+v", note)
	}
	lead, _ := s.Get("2")
	if len(lead.NoteLog) != 1 || lead.Notes != "" {
		t.Errorf("lead after AddNote = %+v", lead)
	}

	if _, err := s.AddNote(ctx, "2", "Sales", "   "); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("empty note error = %v", err)
	}
	if _, err := s.AddNote(ctx, "nope", "Sales", "hi"); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("missing lead error = %v", err)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s, _, _ := newTestStore(t, repository.NewMemory(seedLeads()))
	snap := s.Snapshot()
	snap[0].Name = "mutated"
	if lead, _ := s.Get("1"); lead.Name != "Rahul" {
		t.Errorf("Snapshot exposed internal state: %q", lead.Name)
	}
}

func TestConcurrentUpdates(t *testing.T) {
	s, bus, _ := newTestStore(t, repository.NewMemory(seedLeads()))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			status := domain.Statuses[i%len(domain.Statuses)]
			_, _ = s.UpdateStatus(ctx, "1", status)
		}()
		go func() {
			defer wg.Done()
			_ = s.Snapshot()
		}()
	}
	wg.Wait()
	bus.Wait()

	if s.Len() != 2 {
		t.Errorf("Len = %d after concurrent updates", s.Len())
	}
}
