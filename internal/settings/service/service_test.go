package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"lead_dashboard_backend/internal/events"
	"lead_dashboard_backend/internal/settings/domain"
	"lead_dashboard_backend/internal/settings/repository"
	"lead_dashboard_backend/internal/settings/transport"
	"lead_dashboard_backend/platform/apperr"
	"lead_dashboard_backend/platform/logger"
	"lead_dashboard_backend/platform/validator"

	"github.com/google/go-cmp/cmp"
)

type brokenRepo struct{}

func (brokenRepo) Load(context.Context) ([]byte, error) { return nil, errors.New("connection refused") }
func (brokenRepo) Save(context.Context, []byte) error   { return errors.New("connection refused") }

func intPtr(v int) *int       { return &v }
func boolPtr(v bool) *bool    { return &v }
func strPtr(v string) *string { return &v }

func TestGetDefaults(t *testing.T) {
	svc := New(repository.NewMemory(), nil, validator.New(), nil)
	got, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if diff := cmp.Diff(domain.Defaults(), got); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestGetMergesStoredOverDefaults(t *testing.T) {
	repo := repository.NewMemory()
	if err := repo.Save(context.Background(), []byte(`{"data":{"itemsPerPage":25},"display":{"theme":"dark"}}`)); err != nil {
		t.Fatal(err)
	}
	svc := New(repo, nil, validator.New(), nil)

	got, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	want := domain.Defaults()
	want.Data.ItemsPerPage = 25
	want.Display.Theme = "dark"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("merged settings mismatch (-want +got):\n%s", diff)
	}
}

func TestGetFallsBackOnCorruptDocument(t *testing.T) {
	for _, raw := range []string{`{not json`, `{"data":{"itemsPerPage":500}}`} {
		repo := repository.NewMemory()
		_ = repo.Save(context.Background(), []byte(raw))
		svc := New(repo, nil, validator.New(), nil)
		got, err := svc.Get(context.Background())
		if err != nil {
			t.Fatalf("Get(%q): %v", raw, err)
		}
		if diff := cmp.Diff(domain.Defaults(), got); diff != "" {
			t.Errorf("Get(%q) mismatch (-want +got):\n%s", raw, diff)
		}
	}
}

func TestUpdatePersistsAndPublishes(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	bus := events.NewInMemoryBus(logger.Discard())

	var (
		mu  sync.Mutex
		got []events.SettingsUpdated
	)
	bus.Subscribe(events.SettingsUpdated{}.EventName(), events.HandlerFunc(func(_ context.Context, e events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, e.(events.SettingsUpdated))
		return nil
	}))

	svc := New(repo, bus, validator.New(), nil)
	updated, err := svc.Update(ctx, transport.UpdateSettingsRequest{
		Data:          &transport.DataPatch{ItemsPerPage: intPtr(50)},
		Notifications: &transport.NotificationsPatch{Email: boolPtr(false)},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	bus.Wait()

	if updated.Data.ItemsPerPage != 50 || updated.Notifications.Email {
		t.Errorf("unexpected update result %+v", updated)
	}
	if updated.Data.RefreshInterval != 5 || updated.Display.Theme != "light" {
		t.Errorf("untouched fields changed: %+v", updated)
	}

	// A fresh service reads the persisted document.
	reloaded, err := New(repo, nil, validator.New(), nil).ItemsPerPage(ctx)
	if err != nil || reloaded != 50 {
		t.Errorf("ItemsPerPage after reload = %d, %v", reloaded, err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 || got[0].ItemsPerPage != 50 || got[0].EmailNotifications {
		t.Errorf("published events = %+v", got)
	}
}

func TestUpdateRejectsInvalid(t *testing.T) {
	svc := New(repository.NewMemory(), nil, validator.New(), nil)
	tests := []struct {
		name string
		req  transport.UpdateSettingsRequest
	}{
		{"page size too big", transport.UpdateSettingsRequest{Data: &transport.DataPatch{ItemsPerPage: intPtr(101)}}},
		{"refresh zero", transport.UpdateSettingsRequest{Data: &transport.DataPatch{RefreshInterval: intPtr(0)}}},
		{"unknown theme", transport.UpdateSettingsRequest{Display: &transport.DisplayPatch{Theme: strPtr("neon")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Update(context.Background(), tt.req)
			if !apperr.Is(err, apperr.KindValidation) {
				t.Errorf("err = %v, want validation error", err)
			}
		})
	}

	got, _ := svc.Get(context.Background())
	if diff := cmp.Diff(domain.Defaults(), got); diff != "" {
		t.Errorf("rejected updates changed settings (-want +got):\n%s", diff)
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	ctx := context.Background()
	bus := events.NewInMemoryBus(logger.Discard())

	var (
		mu  sync.Mutex
		got []events.SettingsUpdated
	)
	bus.Subscribe(events.SettingsUpdated{}.EventName(), events.HandlerFunc(func(_ context.Context, e events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, e.(events.SettingsUpdated))
		return nil
	}))

	svc := New(repository.NewMemory(), bus, validator.New(), nil)
	if _, err := svc.Update(ctx, transport.UpdateSettingsRequest{
		Display:       &transport.DisplayPatch{Density: strPtr("compact")},
		Notifications: &transport.NotificationsPatch{Email: boolPtr(false)},
	}); err != nil {
		t.Fatal(err)
	}
	reset, err := svc.Reset(ctx)
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if diff := cmp.Diff(domain.Defaults(), reset); diff != "" {
		t.Errorf("Reset mismatch (-want +got):\n%s", diff)
	}
	bus.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 2 {
		t.Fatalf("published %d events, want one for the update and one for the reset", len(got))
	}
	// Publish is asynchronous, so match the reset event by content.
	var resetSeen bool
	for _, e := range got {
		if e.EmailNotifications && e.ItemsPerPage == domain.Defaults().Data.ItemsPerPage {
			resetSeen = true
		}
	}
	if !resetSeen {
		t.Errorf("no event carries the defaults: %+v", got)
	}
}

func TestRepositoryFailureIsInternal(t *testing.T) {
	svc := New(brokenRepo{}, nil, validator.New(), nil)
	if _, err := svc.Get(context.Background()); !apperr.Is(err, apperr.KindInternal) {
		t.Errorf("Get err = %v, want internal", err)
	}
	if _, err := svc.EmailNotificationsEnabled(context.Background()); err == nil {
		t.Error("EmailNotificationsEnabled should fail when the repository does")
	}
}
