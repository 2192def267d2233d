package management

import (
	"context"
	"errors"
	"testing"
	"time"

	"lead_dashboard_backend/internal/leads/domain"
	"lead_dashboard_backend/internal/leads/repository"
	"lead_dashboard_backend/internal/leads/store"
	"lead_dashboard_backend/internal/leads/transport"
	"lead_dashboard_backend/platform/apperr"
	"lead_dashboard_backend/platform/phone"
)

var testNow = time.Date(2023, 11, 26, 10, 0, 0, 0, time.UTC)

type fixedPrefs struct {
	size int
	err  error
}

func (p fixedPrefs) ItemsPerPage(context.Context) (int, error) { return p.size, p.err }

func newService(t *testing.T, prefs fixedPrefs) *Service {
	t.Helper()
	leads := make([]domain.Lead, 0, 12)
	for i := range 12 {
		status := domain.Statuses[i%len(domain.Statuses)]
		leads = append(leads, domain.Lead{
			ID:           domain.LeadID(string(rune('a' + i))),
			Name:         "Lead " + string(rune('A'+i)),
			Phone:        "+91 98765 4321" + string(rune('0'+i%10)),
			Status:       status,
			Created:      domain.TimestampOf(testNow.AddDate(0, 0, -i)),
			NextFollowUp: domain.TimestampOf(testNow.AddDate(0, 0, i-6)),
		})
	}
	st := store.New(repository.NewMemory(leads), nil, nil, store.WithClock(func() time.Time { return testNow }))
	if err := st.Load(context.Background(), nil); err != nil {
		t.Fatalf("Load: %v", err)
	}
	svc := New(st, prefs, NewMapper(phone.NewNormalizer("IN")), 100, nil)
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestCreateDefaultsAndSanitizes(t *testing.T) {
	svc := newService(t, fixedPrefs{size: 10})
	ctx := context.Background()

	resp, err := svc.Create(ctx, transport.CreateLeadRequest{
		Name:   "  <b>Vikram</b>  Singh ",
		Phone:  "+91 98765 43211",
		Source: "Walk-in",
		Notes:  "Fleet <script>x</script>inquiry",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if resp.Name != "Vikram Singh" {
		t.Errorf("Name = %q", resp.Name)
	}
	if resp.Status != domain.StatusNew {
		t.Errorf("Status = %q, want new", resp.Status)
	}
	if resp.Notes != "Fleet xinquiry" {
		t.Errorf("Notes = %q", resp.Notes)
	}
	if resp.PhoneE164 != "+919876543211" {
		t.Errorf("PhoneE164 = %q", resp.PhoneE164)
	}
	if !resp.Created.Time.Equal(testNow) || !resp.LastContacted.Time.Equal(testNow) {
		t.Errorf("timestamps = %v / %v", resp.Created, resp.LastContacted)
	}

	list, err := svc.List(ctx, transport.ListLeadsRequest{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if list.Items[0].ID != resp.ID {
		t.Errorf("new lead not first: %s", list.Items[0].ID)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newService(t, fixedPrefs{})
	ctx := context.Background()
	tests := []struct {
		name string
		req  transport.CreateLeadRequest
	}{
		{"missing name", transport.CreateLeadRequest{Phone: "12345"}},
		{"tags only name", transport.CreateLeadRequest{Name: "<i></i>", Phone: "12345"}},
		{"bad status", transport.CreateLeadRequest{Name: "A", Phone: "12345", Status: "won"}},
		{"bad follow-up", transport.CreateLeadRequest{Name: "A", Phone: "12345", NextFollowUp: "soonish"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tc.req); !apperr.Is(err, apperr.KindValidation) {
				t.Errorf("error = %v, want validation", err)
			}
		})
	}
}

func TestListPageSize(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name      string
		prefs     fixedPrefs
		req       transport.ListLeadsRequest
		wantSize  int
		wantPage  int
		wantItems int
	}{
		{"preference used", fixedPrefs{size: 5}, transport.ListLeadsRequest{}, 5, 1, 5},
		{"explicit wins", fixedPrefs{size: 5}, transport.ListLeadsRequest{PageSize: 3, Page: 2}, 3, 2, 3},
		{"preference error falls back", fixedPrefs{err: errors.New("down")}, transport.ListLeadsRequest{}, 10, 1, 10},
		{"page clamped", fixedPrefs{size: 5}, transport.ListLeadsRequest{Page: 99}, 5, 3, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := newService(t, tc.prefs)
			resp, err := svc.List(ctx, tc.req)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if resp.PageSize != tc.wantSize || resp.Page != tc.wantPage || len(resp.Items) != tc.wantItems {
				t.Errorf("pageSize=%d page=%d items=%d, want %d/%d/%d", resp.PageSize, resp.Page, len(resp.Items), tc.wantSize, tc.wantPage, tc.wantItems)
			}
			if resp.AllTotal != 12 || resp.Total != 12 {
				t.Errorf("totals = %d/%d", resp.Total, resp.AllTotal)
			}
		})
	}
}

func TestListFilterKeepsGlobalCounts(t *testing.T) {
	svc := newService(t, fixedPrefs{size: 10})
	resp, err := svc.List(context.Background(), transport.ListLeadsRequest{Status: "converted"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("Total = %d, want 2", resp.Total)
	}
	if resp.StatusCounts[domain.StatusNew] != 3 {
		t.Errorf("new count = %d, want 3", resp.StatusCounts[domain.StatusNew])
	}
	if _, err := svc.List(context.Background(), transport.ListLeadsRequest{Status: "won"}); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("bad filter error = %v", err)
	}
}

func TestUpdateStatusAndNotes(t *testing.T) {
	svc := newService(t, fixedPrefs{})
	ctx := context.Background()

	resp, err := svc.UpdateStatus(ctx, "a", transport.UpdateLeadStatusRequest{Status: "Converted"})
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if resp.Status != domain.StatusConverted || resp.StatusLabel != "Converted" {
		t.Errorf("resp = %+v", resp)
	}
	if _, err := svc.UpdateStatus(ctx, "zz", transport.UpdateLeadStatusRequest{Status: "new"}); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("missing lead error = %v", err)
	}

	first, err := svc.AddNote(ctx, "a", transport.AddNoteRequest{Content: "Called"})
	if err != nil {
		t.Fatalf("AddNote: %v", err)
	}
	if first.Author != defaultAuthor {
		t.Errorf("Author = %q", first.Author)
	}
	second, _ := svc.AddNote(ctx, "a", transport.AddNoteRequest{Author: "Asha", Content: "Booked test drive"})

	notes, err := svc.ListNotes(ctx, "a")
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if len(notes.Items) != 2 || notes.Items[0].ID != second.ID || notes.Items[1].ID != first.ID {
		t.Errorf("notes order = %+v", notes.Items)
	}
}

func TestBoardAndFollowUps(t *testing.T) {
	svc := newService(t, fixedPrefs{})
	ctx := context.Background()

	board := svc.Board(ctx)
	total := 0
	for _, col := range board {
		total += col.Count
		if col.Count != len(col.Leads) {
			t.Errorf("column %s count mismatch", col.Status)
		}
	}
	if len(board) != 5 || total != 12 {
		t.Errorf("board columns=%d total=%d", len(board), total)
	}

	for _, lead := range svc.FollowUps(ctx) {
		if lead.Status.IsClosed() {
			t.Errorf("closed lead %s listed as due", lead.ID)
		}
		if lead.NextFollowUp.Time.After(testNow) {
			t.Errorf("future follow-up %s listed as due", lead.ID)
		}
	}
}
