package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lead_dashboard_backend/internal/leads/domain"
	"lead_dashboard_backend/internal/leads/export"
	"lead_dashboard_backend/internal/leads/management"
	"lead_dashboard_backend/internal/leads/reporting"
	"lead_dashboard_backend/internal/leads/repository"
	"lead_dashboard_backend/internal/leads/store"
	"lead_dashboard_backend/internal/leads/transport"
	"lead_dashboard_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	seed := []domain.Lead{
		{ID: "1", Name: "Rahul Sharma", Phone: "+91 98765 43210", Status: domain.StatusNew, Source: "Website", Created: domain.ParseTimestamp("2023-11-25T10:30:00Z")},
		{ID: "2", Name: "Priya Patel", Phone: "+91 87654 32109", Status: domain.StatusContacted, Source: "Walk-in", Created: domain.ParseTimestamp("2023-11-24T14:15:00Z")},
		{ID: "3", Name: "Amit Kumar", Phone: "+91 76543 21098", Status: domain.StatusConverted, Source: "Referral", Created: domain.ParseTimestamp("2023-11-20T09:00:00Z")},
	}
	st := store.New(repository.NewMemory(seed), nil, nil)
	if err := st.Load(context.Background(), nil); err != nil {
		t.Fatalf("Load: %v", err)
	}

	val := validator.New()
	if err := transport.RegisterValidations(val); err != nil {
		t.Fatalf("RegisterValidations: %v", err)
	}
	mapper := management.NewMapper(nil)
	h := New(
		management.New(st, nil, mapper, 100, nil),
		reporting.New(st, mapper),
		export.New(st, nil, "exports", nil),
		val,
	)

	r := gin.New()
	v1 := r.Group("/api/v1")
	h.RegisterRoutes(v1.Group("/leads"))
	h.RegisterReportRoutes(v1)
	return r
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListFiltersByStatus(t *testing.T) {
	r := newTestRouter(t)
	w := do(r, http.MethodGet, "/api/v1/leads?status=contacted", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp transport.LeadListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 1 || len(resp.Items) != 1 || resp.Items[0].ID != "2" {
		t.Errorf("unexpected list %+v", resp)
	}
	if resp.AllTotal != 3 {
		t.Errorf("AllTotal = %d, want 3", resp.AllTotal)
	}
}

func TestStatusCodes(t *testing.T) {
	r := newTestRouter(t)
	tests := []struct {
		name   string
		method string
		target string
		body   string
		want   int
	}{
		{"unknown filter", http.MethodGet, "/api/v1/leads?status=bogus", "", http.StatusBadRequest},
		{"get existing", http.MethodGet, "/api/v1/leads/1", "", http.StatusOK},
		{"get missing", http.MethodGet, "/api/v1/leads/999", "", http.StatusNotFound},
		{"create missing phone", http.MethodPost, "/api/v1/leads", `{"name":"X"}`, http.StatusBadRequest},
		{"create malformed", http.MethodPost, "/api/v1/leads", `{`, http.StatusBadRequest},
		{"create ok", http.MethodPost, "/api/v1/leads", `{"name":"Neha","phone":"+91 99999 00000"}`, http.StatusCreated},
		{"status invalid", http.MethodPatch, "/api/v1/leads/1/status", `{"status":"won"}`, http.StatusBadRequest},
		{"status missing lead", http.MethodPatch, "/api/v1/leads/999/status", `{"status":"converted"}`, http.StatusNotFound},
		{"status ok", http.MethodPatch, "/api/v1/leads/1/status", `{"status":"follow_up"}`, http.StatusOK},
		{"note empty", http.MethodPost, "/api/v1/leads/1/notes", `{"content":""}`, http.StatusBadRequest},
		{"note ok", http.MethodPost, "/api/v1/leads/1/notes", `{"content":"Called back"}`, http.StatusCreated},
		{"notes list", http.MethodGet, "/api/v1/leads/2/notes", "", http.StatusOK},
		{"board", http.MethodGet, "/api/v1/leads/board", "", http.StatusOK},
		{"follow-ups", http.MethodGet, "/api/v1/leads/follow-ups", "", http.StatusOK},
		{"dashboard", http.MethodGet, "/api/v1/dashboard", "", http.StatusOK},
		{"report default", http.MethodGet, "/api/v1/reports", "", http.StatusOK},
		{"report bad window", http.MethodGet, "/api/v1/reports?days=14", "", http.StatusBadRequest},
		{"archive without storage", http.MethodPost, "/api/v1/leads/export/archive", "", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.method, tt.target, tt.body)
			if w.Code != tt.want {
				t.Errorf("%s %s = %d, want %d (body %s)", tt.method, tt.target, w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestExportCSVAttachment(t *testing.T) {
	r := newTestRouter(t)
	w := do(r, http.MethodGet, "/api/v1/leads/export?search=priya", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Header().Get("Content-Type"); got != export.ContentType {
		t.Errorf("Content-Type = %q", got)
	}
	if got := w.Header().Get("Content-Disposition"); !strings.HasPrefix(got, `attachment; filename="leads_`) {
		t.Errorf("Content-Disposition = %q", got)
	}
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header plus one row: %q", len(lines), w.Body.String())
	}
	if !strings.HasPrefix(lines[1], "Priya Patel,") {
		t.Errorf("row = %q", lines[1])
	}
}
