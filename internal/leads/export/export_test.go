package export

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"lead_dashboard_backend/internal/adapters/storage"
	"lead_dashboard_backend/internal/leads/domain"
	"lead_dashboard_backend/internal/leads/transport"
	"lead_dashboard_backend/platform/apperr"
)

type staticLeads []domain.Lead

func (s staticLeads) Snapshot() []domain.Lead { return domain.CloneAll(s) }

type fakeStorage struct {
	uploaded  []byte
	folder    string
	uploadErr error
}

func (f *fakeStorage) EnsureBucketExists(context.Context, string) error { return nil }

func (f *fakeStorage) UploadFile(_ context.Context, _, folder, fileName, _ string, reader io.Reader, _ int64) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.folder = folder
	f.uploaded, _ = io.ReadAll(reader)
	return folder + "/" + fileName, nil
}

func (f *fakeStorage) GenerateDownloadURL(_ context.Context, bucket, key string) (*storage.PresignedURL, error) {
	return &storage.PresignedURL{URL: "https://minio.local/" + bucket + "/" + key, FileKey: key, ExpiresAt: time.Unix(0, 0)}, nil
}

func (f *fakeStorage) ValidateContentType(string) error { return nil }
func (f *fakeStorage) ValidateFileSize(int64) error     { return nil }

var exportNow = time.Date(2023, 11, 26, 18, 0, 0, 0, time.UTC)

func leads() staticLeads {
	return staticLeads{
		{ID: "1", Name: "Rahul Sharma", Email: "rahul.s@email.com", Phone: "+91 98765 43210", Source: "Facebook", Status: domain.StatusNew, Created: domain.ParseTimestamp("2023-11-25T10:30:00Z")},
		{ID: "2", Name: "Priya, \"PP\" Patel", Email: "priya.p@email.com", Phone: "+91 87654 32109", Source: "Website", Status: domain.StatusContacted, Created: domain.ParseTimestamp("2023-11-24T09:15:00Z"), LastContacted: domain.ParseTimestamp("2023-11-25T14:20:00Z")},
	}
}

func newTestService(st storage.StorageService) *Service {
	s := New(leads(), st, "lead-exports", nil)
	s.now = func() time.Time { return exportNow }
	return s
}

func TestCSV(t *testing.T) {
	exp, err := newTestService(nil).CSV(context.Background(), transport.ExportLeadsRequest{Status: "all"})
	if err != nil {
		t.Fatalf("CSV: %v", err)
	}
	if exp.FileName != "leads_2023-11-26.csv" {
		t.Errorf("FileName = %q", exp.FileName)
	}
	want := strings.Join([]string{
		"Name,Email,Phone,Status,Source,Created Date,Last Contacted",
		"Rahul Sharma,rahul.s@email.com,+91 98765 43210,new,Facebook,2023-11-25,",
		`"Priya, ""PP"" Patel",priya.p@email.com,+91 87654 32109,contacted,Website,2023-11-24,2023-11-25`,
		"",
	}, "\n")
	if got := string(exp.Content); got != want {
		t.Errorf("CSV content:\n%s\nwant:\n%s", got, want)
	}
	if exp.Rows != 2 {
		t.Errorf("Rows = %d", exp.Rows)
	}
}

func TestCSVAppliesFilter(t *testing.T) {
	svc := newTestService(nil)
	exp, err := svc.CSV(context.Background(), transport.ExportLeadsRequest{Status: "contacted"})
	if err != nil {
		t.Fatalf("CSV: %v", err)
	}
	if exp.Rows != 1 || strings.Contains(string(exp.Content), "Rahul") {
		t.Errorf("filtered export = %q", exp.Content)
	}
	if _, err := svc.CSV(context.Background(), transport.ExportLeadsRequest{Status: "won"}); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("bad filter error = %v", err)
	}
}

func TestArchive(t *testing.T) {
	st := &fakeStorage{}
	resp, err := newTestService(st).Archive(context.Background(), transport.ExportLeadsRequest{})
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if st.folder != "exports/2023-11-26" {
		t.Errorf("folder = %q", st.folder)
	}
	if !strings.HasPrefix(string(st.uploaded), "Name,Email") {
		t.Errorf("uploaded = %q", st.uploaded)
	}
	if resp.URL != "https://minio.local/lead-exports/exports/2023-11-26/leads_2023-11-26.csv" || resp.Rows != 2 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestArchiveErrors(t *testing.T) {
	ctx := context.Background()
	if _, err := newTestService(nil).Archive(ctx, transport.ExportLeadsRequest{}); !apperr.Is(err, apperr.KindUnavailable) {
		t.Errorf("no storage error = %v, want unavailable", err)
	}
	st := &fakeStorage{uploadErr: errors.New("bucket gone")}
	if _, err := newTestService(st).Archive(ctx, transport.ExportLeadsRequest{}); !apperr.Is(err, apperr.KindInternal) {
		t.Errorf("upload failure error = %v, want internal", err)
	}
}
