package export

import (
	"bytes"
	"context"
	"path"
	"time"

	"lead_dashboard_backend/internal/adapters/storage"
	"lead_dashboard_backend/internal/leads/domain"
	"lead_dashboard_backend/internal/leads/query"
	"lead_dashboard_backend/internal/leads/transport"
	"lead_dashboard_backend/platform/apperr"
	"lead_dashboard_backend/platform/logger"
)

// LeadSource provides the current collection.
type LeadSource interface {
	Snapshot() []domain.Lead
}

// Service produces CSV exports of the filtered lead table.
type Service struct {
	leads   LeadSource
	storage storage.StorageService
	bucket  string
	log     *logger.Logger
	now     func() time.Time
}

// New creates an export service. storageSvc may be nil, in which case
// Archive reports the feature as unavailable.
func New(leads LeadSource, storageSvc storage.StorageService, bucket string, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{leads: leads, storage: storageSvc, bucket: bucket, log: log, now: time.Now}
}

// Export holds a rendered CSV document.
type Export struct {
	FileName string
	Content  []byte
	Rows     int
}

// CSV renders the leads matching the same status and search filter as the table.
func (s *Service) CSV(_ context.Context, req transport.ExportLeadsRequest) (Export, error) {
	if !domain.IsStatusFilter(req.Status) {
		return Export{}, apperr.Validation("invalid status filter")
	}
	leads := query.Filter(s.leads.Snapshot(), req.Status, req.Search)
	content, err := Render(leads)
	if err != nil {
		return Export{}, apperr.Wrap(apperr.KindInternal, "failed to render export", err).WithOp("export.CSV")
	}
	return Export{FileName: FileName(s.now()), Content: content, Rows: len(leads)}, nil
}

// Archive uploads the export to object storage and returns a presigned
// download link.
func (s *Service) Archive(ctx context.Context, req transport.ExportLeadsRequest) (transport.ExportArchiveResponse, error) {
	if s.storage == nil {
		return transport.ExportArchiveResponse{}, apperr.Unavailable("export archive storage is not configured")
	}

	exp, err := s.CSV(ctx, req)
	if err != nil {
		return transport.ExportArchiveResponse{}, err
	}

	folder := path.Join("exports", s.now().UTC().Format(time.DateOnly))
	key, err := s.storage.UploadFile(ctx, s.bucket, folder, exp.FileName, ContentType, bytes.NewReader(exp.Content), int64(len(exp.Content)))
	if err != nil {
		s.log.Error("export upload failed", "bucket", s.bucket, "error", err)
		return transport.ExportArchiveResponse{}, apperr.Wrap(apperr.KindInternal, "failed to archive export", err).WithOp("export.Archive")
	}

	link, err := s.storage.GenerateDownloadURL(ctx, s.bucket, key)
	if err != nil {
		return transport.ExportArchiveResponse{}, apperr.Wrap(apperr.KindInternal, "failed to sign export link", err).WithOp("export.Archive")
	}

	s.log.Info("export archived", "key", key, "rows", exp.Rows)
	return transport.ExportArchiveResponse{
		FileName:  exp.FileName,
		URL:       link.URL,
		ExpiresAt: link.ExpiresAt,
		Rows:      exp.Rows,
	}, nil
}
