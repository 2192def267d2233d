package inapp

import (
	"context"

	"lead_dashboard_backend/platform/apperr"
	"lead_dashboard_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Service is the dashboard's notification bell: it writes entries into the
// feed and pages through them.
type Service struct {
	repo *Repository
	log  *logger.Logger
}

func NewService(repo *Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// SendParams describes one feed entry. An empty Category is stored as "info".
type SendParams struct {
	Title        string
	Content      string
	ResourceID   string
	ResourceType string
	Category     string
}

// Send adds a notification to the feed.
func (s *Service) Send(ctx context.Context, p SendParams) error {
	if s == nil || s.repo == nil {
		return apperr.Internal("in-app notification service not configured")
	}

	if p.Category == "" {
		p.Category = "info"
	}

	_, err := s.repo.Create(ctx, CreateParams(p))
	if err != nil {
		if s.log != nil {
			s.log.Error("failed to store in-app notification", "error", err, "category", p.Category)
		}
		return err
	}
	return nil
}

// List returns one page of the feed, newest first, and the feed size.
func (s *Service) List(ctx context.Context, page, pageSize int) ([]Notification, int, error) {
	page = max(page, 1)
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	pageSize = min(pageSize, maxPageSize)

	return s.repo.List(ctx, pageSize, (page-1)*pageSize)
}

func (s *Service) CountUnread(ctx context.Context) (int, error) {
	return s.repo.CountUnread(ctx)
}

func (s *Service) MarkRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkRead(ctx, id)
}

func (s *Service) MarkAllRead(ctx context.Context) error {
	return s.repo.MarkAllRead(ctx)
}
