package inapp

import (
	"context"
	"sync"
	"time"

	"lead_dashboard_backend/platform/apperr"

	"github.com/google/uuid"
)

const (
	opCreate   = "notification.inapp.repository.create"
	opMarkRead = "notification.inapp.repository.mark_read"

	// DefaultCapacity bounds the feed; the oldest entries are dropped first.
	DefaultCapacity = 100
)

// Categories used by the dashboard's notification panel.
const (
	CategoryNewLead      = "new_lead"
	CategoryStatusChange = "status_change"
	CategoryReminder     = "reminder"
)

type Notification struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	ResourceID   string    `json:"resourceId,omitempty"`
	ResourceType string    `json:"resourceType,omitempty"`
	Category     string    `json:"category"`
	IsRead       bool      `json:"isRead"`
	CreatedAt    time.Time `json:"createdAt"`
}

type CreateParams struct {
	Title        string
	Content      string
	ResourceID   string
	ResourceType string
	Category     string
}

// Repository is a bounded in-process feed, newest first.
type Repository struct {
	mu       sync.RWMutex
	items    []Notification
	capacity int
	now      func() time.Time
}

func NewRepository(capacity int) *Repository {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Repository{capacity: capacity, now: time.Now}
}

func (r *Repository) Create(_ context.Context, p CreateParams) (Notification, error) {
	if p.Title == "" || p.Content == "" {
		return Notification{}, apperr.Validation("title and content are required").WithOp(opCreate)
	}

	n := Notification{
		ID:           uuid.New(),
		Title:        p.Title,
		Content:      p.Content,
		ResourceID:   p.ResourceID,
		ResourceType: p.ResourceType,
		Category:     p.Category,
		CreatedAt:    r.now().UTC(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append([]Notification{n}, r.items...)
	if len(r.items) > r.capacity {
		r.items = r.items[:r.capacity]
	}
	return n, nil
}

func (r *Repository) List(_ context.Context, limit, offset int) ([]Notification, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := len(r.items)
	if offset >= total {
		return []Notification{}, total, nil
	}
	end := min(offset+limit, total)
	out := make([]Notification, end-offset)
	copy(out, r.items[offset:end])
	return out, total, nil
}

func (r *Repository) CountUnread(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, n := range r.items {
		if !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *Repository) MarkRead(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i].IsRead = true
			return nil
		}
	}
	return apperr.NotFound("notification not found").WithOp(opMarkRead)
}

func (r *Repository) MarkAllRead(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.items {
		r.items[i].IsRead = true
	}
	return nil
}
