// Package management handles lead operations for the table, detail and
// kanban views: create, read, list, status updates and timeline notes.
package management

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"lead_dashboard_backend/internal/leads/domain"
	"lead_dashboard_backend/internal/leads/ports"
	"lead_dashboard_backend/internal/leads/query"
	"lead_dashboard_backend/internal/leads/transport"
	"lead_dashboard_backend/platform/apperr"
	"lead_dashboard_backend/platform/logger"
	"lead_dashboard_backend/platform/sanitize"
)

const (
	defaultPageSize = 10
	defaultAuthor   = "Sales Team"
)

// LeadStore is the store surface the management service needs.
type LeadStore interface {
	Snapshot() []domain.Lead
	Get(id domain.LeadID) (domain.Lead, error)
	Add(ctx context.Context, lead domain.Lead) (domain.Lead, error)
	UpdateStatus(ctx context.Context, id domain.LeadID, status domain.Status) (domain.Lead, error)
	AddNote(ctx context.Context, id domain.LeadID, author, content string) (domain.Note, error)
}

// Service handles lead management operations.
type Service struct {
	store       LeadStore
	prefs       ports.DisplayPreferences
	mapper      *Mapper
	maxPageSize int
	log         *logger.Logger
	now         func() time.Time
}

// New creates a new lead management service. prefs may be nil.
func New(store LeadStore, prefs ports.DisplayPreferences, mapper *Mapper, maxPageSize int, log *logger.Logger) *Service {
	if maxPageSize < 1 {
		maxPageSize = 100
	}
	if log == nil {
		log = logger.Discard()
	}
	if mapper == nil {
		mapper = NewMapper(nil)
	}
	return &Service{
		store:       store,
		prefs:       prefs,
		mapper:      mapper,
		maxPageSize: maxPageSize,
		log:         log,
		now:         time.Now,
	}
}

// Create adds a new lead at the top of the collection.
func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	status := domain.StatusNew
	if strings.TrimSpace(req.Status) != "" {
		parsed, ok := domain.ParseStatus(req.Status)
		if !ok {
			return transport.LeadResponse{}, apperr.Validation(fmt.Sprintf("invalid status %q", req.Status))
		}
		status = parsed
	}

	name := sanitize.Line(req.Name)
	phoneNumber := strings.TrimSpace(req.Phone)
	if name == "" || phoneNumber == "" {
		return transport.LeadResponse{}, apperr.Validation("name and phone are required")
	}

	var nextFollowUp domain.Timestamp
	if raw := strings.TrimSpace(req.NextFollowUp); raw != "" {
		nextFollowUp = domain.ParseTimestamp(raw)
		if !nextFollowUp.Valid {
			return transport.LeadResponse{}, apperr.Validation("nextFollowUp must be an ISO-8601 date")
		}
	}

	now := domain.TimestampOf(s.now())
	lead := domain.Lead{
		ID:             domain.GenerateLeadID(),
		Name:           name,
		Email:          strings.TrimSpace(req.Email),
		Phone:          phoneNumber,
		Source:         sanitize.Line(req.Source),
		Status:         status,
		Created:        now,
		LastContacted:  now,
		NextFollowUp:   nextFollowUp,
		Notes:          sanitize.Text(req.Notes),
		Budget:         strings.TrimSpace(req.Budget),
		PreferredModel: sanitize.Line(req.PreferredModel),
	}

	created, err := s.store.Add(ctx, lead)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return s.mapper.Lead(created), nil
}

// GetByID retrieves a lead by ID.
func (s *Service) GetByID(_ context.Context, id domain.LeadID) (transport.LeadResponse, error) {
	lead, err := s.store.Get(id)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return s.mapper.Lead(lead), nil
}

// List filters and paginates the collection. Status counts cover the whole
// collection so filter chips stay stable while searching.
func (s *Service) List(ctx context.Context, req transport.ListLeadsRequest) (transport.LeadListResponse, error) {
	if !domain.IsStatusFilter(req.Status) {
		return transport.LeadListResponse{}, apperr.Validation(fmt.Sprintf("invalid status filter %q", req.Status))
	}

	pageSize := s.resolvePageSize(ctx, req.PageSize)
	all := s.store.Snapshot()
	filtered := query.Filter(all, req.Status, req.Search)
	page := query.ClampPage(req.Page, len(filtered), pageSize)

	return transport.LeadListResponse{
		Items:        s.mapper.Leads(query.Paginate(filtered, page, pageSize)),
		Total:        len(filtered),
		Page:         page,
		PageSize:     pageSize,
		TotalPages:   query.PageCount(len(filtered), pageSize),
		StatusCounts: query.CountByStatus(all),
		AllTotal:     len(all),
	}, nil
}

func (s *Service) resolvePageSize(ctx context.Context, requested int) int {
	size := requested
	if size < 1 && s.prefs != nil {
		preferred, err := s.prefs.ItemsPerPage(ctx)
		if err != nil {
			s.log.Warn("failed to read page size preference", "error", err)
		} else {
			size = preferred
		}
	}
	if size < 1 {
		size = defaultPageSize
	}
	return min(size, s.maxPageSize)
}

// UpdateStatus moves a lead to another pipeline stage.
func (s *Service) UpdateStatus(ctx context.Context, id domain.LeadID, req transport.UpdateLeadStatusRequest) (transport.LeadResponse, error) {
	status, ok := domain.ParseStatus(req.Status)
	if !ok {
		return transport.LeadResponse{}, apperr.Validation(fmt.Sprintf("invalid status %q", req.Status))
	}
	lead, err := s.store.UpdateStatus(ctx, id, status)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return s.mapper.Lead(lead), nil
}

// AddNote appends a timeline note.
func (s *Service) AddNote(ctx context.Context, id domain.LeadID, req transport.AddNoteRequest) (transport.NoteResponse, error) {
	content := sanitize.Text(req.Content)
	if content == "" {
		return transport.NoteResponse{}, apperr.Validation("note content is required")
	}
	author := sanitize.Line(req.Author)
	if author == "" {
		author = defaultAuthor
	}

	note, err := s.store.AddNote(ctx, id, author, content)
	if err != nil {
		return transport.NoteResponse{}, err
	}
	return Note(domain.NewLeadID(string(id)), note), nil
}

// ListNotes returns a lead's timeline notes, newest first.
func (s *Service) ListNotes(_ context.Context, id domain.LeadID) (transport.NoteListResponse, error) {
	lead, err := s.store.Get(id)
	if err != nil {
		return transport.NoteListResponse{}, err
	}

	notes := slices.Clone(lead.NoteLog)
	slices.Reverse(notes)
	slices.SortStableFunc(notes, func(a, b domain.Note) int {
		return b.Timestamp.Compare(a.Timestamp)
	})

	items := make([]transport.NoteResponse, 0, len(notes))
	for _, note := range notes {
		items = append(items, Note(lead.ID, note))
	}
	return transport.NoteListResponse{Items: items}, nil
}

// Board returns the kanban columns.
func (s *Service) Board(_ context.Context) []transport.BoardColumnResponse {
	columns := query.Board(s.store.Snapshot())
	out := make([]transport.BoardColumnResponse, 0, len(columns))
	for _, col := range columns {
		out = append(out, transport.BoardColumnResponse{
			Status: col.Status,
			Label:  col.Label,
			Count:  len(col.Leads),
			Leads:  s.mapper.Leads(col.Leads),
		})
	}
	return out
}

// FollowUps returns the leads due for follow-up today or earlier.
func (s *Service) FollowUps(_ context.Context) []transport.LeadResponse {
	return s.mapper.Leads(query.DueForFollowUp(s.store.Snapshot(), s.now()))
}
