package komplain

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/pandawa-internal/pandawa/internal/shared"
)

// RepositoryPort defines data access methods for complaints.
type RepositoryPort interface {
	List(ctx context.Context, limit, offset int) ([]Komplain, int, error)
	Get(ctx context.Context, id int64) (Komplain, error)
	Create(ctx context.Context, k Komplain) (Komplain, error)
	Update(ctx context.Context, k Komplain) (Komplain, error)
	Delete(ctx context.Context, id int64) error
}

// Service handles complaint business logic.
type Service struct {
	repo  RepositoryPort
	audit *shared.AuditLogger
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, audit *shared.AuditLogger) *Service {
	return &Service{repo: repo, audit: audit}
}

// List returns a page of complaints with pagination metadata.
func (s *Service) List(ctx context.Context, page, perPage int) ([]Komplain, shared.Pagination, error) {
	p := shared.NewPagination(page, perPage, 0)
	items, total, err := s.repo.List(ctx, p.PerPage, p.Offset())
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return items, shared.NewPagination(page, perPage, total), nil
}

// Get fetches one complaint.
func (s *Service) Get(ctx context.Context, id int64) (Komplain, error) {
	return s.repo.Get(ctx, id)
}

// Create registers a new complaint on behalf of the reporter.
func (s *Service) Create(ctx context.Context, actorID int64, k Komplain) (Komplain, error) {
	k.Judul = strings.TrimSpace(k.Judul)
	if k.Judul == "" {
		return Komplain{}, errors.New("komplain: judul required")
	}
	if k.Status == "" {
		k.Status = "open"
	}
	k.ReporterID = actorID
	created, err := s.repo.Create(ctx, k)
	if err != nil {
		return Komplain{}, err
	}
	s.record(ctx, actorID, "komplain.create", created.ID)
	return created, nil
}

// Update rewrites an existing complaint. Moving status to resolved stamps
// resolved_at once.
func (s *Service) Update(ctx context.Context, actorID int64, k Komplain) (Komplain, error) {
	k.Judul = strings.TrimSpace(k.Judul)
	if k.Judul == "" {
		return Komplain{}, errors.New("komplain: judul required")
	}
	existing, err := s.repo.Get(ctx, k.ID)
	if err != nil {
		return Komplain{}, err
	}
	k.ResolvedAt = existing.ResolvedAt
	if k.Status == "resolved" && existing.ResolvedAt == nil {
		now := time.Now()
		k.ResolvedAt = &now
	}
	updated, err := s.repo.Update(ctx, k)
	if err != nil {
		return Komplain{}, err
	}
	s.record(ctx, actorID, "komplain.update", updated.ID)
	return updated, nil
}

// Delete removes a complaint.
func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actorID, "komplain.delete", id)
	return nil
}

func (s *Service) record(ctx context.Context, actorID int64, action string, id int64) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "komplain",
		EntityID: strconv.FormatInt(id, 10),
	})
}
