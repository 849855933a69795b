package tugas

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/pandawa-internal/pandawa/internal/shared"
)

// RepositoryPort defines data access methods for tasks.
type RepositoryPort interface {
	List(ctx context.Context, limit, offset int) ([]Tugas, int, error)
	Get(ctx context.Context, id int64) (Tugas, error)
	Create(ctx context.Context, t Tugas) (Tugas, error)
	Update(ctx context.Context, t Tugas) (Tugas, error)
	Delete(ctx context.Context, id int64) error
}

// Service handles task business logic.
type Service struct {
	repo  RepositoryPort
	audit *shared.AuditLogger
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, audit *shared.AuditLogger) *Service {
	return &Service{repo: repo, audit: audit}
}

// List returns a page of tasks with pagination metadata.
func (s *Service) List(ctx context.Context, page, perPage int) ([]Tugas, shared.Pagination, error) {
	p := shared.NewPagination(page, perPage, 0)
	items, total, err := s.repo.List(ctx, p.PerPage, p.Offset())
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return items, shared.NewPagination(page, perPage, total), nil
}

// Get fetches one task.
func (s *Service) Get(ctx context.Context, id int64) (Tugas, error) {
	return s.repo.Get(ctx, id)
}

// Create registers a new task created by the actor.
func (s *Service) Create(ctx context.Context, actorID int64, t Tugas) (Tugas, error) {
	t.Judul = strings.TrimSpace(t.Judul)
	if t.Judul == "" {
		return Tugas{}, errors.New("tugas: judul required")
	}
	if t.Status == "" {
		t.Status = "pending"
	}
	t.CreatedBy = actorID
	created, err := s.repo.Create(ctx, t)
	if err != nil {
		return Tugas{}, err
	}
	s.record(ctx, actorID, "tugas.create", created.ID)
	return created, nil
}

// Update rewrites an existing task.
func (s *Service) Update(ctx context.Context, actorID int64, t Tugas) (Tugas, error) {
	t.Judul = strings.TrimSpace(t.Judul)
	if t.Judul == "" {
		return Tugas{}, errors.New("tugas: judul required")
	}
	updated, err := s.repo.Update(ctx, t)
	if err != nil {
		return Tugas{}, err
	}
	s.record(ctx, actorID, "tugas.update", updated.ID)
	return updated, nil
}

// Delete removes a task.
func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actorID, "tugas.delete", id)
	return nil
}

func (s *Service) record(ctx context.Context, actorID int64, action string, id int64) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "tugas",
		EntityID: strconv.FormatInt(id, 10),
	})
}
