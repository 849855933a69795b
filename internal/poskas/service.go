package poskas

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/pandawa-internal/pandawa/internal/shared"
)

// RepositoryPort defines data access methods for cash postings.
type RepositoryPort interface {
	ListMonth(ctx context.Context, from, to time.Time) ([]Poskas, error)
	SumMonth(ctx context.Context, from, to time.Time) (int64, error)
	Get(ctx context.Context, id int64) (Poskas, error)
	Create(ctx context.Context, p Poskas) (Poskas, error)
	Update(ctx context.Context, p Poskas) (Poskas, error)
	Delete(ctx context.Context, id int64) error
}

// Service handles cash posting business logic.
type Service struct {
	repo  RepositoryPort
	audit *shared.AuditLogger
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, audit *shared.AuditLogger) *Service {
	return &Service{repo: repo, audit: audit}
}

// MonthBounds returns the [from, to) interval covering a calendar month.
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

// ListMonth returns the month's postings plus the running total.
func (s *Service) ListMonth(ctx context.Context, year int, month time.Month) ([]Display, int64, error) {
	from, to := MonthBounds(year, month)
	items, err := s.repo.ListMonth(ctx, from, to)
	if err != nil {
		return nil, 0, err
	}
	out := make([]Display, len(items))
	var total int64
	for i, p := range items {
		out[i] = ToDisplay(p)
		total += p.Jumlah
	}
	return out, total, nil
}

// MonthTotal sums the month's postings.
func (s *Service) MonthTotal(ctx context.Context, year int, month time.Month) (int64, error) {
	from, to := MonthBounds(year, month)
	return s.repo.SumMonth(ctx, from, to)
}

// Get fetches one posting.
func (s *Service) Get(ctx context.Context, id int64) (Display, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return Display{}, err
	}
	return ToDisplay(p), nil
}

// Create registers a posting submitted by the actor.
func (s *Service) Create(ctx context.Context, actorID int64, p Poskas) (Display, error) {
	if p.Jumlah <= 0 {
		return Display{}, errors.New("poskas: jumlah must be positive")
	}
	if p.Tanggal.IsZero() {
		return Display{}, errors.New("poskas: tanggal required")
	}
	p.SubmitterID = actorID
	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return Display{}, err
	}
	s.record(ctx, actorID, "poskas.create", created.ID)
	return ToDisplay(created), nil
}

// Update rewrites an existing posting.
func (s *Service) Update(ctx context.Context, actorID int64, p Poskas) (Display, error) {
	if p.Jumlah <= 0 {
		return Display{}, errors.New("poskas: jumlah must be positive")
	}
	updated, err := s.repo.Update(ctx, p)
	if err != nil {
		return Display{}, err
	}
	s.record(ctx, actorID, "poskas.update", updated.ID)
	return ToDisplay(updated), nil
}

// Delete removes a posting.
func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actorID, "poskas.delete", id)
	return nil
}

func (s *Service) record(ctx context.Context, actorID int64, action string, id int64) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "poskas",
		EntityID: strconv.FormatInt(id, 10),
	})
}
