package menus

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/pandawa-internal/pandawa/internal/shared"
)

// RepositoryPort defines data access methods for menu assignments.
type RepositoryPort interface {
	List(ctx context.Context) ([]MenuAssignment, error)
	Get(ctx context.Context, id int64) (MenuAssignment, error)
	ActiveLinks(ctx context.Context, userID int64) ([]string, error)
	Create(ctx context.Context, nama, link string, userID int64) (MenuAssignment, error)
	Update(ctx context.Context, id int64, nama, link string, userID int64) (MenuAssignment, error)
	SoftDelete(ctx context.Context, id int64) (int64, error)
}

// GenerationBumper invalidates cached permission snapshots for a user.
type GenerationBumper interface {
	Bump(ctx context.Context, userID int64) error
}

// Warmer pre-builds a user's snapshot in the background after an edit.
type Warmer interface {
	EnqueueAuthzWarm(ctx context.Context, userID int64) error
}

// Service orchestrates PIC-menu assignment management. Every mutation bumps
// the affected user's generation so route guards never act on a snapshot
// resolved before the edit.
type Service struct {
	repo        RepositoryPort
	generations GenerationBumper
	warmer      Warmer
	audit       *shared.AuditLogger
}

// NewService constructs a Service. warmer may be nil.
func NewService(repo RepositoryPort, generations GenerationBumper, warmer Warmer, audit *shared.AuditLogger) *Service {
	return &Service{repo: repo, generations: generations, warmer: warmer, audit: audit}
}

// List returns all live assignments.
func (s *Service) List(ctx context.Context) ([]MenuAssignment, error) {
	return s.repo.List(ctx)
}

// Assign grants a user one menu link.
func (s *Service) Assign(ctx context.Context, actorID int64, nama, link string, userID int64) (MenuAssignment, error) {
	nama = strings.TrimSpace(nama)
	link = strings.TrimSpace(link)
	if nama == "" {
		return MenuAssignment{}, errors.New("menus: nama required")
	}
	if !shared.KnownLink(link) {
		return MenuAssignment{}, errors.New("menus: unknown menu link " + strconv.Quote(link))
	}
	created, err := s.repo.Create(ctx, nama, link, userID)
	if err != nil {
		return MenuAssignment{}, err
	}
	s.invalidate(ctx, userID)
	s.record(ctx, actorID, "menu.assign", created)
	return created, nil
}

// Update rewrites an assignment, reassigning it to another user if needed.
func (s *Service) Update(ctx context.Context, actorID, id int64, nama, link string, userID int64) (MenuAssignment, error) {
	nama = strings.TrimSpace(nama)
	link = strings.TrimSpace(link)
	if nama == "" {
		return MenuAssignment{}, errors.New("menus: nama required")
	}
	if !shared.KnownLink(link) {
		return MenuAssignment{}, errors.New("menus: unknown menu link " + strconv.Quote(link))
	}
	previous, err := s.repo.Get(ctx, id)
	if err != nil {
		return MenuAssignment{}, err
	}
	updated, err := s.repo.Update(ctx, id, nama, link, userID)
	if err != nil {
		return MenuAssignment{}, err
	}
	// Reassignment invalidates both sides: the previous holder loses the
	// menu, the new holder gains it.
	if previous.UserID != userID {
		s.invalidate(ctx, previous.UserID)
	}
	s.invalidate(ctx, userID)
	s.record(ctx, actorID, "menu.update", updated)
	return updated, nil
}

// Remove soft-deletes an assignment. The record stays for audit but grants
// nothing from this point on.
func (s *Service) Remove(ctx context.Context, actorID, id int64) error {
	userID, err := s.repo.SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	s.record(ctx, actorID, "menu.remove", MenuAssignment{ID: id, UserID: userID})
	return nil
}

func (s *Service) invalidate(ctx context.Context, userID int64) {
	if s.generations != nil {
		_ = s.generations.Bump(ctx, userID)
	}
	if s.warmer != nil {
		_ = s.warmer.EnqueueAuthzWarm(ctx, userID)
	}
}

func (s *Service) record(ctx context.Context, actorID int64, action string, a MenuAssignment) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "pic_menu",
		EntityID: strconv.FormatInt(a.ID, 10),
		Meta:     map[string]any{"link": a.Link, "id_user": a.UserID},
	})
}
