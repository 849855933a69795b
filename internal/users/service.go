package users

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/pandawa-internal/pandawa/internal/shared"
)

// RepositoryPort defines data access methods for accounts.
type RepositoryPort interface {
	List(ctx context.Context, limit, offset int) ([]User, int, error)
	Get(ctx context.Context, id int64) (User, error)
	Create(ctx context.Context, username, nama, role, passwordHash string) (User, error)
	Update(ctx context.Context, id int64, nama, role string) (User, error)
	UpdateNama(ctx context.Context, id int64, nama string) (User, error)
	SetPassword(ctx context.Context, id int64, passwordHash string) error
	SetActive(ctx context.Context, id int64, active bool) error
}

// Service handles account business logic.
type Service struct {
	repo  RepositoryPort
	audit *shared.AuditLogger
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, audit *shared.AuditLogger) *Service {
	return &Service{repo: repo, audit: audit}
}

// List returns a page of accounts with pagination metadata.
func (s *Service) List(ctx context.Context, page, perPage int) ([]User, shared.Pagination, error) {
	p := shared.NewPagination(page, perPage, 0)
	items, total, err := s.repo.List(ctx, p.PerPage, p.Offset())
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return items, shared.NewPagination(page, perPage, total), nil
}

// Get fetches one account.
func (s *Service) Get(ctx context.Context, id int64) (User, error) {
	return s.repo.Get(ctx, id)
}

// Create registers a new account with a bcrypt-hashed password.
func (s *Service) Create(ctx context.Context, actorID int64, username, nama, role, password string) (User, error) {
	username = strings.TrimSpace(username)
	nama = strings.TrimSpace(nama)
	if username == "" || nama == "" {
		return User{}, errors.New("users: username and nama required")
	}
	if len(password) < 8 {
		return User{}, errors.New("users: password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	created, err := s.repo.Create(ctx, username, nama, role, string(hash))
	if err != nil {
		return User{}, err
	}
	s.record(ctx, actorID, "user.create", created.ID)
	return created, nil
}

// Update rewrites name and role.
func (s *Service) Update(ctx context.Context, actorID, id int64, nama, role string) (User, error) {
	nama = strings.TrimSpace(nama)
	if nama == "" {
		return User{}, errors.New("users: nama required")
	}
	updated, err := s.repo.Update(ctx, id, nama, role)
	if err != nil {
		return User{}, err
	}
	s.record(ctx, actorID, "user.update", id)
	return updated, nil
}

// Deactivate disables an account without deleting it.
func (s *Service) Deactivate(ctx context.Context, actorID, id int64) error {
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return err
	}
	s.record(ctx, actorID, "user.deactivate", id)
	return nil
}

// UpdateProfile lets an account edit its own display name and, optionally,
// password.
func (s *Service) UpdateProfile(ctx context.Context, id int64, nama, password string) (User, error) {
	nama = strings.TrimSpace(nama)
	if nama == "" {
		return User{}, errors.New("users: nama required")
	}
	updated, err := s.repo.UpdateNama(ctx, id, nama)
	if err != nil {
		return User{}, err
	}
	if password != "" {
		if len(password) < 8 {
			return User{}, errors.New("users: password must be at least 8 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return User{}, err
		}
		if err := s.repo.SetPassword(ctx, id, string(hash)); err != nil {
			return User{}, err
		}
	}
	s.record(ctx, id, "user.profile", id)
	return updated, nil
}

func (s *Service) record(ctx context.Context, actorID int64, action string, id int64) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "user",
		EntityID: strconv.FormatInt(id, 10),
	})
}
