package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/pandawa-internal/pandawa/internal/shared"
)

// GenerationBumper invalidates cached permission snapshots for a user.
// Login and logout both bump so no snapshot resolved for a previous
// session ever applies to the next one.
type GenerationBumper interface {
	Bump(ctx context.Context, userID int64) error
}

// Service wraps authentication business rules.
type Service struct {
	repo        Repository
	tokens      *TokenStore
	generations GenerationBumper
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *TokenStore, generations GenerationBumper) *Service {
	return &Service{repo: repo, tokens: tokens, generations: generations}
}

// Authenticate validates username/password credentials. Unknown user,
// inactive account, and wrong password all collapse into
// shared.ErrInvalidCredentials so the response leaks nothing.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// Login exchanges credentials for a bearer token and identity snapshot.
func (s *Service) Login(ctx context.Context, username, password string) (Identity, string, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return Identity{}, "", err
	}
	identity := user.Identity()
	token, err := s.tokens.Issue(ctx, identity)
	if err != nil {
		return Identity{}, "", err
	}
	if s.generations != nil {
		_ = s.generations.Bump(ctx, identity.ID)
	}
	return identity, token, nil
}

// Resolve maps a bearer token back to its identity.
func (s *Service) Resolve(ctx context.Context, token string) (*Identity, error) {
	return s.tokens.Resolve(ctx, token)
}

// Logout revokes the presented token. Calling it with an absent or already
// revoked token succeeds; logout is idempotent.
func (s *Service) Logout(ctx context.Context, token string) error {
	identity, err := s.tokens.Resolve(ctx, token)
	if err := s.tokens.Revoke(ctx, token); err != nil {
		return err
	}
	if err == nil && identity != nil && s.generations != nil {
		_ = s.generations.Bump(ctx, identity.ID)
	}
	return nil
}
