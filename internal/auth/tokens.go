package auth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pandawa-internal/pandawa/internal/shared"
)

// TokenStore keeps bearer credentials in Redis. Each token maps to the
// identity snapshot captured at login and expires after the configured TTL.
type TokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

type tokenPayload struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Nama     string `json:"nama"`
	Role     string `json:"role"`
	Active   bool   `json:"active"`
	IssuedAt int64  `json:"issued_at"`
}

// NewTokenStore constructs a TokenStore.
func NewTokenStore(client *redis.Client, ttl time.Duration) *TokenStore {
	return &TokenStore{client: client, ttl: ttl}
}

// Issue mints an opaque bearer token for the identity.
func (s *TokenStore) Issue(ctx context.Context, id Identity) (string, error) {
	token := uuid.NewString()
	payload := tokenPayload{
		ID:       id.ID,
		Username: id.Username,
		Nama:     id.Nama,
		Role:     string(id.Role),
		Active:   id.Active,
		IssuedAt: time.Now().Unix(),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, s.redisKey(token), data, s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve returns the identity a token was issued for. A missing or expired
// token resolves to shared.ErrUnauthenticated; callers treat that as
// "not logged in", never as a failure worth surfacing.
func (s *TokenStore) Resolve(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, shared.ErrUnauthenticated
	}
	data, err := s.client.Get(ctx, s.redisKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shared.ErrUnauthenticated
		}
		return nil, err
	}
	var payload tokenPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, shared.ErrUnauthenticated
	}
	role, err := ParseRole(payload.Role)
	if err != nil {
		return nil, shared.ErrUnauthenticated
	}
	return &Identity{
		ID:       payload.ID,
		Username: payload.Username,
		Nama:     payload.Nama,
		Role:     role,
		Active:   payload.Active,
	}, nil
}

// Revoke deletes a token. Revoking an absent token is not an error, so
// logout stays idempotent.
func (s *TokenStore) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.client.Del(ctx, s.redisKey(token)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

// TTL exposes the configured token lifetime.
func (s *TokenStore) TTL() time.Duration {
	return s.ttl
}

func (s *TokenStore) redisKey(token string) string {
	return "token:" + token
}
