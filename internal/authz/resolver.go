package authz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/pandawa-internal/pandawa/internal/auth"
)

// AssignmentSource yields the live menu links assigned to a user.
type AssignmentSource interface {
	ActiveLinks(ctx context.Context, userID int64) ([]string, error)
}

// Resolver owns per-identity permission snapshots. Snapshots are cached in
// Redis keyed by user and generation; concurrent resolutions for the same
// key collapse into one assignment fetch.
type Resolver struct {
	source      AssignmentSource
	generations *Generations
	client      *redis.Client
	cacheTTL    time.Duration
	bypass      map[auth.Role]struct{}
	group       singleflight.Group
	logger      *slog.Logger
}

// NewResolver constructs a Resolver. bypassRoles are exempt from assignment
// lookup entirely.
func NewResolver(source AssignmentSource, generations *Generations, client *redis.Client, cacheTTL time.Duration, bypassRoles []auth.Role, logger *slog.Logger) *Resolver {
	bypass := make(map[auth.Role]struct{}, len(bypassRoles))
	for _, r := range bypassRoles {
		bypass[r] = struct{}{}
	}
	return &Resolver{
		source:      source,
		generations: generations,
		client:      client,
		cacheTTL:    cacheTTL,
		bypass:      bypass,
		logger:      logger,
	}
}

// Snapshot resolves the permission snapshot for an identity. Resolution
// failures fail closed: the returned snapshot denies every capability-
// guarded route rather than exposing one by accident.
func (r *Resolver) Snapshot(ctx context.Context, identity auth.Identity) Snapshot {
	if _, ok := r.bypass[identity.Role]; ok {
		return BypassSnapshot(identity.ID, identity.Role)
	}

	// Two attempts: a generation bump racing the fetch discards the stale
	// result once. Persistent churn denies, which is the safe side.
	for attempt := 0; attempt < 2; attempt++ {
		gen, err := r.generations.Current(ctx, identity.ID)
		if err != nil {
			r.warn("generation read", err)
			return DeniedSnapshot(identity.ID, identity.Role)
		}
		snap, err := r.load(ctx, identity, gen)
		if err != nil {
			r.warn("resolve assignments", err)
			return DeniedSnapshot(identity.ID, identity.Role)
		}
		current, err := r.generations.Current(ctx, identity.ID)
		if err != nil {
			r.warn("generation recheck", err)
			return DeniedSnapshot(identity.ID, identity.Role)
		}
		if current == gen {
			return snap
		}
	}
	return DeniedSnapshot(identity.ID, identity.Role)
}

func (r *Resolver) load(ctx context.Context, identity auth.Identity, gen int64) (Snapshot, error) {
	key := r.cacheKey(identity.ID, gen)

	if r.client != nil {
		data, err := r.client.Get(ctx, key).Bytes()
		if err == nil {
			var links []string
			if err := json.Unmarshal(data, &links); err == nil {
				return NewSnapshot(identity.ID, identity.Role, gen, links), nil
			}
		} else if !errors.Is(err, redis.Nil) {
			r.warn("snapshot cache read", err)
		}
	}

	result, err, _ := r.group.Do(key, func() (any, error) {
		links, err := r.source.ActiveLinks(ctx, identity.ID)
		if err != nil {
			return nil, err
		}
		if r.client != nil {
			if data, err := json.Marshal(links); err == nil {
				if err := r.client.Set(ctx, key, data, r.cacheTTL).Err(); err != nil {
					r.warn("snapshot cache write", err)
				}
			}
		}
		return links, nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	links, _ := result.([]string)
	return NewSnapshot(identity.ID, identity.Role, gen, links), nil
}

// Invalidate bumps the user's generation, orphaning any cached snapshot.
func (r *Resolver) Invalidate(ctx context.Context, userID int64) error {
	return r.generations.Bump(ctx, userID)
}

func (r *Resolver) cacheKey(userID, gen int64) string {
	return fmt.Sprintf("authz:snap:%d:%d", userID, gen)
}

func (r *Resolver) warn(msg string, err error) {
	if r.logger != nil {
		r.logger.Warn(msg, slog.Any("error", err))
	}
}
