package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/pandawa-internal/pandawa/internal/auth"
	"github.com/pandawa-internal/pandawa/internal/authz"
	"github.com/pandawa-internal/pandawa/internal/users"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeAuthzWarm rebuilds a user's permission snapshot after an
	// Owner edits their assignments.
	TaskTypeAuthzWarm = "authz:warm"
	// TaskTypeSnapshotSweep clears cached snapshots orphaned by
	// generation bumps.
	TaskTypeSnapshotSweep = "authz:sweep"
)

// AuthzWarmPayload identifies the user whose snapshot to rebuild.
type AuthzWarmPayload struct {
	UserID int64 `json:"user_id"`
}

// NewAuthzWarmTask constructs an Asynq task.
func NewAuthzWarmTask(payload AuthzWarmPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeAuthzWarm, data), nil
}

// NewSnapshotSweepTask constructs the periodic sweep task.
func NewSnapshotSweepTask() *asynq.Task {
	return asynq.NewTask(TaskTypeSnapshotSweep, nil)
}

// AccountSource yields an account so its identity can be rebuilt.
type AccountSource interface {
	Get(ctx context.Context, id int64) (users.User, error)
}

// Handlers carries the dependencies Asynq task handlers need.
type Handlers struct {
	Redis       *redis.Client
	Accounts    AccountSource
	Resolver    *authz.Resolver
	Generations *authz.Generations
	Logger      *slog.Logger
}

// HandleAuthzWarm resolves a fresh snapshot for the user so the next
// guarded request hits cache.
func (h Handlers) HandleAuthzWarm(ctx context.Context, t *asynq.Task) error {
	var payload AuthzWarmPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	account, err := h.Accounts.Get(ctx, payload.UserID)
	if err != nil {
		return err
	}
	role, err := auth.ParseRole(account.Role)
	if err != nil {
		return asynq.SkipRetry
	}
	snap := h.Resolver.Snapshot(ctx, auth.Identity{
		ID:       account.ID,
		Username: account.Username,
		Nama:     account.Nama,
		Role:     role,
		Active:   account.IsActive,
	})
	if h.Logger != nil {
		h.Logger.Info("authz snapshot warmed",
			slog.Int64("user_id", account.ID),
			slog.Int("links", len(snap.Links())))
	}
	return nil
}

// HandleSnapshotSweep deletes cached snapshots whose generation is behind
// the user's current counter. They would age out by TTL anyway; the sweep
// keeps Redis tidy between bumps.
func (h Handlers) HandleSnapshotSweep(ctx context.Context, t *asynq.Task) error {
	iter := h.Redis.Scan(ctx, 0, "authz:snap:*", 200).Iterator()
	var removed int
	for iter.Next(ctx) {
		key := iter.Val()
		parts := strings.Split(key, ":")
		if len(parts) != 4 {
			continue
		}
		userID, err1 := strconv.ParseInt(parts[2], 10, 64)
		gen, err2 := strconv.ParseInt(parts[3], 10, 64)
		if err1 != nil || err2 != nil {
			continue
		}
		current, err := h.Generations.Current(ctx, userID)
		if err != nil {
			continue
		}
		if gen < current {
			if err := h.Redis.Del(ctx, key).Err(); err == nil {
				removed++
			}
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if h.Logger != nil && removed > 0 {
		h.Logger.Info("stale snapshots swept", slog.Int("removed", removed))
	}
	return nil
}
