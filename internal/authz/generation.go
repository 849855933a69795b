package authz

import (
	"context"
	"errors"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// Generations tracks a per-user counter that versions permission snapshots.
// Login, logout, and every assignment mutation bump it; a snapshot fetched
// under an older generation is discarded instead of applied.
type Generations struct {
	client *redis.Client
}

// NewGenerations constructs the counter store.
func NewGenerations(client *redis.Client) *Generations {
	return &Generations{client: client}
}

// Current returns the user's generation, zero if never bumped.
func (g *Generations) Current(ctx context.Context, userID int64) (int64, error) {
	val, err := g.client.Get(ctx, g.key(userID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return val, nil
}

// Bump increments the user's generation.
func (g *Generations) Bump(ctx context.Context, userID int64) error {
	return g.client.Incr(ctx, g.key(userID)).Err()
}

func (g *Generations) key(userID int64) string {
	return "authz:gen:" + strconv.FormatInt(userID, 10)
}
