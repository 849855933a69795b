package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/pandawa-internal/pandawa/internal/authz"
	"github.com/pandawa-internal/pandawa/internal/shared"
	"github.com/pandawa-internal/pandawa/internal/users"
	_ "github.com/pandawa-internal/pandawa/testing"
)

type stubAccounts struct {
	account users.User
	err     error
}

func (s *stubAccounts) Get(ctx context.Context, id int64) (users.User, error) {
	if s.err != nil {
		return users.User{}, s.err
	}
	return s.account, nil
}

type stubLinks struct {
	links []string
}

func (s *stubLinks) ActiveLinks(ctx context.Context, userID int64) ([]string, error) {
	return s.links, nil
}

func newHandlers(t *testing.T, links []string, account users.User) (Handlers, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	generations := authz.NewGenerations(client)
	resolver := authz.NewResolver(&stubLinks{links: links}, generations, client, time.Minute, nil, nil)
	return Handlers{
		Redis:       client,
		Accounts:    &stubAccounts{account: account},
		Resolver:    resolver,
		Generations: generations,
	}, client
}

func TestHandleAuthzWarmPopulatesCache(t *testing.T) {
	account := users.User{ID: 7, Username: "tina", Nama: "Tina", Role: "divisi", IsActive: true}
	handlers, client := newHandlers(t, []string{shared.LinkKomplain}, account)

	task, err := NewAuthzWarmTask(AuthzWarmPayload{UserID: 7})
	require.NoError(t, err)
	require.NoError(t, handlers.HandleAuthzWarm(context.Background(), task))

	keys, err := client.Keys(context.Background(), "authz:snap:7:*").Result()
	require.NoError(t, err)
	require.Len(t, keys, 1, "warm must leave a cached snapshot behind")
}

func TestHandleSnapshotSweepRemovesStale(t *testing.T) {
	account := users.User{ID: 7, Username: "tina", Nama: "Tina", Role: "divisi", IsActive: true}
	handlers, client := newHandlers(t, []string{shared.LinkKomplain}, account)

	ctx := context.Background()
	require.NoError(t, client.Set(ctx, "authz:snap:7:0", `["komplain"]`, time.Hour).Err())
	require.NoError(t, client.Set(ctx, "authz:snap:7:1", `["komplain"]`, time.Hour).Err())
	require.NoError(t, handlers.Generations.Bump(ctx, 7))

	require.NoError(t, handlers.HandleSnapshotSweep(ctx, NewSnapshotSweepTask()))

	exists, err := client.Exists(ctx, "authz:snap:7:0").Result()
	require.NoError(t, err)
	require.Equal(t, int64(0), exists, "generation 0 snapshot is stale after the bump")

	exists, err = client.Exists(ctx, "authz:snap:7:1").Result()
	require.NoError(t, err)
	require.Equal(t, int64(1), exists, "current generation snapshot must survive")
}

func TestHandleAuthzWarmBadPayload(t *testing.T) {
	account := users.User{ID: 7, Role: "divisi", IsActive: true}
	handlers, _ := newHandlers(t, nil, account)

	bad := NewSnapshotSweepTask()
	err := handlers.HandleAuthzWarm(context.Background(), bad)
	require.Error(t, err)
}
