package authz

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/pandawa-internal/pandawa/internal/auth"
	"github.com/pandawa-internal/pandawa/internal/shared"
	_ "github.com/pandawa-internal/pandawa/testing"
)

type stubSource struct {
	links []string
	err   error
	calls int
	// onFetch runs inside ActiveLinks, before returning. Tests use it to
	// race a generation bump against the fetch.
	onFetch func()
}

func (s *stubSource) ActiveLinks(ctx context.Context, userID int64) ([]string, error) {
	s.calls++
	if s.onFetch != nil {
		s.onFetch()
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.links, nil
}

func newTestResolver(t *testing.T, source *stubSource, bypass ...auth.Role) (*Resolver, *redis.Client, *Generations) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	generations := NewGenerations(client)
	resolver := NewResolver(source, generations, client, time.Minute, bypass, nil)
	return resolver, client, generations
}

func TestResolverResolvesAssignedLinks(t *testing.T) {
	source := &stubSource{links: []string{shared.LinkKomplain, shared.LinkTugas}}
	resolver, _, _ := newTestResolver(t, source)

	id := auth.Identity{ID: 7, Role: auth.RoleDivisi, Active: true}
	snap := resolver.Snapshot(context.Background(), id)

	require.False(t, snap.Failed())
	require.True(t, snap.Allows(shared.LinkKomplain, CapRead))
	require.True(t, snap.Allows(shared.LinkTugas, CapUpdate))
	require.False(t, snap.Allows(shared.LinkUsers, CapRead))
}

func TestResolverCachesByGeneration(t *testing.T) {
	source := &stubSource{links: []string{shared.LinkKomplain}}
	resolver, _, _ := newTestResolver(t, source)

	id := auth.Identity{ID: 7, Role: auth.RoleDivisi, Active: true}
	resolver.Snapshot(context.Background(), id)
	resolver.Snapshot(context.Background(), id)

	require.Equal(t, 1, source.calls, "second resolution should hit the cache")
}

func TestResolverInvalidateForcesRefetch(t *testing.T) {
	source := &stubSource{links: []string{shared.LinkKomplain}}
	resolver, _, _ := newTestResolver(t, source)

	ctx := context.Background()
	id := auth.Identity{ID: 7, Role: auth.RoleDivisi, Active: true}
	first := resolver.Snapshot(ctx, id)
	require.True(t, first.Allows(shared.LinkKomplain, CapRead))

	source.links = nil
	require.NoError(t, resolver.Invalidate(ctx, id.ID))

	second := resolver.Snapshot(ctx, id)
	require.False(t, second.Allows(shared.LinkKomplain, CapRead), "revoked assignment must disappear after invalidation")
	require.Equal(t, 2, source.calls)
}

func TestResolverFailsClosedOnSourceError(t *testing.T) {
	source := &stubSource{err: errors.New("database offline")}
	resolver, _, _ := newTestResolver(t, source)

	id := auth.Identity{ID: 7, Role: auth.RoleDivisi, Active: true}
	snap := resolver.Snapshot(context.Background(), id)

	require.True(t, snap.Failed())
	require.False(t, snap.Allows(shared.LinkKomplain, CapRead))
	// Authentication-only routes still pass.
	require.True(t, snap.Allows(shared.LinkDashboard))
}

func TestResolverDiscardsStaleFetch(t *testing.T) {
	source := &stubSource{links: []string{shared.LinkKomplain, shared.LinkPoskas}}
	resolver, _, generations := newTestResolver(t, source)

	ctx := context.Background()
	id := auth.Identity{ID: 7, Role: auth.RoleDivisi, Active: true}

	// The first fetch races a concurrent assignment edit: the bump lands
	// while the fetch is in flight, so its result is stale. The retry
	// fetches the post-edit links.
	bumped := false
	source.onFetch = func() {
		if !bumped {
			bumped = true
			require.NoError(t, generations.Bump(ctx, id.ID))
			source.links = []string{shared.LinkKomplain}
		}
	}

	snap := resolver.Snapshot(ctx, id)
	require.False(t, snap.Failed())
	require.True(t, snap.Allows(shared.LinkKomplain, CapRead))
	require.False(t, snap.Allows(shared.LinkPoskas, CapRead), "stale pre-edit fetch must be discarded")
	require.Equal(t, 2, source.calls)
}

func TestResolverBypassRoleSkipsLookup(t *testing.T) {
	source := &stubSource{err: errors.New("must not be called")}
	resolver, _, _ := newTestResolver(t, source, auth.RoleOwner)

	id := auth.Identity{ID: 1, Role: auth.RoleOwner, Active: true}
	snap := resolver.Snapshot(context.Background(), id)

	require.True(t, snap.Bypass())
	require.True(t, snap.Allows(shared.LinkUsers, CapManage))
	require.Equal(t, 0, source.calls)
}

func TestGenerationsStartAtZero(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	generations := NewGenerations(client)

	ctx := context.Background()
	gen, err := generations.Current(ctx, 42)
	require.NoError(t, err)
	require.Equal(t, int64(0), gen)

	require.NoError(t, generations.Bump(ctx, 42))
	gen, err = generations.Current(ctx, 42)
	require.NoError(t, err)
	require.Equal(t, int64(1), gen)
}
