package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/credence/pkg/adapters/redis"
	"github.com/aretw0/credence/pkg/belief"
	"github.com/aretw0/credence/pkg/domain"
	"github.com/aretw0/credence/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *backend.Client {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")
	t.Cleanup(mr.Close)
	return backend.NewClient(&backend.Options{Addr: mr.Addr()})
}

func TestRedisStore_Contract(t *testing.T) {
	store := redis.NewFromClient(newTestClient(t))
	ports.RunStateStoreContract(t, store)
}

func TestRedisStore_RoundTripBeliefs(t *testing.T) {
	store := redis.NewFromClient(newTestClient(t))
	ctx := context.Background()

	state := domain.NewState("weather", map[string]belief.Belief{
		"rain": belief.Bernoulli(0.42),
	})
	require.NoError(t, store.Save(ctx, "s1", state))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "weather", loaded.Network)
	assert.InDelta(t, 0.42, loaded.Priors["rain"].Prob(belief.True), 1e-9)
}

func TestRedisStore_KeyPrefix(t *testing.T) {
	client := newTestClient(t)
	store := redis.NewFromClient(client, redis.WithPrefix("custom:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s1", domain.NewState("n", nil)))

	val, err := client.Get(ctx, "custom:s1").Result()
	require.NoError(t, err)
	assert.NotEmpty(t, val)
}

func TestRedisStore_TTLPrunesIndex(t *testing.T) {
	client := newTestClient(t)
	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "session-ttl", domain.NewState("n", nil)))

	sessions, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, sessions, "session-ttl")

	// Past the TTL the index entry is pruned lazily by the next List.
	time.Sleep(1100 * time.Millisecond)
	sessions, err = store.List(ctx)
	require.NoError(t, err)
	assert.NotContains(t, sessions, "session-ttl")
}

func TestLocker_MutualExclusion(t *testing.T) {
	client := newTestClient(t)
	locker := redis.NewLocker(client, "credence:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "s1", 5*time.Second)
	require.NoError(t, err)

	// A second holder cannot acquire before the first releases.
	shortCtx, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(shortCtx, "s1", 5*time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, unlock(ctx))

	unlock2, err := locker.Lock(ctx, "s1", 5*time.Second)
	require.NoError(t, err)
	require.NoError(t, unlock2(ctx))
}
