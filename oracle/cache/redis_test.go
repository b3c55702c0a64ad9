package cache

import (
	"context"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"boardbot/types"
)

const (
	redisImage      = "redis"
	redisTag        = "alpine"
	redisPort       = "6379/tcp"
	expireSeconds   = 120
	maxWaitDuration = 120 * time.Second
)

// newRedisClient starts a throwaway Redis container, or skips the test when
// Docker is not reachable.
func newRedisClient(t *testing.T) (context.Context, *redis.Client) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), maxWaitDuration)
	t.Cleanup(cancel)

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker unavailable: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: redisImage,
		Tag:        redisTag,
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("could not start redis: %v", err)
	}
	_ = resource.Expire(expireSeconds)
	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Errorf("could not purge redis: %v", err)
		}
	})

	pool.MaxWait = maxWaitDuration
	var client *redis.Client
	if err := pool.Retry(func() error {
		client = redis.NewClient(&redis.Options{Addr: resource.GetHostPort(redisPort)})
		return client.Ping(ctx).Err()
	}); err != nil {
		t.Fatalf("could not connect to redis: %v", err)
	}
	require.NoError(t, client.FlushDB(ctx).Err())
	return ctx, client
}

func TestRedisBackend(t *testing.T) {
	ctx, client := newRedisClient(t)
	backend := NewRedis(client, time.Minute)
	defer backend.Close()

	t.Run("miss", func(t *testing.T) {
		_, ok, err := backend.Get(ctx, "absent")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("round trip with ttl", func(t *testing.T) {
		require.NoError(t, backend.Set(ctx, "k", []byte(`{"isOver":true}`)))

		raw, ok, err := backend.Get(ctx, "k")
		require.NoError(t, err)
		require.True(t, ok)
		assert.JSONEq(t, `{"isOver":true}`, string(raw))

		ttl, err := client.TTL(ctx, keyPrefix+"k").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
	})
}

func TestRedisBackedOracle(t *testing.T) {
	ctx, client := newRedisClient(t)
	next := &countingOracle{}
	cached := New(next, NewRedis(client, 0), zaptest.NewLogger(t).Sugar())
	defer cached.Close()

	// Given: a position answered once
	b := types.NewBoard(mv(types.Human, 6, 6), mv(types.Machine, 6, 7))
	first, err := cached.RequestMachineMove(ctx, types.Gomoku, b, 6)
	require.NoError(t, err)

	// When: the position is asked again
	second, err := cached.RequestMachineMove(ctx, types.Gomoku, b, 6)

	// Then: Redis served it
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, next.moves)
}
