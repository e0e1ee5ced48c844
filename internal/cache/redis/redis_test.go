package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Winmix713/match-insight-dash-13/internal/domain"
)

// testClient connects to MATCHINSIGHT_TEST_REDIS_ADDR or skips.
func testClient(t *testing.T) *Client {
	t.Helper()
	addr := os.Getenv("MATCHINSIGHT_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("MATCHINSIGHT_TEST_REDIS_ADDR not set")
	}
	c, err := New(context.Background(), ClientConfig{Addr: addr, PoolSize: 4})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestKeyNames(t *testing.T) {
	assert.Equal(t, "matchinsight:lock:evaluation_sweep", lockKey("evaluation_sweep"))
	assert.Equal(t, "matchinsight:ratelimit:api:10.0.0.1", rateLimitKey("api:10.0.0.1"))
	assert.Equal(t, "matchinsight:model:active", activeModelKey)
}

func TestWrap(t *testing.T) {
	rdb := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:0"})
	defer rdb.Close()
	c := Wrap(rdb)
	assert.Same(t, rdb, c.rdb)
}

func TestLockManagerExclusive(t *testing.T) {
	c := testClient(t)
	lm := NewLockManager(c)
	ctx := context.Background()
	key := "test:" + uuid.NewString()

	unlock, err := lm.Acquire(ctx, key, 5*time.Second)
	require.NoError(t, err)

	_, err = lm.Acquire(ctx, key, 5*time.Second)
	assert.ErrorIs(t, err, domain.ErrLockHeld)

	unlock()
	unlock()

	unlock2, err := lm.Acquire(ctx, key, 5*time.Second)
	require.NoError(t, err)
	unlock2()
}

func TestRateLimiterWindow(t *testing.T) {
	c := testClient(t)
	rl := NewRateLimiter(c)
	ctx := context.Background()
	key := "test:" + uuid.NewString()

	for i := 0; i < 3; i++ {
		ok, err := rl.Allow(ctx, key, 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok, "request %d", i)
	}
	ok, err := rl.Allow(ctx, key, 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEventBusStream(t *testing.T) {
	c := testClient(t)
	bus := NewEventBus(c)
	ctx := context.Background()
	stream := "test:events:" + uuid.NewString()
	t.Cleanup(func() { c.rdb.Del(context.Background(), stream) })

	require.NoError(t, bus.StreamAppend(ctx, stream, []byte(`{"n":1}`)))
	require.NoError(t, bus.StreamAppend(ctx, stream, []byte(`{"n":2}`)))

	all, err := bus.StreamRead(ctx, stream, "", 10)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.JSONEq(t, `{"n":1}`, string(all[0].Payload))

	rest, err := bus.StreamRead(ctx, stream, all[0].ID, 10)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.JSONEq(t, `{"n":2}`, string(rest[0].Payload))

	require.NoError(t, bus.Publish(ctx, "test:channel", []byte("x")))
}

func TestModelCacheRoundTrip(t *testing.T) {
	c := testClient(t)
	mc := NewModelCache(c)
	ctx := context.Background()
	require.NoError(t, mc.Invalidate(ctx))

	_, err := mc.GetActive(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	acc := 71.25
	require.NoError(t, mc.SetActive(ctx, domain.Model{ID: "m1", Name: "Baseline", Version: "v1", Accuracy: &acc, IsActive: true}))
	got, err := mc.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Baseline v1", got.Label())
	assert.Equal(t, 71.25, *got.Accuracy)

	require.NoError(t, mc.Invalidate(ctx))
}
