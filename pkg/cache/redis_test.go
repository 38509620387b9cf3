package cache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisBackend(t *testing.T, retention time.Duration) (*RedisBackend, *miniredis.Miniredis) {
	t.Helper()

	m, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(m.Close)

	rc := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() { _ = rc.Close() })

	return NewRedisBackend(rc, retention), m
}

func TestRedisBackend_Miss(t *testing.T) {
	backend, _ := newRedisBackend(t, 0)

	_, err := backend.Get(context.Background(), KeyLeads)

	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisBackend_KeepsEntryWithoutTTL(t *testing.T) {
	backend, m := newRedisBackend(t, 0)
	ctx := context.Background()

	require.NoError(t, backend.Set(ctx, KeyStats, []byte(`{"data":1}`)))

	raw, err := backend.Get(ctx, KeyStats)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":1}`, string(raw))
	assert.Equal(t, time.Duration(0), m.TTL(redisKeyPrefix+KeyStats))
}

func TestRedisBackend_Retention(t *testing.T) {
	backend, m := newRedisBackend(t, 24*time.Hour)

	require.NoError(t, backend.Set(context.Background(), KeyLeads, []byte(`{}`)))

	assert.Equal(t, 24*time.Hour, m.TTL(redisKeyPrefix+KeyLeads))
}

func TestFetcher_StaleOnErrorWithRedis(t *testing.T) {
	backend, _ := newRedisBackend(t, 0)
	src := &countingSource{}
	src.value.Store(9)
	f, clock := newTestFetcher(backend, src, time.Minute)
	ctx := context.Background()

	f.Get(ctx, false)
	clock.Advance(2 * time.Minute)
	src.fail.Store(true)
	res := f.Get(ctx, false)

	assert.True(t, res.Stale)
	assert.Equal(t, 9, res.Value)
	assert.Equal(t, int32(2), src.calls.Load())
}
