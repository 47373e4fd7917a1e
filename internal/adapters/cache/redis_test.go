package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noteshare/internal/adapters/cache"
	portscache "noteshare/internal/ports/cache"
)

const defaultSessionTTL = 15 * time.Minute

func newTestCache(t *testing.T) (*miniredis.Miniredis, portscache.SessionCache) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessionCache := cache.NewWithClient(client, defaultSessionTTL)

	t.Cleanup(func() {
		_ = sessionCache.Close()
	})

	return mr, sessionCache
}

func TestSessionCacheSetAndGet(t *testing.T) {
	ctx := context.Background()
	_, sessionCache := newTestCache(t)

	err := sessionCache.Set(ctx, "session:user-1", `{"id":"user-1"}`, time.Minute)
	require.NoError(t, err)

	value, err := sessionCache.Get(ctx, "session:user-1")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"user-1"}`, value)
}

func TestSessionCacheGetMissingKey(t *testing.T) {
	ctx := context.Background()
	_, sessionCache := newTestCache(t)

	value, err := sessionCache.Get(ctx, "session:absent")
	require.NoError(t, err)
	assert.Empty(t, value)
}

func TestSessionCacheZeroTTLUsesDefault(t *testing.T) {
	ctx := context.Background()
	mr, sessionCache := newTestCache(t)

	err := sessionCache.Set(ctx, "session:user-2", "payload", 0)
	require.NoError(t, err)

	assert.Equal(t, defaultSessionTTL, mr.TTL("session:user-2"))
}

func TestSessionCacheDelete(t *testing.T) {
	ctx := context.Background()
	_, sessionCache := newTestCache(t)

	require.NoError(t, sessionCache.Set(ctx, "session:user-3", "payload", time.Minute))
	require.NoError(t, sessionCache.Delete(ctx, "session:user-3"))

	value, err := sessionCache.Get(ctx, "session:user-3")
	require.NoError(t, err)
	assert.Empty(t, value)
}

func TestSessionCacheExpiry(t *testing.T) {
	ctx := context.Background()
	mr, sessionCache := newTestCache(t)

	require.NoError(t, sessionCache.Set(ctx, "session:user-4", "payload", time.Second))

	mr.FastForward(2 * time.Second)

	value, err := sessionCache.Get(ctx, "session:user-4")
	require.NoError(t, err)
	assert.Empty(t, value)
}
