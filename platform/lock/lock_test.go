package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestLocker(t *testing.T, ttl time.Duration) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLockerFromClient(client, ttl), mr
}

func TestAcquire_SecondCallerGetsErrHeld(t *testing.T) {
	locker, _ := newTestLocker(t, time.Minute)
	ctx := context.Background()

	lease, err := locker.Acquire(ctx, "quotation:calc:1")
	require.NoError(t, err)

	_, err = locker.Acquire(ctx, "quotation:calc:1")
	require.ErrorIs(t, err, ErrHeld)

	other, err := locker.Acquire(ctx, "quotation:calc:2")
	require.NoError(t, err)
	require.NoError(t, other.Release(ctx))

	require.NoError(t, lease.Release(ctx))
	again, err := locker.Acquire(ctx, "quotation:calc:1")
	require.NoError(t, err)
	require.NoError(t, again.Release(ctx))
}

func TestAcquire_ExpiresAfterTTL(t *testing.T) {
	locker, mr := newTestLocker(t, 30*time.Second)
	ctx := context.Background()

	_, err := locker.Acquire(ctx, "quotation:calc:7")
	require.NoError(t, err)
	require.Equal(t, 30*time.Second, mr.TTL("quotation:calc:7"))

	mr.FastForward(31 * time.Second)

	lease, err := locker.Acquire(ctx, "quotation:calc:7")
	require.NoError(t, err)
	require.NoError(t, lease.Release(ctx))
}

func TestRelease_DoesNotDeleteForeignToken(t *testing.T) {
	locker, mr := newTestLocker(t, 30*time.Second)
	ctx := context.Background()

	stale, err := locker.Acquire(ctx, "quotation:calc:9")
	require.NoError(t, err)

	mr.FastForward(31 * time.Second)
	current, err := locker.Acquire(ctx, "quotation:calc:9")
	require.NoError(t, err)

	require.NoError(t, stale.Release(ctx))
	require.True(t, mr.Exists("quotation:calc:9"))

	require.NoError(t, current.Release(ctx))
	require.False(t, mr.Exists("quotation:calc:9"))
}
