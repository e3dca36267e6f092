package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-bookings/internal/booking/redis"
	"ms-bookings/internal/logger"
)

func setupLock(t *testing.T) (*redis.Redis, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return redis.NewRedis(client, logger.Discard()), mr
}

func TestLockDate(t *testing.T) {
	lock, mr := setupLock(t)
	ctx := context.Background()

	ok, err := lock.LockDate(ctx, "V1", "2025-06-01", "booking-a")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.True(t, mr.Exists("date_lock:V1:2025-06-01"))
}

func TestLockDate_Contention(t *testing.T) {
	lock, _ := setupLock(t)
	ctx := context.Background()

	ok, err := lock.LockDate(ctx, "V1", "2025-06-01", "booking-a")
	require.NoError(t, err)
	require.True(t, ok)

	// Second creator loses the same vendor-date.
	ok, err = lock.LockDate(ctx, "V1", "2025-06-01", "booking-b")
	require.NoError(t, err)
	assert.False(t, ok)

	// A different vendor or date is independent.
	ok, err = lock.LockDate(ctx, "V2", "2025-06-01", "booking-c")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = lock.LockDate(ctx, "V1", "2025-06-02", "booking-d")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUnlockDate_OwnerOnly(t *testing.T) {
	lock, mr := setupLock(t)
	ctx := context.Background()

	ok, err := lock.LockDate(ctx, "V1", "2025-06-01", "booking-a")
	require.NoError(t, err)
	require.True(t, ok)

	// A non-owner unlock leaves the lock in place.
	require.NoError(t, lock.UnlockDate(ctx, "V1", "2025-06-01", "booking-b"))
	assert.True(t, mr.Exists("date_lock:V1:2025-06-01"))

	// The owner releases it.
	require.NoError(t, lock.UnlockDate(ctx, "V1", "2025-06-01", "booking-a"))
	assert.False(t, mr.Exists("date_lock:V1:2025-06-01"))
}

func TestUnlockDate_ExpiredIsNoop(t *testing.T) {
	lock, mr := setupLock(t)
	ctx := context.Background()

	ok, err := lock.LockDate(ctx, "V1", "2025-06-01", "booking-a")
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(6 * time.Minute)

	require.NoError(t, lock.UnlockDate(ctx, "V1", "2025-06-01", "booking-a"))

	// The date can be taken again.
	ok, err = lock.LockDate(ctx, "V1", "2025-06-01", "booking-b")
	require.NoError(t, err)
	assert.True(t, ok)
}
