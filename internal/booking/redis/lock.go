package redis

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"ms-bookings/internal/logger"
)

// Redis guards the availability-check-then-insert sequence in booking
// creation. One lock per (vendor, date); the value is the booking id that
// owns the lock.
type Redis struct {
	Client *redis.Client
	Log    *logger.Logger
}

func NewRedis(client *redis.Client, log *logger.Logger) *Redis {
	return &Redis{Client: client, Log: log}
}

func dateLockKey(vendorID, date string) string {
	return fmt.Sprintf("date_lock:%s:%s", vendorID, date)
}

// lockTTL returns the lock duration from DATE_LOCK_TTL_MINUTES, default 5
// minutes. The TTL only bounds how long a crashed creator can block a
// vendor's date; the normal path unlocks explicitly.
func (r *Redis) lockTTL() time.Duration {
	const def = 5 * time.Minute

	raw := os.Getenv("DATE_LOCK_TTL_MINUTES")
	if raw == "" {
		return def
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 {
		r.Log.Warn("REDIS", fmt.Sprintf("invalid DATE_LOCK_TTL_MINUTES %q, using default", raw))
		return def
	}
	return time.Duration(minutes) * time.Minute
}

// LockDate takes the vendor-date lock for a booking being created. Returns
// false when another creation currently holds the same vendor and date.
func (r *Redis) LockDate(ctx context.Context, vendorID, date, bookingID string) (bool, error) {
	return r.Client.SetNX(ctx, dateLockKey(vendorID, date), bookingID, r.lockTTL()).Result()
}

// UnlockDate releases the lock, but only if it is still owned by the given
// booking id.
func (r *Redis) UnlockDate(ctx context.Context, vendorID, date, bookingID string) error {
	key := dateLockKey(vendorID, date)
	val, err := r.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil // expired or already released
	}
	if err != nil {
		return err
	}
	if val == bookingID {
		_, err = r.Client.Del(ctx, key).Result()
		return err
	}
	return nil
}
