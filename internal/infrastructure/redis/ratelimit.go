package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const ratePrefix = "ratelimit:"

// FixedWindow counts hits per key in windows of length Window and allows at
// most Limit of them.
type FixedWindow struct {
	Client *redis.Client
	Limit  int
	Window time.Duration
}

func NewFixedWindow(client *redis.Client, limit int, window time.Duration) *FixedWindow {
	return &FixedWindow{Client: client, Limit: limit, Window: window}
}

// Allow records a hit. When the limit is exceeded it returns false and the
// time until the window resets.
func (f *FixedWindow) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	k := ratePrefix + key
	n, err := f.Client.Incr(ctx, k).Result()
	if err != nil {
		return false, 0, err
	}
	if n == 1 {
		if err := f.Client.Expire(ctx, k, f.Window).Err(); err != nil {
			return false, 0, err
		}
	}
	if n <= int64(f.Limit) {
		return true, 0, nil
	}
	ttl, err := f.Client.TTL(ctx, k).Result()
	if err != nil || ttl < 0 {
		ttl = f.Window
	}
	return false, ttl, nil
}
