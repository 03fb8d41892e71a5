package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitResult reports the outcome of one rate limit check.
type RateLimitResult struct {
	Allowed   bool
	Remaining int64
	ResetAt   time.Time
}

// slidingWindow trims expired entries, counts the window and records the
// request as a single atomic script so concurrent checks cannot both pass
// on the last slot.
var slidingWindow = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])

	redis.call("ZREMRANGEBYSCORE", key, "-inf", window_start)

	local count = redis.call("ZCARD", key)
	if count < limit then
		redis.call("ZADD", key, now, now .. "-" .. math.random())
		redis.call("PEXPIRE", key, window_ms)
		return {1, limit - count - 1}
	end
	return {0, 0}
`)

// CheckRateLimit enforces a sliding-window limit for the given key
// (typically "ip:<addr>" or "cliente:<id>").
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int64, window time.Duration) (*RateLimitResult, error) {
	prefixedKey := c.prefixKey("ratelimit:" + key)
	now := time.Now()

	result, err := slidingWindow.Run(ctx, c.rdb, []string{prefixedKey},
		now.UnixMilli(),
		now.Add(-window).UnixMilli(),
		limit,
		window.Milliseconds(),
	).Slice()
	if err != nil {
		return nil, err
	}

	return &RateLimitResult{
		Allowed:   result[0].(int64) == 1,
		Remaining: result[1].(int64),
		ResetAt:   now.Add(window),
	}, nil
}
