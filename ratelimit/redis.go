package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// Prune the window, count what is left, admit and record only if under the
// limit. Denied requests do not consume quota, so a throttled caller cannot
// push their own window further into the future.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local member = ARGV[4]
redis.call("ZREMRANGEBYSCORE", key, 0, now - window)
if redis.call("ZCARD", key) < limit then
  redis.call("ZADD", key, now, member)
  redis.call("PEXPIRE", key, window)
  return 1
end
return 0
`)

type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func CreateRedisLimiter(redisUrl string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: redis.NewClient(&redis.Options{
			Addr: redisUrl,
		}),
		limit:  limit,
		window: window,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := time.Now()
	allowed, err := slidingWindowScript.Run(
		ctx,
		l.client,
		[]string{"ratelimit:" + key},
		now.UnixMilli(),
		l.window.Milliseconds(),
		l.limit,
		strconv.FormatInt(now.UnixNano(), 10),
	).Int()
	if err != nil {
		return false, fmt.Errorf("sliding window check for %s: %s %w", key, err.Error(), UpstreamError)
	}
	return allowed == 1, nil
}
