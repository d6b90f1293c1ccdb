package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter implements sliding-window rate limiting on Redis sorted sets. The
// window check runs as one Lua script so concurrent API instances stay
// consistent without extra locking.
type Limiter struct {
	client    *redis.Client
	keyPrefix string
}

// NewLimiter wraps an existing Redis client.
func NewLimiter(client *redis.Client, keyPrefix string) *Limiter {
	if keyPrefix == "" {
		keyPrefix = "ratelimit:"
	}
	return &Limiter{client: client, keyPrefix: keyPrefix}
}

// NewLimiterFromEnv constructs a limiter from the REDIS_URL environment variable.
func NewLimiterFromEnv() (*Limiter, error) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		return nil, errors.New("ratelimit: REDIS_URL environment variable is not set")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("ratelimit: parse url: %w", err)
	}
	return NewLimiter(redis.NewClient(opt), ""), nil
}

// Result describes one rate limit decision.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
	Limit     int
}

var slidingWindow = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)
	local current = redis.call('ZCARD', key)

	if current < limit then
		local counter = redis.call('INCR', key .. ':counter')
		redis.call('ZADD', key, now, now .. ':' .. counter)
		local expire_seconds = math.ceil(window_ms / 1000)
		redis.call('EXPIRE', key, expire_seconds)
		redis.call('EXPIRE', key .. ':counter', expire_seconds)
		return {1, limit - current - 1, 0}
	else
		local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
		local reset_at = 0
		if oldest and #oldest >= 2 then
			reset_at = tonumber(oldest[2]) + window_ms
		end
		return {0, 0, reset_at}
	end
`)

// Allow records one request under key and reports whether it fits the limit.
func (l *Limiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error) {
	now := time.Now()
	args := []any{
		now.UnixMilli(),
		now.Add(-window).UnixMilli(),
		limit,
		window.Milliseconds(),
	}

	raw, err := slidingWindow.Run(ctx, l.client, []string{l.keyPrefix + key}, args...).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("ratelimit: redis script: %w", err)
	}
	if len(raw) != 3 {
		return nil, fmt.Errorf("ratelimit: unexpected redis response length: %d", len(raw))
	}

	resetAt := now.Add(window)
	if raw[2] > 0 {
		resetAt = time.UnixMilli(raw[2])
	}

	return &Result{
		Allowed:   raw[0] == 1,
		Remaining: int(raw[1]),
		ResetAt:   resetAt,
		Limit:     limit,
	}, nil
}

// Close releases the underlying Redis client.
func (l *Limiter) Close() error {
	return l.client.Close()
}
