// Package ratelimit provides a Redis-backed token bucket used to throttle
// login attempts per client.
package ratelimit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "itinerator:ratelimit:login:"
	keyTTL    = 2 * time.Minute
)

// Result is the outcome of one bucket check.
type Result struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// tokenBucketScript refills and consumes in one atomic step.
// Returns {allowed, retry_after_seconds, remaining_tokens}.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local rate = tonumber(ARGV[1])
	local burst = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])
	local ttl = tonumber(ARGV[4])

	local data = redis.call('HMGET', key, 'tokens', 'last_update')
	local tokens = tonumber(data[1]) or burst
	local last_update = tonumber(data[2]) or now

	tokens = math.min(burst, tokens + ((now - last_update) * rate))

	local allowed = 0
	local retry_after = 0
	if tokens >= 1 then
		tokens = tokens - 1
		allowed = 1
	else
		retry_after = math.ceil((1 - tokens) / rate)
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_update', now)
	redis.call('EXPIRE', key, ttl)

	return {allowed, retry_after, math.floor(tokens)}
`)

// RedisLimiter is a per-key token bucket stored in Redis.
type RedisLimiter struct {
	client    redis.Scripter
	perSecond float64
	burst     int
	now       func() time.Time
}

// New connects to redisURL and returns a limiter that refills perMinute
// tokens per minute up to burst.
func New(ctx context.Context, redisURL string, perMinute, burst int) (*RedisLimiter, *redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	opt.PoolSize = 10
	opt.PoolTimeout = 4 * time.Second

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return NewWithClient(client, perMinute, burst), client, nil
}

// NewWithClient builds a limiter over an existing client.
func NewWithClient(client redis.Scripter, perMinute, burst int) *RedisLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &RedisLimiter{
		client:    client,
		perSecond: float64(perMinute) / 60.0,
		burst:     burst,
		now:       time.Now,
	}
}

// Allow consumes one token for key. On a Redis error the result is Allowed
// and the error is returned so the caller can log it.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	res, err := tokenBucketScript.Run(ctx, l.client,
		[]string{keyPrefix + hashKey(key)},
		l.perSecond, l.burst, l.now().Unix(), int(keyTTL.Seconds()),
	).Int64Slice()
	if err != nil {
		return Result{Allowed: true, Remaining: int64(l.burst)}, fmt.Errorf("rate limit script: %w", err)
	}
	if len(res) != 3 {
		return Result{Allowed: true, Remaining: int64(l.burst)}, fmt.Errorf("rate limit script: unexpected reply %v", res)
	}

	return Result{
		Allowed:    res[0] == 1,
		RetryAfter: time.Duration(res[1]) * time.Second,
		Remaining:  res[2],
	}, nil
}

// hashKey keeps raw client addresses out of Redis.
func hashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:8])
}
