package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	attemptPrefix  = "otp_attempts:"
	cooldownPrefix = "otp_cooldown:"
)

// Limiter throttles OTP verification failures and OTP issuance
type Limiter interface {
	// Failures returns the failures recorded for key in the current window
	Failures(ctx context.Context, key string) (int, error)
	// RecordFailure counts a failure. The window starts at the first failure.
	RecordFailure(ctx context.Context, key string, window time.Duration) (int, error)
	// Reset clears the failure counter for key
	Reset(ctx context.Context, key string) error
	// AcquireCooldown returns false when key was already acquired within interval
	AcquireCooldown(ctx context.Context, key string, interval time.Duration) (bool, error)
}

// NewRedisClient builds a client from a redis:// or rediss:// URL and pings it
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// RedisLimiter keeps counters in Redis so limits hold across instances
type RedisLimiter struct {
	client redis.Cmdable
	logger zerolog.Logger
}

var _ Limiter = (*RedisLimiter)(nil)

// NewRedisLimiter creates a new RedisLimiter
func NewRedisLimiter(client redis.Cmdable, logger zerolog.Logger) *RedisLimiter {
	return &RedisLimiter{client: client, logger: logger}
}

func (l *RedisLimiter) Failures(ctx context.Context, key string) (int, error) {
	val, err := l.client.Get(ctx, attemptPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read attempt count: %w", err)
	}

	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid attempt count format: %w", err)
	}
	return n, nil
}

// RecordFailure increments the counter and starts its window in one
// MULTI/EXEC. EXPIRE NX leaves a running window alone but repairs a counter
// that somehow lost its TTL.
func (l *RedisLimiter) RecordFailure(ctx context.Context, key string, window time.Duration) (int, error) {
	k := attemptPrefix + key
	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.ExpireNX(ctx, k, window)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to record attempt: %w", err)
	}
	n := incr.Val()
	l.logger.Debug().Str("key", key).Int64("count", n).Msg("OTP failure recorded")
	return int(n), nil
}

func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, attemptPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to reset attempts: %w", err)
	}
	return nil
}

func (l *RedisLimiter) AcquireCooldown(ctx context.Context, key string, interval time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, cooldownPrefix+key, "1", interval).Result()
	if err != nil {
		return false, fmt.Errorf("failed to set cooldown: %w", err)
	}
	return ok, nil
}

// Noop never limits. It is used when no Redis URL is configured.
type Noop struct{}

var _ Limiter = Noop{}

func (Noop) Failures(context.Context, string) (int, error) { return 0, nil }

func (Noop) RecordFailure(context.Context, string, time.Duration) (int, error) { return 0, nil }

func (Noop) Reset(context.Context, string) error { return nil }

func (Noop) AcquireCooldown(context.Context, string, time.Duration) (bool, error) { return true, nil }
