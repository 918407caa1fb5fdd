// Package ratelimit counts attempts per key in fixed Redis windows.
package ratelimit

import (
	"context"
	"errors"
	"time"

	"admin-panel/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const namespace = "ratelimit"

type Limiter struct {
	client redis.UniversalClient
	limit  int64
	window time.Duration
}

func New(client redis.UniversalClient, limit int64, window time.Duration) *Limiter {
	return &Limiter{client: client, limit: limit, window: window}
}

// NewLoginLimiter returns nil when REDIS_ADDR is unset; a nil *Limiter never throttles.
func NewLoginLimiter(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) *Limiter {
	if cfg.RedisAddr == "" || cfg.LoginRateLimit <= 0 {
		logger.Info("login rate limiting disabled")
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return New(client, cfg.LoginRateLimit, cfg.LoginRateWindow)
}

// IncrWithExpire bumps the counter for key and starts its window on the first hit.
func (l *Limiter) IncrWithExpire(ctx context.Context, key string) (int64, error) {
	countKey := namespace + ":" + key

	cnt, err := l.client.Incr(ctx, countKey).Result()
	if err != nil {
		return 0, err
	}
	if cnt == 1 {
		_ = l.client.Expire(ctx, countKey, l.window).Err()
	}
	return cnt, nil
}

// Exceeded reports whether key has used up its window without counting a new attempt.
func (l *Limiter) Exceeded(ctx context.Context, key string) (bool, error) {
	if l == nil {
		return false, nil
	}
	cnt, err := l.client.Get(ctx, namespace+":"+key).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return cnt >= l.limit, nil
}

// Fail counts one failed attempt against key.
func (l *Limiter) Fail(ctx context.Context, key string) error {
	if l == nil {
		return nil
	}
	_, err := l.IncrWithExpire(ctx, key)
	return err
}

// Retry returns how long until key's window resets.
func (l *Limiter) Retry(ctx context.Context, key string) time.Duration {
	if l == nil {
		return 0
	}
	ttl, err := l.client.TTL(ctx, namespace+":"+key).Result()
	if err != nil || ttl < 0 {
		return l.window
	}
	return ttl
}
