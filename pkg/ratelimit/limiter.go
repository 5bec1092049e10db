// Package ratelimit implements fixed-window request budgets over a shared
// kvstore, so limits hold across every instance that points at the same store.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/ikkim/animeroast-backend/pkg/kvstore"
)

type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter is the time left until the current window closes.
func (r Result) RetryAfter(now time.Time) time.Duration {
	d := r.ResetAt.Sub(now)
	if d < time.Second {
		return time.Second
	}
	return d
}

type Limiter interface {
	CheckAndConsume(ctx context.Context, bucketKey string, limit int, window time.Duration) (Result, error)
}

type fixedWindowLimiter struct {
	store kvstore.Store
	now   func() time.Time
}

func NewLimiter(store kvstore.Store) Limiter {
	return &fixedWindowLimiter{store: store, now: time.Now}
}

// CheckAndConsume counts one request against bucketKey. The request is
// allowed while the count within the current window is at most limit.
func (l *fixedWindowLimiter) CheckAndConsume(ctx context.Context, bucketKey string, limit int, window time.Duration) (Result, error) {
	if window <= 0 {
		window = time.Minute
	}
	now := l.now()
	windowStart := now.Truncate(window)
	resetAt := windowStart.Add(window)
	key := fmt.Sprintf("ratelimit:%s:%d", bucketKey, windowStart.Unix())

	count, err := l.store.Incr(ctx, key, resetAt.Sub(now)+time.Second)
	if err != nil {
		return Result{Allowed: true, Limit: limit, Remaining: limit, ResetAt: resetAt}, fmt.Errorf("rate limit incr: %w", err)
	}

	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   int(count) <= limit,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}
