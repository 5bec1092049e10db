package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ikkim/animeroast-backend/pkg/kvstore"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLimiter(t *testing.T) (*fixedWindowLimiter, *time.Time) {
	mr := miniredis.RunT(t)
	store := kvstore.NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { store.Close() })

	now := time.Date(2024, 5, 1, 10, 0, 5, 0, time.UTC)
	l := NewLimiter(store).(*fixedWindowLimiter)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestLimiter_RefusesRequestAfterLimit(t *testing.T) {
	l, _ := setupLimiter(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		res, err := l.CheckAndConsume(ctx, "comment_create:abc", 5, time.Minute)
		require.NoError(t, err)
		assert.True(t, res.Allowed, "call %d should be allowed", i)
		assert.Equal(t, 5-i, res.Remaining)
	}

	res, err := l.CheckAndConsume(ctx, "comment_create:abc", 5, time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 1, 0, 0, time.UTC), res.ResetAt)
}

func TestLimiter_BucketsAreIndependent(t *testing.T) {
	l, _ := setupLimiter(t)
	ctx := context.Background()

	res, err := l.CheckAndConsume(ctx, "roast:ip1", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	res, err = l.CheckAndConsume(ctx, "roast:ip2", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	res, err = l.CheckAndConsume(ctx, "roast:ip1", 1, time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
}

func TestLimiter_NewWindowResetsBudget(t *testing.T) {
	l, now := setupLimiter(t)
	ctx := context.Background()

	_, err := l.CheckAndConsume(ctx, "search:ip", 1, time.Minute)
	require.NoError(t, err)
	res, err := l.CheckAndConsume(ctx, "search:ip", 1, time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)

	*now = now.Add(time.Minute)
	res, err = l.CheckAndConsume(ctx, "search:ip", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestLimiter_SharedAcrossInstances(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	newInstance := func() *fixedWindowLimiter {
		store := kvstore.NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
		t.Cleanup(func() { store.Close() })
		l := NewLimiter(store).(*fixedWindowLimiter)
		l.now = func() time.Time { return now }
		return l
	}
	a, b := newInstance(), newInstance()

	res, err := a.CheckAndConsume(ctx, "vote:ip", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	res, err = b.CheckAndConsume(ctx, "vote:ip", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	res, err = a.CheckAndConsume(ctx, "vote:ip", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
}

func TestResult_RetryAfter(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 40, 0, time.UTC)
	res := Result{ResetAt: time.Date(2024, 5, 1, 10, 1, 0, 0, time.UTC)}
	assert.Equal(t, 20*time.Second, res.RetryAfter(now))
	assert.Equal(t, time.Second, res.RetryAfter(res.ResetAt))
}
