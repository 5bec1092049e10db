package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "github.com/ikkim/animeroast-backend/internal/errors"
	"github.com/ikkim/animeroast-backend/pkg/kvstore"
	"github.com/ikkim/animeroast-backend/pkg/ratelimit"
	"github.com/ikkim/animeroast-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingLimiter struct{}

func (failingLimiter) CheckAndConsume(context.Context, string, int, time.Duration) (ratelimit.Result, error) {
	return ratelimit.Result{}, errors.New("redis down")
}

type recordingLimiter struct {
	keys []string
}

func (l *recordingLimiter) CheckAndConsume(_ context.Context, key string, limit int, _ time.Duration) (ratelimit.Result, error) {
	l.keys = append(l.keys, key)
	return ratelimit.Result{Allowed: true, Limit: limit, Remaining: limit - 1, ResetAt: time.Now().Add(time.Minute)}, nil
}

func setupRateLimitTest(t *testing.T, limiter ratelimit.Limiter, limit int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(LoggingMiddleware(util.NewIPHasher("k")))
	rl := NewRateLimiter(limiter, time.Minute)
	router.GET("/limited", rl.Limit("search", limit), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func doFrom(router *gin.Engine, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/limited", nil)
	req.RemoteAddr = ip + ":1234"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_Limit(t *testing.T) {
	store, err := kvstore.NewMemoryStore(100)
	require.NoError(t, err)
	router := setupRateLimitTest(t, ratelimit.NewLimiter(store), 2)

	w := doFrom(router, "198.51.100.1")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))
	reset, err := strconv.ParseInt(w.Header().Get("X-RateLimit-Reset"), 10, 64)
	require.NoError(t, err)
	assert.Greater(t, reset, time.Now().Unix()-1)

	assert.Equal(t, http.StatusNoContent, doFrom(router, "198.51.100.1").Code)

	w = doFrom(router, "198.51.100.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	retryAfter, err := strconv.Atoi(w.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, retryAfter, 1)
	assert.LessOrEqual(t, retryAfter, 60)
	assert.Equal(t, apperrors.RateLimitExceeded, decodeBody(t, w)["error"])

	// other clients have their own budget
	assert.Equal(t, http.StatusNoContent, doFrom(router, "198.51.100.2").Code)
}

func TestRateLimiter_Limit_FailsOpen(t *testing.T) {
	router := setupRateLimitTest(t, failingLimiter{}, 1)

	for i := 0; i < 3; i++ {
		w := doFrom(router, "198.51.100.1")
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRateLimiter_Limit_NeverKeysOnRawIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := &recordingLimiter{}

	hashed := setupRateLimitTest(t, limiter, 5)
	assert.Equal(t, http.StatusNoContent, doFrom(hashed, "198.51.100.9").Code)

	bare := gin.New()
	bare.GET("/limited", NewRateLimiter(limiter, time.Minute).Limit("search", 5), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	assert.Equal(t, http.StatusNoContent, doFrom(bare, "198.51.100.9").Code)

	require.Len(t, limiter.keys, 2)
	for _, key := range limiter.keys {
		assert.NotContains(t, key, "198.51.100.9")
	}
	assert.Equal(t, "search:"+util.NewIPHasher("k").Hash("198.51.100.9"), limiter.keys[0])
	assert.Equal(t, "search:anonymous", limiter.keys[1])
}
