package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/animeroast-backend/internal/errors"
	"github.com/ikkim/animeroast-backend/pkg/ratelimit"
)

const anonymousIdentity = "anonymous"

// RateLimiter applies per-route budgets keyed by bucket and hashed client IP.
type RateLimiter struct {
	limiter ratelimit.Limiter
	window  time.Duration
	now     func() time.Time
}

func NewRateLimiter(limiter ratelimit.Limiter, window time.Duration) *RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{limiter: limiter, window: window, now: time.Now}
}

// Limit allows limit requests per window for each client. A failing store
// lets the request through.
func (r *RateLimiter) Limit(bucket string, limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Without LoggingMiddleware there is no hash; raw addresses never
		// reach the store, so such requests share one budget.
		identity := GetIPHash(c)
		if identity == "" {
			identity = anonymousIdentity
		}

		result, err := r.limiter.CheckAndConsume(c.Request.Context(), bucket+":"+identity, limit, r.window)
		if err != nil {
			GetLoggerFromContext(c).Error("Rate limiter unavailable, allowing request", err, map[string]interface{}{
				"bucket": bucket,
			})
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed {
			GetLoggerFromContext(c).Warn("Rate limit exceeded", map[string]interface{}{
				"bucket": bucket,
				"limit":  limit,
			})
			errors.TooManyRequests(c, errors.RateLimitExceeded, "", result.RetryAfter(r.now()))
			return
		}

		c.Next()
	}
}
