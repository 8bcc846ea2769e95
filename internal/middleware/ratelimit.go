package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
)

const (
	defaultMaxRequests = 100
	defaultWindow      = time.Minute
	rateLimitPrefix    = "ratelimit"
)

// RateLimiter is a fixed-window request limiter shared across instances
// through Redis. Requests are counted per authenticated owner, or per client
// IP before authentication.
type RateLimiter struct {
	client      *redis.Client
	maxRequests int
	window      time.Duration
	now         func() time.Time
}

// NewRateLimiter creates a limiter allowing maxRequests per window.
func NewRateLimiter(client *redis.Client, maxRequests int, window time.Duration) *RateLimiter {
	if maxRequests <= 0 {
		maxRequests = defaultMaxRequests
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &RateLimiter{client: client, maxRequests: maxRequests, window: window, now: time.Now}
}

// Middleware returns a Gin middleware handler that enforces the limit.
// When Redis is unreachable requests are let through.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetString(UserIDKey)
		if key == "" {
			key = "ip:" + c.ClientIP()
		}

		allowed, err := rl.Allow(c.Request.Context(), key)
		if err != nil {
			logger.Get().Warnw("Rate limiter unavailable", "error", err, "key", key)
			c.Next()
			return
		}
		if !allowed {
			c.Header("Retry-After", fmt.Sprintf("%d", int(rl.window.Seconds())))
			abortWithError(c, apperrors.ErrRateLimited)
			return
		}
		c.Next()
	}
}

// Allow counts one request for key in the current window and reports whether
// it is within the limit.
func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	bucket := rl.now().UnixNano() / int64(rl.window)
	redisKey := fmt.Sprintf("%s:%s:%d", rateLimitPrefix, key, bucket)

	pipe := rl.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rl.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return incr.Val() <= int64(rl.maxRequests), nil
}
