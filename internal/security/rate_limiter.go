package security

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type RateLimiterConfig struct {
	Redis    *redis.Client
	Limit    int
	Interval time.Duration
	// SkipSuccessfulAuth refunds requests to auth endpoints that returned a
	// 2xx status, so only failed login attempts count.
	SkipSuccessfulAuth bool
	// KeyPrefix namespaces the counters; defaults to "rate_limit".
	KeyPrefix string
}

// RateLimiter is a fixed window counter per client IP stored in Redis.
type RateLimiter struct {
	redis              *redis.Client
	limit              int
	interval           time.Duration
	skipSuccessfulAuth bool
	prefix             string
}

func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "rate_limit"
	}
	return &RateLimiter{
		redis:              cfg.Redis,
		limit:              cfg.Limit,
		interval:           cfg.Interval,
		skipSuccessfulAuth: cfg.SkipSuccessfulAuth,
		prefix:             cfg.KeyPrefix,
	}
}

// Allow counts one request for key and reports whether it is within the limit,
// the remaining budget and the time until the window resets.
func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, int, time.Duration, error) {
	now := time.Now()
	redisKey, reset := rl.windowKey(key, now)

	pipe := rl.redis.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rl.interval)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, rl.limit, 0, fmt.Errorf("rate limit counter: %w", err)
	}

	count := int(incr.Val())
	remaining := rl.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= rl.limit, remaining, reset, nil
}

// windowKey returns the counter key of the window containing now and the time
// left until that window ends.
func (rl *RateLimiter) windowKey(key string, now time.Time) (string, time.Duration) {
	window := now.UnixNano() / int64(rl.interval)
	end := time.Unix(0, (window+1)*int64(rl.interval))
	return fmt.Sprintf("%s:%s:%d", rl.prefix, key, window), end.Sub(now)
}

func (rl *RateLimiter) refund(ctx context.Context, key string) {
	redisKey, _ := rl.windowKey(key, time.Now())
	if err := rl.redis.Decr(ctx, redisKey).Err(); err != nil {
		log.Warn().Err(err).Str("key", redisKey).Msg("failed to refund rate limit")
	}
}

// GinMiddleware limits requests per client IP. Redis failures let the request
// through.
func (rl *RateLimiter) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.limit <= 0 {
			c.Next()
			return
		}

		key := c.ClientIP()
		allowed, remaining, reset, err := rl.Allow(c.Request.Context(), key)
		if err != nil {
			log.Error().Err(err).Str("client_ip", key).Msg("rate limiter unavailable")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(reset/time.Second)+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests",
				"code":  "RATE_LIMITED",
			})
			return
		}

		c.Next()

		if rl.skipSuccessfulAuth && isAuthPath(c.FullPath()) && c.Writer.Status() < 300 {
			rl.refund(c.Request.Context(), key)
		}
	}
}

func isAuthPath(path string) bool {
	switch path {
	case "/api/v1/auth/login", "/api/v1/auth/register", "/api/v1/auth/refresh":
		return true
	}
	return false
}
