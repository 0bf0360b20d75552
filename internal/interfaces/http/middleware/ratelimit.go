package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sota-olympics/sota-service/internal/infrastructure/persistence/redis"
	"github.com/sota-olympics/sota-service/internal/pkg/logger"
)

// RateLimit applies a per-client-IP fixed window. Limiter errors fail
// open; a Redis outage must not take the read API down with it.
func RateLimit(limiter *redis.RateLimiter, limit int64, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		clientIP := c.ClientIP()

		allowed, err := limiter.Allow(ctx, clientIP, limit, window)
		if err != nil {
			logger.Error(ctx, "rate limit check failed",
				zap.String("client_ip", clientIP),
				zap.Error(err),
			)
			c.Next()
			return
		}

		if !allowed {
			logger.Warn(ctx, "rate limit exceeded",
				zap.String("client_ip", clientIP),
				zap.Int64("limit", limit),
				zap.Duration("window", window),
			)
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": int(window.Seconds()),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
