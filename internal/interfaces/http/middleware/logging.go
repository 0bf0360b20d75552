package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sota-olympics/sota-service/internal/pkg/logger"
)

// Logging logs every request once it completes, at a level matching the
// response status.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		ctx := c.Request.Context()
		fields := []zap.Field{
			logger.HTTPMethod(c.Request.Method),
			logger.HTTPPath(path),
			logger.HTTPStatus(statusCode),
			logger.Duration(duration),
			logger.RemoteAddr(c.ClientIP()),
			zap.Int("response_size", c.Writer.Size()),
		}

		switch {
		case len(c.Errors) > 0:
			fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
			logger.Error(ctx, "request completed with errors", fields...)
		case statusCode >= 500:
			logger.Error(ctx, "request completed", fields...)
		case statusCode >= 400:
			logger.Warn(ctx, "request completed", fields...)
		default:
			logger.Info(ctx, "request completed", fields...)
		}
	}
}
