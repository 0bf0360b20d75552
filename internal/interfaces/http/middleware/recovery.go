package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sota-olympics/sota-service/internal/pkg/errors"
	"github.com/sota-olympics/sota-service/internal/pkg/logger"
)

// Recovery turns panics into 500 responses.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				stack := string(debug.Stack())

				ctx := c.Request.Context()
				logger.Error(ctx, "panic recovered",
					logger.HTTPMethod(c.Request.Method),
					logger.HTTPPath(c.Request.URL.Path),
					logger.RemoteAddr(c.ClientIP()),
					zap.Any("panic", err),
					zap.String("stack", stack),
				)

				appErr := errors.New(errors.ErrCodeInternal, "internal server error")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": gin.H{
						"code":    appErr.Code,
						"message": appErr.Message,
					},
					"request_id": c.GetString(RequestIDKey),
				})

				c.Abort()
			}
		}()

		c.Next()
	}
}

// ErrorHandler renders errors queued on the gin context as the standard
// envelope. Unauthorized responses carry no field detail; everything else
// includes the per-field reasons when present.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		if c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		ctx := c.Request.Context()

		var appErr *errors.AppError
		if !errors.As(err, &appErr) {
			appErr = errors.Wrap(err, errors.ErrCodeInternal, "internal server error")
		}

		logger.Error(ctx, "request error",
			logger.HTTPMethod(c.Request.Method),
			logger.HTTPPath(c.Request.URL.Path),
			logger.ErrorCode(string(appErr.Code)),
			zap.Error(appErr),
		)

		errBody := gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		}
		if appErr.Code != errors.ErrCodeUnauthorized && len(appErr.Fields) > 0 {
			errBody["fields"] = appErr.Fields
		}

		c.JSON(appErr.HTTPStatus, gin.H{
			"error":      errBody,
			"request_id": c.GetString(RequestIDKey),
		})
	}
}

// CORS sets permissive CORS headers and short-circuits preflights.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
