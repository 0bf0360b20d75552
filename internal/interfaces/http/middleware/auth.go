package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sota-olympics/sota-service/internal/domain/entity"
	"github.com/sota-olympics/sota-service/internal/domain/repository"
	"github.com/sota-olympics/sota-service/internal/pkg/errors"
	"github.com/sota-olympics/sota-service/internal/pkg/logger"
	"github.com/sota-olympics/sota-service/internal/pkg/metrics"
	"github.com/sota-olympics/sota-service/internal/pkg/token"
)

// ScopeKey is the gin context key holding the authenticated key's scope.
const ScopeKey = "access_scope"

const bearerPrefix = "Bearer "

// Authenticate resolves the bearer token and stores its scope on the
// context. Every failure mode returns the same detail-free 401; the
// reason is only visible in logs and metrics.
func Authenticate(keyRepo repository.KeyRepository) gin.HandlerFunc {
	m := metrics.GetMetrics()

	return func(c *gin.Context) {
		ctx := c.Request.Context()

		header := c.GetHeader("Authorization")
		if header == "" {
			reject(c, m, "missing_header")
			return
		}
		if !strings.HasPrefix(header, bearerPrefix) {
			reject(c, m, "malformed_header")
			return
		}

		tok := header[len(bearerPrefix):]
		if !token.Valid(tok) {
			reject(c, m, "malformed_token")
			return
		}

		key, err := keyRepo.FindByToken(ctx, tok)
		if err != nil {
			if err == entity.ErrKeyNotFound {
				reject(c, m, "unknown_token")
				return
			}
			logger.Error(ctx, "token lookup failed", logger.Field("error", err.Error()))
			reject(c, m, "lookup_error")
			return
		}

		c.Set(ScopeKey, key.Scope)
		c.Next()
	}
}

// RequireScope denies the request unless the authenticated scope grants
// every required capability. All-or-nothing.
func RequireScope(required ...entity.Capability) gin.HandlerFunc {
	m := metrics.GetMetrics()

	return func(c *gin.Context) {
		value, exists := c.Get(ScopeKey)
		if !exists {
			reject(c, m, "no_scope")
			return
		}
		scope, ok := value.(entity.Scope)
		if !ok || !scope.Allows(required...) {
			reject(c, m, "insufficient_scope")
			return
		}
		c.Next()
	}
}

// reject writes the uniform 401. The body never says why.
func reject(c *gin.Context, m *metrics.Metrics, reason string) {
	m.RecordAuthFailure(reason)
	logger.Warn(c.Request.Context(), "unauthorized request",
		logger.HTTPMethod(c.Request.Method),
		logger.HTTPPath(c.Request.URL.Path),
		logger.Field("reason", reason),
	)

	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":    errors.ErrCodeUnauthorized,
			"message": "Unauthorized access",
		},
		"request_id": c.GetString(RequestIDKey),
	})
}
