package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/sota-olympics/sota-service/internal/pkg/logger"
	"github.com/sota-olympics/sota-service/internal/pkg/tracing"
)

// Tracing opens a span per request and records the response status.
func Tracing() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracing.StartSpan(c.Request.Context(), c.Request.Method+" "+c.FullPath())
		defer span.End()

		span.SetAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.target", c.Request.URL.Path),
			attribute.String("http.host", c.Request.Host),
			attribute.String("http.client_ip", c.ClientIP()),
		)

		if requestID, exists := c.Get(RequestIDKey); exists {
			span.SetAttributes(attribute.String("request.id", requestID.(string)))
		}

		sc := span.SpanContext()
		if sc.HasTraceID() {
			ctx = logger.WithFields(ctx,
				logger.Field("trace_id", sc.TraceID().String()),
				logger.Field("span_id", sc.SpanID().String()),
			)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		statusCode := c.Writer.Status()
		span.SetAttributes(
			attribute.Int("http.status_code", statusCode),
			attribute.Int("http.response_size", c.Writer.Size()),
		)

		if len(c.Errors) > 0 {
			span.RecordError(c.Errors.Last())
			span.SetStatus(codes.Error, c.Errors.String())
		} else if statusCode >= 400 {
			span.SetStatus(codes.Error, http.StatusText(statusCode))
		}
	}
}
