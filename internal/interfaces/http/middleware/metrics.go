package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sota-olympics/sota-service/internal/pkg/metrics"
)

// Metrics records Prometheus metrics per request. The route template is
// used as the endpoint label to keep cardinality bounded.
func Metrics() gin.HandlerFunc {
	m := metrics.GetMetrics()

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		m.RecordHTTPRequest(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
			c.Writer.Size(),
		)
	}
}
