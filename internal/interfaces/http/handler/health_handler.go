package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sota-olympics/sota-service/internal/infrastructure/persistence/mongodb"
	"github.com/sota-olympics/sota-service/internal/infrastructure/persistence/redis"
	"github.com/sota-olympics/sota-service/internal/pkg/logger"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	mongoClient *mongodb.Client
	cache       *redis.CacheRepository
	version     string
}

// NewHealthHandler creates the health handler. Both dependencies may be
// nil; a missing store reports as unavailable.
func NewHealthHandler(mongoClient *mongodb.Client, cache *redis.CacheRepository, version string) *HealthHandler {
	return &HealthHandler{
		mongoClient: mongoClient,
		cache:       cache,
		version:     version,
	}
}

// Health is the liveness probe; alive as long as the process serves it.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"version": h.version,
	})
}

// Ready is the readiness probe; the store must answer a ping. The cache
// is reported but never fails readiness, the service degrades without it.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	components := gin.H{}
	status := http.StatusOK

	if h.mongoClient == nil {
		components["mongodb"] = "unavailable"
		status = http.StatusServiceUnavailable
	} else if err := h.mongoClient.Ping(ctx); err != nil {
		logger.Error(ctx, "readiness check failed", zap.Error(err))
		components["mongodb"] = "unavailable"
		status = http.StatusServiceUnavailable
	} else {
		components["mongodb"] = "ok"
	}

	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			components["redis"] = "unavailable"
		} else {
			components["redis"] = "ok"
		}
	}

	body := gin.H{"components": components}
	if status == http.StatusOK {
		body["status"] = "ready"
	} else {
		body["status"] = "not_ready"
	}
	c.JSON(status, body)
}
