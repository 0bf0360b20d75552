package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sota-olympics/sota-service/internal/domain/entity"
	"github.com/sota-olympics/sota-service/internal/domain/repository"
	"github.com/sota-olympics/sota-service/internal/infrastructure/persistence/redis"
	httpHandler "github.com/sota-olympics/sota-service/internal/interfaces/http/handler"
	"github.com/sota-olympics/sota-service/internal/interfaces/http/middleware"
)

// Config carries the router toggles.
type Config struct {
	Environment   string
	EnableTracing bool
	EnableMetrics bool
	RateLimit     int64
	RateWindow    time.Duration
}

// Handlers groups everything the route table needs.
type Handlers struct {
	Sport    *httpHandler.SportHandler
	Medal    *httpHandler.MedalHandler
	Audience *httpHandler.AudienceHandler
	APIKey   *httpHandler.APIKeyHandler
	Health   *httpHandler.HealthHandler
}

// SetupRouter wires the route table. rateLimiter may be nil, which
// disables rate limiting.
func SetupRouter(
	cfg Config,
	handlers Handlers,
	keyRepo repository.KeyRepository,
	rateLimiter *redis.RateLimiter,
) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logging())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.ErrorHandler())

	if cfg.EnableTracing {
		router.Use(middleware.Tracing())
	}
	if cfg.EnableMetrics {
		router.Use(middleware.Metrics())
	}

	// Probes and metrics stay outside the rate limit.
	router.GET("/health", handlers.Health.Health)
	router.GET("/ready", handlers.Health.Ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/")
	if rateLimiter != nil {
		api.Use(middleware.RateLimit(rateLimiter, cfg.RateLimit, cfg.RateWindow))
	}

	api.GET("", handlers.Sport.Root)

	// Sport catalog, open reads.
	api.GET("/sports/", handlers.Sport.ListSports)
	api.GET("/sport/all", handlers.Sport.AllDetails)
	api.GET("/sport/:sport_id", handlers.Sport.DetailByID)

	// Medal rollups, open reads.
	api.GET("/medals/", handlers.Medal.MedalTable)
	api.GET("/medal/c/:country_code", handlers.Medal.ByCountry)
	api.GET("/medal/s/:sport_id", handlers.Medal.BySport)
	api.GET("/medal/s/:sport_id/t/:subsport_id", handlers.Medal.BySubSport)

	// Writes gated by bearer token scope.
	api.POST("/medals/update_medal",
		middleware.Authenticate(keyRepo),
		middleware.RequireScope(entity.CapabilityPublishMedal),
		handlers.Medal.UpdateMedal,
	)
	api.POST("/audient/update_audient_info",
		middleware.Authenticate(keyRepo),
		middleware.RequireScope(entity.CapabilityPublishAudience),
		handlers.Audience.Update,
	)

	// Audience reads are open.
	api.GET("/audient/", handlers.Audience.List)

	// Key issuance is open; possession of a key is the only credential.
	api.POST("/apikeygen/", handlers.APIKey.Generate)

	return router
}
