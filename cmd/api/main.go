package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sota-olympics/sota-service/internal/application/usecase"
	"github.com/sota-olympics/sota-service/internal/application/validation"
	"github.com/sota-olympics/sota-service/internal/config"
	"github.com/sota-olympics/sota-service/internal/domain/repository"
	"github.com/sota-olympics/sota-service/internal/infrastructure/messaging/kafka"
	"github.com/sota-olympics/sota-service/internal/infrastructure/persistence/mongodb"
	redisrepo "github.com/sota-olympics/sota-service/internal/infrastructure/persistence/redis"
	httpHandler "github.com/sota-olympics/sota-service/internal/interfaces/http/handler"
	"github.com/sota-olympics/sota-service/internal/interfaces/http/router"
	"github.com/sota-olympics/sota-service/internal/pkg/logger"
	"github.com/sota-olympics/sota-service/internal/pkg/metrics"
	"github.com/sota-olympics/sota-service/internal/pkg/tracing"
	"github.com/sota-olympics/sota-service/internal/pkg/vault"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "sota-service: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(logger.Config{
		Environment: cfg.App.Environment,
		Level:       cfg.Observability.LogLevel,
		ServiceName: cfg.App.Name,
		Version:     cfg.App.Version,
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	logger.Info(ctx, "starting service",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	if cfg.Observability.EnableMetrics {
		metrics.Init("sota_service")
	}

	if cfg.Observability.EnableTracing {
		shutdown, err := tracing.Init(&tracing.Config{
			ServiceName:    cfg.App.Name,
			ServiceVersion: cfg.App.Version,
			Environment:    cfg.App.Environment,
			JaegerEndpoint: cfg.Observability.JaegerEndpoint,
			Enabled:        true,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize tracing: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				logger.Warn(ctx, "tracer shutdown failed", zap.Error(err))
			}
		}()
	}

	mongoUser, mongoPass := cfg.MongoDB.Username, cfg.MongoDB.Password
	if cfg.MongoDB.UseVault {
		vaultClient, err := vault.NewClient(&vault.Config{
			Address:   cfg.Vault.Address,
			Token:     cfg.Vault.Token,
			Namespace: cfg.Vault.Namespace,
		})
		if err != nil {
			return fmt.Errorf("failed to create vault client: %w", err)
		}
		mongoUser, mongoPass, err = vaultClient.GetDatabaseCredentials(ctx, cfg.MongoDB.VaultPath)
		if err != nil {
			return fmt.Errorf("failed to fetch mongodb credentials from vault: %w", err)
		}
		logger.Info(ctx, "mongodb credentials loaded from vault")
	}

	mongoClient, err := mongodb.NewClient(&mongodb.Config{
		URI:            cfg.MongoDB.URI,
		Database:       cfg.MongoDB.Database,
		Username:       mongoUser,
		Password:       mongoPass,
		MaxPoolSize:    cfg.MongoDB.MaxPoolSize,
		MinPoolSize:    cfg.MongoDB.MinPoolSize,
		ConnectTimeout: cfg.MongoDB.ConnectTimeout,
		Timeout:        cfg.MongoDB.Timeout,
		Collections: mongodb.Collections{
			SportDetail:  cfg.Collections.SportDetail,
			SubSportType: cfg.Collections.SubSportType,
			Medal:        cfg.Collections.Medal,
			Audient:      cfg.Collections.Audient,
			Keys:         cfg.Collections.Keys,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			logger.Warn(ctx, "mongodb disconnect failed", zap.Error(err))
		}
	}()

	if err := mongoClient.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("failed to ensure indexes: %w", err)
	}

	var cache *redisrepo.CacheRepository
	var cacheRepo repository.CacheRepository
	var rateLimiter *redisrepo.RateLimiter
	if cfg.Redis.Enabled {
		cache, err = redisrepo.NewCacheRepository(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer cache.Close()
		cacheRepo = cache
		rateLimiter = cache.NewRateLimiter("api:ratelimit")
	}

	var publisher repository.EventPublisher
	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(&kafka.ProducerConfig{
			Brokers:      cfg.Kafka.Brokers,
			ClientID:     cfg.Kafka.ClientID,
			MaxRetries:   3,
			RetryBackoff: 250 * time.Millisecond,
		})
		if err != nil {
			return fmt.Errorf("failed to create kafka producer: %w", err)
		}
		defer producer.Close()
		publisher = producer
	}

	medalRepo := mongodb.NewMedalRepository(mongoClient)
	sportRepo := mongodb.NewSportRepository(mongoClient)
	audienceRepo := mongodb.NewAudienceRepository(mongoClient)
	keyRepo := mongodb.NewKeyRepository(mongoClient)

	validator := validation.NewValidator(sportRepo)
	cacheTTL := int(cfg.Redis.CacheTTL.Seconds())

	medalUC := usecase.NewMedalUseCase(medalRepo, validator, cacheRepo, publisher, cfg.Kafka.MedalTopic, cacheTTL)
	sportUC := usecase.NewSportUseCase(sportRepo, cacheRepo, cacheTTL)
	audienceUC := usecase.NewAudienceUseCase(audienceRepo, validator, publisher, cfg.Kafka.AudienceTopic)
	apiKeyUC := usecase.NewAPIKeyUseCase(keyRepo, validator)

	engine := router.SetupRouter(
		router.Config{
			Environment:   cfg.App.Environment,
			EnableTracing: cfg.Observability.EnableTracing,
			EnableMetrics: cfg.Observability.EnableMetrics,
			RateLimit:     cfg.Server.RateLimit,
			RateWindow:    cfg.Server.RateWindow,
		},
		router.Handlers{
			Sport:    httpHandler.NewSportHandler(sportUC),
			Medal:    httpHandler.NewMedalHandler(medalUC),
			Audience: httpHandler.NewAudienceHandler(audienceUC),
			APIKey:   httpHandler.NewAPIKeyHandler(apiKeyUC),
			Health:   httpHandler.NewHealthHandler(mongoClient, cache, cfg.App.Version),
		},
		keyRepo,
		rateLimiter,
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case sig := <-quit:
		logger.Info(ctx, "shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.Info(ctx, "server stopped")
	return nil
}
