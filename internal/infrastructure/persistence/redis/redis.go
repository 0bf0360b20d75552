package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sota-olympics/sota-service/internal/domain/repository"
	"github.com/sota-olympics/sota-service/internal/pkg/logger"
	"github.com/sota-olympics/sota-service/internal/pkg/metrics"
)

// ErrCacheMiss is returned by Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// CacheRepository is the Redis-backed cache for aggregation results.
type CacheRepository struct {
	client  *redis.Client
	metrics *metrics.Metrics
}

// NewCacheRepository connects to Redis and verifies the connection.
func NewCacheRepository(addr, password string, db int) (*CacheRepository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     100,
		MinIdleConns: 10,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &CacheRepository{
		client:  client,
		metrics: metrics.GetMetrics(),
	}, nil
}

// Get unmarshals the cached value into dest, or returns ErrCacheMiss.
func (r *CacheRepository) Get(ctx context.Context, key string, dest interface{}) error {
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		r.metrics.RecordCacheMiss("rollup")
		return ErrCacheMiss
	} else if err != nil {
		return fmt.Errorf("failed to get value: %w", err)
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return fmt.Errorf("failed to unmarshal cached value: %w", err)
	}

	r.metrics.RecordCacheHit("rollup")
	return nil
}

// Set stores the JSON-encoded value with a TTL in seconds.
func (r *CacheRepository) Set(ctx context.Context, key string, value interface{}, ttlSeconds int) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	expiration := time.Duration(ttlSeconds) * time.Second
	if err := r.client.Set(ctx, key, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set value: %w", err)
	}

	return nil
}

// Delete removes the keys. Missing keys are not an error.
func (r *CacheRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete keys: %w", err)
	}
	return nil
}

// Ping verifies the connection is alive.
func (r *CacheRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (r *CacheRepository) Close() error {
	return r.client.Close()
}

var _ repository.CacheRepository = (*CacheRepository)(nil)

// RateLimiter is a fixed-window limiter keyed per client.
type RateLimiter struct {
	client *redis.Client
	prefix string
}

// NewRateLimiter creates a limiter sharing the cache connection.
func (r *CacheRepository) NewRateLimiter(prefix string) *RateLimiter {
	return &RateLimiter{
		client: r.client,
		prefix: prefix,
	}
}

// allowScript counts the request and sets the window expiry atomically.
var allowScript = redis.NewScript(`
	local key = KEYS[1]
	local limit = tonumber(ARGV[1])
	local window = tonumber(ARGV[2])
	local current = tonumber(redis.call('GET', key) or "0")

	if current < limit then
		redis.call('INCR', key)
		if current == 0 then
			redis.call('EXPIRE', key, window)
		end
		return 1
	else
		return 0
	end
`)

// Allow reports whether the request fits inside the current window.
func (rl *RateLimiter) Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, error) {
	fullKey := fmt.Sprintf("%s:%s", rl.prefix, key)

	result, err := allowScript.Run(ctx, rl.client, []string{fullKey}, limit, int64(window.Seconds())).Int()
	if err != nil {
		logger.Error(ctx, "rate limit check failed",
			logger.Field("key", key),
			zap.Error(err),
		)
		return false, fmt.Errorf("rate limit check failed: %w", err)
	}

	allowed := result == 1
	if !allowed {
		logger.Debug(ctx, "rate limit exceeded",
			logger.Field("key", key),
			logger.Field("limit", limit),
		)
	}

	return allowed, nil
}
