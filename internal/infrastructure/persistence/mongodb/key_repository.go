package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sota-olympics/sota-service/internal/domain/entity"
	"github.com/sota-olympics/sota-service/internal/domain/repository"
	"github.com/sota-olympics/sota-service/internal/pkg/metrics"
)

// KeyRepository is the MongoDB access key store.
type KeyRepository struct {
	database    *mongo.Database
	collections Collections
	metrics     *metrics.Metrics
}

// NewKeyRepository creates the MongoDB key repository.
func NewKeyRepository(client *Client) repository.KeyRepository {
	return &KeyRepository{
		database:    client.database,
		collections: client.collections,
		metrics:     metrics.GetMetrics(),
	}
}

// Insert persists a new key. The unique index on key turns a concurrent
// issuance of the same token into entity.ErrKeyCollision.
func (r *KeyRepository) Insert(ctx context.Context, key entity.AccessKey) error {
	start := time.Now()
	coll := r.database.Collection(r.collections.Keys)

	if _, err := coll.InsertOne(ctx, key); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.metrics.RecordDBOperation("insert_key", r.collections.Keys, "conflict", time.Since(start))
			return entity.ErrKeyCollision
		}
		r.metrics.RecordDBOperation("insert_key", r.collections.Keys, "error", time.Since(start))
		return fmt.Errorf("failed to insert access key: %w", err)
	}

	r.metrics.RecordDBOperation("insert_key", r.collections.Keys, "success", time.Since(start))
	return nil
}

// FindByToken resolves a bearer token.
func (r *KeyRepository) FindByToken(ctx context.Context, token string) (*entity.AccessKey, error) {
	start := time.Now()
	coll := r.database.Collection(r.collections.Keys)

	var key entity.AccessKey
	err := coll.FindOne(ctx, bson.M{"key": token}).Decode(&key)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			r.metrics.RecordDBOperation("find_key", r.collections.Keys, "not_found", time.Since(start))
			return nil, entity.ErrKeyNotFound
		}
		r.metrics.RecordDBOperation("find_key", r.collections.Keys, "error", time.Since(start))
		return nil, fmt.Errorf("failed to find access key: %w", err)
	}

	r.metrics.RecordDBOperation("find_key", r.collections.Keys, "success", time.Since(start))
	return &key, nil
}

// Exists reports whether the token is already taken.
func (r *KeyRepository) Exists(ctx context.Context, token string) (bool, error) {
	start := time.Now()
	coll := r.database.Collection(r.collections.Keys)

	count, err := coll.CountDocuments(ctx, bson.M{"key": token})
	if err != nil {
		r.metrics.RecordDBOperation("key_exists", r.collections.Keys, "error", time.Since(start))
		return false, fmt.Errorf("failed to check key existence: %w", err)
	}

	r.metrics.RecordDBOperation("key_exists", r.collections.Keys, "success", time.Since(start))
	return count > 0, nil
}
