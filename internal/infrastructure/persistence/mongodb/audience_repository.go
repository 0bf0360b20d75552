package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sota-olympics/sota-service/internal/domain/entity"
	"github.com/sota-olympics/sota-service/internal/domain/repository"
	"github.com/sota-olympics/sota-service/internal/pkg/metrics"
)

// AudienceRepository is the MongoDB audience store.
type AudienceRepository struct {
	database    *mongo.Database
	collections Collections
	metrics     *metrics.Metrics
}

// NewAudienceRepository creates the MongoDB audience repository.
func NewAudienceRepository(client *Client) repository.AudienceRepository {
	return &AudienceRepository{
		database:    client.database,
		collections: client.collections,
		metrics:     metrics.GetMetrics(),
	}
}

// List returns every audience record.
func (r *AudienceRepository) List(ctx context.Context) ([]entity.Audience, error) {
	start := time.Now()
	coll := r.database.Collection(r.collections.Audient)

	cursor, err := coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		r.metrics.RecordDBOperation("list_audience", r.collections.Audient, "error", time.Since(start))
		return nil, fmt.Errorf("failed to list audience records: %w", err)
	}
	defer cursor.Close(ctx)

	records := []entity.Audience{}
	if err := cursor.All(ctx, &records); err != nil {
		r.metrics.RecordDBOperation("list_audience", r.collections.Audient, "error", time.Since(start))
		return nil, fmt.Errorf("failed to decode audience records: %w", err)
	}

	r.metrics.RecordDBOperation("list_audience", r.collections.Audient, "success", time.Since(start))
	return records, nil
}

// Upsert writes the record keyed by its id, last write wins.
func (r *AudienceRepository) Upsert(ctx context.Context, record entity.Audience) error {
	start := time.Now()
	coll := r.database.Collection(r.collections.Audient)

	_, err := coll.UpdateOne(ctx,
		bson.M{"_id": record.ID},
		bson.M{"$set": bson.M{
			"country_code": record.CountryCode,
			"sport_id":     record.SportIDs,
			"gender":       record.Gender,
			"age":          record.Age,
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		r.metrics.RecordDBOperation("upsert_audience", r.collections.Audient, "error", time.Since(start))
		return fmt.Errorf("failed to upsert audience record: %w", err)
	}

	r.metrics.RecordDBOperation("upsert_audience", r.collections.Audient, "success", time.Since(start))
	return nil
}
