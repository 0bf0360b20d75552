package mongodb

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/sota-olympics/sota-service/internal/domain/entity"
	"github.com/sota-olympics/sota-service/internal/domain/repository"
	"github.com/sota-olympics/sota-service/internal/pkg/logger"
	"github.com/sota-olympics/sota-service/internal/pkg/metrics"
)

// SportRepository is the MongoDB sport/sub-sport reference catalog.
type SportRepository struct {
	database    *mongo.Database
	collections Collections
	metrics     *metrics.Metrics
}

// NewSportRepository creates the MongoDB sport repository.
func NewSportRepository(client *Client) repository.SportRepository {
	return &SportRepository{
		database:    client.database,
		collections: client.collections,
		metrics:     metrics.GetMetrics(),
	}
}

// ListSportNames returns sport_id (stringified) to sport_name.
func (r *SportRepository) ListSportNames(ctx context.Context) (map[string]string, error) {
	start := time.Now()
	coll := r.database.Collection(r.collections.SportDetail)

	opts := options.Find().
		SetProjection(bson.M{"sport_id": 1, "sport_name": 1}).
		SetSort(bson.D{{Key: "sport_id", Value: 1}})

	cursor, err := coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		r.metrics.RecordDBOperation("list_sport_names", r.collections.SportDetail, "error", time.Since(start))
		return nil, fmt.Errorf("failed to list sports: %w", err)
	}
	defer cursor.Close(ctx)

	var sports []entity.SportDetail
	if err := cursor.All(ctx, &sports); err != nil {
		r.metrics.RecordDBOperation("list_sport_names", r.collections.SportDetail, "error", time.Since(start))
		return nil, fmt.Errorf("failed to decode sports: %w", err)
	}

	names := make(map[string]string, len(sports))
	for _, s := range sports {
		names[strconv.FormatInt(s.SportID, 10)] = s.SportName
	}

	r.metrics.RecordDBOperation("list_sport_names", r.collections.SportDetail, "success", time.Since(start))
	return names, nil
}

// detailsPipeline matches an optional sport id, strips the Mongo _id, and
// joins the sub-sport list in as sport_types.
func (r *SportRepository) detailsPipeline(sportID *int64) mongo.Pipeline {
	pipeline := mongo.Pipeline{}
	if sportID != nil {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.D{{Key: "sport_id", Value: *sportID}}}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$sort", Value: bson.D{{Key: "sport_id", Value: 1}}}},
		bson.D{{Key: "$project", Value: bson.D{{Key: "_id", Value: 0}}}},
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: r.collections.SubSportType},
			{Key: "localField", Value: "sport_id"},
			{Key: "foreignField", Value: "sport_id"},
			{Key: "as", Value: "sport_types"},
			{Key: "pipeline", Value: bson.A{
				bson.D{{Key: "$sort", Value: bson.D{{Key: "type_id", Value: 1}}}},
				bson.D{{Key: "$project", Value: bson.D{
					{Key: "_id", Value: 0},
					{Key: "sport_id", Value: 0},
				}}},
			}},
		}}},
	)
	return pipeline
}

// AllSportDetails returns every sport with its sub-sport list.
func (r *SportRepository) AllSportDetails(ctx context.Context) ([]entity.SportDetail, error) {
	return r.aggregateDetails(ctx, "all_sport_details", r.detailsPipeline(nil))
}

// SportDetailByID returns one sport with its sub-sport list, or nil.
func (r *SportRepository) SportDetailByID(ctx context.Context, sportID int64) (*entity.SportDetail, error) {
	details, err := r.aggregateDetails(ctx, "sport_detail_by_id", r.detailsPipeline(&sportID))
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, nil
	}
	return &details[0], nil
}

// SubSport returns the catalog entry for the (sport_id, type_id) pair.
func (r *SportRepository) SubSport(ctx context.Context, sportID, typeID int64) (*entity.SubSportType, error) {
	start := time.Now()
	coll := r.database.Collection(r.collections.SubSportType)

	var subSport entity.SubSportType
	err := coll.FindOne(ctx, bson.M{"sport_id": sportID, "type_id": typeID}).Decode(&subSport)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			r.metrics.RecordDBOperation("find_sub_sport", r.collections.SubSportType, "not_found", time.Since(start))
			return nil, entity.ErrSubSportNotFound
		}
		r.metrics.RecordDBOperation("find_sub_sport", r.collections.SubSportType, "error", time.Since(start))
		return nil, fmt.Errorf("failed to find sub-sport: %w", err)
	}

	r.metrics.RecordDBOperation("find_sub_sport", r.collections.SubSportType, "success", time.Since(start))
	return &subSport, nil
}

// SportExists reports whether the sport id has a catalog entry.
func (r *SportRepository) SportExists(ctx context.Context, sportID int64) (bool, error) {
	start := time.Now()
	coll := r.database.Collection(r.collections.SportDetail)

	count, err := coll.CountDocuments(ctx, bson.M{"sport_id": sportID})
	if err != nil {
		r.metrics.RecordDBOperation("sport_exists", r.collections.SportDetail, "error", time.Since(start))
		return false, fmt.Errorf("failed to check sport existence: %w", err)
	}

	r.metrics.RecordDBOperation("sport_exists", r.collections.SportDetail, "success", time.Since(start))
	return count > 0, nil
}

func (r *SportRepository) aggregateDetails(ctx context.Context, operation string, pipeline mongo.Pipeline) ([]entity.SportDetail, error) {
	start := time.Now()
	coll := r.database.Collection(r.collections.SportDetail)

	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		r.metrics.RecordDBOperation(operation, r.collections.SportDetail, "error", time.Since(start))
		logger.Error(ctx, "failed to execute sport detail pipeline",
			logger.Operation(operation),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to execute aggregation: %w", err)
	}
	defer cursor.Close(ctx)

	var details []entity.SportDetail
	if err := cursor.All(ctx, &details); err != nil {
		r.metrics.RecordDBOperation(operation, r.collections.SportDetail, "error", time.Since(start))
		return nil, fmt.Errorf("failed to decode sport details: %w", err)
	}

	r.metrics.RecordDBOperation(operation, r.collections.SportDetail, "success", time.Since(start))
	return details, nil
}
