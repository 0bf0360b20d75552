package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/sota-olympics/sota-service/internal/domain/entity"
	"github.com/sota-olympics/sota-service/internal/domain/repository"
	"github.com/sota-olympics/sota-service/internal/pkg/logger"
	"github.com/sota-olympics/sota-service/internal/pkg/metrics"
)

// MedalRepository is the MongoDB medal store. The rollup queries are
// aggregation pipelines; reference joins are inner joins, so a tally whose
// sport or sub-sport has no catalog entry is dropped from the output.
type MedalRepository struct {
	database    *mongo.Database
	collections Collections
	metrics     *metrics.Metrics
}

// NewMedalRepository creates the MongoDB medal repository.
func NewMedalRepository(client *Client) repository.MedalRepository {
	return &MedalRepository{
		database:    client.database,
		collections: client.collections,
		metrics:     metrics.GetMetrics(),
	}
}

// lookupSportInfo joins the sport catalog onto an unwound tally row.
func (r *MedalRepository) lookupSportInfo() []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: r.collections.SportDetail},
			{Key: "localField", Value: "sports.sport_id"},
			{Key: "foreignField", Value: "sport_id"},
			{Key: "as", Value: "sport_info"},
		}}},
		{{Key: "$unwind", Value: bson.D{{Key: "path", Value: "$sport_info"}}}},
	}
}

// lookupSubSportInfo joins the sub-sport catalog on the compound
// (sport_id, type_id) key. Exactly one match is expected per row.
func (r *MedalRepository) lookupSubSportInfo() []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: r.collections.SubSportType},
			{Key: "let", Value: bson.D{
				{Key: "sid", Value: "$sports.sport_id"},
				{Key: "tid", Value: "$sports.type_id"},
			}},
			{Key: "pipeline", Value: bson.A{
				bson.D{{Key: "$match", Value: bson.D{
					{Key: "$expr", Value: bson.D{
						{Key: "$and", Value: bson.A{
							bson.D{{Key: "$eq", Value: bson.A{"$sport_id", "$$sid"}}},
							bson.D{{Key: "$eq", Value: bson.A{"$type_id", "$$tid"}}},
						}},
					}},
				}}},
			}},
			{Key: "as", Value: "sub_info"},
		}}},
		{{Key: "$unwind", Value: bson.D{{Key: "path", Value: "$sub_info"}}}},
	}
}

// RollupByCountry aggregates one country's tallies: unwind, join reference
// names, group by sport collecting the sub-sport breakdown, then collapse
// to a single country document.
func (r *MedalRepository) RollupByCountry(ctx context.Context, countryCode string) (*entity.CountryRollup, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "country_code", Value: countryCode}}}},
		{{Key: "$unwind", Value: bson.D{{Key: "path", Value: "$sports"}}}},
	}
	pipeline = append(pipeline, r.lookupSportInfo()...)
	pipeline = append(pipeline, r.lookupSubSportInfo()...)
	pipeline = append(pipeline,
		// Deterministic breakdown order: ascending sport then sub-sport.
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "sports.sport_id", Value: 1},
			{Key: "sports.type_id", Value: 1},
		}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "sport_id", Value: "$sports.sport_id"}}},
			{Key: "sport_name", Value: bson.D{{Key: "$first", Value: "$sport_info.sport_name"}}},
			{Key: "country_code", Value: bson.D{{Key: "$first", Value: "$country_code"}}},
			{Key: "country_name", Value: bson.D{{Key: "$first", Value: "$country_name"}}},
			{Key: "gold", Value: bson.D{{Key: "$sum", Value: "$sports.gold"}}},
			{Key: "silver", Value: bson.D{{Key: "$sum", Value: "$sports.silver"}}},
			{Key: "bronze", Value: bson.D{{Key: "$sum", Value: "$sports.bronze"}}},
			{Key: "sub_sports", Value: bson.D{{Key: "$push", Value: bson.D{
				{Key: "sub_id", Value: "$sports.type_id"},
				{Key: "sub_name", Value: "$sub_info.name"},
				{Key: "gold", Value: "$sports.gold"},
				{Key: "silver", Value: "$sports.silver"},
				{Key: "bronze", Value: "$sports.bronze"},
			}}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id.sport_id", Value: 1}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$country_code"},
			{Key: "country_name", Value: bson.D{{Key: "$first", Value: "$country_name"}}},
			{Key: "gold", Value: bson.D{{Key: "$sum", Value: "$gold"}}},
			{Key: "silver", Value: bson.D{{Key: "$sum", Value: "$silver"}}},
			{Key: "bronze", Value: bson.D{{Key: "$sum", Value: "$bronze"}}},
			{Key: "individual_sports", Value: bson.D{{Key: "$push", Value: bson.D{
				{Key: "sport_id", Value: "$_id.sport_id"},
				{Key: "sport_name", Value: "$sport_name"},
				{Key: "gold", Value: "$gold"},
				{Key: "silver", Value: "$silver"},
				{Key: "bronze", Value: "$bronze"},
				{Key: "sub_sports", Value: "$sub_sports"},
			}}}},
		}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "country", Value: "$_id"},
			{Key: "country_name", Value: 1},
			{Key: "gold", Value: 1},
			{Key: "silver", Value: 1},
			{Key: "bronze", Value: 1},
			{Key: "individual_sports", Value: 1},
		}}},
	)

	var results []entity.CountryRollup
	if err := r.aggregate(ctx, "rollup_by_country", pipeline, &results); err != nil {
		return nil, err
	}

	if len(results) == 0 {
		r.metrics.RecordEmptyAggregation("rollup_by_country")
		return nil, nil
	}
	return &results[0], nil
}

// RollupBySport aggregates all countries' tallies for one sport, grouped by
// country with a sub-sport breakdown, collapsed to a single sport document.
func (r *MedalRepository) RollupBySport(ctx context.Context, sportID int64) (*entity.SportRollup, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: bson.D{{Key: "path", Value: "$sports"}}}},
		{{Key: "$match", Value: bson.D{{Key: "sports.sport_id", Value: sportID}}}},
	}
	pipeline = append(pipeline, r.lookupSportInfo()...)
	pipeline = append(pipeline, r.lookupSubSportInfo()...)
	pipeline = append(pipeline,
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "country_code", Value: 1},
			{Key: "sports.type_id", Value: 1},
		}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$country_code"},
			{Key: "country_name", Value: bson.D{{Key: "$first", Value: "$country_name"}}},
			{Key: "sport_id", Value: bson.D{{Key: "$first", Value: "$sports.sport_id"}}},
			{Key: "sport_name", Value: bson.D{{Key: "$first", Value: "$sport_info.sport_name"}}},
			{Key: "gold", Value: bson.D{{Key: "$sum", Value: "$sports.gold"}}},
			{Key: "silver", Value: bson.D{{Key: "$sum", Value: "$sports.silver"}}},
			{Key: "bronze", Value: bson.D{{Key: "$sum", Value: "$sports.bronze"}}},
			{Key: "sub_sports", Value: bson.D{{Key: "$push", Value: bson.D{
				{Key: "sub_id", Value: "$sports.type_id"},
				{Key: "sub_name", Value: "$sub_info.name"},
				{Key: "gold", Value: "$sports.gold"},
				{Key: "silver", Value: "$sports.silver"},
				{Key: "bronze", Value: "$sports.bronze"},
			}}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$sport_id"},
			{Key: "sport_name", Value: bson.D{{Key: "$first", Value: "$sport_name"}}},
			{Key: "gold", Value: bson.D{{Key: "$sum", Value: "$gold"}}},
			{Key: "silver", Value: bson.D{{Key: "$sum", Value: "$silver"}}},
			{Key: "bronze", Value: bson.D{{Key: "$sum", Value: "$bronze"}}},
			{Key: "individual_countries", Value: bson.D{{Key: "$push", Value: bson.D{
				{Key: "country_code", Value: "$_id"},
				{Key: "country_name", Value: "$country_name"},
				{Key: "gold", Value: "$gold"},
				{Key: "silver", Value: "$silver"},
				{Key: "bronze", Value: "$bronze"},
				{Key: "sub_sports", Value: "$sub_sports"},
			}}}},
		}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "sport", Value: "$_id"},
			{Key: "sport_name", Value: 1},
			{Key: "gold", Value: 1},
			{Key: "silver", Value: 1},
			{Key: "bronze", Value: 1},
			{Key: "individual_countries", Value: 1},
		}}},
	)

	var results []entity.SportRollup
	if err := r.aggregate(ctx, "rollup_by_sport", pipeline, &results); err != nil {
		return nil, err
	}

	if len(results) == 0 {
		r.metrics.RecordEmptyAggregation("rollup_by_sport")
		return nil, nil
	}
	return &results[0], nil
}

// RollupBySubSport aggregates the exact (sport, sub-sport) pair. The pair
// is already the leaf, so the per-country breakdown carries no further
// nesting.
func (r *MedalRepository) RollupBySubSport(ctx context.Context, sportID, typeID int64) (*entity.SubSportRollup, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: bson.D{{Key: "path", Value: "$sports"}}}},
		{{Key: "$match", Value: bson.D{
			{Key: "sports.sport_id", Value: sportID},
			{Key: "sports.type_id", Value: typeID},
		}}},
	}
	pipeline = append(pipeline, r.lookupSportInfo()...)
	pipeline = append(pipeline, r.lookupSubSportInfo()...)
	pipeline = append(pipeline,
		bson.D{{Key: "$sort", Value: bson.D{{Key: "country_code", Value: 1}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$country_code"},
			{Key: "country_name", Value: bson.D{{Key: "$first", Value: "$country_name"}}},
			{Key: "sport_id", Value: bson.D{{Key: "$first", Value: "$sports.sport_id"}}},
			{Key: "type_id", Value: bson.D{{Key: "$first", Value: "$sports.type_id"}}},
			{Key: "sport_name", Value: bson.D{{Key: "$first", Value: "$sport_info.sport_name"}}},
			{Key: "sub_name", Value: bson.D{{Key: "$first", Value: "$sub_info.name"}}},
			{Key: "gold", Value: bson.D{{Key: "$sum", Value: "$sports.gold"}}},
			{Key: "silver", Value: bson.D{{Key: "$sum", Value: "$sports.silver"}}},
			{Key: "bronze", Value: bson.D{{Key: "$sum", Value: "$sports.bronze"}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "sport_id", Value: "$sport_id"},
				{Key: "type_id", Value: "$type_id"},
			}},
			{Key: "sport_name", Value: bson.D{{Key: "$first", Value: "$sport_name"}}},
			{Key: "sub_name", Value: bson.D{{Key: "$first", Value: "$sub_name"}}},
			{Key: "gold", Value: bson.D{{Key: "$sum", Value: "$gold"}}},
			{Key: "silver", Value: bson.D{{Key: "$sum", Value: "$silver"}}},
			{Key: "bronze", Value: bson.D{{Key: "$sum", Value: "$bronze"}}},
			{Key: "individual_countries", Value: bson.D{{Key: "$push", Value: bson.D{
				{Key: "country_code", Value: "$_id"},
				{Key: "country_name", Value: "$country_name"},
				{Key: "gold", Value: "$gold"},
				{Key: "silver", Value: "$silver"},
				{Key: "bronze", Value: "$bronze"},
			}}}},
		}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "sport_id", Value: "$_id.sport_id"},
			{Key: "sub_sport_id", Value: "$_id.type_id"},
			{Key: "sport_name", Value: 1},
			{Key: "sub_sport_name", Value: "$sub_name"},
			{Key: "gold", Value: 1},
			{Key: "silver", Value: 1},
			{Key: "bronze", Value: 1},
			{Key: "individual_countries", Value: 1},
		}}},
	)

	var results []entity.SubSportRollup
	if err := r.aggregate(ctx, "rollup_by_sub_sport", pipeline, &results); err != nil {
		return nil, err
	}

	if len(results) == 0 {
		r.metrics.RecordEmptyAggregation("rollup_by_sub_sport")
		return nil, nil
	}
	return &results[0], nil
}

// MedalTable sums every country's tallies and reshapes the result into a
// map keyed by country code.
func (r *MedalRepository) MedalTable(ctx context.Context) (map[string]entity.MedalCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: bson.D{{Key: "path", Value: "$sports"}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$country_code"},
			{Key: "gold", Value: bson.D{{Key: "$sum", Value: "$sports.gold"}}},
			{Key: "silver", Value: bson.D{{Key: "$sum", Value: "$sports.silver"}}},
			{Key: "bronze", Value: bson.D{{Key: "$sum", Value: "$sports.bronze"}}},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "data", Value: bson.D{{Key: "$push", Value: bson.D{
				{Key: "k", Value: "$_id"},
				{Key: "v", Value: bson.D{
					{Key: "gold", Value: "$gold"},
					{Key: "silver", Value: "$silver"},
					{Key: "bronze", Value: "$bronze"},
				}},
			}}}},
		}}},
		{{Key: "$replaceRoot", Value: bson.D{
			{Key: "newRoot", Value: bson.D{{Key: "$arrayToObject", Value: "$data"}}},
		}}},
	}

	var results []map[string]entity.MedalCount
	if err := r.aggregate(ctx, "medal_table", pipeline, &results); err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return map[string]entity.MedalCount{}, nil
	}
	return results[0], nil
}

// UpsertTally writes one participant's tally. Three tiers, each attempted
// only when the previous matched nothing:
//
//  1. positional $set on the matching nested entry,
//  2. $push a new entry onto the existing country document,
//  3. insert a fresh country document.
//
// The push filter excludes documents already carrying the (sport_id,
// type_id) pair, so a racing writer of the same pair matches nothing
// instead of appending a second entry. The unique index on country_code
// turns a concurrent tier-3 insert into a duplicate-key error, after which
// the cascade falls back to push and then set against the document the
// other writer created.
func (r *MedalRepository) UpsertTally(ctx context.Context, countryCode, countryName string, tally entity.SportTally) error {
	start := time.Now()
	status := "success"
	defer func() {
		r.metrics.RecordDBOperation("upsert_tally", r.collections.Medal, status, time.Since(start))
	}()

	coll := r.database.Collection(r.collections.Medal)
	pair := bson.M{"sport_id": tally.SportID, "type_id": tally.TypeID}

	applySet := func() (bool, error) {
		res, err := coll.UpdateOne(ctx,
			bson.M{
				"country_code": countryCode,
				"sports":       bson.M{"$elemMatch": pair},
			},
			bson.M{"$set": bson.M{
				"sports.$.gold":   tally.Gold,
				"sports.$.silver": tally.Silver,
				"sports.$.bronze": tally.Bronze,
			}},
		)
		if err != nil {
			return false, err
		}
		return res.MatchedCount > 0, nil
	}

	applyPush := func() (bool, error) {
		res, err := coll.UpdateOne(ctx,
			bson.M{
				"country_code": countryCode,
				"sports":       bson.M{"$not": bson.M{"$elemMatch": pair}},
			},
			bson.M{"$push": bson.M{"sports": tally}},
		)
		if err != nil {
			return false, err
		}
		return res.MatchedCount > 0, nil
	}

	matched, err := applySet()
	if err != nil {
		status = "error"
		return fmt.Errorf("failed to update tally: %w", err)
	}
	if matched {
		return nil
	}

	matched, err = applyPush()
	if err != nil {
		status = "error"
		return fmt.Errorf("failed to append tally: %w", err)
	}
	if matched {
		return nil
	}

	_, err = coll.InsertOne(ctx, entity.CountryMedals{
		CountryCode: countryCode,
		CountryName: countryName,
		Sports:      []entity.SportTally{tally},
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// A concurrent writer created the country document first. Push
			// if the pair is still absent, otherwise overwrite it in place.
			logger.Warn(ctx, "concurrent country insert detected, retrying append",
				logger.CountryCode(countryCode),
			)
			matched, err = applyPush()
			if err != nil {
				status = "error"
				return fmt.Errorf("failed to append tally after insert race: %w", err)
			}
			if matched {
				return nil
			}
			matched, err = applySet()
			if err != nil {
				status = "error"
				return fmt.Errorf("failed to update tally after insert race: %w", err)
			}
			if !matched {
				status = "error"
				return fmt.Errorf("failed to apply tally for %s after insert race", countryCode)
			}
			return nil
		}
		status = "error"
		return fmt.Errorf("failed to insert country document: %w", err)
	}

	return nil
}

func (r *MedalRepository) aggregate(ctx context.Context, operation string, pipeline mongo.Pipeline, results interface{}) error {
	start := time.Now()
	coll := r.database.Collection(r.collections.Medal)

	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		r.metrics.RecordDBOperation(operation, r.collections.Medal, "error", time.Since(start))
		logger.Error(ctx, "failed to execute aggregation pipeline",
			logger.Operation(operation),
			zap.Error(err),
		)
		return fmt.Errorf("failed to execute aggregation: %w", err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, results); err != nil {
		r.metrics.RecordDBOperation(operation, r.collections.Medal, "error", time.Since(start))
		logger.Error(ctx, "failed to decode aggregation results",
			logger.Operation(operation),
			zap.Error(err),
		)
		return fmt.Errorf("failed to decode aggregation results: %w", err)
	}

	duration := time.Since(start)
	r.metrics.RecordDBOperation(operation, r.collections.Medal, "success", duration)
	logger.Debug(ctx, "aggregation pipeline executed",
		logger.Operation(operation),
		logger.Duration(duration),
	)

	return nil
}
