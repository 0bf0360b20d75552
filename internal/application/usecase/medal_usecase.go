package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/sota-olympics/sota-service/internal/application/dto"
	"github.com/sota-olympics/sota-service/internal/application/validation"
	"github.com/sota-olympics/sota-service/internal/domain/entity"
	"github.com/sota-olympics/sota-service/internal/domain/repository"
	"github.com/sota-olympics/sota-service/internal/infrastructure/messaging/kafka"
	"github.com/sota-olympics/sota-service/internal/pkg/circuitbreaker"
	"github.com/sota-olympics/sota-service/internal/pkg/logger"
	"github.com/sota-olympics/sota-service/internal/pkg/metrics"
	"github.com/sota-olympics/sota-service/internal/pkg/retry"
	"github.com/sota-olympics/sota-service/internal/pkg/tracing"
)

// MedalUseCase serves medal rollups and processes medal publish requests.
// The cache and publisher are optional; a nil value disables that concern.
type MedalUseCase struct {
	medalRepo      repository.MedalRepository
	validator      *validation.Validator
	cacheRepo      repository.CacheRepository
	publisher      repository.EventPublisher
	medalTopic     string
	cacheTTL       int
	metrics        *metrics.Metrics
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

// NewMedalUseCase creates the medal use case.
func NewMedalUseCase(
	medalRepo repository.MedalRepository,
	validator *validation.Validator,
	cacheRepo repository.CacheRepository,
	publisher repository.EventPublisher,
	medalTopic string,
	cacheTTL int,
) *MedalUseCase {
	cb := circuitbreaker.NewCircuitBreaker("medal_usecase", circuitbreaker.Config{
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from circuitbreaker.State, to circuitbreaker.State) {
			logger.Info(context.Background(), "circuit breaker state changed",
				zap.String("name", name),
				zap.Int("from", int(from)),
				zap.Int("to", int(to)),
			)
		},
	})

	return &MedalUseCase{
		medalRepo:      medalRepo,
		validator:      validator,
		cacheRepo:      cacheRepo,
		publisher:      publisher,
		medalTopic:     medalTopic,
		cacheTTL:       cacheTTL,
		metrics:        metrics.GetMetrics(),
		circuitBreaker: cb,
		retryConfig:    retry.DefaultConfig(),
	}
}

// MedalTable returns the global per-country sums keyed by country code.
// An empty table is an empty map, never nil.
func (uc *MedalUseCase) MedalTable(ctx context.Context) (map[string]entity.MedalCount, error) {
	ctx, span := tracing.StartSpan(ctx, "MedalUseCase.MedalTable")
	defer span.End()

	cacheKey := "medals:table"
	var cached map[string]entity.MedalCount
	if uc.cacheGet(ctx, cacheKey, &cached) {
		return cached, nil
	}

	table, err := uc.medalRepo.MedalTable(ctx)
	if err != nil {
		tracing.RecordError(ctx, err)
		return nil, err
	}
	if table == nil {
		table = map[string]entity.MedalCount{}
	}

	uc.cacheSet(ctx, cacheKey, table)
	return table, nil
}

// ByCountry returns one country's nested rollup, or nil when the country
// has no medal record.
func (uc *MedalUseCase) ByCountry(ctx context.Context, countryCode string) (*entity.CountryRollup, error) {
	ctx, span := tracing.StartSpan(ctx, "MedalUseCase.ByCountry")
	defer span.End()

	code := strings.ToUpper(countryCode)
	tracing.SetAttributes(ctx, attribute.String("country_code", code))

	cacheKey := "medals:country:" + code
	var cached entity.CountryRollup
	if uc.cacheGet(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	rollup, err := uc.medalRepo.RollupByCountry(ctx, code)
	if err != nil {
		tracing.RecordError(ctx, err)
		return nil, err
	}
	if rollup != nil {
		uc.cacheSet(ctx, cacheKey, rollup)
	}
	return rollup, nil
}

// BySport returns one sport's per-country rollup, or nil when no country
// has a tally for the sport.
func (uc *MedalUseCase) BySport(ctx context.Context, sportID int64) (*entity.SportRollup, error) {
	ctx, span := tracing.StartSpan(ctx, "MedalUseCase.BySport")
	defer span.End()

	tracing.SetAttributes(ctx, attribute.Int64("sport_id", sportID))

	cacheKey := fmt.Sprintf("medals:sport:%d", sportID)
	var cached entity.SportRollup
	if uc.cacheGet(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	rollup, err := uc.medalRepo.RollupBySport(ctx, sportID)
	if err != nil {
		tracing.RecordError(ctx, err)
		return nil, err
	}
	if rollup != nil {
		uc.cacheSet(ctx, cacheKey, rollup)
	}
	return rollup, nil
}

// BySubSport returns the rollup for the exact (sport, sub-sport) pair, or
// nil when nothing matches.
func (uc *MedalUseCase) BySubSport(ctx context.Context, sportID, typeID int64) (*entity.SubSportRollup, error) {
	ctx, span := tracing.StartSpan(ctx, "MedalUseCase.BySubSport")
	defer span.End()

	tracing.SetAttributes(ctx,
		attribute.Int64("sport_id", sportID),
		attribute.Int64("type_id", typeID),
	)

	cacheKey := fmt.Sprintf("medals:subsport:%d:%d", sportID, typeID)
	var cached entity.SubSportRollup
	if uc.cacheGet(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	rollup, err := uc.medalRepo.RollupBySubSport(ctx, sportID, typeID)
	if err != nil {
		tracing.RecordError(ctx, err)
		return nil, err
	}
	if rollup != nil {
		uc.cacheSet(ctx, cacheKey, rollup)
	}
	return rollup, nil
}

// UpdateMedal validates the payload and upserts every participant's tally.
// The whole payload is rejected before the first write when any participant
// fails validation; once writes begin, each participant is applied in order.
func (uc *MedalUseCase) UpdateMedal(ctx context.Context, req *dto.UpdateMedalRequest) error {
	ctx, span := tracing.StartSpan(ctx, "MedalUseCase.UpdateMedal")
	defer span.End()

	tracing.SetAttributes(ctx,
		attribute.Int64("sport_id", req.SportID),
		attribute.Int64("type_id", req.SportTypeID),
		attribute.Int("participants", len(req.Participants)),
	)

	countryNames, err := uc.validator.MedalUpdate(ctx, req)
	if err != nil {
		tracing.RecordError(ctx, err)
		return err
	}

	for _, p := range req.Participants {
		code := strings.ToUpper(p.Country)
		tally := entity.SportTally{
			SportID: req.SportID,
			TypeID:  req.SportTypeID,
			Gold:    p.Medal.Gold,
			Silver:  p.Medal.Silver,
			Bronze:  p.Medal.Bronze,
		}

		_, err := uc.circuitBreaker.Execute(ctx, func() (interface{}, error) {
			return nil, retry.Do(ctx, uc.retryConfig, func(ctx context.Context) error {
				return uc.medalRepo.UpsertTally(ctx, code, countryNames[code], tally)
			})
		})
		if err != nil {
			tracing.RecordError(ctx, err)
			logger.Error(ctx, "failed to upsert medal tally",
				logger.CountryCode(code),
				logger.SportID(req.SportID),
				zap.Error(err),
			)
			return fmt.Errorf("failed to upsert medal tally: %w", err)
		}

		uc.publishMedalEvent(ctx, code, tally)
	}

	uc.invalidateMedalCaches(ctx, req)

	logger.Info(ctx, "medal tallies updated",
		logger.SportID(req.SportID),
		logger.SubSportID(req.SportTypeID),
		logger.Count(len(req.Participants)),
	)

	return nil
}

// publishMedalEvent is best effort; a broker failure never fails the write.
func (uc *MedalUseCase) publishMedalEvent(ctx context.Context, code string, tally entity.SportTally) {
	if uc.publisher == nil {
		return
	}
	event := kafka.MedalUpdatedEvent{
		EventID:     uuid.NewString(),
		Timestamp:   time.Now().UTC(),
		SportID:     tally.SportID,
		TypeID:      tally.TypeID,
		CountryCode: code,
		Gold:        tally.Gold,
		Silver:      tally.Silver,
		Bronze:      tally.Bronze,
	}
	if err := uc.publisher.Publish(ctx, uc.medalTopic, code, event); err != nil {
		logger.Warn(ctx, "failed to publish medal event",
			logger.CountryCode(code),
			zap.Error(err),
		)
	}
}

func (uc *MedalUseCase) invalidateMedalCaches(ctx context.Context, req *dto.UpdateMedalRequest) {
	if uc.cacheRepo == nil {
		return
	}
	keys := []string{
		"medals:table",
		fmt.Sprintf("medals:sport:%d", req.SportID),
		fmt.Sprintf("medals:subsport:%d:%d", req.SportID, req.SportTypeID),
	}
	for _, p := range req.Participants {
		keys = append(keys, "medals:country:"+strings.ToUpper(p.Country))
	}
	if err := uc.cacheRepo.Delete(ctx, keys...); err != nil {
		logger.Warn(ctx, "failed to invalidate medal caches", zap.Error(err))
	}
}

func (uc *MedalUseCase) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if uc.cacheRepo == nil {
		return false
	}
	return uc.cacheRepo.Get(ctx, key, dest) == nil
}

func (uc *MedalUseCase) cacheSet(ctx context.Context, key string, value interface{}) {
	if uc.cacheRepo == nil {
		return
	}
	if err := uc.cacheRepo.Set(ctx, key, value, uc.cacheTTL); err != nil {
		logger.Warn(ctx, "failed to cache rollup",
			logger.Field("key", key),
			zap.Error(err),
		)
	}
}
