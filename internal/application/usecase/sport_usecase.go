package usecase

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/sota-olympics/sota-service/internal/domain/entity"
	"github.com/sota-olympics/sota-service/internal/domain/repository"
	"github.com/sota-olympics/sota-service/internal/pkg/logger"
	"github.com/sota-olympics/sota-service/internal/pkg/tracing"
)

// SportUseCase serves the read-only sport catalog.
type SportUseCase struct {
	sportRepo repository.SportRepository
	cacheRepo repository.CacheRepository
	cacheTTL  int
}

// NewSportUseCase creates the sport use case. cacheRepo may be nil.
func NewSportUseCase(sportRepo repository.SportRepository, cacheRepo repository.CacheRepository, cacheTTL int) *SportUseCase {
	return &SportUseCase{
		sportRepo: sportRepo,
		cacheRepo: cacheRepo,
		cacheTTL:  cacheTTL,
	}
}

// ListSports returns sport_id (stringified) to sport_name.
func (uc *SportUseCase) ListSports(ctx context.Context) (map[string]string, error) {
	ctx, span := tracing.StartSpan(ctx, "SportUseCase.ListSports")
	defer span.End()

	cacheKey := "sports:names"
	var cached map[string]string
	if uc.cacheGet(ctx, cacheKey, &cached) {
		return cached, nil
	}

	names, err := uc.sportRepo.ListSportNames(ctx)
	if err != nil {
		tracing.RecordError(ctx, err)
		return nil, err
	}

	uc.cacheSet(ctx, cacheKey, names)
	return names, nil
}

// AllDetails returns every sport with its nested sub-sport list.
func (uc *SportUseCase) AllDetails(ctx context.Context) ([]entity.SportDetail, error) {
	ctx, span := tracing.StartSpan(ctx, "SportUseCase.AllDetails")
	defer span.End()

	cacheKey := "sports:details"
	var cached []entity.SportDetail
	if uc.cacheGet(ctx, cacheKey, &cached) {
		return cached, nil
	}

	details, err := uc.sportRepo.AllSportDetails(ctx)
	if err != nil {
		tracing.RecordError(ctx, err)
		return nil, err
	}

	uc.cacheSet(ctx, cacheKey, details)
	return details, nil
}

// DetailByID returns one sport's detail, or nil when the id is unknown.
func (uc *SportUseCase) DetailByID(ctx context.Context, sportID int64) (*entity.SportDetail, error) {
	ctx, span := tracing.StartSpan(ctx, "SportUseCase.DetailByID")
	defer span.End()

	tracing.SetAttributes(ctx, attribute.Int64("sport_id", sportID))

	cacheKey := fmt.Sprintf("sports:detail:%d", sportID)
	var cached entity.SportDetail
	if uc.cacheGet(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	detail, err := uc.sportRepo.SportDetailByID(ctx, sportID)
	if err != nil {
		tracing.RecordError(ctx, err)
		return nil, err
	}
	if detail != nil {
		uc.cacheSet(ctx, cacheKey, detail)
	}
	return detail, nil
}

func (uc *SportUseCase) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if uc.cacheRepo == nil {
		return false
	}
	return uc.cacheRepo.Get(ctx, key, dest) == nil
}

func (uc *SportUseCase) cacheSet(ctx context.Context, key string, value interface{}) {
	if uc.cacheRepo == nil {
		return
	}
	if err := uc.cacheRepo.Set(ctx, key, value, uc.cacheTTL); err != nil {
		logger.Warn(ctx, "failed to cache sport catalog",
			logger.Field("key", key),
			zap.Error(err),
		)
	}
}
