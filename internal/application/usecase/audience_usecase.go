package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/sota-olympics/sota-service/internal/application/dto"
	"github.com/sota-olympics/sota-service/internal/application/validation"
	"github.com/sota-olympics/sota-service/internal/domain/entity"
	"github.com/sota-olympics/sota-service/internal/domain/repository"
	"github.com/sota-olympics/sota-service/internal/infrastructure/messaging/kafka"
	"github.com/sota-olympics/sota-service/internal/pkg/logger"
	"github.com/sota-olympics/sota-service/internal/pkg/retry"
	"github.com/sota-olympics/sota-service/internal/pkg/tracing"
)

// AudienceUseCase serves audience reads and processes audience publishes.
type AudienceUseCase struct {
	audienceRepo  repository.AudienceRepository
	validator     *validation.Validator
	publisher     repository.EventPublisher
	audienceTopic string
	retryConfig   retry.Config
}

// NewAudienceUseCase creates the audience use case. publisher may be nil.
func NewAudienceUseCase(
	audienceRepo repository.AudienceRepository,
	validator *validation.Validator,
	publisher repository.EventPublisher,
	audienceTopic string,
) *AudienceUseCase {
	return &AudienceUseCase{
		audienceRepo:  audienceRepo,
		validator:     validator,
		publisher:     publisher,
		audienceTopic: audienceTopic,
		retryConfig:   retry.DefaultConfig(),
	}
}

// List returns every audience record, empty slice when none exist.
func (uc *AudienceUseCase) List(ctx context.Context) ([]entity.Audience, error) {
	ctx, span := tracing.StartSpan(ctx, "AudienceUseCase.List")
	defer span.End()

	records, err := uc.audienceRepo.List(ctx)
	if err != nil {
		tracing.RecordError(ctx, err)
		return nil, err
	}
	return records, nil
}

// Update validates the batch and upserts every record by id, last write
// wins. The whole batch is rejected before the first write when any record
// fails validation.
func (uc *AudienceUseCase) Update(ctx context.Context, req *dto.UpdateAudienceRequest) error {
	ctx, span := tracing.StartSpan(ctx, "AudienceUseCase.Update")
	defer span.End()

	tracing.SetAttributes(ctx, attribute.Int("records", len(req.Audience)))

	if err := uc.validator.AudienceUpdate(ctx, req); err != nil {
		tracing.RecordError(ctx, err)
		return err
	}

	for _, r := range req.Audience {
		record := entity.Audience{
			ID:          r.ID,
			CountryCode: r.CountryCode,
			SportIDs:    r.SportIDs,
			Gender:      entity.Gender(r.Gender),
			Age:         r.Age,
		}
		err := retry.Do(ctx, uc.retryConfig, func(ctx context.Context) error {
			return uc.audienceRepo.Upsert(ctx, record)
		})
		if err != nil {
			tracing.RecordError(ctx, err)
			logger.Error(ctx, "failed to upsert audience record",
				logger.Field("record_id", r.ID),
				zap.Error(err),
			)
			return fmt.Errorf("failed to upsert audience record: %w", err)
		}
	}

	uc.publishAudienceEvent(ctx, len(req.Audience))

	logger.Info(ctx, "audience records updated", logger.Count(len(req.Audience)))
	return nil
}

// publishAudienceEvent is best effort; a broker failure never fails the
// write.
func (uc *AudienceUseCase) publishAudienceEvent(ctx context.Context, records int) {
	if uc.publisher == nil {
		return
	}
	event := kafka.AudienceUpdatedEvent{
		EventID:   uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Records:   records,
	}
	if err := uc.publisher.Publish(ctx, uc.audienceTopic, event.EventID, event); err != nil {
		logger.Warn(ctx, "failed to publish audience event", zap.Error(err))
	}
}
