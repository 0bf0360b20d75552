package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sota-olympics/sota-service/internal/application/dto"
	"github.com/sota-olympics/sota-service/internal/application/validation"
	"github.com/sota-olympics/sota-service/internal/domain/entity"
	"github.com/sota-olympics/sota-service/internal/domain/repository"
	"github.com/sota-olympics/sota-service/internal/pkg/logger"
	"github.com/sota-olympics/sota-service/internal/pkg/token"
	"github.com/sota-olympics/sota-service/internal/pkg/tracing"
)

// maxIssueAttempts bounds the collision retry loop. With a 62^20 token
// space hitting it twice in a row means something is broken, not unlucky.
const maxIssueAttempts = 5

// APIKeyUseCase issues bearer tokens with capability scopes.
type APIKeyUseCase struct {
	keyRepo   repository.KeyRepository
	validator *validation.Validator
}

// NewAPIKeyUseCase creates the key issuance use case.
func NewAPIKeyUseCase(keyRepo repository.KeyRepository, validator *validation.Validator) *APIKeyUseCase {
	return &APIKeyUseCase{
		keyRepo:   keyRepo,
		validator: validator,
	}
}

// Generate issues a new key for the requested scope. The token is checked
// for collision before persisting, and a duplicate insert from a concurrent
// issuer triggers a regeneration rather than an error.
func (uc *APIKeyUseCase) Generate(ctx context.Context, req *dto.GenerateKeyRequest) (*dto.GenerateKeyResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "APIKeyUseCase.Generate")
	defer span.End()

	scope, err := uc.validator.KeyScope(req.Scope)
	if err != nil {
		tracing.RecordError(ctx, err)
		return nil, err
	}

	for attempt := 0; attempt < maxIssueAttempts; attempt++ {
		tok, err := token.Generate()
		if err != nil {
			tracing.RecordError(ctx, err)
			return nil, fmt.Errorf("failed to generate token: %w", err)
		}

		exists, err := uc.keyRepo.Exists(ctx, tok)
		if err != nil {
			tracing.RecordError(ctx, err)
			return nil, err
		}
		if exists {
			logger.Warn(ctx, "token collision, regenerating",
				logger.Field("attempt", attempt+1),
			)
			continue
		}

		err = uc.keyRepo.Insert(ctx, entity.AccessKey{Key: tok, Scope: scope})
		if err == entity.ErrKeyCollision {
			logger.Warn(ctx, "concurrent token collision, regenerating",
				logger.Field("attempt", attempt+1),
			)
			continue
		}
		if err != nil {
			tracing.RecordError(ctx, err)
			return nil, err
		}

		logger.Info(ctx, "access key issued",
			zap.Int("capabilities", len(scope)),
		)
		return &dto.GenerateKeyResponse{Key: tok}, nil
	}

	return nil, fmt.Errorf("failed to issue a unique key after %d attempts", maxIssueAttempts)
}
