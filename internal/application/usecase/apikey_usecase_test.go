package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sota-olympics/sota-service/internal/application/dto"
	"github.com/sota-olympics/sota-service/internal/application/usecase"
	"github.com/sota-olympics/sota-service/internal/application/validation"
	"github.com/sota-olympics/sota-service/internal/domain/entity"
	apperrors "github.com/sota-olympics/sota-service/internal/pkg/errors"
	"github.com/sota-olympics/sota-service/internal/pkg/token"
)

type MockKeyRepository struct {
	mock.Mock
}

func (m *MockKeyRepository) Insert(ctx context.Context, key entity.AccessKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockKeyRepository) FindByToken(ctx context.Context, tok string) (*entity.AccessKey, error) {
	args := m.Called(ctx, tok)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AccessKey), args.Error(1)
}

func (m *MockKeyRepository) Exists(ctx context.Context, tok string) (bool, error) {
	args := m.Called(ctx, tok)
	return args.Bool(0), args.Error(1)
}

func TestGenerateKey(t *testing.T) {
	ctx := context.Background()
	validator := validation.NewValidator(nil)

	t.Run("issues a well formed key", func(t *testing.T) {
		repo := new(MockKeyRepository)
		repo.On("Exists", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)
		repo.On("Insert", mock.Anything, mock.AnythingOfType("entity.AccessKey")).Return(nil)

		uc := usecase.NewAPIKeyUseCase(repo, validator)
		resp, err := uc.Generate(ctx, &dto.GenerateKeyRequest{
			Scope: map[string]bool{"PUBLISH_MEDAL": true},
		})
		require.NoError(t, err)
		assert.True(t, token.Valid(resp.Key))
		repo.AssertExpectations(t)
	})

	t.Run("persists the requested scope", func(t *testing.T) {
		repo := new(MockKeyRepository)
		repo.On("Exists", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)

		var stored entity.AccessKey
		repo.On("Insert", mock.Anything, mock.AnythingOfType("entity.AccessKey")).
			Run(func(args mock.Arguments) {
				stored = args.Get(1).(entity.AccessKey)
			}).
			Return(nil)

		uc := usecase.NewAPIKeyUseCase(repo, validator)
		resp, err := uc.Generate(ctx, &dto.GenerateKeyRequest{
			Scope: map[string]bool{"PUBLISH_MEDAL": true, "PUBLISH_AUDIENCE": false},
		})
		require.NoError(t, err)
		assert.Equal(t, resp.Key, stored.Key)
		assert.True(t, stored.Scope.Allows(entity.CapabilityPublishMedal))
		assert.False(t, stored.Scope.Allows(entity.CapabilityPublishAudience))
	})

	t.Run("rejects empty scope", func(t *testing.T) {
		uc := usecase.NewAPIKeyUseCase(new(MockKeyRepository), validator)
		_, err := uc.Generate(ctx, &dto.GenerateKeyRequest{Scope: map[string]bool{}})
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.GetCode(err))
	})

	t.Run("rejects unknown capability", func(t *testing.T) {
		uc := usecase.NewAPIKeyUseCase(new(MockKeyRepository), validator)
		_, err := uc.Generate(ctx, &dto.GenerateKeyRequest{
			Scope: map[string]bool{"PUBLISH_EVERYTHING": true},
		})
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.GetCode(err))
	})

	t.Run("regenerates on precheck collision", func(t *testing.T) {
		repo := new(MockKeyRepository)
		repo.On("Exists", mock.Anything, mock.AnythingOfType("string")).Return(true, nil).Once()
		repo.On("Exists", mock.Anything, mock.AnythingOfType("string")).Return(false, nil).Once()
		repo.On("Insert", mock.Anything, mock.AnythingOfType("entity.AccessKey")).Return(nil).Once()

		uc := usecase.NewAPIKeyUseCase(repo, validator)
		resp, err := uc.Generate(ctx, &dto.GenerateKeyRequest{
			Scope: map[string]bool{"PUBLISH_AUDIENCE": true},
		})
		require.NoError(t, err)
		assert.True(t, token.Valid(resp.Key))
		repo.AssertExpectations(t)
	})

	t.Run("regenerates on concurrent insert collision", func(t *testing.T) {
		repo := new(MockKeyRepository)
		repo.On("Exists", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)
		repo.On("Insert", mock.Anything, mock.AnythingOfType("entity.AccessKey")).Return(entity.ErrKeyCollision).Once()
		repo.On("Insert", mock.Anything, mock.AnythingOfType("entity.AccessKey")).Return(nil).Once()

		uc := usecase.NewAPIKeyUseCase(repo, validator)
		resp, err := uc.Generate(ctx, &dto.GenerateKeyRequest{
			Scope: map[string]bool{"PUBLISH_MEDAL": true},
		})
		require.NoError(t, err)
		assert.True(t, token.Valid(resp.Key))
		repo.AssertExpectations(t)
	})
}
