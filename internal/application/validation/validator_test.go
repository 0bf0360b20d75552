package validation_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sota-olympics/sota-service/internal/application/dto"
	"github.com/sota-olympics/sota-service/internal/application/validation"
	"github.com/sota-olympics/sota-service/internal/domain/entity"
	apperrors "github.com/sota-olympics/sota-service/internal/pkg/errors"
)

type MockSportRepository struct {
	mock.Mock
}

func (m *MockSportRepository) ListSportNames(ctx context.Context) (map[string]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockSportRepository) AllSportDetails(ctx context.Context) ([]entity.SportDetail, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.SportDetail), args.Error(1)
}

func (m *MockSportRepository) SportDetailByID(ctx context.Context, sportID int64) (*entity.SportDetail, error) {
	args := m.Called(ctx, sportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SportDetail), args.Error(1)
}

func (m *MockSportRepository) SubSport(ctx context.Context, sportID, typeID int64) (*entity.SubSportType, error) {
	args := m.Called(ctx, sportID, typeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SubSportType), args.Error(1)
}

func (m *MockSportRepository) SportExists(ctx context.Context, sportID int64) (bool, error) {
	args := m.Called(ctx, sportID)
	return args.Bool(0), args.Error(1)
}

func swimmingFreestyle() *entity.SubSportType {
	return &entity.SubSportType{
		SportID:                1,
		TypeID:                 1,
		Name:                   "100m freestyle",
		ParticipatingCountries: []string{"KR", "US", "FR"},
	}
}

func TestCountryName(t *testing.T) {
	v := validation.NewValidator(new(MockSportRepository))

	t.Run("known code", func(t *testing.T) {
		name, err := v.CountryName("KR")
		require.NoError(t, err)
		assert.NotEmpty(t, name)
	})

	t.Run("lowercase accepted", func(t *testing.T) {
		_, err := v.CountryName("kr")
		assert.NoError(t, err)
	})

	t.Run("unknown code", func(t *testing.T) {
		_, err := v.CountryName("ZZ")
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.GetCode(err))
	})

	t.Run("wrong length", func(t *testing.T) {
		_, err := v.CountryName("KOR")
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.GetCode(err))
	})

	t.Run("user-assigned codes rejected", func(t *testing.T) {
		// The registry resolves XK to Kosovo, but the code is in the
		// user-assigned range and not part of ISO 3166-1.
		for _, code := range []string{"XK", "xk", "QM", "AA"} {
			_, err := v.CountryName(code)
			require.Error(t, err, code)
			assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.GetCode(err))
		}
	})
}

func TestMedalUpdate(t *testing.T) {
	ctx := context.Background()

	validRequest := func() *dto.UpdateMedalRequest {
		return &dto.UpdateMedalRequest{
			SportID:     1,
			SportTypeID: 1,
			Participants: []dto.Participant{
				{Country: "KR", Medal: dto.MedalSet{Gold: 1, Silver: 0, Bronze: 2}},
			},
		}
	}

	t.Run("valid payload resolves country names", func(t *testing.T) {
		repo := new(MockSportRepository)
		repo.On("SubSport", ctx, int64(1), int64(1)).Return(swimmingFreestyle(), nil)

		v := validation.NewValidator(repo)
		names, err := v.MedalUpdate(ctx, validRequest())
		require.NoError(t, err)
		assert.Contains(t, names, "KR")
		repo.AssertExpectations(t)
	})

	t.Run("unknown sub-sport", func(t *testing.T) {
		repo := new(MockSportRepository)
		repo.On("SubSport", ctx, int64(1), int64(1)).Return(nil, entity.ErrSubSportNotFound)

		v := validation.NewValidator(repo)
		_, err := v.MedalUpdate(ctx, validRequest())
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.GetCode(err))
	})

	t.Run("country not participating", func(t *testing.T) {
		repo := new(MockSportRepository)
		repo.On("SubSport", ctx, int64(1), int64(1)).Return(swimmingFreestyle(), nil)

		req := validRequest()
		req.Participants[0].Country = "JP"

		v := validation.NewValidator(repo)
		_, err := v.MedalUpdate(ctx, req)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.GetCode(err))
	})

	t.Run("bad country code", func(t *testing.T) {
		repo := new(MockSportRepository)
		repo.On("SubSport", ctx, int64(1), int64(1)).Return(swimmingFreestyle(), nil)

		req := validRequest()
		req.Participants[0].Country = "ZZ"

		v := validation.NewValidator(repo)
		_, err := v.MedalUpdate(ctx, req)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.GetCode(err))
	})

	t.Run("negative count", func(t *testing.T) {
		repo := new(MockSportRepository)
		repo.On("SubSport", ctx, int64(1), int64(1)).Return(swimmingFreestyle(), nil)

		req := validRequest()
		req.Participants[0].Medal.Silver = -1

		v := validation.NewValidator(repo)
		_, err := v.MedalUpdate(ctx, req)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.GetCode(err))
	})
}

func TestAudienceUpdate(t *testing.T) {
	ctx := context.Background()

	validRequest := func() *dto.UpdateAudienceRequest {
		return &dto.UpdateAudienceRequest{
			Audience: []dto.AudienceRecord{
				{ID: "a-1", CountryCode: "KR", SportIDs: []int64{1}, Gender: "F", Age: 27},
			},
		}
	}

	t.Run("valid payload", func(t *testing.T) {
		repo := new(MockSportRepository)
		repo.On("SportExists", ctx, int64(1)).Return(true, nil)

		v := validation.NewValidator(repo)
		assert.NoError(t, v.AudienceUpdate(ctx, validRequest()))
	})

	t.Run("invalid gender", func(t *testing.T) {
		req := validRequest()
		req.Audience[0].Gender = "X"

		v := validation.NewValidator(new(MockSportRepository))
		err := v.AudienceUpdate(ctx, req)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.GetCode(err))
	})

	t.Run("negative age", func(t *testing.T) {
		req := validRequest()
		req.Audience[0].Age = -4

		v := validation.NewValidator(new(MockSportRepository))
		err := v.AudienceUpdate(ctx, req)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.GetCode(err))
	})

	t.Run("unknown sport id", func(t *testing.T) {
		repo := new(MockSportRepository)
		repo.On("SportExists", ctx, int64(1)).Return(false, nil)

		v := validation.NewValidator(repo)
		err := v.AudienceUpdate(ctx, validRequest())
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.GetCode(err))
	})
}

func TestKeyScope(t *testing.T) {
	v := validation.NewValidator(new(MockSportRepository))

	t.Run("valid scope", func(t *testing.T) {
		scope, err := v.KeyScope(map[string]bool{"PUBLISH_MEDAL": true, "PUBLISH_AUDIENCE": false})
		require.NoError(t, err)
		assert.True(t, scope.Allows(entity.CapabilityPublishMedal))
		assert.False(t, scope.Allows(entity.CapabilityPublishAudience))
	})

	t.Run("empty scope", func(t *testing.T) {
		_, err := v.KeyScope(map[string]bool{})
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.GetCode(err))
	})

	t.Run("unknown capability", func(t *testing.T) {
		_, err := v.KeyScope(map[string]bool{"PUBLISH_EVERYTHING": true})
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.GetCode(err))
	})
}
