package router_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sota-olympics/sota-service/internal/application/usecase"
	"github.com/sota-olympics/sota-service/internal/application/validation"
	"github.com/sota-olympics/sota-service/internal/domain/entity"
	httpHandler "github.com/sota-olympics/sota-service/internal/interfaces/http/handler"
	"github.com/sota-olympics/sota-service/internal/interfaces/http/router"
)

type MockMedalRepository struct {
	mock.Mock
}

func (m *MockMedalRepository) RollupByCountry(ctx context.Context, countryCode string) (*entity.CountryRollup, error) {
	args := m.Called(ctx, countryCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CountryRollup), args.Error(1)
}

func (m *MockMedalRepository) RollupBySport(ctx context.Context, sportID int64) (*entity.SportRollup, error) {
	args := m.Called(ctx, sportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SportRollup), args.Error(1)
}

func (m *MockMedalRepository) RollupBySubSport(ctx context.Context, sportID, typeID int64) (*entity.SubSportRollup, error) {
	args := m.Called(ctx, sportID, typeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SubSportRollup), args.Error(1)
}

func (m *MockMedalRepository) MedalTable(ctx context.Context) (map[string]entity.MedalCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]entity.MedalCount), args.Error(1)
}

func (m *MockMedalRepository) UpsertTally(ctx context.Context, countryCode, countryName string, tally entity.SportTally) error {
	args := m.Called(ctx, countryCode, countryName, tally)
	return args.Error(0)
}

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

type MockAudienceRepository struct {
	mock.Mock
}

func (m *MockAudienceRepository) List(ctx context.Context) ([]entity.Audience, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Audience), args.Error(1)
}

func (m *MockAudienceRepository) Upsert(ctx context.Context, record entity.Audience) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

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

type fixture struct {
	medalRepo    *MockMedalRepository
	sportRepo    *MockSportRepository
	audienceRepo *MockAudienceRepository
	keyRepo      *MockKeyRepository
	engine       *gin.Engine
}

const publisherToken = "aB3dE5gH7jK9mN1pQ2sT"

func newFixture() *fixture {
	gin.SetMode(gin.TestMode)

	f := &fixture{
		medalRepo:    new(MockMedalRepository),
		sportRepo:    new(MockSportRepository),
		audienceRepo: new(MockAudienceRepository),
		keyRepo:      new(MockKeyRepository),
	}

	validator := validation.NewValidator(f.sportRepo)
	medalUC := usecase.NewMedalUseCase(f.medalRepo, validator, nil, nil, "", 0)
	sportUC := usecase.NewSportUseCase(f.sportRepo, nil, 0)
	audienceUC := usecase.NewAudienceUseCase(f.audienceRepo, validator, nil, "")
	apiKeyUC := usecase.NewAPIKeyUseCase(f.keyRepo, validator)

	f.engine = router.SetupRouter(
		router.Config{Environment: "test"},
		router.Handlers{
			Sport:    httpHandler.NewSportHandler(sportUC),
			Medal:    httpHandler.NewMedalHandler(medalUC),
			Audience: httpHandler.NewAudienceHandler(audienceUC),
			APIKey:   httpHandler.NewAPIKeyHandler(apiKeyUC),
			Health:   httpHandler.NewHealthHandler(nil, nil, "test"),
		},
		f.keyRepo,
		nil,
	)
	return f
}

func (f *fixture) allowPublisher(scope entity.Scope) {
	f.keyRepo.On("FindByToken", mock.Anything, publisherToken).
		Return(&entity.AccessKey{Key: publisherToken, Scope: scope}, nil)
}

func (f *fixture) do(method, path, body, token string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func TestRootEndpoint(t *testing.T) {
	f := newFixture()
	w := f.do(http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"msg": "welcome to root page"}`, w.Body.String())
}

func TestListSports(t *testing.T) {
	f := newFixture()
	f.sportRepo.On("ListSportNames", mock.Anything).
		Return(map[string]string{"1": "swimming", "2": "boxing"}, nil)

	w := f.do(http.MethodGet, "/sports/", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"1": "swimming", "2": "boxing"}`, w.Body.String())
}

func TestSportDetailNotFound(t *testing.T) {
	f := newFixture()
	f.sportRepo.On("SportDetailByID", mock.Anything, int64(9)).Return(nil, nil)

	w := f.do(http.MethodGet, "/sport/9", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{}`, w.Body.String())
}

func TestMedalRollupEmpty(t *testing.T) {
	f := newFixture()
	f.medalRepo.On("RollupByCountry", mock.Anything, "XK").Return(nil, nil)

	w := f.do(http.MethodGet, "/medal/c/XK", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{}`, w.Body.String())
}

func TestMedalTableEmpty(t *testing.T) {
	f := newFixture()
	f.medalRepo.On("MedalTable", mock.Anything).Return(map[string]entity.MedalCount{}, nil)

	w := f.do(http.MethodGet, "/medals/", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{}`, w.Body.String())
}

func TestUpdateMedalAuth(t *testing.T) {
	body := `{"sport_id": 1, "sport_type_id": 1, "participants": [{"country": "KR", "medal": {"gold": 1, "silver": 0, "bronze": 0}}]}`

	t.Run("no token", func(t *testing.T) {
		f := newFixture()
		w := f.do(http.MethodPost, "/medals/update_medal", body, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Unauthorized access")
	})

	t.Run("wrong capability", func(t *testing.T) {
		f := newFixture()
		f.allowPublisher(entity.Scope{entity.CapabilityPublishAudience: true})
		w := f.do(http.MethodPost, "/medals/update_medal", body, publisherToken)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestUpdateMedal(t *testing.T) {
	body := `{"sport_id": 1, "sport_type_id": 1, "participants": [{"country": "KR", "medal": {"gold": 1, "silver": 0, "bronze": 0}}]}`

	t.Run("success echoes the payload", func(t *testing.T) {
		f := newFixture()
		f.allowPublisher(entity.Scope{entity.CapabilityPublishMedal: true})
		f.sportRepo.On("SubSport", mock.Anything, int64(1), int64(1)).
			Return(&entity.SubSportType{
				SportID: 1, TypeID: 1, Name: "100m freestyle",
				ParticipatingCountries: []string{"KR", "US"},
			}, nil)
		f.medalRepo.On("UpsertTally", mock.Anything, "KR", mock.AnythingOfType("string"), mock.AnythingOfType("entity.SportTally")).
			Return(nil)

		w := f.do(http.MethodPost, "/medals/update_medal", body, publisherToken)
		assert.Equal(t, http.StatusOK, w.Code)

		var resp map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp, "Success")
	})

	t.Run("malformed body is a 400", func(t *testing.T) {
		f := newFixture()
		f.allowPublisher(entity.Scope{entity.CapabilityPublishMedal: true})

		w := f.do(http.MethodPost, "/medals/update_medal", `{"sport_id": "one"}`, publisherToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_INPUT")
	})

	t.Run("ineligible country is a 400 with field detail", func(t *testing.T) {
		f := newFixture()
		f.allowPublisher(entity.Scope{entity.CapabilityPublishMedal: true})
		f.sportRepo.On("SubSport", mock.Anything, int64(1), int64(1)).
			Return(&entity.SubSportType{
				SportID: 1, TypeID: 1, Name: "100m freestyle",
				ParticipatingCountries: []string{"US"},
			}, nil)

		w := f.do(http.MethodPost, "/medals/update_medal", body, publisherToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "country")
		f.medalRepo.AssertNotCalled(t, "UpsertTally", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAudienceEndpoints(t *testing.T) {
	t.Run("list is open and returns records", func(t *testing.T) {
		f := newFixture()
		f.audienceRepo.On("List", mock.Anything).Return([]entity.Audience{
			{ID: "a-1", CountryCode: "KR", SportIDs: []int64{1}, Gender: entity.GenderFemale, Age: 27},
		}, nil)

		w := f.do(http.MethodGet, "/audient/", "", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"id":"a-1"`)
	})

	t.Run("update requires the audience capability", func(t *testing.T) {
		f := newFixture()
		f.allowPublisher(entity.Scope{entity.CapabilityPublishMedal: true})

		body := `{"audience": [{"id": "a-1", "country_code": "KR", "sport_id": [1], "gender": "F", "age": 27}]}`
		w := f.do(http.MethodPost, "/audient/update_audient_info", body, publisherToken)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("update upserts and echoes", func(t *testing.T) {
		f := newFixture()
		f.allowPublisher(entity.Scope{entity.CapabilityPublishAudience: true})
		f.sportRepo.On("SportExists", mock.Anything, int64(1)).Return(true, nil)
		f.audienceRepo.On("Upsert", mock.Anything, mock.AnythingOfType("entity.Audience")).Return(nil)

		body := `{"audience": [{"id": "a-1", "country_code": "KR", "sport_id": [1], "gender": "F", "age": 27}]}`
		w := f.do(http.MethodPost, "/audient/update_audient_info", body, publisherToken)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Success")
	})
}

func TestGenerateKeyEndpoint(t *testing.T) {
	t.Run("issues a key without authentication", func(t *testing.T) {
		f := newFixture()
		f.keyRepo.On("Exists", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)
		f.keyRepo.On("Insert", mock.Anything, mock.AnythingOfType("entity.AccessKey")).Return(nil)

		w := f.do(http.MethodPost, "/apikeygen/", `{"scope": {"PUBLISH_MEDAL": true}}`, "")
		assert.Equal(t, http.StatusOK, w.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp["key"], 20)
	})

	t.Run("rejects unknown capability", func(t *testing.T) {
		f := newFixture()
		w := f.do(http.MethodPost, "/apikeygen/", `{"scope": {"PUBLISH_EVERYTHING": true}}`, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
