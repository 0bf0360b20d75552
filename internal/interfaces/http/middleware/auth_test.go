package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sota-olympics/sota-service/internal/domain/entity"
	"github.com/sota-olympics/sota-service/internal/interfaces/http/middleware"
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

const goodToken = "aB3dE5gH7jK9mN1pQ2sT"

func newAuthRouter(repo *MockKeyRepository, required ...entity.Capability) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/protected",
		middleware.Authenticate(repo),
		middleware.RequireScope(required...),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		},
	)
	return r
}

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not a bearer scheme", "Basic " + goodToken},
		{"missing prefix", goodToken},
		{"token too short", "Bearer abc123"},
		{"token too long", "Bearer " + goodToken + "x"},
		{"token with symbols", "Bearer aB3dE5gH7jK9mN1pQ2s!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockKeyRepository)
			r := newAuthRouter(repo, entity.CapabilityPublishMedal)

			req := httptest.NewRequest(http.MethodPost, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "Unauthorized access")
			// Rejections before lookup never touch the store.
			repo.AssertNotCalled(t, "FindByToken", mock.Anything, mock.Anything)
		})
	}

	t.Run("unknown token", func(t *testing.T) {
		repo := new(MockKeyRepository)
		repo.On("FindByToken", mock.Anything, goodToken).Return(nil, entity.ErrKeyNotFound)
		r := newAuthRouter(repo, entity.CapabilityPublishMedal)

		req := httptest.NewRequest(http.MethodPost, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+goodToken)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Unauthorized access")
	})
}

func TestRequireScope(t *testing.T) {
	serve := func(scope entity.Scope, required ...entity.Capability) *httptest.ResponseRecorder {
		repo := new(MockKeyRepository)
		repo.On("FindByToken", mock.Anything, goodToken).
			Return(&entity.AccessKey{Key: goodToken, Scope: scope}, nil)
		r := newAuthRouter(repo, required...)

		req := httptest.NewRequest(http.MethodPost, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+goodToken)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("granted scope passes", func(t *testing.T) {
		w := serve(entity.Scope{entity.CapabilityPublishMedal: true}, entity.CapabilityPublishMedal)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing capability is denied", func(t *testing.T) {
		w := serve(entity.Scope{entity.CapabilityPublishAudience: true}, entity.CapabilityPublishMedal)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Unauthorized access")
	})

	t.Run("explicitly denied capability is denied", func(t *testing.T) {
		w := serve(entity.Scope{entity.CapabilityPublishMedal: false}, entity.CapabilityPublishMedal)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("denial body names no capability", func(t *testing.T) {
		w := serve(entity.Scope{}, entity.CapabilityPublishMedal)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.NotContains(t, w.Body.String(), "PUBLISH_MEDAL")
		assert.NotContains(t, w.Body.String(), "scope")
	})
}
