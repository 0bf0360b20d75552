package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/sota-olympics/sota-service/internal/interfaces/http/middleware"
)

func newLoggingRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.Logging())
	return router
}

func TestLoggingPassesRequestThrough(t *testing.T) {
	router := newLoggingRouter()
	router.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok?verbose=1", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoggingHandlesAttachedErrors(t *testing.T) {
	router := newLoggingRouter()
	router.GET("/boom", func(c *gin.Context) {
		c.Error(errors.New("first failure"))
		c.Error(errors.New("second failure"))
		c.Status(http.StatusInternalServerError)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
