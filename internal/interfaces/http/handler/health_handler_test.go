package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/sota-olympics/sota-service/internal/interfaces/http/handler"
)

func TestHealthReportsVersion(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := handler.NewHealthHandler(nil, nil, "1.2.3")
	router := gin.New()
	router.GET("/health", h.Health)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","version":"1.2.3"}`, w.Body.String())
}

func TestReadyWithoutStoreIsNotReady(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := handler.NewHealthHandler(nil, nil, "1.2.3")
	router := gin.New()
	router.GET("/ready", h.Ready)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"not_ready","components":{"mongodb":"unavailable"}}`, w.Body.String())
}
