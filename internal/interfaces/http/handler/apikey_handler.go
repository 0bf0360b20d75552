package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sota-olympics/sota-service/internal/application/dto"
	"github.com/sota-olympics/sota-service/internal/application/usecase"
	"github.com/sota-olympics/sota-service/internal/pkg/errors"
)

// APIKeyHandler serves key issuance.
type APIKeyHandler struct {
	apiKeyUseCase *usecase.APIKeyUseCase
}

// NewAPIKeyHandler creates the key handler.
func NewAPIKeyHandler(apiKeyUseCase *usecase.APIKeyUseCase) *APIKeyHandler {
	return &APIKeyHandler{apiKeyUseCase: apiKeyUseCase}
}

// Generate issues a new bearer token for the requested scope.
func (h *APIKeyHandler) Generate(c *gin.Context) {
	var req dto.GenerateKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.New(errors.ErrCodeInvalidInput, "invalid request body").
			WithField("body", err.Error()))
		return
	}

	resp, err := h.apiKeyUseCase.Generate(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
