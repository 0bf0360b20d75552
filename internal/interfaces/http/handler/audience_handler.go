package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sota-olympics/sota-service/internal/application/dto"
	"github.com/sota-olympics/sota-service/internal/application/usecase"
	"github.com/sota-olympics/sota-service/internal/pkg/errors"
)

// AudienceHandler serves audience reads and the audience publish endpoint.
type AudienceHandler struct {
	audienceUseCase *usecase.AudienceUseCase
}

// NewAudienceHandler creates the audience handler.
func NewAudienceHandler(audienceUseCase *usecase.AudienceUseCase) *AudienceHandler {
	return &AudienceHandler{audienceUseCase: audienceUseCase}
}

// List returns every audience record, [] when none exist.
func (h *AudienceHandler) List(c *gin.Context) {
	records, err := h.audienceUseCase.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// Update processes an audience publish payload and echoes it back.
func (h *AudienceHandler) Update(c *gin.Context) {
	var req dto.UpdateAudienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.New(errors.ErrCodeInvalidInput, "invalid request body").
			WithField("body", err.Error()))
		return
	}

	if err := h.audienceUseCase.Update(c.Request.Context(), &req); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"Success": req})
}
