package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sota-olympics/sota-service/internal/application/usecase"
	"github.com/sota-olympics/sota-service/internal/pkg/errors"
)

// SportHandler serves the read-only sport catalog.
type SportHandler struct {
	sportUseCase *usecase.SportUseCase
}

// NewSportHandler creates the sport handler.
func NewSportHandler(sportUseCase *usecase.SportUseCase) *SportHandler {
	return &SportHandler{sportUseCase: sportUseCase}
}

// Root serves the welcome message.
func (h *SportHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"msg": "welcome to root page"})
}

// ListSports returns sport_id (stringified) to sport_name.
func (h *SportHandler) ListSports(c *gin.Context) {
	names, err := h.sportUseCase.ListSports(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	if names == nil {
		names = map[string]string{}
	}
	c.JSON(http.StatusOK, names)
}

// AllDetails returns every sport with its nested sub-sport list.
func (h *SportHandler) AllDetails(c *gin.Context) {
	details, err := h.sportUseCase.AllDetails(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// DetailByID returns one sport's detail, or {} for an unknown id.
func (h *SportHandler) DetailByID(c *gin.Context) {
	sportID, err := parseIDParam(c, "sport_id")
	if err != nil {
		c.Error(err)
		return
	}

	detail, err := h.sportUseCase.DetailByID(c.Request.Context(), sportID)
	if err != nil {
		c.Error(err)
		return
	}
	if detail == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, detail)
}

// parseIDParam parses a positive integer path parameter.
func parseIDParam(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid path parameter").
			WithField(name, raw+" is not a positive integer")
	}
	return id, nil
}
