package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sota-olympics/sota-service/internal/application/dto"
	"github.com/sota-olympics/sota-service/internal/application/usecase"
	"github.com/sota-olympics/sota-service/internal/pkg/errors"
)

// MedalHandler serves medal rollups and the medal publish endpoint.
type MedalHandler struct {
	medalUseCase *usecase.MedalUseCase
}

// NewMedalHandler creates the medal handler.
func NewMedalHandler(medalUseCase *usecase.MedalUseCase) *MedalHandler {
	return &MedalHandler{medalUseCase: medalUseCase}
}

// MedalTable returns the global per-country sums, {} when empty.
func (h *MedalHandler) MedalTable(c *gin.Context) {
	table, err := h.medalUseCase.MedalTable(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, table)
}

// ByCountry returns one country's rollup, {} when the country has no
// medal record.
func (h *MedalHandler) ByCountry(c *gin.Context) {
	rollup, err := h.medalUseCase.ByCountry(c.Request.Context(), c.Param("country_code"))
	if err != nil {
		c.Error(err)
		return
	}
	if rollup == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, rollup)
}

// BySport returns one sport's rollup, {} when empty.
func (h *MedalHandler) BySport(c *gin.Context) {
	sportID, err := parseIDParam(c, "sport_id")
	if err != nil {
		c.Error(err)
		return
	}

	rollup, err := h.medalUseCase.BySport(c.Request.Context(), sportID)
	if err != nil {
		c.Error(err)
		return
	}
	if rollup == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, rollup)
}

// BySubSport returns the (sport, sub-sport) rollup, {} when empty.
func (h *MedalHandler) BySubSport(c *gin.Context) {
	sportID, err := parseIDParam(c, "sport_id")
	if err != nil {
		c.Error(err)
		return
	}
	typeID, err := parseIDParam(c, "subsport_id")
	if err != nil {
		c.Error(err)
		return
	}

	rollup, err := h.medalUseCase.BySubSport(c.Request.Context(), sportID, typeID)
	if err != nil {
		c.Error(err)
		return
	}
	if rollup == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, rollup)
}

// UpdateMedal processes a medal publish payload and echoes it back.
func (h *MedalHandler) UpdateMedal(c *gin.Context) {
	var req dto.UpdateMedalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.New(errors.ErrCodeInvalidInput, "invalid request body").
			WithField("body", err.Error()))
		return
	}

	if err := h.medalUseCase.UpdateMedal(c.Request.Context(), &req); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"Success": req})
}
