package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/00DarkGhost00/Tracking-absence/internal/dto"
	"github.com/00DarkGhost00/Tracking-absence/internal/models"
	"github.com/00DarkGhost00/Tracking-absence/pkg/response"
)

type holidayService interface {
	List(ctx context.Context) ([]models.HolidayPeriod, error)
	Create(ctx context.Context, req dto.CreateHolidayRequest) (*models.HolidayPeriod, error)
	Delete(ctx context.Context, id string) error
}

// HolidayHandler exposes the holiday registry.
type HolidayHandler struct {
	service holidayService
}

// NewHolidayHandler builds a new handler.
func NewHolidayHandler(service holidayService) *HolidayHandler {
	return &HolidayHandler{service: service}
}

// List godoc
// @Summary List holiday periods
// @Tags Holidays
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /holidays [get]
func (h *HolidayHandler) List(c *gin.Context) {
	periods, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if periods == nil {
		periods = []models.HolidayPeriod{}
	}
	response.JSON(c, http.StatusOK, periods, nil)
}

// Create godoc
// @Summary Declare a holiday period
// @Tags Holidays
// @Accept json
// @Produce json
// @Param payload body dto.CreateHolidayRequest true "Holiday period"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /holidays [post]
func (h *HolidayHandler) Create(c *gin.Context) {
	var req dto.CreateHolidayRequest
	if !bindJSON(c, &req, "invalid holiday payload") {
		return
	}
	period, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, period)
}

// Delete godoc
// @Summary Delete a holiday period
// @Tags Holidays
// @Param id path string true "Holiday ID"
// @Success 204
// @Failure 503 {object} response.Envelope
// @Router /holidays/{id} [delete]
func (h *HolidayHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
