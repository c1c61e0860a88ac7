package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/00DarkGhost00/Tracking-absence/internal/dto"
	"github.com/00DarkGhost00/Tracking-absence/internal/models"
	"github.com/00DarkGhost00/Tracking-absence/pkg/response"
)

type makeupService interface {
	Schedule(ctx context.Context, req dto.CreateMakeupRequest) (*models.MakeupSession, error)
	AvailableRooms(ctx context.Context, query dto.AvailableRoomsQuery) (*models.AvailableRooms, error)
	List(ctx context.Context, query dto.MakeupQuery) ([]models.MakeupSession, error)
	Delete(ctx context.Context, id string) error
}

// MakeupHandler exposes makeup booking.
type MakeupHandler struct {
	service makeupService
}

// NewMakeupHandler builds a new handler.
func NewMakeupHandler(service makeupService) *MakeupHandler {
	return &MakeupHandler{service: service}
}

// Create godoc
// @Summary Book a makeup session
// @Description Fails with 409 when the professor or the room is already booked at that date and slot.
// @Tags Makeups
// @Accept json
// @Produce json
// @Param payload body dto.CreateMakeupRequest true "Makeup"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /makeups [post]
func (h *MakeupHandler) Create(c *gin.Context) {
	var req dto.CreateMakeupRequest
	if !bindJSON(c, &req, "invalid makeup payload") {
		return
	}
	session, err := h.service.Schedule(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session)
}

// List godoc
// @Summary List makeups
// @Tags Makeups
// @Produce json
// @Param professor query string false "Professor"
// @Param date query string false "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /makeups [get]
func (h *MakeupHandler) List(c *gin.Context) {
	var query dto.MakeupQuery
	if !bindQuery(c, &query) {
		return
	}
	sessions, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	if sessions == nil {
		sessions = []models.MakeupSession{}
	}
	response.JSON(c, http.StatusOK, sessions, nil)
}

// AvailableRooms godoc
// @Summary Rooms free for a makeup
// @Tags Makeups
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param slot query string true "Slot"
// @Param professor query string false "Professor whose usual rooms are returned"
// @Param module query string false "Restrict usual rooms to a module"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /makeups/available-rooms [get]
func (h *MakeupHandler) AvailableRooms(c *gin.Context) {
	var query dto.AvailableRoomsQuery
	if !bindQuery(c, &query) {
		return
	}
	rooms, err := h.service.AvailableRooms(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rooms, nil)
}

// Delete godoc
// @Summary Delete a makeup
// @Tags Makeups
// @Param id path string true "Makeup ID"
// @Success 204
// @Router /makeups/{id} [delete]
func (h *MakeupHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
