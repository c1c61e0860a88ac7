package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/00DarkGhost00/Tracking-absence/internal/dto"
	"github.com/00DarkGhost00/Tracking-absence/internal/models"
	"github.com/00DarkGhost00/Tracking-absence/pkg/response"
)

type timetableService interface {
	List(ctx context.Context, query dto.TimetableQuery) ([]models.ScheduledSession, error)
	Replace(ctx context.Context, req dto.ReplaceTimetableRequest) (*dto.ReplaceTimetableResponse, error)
	Search(ctx context.Context, q string) (*models.SearchResult, error)
}

// TimetableHandler exposes the weekly timetable and free text search.
type TimetableHandler struct {
	service timetableService
}

// NewTimetableHandler builds a new handler.
func NewTimetableHandler(service timetableService) *TimetableHandler {
	return &TimetableHandler{service: service}
}

// List godoc
// @Summary List timetable sessions
// @Tags Timetable
// @Produce json
// @Param professor query string false "Professor"
// @Param program query string false "Program"
// @Param module query string false "Module"
// @Param weekday query string false "Weekday (Lundi..Dimanche)"
// @Param slot query string false "Slot"
// @Param room query string false "Room"
// @Success 200 {object} response.Envelope
// @Router /timetable [get]
func (h *TimetableHandler) List(c *gin.Context) {
	var query dto.TimetableQuery
	if !bindQuery(c, &query) {
		return
	}
	sessions, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	if sessions == nil {
		sessions = []models.ScheduledSession{}
	}
	response.JSON(c, http.StatusOK, sessions, nil)
}

// Replace godoc
// @Summary Replace the whole timetable
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.ReplaceTimetableRequest true "Timetable rows"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /timetable [put]
func (h *TimetableHandler) Replace(c *gin.Context) {
	var req dto.ReplaceTimetableRequest
	if !bindJSON(c, &req, "invalid timetable payload") {
		return
	}
	resp, err := h.service.Replace(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// Search godoc
// @Summary Search professors and rooms
// @Tags Search
// @Produce json
// @Param q query string true "Search text"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /search [get]
func (h *TimetableHandler) Search(c *gin.Context) {
	var query dto.SearchQuery
	if !bindQuery(c, &query) {
		return
	}
	result, err := h.service.Search(c.Request.Context(), query.Q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
