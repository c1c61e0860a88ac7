package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/00DarkGhost00/Tracking-absence/internal/dto"
	"github.com/00DarkGhost00/Tracking-absence/internal/models"
	"github.com/00DarkGhost00/Tracking-absence/pkg/response"
)

type absenceService interface {
	Reconcile(ctx context.Context, req dto.ReconcileRequest) (*models.ReconcileResult, error)
	List(ctx context.Context, query dto.AbsenceQuery) ([]models.AbsenceRecord, *models.Pagination, error)
	Delete(ctx context.Context, id string) error
}

// AbsenceHandler exposes reconciliation and absence records.
type AbsenceHandler struct {
	service absenceService
}

// NewAbsenceHandler builds a new handler.
func NewAbsenceHandler(service absenceService) *AbsenceHandler {
	return &AbsenceHandler{service: service}
}

// Reconcile godoc
// @Summary Record absences from rooms observed empty
// @Description Every timetable session held in one of the empty rooms at the date's weekday and slot becomes an absence. Replaying an observation creates nothing.
// @Tags Absences
// @Accept json
// @Produce json
// @Param payload body dto.ReconcileRequest true "Observation"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /absences/reconcile [post]
func (h *AbsenceHandler) Reconcile(c *gin.Context) {
	var req dto.ReconcileRequest
	if !bindJSON(c, &req, "invalid observation payload") {
		return
	}
	result, err := h.service.Reconcile(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// List godoc
// @Summary List absences
// @Tags Absences
// @Produce json
// @Param professor query string false "Professor"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /absences [get]
func (h *AbsenceHandler) List(c *gin.Context) {
	var query dto.AbsenceQuery
	if !bindQuery(c, &query) {
		return
	}
	records, pagination, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	if records == nil {
		records = []models.AbsenceRecord{}
	}
	response.JSON(c, http.StatusOK, records, pagination)
}

// Delete godoc
// @Summary Delete an absence
// @Tags Absences
// @Param id path string true "Absence ID"
// @Success 204
// @Router /absences/{id} [delete]
func (h *AbsenceHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
