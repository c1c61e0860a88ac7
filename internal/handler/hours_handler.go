package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/00DarkGhost00/Tracking-absence/internal/dto"
	"github.com/00DarkGhost00/Tracking-absence/internal/models"
	"github.com/00DarkGhost00/Tracking-absence/pkg/response"
)

type ledgerService interface {
	ProfessorSummary(ctx context.Context, name string) (*models.ProfessorHourSummary, error)
	ProfessorDetail(ctx context.Context, name string) (*models.ProfessorDetail, error)
	ListProfessors(ctx context.Context) ([]models.ProfessorHourSummary, error)
	FleetSummary(ctx context.Context) (*models.FleetHourSummary, error)
}

type professorService interface {
	SetStatus(ctx context.Context, name string, req dto.SetProfessorStatusRequest) (*models.ProfessorStatus, error)
	SyncPermanent(ctx context.Context, req dto.SyncStatusesRequest) ([]models.ProfessorStatus, error)
}

// HoursHandler exposes hour balances and professor statuses.
type HoursHandler struct {
	ledger     ledgerService
	professors professorService
}

// NewHoursHandler builds a new handler.
func NewHoursHandler(ledger ledgerService, professors professorService) *HoursHandler {
	return &HoursHandler{ledger: ledger, professors: professors}
}

// ProfessorSummary godoc
// @Summary Hour balance of one professor
// @Tags Hours
// @Produce json
// @Param name path string true "Professor"
// @Success 200 {object} response.Envelope
// @Router /hours/professors/{name} [get]
func (h *HoursHandler) ProfessorSummary(c *gin.Context) {
	summary, err := h.ledger.ProfessorSummary(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Fleet godoc
// @Summary Hour balance of every professor combined
// @Tags Hours
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /hours/fleet [get]
func (h *HoursHandler) Fleet(c *gin.Context) {
	fleet, err := h.ledger.FleetSummary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, fleet, nil)
}

// ListProfessors godoc
// @Summary List professors with their hour balance
// @Tags Professors
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /professors [get]
func (h *HoursHandler) ListProfessors(c *gin.Context) {
	summaries, err := h.ledger.ListProfessors(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if summaries == nil {
		summaries = []models.ProfessorHourSummary{}
	}
	response.JSON(c, http.StatusOK, summaries, nil)
}

// ProfessorDetail godoc
// @Summary Professor balance with absences and makeups
// @Tags Professors
// @Produce json
// @Param name path string true "Professor"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /professors/{name} [get]
func (h *HoursHandler) ProfessorDetail(c *gin.Context) {
	detail, err := h.ledger.ProfessorDetail(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// SetStatus godoc
// @Summary Set a professor's status
// @Tags Professors
// @Accept json
// @Produce json
// @Param name path string true "Professor"
// @Param payload body dto.SetProfessorStatusRequest true "Status"
// @Success 200 {object} response.Envelope
// @Router /professors/{name}/status [put]
func (h *HoursHandler) SetStatus(c *gin.Context) {
	var req dto.SetProfessorStatusRequest
	if !bindJSON(c, &req, "invalid status payload") {
		return
	}
	status, err := h.professors.SetStatus(c.Request.Context(), c.Param("name"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}

// SyncStatuses godoc
// @Summary Mark listed professors Permanent and every other one Vacataire
// @Tags Professors
// @Accept json
// @Produce json
// @Param payload body dto.SyncStatusesRequest true "Permanent professors"
// @Success 200 {object} response.Envelope
// @Router /professors/statuses/sync [post]
func (h *HoursHandler) SyncStatuses(c *gin.Context) {
	var req dto.SyncStatusesRequest
	if !bindJSON(c, &req, "invalid status payload") {
		return
	}
	statuses, err := h.professors.SyncPermanent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, statuses, nil)
}
