package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/00DarkGhost00/Tracking-absence/internal/dto"
	"github.com/00DarkGhost00/Tracking-absence/internal/models"
	"github.com/00DarkGhost00/Tracking-absence/pkg/response"
)

type semesterService interface {
	Get(ctx context.Context) (*models.SemesterConfig, error)
	Update(ctx context.Context, req dto.UpdateSemesterRequest, actor *models.JWTClaims) (*models.SemesterConfig, error)
	Reset(ctx context.Context) error
}

// SemesterHandler exposes the active semester.
type SemesterHandler struct {
	service semesterService
}

// NewSemesterHandler builds a new handler.
func NewSemesterHandler(service semesterService) *SemesterHandler {
	return &SemesterHandler{service: service}
}

// Get godoc
// @Summary Get the active semester
// @Tags Semester
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /semester [get]
func (h *SemesterHandler) Get(c *gin.Context) {
	semester, err := h.service.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, semester, nil)
}

// Update godoc
// @Summary Set the semester bounds
// @Tags Semester
// @Accept json
// @Produce json
// @Param payload body dto.UpdateSemesterRequest true "Semester bounds"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /semester [put]
func (h *SemesterHandler) Update(c *gin.Context) {
	var req dto.UpdateSemesterRequest
	if !bindJSON(c, &req, "invalid semester payload") {
		return
	}
	semester, err := h.service.Update(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, semester, nil)
}

// Reset godoc
// @Summary Delete the timetable, absences and makeups of the semester
// @Tags Semester
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /semester/reset [post]
func (h *SemesterHandler) Reset(c *gin.Context) {
	if err := h.service.Reset(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.ResetSemesterResponse{Reset: true}, nil)
}
