package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/00DarkGhost00/Tracking-absence/internal/models"
	appErrors "github.com/00DarkGhost00/Tracking-absence/pkg/errors"
	"github.com/00DarkGhost00/Tracking-absence/pkg/response"
)

type dashboardService interface {
	Overview(ctx context.Context) (*models.DashboardStats, bool, error)
}

// DashboardHandler wires dashboard service to HTTP endpoints.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Overview godoc
// @Summary Institution overview
// @Description Recent absences, most absent professor, program and weekday, recovery rate and fleet hours.
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Overview(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	stats, cacheHit, err := h.service.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil, withCacheMeta(c, cacheHit))
}
