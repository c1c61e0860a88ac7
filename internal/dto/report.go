package dto

import "github.com/00DarkGhost00/Tracking-absence/internal/models"

// ReportRequest captures POST /reports payload.
type ReportRequest struct {
	Type      models.ReportType   `json:"type" validate:"required,oneof=ABSENCES PROFESSOR_HOURS MAKEUPS"`
	Format    models.ReportFormat `json:"format" validate:"required,oneof=csv pdf CSV PDF"`
	Professor string              `json:"professor,omitempty"`
	From      string              `json:"from,omitempty" validate:"omitempty,datetime=2006-01-02"`
	To        string              `json:"to,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// ReportJobResponse is returned after enqueueing a report.
type ReportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ReportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ReportStatusResponse exposes job progress metadata.
type ReportStatusResponse struct {
	ID        string              `json:"id"`
	Type      models.ReportType   `json:"type"`
	Status    models.ReportStatus `json:"status"`
	Progress  int                 `json:"progress"`
	ResultURL *string             `json:"resultUrl,omitempty"`
	Error     *string             `json:"error,omitempty"`
}
