package service

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/00DarkGhost00/Tracking-absence/internal/models"
	"github.com/00DarkGhost00/Tracking-absence/pkg/export"
	"github.com/00DarkGhost00/Tracking-absence/pkg/storage"
)

type absenceExportSource interface {
	List(ctx context.Context, filter models.AbsenceFilter) ([]models.AbsenceRecord, int, error)
}

type makeupExportSource interface {
	List(ctx context.Context, filter models.MakeupFilter) ([]models.MakeupSession, error)
}

type hoursExportSource interface {
	ListProfessors(ctx context.Context) ([]models.ProfessorHourSummary, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ReportFormat
	ExpiresAt    time.Time
}

// ExportService builds report datasets and persists rendered files.
type ExportService struct {
	absences  absenceExportSource
	makeups   makeupExportSource
	hours     hoursExportSource
	storage   fileStorage
	renderers map[models.ReportFormat]export.Renderer
	signer    *storage.SignedURLSigner
	logger    *zap.Logger
	cfg       ExportConfig
	now       func() time.Time
}

// NewExportService constructs an ExportService with CSV and PDF renderers.
func NewExportService(absences absenceExportSource, makeups makeupExportSource, hours hoursExportSource, store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ExportService{
		absences: absences,
		makeups:  makeups,
		hours:    hours,
		storage:  store,
		renderers: map[models.ReportFormat]export.Renderer{
			models.ReportFormatCSV: export.NewCSVExporter(),
			models.ReportFormatPDF: export.NewPDFExporter(),
		},
		signer: signer,
		logger: logger,
		cfg:    cfg,
		now:    time.Now,
	}
}

// Generate builds the dataset for job and stores the rendered export.
func (s *ExportService) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	renderer, ok := s.renderers[job.Params.Format]
	if !ok {
		return nil, fmt.Errorf("unsupported format %s", job.Params.Format)
	}
	dataset, err := s.buildDataset(ctx, job)
	if err != nil {
		return nil, err
	}
	payload, err := renderer.Render(dataset)
	if err != nil {
		return nil, err
	}

	relPath, err := s.storage.Save(s.buildFilename(job, renderer.Extension()), payload)
	if err != nil {
		return nil, err
	}
	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	s.logger.Debug("report rendered", zap.String("job_id", job.ID), zap.String("path", relPath), zap.Int("rows", len(dataset.Rows)))
	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/reports/download?token=%s", prefix, url.QueryEscape(token)),
		Format:       job.Params.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildFilename(job *models.ReportJob, ext string) string {
	timestamp := s.now().UTC().Format("20060102_150405")
	subject := sanitizeFilename(job.Params.Professor)
	return fmt.Sprintf("%s_%s_%s.%s", strings.ToLower(string(job.Type)), subject, timestamp, ext)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "all"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func (s *ExportService) buildDataset(ctx context.Context, job *models.ReportJob) (export.Dataset, error) {
	switch job.Type {
	case models.ReportTypeAbsences:
		return s.buildAbsenceDataset(ctx, job.Params)
	case models.ReportTypeMakeups:
		return s.buildMakeupDataset(ctx, job.Params)
	case models.ReportTypeProfessorHours:
		return s.buildHoursDataset(ctx, job.Params)
	default:
		return export.Dataset{}, fmt.Errorf("unsupported report type %s", job.Type)
	}
}

func (s *ExportService) buildAbsenceDataset(ctx context.Context, params models.ReportJobParams) (export.Dataset, error) {
	records, _, err := s.absences.List(ctx, models.AbsenceFilter{Professor: params.Professor, From: params.From, To: params.To})
	if err != nil {
		return export.Dataset{}, err
	}
	rows := make([]map[string]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, map[string]string{
			"Date":      r.Date,
			"Weekday":   string(r.Weekday),
			"Slot":      string(r.Slot),
			"Professor": r.Professor,
			"Program":   r.Program,
			"Module":    r.Module,
			"Room":      r.Room,
			"Reason":    r.Reason,
		})
	}
	return export.Dataset{
		Title:   reportTitle("Absences", params),
		Headers: []string{"Date", "Weekday", "Slot", "Professor", "Program", "Module", "Room", "Reason"},
		Rows:    rows,
	}, nil
}

func (s *ExportService) buildMakeupDataset(ctx context.Context, params models.ReportJobParams) (export.Dataset, error) {
	sessions, err := s.makeups.List(ctx, models.MakeupFilter{Professor: params.Professor})
	if err != nil {
		return export.Dataset{}, err
	}
	rows := make([]map[string]string, 0, len(sessions))
	for _, m := range sessions {
		if (params.From != "" && m.Date < params.From) || (params.To != "" && m.Date > params.To) {
			continue
		}
		rows = append(rows, map[string]string{
			"Date":      m.Date,
			"Slot":      string(m.Slot),
			"Professor": m.Professor,
			"Room":      m.Room,
			"Module":    m.Module,
			"Group":     m.Group,
		})
	}
	return export.Dataset{
		Title:   reportTitle("Makeup sessions", params),
		Headers: []string{"Date", "Slot", "Professor", "Room", "Module", "Group"},
		Rows:    rows,
	}, nil
}

func (s *ExportService) buildHoursDataset(ctx context.Context, params models.ReportJobParams) (export.Dataset, error) {
	summaries, err := s.hours.ListProfessors(ctx)
	if err != nil {
		return export.Dataset{}, err
	}
	rows := make([]map[string]string, 0, len(summaries))
	for _, p := range summaries {
		if params.Professor != "" && p.Professor != params.Professor {
			continue
		}
		rows = append(rows, map[string]string{
			"Professor":   p.Professor,
			"Status":      string(p.Status),
			"Theoretical": strconv.Itoa(p.TheoreticalHours),
			"Absences":    strconv.Itoa(p.AbsenceCount),
			"Missed":      strconv.Itoa(p.AbsenceHours),
			"Makeups":     strconv.Itoa(p.MakeupCount),
			"Recovered":   strconv.Itoa(p.MakeupHours),
			"Realized":    strconv.Itoa(p.RealizedHours),
		})
	}
	return export.Dataset{
		Title:   reportTitle("Professor hours", params),
		Headers: []string{"Professor", "Status", "Theoretical", "Absences", "Missed", "Makeups", "Recovered", "Realized"},
		Rows:    rows,
	}, nil
}

func reportTitle(base string, params models.ReportJobParams) string {
	title := base
	if params.Professor != "" {
		title += " - " + params.Professor
	}
	if params.From != "" || params.To != "" {
		title += fmt.Sprintf(" (%s to %s)", orDash(params.From), orDash(params.To))
	}
	return title
}

func orDash(v string) string {
	if v == "" {
		return "..."
	}
	return v
}
