package service

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/00DarkGhost00/Tracking-absence/internal/dto"
	"github.com/00DarkGhost00/Tracking-absence/internal/models"
	"github.com/00DarkGhost00/Tracking-absence/internal/repository"
	appErrors "github.com/00DarkGhost00/Tracking-absence/pkg/errors"
	"github.com/00DarkGhost00/Tracking-absence/pkg/jobs"
	"github.com/00DarkGhost00/Tracking-absence/pkg/storage"
)

type memoryJobStore struct {
	jobs map[string]*models.ReportJob
	seq  int
}

func newMemoryJobStore() *memoryJobStore {
	return &memoryJobStore{jobs: map[string]*models.ReportJob{}}
}

func (m *memoryJobStore) Create(ctx context.Context, job *models.ReportJob) error {
	m.seq++
	job.ID = fmt.Sprintf("job-%d", m.seq)
	job.CreatedAt = time.Now().UTC()
	stored := *job
	m.jobs[job.ID] = &stored
	return nil
}

func (m *memoryJobStore) GetByID(ctx context.Context, id string) (*models.ReportJob, error) {
	job, ok := m.jobs[id]
	if !ok {
		return nil, fmt.Errorf("get report job: %w", sql.ErrNoRows)
	}
	copied := *job
	return &copied, nil
}

func (m *memoryJobStore) Update(ctx context.Context, id string, params repository.UpdateReportJobParams) error {
	job, ok := m.jobs[id]
	if !ok {
		return sql.ErrNoRows
	}
	if params.Status != nil {
		job.Status = *params.Status
	}
	if params.Progress != nil {
		job.Progress = *params.Progress
	}
	if params.ResultURL != nil {
		job.ResultURL = params.ResultURL
	}
	if params.ErrorMessage != nil {
		job.ErrorMessage = params.ErrorMessage
	}
	if params.FinishedAt != nil {
		job.FinishedAt = params.FinishedAt
	}
	return nil
}

func (m *memoryJobStore) ListQueued(ctx context.Context, limit int) ([]models.ReportJob, error) {
	var out []models.ReportJob
	for _, job := range m.jobs {
		if job.Status == models.ReportStatusQueued {
			out = append(out, *job)
		}
	}
	return out, nil
}

func (m *memoryJobStore) ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ReportJob, error) {
	return nil, nil
}

type queueStub struct {
	enqueued []jobs.Job
	err      error
}

func (q *queueStub) Enqueue(job jobs.Job) error {
	if q.err != nil {
		return q.err
	}
	q.enqueued = append(q.enqueued, job)
	return nil
}

type absenceExportStub []models.AbsenceRecord

func (s absenceExportStub) List(ctx context.Context, filter models.AbsenceFilter) ([]models.AbsenceRecord, int, error) {
	return s, len(s), nil
}

type makeupExportStub []models.MakeupSession

func (s makeupExportStub) List(ctx context.Context, filter models.MakeupFilter) ([]models.MakeupSession, error) {
	return s, nil
}

type hoursExportStub []models.ProfessorHourSummary

func (s hoursExportStub) ListProfessors(ctx context.Context) ([]models.ProfessorHourSummary, error) {
	return s, nil
}

func newTestExporter(t *testing.T) *ExportService {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	absences := absenceExportStub{{Date: "2025-11-10", Weekday: models.Lundi, Slot: models.SlotMorning, Professor: "DUPONT", Room: "B203"}}
	makeups := makeupExportStub{{Date: "2025-11-20", Slot: models.SlotMorning, Professor: "DUPONT", Room: "A101"}}
	hours := hoursExportStub{{Professor: "DUPONT", TheoreticalHours: 33, AbsenceCount: 1, AbsenceHours: 3, RealizedHours: 30}}
	return NewExportService(absences, makeups, hours, store, storage.NewSignedURLSigner("secret", time.Hour), ExportConfig{APIPrefix: "/api/v1"}, nil)
}

func TestReportServiceCreateJob(t *testing.T) {
	repo := newMemoryJobStore()
	queue := &queueStub{}
	svc := NewReportService(repo, queue, nil, nil, nil, nil, ReportServiceConfig{})

	resp, err := svc.CreateJob(context.Background(), dto.ReportRequest{Type: models.ReportTypeAbsences, Format: "CSV", Professor: " dupont "}, "guard-1")
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusQueued, resp.Status)
	require.Len(t, queue.enqueued, 1)
	assert.Equal(t, resp.ID, queue.enqueued[0].ID)

	stored := repo.jobs[resp.ID]
	assert.Equal(t, models.ReportFormatCSV, stored.Params.Format)
	assert.Equal(t, "DUPONT", stored.Params.Professor)
	assert.Equal(t, "guard-1", stored.CreatedBy)

	_, err = svc.CreateJob(context.Background(), dto.ReportRequest{Type: "GRADES", Format: "csv"}, "guard-1")
	requireAppError(t, err, appErrors.ErrValidation)
	_, err = svc.CreateJob(context.Background(), dto.ReportRequest{Type: models.ReportTypeMakeups, Format: "pdf", From: "2025-12-01", To: "2025-11-01"}, "guard-1")
	requireAppError(t, err, appErrors.ErrInvalidRange)
}

func TestReportServiceCreateJobEnqueueFailure(t *testing.T) {
	repo := newMemoryJobStore()
	svc := NewReportService(repo, &queueStub{err: jobs.ErrQueueClosed}, nil, nil, nil, nil, ReportServiceConfig{})

	_, err := svc.CreateJob(context.Background(), dto.ReportRequest{Type: models.ReportTypeMakeups, Format: "pdf"}, "admin")
	requireAppError(t, err, appErrors.ErrInternal)
	require.Len(t, repo.jobs, 1)
	for _, job := range repo.jobs {
		assert.Equal(t, models.ReportStatusFailed, job.Status)
	}
}

func TestReportServiceGetStatusVisibility(t *testing.T) {
	repo := newMemoryJobStore()
	svc := NewReportService(repo, &queueStub{}, nil, nil, nil, nil, ReportServiceConfig{})
	resp, err := svc.CreateJob(context.Background(), dto.ReportRequest{Type: models.ReportTypeProfessorHours, Format: "csv"}, "guard-1")
	require.NoError(t, err)

	_, err = svc.GetStatus(context.Background(), resp.ID, "guard-2", models.RoleGuard)
	requireAppError(t, err, appErrors.ErrForbidden)

	status, err := svc.GetStatus(context.Background(), resp.ID, "someone", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.ReportTypeProfessorHours, status.Type)

	_, err = svc.GetStatus(context.Background(), "missing", "guard-1", models.RoleGuard)
	requireAppError(t, err, appErrors.ErrNotFound)
}

func TestReportWorkerGeneratesDownloadableExport(t *testing.T) {
	repo := newMemoryJobStore()
	exporter := newTestExporter(t)
	svc := NewReportService(repo, &queueStub{}, exporter, nil, nil, nil, ReportServiceConfig{})
	worker := NewReportWorker(repo, exporter, 3, nil)

	for _, reportType := range []models.ReportType{models.ReportTypeAbsences, models.ReportTypeMakeups, models.ReportTypeProfessorHours} {
		resp, err := svc.CreateJob(context.Background(), dto.ReportRequest{Type: reportType, Format: "csv"}, "guard-1")
		require.NoError(t, err)
		require.NoError(t, worker.Handle(context.Background(), jobs.Job{ID: resp.ID, Type: string(reportType), Attempt: 1}))

		status, err := svc.GetStatus(context.Background(), resp.ID, "guard-1", models.RoleGuard)
		require.NoError(t, err)
		assert.Equal(t, models.ReportStatusFinished, status.Status)
		assert.Equal(t, 100, status.Progress)
		require.NotNil(t, status.ResultURL)
		assert.Contains(t, *status.ResultURL, "/api/v1/reports/download?token=")

		download, err := svc.ResolveDownload(context.Background(), extractToken(*status.ResultURL))
		require.NoError(t, err)
		content, err := io.ReadAll(download.File)
		download.File.Close()
		require.NoError(t, err)
		assert.Contains(t, string(content), "DUPONT")
		assert.Equal(t, models.ReportFormatCSV, download.Format)
	}

	_, err := svc.ResolveDownload(context.Background(), "forged.token.value.sig")
	requireAppError(t, err, appErrors.ErrForbidden)
}

type failingExporter struct{}

func (failingExporter) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	return nil, assert.AnError
}

func TestReportWorkerFailureRequeuesUntilMaxRetries(t *testing.T) {
	repo := newMemoryJobStore()
	svc := NewReportService(repo, &queueStub{}, nil, nil, nil, nil, ReportServiceConfig{})
	worker := NewReportWorker(repo, failingExporter{}, 2, nil)
	resp, err := svc.CreateJob(context.Background(), dto.ReportRequest{Type: models.ReportTypeAbsences, Format: "pdf"}, "guard-1")
	require.NoError(t, err)

	require.Error(t, worker.Handle(context.Background(), jobs.Job{ID: resp.ID, Attempt: 1}))
	assert.Equal(t, models.ReportStatusQueued, repo.jobs[resp.ID].Status)
	assert.Nil(t, repo.jobs[resp.ID].FinishedAt)

	require.Error(t, worker.Handle(context.Background(), jobs.Job{ID: resp.ID, Attempt: 2}))
	job := repo.jobs[resp.ID]
	assert.Equal(t, models.ReportStatusFailed, job.Status)
	require.NotNil(t, job.ErrorMessage)
	assert.Equal(t, assert.AnError.Error(), *job.ErrorMessage)
}
