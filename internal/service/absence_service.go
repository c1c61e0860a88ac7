package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/00DarkGhost00/Tracking-absence/internal/canonical"
	"github.com/00DarkGhost00/Tracking-absence/internal/dto"
	"github.com/00DarkGhost00/Tracking-absence/internal/models"
	appErrors "github.com/00DarkGhost00/Tracking-absence/pkg/errors"
)

type absenceRepository interface {
	CreateIfAbsent(ctx context.Context, exec sqlx.ExtContext, record *models.AbsenceRecord) (bool, error)
	List(ctx context.Context, filter models.AbsenceFilter) ([]models.AbsenceRecord, int, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type slotSessionFinder interface {
	ListBySlotRooms(ctx context.Context, exec sqlx.ExtContext, weekday models.Weekday, slot models.Slot, rooms []string) ([]models.ScheduledSession, error)
}

// AbsenceService turns guard observations into absence records.
type AbsenceService struct {
	absences  absenceRepository
	sessions  slotSessionFinder
	tx        txProvider
	names     *canonical.Normalizer
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAbsenceService constructs an AbsenceService.
func NewAbsenceService(absences absenceRepository, sessions slotSessionFinder, tx txProvider, names *canonical.Normalizer, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *AbsenceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AbsenceService{
		absences:  absences,
		sessions:  sessions,
		tx:        tx,
		names:     names,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

// Reconcile records an absence for every session scheduled in one of the
// empty rooms at the observed date and slot. A session already recorded
// for that date is skipped, so replaying an observation creates nothing.
func (s *AbsenceService) Reconcile(ctx context.Context, req dto.ReconcileRequest) (result *models.ReconcileResult, err error) {
	obs, err := s.observation(req)
	if err != nil {
		return nil, err
	}
	day, _ := models.ParseDate(obs.Date)
	weekday := models.WeekdayOf(day)

	tx, err := beginTx(ctx, s.tx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	sessions, err := s.sessions.ListBySlotRooms(ctx, tx, weekday, obs.Slot, obs.EmptyRooms)
	if err != nil {
		err = appErrors.Store(err, "failed to load scheduled sessions")
		return nil, err
	}

	result = &models.ReconcileResult{
		Date:    obs.Date,
		Weekday: weekday,
		Slot:    obs.Slot,
		Matched: len(sessions),
		Records: make([]models.AbsenceRecord, 0, len(sessions)),
	}
	matchedRooms := make(map[string]struct{}, len(sessions))
	for _, session := range sessions {
		matchedRooms[session.Room] = struct{}{}
		record := models.NewAbsenceFromSession(session, obs.Date, obs.Reason)
		created, createErr := s.absences.CreateIfAbsent(ctx, tx, &record)
		if createErr != nil {
			err = appErrors.Store(createErr, "failed to record absence")
			return nil, err
		}
		if !created {
			result.Skipped++
			continue
		}
		result.Created++
		result.Records = append(result.Records, record)
	}
	for _, room := range obs.EmptyRooms {
		if _, ok := matchedRooms[room]; !ok {
			result.NoMatch = append(result.NoMatch, room)
		}
	}

	if err = tx.Commit(); err != nil {
		err = appErrors.Store(err, "failed to commit reconciliation")
		return nil, err
	}

	s.metrics.RecordReconciliation(result.Created, result.Skipped)
	s.logger.Info("absences reconciled",
		zap.String("date", obs.Date),
		zap.String("slot", string(obs.Slot)),
		zap.Int("rooms", len(obs.EmptyRooms)),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
	)
	if result.Created > 0 {
		s.cache.InvalidateDerived(ctx)
	}
	return result, nil
}

func (s *AbsenceService) observation(req dto.ReconcileRequest) (*models.Observation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidObservation.Code, appErrors.ErrInvalidObservation.Status, "date, slot and at least one room are required")
	}
	if _, err := models.ParseDate(req.Date); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidObservation.Code, appErrors.ErrInvalidObservation.Status, "date must be YYYY-MM-DD")
	}
	slot, ok := models.ParseSlot(req.Slot)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInvalidObservation, "unknown slot "+req.Slot)
	}
	rooms := uniqueTrimmed(req.EmptyRooms)
	if len(rooms) == 0 {
		return nil, appErrors.Clone(appErrors.ErrInvalidObservation, "at least one non-blank room is required")
	}
	return &models.Observation{
		Date:       strings.TrimSpace(req.Date),
		Slot:       slot,
		EmptyRooms: rooms,
		Reason:     strings.TrimSpace(req.Reason),
	}, nil
}

// List returns a page of absence records, newest first.
func (s *AbsenceService) List(ctx context.Context, query dto.AbsenceQuery) ([]models.AbsenceRecord, *models.Pagination, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid absence filter")
	}
	if query.From != "" && query.To != "" && query.From > query.To {
		return nil, nil, appErrors.Clone(appErrors.ErrInvalidRange, "from is after to")
	}
	filter := models.AbsenceFilter{
		Professor: s.names.Name(query.Professor),
		From:      query.From,
		To:        query.To,
		Page:      query.Page,
		PageSize:  query.PageSize,
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	records, total, err := s.absences.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Store(err, "failed to list absences")
	}
	return records, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Delete removes an absence record. Deleting an unknown id is a no-op.
func (s *AbsenceService) Delete(ctx context.Context, id string) error {
	deleted, err := s.absences.Delete(ctx, id)
	if err != nil {
		return appErrors.Store(err, "failed to delete absence")
	}
	if deleted {
		s.logger.Info("absence deleted", zap.String("id", id))
		s.cache.InvalidateDerived(ctx)
	}
	return nil
}

func uniqueTrimmed(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
