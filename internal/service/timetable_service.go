package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/00DarkGhost00/Tracking-absence/internal/canonical"
	"github.com/00DarkGhost00/Tracking-absence/internal/dto"
	"github.com/00DarkGhost00/Tracking-absence/internal/models"
	appErrors "github.com/00DarkGhost00/Tracking-absence/pkg/errors"
)

const searchLimit = 50

type timetableRepository interface {
	List(ctx context.Context, filter models.TimetableFilter) ([]models.ScheduledSession, error)
	Search(ctx context.Context, q string, limit int) ([]models.ScheduledSession, error)
	ReplaceAll(ctx context.Context, exec sqlx.ExtContext, sessions []models.ScheduledSession) error
}

type absenceSearcher interface {
	Search(ctx context.Context, q string, limit int) ([]models.AbsenceRecord, error)
}

// TimetableService exposes the official weekly timetable.
type TimetableService struct {
	repo      timetableRepository
	absences  absenceSearcher
	tx        txProvider
	names     *canonical.Normalizer
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTimetableService constructs a TimetableService.
func NewTimetableService(repo timetableRepository, absences absenceSearcher, tx txProvider, names *canonical.Normalizer, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{repo: repo, absences: absences, tx: tx, names: names, cache: cache, validator: validate, logger: logger}
}

// List returns the sessions matching every non-empty filter field.
func (s *TimetableService) List(ctx context.Context, query dto.TimetableQuery) ([]models.ScheduledSession, error) {
	filter := models.TimetableFilter{
		Professor: s.names.Name(query.Professor),
		Program:   strings.TrimSpace(query.Program),
		Module:    strings.TrimSpace(query.Module),
		Room:      strings.TrimSpace(query.Room),
	}
	if query.Weekday != "" {
		day, ok := models.ParseWeekday(query.Weekday)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown weekday "+query.Weekday)
		}
		filter.Weekday = day
	}
	if query.Slot != "" {
		slot, ok := models.ParseSlot(query.Slot)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown slot "+query.Slot)
		}
		filter.Slot = slot
	}
	sessions, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Store(err, "failed to list timetable")
	}
	return sessions, nil
}

// Replace swaps the whole timetable for the imported rows. Professor names
// are canonicalized here, once, so every later lookup compares exact strings.
func (s *TimetableService) Replace(ctx context.Context, req dto.ReplaceTimetableRequest) (resp *dto.ReplaceTimetableResponse, err error) {
	if err = s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable payload")
	}
	sessions := make([]models.ScheduledSession, 0, len(req.Sessions))
	professors := make(map[string]struct{})
	for i, in := range req.Sessions {
		day, ok := models.ParseWeekday(in.Weekday)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("row %d: unknown weekday %q", i+1, in.Weekday))
		}
		slot, ok := models.ParseSlot(in.Slot)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("row %d: unknown slot %q", i+1, in.Slot))
		}
		professor := s.names.Name(in.Professor)
		if professor == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("row %d: professor is required", i+1))
		}
		professors[professor] = struct{}{}
		sessions = append(sessions, models.ScheduledSession{
			Professor:      professor,
			Program:        strings.TrimSpace(in.Program),
			SemesterNumber: strings.TrimSpace(in.SemesterNumber),
			Group:          strings.TrimSpace(in.Group),
			Module:         strings.TrimSpace(in.Module),
			Weekday:        day,
			Slot:           slot,
			Room:           strings.TrimSpace(in.Room),
		})
	}

	tx, err := beginTx(ctx, s.tx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = s.repo.ReplaceAll(ctx, tx, sessions); err != nil {
		err = appErrors.Store(err, "failed to replace timetable")
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		err = appErrors.Store(err, "failed to commit timetable")
		return nil, err
	}

	s.logger.Info("timetable imported", zap.Int("sessions", len(sessions)), zap.Int("professors", len(professors)))
	s.cache.InvalidateDerived(ctx)
	return &dto.ReplaceTimetableResponse{Imported: len(sessions), Professors: len(professors)}, nil
}

// Search matches q against professor and room, case-insensitively, over the
// timetable and the absence records.
func (s *TimetableService) Search(ctx context.Context, q string) (*models.SearchResult, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "search query is required")
	}
	sessions, err := s.repo.Search(ctx, q, searchLimit)
	if err != nil {
		return nil, appErrors.Store(err, "failed to search timetable")
	}
	absences, err := s.absences.Search(ctx, q, searchLimit)
	if err != nil {
		return nil, appErrors.Store(err, "failed to search absences")
	}
	if sessions == nil {
		sessions = []models.ScheduledSession{}
	}
	if absences == nil {
		absences = []models.AbsenceRecord{}
	}
	return &models.SearchResult{Query: q, Sessions: sessions, Absences: absences}, nil
}
