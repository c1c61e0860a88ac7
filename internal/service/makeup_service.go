package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/00DarkGhost00/Tracking-absence/internal/canonical"
	"github.com/00DarkGhost00/Tracking-absence/internal/dto"
	"github.com/00DarkGhost00/Tracking-absence/internal/models"
	"github.com/00DarkGhost00/Tracking-absence/internal/repository"
	appErrors "github.com/00DarkGhost00/Tracking-absence/pkg/errors"
)

type makeupRepository interface {
	FindByProfessorSlot(ctx context.Context, exec sqlx.ExtContext, professor, date string, slot models.Slot) (*models.MakeupSession, error)
	FindByRoomSlot(ctx context.Context, exec sqlx.ExtContext, room, date string, slot models.Slot) (*models.MakeupSession, error)
	Create(ctx context.Context, exec sqlx.ExtContext, session *models.MakeupSession) error
	List(ctx context.Context, filter models.MakeupFilter) ([]models.MakeupSession, error)
	RoomsInUse(ctx context.Context, date string, slot models.Slot) ([]string, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type roomDirectory interface {
	DistinctRooms(ctx context.Context) ([]string, error)
	OccupiedRooms(ctx context.Context, weekday models.Weekday, slot models.Slot) ([]string, error)
	RoomsForProfessor(ctx context.Context, professor, module string) ([]string, error)
}

// MakeupService books makeup sessions without double-booking a professor or a room.
type MakeupService struct {
	makeups   makeupRepository
	rooms     roomDirectory
	tx        txProvider
	names     *canonical.Normalizer
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMakeupService constructs a MakeupService.
func NewMakeupService(makeups makeupRepository, rooms roomDirectory, tx txProvider, names *canonical.Normalizer, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *MakeupService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MakeupService{
		makeups:   makeups,
		rooms:     rooms,
		tx:        tx,
		names:     names,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

// Schedule books a makeup session. The professor constraint is checked
// before the room constraint; only other makeups are consulted, the regular
// timetable is not.
func (s *MakeupService) Schedule(ctx context.Context, req dto.CreateMakeupRequest) (session *models.MakeupSession, err error) {
	if err = s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid makeup payload")
	}
	slot, ok := models.ParseSlot(req.Slot)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown slot "+req.Slot)
	}
	professor := s.names.Name(req.Professor)
	if professor == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "professor is required")
	}
	session = &models.MakeupSession{
		Date:           strings.TrimSpace(req.Date),
		Professor:      professor,
		Slot:           slot,
		Room:           strings.TrimSpace(req.Room),
		Program:        strings.TrimSpace(req.Program),
		SemesterNumber: strings.TrimSpace(req.SemesterNumber),
		Module:         strings.TrimSpace(req.Module),
		Group:          strings.TrimSpace(req.Group),
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

	existing, err := s.makeups.FindByProfessorSlot(ctx, tx, session.Professor, session.Date, session.Slot)
	if err != nil {
		err = appErrors.Store(err, "failed to check professor availability")
		return nil, err
	}
	if existing != nil {
		err = s.conflict(models.ConstraintProfessor, session, existing)
		return nil, err
	}
	if session.Room != "" {
		existing, err = s.makeups.FindByRoomSlot(ctx, tx, session.Room, session.Date, session.Slot)
		if err != nil {
			err = appErrors.Store(err, "failed to check room availability")
			return nil, err
		}
		if existing != nil {
			err = s.conflict(models.ConstraintRoom, session, existing)
			return nil, err
		}
	}

	if err = s.makeups.Create(ctx, tx, session); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// A concurrent booking won the race; the tx is unusable past this point.
			_ = tx.Rollback()
			err = s.raceConflict(ctx, session)
			return nil, err
		}
		err = appErrors.Store(err, "failed to create makeup session")
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		err = appErrors.Store(err, "failed to commit makeup session")
		return nil, err
	}

	s.metrics.RecordMakeupScheduled()
	s.logger.Info("makeup scheduled",
		zap.String("id", session.ID),
		zap.String("professor", session.Professor),
		zap.String("date", session.Date),
		zap.String("slot", string(session.Slot)),
		zap.String("room", session.Room),
	)
	s.cache.InvalidateDerived(ctx)
	return session, nil
}

func (s *MakeupService) raceConflict(ctx context.Context, session *models.MakeupSession) error {
	if existing, err := s.makeups.FindByProfessorSlot(ctx, nil, session.Professor, session.Date, session.Slot); err == nil && existing != nil {
		return s.conflict(models.ConstraintProfessor, session, existing)
	}
	existing, _ := s.makeups.FindByRoomSlot(ctx, nil, session.Room, session.Date, session.Slot)
	return s.conflict(models.ConstraintRoom, session, existing)
}

func (s *MakeupService) conflict(constraint models.MakeupConstraint, session, existing *models.MakeupSession) error {
	var msg string
	switch constraint {
	case models.ConstraintProfessor:
		msg = fmt.Sprintf("professor %s already has a makeup on %s at %s", session.Professor, session.Date, session.Slot)
	default:
		msg = fmt.Sprintf("room %s is already booked on %s at %s", session.Room, session.Date, session.Slot)
	}
	detail := &models.MakeupConflictError{Constraint: constraint, Message: msg, Conflict: existing}
	appErr := appErrors.Wrap(detail, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, msg)
	appErr.Details = detail

	s.metrics.RecordMakeupConflict(constraint)
	s.logger.Info("makeup conflict",
		zap.String("constraint", string(constraint)),
		zap.String("professor", session.Professor),
		zap.String("room", session.Room),
		zap.String("date", session.Date),
		zap.String("slot", string(session.Slot)),
	)
	return appErr
}

// AvailableRooms lists the professor's usual rooms and the rooms free at a
// date and slot. A room is free when neither the timetable nor another
// makeup occupies it.
func (s *MakeupService) AvailableRooms(ctx context.Context, query dto.AvailableRoomsQuery) (*models.AvailableRooms, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "date and slot are required")
	}
	slot, ok := models.ParseSlot(query.Slot)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown slot "+query.Slot)
	}
	day, err := models.ParseDate(query.Date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "date must be YYYY-MM-DD")
	}
	weekday := models.WeekdayOf(day)

	all, err := s.rooms.DistinctRooms(ctx)
	if err != nil {
		return nil, appErrors.Store(err, "failed to list rooms")
	}
	occupied, err := s.rooms.OccupiedRooms(ctx, weekday, slot)
	if err != nil {
		return nil, appErrors.Store(err, "failed to list occupied rooms")
	}
	booked, err := s.makeups.RoomsInUse(ctx, query.Date, slot)
	if err != nil {
		return nil, appErrors.Store(err, "failed to list booked rooms")
	}

	taken := make(map[string]struct{}, len(occupied)+len(booked))
	for _, r := range occupied {
		taken[r] = struct{}{}
	}
	for _, r := range booked {
		taken[r] = struct{}{}
	}
	free := make([]string, 0, len(all))
	for _, r := range all {
		if _, busy := taken[r]; !busy {
			free = append(free, r)
		}
	}
	sort.Strings(free)

	usual := []string{}
	if professor := s.names.Name(query.Professor); professor != "" {
		usual, err = s.rooms.RoomsForProfessor(ctx, professor, strings.TrimSpace(query.Module))
		if err != nil {
			return nil, appErrors.Store(err, "failed to list usual rooms")
		}
		if usual == nil {
			usual = []string{}
		}
	}

	return &models.AvailableRooms{
		Date:       query.Date,
		Weekday:    weekday,
		Slot:       slot,
		UsualRooms: usual,
		FreeRooms:  free,
	}, nil
}

// List returns makeups, newest first.
func (s *MakeupService) List(ctx context.Context, query dto.MakeupQuery) ([]models.MakeupSession, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid makeup filter")
	}
	sessions, err := s.makeups.List(ctx, models.MakeupFilter{Professor: s.names.Name(query.Professor), Date: query.Date})
	if err != nil {
		return nil, appErrors.Store(err, "failed to list makeups")
	}
	return sessions, nil
}

// Delete removes a makeup. Deleting an unknown id is a no-op.
func (s *MakeupService) Delete(ctx context.Context, id string) error {
	deleted, err := s.makeups.Delete(ctx, id)
	if err != nil {
		return appErrors.Store(err, "failed to delete makeup")
	}
	if deleted {
		s.logger.Info("makeup deleted", zap.String("id", id))
		s.cache.InvalidateDerived(ctx)
	}
	return nil
}
