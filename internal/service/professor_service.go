package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/00DarkGhost00/Tracking-absence/internal/canonical"
	"github.com/00DarkGhost00/Tracking-absence/internal/dto"
	"github.com/00DarkGhost00/Tracking-absence/internal/models"
	appErrors "github.com/00DarkGhost00/Tracking-absence/pkg/errors"
)

type statusRepository interface {
	List(ctx context.Context) ([]models.ProfessorStatus, error)
	Upsert(ctx context.Context, exec sqlx.ExtContext, statuses []models.ProfessorStatus) error
}

type professorLister interface {
	DistinctProfessors(ctx context.Context) ([]string, error)
}

type professorRenamer interface {
	Rename(ctx context.Context, exec sqlx.ExtContext, from, to string) (int64, error)
}

// ProfessorService maintains Permanent/Vacataire statuses.
type ProfessorService struct {
	statuses   statusRepository
	professors professorLister
	renamer    professorRenamer
	tx         txProvider
	names      *canonical.Normalizer
	cache      *CacheService
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewProfessorService constructs a ProfessorService.
func NewProfessorService(statuses statusRepository, professors professorLister, renamer professorRenamer, tx txProvider, names *canonical.Normalizer, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ProfessorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfessorService{statuses: statuses, professors: professors, renamer: renamer, tx: tx, names: names, cache: cache, validator: validate, logger: logger}
}

// SetStatus records the status of one professor.
func (s *ProfessorService) SetStatus(ctx context.Context, name string, req dto.SetProfessorStatusRequest) (*models.ProfessorStatus, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "status must be Permanent or Vacataire")
	}
	professor := s.names.Name(name)
	if professor == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "professor is required")
	}
	status := []models.ProfessorStatus{{Professor: professor, Status: models.ProfessorStatusKind(req.Status)}}
	if err := s.statuses.Upsert(ctx, nil, status); err != nil {
		return nil, appErrors.Store(err, "failed to update professor status")
	}
	s.cache.InvalidateDerived(ctx)
	return &status[0], nil
}

// SyncPermanent marks every timetable professor Permanent when listed and
// Vacataire otherwise.
func (s *ProfessorService) SyncPermanent(ctx context.Context, req dto.SyncStatusesRequest) (statuses []models.ProfessorStatus, err error) {
	permanent := make(map[string]struct{}, len(req.Permanent))
	for _, name := range s.names.Names(req.Permanent) {
		permanent[name] = struct{}{}
	}
	professors, err := s.professors.DistinctProfessors(ctx)
	if err != nil {
		return nil, appErrors.Store(err, "failed to list professors")
	}
	statuses = make([]models.ProfessorStatus, 0, len(professors))
	for _, professor := range professors {
		kind := models.StatusVacataire
		if _, ok := permanent[professor]; ok {
			kind = models.StatusPermanent
		}
		statuses = append(statuses, models.ProfessorStatus{Professor: professor, Status: kind})
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
	if err = s.statuses.Upsert(ctx, tx, statuses); err != nil {
		err = appErrors.Store(err, "failed to sync professor statuses")
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		err = appErrors.Store(err, "failed to commit professor statuses")
		return nil, err
	}
	s.logger.Info("professor statuses synced", zap.Int("professors", len(statuses)), zap.Int("permanent", len(permanent)))
	s.cache.InvalidateDerived(ctx)
	return statuses, nil
}

// ApplyRenames rewrites stored professor names after the corrections table
// changed, in a single transaction, so no professor ends up split across
// two spellings.
func (s *ProfessorService) ApplyRenames(ctx context.Context, renames []canonical.Rename) (err error) {
	if len(renames) == 0 || s.renamer == nil {
		return nil
	}
	tx, err := beginTx(ctx, s.tx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	var moved int64
	for _, r := range renames {
		n, renameErr := s.renamer.Rename(ctx, tx, r.From, r.To)
		if renameErr != nil {
			err = appErrors.Store(renameErr, "failed to rename professor")
			return err
		}
		if n > 0 {
			s.logger.Info("professor renamed", zap.String("from", r.From), zap.String("to", r.To), zap.Int64("rows", n))
		}
		moved += n
	}
	if err = tx.Commit(); err != nil {
		err = appErrors.Store(err, "failed to commit professor renames")
		return err
	}
	if moved > 0 {
		s.cache.InvalidateDerived(ctx)
	}
	return nil
}
