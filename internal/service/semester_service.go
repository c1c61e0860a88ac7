package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/00DarkGhost00/Tracking-absence/internal/dto"
	"github.com/00DarkGhost00/Tracking-absence/internal/models"
	appErrors "github.com/00DarkGhost00/Tracking-absence/pkg/errors"
)

type configurationRepository interface {
	ListByKeys(ctx context.Context, keys []string) ([]models.Configuration, error)
	BulkUpsert(ctx context.Context, exec sqlx.ExtContext, cfgs []models.Configuration) error
}

// Resetter empties one store inside the caller's transaction.
type Resetter interface {
	DeleteAll(ctx context.Context, exec sqlx.ExtContext) error
}

// SemesterServiceConfig carries the bounds used until an admin stores its own.
type SemesterServiceConfig struct {
	DefaultStart string
	DefaultEnd   string
}

// SemesterService reads and writes the active semester.
type SemesterService struct {
	repo      configurationRepository
	resets    []Resetter
	tx        txProvider
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	defaults  models.SemesterConfig
}

// NewSemesterService constructs a SemesterService. resets lists the stores
// emptied by Reset, in deletion order.
func NewSemesterService(repo configurationRepository, resets []Resetter, tx txProvider, cache *CacheService, validate *validator.Validate, logger *zap.Logger, cfg SemesterServiceConfig) *SemesterService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SemesterService{
		repo:      repo,
		resets:    resets,
		tx:        tx,
		cache:     cache,
		validator: validate,
		logger:    logger,
		defaults:  models.SemesterConfig{Start: cfg.DefaultStart, End: cfg.DefaultEnd},
	}
}

// Get returns the stored semester, falling back to the configured defaults per bound.
func (s *SemesterService) Get(ctx context.Context) (*models.SemesterConfig, error) {
	rows, err := s.repo.ListByKeys(ctx, []string{models.ConfigKeySemesterStart, models.ConfigKeySemesterEnd})
	if err != nil {
		return nil, appErrors.Store(err, "failed to load semester configuration")
	}
	semester := s.defaults
	for _, row := range rows {
		switch row.Key {
		case models.ConfigKeySemesterStart:
			semester.Start = row.Value
		case models.ConfigKeySemesterEnd:
			semester.End = row.Value
		}
	}
	if semester.Start == "" || semester.End == "" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "semester is not configured")
	}
	return &semester, nil
}

// Update stores new semester bounds.
func (s *SemesterService) Update(ctx context.Context, req dto.UpdateSemesterRequest, actor *models.JWTClaims) (*models.SemesterConfig, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "start and end must be YYYY-MM-DD")
	}
	semester := models.SemesterConfig{Start: req.Start, End: req.End}
	bounds, err := semester.Range()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "start and end must be YYYY-MM-DD")
	}
	if bounds.Start.After(bounds.End) {
		return nil, appErrors.ErrInvalidRange
	}

	updatedBy := userIDPtr(actor)
	cfgs := []models.Configuration{
		{Key: models.ConfigKeySemesterStart, Value: semester.Start, UpdatedBy: updatedBy},
		{Key: models.ConfigKeySemesterEnd, Value: semester.End, UpdatedBy: updatedBy},
	}
	if err := s.repo.BulkUpsert(ctx, nil, cfgs); err != nil {
		return nil, appErrors.Store(err, "failed to update semester")
	}
	s.logger.Info("semester updated", zap.String("start", semester.Start), zap.String("end", semester.End))
	s.cache.InvalidateDerived(ctx)
	return &semester, nil
}

// Reset deletes timetable rows, absences and makeups in one transaction.
// Holidays, statuses and configuration are kept.
func (s *SemesterService) Reset(ctx context.Context) (err error) {
	tx, err := beginTx(ctx, s.tx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	for _, store := range s.resets {
		if err = store.DeleteAll(ctx, tx); err != nil {
			err = appErrors.Store(err, "failed to reset semester data")
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		err = appErrors.Store(err, "failed to commit semester reset")
		return err
	}
	s.logger.Warn("semester data reset")
	s.cache.InvalidateDerived(ctx)
	return nil
}

func userIDPtr(actor *models.JWTClaims) *string {
	if actor == nil || actor.UserID == "" {
		return nil
	}
	id := actor.UserID
	return &id
}
