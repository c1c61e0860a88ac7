package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/00DarkGhost00/Tracking-absence/internal/dto"
	"github.com/00DarkGhost00/Tracking-absence/internal/models"
	appErrors "github.com/00DarkGhost00/Tracking-absence/pkg/errors"
)

type holidayRepository interface {
	List(ctx context.Context) ([]models.HolidayPeriod, error)
	Create(ctx context.Context, period *models.HolidayPeriod) error
	Delete(ctx context.Context, id string) (bool, error)
}

// HolidayService manages periods without teaching.
type HolidayService struct {
	repo      holidayRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewHolidayService constructs a HolidayService.
func NewHolidayService(repo holidayRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *HolidayService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HolidayService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns every holiday period ordered by start date.
func (s *HolidayService) List(ctx context.Context) ([]models.HolidayPeriod, error) {
	periods, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Store(err, "failed to list holidays")
	}
	return periods, nil
}

// Create declares a new period. Overlaps with existing periods are allowed.
func (s *HolidayService) Create(ctx context.Context, req dto.CreateHolidayRequest) (*models.HolidayPeriod, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid holiday payload")
	}
	period := &models.HolidayPeriod{
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Description: req.Description,
		Category:    models.HolidayCategory(req.Category),
	}
	if period.Category == "" {
		period.Category = models.HolidayCategoryHoliday
	}
	bounds, err := period.Range()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "dates must be YYYY-MM-DD")
	}
	if bounds.Start.After(bounds.End) {
		return nil, appErrors.ErrInvalidRange
	}
	if err := s.repo.Create(ctx, period); err != nil {
		return nil, appErrors.Store(err, "failed to create holiday")
	}
	s.logger.Info("holiday created",
		zap.String("id", period.ID),
		zap.String("start", period.StartDate),
		zap.String("end", period.EndDate),
		zap.String("category", string(period.Category)),
	)
	s.cache.InvalidateDerived(ctx)
	return period, nil
}

// Delete removes a period. Deleting an unknown id is a no-op.
func (s *HolidayService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Store(err, "failed to delete holiday")
	}
	if deleted {
		s.logger.Info("holiday deleted", zap.String("id", id))
		s.cache.InvalidateDerived(ctx)
	}
	return nil
}
