package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/00DarkGhost00/Tracking-absence/internal/models"
	appErrors "github.com/00DarkGhost00/Tracking-absence/pkg/errors"
)

type absenceStats interface {
	Count(ctx context.Context) (int, error)
	Top(ctx context.Context, dimension string) (*models.RankedCount, error)
	Recent(ctx context.Context, limit int) ([]models.AbsenceRecord, error)
}

type makeupCounter interface {
	Count(ctx context.Context) (int, error)
}

type fleetProvider interface {
	FleetSummary(ctx context.Context) (*models.FleetHourSummary, error)
}

// DashboardServiceConfig tunes dashboard composition.
type DashboardServiceConfig struct {
	CacheTTL    time.Duration
	RecentLimit int
}

// DashboardService composes the institution overview.
type DashboardService struct {
	absences absenceStats
	makeups  makeupCounter
	ledger   fleetProvider
	cache    *CacheService
	logger   *zap.Logger
	now      func() time.Time
	cfg      DashboardServiceConfig
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Absences absenceStats
	Makeups  makeupCounter
	Ledger   fleetProvider
	Cache    *CacheService
	Logger   *zap.Logger
	Config   DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.RecentLimit <= 0 {
		cfg.RecentLimit = 15
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		absences: params.Absences,
		makeups:  params.Makeups,
		ledger:   params.Ledger,
		cache:    params.Cache,
		logger:   logger,
		now:      time.Now,
		cfg:      cfg,
	}
}

// Overview returns dashboard stats and whether they came from cache.
func (s *DashboardService) Overview(ctx context.Context) (*models.DashboardStats, bool, error) {
	var cached models.DashboardStats
	if hit, err := s.cache.Get(ctx, cacheKeyDashboard, &cached); err == nil && hit {
		return &cached, true, nil
	}

	stats, err := s.compose(ctx)
	if err != nil {
		return nil, false, err
	}
	if err := s.cache.Set(ctx, cacheKeyDashboard, stats, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.Error(err))
	}
	return stats, false, nil
}

func (s *DashboardService) compose(ctx context.Context) (*models.DashboardStats, error) {
	totalAbsences, err := s.absences.Count(ctx)
	if err != nil {
		return nil, appErrors.Store(err, "failed to count absences")
	}
	totalMakeups, err := s.makeups.Count(ctx)
	if err != nil {
		return nil, appErrors.Store(err, "failed to count makeups")
	}
	stats := &models.DashboardStats{
		TotalAbsences: totalAbsences,
		TotalMakeups:  totalMakeups,
		RecoveryRate:  recoveryRate(totalMakeups, totalAbsences),
		GeneratedAt:   s.now().UTC(),
	}
	if stats.TopProfessor, err = s.absences.Top(ctx, "professor"); err != nil {
		return nil, appErrors.Store(err, "failed to rank professors")
	}
	if stats.TopProgram, err = s.absences.Top(ctx, "program"); err != nil {
		return nil, appErrors.Store(err, "failed to rank programs")
	}
	if stats.TopWeekday, err = s.absences.Top(ctx, "weekday"); err != nil {
		return nil, appErrors.Store(err, "failed to rank weekdays")
	}
	recent, err := s.absences.Recent(ctx, s.cfg.RecentLimit)
	if err != nil {
		return nil, appErrors.Store(err, "failed to load recent absences")
	}
	if recent == nil {
		recent = []models.AbsenceRecord{}
	}
	stats.RecentAbsences = recent

	fleet, err := s.ledger.FleetSummary(ctx)
	if err != nil {
		return nil, err
	}
	stats.Fleet = *fleet
	return stats, nil
}

// recoveryRate is makeups per absence as a percentage, 0 without absences.
func recoveryRate(makeups, absences int) float64 {
	if absences == 0 {
		return 0
	}
	return round2(float64(makeups) / float64(absences) * 100)
}
