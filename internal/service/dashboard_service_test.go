package service

import (
	"context"
	"encoding/json"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/00DarkGhost00/Tracking-absence/internal/models"
	appErrors "github.com/00DarkGhost00/Tracking-absence/pkg/errors"
)

type memoryCacheRepo struct {
	entries map[string][]byte
	deleted []string
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: map[string][]byte{}}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.deleted = append(m.deleted, pattern)
	for key := range m.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(m.entries, key)
		}
	}
	return nil
}

type absenceStatsStub struct {
	total  int
	calls  int
	recent []models.AbsenceRecord
}

func (s *absenceStatsStub) Count(ctx context.Context) (int, error) {
	s.calls++
	return s.total, nil
}

func (s *absenceStatsStub) Top(ctx context.Context, dimension string) (*models.RankedCount, error) {
	if s.total == 0 {
		return nil, nil
	}
	return &models.RankedCount{Label: dimension + "-top", Count: 1}, nil
}

func (s *absenceStatsStub) Recent(ctx context.Context, limit int) ([]models.AbsenceRecord, error) {
	return s.recent, nil
}

type makeupCountStub int

func (s makeupCountStub) Count(ctx context.Context) (int, error) { return int(s), nil }

type fleetStub struct{}

func (fleetStub) FleetSummary(ctx context.Context) (*models.FleetHourSummary, error) {
	return &models.FleetHourSummary{Professors: 2, TheoreticalHours: 66, RealizedHours: 63, CompletionRate: 95}, nil
}

func TestDashboardServiceOverviewCachesStats(t *testing.T) {
	repo := newMemoryCacheRepo()
	cache := NewCacheService(repo, nil, time.Minute, nil, true)
	absences := &absenceStatsStub{total: 3}
	svc := NewDashboardService(DashboardServiceParams{
		Absences: absences,
		Makeups:  makeupCountStub(1),
		Ledger:   fleetStub{},
		Cache:    cache,
	})

	stats, hit, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 3, stats.TotalAbsences)
	assert.Equal(t, 33.33, stats.RecoveryRate)
	assert.Equal(t, "professor-top", stats.TopProfessor.Label)
	assert.NotNil(t, stats.RecentAbsences)
	assert.Equal(t, 95, stats.Fleet.CompletionRate)

	cached, hit, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 3, cached.TotalAbsences)
	assert.Equal(t, 1, absences.calls)

	cache.InvalidateDerived(context.Background())
	_, hit, err = svc.Overview(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.ElementsMatch(t, []string{cachePatternHours, cachePatternDashboard}, repo.deleted)
}

func TestDashboardServiceOverviewWithoutAbsences(t *testing.T) {
	svc := NewDashboardService(DashboardServiceParams{
		Absences: &absenceStatsStub{},
		Makeups:  makeupCountStub(2),
		Ledger:   fleetStub{},
	})
	stats, hit, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Zero(t, stats.RecoveryRate)
	assert.Nil(t, stats.TopProfessor)
}

func TestRecoveryRate(t *testing.T) {
	assert.Zero(t, recoveryRate(5, 0))
	assert.Equal(t, 50.0, recoveryRate(1, 2))
	assert.Equal(t, 66.67, recoveryRate(2, 3))
}
