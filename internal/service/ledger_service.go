package service

import (
	"context"
	"errors"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/00DarkGhost00/Tracking-absence/internal/calendar"
	"github.com/00DarkGhost00/Tracking-absence/internal/canonical"
	"github.com/00DarkGhost00/Tracking-absence/internal/models"
	appErrors "github.com/00DarkGhost00/Tracking-absence/pkg/errors"
)

type semesterReader interface {
	Get(ctx context.Context) (*models.SemesterConfig, error)
}

type holidayLister interface {
	List(ctx context.Context) ([]models.HolidayPeriod, error)
}

type sessionLister interface {
	List(ctx context.Context, filter models.TimetableFilter) ([]models.ScheduledSession, error)
}

type absenceLedger interface {
	CountByProfessor(ctx context.Context) ([]models.ProfessorCount, error)
	List(ctx context.Context, filter models.AbsenceFilter) ([]models.AbsenceRecord, int, error)
}

type makeupLedger interface {
	CountByProfessor(ctx context.Context) ([]models.ProfessorCount, error)
	List(ctx context.Context, filter models.MakeupFilter) ([]models.MakeupSession, error)
}

type statusLister interface {
	List(ctx context.Context) ([]models.ProfessorStatus, error)
}

// LedgerService computes owed, missed, recovered and realized hours.
type LedgerService struct {
	semester semesterReader
	holidays holidayLister
	sessions sessionLister
	absences absenceLedger
	makeups  makeupLedger
	statuses statusLister
	names    *canonical.Normalizer
	cache    *CacheService
	logger   *zap.Logger
}

// NewLedgerService constructs a LedgerService.
func NewLedgerService(semester semesterReader, holidays holidayLister, sessions sessionLister, absences absenceLedger, makeups makeupLedger, statuses statusLister, names *canonical.Normalizer, cache *CacheService, logger *zap.Logger) *LedgerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerService{
		semester: semester,
		holidays: holidays,
		sessions: sessions,
		absences: absences,
		makeups:  makeups,
		statuses: statuses,
		names:    names,
		cache:    cache,
		logger:   logger,
	}
}

// ProfessorSummary returns the balance of one professor. An unknown
// professor has an all-zero balance.
func (s *LedgerService) ProfessorSummary(ctx context.Context, name string) (*models.ProfessorHourSummary, error) {
	professor := s.names.Name(name)
	if professor == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "professor is required")
	}
	_, counts, err := s.weekdayCounts(ctx)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessions.List(ctx, models.TimetableFilter{Professor: professor})
	if err != nil {
		return nil, appErrors.Store(err, "failed to load timetable")
	}
	_, absenceCount, err := s.absences.List(ctx, models.AbsenceFilter{Professor: professor, Page: 1, PageSize: 1})
	if err != nil {
		return nil, appErrors.Store(err, "failed to count absences")
	}
	makeups, err := s.makeups.List(ctx, models.MakeupFilter{Professor: professor})
	if err != nil {
		return nil, appErrors.Store(err, "failed to count makeups")
	}
	statuses, err := s.statusIndex(ctx)
	if err != nil {
		return nil, err
	}
	summary := balance(professor, sessions, counts, absenceCount, len(makeups))
	summary.Status = statuses[professor]
	return &summary, nil
}

// ProfessorDetail returns the balance together with the professor's absences and makeups.
func (s *LedgerService) ProfessorDetail(ctx context.Context, name string) (*models.ProfessorDetail, error) {
	summary, err := s.ProfessorSummary(ctx, name)
	if err != nil {
		return nil, err
	}
	absences, _, err := s.absences.List(ctx, models.AbsenceFilter{Professor: summary.Professor})
	if err != nil {
		return nil, appErrors.Store(err, "failed to load absences")
	}
	makeups, err := s.makeups.List(ctx, models.MakeupFilter{Professor: summary.Professor})
	if err != nil {
		return nil, appErrors.Store(err, "failed to load makeups")
	}
	if summary.TheoreticalHours == 0 && len(absences) == 0 && len(makeups) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "professor not found")
	}
	if absences == nil {
		absences = []models.AbsenceRecord{}
	}
	if makeups == nil {
		makeups = []models.MakeupSession{}
	}
	return &models.ProfessorDetail{Summary: *summary, Absences: absences, Makeups: makeups}, nil
}

// ListProfessors returns the balance of every professor appearing in the
// timetable, the absences or the makeups, sorted by name.
func (s *LedgerService) ListProfessors(ctx context.Context) ([]models.ProfessorHourSummary, error) {
	var cached []models.ProfessorHourSummary
	if hit, _ := s.cache.Get(ctx, cacheKeyProfessors, &cached); hit {
		return cached, nil
	}
	_, summaries, err := s.summaries(ctx)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, cacheKeyProfessors, summaries, 0)
	return summaries, nil
}

// FleetSummary sums every professor's balance. Rates are 0 when nothing is owed.
func (s *LedgerService) FleetSummary(ctx context.Context) (*models.FleetHourSummary, error) {
	var cached models.FleetHourSummary
	if hit, _ := s.cache.Get(ctx, cacheKeyFleet, &cached); hit {
		return &cached, nil
	}
	semester, summaries, err := s.summaries(ctx)
	if err != nil {
		return nil, err
	}
	fleet := Aggregate(summaries)
	fleet.Semester = semester
	_ = s.cache.Set(ctx, cacheKeyFleet, fleet, 0)
	return &fleet, nil
}

// Aggregate folds per-professor balances into fleet totals.
func Aggregate(summaries []models.ProfessorHourSummary) models.FleetHourSummary {
	var fleet models.FleetHourSummary
	fleet.Professors = len(summaries)
	for _, p := range summaries {
		fleet.TheoreticalHours += p.TheoreticalHours
		fleet.AbsenceHours += p.AbsenceHours
		fleet.MakeupHours += p.MakeupHours
		fleet.RealizedHours += p.RealizedHours
	}
	if fleet.TheoreticalHours > 0 {
		total := float64(fleet.TheoreticalHours)
		fleet.CompletionRate = int(math.Round(float64(fleet.RealizedHours) / total * 100))
		fleet.AbsenceRate = round2(float64(fleet.AbsenceHours) / total * 100)
		fleet.MakeupRate = round2(float64(fleet.MakeupHours) / total * 100)
	}
	return fleet
}

func (s *LedgerService) summaries(ctx context.Context) (models.SemesterConfig, []models.ProfessorHourSummary, error) {
	semester, counts, err := s.weekdayCounts(ctx)
	if err != nil {
		return models.SemesterConfig{}, nil, err
	}
	sessions, err := s.sessions.List(ctx, models.TimetableFilter{})
	if err != nil {
		return semester, nil, appErrors.Store(err, "failed to load timetable")
	}
	absenceCounts, err := s.absences.CountByProfessor(ctx)
	if err != nil {
		return semester, nil, appErrors.Store(err, "failed to count absences")
	}
	makeupCounts, err := s.makeups.CountByProfessor(ctx)
	if err != nil {
		return semester, nil, appErrors.Store(err, "failed to count makeups")
	}
	statuses, err := s.statusIndex(ctx)
	if err != nil {
		return semester, nil, err
	}

	byProfessor := make(map[string][]models.ScheduledSession)
	for _, session := range sessions {
		byProfessor[session.Professor] = append(byProfessor[session.Professor], session)
	}
	absent := make(map[string]int, len(absenceCounts))
	for _, c := range absenceCounts {
		absent[c.Professor] = c.Total
		if _, ok := byProfessor[c.Professor]; !ok {
			byProfessor[c.Professor] = nil
		}
	}
	recovered := make(map[string]int, len(makeupCounts))
	for _, c := range makeupCounts {
		recovered[c.Professor] = c.Total
		if _, ok := byProfessor[c.Professor]; !ok {
			byProfessor[c.Professor] = nil
		}
	}

	names := make([]string, 0, len(byProfessor))
	for name := range byProfessor {
		names = append(names, name)
	}
	sort.Strings(names)

	summaries := make([]models.ProfessorHourSummary, 0, len(names))
	for _, name := range names {
		summary := balance(name, byProfessor[name], counts, absent[name], recovered[name])
		summary.Status = statuses[name]
		summaries = append(summaries, summary)
	}
	return semester, summaries, nil
}

func (s *LedgerService) weekdayCounts(ctx context.Context) (models.SemesterConfig, map[models.Weekday]int, error) {
	semester, err := s.semester.Get(ctx)
	if err != nil {
		return models.SemesterConfig{}, nil, err
	}
	bounds, err := semester.Range()
	if err != nil {
		return *semester, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "stored semester bounds are not dates")
	}
	periods, err := s.holidays.List(ctx)
	if err != nil {
		return *semester, nil, appErrors.Store(err, "failed to load holidays")
	}
	ranges, err := calendar.HolidayRanges(periods)
	if err != nil {
		return *semester, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored holiday is invalid")
	}
	counts, err := calendar.WeekdayCounts(bounds.Start, bounds.End, ranges)
	if err != nil {
		if errors.Is(err, calendar.ErrInvalidRange) {
			return *semester, nil, appErrors.Clone(appErrors.ErrInvalidRange, "semester start is after its end")
		}
		return *semester, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count sessions")
	}
	return *semester, counts, nil
}

func (s *LedgerService) statusIndex(ctx context.Context) (map[string]models.ProfessorStatusKind, error) {
	if s.statuses == nil {
		return map[string]models.ProfessorStatusKind{}, nil
	}
	rows, err := s.statuses.List(ctx)
	if err != nil {
		return nil, appErrors.Store(err, "failed to load professor statuses")
	}
	index := make(map[string]models.ProfessorStatusKind, len(rows))
	for _, row := range rows {
		index[row.Professor] = row.Status
	}
	return index, nil
}

// balance applies realized = theoretical - absences + makeups. The result may be negative.
func balance(professor string, sessions []models.ScheduledSession, counts map[models.Weekday]int, absences, makeups int) models.ProfessorHourSummary {
	theoretical, load := calendar.TheoreticalHours(sessions, counts)
	absenceHours := absences * calendar.SessionDurationHours
	makeupHours := makeups * calendar.SessionDurationHours
	return models.ProfessorHourSummary{
		Professor:        professor,
		TheoreticalHours: theoretical,
		AbsenceCount:     absences,
		AbsenceHours:     absenceHours,
		MakeupCount:      makeups,
		MakeupHours:      makeupHours,
		RealizedHours:    theoretical - absenceHours + makeupHours,
		Load:             load,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
