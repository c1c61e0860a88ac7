package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/00DarkGhost00/Tracking-absence/internal/canonical"
	"github.com/00DarkGhost00/Tracking-absence/internal/models"
	appErrors "github.com/00DarkGhost00/Tracking-absence/pkg/errors"
)

type semesterStub struct {
	semester models.SemesterConfig
}

func (s semesterStub) Get(ctx context.Context) (*models.SemesterConfig, error) {
	cp := s.semester
	return &cp, nil
}

type holidayListStub struct {
	periods []models.HolidayPeriod
}

func (s holidayListStub) List(ctx context.Context) ([]models.HolidayPeriod, error) {
	return s.periods, nil
}

type sessionListStub struct {
	sessions []models.ScheduledSession
}

func (s sessionListStub) List(ctx context.Context, filter models.TimetableFilter) ([]models.ScheduledSession, error) {
	var out []models.ScheduledSession
	for _, session := range s.sessions {
		if filter.Professor == "" || filter.Professor == session.Professor {
			out = append(out, session)
		}
	}
	return out, nil
}

type absenceLedgerStub struct {
	records []models.AbsenceRecord
}

func (s absenceLedgerStub) CountByProfessor(ctx context.Context) ([]models.ProfessorCount, error) {
	return countBy(len(s.records), func(i int) string { return s.records[i].Professor }), nil
}

func (s absenceLedgerStub) List(ctx context.Context, filter models.AbsenceFilter) ([]models.AbsenceRecord, int, error) {
	var out []models.AbsenceRecord
	for _, r := range s.records {
		if filter.Professor == "" || filter.Professor == r.Professor {
			out = append(out, r)
		}
	}
	return out, len(out), nil
}

type makeupLedgerStub struct {
	sessions []models.MakeupSession
}

func (s makeupLedgerStub) CountByProfessor(ctx context.Context) ([]models.ProfessorCount, error) {
	return countBy(len(s.sessions), func(i int) string { return s.sessions[i].Professor }), nil
}

func (s makeupLedgerStub) List(ctx context.Context, filter models.MakeupFilter) ([]models.MakeupSession, error) {
	var out []models.MakeupSession
	for _, m := range s.sessions {
		if filter.Professor == "" || filter.Professor == m.Professor {
			out = append(out, m)
		}
	}
	return out, nil
}

type statusListStub struct {
	statuses []models.ProfessorStatus
}

func (s statusListStub) List(ctx context.Context) ([]models.ProfessorStatus, error) {
	return s.statuses, nil
}

func countBy(n int, key func(int) string) []models.ProfessorCount {
	totals := map[string]int{}
	var order []string
	for i := 0; i < n; i++ {
		k := key(i)
		if _, ok := totals[k]; !ok {
			order = append(order, k)
		}
		totals[k]++
	}
	out := make([]models.ProfessorCount, 0, len(order))
	for _, k := range order {
		out = append(out, models.ProfessorCount{Professor: k, Total: totals[k]})
	}
	return out
}

var autumnSemester = semesterStub{semester: models.SemesterConfig{Start: "2025-10-06", End: "2025-12-27"}}

var winterBreak = holidayListStub{periods: []models.HolidayPeriod{{StartDate: "2025-12-22", EndDate: "2025-12-28"}}}

func TestLedgerServiceProfessorSummaryScenario(t *testing.T) {
	svc := NewLedgerService(autumnSemester, winterBreak,
		sessionListStub{sessions: []models.ScheduledSession{{Professor: "DUPONT", Weekday: models.Lundi, Slot: models.SlotMorning, Room: "A101"}}},
		absenceLedgerStub{records: []models.AbsenceRecord{{Professor: "DUPONT"}, {Professor: "DUPONT"}}},
		makeupLedgerStub{sessions: []models.MakeupSession{{Professor: "DUPONT"}}},
		statusListStub{statuses: []models.ProfessorStatus{{Professor: "DUPONT", Status: models.StatusPermanent}}},
		canonical.NewNormalizer(nil), nil, nil)

	summary, err := svc.ProfessorSummary(context.Background(), "  dupont ")
	require.NoError(t, err)
	assert.Equal(t, "DUPONT", summary.Professor)
	assert.Equal(t, models.StatusPermanent, summary.Status)
	assert.Equal(t, 33, summary.TheoreticalHours)
	assert.Equal(t, 6, summary.AbsenceHours)
	assert.Equal(t, 3, summary.MakeupHours)
	assert.Equal(t, 30, summary.RealizedHours)
	assert.Equal(t, summary.TheoreticalHours-summary.AbsenceHours+summary.MakeupHours, summary.RealizedHours)
}

func TestLedgerServiceRealizedMayBeNegative(t *testing.T) {
	absences := make([]models.AbsenceRecord, 3)
	for i := range absences {
		absences[i].Professor = "GHOST"
	}
	svc := NewLedgerService(autumnSemester, holidayListStub{}, sessionListStub{}, absenceLedgerStub{records: absences}, makeupLedgerStub{}, nil, nil, nil, nil)

	summary, err := svc.ProfessorSummary(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TheoreticalHours)
	assert.Equal(t, -9, summary.RealizedHours)
}

func TestLedgerServiceFleetSummary(t *testing.T) {
	svc := NewLedgerService(autumnSemester, winterBreak,
		sessionListStub{sessions: []models.ScheduledSession{
			{Professor: "DUPONT", Weekday: models.Lundi},
			{Professor: "MARTIN", Weekday: models.Lundi},
		}},
		absenceLedgerStub{records: []models.AbsenceRecord{{Professor: "DUPONT"}, {Professor: "LEROY"}}},
		makeupLedgerStub{sessions: []models.MakeupSession{{Professor: "DUPONT"}}},
		nil, nil, nil, nil)

	fleet, err := svc.FleetSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, fleet.Professors)
	assert.Equal(t, 66, fleet.TheoreticalHours)
	assert.Equal(t, 6, fleet.AbsenceHours)
	assert.Equal(t, 3, fleet.MakeupHours)
	assert.Equal(t, 63, fleet.RealizedHours)
	assert.Equal(t, 95, fleet.CompletionRate)
	assert.Equal(t, 9.09, fleet.AbsenceRate)
	assert.Equal(t, 4.55, fleet.MakeupRate)
	assert.Equal(t, "2025-10-06", fleet.Semester.Start)

	professors, err := svc.ListProfessors(context.Background())
	require.NoError(t, err)
	require.Len(t, professors, 3)
	assert.Equal(t, []string{"DUPONT", "LEROY", "MARTIN"}, []string{professors[0].Professor, professors[1].Professor, professors[2].Professor})
}

func TestAggregateZeroDenominator(t *testing.T) {
	fleet := Aggregate([]models.ProfessorHourSummary{{Professor: "GHOST", AbsenceHours: 3, RealizedHours: -3}})
	assert.Zero(t, fleet.CompletionRate)
	assert.Zero(t, fleet.AbsenceRate)
	assert.Zero(t, fleet.MakeupRate)
}

func TestLedgerServiceInvalidSemester(t *testing.T) {
	reversed := semesterStub{semester: models.SemesterConfig{Start: "2025-12-27", End: "2025-10-06"}}
	svc := NewLedgerService(reversed, holidayListStub{}, sessionListStub{}, absenceLedgerStub{}, makeupLedgerStub{}, nil, nil, nil, nil)
	_, err := svc.FleetSummary(context.Background())
	requireAppError(t, err, appErrors.ErrInvalidRange)
}

func TestLedgerServiceProfessorDetail(t *testing.T) {
	svc := NewLedgerService(autumnSemester, winterBreak, sessionListStub{}, absenceLedgerStub{}, makeupLedgerStub{}, nil, nil, nil, nil)
	_, err := svc.ProfessorDetail(context.Background(), "NOBODY")
	requireAppError(t, err, appErrors.ErrNotFound)

	svc = NewLedgerService(autumnSemester, winterBreak, sessionListStub{},
		absenceLedgerStub{records: []models.AbsenceRecord{{Professor: "DUPONT", Date: "2025-11-10"}}},
		makeupLedgerStub{}, nil, nil, nil, nil)
	detail, err := svc.ProfessorDetail(context.Background(), "DUPONT")
	require.NoError(t, err)
	assert.Len(t, detail.Absences, 1)
	assert.NotNil(t, detail.Makeups)
}
