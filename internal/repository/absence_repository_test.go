package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/00DarkGhost00/Tracking-absence/internal/models"
)

func absence(date, professor, program string, day models.Weekday, room string) *models.AbsenceRecord {
	return &models.AbsenceRecord{
		Date: date, Professor: professor, Program: program, Weekday: day,
		Slot: models.SlotMorning, Room: room, Reason: models.ReasonGuardReport,
	}
}

func TestAbsenceRepositoryCreateIfAbsentMock(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAbsenceRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO absence_records")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	created, err := repo.CreateIfAbsent(context.Background(), nil, absence("2025-11-10", "DUPONT", "GI", models.Lundi, "A101"))
	require.NoError(t, err)
	assert.False(t, created)
}

func TestAbsenceRepositorySQLite(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	repo := NewAbsenceRepository(db)

	first := absence("2025-11-10", "DUPONT", "GI", models.Lundi, "A101")
	created, err := repo.CreateIfAbsent(ctx, nil, first)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.CreateIfAbsent(ctx, nil, absence("2025-11-10", "DUPONT", "GI", models.Lundi, "A101"))
	require.NoError(t, err)
	assert.False(t, created)

	for _, a := range []*models.AbsenceRecord{
		absence("2025-11-11", "MARTIN", "GC", models.Mardi, "B203"),
		absence("2025-11-17", "DUPONT", "GI", models.Lundi, "A101"),
		absence("2025-11-18", "DUPONT", "GC", models.Mardi, "C305"),
	} {
		ok, err := repo.CreateIfAbsent(ctx, nil, a)
		require.NoError(t, err)
		require.True(t, ok)
	}

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, total)

	page, count, err := repo.List(ctx, models.AbsenceFilter{Professor: "DUPONT", Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	require.Len(t, page, 2)
	assert.Equal(t, "2025-11-18", page[0].Date)

	top, err := repo.Top(ctx, "professor")
	require.NoError(t, err)
	assert.Equal(t, &models.RankedCount{Label: "DUPONT", Count: 3}, top)
	top, err = repo.Top(ctx, "weekday")
	require.NoError(t, err)
	assert.Equal(t, "Lundi", top.Label)
	_, err = repo.Top(ctx, "room; DROP TABLE x")
	assert.Error(t, err)

	counts, err := repo.CountByProfessor(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.ProfessorCount{{Professor: "DUPONT", Total: 3}, {Professor: "MARTIN", Total: 1}}, counts)

	found, err := repo.Search(ctx, "mart", 50)
	require.NoError(t, err)
	require.Len(t, found, 1)

	deleted, err := repo.Delete(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = repo.Delete(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	require.NoError(t, repo.DeleteAll(ctx, nil))
	top, err = repo.Top(ctx, "program")
	require.NoError(t, err)
	assert.Nil(t, top)
}

func TestAbsenceRepositoryRecentFollowsRecordingOrder(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	repo := NewAbsenceRepository(db)

	base := time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC)
	for i, a := range []*models.AbsenceRecord{
		absence("2025-11-17", "DUPONT", "GI", models.Lundi, "A101"),
		absence("2025-11-18", "MARTIN", "GC", models.Mardi, "B203"),
		// Reported late for an earlier date.
		absence("2025-10-13", "LEROY", "GI", models.Lundi, "C305"),
	} {
		a.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		ok, err := repo.CreateIfAbsent(ctx, nil, a)
		require.NoError(t, err)
		require.True(t, ok)
	}

	recent, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "LEROY", recent[0].Professor)
	assert.Equal(t, "MARTIN", recent[1].Professor)
}
