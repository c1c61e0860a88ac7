package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/00DarkGhost00/Tracking-absence/internal/models"
)

func TestMakeupRepositorySQLite(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	repo := NewMakeupRepository(db)

	booked := &models.MakeupSession{Date: "2025-11-20", Professor: "DUPONT", Slot: models.SlotMidday, Room: "B203"}
	require.NoError(t, repo.Create(ctx, nil, booked))

	got, err := repo.FindByProfessorSlot(ctx, nil, "DUPONT", "2025-11-20", models.SlotMidday)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, booked.ID, got.ID)

	got, err = repo.FindByRoomSlot(ctx, nil, "B203", "2025-11-20", models.SlotMorning)
	require.NoError(t, err)
	assert.Nil(t, got)

	err = repo.Create(ctx, nil, &models.MakeupSession{Date: "2025-11-20", Professor: "MARTIN", Slot: models.SlotMidday, Room: "B203"})
	assert.True(t, errors.Is(err, ErrDuplicate))
	err = repo.Create(ctx, nil, &models.MakeupSession{Date: "2025-11-20", Professor: "DUPONT", Slot: models.SlotMidday, Room: "C305"})
	assert.True(t, errors.Is(err, ErrDuplicate))

	// Sessions without a room never clash on the room index.
	require.NoError(t, repo.Create(ctx, nil, &models.MakeupSession{Date: "2025-11-21", Professor: "A", Slot: models.SlotMorning}))
	require.NoError(t, repo.Create(ctx, nil, &models.MakeupSession{Date: "2025-11-21", Professor: "B", Slot: models.SlotMorning}))

	rooms, err := repo.RoomsInUse(ctx, "2025-11-20", models.SlotMidday)
	require.NoError(t, err)
	assert.Equal(t, []string{"B203"}, rooms)

	list, err := repo.List(ctx, models.MakeupFilter{Professor: "DUPONT"})
	require.NoError(t, err)
	require.Len(t, list, 1)

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	deleted, err := repo.Delete(ctx, booked.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = repo.Delete(ctx, booked.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}
